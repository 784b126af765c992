package interop

import (
	"encoding/binary"

	"github.com/cockroachdb/errors"
	"github.com/twpayne/go-geom/encoding/wkb"
	"github.com/twpayne/go-geom/encoding/wkbcommon"
	"github.com/twpayne/go-geom/encoding/wkbhex"
	"github.com/woozymasta/geocore/internal/geo"
)

// Byte orders accepted by MarshalWKB.
var (
	NDR binary.ByteOrder = wkb.NDR
	XDR binary.ByteOrder = wkb.XDR
)

// empty points are written as NaN coordinates
var wkbOptions = []wkbcommon.WKBOption{
	wkbcommon.WKBOptionEmptyPointHandling(wkbcommon.EmptyPointHandlingNaN),
}

// MarshalWKB encodes g as ISO WKB. Type codes carry the kind offset
// (1000 for Z, 2000 for M, 3000 for ZM).
func MarshalWKB(g geo.Geometry, byteOrder binary.ByteOrder) ([]byte, error) {
	t, err := ToGeom(g)
	if err != nil {
		return nil, err
	}
	data, err := wkb.Marshal(t, byteOrder, wkbOptions...)
	if err != nil {
		return nil, errors.Wrapf(err, "marshal %s as wkb", g.Type())
	}
	return data, nil
}

// UnmarshalWKB decodes ISO WKB. The geographic flag selects the kind family.
func UnmarshalWKB(data []byte, geographic bool) (geo.Geometry, error) {
	t, err := wkb.Unmarshal(data, wkbOptions...)
	if err != nil {
		return nil, errors.Wrap(err, "unmarshal wkb")
	}
	return FromGeom(t, geographic)
}

// MarshalWKBHex encodes g as little endian hex WKB.
func MarshalWKBHex(g geo.Geometry) (string, error) {
	t, err := ToGeom(g)
	if err != nil {
		return "", err
	}
	s, err := wkbhex.Encode(t, NDR, wkbOptions...)
	if err != nil {
		return "", errors.Wrapf(err, "marshal %s as wkb", g.Type())
	}
	return s, nil
}

// UnmarshalWKBHex decodes hex WKB.
func UnmarshalWKBHex(s string, geographic bool) (geo.Geometry, error) {
	t, err := wkbhex.Decode(s, wkbOptions...)
	if err != nil {
		return nil, errors.Wrap(err, "unmarshal wkb hex")
	}
	return FromGeom(t, geographic)
}
