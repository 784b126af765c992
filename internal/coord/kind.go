// Package coord holds the coordinate data model: coordinate kinds, positions,
// flat-packed position series and bounding boxes.
package coord

// Kind identifies the shape of a coordinate tuple.
type Kind uint8

// Supported coordinate kinds. Projected (or cartesian) kinds come first,
// geographic kinds mirror them with x as longitude and y as latitude.
const (
	XY Kind = iota
	XYZ
	XYM
	XYZM
	LonLat
	LonLatElev
	LonLatM
	LonLatElevM
)

type kindInfo struct {
	name       string
	suffix     string
	dim        int
	spatialDim int
	wkbOffset  uint32
	hasZ       bool
	hasM       bool
	geographic bool
}

var kinds = [...]kindInfo{
	XY:          {name: "xy", dim: 2, spatialDim: 2},
	XYZ:         {name: "xyz", suffix: "Z", dim: 3, spatialDim: 3, wkbOffset: 1000, hasZ: true},
	XYM:         {name: "xym", suffix: "M", dim: 3, spatialDim: 2, wkbOffset: 2000, hasM: true},
	XYZM:        {name: "xyzm", suffix: "ZM", dim: 4, spatialDim: 3, wkbOffset: 3000, hasZ: true, hasM: true},
	LonLat:      {name: "lonlat", dim: 2, spatialDim: 2, geographic: true},
	LonLatElev:  {name: "lonlatelev", suffix: "Z", dim: 3, spatialDim: 3, wkbOffset: 1000, hasZ: true, geographic: true},
	LonLatM:     {name: "lonlatm", suffix: "M", dim: 3, spatialDim: 2, wkbOffset: 2000, hasM: true, geographic: true},
	LonLatElevM: {name: "lonlatelevm", suffix: "ZM", dim: 4, spatialDim: 3, wkbOffset: 3000, hasZ: true, hasM: true, geographic: true},
}

// KindOf returns the kind with the given axes.
func KindOf(hasZ, hasM, geographic bool) Kind {
	k := XY
	if hasZ {
		k |= 1
	}
	if hasM {
		k |= 2
	}
	if geographic {
		k |= 4
	}
	return k
}

// Valid reports whether k is one of the eight defined kinds.
func (k Kind) Valid() bool { return int(k) < len(kinds) }

func (k Kind) info() kindInfo {
	if !k.Valid() {
		panic("coord: invalid kind")
	}
	return kinds[k]
}

// Dimension is the number of values in a tuple (2..4).
func (k Kind) Dimension() int { return k.info().dim }

// SpatialDimension is 3 when the kind has a Z axis, 2 otherwise.
func (k Kind) SpatialDimension() int { return k.info().spatialDim }

// HasZ reports whether tuples carry z (or elevation).
func (k Kind) HasZ() bool { return k.info().hasZ }

// HasM reports whether tuples carry a measure.
func (k Kind) HasM() bool { return k.info().hasM }

// IsGeographic reports whether x and y are longitude and latitude.
func (k Kind) IsGeographic() bool { return k.info().geographic }

// WKTSuffix returns the dimensionality marker used after WKT keywords.
func (k Kind) WKTSuffix() string { return k.info().suffix }

// WKBOffset is added to the base WKB geometry type code (ISO variant).
func (k Kind) WKBOffset() uint32 { return k.info().wkbOffset }

// Geographic returns the geographic kind with the same axes.
func (k Kind) Geographic() Kind { return KindOf(k.HasZ(), k.HasM(), true) }

// Projected returns the projected kind with the same axes.
func (k Kind) Projected() Kind { return KindOf(k.HasZ(), k.HasM(), false) }

// WithZ returns k extended by a Z axis.
func (k Kind) WithZ() Kind { return KindOf(true, k.HasM(), k.IsGeographic()) }

func (k Kind) String() string {
	if !k.Valid() {
		return "invalid"
	}
	return kinds[k].name
}
