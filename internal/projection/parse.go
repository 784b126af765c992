package projection

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/woozymasta/geocore/internal/crs"
)

// ErrUnknownProjection is returned by Parse for names it cannot resolve.
var ErrUnknownProjection = errors.New("unknown projection")

// Parse resolves a projection name as used on command lines and in requests:
//
//	identity
//	webmercator | epsg:3857 | 3857
//	geocentric[:datum]
//	utm:33N[:datum]
//	datum:to          (from WGS84)
//	datum:from:to
//
// Datums default to WGS84 and are looked up with crs.DatumByID.
func Parse(name string) (Adapter, error) {
	parts := strings.Split(strings.ToLower(strings.TrimSpace(name)), ":")

	switch parts[0] {
	case "identity", "none":
		return Adapter{Name: "identity", Forward: Identity(), Inverse: Identity()}, nil

	case "webmercator", "mercator", "3857":
		if len(parts) == 1 {
			return WebMercator(), nil
		}

	case "epsg":
		if len(parts) == 2 && parts[1] == "3857" {
			return WebMercator(), nil
		}

	case "geocentric", "ecef":
		if len(parts) > 2 {
			break
		}
		d, err := datumAt(parts, 1)
		if err != nil {
			return Adapter{}, err
		}
		return Geocentric(d), nil

	case "utm":
		if len(parts) < 2 || len(parts) > 3 {
			break
		}
		zone, err := ParseUTMZone(parts[1])
		if err != nil {
			return Adapter{}, errors.Wrapf(ErrUnknownProjection, "%q: %v", name, err)
		}
		d, err := datumAt(parts, 2)
		if err != nil {
			return Adapter{}, err
		}
		return UTM(zone, d)

	case "datum":
		switch len(parts) {
		case 2:
			to, err := datumAt(parts, 1)
			if err != nil {
				return Adapter{}, err
			}
			return DatumShift(crs.WGS84, to), nil
		case 3:
			from, err := datumAt(parts, 1)
			if err != nil {
				return Adapter{}, err
			}
			to, err := datumAt(parts, 2)
			if err != nil {
				return Adapter{}, err
			}
			return DatumShift(from, to), nil
		}
	}

	return Adapter{}, errors.Wrapf(ErrUnknownProjection, "%q", name)
}

func datumAt(parts []string, i int) (crs.Datum, error) {
	if i >= len(parts) || parts[i] == "" {
		return crs.WGS84, nil
	}
	d, ok := crs.DatumByID(parts[i])
	if !ok {
		return crs.Datum{}, errors.Wrapf(ErrUnknownProjection, "unknown datum %q", parts[i])
	}
	return d, nil
}
