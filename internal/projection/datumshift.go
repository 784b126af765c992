package projection

import (
	"github.com/golang/geo/r3"
	"github.com/woozymasta/geocore/internal/coord"
	"github.com/woozymasta/geocore/internal/crs"
)

// DatumShift converts geographic coordinates between datums through
// geocentric cartesian space. Identical datums yield identity projections
// that do not touch the values at all.
func DatumShift(from, to crs.Datum) Adapter {
	if from == to {
		return Adapter{Name: "datum:" + from.ID + ":" + to.ID, Forward: Identity(), Inverse: Identity()}
	}
	return Adapter{
		Name:    "datum:" + from.ID + ":" + to.ID,
		Forward: transform{fn: shift(from, to), target: sameKind},
		Inverse: transform{fn: shift(to, from), target: sameKind},
	}
}

func shift(from, to crs.Datum) pointFunc {
	return func(lon, lat, h float64) (float64, float64, float64) {
		v := toCartesian(from.Ellipsoid, lon, lat, h)
		p := from.ConvertGeocentricCartesian(coord.XYZPos(v.X, v.Y, v.Z), to)
		return fromCartesian(to.Ellipsoid, r3.Vector{X: p.X, Y: p.Y, Z: p.Z})
	}
}
