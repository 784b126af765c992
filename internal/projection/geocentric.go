package projection

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/woozymasta/geocore/internal/coord"
	"github.com/woozymasta/geocore/internal/crs"
)

func toGeocentricKind(k coord.Kind) coord.Kind { return coord.KindOf(true, k.HasM(), false) }

func toGeographic3DKind(k coord.Kind) coord.Kind { return coord.KindOf(true, k.HasM(), true) }

// Geocentric converts longitude, latitude and ellipsoidal height on the
// datum's ellipsoid to earth-centered cartesian coordinates (meters) and back.
// Geographic input without elevation is placed on the ellipsoid surface.
func Geocentric(datum crs.Datum) Adapter {
	e := datum.Ellipsoid
	return Adapter{
		Name: "geocentric:" + datum.ID,
		Forward: transform{
			fn: func(lon, lat, h float64) (float64, float64, float64) {
				v := toCartesian(e, lon, lat, h)
				return v.X, v.Y, v.Z
			},
			target: toGeocentricKind,
		},
		Inverse: transform{
			fn: func(x, y, z float64) (float64, float64, float64) {
				return fromCartesian(e, r3.Vector{X: x, Y: y, Z: z})
			},
			target: toGeographic3DKind,
		},
	}
}

func toCartesian(e crs.Ellipsoid, lon, lat, h float64) r3.Vector {
	phi, lambda := radians(lat), radians(lon)
	sinPhi, cosPhi := math.Sincos(phi)
	sinLambda, cosLambda := math.Sincos(lambda)

	e2 := e.E2()
	nu := e.A / math.Sqrt(1-e2*sinPhi*sinPhi)

	return r3.Vector{
		X: (nu + h) * cosPhi * cosLambda,
		Y: (nu + h) * cosPhi * sinLambda,
		Z: (nu*(1-e2) + h) * sinPhi,
	}
}

// fromCartesian uses Bowring's closed form, accurate to well below a
// millimeter for terrestrial heights.
func fromCartesian(e crs.Ellipsoid, v r3.Vector) (lon, lat, h float64) {
	a, b := e.A, e.A*(1-e.F)
	e2, eps2 := e.E2(), e.SecondE2()

	p := math.Hypot(v.X, v.Y)
	if p == 0 {
		// on the polar axis
		lat = 90
		if v.Z < 0 {
			lat = -90
		}
		return 0, lat, math.Abs(v.Z) - b
	}
	r := math.Hypot(p, v.Z)

	tanBeta := (b * v.Z) / (a * p) * (1 + eps2*b/r)
	sinBeta := tanBeta / math.Sqrt(1+tanBeta*tanBeta)
	cosBeta := sinBeta / tanBeta
	if tanBeta == 0 {
		cosBeta = 1
	}

	phi := math.Atan2(v.Z+eps2*b*sinBeta*sinBeta*sinBeta, p-e2*a*cosBeta*cosBeta*cosBeta)
	lambda := math.Atan2(v.Y, v.X)

	sinPhi, cosPhi := math.Sincos(phi)
	nu := a / math.Sqrt(1-e2*sinPhi*sinPhi)
	h = p*cosPhi + v.Z*sinPhi - (a * a / nu)

	return degrees(lambda), degrees(phi), h
}
