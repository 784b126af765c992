package crs

import (
	"strings"

	"github.com/golang/geo/r3"
	"github.com/golang/geo/s1"
	"github.com/woozymasta/geocore/internal/coord"
)

// Helmert holds 7-parameter similarity transform values from WGS84 to a datum.
type Helmert struct {
	Tx, Ty, Tz float64 // translation, meters
	S          float64 // scale, ppm
	Rx, Ry, Rz float64 // rotation, arc seconds
}

// IsZero reports whether the transform is the identity.
func (h Helmert) IsZero() bool { return h == Helmert{} }

// Inverse returns the approximate inverse, valid for the small parameter
// values used by geodetic transforms.
func (h Helmert) Inverse() Helmert {
	return Helmert{Tx: -h.Tx, Ty: -h.Ty, Tz: -h.Tz, S: -h.S, Rx: -h.Rx, Ry: -h.Ry, Rz: -h.Rz}
}

func arcSeconds(v float64) float64 {
	return (s1.Angle(v/3600) * s1.Degree).Radians()
}

// Apply transforms a geocentric cartesian vector.
func (h Helmert) Apply(v r3.Vector) r3.Vector {
	s := h.S/1e6 + 1
	rx, ry, rz := arcSeconds(h.Rx), arcSeconds(h.Ry), arcSeconds(h.Rz)

	return r3.Vector{
		X: h.Tx + v.X*s - v.Y*rz + v.Z*ry,
		Y: h.Ty + v.X*rz + v.Y*s - v.Z*rx,
		Z: h.Tz - v.X*ry + v.Y*rx + v.Z*s,
	}
}

// Datum is an ellipsoid plus its transform relative to WGS84.
type Datum struct {
	ID        string
	Ellipsoid Ellipsoid
	Transform Helmert
}

// Built-in datums. Transform values are WGS84 -> datum.
var (
	WGS84 = Datum{ID: "wgs84", Ellipsoid: WGS84Ellipsoid}

	ETRS89 = Datum{ID: "etrs89", Ellipsoid: GRS80Ellipsoid}

	ED50 = Datum{ID: "ed50", Ellipsoid: International1924Ellipsoid,
		Transform: Helmert{Tx: 89.5, Ty: 93.8, Tz: 123.1, S: -1.2, Rz: 0.156}}

	Irl1975 = Datum{ID: "irl1975", Ellipsoid: AiryModifiedEllipsoid,
		Transform: Helmert{Tx: -482.530, Ty: 130.596, Tz: -564.557, S: -8.150, Rx: 1.042, Ry: 0.214, Rz: 0.631}}

	NAD27 = Datum{ID: "nad27", Ellipsoid: Clarke1866Ellipsoid,
		Transform: Helmert{Tx: 8, Ty: -160, Tz: -176}}

	NAD83 = Datum{ID: "nad83", Ellipsoid: GRS80Ellipsoid,
		Transform: Helmert{Tx: 0.9956, Ty: -1.9103, Tz: -0.5215, S: -0.00062, Rx: 0.025915, Ry: 0.009426, Rz: 0.011599}}

	NTF = Datum{ID: "ntf", Ellipsoid: Clarke1880IGNEllipsoid,
		Transform: Helmert{Tx: 168, Ty: 60, Tz: -320}}

	OSGB36 = Datum{ID: "osgb36", Ellipsoid: Airy1830Ellipsoid,
		Transform: Helmert{Tx: -446.448, Ty: 125.157, Tz: -542.060, S: 20.4894, Rx: -0.1502, Ry: -0.2470, Rz: -0.8421}}

	Potsdam = Datum{ID: "potsdam", Ellipsoid: Bessel1841Ellipsoid,
		Transform: Helmert{Tx: -582, Ty: -105, Tz: -414, S: -8.3, Rx: 1.04, Ry: 0.35, Rz: -3.08}}

	TokyoJapan = Datum{ID: "tokyojapan", Ellipsoid: Bessel1841Ellipsoid,
		Transform: Helmert{Tx: 148, Ty: -507, Tz: -685}}

	WGS72 = Datum{ID: "wgs72", Ellipsoid: WGS72Ellipsoid,
		Transform: Helmert{Tz: 4.5, S: -0.22, Rz: 0.554}}
)

var datums = []Datum{WGS84, ETRS89, ED50, Irl1975, NAD27, NAD83, NTF, OSGB36, Potsdam, TokyoJapan, WGS72}

// DatumByID looks up a built-in datum, ignoring case.
func DatumByID(id string) (Datum, bool) {
	for _, d := range datums {
		if strings.EqualFold(d.ID, id) {
			return d, true
		}
	}
	return Datum{}, false
}

// ConvertGeocentricCartesian moves a geocentric cartesian position (meters)
// from d to target. Equal datums return p as is; other pairs pivot on WGS84.
// M and kind are preserved.
func (d Datum) ConvertGeocentricCartesian(p coord.Position, target Datum) coord.Position {
	if d == target {
		return p
	}

	v := r3.Vector{X: p.X, Y: p.Y, Z: p.Z}
	if !d.Transform.IsZero() {
		v = d.Transform.Inverse().Apply(v)
	}
	if !target.Transform.IsZero() {
		v = target.Transform.Apply(v)
	}

	p.X, p.Y, p.Z = v.X, v.Y, v.Z
	return p
}
