// Package crs holds reference ellipsoids, geodetic datums and coordinate
// reference system identifiers together with the process-wide resolver that
// normalizes them.
package crs

// Ellipsoid is a reference ellipsoid. F is stored next to A and B because
// published flattening values are more precise than (A-B)/A.
type Ellipsoid struct {
	ID   string
	Name string
	A    float64 // semi-major axis, meters
	B    float64 // semi-minor axis, meters
	F    float64 // flattening
}

// E2 returns the first eccentricity squared.
func (e Ellipsoid) E2() float64 { return e.F * (2 - e.F) }

// SecondE2 returns the second eccentricity squared.
func (e Ellipsoid) SecondE2() float64 {
	e2 := e.E2()
	return e2 / (1 - e2)
}

// Built-in ellipsoids.
var (
	WGS84Ellipsoid = Ellipsoid{
		ID: "wgs84", Name: "WGS 84",
		A: 6378137, B: 6356752.314245, F: 1 / 298.257223563,
	}

	GRS80Ellipsoid = Ellipsoid{
		ID: "grs80", Name: "GRS 1980",
		A: 6378137, B: 6356752.314140, F: 1 / 298.257222101,
	}

	Airy1830Ellipsoid = Ellipsoid{
		ID: "airy1830", Name: "Airy 1830",
		A: 6377563.396, B: 6356256.909, F: 1 / 299.3249646,
	}

	AiryModifiedEllipsoid = Ellipsoid{
		ID: "airymodified", Name: "Airy Modified 1849",
		A: 6377340.189, B: 6356034.448, F: 1 / 299.3249646,
	}

	Bessel1841Ellipsoid = Ellipsoid{
		ID: "bessel1841", Name: "Bessel 1841",
		A: 6377397.155, B: 6356078.962818, F: 1 / 299.1528128,
	}

	Clarke1866Ellipsoid = Ellipsoid{
		ID: "clarke1866", Name: "Clarke 1866",
		A: 6378206.4, B: 6356583.8, F: 1 / 294.978698214,
	}

	Clarke1880IGNEllipsoid = Ellipsoid{
		ID: "clarke1880ign", Name: "Clarke 1880 (IGN)",
		A: 6378249.2, B: 6356515.0, F: 1 / 293.466021294,
	}

	International1924Ellipsoid = Ellipsoid{
		ID: "intl1924", Name: "International 1924",
		A: 6378388, B: 6356911.946, F: 1 / 297.0,
	}

	WGS72Ellipsoid = Ellipsoid{
		ID: "wgs72", Name: "WGS 72",
		A: 6378135, B: 6356750.52, F: 1 / 298.26,
	}
)
