package projection

import (
	"math"

	"github.com/woozymasta/geocore/internal/coord"
)

// EarthRadius is the WGS84 equatorial radius used by the spherical Mercator.
const EarthRadius = 6378137.0

// MaxLatitude bounds the square Web Mercator world. It is not enforced by
// the projection.
const MaxLatitude = 85.05112878

// WebMercator projects geographic coordinates with the spherical Mercator
// formulas referenced to EarthRadius. Latitudes at or beyond ±90 degrees
// yield infinite northings.
func WebMercator() Adapter {
	forward := func(lon, lat, z float64) (float64, float64, float64) {
		var y float64
		switch {
		case lat >= 90:
			y = math.Inf(1)
		case lat <= -90:
			y = math.Inf(-1)
		default:
			y = EarthRadius * math.Atanh(math.Sin(radians(lat)))
		}
		return EarthRadius * radians(lon), y, z
	}

	// inverse Mercator of the northing
	inverse := func(x, y, z float64) (float64, float64, float64) {
		lat := 2*math.Atan(math.Exp(y/EarthRadius)) - math.Pi*0.5
		return degrees(x / EarthRadius), degrees(lat), z
	}

	return Adapter{
		Name:    "webmercator",
		Forward: transform{fn: forward, target: coord.Kind.Projected},
		Inverse: transform{fn: inverse, target: coord.Kind.Geographic},
	}
}
