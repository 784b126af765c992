package projection

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/woozymasta/geocore/internal/coord"
	"github.com/woozymasta/geocore/internal/crs"
)

// Hemisphere selects the false northing of a UTM zone.
type Hemisphere byte

// Hemispheres
const (
	North Hemisphere = 'N'
	South Hemisphere = 'S'
)

// UTMZone is a longitude zone (1..60) and hemisphere.
type UTMZone struct {
	Number     int
	Hemisphere Hemisphere
}

// UTM constants.
const (
	UTMScale         = 0.9996
	UTMFalseEasting  = 500e3
	UTMFalseNorthing = 10000e3
)

// NewUTMZone validates the zone number and hemisphere.
func NewUTMZone(number int, h Hemisphere) (UTMZone, error) {
	if number < 1 || number > 60 {
		return UTMZone{}, errors.Wrapf(coord.ErrInvalidArgument, "utm zone %d out of range 1..60", number)
	}
	if h != North && h != South {
		return UTMZone{}, errors.Wrapf(coord.ErrInvalidArgument, "utm hemisphere %q", rune(h))
	}
	return UTMZone{Number: number, Hemisphere: h}, nil
}

// ParseUTMZone parses zones written as "33N" or "56s".
func ParseUTMZone(s string) (UTMZone, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if len(s) < 2 {
		return UTMZone{}, errors.Wrapf(coord.ErrInvalidArgument, "utm zone %q", s)
	}
	n, err := strconv.Atoi(s[:len(s)-1])
	if err != nil {
		return UTMZone{}, errors.Wrapf(coord.ErrInvalidArgument, "utm zone %q", s)
	}
	return NewUTMZone(n, Hemisphere(s[len(s)-1]))
}

// UTMZoneFor returns the zone containing lon, lat including the Norway and
// Svalbard exceptions.
func UTMZoneFor(lon, lat float64) UTMZone {
	lon = math.Mod(lon+180, 360)
	if lon < 0 {
		lon += 360
	}
	lon -= 180

	n := int(math.Floor((lon+180)/6)) + 1
	if n > 60 {
		n = 60
	}

	switch {
	case lat >= 56 && lat < 64 && lon >= 3 && lon < 12:
		n = 32
	case lat >= 72 && lat <= 84 && lon >= 0 && lon < 42:
		switch {
		case lon < 9:
			n = 31
		case lon < 21:
			n = 33
		case lon < 33:
			n = 35
		default:
			n = 37
		}
	}

	h := North
	if lat < 0 {
		h = South
	}
	return UTMZone{Number: n, Hemisphere: h}
}

// CentralMeridian in degrees.
func (z UTMZone) CentralMeridian() float64 { return float64(z.Number-1)*6 - 180 + 3 }

func (z UTMZone) String() string { return fmt.Sprintf("%d%c", z.Number, z.Hemisphere) }

// MarshalText implements encoding.TextMarshaler.
func (z UTMZone) MarshalText() ([]byte, error) { return []byte(z.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (z *UTMZone) UnmarshalText(text []byte) error {
	v, err := ParseUTMZone(string(text))
	if err != nil {
		return err
	}
	*z = v
	return nil
}

// krueger holds the 6th order transverse Mercator series of an ellipsoid.
type krueger struct {
	a     float64 // rectifying radius scaled by k0
	e     float64
	alpha [6]float64
	beta  [6]float64
}

func newKrueger(e crs.Ellipsoid) krueger {
	n := e.F / (2 - e.F)
	n2 := n * n
	n3, n4, n5, n6 := n2*n, n2*n2, n2*n2*n, n2*n2*n2

	return krueger{
		a: UTMScale * e.A / (1 + n) * (1 + n2/4 + n4/64 + n6/256),
		e: math.Sqrt(e.F * (2 - e.F)),
		alpha: [6]float64{
			n/2 - 2*n2/3 + 5*n3/16 + 41*n4/180 - 127*n5/288 + 7891*n6/37800,
			13*n2/48 - 3*n3/5 + 557*n4/1440 + 281*n5/630 - 1983433*n6/1935360,
			61*n3/240 - 103*n4/140 + 15061*n5/26880 + 167603*n6/181440,
			49561*n4/161280 - 179*n5/168 + 6601661*n6/7257600,
			34729*n5/80640 - 3418889*n6/1995840,
			212378941 * n6 / 319334400,
		},
		beta: [6]float64{
			n/2 - 2*n2/3 + 37*n3/96 - n4/360 - 81*n5/512 + 96199*n6/604800,
			n2/48 + n3/15 - 437*n4/1440 + 46*n5/105 - 1118711*n6/3870720,
			17*n3/480 - 37*n4/840 - 209*n5/4480 + 5569*n6/90720,
			4397*n4/161280 - 11*n5/504 - 830251*n6/7257600,
			4583*n5/161280 - 108847*n6/3991680,
			20648693 * n6 / 638668800,
		},
	}
}

// conformal maps tan(latitude) to tan(conformal latitude).
func (k krueger) conformal(tau float64) float64 {
	sigma := math.Sinh(k.e * math.Atanh(k.e*tau/math.Sqrt(1+tau*tau)))
	return tau*math.Sqrt(1+sigma*sigma) - sigma*math.Sqrt(1+tau*tau)
}

const maxUTMIterations = 20

// UTM returns the transverse Mercator projection of zone on the datum's
// ellipsoid. Positions outside the zone are still projected; the result
// grows distorted with the distance to the central meridian.
func UTM(zone UTMZone, datum crs.Datum) (Adapter, error) {
	zone, err := NewUTMZone(zone.Number, zone.Hemisphere)
	if err != nil {
		return Adapter{}, err
	}

	k := newKrueger(datum.Ellipsoid)
	lambda0 := radians(zone.CentralMeridian())
	falseNorthing := 0.0
	if zone.Hemisphere == South {
		falseNorthing = UTMFalseNorthing
	}

	forward := func(lon, lat, z float64) (float64, float64, float64) {
		phi, lambda := radians(lat), radians(lon)-lambda0
		sinLambda, cosLambda := math.Sincos(lambda)

		tauP := k.conformal(math.Tan(phi))
		xiP := math.Atan2(tauP, cosLambda)
		etaP := math.Asinh(sinLambda / math.Sqrt(tauP*tauP+cosLambda*cosLambda))

		xi, eta := xiP, etaP
		for j, a := range k.alpha {
			m := float64(2 * (j + 1))
			xi += a * math.Sin(m*xiP) * math.Cosh(m*etaP)
			eta += a * math.Cos(m*xiP) * math.Sinh(m*etaP)
		}
		return k.a*eta + UTMFalseEasting, k.a*xi + falseNorthing, z
	}

	inverse := func(x, y, z float64) (float64, float64, float64) {
		eta := (x - UTMFalseEasting) / k.a
		xi := (y - falseNorthing) / k.a

		xiP, etaP := xi, eta
		for j, b := range k.beta {
			m := float64(2 * (j + 1))
			xiP -= b * math.Sin(m*xi) * math.Cosh(m*eta)
			etaP -= b * math.Cos(m*xi) * math.Sinh(m*eta)
		}

		sinhEtaP := math.Sinh(etaP)
		sinXiP, cosXiP := math.Sincos(xiP)
		tauP := sinXiP / math.Sqrt(sinhEtaP*sinhEtaP+cosXiP*cosXiP)

		e2 := k.e * k.e
		tau := tauP
		for i := 0; i < maxUTMIterations; i++ {
			ti := k.conformal(tau)
			delta := (tauP - ti) / math.Sqrt(1+ti*ti) *
				(1 + (1-e2)*tau*tau) / ((1 - e2) * math.Sqrt(1+tau*tau))
			tau += delta
			if math.Abs(delta) <= 1e-12 {
				break
			}
		}

		lambda := math.Atan2(sinhEtaP, cosXiP)
		return degrees(lambda + lambda0), degrees(math.Atan(tau)), z
	}

	return Adapter{
		Name:    "utm:" + zone.String() + ":" + datum.ID,
		Forward: transform{fn: forward, target: coord.Kind.Projected},
		Inverse: transform{fn: inverse, target: coord.Kind.Geographic},
	}, nil
}
