package projection

import (
	"math"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/woozymasta/geocore/internal/coord"
	"github.com/woozymasta/geocore/internal/crs"
)

const degreeTolerance = 1e-9

func assertLonLat(t *testing.T, want, got coord.Position, tol float64) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, tol, "lon")
	assert.InDelta(t, want.Y, got.Y, tol, "lat")
}

func TestGeocentricForward(t *testing.T) {
	g := Geocentric(crs.WGS84)

	got := g.Forward.Project(coord.LonLatElevPos(-0.0014, 51.4778, 45))
	assert.Equal(t, coord.XYZ, got.Kind)
	assert.InDelta(t, 3980609.2373, got.X, 1e-3)
	assert.InDelta(t, -97.2646, got.Y, 1e-3)
	assert.InDelta(t, 4966859.7285, got.Z, 1e-3)

	// surface placement for 2D input
	surface := g.Forward.Project(coord.LonLatPos(0, 0))
	assert.InDelta(t, crs.WGS84Ellipsoid.A, surface.X, 1e-6)
}

func TestGeocentricInverse(t *testing.T) {
	g := Geocentric(crs.WGS84)

	for _, p := range []coord.Position{
		coord.LonLatElevPos(-0.0014, 51.4778, 45),
		coord.LonLatElevPos(151.2153, -33.8568, 1200),
		coord.LonLatElevPos(-179.9, 89.5, -30),
		coord.LonLatElevPos(12, 0, 0),
	} {
		back := g.Inverse.Project(g.Forward.Project(p))
		assert.Equal(t, coord.LonLatElev, back.Kind)
		assertLonLat(t, p, back, degreeTolerance)
		assert.InDelta(t, p.Z, back.Z, 1e-4)
	}

	pole := g.Inverse.Project(coord.XYZPos(0, 0, -crs.WGS84Ellipsoid.B-10))
	assert.Equal(t, -90.0, pole.Y)
	assert.InDelta(t, 10, pole.Z, 1e-6)
}

func TestDatumShift(t *testing.T) {
	shift := DatumShift(crs.WGS84, crs.OSGB36)

	got := shift.Forward.Project(coord.LonLatPos(-0.00147, 51.47788))
	assert.Equal(t, coord.LonLat, got.Kind)
	assertLonLat(t, coord.LonLatPos(0.000149618, 51.477364157), got, 1e-8)

	withElev := shift.Forward.Project(coord.LonLatElevPos(-0.00147, 51.47788, 0))
	assert.InDelta(t, -45.905, withElev.Z, 1e-3)

	back := shift.Inverse.Project(withElev)
	assertLonLat(t, coord.LonLatPos(-0.00147, 51.47788), back, 1e-6)
}

func TestDatumShiftIdentity(t *testing.T) {
	shift := DatumShift(crs.OSGB36, crs.OSGB36)

	p := coord.Position{X: 0.1 + 0.2, Y: 51.3, Z: 7, M: 3, Kind: coord.LonLatElevM}
	assert.True(t, shift.Forward.Project(p).EqualsCoords(p))

	src := []float64{0.1 + 0.2, 51.3, 1.0 / 3}
	out, err := shift.Forward.ProjectCoords(src, coord.LonLatElev)
	require.NoError(t, err)
	assert.Equal(t, src, out)
}

func TestUTMForward(t *testing.T) {
	tests := []struct {
		name     string
		zone     string
		lon, lat float64
		e, n     float64
	}{
		{"eiffel tower", "31N", 2.2945, 48.8582, 448251.7952, 5411932.6777},
		{"sydney opera house", "56S", 151.2153, -33.8568, 334900.5697, 6252288.7529},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			zone, err := ParseUTMZone(tt.zone)
			require.NoError(t, err)
			assert.Equal(t, zone, UTMZoneFor(tt.lon, tt.lat))

			utm, err := UTM(zone, crs.WGS84)
			require.NoError(t, err)

			got := utm.Forward.Project(coord.LonLatPos(tt.lon, tt.lat))
			assert.Equal(t, coord.XY, got.Kind)
			assert.InDelta(t, tt.e, got.X, 1e-3)
			assert.InDelta(t, tt.n, got.Y, 1e-3)

			back := utm.Inverse.Project(got)
			assert.Equal(t, coord.LonLat, back.Kind)
			assertLonLat(t, coord.LonLatPos(tt.lon, tt.lat), back, degreeTolerance)
		})
	}
}

func TestUTMInverseLaw(t *testing.T) {
	for _, zoneName := range []string{"1N", "17S", "33N", "60S"} {
		zone, err := ParseUTMZone(zoneName)
		require.NoError(t, err)
		utm, err := UTM(zone, crs.WGS84)
		require.NoError(t, err)

		cm := zone.CentralMeridian()
		sign := 1.0
		if zone.Hemisphere == South {
			sign = -1
		}
		for _, d := range []float64{-2.9, -1, 0, 1.5, 2.9} {
			for _, lat := range []float64{0.5, 23, 45, 70, 83.9} {
				p := coord.LonLatPos(cm+d, sign*lat)
				back := utm.Inverse.Project(utm.Forward.Project(p))
				assertLonLat(t, p, back, degreeTolerance)
			}
		}
	}
}

func TestUTMOutOfZone(t *testing.T) {
	zone, err := NewUTMZone(31, North)
	require.NoError(t, err)
	utm, err := UTM(zone, crs.WGS84)
	require.NoError(t, err)

	got := utm.Forward.Project(coord.LonLatPos(30, 10))
	assert.False(t, math.IsInf(got.X, 0) || math.IsNaN(got.X))
	assert.InDelta(t, 3568154.382, got.X, 1e-2)
	assert.InDelta(t, 1238447.0004, got.Y, 1e-2)
}

func TestUTMZones(t *testing.T) {
	_, err := NewUTMZone(0, North)
	assert.True(t, errors.Is(err, coord.ErrInvalidArgument))
	_, err = NewUTMZone(61, North)
	assert.Error(t, err)
	_, err = ParseUTMZone("33X")
	assert.Error(t, err)
	_, err = UTM(UTMZone{}, crs.WGS84)
	assert.Error(t, err)

	assert.Equal(t, UTMZone{32, North}, UTMZoneFor(5, 60))
	assert.Equal(t, UTMZone{33, North}, UTMZoneFor(15, 78))
	assert.Equal(t, UTMZone{1, South}, UTMZoneFor(-180, -10))
	assert.Equal(t, UTMZone{60, North}, UTMZoneFor(179.99, 10))
	assert.Equal(t, UTMZone{1, North}, UTMZoneFor(180, 10))
	assert.Equal(t, 15.0, UTMZone{33, North}.CentralMeridian())

	var z UTMZone
	require.NoError(t, z.UnmarshalText([]byte("56s")))
	assert.Equal(t, "56S", z.String())
}

func TestWebMercator(t *testing.T) {
	m := WebMercator()

	got := m.Forward.Project(coord.LonLatPos(10, 50))
	assert.InDelta(t, 1113194.9079, got.X, 1e-3)
	assert.InDelta(t, 6446275.8410, got.Y, 1e-3)

	for _, lat := range []float64{-MaxLatitude, -45, 0, 30.5, MaxLatitude} {
		for _, lon := range []float64{-180, -77.1, 0, 139.7, 180} {
			p := coord.LonLatPos(lon, lat)
			assertLonLat(t, p, m.Inverse.Project(m.Forward.Project(p)), degreeTolerance)
		}
	}

	corner := m.Forward.Project(coord.LonLatPos(180, MaxLatitude))
	assert.InDelta(t, corner.X, corner.Y, 1)

	for _, lat := range []float64{90, 95, 100, 135, 180} {
		assert.True(t, math.IsInf(m.Forward.Project(coord.LonLatPos(10, lat)).Y, 1), lat)
		assert.True(t, math.IsInf(m.Forward.Project(coord.LonLatPos(10, -lat)).Y, -1), -lat)
	}

	flat, err := m.Forward.ProjectCoords([]float64{10, 80, 10, 100}, coord.LonLat)
	require.NoError(t, err)
	assert.False(t, math.IsInf(flat[1], 0))
	assert.True(t, math.IsInf(flat[3], 1))
}

func TestProjectCoordsMatchesProject(t *testing.T) {
	utm, err := UTM(UTMZone{33, North}, crs.WGS84)
	require.NoError(t, err)

	for _, a := range []Adapter{WebMercator(), Geocentric(crs.WGS84), utm, DatumShift(crs.WGS84, crs.ED50)} {
		for _, kind := range []coord.Kind{coord.LonLat, coord.LonLatElev, coord.LonLatM, coord.LonLatElevM} {
			s := coord.SeriesOf(kind,
				coord.Position{X: 13.4, Y: 52.5, Z: 34, M: 1, Kind: kind},
				coord.Position{X: 16.37, Y: 48.2, Z: 190, M: 2, Kind: kind},
				coord.Position{X: 14.42, Y: 50.08, Z: 200, M: 3, Kind: kind},
			)

			out, err := ProjectSeries(a.Forward, s)
			require.NoError(t, err, a.Name)
			require.Equal(t, a.Forward.TargetKind(kind), out.Kind())
			require.Equal(t, s.Len(), out.Len())

			for i := 0; i < s.Len(); i++ {
				single := a.Forward.Project(s.At(i))
				assert.True(t, single.EqualsCoords(out.At(i)), "%s %s %d", a.Name, kind, i)
				if kind.HasM() {
					assert.Equal(t, s.M(i), out.M(i))
				}
			}
		}
	}
}

func TestProjectCoordsPassThrough(t *testing.T) {
	m := WebMercator()

	out, err := m.Forward.ProjectCoords([]float64{0, 0, 123, 7, 0, 0, -5, 8}, coord.LonLatElevM)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0, 123, 7, 0, 0, -5, 8}, out)

	_, err = m.Forward.ProjectCoords([]float64{1, 2, 3}, coord.LonLat)
	assert.True(t, errors.Is(err, coord.ErrInvalidArgument))

	_, err = m.Forward.ProjectCoords(nil, coord.Kind(42))
	assert.Error(t, err)

	empty, err := m.Forward.ProjectCoords(nil, coord.LonLat)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestParse(t *testing.T) {
	for _, name := range []string{
		"identity", "webmercator", "EPSG:3857", "3857", "geocentric", "geocentric:osgb36",
		"utm:33N", "utm:31n:ed50", "datum:osgb36", "datum:ed50:nad27",
	} {
		a, err := Parse(name)
		require.NoError(t, err, name)
		assert.NotNil(t, a.Forward, name)
		assert.NotNil(t, a.Inverse, name)
	}

	a, err := Parse("utm:31N")
	require.NoError(t, err)
	assert.Equal(t, "utm:31N:wgs84", a.Name)

	for _, name := range []string{"", "lambert", "utm", "utm:99N", "datum:mars", "geocentric:a:b", "epsg:4326"} {
		_, err := Parse(name)
		assert.True(t, errors.Is(err, ErrUnknownProjection), name)
	}
}
