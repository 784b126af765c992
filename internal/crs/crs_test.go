package crs

import (
	"math"
	"sync"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/golang/geo/r3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/woozymasta/geocore/internal/coord"
	"gopkg.in/yaml.v3"
)

func resetResolver(t *testing.T) {
	t.Helper()
	resolverOnce = sync.Once{}
	resolver = nil
	t.Cleanup(func() {
		resolverOnce = sync.Once{}
		resolver = nil
	})
}

func TestEllipsoidFlattening(t *testing.T) {
	for _, e := range []Ellipsoid{
		WGS84Ellipsoid, GRS80Ellipsoid, Airy1830Ellipsoid, AiryModifiedEllipsoid,
		Bessel1841Ellipsoid, Clarke1866Ellipsoid, Clarke1880IGNEllipsoid,
		International1924Ellipsoid, WGS72Ellipsoid,
	} {
		assert.InDelta(t, (e.A-e.B)/e.A, e.F, 1e-6, e.Name)
	}
	assert.InDelta(t, 0.00669437999014, WGS84Ellipsoid.E2(), 1e-14)
}

func TestDatumIdentityIsExact(t *testing.T) {
	p := coord.XYZMPos(3980609.237273, -97.264632, 4966859.728504, 7)

	for _, d := range []Datum{WGS84, OSGB36, ED50, NAD83} {
		got := d.ConvertGeocentricCartesian(p, d)
		assert.True(t, got.EqualsCoords(p), d.ID)
	}
}

func TestDatumConversionRoundTrip(t *testing.T) {
	p := coord.XYZPos(3980609.237273, -97.264632, 4966859.728504)

	osgb := WGS84.ConvertGeocentricCartesian(p, OSGB36)
	assert.NotEqual(t, p.X, osgb.X)

	back := OSGB36.ConvertGeocentricCartesian(osgb, WGS84)
	ok, err := back.Equals3D(p, 0.05)
	require.NoError(t, err)
	assert.True(t, ok, "%+v", back)

	// ED50 -> OSGB36 pivots through WGS84.
	viaPivot := WGS84.ConvertGeocentricCartesian(ED50.ConvertGeocentricCartesian(p, WGS84), OSGB36)
	direct := ED50.ConvertGeocentricCartesian(p, OSGB36)
	ok, err = direct.Equals3D(viaPivot, 1e-6)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestHelmertApply(t *testing.T) {
	h := Helmert{Tx: 1, Ty: 2, Tz: 3}
	assert.Equal(t, r3.Vector{X: 11, Y: 22, Z: 33}, h.Apply(r3.Vector{X: 10, Y: 20, Z: 30}))

	scale := Helmert{S: 1e6}.Apply(r3.Vector{X: 1, Y: 1, Z: 1})
	assert.InDelta(t, 2, scale.X, 1e-12)

	rot := Helmert{Rz: 3600}.Apply(r3.Vector{X: 1})
	assert.InDelta(t, math.Pi/180, rot.Y, 1e-12)
	assert.True(t, Helmert{}.IsZero())
	assert.Equal(t, -h.Tx, h.Inverse().Tx)
}

func TestDatumByID(t *testing.T) {
	d, ok := DatumByID("OSGB36")
	require.True(t, ok)
	assert.Equal(t, Airy1830Ellipsoid, d.Ellipsoid)

	_, ok = DatumByID("mars2000")
	assert.False(t, ok)
}

func TestDefaultResolver(t *testing.T) {
	resetResolver(t)

	wgs := CRS(EPSG4326)
	code, ok := wgs.EPSG()
	require.True(t, ok)
	assert.Equal(t, 4326, code)
	assert.True(t, wgs.IsGeographic())
	assert.Equal(t, AxisYX, wgs.AxisOrder())
	assert.True(t, wgs.SwapXY())

	crs84 := CRS(CRS84ID)
	assert.True(t, crs84.IsGeographic())
	assert.Equal(t, AxisXY, crs84.AxisOrder())
	_, ok = crs84.EPSG()
	assert.False(t, ok)

	for id, want := range map[string]int{
		"EPSG:3857":                    3857,
		"epsg:25832":                   25832,
		"urn:ogc:def:crs:EPSG::4258":   4258,
		"urn:ogc:def:crs:EPSG:6.6:326": 326,
	} {
		code, ok := CRS(id).EPSG()
		assert.True(t, ok, id)
		assert.Equal(t, want, code, id)
	}

	merc := CRS(EPSG3857)
	assert.False(t, merc.IsGeographic())
	assert.Equal(t, AxisXY, merc.AxisOrder())
	assert.Equal(t, EPSG3857, merc.String())
}

func TestSetResolverOnce(t *testing.T) {
	resetResolver(t)

	table, err := NewTable(nil, Definition{
		ID:         "urn:example:crs:local",
		Aliases:    []string{"LOCAL"},
		Geographic: true,
		AxisOrder:  AxisXY,
	})
	require.NoError(t, err)
	require.NoError(t, SetResolver(table))

	err = SetResolver(DefaultResolver)
	assert.True(t, errors.Is(err, ErrResolverInstalled))

	local := CRS("LOCAL")
	assert.Equal(t, "urn:example:crs:local", local.ID())
	assert.True(t, local.IsGeographic())

	// Unknown ids fall back to the default resolver.
	assert.True(t, CRS("EPSG:4326").IsGeographic())
}

func TestFirstReadFreezesDefault(t *testing.T) {
	resetResolver(t)

	_ = CurrentResolver()
	assert.True(t, errors.Is(SetResolver(DefaultResolver), ErrResolverInstalled))
}

func TestTableValidation(t *testing.T) {
	_, err := NewTable(nil, Definition{})
	assert.Error(t, err)

	_, err = NewTable(nil, Definition{ID: "a"}, Definition{ID: "a"})
	assert.Error(t, err)

	_, err = NewTable(nil,
		Definition{ID: "a", Aliases: []string{"x"}},
		Definition{ID: "b", Aliases: []string{"x"}})
	assert.Error(t, err)
}

func TestDefinitionYAML(t *testing.T) {
	var defs []Definition
	err := yaml.Unmarshal([]byte(`
- id: urn:example:crs:grid
  aliases: [GRID]
  epsg: 27700
  axis_order: yx
`), &defs)
	require.NoError(t, err)
	require.Len(t, defs, 1)
	assert.Equal(t, AxisYX, defs[0].AxisOrder)
	assert.Equal(t, 27700, defs[0].EPSG)

	var bad AxisOrder
	assert.Error(t, bad.UnmarshalText([]byte("zx")))
}
