package geo_test

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/woozymasta/geocore/internal/coord"
	"github.com/woozymasta/geocore/internal/geo"
	"github.com/woozymasta/geocore/internal/projection"
)

func ring(kind coord.Kind, xy ...float64) coord.Series {
	s, err := coord.NewSeries(kind, xy)
	if err != nil {
		panic(err)
	}
	return s
}

func square() []coord.Series {
	return []coord.Series{ring(coord.XY, 0, 0, 4, 0, 4, 4, 0, 4, 0, 0)}
}

func mustPolygon(t *testing.T, rings []coord.Series) *geo.Polygon {
	t.Helper()
	p, err := geo.NewPolygon(rings)
	require.NoError(t, err)
	return p
}

func TestPointInPolygon(t *testing.T) {
	sq := square()
	assert.True(t, geo.PointInPolygon(coord.XYPos(2, 2), sq))
	assert.False(t, geo.PointInPolygon(coord.XYPos(5, 5), sq))
	assert.False(t, geo.PointInPolygon(coord.XYPos(2, 2), nil))

	// closing edge is implied for rings without the repeated position
	open := []coord.Series{ring(coord.XY, 0, 0, 4, 0, 4, 4, 0, 4)}
	assert.True(t, geo.PointInPolygon(coord.XYPos(0.5, 3.9), open))
	assert.False(t, geo.PointInPolygon(coord.XYPos(-1, 2), open))

	holed := mustPolygon(t, append(square(), ring(coord.XY, 1, 1, 3, 1, 3, 3, 1, 3, 1, 1)))
	assert.False(t, holed.Contains(coord.XYPos(2, 2)))
	assert.True(t, holed.Contains(coord.XYPos(0.5, 0.5)))
	assert.False(t, holed.Contains(coord.XYPos(-1, 2)))
}

func TestCentroid(t *testing.T) {
	c, ok := geo.Centroid(mustPolygon(t, square()))
	require.True(t, ok)
	assert.InDelta(t, 2, c.X, 1e-9)
	assert.InDelta(t, 2, c.Y, 1e-9)
	assert.Equal(t, coord.XY, c.Kind)

	// clockwise orientation gives the same result
	c, ok = geo.Centroid(mustPolygon(t, []coord.Series{square()[0].Reversed()}))
	require.True(t, ok)
	assert.InDelta(t, 2, c.X, 1e-9)

	// a hole in the right half pulls the centroid left
	holed := mustPolygon(t, append(square(), ring(coord.XY, 2, 0, 4, 0, 4, 4, 2, 4, 2, 0)))
	c, ok = geo.Centroid(holed)
	require.True(t, ok)
	assert.InDelta(t, 1, c.X, 1e-9)
	assert.InDelta(t, 2, c.Y, 1e-9)
	assert.InDelta(t, 8, geo.Area(holed), 1e-9)
}

func TestCentroidDegenerate(t *testing.T) {
	flat := mustPolygon(t, []coord.Series{ring(coord.XY, 0, 0, 2, 0, 4, 0, 0, 0)})
	c, ok := geo.Centroid(flat)
	require.True(t, ok)
	assert.InDelta(t, 2, c.X, 1e-9)
	assert.InDelta(t, 0, c.Y, 1e-9)

	line, err := geo.NewLineString(ring(coord.XY, 0, 0, 10, 0, 10, 10))
	require.NoError(t, err)
	c, ok = geo.Centroid(line)
	require.True(t, ok)
	assert.InDelta(t, 7.5, c.X, 1e-9)
	assert.InDelta(t, 2.5, c.Y, 1e-9)

	mp := geo.NewMultiPoint(ring(coord.LonLat, 0, 0, 2, 4))
	c, ok = geo.Centroid(mp)
	require.True(t, ok)
	assert.Equal(t, coord.LonLatPos(1, 2), c)

	_, ok = geo.Centroid(geo.NewEmptyPoint(coord.XY))
	assert.False(t, ok)
	_, ok = geo.Centroid(geo.NewEmptyGeometryCollection(coord.XY))
	assert.False(t, ok)
}

func TestCentroidCollectionPrefersAreas(t *testing.T) {
	gc, err := geo.NewGeometryCollection(
		geo.NewPoint(coord.XYPos(100, 100)),
		mustPolygon(t, square()),
	)
	require.NoError(t, err)

	c, ok := geo.Centroid(gc)
	require.True(t, ok)
	assert.InDelta(t, 2, c.X, 1e-9)
	assert.InDelta(t, 2, c.Y, 1e-9)
}

func TestPolylabel(t *testing.T) {
	p := mustPolygon(t, []coord.Series{
		ring(coord.XY, 35, 10, 45, 45, 15, 40, 10, 20, 35, 10),
		ring(coord.XY, 20, 30, 35, 35, 30, 20, 20, 30),
	})

	got, err := geo.Polylabel(p, 0.5)
	require.NoError(t, err)
	assert.InDelta(t, 17.3828125, got.Position.X, 1e-9)
	assert.InDelta(t, 23.9453125, got.Position.Y, 1e-9)
	assert.InDelta(t, 6.131941618102092, got.Distance, 1e-9)

	for i := 0; i < 5; i++ {
		again, err := geo.Polylabel(p, 0.5)
		require.NoError(t, err)
		assert.Equal(t, got, again)
	}

	coarse, err := geo.Polylabel(p, geo.DefaultPrecision)
	require.NoError(t, err)
	assert.InDelta(t, 17.109375, coarse.Position.X, 1e-9)
	assert.InDelta(t, 23.671875, coarse.Position.Y, 1e-9)
	assert.LessOrEqual(t, got.Distance-coarse.Distance, geo.DefaultPrecision)

	sq, err := geo.Polylabel(mustPolygon(t, square()), 1)
	require.NoError(t, err)
	assert.Equal(t, coord.XYPos(2, 2), sq.Position)
	assert.Equal(t, 2.0, sq.Distance)
}

func TestPolylabelInvalid(t *testing.T) {
	p := mustPolygon(t, square())
	for _, precision := range []float64{0, -1} {
		_, err := geo.Polylabel(p, precision)
		assert.True(t, errors.Is(err, coord.ErrInvalidArgument))
	}

	_, err := geo.Polylabel(geo.NewEmptyPolygon(coord.XY), 1)
	assert.Error(t, err)

	flat := mustPolygon(t, []coord.Series{ring(coord.XY, 0, 0, 2, 0, 4, 0, 0, 0)})
	got, err := geo.Polylabel(flat, 1)
	require.NoError(t, err)
	assert.Equal(t, 0.0, got.Distance)
}

func TestPolylabelFarFromOrigin(t *testing.T) {
	// cells are narrower than the spacing of floats at x=1e17
	const x0 = 1e17
	p := mustPolygon(t, []coord.Series{ring(coord.XY, x0, 0, x0+64, 0, x0+64, 4, x0, 4, x0, 0)})

	got, err := geo.Polylabel(p, 1)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, got.Position.X, x0)
	assert.LessOrEqual(t, got.Position.X, x0+64)
	assert.InDelta(t, 2, got.Position.Y, 1)
	assert.InDelta(t, 2, got.Distance, 1)
}

func TestPolygonValidation(t *testing.T) {
	_, err := geo.NewPolygon(nil)
	assert.True(t, errors.Is(err, coord.ErrInvalidArgument))

	_, err = geo.NewPolygon([]coord.Series{ring(coord.XY, 0, 0, 4, 0, 4, 4, 0, 4)})
	assert.True(t, errors.Is(err, coord.ErrInvalidArgument), "unclosed ring")

	_, err = geo.NewPolygon([]coord.Series{ring(coord.XY, 0, 0, 1, 1, 0, 0)})
	assert.Error(t, err, "too short")

	_, err = geo.NewPolygon(append(square(), ring(coord.XYZ, 1, 1, 0, 2, 1, 0, 2, 2, 0, 1, 1, 0)))
	assert.Error(t, err, "mixed kinds")

	_, err = geo.NewLineString(ring(coord.XY, 1, 2))
	assert.Error(t, err)

	_, err = geo.NewGeometryCollection(geo.NewPoint(coord.XYPos(1, 2)), geo.NewPoint(coord.XYZPos(1, 2, 3)))
	assert.Error(t, err)
}

func TestBounds(t *testing.T) {
	p := mustPolygon(t, square())
	box, ok := p.Bounds()
	require.True(t, ok)
	assert.Equal(t, coord.Box{MaxX: 4, MaxY: 4}, box)

	stored := coord.Box{MinX: -1, MinY: -1, MaxX: 1, MaxY: 1}
	withBox := geo.WithBounds(p, stored)
	box, _ = withBox.Bounds()
	assert.Equal(t, stored, box)

	box, _ = geo.RecalculateBounds(withBox).Bounds()
	assert.Equal(t, coord.Box{MaxX: 4, MaxY: 4}, box)

	_, ok = geo.NewEmptyPoint(coord.XY).Bounds()
	assert.False(t, ok)

	gc, err := geo.NewGeometryCollection(geo.NewPoint(coord.XYPos(-5, 10)), p)
	require.NoError(t, err)
	box, ok = gc.Bounds()
	require.True(t, ok)
	assert.Equal(t, coord.Box{MinX: -5, MaxX: 4, MaxY: 10}, box)
}

func TestCollectorRoundTrip(t *testing.T) {
	mls, err := geo.NewMultiLineString(coord.XYM, []coord.Series{
		ring(coord.XYM, 0, 0, 1, 1, 1, 2),
		ring(coord.XYM, 5, 5, 0, 6, 6, 0),
	})
	require.NoError(t, err)
	mpoly, err := geo.NewMultiPolygon(coord.XYM, [][]coord.Series{
		{ring(coord.XYM, 0, 0, 1, 4, 0, 1, 4, 4, 1, 0, 0, 1)},
	})
	require.NoError(t, err)
	gc, err := geo.NewGeometryCollection(
		geo.NewPoint(coord.XYMPos(1, 2, 3)),
		mls,
		mpoly,
		geo.NewEmptyPoint(coord.XYM),
		geo.NewEmptyGeometryCollection(coord.XYM),
	)
	require.NoError(t, err)

	got, err := geo.Build(gc.Write)
	require.NoError(t, err)
	require.IsType(t, &geo.GeometryCollection{}, got)

	children := got.(*geo.GeometryCollection).Geometries()
	require.Len(t, children, 5)
	assert.Equal(t, geo.TypeMultiLineString, children[1].Type())
	assert.True(t, children[1].(*geo.MultiLineString).Lines()[1].EqualsCoords(mls.Lines()[1]))
	assert.True(t, children[3].IsEmpty())
	assert.Equal(t, geo.TypeGeometryCollection, children[4].Type())
	assert.Equal(t, coord.XYM, got.Kind())
}

func TestCollectorKindMismatch(t *testing.T) {
	_, err := geo.Build(func(b geo.Builder) error {
		return b.GeometryCollection(coord.XYZ, func(child geo.Builder) error {
			return child.Point(coord.XYPos(1, 2))
		})
	})
	assert.Error(t, err)

	var c geo.Collector
	_, err = c.Geometry()
	assert.Error(t, err)
}

func TestTypeKeywords(t *testing.T) {
	for typ := geo.TypePoint; typ <= geo.TypeGeometryCollection; typ++ {
		got, ok := geo.TypeFromKeyword(typ.Keyword())
		require.True(t, ok)
		assert.Equal(t, typ, got)
	}
	_, ok := geo.TypeFromKeyword("CIRCLE")
	assert.False(t, ok)
	assert.Equal(t, "MultiPolygon", geo.TypeMultiPolygon.String())
}

func TestProject(t *testing.T) {
	poly := mustPolygon(t, []coord.Series{ring(coord.LonLatElev,
		0, 0, 10, 1, 0, 20, 1, 1, 20, 0, 1, 12, 0, 0, 10)})

	m := projection.WebMercator()
	projected, err := geo.Project(poly, m.Forward)
	require.NoError(t, err)
	assert.Equal(t, coord.XYZ, projected.Kind())

	ext := projected.(*geo.Polygon).Exterior()
	assert.InDelta(t, 111319.49, ext.X(1), 1e-2)
	assert.Equal(t, 20.0, ext.Z(2))
	assert.True(t, ext.IsClosed())

	back, err := geo.Project(projected, m.Inverse)
	require.NoError(t, err)
	ok, err := back.(*geo.Polygon).Exterior().Equals3D(poly.Exterior(), 1e-9)
	require.NoError(t, err)
	assert.True(t, ok)

	empty, err := geo.Project(geo.NewEmptyPoint(coord.LonLat), m.Forward)
	require.NoError(t, err)
	assert.True(t, empty.IsEmpty())
	assert.Equal(t, coord.XY, empty.Kind())
}

func TestArea(t *testing.T) {
	mp, err := geo.NewMultiPolygon(coord.XY, [][]coord.Series{square(), square()})
	require.NoError(t, err)
	assert.InDelta(t, 32, geo.Area(mp), 1e-9)
	assert.Equal(t, 0.0, geo.Area(geo.NewPoint(coord.XYPos(1, 1))))
}
