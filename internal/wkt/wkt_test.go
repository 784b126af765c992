package wkt

import (
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/woozymasta/geocore/internal/coord"
	"github.com/woozymasta/geocore/internal/crs"
	"github.com/woozymasta/geocore/internal/geo"
)

func TestDecodePointZ(t *testing.T) {
	g, err := Decode("POINT Z(10.1 20.2 30.3)")
	require.NoError(t, err)
	require.IsType(t, &geo.Point{}, g)

	p, ok := g.(*geo.Point).Position()
	require.True(t, ok)
	assert.Equal(t, coord.XYZPos(10.1, 20.2, 30.3), p)

	text, err := Encode(g)
	require.NoError(t, err)
	assert.Equal(t, "POINT Z(10.1 20.2 30.3)", text)
}

func TestRoundTrip(t *testing.T) {
	tests := []string{
		"POINT(1 2)",
		"POINT Z(1 2 3)",
		"POINT M(1 2 4)",
		"POINT ZM(1 2 3 4)",
		"LINESTRING(30 10,10 30,40 40)",
		"LINESTRING ZM(30 10 1 5,10 30 2 6)",
		"POLYGON((35 10,45 45,15 40,10 20,35 10),(20 30,35 35,30 20,20 30))",
		"POLYGON M((0 0 1,4 0 1,4 4 1,0 0 1))",
		"MULTIPOINT((10 40),(40 30),(20 20),(30 10))",
		"MULTIPOINT Z((10 40 1),(40 30 2))",
		"MULTILINESTRING((10 10,20 20,10 40),(40 40,30 30,40 20,30 10))",
		"MULTIPOLYGON(((30 20,45 40,10 40,30 20)),((15 5,40 10,10 20,5 10,15 5)))",
		"MULTIPOLYGON Z(((0 0 1,1 0 1,1 1 1,0 0 1),(0.2 0.1 1,0.8 0.1 1,0.8 0.7 1,0.2 0.1 1)))",
		"GEOMETRYCOLLECTION(POINT(40 10),LINESTRING(10 10,20 20,10 40),POLYGON((40 40,20 45,45 30,40 40)))",
		"GEOMETRYCOLLECTION Z(POINT Z(1 2 3),GEOMETRYCOLLECTION Z(POINT Z(4 5 6)),POINT Z EMPTY)",
		"POINT EMPTY",
		"POINT Z EMPTY",
		"LINESTRING M EMPTY",
		"POLYGON EMPTY",
		"MULTIPOINT EMPTY",
		"MULTILINESTRING ZM EMPTY",
		"MULTIPOLYGON EMPTY",
		"GEOMETRYCOLLECTION EMPTY",
		"POINT(-0.000001 1e-7)",
		"POINT(123456789.123456789 -98765.4321)",
	}

	for _, text := range tests {
		t.Run(text, func(t *testing.T) {
			g, err := Decode(text)
			require.NoError(t, err)

			encoded, err := Encode(g)
			require.NoError(t, err)

			again, err := Decode(encoded)
			require.NoError(t, err)
			assert.Equal(t, g, again)

			reencoded, err := Encode(again)
			require.NoError(t, err)
			assert.Equal(t, encoded, reencoded)
		})
	}
}

func TestCanonicalForm(t *testing.T) {
	tests := map[string]string{
		"point(1 2)":                                    "POINT(1 2)",
		"  Point Z ( 1   2 3 )  ":                       "POINT Z(1 2 3)",
		"POINTZM(1 2 3 4)":                              "POINT ZM(1 2 3 4)",
		"POINT (1 2 3)":                                 "POINT Z(1 2 3)",
		"POINT (1 2 3 4)":                               "POINT ZM(1 2 3 4)",
		"MULTIPOINT(1 2, 3 4)":                          "MULTIPOINT((1 2),(3 4))",
		"LINESTRING (1.50 2.0,\n3 4)":                   "LINESTRING(1.5 2,3 4)",
		"GEOMETRYCOLLECTION(POINT(1 2 3),POINT(4 5 6))": "GEOMETRYCOLLECTION Z(POINT Z(1 2 3),POINT Z(4 5 6))",
		"GEOMETRYCOLLECTION(POINT M(1 2 3))":            "GEOMETRYCOLLECTION M(POINT M(1 2 3))",
		"point empty":                                   "POINT EMPTY",
		"GEOMETRYCOLLECTION(POINT EMPTY,POINT(1 2 3))":  "GEOMETRYCOLLECTION Z(POINT Z EMPTY,POINT Z(1 2 3))",
		"GEOMETRYCOLLECTION(POINT EMPTY,POINT EMPTY)":   "GEOMETRYCOLLECTION(POINT EMPTY,POINT EMPTY)",
		"POINT(1E3 -2.5e-1)":                            "POINT(1000 -0.25)",
	}

	for in, want := range tests {
		g, err := Decode(in)
		require.NoError(t, err, in)
		got, err := Encode(g)
		require.NoError(t, err)
		assert.Equal(t, want, got, in)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []string{
		"",
		"POINT(1 2",
		"POINT(1)",
		"POINT(1 2 3 4 5)",
		"POINT Z(1 2)",
		"POINT(1 2))",
		"POINT(1 2) trailing",
		"POINT(a b)",
		"POINT(NAN INF)",
		"POINT(-Inf 1)",
		"POINT(0x1p-2 1)",
		"POINT(1_0 2)",
		"POINT EMPTY (1 2)",
		"POINT ZZ(1 2)",
		"POINTZ Z(1 2 3)",
		"CIRCLE(1 2)",
		"(1 2)",
		"LINESTRING(1 2,,3 4)",
		"LINESTRING(1 2,3 4 5)",
		"POLYGON(0 0,1 0,1 1,0 0)",
		"MULTIPOLYGON((0 0,1 0,1 1,0 0))",
		"GEOMETRYCOLLECTION(POINT(1 2),POINT(1 2 3))",
		"GEOMETRYCOLLECTION(POINT(1 2)",
	}

	for _, text := range tests {
		_, err := Decode(text)
		require.Error(t, err, text)
		assert.True(t, errors.Is(err, ErrFormat), "%q: %v", text, err)

		var fe *FormatError
		require.True(t, errors.As(err, &fe), text)
		assert.NotEmpty(t, fe.Problem)
	}

	_, err := Decode("POINT(1)")
	var fe *FormatError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "1", fe.Substring)
}

func TestDecodeRejectsUnclosedRings(t *testing.T) {
	_, err := Decode("POLYGON((0 0,4 0,4 4,0 4))")
	require.Error(t, err)
	assert.True(t, errors.Is(err, coord.ErrInvalidArgument))
	assert.False(t, errors.Is(err, ErrFormat))

	_, err = Decode("GEOMETRYCOLLECTION Z(POINT(1 2 3),POINT M(1 2 3))")
	assert.True(t, errors.Is(err, coord.ErrInvalidArgument))
}

func TestGeographicKinds(t *testing.T) {
	g, err := Decode("LINESTRING Z(13.4 52.5 34,16.4 48.2 190)", Geographic())
	require.NoError(t, err)
	assert.Equal(t, coord.LonLatElev, g.Kind())

	g, err = Decode("POINT(13.4 52.5)", WithCRS(crs.CRS(crs.CRS84ID)))
	require.NoError(t, err)
	assert.Equal(t, coord.LonLat, g.Kind())

	g, err = Decode("GEOMETRYCOLLECTION(POINT(1 2),POINT EMPTY)", Geographic())
	require.NoError(t, err)
	for _, child := range g.(*geo.GeometryCollection).Geometries() {
		assert.Equal(t, coord.LonLat, child.Kind())
	}

	// x is written first whatever the axis order of the source
	text, err := Encode(g)
	require.NoError(t, err)
	assert.Equal(t, "GEOMETRYCOLLECTION(POINT(1 2),POINT EMPTY)", text)
}

func TestDecimals(t *testing.T) {
	g, err := Decode("LINESTRING(1.23456 -0.0004,10 2.5)")
	require.NoError(t, err)

	for decimals, want := range map[int]string{
		0:  "LINESTRING(1 0,10 2)",
		2:  "LINESTRING(1.23 0,10 2.5)",
		3:  "LINESTRING(1.235 0,10 2.5)",
		-1: "LINESTRING(1.23456 -0.0004,10 2.5)",
	} {
		got, err := Encode(g, WithDecimals(decimals))
		require.NoError(t, err)
		assert.Equal(t, want, got, decimals)
	}
}

func TestWriterStreams(t *testing.T) {
	var sb []byte
	w := NewWriter(writerFunc(func(p []byte) (int, error) {
		sb = append(sb, p...)
		sb = append(sb, '\n')
		return len(p), nil
	}))

	require.NoError(t, DecodeTo("POINT(1 2)", w))
	require.NoError(t, DecodeTo("GEOMETRYCOLLECTION(POINT(3 4),LINESTRING(0 0,1 1))", w))
	assert.Equal(t, "POINT(1 2)\nGEOMETRYCOLLECTION(POINT(3 4),LINESTRING(0 0,1 1))\n", string(sb))
}

type writerFunc func(p []byte) (int, error)

func (f writerFunc) Write(p []byte) (int, error) { return f(p) }

func TestReadAll(t *testing.T) {
	in := strings.NewReader("# roads\nLINESTRING(0 0,1 1)\n\n  POINT(1 2)  \n")
	geoms, err := ReadAll(in, Geographic())
	require.NoError(t, err)
	require.Len(t, geoms, 2)
	assert.Equal(t, geo.TypeLineString, geoms[0].Type())
	assert.Equal(t, coord.LonLat, geoms[1].Kind())

	_, err = ReadAll(strings.NewReader("POINT(1 2)\nPOINT(1\n"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrFormat))
	assert.Contains(t, err.Error(), "line 2")
}
