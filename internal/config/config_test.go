package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/woozymasta/geocore/internal/coord"
	"github.com/woozymasta/geocore/internal/crs"
	"github.com/woozymasta/geocore/internal/geo"
	"github.com/woozymasta/geocore/internal/render"
)

const sample = `
attribution: test data
decimals: 3
crs:
  - id: urn:example:local
    aliases: [LOCAL]
    epsg: 32631
    axis_order: xy
layers:
  - name: zones
    index: 2
    style:
      fill: "#00ff0055"
    wkt:
      - POLYGON((0 0,10 0,10 10,0 10,0 0))
  - name: cities
    index: 1
    aliases: [towns]
    zoom: 9
    features:
      type: FeatureCollection
      features:
        - type: Feature
          properties: {name: Berlin}
          geometry: {type: Point, coordinates: [13.4, 52.5]}
  - name: survey
    projection: utm:31N
    source: survey.wkt
`

func write(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "survey.wkt", "# eiffel tower\nPOINT(448251.7952 5411932.6777)\n")
	cfg, err := Load(write(t, dir, "config.yaml", sample))
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.DecimalDigits())
	assert.Equal(t, DefaultZoomLimit, cfg.ZoomLimit)
	assert.Equal(t, geo.DefaultPrecision, cfg.LabelPrecision)
	require.Len(t, cfg.Layers, 3)

	// indexed layers first, the rest by name
	assert.Equal(t, "cities", cfg.Layers[0].Name)
	assert.Equal(t, "zones", cfg.Layers[1].Name)
	assert.Equal(t, "survey", cfg.Layers[2].Name)

	cities, ok := cfg.Layer("towns")
	require.True(t, ok)
	assert.Equal(t, 9, cities.ZoomLimit)
	assert.Equal(t, "test data", cities.Attribution)
	assert.Equal(t, render.DefaultTileSize, cities.TileSize)

	geoms, err := cities.Geometries()
	require.NoError(t, err)
	require.Len(t, geoms, 1)
	assert.Equal(t, coord.LonLat, geoms[0].Kind())

	zones, _ := cfg.Layer("zones")
	assert.Equal(t, DefaultZoomLimit, zones.ZoomLimit)
	assert.Equal(t, "#00ff0055", zones.Style.Fill)

	survey, _ := cfg.Layer("survey")
	assert.Equal(t, filepath.Join(dir, "survey.wkt"), survey.Source)
	geoms, err = survey.Geometries()
	require.NoError(t, err)
	require.Len(t, geoms, 1)
	p, ok := geoms[0].(*geo.Point).Position()
	require.True(t, ok)
	assert.True(t, p.Kind.IsGeographic())
	assert.InDelta(t, 2.2945, p.Lon(), 1e-6)
	assert.InDelta(t, 48.8582, p.Lat(), 1e-6)

	_, ok = cfg.Layer("missing")
	assert.False(t, ok)

	require.NoError(t, cfg.InstallCRS())
	local := crs.CRS("LOCAL")
	assert.Equal(t, "urn:example:local", local.ID())
	code, ok := local.EPSG()
	assert.True(t, ok)
	assert.Equal(t, 32631, code)
	assert.True(t, errors.Is(cfg.InstallCRS(), crs.ErrResolverInstalled))
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	tests := map[string]string{
		"unnamed":    "layers:\n  - wkt: [POINT(1 2)]\n",
		"duplicate":  "layers:\n  - name: a\n  - name: b\n    aliases: [a]\n",
		"projection": "layers:\n  - name: a\n    projection: lambert\n",
		"style":      "layers:\n  - name: a\n    style: {fill: green}\n",
		"yaml":       "layers: [",
	}
	for name, content := range tests {
		_, err := Load(write(t, dir, name+".yaml", content))
		assert.Error(t, err, name)
	}

	_, err := Load(filepath.Join(dir, "absent.yaml"))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLayerGeometryErrors(t *testing.T) {
	l := Layer{Name: "bad", WKT: []string{"POINT(1"}}
	_, err := l.Geometries()
	assert.Error(t, err)

	l = Layer{Name: "bad", Source: "layer.kml"}
	_, err = l.Geometries()
	assert.Error(t, err)
}
