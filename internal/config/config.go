// Package config handles configuration loading and shared data structures.
package config

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/cockroachdb/errors"
	"github.com/woozymasta/geocore/internal/crs"
	"github.com/woozymasta/geocore/internal/geo"
	"github.com/woozymasta/geocore/internal/interop"
	"github.com/woozymasta/geocore/internal/projection"
	"github.com/woozymasta/geocore/internal/render"
	"github.com/woozymasta/geocore/internal/wkt"

	"gopkg.in/yaml.v3"
)

// Defaults applied by Load.
const (
	DefaultZoomLimit = 6
	DefaultDecimals  = -1
)

// Config represents the root configuration file structure.
type Config struct {
	// CRS definitions installed as the process resolver
	CRS    []crs.Definition `yaml:"crs,omitempty" json:"crs,omitempty"`
	Layers []Layer          `yaml:"layers" json:"layers"`

	Attribution    string  `yaml:"attribution,omitempty" json:"attribution,omitempty"`
	TileDir        string  `yaml:"tile_dir,omitempty" json:"-"`
	Decimals       *int    `yaml:"decimals,omitempty" json:"decimals,omitempty"`
	LabelPrecision float64 `yaml:"label_precision,omitempty" json:"label_precision,omitempty"`
	ZoomLimit      int     `yaml:"zoom,omitempty" json:"zoom"`
}

// Layer is a named set of geometries rendered and served together.
type Layer struct {
	Index *int `yaml:"index,omitempty" json:"index,omitempty"`

	// defining GeoJSON directly in config.yaml
	Features *interop.FeatureCollection `yaml:"features,omitempty" json:"-"`

	Name string `yaml:"name" json:"name"`
	// .geojson, .json or .wkt file, relative to the config file
	Source string `yaml:"source,omitempty" json:"-"`
	// projection of the source coordinates, longitude/latitude when empty
	Projection  string       `yaml:"projection,omitempty" json:"projection,omitempty"`
	Attribution string       `yaml:"attribution,omitempty" json:"attribution,omitempty"`
	Aliases     []string     `yaml:"aliases,omitempty" json:"aliases,omitempty"`
	WKT         []string     `yaml:"wkt,omitempty" json:"-"`
	Style       render.Style `yaml:"style,omitempty" json:"style"`
	ZoomLimit   int          `yaml:"zoom,omitempty" json:"zoom"`
	TileSize    int          `yaml:"tile_size,omitempty" json:"tile_size,omitempty"`
}

// Load reads and parses the YAML configuration file from the specified path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrapf(err, "parse %s", path)
	}

	if err := cfg.normalize(filepath.Dir(path)); err != nil {
		return nil, errors.Wrapf(err, "config %s", path)
	}
	return &cfg, nil
}

func (c *Config) normalize(base string) error {
	if c.ZoomLimit <= 0 {
		c.ZoomLimit = DefaultZoomLimit
	}
	if c.LabelPrecision <= 0 {
		c.LabelPrecision = geo.DefaultPrecision
	}
	if c.TileDir == "" {
		c.TileDir = "tiles"
	}

	seen := make(map[string]string)
	for i := range c.Layers {
		l := &c.Layers[i]
		if l.Name == "" {
			return errors.Newf("layer %d has no name", i)
		}
		for _, name := range append([]string{l.Name}, l.Aliases...) {
			if owner, dup := seen[name]; dup {
				return errors.Newf("layer name %q used by %s and %s", name, owner, l.Name)
			}
			seen[name] = l.Name
		}
		if l.ZoomLimit <= 0 {
			l.ZoomLimit = c.ZoomLimit
		}
		if l.TileSize <= 0 {
			l.TileSize = render.DefaultTileSize
		}
		if l.Attribution == "" {
			l.Attribution = c.Attribution
		}
		if l.Source != "" && !filepath.IsAbs(l.Source) {
			l.Source = filepath.Join(base, l.Source)
		}
		if l.Projection != "" {
			if _, err := projection.Parse(l.Projection); err != nil {
				return errors.Wrapf(err, "layer %s", l.Name)
			}
		}
		if err := l.Style.Validate(); err != nil {
			return errors.Wrapf(err, "layer %s style", l.Name)
		}
	}

	sort.SliceStable(c.Layers, func(i, j int) bool {
		idxI, idxJ := 999999, 999999
		if c.Layers[i].Index != nil {
			idxI = *c.Layers[i].Index
		}
		if c.Layers[j].Index != nil {
			idxJ = *c.Layers[j].Index
		}
		if idxI != idxJ {
			return idxI < idxJ
		}
		return c.Layers[i].Name < c.Layers[j].Name
	})
	return nil
}

// DecimalDigits is the number of fractional digits written, negative for
// full precision.
func (c *Config) DecimalDigits() int {
	if c.Decimals == nil {
		return DefaultDecimals
	}
	return *c.Decimals
}

// InstallCRS installs the configured definitions as the process resolver.
// It does nothing without definitions.
func (c *Config) InstallCRS() error {
	if len(c.CRS) == 0 {
		return nil
	}
	table, err := crs.NewTable(nil, c.CRS...)
	if err != nil {
		return err
	}
	return crs.SetResolver(table)
}

// Layer finds a layer by name or alias.
func (c *Config) Layer(name string) (*Layer, bool) {
	for i := range c.Layers {
		l := &c.Layers[i]
		if l.Name == name {
			return l, true
		}
		for _, alias := range l.Aliases {
			if alias == name {
				return l, true
			}
		}
	}
	return nil, false
}

// Geometries collects the inline features, inline WKT and the source file of
// the layer, converted to longitude/latitude.
func (l *Layer) Geometries() ([]geo.Geometry, error) {
	geographic := l.Projection == ""
	var out []geo.Geometry

	if l.Features != nil {
		geoms, err := l.Features.Geometries(geographic)
		if err != nil {
			return nil, errors.Wrapf(err, "layer %s", l.Name)
		}
		out = append(out, geoms...)
	}

	opts := []wkt.Option{}
	if geographic {
		opts = append(opts, wkt.Geographic())
	}
	for i, text := range l.WKT {
		g, err := wkt.Decode(text, opts...)
		if err != nil {
			return nil, errors.Wrapf(err, "layer %s wkt %d", l.Name, i)
		}
		out = append(out, g)
	}

	if l.Source != "" {
		geoms, err := readSource(l.Source, geographic, opts)
		if err != nil {
			return nil, errors.Wrapf(err, "layer %s", l.Name)
		}
		out = append(out, geoms...)
	}

	if geographic {
		return out, nil
	}

	adapter, err := projection.Parse(l.Projection)
	if err != nil {
		return nil, err
	}
	for i, g := range out {
		if out[i], err = geo.Project(g, adapter.Inverse); err != nil {
			return nil, errors.Wrapf(err, "layer %s", l.Name)
		}
	}
	return out, nil
}

func readSource(path string, geographic bool, opts []wkt.Option) ([]geo.Geometry, error) {
	switch filepath.Ext(path) {
	case ".geojson", ".json":
		fc, err := interop.ReadFeatureCollection(path)
		if err != nil {
			return nil, err
		}
		return fc.Geometries(geographic)
	case ".wkt", ".txt":
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer func() { _ = f.Close() }()
		return wkt.ReadAll(f, opts...)
	}
	return nil, errors.Newf("unsupported source %s", path)
}
