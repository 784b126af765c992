package interop

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog/log"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
	"github.com/woozymasta/geocore/internal/geo"
)

// FeatureCollection is a GeoJSON feature collection that can also be written
// inline in YAML.
type FeatureCollection struct {
	Type     string    `json:"type" yaml:"type"`
	Features []Feature `json:"features" yaml:"features"`
}

// Feature is a single geometry with properties.
type Feature struct {
	Properties map[string]any `json:"properties" yaml:"properties"`
	Type       string         `json:"type" yaml:"type"`
	Geometry   *Geometry      `json:"geometry" yaml:"geometry"`
}

// Geometry is the loosely typed GeoJSON geometry object.
type Geometry struct {
	Type        string      `json:"type" yaml:"type"`
	Coordinates any         `json:"coordinates,omitempty" yaml:"coordinates,omitempty"`
	Geometries  []*Geometry `json:"geometries,omitempty" yaml:"geometries,omitempty"`
}

// MarshalGeoJSON encodes g as a GeoJSON geometry. Negative decimals keep
// full precision. GeoJSON has no M axis: XYM is written as three values and
// reads back as XYZ.
func MarshalGeoJSON(g geo.Geometry, decimals int) ([]byte, error) {
	t, err := ToGeom(g)
	if err != nil {
		return nil, err
	}
	var opts []geojson.EncodeGeometryOption
	if decimals >= 0 {
		opts = append(opts, geojson.EncodeGeometryWithMaxDecimalDigits(decimals))
	}
	data, err := geojson.Marshal(t, opts...)
	if err != nil {
		return nil, errors.Wrapf(err, "marshal %s as geojson", g.Type())
	}
	return data, nil
}

// UnmarshalGeoJSON decodes a GeoJSON geometry object.
func UnmarshalGeoJSON(data []byte, geographic bool) (geo.Geometry, error) {
	var t geom.T
	if err := geojson.Unmarshal(data, &t); err != nil {
		return nil, errors.Wrap(err, "unmarshal geojson")
	}
	if t == nil {
		return nil, errors.New("geojson geometry is null")
	}
	return FromGeom(t, geographic)
}

// NewFeature wraps g with properties.
func NewFeature(g geo.Geometry, properties map[string]any, decimals int) (Feature, error) {
	data, err := MarshalGeoJSON(g, decimals)
	if err != nil {
		return Feature{}, err
	}
	var geometry Geometry
	if err := json.Unmarshal(data, &geometry); err != nil {
		return Feature{}, errors.Wrap(err, "feature geometry")
	}
	if properties == nil {
		properties = map[string]any{}
	}
	return Feature{Type: "Feature", Properties: properties, Geometry: &geometry}, nil
}

// Decode returns the geometry of the feature.
func (f Feature) Decode(geographic bool) (geo.Geometry, error) {
	if f.Geometry == nil {
		return nil, errors.New("feature has no geometry")
	}
	data, err := json.Marshal(f.Geometry)
	if err != nil {
		return nil, errors.Wrap(err, "feature geometry")
	}
	return UnmarshalGeoJSON(data, geographic)
}

// NewFeatureCollection returns an empty collection.
func NewFeatureCollection() FeatureCollection {
	return FeatureCollection{Type: "FeatureCollection", Features: []Feature{}}
}

// FeatureCollectionOf wraps every geometry in a feature carrying a copy of
// properties.
func FeatureCollectionOf(geoms []geo.Geometry, properties map[string]any, decimals int) (FeatureCollection, error) {
	fc := NewFeatureCollection()
	for i, g := range geoms {
		props := make(map[string]any, len(properties))
		for k, v := range properties {
			props[k] = v
		}
		f, err := NewFeature(g, props, decimals)
		if err != nil {
			return FeatureCollection{}, errors.Wrapf(err, "feature %d", i)
		}
		fc.Features = append(fc.Features, f)
	}
	return fc, nil
}

// Geometries decodes every feature.
func (fc FeatureCollection) Geometries(geographic bool) ([]geo.Geometry, error) {
	out := make([]geo.Geometry, 0, len(fc.Features))
	for i, f := range fc.Features {
		g, err := f.Decode(geographic)
		if err != nil {
			return nil, errors.Wrapf(err, "feature %d", i)
		}
		out = append(out, g)
	}
	return out, nil
}

// ReadFeatureCollection loads a GeoJSON feature collection from path.
func ReadFeatureCollection(path string) (FeatureCollection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return FeatureCollection{}, err
	}
	var fc FeatureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return FeatureCollection{}, errors.Wrapf(err, "parse %s", path)
	}
	if fc.Type != "FeatureCollection" {
		return FeatureCollection{}, errors.Newf("%s: unexpected type %q", path, fc.Type)
	}
	return fc, nil
}

// WriteFeatureCollection writes fc to path, creating parent directories.
func WriteFeatureCollection(path string, fc FeatureCollection) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}

	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			log.Error().Err(closeErr).Str("path", path).Msg("Failed to close file")
		}
	}()

	return json.NewEncoder(f).Encode(fc)
}
