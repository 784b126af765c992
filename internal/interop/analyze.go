package interop

import (
	"github.com/woozymasta/geocore/internal/geo"
	"github.com/woozymasta/geocore/internal/wkt"
)

// Analysis summarizes a geometry.
type Analysis struct {
	Type     string    `json:"type" yaml:"type"`
	Kind     string    `json:"kind" yaml:"kind"`
	WKT      string    `json:"wkt" yaml:"wkt"`
	WKB      string    `json:"wkb" yaml:"wkb"`
	Bounds   []float64 `json:"bounds,omitempty" yaml:"bounds,omitempty"`
	Centroid []float64 `json:"centroid,omitempty" yaml:"centroid,omitempty"`
	Label    *Label    `json:"label,omitempty" yaml:"label,omitempty"`
	Area     float64   `json:"area" yaml:"area"`
	Empty    bool      `json:"empty" yaml:"empty"`
}

// Label is the pole of inaccessibility of the largest polygon.
type Label struct {
	Position []float64 `json:"position" yaml:"position"`
	Distance float64   `json:"distance" yaml:"distance"`
}

// Analyze computes the summary of g. Labels use precision in the units of
// the coordinates; decimals applies to the WKT text.
func Analyze(g geo.Geometry, precision float64, decimals int) (Analysis, error) {
	text, err := wkt.Encode(g, wkt.WithDecimals(decimals))
	if err != nil {
		return Analysis{}, err
	}
	hex, err := MarshalWKBHex(g)
	if err != nil {
		return Analysis{}, err
	}

	a := Analysis{
		Type:  g.Type().String(),
		Kind:  g.Kind().String(),
		WKT:   text,
		WKB:   hex,
		Area:  geo.Area(g),
		Empty: g.IsEmpty(),
	}
	if b, ok := g.Bounds(); ok {
		a.Bounds = []float64{b.MinX, b.MinY, b.MaxX, b.MaxY}
	}
	if c, ok := geo.Centroid(g); ok {
		a.Centroid = []float64{c.X, c.Y}
	}

	if p := largestPolygon(g); p != nil {
		label, err := geo.Polylabel(p, precision)
		if err != nil {
			return Analysis{}, err
		}
		a.Label = &Label{Position: []float64{label.Position.X, label.Position.Y}, Distance: label.Distance}
	}
	return a, nil
}

// Properties returns the analysis as feature properties.
func (a Analysis) Properties() map[string]any {
	props := map[string]any{"area": a.Area}
	if a.Centroid != nil {
		props["centroid"] = a.Centroid
	}
	if a.Label != nil {
		props["label"] = a.Label.Position
		props["label_distance"] = a.Label.Distance
	}
	return props
}

func largestPolygon(g geo.Geometry) *geo.Polygon {
	var (
		best     *geo.Polygon
		bestArea float64
	)
	var visit func(g geo.Geometry)
	visit = func(g geo.Geometry) {
		switch g := g.(type) {
		case *geo.Polygon:
			if a := geo.Area(g); !g.IsEmpty() && (best == nil || a > bestArea) {
				best, bestArea = g, a
			}
		case *geo.MultiPolygon:
			for _, p := range g.Polygons() {
				visit(p)
			}
		case *geo.GeometryCollection:
			for _, child := range g.Geometries() {
				visit(child)
			}
		}
	}
	visit(g)
	return best
}
