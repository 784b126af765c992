// Package render rasterizes geometry layers into Web Mercator tiles and
// exports them as minified SVG.
package render

import (
	"github.com/cockroachdb/errors"
	"github.com/woozymasta/geocore/internal/coord"
	"github.com/woozymasta/geocore/internal/geo"
	"github.com/woozymasta/geocore/internal/projection"
)

// Layer is a named set of geometries in Web Mercator meters.
type Layer struct {
	Name       string
	Style      Style
	Geometries []geo.Geometry
	Bounds     coord.Box
	// false when every geometry is empty
	HasBounds bool

	palette palette
}

// NewLayer projects geographic geometries to Web Mercator. Latitudes are
// clamped to the square world first.
func NewLayer(name string, geoms []geo.Geometry, style Style) (*Layer, error) {
	pal, err := style.palette()
	if err != nil {
		return nil, errors.Wrapf(err, "layer %s", name)
	}

	l := &Layer{Name: name, Style: style.WithDefaults(), palette: pal}
	mercator := projection.WebMercator().Forward

	for i, g := range geoms {
		if !g.Kind().IsGeographic() {
			return nil, errors.Wrapf(coord.ErrInvalidArgument,
				"layer %s geometry %d: kind %s is not geographic", name, i, g.Kind())
		}
		clamped, err := geo.Project(g, clampLatitude{})
		if err != nil {
			return nil, err
		}
		projected, err := geo.Project(clamped, mercator)
		if err != nil {
			return nil, errors.Wrapf(err, "layer %s geometry %d", name, i)
		}
		l.Geometries = append(l.Geometries, projected)

		if b, ok := projected.Bounds(); ok {
			if l.HasBounds {
				l.Bounds = l.Bounds.Extend(b)
			} else {
				l.Bounds, l.HasBounds = b, true
			}
		}
	}
	return l, nil
}

// Intersects reports whether any geometry may touch box.
func (l *Layer) Intersects(box coord.Box) bool {
	return l.HasBounds && l.Bounds.Intersects(box)
}

// clampLatitude keeps y within the Web Mercator latitude range.
type clampLatitude struct{}

func (clampLatitude) TargetKind(kind coord.Kind) coord.Kind { return kind }

func (clampLatitude) ProjectCoords(src []float64, kind coord.Kind) ([]float64, error) {
	dim := kind.Dimension()
	out := make([]float64, len(src))
	copy(out, src)
	for i := 1; i < len(out); i += dim {
		out[i] = max(-projection.MaxLatitude, min(projection.MaxLatitude, out[i]))
	}
	return out, nil
}
