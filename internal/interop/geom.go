// Package interop converts geometries to and from github.com/twpayne/go-geom
// and through it to WKB and GeoJSON.
package interop

import (
	"github.com/cockroachdb/errors"
	"github.com/twpayne/go-geom"
	"github.com/woozymasta/geocore/internal/coord"
	"github.com/woozymasta/geocore/internal/geo"
)

func layoutOf(kind coord.Kind) geom.Layout {
	switch {
	case kind.HasZ() && kind.HasM():
		return geom.XYZM
	case kind.HasZ():
		return geom.XYZ
	case kind.HasM():
		return geom.XYM
	}
	return geom.XY
}

func kindOf(layout geom.Layout, geographic bool) (coord.Kind, error) {
	switch layout {
	case geom.NoLayout, geom.XY:
		return coord.KindOf(false, false, geographic), nil
	case geom.XYZ:
		return coord.KindOf(true, false, geographic), nil
	case geom.XYM:
		return coord.KindOf(false, true, geographic), nil
	case geom.XYZM:
		return coord.KindOf(true, true, geographic), nil
	}
	return 0, errors.Newf("unsupported layout %s", layout)
}

// geomBuilder collects go-geom geometries.
type geomBuilder struct {
	out []geom.T
}

var _ geo.Builder = (*geomBuilder)(nil)

func flatten(series []coord.Series) (flat []float64, ends []int) {
	for _, s := range series {
		flat = append(flat, s.Values()...)
		ends = append(ends, len(flat))
	}
	return flat, ends
}

func (b *geomBuilder) Point(p coord.Position) error {
	b.out = append(b.out, geom.NewPointFlat(layoutOf(p.Kind), p.Values()))
	return nil
}

func (b *geomBuilder) LineString(s coord.Series) error {
	b.out = append(b.out, geom.NewLineStringFlat(layoutOf(s.Kind()), s.Values()))
	return nil
}

func (b *geomBuilder) Polygon(rings []coord.Series) error {
	flat, ends := flatten(rings)
	b.out = append(b.out, geom.NewPolygonFlat(layoutOf(rings[0].Kind()), flat, ends))
	return nil
}

func (b *geomBuilder) MultiPoint(points coord.Series) error {
	b.out = append(b.out, geom.NewMultiPointFlat(layoutOf(points.Kind()), points.Values()))
	return nil
}

func (b *geomBuilder) MultiLineString(lines []coord.Series) error {
	flat, ends := flatten(lines)
	b.out = append(b.out, geom.NewMultiLineStringFlat(layoutOf(lines[0].Kind()), flat, ends))
	return nil
}

func (b *geomBuilder) MultiPolygon(polygons [][]coord.Series) error {
	var (
		flat  []float64
		endss = make([][]int, len(polygons))
	)
	for i, rings := range polygons {
		for _, r := range rings {
			flat = append(flat, r.Values()...)
			endss[i] = append(endss[i], len(flat))
		}
	}
	b.out = append(b.out, geom.NewMultiPolygonFlat(layoutOf(polygons[0][0].Kind()), flat, endss))
	return nil
}

func (b *geomBuilder) GeometryCollection(kind coord.Kind, emit func(geo.Builder) error) error {
	var children geomBuilder
	if err := emit(&children); err != nil {
		return err
	}
	gc := geom.NewGeometryCollection()
	if err := gc.SetLayout(layoutOf(kind)); err != nil {
		return err
	}
	if err := gc.Push(children.out...); err != nil {
		return err
	}
	b.out = append(b.out, gc)
	return nil
}

func (b *geomBuilder) EmptyGeometry(t geo.Type, kind coord.Kind) error {
	layout := layoutOf(kind)
	var g geom.T
	switch t {
	case geo.TypePoint:
		g = geom.NewPointEmpty(layout)
	case geo.TypeLineString:
		g = geom.NewLineString(layout)
	case geo.TypePolygon:
		g = geom.NewPolygon(layout)
	case geo.TypeMultiPoint:
		g = geom.NewMultiPoint(layout)
	case geo.TypeMultiLineString:
		g = geom.NewMultiLineString(layout)
	case geo.TypeMultiPolygon:
		g = geom.NewMultiPolygon(layout)
	case geo.TypeGeometryCollection:
		gc := geom.NewGeometryCollection()
		if err := gc.SetLayout(layout); err != nil {
			return err
		}
		g = gc
	default:
		return errors.Newf("unsupported geometry type %s", t)
	}
	b.out = append(b.out, g)
	return nil
}

// ToGeom converts g to its go-geom equivalent. The geographic flag of the
// coordinate kind has no go-geom counterpart and is dropped.
func ToGeom(g geo.Geometry) (geom.T, error) {
	var b geomBuilder
	if err := g.Write(&b); err != nil {
		return nil, err
	}
	if len(b.out) != 1 {
		return nil, errors.Newf("converted %d geometries, want 1", len(b.out))
	}
	return b.out[0], nil
}

// FromGeom converts a go-geom geometry. Coordinates are shared with t.
func FromGeom(t geom.T, geographic bool) (geo.Geometry, error) {
	return geo.Build(func(b geo.Builder) error {
		return emit(t, b, geographic)
	})
}

func series(kind coord.Kind, flat []float64, ends []int) ([]coord.Series, error) {
	out := make([]coord.Series, len(ends))
	start := 0
	for i, end := range ends {
		s, err := coord.NewSeries(kind, flat[start:end])
		if err != nil {
			return nil, err
		}
		out[i] = s
		start = end
	}
	return out, nil
}

func emit(t geom.T, b geo.Builder, geographic bool) error {
	kind, err := kindOf(t.Layout(), geographic)
	if err != nil {
		return err
	}

	switch t := t.(type) {
	case *geom.Point:
		if t.Empty() {
			return b.EmptyGeometry(geo.TypePoint, kind)
		}
		p, err := coord.PositionOf(kind, t.FlatCoords())
		if err != nil {
			return err
		}
		return b.Point(p)

	case *geom.LineString:
		if t.Empty() {
			return b.EmptyGeometry(geo.TypeLineString, kind)
		}
		s, err := coord.NewSeries(kind, t.FlatCoords())
		if err != nil {
			return err
		}
		return b.LineString(s)

	case *geom.Polygon:
		if t.Empty() {
			return b.EmptyGeometry(geo.TypePolygon, kind)
		}
		rings, err := series(kind, t.FlatCoords(), t.Ends())
		if err != nil {
			return err
		}
		return b.Polygon(rings)

	case *geom.MultiPoint:
		if t.Empty() {
			return b.EmptyGeometry(geo.TypeMultiPoint, kind)
		}
		if t.NumPoints()*t.Stride() != len(t.FlatCoords()) {
			return errors.New("multi point with empty members is not supported")
		}
		s, err := coord.NewSeries(kind, t.FlatCoords())
		if err != nil {
			return err
		}
		return b.MultiPoint(s)

	case *geom.MultiLineString:
		if t.Empty() {
			return b.EmptyGeometry(geo.TypeMultiLineString, kind)
		}
		lines, err := series(kind, t.FlatCoords(), t.Ends())
		if err != nil {
			return err
		}
		return b.MultiLineString(lines)

	case *geom.MultiPolygon:
		if t.Empty() {
			return b.EmptyGeometry(geo.TypeMultiPolygon, kind)
		}
		polygons := make([][]coord.Series, t.NumPolygons())
		for i := range polygons {
			p := t.Polygon(i)
			if polygons[i], err = series(kind, p.FlatCoords(), p.Ends()); err != nil {
				return err
			}
		}
		return b.MultiPolygon(polygons)

	case *geom.GeometryCollection:
		if t.NumGeoms() == 0 {
			return b.EmptyGeometry(geo.TypeGeometryCollection, kind)
		}
		return b.GeometryCollection(kind, func(child geo.Builder) error {
			for _, g := range t.Geoms() {
				if err := emit(g, child, geographic); err != nil {
					return err
				}
			}
			return nil
		})
	}

	return errors.Newf("unsupported go-geom type %T", t)
}
