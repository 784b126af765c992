package geo

import (
	"github.com/woozymasta/geocore/internal/coord"
)

// Projector converts flat coordinate arrays; projection.Projection
// implements it.
type Projector interface {
	ProjectCoords(src []float64, kind coord.Kind) ([]float64, error)
	TargetKind(kind coord.Kind) coord.Kind
}

func projectSeries(p Projector, s coord.Series) (coord.Series, error) {
	out, err := p.ProjectCoords(s.Values(), s.Kind())
	if err != nil {
		return coord.Series{}, err
	}
	return coord.NewSeries(p.TargetKind(s.Kind()), out)
}

func projectAll(p Projector, series []coord.Series) ([]coord.Series, error) {
	out := make([]coord.Series, len(series))
	for i, s := range series {
		var err error
		if out[i], err = projectSeries(p, s); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Project returns g with every position converted by p through the batch
// path, one call per series. Stored bounds are dropped.
func Project(g Geometry, p Projector) (Geometry, error) {
	kind := p.TargetKind(g.Kind())
	b := base{kind: kind}

	switch g := g.(type) {
	case *Point:
		if g.empty {
			return NewEmptyPoint(kind), nil
		}
		s, err := projectSeries(p, coord.SeriesOf(g.kind, g.pos))
		if err != nil {
			return nil, err
		}
		return NewPoint(s.At(0)), nil

	case *LineString:
		s, err := projectSeries(p, g.series)
		if err != nil {
			return nil, err
		}
		return &LineString{base: b, series: s}, nil

	case *Polygon:
		rings, err := projectAll(p, g.rings)
		if err != nil {
			return nil, err
		}
		return &Polygon{base: b, rings: rings}, nil

	case *MultiPoint:
		s, err := projectSeries(p, g.points)
		if err != nil {
			return nil, err
		}
		return &MultiPoint{base: b, points: s}, nil

	case *MultiLineString:
		lines, err := projectAll(p, g.lines)
		if err != nil {
			return nil, err
		}
		return &MultiLineString{base: b, lines: lines}, nil

	case *MultiPolygon:
		m := &MultiPolygon{base: b, polygons: make([]*Polygon, len(g.polygons))}
		for i, poly := range g.polygons {
			rings, err := projectAll(p, poly.rings)
			if err != nil {
				return nil, err
			}
			m.polygons[i] = &Polygon{base: b, rings: rings}
		}
		return m, nil

	case *GeometryCollection:
		c := &GeometryCollection{base: b, geoms: make([]Geometry, len(g.geoms))}
		for i, child := range g.geoms {
			var err error
			if c.geoms[i], err = Project(child, p); err != nil {
				return nil, err
			}
		}
		return c, nil
	}

	return g, nil
}
