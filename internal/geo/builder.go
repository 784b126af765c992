package geo

import (
	"github.com/cockroachdb/errors"
	"github.com/woozymasta/geocore/internal/coord"
)

// Builder receives geometries as a stream of calls. Decoders emit into a
// Builder and encoders implement it; Geometry.Write replays a geometry.
type Builder interface {
	Point(p coord.Position) error
	LineString(s coord.Series) error
	// Polygon receives the exterior ring first.
	Polygon(rings []coord.Series) error
	MultiPoint(points coord.Series) error
	MultiLineString(lines []coord.Series) error
	MultiPolygon(polygons [][]coord.Series) error
	// GeometryCollection calls emit with the builder that receives the
	// children.
	GeometryCollection(kind coord.Kind, emit func(Builder) error) error
	EmptyGeometry(t Type, kind coord.Kind) error
}

// Collector is a Builder constructing Geometry values.
type Collector struct {
	geoms []Geometry
}

var _ Builder = (*Collector)(nil)

// Geometries returns everything built so far.
func (c *Collector) Geometries() []Geometry { return c.geoms }

// Geometry returns the single geometry built.
func (c *Collector) Geometry() (Geometry, error) {
	if len(c.geoms) != 1 {
		return nil, errors.Newf("collected %d geometries, want 1", len(c.geoms))
	}
	return c.geoms[0], nil
}

func (c *Collector) add(g Geometry, err error) error {
	if err != nil {
		return err
	}
	c.geoms = append(c.geoms, g)
	return nil
}

func (c *Collector) Point(p coord.Position) error {
	return c.add(NewPoint(p), nil)
}

func (c *Collector) LineString(s coord.Series) error {
	return c.add(NewLineString(s))
}

func (c *Collector) Polygon(rings []coord.Series) error {
	return c.add(NewPolygon(rings))
}

func (c *Collector) MultiPoint(points coord.Series) error {
	return c.add(NewMultiPoint(points), nil)
}

func (c *Collector) MultiLineString(lines []coord.Series) error {
	if len(lines) == 0 {
		return errors.Wrap(coord.ErrInvalidArgument, "multi line string without members")
	}
	return c.add(NewMultiLineString(lines[0].Kind(), lines))
}

func (c *Collector) MultiPolygon(polygons [][]coord.Series) error {
	if len(polygons) == 0 || len(polygons[0]) == 0 {
		return errors.Wrap(coord.ErrInvalidArgument, "multi polygon without members")
	}
	return c.add(NewMultiPolygon(polygons[0][0].Kind(), polygons))
}

func (c *Collector) GeometryCollection(kind coord.Kind, emit func(Builder) error) error {
	var children Collector
	if err := emit(&children); err != nil {
		return err
	}
	if len(children.geoms) == 0 {
		return c.add(NewEmptyGeometryCollection(kind), nil)
	}
	gc, err := NewGeometryCollection(children.geoms...)
	if err != nil {
		return err
	}
	if err := checkKind(kind, gc.kind); err != nil {
		return err
	}
	return c.add(gc, nil)
}

func (c *Collector) EmptyGeometry(t Type, kind coord.Kind) error {
	switch t {
	case TypePoint:
		return c.add(NewEmptyPoint(kind), nil)
	case TypeLineString:
		return c.add(&LineString{base: base{kind: kind}, series: emptySeries(kind)}, nil)
	case TypePolygon:
		return c.add(NewEmptyPolygon(kind), nil)
	case TypeMultiPoint:
		return c.add(NewMultiPoint(emptySeries(kind)), nil)
	case TypeMultiLineString:
		return c.add(&MultiLineString{base: base{kind: kind}}, nil)
	case TypeMultiPolygon:
		return c.add(&MultiPolygon{base: base{kind: kind}}, nil)
	case TypeGeometryCollection:
		return c.add(NewEmptyGeometryCollection(kind), nil)
	}
	return errors.Wrapf(coord.ErrInvalidArgument, "unknown geometry type %d", t)
}

func emptySeries(kind coord.Kind) coord.Series {
	s, _ := coord.NewSeries(kind, nil)
	return s
}

// Build runs fn against a Collector and returns the single geometry it
// produced.
func Build(fn func(Builder) error) (Geometry, error) {
	var c Collector
	if err := fn(&c); err != nil {
		return nil, err
	}
	return c.Geometry()
}
