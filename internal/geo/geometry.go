// Package geo models geometries as a closed set of seven variants built from
// coordinate series, and implements the areal algorithms over them.
package geo

import (
	"github.com/cockroachdb/errors"
	"github.com/woozymasta/geocore/internal/coord"
)

// Type enumerates the geometry variants.
type Type uint8

// Geometry types, numbered as the base WKB type codes.
const (
	TypePoint Type = iota + 1
	TypeLineString
	TypePolygon
	TypeMultiPoint
	TypeMultiLineString
	TypeMultiPolygon
	TypeGeometryCollection
)

var typeNames = [...]struct{ keyword, name string }{
	TypePoint:              {"POINT", "Point"},
	TypeLineString:         {"LINESTRING", "LineString"},
	TypePolygon:            {"POLYGON", "Polygon"},
	TypeMultiPoint:         {"MULTIPOINT", "MultiPoint"},
	TypeMultiLineString:    {"MULTILINESTRING", "MultiLineString"},
	TypeMultiPolygon:       {"MULTIPOLYGON", "MultiPolygon"},
	TypeGeometryCollection: {"GEOMETRYCOLLECTION", "GeometryCollection"},
}

// Valid reports whether t is a known type.
func (t Type) Valid() bool { return t >= TypePoint && int(t) < len(typeNames) }

// Keyword is the upper case WKT keyword.
func (t Type) Keyword() string {
	if !t.Valid() {
		return ""
	}
	return typeNames[t].keyword
}

// String returns the GeoJSON style type name.
func (t Type) String() string {
	if !t.Valid() {
		return "Unknown"
	}
	return typeNames[t].name
}

// TypeFromKeyword looks up an upper case WKT keyword.
func TypeFromKeyword(keyword string) (Type, bool) {
	for t := TypePoint; t.Valid(); t++ {
		if typeNames[t].keyword == keyword {
			return t, true
		}
	}
	return 0, false
}

// Geometry is implemented by *Point, *LineString, *Polygon, *MultiPoint,
// *MultiLineString, *MultiPolygon and *GeometryCollection only.
type Geometry interface {
	Type() Type
	Kind() coord.Kind
	IsEmpty() bool
	// Bounds returns the stored bounds when set, otherwise computes them.
	// The result is false for empty geometries.
	Bounds() (coord.Box, bool)
	// Write replays the geometry into b.
	Write(b Builder) error

	withBounds(box *coord.Box) Geometry
	calculateBounds() (coord.Box, bool)
}

type base struct {
	kind   coord.Kind
	bounds *coord.Box
}

func (b base) Kind() coord.Kind { return b.kind }

func (b base) stored() (coord.Box, bool) {
	if b.bounds == nil {
		return coord.Box{}, false
	}
	return *b.bounds, true
}

// WithBounds returns a copy of g carrying box as its bounds. Stored bounds are
// returned by Bounds as is, they are never recomputed implicitly.
func WithBounds(g Geometry, box coord.Box) Geometry { return g.withBounds(&box) }

// RecalculateBounds returns a copy of g with bounds computed from its
// coordinates and stored.
func RecalculateBounds(g Geometry) Geometry {
	box, ok := g.calculateBounds()
	if !ok {
		return g.withBounds(nil)
	}
	return g.withBounds(&box)
}

func seriesBounds(series ...coord.Series) (coord.Box, bool) {
	var (
		box   coord.Box
		found bool
	)
	for _, s := range series {
		b, ok := s.Bounds()
		if !ok {
			continue
		}
		if found {
			box = box.Extend(b)
		} else {
			box, found = b, true
		}
	}
	return box, found
}

func checkKind(want coord.Kind, got coord.Kind) error {
	if want != got {
		return errors.Wrapf(coord.ErrInvalidArgument, "mixed coordinate kinds %s and %s", want, got)
	}
	return nil
}

// Point is a single position or an empty point.
type Point struct {
	base
	pos   coord.Position
	empty bool
}

// NewPoint wraps p.
func NewPoint(p coord.Position) *Point {
	return &Point{base: base{kind: p.Kind}, pos: p}
}

// NewEmptyPoint returns POINT EMPTY of kind.
func NewEmptyPoint(kind coord.Kind) *Point {
	return &Point{base: base{kind: kind}, pos: coord.Position{Kind: kind}, empty: true}
}

// Position returns the position, false when the point is empty.
func (p *Point) Position() (coord.Position, bool) { return p.pos, !p.empty }

func (p *Point) Type() Type    { return TypePoint }
func (p *Point) IsEmpty() bool { return p.empty }

func (p *Point) Bounds() (coord.Box, bool) {
	if box, ok := p.stored(); ok {
		return box, true
	}
	return p.calculateBounds()
}

func (p *Point) calculateBounds() (coord.Box, bool) {
	if p.empty {
		return coord.Box{}, false
	}
	return coord.BoxOf(p.pos)
}

func (p *Point) withBounds(box *coord.Box) Geometry {
	c := *p
	c.bounds = box
	return &c
}

func (p *Point) Write(b Builder) error {
	if p.empty {
		return b.EmptyGeometry(TypePoint, p.kind)
	}
	return b.Point(p.pos)
}

// LineString is a series of zero or at least two positions.
type LineString struct {
	base
	series coord.Series
}

// NewLineString validates that s is empty or has two or more positions.
func NewLineString(s coord.Series) (*LineString, error) {
	if s.Len() == 1 {
		return nil, errors.Wrap(coord.ErrInvalidArgument, "line string needs at least two positions")
	}
	return &LineString{base: base{kind: s.Kind()}, series: s}, nil
}

// Series returns the positions.
func (l *LineString) Series() coord.Series { return l.series }

func (l *LineString) Type() Type    { return TypeLineString }
func (l *LineString) IsEmpty() bool { return l.series.IsEmpty() }

func (l *LineString) Bounds() (coord.Box, bool) {
	if box, ok := l.stored(); ok {
		return box, true
	}
	return l.calculateBounds()
}

func (l *LineString) calculateBounds() (coord.Box, bool) { return l.series.Bounds() }

func (l *LineString) withBounds(box *coord.Box) Geometry {
	c := *l
	c.bounds = box
	return &c
}

func (l *LineString) Write(b Builder) error {
	if l.IsEmpty() {
		return b.EmptyGeometry(TypeLineString, l.kind)
	}
	return b.LineString(l.series)
}

// Polygon holds an exterior ring followed by interior rings (holes).
type Polygon struct {
	base
	rings []coord.Series
}

// NewPolygon validates the ring list: at least one ring, a single coordinate
// kind, and every ring non-empty and closed. Unclosed rings are rejected.
func NewPolygon(rings []coord.Series) (*Polygon, error) {
	if len(rings) == 0 {
		return nil, errors.Wrap(coord.ErrInvalidArgument, "polygon needs at least one ring")
	}
	kind := rings[0].Kind()
	for i, r := range rings {
		if err := checkKind(kind, r.Kind()); err != nil {
			return nil, err
		}
		if r.Len() < 4 {
			return nil, errors.Wrapf(coord.ErrInvalidArgument, "ring %d has %d positions, need at least 4", i, r.Len())
		}
		if !r.IsClosed() {
			return nil, errors.Wrapf(coord.ErrInvalidArgument, "ring %d is not closed", i)
		}
	}
	return &Polygon{base: base{kind: kind}, rings: rings}, nil
}

// NewEmptyPolygon returns POLYGON EMPTY of kind.
func NewEmptyPolygon(kind coord.Kind) *Polygon {
	return &Polygon{base: base{kind: kind}}
}

// Rings returns all rings, exterior first.
func (p *Polygon) Rings() []coord.Series { return p.rings }

// Exterior returns the outer ring, empty for an empty polygon.
func (p *Polygon) Exterior() coord.Series {
	if len(p.rings) == 0 {
		return coord.Series{}
	}
	return p.rings[0]
}

// Holes returns the interior rings.
func (p *Polygon) Holes() []coord.Series {
	if len(p.rings) < 2 {
		return nil
	}
	return p.rings[1:]
}

func (p *Polygon) Type() Type    { return TypePolygon }
func (p *Polygon) IsEmpty() bool { return len(p.rings) == 0 }

func (p *Polygon) Bounds() (coord.Box, bool) {
	if box, ok := p.stored(); ok {
		return box, true
	}
	return p.calculateBounds()
}

// holes lie inside the exterior ring
func (p *Polygon) calculateBounds() (coord.Box, bool) { return p.Exterior().Bounds() }

func (p *Polygon) withBounds(box *coord.Box) Geometry {
	c := *p
	c.bounds = box
	return &c
}

func (p *Polygon) Write(b Builder) error {
	if p.IsEmpty() {
		return b.EmptyGeometry(TypePolygon, p.kind)
	}
	return b.Polygon(p.rings)
}

// MultiPoint stores its positions packed in one series.
type MultiPoint struct {
	base
	points coord.Series
}

// NewMultiPoint wraps a series of points.
func NewMultiPoint(points coord.Series) *MultiPoint {
	return &MultiPoint{base: base{kind: points.Kind()}, points: points}
}

// Points returns the positions.
func (m *MultiPoint) Points() coord.Series { return m.points }

func (m *MultiPoint) Type() Type    { return TypeMultiPoint }
func (m *MultiPoint) IsEmpty() bool { return m.points.IsEmpty() }

func (m *MultiPoint) Bounds() (coord.Box, bool) {
	if box, ok := m.stored(); ok {
		return box, true
	}
	return m.calculateBounds()
}

func (m *MultiPoint) calculateBounds() (coord.Box, bool) { return m.points.Bounds() }

func (m *MultiPoint) withBounds(box *coord.Box) Geometry {
	c := *m
	c.bounds = box
	return &c
}

func (m *MultiPoint) Write(b Builder) error {
	if m.IsEmpty() {
		return b.EmptyGeometry(TypeMultiPoint, m.kind)
	}
	return b.MultiPoint(m.points)
}

// MultiLineString is a list of line strings sharing a kind.
type MultiLineString struct {
	base
	lines []coord.Series
}

// NewMultiLineString validates every member like NewLineString and rejects
// empty members and mixed kinds.
func NewMultiLineString(kind coord.Kind, lines []coord.Series) (*MultiLineString, error) {
	for i, l := range lines {
		if err := checkKind(kind, l.Kind()); err != nil {
			return nil, err
		}
		if l.Len() < 2 {
			return nil, errors.Wrapf(coord.ErrInvalidArgument, "line string %d has %d positions", i, l.Len())
		}
	}
	return &MultiLineString{base: base{kind: kind}, lines: lines}, nil
}

// Lines returns the member line strings.
func (m *MultiLineString) Lines() []coord.Series { return m.lines }

func (m *MultiLineString) Type() Type    { return TypeMultiLineString }
func (m *MultiLineString) IsEmpty() bool { return len(m.lines) == 0 }

func (m *MultiLineString) Bounds() (coord.Box, bool) {
	if box, ok := m.stored(); ok {
		return box, true
	}
	return m.calculateBounds()
}

func (m *MultiLineString) calculateBounds() (coord.Box, bool) { return seriesBounds(m.lines...) }

func (m *MultiLineString) withBounds(box *coord.Box) Geometry {
	c := *m
	c.bounds = box
	return &c
}

func (m *MultiLineString) Write(b Builder) error {
	if m.IsEmpty() {
		return b.EmptyGeometry(TypeMultiLineString, m.kind)
	}
	return b.MultiLineString(m.lines)
}

// MultiPolygon is a list of non-empty polygons sharing a kind.
type MultiPolygon struct {
	base
	polygons []*Polygon
}

// NewMultiPolygon validates each ring list with NewPolygon.
func NewMultiPolygon(kind coord.Kind, polygons [][]coord.Series) (*MultiPolygon, error) {
	m := &MultiPolygon{base: base{kind: kind}, polygons: make([]*Polygon, 0, len(polygons))}
	for i, rings := range polygons {
		p, err := NewPolygon(rings)
		if err != nil {
			return nil, errors.Wrapf(err, "polygon %d", i)
		}
		if err := checkKind(kind, p.kind); err != nil {
			return nil, err
		}
		m.polygons = append(m.polygons, p)
	}
	return m, nil
}

// Polygons returns the member polygons.
func (m *MultiPolygon) Polygons() []*Polygon { return m.polygons }

func (m *MultiPolygon) Type() Type    { return TypeMultiPolygon }
func (m *MultiPolygon) IsEmpty() bool { return len(m.polygons) == 0 }

func (m *MultiPolygon) Bounds() (coord.Box, bool) {
	if box, ok := m.stored(); ok {
		return box, true
	}
	return m.calculateBounds()
}

func (m *MultiPolygon) calculateBounds() (coord.Box, bool) {
	exteriors := make([]coord.Series, len(m.polygons))
	for i, p := range m.polygons {
		exteriors[i] = p.Exterior()
	}
	return seriesBounds(exteriors...)
}

func (m *MultiPolygon) withBounds(box *coord.Box) Geometry {
	c := *m
	c.bounds = box
	return &c
}

func (m *MultiPolygon) Write(b Builder) error {
	if m.IsEmpty() {
		return b.EmptyGeometry(TypeMultiPolygon, m.kind)
	}
	rings := make([][]coord.Series, len(m.polygons))
	for i, p := range m.polygons {
		rings[i] = p.rings
	}
	return b.MultiPolygon(rings)
}

// GeometryCollection holds child geometries of a single coordinate kind.
type GeometryCollection struct {
	base
	geoms []Geometry
}

// NewGeometryCollection takes its kind from the first child. Children with
// another kind are rejected.
func NewGeometryCollection(geoms ...Geometry) (*GeometryCollection, error) {
	if len(geoms) == 0 {
		return nil, errors.Wrap(coord.ErrInvalidArgument, "use NewEmptyGeometryCollection for empty collections")
	}
	kind := geoms[0].Kind()
	for _, g := range geoms {
		if err := checkKind(kind, g.Kind()); err != nil {
			return nil, err
		}
	}
	return &GeometryCollection{base: base{kind: kind}, geoms: geoms}, nil
}

// NewEmptyGeometryCollection returns GEOMETRYCOLLECTION EMPTY of kind.
func NewEmptyGeometryCollection(kind coord.Kind) *GeometryCollection {
	return &GeometryCollection{base: base{kind: kind}}
}

// Geometries returns the children.
func (c *GeometryCollection) Geometries() []Geometry { return c.geoms }

func (c *GeometryCollection) Type() Type    { return TypeGeometryCollection }
func (c *GeometryCollection) IsEmpty() bool { return len(c.geoms) == 0 }

func (c *GeometryCollection) Bounds() (coord.Box, bool) {
	if box, ok := c.stored(); ok {
		return box, true
	}
	return c.calculateBounds()
}

func (c *GeometryCollection) calculateBounds() (coord.Box, bool) {
	var (
		box   coord.Box
		found bool
	)
	for _, g := range c.geoms {
		b, ok := g.Bounds()
		if !ok {
			continue
		}
		if found {
			box = box.Extend(b)
		} else {
			box, found = b, true
		}
	}
	return box, found
}

func (c *GeometryCollection) withBounds(box *coord.Box) Geometry {
	cp := *c
	cp.bounds = box
	return &cp
}

func (c *GeometryCollection) Write(b Builder) error {
	if c.IsEmpty() {
		return b.EmptyGeometry(TypeGeometryCollection, c.kind)
	}
	return b.GeometryCollection(c.kind, func(child Builder) error {
		for _, g := range c.geoms {
			if err := g.Write(child); err != nil {
				return err
			}
		}
		return nil
	})
}
