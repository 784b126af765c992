package geo

import (
	"math"

	"github.com/woozymasta/geocore/internal/coord"
)

// inRing runs the even-odd crossing test against a ring, including the edge
// from the last position back to the first. Points exactly on an edge may be
// reported either way.
func inRing(x, y float64, ring coord.Series) bool {
	inside := false
	n := ring.Len()
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		xi, yi := ring.X(i), ring.Y(i)
		xj, yj := ring.X(j), ring.Y(j)
		if (yi > y) != (yj > y) && x < (xj-xi)*(y-yi)/(yj-yi)+xi {
			inside = !inside
		}
	}
	return inside
}

// PointInPolygon reports whether p lies inside the exterior ring and outside
// every hole.
func PointInPolygon(p coord.Position, rings []coord.Series) bool {
	if len(rings) == 0 || !inRing(p.X, p.Y, rings[0]) {
		return false
	}
	for _, hole := range rings[1:] {
		if inRing(p.X, p.Y, hole) {
			return false
		}
	}
	return true
}

// Contains reports whether p is inside the polygon.
func (p *Polygon) Contains(pos coord.Position) bool { return PointInPolygon(pos, p.rings) }

// Contains reports whether p is inside any member polygon.
func (m *MultiPolygon) Contains(pos coord.Position) bool {
	for _, p := range m.polygons {
		if p.Contains(pos) {
			return true
		}
	}
	return false
}

// ringArea returns the signed shoelace area and the area weighted centroid
// sums of a ring.
func ringArea(ring coord.Series) (area, cx, cy float64) {
	n := ring.Len()
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		xi, yi := ring.X(i), ring.Y(i)
		xj, yj := ring.X(j), ring.Y(j)
		f := xj*yi - xi*yj
		area += f
		cx += (xi + xj) * f
		cy += (yi + yj) * f
	}
	return area / 2, cx, cy
}

// polygonArea is the exterior area minus the hole areas.
func polygonArea(rings []coord.Series) float64 {
	if len(rings) == 0 {
		return 0
	}
	a, _, _ := ringArea(rings[0])
	total := math.Abs(a)
	for _, hole := range rings[1:] {
		h, _, _ := ringArea(hole)
		total -= math.Abs(h)
	}
	return total
}

// Area returns the planar area of the areal parts of g in squared coordinate
// units. Points and lines have no area.
func Area(g Geometry) float64 {
	switch g := g.(type) {
	case *Polygon:
		return polygonArea(g.rings)
	case *MultiPolygon:
		var total float64
		for _, p := range g.polygons {
			total += polygonArea(p.rings)
		}
		return total
	case *GeometryCollection:
		var total float64
		for _, c := range g.geoms {
			total += Area(c)
		}
		return total
	}
	return 0
}

// centroid accumulates weighted sums per topological dimension. Only the
// highest dimension with a non-zero weight contributes to the result.
type centroid struct {
	area, ax, ay   float64
	length, lx, ly float64
	count, px, py  float64
}

func (c *centroid) addPoint(x, y float64) {
	c.count++
	c.px += x
	c.py += y
}

func (c *centroid) addPoints(s coord.Series) {
	for i := 0; i < s.Len(); i++ {
		c.addPoint(s.X(i), s.Y(i))
	}
}

func (c *centroid) addLine(s coord.Series) {
	var length float64
	for i := 1; i < s.Len(); i++ {
		x0, y0, x1, y1 := s.X(i-1), s.Y(i-1), s.X(i), s.Y(i)
		d := math.Hypot(x1-x0, y1-y0)
		length += d
		c.lx += d * (x0 + x1) / 2
		c.ly += d * (y0 + y1) / 2
	}
	c.length += length
	if length == 0 {
		// zero length lines count as points
		c.addPoints(s)
	}
}

func (c *centroid) addPolygon(rings []coord.Series) {
	if len(rings) == 0 {
		return
	}
	a, sx, sy := ringArea(rings[0])
	if a == 0 {
		c.addLine(rings[0])
		return
	}
	// the sums are divided by 6*area for the centroid; weighting the centroid
	// by |area| leaves sx/6 with the sign of the area
	sign := math.Copysign(1, a)
	c.area += math.Abs(a)
	c.ax += sign * sx / 6
	c.ay += sign * sy / 6

	for _, hole := range rings[1:] {
		h, hx, hy := ringArea(hole)
		if h == 0 {
			continue
		}
		sign := math.Copysign(1, h)
		c.area -= math.Abs(h)
		c.ax -= sign * hx / 6
		c.ay -= sign * hy / 6
	}
}

func (c *centroid) add(g Geometry) {
	switch g := g.(type) {
	case *Point:
		if pos, ok := g.Position(); ok {
			c.addPoint(pos.X, pos.Y)
		}
	case *MultiPoint:
		c.addPoints(g.points)
	case *LineString:
		c.addLine(g.series)
	case *MultiLineString:
		for _, l := range g.lines {
			c.addLine(l)
		}
	case *Polygon:
		c.addPolygon(g.rings)
	case *MultiPolygon:
		for _, p := range g.polygons {
			c.addPolygon(p.rings)
		}
	case *GeometryCollection:
		for _, child := range g.geoms {
			c.add(child)
		}
	}
}

func (c *centroid) result() (x, y float64, ok bool) {
	switch {
	case c.area != 0:
		return c.ax / c.area, c.ay / c.area, true
	case c.length != 0:
		return c.lx / c.length, c.ly / c.length, true
	case c.count != 0:
		return c.px / c.count, c.py / c.count, true
	}
	return 0, 0, false
}

// Centroid returns the 2D centroid of g. Areal parts are weighted by area
// with holes subtracted, lines by length and points evenly; lower dimensional
// parts are ignored when higher dimensional parts exist. A polygon with a
// zero area exterior falls back to the centroid of its exterior ring as a
// line. The result is false when g holds no positions.
func Centroid(g Geometry) (coord.Position, bool) {
	var c centroid
	c.add(g)
	x, y, ok := c.result()
	if !ok {
		return coord.Position{}, false
	}
	return coord.Position{X: x, Y: y, Kind: coord.KindOf(false, false, g.Kind().IsGeographic())}, true
}
