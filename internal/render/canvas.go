package render

import (
	"image"
	"image/color"
	"math"

	"github.com/woozymasta/geocore/internal/coord"
	"github.com/woozymasta/geocore/internal/geo"
	"golang.org/x/image/vector"
)

const circleSegments = 16

// canvas maps Web Mercator meters onto an image. The rasterizer sums signed
// coverage, so every filled outline within one pass shares an orientation
// and holes run the other way.
type canvas struct {
	dst   *image.RGBA
	r     *vector.Rasterizer
	box   coord.Box
	scale float64 // pixels per meter
	pal   palette
	// pixels per output pixel
	factor float64
}

func newCanvas(dst *image.RGBA, box coord.Box, pal palette, factor int) *canvas {
	size := dst.Bounds().Dx()
	return &canvas{
		dst:    dst,
		r:      vector.NewRasterizer(size, dst.Bounds().Dy()),
		box:    box,
		scale:  float64(size) / box.Width(),
		pal:    pal,
		factor: float64(factor),
	}
}

// margin is how far outside the box, in meters, strokes and points reach.
func (c *canvas) margin() float64 {
	return (max(c.pal.strokeWidth/2, c.pal.pointRadius) + 1) * c.factor / c.scale
}

func (c *canvas) pt(x, y float64) (float32, float32) {
	return float32((x - c.box.MinX) * c.scale), float32((c.box.MaxY - y) * c.scale)
}

func (c *canvas) begin() {
	b := c.dst.Bounds()
	c.r.Reset(b.Dx(), b.Dy())
}

func (c *canvas) paint(col color.NRGBA) {
	if col.A == 0 {
		return
	}
	c.r.Draw(c.dst, c.dst.Bounds(), image.NewUniform(col), image.Point{})
}

func (c *canvas) geometry(g geo.Geometry) {
	switch g := g.(type) {
	case *geo.Point:
		if p, ok := g.Position(); ok {
			c.begin()
			c.dot(p.X, p.Y)
			c.paint(c.pal.stroke)
		}
	case *geo.MultiPoint:
		s := g.Points()
		c.begin()
		for i := 0; i < s.Len(); i++ {
			c.dot(s.X(i), s.Y(i))
		}
		c.paint(c.pal.stroke)
	case *geo.LineString:
		c.begin()
		c.line(g.Series(), false)
		c.paint(c.pal.stroke)
	case *geo.MultiLineString:
		c.begin()
		for _, s := range g.Lines() {
			c.line(s, false)
		}
		c.paint(c.pal.stroke)
	case *geo.Polygon:
		c.polygon(g.Rings())
	case *geo.MultiPolygon:
		for _, p := range g.Polygons() {
			c.polygon(p.Rings())
		}
	case *geo.GeometryCollection:
		for _, child := range g.Geometries() {
			c.geometry(child)
		}
	}
}

func (c *canvas) polygon(rings []coord.Series) {
	if len(rings) == 0 {
		return
	}
	c.begin()
	exterior := signedArea(rings[0]) >= 0
	for i, ring := range rings {
		c.ring(ring, i > 0 && (signedArea(ring) >= 0) == exterior)
	}
	c.paint(c.pal.fill)

	c.begin()
	for _, ring := range rings {
		c.line(ring, true)
	}
	c.paint(c.pal.stroke)
}

func (c *canvas) ring(s coord.Series, reversed bool) {
	n := s.Len()
	if n < 3 {
		return
	}
	at := func(i int) (float32, float32) {
		if reversed {
			i = n - 1 - i
		}
		return c.pt(s.X(i), s.Y(i))
	}
	c.r.MoveTo(at(0))
	for i := 1; i < n; i++ {
		c.r.LineTo(at(i))
	}
	c.r.ClosePath()
}

// line outlines every segment as a quad with square joins.
func (c *canvas) line(s coord.Series, closed bool) {
	hw := c.pal.strokeWidth * c.factor / 2
	n := s.Len()
	for i := 0; i < n; i++ {
		ax, ay := c.pt(s.X(i), s.Y(i))
		c.square(float64(ax), float64(ay), hw)
		j := i + 1
		if j == n {
			if !closed {
				break
			}
			j = 0
		}
		bx, by := c.pt(s.X(j), s.Y(j))
		c.segment(float64(ax), float64(ay), float64(bx), float64(by), hw)
	}
}

func (c *canvas) segment(ax, ay, bx, by, hw float64) {
	dx, dy := bx-ax, by-ay
	l := math.Hypot(dx, dy)
	if l == 0 {
		return
	}
	nx, ny := -dy/l*hw, dx/l*hw
	c.r.MoveTo(float32(ax+nx), float32(ay+ny))
	c.r.LineTo(float32(bx+nx), float32(by+ny))
	c.r.LineTo(float32(bx-nx), float32(by-ny))
	c.r.LineTo(float32(ax-nx), float32(ay-ny))
	c.r.ClosePath()
}

// square matches the orientation of segment for a left to right segment.
func (c *canvas) square(x, y, h float64) {
	c.r.MoveTo(float32(x-h), float32(y+h))
	c.r.LineTo(float32(x+h), float32(y+h))
	c.r.LineTo(float32(x+h), float32(y-h))
	c.r.LineTo(float32(x-h), float32(y-h))
	c.r.ClosePath()
}

func (c *canvas) dot(x, y float64) {
	px, py := c.pt(x, y)
	r := c.pal.pointRadius * c.factor
	c.r.MoveTo(px+float32(r), py)
	for i := 1; i < circleSegments; i++ {
		a := 2 * math.Pi * float64(i) / circleSegments
		c.r.LineTo(px+float32(r*math.Cos(a)), py+float32(r*math.Sin(a)))
	}
	c.r.ClosePath()
}

// signedArea is the shoelace sum, positive for counter clockwise rings.
func signedArea(s coord.Series) float64 {
	var a float64
	n := s.Len()
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		a += s.X(i)*s.Y(j) - s.X(j)*s.Y(i)
	}
	return a / 2
}
