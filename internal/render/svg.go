package render

import (
	"bytes"
	"io"
	"strconv"
	"text/template"

	"github.com/cockroachdb/errors"
	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/svg"
	"github.com/woozymasta/geocore/internal/coord"
	"github.com/woozymasta/geocore/internal/geo"
)

const svgMime = "image/svg+xml"

var svgTemplate = template.Must(template.New("svg").Parse(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="{{.Width}}" height="{{.Height}}" viewBox="0 0 {{.Width}} {{.Height}}">
{{- range .Paths}}
  <path d="{{.D}}" fill="{{.Fill}}" fill-rule="evenodd" stroke="{{.Stroke}}" stroke-width="{{.StrokeWidth}}" stroke-linejoin="round" stroke-linecap="round"/>
{{- end}}
</svg>
`))

type svgPath struct {
	D           string
	Fill        string
	Stroke      string
	StrokeWidth float64
}

type svgDoc struct {
	Width, Height int
	Paths         []svgPath
}

// SVG draws geoms, given in planar coordinates inside box, as a minified
// SVG document of width pixels. The height follows the box aspect ratio.
func SVG(w io.Writer, geoms []geo.Geometry, box coord.Box, width int, style Style) error {
	if width <= 0 || box.Width() <= 0 || box.Height() <= 0 {
		return errors.Wrapf(coord.ErrInvalidArgument, "svg: empty extent %vx%v", box.Width(), box.Height())
	}
	style = style.WithDefaults()
	if err := style.Validate(); err != nil {
		return err
	}

	scale := float64(width) / box.Width()
	doc := svgDoc{Width: width, Height: int(box.Height()*scale + 0.5)}
	p := pathWriter{box: box, scale: scale}

	for _, g := range geoms {
		p.reset()
		p.geometry(g)
		if p.areal.Len() > 0 {
			doc.Paths = append(doc.Paths, svgPath{
				D: p.areal.String(), Fill: style.Fill, Stroke: style.Stroke, StrokeWidth: style.StrokeWidth,
			})
		}
		if p.linear.Len() > 0 {
			doc.Paths = append(doc.Paths, svgPath{
				D: p.linear.String(), Fill: "none", Stroke: style.Stroke, StrokeWidth: style.StrokeWidth,
			})
		}
		if p.dots.Len() > 0 {
			doc.Paths = append(doc.Paths, svgPath{
				D: p.dots.String(), Fill: "none", Stroke: style.Stroke, StrokeWidth: 2 * style.PointRadius,
			})
		}
	}

	var buf bytes.Buffer
	if err := svgTemplate.Execute(&buf, doc); err != nil {
		return errors.Wrap(err, "svg template")
	}

	m := minify.New()
	m.AddFunc(svgMime, svg.Minify)
	if err := m.Minify(svgMime, w, &buf); err != nil {
		return errors.Wrap(err, "minify svg")
	}
	return nil
}

// SVG writes the whole layer.
func (l *Layer) SVG(w io.Writer, width int) error {
	if !l.HasBounds {
		return errors.Newf("layer %s is empty", l.Name)
	}
	return SVG(w, l.Geometries, l.Bounds, width, l.Style)
}

// pathWriter builds path data, splitting areas, lines and points.
type pathWriter struct {
	box    coord.Box
	scale  float64
	areal  bytes.Buffer
	linear bytes.Buffer
	dots   bytes.Buffer
	num    []byte
}

func (p *pathWriter) reset() {
	p.areal.Reset()
	p.linear.Reset()
	p.dots.Reset()
}

func (p *pathWriter) number(b *bytes.Buffer, v float64) {
	p.num = strconv.AppendFloat(p.num[:0], v, 'f', 2, 64)
	b.Write(p.num)
}

func (p *pathWriter) point(b *bytes.Buffer, cmd byte, x, y float64) {
	b.WriteByte(cmd)
	p.number(b, (x-p.box.MinX)*p.scale)
	b.WriteByte(' ')
	p.number(b, (p.box.MaxY-y)*p.scale)
}

func (p *pathWriter) series(b *bytes.Buffer, s coord.Series, closed bool) {
	for i := 0; i < s.Len(); i++ {
		cmd := byte('L')
		if i == 0 {
			cmd = 'M'
		}
		p.point(b, cmd, s.X(i), s.Y(i))
	}
	if closed && s.Len() > 0 {
		b.WriteByte('Z')
	}
}

// a zero length subpath with a round cap renders as a dot
func (p *pathWriter) dot(x, y float64) {
	p.point(&p.dots, 'M', x, y)
	p.dots.WriteString("h0")
}

func (p *pathWriter) geometry(g geo.Geometry) {
	switch g := g.(type) {
	case *geo.Point:
		if pos, ok := g.Position(); ok {
			p.dot(pos.X, pos.Y)
		}
	case *geo.MultiPoint:
		s := g.Points()
		for i := 0; i < s.Len(); i++ {
			p.dot(s.X(i), s.Y(i))
		}
	case *geo.LineString:
		p.series(&p.linear, g.Series(), false)
	case *geo.MultiLineString:
		for _, s := range g.Lines() {
			p.series(&p.linear, s, false)
		}
	case *geo.Polygon:
		for _, r := range g.Rings() {
			p.series(&p.areal, r, true)
		}
	case *geo.MultiPolygon:
		for _, poly := range g.Polygons() {
			for _, r := range poly.Rings() {
				p.series(&p.areal, r, true)
			}
		}
	case *geo.GeometryCollection:
		for _, child := range g.Geometries() {
			p.geometry(child)
		}
	}
}
