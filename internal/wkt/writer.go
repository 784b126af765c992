package wkt

import (
	"io"
	"strconv"
	"strings"

	"github.com/woozymasta/geocore/internal/coord"
	"github.com/woozymasta/geocore/internal/geo"
)

// Writer is a geo.Builder writing canonical WKT. Each top level geometry is
// written to the underlying writer once complete.
type Writer struct {
	w        io.Writer
	decimals int
	buf      []byte
	// members written per open collection
	members []int
}

var _ geo.Builder = (*Writer)(nil)

// NewWriter returns a Writer on w.
func NewWriter(w io.Writer, opts ...Option) *Writer {
	o := newOptions(opts)
	return &Writer{w: w, decimals: o.decimals}
}

// Encode returns the WKT text of g.
func Encode(g geo.Geometry, opts ...Option) (string, error) {
	var sb strings.Builder
	if err := g.Write(NewWriter(&sb, opts...)); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func (w *Writer) begin(t geo.Type, kind coord.Kind) {
	if n := len(w.members); n > 0 {
		if w.members[n-1] > 0 {
			w.buf = append(w.buf, ',')
		}
		w.members[n-1]++
	}
	w.buf = append(w.buf, t.Keyword()...)
	if suffix := kind.WKTSuffix(); suffix != "" {
		w.buf = append(w.buf, ' ')
		w.buf = append(w.buf, suffix...)
	}
}

func (w *Writer) end() error {
	if len(w.members) > 0 {
		return nil
	}
	_, err := w.w.Write(w.buf)
	w.buf = w.buf[:0]
	return err
}

func (w *Writer) number(v float64) {
	if w.decimals < 0 {
		w.buf = strconv.AppendFloat(w.buf, v, 'f', -1, 64)
		return
	}
	start := len(w.buf)
	w.buf = strconv.AppendFloat(w.buf, v, 'f', w.decimals, 64)
	if w.decimals > 0 {
		n := len(w.buf)
		for n > start && w.buf[n-1] == '0' {
			n--
		}
		if w.buf[n-1] == '.' {
			n--
		}
		w.buf = w.buf[:n]
	}
	if string(w.buf[start:]) == "-0" {
		w.buf = append(w.buf[:start], '0')
	}
}

func (w *Writer) tuple(s coord.Series, i int) {
	w.number(s.X(i))
	w.buf = append(w.buf, ' ')
	w.number(s.Y(i))
	if z, ok := s.OptZ(i); ok {
		w.buf = append(w.buf, ' ')
		w.number(z)
	}
	if m, ok := s.OptM(i); ok {
		w.buf = append(w.buf, ' ')
		w.number(m)
	}
}

func (w *Writer) series(s coord.Series) {
	w.buf = append(w.buf, '(')
	for i := 0; i < s.Len(); i++ {
		if i > 0 {
			w.buf = append(w.buf, ',')
		}
		w.tuple(s, i)
	}
	w.buf = append(w.buf, ')')
}

func (w *Writer) seriesList(list []coord.Series) {
	w.buf = append(w.buf, '(')
	for i, s := range list {
		if i > 0 {
			w.buf = append(w.buf, ',')
		}
		w.series(s)
	}
	w.buf = append(w.buf, ')')
}

func (w *Writer) Point(p coord.Position) error {
	w.begin(geo.TypePoint, p.Kind)
	w.series(coord.SeriesOf(p.Kind, p))
	return w.end()
}

func (w *Writer) LineString(s coord.Series) error {
	w.begin(geo.TypeLineString, s.Kind())
	w.series(s)
	return w.end()
}

func (w *Writer) Polygon(rings []coord.Series) error {
	w.begin(geo.TypePolygon, kindOf(rings))
	w.seriesList(rings)
	return w.end()
}

func (w *Writer) MultiPoint(points coord.Series) error {
	w.begin(geo.TypeMultiPoint, points.Kind())
	w.buf = append(w.buf, '(')
	for i := 0; i < points.Len(); i++ {
		if i > 0 {
			w.buf = append(w.buf, ',')
		}
		w.buf = append(w.buf, '(')
		w.tuple(points, i)
		w.buf = append(w.buf, ')')
	}
	w.buf = append(w.buf, ')')
	return w.end()
}

func (w *Writer) MultiLineString(lines []coord.Series) error {
	w.begin(geo.TypeMultiLineString, kindOf(lines))
	w.seriesList(lines)
	return w.end()
}

func (w *Writer) MultiPolygon(polygons [][]coord.Series) error {
	kind := coord.XY
	if len(polygons) > 0 {
		kind = kindOf(polygons[0])
	}
	w.begin(geo.TypeMultiPolygon, kind)
	w.buf = append(w.buf, '(')
	for i, rings := range polygons {
		if i > 0 {
			w.buf = append(w.buf, ',')
		}
		w.seriesList(rings)
	}
	w.buf = append(w.buf, ')')
	return w.end()
}

func (w *Writer) GeometryCollection(kind coord.Kind, emit func(geo.Builder) error) error {
	w.begin(geo.TypeGeometryCollection, kind)
	w.buf = append(w.buf, '(')
	w.members = append(w.members, 0)
	err := emit(w)
	w.members = w.members[:len(w.members)-1]
	if err != nil {
		w.buf = w.buf[:0]
		return err
	}
	w.buf = append(w.buf, ')')
	return w.end()
}

func (w *Writer) EmptyGeometry(t geo.Type, kind coord.Kind) error {
	w.begin(t, kind)
	w.buf = append(w.buf, " EMPTY"...)
	return w.end()
}

func kindOf(list []coord.Series) coord.Kind {
	if len(list) == 0 {
		return coord.XY
	}
	return list[0].Kind()
}
