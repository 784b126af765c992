package wkt

import (
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/woozymasta/geocore/internal/coord"
	"github.com/woozymasta/geocore/internal/geo"
)

// Decode parses a single geometry.
func Decode(text string, opts ...Option) (geo.Geometry, error) {
	return geo.Build(func(b geo.Builder) error {
		return DecodeTo(text, b, opts...)
	})
}

// DecodeTo parses text and emits the geometry into b. Nothing is emitted
// for input that fails before its body is parsed; builder errors abort
// decoding and are returned as is.
func DecodeTo(text string, b geo.Builder, opts ...Option) error {
	d := decoder{opts: newOptions(opts)}
	return d.geometry(strings.ToUpper(text), b, nil)
}

type decoder struct {
	opts options
}

// header is the part of a geometry before its body.
type header struct {
	typ    geo.Type
	marker string // "", "Z", "M" or "ZM"
	empty  bool
	body   string // text between the outer parentheses
}

func isSpace(c byte) bool { return c == ' ' || c == '\t' || c == '\n' || c == '\r' }

func isLetter(c byte) bool { return c >= 'A' && c <= 'Z' }

func trimSpace(s string) string { return strings.Trim(s, " \t\n\r") }

// word splits the leading run of letters off s.
func word(s string) (string, string) {
	i := 0
	for i < len(s) && isLetter(s[i]) {
		i++
	}
	return s[:i], trimSpace(s[i:])
}

func parseKeyword(kw string) (geo.Type, string, bool) {
	if t, ok := geo.TypeFromKeyword(kw); ok {
		return t, "", true
	}
	for _, marker := range []string{"ZM", "Z", "M"} {
		if base, ok := strings.CutSuffix(kw, marker); ok {
			if t, ok := geo.TypeFromKeyword(base); ok {
				return t, marker, true
			}
		}
	}
	return 0, "", false
}

func parseHeader(text string) (header, error) {
	text = trimSpace(text)
	kw, rest := word(text)
	if kw == "" {
		return header{}, formatError(text, "expected geometry type")
	}
	t, marker, ok := parseKeyword(kw)
	if !ok {
		return header{}, formatError(text, "unknown geometry type %s", kw)
	}
	h := header{typ: t, marker: marker}

	next, after := word(rest)
	switch next {
	case "":
	case "Z", "M", "ZM":
		if h.marker != "" {
			return header{}, formatError(text, "repeated dimension marker")
		}
		h.marker = next
		rest = after
		next, after = word(rest)
	}

	switch next {
	case "":
	case "EMPTY":
		if after != "" {
			return header{}, formatError(text, "unexpected characters after EMPTY")
		}
		h.empty = true
		return h, nil
	default:
		return header{}, formatError(text, "unexpected token %s", next)
	}

	body, err := enclosed(rest)
	if err != nil {
		return header{}, err
	}
	h.body = body
	return h, nil
}

// enclosed returns the text inside the parenthesis that opens s, which must
// close at the end of s.
func enclosed(s string) (string, error) {
	if s == "" || s[0] != '(' {
		return "", formatError(s, "expected (")
	}
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				if rest := trimSpace(s[i+1:]); rest != "" {
					return "", formatError(s, "unexpected characters %q after geometry", rest)
				}
				return s[1:i], nil
			}
		}
	}
	return "", formatError(s, "unmatched parenthesis")
}

// splitTop splits s at commas outside parentheses.
func splitTop(s string) ([]string, error) {
	var (
		parts []string
		depth int
		start int
	)
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth < 0 {
				return nil, formatError(s, "unmatched parenthesis")
			}
		case ',':
			if depth == 0 {
				parts = append(parts, trimSpace(s[start:i]))
				start = i + 1
			}
		}
	}
	if depth != 0 {
		return nil, formatError(s, "unmatched parenthesis")
	}
	parts = append(parts, trimSpace(s[start:]))
	for _, p := range parts {
		if p == "" {
			return nil, formatError(s, "empty member")
		}
	}
	return parts, nil
}

// groups splits s into parenthesized members and returns their contents.
func groups(s string) ([]string, error) {
	parts, err := splitTop(s)
	if err != nil {
		return nil, err
	}
	for i, p := range parts {
		if parts[i], err = enclosed(p); err != nil {
			return nil, err
		}
	}
	return parts, nil
}

func markerKind(marker string) coord.Kind {
	return coord.KindOf(strings.Contains(marker, "Z"), strings.Contains(marker, "M"), false)
}

// inferKind guesses the kind of an unmarked geometry from the number of
// values in its first tuple; collections look at their first member that
// is marked or not empty.
func inferKind(h header) coord.Kind {
	if h.marker != "" {
		return markerKind(h.marker)
	}
	if h.empty {
		return coord.XY
	}
	if h.typ == geo.TypeGeometryCollection {
		members, err := splitTop(h.body)
		if err != nil {
			return coord.XY
		}
		for _, m := range members {
			child, err := parseHeader(m)
			if err != nil {
				return coord.XY
			}
			if child.marker != "" || !child.empty {
				return inferKind(child)
			}
		}
		return coord.XY
	}

	tuple := strings.TrimLeft(h.body, "( \t\n\r")
	if i := strings.IndexAny(tuple, ",)"); i >= 0 {
		tuple = tuple[:i]
	}
	switch len(strings.Fields(tuple)) {
	case 3:
		return coord.XYZ
	case 4:
		return coord.XYZM
	}
	return coord.XY
}

func (d *decoder) kind(h header, parent *coord.Kind) coord.Kind {
	if h.marker == "" && parent != nil {
		return *parent
	}
	k := inferKind(h)
	if d.opts.geographic {
		k = k.Geographic()
	}
	return k
}

func (d *decoder) geometry(text string, b geo.Builder, parent *coord.Kind) error {
	h, err := parseHeader(text)
	if err != nil {
		return err
	}
	kind := d.kind(h, parent)
	if h.empty {
		return b.EmptyGeometry(h.typ, kind)
	}

	switch h.typ {
	case geo.TypePoint:
		flat, err := appendTuple(nil, h.body, kind)
		if err != nil {
			return err
		}
		p, err := coord.PositionOf(kind, flat)
		if err != nil {
			return err
		}
		return wrap(b.Point(p), text)

	case geo.TypeLineString:
		s, err := series(h.body, kind)
		if err != nil {
			return err
		}
		return wrap(b.LineString(s), text)

	case geo.TypePolygon:
		rings, err := seriesList(h.body, kind)
		if err != nil {
			return err
		}
		return wrap(b.Polygon(rings), text)

	case geo.TypeMultiPoint:
		members, err := splitTop(h.body)
		if err != nil {
			return err
		}
		flat := make([]float64, 0, len(members)*kind.Dimension())
		for _, m := range members {
			// both MULTIPOINT((1 2),(3 4)) and MULTIPOINT(1 2,3 4)
			if m[0] == '(' {
				if m, err = enclosed(m); err != nil {
					return err
				}
			}
			if flat, err = appendTuple(flat, m, kind); err != nil {
				return err
			}
		}
		s, err := coord.NewSeries(kind, flat)
		if err != nil {
			return err
		}
		return wrap(b.MultiPoint(s), text)

	case geo.TypeMultiLineString:
		lines, err := seriesList(h.body, kind)
		if err != nil {
			return err
		}
		return wrap(b.MultiLineString(lines), text)

	case geo.TypeMultiPolygon:
		members, err := groups(h.body)
		if err != nil {
			return err
		}
		polygons := make([][]coord.Series, len(members))
		for i, m := range members {
			if polygons[i], err = seriesList(m, kind); err != nil {
				return err
			}
		}
		return wrap(b.MultiPolygon(polygons), text)

	case geo.TypeGeometryCollection:
		members, err := splitTop(h.body)
		if err != nil {
			return err
		}
		return wrap(b.GeometryCollection(kind, func(child geo.Builder) error {
			for _, m := range members {
				if err := d.geometry(m, child, &kind); err != nil {
					return err
				}
			}
			return nil
		}), text)
	}

	return formatError(text, "unsupported geometry type %s", h.typ)
}

// wrap annotates builder errors with the geometry text. Format errors of
// nested members pass unchanged.
func wrap(err error, text string) error {
	if err == nil {
		return nil
	}
	var fe *FormatError
	if errors.As(err, &fe) {
		return err
	}
	return errors.Wrapf(err, "wkt %.40q", text)
}

func appendTuple(dst []float64, tuple string, kind coord.Kind) ([]float64, error) {
	fields := strings.Fields(tuple)
	if len(fields) != kind.Dimension() {
		return nil, formatError(tuple, "expected %d coordinates for %s, got %d",
			kind.Dimension(), kind, len(fields))
	}
	for _, f := range fields {
		if !isNumber(f) {
			return nil, formatError(tuple, "invalid number %s", f)
		}
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, formatError(tuple, "invalid number %s", f)
		}
		dst = append(dst, v)
	}
	return dst, nil
}

// isNumber reports whether f only uses decimal notation: sign, digits, point
// and exponent. strconv also accepts hex floats, INF and NAN.
func isNumber(f string) bool {
	digits := false
	for i := 0; i < len(f); i++ {
		switch c := f[i]; {
		case c >= '0' && c <= '9':
			digits = true
		case c == '+' || c == '-' || c == '.' || c == 'E':
		default:
			return false
		}
	}
	return digits
}

func series(body string, kind coord.Kind) (coord.Series, error) {
	tuples, err := splitTop(body)
	if err != nil {
		return coord.Series{}, err
	}
	flat := make([]float64, 0, len(tuples)*kind.Dimension())
	for _, t := range tuples {
		if flat, err = appendTuple(flat, t, kind); err != nil {
			return coord.Series{}, err
		}
	}
	return coord.NewSeries(kind, flat)
}

func seriesList(body string, kind coord.Kind) ([]coord.Series, error) {
	members, err := groups(body)
	if err != nil {
		return nil, err
	}
	out := make([]coord.Series, len(members))
	for i, m := range members {
		if out[i], err = series(m, kind); err != nil {
			return nil, err
		}
	}
	return out, nil
}
