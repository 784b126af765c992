// Package wkt reads and writes geometries as Well-Known Text.
//
// The decoder is a recursive descent over upper cased input that streams
// into a geo.Builder; the Writer implements geo.Builder and produces the
// canonical form, for example
//
//	POINT Z(1 2 3)
//	LINESTRING(1 2,3 4)
//	POLYGON((0 0,4 0,4 4,0 0))
//	MULTIPOINT((1 2),(3 4))
//	GEOMETRYCOLLECTION(POINT(1 2),POINT EMPTY)
package wkt

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/woozymasta/geocore/internal/crs"
)

// ErrFormat matches every *FormatError.
var ErrFormat = errors.New("malformed wkt")

// FormatError reports malformed text and the substring it was found in.
type FormatError struct {
	Problem   string
	Substring string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("wkt: %s in %q", e.Problem, e.Substring)
}

func (e *FormatError) Unwrap() error { return ErrFormat }

func formatError(substring, format string, args ...any) error {
	return &FormatError{Problem: fmt.Sprintf(format, args...), Substring: substring}
}

type options struct {
	geographic bool
	decimals   int
}

// Option configures decoding and encoding.
type Option func(*options)

// Geographic decodes positions as longitude and latitude kinds.
func Geographic() Option {
	return func(o *options) { o.geographic = true }
}

// WithCRS decodes positions in the kind family of c. Axis order is not
// applied: WKT is always read and written x (longitude) first.
func WithCRS(c crs.CoordRefSys) Option {
	return func(o *options) { o.geographic = c.IsGeographic() }
}

// WithDecimals rounds written numbers to n fractional digits. Negative n
// keeps the shortest representation that reads back exactly.
func WithDecimals(n int) Option {
	return func(o *options) { o.decimals = n }
}

func newOptions(opts []Option) options {
	o := options{decimals: -1}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
