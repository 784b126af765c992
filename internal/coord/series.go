package coord

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Series is an immutable sequence of positions sharing one kind, stored as a
// single flat array (x, y, [z], [m] repeated).
type Series struct {
	data []float64
	kind Kind
}

// NewSeries wraps flat as a series without copying. The caller must not
// mutate flat afterwards.
func NewSeries(kind Kind, flat []float64) (Series, error) {
	if !kind.Valid() {
		return Series{}, errors.Wrapf(ErrInvalidArgument, "unknown coordinate kind %d", kind)
	}
	if len(flat)%kind.Dimension() != 0 {
		return Series{}, errors.Wrapf(ErrInvalidArgument,
			"%d values is not a multiple of %s dimension %d", len(flat), kind, kind.Dimension())
	}
	return Series{data: flat, kind: kind}, nil
}

// SeriesOf packs positions into a series of kind. Missing axes read as zero,
// extra axes are dropped.
func SeriesOf(kind Kind, positions ...Position) Series {
	data := make([]float64, 0, len(positions)*kind.Dimension())
	for _, p := range positions {
		p.Kind = kind
		data = p.appendTo(data)
	}
	return Series{data: data, kind: kind}
}

// Kind returns the coordinate kind shared by all positions.
func (s Series) Kind() Kind { return s.kind }

// Len returns the number of positions.
func (s Series) Len() int {
	if len(s.data) == 0 {
		return 0
	}
	return len(s.data) / s.kind.Dimension()
}

// IsEmpty reports whether the series has no positions.
func (s Series) IsEmpty() bool { return len(s.data) == 0 }

func (s Series) offset(i int) int {
	if i < 0 || i >= s.Len() {
		panic(fmt.Sprintf("coord: index %d out of range [0:%d]", i, s.Len()))
	}
	return i * s.kind.Dimension()
}

// X returns x (longitude) of the i-th position.
func (s Series) X(i int) float64 { return s.data[s.offset(i)] }

// Y returns y (latitude) of the i-th position.
func (s Series) Y(i int) float64 { return s.data[s.offset(i)+1] }

// Z returns z of the i-th position, or 0 when the series has no Z axis.
func (s Series) Z(i int) float64 {
	z, _ := s.OptZ(i)
	return z
}

// M returns m of the i-th position, or 0 when the series has no M axis.
func (s Series) M(i int) float64 {
	m, _ := s.OptM(i)
	return m
}

// OptZ returns z of the i-th position and whether the axis exists.
func (s Series) OptZ(i int) (float64, bool) {
	off := s.offset(i)
	if !s.kind.HasZ() {
		return 0, false
	}
	return s.data[off+2], true
}

// OptM returns m of the i-th position and whether the axis exists.
func (s Series) OptM(i int) (float64, bool) {
	off := s.offset(i)
	if !s.kind.HasM() {
		return 0, false
	}
	return s.data[off+s.kind.Dimension()-1], true
}

// At returns the i-th position.
func (s Series) At(i int) Position { return positionAt(s.kind, s.data, s.offset(i)) }

// Values returns a copy of the flat coordinate array.
func (s Series) Values() []float64 {
	out := make([]float64, len(s.data))
	copy(out, s.data)
	return out
}

// IsClosed reports whether the first and last positions coincide in 2D within
// DefaultTolerance.
func (s Series) IsClosed() bool {
	ok, _ := s.IsClosedBy(DefaultTolerance)
	return ok
}

// IsClosedBy is IsClosed with an explicit tolerance. Series shorter than two
// positions are never closed.
func (s Series) IsClosedBy(tol float64) (bool, error) {
	if err := checkTolerance(tol); err != nil {
		return false, err
	}
	n := s.Len()
	if n < 2 {
		return false, nil
	}
	return within(s.X(0), s.X(n-1), tol) && within(s.Y(0), s.Y(n-1), tol), nil
}

// EqualsCoords reports strict equality of kind, length and values.
func (s Series) EqualsCoords(o Series) bool {
	if s.kind != o.kind || len(s.data) != len(o.data) {
		return false
	}
	for i := 0; i < s.Len(); i++ {
		if !s.At(i).EqualsCoords(o.At(i)) {
			return false
		}
	}
	return true
}

// Equals2D compares x and y of every position within tol.
func (s Series) Equals2D(o Series, tol float64) (bool, error) {
	if err := checkTolerance(tol); err != nil {
		return false, err
	}
	if s.Len() != o.Len() {
		return false, nil
	}
	for i := 0; i < s.Len(); i++ {
		if !within(s.X(i), o.X(i), tol) || !within(s.Y(i), o.Y(i), tol) {
			return false, nil
		}
	}
	return true, nil
}

// Equals3D compares x, y and z of every position within tol. Both series
// must have a Z axis.
func (s Series) Equals3D(o Series, tol float64) (bool, error) {
	ok, err := s.Equals2D(o, tol)
	if err != nil || !ok {
		return false, err
	}
	if !s.kind.HasZ() || !o.kind.HasZ() {
		return false, nil
	}
	for i := 0; i < s.Len(); i++ {
		if !within(s.Z(i), o.Z(i), tol) {
			return false, nil
		}
	}
	return true, nil
}

// Reversed returns the positions in reverse order.
func (s Series) Reversed() Series {
	dim := s.kind.Dimension()
	out := make([]float64, len(s.data))
	n := s.Len()
	for i := 0; i < n; i++ {
		copy(out[(n-1-i)*dim:(n-i)*dim], s.data[i*dim:(i+1)*dim])
	}
	return Series{data: out, kind: s.kind}
}

// Bounds returns the bounding box of all positions, false when empty.
func (s Series) Bounds() (Box, bool) {
	n := s.Len()
	if n == 0 {
		return Box{}, false
	}
	b := boxAt(s.At(0))
	for i := 1; i < n; i++ {
		b = b.ExtendPosition(s.At(i))
	}
	return b, true
}
