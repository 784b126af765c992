package coord

import (
	"math"

	"github.com/cockroachdb/errors"
)

// Position is an immutable coordinate tuple. Z and M are meaningful only when
// Kind has the axis; otherwise they are zero.
type Position struct {
	X, Y float64
	Z, M float64
	Kind Kind
}

// XYPos returns a 2D projected position.
func XYPos(x, y float64) Position { return Position{X: x, Y: y, Kind: XY} }

// XYZPos returns a 3D projected position.
func XYZPos(x, y, z float64) Position { return Position{X: x, Y: y, Z: z, Kind: XYZ} }

// XYMPos returns a measured 2D projected position.
func XYMPos(x, y, m float64) Position { return Position{X: x, Y: y, M: m, Kind: XYM} }

// XYZMPos returns a measured 3D projected position.
func XYZMPos(x, y, z, m float64) Position { return Position{X: x, Y: y, Z: z, M: m, Kind: XYZM} }

// LonLatPos returns a geographic position.
func LonLatPos(lon, lat float64) Position { return Position{X: lon, Y: lat, Kind: LonLat} }

// LonLatElevPos returns a geographic position with elevation.
func LonLatElevPos(lon, lat, elev float64) Position {
	return Position{X: lon, Y: lat, Z: elev, Kind: LonLatElev}
}

// PositionOf builds a position of kind from exactly kind.Dimension() values.
func PositionOf(kind Kind, values []float64) (Position, error) {
	if !kind.Valid() {
		return Position{}, errors.Wrapf(ErrInvalidArgument, "unknown coordinate kind %d", kind)
	}
	if len(values) != kind.Dimension() {
		return Position{}, errors.Wrapf(ErrInvalidArgument,
			"%s position needs %d values, got %d", kind, kind.Dimension(), len(values))
	}
	return positionAt(kind, values, 0), nil
}

func positionAt(kind Kind, data []float64, off int) Position {
	p := Position{X: data[off], Y: data[off+1], Kind: kind}
	i := off + 2
	if kind.HasZ() {
		p.Z = data[i]
		i++
	}
	if kind.HasM() {
		p.M = data[i]
	}
	return p
}

// Lon is an alias of X for geographic positions.
func (p Position) Lon() float64 { return p.X }

// Lat is an alias of Y for geographic positions.
func (p Position) Lat() float64 { return p.Y }

// Elev is an alias of Z for geographic positions.
func (p Position) Elev() float64 { return p.Z }

// OptZ returns z and whether the position has it.
func (p Position) OptZ() (float64, bool) { return p.Z, p.Kind.HasZ() }

// OptM returns m and whether the position has it.
func (p Position) OptM() (float64, bool) { return p.M, p.Kind.HasM() }

// Values returns the packed tuple (x, y, [z], [m]).
func (p Position) Values() []float64 {
	return p.appendTo(make([]float64, 0, p.Kind.Dimension()))
}

func (p Position) appendTo(dst []float64) []float64 {
	dst = append(dst, p.X, p.Y)
	if p.Kind.HasZ() {
		dst = append(dst, p.Z)
	}
	if p.Kind.HasM() {
		dst = append(dst, p.M)
	}
	return dst
}

// EqualsCoords reports strict equality: same kind and bit-identical values.
func (p Position) EqualsCoords(q Position) bool {
	if p.Kind != q.Kind {
		return false
	}
	same := func(a, b float64) bool { return math.Float64bits(a) == math.Float64bits(b) }
	return same(p.X, q.X) && same(p.Y, q.Y) &&
		(!p.Kind.HasZ() || same(p.Z, q.Z)) &&
		(!p.Kind.HasM() || same(p.M, q.M))
}

// Equals2D reports whether x and y differ by at most tol.
func (p Position) Equals2D(q Position, tol float64) (bool, error) {
	if err := checkTolerance(tol); err != nil {
		return false, err
	}
	return within(p.X, q.X, tol) && within(p.Y, q.Y, tol), nil
}

// Equals3D is Equals2D extended to z. Both positions must have a Z axis.
func (p Position) Equals3D(q Position, tol float64) (bool, error) {
	ok, err := p.Equals2D(q, tol)
	if err != nil || !ok {
		return false, err
	}
	if !p.Kind.HasZ() || !q.Kind.HasZ() {
		return false, nil
	}
	return within(p.Z, q.Z, tol), nil
}

func within(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}
