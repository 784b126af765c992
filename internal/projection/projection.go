// Package projection converts coordinates between geographic, geocentric
// and projected coordinate systems. Every projection works on single
// positions and on flat coordinate arrays; the batch path allocates once per
// call and never per position.
package projection

import (
	"github.com/cockroachdb/errors"
	"github.com/golang/geo/s1"
	"github.com/woozymasta/geocore/internal/coord"
)

// Projection maps positions of one coordinate system to another.
type Projection interface {
	// Project converts a single position.
	Project(p coord.Position) coord.Position
	// ProjectCoords converts a flat array of positions of kind and returns a
	// new flat array of TargetKind(kind) positions.
	ProjectCoords(src []float64, kind coord.Kind) ([]float64, error)
	// TargetKind is the kind of positions produced from kind input.
	TargetKind(kind coord.Kind) coord.Kind
}

// Adapter pairs a projection with its inverse.
type Adapter struct {
	Name    string
	Forward Projection
	Inverse Projection
}

// pointFunc maps the projected axes; z is zero when the input has no Z.
type pointFunc func(x, y, z float64) (float64, float64, float64)

type transform struct {
	fn     pointFunc
	target func(coord.Kind) coord.Kind
}

func (t transform) TargetKind(kind coord.Kind) coord.Kind { return t.target(kind) }

func (t transform) Project(p coord.Position) coord.Position {
	out := coord.Position{Kind: t.target(p.Kind)}
	out.X, out.Y, out.Z = t.fn(p.X, p.Y, p.Z)
	if !out.Kind.HasZ() {
		out.Z = 0
	}
	if out.Kind.HasM() {
		out.M = p.M
	}
	return out
}

func (t transform) ProjectCoords(src []float64, kind coord.Kind) ([]float64, error) {
	if !kind.Valid() {
		return nil, errors.Wrapf(coord.ErrInvalidArgument, "unknown coordinate kind %d", kind)
	}
	inDim := kind.Dimension()
	if len(src)%inDim != 0 {
		return nil, errors.Wrapf(coord.ErrInvalidArgument,
			"%d values is not a multiple of %s dimension %d", len(src), kind, inDim)
	}

	target := t.target(kind)
	outDim := target.Dimension()
	hasZ, hasM, outZ := kind.HasZ(), kind.HasM(), target.HasZ()

	n := len(src) / inDim
	dst := make([]float64, n*outDim)
	for i := 0; i < n; i++ {
		s := src[i*inDim : (i+1)*inDim]
		d := dst[i*outDim : (i+1)*outDim]

		var z float64
		if hasZ {
			z = s[2]
		}
		x, y, z := t.fn(s[0], s[1], z)
		d[0], d[1] = x, y
		if outZ {
			d[2] = z
		}
		if hasM {
			d[outDim-1] = s[inDim-1]
		}
	}
	return dst, nil
}

func sameKind(k coord.Kind) coord.Kind { return k }

// Identity returns a projection that copies coordinates unchanged.
func Identity() Projection {
	return transform{
		fn:     func(x, y, z float64) (float64, float64, float64) { return x, y, z },
		target: sameKind,
	}
}

func radians(deg float64) float64 { return (s1.Angle(deg) * s1.Degree).Radians() }

func degrees(rad float64) float64 { return s1.Angle(rad).Degrees() }

// ProjectSeries runs the batch path of p over a series.
func ProjectSeries(p Projection, s coord.Series) (coord.Series, error) {
	out, err := p.ProjectCoords(s.Values(), s.Kind())
	if err != nil {
		return coord.Series{}, err
	}
	return coord.NewSeries(p.TargetKind(s.Kind()), out)
}
