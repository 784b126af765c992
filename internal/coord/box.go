package coord

import (
	"math"

	"github.com/cockroachdb/errors"
)

// Box is an axis aligned bounding box. MinZ and MaxZ are used only when HasZ.
type Box struct {
	MinX, MinY float64
	MaxX, MaxY float64
	MinZ, MaxZ float64
	HasZ       bool
}

// NewBox returns a 2D box, min must not exceed max on any axis.
func NewBox(minX, minY, maxX, maxY float64) (Box, error) {
	if minX > maxX || minY > maxY {
		return Box{}, errors.Wrapf(ErrInvalidArgument,
			"box min (%v %v) exceeds max (%v %v)", minX, minY, maxX, maxY)
	}
	return Box{MinX: minX, MinY: minY, MaxX: maxX, MaxY: maxY}, nil
}

// NewBox3D returns a box with a Z range.
func NewBox3D(minX, minY, minZ, maxX, maxY, maxZ float64) (Box, error) {
	b, err := NewBox(minX, minY, maxX, maxY)
	if err != nil {
		return Box{}, err
	}
	if minZ > maxZ {
		return Box{}, errors.Wrapf(ErrInvalidArgument, "box min z %v exceeds max z %v", minZ, maxZ)
	}
	b.MinZ, b.MaxZ, b.HasZ = minZ, maxZ, true
	return b, nil
}

func boxAt(p Position) Box {
	return Box{
		MinX: p.X, MinY: p.Y, MaxX: p.X, MaxY: p.Y,
		MinZ: p.Z, MaxZ: p.Z, HasZ: p.Kind.HasZ(),
	}
}

// BoxOf returns the bounds of positions, false when there are none.
func BoxOf(positions ...Position) (Box, bool) {
	if len(positions) == 0 {
		return Box{}, false
	}
	b := boxAt(positions[0])
	for _, p := range positions[1:] {
		b = b.ExtendPosition(p)
	}
	return b, true
}

// ExtendPosition grows the box to contain p.
func (b Box) ExtendPosition(p Position) Box {
	return b.Extend(boxAt(p))
}

// Extend returns the union of both boxes. Z is kept only when both have it.
func (b Box) Extend(o Box) Box {
	out := Box{
		MinX: math.Min(b.MinX, o.MinX), MinY: math.Min(b.MinY, o.MinY),
		MaxX: math.Max(b.MaxX, o.MaxX), MaxY: math.Max(b.MaxY, o.MaxY),
	}
	if b.HasZ && o.HasZ {
		out.MinZ, out.MaxZ, out.HasZ = math.Min(b.MinZ, o.MinZ), math.Max(b.MaxZ, o.MaxZ), true
	}
	return out
}

// Contains reports whether p lies inside or on the edge of the box in 2D.
func (b Box) Contains(p Position) bool {
	return p.X >= b.MinX && p.X <= b.MaxX && p.Y >= b.MinY && p.Y <= b.MaxY
}

// Intersects reports whether both boxes share at least one point in 2D.
func (b Box) Intersects(o Box) bool {
	return b.MinX <= o.MaxX && o.MinX <= b.MaxX && b.MinY <= o.MaxY && o.MinY <= b.MaxY
}

// Width is the x extent.
func (b Box) Width() float64 { return b.MaxX - b.MinX }

// Height is the y extent.
func (b Box) Height() float64 { return b.MaxY - b.MinY }

// Min returns the minimum corner.
func (b Box) Min() Position {
	if b.HasZ {
		return XYZPos(b.MinX, b.MinY, b.MinZ)
	}
	return XYPos(b.MinX, b.MinY)
}

// Max returns the maximum corner.
func (b Box) Max() Position {
	if b.HasZ {
		return XYZPos(b.MaxX, b.MaxY, b.MaxZ)
	}
	return XYPos(b.MaxX, b.MaxY)
}

// Center returns the midpoint of the box.
func (b Box) Center() Position {
	if b.HasZ {
		return XYZPos((b.MinX+b.MaxX)/2, (b.MinY+b.MaxY)/2, (b.MinZ+b.MaxZ)/2)
	}
	return XYPos((b.MinX+b.MaxX)/2, (b.MinY+b.MaxY)/2)
}
