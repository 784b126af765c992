package geo

import (
	"math"

	"github.com/cockroachdb/errors"
	"github.com/google/btree"
	"github.com/woozymasta/geocore/internal/coord"
)

// DefaultPrecision is the polylabel precision in coordinate units.
const DefaultPrecision = 1.0

// DistancedPosition is a position with its distance to the polygon boundary.
type DistancedPosition struct {
	Position coord.Position
	Distance float64
}

type cell struct {
	x, y float64
	h    float64 // half the cell size
	d    float64 // signed distance from the center to the polygon
	max  float64 // upper bound of the distance within the cell
	seq  int
}

func newCell(x, y, h float64, rings []coord.Series) *cell {
	d := pointToPolygonDist(x, y, rings)
	return &cell{x: x, y: y, h: h, d: d, max: d + h*math.Sqrt2}
}

// Less orders cells by potential; among equal potentials the cell queued
// first sorts highest so that it is popped first.
func (c *cell) Less(than btree.Item) bool {
	o := than.(*cell)
	if c.max != o.max {
		return c.max < o.max
	}
	return c.seq > o.seq
}

// cellQueue is a max priority queue of cells.
type cellQueue struct {
	tree *btree.BTree
	seq  int
}

func newCellQueue() *cellQueue { return &cellQueue{tree: btree.New(8)} }

func (q *cellQueue) push(c *cell) {
	c.seq = q.seq
	q.seq++
	q.tree.ReplaceOrInsert(c)
}

func (q *cellQueue) pop() *cell { return q.tree.DeleteMax().(*cell) }

func (q *cellQueue) len() int { return q.tree.Len() }

// Polylabel finds the pole of inaccessibility of p, the interior point
// farthest from the boundary, to within precision. The search subdivides
// cells of a grid covering the exterior ring and stops once no queued cell
// can improve the best distance by more than precision.
func Polylabel(p *Polygon, precision float64) (DistancedPosition, error) {
	if precision <= 0 || math.IsNaN(precision) {
		return DistancedPosition{}, errors.Wrapf(coord.ErrInvalidArgument, "polylabel precision %v", precision)
	}
	if p.IsEmpty() {
		return DistancedPosition{}, errors.Wrap(coord.ErrInvalidArgument, "polylabel of an empty polygon")
	}
	rings := p.rings
	kind := coord.KindOf(false, false, p.kind.IsGeographic())

	box, _ := rings[0].Bounds()
	width, height := box.Width(), box.Height()
	if width == 0 || height == 0 {
		return DistancedPosition{Position: coord.Position{X: box.MinX, Y: box.MinY, Kind: kind}}, nil
	}
	cellSize := math.Max(precision, math.Min(width, height))

	best := centroidCell(rings)
	if bboxCell := newCell(box.MinX+width/2, box.MinY+height/2, 0, rings); bboxCell.d > best.d {
		best = bboxCell
	}

	queue := newCellQueue()
	consider := func(x, y, h float64) {
		c := newCell(x, y, h, rings)
		if c.max > best.d+precision {
			queue.push(c)
		}
		if c.d > best.d {
			best = c
		}
	}

	h := cellSize / 2
	nx, ny := int(math.Ceil(width/cellSize)), int(math.Ceil(height/cellSize))
	for i := 0; i < nx; i++ {
		for j := 0; j < ny; j++ {
			consider(box.MinX+float64(i)*cellSize+h, box.MinY+float64(j)*cellSize+h, h)
		}
	}

	for queue.len() > 0 {
		c := queue.pop()
		if c.max-best.d <= precision {
			break
		}
		h := c.h / 2
		consider(c.x-h, c.y-h, h)
		consider(c.x+h, c.y-h, h)
		consider(c.x-h, c.y+h, h)
		consider(c.x+h, c.y+h, h)
	}

	return DistancedPosition{
		Position: coord.Position{X: best.x, Y: best.y, Kind: kind},
		Distance: best.d,
	}, nil
}

// centroidCell seeds the search with the centroid of the exterior ring.
func centroidCell(rings []coord.Series) *cell {
	area, sx, sy := ringArea(rings[0])
	if area == 0 {
		return newCell(rings[0].X(0), rings[0].Y(0), 0, rings)
	}
	return newCell(sx/(6*area), sy/(6*area), 0, rings)
}

// pointToPolygonDist is positive inside the polygon and negative outside.
func pointToPolygonDist(x, y float64, rings []coord.Series) float64 {
	inside := false
	minDistSq := math.Inf(1)

	for _, ring := range rings {
		n := ring.Len()
		for i, j := 0, n-1; i < n; j, i = i, i+1 {
			ax, ay := ring.X(i), ring.Y(i)
			bx, by := ring.X(j), ring.Y(j)

			if (ay > y) != (by > y) && x < (bx-ax)*(y-ay)/(by-ay)+ax {
				inside = !inside
			}
			minDistSq = math.Min(minDistSq, segmentDistSq(x, y, ax, ay, bx, by))
		}
	}

	d := math.Sqrt(minDistSq)
	if !inside {
		return -d
	}
	return d
}

func segmentDistSq(px, py, ax, ay, bx, by float64) float64 {
	x, y := ax, ay
	dx, dy := bx-ax, by-ay

	if dx != 0 || dy != 0 {
		t := ((px-ax)*dx + (py-ay)*dy) / (dx*dx + dy*dy)
		if t > 1 {
			x, y = bx, by
		} else if t > 0 {
			x += dx * t
			y += dy * t
		}
	}

	dx, dy = px-x, py-y
	return dx*dx + dy*dy
}
