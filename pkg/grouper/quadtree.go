package grouper

import "github.com/kangen/kangen/pkg/span"

// pointIndex is a quadtree over span center points so per-anchor radius
// queries stay sub-linear. Results are identical to a naive distance scan;
// callers only rely on membership, not ordering.
type pointIndex struct {
	bounds   quadRect
	capacity int
	depth    int
	points   []indexedPoint
	nodes    []*pointIndex
}

type indexedPoint struct {
	pt  span.Point
	idx int
}

type quadRect struct {
	x0, y0, x1, y1 float64
}

const (
	quadCapacity = 8
	// Identical center points can never be separated by subdividing, so
	// leaves stop splitting beyond this depth and simply grow.
	quadMaxDepth = 16
)

func (r quadRect) containsPoint(p span.Point) bool {
	return p.X >= r.x0 && p.X <= r.x1 && p.Y >= r.y0 && p.Y <= r.y1
}

func (r quadRect) intersects(o quadRect) bool {
	return !(o.x0 > r.x1 || o.x1 < r.x0 || o.y0 > r.y1 || o.y1 < r.y0)
}

// newPointIndex builds the index over the centers of all spans, keyed by
// their position in the input slice.
func newPointIndex(spans []span.Span) *pointIndex {
	bounds := quadRect{}
	for i, s := range spans {
		c := s.Center
		if i == 0 {
			bounds = quadRect{x0: c.X, y0: c.Y, x1: c.X, y1: c.Y}
			continue
		}
		if c.X < bounds.x0 {
			bounds.x0 = c.X
		}
		if c.X > bounds.x1 {
			bounds.x1 = c.X
		}
		if c.Y < bounds.y0 {
			bounds.y0 = c.Y
		}
		if c.Y > bounds.y1 {
			bounds.y1 = c.Y
		}
	}
	// Pad so boundary points are strictly inside.
	bounds.x0--
	bounds.y0--
	bounds.x1++
	bounds.y1++

	qt := &pointIndex{bounds: bounds, capacity: quadCapacity}
	for i, s := range spans {
		qt.insert(indexedPoint{pt: s.Center, idx: i})
	}
	return qt
}

func (q *pointIndex) insert(p indexedPoint) {
	if q.nodes != nil {
		for _, node := range q.nodes {
			if node.bounds.containsPoint(p.pt) {
				node.insert(p)
				return
			}
		}
		// Numeric edge between children; keep it here.
		q.points = append(q.points, p)
		return
	}

	if len(q.points) < q.capacity || q.depth >= quadMaxDepth {
		q.points = append(q.points, p)
		return
	}

	q.subdivide()
	old := q.points
	q.points = nil
	for _, op := range old {
		q.insert(op)
	}
	q.insert(p)
}

func (q *pointIndex) subdivide() {
	xMid := (q.bounds.x0 + q.bounds.x1) / 2
	yMid := (q.bounds.y0 + q.bounds.y1) / 2
	child := func(r quadRect) *pointIndex {
		return &pointIndex{bounds: r, capacity: q.capacity, depth: q.depth + 1}
	}
	q.nodes = []*pointIndex{
		child(quadRect{q.bounds.x0, q.bounds.y0, xMid, yMid}),
		child(quadRect{xMid, q.bounds.y0, q.bounds.x1, yMid}),
		child(quadRect{q.bounds.x0, yMid, xMid, q.bounds.y1}),
		child(quadRect{xMid, yMid, q.bounds.x1, q.bounds.y1}),
	}
}

// Within returns the indices of all points with Euclidean distance <= radius
// from center, including coincident points.
func (q *pointIndex) Within(center span.Point, radius float64) []int {
	query := quadRect{
		x0: center.X - radius,
		y0: center.Y - radius,
		x1: center.X + radius,
		y1: center.Y + radius,
	}
	var found []int
	q.query(query, center, radius*radius, &found)
	return found
}

func (q *pointIndex) query(box quadRect, center span.Point, r2 float64, found *[]int) {
	if !q.bounds.intersects(box) {
		return
	}
	for _, p := range q.points {
		dx := p.pt.X - center.X
		dy := p.pt.Y - center.Y
		if dx*dx+dy*dy <= r2 {
			*found = append(*found, p.idx)
		}
	}
	for _, node := range q.nodes {
		node.query(box, center, r2, found)
	}
}
