package autograph

import "math"

// Point is a position on the drawing surface.
type Point struct {
	X, Y float64
}

// OpKind identifies the geometry of a paint operation.
type OpKind int

const (
	OpDot OpKind = iota
	OpLine
	OpQuad
)

// Op is a single paint operation of a stroke. For a dot, P0 is the center
// and Width is the diameter. For a line, C is unused.
type Op struct {
	Kind  OpKind
	P0    Point
	C     Point
	P1    Point
	Width float64
}

func pt(s Sample) Point { return Point{X: s.X, Y: s.Y} }

func mid(a, b Sample) Point {
	return Point{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
}

// OpCount returns the number of paint operations a stroke of n samples
// produces. Finished strokes with at least two samples get a tail segment
// running from the last midpoint to the last sample.
func OpCount(n int, finished bool) int {
	if n == 0 {
		return 0
	}
	if finished && n >= 2 {
		return n + 1
	}
	return n
}

// StrokeOp returns the k-th paint operation of the stroke.
//
// Consecutive samples are joined by quadratic curves running between the
// midpoints of adjacent segments, with the interior sample as control point:
//
//	op 0       dot at p0
//	op 1       line p0 -> m0
//	op k       quad m(k-2) -[p(k-1)]-> m(k-1)
//	op n       line m(n-2) -> p(n-1)   (tail)
func StrokeOp(s Stroke, k int) Op {
	pts := s.Points
	n := len(pts)

	if k == 0 {
		if s.Eraser {
			return Op{Kind: OpDot, P0: pt(pts[0]), Width: EraserWidth(s.BaseWidth)}
		}
		return Op{Kind: OpDot, P0: pt(pts[0]), Width: 2 * DotRadius(s.BaseWidth, pts[0].Pressure)}
	}

	// The tail reuses the width of the last segment.
	seg := k
	if seg > n-1 {
		seg = n - 1
	}
	width := SegmentWidth(s.BaseWidth, pts[seg-1], pts[seg])
	if s.Eraser {
		width = EraserWidth(s.BaseWidth)
	}

	switch {
	case k == 1:
		return Op{Kind: OpLine, P0: pt(pts[0]), P1: mid(pts[0], pts[1]), Width: width}
	case k <= n-1:
		return Op{
			Kind:  OpQuad,
			P0:    mid(pts[k-2], pts[k-1]),
			C:     pt(pts[k-1]),
			P1:    mid(pts[k-1], pts[k]),
			Width: width,
		}
	default:
		return Op{Kind: OpLine, P0: mid(pts[n-2], pts[n-1]), P1: pt(pts[n-1]), Width: width}
	}
}

// StrokeOps returns every paint operation of the stroke in painting order.
func StrokeOps(s Stroke, finished bool) []Op {
	count := OpCount(len(s.Points), finished)
	ops := make([]Op, 0, count)
	for k := 0; k < count; k++ {
		ops = append(ops, StrokeOp(s, k))
	}
	return ops
}

// At evaluates the operation's curve at the parametric position t ∈ [0, 1].
func (o Op) At(t float64) Point {
	switch o.Kind {
	case OpLine:
		return Point{
			X: o.P0.X + (o.P1.X-o.P0.X)*t,
			Y: o.P0.Y + (o.P1.Y-o.P0.Y)*t,
		}
	case OpQuad:
		u := 1 - t
		return Point{
			X: u*u*o.P0.X + 2*u*t*o.C.X + t*t*o.P1.X,
			Y: u*u*o.P0.Y + 2*u*t*o.C.Y + t*t*o.P1.Y,
		}
	}
	return o.P0
}

// Bounds returns the area touched by the operation, including its width.
func (o Op) Bounds() (minX, minY, maxX, maxY float64) {
	minX, minY = o.P0.X, o.P0.Y
	maxX, maxY = o.P0.X, o.P0.Y

	grow := func(p Point) {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	switch o.Kind {
	case OpLine:
		grow(o.P1)
	case OpQuad:
		// The control point bounds the curve's convex hull.
		grow(o.C)
		grow(o.P1)
	}
	half := o.Width / 2
	return minX - half, minY - half, maxX + half, maxY + half
}
