// Edge geometry shared by hit testing and rendering.

package graph

import "math"

const (
	// EdgeOffset is how far the control point of a curved edge sits from
	// the straight line between the two state centres.
	EdgeOffset = 20.0

	// LoopRadius is the radius of the arc drawn for self-loops.
	LoopRadius = 30.0

	// HitTolerance is the pick distance for transitions.
	HitTolerance = 10.0

	// LoopStart and LoopEnd bound the self-loop arc, in radians measured
	// clockwise from +x on a y-down canvas.
	LoopStart = 0.7 * math.Pi
	LoopEnd   = 2.3 * math.Pi
)

// Point is a 2D canvas coordinate.
type Point struct {
	X, Y float64
}

// Curve is a quadratic Bézier from Start through Control to End.
type Curve struct {
	Start, Control, End Point
}

// EdgeCurve returns the path drawn between two distinct states. Both ends
// are offset perpendicular to the centre line so that a pair of opposite
// transitions bow apart instead of overlapping.
func EdgeCurve(from, to *State) Curve {
	c := Curve{
		Start: Point{from.X, from.Y},
		End:   Point{to.X, to.Y},
	}
	dx, dy := to.X-from.X, to.Y-from.Y
	dist := math.Hypot(dx, dy)
	if dist == 0 {
		c.Control = c.Start
		return c
	}
	nx, ny := EdgeOffset*dy/dist, -EdgeOffset*dx/dist
	x1, y1 := from.X+nx, from.Y+ny
	x2, y2 := to.X+nx, to.Y+ny
	c.Control = Point{(x1 + x2) / 2, (y1 + y2) / 2}
	return c
}

// At evaluates the curve at t in [0, 1].
func (c Curve) At(t float64) Point {
	u := 1 - t
	return Point{
		X: u*u*c.Start.X + 2*u*t*c.Control.X + t*t*c.End.X,
		Y: u*u*c.Start.Y + 2*u*t*c.Control.Y + t*t*c.End.Y,
	}
}

// Midpoint is the point halfway along the parameter range.
func (c Curve) Midpoint() Point {
	return c.At(0.5)
}

// Label is where the transition symbol is drawn.
func (c Curve) Label() Point {
	return c.Control
}

// Arrow returns the arrowhead tip on the boundary of a circle of radius r
// around End, and the unit direction of travel at the tip.
func (c Curve) Arrow(r float64) (tip, dir Point) {
	dx, dy := c.End.X-c.Control.X, c.End.Y-c.Control.Y
	d := math.Hypot(dx, dy)
	if d == 0 {
		return c.End, Point{1, 0}
	}
	dir = Point{dx / d, dy / d}
	return Point{c.End.X - dir.X*r, c.End.Y - dir.Y*r}, dir
}

// Loop is the arc drawn for a state's self-loops.
type Loop struct {
	Center     Point
	Radius     float64
	Start, End float64 // angles
}

// SelfLoop returns the arc for s. The arc sits on top of the state with its
// lowest point at the state centre.
func SelfLoop(s *State) Loop {
	return Loop{
		Center: Point{s.X, s.Y - LoopRadius},
		Radius: LoopRadius,
		Start:  LoopStart,
		End:    LoopEnd,
	}
}

// At returns the point on the arc at angle a.
func (l Loop) At(a float64) Point {
	return Point{l.Center.X + l.Radius*math.Cos(a), l.Center.Y + l.Radius*math.Sin(a)}
}

// Midpoint is the top of the arc.
func (l Loop) Midpoint() Point {
	return l.At((l.Start + l.End) / 2)
}

// Label is the anchor for the comma-joined symbols, just above the arc.
func (l Loop) Label() Point {
	return Point{l.Center.X, l.Center.Y - l.Radius - 5}
}

// Arrow returns the terminal point of the arc and the unit direction of
// travel there.
func (l Loop) Arrow() (tip, dir Point) {
	return l.At(l.End), Point{-math.Sin(l.End), math.Cos(l.End)}
}
