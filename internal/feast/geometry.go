package feast

import "math"

// Point is a position in screen pixels, origin top-left, Y down.
type Point struct {
	X, Y float64
}

// Distance returns the Euclidean distance between p and q.
func (p Point) Distance(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Ring layout constants. Guests sit on a circle around the cake, one seat
// every RingStepDegrees, with a tighter circle on narrow viewports.
const (
	RingStepDegrees  = 60.0
	NarrowBreakpoint = 640.0
	NarrowRadius     = 120.0
	WideRadius       = 220.0
)

// RingRadius returns the seating radius for a viewport width.
func RingRadius(viewportWidth float64) float64 {
	if viewportWidth < NarrowBreakpoint {
		return NarrowRadius
	}
	return WideRadius
}

// RingOffset returns the seat offset of the index-th person relative to the
// cake center. Index 0 sits on the positive X axis; angles grow clockwise on
// screen because Y points down.
func RingOffset(index int, viewportWidth float64) Point {
	angle := float64(index) * RingStepDegrees * math.Pi / 180
	r := RingRadius(viewportWidth)
	sin, cos := math.Sincos(angle)
	return Point{X: cos * r, Y: sin * r}
}
