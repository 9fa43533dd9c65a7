package geometry

import "math"

// Point is a 2D coordinate. Depending on context it is either normalized
// ([0,1] relative to image dimensions, origin bottom-left, y increasing
// upward) or in pixels (origin top-left, y increasing downward).
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Quad holds the four corners of a recognized text line in the order
// emitted by the recognizer: top-left, top-right, bottom-right, bottom-left.
type Quad [4]Point

// Rect is an axis-aligned rectangle in pixel coordinates, top-left origin.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Denormalize converts a normalized bottom-left-origin point into pixel
// coordinates with top-left origin: px = nx*width, py = (1-ny)*height.
// The vertical flip is mandatory because the recognizer's normalized space
// has y increasing upward while pixel space has y increasing downward.
func Denormalize(p Point, width, height int) Point {
	return Point{
		X: p.X * float64(width),
		Y: (1 - p.Y) * float64(height),
	}
}

// BoundingRect returns the tightest axis-aligned rectangle enclosing the
// quad. Recognized text can be slightly rotated, so the box is derived from
// all four corners rather than assumed to be axis-aligned already.
func (q Quad) BoundingRect() Rect {
	minX, maxX := q[0].X, q[0].X
	minY, maxY := q[0].Y, q[0].Y
	for _, p := range q[1:] {
		minX = math.Min(minX, p.X)
		maxX = math.Max(maxX, p.X)
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}
	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}
