// File: internal/geometry/vector.go
package geometry

import "math"

// Point is a position in source-image pixel space. Coordinates may be fractional.
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Add performs vector addition, returning `p + other`.
func (p Point) Add(other Point) Point {
	return Point{X: p.X + other.X, Y: p.Y + other.Y}
}

// Sub performs vector subtraction, returning `p - other`.
func (p Point) Sub(other Point) Point {
	return Point{X: p.X - other.X, Y: p.Y - other.Y}
}

// Mul performs scalar multiplication.
func (p Point) Mul(scalar float64) Point {
	return Point{X: p.X * scalar, Y: p.Y * scalar}
}

// Mag returns the Euclidean length of the vector.
func (p Point) Mag() float64 {
	return math.Hypot(p.X, p.Y)
}

// Dist returns the Euclidean distance between two points.
func (p Point) Dist(other Point) float64 {
	return math.Hypot(p.X-other.X, p.Y-other.Y)
}

// Angle returns the angle of the vector in radians relative to the positive
// X axis, in the range [-Pi, Pi].
func (p Point) Angle() float64 {
	return math.Atan2(p.Y, p.X)
}

// IsZero reports whether both coordinates are zero.
func (p Point) IsZero() bool {
	return p.X == 0 && p.Y == 0
}

// polar returns the point at distance r and angle theta from p.
func (p Point) polar(r, theta float64) Point {
	return Point{X: p.X + r*math.Cos(theta), Y: p.Y + r*math.Sin(theta)}
}
