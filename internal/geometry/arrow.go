// File: internal/geometry/arrow.go
package geometry

import (
	"fmt"
	"math"
	"strings"
)

// Direction is the side or corner of a box an arrow approaches from.
type Direction string

const (
	DirTop         Direction = "top"
	DirBottom      Direction = "bottom"
	DirLeft        Direction = "left"
	DirRight       Direction = "right"
	DirTopLeft     Direction = "top-left"
	DirTopRight    Direction = "top-right"
	DirBottomLeft  Direction = "bottom-left"
	DirBottomRight Direction = "bottom-right"
)

// Directions lists every supported arrow direction.
var Directions = []Direction{
	DirTop, DirBottom, DirLeft, DirRight,
	DirTopLeft, DirTopRight, DirBottomLeft, DirBottomRight,
}

// ParseDirection validates a direction name. Matching is case-insensitive.
func ParseDirection(s string) (Direction, error) {
	d := Direction(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Directions {
		if d == known {
			return d, nil
		}
	}
	return "", fmt.Errorf("unknown arrow direction %q", s)
}

// unit returns the outward offset for one unit of length. Diagonals move
// cos(45°) on each axis so the arrow length stays the same in every direction.
func (d Direction) unit() Point {
	diag := math.Cos(math.Pi / 4)
	switch d {
	case DirBottom:
		return Point{Y: 1}
	case DirLeft:
		return Point{X: -1}
	case DirRight:
		return Point{X: 1}
	case DirTopLeft:
		return Point{X: -diag, Y: -diag}
	case DirTopRight:
		return Point{X: diag, Y: -diag}
	case DirBottomLeft:
		return Point{X: -diag, Y: diag}
	case DirBottomRight:
		return Point{X: diag, Y: diag}
	default:
		return Point{Y: -1}
	}
}

// ArrowTarget returns the point on the box perimeter facing d: the edge
// midpoint for axis directions, the corner for diagonals. Unknown directions
// behave like DirTop.
func ArrowTarget(box Box, d Direction) Point {
	c := box.Center()
	switch d {
	case DirBottom:
		return Point{X: c.X, Y: box.Bottom()}
	case DirLeft:
		return Point{X: box.X, Y: c.Y}
	case DirRight:
		return Point{X: box.Right(), Y: c.Y}
	case DirTopLeft:
		return Point{X: box.X, Y: box.Y}
	case DirTopRight:
		return Point{X: box.Right(), Y: box.Y}
	case DirBottomLeft:
		return Point{X: box.X, Y: box.Bottom()}
	case DirBottomRight:
		return Point{X: box.Right(), Y: box.Bottom()}
	default:
		return Point{X: c.X, Y: box.Y}
	}
}

// ArrowEndpoints computes the arrow shaft. The tip sits on the box perimeter
// and the tail is offset outward by length. A non-nil, non-zero from
// replaces the computed tail.
func ArrowEndpoints(box Box, d Direction, length float64, from *Point) (tail, tip Point) {
	tip = ArrowTarget(box, d)
	if from != nil && !from.IsZero() {
		return *from, tip
	}
	return tip.Add(d.unit().Mul(length)), tip
}

// ArrowheadTriangle returns the tip and the two barbs of a filled arrowhead.
// Each barb lies headSize away from the tip, rotated ±30° from the reverse
// shaft direction.
func ArrowheadTriangle(tail, tip Point, headSize float64) [3]Point {
	angle := tip.Sub(tail).Angle()
	back := angle + math.Pi
	const spread = math.Pi / 6
	return [3]Point{
		tip,
		tip.polar(headSize, back+spread),
		tip.polar(headSize, back-spread),
	}
}
