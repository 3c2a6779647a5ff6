// File: internal/geometry/box.go
package geometry

import (
	"fmt"
	"image"
	"math"
	"strconv"
	"strings"
)

// Box is an axis-aligned bounding box in source-image pixel space. It is not
// required to lie within the image; consumers clamp it.
type Box struct {
	X      float64 `json:"x" yaml:"x"`
	Y      float64 `json:"y" yaml:"y"`
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// Center returns the midpoint of the box.
func (b Box) Center() Point {
	return Point{X: b.X + b.Width/2, Y: b.Y + b.Height/2}
}

// Right returns the x coordinate of the right edge.
func (b Box) Right() float64 { return b.X + b.Width }

// Bottom returns the y coordinate of the bottom edge.
func (b Box) Bottom() float64 { return b.Y + b.Height }

// ExpandedBy grows the box by padding on every side without clamping.
func (b Box) ExpandedBy(padding float64) Box {
	return Box{
		X:      b.X - padding,
		Y:      b.Y - padding,
		Width:  b.Width + 2*padding,
		Height: b.Height + 2*padding,
	}
}

// Rect converts the box to an integer image.Rectangle by rounding each edge.
func (b Box) Rect() image.Rectangle {
	x0 := int(math.Round(b.X))
	y0 := int(math.Round(b.Y))
	return image.Rect(x0, y0, x0+int(math.Round(b.Width)), y0+int(math.Round(b.Height)))
}

func (b Box) String() string {
	return fmt.Sprintf("%g,%g,%g,%g", b.X, b.Y, b.Width, b.Height)
}

// ParseBox parses the "x,y,w,h" form produced by Box.String.
func ParseBox(s string) (Box, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return Box{}, fmt.Errorf("invalid box %q: expected x,y,width,height", s)
	}
	var vals [4]float64
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return Box{}, fmt.Errorf("invalid box %q: %w", s, err)
		}
		vals[i] = v
	}
	if vals[2] < 0 || vals[3] < 0 {
		return Box{}, fmt.Errorf("invalid box %q: width and height must not be negative", s)
	}
	return Box{X: vals[0], Y: vals[1], Width: vals[2], Height: vals[3]}, nil
}

// PadAndClamp grows the box by padding on each side and clips the result to
// [0,imageWidth]x[0,imageHeight]. The origin never goes negative and the
// size never exceeds the space remaining from the clamped origin.
func PadAndClamp(box Box, padding, imageWidth, imageHeight float64) Box {
	x := math.Max(0, box.X-padding)
	y := math.Max(0, box.Y-padding)
	// A box entirely past the far edge still yields an in-bounds degenerate result.
	x = math.Min(x, math.Max(0, imageWidth))
	y = math.Min(y, math.Max(0, imageHeight))
	return Box{
		X:      x,
		Y:      y,
		Width:  math.Max(0, math.Min(imageWidth-x, box.Width+2*padding)),
		Height: math.Max(0, math.Min(imageHeight-y, box.Height+2*padding)),
	}
}
