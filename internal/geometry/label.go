// File: internal/geometry/label.go
package geometry

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// LabelPosition places a text label relative to its target box.
type LabelPosition string

const (
	LabelTop         LabelPosition = "top"
	LabelBottom      LabelPosition = "bottom"
	LabelLeft        LabelPosition = "left"
	LabelRight       LabelPosition = "right"
	LabelTopLeft     LabelPosition = "top-left"
	LabelTopRight    LabelPosition = "top-right"
	LabelBottomLeft  LabelPosition = "bottom-left"
	LabelBottomRight LabelPosition = "bottom-right"
	LabelCenter      LabelPosition = "center"
)

// LabelPositions lists all nine placements.
var LabelPositions = []LabelPosition{
	LabelTop, LabelBottom, LabelLeft, LabelRight,
	LabelTopLeft, LabelTopRight, LabelBottomLeft, LabelBottomRight,
	LabelCenter,
}

// ParseLabelPosition validates a position name. Matching is case-insensitive.
func ParseLabelPosition(s string) (LabelPosition, error) {
	p := LabelPosition(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range LabelPositions {
		if p == known {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown label position %q", s)
}

const (
	// charWidthFactor approximates the advance of one glyph as a fraction of
	// the font size.
	charWidthFactor = 0.6
	// LabelMargin is the minimum distance between a label and the image edge.
	LabelMargin = 5.0
)

// EstimateLabelSize approximates the rendered size of a label from its
// character count. Text is NFC-normalized first so combining sequences count
// as a single character.
func EstimateLabelSize(text string, fontSize, padding float64) (width, height float64) {
	n := utf8.RuneCountInString(norm.NFC.String(text))
	width = float64(n)*fontSize*charWidthFactor + 2*padding
	height = fontSize + 2*padding
	return width, height
}

// LabelPlacement returns the top-left corner of a label for the given
// position, clamped so the label keeps LabelMargin pixels from every edge.
// When the image is too small for that, the near margin wins.
func LabelPlacement(box Box, pos LabelPosition, labelWidth, labelHeight, offset, imageWidth, imageHeight float64) Point {
	c := box.Center()
	above := box.Y - labelHeight - offset
	below := box.Bottom() + offset
	leftOf := box.X - labelWidth - offset
	rightOf := box.Right() + offset
	midX := c.X - labelWidth/2
	midY := c.Y - labelHeight/2

	var p Point
	switch pos {
	case LabelBottom:
		p = Point{X: midX, Y: below}
	case LabelLeft:
		p = Point{X: leftOf, Y: midY}
	case LabelRight:
		p = Point{X: rightOf, Y: midY}
	case LabelTopLeft:
		p = Point{X: leftOf, Y: above}
	case LabelTopRight:
		p = Point{X: rightOf, Y: above}
	case LabelBottomLeft:
		p = Point{X: leftOf, Y: below}
	case LabelBottomRight:
		p = Point{X: rightOf, Y: below}
	case LabelCenter:
		p = Point{X: midX, Y: midY}
	default:
		p = Point{X: midX, Y: above}
	}

	p.X = math.Max(LabelMargin, math.Min(imageWidth-labelWidth-LabelMargin, p.X))
	p.Y = math.Max(LabelMargin, math.Min(imageHeight-labelHeight-LabelMargin, p.Y))
	return p
}
