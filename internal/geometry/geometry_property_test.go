// File: internal/geometry/geometry_property_test.go
package geometry

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// tolerance absorbs float rounding in x + (W - x).
const tolerance = 1e-6

func newProperties(minSuccessful int) *gopter.Properties {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = minSuccessful
	return gopter.NewProperties(parameters)
}

// TestPadAndClampStaysInBounds verifies the clamped rectangle never leaves the image.
// Property: 0 <= x, 0 <= y, x+w <= W, y+h <= H for any box and positive image size
func TestPadAndClampStaysInBounds(t *testing.T) {
	properties := newProperties(500)

	properties.Property("padded box lies inside the image", prop.ForAll(
		func(x, y, w, h, padding, imgW, imgH float64) bool {
			r := PadAndClamp(Box{X: x, Y: y, Width: w, Height: h}, padding, imgW, imgH)
			return r.X >= 0 && r.Y >= 0 &&
				r.Width >= 0 && r.Height >= 0 &&
				r.X+r.Width <= imgW+tolerance &&
				r.Y+r.Height <= imgH+tolerance
		},
		gen.Float64Range(-500, 3000),
		gen.Float64Range(-500, 3000),
		gen.Float64Range(0, 2000),
		gen.Float64Range(0, 2000),
		gen.Float64Range(0, 200),
		gen.Float64Range(1, 4000),
		gen.Float64Range(1, 4000),
	))

	properties.TestingRun(t)
}

// TestLabelPlacementStaysInMargins checks every position against the 5px margin.
// Property: 5 <= x <= W-lw-5 and 5 <= y <= H-lh-5 when the image fits the label
func TestLabelPlacementStaysInMargins(t *testing.T) {
	properties := newProperties(300)

	for _, pos := range LabelPositions {
		pos := pos
		properties.Property("label stays inside margins at "+string(pos), prop.ForAll(
			func(x, y, w, h, lw, lh float64) bool {
				const imgW, imgH = 1280.0, 720.0
				p := LabelPlacement(Box{X: x, Y: y, Width: w, Height: h}, pos, lw, lh, 10, imgW, imgH)
				return p.X >= LabelMargin && p.X <= imgW-lw-LabelMargin &&
					p.Y >= LabelMargin && p.Y <= imgH-lh-LabelMargin
			},
			gen.Float64Range(-200, 1500),
			gen.Float64Range(-200, 900),
			gen.Float64Range(0, 600),
			gen.Float64Range(0, 400),
			gen.Float64Range(10, 600),
			gen.Float64Range(10, 300),
		))
	}

	properties.TestingRun(t)
}

// TestROIExpandMinimumSize verifies growth to the minimum size and containment.
// Property: w >= min(minSize, W), h >= min(minSize, H), region inside the image
func TestROIExpandMinimumSize(t *testing.T) {
	properties := newProperties(500)

	properties.Property("roi reaches the minimum size and stays inside", prop.ForAll(
		func(x, y, w, h, padding, minSize, imgW, imgH float64) bool {
			r := ROIExpand(Box{X: x, Y: y, Width: w, Height: h}, imgW, imgH, padding, minSize)
			wantW := minSize
			if imgW < wantW {
				wantW = imgW
			}
			wantH := minSize
			if imgH < wantH {
				wantH = imgH
			}
			return r.Width >= wantW-tolerance && r.Height >= wantH-tolerance &&
				r.X >= 0 && r.Y >= 0 &&
				r.X+r.Width <= imgW+tolerance && r.Y+r.Height <= imgH+tolerance
		},
		gen.Float64Range(0, 2000),
		gen.Float64Range(0, 2000),
		gen.Float64Range(0, 500),
		gen.Float64Range(0, 500),
		gen.Float64Range(0, 200),
		gen.Float64Range(0, 400),
		gen.Float64Range(1, 2500),
		gen.Float64Range(1, 2500),
	))

	properties.TestingRun(t)
}

// TestArrowTipOnPerimeter verifies the tip always touches the box edge.
func TestArrowTipOnPerimeter(t *testing.T) {
	properties := newProperties(200)

	properties.Property("arrow tip lies on the box perimeter", prop.ForAll(
		func(x, y, w, h, length float64, idx int) bool {
			box := Box{X: x, Y: y, Width: w, Height: h}
			_, tip := ArrowEndpoints(box, Directions[idx], length, nil)
			onVertical := tip.X == box.X || tip.X == box.Right()
			onHorizontal := tip.Y == box.Y || tip.Y == box.Bottom()
			inside := tip.X >= box.X && tip.X <= box.Right() && tip.Y >= box.Y && tip.Y <= box.Bottom()
			return inside && (onVertical || onHorizontal)
		},
		gen.Float64Range(-100, 1000),
		gen.Float64Range(-100, 1000),
		gen.Float64Range(0, 500),
		gen.Float64Range(0, 500),
		gen.Float64Range(0, 200),
		gen.IntRange(0, len(Directions)-1),
	))

	properties.TestingRun(t)
}
