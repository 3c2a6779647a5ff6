// File: internal/geometry/roi.go
package geometry

import "math"

const (
	// DefaultContextPadding is the padding added around an element when the
	// caller does not pick one.
	DefaultContextPadding = 100.0
	// DefaultMinROISize is the smallest side a region of interest grows to.
	DefaultMinROISize = 200.0
)

// ROIExpand pads and clamps box like PadAndClamp, then grows each side to at
// least minSize. Growth never leaves the image: when the grown region would
// cross the far edge, the origin moves back toward zero rather than the size
// saturating at the space left after the clamped origin, so a region near the
// far edge still reaches min(minSize, image size). An image smaller than
// minSize on some axis saturates at the image size on that axis.
func ROIExpand(box Box, imageWidth, imageHeight, contextPadding, minSize float64) Box {
	r := PadAndClamp(box, contextPadding, imageWidth, imageHeight)
	r.X, r.Width = growAxis(r.X, r.Width, imageWidth, minSize)
	r.Y, r.Height = growAxis(r.Y, r.Height, imageHeight, minSize)
	return r
}

func growAxis(origin, size, limit, minSize float64) (float64, float64) {
	if size >= minSize {
		return origin, size
	}
	size = math.Min(minSize, math.Max(0, limit))
	if origin+size > limit {
		origin = math.Max(0, limit-size)
	}
	return origin, size
}

// CalculateOptimalZoomRegion frames box with context for a zoomed capture. A
// non-positive contextPadding selects DefaultContextPadding.
func CalculateOptimalZoomRegion(box Box, imageWidth, imageHeight, contextPadding float64) Box {
	if contextPadding <= 0 {
		contextPadding = DefaultContextPadding
	}
	return ROIExpand(box, imageWidth, imageHeight, contextPadding, DefaultMinROISize)
}
