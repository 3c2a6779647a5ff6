// File: internal/compositor/overlay.go
package compositor

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/beevik/etree"
	"github.com/xkilldash9x/browser-viz/internal/geometry"
	"go.uber.org/zap"
)

// Primitive is one vector shape on an overlay.
// A primitive that fails to rasterize is skipped.
type Primitive interface {
	rasterize(dst *image.RGBA) error
	appendSVG(parent *etree.Element)
}

// Overlay is a same-size transparent layer holding vector primitives in
// paint order.
type Overlay struct {
	Width      int
	Height     int
	Primitives []Primitive

	logger *zap.Logger
}

// NewOverlay creates an empty overlay the size of the target image.
func NewOverlay(width, height int) *Overlay {
	return &Overlay{Width: width, Height: height, logger: zap.NewNop()}
}

// WithLogger sets the logger that reports skipped primitives.
func (o *Overlay) WithLogger(logger *zap.Logger) *Overlay {
	if logger != nil {
		o.logger = logger
	}
	return o
}

// Add appends primitives in paint order.
func (o *Overlay) Add(p ...Primitive) *Overlay {
	o.Primitives = append(o.Primitives, p...)
	return o
}

// Render rasterizes every primitive onto a transparent RGBA layer.
func (o *Overlay) Render() *image.RGBA {
	layer := image.NewRGBA(image.Rect(0, 0, o.Width, o.Height))
	for i, p := range o.Primitives {
		if err := p.rasterize(layer); err != nil {
			o.log().Warn("Skipping overlay primitive.", zap.Int("index", i), zap.Error(err))
		}
	}
	return layer
}

func (o *Overlay) log() *zap.Logger {
	if o.logger == nil {
		return zap.NewNop()
	}
	return o.logger
}

// Compose renders the overlay and alpha-composites it onto a copy of src.
// The result always has the dimensions of src.
func Compose(src image.Image, o *Overlay) *image.RGBA {
	dst := Clone(src)
	layer := o.Render()
	draw.Draw(dst, dst.Bounds(), layer, image.Point{}, draw.Over)
	return dst
}

// RectStroke outlines a rectangle with rounded corners. The stroke is
// centered on the rectangle edge.
type RectStroke struct {
	Box    geometry.Box
	Color  color.Color
	Width  float64
	Radius float64
}

func (r RectStroke) rasterize(dst *image.RGBA) error {
	half := r.Width / 2
	outer := roundedRectRing(r.Box.ExpandedBy(half), r.Radius+half)
	inner := r.Box.ExpandedBy(-half)
	if inner.Width <= 0 || inner.Height <= 0 {
		fillRings(dst, r.Color, outer)
		return nil
	}
	hole := reverseRing(roundedRectRing(inner, r.Radius-half))
	fillRings(dst, r.Color, outer, hole)
	return nil
}

// RectFill paints a filled rectangle with rounded corners.
type RectFill struct {
	Box    geometry.Box
	Color  color.Color
	Radius float64
}

func (r RectFill) rasterize(dst *image.RGBA) error {
	fillRings(dst, r.Color, roundedRectRing(r.Box, r.Radius))
	return nil
}

// Line strokes a straight segment with round caps.
type Line struct {
	From  geometry.Point
	To    geometry.Point
	Color color.Color
	Width float64
}

func (l Line) rasterize(dst *image.RGBA) error {
	fillRings(dst, l.Color, lineRings(l.From, l.To, l.Width)...)
	return nil
}

// Polygon fills a closed polygon.
type Polygon struct {
	Points []geometry.Point
	Color  color.Color
}

func (p Polygon) rasterize(dst *image.RGBA) error {
	fillRings(dst, p.Color, normalizeRing(p.Points))
	return nil
}
