// File: internal/annotate/annotator.go
package annotate

import (
	"fmt"
	"image"
	"math"

	"github.com/xkilldash9x/browser-viz/internal/compositor"
	"github.com/xkilldash9x/browser-viz/internal/config"
	"github.com/xkilldash9x/browser-viz/internal/geometry"
	"go.uber.org/zap"
)

// Annotator draws highlights, arrows and labels on screenshots and crops
// zoomed regions out of them. Every operation returns a new PNG buffer and
// never modifies its input.
type Annotator struct {
	defaults config.AnnotationConfig
	logger   *zap.Logger
}

// New creates an Annotator whose unset options fall back to defaults.
func New(defaults config.AnnotationConfig, logger *zap.Logger) *Annotator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Annotator{defaults: defaults, logger: logger.Named("annotate")}
}

// NewDefault creates an Annotator with the built-in default record.
func NewDefault() *Annotator {
	return New(config.NewDefaultConfig().Annotation, nil)
}

// Defaults returns the default record the annotator resolves options against.
func (a *Annotator) Defaults() config.AnnotationConfig {
	return a.defaults
}

// -- Primitive builders --

func highlightPrimitives(box geometry.Box, s highlightStyle, w, h int) []compositor.Primitive {
	frame := geometry.PadAndClamp(box, s.padding, float64(w), float64(h))
	return []compositor.Primitive{compositor.RectStroke{
		Box:    frame,
		Color:  s.color,
		Width:  s.width,
		Radius: s.radius,
	}}
}

func arrowPrimitives(box geometry.Box, s arrowStyle) []compositor.Primitive {
	tail, tip := geometry.ArrowEndpoints(box, s.direction, s.length, s.from)
	head := geometry.ArrowheadTriangle(tail, tip, s.headSize)
	return []compositor.Primitive{
		compositor.Line{From: tail, To: tip, Color: s.color, Width: s.width},
		compositor.Polygon{Points: head[:], Color: s.color},
	}
}

func labelPrimitives(box geometry.Box, text string, s labelStyle, w, h int) []compositor.Primitive {
	lw, lh := geometry.EstimateLabelSize(text, s.fontSize, s.padding)
	pos := geometry.LabelPlacement(box, s.position, lw, lh, s.offset, float64(w), float64(h))
	return []compositor.Primitive{
		compositor.RectFill{
			Box:    geometry.Box{X: pos.X, Y: pos.Y, Width: lw, Height: lh},
			Color:  s.background,
			Radius: s.radius,
		},
		compositor.Text{
			// 0.8 of the font size approximates the ascent.
			Origin: geometry.Point{X: pos.X + s.padding, Y: pos.Y + s.padding + s.fontSize*0.8},
			Value:  text,
			Color:  s.text,
			Size:   s.fontSize,
			Family: s.family,
			Weight: s.weight,
		},
	}
}

// -- Image-level steps --

func (a *Annotator) highlight(img image.Image, box geometry.Box, o HighlightOptions) (*image.RGBA, error) {
	s, err := resolveHighlight(o, a.defaults.Highlight)
	if err != nil {
		return nil, err
	}
	b := img.Bounds()
	ov := compositor.NewOverlay(b.Dx(), b.Dy()).WithLogger(a.logger).Add(highlightPrimitives(box, s, b.Dx(), b.Dy())...)
	return compositor.Compose(img, ov), nil
}

func (a *Annotator) arrow(img image.Image, box geometry.Box, o ArrowOptions) (*image.RGBA, error) {
	s, err := resolveArrow(o, a.defaults.Arrow)
	if err != nil {
		return nil, err
	}
	b := img.Bounds()
	ov := compositor.NewOverlay(b.Dx(), b.Dy()).WithLogger(a.logger).Add(arrowPrimitives(box, s)...)
	return compositor.Compose(img, ov), nil
}

func (a *Annotator) label(img image.Image, box geometry.Box, text string, o LabelOptions) (*image.RGBA, error) {
	s, err := resolveLabel(o, a.defaults.Label)
	if err != nil {
		return nil, err
	}
	b := img.Bounds()
	ov := compositor.NewOverlay(b.Dx(), b.Dy()).WithLogger(a.logger).Add(labelPrimitives(box, text, s, b.Dx(), b.Dy())...)
	return compositor.Compose(img, ov), nil
}

func (a *Annotator) zoom(img image.Image, box geometry.Box, o ZoomOptions) (*image.RGBA, error) {
	s, err := resolveZoom(o, a.defaults.Zoom)
	if err != nil {
		return nil, err
	}
	b := img.Bounds()
	region := geometry.PadAndClamp(box, s.padding, float64(b.Dx()), float64(b.Dy()))
	crop := region.Rect()

	outW, outH := s.width, s.height
	if outW <= 0 {
		outW = int(math.Round(region.Width * s.scale))
	}
	if outH <= 0 {
		outH = int(math.Round(region.Height * s.scale))
	}
	a.logger.Debug("Zooming into region.",
		zap.Stringer("region", region),
		zap.Int("output_width", outW),
		zap.Int("output_height", outH))

	out, err := compositor.CropAndResize(img, crop, outW, outH)
	if err != nil {
		return nil, fmt.Errorf("failed to zoom into %s: %w", box, err)
	}
	return out, nil
}

// -- Buffer operations --

// apply decodes data, runs steps in order and encodes the result as PNG.
func apply(data []byte, steps ...func(image.Image) (*image.RGBA, error)) ([]byte, error) {
	img, err := compositor.Decode(data)
	if err != nil {
		return nil, err
	}
	for _, step := range steps {
		if img, err = step(img); err != nil {
			return nil, err
		}
	}
	return compositor.EncodePNG(img)
}

// AddHighlight outlines the padded and clamped box with a rounded frame.
func (a *Annotator) AddHighlight(data []byte, box geometry.Box, o HighlightOptions) ([]byte, error) {
	return apply(data, func(img image.Image) (*image.RGBA, error) {
		return a.highlight(img, box, o)
	})
}

// ZoomToArea crops the padded and clamped box and scales it up.
func (a *Annotator) ZoomToArea(data []byte, box geometry.Box, o ZoomOptions) ([]byte, error) {
	return apply(data, func(img image.Image) (*image.RGBA, error) {
		return a.zoom(img, box, o)
	})
}

// HighlightAndZoom highlights box, then zooms into the original box. The
// zoom derives its own padding and ignores the highlight padding.
func (a *Annotator) HighlightAndZoom(data []byte, box geometry.Box, h HighlightOptions, z ZoomOptions) ([]byte, error) {
	return apply(data,
		func(img image.Image) (*image.RGBA, error) { return a.highlight(img, box, h) },
		func(img image.Image) (*image.RGBA, error) { return a.zoom(img, box, z) },
	)
}

// AddArrow draws an arrow pointing at box.
func (a *Annotator) AddArrow(data []byte, box geometry.Box, o ArrowOptions) ([]byte, error) {
	return apply(data, func(img image.Image) (*image.RGBA, error) {
		return a.arrow(img, box, o)
	})
}

// AddTextLabel draws text on a rounded background near box.
func (a *Annotator) AddTextLabel(data []byte, box geometry.Box, text string, o LabelOptions) ([]byte, error) {
	return apply(data, func(img image.Image) (*image.RGBA, error) {
		return a.label(img, box, text, o)
	})
}

// AddAnnotations applies the bundle strictly in the order highlight, arrow,
// label. Each step draws over the output of the previous one.
func (a *Annotator) AddAnnotations(data []byte, box geometry.Box, bundle Bundle) ([]byte, error) {
	var steps []func(image.Image) (*image.RGBA, error)
	if bundle.Highlight != nil {
		steps = append(steps, func(img image.Image) (*image.RGBA, error) {
			return a.highlight(img, box, *bundle.Highlight)
		})
	}
	if bundle.Arrow != nil {
		steps = append(steps, func(img image.Image) (*image.RGBA, error) {
			return a.arrow(img, box, *bundle.Arrow)
		})
	}
	if bundle.Label != nil {
		steps = append(steps, func(img image.Image) (*image.RGBA, error) {
			return a.label(img, box, bundle.Label.Text, bundle.Label.LabelOptions)
		})
	}
	a.logger.Debug("Applying annotation bundle.", zap.Int("steps", len(steps)), zap.Stringer("box", box))
	return apply(data, steps...)
}

// Overlay builds the vector overlay the bundle would paint on a
// width x height image, for SVG export.
func (a *Annotator) Overlay(width, height int, box geometry.Box, bundle Bundle) (*compositor.Overlay, error) {
	ov := compositor.NewOverlay(width, height).WithLogger(a.logger)
	if bundle.Highlight != nil {
		s, err := resolveHighlight(*bundle.Highlight, a.defaults.Highlight)
		if err != nil {
			return nil, err
		}
		ov.Add(highlightPrimitives(box, s, width, height)...)
	}
	if bundle.Arrow != nil {
		s, err := resolveArrow(*bundle.Arrow, a.defaults.Arrow)
		if err != nil {
			return nil, err
		}
		ov.Add(arrowPrimitives(box, s)...)
	}
	if bundle.Label != nil {
		s, err := resolveLabel(bundle.Label.LabelOptions, a.defaults.Label)
		if err != nil {
			return nil, err
		}
		ov.Add(labelPrimitives(box, bundle.Label.Text, s, width, height)...)
	}
	return ov, nil
}
