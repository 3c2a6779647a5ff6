// File: internal/annotate/options.go
package annotate

import (
	"fmt"
	"image/color"

	"github.com/xkilldash9x/browser-viz/internal/config"
	"github.com/xkilldash9x/browser-viz/internal/geometry"
)

// Float returns a pointer to v, for filling optional numeric fields.
func Float(v float64) *float64 { return &v }

// Int returns a pointer to v.
func Int(v int) *int { return &v }

// HighlightOptions configures a highlight frame. Unset fields take the
// configured defaults.
type HighlightOptions struct {
	BorderColor  string   `yaml:"borderColor,omitempty" json:"borderColor,omitempty"`
	BorderWidth  *float64 `yaml:"borderWidth,omitempty" json:"borderWidth,omitempty"`
	Padding      *float64 `yaml:"padding,omitempty" json:"padding,omitempty"`
	CornerRadius *float64 `yaml:"cornerRadius,omitempty" json:"cornerRadius,omitempty"`
}

// ArrowOptions configures an arrow pointing at a box.
type ArrowOptions struct {
	Color       string          `yaml:"color,omitempty" json:"color,omitempty"`
	StrokeWidth *float64        `yaml:"strokeWidth,omitempty" json:"strokeWidth,omitempty"`
	HeadSize    *float64        `yaml:"headSize,omitempty" json:"headSize,omitempty"`
	Length      *float64        `yaml:"length,omitempty" json:"length,omitempty"`
	Direction   string          `yaml:"direction,omitempty" json:"direction,omitempty"`
	From        *geometry.Point `yaml:"from,omitempty" json:"from,omitempty"`
}

// LabelOptions configures a text label placed around a box.
type LabelOptions struct {
	TextColor         string   `yaml:"textColor,omitempty" json:"textColor,omitempty"`
	BackgroundColor   string   `yaml:"backgroundColor,omitempty" json:"backgroundColor,omitempty"`
	BackgroundOpacity *float64 `yaml:"backgroundOpacity,omitempty" json:"backgroundOpacity,omitempty"`
	FontSize          *float64 `yaml:"fontSize,omitempty" json:"fontSize,omitempty"`
	FontFamily        string   `yaml:"fontFamily,omitempty" json:"fontFamily,omitempty"`
	FontWeight        string   `yaml:"fontWeight,omitempty" json:"fontWeight,omitempty"`
	Position          string   `yaml:"position,omitempty" json:"position,omitempty"`
	Padding           *float64 `yaml:"padding,omitempty" json:"padding,omitempty"`
	BorderRadius      *float64 `yaml:"borderRadius,omitempty" json:"borderRadius,omitempty"`
	Offset            *float64 `yaml:"offset,omitempty" json:"offset,omitempty"`
}

// ZoomOptions configures a crop and resize. Explicit output dimensions
// override the scale-derived ones.
type ZoomOptions struct {
	Scale        *float64 `yaml:"scale,omitempty" json:"scale,omitempty"`
	Padding      *float64 `yaml:"padding,omitempty" json:"padding,omitempty"`
	OutputWidth  *int     `yaml:"outputWidth,omitempty" json:"outputWidth,omitempty"`
	OutputHeight *int     `yaml:"outputHeight,omitempty" json:"outputHeight,omitempty"`
}

// The resolved forms below carry every field; they are built once per
// operation by merging the options over the defaults.

type highlightStyle struct {
	color   color.NRGBA
	width   float64
	padding float64
	radius  float64
}

type arrowStyle struct {
	color     color.NRGBA
	width     float64
	headSize  float64
	length    float64
	direction geometry.Direction
	from      *geometry.Point
}

type labelStyle struct {
	text       color.NRGBA
	background color.NRGBA
	fontSize   float64
	family     string
	weight     string
	position   geometry.LabelPosition
	padding    float64
	radius     float64
	offset     float64
}

type zoomStyle struct {
	scale   float64
	padding float64
	width   int
	height  int
}

func pick(v *float64, dflt float64) float64 {
	if v != nil {
		return *v
	}
	return dflt
}

func pickString(v, dflt string) string {
	if v != "" {
		return v
	}
	return dflt
}

func resolveHighlight(o HighlightOptions, d config.HighlightConfig) (highlightStyle, error) {
	c, err := ParseColor(pickString(o.BorderColor, d.BorderColor))
	if err != nil {
		return highlightStyle{}, fmt.Errorf("highlight border color: %w", err)
	}
	return highlightStyle{
		color:   c,
		width:   pick(o.BorderWidth, d.BorderWidth),
		padding: pick(o.Padding, d.Padding),
		radius:  pick(o.CornerRadius, d.CornerRadius),
	}, nil
}

func resolveArrow(o ArrowOptions, d config.ArrowConfig) (arrowStyle, error) {
	c, err := ParseColor(pickString(o.Color, d.Color))
	if err != nil {
		return arrowStyle{}, fmt.Errorf("arrow color: %w", err)
	}
	dir, err := geometry.ParseDirection(pickString(o.Direction, d.Direction))
	if err != nil {
		return arrowStyle{}, err
	}
	return arrowStyle{
		color:     c,
		width:     pick(o.StrokeWidth, d.StrokeWidth),
		headSize:  pick(o.HeadSize, d.HeadSize),
		length:    pick(o.Length, d.Length),
		direction: dir,
		from:      o.From,
	}, nil
}

func resolveLabel(o LabelOptions, d config.LabelConfig) (labelStyle, error) {
	text, err := ParseColor(pickString(o.TextColor, d.TextColor))
	if err != nil {
		return labelStyle{}, fmt.Errorf("label text color: %w", err)
	}
	bg, err := ParseColor(pickString(o.BackgroundColor, d.BackgroundColor))
	if err != nil {
		return labelStyle{}, fmt.Errorf("label background color: %w", err)
	}
	pos, err := geometry.ParseLabelPosition(pickString(o.Position, d.Position))
	if err != nil {
		return labelStyle{}, err
	}
	return labelStyle{
		text:       text,
		background: withOpacity(bg, pick(o.BackgroundOpacity, d.BackgroundOpacity)),
		fontSize:   pick(o.FontSize, d.FontSize),
		family:     pickString(o.FontFamily, d.FontFamily),
		weight:     pickString(o.FontWeight, d.FontWeight),
		position:   pos,
		padding:    pick(o.Padding, d.Padding),
		radius:     pick(o.BorderRadius, d.BorderRadius),
		offset:     pick(o.Offset, d.Offset),
	}, nil
}

func resolveZoom(o ZoomOptions, d config.ZoomConfig) (zoomStyle, error) {
	z := zoomStyle{
		scale:   pick(o.Scale, d.Scale),
		padding: pick(o.Padding, d.Padding),
	}
	if z.scale <= 0 {
		return zoomStyle{}, fmt.Errorf("zoom scale must be positive, got %g", z.scale)
	}
	if o.OutputWidth != nil {
		z.width = *o.OutputWidth
	}
	if o.OutputHeight != nil {
		z.height = *o.OutputHeight
	}
	return z, nil
}
