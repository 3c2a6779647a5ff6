// File: internal/annotate/color.go
package annotate

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// palette maps the closed set of color names to literal values.
var palette = map[string]string{
	"red":     "#FF0000",
	"blue":    "#0066FF",
	"green":   "#00CC00",
	"yellow":  "#FFCC00",
	"orange":  "#FF8800",
	"purple":  "#9933FF",
	"cyan":    "#00CCCC",
	"magenta": "#FF00FF",
	"white":   "#FFFFFF",
	"black":   "#000000",
}

// PaletteNames returns the palette names in a stable order.
func PaletteNames() []string {
	return []string{"red", "blue", "green", "yellow", "orange", "purple", "cyan", "magenta", "white", "black"}
}

// ResolveColor maps a palette name to its literal value. Any other token is
// returned unchanged.
func ResolveColor(token string) string {
	if lit, ok := palette[token]; ok {
		return lit
	}
	return token
}

// ParseColor resolves token and parses the literal. Supported literals are
// #RGB, #RRGGBB, rgb(r,g,b), rgba(r,g,b,a) and "transparent".
func ParseColor(token string) (color.NRGBA, error) {
	lit := strings.TrimSpace(ResolveColor(strings.TrimSpace(token)))
	lower := strings.ToLower(lit)

	switch {
	case lower == "transparent" || lower == "none":
		return color.NRGBA{}, nil
	case strings.HasPrefix(lit, "#"):
		c, err := colorful.Hex(lit)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("invalid color %q: %w", token, err)
		}
		r, g, b := c.RGB255()
		return color.NRGBA{R: r, G: g, B: b, A: 0xFF}, nil
	case strings.HasPrefix(lower, "rgb(") || strings.HasPrefix(lower, "rgba("):
		return parseFunctional(lower, token)
	}
	return color.NRGBA{}, fmt.Errorf("invalid color %q: expected a palette name, hex value or rgb()/rgba()", token)
}

func parseFunctional(lower, token string) (color.NRGBA, error) {
	open := strings.IndexByte(lower, '(')
	if !strings.HasSuffix(lower, ")") {
		return color.NRGBA{}, fmt.Errorf("invalid color %q: missing closing parenthesis", token)
	}
	parts := strings.Split(lower[open+1:len(lower)-1], ",")
	alpha := strings.HasPrefix(lower, "rgba(")
	if (alpha && len(parts) != 4) || (!alpha && len(parts) != 3) {
		return color.NRGBA{}, fmt.Errorf("invalid color %q: wrong number of components", token)
	}

	var ch [3]uint8
	for i := 0; i < 3; i++ {
		v, err := strconv.Atoi(strings.TrimSpace(parts[i]))
		if err != nil || v < 0 || v > 255 {
			return color.NRGBA{}, fmt.Errorf("invalid color %q: component %d out of range", token, i+1)
		}
		ch[i] = uint8(v)
	}
	a := uint8(0xFF)
	if alpha {
		f, err := strconv.ParseFloat(strings.TrimSpace(parts[3]), 64)
		if err != nil || f < 0 || f > 1 {
			return color.NRGBA{}, fmt.Errorf("invalid color %q: alpha must be between 0 and 1", token)
		}
		a = uint8(math.Round(f * 255))
	}
	return color.NRGBA{R: ch[0], G: ch[1], B: ch[2], A: a}, nil
}

// withOpacity scales the alpha of c by opacity in [0,1].
func withOpacity(c color.NRGBA, opacity float64) color.NRGBA {
	opacity = math.Max(0, math.Min(1, opacity))
	c.A = uint8(math.Round(float64(c.A) * opacity))
	return c
}
