// File: internal/compositor/text.go
package compositor

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strings"
	"sync"

	"github.com/xkilldash9x/browser-viz/internal/geometry"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Text draws a single run of text. Origin is the left end of the baseline.
type Text struct {
	Origin geometry.Point
	Value  string
	Color  color.Color
	Size   float64
	// Family and Weight are CSS-style hints; they select one of the bundled
	// Go fonts and are emitted verbatim in SVG output.
	Family string
	Weight string
}

type fontKey struct {
	mono bool
	bold bool
}

var (
	fontsMu sync.Mutex
	fonts   = map[fontKey]*opentype.Font{}
)

func fontFor(family, weight string) (*opentype.Font, error) {
	key := fontKey{
		mono: strings.Contains(strings.ToLower(family), "mono"),
		bold: isBold(weight),
	}

	fontsMu.Lock()
	defer fontsMu.Unlock()
	if f, ok := fonts[key]; ok {
		return f, nil
	}

	var ttf []byte
	switch {
	case key.mono && key.bold:
		ttf = gomonobold.TTF
	case key.mono:
		ttf = gomono.TTF
	case key.bold:
		ttf = gobold.TTF
	default:
		ttf = goregular.TTF
	}
	f, err := opentype.Parse(ttf)
	if err != nil {
		return nil, fmt.Errorf("failed to parse bundled font: %w", err)
	}
	fonts[key] = f
	return f, nil
}

func isBold(weight string) bool {
	switch strings.ToLower(strings.TrimSpace(weight)) {
	case "bold", "bolder", "600", "700", "800", "900":
		return true
	}
	return false
}

func (t Text) rasterize(dst *image.RGBA) error {
	if t.Value == "" || t.Size <= 0 {
		return nil
	}
	f, err := fontFor(t.Family, t.Weight)
	if err != nil {
		return err
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    t.Size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return fmt.Errorf("failed to create font face for %q: %w", t.Value, err)
	}
	defer face.Close()

	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(t.Color),
		Face: face,
		Dot:  fixed.P(int(math.Round(t.Origin.X)), int(math.Round(t.Origin.Y))),
	}
	d.DrawString(t.Value)
	return nil
}
