// File: internal/recorder/native.go
package recorder

import (
	"bufio"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/color/palette"
	"image/gif"
	"os"
	"path/filepath"

	"github.com/xkilldash9x/browser-viz/internal/compositor"
	"go.uber.org/zap"
	"golang.org/x/image/draw"
)

// NativeEncoder builds the GIF in process, for hosts without ffmpeg.
type NativeEncoder struct {
	logger *zap.Logger
}

func NewNativeEncoder(logger *zap.Logger) *NativeEncoder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NativeEncoder{logger: logger.Named("gif")}
}

// paletteFor trades color fidelity for size as quality rises. Quality up to
// 10 also enables Floyd-Steinberg dithering.
func paletteFor(quality int) (color.Palette, draw.Drawer) {
	switch {
	case quality <= DefaultQuality:
		return palette.Plan9, draw.FloydSteinberg
	case quality <= 20:
		return palette.Plan9, draw.Src
	default:
		return palette.WebSafe, draw.Src
	}
}

// delayFor converts a frame rate to the GIF delay unit of 1/100 s.
func delayFor(frameRate int) int {
	if frameRate <= 0 {
		frameRate = DefaultFrameRate
	}
	d := 100 / frameRate
	if d < 1 {
		d = 1
	}
	return d
}

// Encode quantizes each frame, in order, and writes the animation.
func (e *NativeEncoder) Encode(ctx context.Context, job Job) error {
	if len(job.Frames) == 0 {
		return ErrNoFrames
	}

	pal, drawer := paletteFor(job.Quality)
	delay := delayFor(job.FrameRate)
	bounds := image.Rect(0, 0, job.Width, job.Height)

	anim := &gif.GIF{
		Image:     make([]*image.Paletted, 0, len(job.Frames)),
		Delay:     make([]int, 0, len(job.Frames)),
		LoopCount: job.Repeat,
		Config:    image.Config{ColorModel: pal, Width: job.Width, Height: job.Height},
	}
	for i, data := range job.Frames {
		if err := ctx.Err(); err != nil {
			return err
		}
		img, err := compositor.Decode(data)
		if err != nil {
			return fmt.Errorf("frame %d: %w", i, err)
		}
		if img.Bounds().Dx() != job.Width || img.Bounds().Dy() != job.Height {
			if img, err = compositor.Resize(img, job.Width, job.Height); err != nil {
				return fmt.Errorf("frame %d: %w", i, err)
			}
		}
		frame := image.NewPaletted(bounds, pal)
		drawer.Draw(frame, bounds, img, img.Bounds().Min)
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, delay)
	}

	if dir := filepath.Dir(job.Output); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	f, err := os.Create(job.Output)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", job.Output, err)
	}
	w := bufio.NewWriter(f)
	if err := gif.EncodeAll(w, anim); err != nil {
		f.Close()
		return fmt.Errorf("failed to write GIF: %w", err)
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("failed to write GIF: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", job.Output, err)
	}

	e.logger.Debug("GIF written.", zap.String("output", job.Output), zap.Int("frames", len(anim.Image)))
	return nil
}
