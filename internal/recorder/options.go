// File: internal/recorder/options.go
package recorder

import (
	"errors"
	"fmt"
	"time"

	"github.com/xkilldash9x/browser-viz/internal/config"
)

const (
	DefaultFrameRate = 10
	DefaultQuality   = 10

	// Used when neither an override nor the first frame yields a size.
	fallbackWidth  = 800
	fallbackHeight = 600
)

// Options control capture rate and GIF output.
type Options struct {
	FrameRate int
	// Quality ranges over 1..30, lower is better.
	Quality int
	// Repeat is the loop count: 0 loops forever, -1 plays once.
	Repeat int
	// Width and Height resize every frame when both are set, and override
	// the output size individually otherwise.
	Width  int
	Height int
}

// DefaultOptions returns 10 fps, quality 10, infinite loop, source size.
func DefaultOptions() Options {
	return Options{FrameRate: DefaultFrameRate, Quality: DefaultQuality}
}

// OptionsFromConfig maps the recording section of the configuration.
func OptionsFromConfig(cfg config.RecordingConfig) Options {
	return Options{
		FrameRate: cfg.FrameRate,
		Quality:   cfg.Quality,
		Repeat:    cfg.Repeat,
		Width:     cfg.Width,
		Height:    cfg.Height,
	}
}

// withDefaults fills zero frame rate and quality.
func (o Options) withDefaults() Options {
	if o.FrameRate == 0 {
		o.FrameRate = DefaultFrameRate
	}
	if o.Quality == 0 {
		o.Quality = DefaultQuality
	}
	return o
}

func (o Options) Validate() error {
	if o.FrameRate <= 0 {
		return fmt.Errorf("frame rate must be positive, got %d", o.FrameRate)
	}
	if o.Quality < 1 || o.Quality > 30 {
		return fmt.Errorf("quality must be between 1 and 30, got %d", o.Quality)
	}
	if o.Repeat < -1 {
		return fmt.Errorf("repeat must be -1, 0 or a positive loop count, got %d", o.Repeat)
	}
	if o.Width < 0 || o.Height < 0 {
		return errors.New("output dimensions must not be negative")
	}
	return nil
}

// Interval is the minimum spacing between captured frames.
func (o Options) Interval() time.Duration {
	if o.FrameRate <= 0 {
		return time.Second / DefaultFrameRate
	}
	return time.Second / time.Duration(o.FrameRate)
}

// resizes reports whether every frame is scaled to a fixed target.
func (o Options) resizes() bool {
	return o.Width > 0 && o.Height > 0
}

// maxColors maps quality to a palette size: 256 colors up to quality 10,
// then ten fewer per step, down to 56 at quality 30.
func maxColors(quality int) int {
	if quality <= DefaultQuality {
		return 256
	}
	if quality > 30 {
		quality = 30
	}
	return 256 - (quality-DefaultQuality)*10
}
