// File: internal/recorder/encoder.go
package recorder

import (
	"context"
	"fmt"
	"time"

	"github.com/xkilldash9x/browser-viz/internal/compositor"
	"github.com/xkilldash9x/browser-viz/internal/config"
	"go.uber.org/zap"
)

// Job is one batch export: every frame, in order, into one GIF.
type Job struct {
	Frames    [][]byte
	Output    string
	Width     int
	Height    int
	FrameRate int
	Quality   int
	Repeat    int
}

// Encoder turns a Job into a GIF file.
type Encoder interface {
	Encode(ctx context.Context, job Job) error
}

// NewEncoder selects the encoder named by the configuration.
func NewEncoder(cfg config.RecordingConfig, logger *zap.Logger) (Encoder, error) {
	switch cfg.Encoder {
	case "", config.EncoderFFmpeg:
		return NewFFmpegEncoder(cfg.FFmpegPath, logger), nil
	case config.EncoderNative:
		return NewNativeEncoder(logger), nil
	default:
		return nil, fmt.Errorf("unknown encoder %q", cfg.Encoder)
	}
}

// Result summarizes a finished export.
type Result struct {
	ID       string        `json:"id,omitempty"`
	Output   string        `json:"output"`
	Frames   int           `json:"frames"`
	Width    int           `json:"width"`
	Height   int           `json:"height"`
	Duration time.Duration `json:"duration"`
}

// Export encodes frames in order. Zero frames is ErrNoFrames and the
// encoder is never invoked. The output size comes from the options, then
// the first frame, then 800x600.
func Export(ctx context.Context, enc Encoder, frames [][]byte, output string, opts Options, logger *zap.Logger) (Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(frames) == 0 {
		return Result{}, ErrNoFrames
	}
	opts = opts.withDefaults()

	width, height := opts.Width, opts.Height
	if width == 0 || height == 0 {
		fw, fh, err := compositor.Dimensions(frames[0])
		if err != nil {
			logger.Warn("Could not read first frame dimensions, using fallback size.", zap.Error(err))
		}
		if width == 0 {
			width = fw
		}
		if height == 0 {
			height = fh
		}
		if width == 0 {
			width = fallbackWidth
		}
		if height == 0 {
			height = fallbackHeight
		}
	}

	logger.Info("Generating GIF.",
		zap.Int("frames", len(frames)),
		zap.Int("width", width),
		zap.Int("height", height),
		zap.String("output", output))

	start := time.Now()
	err := enc.Encode(ctx, Job{
		Frames:    frames,
		Output:    output,
		Width:     width,
		Height:    height,
		FrameRate: opts.FrameRate,
		Quality:   opts.Quality,
		Repeat:    opts.Repeat,
	})
	if err != nil {
		return Result{}, fmt.Errorf("failed to encode GIF: %w", err)
	}
	return Result{
		Output:   output,
		Frames:   len(frames),
		Width:    width,
		Height:   height,
		Duration: time.Since(start),
	}, nil
}
