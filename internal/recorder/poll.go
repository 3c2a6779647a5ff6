// File: internal/recorder/poll.go
package recorder

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Screenshotter captures the current viewport as PNG.
type Screenshotter interface {
	ScreenshotPNG(ctx context.Context) ([]byte, error)
}

// Poller records by requesting screenshots in a loop.
type Poller struct {
	shots   Screenshotter
	encoder Encoder
	logger  *zap.Logger
	now     func() time.Time
	sleep   func(ctx context.Context, d time.Duration) error
}

func NewPoller(shots Screenshotter, encoder Encoder, logger *zap.Logger) *Poller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Poller{
		shots:   shots,
		encoder: encoder,
		logger:  logger.Named("poller"),
		now:     time.Now,
		sleep:   sleepContext,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Capture takes screenshots until duration has elapsed, waiting one frame interval
// after each attempt. Failed screenshots are logged and skipped. Latency is
// not compensated, so slow screenshots yield fewer frames.
func (p *Poller) Capture(ctx context.Context, duration time.Duration, opts Options) ([][]byte, error) {
	opts = opts.withDefaults()
	interval := opts.Interval()
	var frames [][]byte

	p.logger.Info("Recording with screenshots.",
		zap.Duration("duration", duration),
		zap.Int("frame_rate", opts.FrameRate))

	start := p.now()
	for p.now().Sub(start) < duration {
		data, err := p.shots.ScreenshotPNG(ctx)
		if err == nil && opts.resizes() {
			data, err = normalizeFrame(data, opts)
		}
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			p.logger.Warn("Frame capture failed.", zap.Error(err))
		} else {
			frames = append(frames, data)
		}

		if err := p.sleep(ctx, interval); err != nil {
			return nil, err
		}
	}
	return frames, nil
}

// Record captures for duration and exports the frames to output.
func (p *Poller) Record(ctx context.Context, duration time.Duration, output string, opts Options) (Result, error) {
	opts = opts.withDefaults()
	if err := opts.Validate(); err != nil {
		return Result{}, err
	}
	id := uuid.NewString()
	log := p.logger.With(zap.String("recording_id", id))

	frames, err := p.Capture(ctx, duration, opts)
	if err != nil {
		return Result{}, err
	}
	log.Info("Capture finished.", zap.Int("frames", len(frames)))

	res, err := Export(ctx, p.encoder, frames, output, opts, log)
	if err != nil {
		return Result{}, err
	}
	res.ID = id
	return res, nil
}
