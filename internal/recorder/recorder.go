// File: internal/recorder/recorder.go
package recorder

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/xkilldash9x/browser-viz/internal/stream"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// ScreencastController toggles the browser's frame push.
type ScreencastController interface {
	StartScreencast(ctx context.Context) error
	StopScreencast(ctx context.Context) error
}

// Recorder accumulates pushed frames between Start and Stop, then hands
// them to the encoder in one batch.
//
// HandleFrame runs on the stream's read goroutine while Start and Stop come
// from the controlling caller; the mutex serializes them.
type Recorder struct {
	control ScreencastController
	encoder Encoder
	logger  *zap.Logger
	now     func() time.Time

	mu           sync.Mutex
	state        State
	lastAccepted time.Time
	dropped      int
	dropLog      rate.Sometimes
}

// NewRecorder creates an idle recorder. control may be nil when the stream
// is already running.
func NewRecorder(control ScreencastController, encoder Encoder, logger *zap.Logger) *Recorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Recorder{
		control: control,
		encoder: encoder,
		logger:  logger.Named("recorder"),
		now:     time.Now,
		state:   State{Options: DefaultOptions()},
		dropLog: rate.Sometimes{Interval: time.Second},
	}
}

// Start resets the frame buffer and begins accepting frames. A failed
// screencast_start is only a warning: the stream may already be running.
func (r *Recorder) Start(ctx context.Context, opts Options) error {
	opts = opts.withDefaults()
	if err := opts.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	r.state = State{
		ID:          uuid.NewString(),
		IsRecording: true,
		StartTime:   r.now(),
		Options:     opts,
	}
	r.lastAccepted = time.Time{}
	r.dropped = 0
	id := r.state.ID
	r.mu.Unlock()

	if r.control != nil {
		if err := r.control.StartScreencast(ctx); err != nil {
			r.logger.Warn("Could not start screencast via command, relying on existing stream.", zap.Error(err))
		}
	}
	r.logger.Info("Recording started.",
		zap.String("recording_id", id),
		zap.Int("frame_rate", opts.FrameRate))
	return nil
}

// HandleFrame is the stream.Handler. Frames are discarded while not
// recording, and frames arriving sooner than the frame interval after the
// last accepted one are dropped.
func (r *Recorder) HandleFrame(f stream.Frame) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.state.IsRecording {
		return
	}
	now := r.now()
	if !r.lastAccepted.IsZero() && now.Sub(r.lastAccepted) < r.state.Options.Interval() {
		r.dropped++
		r.dropLog.Do(func() {
			r.logger.Debug("Dropping frames above the target rate.", zap.Int("dropped", r.dropped))
		})
		return
	}

	frame, err := normalizeFrame(f.Data, r.state.Options)
	if err != nil {
		r.logger.Debug("Ignoring undecodable frame.", zap.Int64("session_id", f.SessionID), zap.Error(err))
		return
	}
	r.state.Frames = append(r.state.Frames, frame)
	r.lastAccepted = now
}

// Stop ends capture, issues a best-effort screencast_stop and exports the
// frames to output. The frame buffer is released either way.
func (r *Recorder) Stop(ctx context.Context, output string) (Result, error) {
	r.mu.Lock()
	r.state.IsRecording = false
	frames := r.state.Frames
	opts := r.state.Options
	id := r.state.ID
	elapsed := r.now().Sub(r.state.StartTime)
	dropped := r.dropped
	r.state.Frames = nil
	r.mu.Unlock()

	if r.control != nil {
		if err := r.control.StopScreencast(ctx); err != nil {
			r.logger.Debug("screencast_stop failed.", zap.Error(err))
		}
	}

	log := r.logger.With(zap.String("recording_id", id))
	log.Info("Recording stopped.",
		zap.Int("frames", len(frames)),
		zap.Int("dropped", dropped),
		zap.Duration("elapsed", elapsed))

	res, err := Export(ctx, r.encoder, frames, output, opts, log)
	if err != nil {
		return Result{}, err
	}
	res.ID = id
	log.Info("GIF saved.", zap.String("output", output))
	return res, nil
}

// State returns a copy of the current recording state.
func (r *Recorder) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state.clone()
}
