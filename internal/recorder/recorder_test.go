// File: internal/recorder/recorder_test.go
package recorder

import (
	"context"
	"errors"
	"image/color"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xkilldash9x/browser-viz/internal/compositor"
	"github.com/xkilldash9x/browser-viz/internal/stream"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"
)

var (
	red   = color.RGBA{255, 0, 0, 255}
	green = color.RGBA{0, 200, 0, 255}
	blue  = color.RGBA{0, 0, 255, 255}
)

func newTestRecorder(t *testing.T, control ScreencastController) (*Recorder, *captureEncoder, *fakeClock) {
	enc := &captureEncoder{}
	clock := newFakeClock()
	r := NewRecorder(control, enc, zaptest.NewLogger(t))
	r.now = clock.Now
	return r, enc, clock
}

func quietController() *MockScreencastController {
	m := new(MockScreencastController)
	m.On("StartScreencast", mock.Anything).Return(nil)
	m.On("StopScreencast", mock.Anything).Return(nil)
	return m
}

func TestRecorder_ZeroFramesNeverEncodes(t *testing.T) {
	control := quietController()
	r, enc, _ := newTestRecorder(t, control)

	require.NoError(t, r.Start(context.Background(), DefaultOptions()))
	_, err := r.Stop(context.Background(), "out.gif")

	assert.ErrorIs(t, err, ErrNoFrames)
	assert.Empty(t, enc.Jobs(), "the encoder must not be invoked without frames")
	control.AssertExpectations(t)
}

func TestRecorder_RateGate(t *testing.T) {
	r, enc, clock := newTestRecorder(t, quietController())
	require.NoError(t, r.Start(context.Background(), Options{FrameRate: 10}))

	push := func(c color.Color) {
		r.HandleFrame(stream.Frame{Data: testPNG(t, 32, 24, c)})
	}

	push(red) // t=0 accepted
	clock.Advance(50 * time.Millisecond)
	push(blue) // t=50 dropped
	clock.Advance(50 * time.Millisecond)
	push(green) // t=100 accepted
	clock.Advance(99 * time.Millisecond)
	push(blue) // t=199 dropped
	clock.Advance(101 * time.Millisecond)
	push(red) // t=300 accepted

	assert.Len(t, r.State().Frames, 3)

	res, err := r.Stop(context.Background(), "out.gif")
	require.NoError(t, err)
	assert.Equal(t, 3, res.Frames)
	assert.NotEmpty(t, res.ID)

	jobs := enc.Jobs()
	require.Len(t, jobs, 1)
	job := jobs[0]
	assert.Equal(t, 32, job.Width)
	assert.Equal(t, 24, job.Height)
	assert.Equal(t, 10, job.FrameRate)
	assert.Equal(t, DefaultQuality, job.Quality)
	assert.Equal(t, "out.gif", job.Output)

	// Capture order is preserved.
	wantColors := []color.RGBA{red, green, red}
	for i, frame := range job.Frames {
		img, err := compositor.Decode(frame)
		require.NoError(t, err)
		cr, cg, cb, _ := img.At(5, 5).RGBA()
		assert.Equal(t, wantColors[i], color.RGBA{uint8(cr >> 8), uint8(cg >> 8), uint8(cb >> 8), 255}, "frame %d", i)
	}
}

func TestRecorder_DiscardsFramesWhenIdle(t *testing.T) {
	r, _, clock := newTestRecorder(t, quietController())

	r.HandleFrame(stream.Frame{Data: testPNG(t, 8, 8, red)})
	assert.Empty(t, r.State().Frames, "frames before Start are discarded")

	require.NoError(t, r.Start(context.Background(), DefaultOptions()))
	r.HandleFrame(stream.Frame{Data: []byte("not an image")})
	assert.Empty(t, r.State().Frames, "undecodable frames are ignored")

	r.HandleFrame(stream.Frame{Data: testPNG(t, 8, 8, red)})
	_, err := r.Stop(context.Background(), "out.gif")
	require.NoError(t, err)

	clock.Advance(time.Second)
	r.HandleFrame(stream.Frame{Data: testPNG(t, 8, 8, red)})
	state := r.State()
	assert.False(t, state.IsRecording)
	assert.Empty(t, state.Frames, "frames after Stop are discarded")
}

func TestRecorder_ScreencastCommandFailuresAreTolerated(t *testing.T) {
	control := new(MockScreencastController)
	control.On("StartScreencast", mock.Anything).Return(errors.New("unknown command"))
	control.On("StopScreencast", mock.Anything).Return(errors.New("unknown command"))
	r, enc, _ := newTestRecorder(t, control)

	require.NoError(t, r.Start(context.Background(), DefaultOptions()))
	r.HandleFrame(stream.Frame{Data: testPNG(t, 8, 8, red)})
	_, err := r.Stop(context.Background(), "out.gif")

	require.NoError(t, err)
	assert.Len(t, enc.Jobs(), 1)
	control.AssertExpectations(t)
}

func TestRecorder_NilControllerAndResize(t *testing.T) {
	r, enc, _ := newTestRecorder(t, nil)
	require.NoError(t, r.Start(context.Background(), Options{FrameRate: 5, Quality: 20, Repeat: -1, Width: 16, Height: 12}))

	r.HandleFrame(stream.Frame{Data: testPNG(t, 64, 48, green)})
	frames := r.State().Frames
	require.Len(t, frames, 1)
	w, h, err := compositor.Dimensions(frames[0])
	require.NoError(t, err)
	assert.Equal(t, 16, w)
	assert.Equal(t, 12, h)

	_, err = r.Stop(context.Background(), "out.gif")
	require.NoError(t, err)
	job := enc.Jobs()[0]
	assert.Equal(t, 16, job.Width)
	assert.Equal(t, 12, job.Height)
	assert.Equal(t, -1, job.Repeat)
	assert.Equal(t, 20, job.Quality)
}

func TestRecorder_StartResetsState(t *testing.T) {
	r, _, clock := newTestRecorder(t, quietController())
	require.NoError(t, r.Start(context.Background(), DefaultOptions()))
	r.HandleFrame(stream.Frame{Data: testPNG(t, 8, 8, red)})
	first := r.State().ID

	clock.Advance(time.Second)
	require.NoError(t, r.Start(context.Background(), DefaultOptions()))
	state := r.State()
	assert.Empty(t, state.Frames)
	assert.True(t, state.IsRecording)
	assert.NotEqual(t, first, state.ID)
	assert.Equal(t, clock.Now(), state.StartTime)
}

func TestRecorder_StartRejectsInvalidOptions(t *testing.T) {
	r, _, _ := newTestRecorder(t, quietController())
	err := r.Start(context.Background(), Options{FrameRate: 10, Quality: 31})
	assert.ErrorContains(t, err, "quality")
	assert.False(t, r.State().IsRecording)
}

func TestRecorder_ConcurrentFramesAndStop(t *testing.T) {
	defer goleak.VerifyNone(t)

	enc := &captureEncoder{}
	r := NewRecorder(nil, enc, zaptest.NewLogger(t))
	require.NoError(t, r.Start(context.Background(), Options{FrameRate: 1000}))

	frame := testPNG(t, 4, 4, blue)
	var wg sync.WaitGroup
	stop := make(chan struct{})
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
				r.HandleFrame(stream.Frame{Data: frame})
				time.Sleep(2 * time.Millisecond)
			}
		}
	}()

	time.Sleep(50 * time.Millisecond)
	res, err := r.Stop(context.Background(), "out.gif")
	close(stop)
	wg.Wait()

	require.NoError(t, err)
	assert.Positive(t, res.Frames)
	assert.Empty(t, r.State().Frames)
}

func TestExport(t *testing.T) {
	frame := testPNG(t, 40, 30, red)

	t.Run("dimension overrides apply per axis", func(t *testing.T) {
		enc := &captureEncoder{}
		res, err := Export(context.Background(), enc, [][]byte{frame}, "a.gif", Options{Width: 100}, zaptest.NewLogger(t))
		require.NoError(t, err)
		assert.Equal(t, 100, res.Width)
		assert.Equal(t, 30, res.Height)
		assert.Equal(t, DefaultFrameRate, enc.Jobs()[0].FrameRate)
	})

	t.Run("unreadable first frame falls back to 800x600", func(t *testing.T) {
		enc := &captureEncoder{}
		res, err := Export(context.Background(), enc, [][]byte{[]byte("junk")}, "a.gif", DefaultOptions(), zaptest.NewLogger(t))
		require.NoError(t, err)
		assert.Equal(t, 800, res.Width)
		assert.Equal(t, 600, res.Height)
	})

	t.Run("encoder failure is wrapped", func(t *testing.T) {
		enc := &captureEncoder{err: errors.New("disk full")}
		_, err := Export(context.Background(), enc, [][]byte{frame}, "a.gif", DefaultOptions(), nil)
		assert.ErrorContains(t, err, "failed to encode GIF: disk full")
	})

	t.Run("no frames", func(t *testing.T) {
		enc := &captureEncoder{}
		_, err := Export(context.Background(), enc, nil, "a.gif", DefaultOptions(), nil)
		assert.ErrorIs(t, err, ErrNoFrames)
		assert.Empty(t, enc.Jobs())
	})
}

func TestOptions(t *testing.T) {
	assert.Equal(t, 100*time.Millisecond, DefaultOptions().Interval())
	assert.Equal(t, 200*time.Millisecond, Options{FrameRate: 5}.Interval())
	assert.Equal(t, 100*time.Millisecond, Options{}.Interval())

	tests := []struct {
		name    string
		opts    Options
		wantErr string
	}{
		{"defaults", DefaultOptions(), ""},
		{"zero frame rate", Options{Quality: 10}, "frame rate"},
		{"quality too low", Options{FrameRate: 10}, "quality"},
		{"repeat below -1", Options{FrameRate: 10, Quality: 10, Repeat: -2}, "repeat"},
		{"negative width", Options{FrameRate: 10, Quality: 10, Width: -1}, "dimensions"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tt.wantErr)
			}
		})
	}
}

func TestMaxColors(t *testing.T) {
	assert.Equal(t, 256, maxColors(1))
	assert.Equal(t, 256, maxColors(10))
	assert.Equal(t, 246, maxColors(11))
	assert.Equal(t, 156, maxColors(20))
	assert.Equal(t, 56, maxColors(30))
	assert.Equal(t, 56, maxColors(99))
}
