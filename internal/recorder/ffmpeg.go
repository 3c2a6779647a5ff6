// File: internal/recorder/ffmpeg.go
package recorder

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"

	"github.com/xkilldash9x/browser-viz/internal/agentbrowser"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Allows mocking the ffmpeg process in tests.
var execCommandContext = exec.CommandContext

// FFmpegEncoder pipes PNG frames into ffmpeg and lets its palettegen and
// paletteuse filters build the GIF.
type FFmpegEncoder struct {
	path   string
	logger *zap.Logger
}

func NewFFmpegEncoder(path string, logger *zap.Logger) *FFmpegEncoder {
	if path == "" {
		path = "ffmpeg"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FFmpegEncoder{path: path, logger: logger.Named("ffmpeg")}
}

// ffmpegArgs builds the command line for a job.
func ffmpegArgs(job Job) []string {
	rate := strconv.Itoa(job.FrameRate)
	filter := fmt.Sprintf("fps=%d,scale=%d:%d:flags=lanczos,split[s0][s1];[s0]palettegen=max_colors=%d[p];[s1][p]paletteuse",
		job.FrameRate, job.Width, job.Height, maxColors(job.Quality))
	return []string{
		"-y",
		"-f", "image2pipe",
		"-framerate", rate,
		"-i", "-",
		"-vf", filter,
		"-loop", strconv.Itoa(job.Repeat),
		job.Output,
	}
}

// Encode writes every frame to ffmpeg's stdin in order and waits for it to
// exit. A nonzero exit is an *agentbrowser.ExternalCommandError.
func (e *FFmpegEncoder) Encode(ctx context.Context, job Job) error {
	if len(job.Frames) == 0 {
		return ErrNoFrames
	}
	if dir := filepath.Dir(job.Output); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	args := ffmpegArgs(job)
	e.logger.Debug("Starting ffmpeg.", zap.Strings("args", args))

	pr, pw := io.Pipe()
	cmd := execCommandContext(ctx, e.path, args...)
	cmd.Stdin = pr
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	g := new(errgroup.Group)
	g.Go(func() error {
		for _, frame := range job.Frames {
			if _, err := pw.Write(frame); err != nil {
				// The process side reports the real failure.
				if errors.Is(err, io.ErrClosedPipe) {
					return nil
				}
				return fmt.Errorf("failed to write frame to ffmpeg: %w", err)
			}
		}
		return pw.Close()
	})
	g.Go(func() error {
		err := cmd.Run()
		// Unblock the writer if ffmpeg exited before consuming everything.
		pr.CloseWithError(io.ErrClosedPipe)
		if err == nil {
			return nil
		}
		cmdErr := &agentbrowser.ExternalCommandError{
			Command: e.path,
			Args:    args,
			Stderr:  lastLines(stderr.String(), 10),
			Err:     err,
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			cmdErr.ExitCode = exitErr.ExitCode()
		} else if errors.Is(err, exec.ErrNotFound) {
			cmdErr.Err = fmt.Errorf("%w (make sure ffmpeg is installed or set recording.encoder to native)", err)
		}
		return cmdErr
	})
	if err := g.Wait(); err != nil {
		return err
	}

	e.logger.Debug("ffmpeg finished.", zap.String("output", job.Output), zap.Int("frames", len(job.Frames)))
	return nil
}

// lastLines keeps the tail of ffmpeg's banner-heavy stderr.
func lastLines(s string, n int) string {
	lines := bytes.Split(bytes.TrimSpace([]byte(s)), []byte("\n"))
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return string(bytes.Join(lines, []byte("\n")))
}
