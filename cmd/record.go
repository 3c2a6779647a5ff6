// File: cmd/record.go
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xkilldash9x/browser-viz/internal/config"
	"github.com/xkilldash9x/browser-viz/internal/observability"
	"github.com/xkilldash9x/browser-viz/internal/recorder"
)

type recordOptions struct {
	duration time.Duration
	output   string
	// fps overrides the configured frame rate when positive.
	fps int
}

func newRecordCmd() *cobra.Command {
	recordCmd := &cobra.Command{
		Use:   "record",
		Short: "Record the browser session as a GIF",
	}
	recordCmd.AddCommand(newRecordStartCmd())
	recordCmd.AddCommand(newRecordStreamCmd())
	return recordCmd
}

// addRecordingFlags registers the flags shared by both recording modes.
func addRecordingFlags(cmd *cobra.Command, opts *recordOptions, durationMS *int) {
	f := cmd.Flags()
	f.IntVarP(durationMS, "duration", "d", 5000, "recording duration in milliseconds")
	f.StringVarP(&opts.output, "output", "o", "recording.gif", "output GIF path")
	f.Int("quality", recorder.DefaultQuality, "palette quality 1-30, lower is better")
	f.Int("repeat", 0, "loop count: 0 loops forever, -1 plays once")
	f.Int("width", 0, "output width (default: source width)")
	f.Int("height", 0, "output height (default: source height)")
	f.String("encoder", config.EncoderFFmpeg, "GIF encoder: ffmpeg or native")
	bindFlag(f, "quality", "recording.quality")
	bindFlag(f, "repeat", "recording.repeat")
	bindFlag(f, "width", "recording.width")
	bindFlag(f, "height", "recording.height")
	bindFlag(f, "encoder", "recording.encoder")
}

func newRecordStartCmd() *cobra.Command {
	var opts recordOptions
	var durationMS int

	startCmd := &cobra.Command{
		Use:   "start",
		Short: "Record by polling screenshots for a fixed duration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := getConfigFromContext(ctx)
			if err != nil {
				return err
			}
			opts.duration = time.Duration(durationMS) * time.Millisecond
			logger := observability.GetLogger()
			client := newBrowserClient(cfg.AgentBrowser, logger)
			return runRecordPoll(ctx, cfg, client, opts, cmd.OutOrStdout(), logger)
		},
	}
	addRecordingFlags(startCmd, &opts, &durationMS)
	// Polling defaults to a lower rate than the push stream: every frame is
	// a full agent-browser round trip.
	startCmd.Flags().IntVar(&opts.fps, "fps", 5, "frame rate")
	return startCmd
}

func newRecordStreamCmd() *cobra.Command {
	var opts recordOptions
	var durationMS int

	streamCmd := &cobra.Command{
		Use:   "stream",
		Short: "Record pushed screencast frames for a fixed duration",
		Long: `Record frames pushed by the agent-browser screencast stream (stream.source=websocket)
or by Chrome's DevTools screencast (stream.source=cdp). An interrupt ends the
recording early and still writes the GIF.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := getConfigFromContext(ctx)
			if err != nil {
				return err
			}
			opts.duration = time.Duration(durationMS) * time.Millisecond
			logger := observability.GetLogger()
			client := newBrowserClient(cfg.AgentBrowser, logger)
			return runRecordStream(ctx, cfg, client, opts, cmd.OutOrStdout(), logger)
		},
	}
	addRecordingFlags(streamCmd, &opts, &durationMS)
	streamCmd.Flags().Int("fps", 10, "frame rate")
	bindFlag(streamCmd.Flags(), "fps", "recording.frame_rate")
	return streamCmd
}

func recordingOptions(cfg *config.Config, fps int) recorder.Options {
	o := recorder.OptionsFromConfig(cfg.Recording)
	if fps > 0 {
		o.FrameRate = fps
	}
	return o
}

func printResult(out io.Writer, res recorder.Result) {
	fmt.Fprintf(out, "GIF saved to: %s (%d frames, %dx%d)\n", res.Output, res.Frames, res.Width, res.Height)
}

func runRecordPoll(ctx context.Context, cfg *config.Config, client browserClient, opts recordOptions, out io.Writer, logger *zap.Logger) error {
	enc, err := recorder.NewEncoder(cfg.Recording, logger)
	if err != nil {
		return err
	}
	ro := recordingOptions(cfg, opts.fps)
	fmt.Fprintf(out, "Recording for %dms at %dfps...\n", opts.duration.Milliseconds(), ro.FrameRate)

	res, err := recorder.NewPoller(client, enc, logger).Record(ctx, opts.duration, opts.output, ro)
	if err != nil {
		if errors.Is(err, recorder.ErrNoFrames) {
			return errors.New("no frames captured")
		}
		return err
	}
	printResult(out, res)
	return nil
}

func runRecordStream(ctx context.Context, cfg *config.Config, client browserClient, opts recordOptions, out io.Writer, logger *zap.Logger) error {
	enc, err := recorder.NewEncoder(cfg.Recording, logger)
	if err != nil {
		return err
	}
	source, err := newFrameSource(cfg, logger)
	if err != nil {
		return err
	}

	rec := recorder.NewRecorder(client, enc, logger)
	ro := recordingOptions(cfg, opts.fps)

	// Recording state exists before the first frame can arrive.
	if err := rec.Start(ctx, ro); err != nil {
		return err
	}

	streamCtx, cancelStream := context.WithCancel(ctx)
	defer cancelStream()
	g, gctx := errgroup.WithContext(streamCtx)
	ended := make(chan struct{})
	g.Go(func() error {
		defer close(ended)
		return source.Run(gctx, rec.HandleFrame)
	})

	fmt.Fprintf(out, "Recording for %dms at %dfps...\n", opts.duration.Milliseconds(), ro.FrameRate)

	timer := time.NewTimer(opts.duration)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ended:
	case <-ctx.Done():
	}

	// Encode even after an interrupt; the frames are already in memory.
	res, stopErr := rec.Stop(context.WithoutCancel(ctx), opts.output)
	cancelStream()
	if err := g.Wait(); err != nil {
		return fmt.Errorf("screencast stream failed: %w", err)
	}
	if stopErr != nil {
		if errors.Is(stopErr, recorder.ErrNoFrames) {
			return errors.New("no frames recorded")
		}
		return stopErr
	}
	printResult(out, res)
	return nil
}
