// File: cmd/capture.go
package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xkilldash9x/browser-viz/internal/annotate"
	"github.com/xkilldash9x/browser-viz/internal/compositor"
	"github.com/xkilldash9x/browser-viz/internal/config"
	"github.com/xkilldash9x/browser-viz/internal/geometry"
	"github.com/xkilldash9x/browser-viz/internal/observability"
	"github.com/xkilldash9x/browser-viz/internal/snapshot"
)

type captureOptions struct {
	output     string
	highlight  string
	zoom       string
	scale      *float64
	autoFocus  bool
	lastAction string
}

func newCaptureCmd() *cobra.Command {
	var opts captureOptions
	var scale float64

	captureCmd := &cobra.Command{
		Use:   "capture",
		Short: "Take a screenshot and optionally annotate it",
		Example: `  browser-viz capture -o page.png
  browser-viz capture --highlight @e3 --zoom @e3
  browser-viz capture --auto-focus --last-action "click @e7"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := getConfigFromContext(ctx)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("scale") {
				opts.scale = &scale
			}
			logger := observability.GetLogger()
			client := newBrowserClient(cfg.AgentBrowser, logger)
			return runCapture(ctx, cfg, client, opts, cmd.OutOrStdout(), logger)
		},
	}

	f := captureCmd.Flags()
	f.StringVarP(&opts.output, "output", "o", "capture.png", "output path")
	f.StringVar(&opts.highlight, "highlight", "", "highlight element by ref")
	f.StringVar(&opts.zoom, "zoom", "", "zoom to element by ref, framed with context")
	f.Float64Var(&scale, "scale", 2, "zoom scale factor")
	f.BoolVar(&opts.autoFocus, "auto-focus", false, "pick the element to highlight and zoom from the page snapshot")
	f.StringVar(&opts.lastAction, "last-action", "", "last action performed, used by --auto-focus (e.g. \"click @e7\")")
	return captureCmd
}

func runCapture(ctx context.Context, cfg *config.Config, client browserClient, opts captureOptions, out io.Writer, logger *zap.Logger) error {
	shot, err := client.Screenshot(ctx)
	if err != nil {
		return fmt.Errorf("failed to take screenshot: %w", err)
	}

	highlight, zoom := opts.highlight, opts.zoom
	if opts.autoFocus && highlight == "" && zoom == "" {
		text, err := client.Snapshot(ctx, true)
		if err != nil {
			return fmt.Errorf("failed to fetch snapshot: %w", err)
		}
		if el, ok := snapshot.SuggestFocus(text, opts.lastAction); ok {
			fmt.Fprintf(out, "Auto-focused on: %s (%s: %s)\n", el.Ref, el.Role, el.Name)
			highlight, zoom = el.Ref, el.Ref
		}
	}

	ref := highlight
	if ref == "" {
		ref = zoom
	}
	if ref == "" {
		if err := annotate.SaveImage(shot, opts.output); err != nil {
			return err
		}
		fmt.Fprintf(out, "Screenshot saved to: %s\n", opts.output)
		return nil
	}

	box, err := client.Box(ctx, ref)
	if err != nil {
		return fmt.Errorf("failed to get box for %s: %w", ref, err)
	}

	a := annotate.New(cfg.Annotation, logger)
	result := shot
	if highlight != "" {
		if result, err = a.AddHighlight(result, box, annotate.HighlightOptions{}); err != nil {
			return err
		}
	}
	if zoom != "" {
		w, h, err := compositor.Dimensions(shot)
		if err != nil {
			return err
		}
		region := zoomRegion(cfg.Annotation.ROI, box, w, h)
		logger.Debug("Framed zoom region.", zap.Stringer("box", box), zap.Stringer("region", region))
		if result, err = a.ZoomToArea(result, region, annotate.ZoomOptions{Scale: opts.scale}); err != nil {
			return err
		}
	}

	if err := annotate.SaveImage(result, opts.output); err != nil {
		return err
	}
	fmt.Fprintf(out, "Annotated screenshot saved to: %s\n", opts.output)
	return nil
}

// zoomRegion frames box with the configured context. A zero minimum size
// falls back to the standard framing.
func zoomRegion(roi config.ROIConfig, box geometry.Box, w, h int) geometry.Box {
	if roi.MinSize <= 0 {
		return geometry.CalculateOptimalZoomRegion(box, float64(w), float64(h), roi.ContextPadding)
	}
	pad := roi.ContextPadding
	if pad <= 0 {
		pad = geometry.DefaultContextPadding
	}
	return geometry.ROIExpand(box, float64(w), float64(h), pad, roi.MinSize)
}
