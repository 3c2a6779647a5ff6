// File: cmd/annotate.go
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xkilldash9x/browser-viz/internal/annotate"
	"github.com/xkilldash9x/browser-viz/internal/compositor"
	"github.com/xkilldash9x/browser-viz/internal/config"
	"github.com/xkilldash9x/browser-viz/internal/geometry"
	"github.com/xkilldash9x/browser-viz/internal/observability"
)

type annotateOptions struct {
	output       string
	highlightRef string
	highlightBox string
	zoomRef      string
	zoomBox      string
	arrow        string
	label        string
	labelPos     string
	specFile     string
	svgFile      string

	// Style overrides, nil when the flag was not given.
	color       string
	borderWidth *float64
	padding     *float64
	scale       *float64
	outWidth    *int
	outHeight   *int
}

func newAnnotateCmd() *cobra.Command {
	var opts annotateOptions
	var borderWidth, padding, scale float64
	var outWidth, outHeight int

	annotateCmd := &cobra.Command{
		Use:   "annotate <image>",
		Short: "Add highlights, arrows, labels or a zoom to a screenshot",
		Example: `  browser-viz annotate shot.png --highlight @e5 -o out.png
  browser-viz annotate shot.png --highlight-box 100,100,200,50 --arrow left --label "Click here"
  browser-viz annotate shot.png --zoom @e5 --scale 3
  browser-viz annotate shot.png --highlight-box 10,10,80,40 --spec bundle.yaml --svg overlay.svg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := getConfigFromContext(ctx)
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("border-width") {
				opts.borderWidth = &borderWidth
			}
			if flags.Changed("padding") {
				opts.padding = &padding
			}
			if flags.Changed("scale") {
				opts.scale = &scale
			}
			if flags.Changed("output-width") {
				opts.outWidth = &outWidth
			}
			if flags.Changed("output-height") {
				opts.outHeight = &outHeight
			}
			if !flags.Changed("color") {
				opts.color = ""
			}
			return runAnnotate(ctx, cfg, args[0], opts, cmd.OutOrStdout(), observability.GetLogger())
		},
	}

	f := annotateCmd.Flags()
	f.StringVarP(&opts.output, "output", "o", "annotated.png", "output path")
	f.StringVar(&opts.highlightRef, "highlight", "", "highlight element by ref (e.g. @e5)")
	f.StringVar(&opts.highlightBox, "highlight-box", "", "highlight by box (x,y,width,height)")
	f.StringVar(&opts.zoomRef, "zoom", "", "zoom to element by ref")
	f.StringVar(&opts.zoomBox, "zoom-box", "", "zoom to box (x,y,width,height)")
	f.StringVar(&opts.arrow, "arrow", "", "draw an arrow from this side: top, bottom, left, right, top-left, top-right, bottom-left, bottom-right")
	f.StringVar(&opts.label, "label", "", "draw a text label next to the element")
	f.StringVar(&opts.labelPos, "label-position", "", "label position (default from annotation.label.position)")
	f.StringVar(&opts.specFile, "spec", "", "YAML or JSON annotation bundle applied to the element")
	f.StringVar(&opts.svgFile, "svg", "", "also write the vector overlay as SVG to this path")
	f.StringVar(&opts.color, "color", "#FF0000", "highlight border color (name or hex)")
	f.Float64Var(&borderWidth, "border-width", 3, "highlight border width")
	f.Float64Var(&padding, "padding", 5, "padding around the element for highlight and zoom")
	f.Float64Var(&scale, "scale", 2, "zoom scale factor")
	f.IntVar(&outWidth, "output-width", 0, "explicit zoom output width")
	f.IntVar(&outHeight, "output-height", 0, "explicit zoom output height")
	annotateCmd.MarkFlagsMutuallyExclusive("highlight", "highlight-box")
	annotateCmd.MarkFlagsMutuallyExclusive("zoom", "zoom-box")

	return annotateCmd
}

// resolveTarget returns the box named by a ref or a literal box string.
func resolveTarget(ctx context.Context, client func() browserClient, ref, literal string) (*geometry.Box, error) {
	switch {
	case ref != "":
		box, err := client().Box(ctx, ref)
		if err != nil {
			return nil, err
		}
		return &box, nil
	case literal != "":
		box, err := geometry.ParseBox(literal)
		if err != nil {
			return nil, err
		}
		return &box, nil
	}
	return nil, nil
}

func runAnnotate(ctx context.Context, cfg *config.Config, imagePath string, opts annotateOptions, out io.Writer, logger *zap.Logger) error {
	var client browserClient
	lazyClient := func() browserClient {
		if client == nil {
			client = newBrowserClient(cfg.AgentBrowser, logger)
		}
		return client
	}

	hBox, err := resolveTarget(ctx, lazyClient, opts.highlightRef, opts.highlightBox)
	if err != nil {
		return fmt.Errorf("failed to resolve highlight target: %w", err)
	}
	zBox, err := resolveTarget(ctx, lazyClient, opts.zoomRef, opts.zoomBox)
	if err != nil {
		return fmt.Errorf("failed to resolve zoom target: %w", err)
	}
	if hBox == nil && zBox == nil {
		return errors.New("must specify --highlight, --zoom, --highlight-box, or --zoom-box")
	}
	target := hBox
	if target == nil {
		target = zBox
	}

	bundle, err := buildBundle(opts, hBox != nil)
	if err != nil {
		return err
	}
	zoom := annotate.ZoomOptions{
		Scale:        opts.scale,
		Padding:      opts.padding,
		OutputWidth:  opts.outWidth,
		OutputHeight: opts.outHeight,
	}

	a := annotate.New(cfg.Annotation, logger)
	var result []byte
	switch {
	case zBox != nil && bundle.Empty():
		result, err = a.ZoomToAreaFile(imagePath, *zBox, zoom)
	case zBox != nil && onlyHighlight(bundle) && *zBox == *target:
		result, err = a.HighlightAndZoomFile(imagePath, *target, *bundle.Highlight, zoom)
	case zBox != nil:
		result, err = a.AddAnnotationsFile(imagePath, *target, bundle)
		if err == nil {
			result, err = a.ZoomToArea(result, *zBox, zoom)
		}
	default:
		result, err = a.AddAnnotationsFile(imagePath, *target, bundle)
	}
	if err != nil {
		return err
	}

	if opts.svgFile != "" && !bundle.Empty() {
		if err := writeOverlaySVG(a, imagePath, *target, bundle, opts.svgFile); err != nil {
			return err
		}
		fmt.Fprintf(out, "Overlay saved to: %s\n", opts.svgFile)
	}

	if err := annotate.SaveImage(result, opts.output); err != nil {
		return err
	}
	fmt.Fprintf(out, "Saved to: %s\n", opts.output)
	return nil
}

// buildBundle merges the --spec file with the individual annotation flags,
// the flags taking precedence.
func buildBundle(opts annotateOptions, highlight bool) (annotate.Bundle, error) {
	var bundle annotate.Bundle
	if opts.specFile != "" {
		b, err := annotate.LoadBundle(opts.specFile)
		if err != nil {
			return annotate.Bundle{}, err
		}
		bundle = b
	}

	if highlight {
		h := annotate.HighlightOptions{}
		if bundle.Highlight != nil {
			h = *bundle.Highlight
		}
		if opts.color != "" {
			h.BorderColor = opts.color
		}
		if opts.borderWidth != nil {
			h.BorderWidth = opts.borderWidth
		}
		if opts.padding != nil {
			h.Padding = opts.padding
		}
		bundle.Highlight = &h
	}
	if opts.arrow != "" {
		a := annotate.ArrowOptions{}
		if bundle.Arrow != nil {
			a = *bundle.Arrow
		}
		a.Direction = opts.arrow
		bundle.Arrow = &a
	}
	if opts.label != "" {
		l := annotate.LabelSpec{}
		if bundle.Label != nil {
			l = *bundle.Label
		}
		l.Text = opts.label
		bundle.Label = &l
	}
	if bundle.Label != nil && opts.labelPos != "" {
		bundle.Label.Position = opts.labelPos
	}
	return bundle, nil
}

func onlyHighlight(b annotate.Bundle) bool {
	return b.Highlight != nil && b.Arrow == nil && b.Label == nil
}

func writeOverlaySVG(a *annotate.Annotator, imagePath string, box geometry.Box, bundle annotate.Bundle, path string) error {
	data, err := os.ReadFile(imagePath)
	if err != nil {
		return fmt.Errorf("failed to read image %s: %w", imagePath, err)
	}
	w, h, err := compositor.Dimensions(data)
	if err != nil {
		return err
	}
	overlay, err := a.Overlay(w, h, box, bundle)
	if err != nil {
		return err
	}
	svg, err := overlay.SVG()
	if err != nil {
		return fmt.Errorf("failed to render SVG overlay: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, svg, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
