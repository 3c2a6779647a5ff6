// File: cmd/refs.go
package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/xkilldash9x/browser-viz/internal/observability"
	"github.com/xkilldash9x/browser-viz/internal/snapshot"
)

type refsOptions struct {
	boxes   bool
	jsonOut bool
}

func newRefsCmd() *cobra.Command {
	var opts refsOptions

	refsCmd := &cobra.Command{
		Use:   "refs",
		Short: "List the interactive elements of the current page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := getConfigFromContext(ctx)
			if err != nil {
				return err
			}
			client := newBrowserClient(cfg.AgentBrowser, observability.GetLogger())
			return runRefs(ctx, client, opts, cmd.OutOrStdout())
		},
	}
	refsCmd.Flags().BoolVar(&opts.boxes, "boxes", false, "also fetch the bounding box of every element")
	refsCmd.Flags().BoolVar(&opts.jsonOut, "json", false, "print JSON")
	return refsCmd
}

func runRefs(ctx context.Context, client browserClient, opts refsOptions, out io.Writer) error {
	var elements []snapshot.Element
	if opts.boxes {
		els, err := client.AllRefBoxes(ctx)
		if err != nil {
			return fmt.Errorf("failed to fetch element boxes: %w", err)
		}
		elements = els
	} else {
		text, err := client.Snapshot(ctx, true)
		if err != nil {
			return fmt.Errorf("failed to fetch snapshot: %w", err)
		}
		elements = snapshot.Parse(text)
	}

	if opts.jsonOut {
		if elements == nil {
			elements = []snapshot.Element{}
		}
		return writeJSON(out, elements)
	}
	if len(elements) == 0 {
		fmt.Fprintln(out, "No interactive elements found")
		return nil
	}
	fmt.Fprintln(out, "Interactive elements:")
	for _, el := range elements {
		line := fmt.Sprintf("  %s - %s: %q", el.Ref, el.Role, el.Name)
		if el.Box != nil {
			line += " " + el.Box.String()
		}
		fmt.Fprintln(out, line)
	}
	return nil
}
