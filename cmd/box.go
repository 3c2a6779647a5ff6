// File: cmd/box.go
package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/xkilldash9x/browser-viz/internal/observability"
	"github.com/xkilldash9x/browser-viz/internal/snapshot"
)

func newBoxCmd() *cobra.Command {
	var jsonOut bool

	boxCmd := &cobra.Command{
		Use:   "box <ref>",
		Short: "Print the bounding box of an element",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := getConfigFromContext(ctx)
			if err != nil {
				return err
			}
			client := newBrowserClient(cfg.AgentBrowser, observability.GetLogger())
			return runBox(ctx, client, args[0], jsonOut, cmd.OutOrStdout())
		},
	}
	boxCmd.Flags().BoolVar(&jsonOut, "json", false, "print JSON")
	return boxCmd
}

func runBox(ctx context.Context, client browserClient, ref string, jsonOut bool, out io.Writer) error {
	box, err := client.Box(ctx, ref)
	if err != nil {
		return fmt.Errorf("failed to get box for %s: %w", ref, err)
	}
	if jsonOut {
		return writeJSON(out, box)
	}
	fmt.Fprintf(out, "%s: x=%g, y=%g, width=%g, height=%g\n",
		snapshot.NormalizeRef(ref), box.X, box.Y, box.Width, box.Height)
	return nil
}
