// File: cmd/gif.go
package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/xkilldash9x/browser-viz/internal/recorder"
)

func newGIFCmd() *cobra.Command {
	gifCmd := &cobra.Command{
		Use:   "gif",
		Short: "Work with recorded GIFs",
	}
	gifCmd.AddCommand(newGIFInspectCmd())
	return gifCmd
}

func newGIFInspectCmd() *cobra.Command {
	var minFrames int
	var jsonOut bool

	inspectCmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "Print frame count, size, timing and loop count of a GIF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGIFInspect(args[0], minFrames, jsonOut, cmd.OutOrStdout())
		},
	}
	inspectCmd.Flags().IntVar(&minFrames, "min-frames", 0, "fail unless the GIF has at least this many frames")
	inspectCmd.Flags().BoolVar(&jsonOut, "json", false, "print JSON")
	return inspectCmd
}

func runGIFInspect(path string, minFrames int, jsonOut bool, out io.Writer) error {
	info, err := recorder.Inspect(path)
	if err != nil {
		return err
	}
	if jsonOut {
		if err := writeJSON(out, info); err != nil {
			return err
		}
	} else {
		fmt.Fprintf(out, "%s: %d frames, %dx%d, %s, loop=%d, %d bytes\n",
			info.Path, info.Frames, info.Width, info.Height, info.Duration, info.LoopCount, info.SizeBytes)
	}
	if info.Frames < minFrames {
		return fmt.Errorf("%s has %d frames, want at least %d", path, info.Frames, minFrames)
	}
	return nil
}
