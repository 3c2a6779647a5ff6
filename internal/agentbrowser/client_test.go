// File: internal/agentbrowser/client_test.go
package agentbrowser

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xkilldash9x/browser-viz/internal/config"
	"github.com/xkilldash9x/browser-viz/internal/geometry"
	"go.uber.org/zap/zaptest"
)

const helperSnapshot = `- textbox "Email" [ref=e1]
- button "Sign in" [ref=e2]
- link "Forgot?" [ref=e3]`

// fakeAgentBrowser points execCommandContext at this test binary, which
// plays agent-browser in TestHelperProcess.
func fakeAgentBrowser(t *testing.T, env ...string) {
	t.Helper()
	testExecutable := os.Args[0]
	execCommandContext = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		cs := append([]string{"-test.run=TestHelperProcess", "--"}, args...)
		cmd := exec.CommandContext(ctx, testExecutable, cs...)
		cmd.Env = append(os.Environ(), "GO_WANT_HELPER_PROCESS=1")
		cmd.Env = append(cmd.Env, env...)
		return cmd
	}
	t.Cleanup(func() { execCommandContext = exec.CommandContext })
}

func newTestClient(t *testing.T) *Client {
	return New(config.AgentBrowserConfig{
		Binary:         "agent-browser",
		Session:        "test-session",
		CommandTimeout: 10 * time.Second,
	}, zaptest.NewLogger(t))
}

func tinyPNG() []byte {
	var buf bytes.Buffer
	_ = png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 3)))
	return buf.Bytes()
}

func TestBox(t *testing.T) {
	t.Run("nested response", func(t *testing.T) {
		fakeAgentBrowser(t, "EXPECTED_ARGS=get|box|@e2|-s|test-session|--json")
		box, err := newTestClient(t).Box(context.Background(), "e2")
		require.NoError(t, err)
		assert.Equal(t, geometry.Box{X: 20, Y: 40, Width: 120, Height: 32}, box)
	})

	t.Run("flat response", func(t *testing.T) {
		fakeAgentBrowser(t, "HELPER_FLAT_BOX=1")
		box, err := newTestClient(t).Box(context.Background(), "@e1")
		require.NoError(t, err)
		assert.Equal(t, geometry.Box{X: 10, Y: 40, Width: 120, Height: 32}, box)
	})

	t.Run("unparseable response", func(t *testing.T) {
		fakeAgentBrowser(t, "HELPER_BOX_BODY={\"success\":true}")
		_, err := newTestClient(t).Box(context.Background(), "@e1")
		assert.ErrorContains(t, err, "could not parse bounding box")
	})

	t.Run("command failure surfaces stderr", func(t *testing.T) {
		fakeAgentBrowser(t, "HELPER_FAIL_REFS=@e9")
		_, err := newTestClient(t).Box(context.Background(), "@e9")
		require.Error(t, err)

		var cmdErr *ExternalCommandError
		require.True(t, errors.As(err, &cmdErr))
		assert.Equal(t, 1, cmdErr.ExitCode)
		assert.Contains(t, cmdErr.Stderr, "Element not found: @e9")
		assert.Contains(t, err.Error(), "agent-browser get failed: Element not found: @e9")
	})
}

func TestSnapshot(t *testing.T) {
	t.Run("interactive", func(t *testing.T) {
		fakeAgentBrowser(t, "EXPECTED_ARGS=snapshot|-s|test-session|-i")
		text, err := newTestClient(t).Snapshot(context.Background(), true)
		require.NoError(t, err)
		assert.Contains(t, text, `button "Sign in" [ref=e2]`)
	})

	t.Run("full", func(t *testing.T) {
		fakeAgentBrowser(t, "EXPECTED_ARGS=snapshot|-s|test-session")
		_, err := newTestClient(t).Snapshot(context.Background(), false)
		require.NoError(t, err)
	})
}

func TestScreenshot(t *testing.T) {
	t.Run("inline base64", func(t *testing.T) {
		fakeAgentBrowser(t, "EXPECTED_ARGS=screenshot|-s|test-session|--base64")
		data, err := newTestClient(t).Screenshot(context.Background())
		require.NoError(t, err)
		assert.Equal(t, tinyPNG(), data)
	})

	t.Run("png for polling", func(t *testing.T) {
		fakeAgentBrowser(t, "EXPECTED_ARGS=screenshot|-s|test-session|--format|png|--base64")
		data, err := newTestClient(t).ScreenshotPNG(context.Background())
		require.NoError(t, err)
		assert.Equal(t, tinyPNG(), data)
	})

	t.Run("written to a path", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "shot.png")
		fakeAgentBrowser(t, "EXPECTED_ARGS=screenshot|-s|test-session|-o|"+path)
		data, err := newTestClient(t).ScreenshotToFile(context.Background(), path)
		require.NoError(t, err)
		assert.Equal(t, tinyPNG(), data)
	})

	t.Run("garbage output", func(t *testing.T) {
		fakeAgentBrowser(t, "HELPER_SCREENSHOT_BODY=%%%not-base64%%%")
		_, err := newTestClient(t).Screenshot(context.Background())
		assert.ErrorContains(t, err, "failed to decode base64 screenshot")
	})
}

func TestScreencastCommands(t *testing.T) {
	fakeAgentBrowser(t)
	c := newTestClient(t)
	assert.NoError(t, c.StartScreencast(context.Background()))
	assert.NoError(t, c.StopScreencast(context.Background()))

	fakeAgentBrowser(t, "HELPER_EXIT_CODE=2")
	err := c.StartScreencast(context.Background())
	var cmdErr *ExternalCommandError
	require.ErrorAs(t, err, &cmdErr)
	assert.Equal(t, 2, cmdErr.ExitCode)
}

func TestAllRefBoxes(t *testing.T) {
	fakeAgentBrowser(t, "HELPER_FAIL_REFS=@e2")
	elements, err := newTestClient(t).AllRefBoxes(context.Background())
	require.NoError(t, err)

	require.Len(t, elements, 2, "the element whose lookup fails is skipped")
	assert.Equal(t, "@e1", elements[0].Ref)
	assert.Equal(t, "textbox", elements[0].Role)
	require.NotNil(t, elements[0].Box)
	assert.Equal(t, 10.0, elements[0].Box.X)
	assert.Equal(t, "@e3", elements[1].Ref)
	assert.Equal(t, 30.0, elements[1].Box.X)
}

func TestCommandTimeout(t *testing.T) {
	fakeAgentBrowser(t, "HELPER_HANG=1")
	c := New(config.AgentBrowserConfig{Binary: "agent-browser", CommandTimeout: 100 * time.Millisecond}, zaptest.NewLogger(t))

	start := time.Now()
	_, err := c.Snapshot(context.Background(), true)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 3*time.Second)
}

func TestExternalCommandErrorMessage(t *testing.T) {
	assert.Equal(t, "ffmpeg -y failed with exit code 3",
		(&ExternalCommandError{Command: "ffmpeg", Args: []string{"-y"}, ExitCode: 3}).Error())
	assert.Equal(t, "agent-browser failed: exec: not found",
		(&ExternalCommandError{Command: "agent-browser", Err: errors.New("exec: not found")}).Error())
}

// TestHelperProcess plays agent-browser for the tests above.
func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}

	if os.Getenv("HELPER_HANG") == "1" {
		time.Sleep(10 * time.Second)
		os.Exit(0)
	}

	args := os.Args
	for len(args) > 0 {
		if args[0] == "--" {
			args = args[1:]
			break
		}
		args = args[1:]
	}

	if expected := os.Getenv("EXPECTED_ARGS"); expected != "" {
		if got := strings.Join(args, "|"); got != expected {
			fmt.Fprintf(os.Stderr, "Argument mismatch: got %q, want %q\n", got, expected)
			os.Exit(1)
		}
	}

	var exitCode int
	fmt.Sscanf(os.Getenv("HELPER_EXIT_CODE"), "%d", &exitCode)
	if exitCode != 0 {
		fmt.Fprintf(os.Stderr, "Simulating command failure with exit code %d\n", exitCode)
		os.Exit(exitCode)
	}

	if len(args) == 0 {
		os.Exit(0)
	}

	switch args[0] {
	case "snapshot":
		fmt.Print(helperSnapshot)
	case "get":
		ref := args[2]
		for _, failing := range strings.Split(os.Getenv("HELPER_FAIL_REFS"), ",") {
			if failing != "" && failing == ref {
				fmt.Fprintf(os.Stderr, "Element not found: %s\n", ref)
				os.Exit(1)
			}
		}
		if body := os.Getenv("HELPER_BOX_BODY"); body != "" {
			fmt.Print(body)
			break
		}
		var n int
		fmt.Sscanf(strings.TrimPrefix(ref, "@e"), "%d", &n)
		if os.Getenv("HELPER_FLAT_BOX") == "1" {
			fmt.Printf(`{"x":%d,"y":40,"width":120,"height":32}`, n*10)
		} else {
			fmt.Printf(`{"success":true,"data":{"box":{"x":%d,"y":40,"width":120,"height":32}}}`, n*10)
		}
	case "screenshot":
		if body := os.Getenv("HELPER_SCREENSHOT_BODY"); body != "" {
			fmt.Print(body)
			break
		}
		for i, a := range args {
			if a == "-o" && i+1 < len(args) {
				if err := os.WriteFile(args[i+1], tinyPNG(), 0o644); err != nil {
					fmt.Fprintln(os.Stderr, err)
					os.Exit(1)
				}
				os.Exit(0)
			}
		}
		fmt.Println(base64.StdEncoding.EncodeToString(tinyPNG()))
	case "screencast_start", "screencast_stop":
		fmt.Println(`{"success":true}`)
	}
	os.Exit(0)
}
