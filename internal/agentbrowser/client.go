// File: internal/agentbrowser/client.go
package agentbrowser

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/xkilldash9x/browser-viz/internal/config"
	"github.com/xkilldash9x/browser-viz/internal/geometry"
	"github.com/xkilldash9x/browser-viz/internal/snapshot"
	"go.uber.org/zap"
)

// Allows mocking the subprocess in tests.
var execCommandContext = exec.CommandContext

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Client drives the agent-browser CLI for one session. Every call is a
// separate subprocess; nothing is retried.
type Client struct {
	binary  string
	session string
	timeout time.Duration
	logger  *zap.Logger
}

// New creates a client from configuration.
func New(cfg config.AgentBrowserConfig, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	session := cfg.Session
	if session == "" {
		session = "default"
	}
	return &Client{
		binary:  cfg.Binary,
		session: session,
		timeout: cfg.CommandTimeout,
		logger:  logger.Named("agent-browser").With(zap.String("session", session)),
	}
}

// Session returns the session identifier passed with every command.
func (c *Client) Session() string {
	return c.session
}

// run executes one command and returns its stdout. A nonzero exit becomes
// an *ExternalCommandError carrying stderr.
func (c *Client) run(ctx context.Context, args ...string) ([]byte, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	cmd := execCommandContext(ctx, c.binary, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	c.logger.Debug("Ran agent-browser command.",
		zap.Strings("args", args),
		zap.Duration("elapsed", time.Since(start)),
		zap.Error(err))
	if err != nil {
		cmdErr := &ExternalCommandError{
			Command: c.binary,
			Args:    args,
			Stderr:  stderr.String(),
			Err:     err,
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			cmdErr.ExitCode = exitErr.ExitCode()
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			cmdErr.Err = fmt.Errorf("%w: %v", ctxErr, err)
		}
		return nil, cmdErr
	}
	return stdout.Bytes(), nil
}

type boxResponse struct {
	Data *struct {
		Box *geometry.Box `json:"box"`
	} `json:"data"`
	X      *float64 `json:"x"`
	Y      *float64 `json:"y"`
	Width  *float64 `json:"width"`
	Height *float64 `json:"height"`
}

// parseBox accepts both `{"data":{"box":{...}}}` and a bare `{x,y,width,height}`.
func parseBox(out []byte) (geometry.Box, error) {
	var resp boxResponse
	if err := json.Unmarshal(bytes.TrimSpace(out), &resp); err != nil {
		return geometry.Box{}, fmt.Errorf("failed to parse bounding box JSON %q: %w", truncate(out, 200), err)
	}
	if resp.Data != nil && resp.Data.Box != nil {
		return *resp.Data.Box, nil
	}
	if resp.X != nil {
		b := geometry.Box{X: *resp.X}
		if resp.Y != nil {
			b.Y = *resp.Y
		}
		if resp.Width != nil {
			b.Width = *resp.Width
		}
		if resp.Height != nil {
			b.Height = *resp.Height
		}
		return b, nil
	}
	return geometry.Box{}, fmt.Errorf("could not parse bounding box from response %q", truncate(out, 200))
}

func truncate(b []byte, n int) string {
	s := strings.TrimSpace(string(b))
	if len(s) > n {
		return s[:n] + "..."
	}
	return s
}

// Box fetches the bounding box of a reference id such as "@e7".
func (c *Client) Box(ctx context.Context, ref string) (geometry.Box, error) {
	ref = snapshot.NormalizeRef(ref)
	out, err := c.run(ctx, "get", "box", ref, "-s", c.session, "--json")
	if err != nil {
		return geometry.Box{}, err
	}
	box, err := parseBox(out)
	if err != nil {
		return geometry.Box{}, fmt.Errorf("box for %s: %w", ref, err)
	}
	return box, nil
}

// Snapshot fetches the textual accessibility snapshot. interactive limits it
// to interactive elements.
func (c *Client) Snapshot(ctx context.Context, interactive bool) (string, error) {
	args := []string{"snapshot", "-s", c.session}
	if interactive {
		args = append(args, "-i")
	}
	out, err := c.run(ctx, args...)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// decodeBase64 decodes inline screenshot output, tolerating a data URL prefix.
func decodeBase64(out []byte) ([]byte, error) {
	s := strings.TrimSpace(string(out))
	if i := strings.Index(s, ";base64,"); i >= 0 && strings.HasPrefix(s, "data:") {
		s = s[i+len(";base64,"):]
	}
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64 screenshot: %w", err)
	}
	if len(data) == 0 {
		return nil, errors.New("screenshot output was empty")
	}
	return data, nil
}

// Screenshot captures the viewport inline and returns the encoded image.
func (c *Client) Screenshot(ctx context.Context) ([]byte, error) {
	out, err := c.run(ctx, "screenshot", "-s", c.session, "--base64")
	if err != nil {
		return nil, err
	}
	return decodeBase64(out)
}

// ScreenshotPNG captures the viewport inline, explicitly as PNG.
func (c *Client) ScreenshotPNG(ctx context.Context) ([]byte, error) {
	out, err := c.run(ctx, "screenshot", "-s", c.session, "--format", "png", "--base64")
	if err != nil {
		return nil, err
	}
	return decodeBase64(out)
}

// ScreenshotToFile has agent-browser write the screenshot to path and
// returns the file contents.
func (c *Client) ScreenshotToFile(ctx context.Context, path string) ([]byte, error) {
	if _, err := c.run(ctx, "screenshot", "-s", c.session, "-o", path); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read screenshot %s: %w", path, err)
	}
	return data, nil
}

// StartScreencast asks the browser to begin pushing frames to the stream.
func (c *Client) StartScreencast(ctx context.Context) error {
	_, err := c.run(ctx, "screencast_start", "-s", c.session)
	return err
}

// StopScreencast asks the browser to stop pushing frames.
func (c *Client) StopScreencast(ctx context.Context) error {
	_, err := c.run(ctx, "screencast_stop", "-s", c.session)
	return err
}

// AllRefBoxes parses the interactive snapshot and looks up every element's
// box, one command at a time. Elements whose lookup fails are skipped.
func (c *Client) AllRefBoxes(ctx context.Context) ([]snapshot.Element, error) {
	text, err := c.Snapshot(ctx, true)
	if err != nil {
		return nil, err
	}
	elements := snapshot.Parse(text)
	withBoxes := make([]snapshot.Element, 0, len(elements))
	for _, el := range elements {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		box, err := c.Box(ctx, el.Ref)
		if err != nil {
			c.logger.Debug("Skipping element without a bounding box.", zap.String("ref", el.Ref), zap.Error(err))
			continue
		}
		el.Box = &box
		withBoxes = append(withBoxes, el)
	}
	return withBoxes, nil
}
