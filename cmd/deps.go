// File: cmd/deps.go
package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/xkilldash9x/browser-viz/internal/agentbrowser"
	"github.com/xkilldash9x/browser-viz/internal/config"
	"github.com/xkilldash9x/browser-viz/internal/geometry"
	"github.com/xkilldash9x/browser-viz/internal/snapshot"
	"github.com/xkilldash9x/browser-viz/internal/stream"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// browserClient is the slice of agent-browser the commands use.
type browserClient interface {
	Box(ctx context.Context, ref string) (geometry.Box, error)
	Snapshot(ctx context.Context, interactive bool) (string, error)
	Screenshot(ctx context.Context) ([]byte, error)
	ScreenshotPNG(ctx context.Context) ([]byte, error)
	AllRefBoxes(ctx context.Context) ([]snapshot.Element, error)
	StartScreencast(ctx context.Context) error
	StopScreencast(ctx context.Context) error
}

// Factories are variables so tests can substitute fakes.
var (
	newBrowserClient = func(cfg config.AgentBrowserConfig, logger *zap.Logger) browserClient {
		return agentbrowser.New(cfg, logger)
	}

	newFrameSource = func(cfg *config.Config, logger *zap.Logger) (stream.Source, error) {
		switch strings.ToLower(cfg.Stream.Source) {
		case config.SourceWebSocket:
			return stream.NewWebSocketSource(cfg.Stream.URL, cfg.Stream.ReadLimit, logger), nil
		case config.SourceCDP:
			return stream.NewCDPSource(cfg.Stream.CDPURL, cfg.Recording.Width, cfg.Recording.Height, logger), nil
		default:
			return nil, fmt.Errorf("unknown stream source %q", cfg.Stream.Source)
		}
	}
)

// writeJSON prints v indented by two spaces.
func writeJSON(out io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	data = append(data, '\n')
	_, err = out.Write(data)
	return err
}
