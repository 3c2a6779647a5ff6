// File: cmd/helpers_test.go
package cmd

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xkilldash9x/browser-viz/internal/config"
	"github.com/xkilldash9x/browser-viz/internal/geometry"
	"github.com/xkilldash9x/browser-viz/internal/snapshot"
	"github.com/xkilldash9x/browser-viz/internal/stream"
)

// MockBrowserClient is a testify mock of browserClient.
type MockBrowserClient struct {
	mock.Mock
}

func (m *MockBrowserClient) Box(ctx context.Context, ref string) (geometry.Box, error) {
	args := m.Called(ctx, ref)
	return args.Get(0).(geometry.Box), args.Error(1)
}

func (m *MockBrowserClient) Snapshot(ctx context.Context, interactive bool) (string, error) {
	args := m.Called(ctx, interactive)
	return args.String(0), args.Error(1)
}

func (m *MockBrowserClient) Screenshot(ctx context.Context) ([]byte, error) {
	args := m.Called(ctx)
	if b := args.Get(0); b != nil {
		return b.([]byte), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockBrowserClient) ScreenshotPNG(ctx context.Context) ([]byte, error) {
	args := m.Called(ctx)
	if b := args.Get(0); b != nil {
		return b.([]byte), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockBrowserClient) AllRefBoxes(ctx context.Context) ([]snapshot.Element, error) {
	args := m.Called(ctx)
	if els := args.Get(0); els != nil {
		return els.([]snapshot.Element), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockBrowserClient) StartScreencast(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockBrowserClient) StopScreencast(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// fakeSource replays frames then blocks until cancelled, or fails with err.
type fakeSource struct {
	frames []stream.Frame
	err    error
}

func (s *fakeSource) Run(ctx context.Context, handle stream.Handler) error {
	if s.err != nil {
		return s.err
	}
	for _, f := range s.frames {
		handle(f)
	}
	<-ctx.Done()
	return nil
}

// testPNG encodes a solid w x h image.
func testPNG(t testing.TB, w, h int, c color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// useClient installs client as the factory result for the duration of the
// test and records the configuration each command was given.
func useClient(t *testing.T, client browserClient) *config.AgentBrowserConfig {
	t.Helper()
	var seen config.AgentBrowserConfig
	orig := newBrowserClient
	newBrowserClient = func(cfg config.AgentBrowserConfig, _ *zap.Logger) browserClient {
		seen = cfg
		return client
	}
	t.Cleanup(func() { newBrowserClient = orig })
	return &seen
}

func useSource(t *testing.T, src stream.Source) {
	t.Helper()
	orig := newFrameSource
	newFrameSource = func(*config.Config, *zap.Logger) (stream.Source, error) {
		return src, nil
	}
	t.Cleanup(func() { newFrameSource = orig })
}

// executeCommand runs a fresh command tree in a scratch working directory,
// so no config.yaml is picked up by accident.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Chdir(t.TempDir())
	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}
