// File: internal/stream/websocket.go
package stream

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	handshakeTimeout = 10 * time.Second
	// Screencast frames are full PNG screenshots, base64 encoded.
	defaultReadLimit = 32 << 20
)

// WebSocketSource reads the agent-browser screencast stream.
type WebSocketSource struct {
	url       string
	readLimit int64
	dialer    *websocket.Dialer
	logger    *zap.Logger
}

// NewWebSocketSource creates a source for the stream at url. A non-positive
// readLimit selects the default.
func NewWebSocketSource(url string, readLimit int64, logger *zap.Logger) *WebSocketSource {
	if logger == nil {
		logger = zap.NewNop()
	}
	if readLimit <= 0 {
		readLimit = defaultReadLimit
	}
	return &WebSocketSource{
		url:       url,
		readLimit: readLimit,
		dialer: &websocket.Dialer{
			HandshakeTimeout: handshakeTimeout,
			ReadBufferSize:   64 << 10,
		},
		logger: logger.Named("ws_source").With(zap.String("url", url)),
	}
}

// Run connects and dispatches every frame message to handle. Non-frame and
// malformed messages are skipped. It returns nil when ctx is done or the
// peer closes normally, and an error when the connection cannot be made.
func (s *WebSocketSource) Run(ctx context.Context, handle Handler) error {
	conn, _, err := s.dialer.DialContext(ctx, s.url, nil)
	if err != nil {
		return fmt.Errorf("failed to connect to screencast stream %s: %w", s.url, err)
	}
	s.logger.Info("Connected to screencast stream.")
	conn.SetReadLimit(s.readLimit)

	// Closing the connection unblocks ReadMessage once ctx is done.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(time.Second))
			conn.Close()
		case <-done:
			conn.Close()
		}
	}()

	var skipped int
	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil || websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Info("Screencast stream closed.", zap.Int("skipped_messages", skipped))
				return nil
			}
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			return fmt.Errorf("screencast stream read failed: %w", err)
		}

		frame, ok := DecodeMessage(message)
		if !ok {
			skipped++
			continue
		}
		handle(frame)
	}
}
