// File: internal/stream/cdp.go
package stream

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/target"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

// CDPSource attaches to a running Chrome through its DevTools endpoint and
// listens to Page.screencastFrame events on the first page target.
type CDPSource struct {
	url       string
	maxWidth  int64
	maxHeight int64
	logger    *zap.Logger
}

// NewCDPSource creates a source for the DevTools endpoint at url, for
// example http://localhost:9222. maxWidth and maxHeight cap the frame size
// when positive.
func NewCDPSource(url string, maxWidth, maxHeight int, logger *zap.Logger) *CDPSource {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CDPSource{
		url:       url,
		maxWidth:  int64(maxWidth),
		maxHeight: int64(maxHeight),
		logger:    logger.Named("cdp_source").With(zap.String("url", url)),
	}
}

// Run starts the screencast and dispatches frames until ctx is done.
func (s *CDPSource) Run(ctx context.Context, handle Handler) error {
	allocCtx, cancelAlloc := chromedp.NewRemoteAllocator(ctx, s.url)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	targets, err := chromedp.Targets(browserCtx)
	if err != nil {
		return fmt.Errorf("failed to list targets at %s: %w", s.url, err)
	}
	targetID, err := firstPageTarget(targets)
	if err != nil {
		return err
	}

	tabCtx, cancelTab := chromedp.NewContext(browserCtx, chromedp.WithTargetID(targetID))
	defer cancelTab()

	chromedp.ListenTarget(tabCtx, func(ev any) {
		e, ok := ev.(*page.EventScreencastFrame)
		if !ok {
			return
		}
		// Chrome stops sending until the frame is acknowledged. The ack is a
		// CDP round trip and cannot run on the event goroutine.
		sessionID := e.SessionID
		go func() {
			if err := chromedp.Run(tabCtx, page.ScreencastFrameAck(sessionID)); err != nil && tabCtx.Err() == nil {
				s.logger.Debug("Failed to acknowledge screencast frame.", zap.Int64("session_id", sessionID), zap.Error(err))
			}
		}()

		frame, ok := frameFromEvent(e)
		if !ok {
			return
		}
		handle(frame)
	})

	start := page.StartScreencast().WithFormat(page.ScreencastFormatPng)
	if s.maxWidth > 0 {
		start = start.WithMaxWidth(s.maxWidth)
	}
	if s.maxHeight > 0 {
		start = start.WithMaxHeight(s.maxHeight)
	}
	if err := chromedp.Run(tabCtx, start); err != nil {
		return fmt.Errorf("failed to start screencast: %w", err)
	}
	s.logger.Info("Screencast started.", zap.String("target_id", string(targetID)))

	<-ctx.Done()

	// The tab context is still alive until the deferred cancels run.
	stopCtx, cancelStop := context.WithTimeout(tabCtx, 2*time.Second)
	defer cancelStop()
	if err := chromedp.Run(stopCtx, page.StopScreencast()); err != nil {
		s.logger.Debug("Failed to stop screencast.", zap.Error(err))
	}
	return nil
}

func firstPageTarget(targets []*target.Info) (target.ID, error) {
	for _, t := range targets {
		if t.Type == "page" {
			return t.TargetID, nil
		}
	}
	return "", errors.New("no page target available for screencast")
}

func frameFromEvent(e *page.EventScreencastFrame) (Frame, bool) {
	data, err := base64.StdEncoding.DecodeString(e.Data)
	if err != nil || len(data) == 0 {
		return Frame{}, false
	}
	frame := Frame{
		Data:       data,
		SessionID:  e.SessionID,
		ReceivedAt: time.Now(),
	}
	if m := e.Metadata; m != nil {
		frame.Metadata = Metadata{
			OffsetTop:       m.OffsetTop,
			PageScaleFactor: m.PageScaleFactor,
			DeviceWidth:     m.DeviceWidth,
			DeviceHeight:    m.DeviceHeight,
			ScrollOffsetX:   m.ScrollOffsetX,
			ScrollOffsetY:   m.ScrollOffsetY,
		}
		if m.Timestamp != nil {
			frame.Metadata.Timestamp = float64(m.Timestamp.Time().UnixNano()) / float64(time.Second)
		}
	}
	return frame, true
}
