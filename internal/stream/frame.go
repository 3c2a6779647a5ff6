// File: internal/stream/frame.go
package stream

import (
	"context"
	"encoding/base64"
	"time"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Metadata describes the viewport at capture time.
type Metadata struct {
	OffsetTop       float64 `json:"offsetTop"`
	PageScaleFactor float64 `json:"pageScaleFactor"`
	DeviceWidth     float64 `json:"deviceWidth"`
	DeviceHeight    float64 `json:"deviceHeight"`
	ScrollOffsetX   float64 `json:"scrollOffsetX"`
	ScrollOffsetY   float64 `json:"scrollOffsetY"`
	// Timestamp is seconds since the epoch, zero when the source omits it.
	Timestamp float64 `json:"timestamp,omitempty"`
}

// Frame is one pushed screencast image, already base64 decoded.
type Frame struct {
	Data       []byte
	Metadata   Metadata
	SessionID  int64
	ReceivedAt time.Time
}

// Handler consumes frames in arrival order. It is called from the source's
// read loop and must not retain Data beyond the call unless it copies it.
type Handler func(Frame)

// Source pushes frames to a handler until ctx is done or the peer goes away.
type Source interface {
	Run(ctx context.Context, handle Handler) error
}

const frameMessageType = "frame"

type envelope struct {
	Type      string   `json:"type"`
	Data      string   `json:"data"`
	Metadata  Metadata `json:"metadata"`
	SessionID int64    `json:"sessionId"`
}

// DecodeMessage extracts a frame from one stream message. It reports false
// for anything that is not a well-formed frame message.
func DecodeMessage(msg []byte) (Frame, bool) {
	var env envelope
	if err := json.Unmarshal(msg, &env); err != nil {
		return Frame{}, false
	}
	if env.Type != frameMessageType || env.Data == "" {
		return Frame{}, false
	}
	data, err := base64.StdEncoding.DecodeString(env.Data)
	if err != nil || len(data) == 0 {
		return Frame{}, false
	}
	return Frame{
		Data:       data,
		Metadata:   env.Metadata,
		SessionID:  env.SessionID,
		ReceivedAt: time.Now(),
	}, true
}
