// File: internal/recorder/state.go
package recorder

import "time"

// State is the mutable record owned by one Recorder.
type State struct {
	ID          string
	IsRecording bool
	StartTime   time.Time
	// Frames are PNG encoded, in capture order.
	Frames  [][]byte
	Options Options
}

// clone copies the frame slice header list so callers cannot append into
// the recorder's buffer.
func (s State) clone() State {
	frames := make([][]byte, len(s.Frames))
	copy(frames, s.Frames)
	s.Frames = frames
	return s
}
