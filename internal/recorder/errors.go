// File: internal/recorder/errors.go
package recorder

import "errors"

// ErrNoFrames is returned when a recording ends with nothing to encode.
var ErrNoFrames = errors.New("no frames recorded")
