// File: internal/compositor/errors.go
package compositor

import (
	"errors"
	"fmt"
)

// ErrNoDimensions is the cause recorded when a decoded image has an empty
// bounds rectangle.
var ErrNoDimensions = errors.New("could not read image dimensions")

// ImageDecodeError is returned when a raster source cannot be decoded or has
// no readable width/height. It is never retried.
type ImageDecodeError struct {
	// Source names the input, a file path or "buffer".
	Source string
	Err    error
}

func (e *ImageDecodeError) Error() string {
	return fmt.Sprintf("failed to decode image from %s: %v", e.Source, e.Err)
}

func (e *ImageDecodeError) Unwrap() error {
	return e.Err
}
