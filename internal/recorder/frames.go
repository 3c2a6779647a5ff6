// File: internal/recorder/frames.go
package recorder

import (
	"fmt"

	"github.com/xkilldash9x/browser-viz/internal/compositor"
)

// normalizeFrame decodes a captured image, resizes it when the options fix
// a target size, and re-encodes it as PNG.
func normalizeFrame(data []byte, opts Options) ([]byte, error) {
	img, err := compositor.Decode(data)
	if err != nil {
		return nil, err
	}
	if opts.resizes() {
		b := img.Bounds()
		if b.Dx() != opts.Width || b.Dy() != opts.Height {
			if img, err = compositor.Resize(img, opts.Width, opts.Height); err != nil {
				return nil, fmt.Errorf("failed to resize frame: %w", err)
			}
		}
	}
	return compositor.EncodePNG(img)
}
