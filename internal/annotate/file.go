// File: internal/annotate/file.go
package annotate

import (
	"bytes"
	"fmt"
	"image/jpeg"
	"os"
	"path/filepath"
	"strings"

	"github.com/xkilldash9x/browser-viz/internal/compositor"
	"github.com/xkilldash9x/browser-viz/internal/geometry"
)

func readImage(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read image %s: %w", path, err)
	}
	return data, nil
}

// AddHighlightFile is AddHighlight on the image stored at path.
func (a *Annotator) AddHighlightFile(path string, box geometry.Box, o HighlightOptions) ([]byte, error) {
	data, err := readImage(path)
	if err != nil {
		return nil, err
	}
	return a.AddHighlight(data, box, o)
}

// ZoomToAreaFile is ZoomToArea on the image stored at path.
func (a *Annotator) ZoomToAreaFile(path string, box geometry.Box, o ZoomOptions) ([]byte, error) {
	data, err := readImage(path)
	if err != nil {
		return nil, err
	}
	return a.ZoomToArea(data, box, o)
}

// HighlightAndZoomFile is HighlightAndZoom on the image stored at path.
func (a *Annotator) HighlightAndZoomFile(path string, box geometry.Box, h HighlightOptions, z ZoomOptions) ([]byte, error) {
	data, err := readImage(path)
	if err != nil {
		return nil, err
	}
	return a.HighlightAndZoom(data, box, h, z)
}

// AddArrowFile is AddArrow on the image stored at path.
func (a *Annotator) AddArrowFile(path string, box geometry.Box, o ArrowOptions) ([]byte, error) {
	data, err := readImage(path)
	if err != nil {
		return nil, err
	}
	return a.AddArrow(data, box, o)
}

// AddTextLabelFile is AddTextLabel on the image stored at path.
func (a *Annotator) AddTextLabelFile(path string, box geometry.Box, text string, o LabelOptions) ([]byte, error) {
	data, err := readImage(path)
	if err != nil {
		return nil, err
	}
	return a.AddTextLabel(data, box, text, o)
}

// AddAnnotationsFile is AddAnnotations on the image stored at path.
func (a *Annotator) AddAnnotationsFile(path string, box geometry.Box, bundle Bundle) ([]byte, error) {
	data, err := readImage(path)
	if err != nil {
		return nil, err
	}
	return a.AddAnnotations(data, box, bundle)
}

// SaveImage writes an encoded image to path. The output format follows the
// extension: .jpg/.jpeg re-encode as JPEG, anything else as PNG.
func SaveImage(data []byte, path string) error {
	img, err := compositor.Decode(data)
	if err != nil {
		return err
	}

	var out []byte
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
			return fmt.Errorf("failed to encode jpeg: %w", err)
		}
		out = buf.Bytes()
	default:
		if out, err = compositor.EncodePNG(img); err != nil {
			return err
		}
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("failed to write image %s: %w", path, err)
	}
	return nil
}
