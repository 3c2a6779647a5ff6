// File: internal/compositor/codec.go
package compositor

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"  // register GIF decoding
	_ "image/jpeg" // register JPEG decoding
	"image/png"
	"os"

	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // register WebP decoding
)

const bufferSource = "buffer"

// Decode decodes an encoded raster (PNG, JPEG, GIF or WebP). An undecodable
// buffer or one with empty bounds yields an *ImageDecodeError.
func Decode(data []byte) (image.Image, error) {
	return decode(data, bufferSource)
}

func decode(data []byte, source string) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, &ImageDecodeError{Source: source, Err: err}
	}
	if img.Bounds().Empty() {
		return nil, &ImageDecodeError{Source: source, Err: ErrNoDimensions}
	}
	return img, nil
}

// Load reads and decodes the image at path.
func Load(path string) (image.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read image %s: %w", path, err)
	}
	return decode(data, path)
}

// Dimensions reports the pixel size of an encoded image without decoding
// the pixel data.
func Dimensions(data []byte) (width, height int, err error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, &ImageDecodeError{Source: bufferSource, Err: err}
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return 0, 0, &ImageDecodeError{Source: bufferSource, Err: ErrNoDimensions}
	}
	return cfg.Width, cfg.Height, nil
}

// EncodePNG encodes img as PNG.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// Clone copies img into a new RGBA image anchored at the origin. The source
// is never modified by any compositor operation.
func Clone(img image.Image) *image.RGBA {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

// CropAndResize cuts region (already rounded to whole pixels) out of src and
// scales it to outW x outH with a Catmull-Rom filter.
func CropAndResize(src image.Image, region image.Rectangle, outW, outH int) (*image.RGBA, error) {
	b := src.Bounds()
	region = region.Add(b.Min).Intersect(b)
	if region.Empty() {
		return nil, fmt.Errorf("crop region %v does not intersect image bounds %v", region, b)
	}
	if outW <= 0 || outH <= 0 {
		return nil, fmt.Errorf("invalid output size %dx%d", outW, outH)
	}
	dst := image.NewRGBA(image.Rect(0, 0, outW, outH))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, region, xdraw.Src, nil)
	return dst, nil
}

// Resize scales the whole image to w x h.
func Resize(src image.Image, w, h int) (*image.RGBA, error) {
	b := src.Bounds()
	return CropAndResize(src, image.Rect(0, 0, b.Dx(), b.Dy()), w, h)
}
