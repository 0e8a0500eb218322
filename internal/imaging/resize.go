// Package imaging downsizes remote cover and page images for the proxy.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif" // Register GIF decoder
	"image/jpeg"
	_ "image/png" // Register PNG decoder

	"github.com/nfnt/resize"
)

// MaxWidth caps the width a caller may ask for.
const MaxWidth uint = 1600

// Quality is the JPEG quality of resized output.
const Quality = 75

// ErrUnsupported is returned for data no registered decoder understands.
var ErrUnsupported = errors.New("unsupported image format")

// ResizeToWidth scales the image down to width, keeping its aspect ratio, and
// re-encodes it as JPEG. Images already narrower than width are re-encoded
// at their own size; they are never upscaled.
func ResizeToWidth(data []byte, width uint) ([]byte, error) {
	if width == 0 {
		return nil, fmt.Errorf("invalid width %d", width)
	}
	if width > MaxWidth {
		width = MaxWidth
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return nil, ErrUnsupported
		}
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	if uint(img.Bounds().Dx()) > width {
		img = resize.Resize(width, 0, img, resize.Lanczos3)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: Quality}); err != nil {
		return nil, fmt.Errorf("failed to encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}
