package media

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/chai2010/webp"
	"golang.org/x/image/draw"
)

const (
	// MaxUploadBytes caps the raw upload before decoding.
	MaxUploadBytes = 10 * 1024 * 1024

	webpQuality = 85
)

// ProcessImage decodes an uploaded image, scales it down to fit maxWidth and
// re-encodes it as webp. Images narrower than maxWidth are re-encoded as-is;
// every stored asset ends up in the same format.
func ProcessImage(r io.Reader, maxWidth int) ([]byte, error) {
	src, _, err := image.Decode(io.LimitReader(r, MaxUploadBytes))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := src.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	if width > maxWidth {
		height = height * maxWidth / width
		width = maxWidth

		dst := image.NewRGBA(image.Rect(0, 0, width, height))
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)
		src = dst
	}

	var buf bytes.Buffer
	if err := webp.Encode(&buf, src, &webp.Options{Quality: webpQuality}); err != nil {
		return nil, fmt.Errorf("encode webp: %w", err)
	}

	return buf.Bytes(), nil
}
