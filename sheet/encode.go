package sheet

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
)

// Encode writes img as PNG or JPEG. quality only applies to JPEG; values
// outside 1..100 fall back to JPEGQuality.
func Encode(w io.Writer, img image.Image, f Format, quality int) error {
	if img == nil || img.Bounds().Empty() {
		return &EncodeError{Format: f, Err: ErrEmptyImage}
	}
	var err error
	switch f {
	case JPEG:
		if quality < 1 || quality > 100 {
			quality = JPEGQuality
		}
		err = imaging.Encode(w, img, imaging.JPEG, imaging.JPEGQuality(quality))
	case PNG:
		err = imaging.Encode(w, img, imaging.PNG)
	default:
		err = fmt.Errorf("%w: %s for a single frame", ErrUnsupportedFormat, f)
	}
	if err != nil {
		return &EncodeError{Format: f, Err: err}
	}
	return nil
}

func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, img, PNG, 0); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Save encodes img to path, choosing the format from the extension. It
// returns the number of bytes written.
func Save(path string, img image.Image, quality int) (int64, error) {
	f := FormatFromPath(path)
	if f == GIF {
		f = PNG
	}
	var buf bytes.Buffer
	if err := Encode(&buf, img, f, quality); err != nil {
		return 0, err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return 0, err
		}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return 0, err
	}
	return int64(buf.Len()), nil
}

// Thumbnail scales img to fit a size x size box keeping its aspect ratio.
func Thumbnail(img image.Image, size int) *image.NRGBA {
	if img == nil || img.Bounds().Empty() || size <= 0 {
		return nil
	}
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	filter := imaging.Box
	if w < size && h < size {
		// pixel art stays crisp when enlarged
		filter = imaging.NearestNeighbor
	}
	if w >= h {
		return imaging.Resize(img, size, 0, filter)
	}
	return imaging.Resize(img, 0, size, filter)
}
