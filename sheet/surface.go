package sheet

import (
	"bytes"
	"errors"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/disintegration/imaging"
	lru "github.com/hashicorp/golang-lru/v2"
	_ "golang.org/x/image/bmp"
)

const cropCacheSize = 256

// Surface is a decoded sprite sheet. It is immutable once built, so workers
// may crop from it concurrently.
type Surface struct {
	path     string
	img      *image.NRGBA
	hasAlpha bool
	crops    *lru.Cache[Rect, *image.NRGBA]
}

// Decode reads and decodes the image at path.
func Decode(path string) (*Surface, error) {
	if !IsSupported(path) {
		return nil, &DecodeError{Path: path, Err: ErrUnsupportedFormat}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}
	s, err := DecodeBytes(data)
	if err != nil {
		var de *DecodeError
		if errors.As(err, &de) {
			de.Path = path
		}
		return nil, err
	}
	s.path = path
	return s, nil
}

func DecodeBytes(data []byte) (*Surface, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, &DecodeError{Err: err}
	}
	if img.Bounds().Empty() {
		return nil, &DecodeError{Err: ErrEmptyImage}
	}
	return NewSurface(img, ""), nil
}

// NewSurface wraps an already decoded image. The pixels are copied.
func NewSurface(img image.Image, path string) *Surface {
	cache, _ := lru.New[Rect, *image.NRGBA](cropCacheSize)
	return &Surface{
		path:     path,
		img:      imaging.Clone(img),
		hasAlpha: !isOpaque(img),
		crops:    cache,
	}
}

func isOpaque(img image.Image) bool {
	if o, ok := img.(interface{ Opaque() bool }); ok {
		return o.Opaque()
	}
	return false
}

func (s *Surface) Path() string { return s.path }

// HasAlpha reports whether the source may contain pixels that are not
// fully opaque. It relies on the decoded image's Opaque method, which the
// standard image types answer by scanning their pixels. Sources that do not
// implement Opaque are assumed to carry alpha, so HasAlpha can be true for
// an image whose pixels all happen to be opaque.
func (s *Surface) HasAlpha() bool { return s.hasAlpha }

// Image returns the backing pixels. Callers must not modify them.
func (s *Surface) Image() *image.NRGBA { return s.img }

func (s *Surface) Width() int  { return s.img.Bounds().Dx() }
func (s *Surface) Height() int { return s.img.Bounds().Dy() }

func (s *Surface) Bounds() Rect {
	return FromImage(s.img.Bounds())
}

// Crop returns the pixels of r clipped to the sheet. A region that does not
// overlap the sheet yields nil. The returned image is shared and read-only.
func (s *Surface) Crop(r Rect) *image.NRGBA {
	if s == nil || r.Empty() {
		return nil
	}
	clip := r.Image().Intersect(s.img.Bounds())
	if clip.Empty() {
		return nil
	}
	key := FromImage(clip)
	if img, ok := s.crops.Get(key); ok {
		return img
	}
	img := imaging.Crop(s.img, clip)
	s.crops.Add(key, img)
	return img
}
