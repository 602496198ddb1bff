package sheet

import (
	"fmt"
	"image"
	"image/color"
	"image/color/palette"
	"image/gif"
	"io"
	"time"

	xdraw "golang.org/x/image/draw"
)

// AnimationEncoder serializes frames as a looping animation.
type AnimationEncoder func(w io.Writer, frames []image.Image, delay time.Duration) error

// gifPalette reserves index 0 for transparency.
var gifPalette = func() color.Palette {
	p := make(color.Palette, 0, 256)
	p = append(p, color.Transparent)
	p = append(p, palette.Plan9[:255]...)
	return p
}()

// EncodeGIF writes frames as an infinitely looping GIF. Every frame is
// placed at the top-left of a canvas sized to the largest frame.
func EncodeGIF(w io.Writer, frames []image.Image, delay time.Duration) error {
	if len(frames) == 0 {
		return &EncodeError{Format: GIF, Err: ErrEmptyImage}
	}
	canvas := image.Rectangle{}
	for _, f := range frames {
		if f == nil {
			continue
		}
		b := f.Bounds()
		if b.Dx() > canvas.Max.X {
			canvas.Max.X = b.Dx()
		}
		if b.Dy() > canvas.Max.Y {
			canvas.Max.Y = b.Dy()
		}
	}
	if canvas.Empty() {
		return &EncodeError{Format: GIF, Err: ErrEmptyImage}
	}

	centis := int(delay / (10 * time.Millisecond))
	if centis < 1 {
		centis = 1
	}

	anim := &gif.GIF{
		LoopCount: 0,
		Config: image.Config{
			ColorModel: gifPalette,
			Width:      canvas.Dx(),
			Height:     canvas.Dy(),
		},
	}
	for _, f := range frames {
		if f == nil || f.Bounds().Empty() {
			continue
		}
		pm := image.NewPaletted(canvas, gifPalette)
		b := f.Bounds()
		xdraw.FloydSteinberg.Draw(pm, image.Rect(0, 0, b.Dx(), b.Dy()), f, b.Min)
		anim.Image = append(anim.Image, pm)
		anim.Delay = append(anim.Delay, centis)
		anim.Disposal = append(anim.Disposal, gif.DisposalBackground)
	}
	if err := gif.EncodeAll(w, anim); err != nil {
		return &EncodeError{Format: GIF, Err: fmt.Errorf("frames=%d: %w", len(anim.Image), err)}
	}
	return nil
}
