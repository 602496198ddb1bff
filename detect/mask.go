package detect

import (
	"image"
)

const (
	background uint8 = 0
	foreground uint8 = 255
)

// Mask is a binary foreground map, one byte per pixel, row-major.
type Mask struct {
	W, H int
	Pix  []uint8
}

func (m *Mask) at(x, y int) bool {
	return m.Pix[y*m.W+x] != background
}

// AlphaMask marks every pixel whose alpha is above zero.
func AlphaMask(img *image.NRGBA) *Mask {
	b := img.Bounds()
	m := &Mask{W: b.Dx(), H: b.Dy(), Pix: make([]uint8, b.Dx()*b.Dy())}
	for y := 0; y < m.H; y++ {
		row := img.Pix[y*img.Stride:]
		for x := 0; x < m.W; x++ {
			if row[x*4+3] > 0 {
				m.Pix[y*m.W+x] = foreground
			}
		}
	}
	return m
}

// LumaMask converts to greyscale and marks every pixel brighter than threshold.
func LumaMask(img *image.NRGBA, threshold uint8) *Mask {
	b := img.Bounds()
	m := &Mask{W: b.Dx(), H: b.Dy(), Pix: make([]uint8, b.Dx()*b.Dy())}
	for y := 0; y < m.H; y++ {
		row := img.Pix[y*img.Stride:]
		for x := 0; x < m.W; x++ {
			i := x * 4
			if luma(row[i], row[i+1], row[i+2]) > threshold {
				m.Pix[y*m.W+x] = foreground
			}
		}
	}
	return m
}

// luma uses the same weights as color.GrayModel.
func luma(r, g, b uint8) uint8 {
	y := (19595*uint32(r) + 38470*uint32(g) + 7471*uint32(b) + 1<<15) >> 16
	return uint8(y)
}
