package main

import (
	"image"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/milk9111/spriteslicer/selection"
	"github.com/milk9111/spriteslicer/session"
	"github.com/milk9111/spriteslicer/sheet"
)

const (
	minZoom = 0.25
	maxZoom = 8.0

	// grid overlays with more visible cells than this are skipped
	maxOverlayCells = 4096
)

var (
	gridColor      = color.RGBA{255, 255, 255, 60}
	detectionColor = color.RGBA{0, 220, 0, 200}
	singleColor    = color.RGBA{255, 220, 0, 255}
	multiColor     = color.RGBA{0, 200, 255, 255}
)

// Canvas shows the sheet with pan and zoom and maps screen points back to
// sheet pixels.
type Canvas struct {
	Bounds image.Rectangle

	zoom       float64
	offX, offY float64

	src *sheet.Surface
	img *ebiten.Image

	panning      bool
	lastX, lastY int
}

func NewCanvas() *Canvas { return &Canvas{zoom: 1} }

// SetSheet uploads s when it differs from the sheet already shown and fits it
// into the viewport.
func (c *Canvas) SetSheet(s *sheet.Surface) {
	if s == c.src {
		return
	}
	c.src = s
	if s == nil {
		c.img = nil
		return
	}
	c.img = ebiten.NewImageFromImage(s.Image())
	c.Fit()
}

func (c *Canvas) Fit() {
	if c.src == nil || c.Bounds.Empty() {
		c.zoom, c.offX, c.offY = 1, 0, 0
		return
	}
	zx := float64(c.Bounds.Dx()) / float64(c.src.Width())
	zy := float64(c.Bounds.Dy()) / float64(c.src.Height())
	c.zoom = clampZoom(math.Min(zx, zy) * 0.95)
	c.offX = (float64(c.Bounds.Dx()) - float64(c.src.Width())*c.zoom) / 2
	c.offY = (float64(c.Bounds.Dy()) - float64(c.src.Height())*c.zoom) / 2
}

func clampZoom(z float64) float64 {
	return math.Max(minZoom, math.Min(maxZoom, z))
}

func (c *Canvas) Contains(sx, sy int) bool {
	return image.Pt(sx, sy).In(c.Bounds)
}

// ToSheet converts a screen point to sheet pixel coordinates.
func (c *Canvas) ToSheet(sx, sy int) (int, int) {
	x := (float64(sx-c.Bounds.Min.X) - c.offX) / c.zoom
	y := (float64(sy-c.Bounds.Min.Y) - c.offY) / c.zoom
	return int(math.Floor(x)), int(math.Floor(y))
}

// view is the part of the sheet currently on screen.
func (c *Canvas) view() sheet.Rect {
	x0, y0 := c.ToSheet(c.Bounds.Min.X, c.Bounds.Min.Y)
	x1, y1 := c.ToSheet(c.Bounds.Max.X, c.Bounds.Max.Y)
	return sheet.Rect{X: x0, Y: y0, W: x1 - x0 + 1, H: y1 - y0 + 1}
}

func (c *Canvas) toScreen(r sheet.Rect) (x, y, w, h float32) {
	x = float32(float64(c.Bounds.Min.X) + c.offX + float64(r.X)*c.zoom)
	y = float32(float64(c.Bounds.Min.Y) + c.offY + float64(r.Y)*c.zoom)
	return x, y, float32(float64(r.W) * c.zoom), float32(float64(r.H) * c.zoom)
}

// UpdateView handles wheel zoom around the cursor and middle-button panning.
func (c *Canvas) UpdateView(mx, my int) {
	if c.panning {
		if !ebiten.IsMouseButtonPressed(ebiten.MouseButtonMiddle) {
			c.panning = false
		} else {
			c.offX += float64(mx - c.lastX)
			c.offY += float64(my - c.lastY)
			c.lastX, c.lastY = mx, my
		}
	}
	if !c.Contains(mx, my) {
		return
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonMiddle) {
		c.panning = true
		c.lastX, c.lastY = mx, my
	}
	if _, wy := ebiten.Wheel(); wy != 0 {
		lx := (float64(mx-c.Bounds.Min.X) - c.offX) / c.zoom
		ly := (float64(my-c.Bounds.Min.Y) - c.offY) / c.zoom
		factor := 1.1
		if wy < 0 {
			factor = 1 / 1.1
		}
		c.zoom = clampZoom(c.zoom * factor)
		// keep the point under the cursor fixed
		c.offX = float64(mx-c.Bounds.Min.X) - lx*c.zoom
		c.offY = float64(my-c.Bounds.Min.Y) - ly*c.zoom
	}
}

func (c *Canvas) Draw(screen *ebiten.Image, s *session.Session) {
	dst := screen.SubImage(c.Bounds).(*ebiten.Image)
	dst.Fill(color.RGBA{25, 25, 30, 255})
	if c.img == nil {
		return
	}

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(c.zoom, c.zoom)
	op.GeoM.Translate(float64(c.Bounds.Min.X)+c.offX, float64(c.Bounds.Min.Y)+c.offY)
	op.Filter = ebiten.FilterNearest
	dst.DrawImage(c.img, op)

	sel := s.Selection()
	outlines := sel.Outlines(c.view())
	switch sel.Mode() {
	case selection.ModeGrid:
		if len(outlines) <= maxOverlayCells {
			for _, r := range outlines {
				c.stroke(dst, r, 1, gridColor)
			}
		}
	case selection.ModeDetect:
		for _, r := range outlines {
			c.stroke(dst, r, 1, detectionColor)
		}
	}
	for _, r := range sel.Multi() {
		c.stroke(dst, r, 2, multiColor)
	}
	if r, ok := sel.Single(); ok {
		c.stroke(dst, r, 2, singleColor)
	}
}

func (c *Canvas) stroke(dst *ebiten.Image, r sheet.Rect, width float32, clr color.Color) {
	x, y, w, h := c.toScreen(r)
	vector.StrokeRect(dst, x, y, w, h, width, clr, false)
}
