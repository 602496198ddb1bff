package main

import (
	"fmt"
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/milk9111/spriteslicer/session"
	"github.com/milk9111/spriteslicer/tree"
)

const previewBox = 160

// previewView draws a session.Preview. Frames are uploaded on first use.
type previewView struct {
	*session.Preview
	source *tree.Node
	frames map[int]*ebiten.Image
}

func newPreviewView(source *tree.Node, p *session.Preview) *previewView {
	return &previewView{Preview: p, source: source, frames: map[int]*ebiten.Image{}}
}

func (v *previewView) current() *ebiten.Image {
	i := v.Index()
	if img, ok := v.frames[i]; ok {
		return img
	}
	f := v.Frame()
	if f == nil {
		return nil
	}
	img := ebiten.NewImageFromImage(f)
	v.frames[i] = img
	return img
}

func (v *previewView) Draw(screen *ebiten.Image, at image.Point) {
	x, y := float32(at.X), float32(at.Y)
	vector.FillRect(screen, x, y, previewBox, previewBox, color.RGBA{0, 0, 0, 200}, false)
	vector.StrokeRect(screen, x, y, previewBox, previewBox, 1, color.RGBA{200, 200, 200, 255}, false)

	if img := v.current(); img != nil {
		w, h := img.Bounds().Dx(), img.Bounds().Dy()
		scale := float64(previewBox-8) / float64(max(w, h))
		if scale > 4 {
			scale = 4
		}
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Scale(scale, scale)
		op.GeoM.Translate(
			float64(at.X)+(previewBox-float64(w)*scale)/2,
			float64(at.Y)+(previewBox-float64(h)*scale)/2,
		)
		op.Filter = ebiten.FilterNearest
		screen.DrawImage(img, op)
	}

	state := "playing"
	if !v.Playing() {
		state = "paused"
	}
	label := fmt.Sprintf("%d/%d  %d fps  %s", v.Index()+1, v.Len(), v.FPS(), state)
	ebitenutil.DebugPrintAt(screen, label, at.X, at.Y+previewBox+2)
}

// thumbView shows the thumbnail of the selected sprite while no animation
// is previewed. The uploaded image is reused until the node's thumbnail
// changes.
type thumbView struct {
	src *image.NRGBA
	img *ebiten.Image
}

func (v *thumbView) Draw(screen *ebiten.Image, at image.Point, n *tree.Node) {
	t := n.Thumbnail()
	if t == nil {
		return
	}
	if t != v.src {
		if v.img != nil {
			v.img.Deallocate()
		}
		v.src, v.img = t, ebiten.NewImageFromImage(t)
	}
	x, y := float32(at.X), float32(at.Y)
	vector.FillRect(screen, x, y, previewBox, previewBox, color.RGBA{0, 0, 0, 200}, false)
	vector.StrokeRect(screen, x, y, previewBox, previewBox, 1, color.RGBA{200, 200, 200, 255}, false)

	w, h := v.img.Bounds().Dx(), v.img.Bounds().Dy()
	scale := min(1, float64(previewBox-8)/float64(max(w, h)))
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(
		float64(at.X)+(previewBox-float64(w)*scale)/2,
		float64(at.Y)+(previewBox-float64(h)*scale)/2,
	)
	screen.DrawImage(v.img, op)

	r := n.Region()
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%s  %dx%d", n.Name(), r.W, r.H), at.X, at.Y+previewBox+2)
}
