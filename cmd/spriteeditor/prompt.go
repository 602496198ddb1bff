package main

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Prompt is a one-line modal text input drawn over the canvas. Enter
// submits, Escape closes without calling back.
type Prompt struct {
	open    bool
	label   string
	input   string
	onEnter func(string)
}

func NewPrompt() *Prompt { return &Prompt{} }

func (p *Prompt) IsOpen() bool { return p.open }

func (p *Prompt) Open(label, initial string, onEnter func(string)) {
	p.label = label
	p.input = initial
	p.onEnter = onEnter
	p.open = true
}

func (p *Prompt) Close() {
	p.open = false
	p.label = ""
	p.input = ""
	p.onEnter = nil
}

// Update consumes keyboard input while open and reports whether the prompt
// still owns the keyboard.
func (p *Prompt) Update() bool {
	if !p.open {
		return false
	}
	p.input = string(ebiten.AppendInputChars([]rune(p.input)))
	if inpututil.IsKeyJustPressed(ebiten.KeyBackspace) && len(p.input) > 0 {
		r := []rune(p.input)
		p.input = string(r[:len(r)-1])
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) || inpututil.IsKeyJustPressed(ebiten.KeyNumpadEnter) {
		cur, cb := p.input, p.onEnter
		p.open = false
		if cb != nil {
			cb(cur)
		}
		// the callback may chain another prompt
		if p.open {
			return true
		}
		p.Close()
		return false
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		p.Close()
		return false
	}
	return true
}

func (p *Prompt) Draw(screen *ebiten.Image, x, y, w int) {
	if !p.open {
		return
	}
	vector.FillRect(screen, float32(x), float32(y), float32(w), 44, color.RGBA{0, 0, 0, 220}, false)
	vector.StrokeRect(screen, float32(x), float32(y), float32(w), 44, 1, color.RGBA{200, 200, 200, 255}, false)
	ebitenutil.DebugPrintAt(screen, p.label, x+8, y+6)
	ebitenutil.DebugPrintAt(screen, "> "+p.input+"_", x+8, y+24)
}
