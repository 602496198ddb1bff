package session

import (
	"image"
	"time"

	"github.com/milk9111/spriteslicer/config"
)

// Preview cycles through animation frames at a fixed rate.
type Preview struct {
	frames  []image.Image
	fps     int
	current int
	acc     time.Duration
	playing bool
}

func NewPreview(frames []image.Image, fps int) *Preview {
	return &Preview{
		frames:  frames,
		fps:     config.ClampFPS(fps),
		playing: len(frames) > 1,
	}
}

func (p *Preview) Len() int { return len(p.frames) }

func (p *Preview) FPS() int { return p.fps }

func (p *Preview) SetFPS(fps int) {
	p.fps = config.ClampFPS(fps)
	p.acc = 0
}

func (p *Preview) Index() int { return p.current }

// Frame is nil when there is nothing to show.
func (p *Preview) Frame() image.Image {
	if len(p.frames) == 0 {
		return nil
	}
	return p.frames[p.current]
}

func (p *Preview) Playing() bool { return p.playing }
func (p *Preview) Play()         { p.playing = len(p.frames) > 1 }
func (p *Preview) Pause()        { p.playing = false }

func (p *Preview) Toggle() {
	if p.playing {
		p.Pause()
		return
	}
	p.Play()
}

func (p *Preview) frameTime() time.Duration {
	return time.Second / time.Duration(p.fps)
}

// Advance moves the animation forward by dt and reports whether the frame changed.
func (p *Preview) Advance(dt time.Duration) bool {
	if !p.playing || len(p.frames) <= 1 {
		return false
	}
	p.acc += dt
	step := p.frameTime()
	changed := false
	for p.acc >= step {
		p.acc -= step
		p.current = (p.current + 1) % len(p.frames)
		changed = true
	}
	return changed
}

// Step shows the next frame regardless of play state.
func (p *Preview) Step() {
	if len(p.frames) == 0 {
		return
	}
	p.current = (p.current + 1) % len(p.frames)
	p.acc = 0
}
