//go:build !gocv

package detect

import (
	"github.com/milk9111/spriteslicer/sheet"
)

// externalBounds returns the bounding box of every outer contour in m.
// Foreground is 8-connected and background 4-connected, so a blob sitting
// inside another blob's hole is nested and not reported.
func externalBounds(m *Mask) ([]sheet.Rect, error) {
	w, h := m.W, m.H
	if w == 0 || h == 0 {
		return nil, nil
	}

	outside := floodOutside(m)

	labels := make([]int32, w*h)
	var rects []sheet.Rect
	var stack []int
	var label int32

	for start := range m.Pix {
		if m.Pix[start] == background || labels[start] != 0 {
			continue
		}
		label++
		labels[start] = label
		stack = append(stack[:0], start)

		minX, minY := w, h
		maxX, maxY := -1, -1
		external := false

		for len(stack) > 0 {
			p := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			x, y := p%w, p/w

			if x < minX {
				minX = x
			}
			if x > maxX {
				maxX = x
			}
			if y < minY {
				minY = y
			}
			if y > maxY {
				maxY = y
			}

			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					if dx == 0 && dy == 0 {
						continue
					}
					nx, ny := x+dx, y+dy
					if nx < 0 || ny < 0 || nx >= w || ny >= h {
						if dx == 0 || dy == 0 {
							external = true
						}
						continue
					}
					q := ny*w + nx
					if m.Pix[q] == background {
						if (dx == 0 || dy == 0) && outside[q] {
							external = true
						}
						continue
					}
					if labels[q] == 0 {
						labels[q] = label
						stack = append(stack, q)
					}
				}
			}
		}

		if external {
			rects = append(rects, sheet.Rect{X: minX, Y: minY, W: maxX - minX + 1, H: maxY - minY + 1})
		}
	}
	return rects, nil
}

// floodOutside marks background pixels 4-connected to the image border.
func floodOutside(m *Mask) []bool {
	w, h := m.W, m.H
	outside := make([]bool, w*h)
	var stack []int
	push := func(x, y int) {
		p := y*w + x
		if m.Pix[p] == background && !outside[p] {
			outside[p] = true
			stack = append(stack, p)
		}
	}
	for x := 0; x < w; x++ {
		push(x, 0)
		push(x, h-1)
	}
	for y := 0; y < h; y++ {
		push(0, y)
		push(w-1, y)
	}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		x, y := p%w, p/w
		if x > 0 {
			push(x-1, y)
		}
		if x < w-1 {
			push(x+1, y)
		}
		if y > 0 {
			push(x, y-1)
		}
		if y < h-1 {
			push(x, y+1)
		}
	}
	return outside
}
