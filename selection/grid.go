package selection

import (
	"github.com/milk9111/spriteslicer/sheet"
)

// Grid describes a regular sprite layout: cells of CellW x CellH starting at
// (PadX, PadY), separated by SpacingX/SpacingY pixels of gutter.
type Grid struct {
	CellW, CellH       int
	PadX, PadY         int
	SpacingX, SpacingY int
}

func (g Grid) Valid() bool {
	return g.CellW > 0 && g.CellH > 0 && g.SpacingX >= 0 && g.SpacingY >= 0
}

func (g Grid) strideX() int { return g.CellW + g.SpacingX }
func (g Grid) strideY() int { return g.CellH + g.SpacingY }

// CellAt maps a sheet point to a cell index. Points in a gutter, before the
// padding, or on an invalid grid hit nothing.
func (g Grid) CellAt(px, py int) (col, row int, ok bool) {
	if !g.Valid() {
		return 0, 0, false
	}
	col = floorDiv(px-g.PadX, g.strideX())
	row = floorDiv(py-g.PadY, g.strideY())
	if col < 0 || row < 0 {
		return 0, 0, false
	}
	if !g.CellRect(col, row).Contains(px, py) {
		return 0, 0, false
	}
	return col, row, true
}

func (g Grid) CellRect(col, row int) sheet.Rect {
	return sheet.Rect{
		X: g.PadX + col*g.strideX(),
		Y: g.PadY + row*g.strideY(),
		W: g.CellW,
		H: g.CellH,
	}
}

// Hit returns the region of the cell under (px, py).
func (g Grid) Hit(px, py int) (sheet.Rect, bool) {
	col, row, ok := g.CellAt(px, py)
	if !ok {
		return sheet.Rect{}, false
	}
	return g.CellRect(col, row), true
}

// Cells lists every cell lying fully inside a w x h sheet, row by row.
func (g Grid) Cells(w, h int) []sheet.Rect {
	if !g.Valid() {
		return nil
	}
	var out []sheet.Rect
	for row := 0; ; row++ {
		if g.PadY+row*g.strideY()+g.CellH > h {
			break
		}
		for col := 0; ; col++ {
			r := g.CellRect(col, row)
			if r.X+r.W > w {
				break
			}
			out = append(out, r)
		}
	}
	return out
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// HitRect returns the index of the first rect containing (px, py).
func HitRect(rects []sheet.Rect, px, py int) (int, bool) {
	for i, r := range rects {
		if r.Contains(px, py) {
			return i, true
		}
	}
	return -1, false
}
