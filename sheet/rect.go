package sheet

import (
	"fmt"
	"image"
	"sort"
)

// Rect is a region in sheet pixel coordinates.
type Rect struct {
	X, Y int
	W, H int
}

func FromImage(r image.Rectangle) Rect {
	return Rect{X: r.Min.X, Y: r.Min.Y, W: r.Dx(), H: r.Dy()}
}

func (r Rect) Image() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.W, r.Y+r.H)
}

func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Contains reports whether (x, y) lies in the half-open box [X, X+W) x [Y, Y+H).
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

func (r Rect) Intersects(other Rect) bool {
	return r.X < other.X+other.W &&
		r.X+r.W > other.X &&
		r.Y < other.Y+other.H &&
		r.Y+r.H > other.Y
}

// Less orders rects top-to-bottom, then left-to-right.
func (r Rect) Less(other Rect) bool {
	if r.Y != other.Y {
		return r.Y < other.Y
	}
	if r.X != other.X {
		return r.X < other.X
	}
	if r.H != other.H {
		return r.H < other.H
	}
	return r.W < other.W
}

// SizeLabel formats the rect size the way the tree shows it, e.g. "32×48".
func (r Rect) SizeLabel() string {
	return fmt.Sprintf("%d×%d", r.W, r.H)
}

func (r Rect) String() string {
	return fmt.Sprintf("(%d,%d %dx%d)", r.X, r.Y, r.W, r.H)
}

func SortRects(rects []Rect) {
	sort.SliceStable(rects, func(i, j int) bool { return rects[i].Less(rects[j]) })
}
