package selection

import (
	"github.com/milk9111/spriteslicer/sheet"
)

type Mode int

const (
	ModeGrid Mode = iota
	ModeDetect
)

func (m Mode) String() string {
	if m == ModeDetect {
		return "detect"
	}
	return "grid"
}

type Button int

const (
	Primary Button = iota
	Secondary
)

// Click is a pointer press in sheet coordinates. Multi is set while the
// multi-select modifier is held.
type Click struct {
	X, Y   int
	Button Button
	Multi  bool
}

// Outcome describes what a click did. Menu is only set for secondary
// clicks that have something to act on.
type Outcome struct {
	Hit     bool
	Rect    sheet.Rect
	Changed bool
	Menu    *Menu
}

// State holds the canvas selection. It is owned by the interactive goroutine.
type State struct {
	mode       Mode
	grid       Grid
	bounds     sheet.Rect
	detections []sheet.Rect

	single    sheet.Rect
	hasSingle bool
	multi     []sheet.Rect
}

func NewState(grid Grid) *State {
	return &State{grid: grid}
}

func (s *State) Mode() Mode { return s.mode }

// SetMode switches between grid and detection hit testing. Switching
// clears the selection.
func (s *State) SetMode(m Mode) {
	if m == s.mode {
		return
	}
	s.mode = m
	s.Clear()
}

func (s *State) Grid() Grid { return s.grid }

func (s *State) SetGrid(g Grid) {
	s.grid = g
	if s.mode == ModeGrid {
		s.Clear()
	}
}

// SetBounds limits grid hits to the loaded sheet. An empty rect removes the limit.
func (s *State) SetBounds(r sheet.Rect) { s.bounds = r }

func (s *State) Detections() []sheet.Rect {
	out := make([]sheet.Rect, len(s.detections))
	copy(out, s.detections)
	return out
}

// SetDetections replaces the detection overlay and clears the selection,
// since the old rectangles may no longer exist.
func (s *State) SetDetections(rects []sheet.Rect) {
	s.detections = append(s.detections[:0:0], rects...)
	s.Clear()
}

func (s *State) ClearDetections() {
	s.detections = nil
	s.Clear()
}

// Hit resolves a point to a region under the current mode.
func (s *State) Hit(px, py int) (sheet.Rect, bool) {
	switch s.mode {
	case ModeDetect:
		i, ok := HitRect(s.detections, px, py)
		if !ok {
			return sheet.Rect{}, false
		}
		return s.detections[i], true
	default:
		if !s.bounds.Empty() && !s.bounds.Contains(px, py) {
			return sheet.Rect{}, false
		}
		return s.grid.Hit(px, py)
	}
}

func (s *State) Single() (sheet.Rect, bool) { return s.single, s.hasSingle }

func (s *State) Multi() []sheet.Rect {
	out := make([]sheet.Rect, len(s.multi))
	copy(out, s.multi)
	return out
}

// Targets is what a context action operates on: the multi-selection when
// there is one, otherwise the single selection.
func (s *State) Targets() []sheet.Rect {
	if len(s.multi) > 0 {
		return s.Multi()
	}
	if s.hasSingle {
		return []sheet.Rect{s.single}
	}
	return nil
}

// Outlines lists the grid cells or detections to outline inside view. An
// empty view lists everything. Selected regions are left out because they
// are drawn with the selection.
func (s *State) Outlines(view sheet.Rect) []sheet.Rect {
	var all []sheet.Rect
	switch s.mode {
	case ModeDetect:
		all = s.detections
	default:
		if s.bounds.Empty() {
			return nil
		}
		all = s.grid.Cells(s.bounds.X+s.bounds.W, s.bounds.Y+s.bounds.H)
	}
	var out []sheet.Rect
	for _, r := range all {
		if !view.Empty() && !r.Intersects(view) {
			continue
		}
		if s.IsSelected(r) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func (s *State) IsSelected(r sheet.Rect) bool {
	if s.hasSingle && s.single == r {
		return true
	}
	return s.indexOf(r) >= 0
}

func (s *State) indexOf(r sheet.Rect) int {
	for i, m := range s.multi {
		if m == r {
			return i
		}
	}
	return -1
}

// Select makes r the only selected region.
func (s *State) Select(r sheet.Rect) {
	s.single = r
	s.hasSingle = true
	s.multi = nil
}

// Toggle flips r's membership in the multi-selection.
func (s *State) Toggle(r sheet.Rect) {
	if i := s.indexOf(r); i >= 0 {
		s.multi = append(s.multi[:i:i], s.multi[i+1:]...)
		return
	}
	s.multi = append(s.multi, r)
}

func (s *State) Clear() {
	s.single = sheet.Rect{}
	s.hasSingle = false
	s.multi = nil
}

// CommitMove is called after the selection was moved into a group.
func (s *State) CommitMove() { s.Clear() }

func (s *State) empty() bool {
	return !s.hasSingle && len(s.multi) == 0
}

// HandleClick applies one pointer press to the selection.
func (s *State) HandleClick(c Click) Outcome {
	r, hit := s.Hit(c.X, c.Y)
	out := Outcome{Hit: hit, Rect: r}

	if c.Button == Secondary {
		if len(s.multi) > 0 {
			out.Menu = newMenu(s.Multi(), true)
			return out
		}
		if !hit {
			out.Changed = !s.empty()
			s.Clear()
			return out
		}
		out.Changed = !(s.hasSingle && s.single == r)
		s.Select(r)
		out.Menu = newMenu([]sheet.Rect{r}, false)
		return out
	}

	switch {
	case hit && c.Multi:
		s.Toggle(r)
		out.Changed = true
	case hit:
		out.Changed = !(s.hasSingle && s.single == r && len(s.multi) == 0)
		s.Select(r)
	case !c.Multi:
		out.Changed = !s.empty()
		s.Clear()
	}
	return out
}
