package tree

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"testing"

	"github.com/milk9111/spriteslicer/sheet"
)

func pixels(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 0xff
	}
	return img
}

func region(i int) sheet.Rect {
	return sheet.Rect{X: i * 16, Y: 0, W: 16, H: 16}
}

func names(nodes []*Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Name()
	}
	return out
}

func equalNames(t *testing.T, got []string, want ...string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestAddSpriteNamingIsSequential(t *testing.T) {
	cases := []struct {
		group string
		k     int
	}{
		{"Walk", 1},
		{"Idle", 3},
		{"Run Cycle", 7},
	}
	for _, c := range cases {
		t.Run(c.group, func(t *testing.T) {
			tr := New()
			g, err := tr.AddGroup(nil, c.group)
			if err != nil {
				t.Fatalf("add group: %v", err)
			}
			if g.NextSequence() != 1 {
				t.Fatalf("new group counter should start at 1, got %d", g.NextSequence())
			}
			var want []string
			for i := 1; i <= c.k; i++ {
				s, err := tr.AddSprite(g, region(i), pixels(16, 16))
				if err != nil {
					t.Fatalf("add sprite: %v", err)
				}
				if s.Index() != i {
					t.Fatalf("expected index %d, got %d", i, s.Index())
				}
				want = append(want, fmt.Sprintf("%s %d", c.group, i))
			}
			equalNames(t, names(g.Children()), want...)
			if g.NextSequence() != c.k+1 {
				t.Fatalf("expected counter %d, got %d", c.k+1, g.NextSequence())
			}
		})
	}
}

func TestCounterIsMonotonic(t *testing.T) {
	tr := New()
	g, _ := tr.AddGroup(nil, "Jump")
	a, _ := tr.AddSprite(g, region(0), nil)
	tr.AddSprite(g, region(1), nil)
	tr.Delete(a)
	c, _ := tr.AddSprite(g, region(2), nil)
	if c.Name() != "Jump 3" {
		t.Fatalf("deleted numbers must not be reused, got %q", c.Name())
	}
}

func TestAddGroupDefaults(t *testing.T) {
	tr := New()
	root, _ := tr.AddGroup(nil, "   ")
	sub, _ := tr.AddGroup(root, "")
	if root.Name() != DefaultGroupName || sub.Name() != DefaultSubgroupName {
		t.Fatalf("unexpected default names %q, %q", root.Name(), sub.Name())
	}
	if !root.Expanded() || !sub.Expanded() {
		t.Fatalf("new groups should be expanded")
	}
	if sub.Parent() != root {
		t.Fatalf("subgroup should be parented to root")
	}
}

func TestRenameGroupRenumbersDirectSprites(t *testing.T) {
	tr := New()
	g, _ := tr.AddGroup(nil, "A")
	tr.AddSprite(g, region(0), nil)
	sub, _ := tr.AddGroup(g, "Nested")
	subSprite, _ := tr.AddSprite(sub, region(5), nil)
	tr.AddSprite(g, region(1), nil)
	tr.AddSprite(g, region(2), nil)

	if err := tr.Rename(g, "  B  "); err != nil {
		t.Fatalf("rename: %v", err)
	}
	if g.Name() != "B" {
		t.Fatalf("expected trimmed name, got %q", g.Name())
	}
	var sprites []*Node
	for _, c := range g.Children() {
		if c.IsSprite() {
			sprites = append(sprites, c)
		}
	}
	equalNames(t, names(sprites), "B 1", "B 2", "B 3")
	if sub.Name() != "Nested" || subSprite.Name() != "Nested 1" {
		t.Fatalf("subgroup should be untouched, got %q / %q", sub.Name(), subSprite.Name())
	}
}

func TestRenameValidation(t *testing.T) {
	tr := New()
	g, _ := tr.AddGroup(nil, "Keep")
	s, _ := tr.AddSprite(g, region(0), nil)

	cases := []struct {
		name string
		node *Node
		in   string
		want error
	}{
		{"empty", s, "", ErrEmptyName},
		{"blank", g, " \t ", ErrEmptyName},
		{"nil", nil, "x", ErrInvalidTarget},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := tr.Rename(c.node, c.in)
			if !errors.Is(err, c.want) {
				t.Fatalf("expected %v, got %v", c.want, err)
			}
		})
	}
	if !errors.Is(ErrEmptyName, ErrValidation) {
		t.Fatalf("ErrEmptyName should be a validation error")
	}
	if g.Name() != "Keep" || s.Name() != "Keep 1" {
		t.Fatalf("failed renames must not change names")
	}
}

func TestDeleteRemovesSubtree(t *testing.T) {
	tr := New()
	g, _ := tr.AddGroup(nil, "Root")
	sub, _ := tr.AddGroup(g, "Sub")
	tr.AddSprite(g, region(0), nil)
	deep, _ := tr.AddSprite(sub, region(1), nil)
	other, _ := tr.AddGroup(nil, "Other")

	if !tr.Delete(g) {
		t.Fatalf("delete should report true for an attached node")
	}
	if got := tr.CollectSprites(g); len(got) != 0 {
		t.Fatalf("expected no sprites after delete, got %v", names(got))
	}
	if tr.Find(deep.ID()) != nil || tr.Find(sub.ID()) != nil {
		t.Fatalf("descendants should be gone from lookups")
	}
	if deep.Attached() || g.Attached() {
		t.Fatalf("deleted nodes should be detached")
	}
	if tr.Len() != 1 || len(tr.Roots()) != 1 || tr.Roots()[0] != other {
		t.Fatalf("only the other group should remain, have %d nodes", tr.Len())
	}
	if tr.Delete(g) || tr.Delete(nil) {
		t.Fatalf("deleting twice or nil should be a no-op")
	}
	if _, err := tr.AddSprite(g, region(0), nil); !errors.Is(err, ErrInvalidTarget) {
		t.Fatalf("adding into a deleted group should fail, got %v", err)
	}
}

func TestMoveSpritesToGroup(t *testing.T) {
	tr := New()
	target, _ := tr.AddGroup(nil, "Target")
	tr.SetExpanded(target, false)
	items := []Extract{
		{Region: region(0), Pixels: pixels(16, 16)},
		{Region: region(1), Pixels: pixels(16, 16)},
	}
	added, err := tr.MoveSpritesToGroup(items, target)
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	equalNames(t, names(added), "Target 1", "Target 2")
	if added[1].Region() != region(1) {
		t.Fatalf("input order should be preserved")
	}
	if !target.Expanded() {
		t.Fatalf("target should be expanded after a move")
	}
	if added[0].Thumbnail() == nil {
		t.Fatalf("thumbnail should be derived from pixels")
	}
}

func TestMoveSpritesIsAllOrNothing(t *testing.T) {
	tr := New()
	target, _ := tr.AddGroup(nil, "Target")
	sprite, _ := tr.AddSprite(target, region(0), nil)

	if _, err := tr.MoveSpritesToGroup([]Extract{{Region: region(1)}}, sprite); !errors.Is(err, ErrInvalidTarget) {
		t.Fatalf("moving into a sprite should be an invalid target, got %v", err)
	}
	bad := []Extract{{Region: region(1)}, {Region: sheet.Rect{W: 0, H: 4}}}
	if _, err := tr.MoveSpritesToGroup(bad, target); !errors.Is(err, ErrInvalidRegion) {
		t.Fatalf("expected invalid region, got %v", err)
	}
	if target.Len() != 1 || target.NextSequence() != 2 {
		t.Fatalf("failed move must not mutate the group")
	}
}

func TestCollectSpritesPreOrder(t *testing.T) {
	tr := New()
	g, _ := tr.AddGroup(nil, "G")
	tr.AddSprite(g, region(0), pixels(4, 4))
	sub, _ := tr.AddGroup(g, "S")
	tr.AddSprite(sub, region(1), pixels(4, 4))
	tr.AddSprite(sub, region(2), nil)
	last, _ := tr.AddSprite(g, region(3), pixels(4, 4))

	equalNames(t, names(tr.CollectSprites(g)), "G 1", "S 1", "S 2", "G 2")
	equalNames(t, names(tr.CollectSprites(last)), "G 2")
	if n := len(tr.Frames(g)); n != 3 {
		t.Fatalf("frames should skip sprites without pixels, got %d", n)
	}
}

func TestIsGroupUsesTag(t *testing.T) {
	tr := New()
	empty, _ := tr.AddGroup(nil, "Empty")
	g, _ := tr.AddGroup(nil, "Walk")
	s, _ := tr.AddSprite(g, region(0), nil)
	// a sprite renamed to look like a group is still a sprite
	tr.Rename(s, "Walk")

	if !tr.IsGroup(empty) || !tr.IsGroup(g) || tr.IsGroup(s) || tr.IsGroup(nil) {
		t.Fatalf("group tag lookup is wrong")
	}
}

func TestAddDetectedGroupAndGroups(t *testing.T) {
	tr := New()
	first, _ := tr.AddGroup(nil, "First")
	sub, _ := tr.AddGroup(first, "")
	g, err := tr.AddDetectedGroup([]Extract{{Region: region(0)}, {Region: region(1)}})
	if err != nil {
		t.Fatalf("add detected: %v", err)
	}
	equalNames(t, names(g.Children()), "Detected Sprites 1", "Detected Sprites 2")
	groups := tr.Groups()
	if len(groups) != 3 || groups[0] != first || groups[1] != sub || groups[2] != g {
		t.Fatalf("unexpected groups %v", names(groups))
	}

	before := tr.Len()
	if _, err := tr.AddGroupWithSprites("Bad", []Extract{{}}); !errors.Is(err, ErrInvalidRegion) {
		t.Fatalf("expected invalid region, got %v", err)
	}
	if tr.Len() != before {
		t.Fatalf("invalid extracts must not create a group")
	}
}

func TestUpdateRegionRebuildsThumbnail(t *testing.T) {
	tr := New(WithThumbnailSize(32))
	g, _ := tr.AddGroup(nil, "G")
	s, _ := tr.AddSprite(g, sheet.Rect{W: 8, H: 8}, pixels(8, 8))
	if s.Thumbnail().Bounds().Dx() != 32 {
		t.Fatalf("expected 32px thumbnail")
	}
	if err := tr.UpdateRegion(s, sheet.Rect{W: 8, H: 4}, pixels(8, 4)); err != nil {
		t.Fatalf("update: %v", err)
	}
	if s.Region() != (sheet.Rect{W: 8, H: 4}) || s.SizeLabel() != "8×4" {
		t.Fatalf("region not updated: %v", s.Region())
	}
	if b := s.Thumbnail().Bounds(); b.Dx() != 32 || b.Dy() != 16 {
		t.Fatalf("thumbnail not rebuilt, got %v", b)
	}
	if err := tr.UpdateRegion(g, region(0), nil); !errors.Is(err, ErrInvalidTarget) {
		t.Fatalf("groups have no region, got %v", err)
	}
}

func TestCustomNamer(t *testing.T) {
	tr := New(WithNamer(NamerFunc(func(group string, n int) string {
		return fmt.Sprintf("%s_%02d", group, n)
	})))
	g, _ := tr.AddGroup(nil, "walk")
	s, _ := tr.AddSprite(g, region(0), nil)
	if s.Name() != "walk_01" {
		t.Fatalf("expected custom name, got %q", s.Name())
	}
}

func TestExpandCollapseClear(t *testing.T) {
	tr := New()
	a, _ := tr.AddGroup(nil, "A")
	b, _ := tr.AddGroup(a, "B")
	tr.CollapseAll()
	if a.Expanded() || b.Expanded() {
		t.Fatalf("collapse all failed")
	}
	tr.ExpandAll()
	if !a.Expanded() || !b.Expanded() {
		t.Fatalf("expand all failed")
	}
	tr.Clear()
	if tr.Len() != 0 || len(tr.Roots()) != 0 || a.Attached() {
		t.Fatalf("clear should detach everything")
	}
}

func TestDeleteConfirmation(t *testing.T) {
	tr := New()
	g, _ := tr.AddGroup(nil, "Walk")
	empty, _ := tr.AddGroup(nil, "Empty")
	s, _ := tr.AddSprite(g, region(0), nil)
	tr.AddSprite(g, region(1), nil)

	cases := []struct {
		node *Node
		want string
	}{
		{g, "Are you sure you want to delete the group 'Walk' and all its 2 items?"},
		{empty, "Are you sure you want to delete the group 'Empty'?"},
		{s, "Are you sure you want to delete the sprite 'Walk 1'?"},
	}
	for _, c := range cases {
		if got := tr.DeleteConfirmation(c.node); got != c.want {
			t.Fatalf("expected %q, got %q", c.want, got)
		}
	}
}

func TestNonNRGBAPixelsAreConverted(t *testing.T) {
	tr := New()
	g, _ := tr.AddGroup(nil, "G")
	rgba := image.NewRGBA(image.Rect(0, 0, 4, 4))
	rgba.Set(1, 1, color.White)
	s, _ := tr.AddSprite(g, region(0), rgba)
	if !s.HasPixels() || s.Pixels().Bounds().Dx() != 4 {
		t.Fatalf("expected converted pixels")
	}
}
