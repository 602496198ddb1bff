package tree

import (
	"fmt"
	"image"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/milk9111/spriteslicer/sheet"
)

const (
	DefaultGroupName    = "New Group"
	DefaultSubgroupName = "New Subgroup"
	DetectedGroupName   = "Detected Sprites"

	DefaultThumbnailSize = 64
)

// Namer produces the default name of the n-th sprite added to a group.
type Namer interface {
	SpriteName(group string, n int) string
}

type NamerFunc func(group string, n int) string

func (f NamerFunc) SpriteName(group string, n int) string { return f(group, n) }

var DefaultNamer Namer = NamerFunc(func(group string, n int) string {
	return fmt.Sprintf("%s %d", group, n)
})

// Extract is a region and the pixels cropped for it.
type Extract struct {
	Region sheet.Rect
	Pixels image.Image
}

type Option func(*Tree)

func WithNamer(n Namer) Option {
	return func(t *Tree) {
		if n != nil {
			t.namer = n
		}
	}
}

func WithThumbnailSize(size int) Option {
	return func(t *Tree) {
		if size > 0 {
			t.thumbSize = size
		}
	}
}

func WithLogger(log zerolog.Logger) Option {
	return func(t *Tree) { t.log = log }
}

// Tree owns the group/sprite hierarchy. It is not safe for concurrent use;
// only the interactive goroutine mutates it.
type Tree struct {
	roots     []*Node
	byID      map[uuid.UUID]*Node
	namer     Namer
	thumbSize int
	log       zerolog.Logger
	editor    *NameEditor
}

func New(opts ...Option) *Tree {
	t := &Tree{
		byID:      make(map[uuid.UUID]*Node),
		namer:     DefaultNamer,
		thumbSize: DefaultThumbnailSize,
		log:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.editor = &NameEditor{tree: t}
	return t
}

// Editor returns the single inline name editor for this tree.
func (t *Tree) Editor() *NameEditor { return t.editor }

func (t *Tree) owns(n *Node) bool {
	return n != nil && n.owner == t
}

func (t *Tree) attach(n *Node, parent *Node) {
	n.owner = t
	n.parent = parent
	t.byID[n.id] = n
	if parent == nil {
		t.roots = append(t.roots, n)
		return
	}
	parent.children = append(parent.children, n)
}

// AddGroup creates a group under parent, or a root group when parent is
// nil. An empty name picks the default for the level.
func (t *Tree) AddGroup(parent *Node, name string) (*Node, error) {
	if parent != nil && (!t.owns(parent) || !parent.IsGroup()) {
		return nil, t.warn(invalidTarget("add group", parent))
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultGroupName
		if parent != nil {
			name = DefaultSubgroupName
		}
	}
	g := &Node{
		id:       uuid.New(),
		kind:     KindGroup,
		name:     name,
		next:     1,
		expanded: true,
	}
	t.attach(g, parent)
	if parent != nil {
		parent.expanded = true
	}
	return g, nil
}

// AddSprite appends a sprite named after the group's counter and advances it.
func (t *Tree) AddSprite(parent *Node, region sheet.Rect, pixels image.Image) (*Node, error) {
	if !t.owns(parent) || !parent.IsGroup() {
		return nil, t.warn(invalidTarget("add sprite", parent))
	}
	if region.Empty() {
		return nil, ErrInvalidRegion
	}
	return t.addSprite(parent, region, pixels), nil
}

func (t *Tree) addSprite(parent *Node, region sheet.Rect, pixels image.Image) *Node {
	n := parent.next
	parent.next++
	s := &Node{
		id:     uuid.New(),
		kind:   KindSprite,
		name:   t.namer.SpriteName(parent.name, n),
		index:  n,
		region: region,
	}
	s.setPixels(pixels, t.thumbSize)
	t.attach(s, parent)
	return s
}

func (n *Node) setPixels(pixels image.Image, thumbSize int) {
	n.pixels = toNRGBA(pixels)
	n.thumb = nil
	if n.pixels != nil {
		n.thumb = sheet.Thumbnail(n.pixels, thumbSize)
	}
}

func toNRGBA(img image.Image) *image.NRGBA {
	if img == nil || img.Bounds().Empty() {
		return nil
	}
	if n, ok := img.(*image.NRGBA); ok {
		return n
	}
	return imaging.Clone(img)
}

// Rename trims and applies name. Renaming a group renumbers its direct
// sprite children from 1 in their current order; subgroups keep their names.
func (t *Tree) Rename(n *Node, name string) error {
	if !t.owns(n) {
		return t.warn(invalidTarget("rename", n))
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	n.name = name
	if n.IsGroup() {
		i := 0
		for _, c := range n.children {
			if !c.IsSprite() {
				continue
			}
			i++
			c.index = i
			c.name = t.namer.SpriteName(name, i)
		}
	}
	return nil
}

// Delete removes n and, for a group, its whole subtree. Deleting nil or an
// already removed node does nothing and reports false.
func (t *Tree) Delete(n *Node) bool {
	if !t.owns(n) {
		return false
	}
	if t.editor.node != nil && n.isAncestorOf(t.editor.node) {
		t.editor.Cancel()
	}
	if n.parent == nil {
		t.roots = removeNode(t.roots, n)
	} else {
		n.parent.children = removeNode(n.parent.children, n)
	}
	t.detach(n)
	return true
}

func (t *Tree) detach(n *Node) {
	for _, c := range n.children {
		t.detach(c)
	}
	delete(t.byID, n.id)
	n.owner = nil
	n.parent = nil
	n.children = nil
}

func removeNode(list []*Node, n *Node) []*Node {
	for i, c := range list {
		if c == n {
			return append(list[:i:i], list[i+1:]...)
		}
	}
	return list
}

// MoveSpritesToGroup adds one sprite per extract to target in input order.
// Nothing is added unless every extract is valid.
func (t *Tree) MoveSpritesToGroup(items []Extract, target *Node) ([]*Node, error) {
	if !t.owns(target) || !target.IsGroup() {
		return nil, t.warn(invalidTarget("move sprites", target))
	}
	if err := validateExtracts(items); err != nil {
		return nil, err
	}
	out := make([]*Node, 0, len(items))
	for _, it := range items {
		out = append(out, t.addSprite(target, it.Region, it.Pixels))
	}
	target.expanded = true
	return out, nil
}

func validateExtracts(items []Extract) error {
	for i, it := range items {
		if it.Region.Empty() {
			return fmt.Errorf("extract %d %v: %w", i, it.Region, ErrInvalidRegion)
		}
	}
	return nil
}

// AddGroupWithSprites creates a root group holding one sprite per extract.
// The group is only created when every extract is valid.
func (t *Tree) AddGroupWithSprites(name string, items []Extract) (*Node, error) {
	if err := validateExtracts(items); err != nil {
		return nil, err
	}
	g, err := t.AddGroup(nil, name)
	if err != nil {
		return nil, err
	}
	for _, it := range items {
		t.addSprite(g, it.Region, it.Pixels)
	}
	return g, nil
}

// AddDetectedGroup stores a detection pass under a "Detected Sprites" root.
func (t *Tree) AddDetectedGroup(items []Extract) (*Node, error) {
	return t.AddGroupWithSprites(DetectedGroupName, items)
}

// UpdateRegion replaces a sprite's region and pixels and rebuilds its thumbnail.
func (t *Tree) UpdateRegion(n *Node, region sheet.Rect, pixels image.Image) error {
	if !t.owns(n) || !n.IsSprite() {
		return t.warn(invalidTarget("update region", n))
	}
	if region.Empty() {
		return ErrInvalidRegion
	}
	n.region = region
	n.setPixels(pixels, t.thumbSize)
	return nil
}

// CollectSprites returns every sprite under n in depth-first pre-order,
// including n itself when it is a sprite.
func (t *Tree) CollectSprites(n *Node) []*Node {
	var out []*Node
	if !t.owns(n) {
		return out
	}
	collect(n, &out)
	return out
}

func collect(n *Node, out *[]*Node) {
	if n.IsSprite() {
		*out = append(*out, n)
		return
	}
	for _, c := range n.children {
		collect(c, out)
	}
}

// Frames returns the pixels of every collected sprite that has any, in
// animation order.
func (t *Tree) Frames(n *Node) []image.Image {
	var frames []image.Image
	for _, s := range t.CollectSprites(n) {
		if s.HasPixels() {
			frames = append(frames, s.pixels)
		}
	}
	return frames
}

func (t *Tree) IsGroup(n *Node) bool {
	return t.owns(n) && n.IsGroup()
}

func (t *Tree) Roots() []*Node {
	out := make([]*Node, len(t.roots))
	copy(out, t.roots)
	return out
}

// Walk visits nodes in display order. Returning false skips the node's children.
func (t *Tree) Walk(fn func(n *Node, depth int) bool) {
	for _, r := range t.roots {
		walk(r, 0, fn)
	}
}

func walk(n *Node, depth int, fn func(*Node, int) bool) {
	if !fn(n, depth) {
		return
	}
	for _, c := range n.children {
		walk(c, depth+1, fn)
	}
}

// Groups lists every group in display order, for "add to group" pickers.
func (t *Tree) Groups() []*Node {
	var out []*Node
	t.Walk(func(n *Node, _ int) bool {
		if n.IsGroup() {
			out = append(out, n)
		}
		return true
	})
	return out
}

func (t *Tree) Find(id uuid.UUID) *Node { return t.byID[id] }

// Len counts every attached node.
func (t *Tree) Len() int { return len(t.byID) }

func (t *Tree) Clear() {
	t.editor.Cancel()
	for _, r := range t.roots {
		t.detach(r)
	}
	t.roots = nil
}

func (t *Tree) SetExpanded(n *Node, expanded bool) {
	if t.owns(n) && n.IsGroup() {
		n.expanded = expanded
	}
}

func (t *Tree) ExpandAll()   { t.setAllExpanded(true) }
func (t *Tree) CollapseAll() { t.setAllExpanded(false) }

func (t *Tree) setAllExpanded(v bool) {
	t.Walk(func(n *Node, _ int) bool {
		if n.IsGroup() {
			n.expanded = v
		}
		return true
	})
}

// DeleteConfirmation is the prompt shown before deleting n.
func (t *Tree) DeleteConfirmation(n *Node) string {
	if n == nil {
		return ""
	}
	if n.IsGroup() {
		if count := len(n.children); count > 0 {
			return fmt.Sprintf("Are you sure you want to delete the group '%s' and all its %d items?", n.name, count)
		}
		return fmt.Sprintf("Are you sure you want to delete the group '%s'?", n.name)
	}
	return fmt.Sprintf("Are you sure you want to delete the sprite '%s'?", n.name)
}

func (t *Tree) warn(err error) error {
	t.log.Warn().Err(err).Msg("tree operation rejected")
	return err
}
