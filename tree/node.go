package tree

import (
	"image"

	"github.com/google/uuid"

	"github.com/milk9111/spriteslicer/sheet"
)

type Kind int

const (
	KindGroup Kind = iota + 1
	KindSprite
)

func (k Kind) String() string {
	switch k {
	case KindGroup:
		return "group"
	case KindSprite:
		return "sprite"
	default:
		return "unknown"
	}
}

// Node is either a group or a sprite; the kind is fixed at creation.
type Node struct {
	id       uuid.UUID
	kind     Kind
	name     string
	parent   *Node
	children []*Node
	owner    *Tree

	// groups
	next     int
	expanded bool

	// sprites
	index  int
	region sheet.Rect
	pixels *image.NRGBA
	thumb  *image.NRGBA
}

func (n *Node) ID() uuid.UUID { return n.id }
func (n *Node) Kind() Kind    { return n.kind }
func (n *Node) Name() string  { return n.name }

// Parent is nil for root groups.
func (n *Node) Parent() *Node { return n.parent }

func (n *Node) IsGroup() bool  { return n != nil && n.kind == KindGroup }
func (n *Node) IsSprite() bool { return n != nil && n.kind == KindSprite }

// Attached reports whether the node still belongs to a tree.
func (n *Node) Attached() bool { return n != nil && n.owner != nil }

func (n *Node) Children() []*Node {
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

func (n *Node) Len() int { return len(n.children) }

// NextSequence is the number the next sprite added to this group receives.
func (n *Node) NextSequence() int { return n.next }

func (n *Node) Expanded() bool { return n.expanded }

// Index is the sprite's display number within its group.
func (n *Node) Index() int { return n.index }

func (n *Node) Region() sheet.Rect { return n.region }

// Pixels may be nil when the region could not be extracted.
func (n *Node) Pixels() *image.NRGBA { return n.pixels }

func (n *Node) HasPixels() bool {
	return n.pixels != nil && !n.pixels.Bounds().Empty()
}

func (n *Node) Thumbnail() *image.NRGBA { return n.thumb }

// SizeLabel is the "w×h" caption shown next to sprites.
func (n *Node) SizeLabel() string {
	if n.kind != KindSprite {
		return ""
	}
	return n.region.SizeLabel()
}

func (n *Node) isAncestorOf(other *Node) bool {
	for p := other; p != nil; p = p.parent {
		if p == n {
			return true
		}
	}
	return false
}
