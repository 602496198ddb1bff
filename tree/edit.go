package tree

type EditState int

const (
	Idle EditState = iota
	Editing
	Committed
	Cancelled
)

func (s EditState) String() string {
	switch s {
	case Editing:
		return "editing"
	case Committed:
		return "committed"
	case Cancelled:
		return "cancelled"
	default:
		return "idle"
	}
}

// NameEditor drives inline renaming. Only one node is edited at a time;
// starting a new edit cancels the previous one.
type NameEditor struct {
	tree     *Tree
	node     *Node
	original string
	text     string
	state    EditState
}

func (e *NameEditor) State() EditState { return e.state }

// Node is the node being edited, or nil.
func (e *NameEditor) Node() *Node { return e.node }

func (e *NameEditor) Text() string { return e.text }

func (e *NameEditor) Begin(n *Node) error {
	if !e.tree.owns(n) {
		return e.tree.warn(invalidTarget("edit name", n))
	}
	if e.state == Editing {
		e.Cancel()
	}
	e.node = n
	e.original = n.name
	e.text = n.name
	e.state = Editing
	return nil
}

func (e *NameEditor) SetText(s string) {
	if e.state == Editing {
		e.text = s
	}
}

// Commit renames the node. On a validation error the edit stays open and
// the node keeps its old name.
func (e *NameEditor) Commit() error {
	if e.state != Editing {
		return ErrNotEditing
	}
	if err := e.tree.Rename(e.node, e.text); err != nil {
		return err
	}
	e.node = nil
	e.state = Committed
	return nil
}

// Cancel restores the prior text without touching the tree.
func (e *NameEditor) Cancel() {
	if e.state != Editing {
		return
	}
	e.text = e.original
	e.node = nil
	e.state = Cancelled
}
