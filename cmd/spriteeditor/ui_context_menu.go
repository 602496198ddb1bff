package main

import (
	"github.com/ebitenui/ebitenui/widget"

	"github.com/milk9111/spriteslicer/selection"
	"github.com/milk9111/spriteslicer/tree"
)

// contextMenu lists the actions for a secondary click on the canvas.
// "Add to Group" swaps the action list for a group picker.
type contextMenu struct {
	Overlay *widget.Container
	dialog  *widget.Container
	style   *uiStyle
	editor  *Editor
}

func newContextMenu(style *uiStyle, e *Editor) *contextMenu {
	m := &contextMenu{
		Overlay: newOverlay(),
		dialog:  newDialog(240, 60),
		style:   style,
		editor:  e,
	}
	m.Overlay.AddChild(m.dialog)
	return m
}

func (m *contextMenu) Visible() bool {
	return m.Overlay.GetWidget().Visibility == widget.Visibility_Show
}

func (m *contextMenu) Hide() {
	m.Overlay.GetWidget().Visibility = widget.Visibility_Hide
}

func (m *contextMenu) title(s string) {
	m.dialog.AddChild(widget.NewLabel(
		widget.LabelOpts.Text(s, m.style.face, m.style.dialogLabel),
	))
}

func (m *contextMenu) button(label string, fn func()) {
	m.dialog.AddChild(m.style.newButton(label, fn))
}

func (m *contextMenu) show() {
	m.dialog.RequestRelayout()
	m.Overlay.GetWidget().Visibility = widget.Visibility_Show
}

func (m *contextMenu) Open(menu *selection.Menu) {
	m.dialog.RemoveChildren()
	if menu.Multi {
		m.title("Multiple Selection")
	} else {
		m.title(menu.Targets[0].SizeLabel())
	}
	for _, a := range menu.Actions {
		m.button(a.String(), func() {
			if a == selection.ActionAddToGroup {
				m.openGroups()
				return
			}
			m.Hide()
			m.editor.runAction(a, menu)
		})
	}
	m.button("Cancel", m.Hide)
	m.show()
}

func (m *contextMenu) openGroups() {
	m.dialog.RemoveChildren()
	groups := m.editor.sess.Tree().Groups()
	if len(groups) == 0 {
		m.title("No groups yet")
	} else {
		m.title("Add to Group")
	}
	for _, g := range groups {
		m.button(groupLabel(g), func() {
			m.Hide()
			m.editor.addSelectionTo(g)
		})
	}
	m.button("Cancel", m.Hide)
	m.show()
}

// groupLabel qualifies nested groups with their parent's name.
func groupLabel(g *tree.Node) string {
	if p := g.Parent(); p != nil {
		return p.Name() + " / " + g.Name()
	}
	return g.Name()
}
