package main

import (
	"image/color"
	"strings"

	"github.com/ebitenui/ebitenui"
	"github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/google/uuid"
	"github.com/hajimehoshi/ebiten/v2/text/v2"

	"github.com/milk9111/spriteslicer/tree"
)

const panelWidth = 300

// treeEntry is one row of the sprite list. Rows are keyed by node id so the
// selection survives a rebuild.
type treeEntry struct {
	ID    uuid.UUID
	Label string
}

func entryLabel(n *tree.Node, depth int) string {
	indent := strings.Repeat("  ", depth)
	if n.IsGroup() {
		marker := "+ "
		if n.Expanded() {
			marker = "- "
		}
		return indent + marker + n.Name()
	}
	return indent + n.Name() + "  " + n.SizeLabel()
}

// Panel is the right-hand side of the window: sprite tree, actions and
// status line, plus the modal overlays.
type Panel struct {
	UI      *ebitenui.UI
	list    *widget.List
	status  *widget.Text
	rename  *renameDialog
	menu    *contextMenu
	syncing bool
}

func buildPanel(e *Editor, face *text.Face) *Panel {
	p := &Panel{UI: &ebitenui.UI{}}
	style := newUIStyle(face)
	p.UI.PrimaryTheme = style.listTheme()

	side := widget.NewContainer(
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(panelWidth, 400),
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{
				HorizontalPosition: widget.AnchorLayoutPositionEnd,
				VerticalPosition:   widget.AnchorLayoutPositionStart,
				StretchVertical:    true,
			}),
		),
		widget.ContainerOpts.BackgroundImage(image.NewNineSliceColor(panelBackground)),
		widget.ContainerOpts.Layout(
			widget.NewRowLayout(
				widget.RowLayoutOpts.Direction(widget.DirectionVertical),
				widget.RowLayoutOpts.Spacing(8),
				widget.RowLayoutOpts.Padding(&widget.Insets{Top: 8, Bottom: 8, Left: 8, Right: 8}),
			),
		),
	)

	side.AddChild(widget.NewLabel(widget.LabelOpts.Text("Sprites", face, style.panelLabel)))

	p.list = widget.NewList(
		widget.ListOpts.Entries([]any{}),
		widget.ListOpts.EntryLabelFunc(func(v any) string {
			if entry, ok := v.(treeEntry); ok {
				return entry.Label
			}
			return ""
		}),
		widget.ListOpts.EntrySelectedHandler(func(args *widget.ListEntrySelectedEventArgs) {
			if p.syncing {
				return
			}
			if entry, ok := args.Entry.(treeEntry); ok {
				e.selectNode(entry.ID)
			}
		}),
	)
	side.AddChild(p.list)

	button := style.newButton
	row := func(buttons ...*widget.Button) *widget.Container {
		c := widget.NewContainer(
			widget.ContainerOpts.Layout(
				widget.NewRowLayout(
					widget.RowLayoutOpts.Direction(widget.DirectionHorizontal),
					widget.RowLayoutOpts.Spacing(6),
				),
			),
		)
		for _, b := range buttons {
			c.AddChild(b)
		}
		return c
	}

	side.AddChild(row(
		button("Open", e.promptOpen),
		button("Detect", e.detect),
		button("Mode", e.toggleMode),
		button("Clear", e.sess.ClearDetections),
	))
	side.AddChild(row(
		button("New Group", e.newGroup),
		button("Rename", e.renameSelected),
		button("Delete", e.deleteSelected),
	))
	side.AddChild(row(
		button("Export", e.exportSelected),
		button("GIF", e.exportGIF),
		button("Copy", e.copySelected),
		button("Preview", e.togglePreview),
	))
	side.AddChild(row(
		button("Expand", func() { e.sess.Tree().ExpandAll(); e.refresh() }),
		button("Collapse", func() { e.sess.Tree().CollapseAll(); e.refresh() }),
		button("Add Detected", e.addDetected),
		button("Slicing", e.editSlicing),
	))

	p.status = widget.NewText(widget.TextOpts.Text("", face, color.White))
	side.AddChild(p.status)

	p.rename = newRenameDialog(style, e)
	p.menu = newContextMenu(style, e)

	root := widget.NewContainer(widget.ContainerOpts.Layout(widget.NewAnchorLayout()))
	root.AddChild(side)
	root.AddChild(p.rename.Overlay)
	root.AddChild(p.menu.Overlay)
	p.UI.Container = root
	return p
}

// SetTree rebuilds the list rows from t and reselects selected when it is
// still visible.
func (p *Panel) SetTree(t *tree.Tree, selected *tree.Node) {
	var entries []any
	var current any
	t.Walk(func(n *tree.Node, depth int) bool {
		entry := treeEntry{ID: n.ID(), Label: entryLabel(n, depth)}
		entries = append(entries, entry)
		if n == selected {
			current = entry
		}
		return !n.IsGroup() || n.Expanded()
	})
	p.syncing = true
	p.list.SetEntries(entries)
	if current != nil {
		p.list.SetSelectedEntry(current)
	}
	p.syncing = false
}

func (p *Panel) SetStatus(s string) {
	if p.status.Label != s {
		p.status.Label = s
	}
}

// Modal reports whether an overlay currently owns input.
func (p *Panel) Modal() bool {
	return p.rename.Visible() || p.menu.Visible()
}

func overlayLayout() widget.AnchorLayoutData {
	return widget.AnchorLayoutData{
		HorizontalPosition: widget.AnchorLayoutPositionCenter,
		VerticalPosition:   widget.AnchorLayoutPositionCenter,
		StretchHorizontal:  true,
		StretchVertical:    true,
	}
}

func newOverlay() *widget.Container {
	o := widget.NewContainer(
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.LayoutData(overlayLayout()),
			widget.WidgetOpts.MinSize(1, 1),
		),
		widget.ContainerOpts.Layout(widget.NewAnchorLayout()),
		widget.ContainerOpts.BackgroundImage(image.NewNineSliceColor(overlayShade)),
	)
	o.GetWidget().Visibility = widget.Visibility_Hide
	return o
}

func newDialog(minW, minH int) *widget.Container {
	d := widget.NewContainer(
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(minW, minH),
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{
				HorizontalPosition: widget.AnchorLayoutPositionCenter,
				VerticalPosition:   widget.AnchorLayoutPositionCenter,
			}),
		),
		widget.ContainerOpts.BackgroundImage(image.NewNineSliceColor(dialogBackground)),
		widget.ContainerOpts.Layout(
			widget.NewRowLayout(
				widget.RowLayoutOpts.Direction(widget.DirectionVertical),
				widget.RowLayoutOpts.Spacing(8),
				widget.RowLayoutOpts.Padding(&widget.Insets{Top: 12, Bottom: 12, Left: 12, Right: 12}),
			),
		),
	)
	return d
}
