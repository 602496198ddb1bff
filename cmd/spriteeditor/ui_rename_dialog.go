package main

import (
	"github.com/ebitenui/ebitenui/widget"

	"github.com/milk9111/spriteslicer/tree"
)

// renameDialog edits one node name through the tree's NameEditor. A
// rejected name keeps the dialog open with the error shown.
type renameDialog struct {
	Overlay *widget.Container
	input   *widget.TextInput
	errText *widget.Text
	editor  *tree.NameEditor
	done    func()
	fail    func(error)
}

func newRenameDialog(style *uiStyle, e *Editor) *renameDialog {
	d := &renameDialog{
		Overlay: newOverlay(),
		editor:  e.sess.Tree().Editor(),
		done:    e.refresh,
		fail:    func(err error) { e.setStatus("Rename failed: %v", err) },
	}
	dialog := newDialog(320, 140)

	title := widget.NewLabel(
		widget.LabelOpts.Text("Rename", style.face, style.dialogLabel),
	)
	d.input = widget.NewTextInput(
		widget.TextInputOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(280, 28),
		),
		widget.TextInputOpts.Image(style.input),
		widget.TextInputOpts.Color(style.inputText),
		widget.TextInputOpts.Face(style.face),
		widget.TextInputOpts.SubmitOnEnter(true),
		widget.TextInputOpts.SubmitHandler(func(args *widget.TextInputChangedEventArgs) {
			d.commit(args.InputText)
		}),
	)
	d.errText = widget.NewText(widget.TextOpts.Text("", style.face, errorText))

	buttons := widget.NewContainer(
		widget.ContainerOpts.Layout(
			widget.NewRowLayout(
				widget.RowLayoutOpts.Direction(widget.DirectionHorizontal),
				widget.RowLayoutOpts.Spacing(8),
			),
		),
	)
	buttons.AddChild(style.newButton("OK", func() { d.commit(d.input.GetText()) }))
	buttons.AddChild(style.newButton("Cancel", d.Cancel))

	dialog.AddChild(title)
	dialog.AddChild(d.input)
	dialog.AddChild(d.errText)
	dialog.AddChild(buttons)
	d.Overlay.AddChild(dialog)
	return d
}

func (d *renameDialog) Visible() bool {
	return d.Overlay.GetWidget().Visibility == widget.Visibility_Show
}

func (d *renameDialog) Open(n *tree.Node) {
	if err := d.editor.Begin(n); err != nil {
		d.fail(err)
		return
	}
	d.errText.Label = ""
	d.input.SetText(d.editor.Text())
	d.input.Focus(true)
	d.Overlay.GetWidget().Visibility = widget.Visibility_Show
}

func (d *renameDialog) commit(name string) {
	d.editor.SetText(name)
	if err := d.editor.Commit(); err != nil {
		d.errText.Label = err.Error()
		return
	}
	d.hide()
	d.done()
}

func (d *renameDialog) Cancel() {
	d.editor.Cancel()
	d.hide()
}

func (d *renameDialog) hide() {
	d.input.Focus(false)
	d.Overlay.GetWidget().Visibility = widget.Visibility_Hide
}
