package main

import (
	"fmt"
	"image"
	"image/color"
	"path/filepath"
	"strings"
	"time"

	ebuiinput "github.com/ebitenui/ebitenui/input"
	"github.com/google/uuid"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/rs/zerolog"

	"github.com/milk9111/spriteslicer/config"
	"github.com/milk9111/spriteslicer/export"
	"github.com/milk9111/spriteslicer/selection"
	"github.com/milk9111/spriteslicer/session"
	"github.com/milk9111/spriteslicer/sheet"
	"github.com/milk9111/spriteslicer/tree"
)

const helpText = "O open  D detect  G mode  S slicing  C clear  N group  F2 rename  Del delete  E export  A gif  Space preview"

// Editor is the ebiten game driving one editing session.
type Editor struct {
	log    zerolog.Logger
	sess   *session.Session
	canvas *Canvas
	panel  *Panel
	prompt *Prompt
	clip   *Clipboard

	selected *tree.Node
	preview  *previewView
	thumb    thumbView

	width, height int
}

func NewEditor(sess *session.Session, log zerolog.Logger, clip *Clipboard) (*Editor, error) {
	e := &Editor{
		log:    log.With().Str("component", "editor").Logger(),
		sess:   sess,
		canvas: NewCanvas(),
		prompt: NewPrompt(),
		clip:   clip,
	}
	face, err := loadFontFace(14)
	if err != nil {
		return nil, fmt.Errorf("load font: %w", err)
	}
	e.panel = buildPanel(e, face)
	e.refresh()
	return e, nil
}

func (e *Editor) setStatus(format string, args ...any) {
	e.sess.SetStatus(fmt.Sprintf(format, args...))
}

func (e *Editor) refresh() {
	if e.selected != nil && !e.selected.Attached() {
		e.selected = nil
	}
	e.panel.SetTree(e.sess.Tree(), e.selected)
}

func (e *Editor) selectNode(id uuid.UUID) {
	e.selected = e.sess.Tree().Find(id)
	if e.selected != nil && e.selected.IsGroup() {
		e.sess.Tree().SetExpanded(e.selected, !e.selected.Expanded())
		e.refresh()
	}
}

func ctrlPressed() bool {
	return ebiten.IsKeyPressed(ebiten.KeyControl) || ebiten.IsKeyPressed(ebiten.KeyMeta)
}

func shiftPressed() bool {
	return ebiten.IsKeyPressed(ebiten.KeyShift)
}

func (e *Editor) Update() error {
	e.sess.Tick()
	e.canvas.SetSheet(e.sess.Sheet())
	e.panel.SetStatus(e.sess.Status())
	if e.preview != nil {
		e.preview.Advance(time.Second / time.Duration(ebiten.TPS()))
	}

	if e.prompt.Update() {
		return nil
	}
	e.panel.UI.Update()
	if e.panel.Modal() {
		if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
			e.panel.rename.Cancel()
			e.panel.menu.Hide()
		}
		return nil
	}

	e.handleKeys()

	mx, my := ebiten.CursorPosition()
	e.canvas.UpdateView(mx, my)
	if ebuiinput.UIHovered || !e.canvas.Contains(mx, my) || e.sess.Sheet() == nil {
		return nil
	}
	sx, sy := e.canvas.ToSheet(mx, my)
	switch {
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft):
		e.sess.Click(selection.Click{X: sx, Y: sy, Button: selection.Primary, Multi: shiftPressed() || ctrlPressed()})
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight):
		out := e.sess.Click(selection.Click{X: sx, Y: sy, Button: selection.Secondary})
		if out.Menu != nil {
			e.panel.menu.Open(out.Menu)
		}
	}
	return nil
}

func (e *Editor) handleKeys() {
	ctrl := ctrlPressed()
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyC) && ctrl:
		e.copySelected()
	case inpututil.IsKeyJustPressed(ebiten.KeyO):
		if p := e.sess.Path(); p != "" && !shiftPressed() {
			e.sess.Open(p)
		} else {
			e.promptOpen()
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyD):
		e.detect()
	case inpututil.IsKeyJustPressed(ebiten.KeyG):
		e.toggleMode()
	case inpututil.IsKeyJustPressed(ebiten.KeyS):
		e.editSlicing()
	case inpututil.IsKeyJustPressed(ebiten.KeyC):
		e.sess.ClearDetections()
	case inpututil.IsKeyJustPressed(ebiten.KeyN):
		e.newGroup()
	case inpututil.IsKeyJustPressed(ebiten.KeyDelete):
		e.deleteSelected()
	case inpututil.IsKeyJustPressed(ebiten.KeyF2):
		e.renameSelected()
	case inpututil.IsKeyJustPressed(ebiten.KeyE):
		e.exportSelected()
	case inpututil.IsKeyJustPressed(ebiten.KeyA):
		e.exportGIF()
	case inpututil.IsKeyJustPressed(ebiten.KeyF):
		e.canvas.Fit()
	case inpututil.IsKeyJustPressed(ebiten.KeySpace):
		if e.preview != nil {
			e.preview.Toggle()
		} else {
			e.togglePreview()
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) && e.preview != nil:
		e.preview.SetFPS(e.preview.FPS() + 1)
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowDown) && e.preview != nil:
		e.preview.SetFPS(e.preview.FPS() - 1)
	}
}

func (e *Editor) exportDir() string {
	return e.sess.Config().Export.Directory
}

func (e *Editor) promptOpen() {
	label := "Open sprite sheet (" + strings.Join(sheet.OpenExtensions(), " ") + ")"
	e.prompt.Open(label, e.sess.Path(), func(path string) {
		path = strings.TrimSpace(path)
		if !sheet.IsSupported(path) {
			e.setStatus("Unsupported image: %s", path)
			return
		}
		e.setStatus("Loading %s...", filepath.Base(path))
		e.sess.Open(path)
	})
}

func (e *Editor) detect() {
	if err := e.sess.Detect(); err != nil {
		e.setStatus("Load an image first")
	}
}

func (e *Editor) toggleMode() {
	if e.sess.Selection().Mode() == selection.ModeGrid {
		e.sess.SetMode(selection.ModeDetect)
		return
	}
	e.sess.SetMode(selection.ModeGrid)
}

// editSlicing asks for grid and detection settings, for example
// "cell 32x32 pad 0,0 spacing 4,4 min 8x8".
func (e *Editor) editSlicing() {
	cur := e.sess.Config().Slicing()
	e.prompt.Open("Slicing: cell WxH pad X,Y spacing X,Y min WxH method contours|grid", cur.String(), func(text string) {
		next, err := config.ParseSlicing(text, cur)
		if err != nil {
			e.setStatus("Invalid slicing settings: %v", err)
			return
		}
		if err := e.sess.SetGrid(next.Grid.Grid()); err != nil {
			e.setStatus("Invalid grid: %v", err)
			return
		}
		if err := e.sess.SetDetectionOptions(next.Detection.Options()); err != nil {
			e.setStatus("Invalid detection settings: %v", err)
			return
		}
		e.log.Info().Str("slicing", next.String()).Msg("slicing settings changed")
		e.setStatus("Slicing: %s", next)
	})
}

func (e *Editor) newGroup() {
	t := e.sess.Tree()
	var (
		g   *tree.Node
		err error
	)
	if e.selected != nil && e.selected.IsGroup() {
		g, err = t.AddGroup(e.selected, tree.DefaultSubgroupName)
	} else {
		g, err = t.AddGroup(nil, tree.DefaultGroupName)
	}
	if err != nil {
		e.setStatus("Could not create group: %v", err)
		return
	}
	e.selected = g
	e.refresh()
	e.panel.rename.Open(g)
}

func (e *Editor) renameSelected() {
	if e.selected == nil {
		return
	}
	e.panel.rename.Open(e.selected)
}

func (e *Editor) deleteSelected() {
	n := e.selected
	if n == nil {
		return
	}
	msg := e.sess.Tree().DeleteConfirmation(n) + " (y/n)"
	e.prompt.Open(msg, "", func(answer string) {
		if !strings.EqualFold(strings.TrimSpace(answer), "y") {
			return
		}
		if e.preview != nil && e.preview.source == n {
			e.preview = nil
		}
		e.sess.DeleteNode(n)
		e.refresh()
	})
}

func (e *Editor) exportSelected() {
	n := e.selected
	if n == nil {
		e.setStatus("Select a sprite or group to export")
		return
	}
	if n.IsGroup() {
		if err := e.sess.ExportGroup(n, filepath.Join(e.exportDir(), export.FileName(n.Name()))); err != nil {
			e.setStatus("Export failed: %v", err)
		}
		return
	}
	if err := e.sess.ExportSprite(n, filepath.Join(e.exportDir(), export.FileName(n.Name())+".png")); err != nil {
		e.setStatus("Export failed: %v", err)
	}
}

func (e *Editor) exportGIF() {
	n := e.selected
	if n == nil {
		e.setStatus("Select a group to export as GIF")
		return
	}
	dest := filepath.Join(e.exportDir(), export.FileName(n.Name())+".gif")
	e.prompt.Open("Save GIF as", dest, func(path string) {
		e.sess.ExportGIF(n, strings.TrimSpace(path))
	})
}

func (e *Editor) copySelected() {
	n := e.selected
	if n == nil || !n.HasPixels() {
		e.setStatus("Select a sprite to copy")
		return
	}
	if err := e.clip.CopyImage(n.Pixels()); err != nil {
		e.setStatus("Copy failed: %v", err)
		return
	}
	e.setStatus("Copied %s to clipboard", n.Name())
}

func (e *Editor) togglePreview() {
	if e.preview != nil {
		e.preview = nil
		return
	}
	if e.selected == nil {
		e.setStatus("Select a group to preview")
		return
	}
	p := e.sess.Preview(e.selected)
	if p.Len() == 0 {
		e.setStatus("No sprites to preview")
		return
	}
	e.preview = newPreviewView(e.selected, p)
}

func (e *Editor) addDetected() {
	g, err := e.sess.AddDetectionsAsGroup()
	if err != nil {
		e.setStatus("Nothing to add: %v", err)
		return
	}
	e.selected = g
	e.refresh()
}

func (e *Editor) addSelectionTo(g *tree.Node) {
	added, err := e.sess.AddSelectionToGroup(g)
	if err != nil {
		e.setStatus("Could not add to group: %v", err)
		return
	}
	e.setStatus("Added %d sprites to %s", len(added), g.Name())
	e.refresh()
}

// runAction carries out a context menu choice other than "Add to Group".
func (e *Editor) runAction(a selection.Action, menu *selection.Menu) {
	switch a {
	case selection.ActionCreateGroup:
		e.prompt.Open("Group name", tree.DefaultGroupName, func(name string) {
			g, err := e.sess.CreateGroupFromSelection(name)
			if err != nil {
				e.setStatus("Could not create group: %v", err)
				return
			}
			e.selected = g
			e.refresh()
		})
	case selection.ActionEdit:
		if e.selected == nil || !e.selected.IsSprite() {
			e.setStatus("Select a sprite in the tree to edit")
			return
		}
		if err := e.sess.EditSprite(e.selected, menu.Targets[0]); err != nil {
			e.setStatus("Could not edit sprite: %v", err)
			return
		}
		e.refresh()
	case selection.ActionExtract:
		if err := e.sess.ExtractRegion(menu.Targets[0], e.exportDir(), ""); err != nil {
			e.setStatus("Could not extract sprite: %v", err)
		}
	case selection.ActionExportAll:
		if err := e.sess.ExportSelection(filepath.Join(e.exportDir(), "selection")); err != nil {
			e.setStatus("Could not export selection: %v", err)
		}
	}
}

func (e *Editor) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{30, 30, 30, 255})
	e.canvas.Draw(screen, e.sess)

	b := e.canvas.Bounds
	at := image.Pt(b.Min.X+8, b.Max.Y-previewBox-28)
	if e.preview != nil {
		e.preview.Draw(screen, at)
	} else if e.selected.IsSprite() {
		e.thumb.Draw(screen, at, e.selected)
	}
	mode := e.sess.Selection().Mode().String()
	if e.sess.Loading() {
		mode += "  loading..."
	}
	if e.sess.Detecting() {
		mode += "  detecting..."
	}
	ebitenutil.DebugPrintAt(screen, "mode: "+mode, b.Min.X+8, b.Min.Y+4)
	ebitenutil.DebugPrintAt(screen, helpText, b.Min.X+8, b.Max.Y-18)

	e.panel.UI.Draw(screen)
	e.prompt.Draw(screen, b.Min.X+40, b.Min.Y+40, b.Dx()-80)
}

func (e *Editor) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != e.width || outsideHeight != e.height {
		e.width, e.height = outsideWidth, outsideHeight
		e.canvas.Bounds = image.Rect(0, 0, max(outsideWidth-panelWidth, 1), outsideHeight)
		e.canvas.Fit()
	}
	return outsideWidth, outsideHeight
}
