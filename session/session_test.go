package session

import (
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/milk9111/spriteslicer/config"
	"github.com/milk9111/spriteslicer/detect"
	"github.com/milk9111/spriteslicer/selection"
	"github.com/milk9111/spriteslicer/sheet"
	"github.com/milk9111/spriteslicer/tree"
)

func blobs(rects ...image.Rectangle) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 64, 64))
	for _, r := range rects {
		for y := r.Min.Y; y < r.Max.Y; y++ {
			for x := r.Min.X; x < r.Max.X; x++ {
				img.SetNRGBA(x, y, color.NRGBA{R: 255, G: 128, A: 255})
			}
		}
	}
	return img
}

func twoBlobs() *image.NRGBA {
	return blobs(image.Rect(2, 2, 14, 14), image.Rect(30, 20, 50, 40))
}

func newSession(t *testing.T) *Session {
	t.Helper()
	cfg := config.Default()
	cfg.Workers = 2
	cfg.WatchSheet = false
	cfg.Grid = config.GridSpec{CellWidth: 16, CellHeight: 16}
	s, err := New(cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	t.Cleanup(s.Close)
	return s
}

func TestOpenLoadsInBackground(t *testing.T) {
	s := newSession(t)
	path := filepath.Join(t.TempDir(), "sheet.png")
	if _, err := sheet.Save(path, twoBlobs(), 0); err != nil {
		t.Fatal(err)
	}

	s.Open(path)
	if !s.Loading() || s.Sheet() != nil {
		t.Fatalf("open should not block on decoding")
	}
	s.Wait()
	if s.Sheet() == nil || s.Loading() {
		t.Fatalf("sheet should be installed after wait")
	}
	if s.Status() != "Loaded: sheet.png" {
		t.Fatalf("unexpected status %q", s.Status())
	}
}

func TestOpenFailureKeepsSessionUsable(t *testing.T) {
	s := newSession(t)
	s.Open(filepath.Join(t.TempDir(), "missing.png"))
	s.Wait()
	if s.Sheet() != nil {
		t.Fatalf("no sheet expected")
	}
	if !strings.HasPrefix(s.Status(), "Could not load image") {
		t.Fatalf("unexpected status %q", s.Status())
	}
	if err := s.Detect(); !errors.Is(err, ErrNoSheet) {
		t.Fatalf("detect without a sheet should fail, got %v", err)
	}
}

func TestDetectionResults(t *testing.T) {
	s := newSession(t)
	s.SetSheet(sheet.NewSurface(twoBlobs(), ""))
	if err := s.Detect(); err != nil {
		t.Fatalf("detect: %v", err)
	}
	if !s.Detecting() {
		t.Fatalf("expected detecting flag")
	}
	s.Wait()

	got := s.Selection().Detections()
	want := []sheet.Rect{{X: 2, Y: 2, W: 12, H: 12}, {X: 30, Y: 20, W: 20, H: 20}}
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("unexpected detections %v", got)
	}
	if s.Selection().Mode() != selection.ModeDetect {
		t.Fatalf("detections should switch to detect mode")
	}
	if s.Status() != "Auto-detected 2 sprites. Click on them to work with them." {
		t.Fatalf("unexpected status %q", s.Status())
	}

	s.ClearDetections()
	if len(s.Selection().Detections()) != 0 || s.Status() != "Cleared all detections." {
		t.Fatalf("clear failed: %q", s.Status())
	}
}

func TestDetectionNothingFound(t *testing.T) {
	s := newSession(t)
	s.SetSheet(sheet.NewSurface(blobs(), ""))
	s.Detect()
	s.Wait()
	if s.Status() != "No sprites detected in the image." || s.Detecting() {
		t.Fatalf("unexpected status %q", s.Status())
	}
}

func TestStaleDetectionIsDiscarded(t *testing.T) {
	s := newSession(t)
	s.SetSheet(sheet.NewSurface(twoBlobs(), ""))
	s.Detect()
	s.SetSheet(sheet.NewSurface(blobs(), ""))
	s.Wait()

	if n := len(s.Selection().Detections()); n != 0 {
		t.Fatalf("results from the previous sheet must be dropped, got %d", n)
	}
	if s.Selection().Mode() != selection.ModeGrid {
		t.Fatalf("stale results must not change the mode")
	}
}

func TestCreateGroupFromSelection(t *testing.T) {
	s := newSession(t)
	s.SetSheet(sheet.NewSurface(twoBlobs(), ""))
	s.Click(selection.Click{X: 5, Y: 5, Multi: true})
	s.Click(selection.Click{X: 35, Y: 20, Multi: true})

	g, err := s.CreateGroupFromSelection("Walk")
	if err != nil {
		t.Fatalf("create group: %v", err)
	}
	kids := g.Children()
	if len(kids) != 2 || kids[0].Name() != "Walk 1" || kids[1].Region() != (sheet.Rect{X: 32, Y: 16, W: 16, H: 16}) {
		t.Fatalf("unexpected children")
	}
	if !kids[0].HasPixels() || kids[0].Thumbnail() == nil {
		t.Fatalf("sprites should carry pixels and thumbnails")
	}
	if len(s.Selection().Targets()) != 0 {
		t.Fatalf("selection should be cleared after the move")
	}
}

func TestAddSelectionToInvalidTarget(t *testing.T) {
	s := newSession(t)
	s.SetSheet(sheet.NewSurface(twoBlobs(), ""))
	g, _ := s.Tree().AddGroup(nil, "G")
	sp, _ := s.Tree().AddSprite(g, sheet.Rect{W: 4, H: 4}, nil)

	s.Click(selection.Click{X: 5, Y: 5})
	if _, err := s.AddSelectionToGroup(sp); !errors.Is(err, tree.ErrInvalidTarget) {
		t.Fatalf("expected invalid target, got %v", err)
	}
	if len(s.Selection().Targets()) != 1 {
		t.Fatalf("a failed move must keep the selection")
	}
	added, err := s.AddSelectionToGroup(g)
	if err != nil || len(added) != 1 || added[0].Name() != "G 2" {
		t.Fatalf("expected G 2, got %v, %v", added, err)
	}
}

func TestAddDetectionsAsGroup(t *testing.T) {
	s := newSession(t)
	s.SetSheet(sheet.NewSurface(twoBlobs(), ""))
	if _, err := s.AddDetectionsAsGroup(); err == nil {
		t.Fatalf("expected error without detections")
	}
	s.Detect()
	s.Wait()
	g, err := s.AddDetectionsAsGroup()
	if err != nil {
		t.Fatalf("add detections: %v", err)
	}
	if g.Name() != tree.DetectedGroupName || g.Len() != 2 {
		t.Fatalf("unexpected group %q with %d children", g.Name(), g.Len())
	}
}

func TestExportGroupReportsSummary(t *testing.T) {
	s := newSession(t)
	s.SetSheet(sheet.NewSurface(twoBlobs(), ""))
	g, _ := s.Tree().AddGroup(nil, "Walk")
	s.Tree().AddSprite(g, sheet.Rect{X: 2, Y: 2, W: 12, H: 12}, s.Sheet().Crop(sheet.Rect{X: 2, Y: 2, W: 12, H: 12}))
	s.Tree().AddSprite(g, sheet.Rect{X: 30, Y: 20, W: 20, H: 20}, nil)

	dir := t.TempDir()
	if err := s.ExportGroup(g, dir); err != nil {
		t.Fatalf("export: %v", err)
	}
	s.Wait()
	if !strings.HasPrefix(s.Status(), "Exported 1 of 2 sprites") {
		t.Fatalf("unexpected status %q", s.Status())
	}
	if _, err := os.Stat(filepath.Join(dir, "Walk 1.png")); err != nil {
		t.Fatalf("expected Walk 1.png: %v", err)
	}
}

func TestExportSpriteRejectsInvalidTargets(t *testing.T) {
	s := newSession(t)
	s.SetSheet(sheet.NewSurface(twoBlobs(), ""))
	g, _ := s.Tree().AddGroup(nil, "Walk")
	r := sheet.Rect{X: 2, Y: 2, W: 12, H: 12}
	sp, _ := s.Tree().AddSprite(g, r, s.Sheet().Crop(r))
	other := tree.New()
	og, _ := other.AddGroup(nil, "Other")
	foreign, _ := other.AddSprite(og, r, s.Sheet().Crop(r))

	dir := t.TempDir()
	for name, n := range map[string]*tree.Node{"nil": nil, "group": g, "other tree": foreign} {
		if err := s.ExportSprite(n, filepath.Join(dir, "x.png")); !errors.Is(err, tree.ErrInvalidTarget) {
			t.Fatalf("%s: expected invalid target, got %v", name, err)
		}
	}
	if s.Wait() != 0 {
		t.Fatalf("rejected exports must not queue work")
	}

	dest := filepath.Join(dir, "walk.png")
	if err := s.ExportSprite(sp, dest); err != nil {
		t.Fatalf("export sprite: %v", err)
	}
	s.Wait()
	if _, err := os.Stat(dest); err != nil {
		t.Fatalf("expected %s: %v", dest, err)
	}
}

func TestSetGridChangesHits(t *testing.T) {
	s := newSession(t)
	s.SetSheet(sheet.NewSurface(twoBlobs(), ""))
	if err := s.SetGrid(selection.Grid{CellW: 0, CellH: 8}); err == nil {
		t.Fatalf("expected an error for an empty cell")
	}

	g := selection.Grid{CellW: 20, CellH: 20, PadX: 2, PadY: 2, SpacingX: 4, SpacingY: 4}
	if err := s.SetGrid(g); err != nil {
		t.Fatalf("set grid: %v", err)
	}
	s.Click(selection.Click{X: 30, Y: 30})
	got, ok := s.Selection().Single()
	if want := (sheet.Rect{X: 26, Y: 26, W: 20, H: 20}); !ok || got != want {
		t.Fatalf("expected %v, got %v (%v)", want, got, ok)
	}
	if s.Config().Grid.Grid() != g {
		t.Fatalf("config should carry the new grid, got %+v", s.Config().Grid)
	}
	if _, ok := s.Selection().Hit(1, 1); ok {
		t.Fatalf("padding should not be a cell")
	}
}

func TestSetDetectionOptionsAffectsDetect(t *testing.T) {
	s := newSession(t)
	s.SetSheet(sheet.NewSurface(twoBlobs(), ""))
	if err := s.SetDetectionOptions(detect.Options{MinWidth: 0, MinHeight: 4}); err == nil {
		t.Fatalf("expected an error for a zero minimum")
	}
	if err := s.SetDetectionOptions(detect.Options{MinWidth: 1, MinHeight: 1, Method: "magic"}); err == nil {
		t.Fatalf("expected an error for an unknown method")
	}

	if err := s.SetDetectionOptions(detect.Options{MinWidth: 16, MinHeight: 16}); err != nil {
		t.Fatalf("set detection: %v", err)
	}
	if o := s.DetectionOptions(); o.MinWidth != 16 || o.Method != detect.Contours {
		t.Fatalf("unexpected options %+v", o)
	}
	s.Detect()
	s.Wait()
	got := s.Selection().Detections()
	if len(got) != 1 || got[0] != (sheet.Rect{X: 30, Y: 20, W: 20, H: 20}) {
		t.Fatalf("the 12x12 blob should be below the minimum, got %v", got)
	}
}

func TestExportGIFWithoutFrames(t *testing.T) {
	s := newSession(t)
	g, _ := s.Tree().AddGroup(nil, "Empty")
	s.ExportGIF(g, filepath.Join(t.TempDir(), "a.gif"))
	s.Wait()
	if s.Status() != "Export failed: No sprites found for GIF export" {
		t.Fatalf("unexpected status %q", s.Status())
	}
}

func TestEditSpriteRecropsPixels(t *testing.T) {
	s := newSession(t)
	s.SetSheet(sheet.NewSurface(twoBlobs(), ""))
	g, _ := s.Tree().AddGroup(nil, "G")
	sp, _ := s.Tree().AddSprite(g, sheet.Rect{W: 4, H: 4}, nil)
	if err := s.EditSprite(sp, sheet.Rect{X: 30, Y: 20, W: 20, H: 10}); err != nil {
		t.Fatalf("edit: %v", err)
	}
	if !sp.HasPixels() || sp.Pixels().Bounds().Dx() != 20 || sp.Pixels().Bounds().Dy() != 10 {
		t.Fatalf("edit should re-extract pixels")
	}
}

func TestPreviewCycles(t *testing.T) {
	s := newSession(t)
	s.SetSheet(sheet.NewSurface(twoBlobs(), ""))
	g, _ := s.Tree().AddGroup(nil, "Anim")
	for i := 0; i < 3; i++ {
		r := sheet.Rect{X: i * 16, W: 16, H: 16}
		s.Tree().AddSprite(g, r, s.Sheet().Crop(r))
	}
	p := s.Preview(g)
	if p.Len() != 3 || p.FPS() != 10 || !p.Playing() {
		t.Fatalf("unexpected preview len=%d fps=%d", p.Len(), p.FPS())
	}
	if p.Advance(50 * time.Millisecond) {
		t.Fatalf("half a frame should not advance")
	}
	if !p.Advance(50*time.Millisecond) || p.Index() != 1 {
		t.Fatalf("expected frame 1, got %d", p.Index())
	}
	p.Advance(200 * time.Millisecond)
	if p.Index() != 0 {
		t.Fatalf("expected wrap to frame 0, got %d", p.Index())
	}
	p.SetFPS(99)
	if p.FPS() != config.MaxFPS {
		t.Fatalf("fps should clamp, got %d", p.FPS())
	}
	p.Pause()
	if p.Advance(time.Second) {
		t.Fatalf("paused preview should not advance")
	}
}
