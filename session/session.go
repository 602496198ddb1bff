package session

import (
	"context"
	"errors"
	"fmt"
	"image"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/milk9111/spriteslicer/config"
	"github.com/milk9111/spriteslicer/detect"
	"github.com/milk9111/spriteslicer/export"
	"github.com/milk9111/spriteslicer/jobs"
	"github.com/milk9111/spriteslicer/naming"
	"github.com/milk9111/spriteslicer/selection"
	"github.com/milk9111/spriteslicer/sheet"
	"github.com/milk9111/spriteslicer/tree"
)

var ErrNoSheet = errors.New("session: no sheet loaded")

// Session is the editing state behind the UI. Every method must be called
// from the interactive goroutine; background work goes through the pool and
// comes back through Tick.
type Session struct {
	cfg      config.Config
	log      zerolog.Logger
	pool     *jobs.Pool
	exporter *export.Pipeline
	tree     *tree.Tree
	sel      *selection.State

	sheet      *sheet.Surface
	path       string
	generation uint64
	loading    bool
	detecting  bool

	watcher *sheet.Watcher
	status  string
}

func New(cfg config.Config, log zerolog.Logger) (*Session, error) {
	cfg.Validate()

	var namer tree.Namer = tree.DefaultNamer
	if cfg.NamingScript != "" {
		script, err := naming.Load(cfg.NamingScript, log)
		if err != nil {
			return nil, err
		}
		namer = script
	}

	exporter := export.New(log)
	exporter.JPEGQuality = cfg.Export.JPEGQuality
	exporter.FrameDelay = cfg.Export.FrameDelay()

	pool := jobs.NewPool(cfg.Workers, log)
	log.Debug().Int("workers", pool.Workers()).Msg("background pool started")

	return &Session{
		cfg:      cfg,
		log:      log.With().Str("component", "session").Logger(),
		pool:     pool,
		exporter: exporter,
		tree: tree.New(
			tree.WithNamer(namer),
			tree.WithThumbnailSize(cfg.ThumbnailSize),
			tree.WithLogger(log),
		),
		sel: selection.NewState(cfg.Grid.Grid()),
	}, nil
}

func (s *Session) Close() {
	if s.watcher != nil {
		_ = s.watcher.Close()
		s.watcher = nil
	}
	s.pool.Close()
}

func (s *Session) Config() config.Config       { return s.cfg }
func (s *Session) Tree() *tree.Tree            { return s.tree }
func (s *Session) Selection() *selection.State { return s.sel }
func (s *Session) Exporter() *export.Pipeline  { return s.exporter }
func (s *Session) Sheet() *sheet.Surface       { return s.sheet }
func (s *Session) Path() string                { return s.path }
func (s *Session) Generation() uint64          { return s.generation }
func (s *Session) Loading() bool               { return s.loading }
func (s *Session) Detecting() bool             { return s.detecting }

// Status is the latest user-facing message.
func (s *Session) Status() string { return s.status }

// SetStatus replaces the status line with a message from the UI shell.
func (s *Session) SetStatus(msg string) { s.setStatus("%s", msg) }

func (s *Session) setStatus(format string, args ...any) {
	s.status = fmt.Sprintf(format, args...)
	s.log.Info().Msg(s.status)
}

// Open starts loading path in the background. Results for the previous
// sheet that arrive afterwards are dropped.
func (s *Session) Open(path string) {
	s.generation++
	s.loading = true
	s.detecting = false
	gen := s.generation
	s.pool.Submit(jobs.KindLoad, gen, func(ctx context.Context) (any, error) {
		return sheet.Decode(path)
	})
}

// SetSheet installs an already decoded sheet synchronously.
func (s *Session) SetSheet(surf *sheet.Surface) {
	s.generation++
	s.loading = false
	s.detecting = false
	s.install(surf)
}

func (s *Session) install(surf *sheet.Surface) {
	s.sheet = surf
	s.path = surf.Path()
	s.sel.SetBounds(surf.Bounds())
	s.sel.ClearDetections()
	s.watch()
	if s.path != "" {
		s.setStatus("Loaded: %s", filepath.Base(s.path))
	}
}

func (s *Session) watch() {
	if !s.cfg.WatchSheet || s.path == "" {
		return
	}
	if s.watcher != nil {
		if s.watcher.Path() == mustAbs(s.path) {
			return
		}
		_ = s.watcher.Close()
		s.watcher = nil
	}
	w, err := sheet.NewWatcher(s.path)
	if err != nil {
		s.log.Warn().Err(err).Str("path", s.path).Msg("cannot watch sheet")
		return
	}
	s.watcher = w
}

func mustAbs(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

// Detect runs sprite detection on the loaded sheet in the background.
func (s *Session) Detect() error {
	if s.sheet == nil {
		return ErrNoSheet
	}
	s.detecting = true
	s.setStatus("Detecting sprites...")
	s.pool.Submit(jobs.KindDetect, s.generation, detect.Task(s.log, s.sheet, s.cfg.Detection.Options()))
	return nil
}

func (s *Session) ClearDetections() {
	s.sel.ClearDetections()
	s.setStatus("Cleared all detections.")
}

func (s *Session) SetMode(m selection.Mode) {
	s.sel.SetMode(m)
	if m == selection.ModeDetect {
		s.setStatus("Auto-detection mode enabled")
		return
	}
	s.setStatus("Grid mode enabled")
}

// SetGrid changes the grid layout used for grid-mode hits and overlays.
func (s *Session) SetGrid(g selection.Grid) error {
	if !g.Valid() {
		return fmt.Errorf("session: invalid grid %+v", g)
	}
	s.cfg.Grid = config.GridSpec{
		CellWidth:  g.CellW,
		CellHeight: g.CellH,
		PaddingX:   g.PadX,
		PaddingY:   g.PadY,
		SpacingX:   g.SpacingX,
		SpacingY:   g.SpacingY,
	}
	s.sel.SetGrid(g)
	s.setStatus("Grid: %dx%d cells, padding %d,%d, spacing %d,%d", g.CellW, g.CellH, g.PadX, g.PadY, g.SpacingX, g.SpacingY)
	return nil
}

// SetDetectionOptions changes the settings used by the next Detect.
// Sizes below one pixel and unknown methods are rejected.
func (s *Session) SetDetectionOptions(opts detect.Options) error {
	if opts.MinWidth < 1 || opts.MinHeight < 1 {
		return fmt.Errorf("session: minimum sprite size must be at least 1x1, got %dx%d", opts.MinWidth, opts.MinHeight)
	}
	switch opts.Method {
	case "":
		opts.Method = detect.Contours
	case detect.Contours, detect.GridLines:
	default:
		return fmt.Errorf("session: unknown detection method %q", opts.Method)
	}
	s.cfg.Detection = config.DetectionSpec{
		Method:    string(opts.Method),
		MinWidth:  opts.MinWidth,
		MinHeight: opts.MinHeight,
	}
	s.setStatus("Detection: %s, minimum %dx%d", opts.Method, opts.MinWidth, opts.MinHeight)
	return nil
}

// DetectionOptions reports the settings Detect will use.
func (s *Session) DetectionOptions() detect.Options { return s.cfg.Detection.Options() }

func (s *Session) Click(c selection.Click) selection.Outcome {
	return s.sel.HandleClick(c)
}

// Tick applies finished background results. It returns how many results
// were applied; stale ones are dropped.
func (s *Session) Tick() int {
	s.pollWatcher()
	select {
	case <-s.pool.Notify():
	default:
		return 0
	}
	applied := 0
	for _, r := range s.pool.Drain() {
		if s.apply(r) {
			applied++
		}
	}
	return applied
}

// Wait blocks until background work settles and applies it. Intended for
// batch tools and tests, not the UI loop.
func (s *Session) Wait() int {
	n := 0
	for {
		s.pool.Wait()
		got := s.Tick()
		n += got
		if got == 0 {
			return n
		}
	}
}

func (s *Session) pollWatcher() {
	if s.watcher == nil {
		return
	}
	for {
		select {
		case path, ok := <-s.watcher.Events:
			if !ok {
				s.watcher = nil
				return
			}
			s.log.Info().Str("path", path).Msg("sheet changed on disk, reloading")
			s.Open(path)
		case err, ok := <-s.watcher.Errors:
			if !ok {
				s.watcher = nil
				return
			}
			s.log.Warn().Err(err).Msg("sheet watcher error")
		default:
			return
		}
	}
}

func (s *Session) apply(r jobs.Result) bool {
	switch r.Kind {
	case jobs.KindLoad, jobs.KindDetect:
		if r.Generation != s.generation {
			s.log.Debug().Str("kind", string(r.Kind)).Uint64("generation", r.Generation).Msg("discarding stale result")
			return false
		}
	}

	switch r.Kind {
	case jobs.KindLoad:
		s.loading = false
		if r.Err != nil {
			s.log.Error().Err(r.Err).Msg("could not load image")
			s.setStatus("Could not load image: %v", r.Err)
			return true
		}
		surf, ok := r.Value.(*sheet.Surface)
		if !ok || surf == nil {
			s.setStatus("Could not load image")
			return true
		}
		s.install(surf)

	case jobs.KindDetect:
		s.detecting = false
		rects, _ := r.Value.([]sheet.Rect)
		if r.Err != nil {
			s.sel.SetDetections(nil)
			s.setStatus("Could not detect sprites: %v", r.Err)
			return true
		}
		s.sel.SetDetections(rects)
		if len(rects) == 0 {
			s.setStatus("No sprites detected in the image.")
			return true
		}
		s.sel.SetMode(selection.ModeDetect)
		s.setStatus("Auto-detected %d sprites. Click on them to work with them.", len(rects))

	case jobs.KindExport, jobs.KindGIF:
		if r.Err != nil {
			s.setStatus("Export failed: %s", exportMessage(r.Err))
			return true
		}
		if sum, ok := r.Value.(export.Summary); ok {
			s.status = sum.Message()
			s.log.Info().Str("op", sum.Op).Int("written", sum.Succeeded()).Msg("export done")
		}
	}
	return true
}

func exportMessage(err error) string {
	var ee *export.Error
	if errors.As(err, &ee) {
		return ee.Message
	}
	return err.Error()
}

func (s *Session) extracts(regions []sheet.Rect) []tree.Extract {
	out := make([]tree.Extract, 0, len(regions))
	for _, r := range regions {
		var px image.Image
		if c := s.sheet.Crop(r); c != nil {
			px = c
		}
		out = append(out, tree.Extract{Region: r, Pixels: px})
	}
	return out
}

// CreateGroupFromSelection makes a new root group from the current targets.
func (s *Session) CreateGroupFromSelection(name string) (*tree.Node, error) {
	if s.sheet == nil {
		return nil, ErrNoSheet
	}
	targets := s.sel.Targets()
	if len(targets) == 0 {
		return nil, fmt.Errorf("%w: nothing selected", tree.ErrInvalidTarget)
	}
	g, err := s.tree.AddGroupWithSprites(name, s.extracts(targets))
	if err != nil {
		return nil, err
	}
	s.sel.CommitMove()
	return g, nil
}

// AddSelectionToGroup moves the current targets into an existing group.
func (s *Session) AddSelectionToGroup(g *tree.Node) ([]*tree.Node, error) {
	if s.sheet == nil {
		return nil, ErrNoSheet
	}
	added, err := s.tree.MoveSpritesToGroup(s.extracts(s.sel.Targets()), g)
	if err != nil {
		return nil, err
	}
	s.sel.CommitMove()
	return added, nil
}

// AddDetectionsAsGroup stores every current detection under "Detected Sprites".
func (s *Session) AddDetectionsAsGroup() (*tree.Node, error) {
	if s.sheet == nil {
		return nil, ErrNoSheet
	}
	rects := s.sel.Detections()
	if len(rects) == 0 {
		return nil, fmt.Errorf("%w: no detections", tree.ErrInvalidTarget)
	}
	return s.tree.AddDetectedGroup(s.extracts(rects))
}

// EditSprite points a sprite at a new region of the sheet.
func (s *Session) EditSprite(n *tree.Node, r sheet.Rect) error {
	if s.sheet == nil {
		return ErrNoSheet
	}
	var px image.Image
	if c := s.sheet.Crop(r); c != nil {
		px = c
	}
	return s.tree.UpdateRegion(n, r, px)
}

func (s *Session) DeleteNode(n *tree.Node) bool {
	name := ""
	if n != nil {
		name = n.Name()
	}
	if !s.tree.Delete(n) {
		return false
	}
	s.setStatus("Deleted %s", name)
	return true
}

// ExportSprite writes one sprite node to dest in the background.
func (s *Session) ExportSprite(n *tree.Node, dest string) error {
	if !n.IsSprite() || s.tree.Find(n.ID()) != n {
		return fmt.Errorf("%w: export sprite", tree.ErrInvalidTarget)
	}
	it := export.ItemOf(n)
	s.submitExport(jobs.KindExport, func(ctx context.Context) (any, error) {
		return s.exporter.Single(it, dest)
	})
	return nil
}

func (s *Session) ExportGroup(g *tree.Node, dir string) error {
	items, err := export.GroupItems(s.tree, g)
	if err != nil {
		return err
	}
	s.submitExport(jobs.KindExport, func(ctx context.Context) (any, error) {
		return s.exporter.Group(ctx, items, dir)
	})
	return nil
}

func (s *Session) ExportGIF(n *tree.Node, dest string) {
	frames := export.Frames(s.tree, n)
	s.submitExport(jobs.KindGIF, func(ctx context.Context) (any, error) {
		return s.exporter.GIF(frames, dest)
	})
}

func (s *Session) ExportSelection(dir string) error {
	if s.sheet == nil {
		return ErrNoSheet
	}
	src, targets := s.sheet, s.sel.Targets()
	s.submitExport(jobs.KindExport, func(ctx context.Context) (any, error) {
		return s.exporter.Selection(ctx, src, targets, dir)
	})
	return nil
}

func (s *Session) ExtractRegion(r sheet.Rect, dir, dest string) error {
	if s.sheet == nil {
		return ErrNoSheet
	}
	src := s.sheet
	s.submitExport(jobs.KindExport, func(ctx context.Context) (any, error) {
		return s.exporter.ExtractAndSave(src, r, dir, dest)
	})
	return nil
}

func (s *Session) submitExport(kind jobs.Kind, fn jobs.Func) {
	s.setStatus("Exporting...")
	s.pool.Submit(kind, s.generation, fn)
}

// Preview builds an animation preview of every sprite under n.
func (s *Session) Preview(n *tree.Node) *Preview {
	return NewPreview(s.tree.Frames(n), s.cfg.Preview.FPS)
}
