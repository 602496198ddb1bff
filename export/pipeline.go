package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/milk9111/spriteslicer/sheet"
	"github.com/milk9111/spriteslicer/tree"
)

const (
	OpSingle    = "sprite"
	OpGroup     = "group"
	OpGIF       = "gif"
	OpSelection = "selection"
	OpRegion    = "region"
)

const DefaultFrameDelay = 100 * time.Millisecond

var errNoPixels = errors.New("sprite has no pixel data")

// Item is a sprite snapshot taken on the interactive goroutine so exports
// can run without touching the tree.
type Item struct {
	Name   string
	Pixels image.Image
}

func (it Item) valid() bool {
	return it.Pixels != nil && !it.Pixels.Bounds().Empty()
}

func ItemOf(n *tree.Node) Item {
	it := Item{Name: n.Name()}
	if n.HasPixels() {
		it.Pixels = n.Pixels()
	}
	return it
}

// GroupItems snapshots the direct sprite children of g. Subgroups are not
// descended into.
func GroupItems(t *tree.Tree, g *tree.Node) ([]Item, error) {
	if !t.IsGroup(g) {
		return nil, ErrInvalidTarget
	}
	var items []Item
	for _, c := range g.Children() {
		if c.IsGroup() {
			continue
		}
		items = append(items, ItemOf(c))
	}
	return items, nil
}

// Frames snapshots every sprite under n, recursively, in animation order.
func Frames(t *tree.Tree, n *tree.Node) []image.Image {
	return t.Frames(n)
}

type Pipeline struct {
	log zerolog.Logger

	// Animate encodes GIF exports. Nil means no encoder is available.
	Animate     sheet.AnimationEncoder
	FrameDelay  time.Duration
	JPEGQuality int

	// Progress, when set, is called after every item of a batch.
	Progress func(done, total int)
}

func New(log zerolog.Logger) *Pipeline {
	return &Pipeline{
		log:         log.With().Str("component", "export").Logger(),
		Animate:     sheet.EncodeGIF,
		FrameDelay:  DefaultFrameDelay,
		JPEGQuality: sheet.JPEGQuality,
	}
}

func (p *Pipeline) progress(done, total int) {
	if p.Progress != nil {
		p.Progress(done, total)
	}
}

// Single writes one sprite to dest as PNG, or JPEG for .jpg/.jpeg. A sprite
// without pixels is skipped without writing anything.
func (p *Pipeline) Single(it Item, dest string) (Summary, error) {
	sum := Summary{Op: OpSingle, Target: dest, Total: 1}
	if !it.valid() {
		p.log.Debug().Str("sprite", it.Name).Msg("nothing to export")
		sum.Total = 0
		return sum, nil
	}
	if dest == "" {
		return sum, ErrNoDestination
	}
	n, err := sheet.Save(dest, it.Pixels, p.JPEGQuality)
	if err != nil {
		return sum, newError(KindEncode, it.Name, err)
	}
	sum.Written = append(sum.Written, dest)
	sum.Bytes = n
	p.log.Info().Str("sprite", it.Name).Str("path", dest).Msg("sprite exported")
	return sum, nil
}

// Group writes every item to <dir>/<name>.png. Items that fail are logged
// and skipped. Names that collide within the batch get a _1, _2 suffix.
func (p *Pipeline) Group(ctx context.Context, items []Item, dir string) (Summary, error) {
	sum := Summary{Op: OpGroup, Target: dir, Total: len(items)}
	if dir == "" {
		return sum, ErrNoDestination
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return sum, newError(KindNoDestination, dir, err)
	}
	used := make(map[string]bool, len(items))
	for i, it := range items {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		path := filepath.Join(dir, uniqueStem(used, FileName(it.Name))+".png")
		p.write(&sum, it.Name, path, it.Pixels, it.valid())
		p.progress(i+1, len(items))
	}
	p.logSummary(sum)
	return sum, nil
}

// GIF encodes frames as a looping animation at dest.
func (p *Pipeline) GIF(frames []image.Image, dest string) (Summary, error) {
	sum := Summary{Op: OpGIF, Target: dest, Total: len(frames)}
	if dest == "" {
		return sum, ErrNoDestination
	}
	var usable []image.Image
	for _, f := range frames {
		if f != nil && !f.Bounds().Empty() {
			usable = append(usable, f)
		}
	}
	if len(usable) == 0 {
		return sum, ErrNoFrames
	}
	if p.Animate == nil {
		return sum, ErrMissingCodec
	}
	delay := p.FrameDelay
	if delay <= 0 {
		delay = DefaultFrameDelay
	}

	var buf bytes.Buffer
	if err := p.Animate(&buf, usable, delay); err != nil {
		if errors.Is(err, sheet.ErrMissingCodec) {
			return sum, newError(KindMissingCodec, ErrMissingCodec.Message, err)
		}
		return sum, newError(KindEncode, "gif", err)
	}
	if dir := filepath.Dir(dest); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return sum, newError(KindNoDestination, dest, err)
		}
	}
	if err := os.WriteFile(dest, buf.Bytes(), 0o644); err != nil {
		return sum, newError(KindEncode, dest, err)
	}
	sum.Written = []string{dest}
	sum.Bytes = int64(buf.Len())
	p.log.Info().Int("frames", len(usable)).Str("path", dest).Msg("gif exported")
	return sum, nil
}

// Selection crops each region from src and writes sprite_NNN.png in
// iteration order. Regions that cannot be extracted are skipped.
func (p *Pipeline) Selection(ctx context.Context, src *sheet.Surface, regions []sheet.Rect, dir string) (Summary, error) {
	sum := Summary{Op: OpSelection, Target: dir, Total: len(regions)}
	if src == nil {
		return sum, ErrNoSource
	}
	if dir == "" {
		return sum, ErrNoDestination
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return sum, newError(KindNoDestination, dir, err)
	}
	for i, r := range regions {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		name := SelectionFileName(i)
		crop := src.Crop(r)
		p.write(&sum, name, filepath.Join(dir, name), crop, crop != nil)
		p.progress(i+1, len(regions))
	}
	p.logSummary(sum)
	return sum, nil
}

// ExtractAndSave crops one region from src to dest. An empty dest falls
// back to DefaultRegionFileName inside dir.
func (p *Pipeline) ExtractAndSave(src *sheet.Surface, r sheet.Rect, dir, dest string) (Summary, error) {
	if src == nil {
		return Summary{Op: OpRegion}, ErrNoSource
	}
	if dest == "" {
		if dir == "" {
			return Summary{Op: OpRegion}, ErrNoDestination
		}
		dest = filepath.Join(dir, DefaultRegionFileName(r))
	}
	crop := src.Crop(r)
	if crop == nil {
		return Summary{Op: OpRegion, Target: dest}, newError(KindNoSource, r.String(), errNoPixels)
	}
	sum, err := p.Single(Item{Name: r.String(), Pixels: crop}, dest)
	sum.Op = OpRegion
	return sum, err
}

func (p *Pipeline) write(sum *Summary, name, path string, img image.Image, ok bool) {
	if !ok {
		p.fail(sum, name, errNoPixels)
		return
	}
	n, err := sheet.Save(path, img, p.JPEGQuality)
	if err != nil {
		p.fail(sum, name, err)
		return
	}
	sum.Written = append(sum.Written, path)
	sum.Bytes += n
}

func (p *Pipeline) fail(sum *Summary, name string, err error) {
	p.log.Warn().Err(err).Str("sprite", name).Msg("export skipped")
	sum.Failed = append(sum.Failed, Failure{Name: name, Err: err})
}

func (p *Pipeline) logSummary(sum Summary) {
	p.log.Info().
		Str("op", sum.Op).
		Int("written", sum.Succeeded()).
		Int("failed", len(sum.Failed)).
		Int64("bytes", sum.Bytes).
		Str("target", sum.Target).
		Msg("export finished")
}

func SelectionFileName(i int) string {
	return fmt.Sprintf("sprite_%03d.png", i)
}

func DefaultRegionFileName(r sheet.Rect) string {
	return fmt.Sprintf("sprite_%d_%d_%dx%d.png", r.X, r.Y, r.W, r.H)
}

var nameReplacer = strings.NewReplacer(
	"/", "_", `\`, "_", ":", "_", "*", "_", "?", "_",
	`"`, "_", "<", "_", ">", "_", "|", "_",
)

// uniqueStem reserves stem in used, appending _N until it is free.
// Comparison ignores case so batches behave the same on case-insensitive
// file systems.
func uniqueStem(used map[string]bool, stem string) string {
	candidate := stem
	for n := 1; used[strings.ToLower(candidate)]; n++ {
		candidate = fmt.Sprintf("%s_%d", stem, n)
	}
	used[strings.ToLower(candidate)] = true
	return candidate
}

// FileName turns a sprite name into a safe file stem.
func FileName(name string) string {
	s := strings.TrimSpace(nameReplacer.Replace(name))
	if s == "" || s == "." || s == ".." {
		return "sprite"
	}
	return s
}
