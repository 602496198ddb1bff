package detect

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/milk9111/spriteslicer/jobs"
	"github.com/milk9111/spriteslicer/sheet"
)

type Method string

const (
	Contours  Method = "contours"
	GridLines Method = "grid"
)

// lumaThreshold: any greyscale value above it is foreground.
const lumaThreshold = 0

const gridIterations = 2

type Options struct {
	MinWidth  int
	MinHeight int
	Method    Method
}

func DefaultOptions() Options {
	return Options{MinWidth: 8, MinHeight: 8, Method: Contours}
}

// Detect proposes sprite regions for s, sorted top-to-bottom then
// left-to-right, dropping anything smaller than the minimum size.
func Detect(s *sheet.Surface, opts Options) ([]sheet.Rect, error) {
	if s == nil {
		return []sheet.Rect{}, nil
	}
	var (
		rects []sheet.Rect
		err   error
	)
	switch opts.Method {
	case GridLines:
		rects, err = detectGridLines(s)
	case Contours, "":
		rects, err = detectContours(s)
	default:
		return []sheet.Rect{}, fmt.Errorf("detect: unknown method %q", opts.Method)
	}
	if err != nil {
		return []sheet.Rect{}, err
	}
	return filterAndSort(rects, opts.MinWidth, opts.MinHeight), nil
}

func detectContours(s *sheet.Surface) ([]sheet.Rect, error) {
	var m *Mask
	if s.HasAlpha() {
		m = AlphaMask(s.Image())
	} else {
		m = LumaMask(s.Image(), lumaThreshold)
	}
	return externalBounds(m)
}

func detectGridLines(s *sheet.Surface) ([]sheet.Rect, error) {
	m := LumaMask(s.Image(), lumaThreshold)
	lines := lineMask(m,
		openingLength(m.W, gridIterations),
		openingLength(m.H, gridIterations),
	)
	return externalBounds(lines)
}

func filterAndSort(rects []sheet.Rect, minW, minH int) []sheet.Rect {
	out := make([]sheet.Rect, 0, len(rects))
	for _, r := range rects {
		if r.W < minW || r.H < minH {
			continue
		}
		out = append(out, r)
	}
	sheet.SortRects(out)
	return out
}

// DetectFile decodes path and runs Detect. A decode failure is logged and
// yields an empty result alongside the error, so callers can tell it apart
// from a sheet with no sprites.
func DetectFile(log zerolog.Logger, path string, opts Options) ([]sheet.Rect, error) {
	s, err := sheet.Decode(path)
	if err != nil {
		log.Error().Err(err).Str("path", path).Msg("could not load image for detection")
		return []sheet.Rect{}, err
	}
	return DetectLogged(log, s, opts)
}

func DetectLogged(log zerolog.Logger, s *sheet.Surface, opts Options) ([]sheet.Rect, error) {
	start := time.Now()
	rects, err := Detect(s, opts)
	if err != nil {
		log.Error().Err(err).Str("method", string(opts.Method)).Msg("detection failed")
		return rects, err
	}
	if len(rects) == 0 {
		log.Info().Str("method", string(opts.Method)).Msg("no sprites detected")
		return rects, nil
	}
	log.Info().
		Int("sprites", len(rects)).
		Str("method", string(opts.Method)).
		Dur("elapsed", time.Since(start)).
		Msg("detection finished")
	return rects, nil
}

// Task wraps detection over an already loaded sheet for the worker pool.
// The value delivered is always a []sheet.Rect.
func Task(log zerolog.Logger, s *sheet.Surface, opts Options) jobs.Func {
	return func(ctx context.Context) (any, error) {
		if err := ctx.Err(); err != nil {
			return []sheet.Rect{}, err
		}
		return DetectLogged(log, s, opts)
	}
}
