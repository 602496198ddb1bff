// Command spriteslice cuts a sprite sheet into individual PNG files without
// opening a window.
//
//	spriteslice -in sheet.png -out sprites [-grid] [-min-w 8 -min-h 8] [-gif walk.gif]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/schollz/progressbar/v3"

	"github.com/milk9111/spriteslicer/config"
	"github.com/milk9111/spriteslicer/detect"
	"github.com/milk9111/spriteslicer/export"
	"github.com/milk9111/spriteslicer/sheet"
	"github.com/milk9111/spriteslicer/tree"
)

type options struct {
	configPath string
	in         string
	out        string
	grid       bool
	minW       int
	minH       int
	method     string
	gif        string
	quiet      bool
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var o options
	fs := flag.NewFlagSet("spriteslice", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.configPath, "config", config.FileName, "Configuration file")
	fs.StringVar(&o.in, "in", "", "Sprite sheet to slice")
	fs.StringVar(&o.out, "out", "", "Output directory (defaults to the configured export directory)")
	fs.BoolVar(&o.grid, "grid", false, "Slice on the configured grid instead of detecting sprites")
	fs.IntVar(&o.minW, "min-w", 0, "Minimum sprite width (0 uses the configured value)")
	fs.IntVar(&o.minH, "min-h", 0, "Minimum sprite height (0 uses the configured value)")
	fs.StringVar(&o.method, "method", "", "Detection method: contours or grid")
	fs.StringVar(&o.gif, "gif", "", "Also write every sprite as an animated GIF to this path")
	fs.BoolVar(&o.quiet, "q", false, "Hide the progress bar")
	if err := fs.Parse(args); err != nil {
		return o, err
	}
	if o.in == "" && fs.NArg() > 0 {
		o.in = fs.Arg(0)
	}
	if o.in == "" {
		fs.Usage()
		return o, errors.New("no input sheet given")
	}
	return o, nil
}

func (o options) apply(cfg *config.Config) {
	if o.minW > 0 {
		cfg.Detection.MinWidth = o.minW
	}
	if o.minH > 0 {
		cfg.Detection.MinHeight = o.minH
	}
	if o.method != "" {
		cfg.Detection.Method = o.method
	}
	if o.out != "" {
		cfg.Export.Directory = o.out
	}
}

func newLogger(w io.Writer, level zerolog.Level) zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}).
		Level(level).
		With().Timestamp().Logger()
}

func regions(log zerolog.Logger, s *sheet.Surface, cfg config.Config, useGrid bool) ([]sheet.Rect, error) {
	if useGrid {
		cells := cfg.Grid.Grid().Cells(s.Width(), s.Height())
		log.Info().Int("cells", len(cells)).Msg("grid slicing")
		return cells, nil
	}
	return detect.DetectLogged(log, s, cfg.Detection.Options())
}

func run(ctx context.Context, args []string, stderr io.Writer) error {
	o, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return err
	}
	o.apply(&cfg)
	cfg.Validate()
	log := newLogger(stderr, cfg.Level())

	s, err := sheet.Decode(o.in)
	if err != nil {
		log.Error().Err(err).Str("path", o.in).Msg("could not load image")
		return err
	}
	rects, err := regions(log, s, cfg, o.grid)
	if err != nil {
		return err
	}
	if len(rects) == 0 {
		return fmt.Errorf("no sprites found in %s", filepath.Base(o.in))
	}

	exporter := export.New(log)
	exporter.JPEGQuality = cfg.Export.JPEGQuality
	exporter.FrameDelay = cfg.Export.FrameDelay()
	if !o.quiet {
		bar := progressbar.NewOptions(len(rects),
			progressbar.OptionSetWriter(stderr),
			progressbar.OptionSetDescription("exporting sprites"),
			progressbar.OptionShowCount(),
			progressbar.OptionShowIts(),
			progressbar.OptionSetItsString("sprites"),
			progressbar.OptionThrottle(100*time.Millisecond),
			progressbar.OptionClearOnFinish(),
		)
		exporter.Progress = func(done, _ int) { _ = bar.Set(done) }
		defer func() { _ = bar.Finish() }()
	}

	sum, err := exporter.Selection(ctx, s, rects, cfg.Export.Directory)
	if err != nil {
		return err
	}
	fmt.Fprintln(stderr, sum.Message())

	if o.gif == "" {
		return nil
	}
	t := tree.New(tree.WithLogger(log), tree.WithThumbnailSize(cfg.ThumbnailSize))
	extracts := make([]tree.Extract, 0, len(rects))
	for _, r := range rects {
		if px := s.Crop(r); px != nil {
			extracts = append(extracts, tree.Extract{Region: r, Pixels: px})
		}
	}
	g, err := t.AddDetectedGroup(extracts)
	if err != nil {
		return err
	}
	gsum, err := exporter.GIF(export.Frames(t, g), o.gif)
	if err != nil {
		return err
	}
	fmt.Fprintln(stderr, gsum.Message())
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, "spriteslice:", err)
		os.Exit(1)
	}
}
