// Command spriteeditor is the interactive sprite sheet slicer.
//
//	spriteeditor [-config spriteslicer.yaml] [sheet.png]
package main

import (
	"flag"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rs/zerolog"

	"github.com/milk9111/spriteslicer/config"
	"github.com/milk9111/spriteslicer/session"
)

func main() {
	configPath := flag.String("config", config.FileName, "Configuration file")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		With().Timestamp().Logger()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Warn().Err(err).Msg("using default configuration")
	}
	level := cfg.Level()
	if *debug {
		level = zerolog.DebugLevel
	}
	log = log.Level(level)

	sess, err := session.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("could not start session")
	}
	defer sess.Close()

	clip, err := NewClipboard()
	if err != nil {
		log.Warn().Err(err).Msg("clipboard disabled")
	}

	editor, err := NewEditor(sess, log, clip)
	if err != nil {
		log.Fatal().Err(err).Msg("could not build editor")
	}
	if path := flag.Arg(0); path != "" {
		sess.Open(path)
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(1280, 800)
	ebiten.SetWindowTitle("Sprite Slicer")

	if err := ebiten.RunGame(editor); err != nil {
		log.Error().Err(err).Msg("editor stopped")
	}
}
