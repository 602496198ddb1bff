package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/milk9111/spriteslicer/detect"
	"github.com/milk9111/spriteslicer/selection"
)

const FileName = "spriteslicer.yaml"

const (
	MinFPS     = 1
	MaxFPS     = 30
	DefaultFPS = 10
)

//go:embed default.yaml
var defaultYAML []byte

type GridSpec struct {
	CellWidth  int `yaml:"cell_width"`
	CellHeight int `yaml:"cell_height"`
	PaddingX   int `yaml:"padding_x"`
	PaddingY   int `yaml:"padding_y"`
	SpacingX   int `yaml:"spacing_x"`
	SpacingY   int `yaml:"spacing_y"`
}

func (g GridSpec) Grid() selection.Grid {
	return selection.Grid{
		CellW:    g.CellWidth,
		CellH:    g.CellHeight,
		PadX:     g.PaddingX,
		PadY:     g.PaddingY,
		SpacingX: g.SpacingX,
		SpacingY: g.SpacingY,
	}
}

type DetectionSpec struct {
	Method    string `yaml:"method"`
	MinWidth  int    `yaml:"min_width"`
	MinHeight int    `yaml:"min_height"`
}

func (d DetectionSpec) Options() detect.Options {
	return detect.Options{
		MinWidth:  d.MinWidth,
		MinHeight: d.MinHeight,
		Method:    detect.Method(d.Method),
	}
}

type PreviewSpec struct {
	FPS int `yaml:"fps"`
}

type ExportSpec struct {
	JPEGQuality  int    `yaml:"jpeg_quality"`
	FrameDelayMS int    `yaml:"frame_delay_ms"`
	Directory    string `yaml:"directory"`
}

func (e ExportSpec) FrameDelay() time.Duration {
	return time.Duration(e.FrameDelayMS) * time.Millisecond
}

type Config struct {
	Grid          GridSpec      `yaml:"grid"`
	Detection     DetectionSpec `yaml:"detection"`
	ThumbnailSize int           `yaml:"thumbnail_size"`
	Preview       PreviewSpec   `yaml:"preview"`
	Export        ExportSpec    `yaml:"export"`
	Workers       int           `yaml:"workers"`
	LogLevel      string        `yaml:"log_level"`
	NamingScript  string        `yaml:"naming_script"`
	WatchSheet    bool          `yaml:"watch_sheet"`
}

// Default returns the embedded defaults.
func Default() Config {
	var c Config
	if err := yaml.Unmarshal(defaultYAML, &c); err != nil {
		panic(fmt.Sprintf("config: embedded default.yaml: %v", err))
	}
	return c
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (Config, error) {
	c := Default()
	if path == "" {
		return c, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return c, nil
	}
	if err != nil {
		return c, fmt.Errorf("config: load %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Default(), fmt.Errorf("config: unmarshal %s: %w", path, err)
	}
	c.Validate()
	return c, nil
}

func (c Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("config: save %s: %w", path, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: save %s: %w", path, err)
	}
	return nil
}

// Validate replaces out-of-range values with defaults and clamps the
// preview rate.
func (c *Config) Validate() {
	d := Default()
	if c.Grid.CellWidth <= 0 {
		c.Grid.CellWidth = d.Grid.CellWidth
	}
	if c.Grid.CellHeight <= 0 {
		c.Grid.CellHeight = d.Grid.CellHeight
	}
	if c.Grid.PaddingX < 0 {
		c.Grid.PaddingX = 0
	}
	if c.Grid.PaddingY < 0 {
		c.Grid.PaddingY = 0
	}
	if c.Grid.SpacingX < 0 {
		c.Grid.SpacingX = 0
	}
	if c.Grid.SpacingY < 0 {
		c.Grid.SpacingY = 0
	}
	switch detect.Method(c.Detection.Method) {
	case detect.Contours, detect.GridLines:
	default:
		c.Detection.Method = d.Detection.Method
	}
	if c.Detection.MinWidth < 1 {
		c.Detection.MinWidth = d.Detection.MinWidth
	}
	if c.Detection.MinHeight < 1 {
		c.Detection.MinHeight = d.Detection.MinHeight
	}
	if c.ThumbnailSize <= 0 {
		c.ThumbnailSize = d.ThumbnailSize
	}
	c.Preview.FPS = ClampFPS(c.Preview.FPS)
	if c.Export.JPEGQuality < 1 || c.Export.JPEGQuality > 100 {
		c.Export.JPEGQuality = d.Export.JPEGQuality
	}
	if c.Export.FrameDelayMS <= 0 {
		c.Export.FrameDelayMS = d.Export.FrameDelayMS
	}
	if c.Export.Directory == "" {
		c.Export.Directory = d.Export.Directory
	}
	if c.Workers < 0 {
		c.Workers = 0
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil || c.LogLevel == "" {
		c.LogLevel = d.LogLevel
	}
}

func ClampFPS(fps int) int {
	switch {
	case fps == 0:
		return DefaultFPS
	case fps < MinFPS:
		return MinFPS
	case fps > MaxFPS:
		return MaxFPS
	default:
		return fps
	}
}

func (c Config) Level() zerolog.Level {
	lvl, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.InfoLevel
	}
	return lvl
}
