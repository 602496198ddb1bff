package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/milk9111/spriteslicer/detect"
)

func TestDefault(t *testing.T) {
	c := Default()
	if c.Grid.CellWidth != 32 || c.Grid.CellHeight != 32 {
		t.Fatalf("unexpected grid %+v", c.Grid)
	}
	if c.Detection.MinWidth != 8 || c.Detection.MinHeight != 8 || c.Detection.Options().Method != detect.Contours {
		t.Fatalf("unexpected detection %+v", c.Detection)
	}
	if c.ThumbnailSize != 64 || c.Preview.FPS != 10 {
		t.Fatalf("unexpected thumbnail/preview %d/%d", c.ThumbnailSize, c.Preview.FPS)
	}
	if c.Export.JPEGQuality != 90 || c.Export.FrameDelay() != 100*time.Millisecond {
		t.Fatalf("unexpected export %+v", c.Export)
	}
	if c.Level() != zerolog.InfoLevel || !c.WatchSheet {
		t.Fatalf("unexpected ambient defaults %+v", c)
	}
}

func TestLoadOverridesAndValidates(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	src := `
grid:
  cell_width: 16
  cell_height: -4
  spacing_x: 2
detection:
  method: hough
preview:
  fps: 120
export:
  jpeg_quality: 0
log_level: debug
`
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	g := c.Grid.Grid()
	if g.CellW != 16 || g.CellH != 32 || g.SpacingX != 2 {
		t.Fatalf("unexpected grid %+v", g)
	}
	if c.Detection.Method != string(detect.Contours) {
		t.Fatalf("unknown method should fall back, got %q", c.Detection.Method)
	}
	if c.Preview.FPS != MaxFPS {
		t.Fatalf("fps should clamp to %d, got %d", MaxFPS, c.Preview.FPS)
	}
	if c.Export.JPEGQuality != 90 {
		t.Fatalf("quality should fall back to 90, got %d", c.Export.JPEGQuality)
	}
	if c.Level() != zerolog.DebugLevel {
		t.Fatalf("expected debug level, got %s", c.Level())
	}
	if c.Export.Directory != "export" {
		t.Fatalf("unset fields keep defaults, got %q", c.Export.Directory)
	}
}

func TestLoadMissingAndBroken(t *testing.T) {
	dir := t.TempDir()
	c, err := Load(filepath.Join(dir, "missing.yaml"))
	if err != nil || c.Grid.CellWidth != 32 {
		t.Fatalf("missing file should yield defaults, got %+v, %v", c, err)
	}
	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("grid: [1, 2"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(bad); err == nil {
		t.Fatalf("expected unmarshal error")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", FileName)
	c := Default()
	c.Grid.CellWidth = 48
	c.NamingScript = "names.tengo"
	if err := c.Save(path); err != nil {
		t.Fatalf("save: %v", err)
	}
	back, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if back.Grid.CellWidth != 48 || back.NamingScript != "names.tengo" {
		t.Fatalf("round trip lost values: %+v", back)
	}
}

func TestClampFPS(t *testing.T) {
	cases := []struct{ in, want int }{
		{0, 10}, {-3, 1}, {1, 1}, {15, 15}, {30, 30}, {31, 30},
	}
	for _, c := range cases {
		if got := ClampFPS(c.in); got != c.want {
			t.Fatalf("ClampFPS(%d) = %d, want %d", c.in, got, c.want)
		}
	}
}
