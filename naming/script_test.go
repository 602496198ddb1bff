package naming

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/milk9111/spriteslicer/sheet"
	"github.com/milk9111/spriteslicer/tree"
)

func TestScriptNames(t *testing.T) {
	cases := []struct {
		name  string
		src   string
		group string
		n     int
		want  string
	}{
		{"sprintf", `fmt := import("fmt"); name = fmt.sprintf("%s_%03d", group, n)`, "walk", 7, "walk_007"},
		{"concat", `name = group + "-" + string(n)`, "Idle", 2, "Idle-2"},
		{"lower", `text := import("text"); name = text.to_lower(group) + string(n)`, "RUN", 1, "run1"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s, err := Compile([]byte(c.src), zerolog.Nop())
			if err != nil {
				t.Fatalf("compile: %v", err)
			}
			got, err := s.Name(c.group, c.n)
			if err != nil {
				t.Fatalf("name: %v", err)
			}
			if got != c.want {
				t.Fatalf("expected %q, got %q", c.want, got)
			}
		})
	}
}

func TestScriptFallsBack(t *testing.T) {
	s, err := Compile([]byte(`if n > 1 { name = "" } else { name = "first" }`), zerolog.Nop())
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if got := s.SpriteName("Walk", 1); got != "first" {
		t.Fatalf("expected script name, got %q", got)
	}
	if got := s.SpriteName("Walk", 2); got != "Walk 2" {
		t.Fatalf("expected fallback name, got %q", got)
	}
}

func TestCompileError(t *testing.T) {
	if _, err := Compile([]byte(`name = (`), zerolog.Nop()); err == nil {
		t.Fatalf("expected compile error")
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.tengo"), zerolog.Nop()); err == nil {
		t.Fatalf("expected load error")
	}
}

func TestScriptDrivesTree(t *testing.T) {
	path := filepath.Join(t.TempDir(), "names.tengo")
	src := `fmt := import("fmt"); name = fmt.sprintf("%s#%d", group, n)`
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := Load(path, zerolog.Nop())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	tr := tree.New(tree.WithNamer(s))
	g, _ := tr.AddGroup(nil, "jump")
	tr.AddSprite(g, sheet.Rect{W: 4, H: 4}, nil)
	sp, _ := tr.AddSprite(g, sheet.Rect{X: 4, W: 4, H: 4}, nil)
	if sp.Name() != "jump#2" {
		t.Fatalf("expected scripted name, got %q", sp.Name())
	}
	tr.Rename(g, "hop")
	if g.Children()[0].Name() != "hop#1" {
		t.Fatalf("rename should use the script, got %q", g.Children()[0].Name())
	}
}
