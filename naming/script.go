// Package naming lets a tengo script decide default sprite names.
//
// The script sees two globals, group (string) and n (int), and assigns the
// result to the predeclared global name:
//
//	fmt := import("fmt")
//	name = fmt.sprintf("%s_%03d", group, n)
package naming

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/rs/zerolog"

	"github.com/milk9111/spriteslicer/tree"
)

// Script is a tree.Namer backed by a compiled tengo program.
type Script struct {
	mu       sync.Mutex
	compiled *tengo.Compiled
	fallback tree.Namer
	log      zerolog.Logger
}

func Compile(src []byte, log zerolog.Logger) (*Script, error) {
	script := tengo.NewScript(src)
	_ = script.Add("group", "")
	_ = script.Add("n", 0)
	_ = script.Add("name", "")
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("naming: compile: %w", err)
	}
	return &Script{
		compiled: compiled,
		fallback: tree.DefaultNamer,
		log:      log,
	}, nil
}

func Load(path string, log zerolog.Logger) (*Script, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("naming: load %s: %w", path, err)
	}
	return Compile(src, log.With().Str("script", path).Logger())
}

// Name runs the script once.
func (s *Script) Name(group string, n int) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.compiled.Set("group", group); err != nil {
		return "", err
	}
	if err := s.compiled.Set("n", n); err != nil {
		return "", err
	}
	if err := s.compiled.Set("name", ""); err != nil {
		return "", err
	}
	if err := s.compiled.Run(); err != nil {
		return "", fmt.Errorf("naming: run: %w", err)
	}
	name := strings.TrimSpace(s.compiled.Get("name").String())
	if name == "" {
		return "", fmt.Errorf("naming: script left name empty for %q %d", group, n)
	}
	return name, nil
}

// SpriteName implements tree.Namer. Script failures fall back to the
// default "<group> <n>" so adding sprites never fails on naming.
func (s *Script) SpriteName(group string, n int) string {
	name, err := s.Name(group, n)
	if err != nil {
		s.log.Warn().Err(err).Str("group", group).Int("n", n).Msg("naming script failed")
		return s.fallback.SpriteName(group, n)
	}
	return name
}
