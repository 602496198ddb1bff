package export

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
)

type Failure struct {
	Name string
	Err  error
}

// Summary reports what a batch wrote. Per-item failures end up in Failed
// instead of aborting the batch.
type Summary struct {
	Op      string
	Target  string
	Total   int
	Written []string
	Failed  []Failure
	Bytes   int64
}

func (s Summary) Succeeded() int { return len(s.Written) }

func (s Summary) Message() string {
	switch s.Op {
	case OpGIF:
		return fmt.Sprintf("GIF exported successfully to:\n%s", s.Target)
	case OpSingle:
		if len(s.Written) == 0 {
			return "Nothing to export"
		}
		return fmt.Sprintf("Sprite exported to:\n%s", s.Written[0])
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Exported %d of %d sprites to %s (%s)", s.Succeeded(), s.Total, s.Target, humanize.Bytes(uint64(s.Bytes)))
	if n := len(s.Failed); n > 0 {
		fmt.Fprintf(&b, ", %d failed", n)
	}
	return b.String()
}
