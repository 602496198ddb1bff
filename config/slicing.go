package config

import (
	"fmt"
	"strconv"
	"strings"
)

// Slicing is the editable part of the configuration: the grid layout and
// the detection thresholds.
type Slicing struct {
	Grid      GridSpec
	Detection DetectionSpec
}

// Slicing returns the grid and detection settings of c.
func (c Config) Slicing() Slicing {
	return Slicing{Grid: c.Grid, Detection: c.Detection}
}

// String renders s in the form ParseSlicing accepts.
func (s Slicing) String() string {
	method := s.Detection.Method
	if method == "" {
		method = "contours"
	}
	return fmt.Sprintf("cell %dx%d pad %d,%d spacing %d,%d min %dx%d method %s",
		s.Grid.CellWidth, s.Grid.CellHeight,
		s.Grid.PaddingX, s.Grid.PaddingY,
		s.Grid.SpacingX, s.Grid.SpacingY,
		s.Detection.MinWidth, s.Detection.MinHeight,
		method)
}

// ParseSlicing reads keyword/value pairs such as
//
//	cell 32x32 pad 0,0 spacing 4,4 min 8x8 method contours
//
// on top of base. Keywords that are left out keep their base value.
func ParseSlicing(text string, base Slicing) (Slicing, error) {
	out := base
	fields := strings.Fields(strings.ToLower(text))
	if len(fields)%2 != 0 {
		return base, fmt.Errorf("config: %q has no value", fields[len(fields)-1])
	}
	for i := 0; i < len(fields); i += 2 {
		key, val := fields[i], fields[i+1]
		var err error
		switch key {
		case "cell", "size":
			out.Grid.CellWidth, out.Grid.CellHeight, err = pair(val, "x", 1)
		case "pad", "padding":
			out.Grid.PaddingX, out.Grid.PaddingY, err = pair(val, ",", 0)
		case "spacing", "gap":
			out.Grid.SpacingX, out.Grid.SpacingY, err = pair(val, ",", 0)
		case "min":
			out.Detection.MinWidth, out.Detection.MinHeight, err = pair(val, "x", 1)
		case "method":
			if val != "contours" && val != "grid" {
				err = fmt.Errorf("unknown method %q", val)
			}
			out.Detection.Method = val
		default:
			err = fmt.Errorf("unknown setting %q", key)
		}
		if err != nil {
			return base, fmt.Errorf("config: %s: %w", key, err)
		}
	}
	return out, nil
}

func pair(s, sep string, least int) (int, int, error) {
	a, b, ok := strings.Cut(s, sep)
	if !ok {
		return 0, 0, fmt.Errorf("expected two numbers separated by %q, got %q", sep, s)
	}
	x, err := strconv.Atoi(a)
	if err != nil {
		return 0, 0, err
	}
	y, err := strconv.Atoi(b)
	if err != nil {
		return 0, 0, err
	}
	if x < least || y < least {
		return 0, 0, fmt.Errorf("values must be at least %d, got %s", least, s)
	}
	return x, y, nil
}
