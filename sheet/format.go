package sheet

import (
	"path/filepath"
	"strings"
)

type Format int

const (
	PNG Format = iota
	JPEG
	GIF
)

// JPEGQuality is the fixed quality used for every JPEG export.
const JPEGQuality = 90

func (f Format) String() string {
	switch f {
	case JPEG:
		return "jpeg"
	case GIF:
		return "gif"
	default:
		return "png"
	}
}

func (f Format) Ext() string {
	switch f {
	case JPEG:
		return ".jpg"
	case GIF:
		return ".gif"
	default:
		return ".png"
	}
}

// FormatFromPath picks the export format from a destination path.
// Anything that is not .jpg, .jpeg or .gif is written as PNG.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return JPEG
	case ".gif":
		return GIF
	default:
		return PNG
	}
}

var openExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".bmp":  true,
	".gif":  true,
}

// IsSupported reports whether path has an extension the editor can open.
func IsSupported(path string) bool {
	return openExts[strings.ToLower(filepath.Ext(path))]
}

// OpenExtensions lists the accepted source extensions in display order.
func OpenExtensions() []string {
	return []string{".png", ".jpg", ".jpeg", ".bmp", ".gif"}
}
