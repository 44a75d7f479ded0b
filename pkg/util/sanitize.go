package util

import (
	"path/filepath"
	"strings"
)

// SanitizeFilename flattens an uploaded filename into something safe to
// join onto a directory path: path separators and traversal are stripped
// and anything outside [A-Za-z0-9._-] becomes an underscore.
func SanitizeFilename(name string) string {
	// Drop any client-supplied directory part (both separator styles)
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))

	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '-' || r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}

	out := strings.Trim(b.String(), "._-")
	if out == "" {
		return "file"
	}

	return out
}
