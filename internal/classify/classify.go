// Package classify maps filenames to mission file categories based on
// their extension.
package classify

import (
	"path"
	"strings"
)

const (
	CategoryImages  = "images"
	CategoryLogs    = "logs"
	CategoryGeopos  = "geopos"
	CategoryPPK     = "ppk"
	CategoryRapport = "rapport"

	// CategoryFallback is returned for unknown or missing extensions.
	// Files classified as fallback are never allowed for upload.
	CategoryFallback = "autres"
)

// Categories lists the known categories in the order their subdirectories
// are created under a mission tree. The fallback is deliberately excluded,
// it never gets a directory.
var Categories = []string{
	CategoryImages,
	CategoryLogs,
	CategoryGeopos,
	CategoryPPK,
	CategoryRapport,
}

// IsCategory reports whether cat is one of the known categories.
func IsCategory(cat string) bool {
	for _, c := range Categories {
		if c == cat {
			return true
		}
	}
	return false
}

// Classifier resolves filenames to categories using a per-category
// extension table, usually taken from the upload.extensions config.
type Classifier struct {
	byExt map[string]string
}

// New builds a Classifier from a category -> extensions table. Extensions
// are matched without the leading dot, case-insensitively. Unknown category
// keys in the table are ignored. An extension listed under several
// categories goes to the earliest one in Categories order, so the result
// is stable across restarts (txt is both a log and a geopos extension in
// the default table and always classifies as logs).
func New(table map[string][]string) *Classifier {
	byExt := make(map[string]string)

	for _, cat := range Categories {
		for _, ext := range table[cat] {
			e := strings.ToLower(strings.TrimPrefix(ext, "."))
			if _, taken := byExt[e]; !taken {
				byExt[e] = cat
			}
		}
	}

	return &Classifier{byExt: byExt}
}

// Ext returns the lowercased extension of name without the dot, or an
// empty string if there is none.
func Ext(name string) string {
	return strings.ToLower(strings.TrimPrefix(path.Ext(name), "."))
}

// Classify returns the category for a filename, or CategoryFallback when
// the extension is unknown or missing.
func (c *Classifier) Classify(name string) string {
	if cat, ok := c.byExt[Ext(name)]; ok {
		return cat
	}
	return CategoryFallback
}

// IsAllowed reports whether the filename's extension is acceptable for
// any category.
func (c *Classifier) IsAllowed(name string) bool {
	_, ok := c.byExt[Ext(name)]
	return ok
}

// IsAllowedFor reports whether the filename's extension is acceptable for
// one specific category.
func (c *Classifier) IsAllowedFor(name, category string) bool {
	return c.byExt[Ext(name)] == category
}
