// Package storage owns the on-disk mission directory hierarchy. Every
// mission gets <root>/<name>/ with one subdirectory per known category.
// Nothing here touches the database.
package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"dronedeck/mission-api/internal/apperr"
	"dronedeck/mission-api/internal/classify"
)

type Layout struct {
	// Root is the directory all mission trees live under.
	Root string
	// Scratch is where archive builds are written. Not cleaned up here,
	// whoever streams the archive removes it afterwards.
	Scratch string
}

func NewLayout(root, scratch string) *Layout {
	return &Layout{Root: root, Scratch: scratch}
}

// MissionDir returns the base directory for a mission name.
func (l *Layout) MissionDir(name string) string {
	return filepath.Join(l.Root, name)
}

// CategoryDir returns the subdirectory a category's files go into.
func (l *Layout) CategoryDir(name, category string) string {
	return filepath.Join(l.Root, name, category)
}

// EnsureMissionTree creates the mission base directory and one
// subdirectory per known category. Idempotent, existing directories are
// left alone.
func (l *Layout) EnsureMissionTree(name string) error {
	base := l.MissionDir(name)

	if err := os.MkdirAll(base, 0o755); err != nil {
		return &apperr.StorageError{Op: "mkdir", Path: base, Err: err}
	}

	for _, cat := range classify.Categories {
		dir := filepath.Join(base, cat)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return &apperr.StorageError{Op: "mkdir", Path: dir, Err: err}
		}
	}

	return nil
}

// RenameMissionTree moves a mission's base directory to a new name. The
// caller must not have committed the new name to the mission record yet:
// on failure the record has to keep the old name so the two never diverge.
func (l *Layout) RenameMissionTree(oldName, newName string) error {
	oldPath := l.MissionDir(oldName)
	newPath := l.MissionDir(newName)

	if _, err := os.Stat(newPath); err == nil {
		return &apperr.StorageError{Op: "rename", Path: newPath, Err: fmt.Errorf("target already exists")}
	}

	if err := os.Rename(oldPath, newPath); err != nil {
		return &apperr.StorageError{Op: "rename", Path: oldPath, Err: err}
	}

	return nil
}

// DeleteMissionTree removes the base directory and everything under it.
// An already absent tree is not an error.
func (l *Layout) DeleteMissionTree(name string) error {
	base := l.MissionDir(name)

	if _, err := os.Stat(base); os.IsNotExist(err) {
		return nil
	}

	if err := os.RemoveAll(base); err != nil {
		return &apperr.StorageError{Op: "remove", Path: base, Err: err}
	}

	return nil
}

// EnsureScratch creates the scratch directory for archive builds.
func (l *Layout) EnsureScratch() error {
	if err := os.MkdirAll(l.Scratch, 0o755); err != nil {
		return &apperr.StorageError{Op: "mkdir", Path: l.Scratch, Err: err}
	}
	return nil
}
