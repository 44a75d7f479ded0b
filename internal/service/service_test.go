package service

import (
	"path/filepath"
	"testing"

	"dronedeck/mission-api/internal/classify"
	"dronedeck/mission-api/internal/model"
	"dronedeck/mission-api/internal/storage"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testDroneModel = "Trinity F90+"

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")))
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(model.Mission{}, model.File{}, model.MissionMetadata{}))

	return db
}

func newTestLayout(t *testing.T) *storage.Layout {
	t.Helper()

	root := t.TempDir()
	return storage.NewLayout(filepath.Join(root, "missions"), filepath.Join(root, "scratch"))
}

func newTestClassifier() *classify.Classifier {
	return classify.New(map[string][]string{
		"images":  {"jpg", "jpeg", "png", "tif", "tiff"},
		"logs":    {"tlog", "log"},
		"geopos":  {"csv", "gpx", "kml"},
		"ppk":     {"obs", "nav", "sp3", "rinex"},
		"rapport": {"pdf", "docx", "xlsx", "zip"},
	})
}

// newTestRegistries builds the full service stack over one database and
// one temp layout.
func newTestRegistries(t *testing.T) (*MissionRegistry, *FileRegistry, *storage.Layout, *gorm.DB) {
	t.Helper()

	db := newTestDB(t)
	layout := newTestLayout(t)

	extractor := NewExtractor(db, testDroneModel)
	missions := NewMissionRegistry(db, layout, testDroneModel)
	files := NewFileRegistry(db, layout, newTestClassifier(), extractor)

	return missions, files, layout, db
}
