package service

import (
	"os"
	"strings"
	"testing"

	"dronedeck/mission-api/internal/apperr"
	"dronedeck/mission-api/internal/classify"
	"dronedeck/mission-api/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateMission(t *testing.T) {
	missions, _, layout, db := newTestRegistries(t)

	m, err := missions.Create("Alpha", "2026-05-12", "survey flight")
	require.NoError(t, err)
	require.NotZero(t, m.ID)
	assert.Equal(t, "Alpha", m.Name)
	require.NotNil(t, m.FlightDate)
	assert.Equal(t, "2026-05-12", m.FlightDate.Format("2006-01-02"))

	// Directory tree with one folder per category
	for _, cat := range classify.Categories {
		info, err := os.Stat(layout.CategoryDir("Alpha", cat))
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}

	// Empty metadata record created eagerly
	var meta model.MissionMetadata
	require.NoError(t, db.Where("mission_id = ?", m.ID).First(&meta).Error)
	assert.Equal(t, testDroneModel, meta.DroneModel)
	assert.Nil(t, meta.CenterLatitude)
	assert.Nil(t, meta.AreaCovered)
}

func TestCreateMissionEmptyName(t *testing.T) {
	missions, _, _, _ := newTestRegistries(t)

	_, err := missions.Create("", "", "")
	require.Error(t, err)
	assert.True(t, apperr.IsValidation(err))
}

func TestCreateMissionUnsafeName(t *testing.T) {
	missions, _, _, _ := newTestRegistries(t)

	for _, name := range []string{"a/b", `a\b`, "..", "."} {
		_, err := missions.Create(name, "", "")
		require.Error(t, err, "name %q", name)
		assert.True(t, apperr.IsValidation(err))
	}
}

func TestCreateMissionDuplicateName(t *testing.T) {
	missions, _, _, db := newTestRegistries(t)

	_, err := missions.Create("Alpha", "", "")
	require.NoError(t, err)

	_, err = missions.Create("Alpha", "", "")
	require.Error(t, err)
	assert.True(t, apperr.IsValidation(err))

	var count int64
	require.NoError(t, db.Model(&model.Mission{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestCreateMissionInvalidDateIgnored(t *testing.T) {
	missions, _, _, _ := newTestRegistries(t)

	m, err := missions.Create("Alpha", "12/05/2026", "")
	require.NoError(t, err)
	assert.Nil(t, m.FlightDate)
}

func TestGetByIDAbsent(t *testing.T) {
	missions, _, _, _ := newTestRegistries(t)

	m, err := missions.GetByID(42)
	require.NoError(t, err)
	assert.Nil(t, m)
}

func TestGetByName(t *testing.T) {
	missions, _, _, _ := newTestRegistries(t)

	created, err := missions.Create("Alpha", "", "")
	require.NoError(t, err)

	m, err := missions.GetByName("Alpha")
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, created.ID, m.ID)

	m, err = missions.GetByName("Beta")
	require.NoError(t, err)
	assert.Nil(t, m)
}

func TestUpdateMissionRename(t *testing.T) {
	missions, files, layout, db := newTestRegistries(t)

	m, err := missions.Create("Alpha", "", "")
	require.NoError(t, err)

	// A stored file whose path has to follow the rename
	rec, err := files.Register(m.ID, "shot.jpg", strings.NewReader("jpegdata"))
	require.NoError(t, err)

	newName := "Beta"
	updated, err := missions.Update(m.ID, MissionUpdate{Name: &newName})
	require.NoError(t, err)
	assert.Equal(t, "Beta", updated.Name)

	_, statErr := os.Stat(layout.MissionDir("Alpha"))
	assert.True(t, os.IsNotExist(statErr))
	_, statErr = os.Stat(layout.MissionDir("Beta"))
	assert.NoError(t, statErr)

	var moved model.File
	require.NoError(t, db.First(&moved, rec.ID).Error)
	assert.Contains(t, moved.FilePath, layout.MissionDir("Beta"))
	_, statErr = os.Stat(moved.FilePath)
	assert.NoError(t, statErr)
}

func TestUpdateMissionRenameCollision(t *testing.T) {
	missions, _, layout, _ := newTestRegistries(t)

	m, err := missions.Create("Alpha", "", "")
	require.NoError(t, err)
	_, err = missions.Create("Beta", "", "")
	require.NoError(t, err)

	newName := "Beta"
	_, err = missions.Update(m.ID, MissionUpdate{Name: &newName})
	require.Error(t, err)
	assert.True(t, apperr.IsValidation(err))

	// Record and directory both untouched
	cur, err := missions.GetByID(m.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alpha", cur.Name)

	_, statErr := os.Stat(layout.MissionDir("Alpha"))
	assert.NoError(t, statErr)
}

func TestUpdateMissionRenameStorageFailureKeepsName(t *testing.T) {
	missions, _, layout, _ := newTestRegistries(t)

	m, err := missions.Create("Alpha", "", "")
	require.NoError(t, err)

	// No mission record for this name but its directory exists, so the
	// filesystem rename is refused
	require.NoError(t, os.MkdirAll(layout.MissionDir("Occupied"), 0o755))

	newName := "Occupied"
	desc := "still applied"
	updated, err := missions.Update(m.ID, MissionUpdate{Name: &newName, Description: &desc})
	require.NoError(t, err)

	// Name change abandoned, the rest of the update went through
	assert.Equal(t, "Alpha", updated.Name)
	assert.Equal(t, "still applied", updated.Description)
}

func TestUpdateMissionNotFound(t *testing.T) {
	missions, _, _, _ := newTestRegistries(t)

	name := "X"
	_, err := missions.Update(99, MissionUpdate{Name: &name})
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))
}

func TestUpdateMissionInvalidDateIgnored(t *testing.T) {
	missions, _, _, _ := newTestRegistries(t)

	m, err := missions.Create("Alpha", "2026-05-12", "")
	require.NoError(t, err)

	bad := "not-a-date"
	desc := "updated"
	updated, err := missions.Update(m.ID, MissionUpdate{FlightDate: &bad, Description: &desc})
	require.NoError(t, err)

	require.NotNil(t, updated.FlightDate)
	assert.Equal(t, "2026-05-12", updated.FlightDate.Format("2006-01-02"))
	assert.Equal(t, "updated", updated.Description)
}

func TestDeleteMissionCascades(t *testing.T) {
	missions, files, layout, db := newTestRegistries(t)

	m, err := missions.Create("Alpha", "", "")
	require.NoError(t, err)

	_, err = files.Register(m.ID, "shot.jpg", strings.NewReader("jpegdata"))
	require.NoError(t, err)

	require.True(t, missions.Delete(m.ID))

	_, statErr := os.Stat(layout.MissionDir("Alpha"))
	assert.True(t, os.IsNotExist(statErr))

	var count int64
	require.NoError(t, db.Model(&model.Mission{}).Count(&count).Error)
	assert.Zero(t, count)
	require.NoError(t, db.Model(&model.File{}).Count(&count).Error)
	assert.Zero(t, count)
	require.NoError(t, db.Model(&model.MissionMetadata{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestDeleteMissionAbsent(t *testing.T) {
	missions, _, _, _ := newTestRegistries(t)

	assert.False(t, missions.Delete(1234))
}

func TestSearchMissions(t *testing.T) {
	missions, files, _, _ := newTestRegistries(t)

	alpha, err := missions.Create("Alpha", "2026-05-10", "coastal survey")
	require.NoError(t, err)
	_, err = missions.Create("Beta", "2026-06-20", "bridge inspection")
	require.NoError(t, err)
	_, err = missions.Create("Gamma", "", "")
	require.NoError(t, err)

	_, err = files.Register(alpha.ID, "shot.jpg", strings.NewReader("jpegdata"))
	require.NoError(t, err)

	// Case-insensitive substring over name and description
	res, err := missions.Search(SearchFilters{Query: "SURVEY"})
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, "Alpha", res[0].Name)

	// Inclusive date range
	res, err = missions.Search(SearchFilters{StartDate: "2026-05-10", EndDate: "2026-05-31"})
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, "Alpha", res[0].Name)

	// File category filter
	res, err = missions.Search(SearchFilters{FileType: "images"})
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, "Alpha", res[0].Name)

	// Conjunctive: query matches, category doesn't
	res, err = missions.Search(SearchFilters{Query: "bridge", FileType: "images"})
	require.NoError(t, err)
	assert.Empty(t, res)

	// Unparseable date bounds are ignored
	res, err = missions.Search(SearchFilters{StartDate: "garbage"})
	require.NoError(t, err)
	assert.Len(t, res, 3)
}

func TestListMissionsNewestFirst(t *testing.T) {
	missions, _, _, db := newTestRegistries(t)

	a, err := missions.Create("Alpha", "", "")
	require.NoError(t, err)
	b, err := missions.Create("Beta", "", "")
	require.NoError(t, err)

	// Force distinct creation timestamps
	require.NoError(t, db.Model(&model.Mission{}).Where("id = ?", a.ID).Update("date_created", 1000).Error)
	require.NoError(t, db.Model(&model.Mission{}).Where("id = ?", b.ID).Update("date_created", 2000).Error)

	res, err := missions.List()
	require.NoError(t, err)
	require.Len(t, res, 2)
	assert.Equal(t, "Beta", res[0].Name)
	assert.Equal(t, "Alpha", res[1].Name)
}

func TestFilesByMission(t *testing.T) {
	missions, files, _, _ := newTestRegistries(t)

	m, err := missions.Create("Alpha", "", "")
	require.NoError(t, err)

	_, err = files.Register(m.ID, "a.jpg", strings.NewReader("x"))
	require.NoError(t, err)
	_, err = files.Register(m.ID, "b.log", strings.NewReader("y"))
	require.NoError(t, err)

	all, err := missions.FilesByMission(m.ID, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	imgs, err := missions.FilesByMission(m.ID, "images")
	require.NoError(t, err)
	require.Len(t, imgs, 1)
	assert.Equal(t, "a.jpg", imgs[0].Filename)
}
