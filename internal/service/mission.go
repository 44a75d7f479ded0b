package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"dronedeck/mission-api/internal/apperr"
	"dronedeck/mission-api/internal/model"
	"dronedeck/mission-api/internal/storage"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const flightDateLayout = "2006-01-02"

// MissionRegistry coordinates mission records with their on-disk
// directory trees. Lookups return (nil, nil) for missing missions, only
// mutations produce typed errors.
type MissionRegistry struct {
	DB         *gorm.DB
	Layout     *storage.Layout
	DroneModel string
}

func NewMissionRegistry(db *gorm.DB, layout *storage.Layout, droneModel string) *MissionRegistry {
	return &MissionRegistry{DB: db, Layout: layout, DroneModel: droneModel}
}

// MissionUpdate carries the optional fields of an update. Nil pointers
// leave the current value alone.
type MissionUpdate struct {
	Name        *string
	FlightDate  *string
	Description *string
}

// SearchFilters are combined conjunctively. Empty strings mean the filter
// is not applied, unparseable date bounds are ignored.
type SearchFilters struct {
	Query     string
	StartDate string
	EndDate   string
	FileType  string
}

// Create inserts a mission record plus its empty metadata record and
// builds the directory tree, all or nothing. The flight date is parsed as
// YYYY-MM-DD, invalid values are logged and dropped.
func (m *MissionRegistry) Create(name, flightDate, description string) (*model.Mission, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}

	mission := &model.Mission{
		Name:        name,
		DateCreated: time.Now().Unix(),
		FlightDate:  parseFlightDate(flightDate),
		Description: description,
	}

	err := m.DB.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.Mission{}).Where("name = ?", name).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check name uniqueness, %w", err)
		}
		if count > 0 {
			return apperr.Validationf("mission %q already exists", name)
		}

		if err := tx.Create(mission).Error; err != nil {
			return fmt.Errorf("failed to create mission record, %w", err)
		}

		meta := &model.MissionMetadata{MissionID: mission.ID, DroneModel: m.DroneModel}
		if err := tx.Create(meta).Error; err != nil {
			return fmt.Errorf("failed to create metadata record, %w", err)
		}

		// Last so a storage failure rolls the records back
		return m.Layout.EnsureMissionTree(name)
	})
	if err != nil {
		return nil, err
	}

	return mission, nil
}

// GetByID returns a mission or (nil, nil) when it doesn't exist.
func (m *MissionRegistry) GetByID(id uint) (*model.Mission, error) {
	var mission model.Mission

	err := m.DB.First(&mission, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch mission, %w", err)
	}

	return &mission, nil
}

// GetByName returns a mission or (nil, nil) when it doesn't exist.
func (m *MissionRegistry) GetByName(name string) (*model.Mission, error) {
	var mission model.Mission

	err := m.DB.Where("name = ?", name).First(&mission).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch mission, %w", err)
	}

	return &mission, nil
}

// Metadata returns a mission's metadata record, or (nil, nil) when there
// is none.
func (m *MissionRegistry) Metadata(missionID uint) (*model.MissionMetadata, error) {
	var meta model.MissionMetadata

	err := m.DB.Where("mission_id = ?", missionID).First(&meta).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch metadata, %w", err)
	}

	return &meta, nil
}

// Update applies the supplied fields. A name change renames the directory
// tree first and the record only takes the new name when the rename went
// through. A failed rename is logged and the name change abandoned, the
// other fields still apply.
func (m *MissionRegistry) Update(id uint, upd MissionUpdate) (*model.Mission, error) {
	var mission model.Mission

	err := m.DB.Transaction(func(tx *gorm.DB) error {
		err := tx.First(&mission, id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFoundf("mission %d not found", id)
		}
		if err != nil {
			return fmt.Errorf("failed to fetch mission, %w", err)
		}

		if upd.Name != nil && *upd.Name != mission.Name {
			newName := *upd.Name
			if err := validateName(newName); err != nil {
				return err
			}

			var count int64
			if err := tx.Model(&model.Mission{}).Where("name = ? AND id <> ?", newName, id).Count(&count).Error; err != nil {
				return fmt.Errorf("failed to check name uniqueness, %w", err)
			}
			if count > 0 {
				return apperr.Validationf("mission %q already exists", newName)
			}

			oldDir := m.Layout.MissionDir(mission.Name)

			if err := m.Layout.RenameMissionTree(mission.Name, newName); err != nil {
				// Keep the old name, record and filesystem must not diverge
				zap.L().Error("Mission tree rename failed, keeping old name",
					zap.Uint("missionID", id),
					zap.String("newName", newName),
					zap.Error(err))
			} else {
				mission.Name = newName

				// Stored file paths keep pointing under the mission dir
				err := tx.Model(&model.File{}).
					Where("mission_id = ?", id).
					Update("file_path", gorm.Expr("replace(file_path, ?, ?)", oldDir, m.Layout.MissionDir(newName))).
					Error
				if err != nil {
					return fmt.Errorf("failed to rewrite file paths, %w", err)
				}
			}
		}

		if upd.FlightDate != nil {
			if d := parseFlightDate(*upd.FlightDate); d != nil {
				mission.FlightDate = d
			}
		}

		if upd.Description != nil {
			mission.Description = *upd.Description
		}

		if err := tx.Save(&mission).Error; err != nil {
			return fmt.Errorf("failed to save mission, %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &mission, nil
}

// Delete removes the directory tree, the metadata record, the file
// records and the mission record in one transaction. Any failure rolls
// the relational state back and reports false.
func (m *MissionRegistry) Delete(id uint) bool {
	err := m.DB.Transaction(func(tx *gorm.DB) error {
		var mission model.Mission

		err := tx.First(&mission, id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFoundf("mission %d not found", id)
		}
		if err != nil {
			return fmt.Errorf("failed to fetch mission, %w", err)
		}

		if err := m.Layout.DeleteMissionTree(mission.Name); err != nil {
			return err
		}

		if err := tx.Where("mission_id = ?", id).Delete(&model.MissionMetadata{}).Error; err != nil {
			return fmt.Errorf("failed to delete metadata record, %w", err)
		}

		if err := tx.Where("mission_id = ?", id).Delete(&model.File{}).Error; err != nil {
			return fmt.Errorf("failed to delete file records, %w", err)
		}

		if err := tx.Delete(&mission).Error; err != nil {
			return fmt.Errorf("failed to delete mission record, %w", err)
		}

		return nil
	})
	if err != nil {
		zap.L().Error("Mission delete failed", zap.Uint("missionID", id), zap.Error(err))
		return false
	}

	return true
}

// List returns all missions, newest first.
func (m *MissionRegistry) List() ([]model.Mission, error) {
	var missions []model.Mission

	err := m.DB.Order("date_created desc").Find(&missions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list missions, %w", err)
	}

	return missions, nil
}

// Search returns missions matching all supplied filters, newest first.
func (m *MissionRegistry) Search(f SearchFilters) ([]model.Mission, error) {
	q := m.DB.Model(&model.Mission{})

	if f.Query != "" {
		like := "%" + f.Query + "%"
		q = q.Where("lower(name) LIKE lower(?) OR lower(description) LIKE lower(?)", like, like)
	}

	if d := parseFlightDate(f.StartDate); d != nil {
		q = q.Where("flight_date >= ?", *d)
	}

	if d := parseFlightDate(f.EndDate); d != nil {
		q = q.Where("flight_date <= ?", *d)
	}

	if f.FileType != "" {
		q = q.Where("EXISTS (SELECT 1 FROM files WHERE files.mission_id = missions.id AND files.file_type = ?)", f.FileType)
	}

	var missions []model.Mission
	if err := q.Order("date_created desc").Find(&missions).Error; err != nil {
		return nil, fmt.Errorf("failed to search missions, %w", err)
	}

	return missions, nil
}

// FilesByMission returns a mission's file records, optionally narrowed to
// one category.
func (m *MissionRegistry) FilesByMission(missionID uint, category string) ([]model.File, error) {
	q := m.DB.Where("mission_id = ?", missionID)
	if category != "" {
		q = q.Where("file_type = ?", category)
	}

	var files []model.File
	if err := q.Order("uploaded_at desc").Find(&files).Error; err != nil {
		return nil, fmt.Errorf("failed to list mission files, %w", err)
	}

	return files, nil
}

// validateName rejects names that are empty or unusable as a directory
// name under the upload root.
func validateName(name string) error {
	if name == "" {
		return apperr.Validationf("mission name can't be empty")
	}

	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return apperr.Validationf("mission name can't contain path separators")
	}

	return nil
}

// parseFlightDate parses a YYYY-MM-DD date. Invalid or empty input is
// logged and dropped rather than failing the surrounding operation.
func parseFlightDate(s string) *time.Time {
	if s == "" {
		return nil
	}

	d, err := time.Parse(flightDateLayout, s)
	if err != nil {
		zap.L().Warn("Invalid flight date, ignoring", zap.String("value", s))
		return nil
	}

	return &d
}
