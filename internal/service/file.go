package service

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"dronedeck/mission-api/internal/apperr"
	"dronedeck/mission-api/internal/classify"
	"dronedeck/mission-api/internal/model"
	"dronedeck/mission-api/internal/storage"
	"dronedeck/mission-api/pkg/util"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrNotAllowed marks a single rejected upload. It's non-fatal, a batch
// keeps going and just counts the file as rejected.
var ErrNotAllowed = errors.New("file type not allowed")

// FileRegistry links physical files under a mission's tree to their
// database records.
type FileRegistry struct {
	DB         *gorm.DB
	Layout     *storage.Layout
	Classifier *classify.Classifier
	Extractor  *Extractor
}

func NewFileRegistry(db *gorm.DB, layout *storage.Layout, cls *classify.Classifier, ex *Extractor) *FileRegistry {
	return &FileRegistry{DB: db, Layout: layout, Classifier: cls, Extractor: ex}
}

// Register accepts one uploaded file for a mission: sanitizes the name,
// classifies it, writes the bytes into the category directory and creates
// the record with the measured on-disk size. Geopos CSVs additionally
// trigger metadata extraction, whose failures are logged and swallowed so
// the upload itself still succeeds.
func (f *FileRegistry) Register(missionID uint, rawName string, r io.Reader) (*model.File, error) {
	var mission model.Mission

	err := f.DB.First(&mission, missionID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFoundf("mission %d not found", missionID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch mission, %w", err)
	}

	if !f.Classifier.IsAllowed(rawName) {
		return nil, ErrNotAllowed
	}

	name := util.SanitizeFilename(rawName)
	category := f.Classifier.Classify(name)

	// Tolerates missions whose tree went missing since creation
	if err := f.Layout.EnsureMissionTree(mission.Name); err != nil {
		return nil, err
	}

	dst := filepath.Join(f.Layout.CategoryDir(mission.Name, category), name)

	size, err := writeFile(dst, r)
	if err != nil {
		return nil, err
	}

	rec := &model.File{
		MissionID:  missionID,
		Filename:   name,
		FilePath:   dst,
		FileType:   category,
		FileSize:   size,
		UploadedAt: time.Now().Unix(),
	}

	if err := f.DB.Create(rec).Error; err != nil {
		os.Remove(dst)
		return nil, fmt.Errorf("failed to create file record, %w", err)
	}

	if category == classify.CategoryGeopos && classify.Ext(name) == "csv" {
		if err := f.Extractor.Extract(dst, missionID); err != nil {
			zap.L().Error("Geo metadata extraction failed",
				zap.Uint("missionID", missionID),
				zap.String("file", name),
				zap.Error(err))
		}
	}

	return rec, nil
}

// Get returns a file record or (nil, nil) when it doesn't exist.
func (f *FileRegistry) Get(fileID uint) (*model.File, error) {
	var file model.File

	err := f.DB.First(&file, fileID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch file, %w", err)
	}

	return &file, nil
}

// Delete removes the physical file and then the record. A failed physical
// remove is logged but doesn't keep the record around, an orphaned file on
// disk beats a record pointing nowhere.
func (f *FileRegistry) Delete(fileID uint) error {
	var file model.File

	err := f.DB.First(&file, fileID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFoundf("file %d not found", fileID)
	}
	if err != nil {
		return fmt.Errorf("failed to fetch file, %w", err)
	}

	if err := os.Remove(file.FilePath); err != nil && !os.IsNotExist(err) {
		zap.L().Error("Failed to remove physical file, deleting record anyway",
			zap.String("path", file.FilePath),
			zap.Error(err))
	}

	if err := f.DB.Delete(&file).Error; err != nil {
		return fmt.Errorf("failed to delete file record, %w", err)
	}

	return nil
}

// BuildArchive zips a mission's files, optionally narrowed to one
// category, into a fresh file under the scratch directory and returns its
// path. The caller owns cleanup after streaming it out. Entry names are
// <category>/<filename> verbatim, a duplicate name within a category means
// last write wins.
func (f *FileRegistry) BuildArchive(missionID uint, category string) (string, error) {
	var mission model.Mission

	err := f.DB.First(&mission, missionID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", apperr.NotFoundf("mission %d not found", missionID)
	}
	if err != nil {
		return "", fmt.Errorf("failed to fetch mission, %w", err)
	}

	if category != "" && !classify.IsCategory(category) {
		return "", apperr.Validationf("unknown category %q", category)
	}

	q := f.DB.Where("mission_id = ?", missionID)
	if category != "" {
		q = q.Where("file_type = ?", category)
	}

	var files []model.File
	if err := q.Find(&files).Error; err != nil {
		return "", fmt.Errorf("failed to list mission files, %w", err)
	}

	if err := f.Layout.EnsureScratch(); err != nil {
		return "", err
	}

	label := category
	if label == "" {
		label = "complete"
	}

	name := fmt.Sprintf("%s_%s_%s.zip", mission.Name, label, time.Now().Format("20060102_150405"))
	zipPath := filepath.Join(f.Layout.Scratch, name)

	if err := writeZip(zipPath, files); err != nil {
		os.Remove(zipPath)
		return "", err
	}

	return zipPath, nil
}

func writeZip(zipPath string, files []model.File) error {
	out, err := os.Create(zipPath)
	if err != nil {
		return &apperr.StorageError{Op: "create", Path: zipPath, Err: err}
	}
	defer out.Close()

	zw := zip.NewWriter(out)

	for _, file := range files {
		src, err := os.Open(file.FilePath)
		if err != nil {
			return &apperr.StorageError{Op: "open", Path: file.FilePath, Err: err}
		}

		w, err := zw.Create(file.FileType + "/" + file.Filename)
		if err != nil {
			src.Close()
			return fmt.Errorf("failed to add zip entry, %w", err)
		}

		if _, err := io.Copy(w, src); err != nil {
			src.Close()
			return fmt.Errorf("failed to write zip entry, %w", err)
		}

		src.Close()
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to finalize zip, %w", err)
	}

	return nil
}

// writeFile streams r into dst and returns the byte count actually
// written to disk.
func writeFile(dst string, r io.Reader) (int64, error) {
	out, err := os.Create(dst)
	if err != nil {
		return 0, &apperr.StorageError{Op: "create", Path: dst, Err: err}
	}

	n, err := io.Copy(out, r)
	if err != nil {
		out.Close()
		os.Remove(dst)
		return 0, &apperr.StorageError{Op: "write", Path: dst, Err: err}
	}

	if err := out.Close(); err != nil {
		os.Remove(dst)
		return 0, &apperr.StorageError{Op: "close", Path: dst, Err: err}
	}

	return n, nil
}
