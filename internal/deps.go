package internal

import (
	"dronedeck/mission-api/internal/classify"
	"dronedeck/mission-api/internal/service"
	"dronedeck/mission-api/internal/storage"

	"gorm.io/gorm"
)

type Deps struct {
	DB         *gorm.DB
	Layout     *storage.Layout
	Classifier *classify.Classifier
	Missions   *service.MissionRegistry
	Files      *service.FileRegistry
	Extractor  *service.Extractor
}
