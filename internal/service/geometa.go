package service

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"dronedeck/mission-api/internal/model"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// metersPerDegree is the rough length of one degree of latitude. Longitude
// degrees are scaled by cos(latitude). Good enough for a coverage estimate,
// this is not a geodesy library.
const metersPerDegree = 111000

// minAreaPoints is how many lat/lon samples are needed before the covered
// area is estimated at all.
const minAreaPoints = 4

// Extractor derives mission metadata (center point, altitude range,
// approximate covered area) from uploaded geo-position CSVs.
type Extractor struct {
	DB *gorm.DB

	// DroneModel is the default written when the metadata row has to be
	// created from scratch, matching what MissionRegistry.Create uses.
	DroneModel string
}

func NewExtractor(db *gorm.DB, droneModel string) *Extractor {
	return &Extractor{DB: db, DroneModel: droneModel}
}

// Extract parses a geo-position CSV and updates the mission's metadata
// record in one transaction. Errors are returned for the caller to log,
// never to surface: a failed extraction must not fail the upload that
// triggered it.
func (e *Extractor) Extract(csvPath string, missionID uint) error {
	lats, lons, alts, err := readTrack(csvPath)
	if err != nil {
		return err
	}

	return e.DB.Transaction(func(tx *gorm.DB) error {
		var meta model.MissionMetadata

		err := tx.Where("mission_id = ?", missionID).First(&meta).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			meta = model.MissionMetadata{MissionID: missionID, DroneModel: e.DroneModel}
			if err := tx.Create(&meta).Error; err != nil {
				return fmt.Errorf("failed to create metadata record, %w", err)
			}
		} else if err != nil {
			return fmt.Errorf("failed to load metadata record, %w", err)
		}

		if len(lats) > 0 {
			meta.CenterLatitude = ptr(mean(lats))
			meta.CenterLongitude = ptr(mean(lons))

			if len(lats) >= minAreaPoints {
				meta.AreaCovered = ptr(boundingBoxArea(lats, lons))
			}
		}

		if len(alts) > 0 {
			lo, hi := extremes(alts)
			meta.MinAltitude = ptr(lo)
			meta.MaxAltitude = ptr(hi)
		}

		if err := tx.Save(&meta).Error; err != nil {
			return fmt.Errorf("failed to save metadata record, %w", err)
		}

		zap.L().Info("Extracted geo metadata",
			zap.Uint("missionID", missionID),
			zap.Int("points", len(lats)),
			zap.Int("altitudes", len(alts)))

		return nil
	})
}

// readTrack reads a header-delimited CSV and collects the parsable
// latitude, longitude and altitude samples. Columns are matched once from
// the header by case-insensitive substring, first hit per role wins. A row
// only contributes coordinates when both lat and lon parse, altitudes
// contribute independently.
func readTrack(csvPath string) (lats, lons, alts []float64, err error) {
	f, err := os.Open(csvPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to open geo file, %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // Ragged rows are handled per cell below

	header, err := r.Read()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to read csv header, %w", err)
	}

	latCol, lonCol, altCol := matchColumns(header)

	for {
		row, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, nil, nil, fmt.Errorf("failed to read csv row, %w", err)
		}

		lat, latOK := cellFloat(row, latCol)
		lon, lonOK := cellFloat(row, lonCol)

		if latOK && lonOK {
			lats = append(lats, lat)
			lons = append(lons, lon)
		}

		if alt, ok := cellFloat(row, altCol); ok {
			alts = append(alts, alt)
		}
	}

	return lats, lons, alts, nil
}

// matchColumns assigns the latitude, longitude and altitude roles to
// header columns. Returns -1 for roles with no matching column.
func matchColumns(header []string) (latCol, lonCol, altCol int) {
	latCol, lonCol, altCol = -1, -1, -1

	for i, col := range header {
		name := strings.ToLower(col)

		if latCol == -1 && strings.Contains(name, "lat") {
			latCol = i
		}
		if lonCol == -1 && (strings.Contains(name, "lon") || strings.Contains(name, "lng")) {
			lonCol = i
		}
		if altCol == -1 && (strings.Contains(name, "alt") || strings.Contains(name, "elevation")) {
			altCol = i
		}
	}

	return latCol, lonCol, altCol
}

func cellFloat(row []string, col int) (float64, bool) {
	if col < 0 || col >= len(row) {
		return 0, false
	}

	v, err := strconv.ParseFloat(strings.TrimSpace(row[col]), 64)
	if err != nil {
		return 0, false
	}

	return v, true
}

func mean(vals []float64) float64 {
	var sum float64
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

func extremes(vals []float64) (lo, hi float64) {
	lo, hi = vals[0], vals[0]
	for _, v := range vals[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}

// boundingBoxArea estimates the covered area in m² from the lat/lon
// bounding box using a flat-earth approximation.
func boundingBoxArea(lats, lons []float64) float64 {
	latMin, latMax := extremes(lats)
	lonMin, lonMax := extremes(lons)

	centerRad := (latMin + latMax) / 2 * math.Pi / 180

	latDist := (latMax - latMin) * metersPerDegree
	lonDist := (lonMax - lonMin) * metersPerDegree * math.Cos(centerRad)

	return latDist * lonDist
}

func ptr[T any](v T) *T { return &v }
