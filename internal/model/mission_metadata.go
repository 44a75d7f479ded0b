package model

// MissionMetadata holds values derived from uploaded geo-position files.
// All computed fields stay nil until at least one geopos CSV was parsed
// successfully. A later geopos upload overwrites them, it never merges.
type MissionMetadata struct {
	ID        uint `gorm:"primaryKey;autoIncrement" json:"-"`
	MissionID uint `gorm:"uniqueIndex;not null" json:"mission_id"`

	AreaCovered     *float64 `json:"area_covered,omitempty"` // m², bounding-box approximation
	CenterLatitude  *float64 `json:"center_latitude,omitempty"`
	CenterLongitude *float64 `json:"center_longitude,omitempty"`
	MinAltitude     *float64 `json:"min_altitude,omitempty"`
	MaxAltitude     *float64 `json:"max_altitude,omitempty"`

	DroneModel     string  `json:"drone_model"`
	CameraModel    *string `json:"camera_model,omitempty"`
	FlightDuration *int    `json:"flight_duration,omitempty"` // Seconds
}
