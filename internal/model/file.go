package model

type File struct {
	ID        uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	MissionID uint   `gorm:"index;not null" json:"mission_id"`
	Filename  string `gorm:"not null" json:"filename"` // Sanitized original name
	FilePath  string `gorm:"not null" json:"-"`        // Absolute path under the mission tree
	FileType  string `gorm:"not null" json:"file_type"`
	FileSize  int64  `json:"file_size"` // Measured on disk after the write, not the declared size
	// Unix second timestamp
	UploadedAt int64 `gorm:"not null" json:"uploaded_at"`
}
