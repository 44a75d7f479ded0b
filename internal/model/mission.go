// Package model defines database models
package model

import "time"

type Mission struct {
	ID          uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string     `gorm:"uniqueIndex;not null" json:"name"`
	DateCreated int64      `gorm:"not null" json:"date_created"` // Unix seconds, set once at creation
	FlightDate  *time.Time `json:"flight_date,omitempty"`
	Description string     `json:"description,omitempty"`
}
