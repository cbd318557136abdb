package database

import "time"

// Setting is a persisted key-value pair (window geometry, device id,
// launch-at-startup flag and similar user preferences).
type Setting struct {
	ID        uint   `gorm:"primaryKey"`
	Key       string `gorm:"uniqueIndex;size:190;not null"`
	Value     string `gorm:"type:text"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
