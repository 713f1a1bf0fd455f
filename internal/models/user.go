package models

import "time"

// User represents a registered author account.
// Email is stored lower-cased; username keeps its original casing but
// uniqueness is checked case-insensitively at the store layer.
type User struct {
	ID           uint   `gorm:"primaryKey"`
	Username     string `gorm:"size:64;uniqueIndex;not null"`
	Email        string `gorm:"size:255;uniqueIndex;not null"`
	PasswordHash string `gorm:"size:255;not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
