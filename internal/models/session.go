package models

import "time"

// Session stores user login sessions (for logout, invalidation, audit).
// The ID is a UUID embedded in the signed cookie token; revoking the row
// kills the session even while the token signature still verifies.
type Session struct {
	ID        string    `gorm:"primaryKey;size:36"`
	UserID    uint      `gorm:"index;not null"`
	ExpiresAt time.Time `gorm:"index;not null"`
	Revoked   bool      `gorm:"index;not null"`
	Remember  bool      `gorm:"not null"`
	CreatedAt time.Time

	User User `gorm:"constraint:OnDelete:CASCADE"`
}
