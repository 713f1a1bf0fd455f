package store

import (
	"errors"
	"fmt"
	"time"

	"personal-blog/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Sessions tracks server-side login sessions. A session row is created
// at login and revoked at logout; the middleware consults it on every
// request so a revoked token stops working immediately.
type Sessions struct {
	db          *gorm.DB
	defaultTTL  time.Duration
	rememberTTL time.Duration
}

func NewSessions(db *gorm.DB, expireHours, rememberDays int) *Sessions {
	if expireHours <= 0 {
		expireHours = 24
	}
	if rememberDays <= 0 {
		rememberDays = 30
	}
	return &Sessions{
		db:          db,
		defaultTTL:  time.Duration(expireHours) * time.Hour,
		rememberTTL: time.Duration(rememberDays) * 24 * time.Hour,
	}
}

// Create issues a new session for userID. Remember extends the validity
// window from the default browser-session lifetime.
func (s *Sessions) Create(userID uint, remember bool) (*models.Session, error) {
	ttl := s.defaultTTL
	if remember {
		ttl = s.rememberTTL
	}
	sess := models.Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		ExpiresAt: time.Now().Add(ttl),
		Remember:  remember,
	}
	if err := s.db.Create(&sess).Error; err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return &sess, nil
}

// Get returns the session only while it is live: present, not revoked,
// not expired. Anything else is ErrNotFound.
func (s *Sessions) Get(id string) (*models.Session, error) {
	var sess models.Session
	if err := s.db.First(&sess, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	if sess.Revoked || time.Now().After(sess.ExpiresAt) {
		return nil, ErrNotFound
	}
	return &sess, nil
}

// Revoke invalidates one session. Revoking an unknown session is a no-op.
func (s *Sessions) Revoke(id string) error {
	if err := s.db.Model(&models.Session{}).Where("id = ?", id).
		Update("revoked", true).Error; err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

// RememberTTL exposes the remember-me lifetime for cookie max-age.
func (s *Sessions) RememberTTL() time.Duration {
	return s.rememberTTL
}

// TTLFor returns the validity window a new session would get.
func (s *Sessions) TTLFor(remember bool) time.Duration {
	if remember {
		return s.rememberTTL
	}
	return s.defaultTTL
}
