package store

import (
	"errors"
	"fmt"
	"strings"

	"personal-blog/internal/models"

	"gorm.io/gorm"
)

// Users is the credential store: it owns every read and write of User
// rows and enforces username/email uniqueness.
type Users struct {
	db *gorm.DB
}

func NewUsers(db *gorm.DB) *Users {
	return &Users{db: db}
}

// Create inserts a new user. The password must already be hashed.
// Username collisions are checked case-insensitively; emails are stored
// lower-cased so the unique index itself is case-insensitive.
func (s *Users) Create(username, email, passwordHash string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	if err := s.checkCollisions(username, email, 0); err != nil {
		return nil, err
	}

	user := models.User{
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
	}
	if err := s.db.Create(&user).Error; err != nil {
		if isUniqueViolation(err) {
			// two concurrent registrations passed the pre-check;
			// re-run it to report the right field
			if cerr := s.checkCollisions(username, email, 0); cerr != nil {
				return nil, cerr
			}
			return nil, ErrDuplicateUsername
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &user, nil
}

// FindByEmail looks a user up by email, case-insensitively.
func (s *Users) FindByEmail(email string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return &user, nil
}

// FindByID looks a user up by primary key.
func (s *Users) FindByID(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return &user, nil
}

// UpdateProfile overwrites username and email in place. Collision checks
// exclude the acting user's own row, so saving an unchanged profile is
// not a duplicate.
func (s *Users) UpdateProfile(id uint, username, email string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	if err := s.checkCollisions(username, email, id); err != nil {
		return nil, err
	}

	user, err := s.FindByID(id)
	if err != nil {
		return nil, err
	}

	user.Username = username
	user.Email = email
	if err := s.db.Save(user).Error; err != nil {
		if isUniqueViolation(err) {
			if cerr := s.checkCollisions(username, email, id); cerr != nil {
				return nil, cerr
			}
			return nil, ErrDuplicateUsername
		}
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return user, nil
}

// Count returns the total number of users.
func (s *Users) Count() (int64, error) {
	var n int64
	if err := s.db.Model(&models.User{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

// checkCollisions reports a duplicate username or email held by a user
// other than excludeID. Pass excludeID 0 for inserts.
func (s *Users) checkCollisions(username, email string, excludeID uint) error {
	var count int64
	if err := s.db.Model(&models.User{}).
		Where("LOWER(username) = LOWER(?) AND id <> ?", username, excludeID).
		Count(&count).Error; err != nil {
		return fmt.Errorf("check username: %w", err)
	}
	if count > 0 {
		return ErrDuplicateUsername
	}

	if err := s.db.Model(&models.User{}).
		Where("email = ? AND id <> ?", email, excludeID).
		Count(&count).Error; err != nil {
		return fmt.Errorf("check email: %w", err)
	}
	if count > 0 {
		return ErrDuplicateEmail
	}
	return nil
}
