package database

import (
	"fmt"
	"math/rand"

	"personal-blog/internal/models"

	"github.com/brianvoe/gofakeit/v7"
	"gorm.io/gorm"
)

// Seed inserts n fake posts spread across the existing users. It is a
// development helper invoked by the -seed flag and refuses to run
// against an empty user table.
func Seed(db *gorm.DB, n int) error {
	var users []models.User
	if err := db.Find(&users).Error; err != nil {
		return fmt.Errorf("load users: %w", err)
	}
	if len(users) == 0 {
		return fmt.Errorf("no users to attach posts to, register one first")
	}

	for i := 0; i < n; i++ {
		post := models.Post{
			Title:   gofakeit.Sentence(6),
			Content: gofakeit.Paragraph(3, 4, 40, " "),
			UserID:  users[rand.Intn(len(users))].ID,
		}
		if err := db.Create(&post).Error; err != nil {
			return fmt.Errorf("seed post %d: %w", i+1, err)
		}
	}
	return nil
}
