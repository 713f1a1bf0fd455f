package store

import (
	"errors"
	"fmt"

	"personal-blog/internal/models"

	"gorm.io/gorm"
)

// Posts persists blog posts and serves the paginated listing on the
// home page. Ordering is newest first (created_at, with id as the
// tie-breaker for rows created in the same instant).
type Posts struct {
	db *gorm.DB
}

func NewPosts(db *gorm.DB) *Posts {
	return &Posts{db: db}
}

// Page is one page of the post listing.
type Page struct {
	Items      []models.Post
	Number     int
	PerPage    int
	Total      int64
	TotalPages int
}

func (p Page) HasPrev() bool { return p.Number > 1 }
func (p Page) HasNext() bool { return p.Number < p.TotalPages }
func (p Page) Prev() int     { return p.Number - 1 }
func (p Page) Next() int     { return p.Number + 1 }

// ListPage returns one page of posts with their authors preloaded.
// Page numbers below 1 are coerced to 1; pages past the end return an
// empty page rather than an error.
func (s *Posts) ListPage(page, perPage int) (*Page, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 10
	}

	var total int64
	if err := s.db.Model(&models.Post{}).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("count posts: %w", err)
	}

	totalPages := int((total + int64(perPage) - 1) / int64(perPage))

	var items []models.Post
	if err := s.db.Preload("User").
		Order("created_at DESC, id DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}

	return &Page{
		Items:      items,
		Number:     page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: totalPages,
	}, nil
}

// Get returns one post with its author preloaded.
func (s *Posts) Get(id uint) (*models.Post, error) {
	var post models.Post
	if err := s.db.Preload("User").First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get post: %w", err)
	}
	return &post, nil
}

// Create inserts a new post owned by authorID.
func (s *Posts) Create(title, content string, authorID uint) (*models.Post, error) {
	post := models.Post{
		Title:   title,
		Content: content,
		UserID:  authorID,
	}
	if err := s.db.Create(&post).Error; err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return &post, nil
}

// Update overwrites title and content only. The author is immutable.
func (s *Posts) Update(id uint, title, content string) error {
	res := s.db.Model(&models.Post{}).Where("id = ?", id).
		Updates(map[string]interface{}{"title": title, "content": content})
	if res.Error != nil {
		return fmt.Errorf("update post: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the post row.
func (s *Posts) Delete(id uint) error {
	res := s.db.Delete(&models.Post{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete post: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListForUser returns all posts by one author, newest first.
func (s *Posts) ListForUser(userID uint) ([]models.Post, error) {
	var items []models.Post
	if err := s.db.Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list posts for user: %w", err)
	}
	return items, nil
}

// CountForUser returns how many posts one author has.
func (s *Posts) CountForUser(userID uint) (int64, error) {
	var n int64
	if err := s.db.Model(&models.Post{}).Where("user_id = ?", userID).
		Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count posts for user: %w", err)
	}
	return n, nil
}
