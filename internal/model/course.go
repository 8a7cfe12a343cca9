package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Course is an authored training course. Chapters and attachments are only
// populated when loaded through the course repository.
type Course struct {
	ID          string       `gorm:"primaryKey;size:36" json:"id"`
	UserID      string       `gorm:"size:36;index;not null" json:"userId"`
	Title       string       `gorm:"not null" json:"title"`
	Description *string      `json:"description"`
	ImageURL    *string      `gorm:"column:image_url" json:"imageUrl"`
	Price       *float64     `json:"price"`
	IsPublished bool         `gorm:"not null;default:false" json:"isPublished"`
	CategoryID  *string      `gorm:"size:36;index" json:"categoryId"`
	Chapters    []Chapter    `gorm:"constraint:OnDelete:CASCADE" json:"chapters,omitempty"`
	Attachments []Attachment `gorm:"constraint:OnDelete:CASCADE" json:"attachments,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

func (c *Course) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// Completion counts the setup steps a course needs before it can be published.
type Completion struct {
	Completed int
	Total     int
}

// Text renders the completion as "(completed/total)".
func (c Completion) Text() string {
	return fmt.Sprintf("(%d/%d)", c.Completed, c.Total)
}

func (c Completion) IsComplete() bool {
	return c.Completed == c.Total
}

// Completion derives the setup progress from title, description, image,
// category and at least one published chapter. Price is not required.
func (c *Course) Completion() Completion {
	required := []bool{
		c.Title != "",
		present(c.Description),
		present(c.ImageURL),
		present(c.CategoryID),
		c.HasPublishedChapter(),
	}
	done := 0
	for _, ok := range required {
		if ok {
			done++
		}
	}
	return Completion{Completed: done, Total: len(required)}
}

func (c *Course) HasPublishedChapter() bool {
	for _, ch := range c.Chapters {
		if ch.IsPublished {
			return true
		}
	}
	return false
}

func present(s *string) bool {
	return s != nil && *s != ""
}
