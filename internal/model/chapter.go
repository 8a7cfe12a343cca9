package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Chapter is a titled unit of video content belonging to one course.
type Chapter struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	CourseID    string    `gorm:"size:36;index;not null" json:"courseId"`
	Title       string    `gorm:"not null" json:"title"`
	Description *string   `json:"description"`
	VideoURL    *string   `gorm:"column:video_url" json:"videoUrl"`
	Position    int       `gorm:"not null" json:"position"`
	IsPublished bool      `gorm:"not null;default:false" json:"isPublished"`
	IsFree      bool      `gorm:"not null;default:false" json:"isFree"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (c *Chapter) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// MissingRequiredFields reports whether the chapter lacks any of the fields
// needed to publish it: title, description and video.
func (c *Chapter) MissingRequiredFields() bool {
	return c.Title == "" || !present(c.Description) || !present(c.VideoURL)
}
