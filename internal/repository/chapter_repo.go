package repository

import (
	"context"
	"errors"

	"lms/internal/model"

	"gorm.io/gorm"
)

// ErrChapterNotInCourse is returned by ReorderChapters when an id does not
// name a chapter of the course. No position is changed in that case.
var ErrChapterNotInCourse = errors.New("chapter not in course")

// ChapterPosition is one entry of a reorder request.
type ChapterPosition struct {
	ID       string
	Position int
}

type ChapterRepository interface {
	// CreateChapter appends the chapter after the course's last position.
	CreateChapter(ctx context.Context, c *model.Chapter) error
	// GetChapter returns the chapter scoped by both ids, or nil when missing.
	GetChapter(ctx context.Context, courseID, chapterID string) (*model.Chapter, error)
	UpdateChapterFields(ctx context.Context, courseID, chapterID string, fields map[string]any) (*model.Chapter, error)
	SetChapterPublished(ctx context.Context, courseID, chapterID string, published bool) (*model.Chapter, error)
	CountPublishedChapters(ctx context.Context, courseID string) (int64, error)
	ReorderChapters(ctx context.Context, courseID string, list []ChapterPosition) error
	DeleteChapter(ctx context.Context, courseID, chapterID string) error
}

type chapterRepo struct {
	db *gorm.DB
}

func NewChapterRepo(db *gorm.DB) ChapterRepository {
	return &chapterRepo{db: db}
}

func (r *chapterRepo) CreateChapter(ctx context.Context, c *model.Chapter) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var last model.Chapter
		err := tx.Where("course_id = ?", c.CourseID).Order("position DESC").Limit(1).Find(&last).Error
		if err != nil {
			return err
		}
		if last.ID != "" {
			c.Position = last.Position + 1
		} else {
			c.Position = 1
		}
		return tx.Create(c).Error
	})
}

func (r *chapterRepo) GetChapter(ctx context.Context, courseID, chapterID string) (*model.Chapter, error) {
	var c model.Chapter
	err := r.db.WithContext(ctx).First(&c, "id = ? AND course_id = ?", chapterID, courseID).Error
	if err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *chapterRepo) UpdateChapterFields(ctx context.Context, courseID, chapterID string, fields map[string]any) (*model.Chapter, error) {
	var c model.Chapter
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Chapter{}).
			Where("id = ? AND course_id = ?", chapterID, courseID).
			Updates(fields)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.First(&c, "id = ?", chapterID).Error
	})
	if err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *chapterRepo) SetChapterPublished(ctx context.Context, courseID, chapterID string, published bool) (*model.Chapter, error) {
	return r.UpdateChapterFields(ctx, courseID, chapterID, map[string]any{"is_published": published})
}

func (r *chapterRepo) CountPublishedChapters(ctx context.Context, courseID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Chapter{}).
		Where("course_id = ? AND is_published = ?", courseID, true).
		Count(&n).Error
	return n, err
}

func (r *chapterRepo) ReorderChapters(ctx context.Context, courseID string, list []ChapterPosition) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, item := range list {
			res := tx.Model(&model.Chapter{}).
				Where("id = ? AND course_id = ?", item.ID, courseID).
				Update("position", item.Position)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return ErrChapterNotInCourse
			}
		}
		return nil
	})
}

func (r *chapterRepo) DeleteChapter(ctx context.Context, courseID, chapterID string) error {
	return r.db.WithContext(ctx).Delete(&model.Chapter{}, "id = ? AND course_id = ?", chapterID, courseID).Error
}
