package repository

import (
	"context"

	"lms/internal/model"

	"gorm.io/gorm"
)

// CourseRepository defines the interface for interacting with course data
type CourseRepository interface {
	CreateCourse(ctx context.Context, c *model.Course) error
	// GetCourseByID loads a course with its chapters (by position) and attachments (newest first).
	// It returns nil when the course does not exist.
	GetCourseByID(ctx context.Context, courseID string) (*model.Course, error)
	GetCoursesByUserID(ctx context.Context, userID string) ([]model.Course, error)
	// UpdateCourseFields writes the given columns and returns the stored record.
	UpdateCourseFields(ctx context.Context, courseID string, fields map[string]any) (*model.Course, error)
	SetCoursePublished(ctx context.Context, courseID string, published bool) (*model.Course, error)
	DeleteCourse(ctx context.Context, courseID string) error
}

type courseRepo struct {
	db *gorm.DB
}

// NewCourseRepo creates a new CourseRepository
func NewCourseRepo(db *gorm.DB) CourseRepository {
	return &courseRepo{db: db}
}

func (r *courseRepo) CreateCourse(ctx context.Context, c *model.Course) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *courseRepo) GetCourseByID(ctx context.Context, courseID string) (*model.Course, error) {
	var c model.Course
	err := r.db.WithContext(ctx).
		Preload("Chapters", func(tx *gorm.DB) *gorm.DB { return tx.Order("position ASC") }).
		Preload("Attachments", func(tx *gorm.DB) *gorm.DB { return tx.Order("created_at DESC") }).
		First(&c, "id = ?", courseID).Error
	if err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *courseRepo) GetCoursesByUserID(ctx context.Context, userID string) ([]model.Course, error) {
	courses := []model.Course{}
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&courses).Error
	if err != nil {
		return nil, err
	}
	return courses, nil
}

func (r *courseRepo) UpdateCourseFields(ctx context.Context, courseID string, fields map[string]any) (*model.Course, error) {
	var c model.Course
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Course{}).Where("id = ?", courseID).Updates(fields)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.First(&c, "id = ?", courseID).Error
	})
	if err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *courseRepo) SetCoursePublished(ctx context.Context, courseID string, published bool) (*model.Course, error) {
	return r.UpdateCourseFields(ctx, courseID, map[string]any{"is_published": published})
}

func (r *courseRepo) DeleteCourse(ctx context.Context, courseID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("course_id = ?", courseID).Delete(&model.Chapter{}).Error; err != nil {
			return err
		}
		if err := tx.Where("course_id = ?", courseID).Delete(&model.Attachment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Course{}, "id = ?", courseID).Error
	})
}
