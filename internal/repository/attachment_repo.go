package repository

import (
	"context"

	"lms/internal/model"

	"gorm.io/gorm"
)

type AttachmentRepository interface {
	CreateAttachment(ctx context.Context, a *model.Attachment) error
	// DeleteAttachment reports false when no attachment matched both ids.
	DeleteAttachment(ctx context.Context, courseID, attachmentID string) (bool, error)
}

type attachmentRepo struct {
	db *gorm.DB
}

func NewAttachmentRepo(db *gorm.DB) AttachmentRepository {
	return &attachmentRepo{db: db}
}

func (r *attachmentRepo) CreateAttachment(ctx context.Context, a *model.Attachment) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *attachmentRepo) DeleteAttachment(ctx context.Context, courseID, attachmentID string) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&model.Attachment{}, "id = ? AND course_id = ?", attachmentID, courseID)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
