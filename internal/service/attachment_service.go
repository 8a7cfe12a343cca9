package service

import (
	"context"
	"fmt"
	"path"

	"lms/internal/model"
	"lms/internal/repository"
	"lms/internal/session"
)

type AttachmentService interface {
	// CreateAttachment links an uploaded file to the course. The name defaults
	// to the last segment of the URL.
	CreateAttachment(ctx context.Context, s session.Session, courseID, url, name string) (*model.Attachment, error)
	DeleteAttachment(ctx context.Context, s session.Session, courseID, attachmentID string) error
}

type attachmentService struct {
	repo   repository.AttachmentRepository
	access *CourseAccess
}

func NewAttachmentService(repo repository.AttachmentRepository, access *CourseAccess) AttachmentService {
	return &attachmentService{repo: repo, access: access}
}

func (s *attachmentService) CreateAttachment(ctx context.Context, sess session.Session, courseID, url, name string) (*model.Attachment, error) {
	if _, err := s.access.Authorize(ctx, sess, courseID); err != nil {
		return nil, err
	}
	if name == "" {
		name = path.Base(url)
	}
	a := &model.Attachment{CourseID: courseID, URL: url, Name: name}
	if err := s.repo.CreateAttachment(ctx, a); err != nil {
		return nil, fmt.Errorf("failed to create attachment: %w", err)
	}
	return a, nil
}

func (s *attachmentService) DeleteAttachment(ctx context.Context, sess session.Session, courseID, attachmentID string) error {
	if _, err := s.access.Authorize(ctx, sess, courseID); err != nil {
		return err
	}
	deleted, err := s.repo.DeleteAttachment(ctx, courseID, attachmentID)
	if err != nil {
		return fmt.Errorf("failed to delete attachment: %w", err)
	}
	if !deleted {
		return ErrAttachmentNotFound
	}
	return nil
}
