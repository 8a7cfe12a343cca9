package service

import (
	"context"
	"errors"
	"fmt"

	"lms/internal/model"
	"lms/internal/pubsub"
	"lms/internal/repository"
	"lms/internal/session"

	"github.com/rs/zerolog"
)

// ChapterUpdate carries the chapter fields a single form may change.
type ChapterUpdate struct {
	Title       *string
	Description *string
	VideoURL    *string
	IsFree      *bool
}

func (u ChapterUpdate) fields() map[string]any {
	fields := map[string]any{}
	if u.Title != nil {
		fields["title"] = *u.Title
	}
	if u.Description != nil {
		fields["description"] = *u.Description
	}
	if u.VideoURL != nil {
		fields["video_url"] = *u.VideoURL
	}
	if u.IsFree != nil {
		fields["is_free"] = *u.IsFree
	}
	return fields
}

type ChapterService interface {
	CreateChapter(ctx context.Context, s session.Session, courseID, title string) (*model.Chapter, error)
	GetChapter(ctx context.Context, s session.Session, courseID, chapterID string) (*model.Chapter, error)
	UpdateChapter(ctx context.Context, s session.Session, courseID, chapterID string, u ChapterUpdate) (*model.Chapter, error)
	// PublishChapter returns ErrMissingRequiredFields when the chapter does not
	// exist in the course or lacks a title, description or video.
	PublishChapter(ctx context.Context, s session.Session, courseID, chapterID string) (*model.Chapter, error)
	// UnpublishChapter also unpublishes the course once no published chapter remains.
	UnpublishChapter(ctx context.Context, s session.Session, courseID, chapterID string) (*model.Chapter, error)
	ReorderChapters(ctx context.Context, s session.Session, courseID string, list []repository.ChapterPosition) error
	DeleteChapter(ctx context.Context, s session.Session, courseID, chapterID string) error
}

type chapterService struct {
	chapters  repository.ChapterRepository
	courses   repository.CourseRepository
	access    *CourseAccess
	publisher pubsub.Publisher
	topic     string
	logger    zerolog.Logger
}

func NewChapterService(
	chapters repository.ChapterRepository,
	courses repository.CourseRepository,
	access *CourseAccess,
	publisher pubsub.Publisher,
	topic string,
	logger zerolog.Logger,
) ChapterService {
	return &chapterService{
		chapters:  chapters,
		courses:   courses,
		access:    access,
		publisher: publisher,
		topic:     topic,
		logger:    logger.With().Str("service", "ChapterService").Logger(),
	}
}

func (s *chapterService) CreateChapter(ctx context.Context, sess session.Session, courseID, title string) (*model.Chapter, error) {
	if _, err := s.access.Authorize(ctx, sess, courseID); err != nil {
		return nil, err
	}
	ch := &model.Chapter{CourseID: courseID, Title: title}
	if err := s.chapters.CreateChapter(ctx, ch); err != nil {
		return nil, fmt.Errorf("failed to create chapter: %w", err)
	}
	return ch, nil
}

func (s *chapterService) GetChapter(ctx context.Context, sess session.Session, courseID, chapterID string) (*model.Chapter, error) {
	if _, err := s.access.Authorize(ctx, sess, courseID); err != nil {
		return nil, err
	}
	ch, err := s.chapters.GetChapter(ctx, courseID, chapterID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve chapter: %w", err)
	}
	if ch == nil {
		return nil, ErrChapterNotFound
	}
	return ch, nil
}

func (s *chapterService) UpdateChapter(ctx context.Context, sess session.Session, courseID, chapterID string, u ChapterUpdate) (*model.Chapter, error) {
	if _, err := s.access.Authorize(ctx, sess, courseID); err != nil {
		return nil, err
	}
	fields := u.fields()
	if len(fields) == 0 {
		return s.GetChapter(ctx, sess, courseID, chapterID)
	}
	ch, err := s.chapters.UpdateChapterFields(ctx, courseID, chapterID, fields)
	if err != nil {
		return nil, fmt.Errorf("failed to update chapter: %w", err)
	}
	if ch == nil {
		return nil, ErrChapterNotFound
	}
	return ch, nil
}

func (s *chapterService) PublishChapter(ctx context.Context, sess session.Session, courseID, chapterID string) (*model.Chapter, error) {
	// A missing course is reported the same way as a missing chapter.
	if _, err := s.access.Authorize(ctx, sess, courseID); err != nil && !errors.Is(err, ErrCourseNotFound) {
		return nil, err
	}

	ch, err := s.chapters.GetChapter(ctx, courseID, chapterID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve chapter: %w", err)
	}
	if ch == nil || ch.MissingRequiredFields() {
		return nil, ErrMissingRequiredFields
	}

	published, err := s.chapters.SetChapterPublished(ctx, courseID, chapterID, true)
	if err != nil {
		return nil, fmt.Errorf("failed to publish chapter: %w", err)
	}
	if published == nil {
		return nil, ErrMissingRequiredFields
	}

	s.emit(ctx, pubsub.EventChapterPublished, sess, courseID, chapterID)
	return published, nil
}

func (s *chapterService) UnpublishChapter(ctx context.Context, sess session.Session, courseID, chapterID string) (*model.Chapter, error) {
	if _, err := s.access.Authorize(ctx, sess, courseID); err != nil {
		return nil, err
	}
	ch, err := s.chapters.SetChapterPublished(ctx, courseID, chapterID, false)
	if err != nil {
		return nil, fmt.Errorf("failed to unpublish chapter: %w", err)
	}
	if ch == nil {
		return nil, ErrChapterNotFound
	}
	if err := s.unpublishCourseIfEmpty(ctx, courseID); err != nil {
		return nil, err
	}
	s.emit(ctx, pubsub.EventChapterUnpublished, sess, courseID, chapterID)
	return ch, nil
}

func (s *chapterService) ReorderChapters(ctx context.Context, sess session.Session, courseID string, list []repository.ChapterPosition) error {
	if _, err := s.access.Authorize(ctx, sess, courseID); err != nil {
		return err
	}
	if err := s.chapters.ReorderChapters(ctx, courseID, list); err != nil {
		if errors.Is(err, repository.ErrChapterNotInCourse) {
			return ErrChapterNotFound
		}
		return fmt.Errorf("failed to reorder chapters: %w", err)
	}
	return nil
}

func (s *chapterService) DeleteChapter(ctx context.Context, sess session.Session, courseID, chapterID string) error {
	if _, err := s.access.Authorize(ctx, sess, courseID); err != nil {
		return err
	}
	ch, err := s.chapters.GetChapter(ctx, courseID, chapterID)
	if err != nil {
		return fmt.Errorf("failed to retrieve chapter: %w", err)
	}
	if ch == nil {
		return ErrChapterNotFound
	}
	if err := s.chapters.DeleteChapter(ctx, courseID, chapterID); err != nil {
		return fmt.Errorf("failed to delete chapter: %w", err)
	}
	return s.unpublishCourseIfEmpty(ctx, courseID)
}

func (s *chapterService) unpublishCourseIfEmpty(ctx context.Context, courseID string) error {
	count, err := s.chapters.CountPublishedChapters(ctx, courseID)
	if err != nil {
		return fmt.Errorf("failed to count published chapters: %w", err)
	}
	if count > 0 {
		return nil
	}
	if _, err := s.courses.SetCoursePublished(ctx, courseID, false); err != nil {
		return fmt.Errorf("failed to unpublish course: %w", err)
	}
	return nil
}

func (s *chapterService) emit(ctx context.Context, eventType string, sess session.Session, courseID, chapterID string) {
	_, err := pubsub.PublishEvent(ctx, s.publisher, s.topic, pubsub.Event{
		Type:      eventType,
		CourseID:  courseID,
		ChapterID: chapterID,
		UserID:    sess.UserID,
	})
	if err != nil {
		s.logger.Error().Err(err).
			Str("course_id", courseID).
			Str("chapter_id", chapterID).
			Str("event", eventType).
			Msg("Failed to publish chapter event")
	}
}
