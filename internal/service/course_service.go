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

// ErrCourseIncomplete is returned when publishing a course whose setup is not complete.
var ErrCourseIncomplete = errors.New("course setup is incomplete")

// CourseUpdate carries the course fields a single form may change.
type CourseUpdate struct {
	Title       *string
	Description *string
	ImageURL    *string
	CategoryID  *string
	Price       *float64
}

func (u CourseUpdate) fields() map[string]any {
	fields := map[string]any{}
	if u.Title != nil {
		fields["title"] = *u.Title
	}
	if u.Description != nil {
		fields["description"] = *u.Description
	}
	if u.ImageURL != nil {
		fields["image_url"] = *u.ImageURL
	}
	if u.CategoryID != nil {
		fields["category_id"] = *u.CategoryID
	}
	if u.Price != nil {
		fields["price"] = *u.Price
	}
	return fields
}

// CourseService defines the interface for course operations
type CourseService interface {
	CreateCourse(ctx context.Context, s session.Session, title string) (*model.Course, error)
	ListCourses(ctx context.Context, s session.Session) ([]model.Course, error)
	// GetCourse loads a course with chapters and attachments for editing.
	GetCourse(ctx context.Context, s session.Session, courseID string) (*model.Course, error)
	UpdateCourse(ctx context.Context, s session.Session, courseID string, u CourseUpdate) (*model.Course, error)
	PublishCourse(ctx context.Context, s session.Session, courseID string) (*model.Course, error)
	UnpublishCourse(ctx context.Context, s session.Session, courseID string) (*model.Course, error)
	DeleteCourse(ctx context.Context, s session.Session, courseID string) error
}

type courseService struct {
	repo      repository.CourseRepository
	access    *CourseAccess
	publisher pubsub.Publisher
	topic     string
	logger    zerolog.Logger
}

// NewCourseService creates a new CourseService
func NewCourseService(
	repo repository.CourseRepository,
	access *CourseAccess,
	publisher pubsub.Publisher,
	topic string,
	logger zerolog.Logger,
) CourseService {
	return &courseService{
		repo:      repo,
		access:    access,
		publisher: publisher,
		topic:     topic,
		logger:    logger.With().Str("service", "CourseService").Logger(),
	}
}

func (s *courseService) CreateCourse(ctx context.Context, sess session.Session, title string) (*model.Course, error) {
	c := &model.Course{UserID: sess.UserID, Title: title}
	if err := s.repo.CreateCourse(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to create course: %w", err)
	}
	return c, nil
}

func (s *courseService) ListCourses(ctx context.Context, sess session.Session) ([]model.Course, error) {
	return s.repo.GetCoursesByUserID(ctx, sess.UserID)
}

func (s *courseService) GetCourse(ctx context.Context, sess session.Session, courseID string) (*model.Course, error) {
	return s.access.Authorize(ctx, sess, courseID)
}

func (s *courseService) UpdateCourse(ctx context.Context, sess session.Session, courseID string, u CourseUpdate) (*model.Course, error) {
	course, err := s.access.Authorize(ctx, sess, courseID)
	if err != nil {
		return nil, err
	}
	fields := u.fields()
	if len(fields) == 0 {
		return course, nil
	}
	updated, err := s.repo.UpdateCourseFields(ctx, courseID, fields)
	if err != nil {
		return nil, fmt.Errorf("failed to update course: %w", err)
	}
	if updated == nil {
		return nil, ErrCourseNotFound
	}
	return updated, nil
}

func (s *courseService) PublishCourse(ctx context.Context, sess session.Session, courseID string) (*model.Course, error) {
	course, err := s.access.Authorize(ctx, sess, courseID)
	if err != nil {
		return nil, err
	}
	if !course.Completion().IsComplete() {
		return nil, ErrCourseIncomplete
	}
	published, err := s.setPublished(ctx, courseID, true)
	if err != nil {
		return nil, err
	}
	s.emit(ctx, pubsub.EventCoursePublished, sess, courseID)
	return published, nil
}

func (s *courseService) UnpublishCourse(ctx context.Context, sess session.Session, courseID string) (*model.Course, error) {
	if _, err := s.access.Authorize(ctx, sess, courseID); err != nil {
		return nil, err
	}
	unpublished, err := s.setPublished(ctx, courseID, false)
	if err != nil {
		return nil, err
	}
	s.emit(ctx, pubsub.EventCourseUnpublished, sess, courseID)
	return unpublished, nil
}

func (s *courseService) DeleteCourse(ctx context.Context, sess session.Session, courseID string) error {
	if _, err := s.access.Authorize(ctx, sess, courseID); err != nil {
		return err
	}
	if err := s.repo.DeleteCourse(ctx, courseID); err != nil {
		return fmt.Errorf("failed to delete course: %w", err)
	}
	return nil
}

func (s *courseService) setPublished(ctx context.Context, courseID string, published bool) (*model.Course, error) {
	c, err := s.repo.SetCoursePublished(ctx, courseID, published)
	if err != nil {
		return nil, fmt.Errorf("failed to update course publish state: %w", err)
	}
	if c == nil {
		return nil, ErrCourseNotFound
	}
	return c, nil
}

// emit publishes a course event; failures are logged and never fail the request.
func (s *courseService) emit(ctx context.Context, eventType string, sess session.Session, courseID string) {
	_, err := pubsub.PublishEvent(ctx, s.publisher, s.topic, pubsub.Event{
		Type:     eventType,
		CourseID: courseID,
		UserID:   sess.UserID,
	})
	if err != nil {
		s.logger.Error().Err(err).Str("course_id", courseID).Str("event", eventType).Msg("Failed to publish course event")
	}
}
