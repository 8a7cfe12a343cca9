package service

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"lms/internal/pubsub"
	"lms/internal/session"
	"lms/internal/storage"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Upload endpoints accepted by the relay.
const (
	EndpointCourseImage      = "courseImage"
	EndpointCourseAttachment = "courseAttachment"
	EndpointChapterVideo     = "chapterVideo"
)

type endpointRule struct {
	maxFiles int
	// Allowed content type prefixes; empty accepts any type.
	types []string
}

var endpointRules = map[string]endpointRule{
	EndpointCourseImage:      {maxFiles: 1, types: []string{"image/"}},
	EndpointCourseAttachment: {maxFiles: 10},
	EndpointChapterVideo:     {maxFiles: 1, types: []string{"video/"}},
}

func (r endpointRule) allows(contentType string) bool {
	if len(r.types) == 0 {
		return true
	}
	for _, t := range r.types {
		if strings.HasPrefix(contentType, t) {
			return true
		}
	}
	return false
}

// UploadFile is one file of a multipart upload.
type UploadFile struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}

// UploadedFile describes a stored file.
type UploadedFile struct {
	URL  string `json:"url"`
	Name string `json:"name"`
}

type UploadService interface {
	Upload(ctx context.Context, s session.Session, endpoint, courseID string, files []UploadFile) ([]UploadedFile, error)
}

type uploadService struct {
	store     storage.ObjectStore
	access    *CourseAccess
	publisher pubsub.Publisher
	topic     string
	logger    zerolog.Logger
}

func NewUploadService(
	store storage.ObjectStore,
	access *CourseAccess,
	publisher pubsub.Publisher,
	topic string,
	logger zerolog.Logger,
) UploadService {
	return &uploadService{
		store:     store,
		access:    access,
		publisher: publisher,
		topic:     topic,
		logger:    logger.With().Str("service", "UploadService").Logger(),
	}
}

func (s *uploadService) Upload(ctx context.Context, sess session.Session, endpoint, courseID string, files []UploadFile) ([]UploadedFile, error) {
	rule, ok := endpointRules[endpoint]
	if !ok {
		return nil, ErrUnknownEndpoint
	}
	if len(files) == 0 {
		return nil, ErrNoFiles
	}
	if len(files) > rule.maxFiles {
		return nil, ErrTooManyFiles
	}
	for i := range files {
		if files[i].ContentType == "" {
			files[i].ContentType = "application/octet-stream"
		}
		if !rule.allows(files[i].ContentType) {
			return nil, ErrFileTypeNotAllowed
		}
	}
	if courseID != "" {
		if _, err := s.access.Authorize(ctx, sess, courseID); err != nil {
			return nil, err
		}
	}

	uploaded := make([]UploadedFile, 0, len(files))
	urls := make([]string, 0, len(files))
	for _, f := range files {
		key := objectKey(courseID, endpoint, f.Name)
		url, err := s.store.Put(ctx, key, f.ContentType, f.Body, f.Size)
		if err != nil {
			return nil, fmt.Errorf("failed to store %s: %w", f.Name, err)
		}
		uploaded = append(uploaded, UploadedFile{URL: url, Name: f.Name})
		urls = append(urls, url)
	}

	_, err := pubsub.PublishEvent(ctx, s.publisher, s.topic, pubsub.Event{
		Type:     pubsub.EventFilesUploaded,
		CourseID: courseID,
		UserID:   sess.UserID,
		URLs:     urls,
	})
	if err != nil {
		s.logger.Error().Err(err).Str("course_id", courseID).Msg("Failed to publish upload event")
	}
	return uploaded, nil
}

func objectKey(courseID, endpoint, name string) string {
	base := path.Base(strings.ReplaceAll(name, "\\", "/"))
	if base == "." || base == "/" {
		base = "file"
	}
	if courseID == "" {
		return fmt.Sprintf("uploads/%s/%s-%s", endpoint, uuid.NewString(), base)
	}
	return fmt.Sprintf("courses/%s/%s/%s-%s", courseID, endpoint, uuid.NewString(), base)
}
