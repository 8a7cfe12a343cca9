package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cloud.google.com/go/pubsub"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"
)

// Publisher defines an interface for publishing messages.
type Publisher interface {
	Publish(ctx context.Context, topic string, payload []byte) (string, error)
}

// Event types
const (
	EventChapterPublished   = "chapter.published"
	EventChapterUnpublished = "chapter.unpublished"
	EventCoursePublished    = "course.published"
	EventCourseUnpublished  = "course.unpublished"
	EventFilesUploaded      = "files.uploaded"
)

// Event is the envelope of every message this app publishes.
type Event struct {
	Type       string    `json:"type"`
	CourseID   string    `json:"courseId"`
	ChapterID  string    `json:"chapterId,omitempty"`
	UserID     string    `json:"userId,omitempty"`
	URLs       []string  `json:"urls,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

// PublishEvent marshals the event and publishes it to topic.
func PublishEvent(ctx context.Context, p Publisher, topic string, e Event) (string, error) {
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now().UTC()
	}
	data, err := json.Marshal(e)
	if err != nil {
		return "", fmt.Errorf("failed to marshal %s event: %w", e.Type, err)
	}
	return p.Publish(ctx, topic, data)
}

// PubSubPublisher is an implementation of Publisher using Google Pub/Sub.
type PubSubPublisher struct {
	client *pubsub.Client
}

// NewPublisher creates a new PubSubPublisher for the given GCP project.
func NewPublisher(ctx context.Context, projectID, credentialsFile string) (*PubSubPublisher, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := pubsub.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Pub/Sub client: %w", err)
	}
	return &PubSubPublisher{client: client}, nil
}

// Publish sends the payload to the given Pub/Sub topic and returns the message ID.
func (p *PubSubPublisher) Publish(ctx context.Context, topic string, payload []byte) (string, error) {
	t := p.client.Topic(topic)
	result := t.Publish(ctx, &pubsub.Message{Data: payload})
	id, err := result.Get(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to publish message to topic %s: %w", topic, err)
	}
	return id, nil
}

func (p *PubSubPublisher) Close() error {
	return p.client.Close()
}

// LogPublisher writes events to the log instead of a broker. It is used when
// no GCP project is configured.
type LogPublisher struct {
	logger zerolog.Logger
}

func NewLogPublisher(logger zerolog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger.With().Str("component", "LogPublisher").Logger()}
}

func (p *LogPublisher) Publish(ctx context.Context, topic string, payload []byte) (string, error) {
	p.logger.Info().Str("topic", topic).RawJSON("payload", payload).Msg("event")
	return "", nil
}
