package pubsub

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	ps "cloud.google.com/go/pubsub"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	topic   string
	payload []byte
}

func (r *recordingPublisher) Publish(_ context.Context, topic string, payload []byte) (string, error) {
	r.topic, r.payload = topic, payload
	return "id-1", nil
}

func TestPublishEventStampsTime(t *testing.T) {
	rec := &recordingPublisher{}
	id, err := PublishEvent(context.Background(), rec, "chapter-events", Event{
		Type:      EventChapterPublished,
		CourseID:  "c1",
		ChapterID: "ch1",
	})
	require.NoError(t, err)
	assert.Equal(t, "id-1", id)
	assert.Equal(t, "chapter-events", rec.topic)

	var got Event
	require.NoError(t, json.Unmarshal(rec.payload, &got))
	assert.Equal(t, EventChapterPublished, got.Type)
	assert.Equal(t, "ch1", got.ChapterID)
	assert.False(t, got.OccurredAt.IsZero())
}

func TestLogPublisher(t *testing.T) {
	var buf bytes.Buffer
	p := NewLogPublisher(zerolog.New(&buf))
	_, err := p.Publish(context.Background(), "course-events", []byte(`{"type":"course.published"}`))
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "course.published")
	assert.Contains(t, buf.String(), "course-events")
}

func TestNewPublisherInvalidProject(t *testing.T) {
	if _, err := NewPublisher(context.Background(), "", ""); err == nil {
		t.Fatal("expected error when project ID is empty")
	}
}

func TestPublishWithEmulator(t *testing.T) {
	emulator := os.Getenv("PUBSUB_EMULATOR_HOST")
	if emulator == "" {
		t.Skip("PUBSUB_EMULATOR_HOST is not set, skip emulator integration test")
	}

	ctx := context.Background()
	pub, err := NewPublisher(ctx, "test-project", "")
	if err != nil {
		t.Fatalf("failed to create PubSubPublisher: %v", err)
	}
	defer pub.Close()

	topic, err := pub.client.CreateTopic(ctx, "chapter-events-test")
	if err != nil {
		t.Fatalf("failed to create topic: %v", err)
	}
	sub, err := pub.client.CreateSubscription(ctx, "chapter-events-test-sub", ps.SubscriptionConfig{Topic: topic})
	if err != nil {
		t.Fatalf("failed to create subscription: %v", err)
	}

	if _, err := PublishEvent(ctx, pub, "chapter-events-test", Event{Type: EventChapterPublished, CourseID: "c1"}); err != nil {
		t.Fatalf("PublishEvent returned error: %v", err)
	}

	recvCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	c := make(chan []byte, 1)
	go func() {
		sub.Receive(recvCtx, func(ctx context.Context, m *ps.Message) {
			c <- m.Data
			m.Ack()
			cancel()
		})
	}()

	select {
	case data := <-c:
		var e Event
		if err := json.Unmarshal(data, &e); err != nil || e.Type != EventChapterPublished {
			t.Fatalf("unexpected message %s", string(data))
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for message from emulator subscription")
	}
}
