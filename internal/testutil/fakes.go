package testutil

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"lms/internal/pubsub"
)

// MemoryStore is an in-memory storage.ObjectStore.
type MemoryStore struct {
	mu      sync.Mutex
	Objects map[string][]byte
	Types   map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{Objects: map[string][]byte{}, Types: map[string]string{}}
}

func (m *MemoryStore) Put(_ context.Context, key, contentType string, body io.Reader, _ int64) (string, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Objects[key] = data
	m.Types[key] = contentType
	return "https://files.example.com/" + key, nil
}

// RecordingPublisher keeps every event it is asked to publish.
type RecordingPublisher struct {
	mu     sync.Mutex
	Events []pubsub.Event
	Topics []string
}

func (r *RecordingPublisher) Publish(_ context.Context, topic string, payload []byte) (string, error) {
	var e pubsub.Event
	if err := json.Unmarshal(payload, &e); err != nil {
		return "", err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Events = append(r.Events, e)
	r.Topics = append(r.Topics, topic)
	return fmt.Sprintf("msg-%d", len(r.Events)), nil
}

// Types returns the recorded event types in publish order.
func (r *RecordingPublisher) Types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.Events))
	for i, e := range r.Events {
		out[i] = e.Type
	}
	return out
}
