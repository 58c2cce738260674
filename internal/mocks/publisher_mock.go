package mocks

import (
	"context"
	"sync"

	"github.com/AchilleasB/creche-admin/console-service/internal/core/ports"
)

// MockOutboxPublisher implements ports.OutboxPublisher so the relay can be
// tested without a broker.
type MockOutboxPublisher struct {
	mu sync.RWMutex

	PublishedEvents     []ports.StudentEnrolledEvent
	PublishedBroadcasts []ports.BroadcastRequestedEvent
	PublishCallCount    int

	PublishError error
}

var _ ports.OutboxPublisher = (*MockOutboxPublisher)(nil)

func NewMockOutboxPublisher() *MockOutboxPublisher {
	return &MockOutboxPublisher{
		PublishedEvents: make([]ports.StudentEnrolledEvent, 0),
	}
}

func (m *MockOutboxPublisher) PublishStudentEnrolled(ctx context.Context, evt ports.StudentEnrolledEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.PublishCallCount++
	if m.PublishError != nil {
		return m.PublishError
	}
	m.PublishedEvents = append(m.PublishedEvents, evt)
	return nil
}

func (m *MockOutboxPublisher) PublishBroadcastRequested(ctx context.Context, evt ports.BroadcastRequestedEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.PublishCallCount++
	if m.PublishError != nil {
		return m.PublishError
	}
	m.PublishedBroadcasts = append(m.PublishedBroadcasts, evt)
	return nil
}

// GetPublishedEvents returns a copy of the enrollments published.
func (m *MockOutboxPublisher) GetPublishedEvents() []ports.StudentEnrolledEvent {
	m.mu.RLock()
	defer m.mu.RUnlock()

	events := make([]ports.StudentEnrolledEvent, len(m.PublishedEvents))
	copy(events, m.PublishedEvents)
	return events
}

func (m *MockOutboxPublisher) GetPublishedBroadcasts() []ports.BroadcastRequestedEvent {
	m.mu.RLock()
	defer m.mu.RUnlock()

	events := make([]ports.BroadcastRequestedEvent, len(m.PublishedBroadcasts))
	copy(events, m.PublishedBroadcasts)
	return events
}

func (m *MockOutboxPublisher) GetPublishCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.PublishCallCount
}
