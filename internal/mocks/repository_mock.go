// Package mocks provides port implementations with call tracking and error
// injection for tests.
package mocks

import (
	"context"
	"sync"

	"github.com/AchilleasB/creche-admin/console-service/internal/adapters/memory"
	"github.com/AchilleasB/creche-admin/console-service/internal/core/domain"
	"github.com/AchilleasB/creche-admin/console-service/internal/core/ports"
)

// MockRepository is an in-memory ports.Repository whose calls can be counted
// and made to fail.
type MockRepository[T domain.Record] struct {
	mu    sync.Mutex
	inner *memory.Collection[T]

	ListCalls   int
	DeleteCalls []string

	// Error injection
	ListError   error
	GetError    error
	CreateError error
	UpdateError error
	DeleteError error
}

func NewMockRepository[T domain.Record](name string) *MockRepository[T] {
	return &MockRepository[T]{inner: memory.NewCollection[T](name)}
}

// Seed stores records directly, bypassing error injection.
func (m *MockRepository[T]) Seed(recs ...T) {
	for _, rec := range recs {
		if _, err := m.inner.Create(context.Background(), rec); err != nil {
			panic(err)
		}
	}
}

func (m *MockRepository[T]) List(ctx context.Context, filter ports.ListFilter) ([]T, error) {
	m.mu.Lock()
	m.ListCalls++
	err := m.ListError
	m.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return m.inner.List(ctx, filter)
}

func (m *MockRepository[T]) Get(ctx context.Context, id string) (T, error) {
	if m.GetError != nil {
		var zero T
		return zero, m.GetError
	}
	return m.inner.Get(ctx, id)
}

func (m *MockRepository[T]) Create(ctx context.Context, rec T) (T, error) {
	if m.CreateError != nil {
		var zero T
		return zero, m.CreateError
	}
	return m.inner.Create(ctx, rec)
}

func (m *MockRepository[T]) Update(ctx context.Context, rec T) (T, error) {
	if m.UpdateError != nil {
		var zero T
		return zero, m.UpdateError
	}
	return m.inner.Update(ctx, rec)
}

func (m *MockRepository[T]) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	m.DeleteCalls = append(m.DeleteCalls, id)
	m.mu.Unlock()
	if m.DeleteError != nil {
		return m.DeleteError
	}
	return m.inner.Delete(ctx, id)
}

// Len counts stored records.
func (m *MockRepository[T]) Len() int {
	return m.inner.Len()
}

// MockAssignmentRepository implements ports.AssignmentRepository.
type MockAssignmentRepository struct {
	mu          sync.Mutex
	assignments map[string][]string

	LookupCalls int

	LookupError  error
	ReplaceError error
}

var _ ports.AssignmentRepository = (*MockAssignmentRepository)(nil)

func NewMockAssignmentRepository() *MockAssignmentRepository {
	return &MockAssignmentRepository{assignments: make(map[string][]string)}
}

func (m *MockAssignmentRepository) Assign(userID string, facilityIDs ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.assignments[userID] = facilityIDs
}

func (m *MockAssignmentRepository) FacilityIDsForUser(ctx context.Context, userID string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LookupCalls++
	if m.LookupError != nil {
		return nil, m.LookupError
	}
	return append([]string(nil), m.assignments[userID]...), nil
}

func (m *MockAssignmentRepository) ReplaceAssignments(ctx context.Context, userID string, facilityIDs []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ReplaceError != nil {
		return m.ReplaceError
	}
	m.assignments[userID] = append([]string(nil), facilityIDs...)
	return nil
}

// MockEnrollmentRepository implements ports.EnrollmentRepository. Without an
// injected error it delegates to the wrapped repository.
type MockEnrollmentRepository struct {
	Next ports.EnrollmentRepository

	PromoteCalls []ports.StudentEnrolledEvent
	PromoteError error
}

var _ ports.EnrollmentRepository = (*MockEnrollmentRepository)(nil)

func (m *MockEnrollmentRepository) Promote(ctx context.Context, app *domain.Application, student *domain.Student, evt ports.StudentEnrolledEvent) error {
	m.PromoteCalls = append(m.PromoteCalls, evt)
	if m.PromoteError != nil {
		return m.PromoteError
	}
	if m.Next == nil {
		return nil
	}
	return m.Next.Promote(ctx, app, student, evt)
}
