package testutil

import (
	"context"
	"sync"

	"github.com/crm/backend/internal/domain/lookup"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockRepository is a testify mock of shared.Repository[T].
// Entity mocks embed it and add their finders.
type MockRepository[T any] struct {
	mock.Mock
}

func (m *MockRepository[T]) GetByID(ctx context.Context, id uuid.UUID) (*T, error) {
	args := m.MethodCalled("GetByID", ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*T), args.Error(1)
}

func (m *MockRepository[T]) GetAnyByID(ctx context.Context, id uuid.UUID) (*T, error) {
	args := m.MethodCalled("GetAnyByID", ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*T), args.Error(1)
}

func (m *MockRepository[T]) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]T, error) {
	args := m.MethodCalled("GetByIDs", ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]T), args.Error(1)
}

func (m *MockRepository[T]) GetAll(ctx context.Context, filter shared.Filter) ([]T, error) {
	args := m.MethodCalled("GetAll", ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]T), args.Error(1)
}

func (m *MockRepository[T]) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.MethodCalled("Count", ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository[T]) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.MethodCalled("Exists", ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository[T]) Add(ctx context.Context, entity *T) error {
	args := m.MethodCalled("Add", ctx, entity)
	return args.Error(0)
}

func (m *MockRepository[T]) Update(ctx context.Context, entity *T) error {
	args := m.MethodCalled("Update", ctx, entity)
	return args.Error(0)
}

func (m *MockRepository[T]) Delete(ctx context.Context, entity *T) (bool, error) {
	args := m.MethodCalled("Delete", ctx, entity)
	return args.Bool(0), args.Error(1)
}

// MockLookupRepository is a testify mock of lookup.Repository
type MockLookupRepository struct {
	mock.Mock
}

func (m *MockLookupRepository) GetByID(ctx context.Context, id uuid.UUID) (*lookup.Lookup, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*lookup.Lookup), args.Error(1)
}

func (m *MockLookupRepository) GetAnyByID(ctx context.Context, id uuid.UUID) (*lookup.Lookup, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*lookup.Lookup), args.Error(1)
}

func (m *MockLookupRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]lookup.Lookup, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]lookup.Lookup), args.Error(1)
}

func (m *MockLookupRepository) GetAll(ctx context.Context, kind lookup.Kind, filter shared.Filter) ([]lookup.Lookup, error) {
	args := m.Called(ctx, kind, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]lookup.Lookup), args.Error(1)
}

func (m *MockLookupRepository) Count(ctx context.Context, kind lookup.Kind, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, kind, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLookupRepository) GetByValue(ctx context.Context, kind lookup.Kind, value string) (*lookup.Lookup, error) {
	args := m.Called(ctx, kind, value)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*lookup.Lookup), args.Error(1)
}

func (m *MockLookupRepository) GetByOrdinalPosition(ctx context.Context, kind lookup.Kind, position int) ([]lookup.Lookup, error) {
	args := m.Called(ctx, kind, position)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]lookup.Lookup), args.Error(1)
}

func (m *MockLookupRepository) Exists(ctx context.Context, kind lookup.Kind, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, kind, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockLookupRepository) ExistsByValue(ctx context.Context, kind lookup.Kind, value string, excludeID uuid.UUID) (bool, error) {
	args := m.Called(ctx, kind, value, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockLookupRepository) Add(ctx context.Context, l *lookup.Lookup) error {
	return m.Called(ctx, l).Error(0)
}

func (m *MockLookupRepository) Update(ctx context.Context, l *lookup.Lookup) error {
	return m.Called(ctx, l).Error(0)
}

func (m *MockLookupRepository) Delete(ctx context.Context, l *lookup.Lookup) (bool, error) {
	args := m.Called(ctx, l)
	return args.Bool(0), args.Error(1)
}

// MockJunctionRepository is a testify mock of shared.JunctionRepository
type MockJunctionRepository struct {
	mock.Mock
}

func (m *MockJunctionRepository) GetByID(ctx context.Context, firstID, secondID uuid.UUID) (*shared.Junction, error) {
	args := m.Called(ctx, firstID, secondID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Junction), args.Error(1)
}

func (m *MockJunctionRepository) GetAnyByID(ctx context.Context, firstID, secondID uuid.UUID) (*shared.Junction, error) {
	args := m.Called(ctx, firstID, secondID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Junction), args.Error(1)
}

func (m *MockJunctionRepository) GetByFirstID(ctx context.Context, firstID uuid.UUID) ([]shared.Junction, error) {
	args := m.Called(ctx, firstID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]shared.Junction), args.Error(1)
}

func (m *MockJunctionRepository) GetBySecondID(ctx context.Context, secondID uuid.UUID) ([]shared.Junction, error) {
	args := m.Called(ctx, secondID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]shared.Junction), args.Error(1)
}

func (m *MockJunctionRepository) GetAll(ctx context.Context) ([]shared.Junction, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]shared.Junction), args.Error(1)
}

func (m *MockJunctionRepository) Add(ctx context.Context, link *shared.Junction) error {
	return m.Called(ctx, link).Error(0)
}

func (m *MockJunctionRepository) Update(ctx context.Context, link *shared.Junction) error {
	return m.Called(ctx, link).Error(0)
}

func (m *MockJunctionRepository) Delete(ctx context.Context, link *shared.Junction) (bool, error) {
	args := m.Called(ctx, link)
	return args.Bool(0), args.Error(1)
}

// RecordingPublisher is a shared.EventPublisher that keeps what it was given
type RecordingPublisher struct {
	mu     sync.Mutex
	events []shared.DomainEvent
	Err    error
}

// Publish records events and returns Err
func (p *RecordingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
	return p.Err
}

// Events returns a copy of everything published so far
func (p *RecordingPublisher) Events() []shared.DomainEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]shared.DomainEvent, len(p.events))
	copy(out, p.events)
	return out
}

// Changes returns the published EntityChanged events
func (p *RecordingPublisher) Changes() []*shared.EntityChanged {
	var out []*shared.EntityChanged
	for _, e := range p.Events() {
		if c, ok := e.(*shared.EntityChanged); ok {
			out = append(out, c)
		}
	}
	return out
}
