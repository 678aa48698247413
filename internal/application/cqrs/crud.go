package cqrs

import (
	"context"
	"errors"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Retirable is a pointer to an entity embedding shared.BaseEntity
type Retirable[T any] interface {
	*T
	shared.Entity
}

// Load fetches one record; includeRetired reaches past the lifecycle filter
func Load[T any](ctx context.Context, repo shared.Repository[T], id uuid.UUID, includeRetired bool) (*T, error) {
	if includeRetired {
		return repo.GetAnyByID(ctx, id)
	}
	return repo.GetByID(ctx, id)
}

// Resolve returns the details shape of a record a command just wrote, with the same
// referenced names a read returns. The write has committed, so a failed name lookup is
// logged and the unresolved shape returned.
func Resolve[T, D any](ctx context.Context, op *Operation, record *T, plain func(*T) *D, details func(context.Context, *T) (*D, error)) *D {
	dto, err := details(ctx, record)
	if err != nil {
		op.Logger().Warn("Failed to resolve names for command result", zap.Error(err))
		return plain(record)
	}
	return dto
}

// Retire runs the delete half of the handler template after Guard: load the active record,
// retire it and persist the retirement. Missing, retired and concurrently retired records
// all report false without error.
func Retire[T any, PT Retirable[T]](
	ctx context.Context,
	op *Operation,
	repo shared.Repository[T],
	events shared.EventPublisher,
	entity string,
	id, actor uuid.UUID,
) (bool, error) {
	record, err := repo.GetByID(ctx, id)
	if errors.Is(err, shared.ErrNotFound) {
		op.Noop(entity + " not found or already retired")
		return false, nil
	}
	if err != nil {
		return false, op.Fail(err, "Failed to load "+entity)
	}

	PT(record).Base().Retire(actor)
	deleted, err := repo.Delete(ctx, record)
	if err != nil {
		return false, op.Fail(err, "Failed to delete "+entity)
	}
	if !deleted {
		op.Noop(entity + " was retired concurrently")
		return false, nil
	}

	op.Publish(ctx, events, shared.NewEntityChanged(entity, id, shared.ChangeRetired, actor))
	op.Succeed(entity + " retired")
	return true, nil
}

// Projector maps a batch of records to DTOs, possibly with batched secondary reads
type Projector[T, S any] func(ctx context.Context, items []T) ([]S, error)

// Page lists one page of active records and projects them
func Page[T, S any](ctx context.Context, repo shared.Repository[T], filter shared.Filter, project Projector[T, S]) (*shared.Paginated[S], error) {
	filter = filter.Normalize()
	items, err := repo.GetAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := repo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	out, err := project(ctx, items)
	if err != nil {
		return nil, err
	}
	page := shared.NewPaginated(out, total, filter.Page, filter.PageSize)
	return &page, nil
}

// Plain adapts a per-record mapper to a Projector
func Plain[T, S any](fn func(item *T) S) Projector[T, S] {
	return func(_ context.Context, items []T) ([]S, error) {
		return Map(items, fn), nil
	}
}
