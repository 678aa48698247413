package cqrs

import (
	"context"

	"github.com/crm/backend/internal/domain/lookup"
	"github.com/google/uuid"
)

// IDKey extracts an optional reference from an item; nil means unset
type IDKey[T any] func(item *T) *uuid.UUID

// DistinctIDs collects every distinct, non-nil reference the keys extract from items,
// in first-seen order. Feed the result to a single GetByIDs call instead of one lookup per row.
func DistinctIDs[T any](items []T, keys ...IDKey[T]) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{})
	ids := make([]uuid.UUID, 0)
	for i := range items {
		for _, key := range keys {
			id := key(&items[i])
			if id == nil || *id == uuid.Nil {
				continue
			}
			if _, ok := seen[*id]; ok {
				continue
			}
			seen[*id] = struct{}{}
			ids = append(ids, *id)
		}
	}
	return ids
}

// Index maps records by the id returned from key
func Index[T any](items []T, key func(item *T) uuid.UUID) map[uuid.UUID]*T {
	m := make(map[uuid.UUID]*T, len(items))
	for i := range items {
		m[key(&items[i])] = &items[i]
	}
	return m
}

// Ref adapts a required id field to an IDKey
func Ref(id uuid.UUID) *uuid.UUID {
	return &id
}

// NameOf returns the display name for id from names, or "" when id is nil or unknown
func NameOf(names map[uuid.UUID]string, id *uuid.UUID) string {
	if id == nil {
		return ""
	}
	return names[*id]
}

// Map applies fn to every item
func Map[T, R any](items []T, fn func(item *T) R) []R {
	out := make([]R, 0, len(items))
	for i := range items {
		out = append(out, fn(&items[i]))
	}
	return out
}

// LookupNames resolves lookup ids of any kind to their values with one batched read
func LookupNames(ctx context.Context, repo lookup.Repository, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	names := make(map[uuid.UUID]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}
	items, err := repo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range items {
		names[items[i].ID] = items[i].Value
	}
	return names, nil
}

// Names resolves ids of any entity to display names with one batched read
func Names[T any, PT Retirable[T]](
	ctx context.Context,
	ids []uuid.UUID,
	load func(ctx context.Context, ids []uuid.UUID) ([]T, error),
	name func(item *T) string,
) (map[uuid.UUID]string, error) {
	names := make(map[uuid.UUID]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}
	items, err := load(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range items {
		names[PT(&items[i]).GetID()] = name(&items[i])
	}
	return names, nil
}
