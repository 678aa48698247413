package cqrs

import (
	"context"
	"time"

	"github.com/crm/backend/internal/domain/lookup"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ExistsFunc reports whether an active record with id exists
type ExistsFunc func(ctx context.Context, id uuid.UUID) (bool, error)

// Exists requires id to reference an active record
func Exists(field, label string, id uuid.UUID, exists ExistsFunc) Check {
	return func(ctx context.Context) (*Violation, error) {
		if id == uuid.Nil {
			return nil, nil
		}
		ok, err := exists(ctx, id)
		if err != nil {
			return nil, err
		}
		if !ok {
			return &Violation{Field: field, Message: field + " references an unknown " + label}, nil
		}
		return nil, nil
	}
}

// ExistsIfSet is Exists for an optional reference
func ExistsIfSet(field, label string, id *uuid.UUID, exists ExistsFunc) Check {
	if id == nil {
		return nil
	}
	return Exists(field, label, *id, exists)
}

// LookupExists requires id to reference an active lookup of kind
func LookupExists(field string, repo lookup.Repository, kind lookup.Kind, id uuid.UUID) Check {
	return Exists(field, kind.Label(), id, func(ctx context.Context, id uuid.UUID) (bool, error) {
		return repo.Exists(ctx, kind, id)
	})
}

// TakenFunc reports whether a value is already used by another active record
type TakenFunc func(ctx context.Context) (bool, error)

// Unique fails with a conflict when taken reports the value in use
func Unique(field, message string, taken TakenFunc) Check {
	return func(ctx context.Context) (*Violation, error) {
		inUse, err := taken(ctx)
		if err != nil {
			return nil, err
		}
		if inUse {
			return &Violation{Field: field, Message: message, conflict: true}, nil
		}
		return nil, nil
	}
}

// When runs check only if cond holds
func When(cond bool, check Check) Check {
	if !cond {
		return nil
	}
	return check
}

// NotBefore requires end >= start when both are present
func NotBefore(field string, end *time.Time, startField string, start *time.Time) Check {
	return func(context.Context) (*Violation, error) {
		if end == nil || start == nil || end.IsZero() || start.IsZero() {
			return nil, nil
		}
		if end.Before(*start) {
			return &Violation{Field: field, Message: field + " must not be before " + startField}, nil
		}
		return nil, nil
	}
}

// DecimalAtLeast requires d >= min
func DecimalAtLeast(field string, d, min decimal.Decimal) Check {
	return func(context.Context) (*Violation, error) {
		if d.LessThan(min) {
			return &Violation{Field: field, Message: field + " must be greater than or equal to " + min.String()}, nil
		}
		return nil, nil
	}
}

// DecimalAbove requires d > min
func DecimalAbove(field string, d, min decimal.Decimal) Check {
	return func(context.Context) (*Violation, error) {
		if !d.GreaterThan(min) {
			return &Violation{Field: field, Message: field + " must be greater than " + min.String()}, nil
		}
		return nil, nil
	}
}

// DecimalBetween requires min <= d <= max
func DecimalBetween(field string, d, min, max decimal.Decimal) Check {
	return func(context.Context) (*Violation, error) {
		if d.LessThan(min) || d.GreaterThan(max) {
			return &Violation{Field: field, Message: field + " must be between " + min.String() + " and " + max.String()}, nil
		}
		return nil, nil
	}
}
