package shared

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the base interface for all single-key repositories.
// Every read except GetAnyByID excludes retired records.
type Repository[T any] interface {
	// GetByID returns the active record or ErrNotFound
	GetByID(ctx context.Context, id uuid.UUID) (*T, error)
	// GetAnyByID returns the record in any lifecycle state, for audit and history
	GetAnyByID(ctx context.Context, id uuid.UUID) (*T, error)
	// GetByIDs returns the active records among ids, in no particular order
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]T, error)
	GetAll(ctx context.Context, filter Filter) ([]T, error)
	Count(ctx context.Context, filter Filter) (int64, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	Add(ctx context.Context, entity *T) error
	// Update overwrites an active record; ErrNotFound if there is none
	Update(ctx context.Context, entity *T) error
	// Delete persists a retirement. It reports false when the row was no longer active.
	Delete(ctx context.Context, entity *T) (bool, error)
}

// Filter represents query filter options
type Filter struct {
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
	Search   string
}

// DefaultFilter returns a filter with default values
func DefaultFilter() Filter {
	return Filter{
		Page:     1,
		PageSize: 20,
		OrderBy:  "ordinal_position",
		OrderDir: "asc",
	}
}

// Normalize fills zero paging fields with defaults
func (f Filter) Normalize() Filter {
	d := DefaultFilter()
	if f.Page < 1 {
		f.Page = d.Page
	}
	if f.PageSize < 1 {
		f.PageSize = d.PageSize
	}
	if f.PageSize > 100 {
		f.PageSize = 100
	}
	if f.OrderBy == "" {
		f.OrderBy = d.OrderBy
	}
	if f.OrderDir != "asc" && f.OrderDir != "desc" {
		f.OrderDir = d.OrderDir
	}
	return f
}

// Offset returns the row offset of the requested page
func (f Filter) Offset() int {
	return (f.Page - 1) * f.PageSize
}

// Paginated represents a paginated result
type Paginated[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

// NewPaginated creates a new paginated result
func NewPaginated[T any](items []T, total int64, page, pageSize int) Paginated[T] {
	totalPages := 0
	if pageSize > 0 {
		totalPages = int(total) / pageSize
		if int(total)%pageSize > 0 {
			totalPages++
		}
	}
	return Paginated[T]{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}
