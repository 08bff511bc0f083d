package pricing

import (
	"context"
)

// ListFilter narrows list queries. Filters combine with AND semantics;
// zero values mean "no constraint".
type ListFilter struct {
	Category        Category
	IncludeInactive bool
}

// Repository defines the persistence contract for pricing version chains.
type Repository interface {
	// CreateVersion inserts a new active version. It fails with a conflict
	// when another active version for the same code already exists.
	CreateVersion(ctx context.Context, record *PricingRecord) error

	// FindActiveByCode retrieves the single active version for a code.
	FindActiveByCode(ctx context.Context, code string) (*PricingRecord, error)

	// FindHistoryByCode retrieves every version for a code, newest first.
	FindHistoryByCode(ctx context.Context, code string) ([]*PricingRecord, error)

	// HasAnyVersion reports whether any version, active or retired, exists
	// for the code.
	HasAnyVersion(ctx context.Context, code string) (bool, error)

	// List retrieves versions matching the filter, active only unless
	// IncludeInactive is set, ordered by category then code.
	List(ctx context.Context, filter ListFilter) ([]*PricingRecord, error)

	// ReplaceActive atomically retires the given active version and inserts
	// its replacement. Readers never observe zero or two active versions for
	// the code. It fails with a conflict when the retiring version is no
	// longer the active one.
	ReplaceActive(ctx context.Context, retiring, replacement *PricingRecord) error

	// Deactivate atomically retires the active version for a code with no
	// replacement. It fails with not-found when no active version exists.
	Deactivate(ctx context.Context, code string) (*PricingRecord, error)
}
