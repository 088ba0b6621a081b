package loan

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lendingdesk/backend/internal/domain/shared"
)

// Filter narrows loan listings
type Filter struct {
	shared.Filter
	SellerID   *uuid.UUID
	CustomerID *uuid.UUID
	Status     *Status
	// StartFrom and StartTo bound the start date, StartTo exclusive
	StartFrom *time.Time
	StartTo   *time.Time
	Search    string
}

// Repository persists loans
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Loan, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Loan, error)
	FindAll(ctx context.Context, filter Filter) ([]Loan, error)
	Count(ctx context.Context, filter Filter) (int64, error)
	// FindWithoutCommission lists non-canceled loans matching filter that no commission references
	FindWithoutCommission(ctx context.Context, filter Filter) ([]Loan, error)
	// Create inserts a new loan
	Create(ctx context.Context, l *Loan) error
	// SaveWithLock updates a loan whose version was incremented in memory,
	// failing with CONCURRENCY_CONFLICT when the stored version moved
	SaveWithLock(ctx context.Context, l *Loan) error
	Delete(ctx context.Context, id uuid.UUID) error
	// NextCode returns the next human-facing code for the month of at
	NextCode(ctx context.Context, at time.Time) (string, error)
}
