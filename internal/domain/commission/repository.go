package commission

import (
	"context"

	"github.com/google/uuid"
	"github.com/lendingdesk/backend/internal/domain/shared"
)

// Filter narrows commission listings
type Filter struct {
	shared.Filter
	SellerID *uuid.UUID
	Period   *Period
	Status   *Status
}

// Repository persists commissions
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Commission, error)
	// FindByLoanID returns the commission of a loan or NOT_FOUND
	FindByLoanID(ctx context.Context, loanID uuid.UUID) (*Commission, error)
	// FindByLoanIDForUpdate is FindByLoanID holding a row lock until the
	// transaction ends, so approve and cancel wait for the caller
	FindByLoanIDForUpdate(ctx context.Context, loanID uuid.UUID) (*Commission, error)
	ExistsByLoanID(ctx context.Context, loanID uuid.UUID) (bool, error)
	FindAll(ctx context.Context, filter Filter) ([]Commission, error)
	Count(ctx context.Context, filter Filter) (int64, error)
	// Create inserts a commission; a second row for the same loan fails with DUPLICATE_COMMISSION
	Create(ctx context.Context, c *Commission) error
	// SaveWithLock updates a commission whose version was incremented in memory,
	// failing with CONCURRENCY_CONFLICT when another writer got there first.
	// The commission service reports that conflict as INVALID_STATE_TRANSITION.
	SaveWithLock(ctx context.Context, c *Commission) error
}
