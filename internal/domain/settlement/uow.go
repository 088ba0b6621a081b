// Package settlement defines the transactional boundary shared by the
// loan, commission and ledger use cases.
package settlement

import (
	"context"

	"github.com/lendingdesk/backend/internal/domain/commission"
	"github.com/lendingdesk/backend/internal/domain/ledger"
	"github.com/lendingdesk/backend/internal/domain/loan"
)

// Repositories groups the repositories bound to one storage transaction
type Repositories struct {
	Loans        loan.Repository
	Commissions  commission.Repository
	Transactions ledger.Repository
}

// UnitOfWork runs fn inside a single storage transaction. The transaction
// commits when fn returns nil and rolls back otherwise.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
}
