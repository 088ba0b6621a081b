package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lendingdesk/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Filter narrows ledger listings
type Filter struct {
	shared.Filter
	Category  *Category
	Direction *Direction
	OriginID  *uuid.UUID
	// From and To bound the transaction date, To exclusive
	From *time.Time
	To   *time.Time
}

// Summary aggregates a set of transactions
type Summary struct {
	TotalIn  decimal.Decimal `json:"total_in"`
	TotalOut decimal.Decimal `json:"total_out"`
	Balance  decimal.Decimal `json:"balance"`
	Count    int64           `json:"count"`
}

// Repository persists ledger transactions. It has no update or delete:
// rows are immutable once written.
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*FinancialTransaction, error)
	FindAll(ctx context.Context, filter Filter) ([]FinancialTransaction, error)
	Count(ctx context.Context, filter Filter) (int64, error)
	// Create inserts a transaction; a reused posting key fails with DUPLICATE_POSTING
	Create(ctx context.Context, t *FinancialTransaction) error
	ExistsByPostingKey(ctx context.Context, key string) (bool, error)
	CountByOrigin(ctx context.Context, originID uuid.UUID) (int64, error)
	Summarize(ctx context.Context, filter Filter) (Summary, error)
}
