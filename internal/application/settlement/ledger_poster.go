package settlement

import (
	"context"
	"fmt"

	"github.com/lendingdesk/backend/internal/domain/ledger"
	"github.com/lendingdesk/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// LedgerPoster writes immutable ledger rows. It is handed the repository of
// the caller's transaction so a posting commits or rolls back with the
// operation that caused it.
type LedgerPoster struct {
	logger *zap.Logger
}

// NewLedgerPoster creates a new LedgerPoster
func NewLedgerPoster(logger *zap.Logger) *LedgerPoster {
	return &LedgerPoster{logger: logger}
}

// Post validates and writes one transaction. A posting key that was already
// used is rejected with DUPLICATE_POSTING rather than counted twice.
func (p *LedgerPoster) Post(ctx context.Context, repo ledger.Repository, posting ledger.Posting, requester shared.Requester) (*ledger.FinancialTransaction, error) {
	tx, err := ledger.NewFinancialTransaction(posting, requester)
	if err != nil {
		return nil, err
	}

	exists, err := repo.ExistsByPostingKey(ctx, tx.PostingKey)
	if err != nil {
		return nil, fmt.Errorf("check posting key: %w", err)
	}
	if exists {
		return nil, shared.NewDomainError(shared.CodeDuplicatePosting,
			fmt.Sprintf("Ledger entry %s was already posted", tx.PostingKey))
	}

	if err := repo.Create(ctx, tx); err != nil {
		return nil, err
	}

	p.logger.Info("Ledger entry posted",
		zap.String("transaction_id", tx.ID.String()),
		zap.String("posting_key", tx.PostingKey),
		zap.String("category", tx.Category.String()),
		zap.String("direction", tx.Direction.String()),
		zap.String("amount", tx.Amount.StringFixed(2)),
	)
	return tx, nil
}
