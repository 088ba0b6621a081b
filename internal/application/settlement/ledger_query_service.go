package settlement

import (
	"context"
	"time"

	"github.com/lendingdesk/backend/internal/domain/ledger"
	"github.com/lendingdesk/backend/internal/domain/shared"
)

// LedgerQueryService is the read side of the ledger
type LedgerQueryService struct {
	repo ledger.Repository
}

// NewLedgerQueryService creates a new LedgerQueryService
func NewLedgerQueryService(repo ledger.Repository) *LedgerQueryService {
	return &LedgerQueryService{repo: repo}
}

// ListTransactions returns a page of ledger rows, newest first
func (s *LedgerQueryService) ListTransactions(ctx context.Context, filter TransactionListFilter) (shared.Paginated[FinancialTransactionResponse], error) {
	f := toLedgerFilter(filter)

	rows, err := s.repo.FindAll(ctx, f)
	if err != nil {
		return shared.Paginated[FinancialTransactionResponse]{}, err
	}
	total, err := s.repo.Count(ctx, f)
	if err != nil {
		return shared.Paginated[FinancialTransactionResponse]{}, err
	}

	items := make([]FinancialTransactionResponse, len(rows))
	for i := range rows {
		items[i] = *toFinancialTransactionResponse(&rows[i])
	}
	return shared.NewPaginated(items, total, f.Page, f.PageSize), nil
}

// Summary totals the rows matching filter. Paging fields are ignored.
func (s *LedgerQueryService) Summary(ctx context.Context, filter TransactionListFilter) (ledger.Summary, error) {
	return s.repo.Summarize(ctx, toLedgerFilter(filter))
}

func toLedgerFilter(filter TransactionListFilter) ledger.Filter {
	f := ledger.Filter{
		Filter:   shared.Filter{Page: filter.Page, PageSize: filter.PageSize, OrderBy: "date", OrderDir: "desc"}.Normalize(),
		OriginID: filter.OriginID,
		From:     filter.FromDate,
	}
	if filter.Category != "" {
		category := ledger.Category(filter.Category)
		f.Category = &category
	}
	if filter.Direction != "" {
		direction := ledger.Direction(filter.Direction)
		f.Direction = &direction
	}
	// to_date is inclusive for callers
	if filter.ToDate != nil {
		to := filter.ToDate.Add(24 * time.Hour)
		f.To = &to
	}
	return f
}
