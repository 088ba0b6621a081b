package handler

import (
	"context"

	"github.com/google/uuid"
	"github.com/lendingdesk/backend/internal/application/settlement"
	"github.com/lendingdesk/backend/internal/domain/ledger"
	"github.com/lendingdesk/backend/internal/domain/shared"
)

// The handlers depend on these instead of the concrete services so they can
// be exercised with mocks.

// LoanService is implemented by *settlement.LoanService
type LoanService interface {
	Create(ctx context.Context, req settlement.CreateLoanRequest, requester shared.Requester) (*settlement.LoanResponse, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, req settlement.UpdateLoanStatusRequest, requester shared.Requester) (*settlement.LoanResponse, error)
	Update(ctx context.Context, id uuid.UUID, req settlement.UpdateLoanRequest, requester shared.Requester) (*settlement.LoanResponse, error)
	Remove(ctx context.Context, id uuid.UUID, requester shared.Requester) error
	Get(ctx context.Context, id uuid.UUID) (*settlement.LoanResponse, error)
	List(ctx context.Context, filter settlement.LoanListFilter) (shared.Paginated[settlement.LoanResponse], error)
}

// CommissionService is implemented by *settlement.CommissionService
type CommissionService interface {
	Open(ctx context.Context, req settlement.OpenCommissionRequest, requester shared.Requester) (*settlement.CommissionResponse, error)
	Approve(ctx context.Context, id uuid.UUID, requester shared.Requester) (*settlement.CommissionResponse, error)
	Cancel(ctx context.Context, id uuid.UUID, requester shared.Requester) (*settlement.CommissionResponse, error)
	Edit(ctx context.Context, id uuid.UUID, req settlement.EditCommissionRequest, requester shared.Requester) (*settlement.CommissionResponse, error)
	GenerateAndApprove(ctx context.Context, req settlement.GenerateAndApproveRequest, requester shared.Requester) (*settlement.CommissionResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*settlement.CommissionResponse, error)
}

// PendingCommissionLister is implemented by *settlement.PendingCommissionView
type PendingCommissionLister interface {
	List(ctx context.Context, filter settlement.PendingCommissionFilter) ([]settlement.CommissionListItem, error)
}

// LedgerQuerier is implemented by *settlement.LedgerQueryService
type LedgerQuerier interface {
	ListTransactions(ctx context.Context, filter settlement.TransactionListFilter) (shared.Paginated[settlement.FinancialTransactionResponse], error)
	Summary(ctx context.Context, filter settlement.TransactionListFilter) (ledger.Summary, error)
}

var (
	_ LoanService             = (*settlement.LoanService)(nil)
	_ CommissionService       = (*settlement.CommissionService)(nil)
	_ PendingCommissionLister = (*settlement.PendingCommissionView)(nil)
	_ LedgerQuerier           = (*settlement.LedgerQueryService)(nil)
)
