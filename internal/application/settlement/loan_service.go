package settlement

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lendingdesk/backend/internal/domain/commission"
	"github.com/lendingdesk/backend/internal/domain/ledger"
	"github.com/lendingdesk/backend/internal/domain/loan"
	"github.com/lendingdesk/backend/internal/domain/settlement"
	"github.com/lendingdesk/backend/internal/domain/shared"
	"github.com/lendingdesk/backend/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// LoanServiceConfig holds the house rules applied by LoanService
type LoanServiceConfig struct {
	// DefaultCommissionPercent is the PERCENTAGE reference of commissions
	// opened automatically at loan creation
	DefaultCommissionPercent decimal.Decimal
}

// DefaultLoanServiceConfig returns the house defaults
func DefaultLoanServiceConfig() LoanServiceConfig {
	return LoanServiceConfig{DefaultCommissionPercent: commission.HouseDefaultPercent}
}

// LoanService owns the loan state machine, posts the loan's own cash entry on
// finalization and enforces the edit lock.
type LoanService struct {
	uow         settlement.UnitOfWork
	repos       settlement.Repositories
	commissions *CommissionService
	poster      *LedgerPoster
	publisher   shared.EventPublisher
	logger      *zap.Logger
	config      LoanServiceConfig
	now         func() time.Time
}

// NewLoanService creates a new LoanService
func NewLoanService(
	uow settlement.UnitOfWork,
	repos settlement.Repositories,
	commissions *CommissionService,
	poster *LedgerPoster,
	publisher shared.EventPublisher,
	logger *zap.Logger,
	config LoanServiceConfig,
) *LoanService {
	if !config.DefaultCommissionPercent.IsPositive() {
		config.DefaultCommissionPercent = commission.HouseDefaultPercent
	}
	return &LoanService{
		uow:         uow,
		repos:       repos,
		commissions: commissions,
		poster:      poster,
		publisher:   publisher,
		logger:      logger,
		config:      config,
		now:         time.Now,
	}
}

// Create registers a loan and, when asked, opens its default commission in
// the same transaction.
func (s *LoanService) Create(ctx context.Context, req CreateLoanRequest, requester shared.Requester) (*LoanResponse, error) {
	var (
		created *loan.Loan
		opened  *commission.Commission
		pending pendingEvents
	)
	err := s.uow.Do(ctx, func(ctx context.Context, repos settlement.Repositories) error {
		pending.reset()
		now := s.now()
		code, err := repos.Loans.NextCode(ctx, now)
		if err != nil {
			return fmt.Errorf("generate loan code: %w", err)
		}

		// Only UpdateStatus posts the LOAN entry; a loan entered as
		// FINALIZED was settled before it reached this system.
		l, err := loan.NewLoan(code, req.fields(), loan.Status(req.Status), requester)
		if err != nil {
			return err
		}
		if err := repos.Loans.Create(ctx, l); err != nil {
			return err
		}
		pending.collect(l)
		created = l

		if !req.AutoGenerateCommission {
			return nil
		}
		c, err := s.commissions.openInTx(ctx, repos, OpenCommissionRequest{
			LoanID:    l.ID,
			Type:      string(commission.TypePercentage),
			Reference: s.config.DefaultCommissionPercent,
			Period:    commission.PeriodOf(now).String(),
		}, requester)
		if err != nil {
			return err
		}
		pending.collect(c)
		opened = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Loan created",
		zap.String("loan_id", created.ID.String()),
		zap.String("code", created.Code),
		zap.Bool("commission_opened", opened != nil),
	)
	publishAfterCommit(ctx, s.publisher, s.logger, pending.events)

	resp := toLoanResponse(created)
	if opened != nil {
		resp.Commission = toCommissionResponse(opened)
	}
	return resp, nil
}

// UpdateStatus moves the loan through its state machine. Finalizing posts
// one IN entry for the loan's net value.
func (s *LoanService) UpdateStatus(ctx context.Context, id uuid.UUID, req UpdateLoanStatusRequest, requester shared.Requester) (*LoanResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "loan", "update_status",
		attribute.String(telemetry.SpanAttrLoanID, id.String()),
		attribute.String("loan.status", req.Status),
	)
	var (
		result  *loan.Loan
		pending pendingEvents
	)
	err := s.uow.Do(ctx, func(ctx context.Context, repos settlement.Repositories) error {
		pending.reset()
		l, err := repos.Loans.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := l.ChangeStatus(loan.Status(req.Status), requester); err != nil {
			return err
		}
		if err := repos.Loans.SaveWithLock(ctx, l); err != nil {
			return err
		}
		pending.collect(l)
		result = l

		if l.Status != loan.StatusFinalized {
			return nil
		}
		loanID := l.ID
		posted, err := s.poster.Post(ctx, repos.Transactions, ledger.Posting{
			Date:        s.now(),
			Amount:      l.NetValue,
			Direction:   ledger.DirectionIn,
			Category:    ledger.CategoryLoan,
			Description: fmt.Sprintf("Loan %s (%s) finalized", l.Code, l.ID),
			OriginID:    &loanID,
		}, requester)
		if err != nil {
			return err
		}
		pending.collect(posted)
		return nil
	})
	telemetry.EndSpan(span, err)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Loan status updated",
		zap.String("loan_id", id.String()),
		zap.String("status", result.Status.String()),
	)
	publishAfterCommit(ctx, s.publisher, s.logger, pending.events)
	return toLoanResponse(result), nil
}

// Update edits loan fields. It is refused with EDIT_LOCKED once the loan's
// commission has been approved or canceled. An OPEN commission follows the
// loan's net value and seller so its amount and owner never go stale.
func (s *LoanService) Update(ctx context.Context, id uuid.UUID, req UpdateLoanRequest, requester shared.Requester) (*LoanResponse, error) {
	var (
		result  *loan.Loan
		pending pendingEvents
	)
	err := s.uow.Do(ctx, func(ctx context.Context, repos settlement.Repositories) error {
		pending.reset()
		l, err := repos.Loans.FindByID(ctx, id)
		if err != nil {
			return err
		}

		// The row lock keeps approve and cancel out until this edit commits
		c, err := repos.Commissions.FindByLoanIDForUpdate(ctx, id)
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return err
		}
		if c != nil && c.Status.LocksLoan() {
			return shared.NewDomainError(shared.CodeEditLocked,
				fmt.Sprintf("Loan %s cannot be edited: its commission is %s", l.Code, c.Status))
		}

		if _, err := l.Apply(req.changes(), requester); err != nil {
			return err
		}
		if err := repos.Loans.SaveWithLock(ctx, l); err != nil {
			return err
		}
		pending.collect(l)
		result = l

		if c == nil {
			return nil
		}
		changed, err := c.FollowLoan(l.NetValue, l.SellerID, requester)
		if err != nil || !changed {
			return err
		}
		if err := repos.Commissions.SaveWithLock(ctx, c); err != nil {
			return err
		}
		pending.collect(c)
		return nil
	})
	if err != nil {
		return nil, err
	}

	publishAfterCommit(ctx, s.publisher, s.logger, pending.events)
	return toLoanResponse(result), nil
}

// Remove deletes a loan that nothing depends on. A commission or a ledger
// entry referencing the loan blocks the delete with INTEGRITY_VIOLATION.
func (s *LoanService) Remove(ctx context.Context, id uuid.UUID, requester shared.Requester) error {
	var pending pendingEvents
	err := s.uow.Do(ctx, func(ctx context.Context, repos settlement.Repositories) error {
		pending.reset()
		l, err := repos.Loans.FindByID(ctx, id)
		if err != nil {
			return err
		}

		hasCommission, err := repos.Commissions.ExistsByLoanID(ctx, id)
		if err != nil {
			return fmt.Errorf("check commission: %w", err)
		}
		if hasCommission {
			return shared.NewIntegrityViolation(
				fmt.Sprintf("Loan %s cannot be deleted because it has a commission", l.Code))
		}
		entries, err := repos.Transactions.CountByOrigin(ctx, id)
		if err != nil {
			return fmt.Errorf("count ledger entries: %w", err)
		}
		if entries > 0 {
			return shared.NewIntegrityViolation(
				fmt.Sprintf("Loan %s cannot be deleted because it has %d ledger entries", l.Code, entries))
		}

		l.MarkDeleted(requester)
		if err := repos.Loans.Delete(ctx, id); err != nil {
			return err
		}
		pending.collect(l)
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("Loan deleted", zap.String("loan_id", id.String()))
	publishAfterCommit(ctx, s.publisher, s.logger, pending.events)
	return nil
}

// Get returns a loan with its commission, if any
func (s *LoanService) Get(ctx context.Context, id uuid.UUID) (*LoanResponse, error) {
	l, err := s.repos.Loans.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toLoanResponse(l)

	c, err := s.repos.Commissions.FindByLoanID(ctx, id)
	switch {
	case err == nil:
		resp.Commission = toCommissionResponse(c)
	case !errors.Is(err, shared.ErrNotFound):
		return nil, err
	}
	return resp, nil
}

// List returns a page of loans
func (s *LoanService) List(ctx context.Context, filter LoanListFilter) (shared.Paginated[LoanResponse], error) {
	f := loan.Filter{
		Filter:     shared.Filter{Page: filter.Page, PageSize: filter.PageSize, OrderBy: "created_at", OrderDir: "desc"}.Normalize(),
		SellerID:   filter.SellerID,
		CustomerID: filter.CustomerID,
		Search:     filter.Search,
	}
	if filter.Status != "" {
		status := loan.Status(filter.Status)
		f.Status = &status
	}

	loans, err := s.repos.Loans.FindAll(ctx, f)
	if err != nil {
		return shared.Paginated[LoanResponse]{}, err
	}
	total, err := s.repos.Loans.Count(ctx, f)
	if err != nil {
		return shared.Paginated[LoanResponse]{}, err
	}

	items := make([]LoanResponse, len(loans))
	for i := range loans {
		items[i] = *toLoanResponse(&loans[i])
	}
	return shared.NewPaginated(items, total, f.Page, f.PageSize), nil
}
