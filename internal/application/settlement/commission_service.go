package settlement

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lendingdesk/backend/internal/domain/commission"
	"github.com/lendingdesk/backend/internal/domain/ledger"
	"github.com/lendingdesk/backend/internal/domain/settlement"
	"github.com/lendingdesk/backend/internal/domain/shared"
	"github.com/lendingdesk/backend/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// CommissionService owns the commission state machine and posts the
// commission payout to the ledger on approval.
type CommissionService struct {
	uow       settlement.UnitOfWork
	repos     settlement.Repositories
	poster    *LedgerPoster
	publisher shared.EventPublisher
	logger    *zap.Logger
	now       func() time.Time
}

// NewCommissionService creates a new CommissionService. repos serve reads
// outside of a transaction.
func NewCommissionService(
	uow settlement.UnitOfWork,
	repos settlement.Repositories,
	poster *LedgerPoster,
	publisher shared.EventPublisher,
	logger *zap.Logger,
) *CommissionService {
	return &CommissionService{
		uow:       uow,
		repos:     repos,
		poster:    poster,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// Open calculates and opens a commission for a loan that has none
func (s *CommissionService) Open(ctx context.Context, req OpenCommissionRequest, requester shared.Requester) (*CommissionResponse, error) {
	var (
		result  *commission.Commission
		pending pendingEvents
	)
	err := s.uow.Do(ctx, func(ctx context.Context, repos settlement.Repositories) error {
		pending.reset()
		c, err := s.openInTx(ctx, repos, req, requester)
		if err != nil {
			return err
		}
		pending.collect(c)
		result = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	publishAfterCommit(ctx, s.publisher, s.logger, pending.events)
	return toCommissionResponse(result), nil
}

// Approve moves an OPEN commission to APPROVED and posts its payout
func (s *CommissionService) Approve(ctx context.Context, id uuid.UUID, requester shared.Requester) (*CommissionResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "commission", "approve",
		attribute.String(telemetry.SpanAttrCommissionID, id.String()),
		attribute.String(telemetry.SpanAttrRequesterID, requester.UserID.String()),
	)
	var (
		result  *commission.Commission
		pending pendingEvents
	)
	err := s.uow.Do(ctx, func(ctx context.Context, repos settlement.Repositories) error {
		pending.reset()
		c, err := repos.Commissions.FindByID(ctx, id)
		if err != nil {
			return err
		}
		posted, err := s.approveInTx(ctx, repos, c, requester)
		if err != nil {
			return err
		}
		pending.collect(c, posted)
		result = c
		return nil
	})
	telemetry.EndSpan(span, err)
	if err != nil {
		return nil, err
	}

	publishAfterCommit(ctx, s.publisher, s.logger, pending.events)
	return toCommissionResponse(result), nil
}

// Cancel moves an OPEN commission to CANCELED
func (s *CommissionService) Cancel(ctx context.Context, id uuid.UUID, requester shared.Requester) (*CommissionResponse, error) {
	var (
		result  *commission.Commission
		pending pendingEvents
	)
	err := s.uow.Do(ctx, func(ctx context.Context, repos settlement.Repositories) error {
		pending.reset()
		c, err := repos.Commissions.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := c.Cancel(s.now(), requester); err != nil {
			return err
		}
		if err := s.saveTransition(ctx, repos, c); err != nil {
			return err
		}
		pending.collect(c)
		result = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Commission canceled", zap.String("commission_id", id.String()))
	publishAfterCommit(ctx, s.publisher, s.logger, pending.events)
	return toCommissionResponse(result), nil
}

// Edit changes the plan of a commission. OPEN commissions are simply
// recalculated; APPROVED ones go through EditApproved.
func (s *CommissionService) Edit(ctx context.Context, id uuid.UUID, req EditCommissionRequest, requester shared.Requester) (*CommissionResponse, error) {
	var (
		result  *commission.Commission
		pending pendingEvents
	)
	err := s.uow.Do(ctx, func(ctx context.Context, repos settlement.Repositories) error {
		pending.reset()
		c, err := repos.Commissions.FindByID(ctx, id)
		if err != nil {
			return err
		}

		if c.Status == commission.StatusApproved {
			adjustment, err := s.editApprovedInTx(ctx, repos, c, commission.Type(req.Type), req.Reference, requester)
			if err != nil {
				return err
			}
			pending.collect(c)
			if adjustment != nil {
				pending.collect(adjustment)
			}
			result = c
			return nil
		}

		if err := c.Edit(commission.Type(req.Type), req.Reference, req.Period, requester); err != nil {
			return err
		}
		if err := s.saveTransition(ctx, repos, c); err != nil {
			return err
		}
		pending.collect(c)
		result = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	publishAfterCommit(ctx, s.publisher, s.logger, pending.events)
	return toCommissionResponse(result), nil
}

// EditApproved recalculates an APPROVED commission against its loan's current
// net value and posts a compensating ledger entry for the difference.
func (s *CommissionService) EditApproved(ctx context.Context, id uuid.UUID, t commission.Type, reference decimal.Decimal, requester shared.Requester) (*CommissionResponse, error) {
	var (
		result  *commission.Commission
		pending pendingEvents
	)
	err := s.uow.Do(ctx, func(ctx context.Context, repos settlement.Repositories) error {
		pending.reset()
		c, err := repos.Commissions.FindByID(ctx, id)
		if err != nil {
			return err
		}
		adjustment, err := s.editApprovedInTx(ctx, repos, c, t, reference, requester)
		if err != nil {
			return err
		}
		pending.collect(c)
		if adjustment != nil {
			pending.collect(adjustment)
		}
		result = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	publishAfterCommit(ctx, s.publisher, s.logger, pending.events)
	return toCommissionResponse(result), nil
}

// GenerateAndApprove opens and approves a commission for a loan that had
// none, in one transaction.
func (s *CommissionService) GenerateAndApprove(ctx context.Context, req GenerateAndApproveRequest, requester shared.Requester) (*CommissionResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "commission", "generate_and_approve",
		attribute.String(telemetry.SpanAttrLoanID, req.LoanID.String()),
		attribute.String(telemetry.SpanAttrRequesterID, requester.UserID.String()),
	)
	var (
		result  *commission.Commission
		pending pendingEvents
	)
	err := s.uow.Do(ctx, func(ctx context.Context, repos settlement.Repositories) error {
		pending.reset()
		period := req.Period
		if period == "" {
			period = commission.PeriodOf(s.now()).String()
		}
		c, err := s.openInTx(ctx, repos, OpenCommissionRequest{
			LoanID:    req.LoanID,
			Type:      req.Type,
			Reference: req.Reference,
			Period:    period,
		}, requester)
		if err != nil {
			return err
		}
		posted, err := s.approveInTx(ctx, repos, c, requester)
		if err != nil {
			return err
		}
		pending.collect(c, posted)
		result = c
		return nil
	})
	telemetry.EndSpan(span, err)
	if err != nil {
		return nil, err
	}

	publishAfterCommit(ctx, s.publisher, s.logger, pending.events)
	return toCommissionResponse(result), nil
}

// Get returns a commission by ID
func (s *CommissionService) Get(ctx context.Context, id uuid.UUID) (*CommissionResponse, error) {
	c, err := s.repos.Commissions.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toCommissionResponse(c), nil
}

// openInTx opens a commission inside the caller's transaction
func (s *CommissionService) openInTx(ctx context.Context, repos settlement.Repositories, req OpenCommissionRequest, requester shared.Requester) (*commission.Commission, error) {
	l, err := repos.Loans.FindByID(ctx, req.LoanID)
	if err != nil {
		return nil, err
	}

	exists, err := repos.Commissions.ExistsByLoanID(ctx, l.ID)
	if err != nil {
		return nil, fmt.Errorf("check existing commission: %w", err)
	}
	if exists {
		return nil, shared.NewDomainError(shared.CodeDuplicateCommission,
			fmt.Sprintf("Loan %s already has a commission", l.Code))
	}

	sellerID := l.SellerID
	if req.SellerID != nil {
		sellerID = *req.SellerID
	}
	baseValue := l.NetValue
	if req.BaseValue != nil {
		baseValue = *req.BaseValue
	}

	c, err := commission.NewCommission(commission.OpenInput{
		LoanID:    l.ID,
		SellerID:  sellerID,
		BaseValue: baseValue,
		Type:      commission.Type(req.Type),
		Reference: req.Reference,
		Period:    req.Period,
	}, requester)
	if err != nil {
		return nil, err
	}
	if err := repos.Commissions.Create(ctx, c); err != nil {
		return nil, err
	}

	s.logger.Info("Commission opened",
		zap.String("commission_id", c.ID.String()),
		zap.String("loan_id", l.ID.String()),
		zap.String("type", c.Type.String()),
		zap.String("calculated_amount", c.CalculatedAmount.StringFixed(2)),
	)
	return c, nil
}

// approveInTx approves c and posts exactly one COMMISSION payout. The status
// write is version checked, so of two racing approvals only one reaches the
// ledger.
func (s *CommissionService) approveInTx(ctx context.Context, repos settlement.Repositories, c *commission.Commission, requester shared.Requester) (*ledger.FinancialTransaction, error) {
	if err := c.Approve(s.now(), requester); err != nil {
		return nil, err
	}
	if err := s.saveTransition(ctx, repos, c); err != nil {
		return nil, err
	}

	loanID := c.LoanID
	posted, err := s.poster.Post(ctx, repos.Transactions, ledger.Posting{
		Date:        *c.ApprovedAt,
		Amount:      c.CalculatedAmount,
		Direction:   ledger.DirectionOut,
		Category:    ledger.CategoryCommission,
		Description: fmt.Sprintf("Commission %s approved for loan %s (%s)", c.ID, c.LoanID, c.Period),
		OriginID:    &loanID,
	}, requester)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Commission approved",
		zap.String("commission_id", c.ID.String()),
		zap.String("transaction_id", posted.ID.String()),
	)
	return posted, nil
}

// editApprovedInTx recalculates an APPROVED commission and settles the delta
func (s *CommissionService) editApprovedInTx(ctx context.Context, repos settlement.Repositories, c *commission.Commission, t commission.Type, reference decimal.Decimal, requester shared.Requester) (*ledger.FinancialTransaction, error) {
	l, err := repos.Loans.FindByID(ctx, c.LoanID)
	if err != nil {
		return nil, err
	}
	delta, err := c.EditApproved(t, reference, l.NetValue, requester)
	if err != nil {
		return nil, err
	}
	if err := s.saveTransition(ctx, repos, c); err != nil {
		return nil, err
	}
	if delta.IsZero() {
		return nil, nil
	}

	direction := ledger.DirectionOut
	if delta.IsNegative() {
		direction = ledger.DirectionIn
	}
	loanID := c.LoanID
	adjustment, err := s.poster.Post(ctx, repos.Transactions, ledger.Posting{
		Date:        s.now(),
		Amount:      delta.Abs(),
		Direction:   direction,
		Category:    ledger.CategoryCommission,
		Description: fmt.Sprintf("Commission %s adjustment after edit for loan %s", c.ID, c.LoanID),
		OriginID:    &loanID,
		PostingKey:  ledger.AdjustmentKey(ledger.CategoryCommission, loanID, c.Version),
	}, requester)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Approved commission edited",
		zap.String("commission_id", c.ID.String()),
		zap.String("delta", delta.StringFixed(2)),
	)
	return adjustment, nil
}

// saveTransition persists a commission change. Losing the version race means
// another request already moved the commission, so the change is reported
// against the state it was read in.
func (s *CommissionService) saveTransition(ctx context.Context, repos settlement.Repositories, c *commission.Commission) error {
	err := repos.Commissions.SaveWithLock(ctx, c)
	if errors.Is(err, shared.ErrConcurrencyConflict) {
		s.logger.Warn("Concurrent commission change rejected", zap.String("commission_id", c.ID.String()))
		return shared.NewInvalidStateTransition("Commission was changed by a concurrent request")
	}
	return err
}
