package telemetry

import (
	"context"

	"github.com/lendingdesk/backend/internal/domain/commission"
	"github.com/lendingdesk/backend/internal/domain/ledger"
	"github.com/lendingdesk/backend/internal/domain/loan"
	"github.com/lendingdesk/backend/internal/domain/shared"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// SettlementMetrics counts settlement activity. It subscribes to the event
// bus, so services never call it directly.
type SettlementMetrics struct {
	loansCreated      *Counter
	loanTransitions   *Counter
	commissionChanges *Counter
	ledgerPostings    *Counter
	ledgerAmount      *FloatCounter
}

// NewSettlementMetrics registers the settlement instruments on meter
func NewSettlementMetrics(meter metric.Meter) (*SettlementMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}

	m := &SettlementMetrics{}
	var err error

	if m.loansCreated, err = NewCounter(meter,
		"lendingdesk_loans_created_total", "Total number of loans registered", "{loans}"); err != nil {
		return nil, err
	}
	if m.loanTransitions, err = NewCounter(meter,
		"lendingdesk_loan_status_changes_total", "Loan status transitions by target status", "{transitions}"); err != nil {
		return nil, err
	}
	if m.commissionChanges, err = NewCounter(meter,
		"lendingdesk_commission_transitions_total", "Commissions entering each status", "{commissions}"); err != nil {
		return nil, err
	}
	if m.ledgerPostings, err = NewCounter(meter,
		"lendingdesk_ledger_postings_total", "Ledger transactions posted", "{transactions}"); err != nil {
		return nil, err
	}
	if m.ledgerAmount, err = NewFloatCounter(meter,
		"lendingdesk_ledger_amount_total", "Sum of posted ledger amounts", "BRL"); err != nil {
		return nil, err
	}
	return m, nil
}

// EventTypes returns the events counted by SettlementMetrics
func (m *SettlementMetrics) EventTypes() []string {
	return []string{
		loan.EventTypeLoanCreated,
		loan.EventTypeLoanStatusChanged,
		commission.EventTypeCommissionCreated,
		commission.EventTypeCommissionApproved,
		commission.EventTypeCommissionCanceled,
		ledger.EventTypeLedgerEntryPosted,
	}
}

// Handle records one event. It never fails.
func (m *SettlementMetrics) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *loan.LoanCreatedEvent:
		m.loansCreated.Inc(ctx, AttrLoanStatus.String(e.Status.String()))
	case *loan.LoanStatusChangedEvent:
		m.loanTransitions.Inc(ctx, AttrLoanStatus.String(e.To.String()))
	case *commission.CommissionCreatedEvent:
		m.commissionChanges.Inc(ctx,
			AttrCommissionStatus.String(commission.StatusOpen.String()),
			AttrCommissionType.String(e.Type.String()),
		)
	case *commission.CommissionApprovedEvent:
		m.commissionChanges.Inc(ctx, AttrCommissionStatus.String(commission.StatusApproved.String()))
	case *commission.CommissionCanceledEvent:
		m.commissionChanges.Inc(ctx, AttrCommissionStatus.String(commission.StatusCanceled.String()))
	case *ledger.LedgerEntryPostedEvent:
		attrs := []attribute.KeyValue{
			AttrLedgerCategory.String(e.Category.String()),
			AttrLedgerDirection.String(e.Direction.String()),
		}
		m.ledgerPostings.Inc(ctx, attrs...)
		m.ledgerAmount.Add(ctx, e.Amount.InexactFloat64(), attrs...)
	}
	return nil
}

var _ shared.EventHandler = (*SettlementMetrics)(nil)
