package settlement

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/lendingdesk/backend/internal/domain/audit"
	"github.com/lendingdesk/backend/internal/domain/commission"
	"github.com/lendingdesk/backend/internal/domain/ledger"
	"github.com/lendingdesk/backend/internal/domain/loan"
	"github.com/lendingdesk/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// AuditRecorder appends audit entries. A failed write is logged and
// swallowed: the operation being audited has already committed.
type AuditRecorder struct {
	repo   audit.Repository
	logger *zap.Logger
}

// NewAuditRecorder creates a new AuditRecorder
func NewAuditRecorder(repo audit.Repository, logger *zap.Logger) *AuditRecorder {
	return &AuditRecorder{repo: repo, logger: logger}
}

// Record appends entry
func (r *AuditRecorder) Record(ctx context.Context, entry *audit.Entry) {
	if entry == nil {
		return
	}
	if err := r.repo.Append(ctx, entry); err != nil {
		fields := []zap.Field{
			zap.String("module", entry.Module),
			zap.String("action", entry.Action),
			zap.String("actor_id", entry.ActorID.String()),
			zap.Error(err),
		}
		if entry.EntityID != nil {
			fields = append(fields, zap.String("entity_id", entry.EntityID.String()))
		}
		r.logger.Error("Failed to create audit log", fields...)
	}
}

var _ audit.Recorder = (*AuditRecorder)(nil)

// AuditEventHandler turns settlement domain events into audit entries
type AuditEventHandler struct {
	recorder audit.Recorder
	logger   *zap.Logger
}

// NewAuditEventHandler creates a new AuditEventHandler
func NewAuditEventHandler(recorder audit.Recorder, logger *zap.Logger) *AuditEventHandler {
	return &AuditEventHandler{recorder: recorder, logger: logger}
}

// EventTypes returns the event types this handler is interested in
func (h *AuditEventHandler) EventTypes() []string {
	return []string{
		loan.EventTypeLoanCreated,
		loan.EventTypeLoanStatusChanged,
		loan.EventTypeLoanUpdated,
		loan.EventTypeLoanDeleted,
		commission.EventTypeCommissionCreated,
		commission.EventTypeCommissionApproved,
		commission.EventTypeCommissionCanceled,
		commission.EventTypeCommissionEdited,
		commission.EventTypeCommissionApprovedEdited,
		ledger.EventTypeLedgerEntryPosted,
	}
}

// Handle records one audit entry for event. It never returns the recorder's
// failures, only events it cannot map.
func (h *AuditEventHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	module, action, err := auditActionFor(event)
	if err != nil {
		h.logger.Error("unexpected event type for audit",
			zap.String("event_type", event.EventType()),
		)
		return err
	}

	requester := event.RequestedBy()
	entry, err := audit.NewEntry(requester.UserID, module, action, auditEntityID(event.AggregateID()), requester.IP)
	if err != nil {
		return err
	}
	eventID := event.EventID()
	entry.EventID = &eventID
	entry.OccurredAt = event.OccurredAt()

	h.recorder.Record(ctx, entry)
	return nil
}

func auditActionFor(event shared.DomainEvent) (module, action string, err error) {
	switch e := event.(type) {
	case *loan.LoanCreatedEvent:
		return audit.ModuleLoans, audit.ActionCreate, nil
	case *loan.LoanStatusChangedEvent:
		return audit.ModuleLoans, audit.ActionUpdateStatusPrefix + e.To.String(), nil
	case *loan.LoanUpdatedEvent:
		return audit.ModuleLoans, audit.ActionUpdate, nil
	case *loan.LoanDeletedEvent:
		return audit.ModuleLoans, audit.ActionDelete, nil
	case *commission.CommissionCreatedEvent:
		return audit.ModuleCommissions, audit.ActionCalculateAndCreate, nil
	case *commission.CommissionApprovedEvent:
		return audit.ModuleCommissions, audit.ActionApprove, nil
	case *commission.CommissionCanceledEvent:
		return audit.ModuleCommissions, audit.ActionCancel, nil
	case *commission.CommissionEditedEvent:
		return audit.ModuleCommissions, audit.ActionEdit, nil
	case *commission.CommissionApprovedEditedEvent:
		return audit.ModuleCommissions, audit.ActionEditApproved, nil
	case *ledger.LedgerEntryPostedEvent:
		return audit.ModuleFinancial, audit.ActionPost, nil
	}
	return "", "", fmt.Errorf("no audit action for event type %s", event.EventType())
}

var _ shared.EventHandler = (*AuditEventHandler)(nil)

func auditEntityID(id uuid.UUID) *uuid.UUID {
	if id == uuid.Nil {
		return nil
	}
	return &id
}
