package loan

import (
	"time"

	"github.com/google/uuid"
	"github.com/lendingdesk/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Loan event types
const (
	EventTypeLoanCreated       = "LoanCreated"
	EventTypeLoanStatusChanged = "LoanStatusChanged"
	EventTypeLoanUpdated       = "LoanUpdated"
	EventTypeLoanDeleted       = "LoanDeleted"
)

// LoanCreatedEvent is raised when a loan is registered
type LoanCreatedEvent struct {
	shared.BaseDomainEvent
	LoanID    uuid.UUID       `json:"loan_id"`
	Code      string          `json:"code"`
	SellerID  uuid.UUID       `json:"seller_id"`
	NetValue  decimal.Decimal `json:"net_value"`
	Status    Status          `json:"status"`
	StartDate time.Time       `json:"start_date"`
}

// EventType returns the event type name
func (e *LoanCreatedEvent) EventType() string {
	return EventTypeLoanCreated
}

// NewLoanCreatedEvent creates a new LoanCreatedEvent
func NewLoanCreatedEvent(l *Loan, requester shared.Requester) *LoanCreatedEvent {
	return &LoanCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLoanCreated, AggregateType, l.ID, requester),
		LoanID:          l.ID,
		Code:            l.Code,
		SellerID:        l.SellerID,
		NetValue:        l.NetValue,
		Status:          l.Status,
		StartDate:       l.StartDate,
	}
}

// LoanStatusChangedEvent is raised on every status transition
type LoanStatusChangedEvent struct {
	shared.BaseDomainEvent
	LoanID   uuid.UUID       `json:"loan_id"`
	Code     string          `json:"code"`
	From     Status          `json:"from"`
	To       Status          `json:"to"`
	NetValue decimal.Decimal `json:"net_value"`
}

// EventType returns the event type name
func (e *LoanStatusChangedEvent) EventType() string {
	return EventTypeLoanStatusChanged
}

// NewLoanStatusChangedEvent creates a new LoanStatusChangedEvent
func NewLoanStatusChangedEvent(l *Loan, from Status, requester shared.Requester) *LoanStatusChangedEvent {
	return &LoanStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLoanStatusChanged, AggregateType, l.ID, requester),
		LoanID:          l.ID,
		Code:            l.Code,
		From:            from,
		To:              l.Status,
		NetValue:        l.NetValue,
	}
}

// LoanUpdatedEvent is raised when loan fields are edited
type LoanUpdatedEvent struct {
	shared.BaseDomainEvent
	LoanID   uuid.UUID       `json:"loan_id"`
	Code     string          `json:"code"`
	NetValue decimal.Decimal `json:"net_value"`
}

// EventType returns the event type name
func (e *LoanUpdatedEvent) EventType() string {
	return EventTypeLoanUpdated
}

// NewLoanUpdatedEvent creates a new LoanUpdatedEvent
func NewLoanUpdatedEvent(l *Loan, requester shared.Requester) *LoanUpdatedEvent {
	return &LoanUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLoanUpdated, AggregateType, l.ID, requester),
		LoanID:          l.ID,
		Code:            l.Code,
		NetValue:        l.NetValue,
	}
}

// LoanDeletedEvent is raised when a loan is removed
type LoanDeletedEvent struct {
	shared.BaseDomainEvent
	LoanID uuid.UUID `json:"loan_id"`
	Code   string    `json:"code"`
}

// EventType returns the event type name
func (e *LoanDeletedEvent) EventType() string {
	return EventTypeLoanDeleted
}

// NewLoanDeletedEvent creates a new LoanDeletedEvent
func NewLoanDeletedEvent(l *Loan, requester shared.Requester) *LoanDeletedEvent {
	return &LoanDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLoanDeleted, AggregateType, l.ID, requester),
		LoanID:          l.ID,
		Code:            l.Code,
	}
}
