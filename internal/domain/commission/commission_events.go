package commission

import (
	"time"

	"github.com/google/uuid"
	"github.com/lendingdesk/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Commission event types
const (
	EventTypeCommissionCreated        = "CommissionCreated"
	EventTypeCommissionApproved       = "CommissionApproved"
	EventTypeCommissionCanceled       = "CommissionCanceled"
	EventTypeCommissionEdited         = "CommissionEdited"
	EventTypeCommissionApprovedEdited = "CommissionApprovedEdited"
)

// CommissionCreatedEvent is raised when a commission is calculated and opened
type CommissionCreatedEvent struct {
	shared.BaseDomainEvent
	CommissionID     uuid.UUID       `json:"commission_id"`
	LoanID           uuid.UUID       `json:"loan_id"`
	SellerID         uuid.UUID       `json:"seller_id"`
	Period           Period          `json:"period"`
	Type             Type            `json:"type"`
	Reference        decimal.Decimal `json:"reference"`
	CalculatedAmount decimal.Decimal `json:"calculated_amount"`
}

// EventType returns the event type name
func (e *CommissionCreatedEvent) EventType() string {
	return EventTypeCommissionCreated
}

// NewCommissionCreatedEvent creates a new CommissionCreatedEvent
func NewCommissionCreatedEvent(c *Commission, requester shared.Requester) *CommissionCreatedEvent {
	return &CommissionCreatedEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventTypeCommissionCreated, AggregateType, c.ID, requester),
		CommissionID:     c.ID,
		LoanID:           c.LoanID,
		SellerID:         c.SellerID,
		Period:           c.Period,
		Type:             c.Type,
		Reference:        c.Reference,
		CalculatedAmount: c.CalculatedAmount,
	}
}

// CommissionApprovedEvent is raised when a commission is approved
type CommissionApprovedEvent struct {
	shared.BaseDomainEvent
	CommissionID     uuid.UUID       `json:"commission_id"`
	LoanID           uuid.UUID       `json:"loan_id"`
	SellerID         uuid.UUID       `json:"seller_id"`
	CalculatedAmount decimal.Decimal `json:"calculated_amount"`
	ApprovedAt       time.Time       `json:"approved_at"`
}

// EventType returns the event type name
func (e *CommissionApprovedEvent) EventType() string {
	return EventTypeCommissionApproved
}

// NewCommissionApprovedEvent creates a new CommissionApprovedEvent
func NewCommissionApprovedEvent(c *Commission, requester shared.Requester) *CommissionApprovedEvent {
	approvedAt := time.Now()
	if c.ApprovedAt != nil {
		approvedAt = *c.ApprovedAt
	}
	return &CommissionApprovedEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventTypeCommissionApproved, AggregateType, c.ID, requester),
		CommissionID:     c.ID,
		LoanID:           c.LoanID,
		SellerID:         c.SellerID,
		CalculatedAmount: c.CalculatedAmount,
		ApprovedAt:       approvedAt,
	}
}

// CommissionCanceledEvent is raised when a commission is canceled
type CommissionCanceledEvent struct {
	shared.BaseDomainEvent
	CommissionID uuid.UUID `json:"commission_id"`
	LoanID       uuid.UUID `json:"loan_id"`
}

// EventType returns the event type name
func (e *CommissionCanceledEvent) EventType() string {
	return EventTypeCommissionCanceled
}

// NewCommissionCanceledEvent creates a new CommissionCanceledEvent
func NewCommissionCanceledEvent(c *Commission, requester shared.Requester) *CommissionCanceledEvent {
	return &CommissionCanceledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCommissionCanceled, AggregateType, c.ID, requester),
		CommissionID:    c.ID,
		LoanID:          c.LoanID,
	}
}

// CommissionEditedEvent is raised when an OPEN commission is recalculated
type CommissionEditedEvent struct {
	shared.BaseDomainEvent
	CommissionID     uuid.UUID       `json:"commission_id"`
	Type             Type            `json:"type"`
	Reference        decimal.Decimal `json:"reference"`
	CalculatedAmount decimal.Decimal `json:"calculated_amount"`
}

// EventType returns the event type name
func (e *CommissionEditedEvent) EventType() string {
	return EventTypeCommissionEdited
}

// NewCommissionEditedEvent creates a new CommissionEditedEvent
func NewCommissionEditedEvent(c *Commission, requester shared.Requester) *CommissionEditedEvent {
	return &CommissionEditedEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventTypeCommissionEdited, AggregateType, c.ID, requester),
		CommissionID:     c.ID,
		Type:             c.Type,
		Reference:        c.Reference,
		CalculatedAmount: c.CalculatedAmount,
	}
}

// CommissionApprovedEditedEvent is raised when an APPROVED commission is recalculated
type CommissionApprovedEditedEvent struct {
	shared.BaseDomainEvent
	CommissionID   uuid.UUID       `json:"commission_id"`
	LoanID         uuid.UUID       `json:"loan_id"`
	PreviousAmount decimal.Decimal `json:"previous_amount"`
	NewAmount      decimal.Decimal `json:"new_amount"`
}

// EventType returns the event type name
func (e *CommissionApprovedEditedEvent) EventType() string {
	return EventTypeCommissionApprovedEdited
}

// Delta returns the signed amount change
func (e *CommissionApprovedEditedEvent) Delta() decimal.Decimal {
	return e.NewAmount.Sub(e.PreviousAmount)
}

// NewCommissionApprovedEditedEvent creates a new CommissionApprovedEditedEvent
func NewCommissionApprovedEditedEvent(c *Commission, previous decimal.Decimal, requester shared.Requester) *CommissionApprovedEditedEvent {
	return &CommissionApprovedEditedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCommissionApprovedEdited, AggregateType, c.ID, requester),
		CommissionID:    c.ID,
		LoanID:          c.LoanID,
		PreviousAmount:  previous,
		NewAmount:       c.CalculatedAmount,
	}
}
