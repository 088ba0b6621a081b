package commission

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lendingdesk/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// AggregateType is the aggregate name carried on commission events
const AggregateType = "Commission"

// HouseDefaultPercent is the reference used when a loan opens its commission automatically
var HouseDefaultPercent = decimal.NewFromInt(1)

// Status represents the status of a commission
type Status string

const (
	StatusOpen     Status = "OPEN"
	StatusApproved Status = "APPROVED"
	StatusCanceled Status = "CANCELED"
	// StatusPendingGeneration marks a loan that has no commission row yet.
	// It only appears in the pending view and is never persisted.
	StatusPendingGeneration Status = "PENDING_GENERATION"
)

// IsValid checks if the status is a persisted Status
func (s Status) IsValid() bool {
	switch s {
	case StatusOpen, StatusApproved, StatusCanceled:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// CanApprove returns true if the commission can be approved
func (s Status) CanApprove() bool {
	return s == StatusOpen
}

// CanCancel returns true if the commission can be canceled
func (s Status) CanCancel() bool {
	return s == StatusOpen
}

// LocksLoan reports whether a commission in this status freezes its loan for editing
func (s Status) LocksLoan() bool {
	return s == StatusApproved || s == StatusCanceled
}

// Commission is the seller's earned amount on a loan
type Commission struct {
	shared.BaseAggregateRoot
	LoanID           uuid.UUID       `json:"loan_id"`
	SellerID         uuid.UUID       `json:"seller_id"`
	Period           Period          `json:"period"`
	Type             Type            `json:"type"`
	Reference        decimal.Decimal `json:"reference"`
	BaseValue        decimal.Decimal `json:"base_value"`
	CalculatedAmount decimal.Decimal `json:"calculated_amount"`
	Status           Status          `json:"status"`
	ApprovedAt       *time.Time      `json:"approved_at,omitempty"`
	CanceledAt       *time.Time      `json:"canceled_at,omitempty"`
}

// OpenInput carries what is needed to open a commission
type OpenInput struct {
	LoanID    uuid.UUID
	SellerID  uuid.UUID
	BaseValue decimal.Decimal
	Type      Type
	Reference decimal.Decimal
	Period    string
}

// NewCommission opens a commission in OPEN status with its amount already calculated
func NewCommission(in OpenInput, requester shared.Requester) (*Commission, error) {
	if in.LoanID == uuid.Nil {
		return nil, shared.NewValidationError("Loan is required")
	}
	if in.SellerID == uuid.Nil {
		return nil, shared.NewValidationError("Seller is required")
	}
	period, err := ParsePeriod(in.Period)
	if err != nil {
		return nil, err
	}
	amount, err := Calculate(in.BaseValue, in.Type, in.Reference)
	if err != nil {
		return nil, err
	}

	c := &Commission{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		LoanID:            in.LoanID,
		SellerID:          in.SellerID,
		Period:            period,
		Type:              in.Type,
		Reference:         in.Reference,
		BaseValue:         in.BaseValue,
		CalculatedAmount:  amount,
		Status:            StatusOpen,
	}
	c.AddDomainEvent(NewCommissionCreatedEvent(c, requester))
	return c, nil
}

// Approve moves an OPEN commission to APPROVED
func (c *Commission) Approve(at time.Time, requester shared.Requester) error {
	if !c.Status.CanApprove() {
		return shared.NewInvalidStateTransition(fmt.Sprintf("Cannot approve commission in %s status", c.Status))
	}
	c.Status = StatusApproved
	c.ApprovedAt = &at
	c.IncrementVersion()
	c.AddDomainEvent(NewCommissionApprovedEvent(c, requester))
	return nil
}

// Cancel moves an OPEN commission to CANCELED
func (c *Commission) Cancel(at time.Time, requester shared.Requester) error {
	if !c.Status.CanCancel() {
		return shared.NewInvalidStateTransition(fmt.Sprintf("Cannot cancel commission in %s status", c.Status))
	}
	c.Status = StatusCanceled
	c.CanceledAt = &at
	c.IncrementVersion()
	c.AddDomainEvent(NewCommissionCanceledEvent(c, requester))
	return nil
}

// Edit changes the plan of an OPEN commission and recalculates its amount.
// An empty period keeps the current one.
func (c *Commission) Edit(t Type, reference decimal.Decimal, period string, requester shared.Requester) error {
	if c.Status != StatusOpen {
		return shared.NewInvalidStateTransition(fmt.Sprintf("Cannot edit commission in %s status", c.Status))
	}
	next := c.Period
	if period != "" {
		p, err := ParsePeriod(period)
		if err != nil {
			return err
		}
		next = p
	}
	amount, err := Calculate(c.BaseValue, t, reference)
	if err != nil {
		return err
	}

	c.Type = t
	c.Reference = reference
	c.Period = next
	c.CalculatedAmount = amount
	c.IncrementVersion()
	c.AddDomainEvent(NewCommissionEditedEvent(c, requester))
	return nil
}

// FollowLoan keeps an OPEN commission in line with its loan: the base value
// tracks the net value and the seller tracks the loan's seller. It reports
// whether anything changed; the version moves only then.
func (c *Commission) FollowLoan(baseValue decimal.Decimal, sellerID uuid.UUID, requester shared.Requester) (bool, error) {
	if c.Status != StatusOpen {
		return false, shared.NewInvalidStateTransition(fmt.Sprintf("Cannot recalculate commission in %s status", c.Status))
	}
	if baseValue.Equal(c.BaseValue) && sellerID == c.SellerID {
		return false, nil
	}
	amount, err := Calculate(baseValue, c.Type, c.Reference)
	if err != nil {
		return false, err
	}
	c.BaseValue = baseValue
	c.CalculatedAmount = amount
	c.SellerID = sellerID
	c.IncrementVersion()
	c.AddDomainEvent(NewCommissionEditedEvent(c, requester))
	return true, nil
}

// EditApproved recalculates an APPROVED commission from a new plan and the
// loan's current net value. It returns the signed change of the amount
// (new minus old), which the caller settles in the ledger.
func (c *Commission) EditApproved(t Type, reference, baseValue decimal.Decimal, requester shared.Requester) (decimal.Decimal, error) {
	if c.Status != StatusApproved {
		return decimal.Zero, shared.NewInvalidStateTransition(fmt.Sprintf("Cannot edit approved values of commission in %s status", c.Status))
	}
	amount, err := Calculate(baseValue, t, reference)
	if err != nil {
		return decimal.Zero, err
	}

	previous := c.CalculatedAmount
	c.Type = t
	c.Reference = reference
	c.BaseValue = baseValue
	c.CalculatedAmount = amount
	c.IncrementVersion()
	c.AddDomainEvent(NewCommissionApprovedEditedEvent(c, previous, requester))
	return amount.Sub(previous), nil
}
