package loan

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lendingdesk/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// AggregateType is the aggregate name carried on loan events
const AggregateType = "Loan"

// Status represents the lifecycle status of a loan
type Status string

const (
	StatusActive    Status = "ACTIVE"
	StatusFinalized Status = "FINALIZED"
	StatusCanceled  Status = "CANCELED"
	StatusLate      Status = "LATE"
)

// allowedTransitions is the loan state machine. Statuses missing from the
// map (FINALIZED, CANCELED) are terminal.
var allowedTransitions = map[Status][]Status{
	StatusActive: {StatusFinalized, StatusCanceled, StatusLate},
	StatusLate:   {StatusActive, StatusFinalized, StatusCanceled},
}

// IsValid checks if the status is a valid Status
func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusFinalized, StatusCanceled, StatusLate:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// IsTerminal returns true if no further transition is allowed
func (s Status) IsTerminal() bool {
	_, ok := allowedTransitions[s]
	return !ok
}

// CanTransitionTo reports whether the state machine allows s -> to
func (s Status) CanTransitionTo(to Status) bool {
	for _, next := range allowedTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// Loan is a recorded credit sale to a customer
type Loan struct {
	shared.BaseAggregateRoot
	Code             string          `json:"code"`
	StartDate        time.Time       `json:"start_date"`
	Term             int             `json:"term"`
	InstallmentValue decimal.Decimal `json:"installment_value"`
	GrossValue       decimal.Decimal `json:"gross_value"`
	NetValue         decimal.Decimal `json:"net_value"`
	Status           Status          `json:"status"`
	Note             string          `json:"note"`
	CustomerID       uuid.UUID       `json:"customer_id"`
	SellerID         uuid.UUID       `json:"seller_id"`
	OrganID          *uuid.UUID      `json:"organ_id,omitempty"`
	BankID           *uuid.UUID      `json:"bank_id,omitempty"`
	ProductTypeID    *uuid.UUID      `json:"product_type_id,omitempty"`
	GroupID          *uuid.UUID      `json:"group_id,omitempty"`
	RateTableID      *uuid.UUID      `json:"rate_table_id,omitempty"`
}

// Fields holds the editable attributes of a loan
type Fields struct {
	StartDate        time.Time
	Term             int
	InstallmentValue decimal.Decimal
	GrossValue       decimal.Decimal
	NetValue         decimal.Decimal
	Note             string
	CustomerID       uuid.UUID
	SellerID         uuid.UUID
	OrganID          *uuid.UUID
	BankID           *uuid.UUID
	ProductTypeID    *uuid.UUID
	GroupID          *uuid.UUID
	RateTableID      *uuid.UUID
}

// Changes is a partial edit; nil fields are left untouched
type Changes struct {
	StartDate        *time.Time
	Term             *int
	InstallmentValue *decimal.Decimal
	GrossValue       *decimal.Decimal
	NetValue         *decimal.Decimal
	Note             *string
	CustomerID       *uuid.UUID
	SellerID         *uuid.UUID
	OrganID          *uuid.UUID
	BankID           *uuid.UUID
	ProductTypeID    *uuid.UUID
	GroupID          *uuid.UUID
	RateTableID      *uuid.UUID
}

// IsEmpty reports whether no field is being changed
func (c Changes) IsEmpty() bool {
	return c.StartDate == nil && c.Term == nil && c.InstallmentValue == nil &&
		c.GrossValue == nil && c.NetValue == nil && c.Note == nil &&
		c.CustomerID == nil && c.SellerID == nil && c.OrganID == nil &&
		c.BankID == nil && c.ProductTypeID == nil && c.GroupID == nil && c.RateTableID == nil
}

// NewLoan creates a loan. An empty status defaults to ACTIVE.
func NewLoan(code string, fields Fields, status Status, requester shared.Requester) (*Loan, error) {
	if strings.TrimSpace(code) == "" {
		return nil, shared.NewValidationError("Loan code cannot be empty")
	}
	if status == "" {
		status = StatusActive
	}
	if !status.IsValid() {
		return nil, shared.NewValidationError(fmt.Sprintf("Invalid loan status: %s", status))
	}
	if err := validateFields(fields); err != nil {
		return nil, err
	}

	l := &Loan{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              code,
		Status:            status,
	}
	l.applyFields(fields)
	l.AddDomainEvent(NewLoanCreatedEvent(l, requester))
	return l, nil
}

// Fields returns the editable attributes of the loan
func (l *Loan) Fields() Fields {
	return Fields{
		StartDate:        l.StartDate,
		Term:             l.Term,
		InstallmentValue: l.InstallmentValue,
		GrossValue:       l.GrossValue,
		NetValue:         l.NetValue,
		Note:             l.Note,
		CustomerID:       l.CustomerID,
		SellerID:         l.SellerID,
		OrganID:          l.OrganID,
		BankID:           l.BankID,
		ProductTypeID:    l.ProductTypeID,
		GroupID:          l.GroupID,
		RateTableID:      l.RateTableID,
	}
}

// ChangeStatus moves the loan through its state machine
func (l *Loan) ChangeStatus(to Status, requester shared.Requester) error {
	if !to.IsValid() {
		return shared.NewValidationError(fmt.Sprintf("Invalid loan status: %s", to))
	}
	if !l.Status.CanTransitionTo(to) {
		return shared.NewInvalidStateTransition(fmt.Sprintf("Cannot change loan status from %s to %s", l.Status, to))
	}

	from := l.Status
	l.Status = to
	l.IncrementVersion()
	l.AddDomainEvent(NewLoanStatusChangedEvent(l, from, requester))
	return nil
}

// Apply edits the loan. It returns true when the net value changed.
func (l *Loan) Apply(changes Changes, requester shared.Requester) (bool, error) {
	if changes.IsEmpty() {
		return false, shared.NewValidationError("No fields to update")
	}

	next := l.Fields()
	if changes.StartDate != nil {
		next.StartDate = *changes.StartDate
	}
	if changes.Term != nil {
		next.Term = *changes.Term
	}
	if changes.InstallmentValue != nil {
		next.InstallmentValue = *changes.InstallmentValue
	}
	if changes.GrossValue != nil {
		next.GrossValue = *changes.GrossValue
	}
	if changes.NetValue != nil {
		next.NetValue = *changes.NetValue
	}
	if changes.Note != nil {
		next.Note = *changes.Note
	}
	if changes.CustomerID != nil {
		next.CustomerID = *changes.CustomerID
	}
	if changes.SellerID != nil {
		next.SellerID = *changes.SellerID
	}
	if changes.OrganID != nil {
		next.OrganID = changes.OrganID
	}
	if changes.BankID != nil {
		next.BankID = changes.BankID
	}
	if changes.ProductTypeID != nil {
		next.ProductTypeID = changes.ProductTypeID
	}
	if changes.GroupID != nil {
		next.GroupID = changes.GroupID
	}
	if changes.RateTableID != nil {
		next.RateTableID = changes.RateTableID
	}

	if err := validateFields(next); err != nil {
		return false, err
	}

	netChanged := !next.NetValue.Equal(l.NetValue)
	l.applyFields(next)
	l.IncrementVersion()
	l.AddDomainEvent(NewLoanUpdatedEvent(l, requester))
	return netChanged, nil
}

// MarkDeleted records the deletion event; the row itself is removed by the repository
func (l *Loan) MarkDeleted(requester shared.Requester) {
	l.AddDomainEvent(NewLoanDeletedEvent(l, requester))
}

func (l *Loan) applyFields(f Fields) {
	l.StartDate = f.StartDate
	l.Term = f.Term
	l.InstallmentValue = f.InstallmentValue.Round(2)
	l.GrossValue = f.GrossValue.Round(2)
	l.NetValue = f.NetValue.Round(2)
	l.Note = strings.TrimSpace(f.Note)
	l.CustomerID = f.CustomerID
	l.SellerID = f.SellerID
	l.OrganID = f.OrganID
	l.BankID = f.BankID
	l.ProductTypeID = f.ProductTypeID
	l.GroupID = f.GroupID
	l.RateTableID = f.RateTableID
}

func validateFields(f Fields) error {
	if f.StartDate.IsZero() {
		return shared.NewValidationError("Start date is required")
	}
	if f.Term <= 0 {
		return shared.NewValidationError("Term must be a positive number of installments")
	}
	if !f.InstallmentValue.IsPositive() {
		return shared.NewValidationError("Installment value must be positive")
	}
	if !f.GrossValue.IsPositive() {
		return shared.NewValidationError("Gross value must be positive")
	}
	if !f.NetValue.IsPositive() {
		return shared.NewValidationError("Net value must be positive")
	}
	if f.NetValue.GreaterThan(f.GrossValue) {
		return shared.NewValidationError("Net value cannot exceed gross value")
	}
	if f.CustomerID == uuid.Nil {
		return shared.NewValidationError("Customer is required")
	}
	if f.SellerID == uuid.Nil {
		return shared.NewValidationError("Seller is required")
	}
	if len(f.Note) > 2000 {
		return shared.NewValidationError("Note cannot exceed 2000 characters")
	}
	return nil
}
