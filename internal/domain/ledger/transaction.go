package ledger

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lendingdesk/backend/internal/domain/shared"
	"github.com/lendingdesk/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// AggregateType is the aggregate name carried on ledger events
const AggregateType = "FinancialTransaction"

// Direction is the cash-flow direction of a transaction
type Direction string

const (
	DirectionIn  Direction = "IN"
	DirectionOut Direction = "OUT"
)

// IsValid checks if the direction is a valid Direction
func (d Direction) IsValid() bool {
	return d == DirectionIn || d == DirectionOut
}

// String returns the string representation of Direction
func (d Direction) String() string {
	return string(d)
}

// Category tags what a transaction is about
type Category string

const (
	CategoryLoan            Category = "LOAN"
	CategoryCommission      Category = "COMMISSION"
	CategoryFixedExpense    Category = "FIXED_EXPENSE"
	CategoryVariableExpense Category = "VARIABLE_EXPENSE"
	CategoryOther           Category = "OTHER"
)

// IsValid checks if the category is a valid Category
func (c Category) IsValid() bool {
	switch c {
	case CategoryLoan, CategoryCommission, CategoryFixedExpense, CategoryVariableExpense, CategoryOther:
		return true
	}
	return false
}

// String returns the string representation of Category
func (c Category) String() string {
	return string(c)
}

// PostingKey is the idempotency key of the primary posting for an origin and category
func PostingKey(category Category, originID uuid.UUID) string {
	return fmt.Sprintf("%s:%s", category, originID)
}

// AdjustmentKey is the idempotency key of the n-th compensating posting
func AdjustmentKey(category Category, originID uuid.UUID, n int) string {
	return fmt.Sprintf("%s:%s:ADJ:%d", category, originID, n)
}

// FinancialTransaction is an immutable cash-flow record
type FinancialTransaction struct {
	shared.BaseAggregateRoot
	Date           time.Time       `json:"date"`
	Amount         decimal.Decimal `json:"amount"`
	Direction      Direction       `json:"direction"`
	Category       Category        `json:"category"`
	Description    string          `json:"description"`
	OriginID       *uuid.UUID      `json:"origin_id,omitempty"`
	SettlementDate *time.Time      `json:"settlement_date,omitempty"`
	ReceiptRef     string          `json:"receipt_ref,omitempty"`
	PostingKey     string          `json:"posting_key"`
}

// Posting describes a transaction to be written
type Posting struct {
	Date           time.Time
	Amount         decimal.Decimal
	Direction      Direction
	Category       Category
	Description    string
	OriginID       *uuid.UUID
	SettlementDate *time.Time
	ReceiptRef     string
	// PostingKey overrides the default key derived from category and origin
	PostingKey string
}

// NewFinancialTransaction validates a posting and builds the transaction
func NewFinancialTransaction(p Posting, requester shared.Requester) (*FinancialTransaction, error) {
	if !p.Amount.IsPositive() {
		return nil, shared.NewValidationError("Transaction amount must be positive")
	}
	if !p.Direction.IsValid() {
		return nil, shared.NewValidationError(fmt.Sprintf("Invalid transaction direction: %s", p.Direction))
	}
	if !p.Category.IsValid() {
		return nil, shared.NewValidationError(fmt.Sprintf("Invalid transaction category: %s", p.Category))
	}
	description := strings.TrimSpace(p.Description)
	if description == "" {
		return nil, shared.NewValidationError("Transaction description cannot be empty")
	}
	if len(description) > 500 {
		return nil, shared.NewValidationError("Transaction description cannot exceed 500 characters")
	}

	key := p.PostingKey
	if key == "" {
		if p.OriginID == nil {
			key = fmt.Sprintf("%s:%s", p.Category, uuid.New())
		} else {
			key = PostingKey(p.Category, *p.OriginID)
		}
	}
	date := p.Date
	if date.IsZero() {
		date = time.Now()
	}

	t := &FinancialTransaction{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Date:              date,
		Amount:            valueobject.RoundCents(p.Amount),
		Direction:         p.Direction,
		Category:          p.Category,
		Description:       description,
		OriginID:          p.OriginID,
		SettlementDate:    p.SettlementDate,
		ReceiptRef:        strings.TrimSpace(p.ReceiptRef),
		PostingKey:        key,
	}
	t.AddDomainEvent(NewLedgerEntryPostedEvent(t, requester))
	return t, nil
}

// SignedAmount returns the amount as positive for IN and negative for OUT
func (t *FinancialTransaction) SignedAmount() decimal.Decimal {
	if t.Direction == DirectionOut {
		return t.Amount.Neg()
	}
	return t.Amount
}
