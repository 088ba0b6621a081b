package ledger

import (
	"github.com/google/uuid"
	"github.com/lendingdesk/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// EventTypeLedgerEntryPosted is raised for every posted transaction
const EventTypeLedgerEntryPosted = "LedgerEntryPosted"

// LedgerEntryPostedEvent is raised when a transaction is written to the ledger
type LedgerEntryPostedEvent struct {
	shared.BaseDomainEvent
	TransactionID uuid.UUID       `json:"transaction_id"`
	Amount        decimal.Decimal `json:"amount"`
	Direction     Direction       `json:"direction"`
	Category      Category        `json:"category"`
	OriginID      *uuid.UUID      `json:"origin_id,omitempty"`
	PostingKey    string          `json:"posting_key"`
}

// EventType returns the event type name
func (e *LedgerEntryPostedEvent) EventType() string {
	return EventTypeLedgerEntryPosted
}

// NewLedgerEntryPostedEvent creates a new LedgerEntryPostedEvent
func NewLedgerEntryPostedEvent(t *FinancialTransaction, requester shared.Requester) *LedgerEntryPostedEvent {
	return &LedgerEntryPostedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLedgerEntryPosted, AggregateType, t.ID, requester),
		TransactionID:   t.ID,
		Amount:          t.Amount,
		Direction:       t.Direction,
		Category:        t.Category,
		OriginID:        t.OriginID,
		PostingKey:      t.PostingKey,
	}
}
