package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lendingdesk/backend/internal/domain/ledger"
	"github.com/shopspring/decimal"
)

// FinancialTransactionModel is the persistence model for ledger rows.
// Rows are written once and never updated.
type FinancialTransactionModel struct {
	AggregateModel
	Date           time.Time        `gorm:"not null;index"`
	Amount         decimal.Decimal  `gorm:"type:decimal(18,2);not null"`
	Direction      ledger.Direction `gorm:"type:varchar(3);not null;index"`
	Category       ledger.Category  `gorm:"type:varchar(30);not null;index"`
	Description    string           `gorm:"type:varchar(500);not null"`
	OriginID       *uuid.UUID       `gorm:"type:uuid;index"`
	SettlementDate *time.Time
	ReceiptRef     string `gorm:"type:varchar(255)"`
	PostingKey     string `gorm:"type:varchar(120);not null;uniqueIndex:idx_financial_transactions_posting_key"`
}

// TableName returns the table name for GORM
func (FinancialTransactionModel) TableName() string {
	return "financial_transactions"
}

// ToDomain converts the persistence model to a domain FinancialTransaction.
func (m *FinancialTransactionModel) ToDomain() *ledger.FinancialTransaction {
	return &ledger.FinancialTransaction{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Date:              m.Date,
		Amount:            m.Amount,
		Direction:         m.Direction,
		Category:          m.Category,
		Description:       m.Description,
		OriginID:          m.OriginID,
		SettlementDate:    m.SettlementDate,
		ReceiptRef:        m.ReceiptRef,
		PostingKey:        m.PostingKey,
	}
}

// FromDomain populates the persistence model from a domain FinancialTransaction.
func (m *FinancialTransactionModel) FromDomain(t *ledger.FinancialTransaction) {
	m.FromDomainAggregateRoot(t.BaseAggregateRoot)
	m.Date = t.Date
	m.Amount = t.Amount
	m.Direction = t.Direction
	m.Category = t.Category
	m.Description = t.Description
	m.OriginID = t.OriginID
	m.SettlementDate = t.SettlementDate
	m.ReceiptRef = t.ReceiptRef
	m.PostingKey = t.PostingKey
}

// FinancialTransactionModelFromDomain creates a new persistence model from domain.
func FinancialTransactionModelFromDomain(t *ledger.FinancialTransaction) *FinancialTransactionModel {
	m := &FinancialTransactionModel{}
	m.FromDomain(t)
	return m
}
