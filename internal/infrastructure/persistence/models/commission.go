package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lendingdesk/backend/internal/domain/commission"
	"github.com/shopspring/decimal"
)

// CommissionModel is the persistence model for the Commission aggregate root.
// The unique index on loan_id is what makes two concurrent openings for the
// same loan collide.
type CommissionModel struct {
	AggregateModel
	LoanID           uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex:idx_commissions_loan"`
	SellerID         uuid.UUID         `gorm:"type:uuid;not null;index"`
	Period           commission.Period `gorm:"type:varchar(7);not null;index"`
	Type             commission.Type   `gorm:"type:varchar(20);not null"`
	Reference        decimal.Decimal   `gorm:"type:decimal(18,4);not null"`
	BaseValue        decimal.Decimal   `gorm:"type:decimal(18,2);not null"`
	CalculatedAmount decimal.Decimal   `gorm:"type:decimal(18,2);not null"`
	Status           commission.Status `gorm:"type:varchar(20);not null;default:'OPEN';index"`
	ApprovedAt       *time.Time
	CanceledAt       *time.Time
}

// TableName returns the table name for GORM
func (CommissionModel) TableName() string {
	return "commissions"
}

// ToDomain converts the persistence model to a domain Commission.
func (m *CommissionModel) ToDomain() *commission.Commission {
	return &commission.Commission{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		LoanID:            m.LoanID,
		SellerID:          m.SellerID,
		Period:            m.Period,
		Type:              m.Type,
		Reference:         m.Reference,
		BaseValue:         m.BaseValue,
		CalculatedAmount:  m.CalculatedAmount,
		Status:            m.Status,
		ApprovedAt:        m.ApprovedAt,
		CanceledAt:        m.CanceledAt,
	}
}

// FromDomain populates the persistence model from a domain Commission.
func (m *CommissionModel) FromDomain(c *commission.Commission) {
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	m.LoanID = c.LoanID
	m.SellerID = c.SellerID
	m.Period = c.Period
	m.Type = c.Type
	m.Reference = c.Reference
	m.BaseValue = c.BaseValue
	m.CalculatedAmount = c.CalculatedAmount
	m.Status = c.Status
	m.ApprovedAt = c.ApprovedAt
	m.CanceledAt = c.CanceledAt
}

// CommissionModelFromDomain creates a new persistence model from domain.
func CommissionModelFromDomain(c *commission.Commission) *CommissionModel {
	m := &CommissionModel{}
	m.FromDomain(c)
	return m
}
