package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lendingdesk/backend/internal/domain/loan"
	"github.com/shopspring/decimal"
)

// LoanModel is the persistence model for the Loan aggregate root.
type LoanModel struct {
	AggregateModel
	Code             string          `gorm:"type:varchar(20);not null;uniqueIndex:idx_loans_code"`
	StartDate        time.Time       `gorm:"not null;index"`
	Term             int             `gorm:"not null"`
	InstallmentValue decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	GrossValue       decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	NetValue         decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Status           loan.Status     `gorm:"type:varchar(20);not null;default:'ACTIVE';index"`
	Note             string          `gorm:"type:text"`
	CustomerID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	SellerID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	OrganID          *uuid.UUID      `gorm:"type:uuid"`
	BankID           *uuid.UUID      `gorm:"type:uuid"`
	ProductTypeID    *uuid.UUID      `gorm:"type:uuid"`
	GroupID          *uuid.UUID      `gorm:"type:uuid"`
	RateTableID      *uuid.UUID      `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (LoanModel) TableName() string {
	return "loans"
}

// ToDomain converts the persistence model to a domain Loan.
func (m *LoanModel) ToDomain() *loan.Loan {
	return &loan.Loan{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Code:              m.Code,
		StartDate:         m.StartDate,
		Term:              m.Term,
		InstallmentValue:  m.InstallmentValue,
		GrossValue:        m.GrossValue,
		NetValue:          m.NetValue,
		Status:            m.Status,
		Note:              m.Note,
		CustomerID:        m.CustomerID,
		SellerID:          m.SellerID,
		OrganID:           m.OrganID,
		BankID:            m.BankID,
		ProductTypeID:     m.ProductTypeID,
		GroupID:           m.GroupID,
		RateTableID:       m.RateTableID,
	}
}

// FromDomain populates the persistence model from a domain Loan.
func (m *LoanModel) FromDomain(l *loan.Loan) {
	m.FromDomainAggregateRoot(l.BaseAggregateRoot)
	m.Code = l.Code
	m.StartDate = l.StartDate
	m.Term = l.Term
	m.InstallmentValue = l.InstallmentValue
	m.GrossValue = l.GrossValue
	m.NetValue = l.NetValue
	m.Status = l.Status
	m.Note = l.Note
	m.CustomerID = l.CustomerID
	m.SellerID = l.SellerID
	m.OrganID = l.OrganID
	m.BankID = l.BankID
	m.ProductTypeID = l.ProductTypeID
	m.GroupID = l.GroupID
	m.RateTableID = l.RateTableID
}

// LoanModelFromDomain creates a new persistence model from domain.
func LoanModelFromDomain(l *loan.Loan) *LoanModel {
	m := &LoanModel{}
	m.FromDomain(l)
	return m
}
