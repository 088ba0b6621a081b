package persistence

import (
	"context"

	"github.com/lendingdesk/backend/internal/domain/settlement"
	"gorm.io/gorm"
)

// NewRepositories binds the settlement repositories to db, which may be a
// plain connection or an open transaction
func NewRepositories(db *gorm.DB) settlement.Repositories {
	return settlement.Repositories{
		Loans:        NewGormLoanRepository(db),
		Commissions:  NewGormCommissionRepository(db),
		Transactions: NewGormFinancialTransactionRepository(db),
	}
}

// GormUnitOfWork runs settlement use cases inside one database transaction
type GormUnitOfWork struct {
	db *gorm.DB
}

// NewGormUnitOfWork creates a new GormUnitOfWork
func NewGormUnitOfWork(db *gorm.DB) *GormUnitOfWork {
	return &GormUnitOfWork{db: db}
}

// Do commits when fn returns nil and rolls back on error or panic
func (u *GormUnitOfWork) Do(ctx context.Context, fn func(ctx context.Context, repos settlement.Repositories) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, NewRepositories(tx))
	})
}
