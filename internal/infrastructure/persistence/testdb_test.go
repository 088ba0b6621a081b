package persistence

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lendingdesk/backend/internal/domain/commission"
	"github.com/lendingdesk/backend/internal/domain/loan"
	"github.com/lendingdesk/backend/internal/domain/shared"
	"github.com/lendingdesk/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var testRequester = shared.Requester{UserID: uuid.New(), IP: "10.0.0.1"}

// setupSettlementTestDB opens an in-memory sqlite database with the
// settlement schema. A single connection keeps every query on the same
// in-memory database.
func setupSettlementTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := Open(sqlite.Open(":memory:"), nil, gormlogger.Silent)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&models.LoanModel{},
		&models.CommissionModel{},
		&models.FinancialTransactionModel{},
		&models.AuditEntryModel{},
	))
	return db
}

func newLoanFixture(t *testing.T, code string, start time.Time, net string) *loan.Loan {
	t.Helper()
	l, err := loan.NewLoan(code, loan.Fields{
		StartDate:        start,
		Term:             12,
		InstallmentValue: decimal.RequireFromString("900.00"),
		GrossValue:       decimal.RequireFromString("10000.00"),
		NetValue:         decimal.RequireFromString(net),
		CustomerID:       uuid.New(),
		SellerID:         uuid.New(),
	}, "", testRequester)
	require.NoError(t, err)
	l.PullDomainEvents()
	return l
}

func newCommissionFixture(t *testing.T, l *loan.Loan, reference string) *commission.Commission {
	t.Helper()
	c, err := commission.NewCommission(commission.OpenInput{
		LoanID:    l.ID,
		SellerID:  l.SellerID,
		BaseValue: l.NetValue,
		Type:      commission.TypePercentage,
		Reference: decimal.RequireFromString(reference),
		Period:    commission.PeriodOf(l.StartDate).String(),
	}, testRequester)
	require.NoError(t, err)
	c.PullDomainEvents()
	return c
}

func march(day int) time.Time {
	return time.Date(2026, 3, day, 0, 0, 0, 0, time.UTC)
}
