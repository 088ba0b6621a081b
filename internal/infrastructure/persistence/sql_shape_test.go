package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lendingdesk/backend/internal/domain/commission"
	"github.com/lendingdesk/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newMockPostgres opens gorm on a sqlmock connection with the postgres dialect
func newMockPostgres(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	db, err := Open(postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	}), nil, gormlogger.Silent)
	require.NoError(t, err)

	return db, mock, mockDB
}

func TestSaveWithLock_SQL(t *testing.T) {
	l := newLoanFixture(t, "LN-202603-00001", march(10), "1000.00")
	c := newCommissionFixture(t, l, "1")
	require.NoError(t, c.Approve(time.Now(), testRequester))

	t.Run("guards the update with the read version", func(t *testing.T) {
		db, mock, mockDB := newMockPostgres(t)
		defer mockDB.Close()

		mock.ExpectExec(`UPDATE "commissions" SET .* WHERE id = \$\d+ AND version = \$\d+`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := NewGormCommissionRepository(db).SaveWithLock(context.Background(), c)
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("zero rows on an existing row is a conflict", func(t *testing.T) {
		db, mock, mockDB := newMockPostgres(t)
		defer mockDB.Close()

		mock.ExpectExec(`UPDATE "commissions" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT count\(\*\) FROM "commissions" WHERE id = \$1`).
			WithArgs(c.ID).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		err := NewGormCommissionRepository(db).SaveWithLock(context.Background(), c)
		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("zero rows on a missing row is not found", func(t *testing.T) {
		db, mock, mockDB := newMockPostgres(t)
		defer mockDB.Close()

		mock.ExpectExec(`UPDATE "commissions" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT count\(\*\) FROM "commissions"`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		err := NewGormCommissionRepository(db).SaveWithLock(context.Background(), c)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestNextCode_SQL(t *testing.T) {
	t.Run("continues after the highest code", func(t *testing.T) {
		db, mock, mockDB := newMockPostgres(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT MAX\(code\) FROM "loans" WHERE code LIKE \$1`).
			WithArgs("LN-202603-%").
			WillReturnRows(sqlmock.NewRows([]string{"max"}).AddRow("LN-202603-00041"))

		code, err := NewGormLoanRepository(db).NextCode(context.Background(), march(31))
		require.NoError(t, err)
		assert.Equal(t, "LN-202603-00042", code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("first code of the month", func(t *testing.T) {
		db, mock, mockDB := newMockPostgres(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT MAX\(code\) FROM "loans"`).
			WillReturnRows(sqlmock.NewRows([]string{"max"}).AddRow(nil))

		code, err := NewGormLoanRepository(db).NextCode(context.Background(), march(1))
		require.NoError(t, err)
		assert.Equal(t, "LN-202603-00001", code)
	})
}

func TestFindByLoanIDForUpdate_SQL(t *testing.T) {
	db, mock, mockDB := newMockPostgres(t)
	defer mockDB.Close()

	l := newLoanFixture(t, "LN-202603-00001", march(10), "1000.00")
	mock.ExpectQuery(`SELECT \* FROM "commissions" WHERE loan_id = \$1 .*FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := NewGormCommissionRepository(db).FindByLoanIDForUpdate(context.Background(), l.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindAll_CommissionSQL(t *testing.T) {
	db, mock, mockDB := newMockPostgres(t)
	defer mockDB.Close()

	status := commission.StatusOpen
	mock.ExpectQuery(`SELECT \* FROM "commissions" WHERE status = \$1 ORDER BY created_at ASC, id ASC LIMIT \$2`).
		WithArgs(status, 1000).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := NewGormCommissionRepository(db).FindAll(context.Background(), commission.Filter{
		Filter: shared.Filter{Page: 1, PageSize: 1000, OrderBy: "created_at", OrderDir: "asc"},
		Status: &status,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
