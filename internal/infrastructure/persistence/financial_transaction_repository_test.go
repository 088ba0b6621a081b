package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lendingdesk/backend/internal/domain/ledger"
	"github.com/lendingdesk/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPosting(t *testing.T, origin uuid.UUID, dir ledger.Direction, cat ledger.Category, amount string, date time.Time) *ledger.FinancialTransaction {
	t.Helper()
	tx, err := ledger.NewFinancialTransaction(ledger.Posting{
		Date:        date,
		Amount:      decimal.RequireFromString(amount),
		Direction:   dir,
		Category:    cat,
		Description: "test posting",
		OriginID:    &origin,
	}, testRequester)
	require.NoError(t, err)
	tx.PullDomainEvents()
	return tx
}

func TestGormFinancialTransactionRepository_Create(t *testing.T) {
	db := setupSettlementTestDB(t)
	repo := NewGormFinancialTransactionRepository(db)
	ctx := context.Background()
	loanID := uuid.New()

	tx := newPosting(t, loanID, ledger.DirectionIn, ledger.CategoryLoan, "9000.00", march(10))
	require.NoError(t, repo.Create(ctx, tx))

	found, err := repo.FindByID(ctx, tx.ID)
	require.NoError(t, err)
	assert.Equal(t, ledger.PostingKey(ledger.CategoryLoan, loanID), found.PostingKey)
	assert.Equal(t, ledger.DirectionIn, found.Direction)
	require.NotNil(t, found.OriginID)
	assert.Equal(t, loanID, *found.OriginID)

	t.Run("same posting key is a duplicate", func(t *testing.T) {
		again := newPosting(t, loanID, ledger.DirectionIn, ledger.CategoryLoan, "9000.00", march(11))
		assert.ErrorIs(t, repo.Create(ctx, again), shared.ErrDuplicatePosting)
	})

	t.Run("posting key lookup", func(t *testing.T) {
		exists, err := repo.ExistsByPostingKey(ctx, tx.PostingKey)
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.ExistsByPostingKey(ctx, ledger.PostingKey(ledger.CategoryCommission, loanID))
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("count by origin", func(t *testing.T) {
		count, err := repo.CountByOrigin(ctx, loanID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)

		count, err = repo.CountByOrigin(ctx, uuid.New())
		require.NoError(t, err)
		assert.Zero(t, count)
	})
}

func TestGormFinancialTransactionRepository_Query(t *testing.T) {
	db := setupSettlementTestDB(t)
	repo := NewGormFinancialTransactionRepository(db)
	ctx := context.Background()

	loanA, loanB := uuid.New(), uuid.New()
	rows := []*ledger.FinancialTransaction{
		newPosting(t, loanA, ledger.DirectionIn, ledger.CategoryLoan, "1000.00", march(5)),
		newPosting(t, loanA, ledger.DirectionOut, ledger.CategoryCommission, "250.50", march(6)),
		newPosting(t, loanB, ledger.DirectionOut, ledger.CategoryCommission, "100.25", march(20)),
		newPosting(t, loanB, ledger.DirectionIn, ledger.CategoryLoan, "4000.00", march(10).AddDate(0, 1, 0)),
	}
	for _, r := range rows {
		require.NoError(t, repo.Create(ctx, r))
	}

	from, to := march(1), march(1).AddDate(0, 1, 0)
	marchOnly := ledger.Filter{From: &from, To: &to}

	t.Run("summary over a date range", func(t *testing.T) {
		summary, err := repo.Summarize(ctx, marchOnly)
		require.NoError(t, err)
		assert.True(t, summary.TotalIn.Equal(decimal.RequireFromString("1000")), summary.TotalIn.String())
		assert.True(t, summary.TotalOut.Equal(decimal.RequireFromString("350.75")), summary.TotalOut.String())
		assert.True(t, summary.Balance.Equal(decimal.RequireFromString("649.25")), summary.Balance.String())
		assert.Equal(t, int64(3), summary.Count)
	})

	t.Run("empty summary is zero", func(t *testing.T) {
		origin := uuid.New()
		summary, err := repo.Summarize(ctx, ledger.Filter{OriginID: &origin})
		require.NoError(t, err)
		assert.True(t, summary.Balance.IsZero())
		assert.Zero(t, summary.Count)
	})

	t.Run("direction filter sorted by date desc", func(t *testing.T) {
		out := ledger.DirectionOut
		found, err := repo.FindAll(ctx, ledger.Filter{
			Filter:    shared.Filter{Page: 1, PageSize: 10, OrderBy: "date", OrderDir: "desc"},
			Direction: &out,
		})
		require.NoError(t, err)
		require.Len(t, found, 2)
		assert.Equal(t, rows[2].ID, found[0].ID)
		assert.Equal(t, rows[1].ID, found[1].ID)
	})

	t.Run("category and origin filters", func(t *testing.T) {
		cat := ledger.CategoryLoan
		count, err := repo.Count(ctx, ledger.Filter{Category: &cat, OriginID: &loanB})
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})
}
