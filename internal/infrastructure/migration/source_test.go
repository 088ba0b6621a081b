package migration

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/lendingdesk/backend/migrations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrations(t *testing.T) {
	src, err := iofs.New(migrations.FS, ".")
	require.NoError(t, err)
	defer src.Close()

	first, err := src.First()
	require.NoError(t, err)
	assert.Equal(t, uint(1), first)

	versions := []uint{first}
	for v := first; ; {
		next, err := src.Next(v)
		if err != nil {
			break
		}
		versions = append(versions, next)
		v = next
	}
	assert.Equal(t, []uint{1, 2, 3, 4}, versions)

	for _, v := range versions {
		_, _, err := src.ReadUp(v)
		assert.NoError(t, err, "up migration %d", v)
		_, _, err = src.ReadDown(v)
		assert.NoError(t, err, "down migration %d", v)
	}
}

func TestEmbeddedMigrations_Schema(t *testing.T) {
	up, err := fs.ReadFile(migrations.FS, "000002_create_commissions.up.sql")
	require.NoError(t, err)
	sql := string(up)
	assert.True(t, strings.Contains(sql, "REFERENCES loans (id) ON DELETE RESTRICT"))
	assert.True(t, strings.Contains(sql, "idx_commissions_loan ON commissions (loan_id)"))

	up, err = fs.ReadFile(migrations.FS, "000003_create_financial_transactions.up.sql")
	require.NoError(t, err)
	assert.Contains(t, string(up), "idx_financial_transactions_posting_key ON financial_transactions (posting_key)")
}
