package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSortOrder(t *testing.T) {
	for input, want := range map[string]string{
		"":                         "DESC",
		"asc":                      "ASC",
		"  ASC ":                   "ASC",
		"desc":                     "DESC",
		"sideways":                 "DESC",
		"ASC; DROP TABLE loans;--": "DESC",
	} {
		assert.Equal(t, want, ValidateSortOrder(input), "input %q", input)
	}
}

func TestValidateSortField(t *testing.T) {
	assert.Equal(t, "start_date", ValidateSortField(" start_date ", LoanSortFields, "created_at"))
	assert.Equal(t, "created_at", ValidateSortField("", LoanSortFields, "created_at"))
	assert.Equal(t, "created_at", ValidateSortField("seller_id", LoanSortFields, "created_at"))
	assert.Equal(t, "created_at", ValidateSortField("code; DELETE FROM loans", LoanSortFields, "created_at"))
	assert.Equal(t, "period", ValidateSortField("period", CommissionSortFields, "created_at"))
	assert.Equal(t, "date", ValidateSortField("posting_key", FinancialTransactionSortFields, "date"))
}

func TestOrderClause(t *testing.T) {
	tests := []struct {
		name    string
		orderBy string
		dir     string
		allowed map[string]bool
		want    string
	}{
		{"id tie breaker follows direction", "start_date", "asc", LoanSortFields, "start_date ASC, id ASC"},
		{"unknown field falls back", "borrower", "asc", LoanSortFields, "created_at ASC, id ASC"},
		{"sorting by id needs no tie breaker", "id", "", CommissionSortFields, "id DESC"},
		{"ledger amount", "amount", "desc", FinancialTransactionSortFields, "amount DESC, id DESC"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, orderClause(tt.orderBy, tt.dir, tt.allowed, "created_at"))
		})
	}
}
