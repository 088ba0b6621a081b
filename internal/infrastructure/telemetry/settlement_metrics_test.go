package telemetry

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lendingdesk/backend/internal/domain/commission"
	"github.com/lendingdesk/backend/internal/domain/ledger"
	"github.com/lendingdesk/backend/internal/domain/loan"
	"github.com/lendingdesk/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	_ "gorm.io/driver/sqlite"
)

func newManualMeter(t *testing.T) (*sdkmetric.ManualReader, *sdkmetric.MeterProvider) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })
	return reader, provider
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	out := make(map[string]metricdata.Metrics)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func sumInt(t *testing.T, m metricdata.Metrics) int64 {
	t.Helper()
	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok, "metric %s is not an int64 sum", m.Name)
	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	return total
}

func commissionDate() time.Time {
	return time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
}

func TestSettlementMetrics_NilMeter(t *testing.T) {
	_, err := NewSettlementMetrics(nil)
	assert.ErrorIs(t, err, ErrMeterNil)
}

func TestSettlementMetrics_Handle(t *testing.T) {
	reader, provider := newManualMeter(t)
	m, err := NewSettlementMetrics(provider.Meter("test"))
	require.NoError(t, err)

	ctx := context.Background()
	requester := shared.Requester{UserID: uuid.New()}

	l, err := loan.NewLoan("LN-202603-00001", loan.Fields{
		StartDate:        commissionDate(),
		Term:             12,
		InstallmentValue: decimal.NewFromInt(100),
		GrossValue:       decimal.NewFromInt(1200),
		NetValue:         decimal.NewFromInt(1000),
		CustomerID:       uuid.New(),
		SellerID:         uuid.New(),
	}, "", requester)
	require.NoError(t, err)
	require.NoError(t, l.ChangeStatus(loan.StatusFinalized, requester))

	c, err := commission.NewCommission(commission.OpenInput{
		LoanID:    l.ID,
		SellerID:  l.SellerID,
		BaseValue: l.NetValue,
		Type:      commission.TypePercentage,
		Reference: decimal.NewFromInt(2),
		Period:    "03/2026",
	}, requester)
	require.NoError(t, err)
	require.NoError(t, c.Approve(commissionDate(), requester))

	loanID := l.ID
	tx, err := ledger.NewFinancialTransaction(ledger.Posting{
		Date:        commissionDate(),
		Amount:      c.CalculatedAmount,
		Direction:   ledger.DirectionOut,
		Category:    ledger.CategoryCommission,
		Description: "Commission payout",
		OriginID:    &loanID,
	}, requester)
	require.NoError(t, err)

	var events []shared.DomainEvent
	events = append(events, l.GetDomainEvents()...)
	events = append(events, c.GetDomainEvents()...)
	events = append(events, tx.GetDomainEvents()...)
	for _, e := range events {
		require.NoError(t, m.Handle(ctx, e))
	}

	got := collect(t, reader)
	assert.Equal(t, int64(1), sumInt(t, got["lendingdesk_loans_created_total"]))
	assert.Equal(t, int64(1), sumInt(t, got["lendingdesk_loan_status_changes_total"]))
	assert.Equal(t, int64(2), sumInt(t, got["lendingdesk_commission_transitions_total"]))
	assert.Equal(t, int64(1), sumInt(t, got["lendingdesk_ledger_postings_total"]))

	amount, ok := got["lendingdesk_ledger_amount_total"].Data.(metricdata.Sum[float64])
	require.True(t, ok)
	require.Len(t, amount.DataPoints, 1)
	assert.InDelta(t, 20.0, amount.DataPoints[0].Value, 0.001)
}

func TestSettlementMetrics_EventTypes(t *testing.T) {
	_, provider := newManualMeter(t)
	m, err := NewSettlementMetrics(provider.Meter("test"))
	require.NoError(t, err)

	assert.Contains(t, m.EventTypes(), ledger.EventTypeLedgerEntryPosted)
	assert.NotContains(t, m.EventTypes(), loan.EventTypeLoanDeleted)
}

func TestRegisterDBPoolMetrics(t *testing.T) {
	reader, provider := newManualMeter(t)

	sqlDB, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	defer sqlDB.Close()
	sqlDB.SetMaxOpenConns(3)

	reg, err := RegisterDBPoolMetrics(provider.Meter("test"), sqlDB)
	require.NoError(t, err)
	defer func() { _ = reg.Unregister() }()

	got := collect(t, reader)
	maxOpen, ok := got["lendingdesk_db_pool_connections_max"].Data.(metricdata.Gauge[int64])
	require.True(t, ok)
	require.Len(t, maxOpen.DataPoints, 1)
	assert.Equal(t, int64(3), maxOpen.DataPoints[0].Value)

	conns, ok := got["lendingdesk_db_pool_connections"].Data.(metricdata.Gauge[int64])
	require.True(t, ok)
	assert.Len(t, conns.DataPoints, 2)
}
