package settlement

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lendingdesk/backend/internal/domain/commission"
	"github.com/lendingdesk/backend/internal/domain/loan"
	"github.com/lendingdesk/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var (
	testRequester = shared.Requester{UserID: uuid.New(), IP: "192.168.0.10"}
	fixedNow      = time.Date(2026, 3, 15, 14, 30, 0, 0, time.UTC)
)

func newTestLoan(t *testing.T, net string) *loan.Loan {
	t.Helper()
	l, err := loan.NewLoan("LN-202603-00001", loan.Fields{
		StartDate:        time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		Term:             24,
		InstallmentValue: decimal.RequireFromString("520.00"),
		GrossValue:       decimal.RequireFromString("12000.00"),
		NetValue:         decimal.RequireFromString(net),
		CustomerID:       uuid.New(),
		SellerID:         uuid.New(),
	}, "", testRequester)
	require.NoError(t, err)
	l.PullDomainEvents()
	return l
}

func newTestCommission(t *testing.T, l *loan.Loan, typ commission.Type, reference string) *commission.Commission {
	t.Helper()
	c, err := commission.NewCommission(commission.OpenInput{
		LoanID:    l.ID,
		SellerID:  l.SellerID,
		BaseValue: l.NetValue,
		Type:      typ,
		Reference: decimal.RequireFromString(reference),
		Period:    "03/2026",
	}, testRequester)
	require.NoError(t, err)
	c.PullDomainEvents()
	return c
}

func newCommissionServiceForTest(r *testRepos, pub shared.EventPublisher) *CommissionService {
	svc := NewCommissionService(r.uow, r.repositories(), NewLedgerPoster(zap.NewNop()), pub, zap.NewNop())
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func newLoanServiceForTest(r *testRepos, pub shared.EventPublisher) *LoanService {
	commissions := newCommissionServiceForTest(r, pub)
	svc := NewLoanService(r.uow, r.repositories(), commissions, NewLedgerPoster(zap.NewNop()), pub, zap.NewNop(), DefaultLoanServiceConfig())
	svc.now = func() time.Time { return fixedNow }
	return svc
}
