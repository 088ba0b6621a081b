package settlement

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lendingdesk/backend/internal/domain/audit"
	"github.com/lendingdesk/backend/internal/domain/commission"
	"github.com/lendingdesk/backend/internal/domain/ledger"
	"github.com/lendingdesk/backend/internal/domain/loan"
	"github.com/lendingdesk/backend/internal/domain/settlement"
	"github.com/lendingdesk/backend/internal/domain/shared"
	"github.com/stretchr/testify/mock"
)

// MockLoanRepository is a mock implementation of loan.Repository
type MockLoanRepository struct {
	mock.Mock
}

func (m *MockLoanRepository) FindByID(ctx context.Context, id uuid.UUID) (*loan.Loan, error) {
	args := m.Called(ctx, id)
	if fn, ok := args.Get(0).(func(context.Context, uuid.UUID) *loan.Loan); ok {
		return fn(ctx, id), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*loan.Loan), args.Error(1)
}

func (m *MockLoanRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]loan.Loan, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]loan.Loan), args.Error(1)
}

func (m *MockLoanRepository) FindAll(ctx context.Context, filter loan.Filter) ([]loan.Loan, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]loan.Loan), args.Error(1)
}

func (m *MockLoanRepository) Count(ctx context.Context, filter loan.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLoanRepository) FindWithoutCommission(ctx context.Context, filter loan.Filter) ([]loan.Loan, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]loan.Loan), args.Error(1)
}

func (m *MockLoanRepository) Create(ctx context.Context, l *loan.Loan) error {
	args := m.Called(ctx, l)
	return args.Error(0)
}

func (m *MockLoanRepository) SaveWithLock(ctx context.Context, l *loan.Loan) error {
	args := m.Called(ctx, l)
	return args.Error(0)
}

func (m *MockLoanRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockLoanRepository) NextCode(ctx context.Context, at time.Time) (string, error) {
	args := m.Called(ctx, at)
	return args.String(0), args.Error(1)
}

// MockCommissionRepository is a mock implementation of commission.Repository
type MockCommissionRepository struct {
	mock.Mock
}

func (m *MockCommissionRepository) FindByID(ctx context.Context, id uuid.UUID) (*commission.Commission, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*commission.Commission), args.Error(1)
}

func (m *MockCommissionRepository) FindByLoanID(ctx context.Context, loanID uuid.UUID) (*commission.Commission, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*commission.Commission), args.Error(1)
}

func (m *MockCommissionRepository) FindByLoanIDForUpdate(ctx context.Context, loanID uuid.UUID) (*commission.Commission, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*commission.Commission), args.Error(1)
}

func (m *MockCommissionRepository) ExistsByLoanID(ctx context.Context, loanID uuid.UUID) (bool, error) {
	args := m.Called(ctx, loanID)
	return args.Bool(0), args.Error(1)
}

func (m *MockCommissionRepository) FindAll(ctx context.Context, filter commission.Filter) ([]commission.Commission, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]commission.Commission), args.Error(1)
}

func (m *MockCommissionRepository) Count(ctx context.Context, filter commission.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCommissionRepository) Create(ctx context.Context, c *commission.Commission) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCommissionRepository) SaveWithLock(ctx context.Context, c *commission.Commission) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

// MockLedgerRepository is a mock implementation of ledger.Repository
type MockLedgerRepository struct {
	mock.Mock
}

func (m *MockLedgerRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.FinancialTransaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.FinancialTransaction), args.Error(1)
}

func (m *MockLedgerRepository) FindAll(ctx context.Context, filter ledger.Filter) ([]ledger.FinancialTransaction, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]ledger.FinancialTransaction), args.Error(1)
}

func (m *MockLedgerRepository) Count(ctx context.Context, filter ledger.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLedgerRepository) Create(ctx context.Context, t *ledger.FinancialTransaction) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockLedgerRepository) ExistsByPostingKey(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *MockLedgerRepository) CountByOrigin(ctx context.Context, originID uuid.UUID) (int64, error) {
	args := m.Called(ctx, originID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLedgerRepository) Summarize(ctx context.Context, filter ledger.Filter) (ledger.Summary, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(ledger.Summary), args.Error(1)
}

// MockAuditRepository is a mock implementation of audit.Repository
type MockAuditRepository struct {
	mock.Mock
}

func (m *MockAuditRepository) Append(ctx context.Context, entry *audit.Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

// MockEventPublisher is a mock implementation of shared.EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

// recordingPublisher keeps every published event
type recordingPublisher struct {
	events []shared.DomainEvent
}

func (p *recordingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.events = append(p.events, events...)
	return nil
}

func (p *recordingPublisher) types() []string {
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.EventType()
	}
	return out
}

// fakeUnitOfWork runs fn against fixed repositories and counts commits
type fakeUnitOfWork struct {
	repos     settlement.Repositories
	commits   int
	rollbacks int
}

func (u *fakeUnitOfWork) Do(ctx context.Context, fn func(ctx context.Context, repos settlement.Repositories) error) error {
	if err := fn(ctx, u.repos); err != nil {
		u.rollbacks++
		return err
	}
	u.commits++
	return nil
}

type testRepos struct {
	loans       *MockLoanRepository
	commissions *MockCommissionRepository
	ledger      *MockLedgerRepository
	uow         *fakeUnitOfWork
}

func newTestRepos() *testRepos {
	r := &testRepos{
		loans:       new(MockLoanRepository),
		commissions: new(MockCommissionRepository),
		ledger:      new(MockLedgerRepository),
	}
	r.uow = &fakeUnitOfWork{repos: r.repositories()}
	return r
}

func (r *testRepos) repositories() settlement.Repositories {
	return settlement.Repositories{
		Loans:        r.loans,
		Commissions:  r.commissions,
		Transactions: r.ledger,
	}
}

func (r *testRepos) assertExpectations(t mock.TestingT) {
	r.loans.AssertExpectations(t)
	r.commissions.AssertExpectations(t)
	r.ledger.AssertExpectations(t)
}
