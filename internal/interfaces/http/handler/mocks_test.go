package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lendingdesk/backend/internal/application/settlement"
	"github.com/lendingdesk/backend/internal/domain/ledger"
	"github.com/lendingdesk/backend/internal/domain/shared"
	"github.com/lendingdesk/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testRequester = shared.Requester{UserID: uuid.MustParse("7f1c2b7e-4a36-4c4b-9c77-0d8f5f6f4a10"), IP: "192.0.2.1"}

// newTestRouter mounts routes behind a stub that plays the requester middleware
func newTestRouter(register func(r *gin.RouterGroup)) *gin.Engine {
	engine := gin.New()
	group := engine.Group("/api/v1", func(c *gin.Context) {
		c.Set(middleware.RequestIDKey, "test-req")
		c.Set(middleware.RequesterKey, testRequester)
		c.Next()
	})
	register(group)
	return engine
}

func doJSON(t *testing.T, engine *gin.Engine, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func doRaw(engine *gin.Engine, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

type MockLoanService struct {
	mock.Mock
}

func (m *MockLoanService) Create(ctx context.Context, req settlement.CreateLoanRequest, requester shared.Requester) (*settlement.LoanResponse, error) {
	args := m.Called(ctx, req, requester)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*settlement.LoanResponse), args.Error(1)
}

func (m *MockLoanService) UpdateStatus(ctx context.Context, id uuid.UUID, req settlement.UpdateLoanStatusRequest, requester shared.Requester) (*settlement.LoanResponse, error) {
	args := m.Called(ctx, id, req, requester)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*settlement.LoanResponse), args.Error(1)
}

func (m *MockLoanService) Update(ctx context.Context, id uuid.UUID, req settlement.UpdateLoanRequest, requester shared.Requester) (*settlement.LoanResponse, error) {
	args := m.Called(ctx, id, req, requester)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*settlement.LoanResponse), args.Error(1)
}

func (m *MockLoanService) Remove(ctx context.Context, id uuid.UUID, requester shared.Requester) error {
	args := m.Called(ctx, id, requester)
	return args.Error(0)
}

func (m *MockLoanService) Get(ctx context.Context, id uuid.UUID) (*settlement.LoanResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*settlement.LoanResponse), args.Error(1)
}

func (m *MockLoanService) List(ctx context.Context, filter settlement.LoanListFilter) (shared.Paginated[settlement.LoanResponse], error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(shared.Paginated[settlement.LoanResponse]), args.Error(1)
}

type MockCommissionService struct {
	mock.Mock
}

func (m *MockCommissionService) commissionResult(args mock.Arguments) (*settlement.CommissionResponse, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*settlement.CommissionResponse), args.Error(1)
}

func (m *MockCommissionService) Open(ctx context.Context, req settlement.OpenCommissionRequest, requester shared.Requester) (*settlement.CommissionResponse, error) {
	return m.commissionResult(m.Called(ctx, req, requester))
}

func (m *MockCommissionService) Approve(ctx context.Context, id uuid.UUID, requester shared.Requester) (*settlement.CommissionResponse, error) {
	return m.commissionResult(m.Called(ctx, id, requester))
}

func (m *MockCommissionService) Cancel(ctx context.Context, id uuid.UUID, requester shared.Requester) (*settlement.CommissionResponse, error) {
	return m.commissionResult(m.Called(ctx, id, requester))
}

func (m *MockCommissionService) Edit(ctx context.Context, id uuid.UUID, req settlement.EditCommissionRequest, requester shared.Requester) (*settlement.CommissionResponse, error) {
	return m.commissionResult(m.Called(ctx, id, req, requester))
}

func (m *MockCommissionService) GenerateAndApprove(ctx context.Context, req settlement.GenerateAndApproveRequest, requester shared.Requester) (*settlement.CommissionResponse, error) {
	return m.commissionResult(m.Called(ctx, req, requester))
}

func (m *MockCommissionService) Get(ctx context.Context, id uuid.UUID) (*settlement.CommissionResponse, error) {
	return m.commissionResult(m.Called(ctx, id))
}

type MockPendingLister struct {
	mock.Mock
}

func (m *MockPendingLister) List(ctx context.Context, filter settlement.PendingCommissionFilter) ([]settlement.CommissionListItem, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]settlement.CommissionListItem), args.Error(1)
}

type MockLedgerQuerier struct {
	mock.Mock
}

func (m *MockLedgerQuerier) ListTransactions(ctx context.Context, filter settlement.TransactionListFilter) (shared.Paginated[settlement.FinancialTransactionResponse], error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(shared.Paginated[settlement.FinancialTransactionResponse]), args.Error(1)
}

func (m *MockLedgerQuerier) Summary(ctx context.Context, filter settlement.TransactionListFilter) (ledger.Summary, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(ledger.Summary), args.Error(1)
}
