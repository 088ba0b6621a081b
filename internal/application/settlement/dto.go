package settlement

import (
	"time"

	"github.com/google/uuid"
	"github.com/lendingdesk/backend/internal/domain/commission"
	"github.com/lendingdesk/backend/internal/domain/ledger"
	"github.com/lendingdesk/backend/internal/domain/loan"
	"github.com/shopspring/decimal"
)

// ===================== Loan =====================

// LoanResponse represents a loan in API responses
type LoanResponse struct {
	ID               uuid.UUID           `json:"id"`
	Code             string              `json:"code"`
	StartDate        time.Time           `json:"start_date"`
	Term             int                 `json:"term"`
	InstallmentValue decimal.Decimal     `json:"installment_value"`
	GrossValue       decimal.Decimal     `json:"gross_value"`
	NetValue         decimal.Decimal     `json:"net_value"`
	Status           string              `json:"status"`
	Note             string              `json:"note,omitempty"`
	CustomerID       uuid.UUID           `json:"customer_id"`
	SellerID         uuid.UUID           `json:"seller_id"`
	OrganID          *uuid.UUID          `json:"organ_id,omitempty"`
	BankID           *uuid.UUID          `json:"bank_id,omitempty"`
	ProductTypeID    *uuid.UUID          `json:"product_type_id,omitempty"`
	GroupID          *uuid.UUID          `json:"group_id,omitempty"`
	RateTableID      *uuid.UUID          `json:"rate_table_id,omitempty"`
	Commission       *CommissionResponse `json:"commission,omitempty"`
	CreatedAt        time.Time           `json:"created_at"`
	UpdatedAt        time.Time           `json:"updated_at"`
	Version          int                 `json:"version"`
}

// CreateLoanRequest represents a request to register a loan
type CreateLoanRequest struct {
	StartDate              time.Time       `json:"start_date" binding:"required"`
	Term                   int             `json:"term" binding:"required,gt=0"`
	InstallmentValue       decimal.Decimal `json:"installment_value" binding:"required"`
	GrossValue             decimal.Decimal `json:"gross_value" binding:"required"`
	NetValue               decimal.Decimal `json:"net_value" binding:"required"`
	Status                 string          `json:"status" binding:"omitempty,oneof=ACTIVE FINALIZED CANCELED LATE"`
	Note                   string          `json:"note" binding:"max=2000"`
	CustomerID             uuid.UUID       `json:"customer_id" binding:"required"`
	SellerID               uuid.UUID       `json:"seller_id" binding:"required"`
	OrganID                *uuid.UUID      `json:"organ_id"`
	BankID                 *uuid.UUID      `json:"bank_id"`
	ProductTypeID          *uuid.UUID      `json:"product_type_id"`
	GroupID                *uuid.UUID      `json:"group_id"`
	RateTableID            *uuid.UUID      `json:"rate_table_id"`
	AutoGenerateCommission bool            `json:"auto_generate_commission"`
}

// UpdateLoanRequest is a partial edit; omitted fields stay unchanged
type UpdateLoanRequest struct {
	StartDate        *time.Time       `json:"start_date"`
	Term             *int             `json:"term" binding:"omitempty,gt=0"`
	InstallmentValue *decimal.Decimal `json:"installment_value"`
	GrossValue       *decimal.Decimal `json:"gross_value"`
	NetValue         *decimal.Decimal `json:"net_value"`
	Note             *string          `json:"note" binding:"omitempty,max=2000"`
	CustomerID       *uuid.UUID       `json:"customer_id"`
	SellerID         *uuid.UUID       `json:"seller_id"`
	OrganID          *uuid.UUID       `json:"organ_id"`
	BankID           *uuid.UUID       `json:"bank_id"`
	ProductTypeID    *uuid.UUID       `json:"product_type_id"`
	GroupID          *uuid.UUID       `json:"group_id"`
	RateTableID      *uuid.UUID       `json:"rate_table_id"`
}

// UpdateLoanStatusRequest represents a loan status transition
type UpdateLoanStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=ACTIVE FINALIZED CANCELED LATE"`
}

// LoanListFilter defines filtering options for loan list queries
type LoanListFilter struct {
	Search     string     `form:"search"`
	Status     string     `form:"status" binding:"omitempty,oneof=ACTIVE FINALIZED CANCELED LATE"`
	SellerID   *uuid.UUID `form:"seller_id"`
	CustomerID *uuid.UUID `form:"customer_id"`
	Page       int        `form:"page"`
	PageSize   int        `form:"page_size"`
}

func (r CreateLoanRequest) fields() loan.Fields {
	return loan.Fields{
		StartDate:        r.StartDate,
		Term:             r.Term,
		InstallmentValue: r.InstallmentValue,
		GrossValue:       r.GrossValue,
		NetValue:         r.NetValue,
		Note:             r.Note,
		CustomerID:       r.CustomerID,
		SellerID:         r.SellerID,
		OrganID:          r.OrganID,
		BankID:           r.BankID,
		ProductTypeID:    r.ProductTypeID,
		GroupID:          r.GroupID,
		RateTableID:      r.RateTableID,
	}
}

func (r UpdateLoanRequest) changes() loan.Changes {
	return loan.Changes{
		StartDate:        r.StartDate,
		Term:             r.Term,
		InstallmentValue: r.InstallmentValue,
		GrossValue:       r.GrossValue,
		NetValue:         r.NetValue,
		Note:             r.Note,
		CustomerID:       r.CustomerID,
		SellerID:         r.SellerID,
		OrganID:          r.OrganID,
		BankID:           r.BankID,
		ProductTypeID:    r.ProductTypeID,
		GroupID:          r.GroupID,
		RateTableID:      r.RateTableID,
	}
}

func toLoanResponse(l *loan.Loan) *LoanResponse {
	return &LoanResponse{
		ID:               l.ID,
		Code:             l.Code,
		StartDate:        l.StartDate,
		Term:             l.Term,
		InstallmentValue: l.InstallmentValue,
		GrossValue:       l.GrossValue,
		NetValue:         l.NetValue,
		Status:           l.Status.String(),
		Note:             l.Note,
		CustomerID:       l.CustomerID,
		SellerID:         l.SellerID,
		OrganID:          l.OrganID,
		BankID:           l.BankID,
		ProductTypeID:    l.ProductTypeID,
		GroupID:          l.GroupID,
		RateTableID:      l.RateTableID,
		CreatedAt:        l.CreatedAt,
		UpdatedAt:        l.UpdatedAt,
		Version:          l.Version,
	}
}

// ===================== Commission =====================

// CommissionResponse represents a commission in API responses
type CommissionResponse struct {
	ID               uuid.UUID       `json:"id"`
	LoanID           uuid.UUID       `json:"loan_id"`
	SellerID         uuid.UUID       `json:"seller_id"`
	Period           string          `json:"period"`
	Type             string          `json:"type"`
	Reference        decimal.Decimal `json:"reference"`
	BaseValue        decimal.Decimal `json:"base_value"`
	CalculatedAmount decimal.Decimal `json:"calculated_amount"`
	Status           string          `json:"status"`
	ApprovedAt       *time.Time      `json:"approved_at,omitempty"`
	CanceledAt       *time.Time      `json:"canceled_at,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
	Version          int             `json:"version"`
}

// OpenCommissionRequest opens a commission manually. BaseValue and SellerID
// default to the loan's net value and seller.
type OpenCommissionRequest struct {
	LoanID    uuid.UUID        `json:"loan_id" binding:"required"`
	SellerID  *uuid.UUID       `json:"seller_id"`
	BaseValue *decimal.Decimal `json:"base_value"`
	Type      string           `json:"type" binding:"required,oneof=PERCENTAGE FIXED_AMOUNT"`
	Reference decimal.Decimal  `json:"reference" binding:"required"`
	Period    string           `json:"period" binding:"required,period"`
}

// Commission actions accepted by PATCH /commissions/:id
const (
	CommissionActionApprove = "APPROVE"
	CommissionActionCancel  = "CANCEL"
)

// UpdateCommissionRequest either triggers a lifecycle action or edits the plan
type UpdateCommissionRequest struct {
	Action    string           `json:"action" binding:"omitempty,oneof=APPROVE CANCEL"`
	Type      string           `json:"type" binding:"omitempty,oneof=PERCENTAGE FIXED_AMOUNT"`
	Reference *decimal.Decimal `json:"reference"`
	Period    string           `json:"period" binding:"omitempty,period"`
}

// EditCommissionRequest changes the plan of a commission
type EditCommissionRequest struct {
	Type      string          `json:"type" binding:"required,oneof=PERCENTAGE FIXED_AMOUNT"`
	Reference decimal.Decimal `json:"reference" binding:"required"`
	Period    string          `json:"period" binding:"omitempty,period"`
}

// GenerateAndApproveRequest turns a pending item into an approved commission in one step
type GenerateAndApproveRequest struct {
	LoanID    uuid.UUID       `json:"loan_id" binding:"required"`
	Type      string          `json:"type" binding:"required,oneof=PERCENTAGE FIXED_AMOUNT"`
	Reference decimal.Decimal `json:"reference" binding:"required"`
	Period    string          `json:"period" binding:"omitempty,period"`
}

func toCommissionResponse(c *commission.Commission) *CommissionResponse {
	return &CommissionResponse{
		ID:               c.ID,
		LoanID:           c.LoanID,
		SellerID:         c.SellerID,
		Period:           c.Period.String(),
		Type:             c.Type.String(),
		Reference:        c.Reference,
		BaseValue:        c.BaseValue,
		CalculatedAmount: c.CalculatedAmount,
		Status:           c.Status.String(),
		ApprovedAt:       c.ApprovedAt,
		CanceledAt:       c.CanceledAt,
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
		Version:          c.Version,
	}
}

// ===================== Pending view =====================

// PendingCommissionFilter selects the rows of the approval screen
type PendingCommissionFilter struct {
	SellerID *uuid.UUID `form:"seller_id"`
	Period   string     `form:"period" binding:"omitempty,period"`
	Status   string     `form:"status" binding:"omitempty,oneof=OPEN APPROVED CANCELED PENDING_GENERATION"`
}

// CommissionListItem is one row of the approval screen. CommissionID is nil
// for loans whose commission was never generated.
type CommissionListItem struct {
	CommissionID     *uuid.UUID      `json:"commission_id,omitempty"`
	LoanID           uuid.UUID       `json:"loan_id"`
	LoanCode         string          `json:"loan_code"`
	CustomerID       uuid.UUID       `json:"customer_id"`
	SellerID         uuid.UUID       `json:"seller_id"`
	LoanNetValue     decimal.Decimal `json:"loan_net_value"`
	LoanStartDate    time.Time       `json:"loan_start_date"`
	Period           string          `json:"period"`
	Type             string          `json:"type,omitempty"`
	Reference        decimal.Decimal `json:"reference"`
	CalculatedAmount decimal.Decimal `json:"calculated_amount"`
	Status           string          `json:"status"`
	ApprovedAt       *time.Time      `json:"approved_at,omitempty"`
}

// ===================== Ledger =====================

// FinancialTransactionResponse represents a ledger row in API responses
type FinancialTransactionResponse struct {
	ID             uuid.UUID       `json:"id"`
	Date           time.Time       `json:"date"`
	Amount         decimal.Decimal `json:"amount"`
	Direction      string          `json:"direction"`
	Category       string          `json:"category"`
	Description    string          `json:"description"`
	OriginID       *uuid.UUID      `json:"origin_id,omitempty"`
	SettlementDate *time.Time      `json:"settlement_date,omitempty"`
	ReceiptRef     string          `json:"receipt_ref,omitempty"`
	PostingKey     string          `json:"posting_key"`
	CreatedAt      time.Time       `json:"created_at"`
}

// TransactionListFilter defines filtering options for ledger queries
type TransactionListFilter struct {
	Category  string     `form:"category" binding:"omitempty,oneof=LOAN COMMISSION FIXED_EXPENSE VARIABLE_EXPENSE OTHER"`
	Direction string     `form:"direction" binding:"omitempty,oneof=IN OUT"`
	OriginID  *uuid.UUID `form:"origin_id"`
	FromDate  *time.Time `form:"from_date" time_format:"2006-01-02"`
	ToDate    *time.Time `form:"to_date" time_format:"2006-01-02"`
	Page      int        `form:"page"`
	PageSize  int        `form:"page_size"`
}

func toFinancialTransactionResponse(t *ledger.FinancialTransaction) *FinancialTransactionResponse {
	return &FinancialTransactionResponse{
		ID:             t.ID,
		Date:           t.Date,
		Amount:         t.Amount,
		Direction:      t.Direction.String(),
		Category:       t.Category.String(),
		Description:    t.Description,
		OriginID:       t.OriginID,
		SettlementDate: t.SettlementDate,
		ReceiptRef:     t.ReceiptRef,
		PostingKey:     t.PostingKey,
		CreatedAt:      t.CreatedAt,
	}
}
