package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lendingdesk/backend/internal/application/settlement"
)

// LedgerHandler handles the /financial-transactions endpoints
type LedgerHandler struct {
	BaseHandler
	ledger LedgerQuerier
}

// NewLedgerHandler creates a new LedgerHandler
func NewLedgerHandler(ledger LedgerQuerier) *LedgerHandler {
	return &LedgerHandler{ledger: ledger}
}

type transactionListQuery struct {
	Category  string `form:"category" binding:"omitempty,oneof=LOAN COMMISSION FIXED_EXPENSE VARIABLE_EXPENSE OTHER"`
	Direction string `form:"direction" binding:"omitempty,oneof=IN OUT"`
	OriginID  string `form:"origin_id" binding:"omitempty,uuid"`
	FromDate  string `form:"from_date" binding:"omitempty,datetime=2006-01-02"`
	ToDate    string `form:"to_date" binding:"omitempty,datetime=2006-01-02"`
	Page      int    `form:"page" binding:"omitempty,gte=1"`
	PageSize  int    `form:"page_size" binding:"omitempty,gte=1,max=100"`
}

func (q transactionListQuery) filter() settlement.TransactionListFilter {
	return settlement.TransactionListFilter{
		Category:  q.Category,
		Direction: q.Direction,
		OriginID:  parseOptionalUUID(q.OriginID),
		FromDate:  parseOptionalDate(q.FromDate),
		ToDate:    parseOptionalDate(q.ToDate),
		Page:      q.Page,
		PageSize:  q.PageSize,
	}
}

// List returns a page of ledger rows, newest first.
// GET /financial-transactions
func (h *LedgerHandler) List(c *gin.Context) {
	var q transactionListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.BindError(c, err)
		return
	}

	page, err := h.ledger.ListTransactions(c.Request.Context(), q.filter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize, page.TotalPages)
}

// Summary totals IN and OUT over the filtered rows.
// GET /financial-transactions/summary
func (h *LedgerHandler) Summary(c *gin.Context) {
	var q transactionListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.BindError(c, err)
		return
	}

	summary, err := h.ledger.Summary(c.Request.Context(), q.filter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}

func parseOptionalDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil
	}
	return &t
}
