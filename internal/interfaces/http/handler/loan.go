package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/lendingdesk/backend/internal/application/settlement"
)

// LoanHandler handles the /loans endpoints
type LoanHandler struct {
	BaseHandler
	loanService LoanService
}

// NewLoanHandler creates a new LoanHandler
func NewLoanHandler(loanService LoanService) *LoanHandler {
	return &LoanHandler{loanService: loanService}
}

// loanListQuery is bound from the query string; gin cannot bind uuid.UUID there.
type loanListQuery struct {
	Search     string `form:"search" binding:"max=100"`
	Status     string `form:"status" binding:"omitempty,oneof=ACTIVE FINALIZED CANCELED LATE"`
	SellerID   string `form:"seller_id" binding:"omitempty,uuid"`
	CustomerID string `form:"customer_id" binding:"omitempty,uuid"`
	Page       int    `form:"page" binding:"omitempty,gte=1"`
	PageSize   int    `form:"page_size" binding:"omitempty,gte=1,max=100"`
}

// Create registers a loan, opening its commission when asked to.
// POST /loans
func (h *LoanHandler) Create(c *gin.Context) {
	var req settlement.CreateLoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.loanService.Create(c.Request.Context(), req, getRequester(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// GetByID returns a loan with its commission.
// GET /loans/:id
func (h *LoanHandler) GetByID(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	resp, err := h.loanService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// List returns a page of loans.
// GET /loans
func (h *LoanHandler) List(c *gin.Context) {
	var q loanListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.BindError(c, err)
		return
	}

	page, err := h.loanService.List(c.Request.Context(), settlement.LoanListFilter{
		Search:     q.Search,
		Status:     q.Status,
		SellerID:   parseOptionalUUID(q.SellerID),
		CustomerID: parseOptionalUUID(q.CustomerID),
		Page:       q.Page,
		PageSize:   q.PageSize,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize, page.TotalPages)
}

// UpdateStatus moves a loan through its lifecycle.
// PATCH /loans/:id/status
func (h *LoanHandler) UpdateStatus(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	var req settlement.UpdateLoanStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.loanService.UpdateStatus(c.Request.Context(), id, req, getRequester(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Update edits a loan. Omitted fields are left as they are.
// PATCH /loans/:id
func (h *LoanHandler) Update(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	var req settlement.UpdateLoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.loanService.Update(c.Request.Context(), id, req, getRequester(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete removes a loan that has neither a commission nor ledger rows.
// DELETE /loans/:id
func (h *LoanHandler) Delete(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	if err := h.loanService.Remove(c.Request.Context(), id, getRequester(c)); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
