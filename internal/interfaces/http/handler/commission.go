package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/lendingdesk/backend/internal/application/settlement"
)

// CommissionHandler handles the /commissions endpoints
type CommissionHandler struct {
	BaseHandler
	commissionService CommissionService
	pending           PendingCommissionLister
}

// NewCommissionHandler creates a new CommissionHandler
func NewCommissionHandler(commissionService CommissionService, pending PendingCommissionLister) *CommissionHandler {
	return &CommissionHandler{
		commissionService: commissionService,
		pending:           pending,
	}
}

type pendingCommissionQuery struct {
	SellerID string `form:"seller_id" binding:"omitempty,uuid"`
	Period   string `form:"period" binding:"omitempty,period"`
	Status   string `form:"status" binding:"omitempty,oneof=OPEN APPROVED CANCELED PENDING_GENERATION"`
}

// Open creates a commission for a loan that has none.
// POST /commissions
func (h *CommissionHandler) Open(c *gin.Context) {
	var req settlement.OpenCommissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.commissionService.Open(c.Request.Context(), req, getRequester(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// GetByID returns a commission.
// GET /commissions/:id
func (h *CommissionHandler) GetByID(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	resp, err := h.commissionService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ListPending returns the approval screen: existing commissions plus the
// loans still waiting for one.
// GET /commissions
func (h *CommissionHandler) ListPending(c *gin.Context) {
	var q pendingCommissionQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.BindError(c, err)
		return
	}

	items, err := h.pending.List(c.Request.Context(), settlement.PendingCommissionFilter{
		SellerID: parseOptionalUUID(q.SellerID),
		Period:   q.Period,
		Status:   q.Status,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, items)
}

// Update dispatches on the action: APPROVE and CANCEL move the commission
// through its lifecycle, no action edits its plan.
// PATCH /commissions/:id
func (h *CommissionHandler) Update(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	var req settlement.UpdateCommissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	var (
		resp *settlement.CommissionResponse
		err  error
	)
	ctx := c.Request.Context()
	switch req.Action {
	case settlement.CommissionActionApprove:
		resp, err = h.commissionService.Approve(ctx, id, getRequester(c))
	case settlement.CommissionActionCancel:
		resp, err = h.commissionService.Cancel(ctx, id, getRequester(c))
	default:
		if req.Type == "" || req.Reference == nil {
			h.BadRequest(c, "type and reference are required when no action is given")
			return
		}
		resp, err = h.commissionService.Edit(ctx, id, settlement.EditCommissionRequest{
			Type:      req.Type,
			Reference: *req.Reference,
			Period:    req.Period,
		}, getRequester(c))
	}
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// GenerateAndApprove opens and approves the commission of a pending loan.
// POST /commissions/generate-and-approve
func (h *CommissionHandler) GenerateAndApprove(c *gin.Context) {
	var req settlement.GenerateAndApproveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.commissionService.GenerateAndApprove(c.Request.Context(), req, getRequester(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}
