package router

import (
	"github.com/lendingdesk/backend/internal/interfaces/http/handler"
)

// SettlementHandlers holds the handlers behind the settlement API
type SettlementHandlers struct {
	Loans       *handler.LoanHandler
	Commissions *handler.CommissionHandler
	Ledger      *handler.LedgerHandler
}

// LoanRoutes mounts the loan lifecycle endpoints under /loans
func LoanRoutes(h *handler.LoanHandler) *DomainGroup {
	return NewDomainGroup("loans", "/loans").
		POST("", h.Create).
		GET("", h.List).
		GET("/:id", h.GetByID).
		PATCH("/:id", h.Update).
		PATCH("/:id/status", h.UpdateStatus).
		DELETE("/:id", h.Delete)
}

// CommissionRoutes mounts the commission endpoints under /commissions.
// GET /commissions is the pending view for one period.
func CommissionRoutes(h *handler.CommissionHandler) *DomainGroup {
	return NewDomainGroup("commissions", "/commissions").
		POST("", h.Open).
		POST("/generate-and-approve", h.GenerateAndApprove).
		GET("", h.ListPending).
		GET("/:id", h.GetByID).
		PATCH("/:id", h.Update)
}

// LedgerRoutes mounts the read side of the ledger under /financial-transactions
func LedgerRoutes(h *handler.LedgerHandler) *DomainGroup {
	return NewDomainGroup("ledger", "/financial-transactions").
		GET("", h.List).
		GET("/summary", h.Summary)
}

// RegisterSettlement adds every settlement group to r
func (r *Router) RegisterSettlement(h SettlementHandlers) *Router {
	return r.Register(LoanRoutes(h.Loans)).
		Register(CommissionRoutes(h.Commissions)).
		Register(LedgerRoutes(h.Ledger))
}
