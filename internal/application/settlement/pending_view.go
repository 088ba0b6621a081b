package settlement

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/lendingdesk/backend/internal/domain/commission"
	"github.com/lendingdesk/backend/internal/domain/loan"
	"github.com/lendingdesk/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// pendingViewLimit caps each side of the projection
const pendingViewLimit = 1000

// PendingCommissionView is the approval screen: every commission in scope
// plus a PENDING_GENERATION row for each loan that still has none.
type PendingCommissionView struct {
	loans       loan.Repository
	commissions commission.Repository
	logger      *zap.Logger
	location    *time.Location
}

// NewPendingCommissionView creates a new PendingCommissionView. Period
// boundaries are evaluated in loc, UTC when nil.
func NewPendingCommissionView(loans loan.Repository, commissions commission.Repository, logger *zap.Logger, loc *time.Location) *PendingCommissionView {
	if loc == nil {
		loc = time.UTC
	}
	return &PendingCommissionView{
		loans:       loans,
		commissions: commissions,
		logger:      logger,
		location:    loc,
	}
}

// List returns the rows matching filter, commissions first ordered by loan
// start date, followed by the loans pending generation.
func (v *PendingCommissionView) List(ctx context.Context, filter PendingCommissionFilter) ([]CommissionListItem, error) {
	var period *commission.Period
	if filter.Period != "" {
		p, err := commission.ParsePeriod(filter.Period)
		if err != nil {
			return nil, err
		}
		period = &p
	}

	status := commission.Status(filter.Status)
	if status != "" && !status.IsValid() && status != commission.StatusPendingGeneration {
		return nil, shared.NewValidationError("Invalid commission status: " + filter.Status)
	}

	items := make([]CommissionListItem, 0)
	if status != commission.StatusPendingGeneration {
		existing, err := v.listExisting(ctx, filter.SellerID, period, status)
		if err != nil {
			return nil, err
		}
		items = append(items, existing...)
	}
	if status == "" || status == commission.StatusPendingGeneration {
		pending, err := v.listPendingGeneration(ctx, filter.SellerID, period)
		if err != nil {
			return nil, err
		}
		items = append(items, pending...)
	}
	return items, nil
}

func (v *PendingCommissionView) listExisting(ctx context.Context, sellerID *uuid.UUID, period *commission.Period, status commission.Status) ([]CommissionListItem, error) {
	f := commission.Filter{
		Filter:   shared.Filter{Page: 1, PageSize: pendingViewLimit, OrderBy: "created_at", OrderDir: "asc"},
		SellerID: sellerID,
		Period:   period,
	}
	if status != "" {
		f.Status = &status
	}
	commissions, err := v.commissions.FindAll(ctx, f)
	if err != nil {
		return nil, err
	}
	if len(commissions) == 0 {
		return nil, nil
	}

	loanIDs := make([]uuid.UUID, len(commissions))
	for i := range commissions {
		loanIDs[i] = commissions[i].LoanID
	}
	loans, err := v.loans.FindByIDs(ctx, loanIDs)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*loan.Loan, len(loans))
	for i := range loans {
		byID[loans[i].ID] = &loans[i]
	}

	items := make([]CommissionListItem, 0, len(commissions))
	for i := range commissions {
		c := &commissions[i]
		l, ok := byID[c.LoanID]
		if !ok {
			v.logger.Warn("Commission references a missing loan",
				zap.String("commission_id", c.ID.String()),
				zap.String("loan_id", c.LoanID.String()),
			)
			continue
		}
		id := c.ID
		items = append(items, CommissionListItem{
			CommissionID:     &id,
			LoanID:           l.ID,
			LoanCode:         l.Code,
			CustomerID:       l.CustomerID,
			SellerID:         c.SellerID,
			LoanNetValue:     l.NetValue,
			LoanStartDate:    l.StartDate,
			Period:           c.Period.String(),
			Type:             c.Type.String(),
			Reference:        c.Reference,
			CalculatedAmount: c.CalculatedAmount,
			Status:           c.Status.String(),
			ApprovedAt:       c.ApprovedAt,
		})
	}
	sortByStartDate(items)
	return items, nil
}

func (v *PendingCommissionView) listPendingGeneration(ctx context.Context, sellerID *uuid.UUID, period *commission.Period) ([]CommissionListItem, error) {
	f := loan.Filter{
		Filter:   shared.Filter{Page: 1, PageSize: pendingViewLimit, OrderBy: "start_date", OrderDir: "asc"},
		SellerID: sellerID,
	}
	if period != nil {
		from, to, err := period.Bounds(v.location)
		if err != nil {
			return nil, err
		}
		f.StartFrom = &from
		f.StartTo = &to
	}

	loans, err := v.loans.FindWithoutCommission(ctx, f)
	if err != nil {
		return nil, err
	}

	items := make([]CommissionListItem, 0, len(loans))
	for i := range loans {
		l := &loans[i]
		if l.Status == loan.StatusCanceled {
			continue
		}
		p := commission.PeriodOf(l.StartDate.In(v.location))
		if period != nil {
			p = *period
		}
		items = append(items, CommissionListItem{
			LoanID:           l.ID,
			LoanCode:         l.Code,
			CustomerID:       l.CustomerID,
			SellerID:         l.SellerID,
			LoanNetValue:     l.NetValue,
			LoanStartDate:    l.StartDate,
			Period:           p.String(),
			Reference:        decimal.Zero,
			CalculatedAmount: decimal.Zero,
			Status:           commission.StatusPendingGeneration.String(),
		})
	}
	sortByStartDate(items)
	return items, nil
}

func sortByStartDate(items []CommissionListItem) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].LoanStartDate.Before(items[j].LoanStartDate)
	})
}
