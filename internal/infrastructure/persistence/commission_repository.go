package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/lendingdesk/backend/internal/domain/commission"
	"github.com/lendingdesk/backend/internal/domain/shared"
	"github.com/lendingdesk/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCommissionRepository implements commission.Repository using GORM
type GormCommissionRepository struct {
	db *gorm.DB
}

// NewGormCommissionRepository creates a new GormCommissionRepository
func NewGormCommissionRepository(db *gorm.DB) *GormCommissionRepository {
	return &GormCommissionRepository{db: db}
}

// FindByID finds a commission by its ID
func (r *GormCommissionRepository) FindByID(ctx context.Context, id uuid.UUID) (*commission.Commission, error) {
	var model models.CommissionModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err, nil)
	}
	return model.ToDomain(), nil
}

// FindByLoanID finds the commission of a loan
func (r *GormCommissionRepository) FindByLoanID(ctx context.Context, loanID uuid.UUID) (*commission.Commission, error) {
	var model models.CommissionModel
	if err := r.db.WithContext(ctx).First(&model, "loan_id = ?", loanID).Error; err != nil {
		return nil, translateError(err, nil)
	}
	return model.ToDomain(), nil
}

// FindByLoanIDForUpdate reads the commission of a loan with a row lock held
// until the surrounding transaction ends
func (r *GormCommissionRepository) FindByLoanIDForUpdate(ctx context.Context, loanID uuid.UUID) (*commission.Commission, error) {
	var model models.CommissionModel
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&model, "loan_id = ?", loanID).Error
	if err != nil {
		return nil, translateError(err, nil)
	}
	return model.ToDomain(), nil
}

// ExistsByLoanID checks if a loan already has a commission
func (r *GormCommissionRepository) ExistsByLoanID(ctx context.Context, loanID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.CommissionModel{}).
		Where("loan_id = ?", loanID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindAll finds commissions with filtering, sorting and pagination
func (r *GormCommissionRepository) FindAll(ctx context.Context, filter commission.Filter) ([]commission.Commission, error) {
	var commissionModels []models.CommissionModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.CommissionModel{}), filter)
	if err := query.Find(&commissionModels).Error; err != nil {
		return nil, err
	}
	commissions := make([]commission.Commission, len(commissionModels))
	for i := range commissionModels {
		commissions[i] = *commissionModels[i].ToDomain()
	}
	return commissions, nil
}

// Count counts commissions matching the filter
func (r *GormCommissionRepository) Count(ctx context.Context, filter commission.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.CommissionModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Create inserts a commission. The unique index on loan_id rejects a second one.
func (r *GormCommissionRepository) Create(ctx context.Context, c *commission.Commission) error {
	model := models.CommissionModelFromDomain(c)
	err := r.db.WithContext(ctx).Create(model).Error
	return translateError(err, shared.ErrDuplicateCommission)
}

// SaveWithLock updates the commission only if the stored version is the one it was read at
func (r *GormCommissionRepository) SaveWithLock(ctx context.Context, c *commission.Commission) error {
	model := models.CommissionModelFromDomain(c)
	return saveWithLock(r.db.WithContext(ctx), &models.CommissionModel{}, model, c.GetID(), c.GetVersion())
}

// applyFilter applies filter conditions to query
func (r *GormCommissionRepository) applyFilter(query *gorm.DB, filter commission.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)
	query = query.Order(orderClause(filter.OrderBy, filter.OrderDir, CommissionSortFields, "created_at"))

	if filter.PageSize > 0 {
		query = query.Limit(filter.PageSize)
		if offset := filter.Offset(); offset > 0 {
			query = query.Offset(offset)
		}
	}
	return query
}

// applyFilterWithoutPagination applies filter conditions without pagination
func (r *GormCommissionRepository) applyFilterWithoutPagination(query *gorm.DB, filter commission.Filter) *gorm.DB {
	if filter.SellerID != nil {
		query = query.Where("seller_id = ?", *filter.SellerID)
	}
	if filter.Period != nil {
		query = query.Where("period = ?", *filter.Period)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	return query
}
