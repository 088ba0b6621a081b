package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/lendingdesk/backend/internal/domain/ledger"
	"github.com/lendingdesk/backend/internal/domain/shared"
	"github.com/lendingdesk/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormFinancialTransactionRepository implements ledger.Repository using GORM.
// It deliberately has no update or delete.
type GormFinancialTransactionRepository struct {
	db *gorm.DB
}

// NewGormFinancialTransactionRepository creates a new GormFinancialTransactionRepository
func NewGormFinancialTransactionRepository(db *gorm.DB) *GormFinancialTransactionRepository {
	return &GormFinancialTransactionRepository{db: db}
}

// FindByID finds a ledger row by its ID
func (r *GormFinancialTransactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.FinancialTransaction, error) {
	var model models.FinancialTransactionModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err, nil)
	}
	return model.ToDomain(), nil
}

// FindAll finds ledger rows with filtering, sorting and pagination
func (r *GormFinancialTransactionRepository) FindAll(ctx context.Context, filter ledger.Filter) ([]ledger.FinancialTransaction, error) {
	var txModels []models.FinancialTransactionModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.FinancialTransactionModel{}), filter)
	if err := query.Find(&txModels).Error; err != nil {
		return nil, err
	}
	transactions := make([]ledger.FinancialTransaction, len(txModels))
	for i := range txModels {
		transactions[i] = *txModels[i].ToDomain()
	}
	return transactions, nil
}

// Count counts ledger rows matching the filter
func (r *GormFinancialTransactionRepository) Count(ctx context.Context, filter ledger.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.FinancialTransactionModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Create inserts a ledger row. The unique posting key rejects a second
// posting of the same event.
func (r *GormFinancialTransactionRepository) Create(ctx context.Context, t *ledger.FinancialTransaction) error {
	model := models.FinancialTransactionModelFromDomain(t)
	err := r.db.WithContext(ctx).Create(model).Error
	return translateError(err, shared.ErrDuplicatePosting)
}

// ExistsByPostingKey checks if a posting key was already used
func (r *GormFinancialTransactionRepository) ExistsByPostingKey(ctx context.Context, key string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.FinancialTransactionModel{}).
		Where("posting_key = ?", key).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CountByOrigin counts ledger rows that reference originID
func (r *GormFinancialTransactionRepository) CountByOrigin(ctx context.Context, originID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.FinancialTransactionModel{}).
		Where("origin_id = ?", originID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Summarize totals the rows matching filter by direction
func (r *GormFinancialTransactionRepository) Summarize(ctx context.Context, filter ledger.Filter) (ledger.Summary, error) {
	var result struct {
		TotalIn  decimal.Decimal
		TotalOut decimal.Decimal
		Count    int64
	}
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.FinancialTransactionModel{}), filter)
	if err := query.
		Select("COALESCE(SUM(CASE WHEN direction = ? THEN amount ELSE 0 END), 0) AS total_in, "+
			"COALESCE(SUM(CASE WHEN direction = ? THEN amount ELSE 0 END), 0) AS total_out, "+
			"COUNT(*) AS count", ledger.DirectionIn, ledger.DirectionOut).
		Scan(&result).Error; err != nil {
		return ledger.Summary{}, err
	}
	return ledger.Summary{
		TotalIn:  result.TotalIn.Round(2),
		TotalOut: result.TotalOut.Round(2),
		Balance:  result.TotalIn.Sub(result.TotalOut).Round(2),
		Count:    result.Count,
	}, nil
}

// applyFilter applies filter conditions to query
func (r *GormFinancialTransactionRepository) applyFilter(query *gorm.DB, filter ledger.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)
	query = query.Order(orderClause(filter.OrderBy, filter.OrderDir, FinancialTransactionSortFields, "date"))

	if filter.PageSize > 0 {
		query = query.Limit(filter.PageSize)
		if offset := filter.Offset(); offset > 0 {
			query = query.Offset(offset)
		}
	}
	return query
}

// applyFilterWithoutPagination applies filter conditions without pagination
func (r *GormFinancialTransactionRepository) applyFilterWithoutPagination(query *gorm.DB, filter ledger.Filter) *gorm.DB {
	if filter.Category != nil {
		query = query.Where("category = ?", *filter.Category)
	}
	if filter.Direction != nil {
		query = query.Where("direction = ?", *filter.Direction)
	}
	if filter.OriginID != nil {
		query = query.Where("origin_id = ?", *filter.OriginID)
	}
	if filter.From != nil {
		query = query.Where("date >= ?", filter.From.UTC())
	}
	if filter.To != nil {
		query = query.Where("date < ?", filter.To.UTC())
	}
	return query
}
