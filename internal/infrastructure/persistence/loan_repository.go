package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lendingdesk/backend/internal/domain/loan"
	"github.com/lendingdesk/backend/internal/domain/shared"
	"github.com/lendingdesk/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormLoanRepository implements loan.Repository using GORM
type GormLoanRepository struct {
	db *gorm.DB
}

// NewGormLoanRepository creates a new GormLoanRepository
func NewGormLoanRepository(db *gorm.DB) *GormLoanRepository {
	return &GormLoanRepository{db: db}
}

// FindByID finds a loan by its ID
func (r *GormLoanRepository) FindByID(ctx context.Context, id uuid.UUID) (*loan.Loan, error) {
	var model models.LoanModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err, nil)
	}
	return model.ToDomain(), nil
}

// FindByIDs loads the loans with the given IDs; missing IDs are skipped
func (r *GormLoanRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]loan.Loan, error) {
	if len(ids) == 0 {
		return []loan.Loan{}, nil
	}
	var loanModels []models.LoanModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&loanModels).Error; err != nil {
		return nil, err
	}
	return loansToDomain(loanModels), nil
}

// FindAll finds loans with filtering, sorting and pagination
func (r *GormLoanRepository) FindAll(ctx context.Context, filter loan.Filter) ([]loan.Loan, error) {
	var loanModels []models.LoanModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.LoanModel{}), filter)
	if err := query.Find(&loanModels).Error; err != nil {
		return nil, err
	}
	return loansToDomain(loanModels), nil
}

// Count counts loans matching the filter
func (r *GormLoanRepository) Count(ctx context.Context, filter loan.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.LoanModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// FindWithoutCommission lists non-canceled loans that no commission row references
func (r *GormLoanRepository) FindWithoutCommission(ctx context.Context, filter loan.Filter) ([]loan.Loan, error) {
	var loanModels []models.LoanModel
	query := r.db.WithContext(ctx).Model(&models.LoanModel{}).
		Where("loans.status <> ?", loan.StatusCanceled).
		Where("NOT EXISTS (SELECT 1 FROM commissions WHERE commissions.loan_id = loans.id)")
	query = r.applyFilter(query, filter)
	if err := query.Find(&loanModels).Error; err != nil {
		return nil, err
	}
	return loansToDomain(loanModels), nil
}

// Create inserts a new loan
func (r *GormLoanRepository) Create(ctx context.Context, l *loan.Loan) error {
	model := models.LoanModelFromDomain(l)
	err := r.db.WithContext(ctx).Create(model).Error
	return translateError(err, shared.NewDomainError(shared.CodeConcurrencyConflict,
		fmt.Sprintf("Loan code %s was taken by a concurrent request", l.Code)))
}

// SaveWithLock updates the loan only if the stored version is the one it was read at
func (r *GormLoanRepository) SaveWithLock(ctx context.Context, l *loan.Loan) error {
	model := models.LoanModelFromDomain(l)
	return saveWithLock(r.db.WithContext(ctx), &models.LoanModel{}, model, l.GetID(), l.GetVersion())
}

// Delete hard deletes a loan. Rows that still reference it make the
// foreign keys reject the delete.
func (r *GormLoanRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.LoanModel{}, "id = ?", id)
	if result.Error != nil {
		return translateError(result.Error, nil)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// NextCode generates the next loan code for the month of at. Numbering
// continues after the highest code of the month, so deleted loans never
// free a code that a later loan would collide with.
func (r *GormLoanRepository) NextCode(ctx context.Context, at time.Time) (string, error) {
	prefix := fmt.Sprintf("LN-%s-", at.Format("200601"))

	var last sql.NullString
	row := r.db.WithContext(ctx).Model(&models.LoanModel{}).
		Select("MAX(code)").
		Where("code LIKE ?", prefix+"%").
		Row()
	if err := row.Scan(&last); err != nil {
		return "", err
	}

	next := 1
	if last.Valid && last.String != "" {
		seq, err := strconv.Atoi(strings.TrimPrefix(last.String, prefix))
		if err != nil {
			return "", fmt.Errorf("parse loan code %q: %w", last.String, err)
		}
		next = seq + 1
	}
	return fmt.Sprintf("%s%05d", prefix, next), nil
}

// applyFilter applies filter conditions to query
func (r *GormLoanRepository) applyFilter(query *gorm.DB, filter loan.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)
	query = query.Order(orderClause(filter.OrderBy, filter.OrderDir, LoanSortFields, "created_at"))

	if filter.PageSize > 0 {
		query = query.Limit(filter.PageSize)
		if offset := filter.Offset(); offset > 0 {
			query = query.Offset(offset)
		}
	}
	return query
}

// applyFilterWithoutPagination applies filter conditions without pagination
func (r *GormLoanRepository) applyFilterWithoutPagination(query *gorm.DB, filter loan.Filter) *gorm.DB {
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("(LOWER(code) LIKE ? OR LOWER(note) LIKE ?)", pattern, pattern)
	}
	if filter.SellerID != nil {
		query = query.Where("seller_id = ?", *filter.SellerID)
	}
	if filter.CustomerID != nil {
		query = query.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.StartFrom != nil {
		query = query.Where("start_date >= ?", filter.StartFrom.UTC())
	}
	if filter.StartTo != nil {
		query = query.Where("start_date < ?", filter.StartTo.UTC())
	}
	return query
}

func loansToDomain(loanModels []models.LoanModel) []loan.Loan {
	loans := make([]loan.Loan, len(loanModels))
	for i := range loanModels {
		loans[i] = *loanModels[i].ToDomain()
	}
	return loans
}
