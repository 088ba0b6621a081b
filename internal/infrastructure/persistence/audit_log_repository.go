package persistence

import (
	"context"

	"github.com/lendingdesk/backend/internal/domain/audit"
	"github.com/lendingdesk/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormAuditLogRepository appends entries to the audit_log table
type GormAuditLogRepository struct {
	db *gorm.DB
}

// NewGormAuditLogRepository creates a new GormAuditLogRepository
func NewGormAuditLogRepository(db *gorm.DB) *GormAuditLogRepository {
	return &GormAuditLogRepository{db: db}
}

// Append inserts an audit entry
func (r *GormAuditLogRepository) Append(ctx context.Context, entry *audit.Entry) error {
	return translateError(r.db.WithContext(ctx).Create(models.AuditEntryModelFromDomain(entry)).Error, nil)
}
