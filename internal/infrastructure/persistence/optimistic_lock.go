package persistence

import (
	"github.com/google/uuid"
	"github.com/lendingdesk/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// saveWithLock writes model over the row identified by id only if the row
// is still at version-1. Domain operations increment the version in memory
// before saving, so version-1 is the version the aggregate was read at.
// table is an empty model naming the table, model carries the new values.
func saveWithLock(db *gorm.DB, table, model any, id uuid.UUID, version int) error {
	expectedVersion := version - 1
	result := db.Model(table).
		Where("id = ? AND version = ?", id, expectedVersion).
		Select("*").Omit("id", "created_at").
		Updates(model)
	if result.Error != nil {
		return translateError(result.Error, nil)
	}
	if result.RowsAffected > 0 {
		return nil
	}

	var count int64
	if err := db.Model(table).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return shared.ErrNotFound
	}
	return shared.ErrConcurrencyConflict
}
