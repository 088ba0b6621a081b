package persistence

import (
	"errors"

	"github.com/lendingdesk/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// translateError maps driver-level failures to domain errors. onDuplicate
// is returned when a unique constraint rejects the write.
func translateError(err error, onDuplicate error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return shared.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		if onDuplicate != nil {
			return onDuplicate
		}
		return shared.NewIntegrityViolation("Record already exists")
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return shared.NewIntegrityViolation("Operation violates a reference between records")
	}
	return err
}
