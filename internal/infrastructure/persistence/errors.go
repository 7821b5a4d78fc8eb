package persistence

import (
	"errors"

	"github.com/backcat/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// translateDBError maps a raw gorm/driver error onto the ServiceError
// taxonomy. ServiceErrors pass through untouched so repository-internal
// classifications (conflict, not-found) survive transaction wrappers.
func translateDBError(err error, message string) error {
	if err == nil {
		return nil
	}
	var se *shared.ServiceError
	if errors.As(err, &se) {
		return se
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return shared.NewNotFoundError(message, err)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return shared.NewConflictError(message, err)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return shared.NewConflictError(message, err)
	case errors.Is(err, gorm.ErrInvalidData), errors.Is(err, gorm.ErrInvalidValue):
		return shared.NewConflictError(message, err)
	default:
		return shared.NewInternalError(message, err)
	}
}
