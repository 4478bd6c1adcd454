package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"livemart/pkg/apperrors"
)

// classify maps a store failure onto the error taxonomy: missing rows become
// NotFound, expired call deadlines become Unavailable (retryable by the
// caller), key collisions become Conflict, anything else is Internal.
func classify(err error, format string, args ...interface{}) error {
	msg := fmt.Sprintf(format, args...)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperrors.Wrap(apperrors.CodeNotFound, err, msg)
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return apperrors.Wrap(apperrors.CodeUnavailable, err, msg)
	case errors.Is(err, gorm.ErrDuplicatedKey), isUniqueViolation(err):
		return apperrors.Wrap(apperrors.CodeConflict, err, msg)
	default:
		return apperrors.Wrap(apperrors.CodeInternal, err, msg)
	}
}

// isUniqueViolation catches SQLite's constraint message, which the gorm error
// translator does not normalize on every driver version.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
