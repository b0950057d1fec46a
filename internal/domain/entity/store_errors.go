package entity

import (
	"errors"
	"fmt"

	"github.com/GTD-web/ems-backend-sub025/internal/domain/apperr"
	"github.com/GTD-web/ems-backend-sub025/internal/platform/db"
)

// StoreError translates storage failures into the error taxonomy. A unique
// index violation becomes Conflict with duplicateCode, a failed version check
// becomes Conflict CONCURRENT_MODIFICATION, anything else is wrapped with op.
func StoreError(err error, op, duplicateCode string, kv ...any) error {
	if err == nil {
		return nil
	}
	if _, ok := apperr.As(err); ok {
		return err
	}
	if errors.Is(err, db.ErrStaleWrite) {
		return apperr.Conflict("CONCURRENT_MODIFICATION", "record was modified concurrently", kv...).Wrap(err)
	}
	if duplicateCode != "" && db.IsUniqueViolation(err) {
		return apperr.Conflict(duplicateCode, "record already exists", kv...).Wrap(err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
