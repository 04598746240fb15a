package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// isDuplicateKeyError detects unique-constraint violations across the
// drivers in use (postgres in production, sqlite in tests). The dialects
// predate gorm's error translation, hence the message sniffing.
func isDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key value violates unique constraint") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}
