package utils

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

func IsDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	// postgres 23505
	if strings.Contains(msg, "duplicate key value violates unique constraint") || strings.Contains(msg, "SQLSTATE 23505") {
		return true
	}
	// sqlite
	return strings.Contains(msg, "UNIQUE constraint failed")
}
