package repository

import (
	"strings"
)

// IsUniqueViolation reports whether err came from a unique or primary key
// constraint. Neither the mysql nor the sqlite driver translates these to a
// gorm sentinel, so the driver messages are matched directly.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}

	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}
