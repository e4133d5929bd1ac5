package repositories

import (
	"errors"

	"gorm.io/gorm"
)

// ErrNotPending is returned when a punch-out targets a row that is no longer pending
var ErrNotPending = errors.New("punch record is not pending")

// IsNotFound reports whether err means the row does not exist
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
