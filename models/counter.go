package models

import (
	"fmt"

	"gorm.io/gorm"
)

// Counter names, one row per numbered entity kind.
const (
	CounterBooking  = "booking"
	CounterBranch   = "branch"
	CounterEmployee = "employee"
)

// Counter backs human-readable sequential numbers (INV0001, BRANCH0001, ...).
// The value is advanced with an atomic upsert so concurrent creations cannot
// observe the same sequence.
type Counter struct {
	Name  string `gorm:"primaryKey"`
	Value int64  `gorm:"not null;default:0"`
}

// NextSequence atomically increments and returns the counter for name,
// creating it on first use.
func NextSequence(tx *gorm.DB, name string) (int64, error) {
	var value int64
	err := tx.Raw(`
		INSERT INTO counters (name, value) VALUES (?, 1)
		ON CONFLICT (name) DO UPDATE SET value = counters.value + 1
		RETURNING value
	`, name).Scan(&value).Error
	return value, err
}

// FormatSequence renders a sequence value as prefix + 4-digit zero-padded
// index, e.g. ("INV", 12) -> "INV0012".
func FormatSequence(prefix string, value int64) string {
	return fmt.Sprintf("%s%04d", prefix, value)
}
