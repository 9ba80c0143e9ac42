package analytics

import (
	"errors"
	"fmt"
)

// ErrInsufficientHistory is returned when a category has too few data
// points for a projection. Match with errors.Is.
var ErrInsufficientHistory = errors.New("insufficient history")

// InsufficientHistoryError carries the category and point counts behind an
// ErrInsufficientHistory failure.
type InsufficientHistoryError struct {
	Category string
	Points   int
	Min      int
}

func (e *InsufficientHistoryError) Error() string {
	return fmt.Sprintf("insufficient history for category %q: %d points, need at least %d", e.Category, e.Points, e.Min)
}

func (e *InsufficientHistoryError) Unwrap() error {
	return ErrInsufficientHistory
}
