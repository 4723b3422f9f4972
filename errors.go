package clust4go

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidK is returned when k is not positive.
	ErrInvalidK = errors.New("k must be positive")

	// ErrEmptyMatrix is returned when the data matrix has no rows.
	ErrEmptyMatrix = errors.New("data matrix must have at least one row")

	// ErrTooManyClusters is returned when k exceeds the observation count.
	ErrTooManyClusters = errors.New("k exceeds the number of observations")

	// ErrNotFitted is returned when a result is requested before Fit.
	ErrNotFitted = errors.New("model has not been fit")
)

// ErrDimensionMismatch indicates a row or centroid of unexpected width.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrDimensionMismatch struct {
	Expected int
	Actual   int
	cause    error
}

func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}

func (e *ErrDimensionMismatch) Unwrap() error { return e.cause }
