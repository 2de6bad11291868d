package matrix

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrInvalidShape  = errors.New("invalid matrix shape")
	ErrShapeMismatch = errors.New("shape mismatch")
)

// ShapeError describes the operands of a failed matrix operation.
//
// It wraps ErrShapeMismatch, so callers can test with errors.Is.
type ShapeError struct {
	Op   string // Operation name (e.g., "Dot", "Add")
	Want [2]int // Expected [rows, cols]
	Got  [2]int // Actual [rows, cols]
}

// Error implements the error interface.
func (e *ShapeError) Error() string {
	return fmt.Sprintf("%s: %v: expected %dx%d, got %dx%d",
		e.Op, ErrShapeMismatch, e.Want[0], e.Want[1], e.Got[0], e.Got[1])
}

// Unwrap returns ErrShapeMismatch.
func (e *ShapeError) Unwrap() error {
	return ErrShapeMismatch
}

func shapeError(op string, wantRows, wantCols, gotRows, gotCols int) error {
	return &ShapeError{
		Op:   op,
		Want: [2]int{wantRows, wantCols},
		Got:  [2]int{gotRows, gotCols},
	}
}
