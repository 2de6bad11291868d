package train

import "errors"

// Common errors.
var (
	ErrEmptyBatch           = errors.New("empty batch")
	ErrBatchMismatch        = errors.New("batch does not match network")
	ErrIncompatibleGradient = errors.New("gradient network is not architecture-compatible")
	ErrInvalidAction        = errors.New("action index out of range")
)
