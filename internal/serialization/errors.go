package serialization

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrInvalidMagic = errors.New("invalid magic bytes")
	ErrArchMismatch = errors.New("architecture mismatch")
	ErrArchTooLarge = errors.New("architecture exceeds limits")
	ErrCorruptData  = errors.New("corrupt parameter data")
	ErrFileExists   = errors.New("file already exists")
)

// ArchMismatchError reports the architecture stored in a file and the one of
// the network it was loaded into.
type ArchMismatchError struct {
	Want []int // Architecture of the live network
	Got  []int // Architecture read from the file
}

// Error implements the error interface.
func (e *ArchMismatchError) Error() string {
	return fmt.Sprintf("%v: network has %v, file has %v", ErrArchMismatch, e.Want, e.Got)
}

// Unwrap returns ErrArchMismatch.
func (e *ArchMismatchError) Unwrap() error {
	return ErrArchMismatch
}

// ValidationError describes an architecture header that was rejected before
// any parameter data was read.
type ValidationError struct {
	Type    string // Type of error (e.g., "too_many_layers", "zero_width")
	Layer   int    // Layer index involved, or -1
	Details string // Additional details
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Layer >= 0 {
		return fmt.Sprintf("%s: layer %d: %s", e.Type, e.Layer, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Details)
}

// Unwrap returns ErrArchTooLarge for size violations and ErrCorruptData otherwise.
func (e *ValidationError) Unwrap() error {
	switch e.Type {
	case "too_many_layers", "layer_too_wide", "too_many_params":
		return ErrArchTooLarge
	default:
		return ErrCorruptData
	}
}
