// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"github.com/born-ml/tinynn/internal/matrix"
	"github.com/born-ml/tinynn/internal/nn"
	"github.com/born-ml/tinynn/internal/serialization"
	"github.com/born-ml/tinynn/internal/train"
)

// Errors re-exported for errors.Is checks.
var (
	ErrInvalidShape         = matrix.ErrInvalidShape
	ErrShapeMismatch        = matrix.ErrShapeMismatch
	ErrInvalidArchitecture  = nn.ErrInvalidArchitecture
	ErrInvalidActivation    = nn.ErrInvalidActivation
	ErrEmptyBatch           = train.ErrEmptyBatch
	ErrBatchMismatch        = train.ErrBatchMismatch
	ErrIncompatibleGradient = train.ErrIncompatibleGradient
	ErrInvalidAction        = train.ErrInvalidAction
	ErrInvalidMagic         = serialization.ErrInvalidMagic
	ErrArchMismatch         = serialization.ErrArchMismatch
	ErrCorruptData          = serialization.ErrCorruptData
	ErrFileExists           = serialization.ErrFileExists
)
