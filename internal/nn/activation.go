package nn

import (
	"errors"
	"fmt"
	"strings"

	"github.com/chewxy/math32"

	"github.com/born-ml/tinynn/internal/matrix"
)

// leakySlope is the slope of LeakyReLU for non-positive inputs.
const leakySlope = 0.01

// ErrInvalidActivation is returned for unknown activations or for Softmax on a
// hidden transition.
var ErrInvalidActivation = errors.New("invalid activation")

// Activation selects the transform applied after a transition.
type Activation uint8

// Supported activations.
const (
	// Sigmoid applies σ(x) = 1 / (1 + exp(-x)).
	Sigmoid Activation = iota

	// ReLU applies max(0, x).
	ReLU

	// LeakyReLU applies x for x > 0 and 0.01·x otherwise.
	LeakyReLU

	// Softmax normalizes a whole row. It can only tag the final transition;
	// Forward leaves that layer as raw logits and callers normalize them
	// with SoftmaxRows or Network.Probabilities.
	Softmax
)

// String returns the activation name.
func (a Activation) String() string {
	switch a {
	case Sigmoid:
		return "Sigmoid"
	case ReLU:
		return "ReLU"
	case LeakyReLU:
		return "LeakyReLU"
	case Softmax:
		return "Softmax"
	default:
		return fmt.Sprintf("Activation(%d)", uint8(a))
	}
}

// Valid reports whether a is one of the supported activations.
func (a Activation) Valid() bool {
	return a <= Softmax
}

// ParseActivation converts a name (case-insensitive) to an Activation.
func ParseActivation(s string) (Activation, error) {
	switch strings.ToLower(s) {
	case "sigmoid":
		return Sigmoid, nil
	case "relu":
		return ReLU, nil
	case "leakyrelu", "leaky_relu", "leaky-relu":
		return LeakyReLU, nil
	case "softmax":
		return Softmax, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidActivation, s)
	}
}

// Func returns the element-wise forward transform.
//
// Softmax is row-wise, so its element-wise transform is the identity.
func (a Activation) Func() func(float32) float32 {
	switch a {
	case Sigmoid:
		return sigmoid
	case ReLU:
		return relu
	case LeakyReLU:
		return leakyReLU
	default:
		return identity
	}
}

// Derivative returns the local derivative expressed in terms of the forward
// output y, not the pre-activation input.
//
// Softmax returns 1: the policy-gradient error is already taken with respect
// to the logits.
func (a Activation) Derivative() func(y float32) float32 {
	switch a {
	case Sigmoid:
		return sigmoidDerivative
	case ReLU:
		return reluDerivative
	case LeakyReLU:
		return leakyReLUDerivative
	default:
		return one
	}
}

func sigmoid(x float32) float32 {
	return 1 / (1 + math32.Exp(-x))
}

func sigmoidDerivative(y float32) float32 {
	return y * (1 - y)
}

func relu(x float32) float32 {
	if x > 0 {
		return x
	}
	return 0
}

func reluDerivative(y float32) float32 {
	if y > 0 {
		return 1
	}
	return 0
}

func leakyReLU(x float32) float32 {
	if x > 0 {
		return x
	}
	return leakySlope * x
}

func leakyReLUDerivative(y float32) float32 {
	if y > 0 {
		return 1
	}
	return leakySlope
}

func identity(x float32) float32 { return x }

func one(float32) float32 { return 1 }

// SoftmaxRows writes the row-wise softmax of src into dst.
//
// The row maximum is subtracted before exponentiating, so the result is
// invariant to adding a constant to every element. dst may alias src.
// Inputs must be finite; NaN or ±Inf produce undefined results.
func SoftmaxRows(dst, src *matrix.Matrix) error {
	if !matrix.Same(dst, src) {
		return &matrix.ShapeError{
			Op:   "SoftmaxRows",
			Want: [2]int{src.Rows(), src.Cols()},
			Got:  [2]int{dst.Rows(), dst.Cols()},
		}
	}
	for i := 0; i < src.Rows(); i++ {
		SoftmaxRow(dst.RowSlice(i), src.RowSlice(i))
	}
	return nil
}

// SoftmaxRow writes the softmax of src into dst. dst may alias src.
// It panics if the lengths differ or src is empty.
func SoftmaxRow(dst, src []float32) {
	if len(dst) != len(src) || len(src) == 0 {
		panic(fmt.Sprintf("SoftmaxRow: dst has %d elements, src %d", len(dst), len(src)))
	}
	maxV := src[0]
	for _, v := range src[1:] {
		if v > maxV {
			maxV = v
		}
	}

	var sum float32
	for i, v := range src {
		dst[i] = math32.Exp(v - maxV)
		sum += dst[i]
	}
	for i := range dst {
		dst[i] /= sum
	}
}
