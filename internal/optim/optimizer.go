// Package optim implements parameter updates for nn.Network.
//
// This package provides:
//   - Optimizer interface: Base interface for all optimizers
//   - SGD: gradient descent (or ascent) with optional momentum
//   - Adam: Adaptive Moment Estimation
//   - Descend / Ascend: stateless single updates
//
// Gradients are networks of the same architecture as the trained network,
// as produced by the train package.
//
// Example usage:
//
//	optimizer := optim.NewSGD(net, optim.SGDConfig{LR: 0.5})
//	grad := net.NewGradient()
//
//	for epoch := range epochs {
//	    if err := trainer.Backprop(net, grad, inputs, targets); err != nil {
//	        return err
//	    }
//	    if err := optimizer.Step(grad); err != nil {
//	        return err
//	    }
//	}
package optim

import (
	"errors"
	"fmt"

	"github.com/born-ml/tinynn/internal/matrix"
	"github.com/born-ml/tinynn/internal/nn"
)

// ErrIncompatibleGradient is returned when a gradient network does not match
// the architecture of the optimized network.
var ErrIncompatibleGradient = errors.New("gradient network is not architecture-compatible")

// Optimizer is the base interface for all optimization algorithms.
type Optimizer interface {
	// Step applies one update to the optimized network using grad.
	Step(grad *nn.Network) error

	// GetLR returns the current learning rate.
	GetLR() float32

	// SetLR updates the learning rate.
	SetLR(lr float32)
}

// Descend applies p -= rate·g to every weight and bias of net.
func Descend(net, grad *nn.Network, rate float32) error {
	return apply(net, grad, -rate)
}

// Ascend applies p += rate·g to every weight and bias of net.
func Ascend(net, grad *nn.Network, rate float32) error {
	return apply(net, grad, rate)
}

func apply(net, grad *nn.Network, scale float32) error {
	if err := checkGradient(net, grad); err != nil {
		return err
	}
	zipParams(net, grad, func(p, g []float32) {
		for i := range p {
			p[i] += scale * g[i]
		}
	})
	return nil
}

func checkGradient(net, grad *nn.Network) error {
	if !nn.Same(net, grad) {
		return fmt.Errorf("%w: network %v, gradient %v", ErrIncompatibleGradient, net.Arch(), grad.Arch())
	}
	return nil
}

// zipParams calls fn row by row for matching parameter matrices of a and b.
// The networks must be architecture-compatible.
func zipParams(a, b *nn.Network, fn func(pa, pb []float32)) {
	for l := 0; l < a.Count(); l++ {
		zipRows(a.Weight(l), b.Weight(l), fn)
		zipRows(a.Bias(l), b.Bias(l), fn)
	}
}

func zipRows(a, b *matrix.Matrix, fn func(ra, rb []float32)) {
	for i := 0; i < a.Rows(); i++ {
		fn(a.RowSlice(i), b.RowSlice(i))
	}
}
