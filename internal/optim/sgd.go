package optim

import (
	"github.com/born-ml/tinynn/internal/nn"
)

// SGD implements gradient descent with optional momentum.
//
// Update rule without momentum:
//
//	param = param - lr * gradient
//
// Update rule with momentum:
//
//	velocity = momentum * velocity + gradient
//	param = param - lr * velocity
//
// With Maximize set the sign flips (gradient ascent), for gradients of an
// objective that should grow.
//
// Example:
//
//	optimizer := optim.NewSGD(net, optim.SGDConfig{
//	    LR:       0.1,
//	    Momentum: 0.9,
//	})
type SGD struct {
	net      *nn.Network
	lr       float32
	momentum float32
	maximize bool
	velocity *nn.Network
}

// SGDConfig holds configuration for SGD optimizer.
type SGDConfig struct {
	LR       float32 // Learning rate (default: 0.01)
	Momentum float32 // Momentum factor (default: 0.0, range: [0, 1))
	Maximize bool    // Ascend instead of descend
}

// NewSGD creates a new SGD optimizer for net.
func NewSGD(net *nn.Network, config SGDConfig) *SGD {
	if config.LR == 0 {
		config.LR = 0.01
	}

	return &SGD{
		net:      net,
		lr:       config.LR,
		momentum: config.Momentum,
		maximize: config.Maximize,
	}
}

// Step performs a single optimization step.
func (s *SGD) Step(grad *nn.Network) error {
	if err := checkGradient(s.net, grad); err != nil {
		return err
	}

	scale := -s.lr
	if s.maximize {
		scale = s.lr
	}

	if s.momentum == 0 {
		return apply(s.net, grad, scale)
	}

	if s.velocity == nil {
		s.velocity = s.net.NewGradient()
	}
	zipParams(s.velocity, grad, func(v, g []float32) {
		for i := range v {
			v[i] = s.momentum*v[i] + g[i]
		}
	})
	return apply(s.net, s.velocity, scale)
}

// GetLR returns the current learning rate.
func (s *SGD) GetLR() float32 {
	return s.lr
}

// SetLR updates the learning rate.
//
// Useful for learning rate scheduling during training.
func (s *SGD) SetLR(lr float32) {
	s.lr = lr
}
