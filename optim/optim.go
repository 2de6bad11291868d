// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package optim

import (
	"github.com/born-ml/tinynn/internal/optim"
	"github.com/born-ml/tinynn/nn"
)

// Optimizer interface defines the common interface for all optimizers.
type Optimizer = optim.Optimizer

// ErrIncompatibleGradient is returned when a gradient network does not match
// the optimized network.
var ErrIncompatibleGradient = optim.ErrIncompatibleGradient

// SGD (Stochastic Gradient Descent)

// SGD represents the SGD optimizer with optional momentum.
type SGD = optim.SGD

// SGDConfig contains configuration for SGD optimizer.
type SGDConfig = optim.SGDConfig

// NewSGD creates a new SGD optimizer for net.
//
// Example:
//
//	net, _ := nn.New([]int{2, 4, 1}, nil)
//	optimizer := optim.NewSGD(net, optim.SGDConfig{
//	    LR:       0.1,
//	    Momentum: 0.9,
//	})
func NewSGD(net *nn.Network, config SGDConfig) *SGD {
	return optim.NewSGD(net, config)
}

// Adam (Adaptive Moment Estimation)

// Adam represents the Adam optimizer.
type Adam = optim.Adam

// AdamConfig contains configuration for Adam optimizer.
type AdamConfig = optim.AdamConfig

// NewAdam creates a new Adam optimizer for net.
//
// Example:
//
//	optimizer := optim.NewAdam(net, optim.AdamConfig{LR: 0.001})
func NewAdam(net *nn.Network, config AdamConfig) *Adam {
	return optim.NewAdam(net, config)
}

// Stateless updates

// Descend moves every parameter of net against grad: p -= rate·g.
func Descend(net, grad *nn.Network, rate float32) error {
	return optim.Descend(net, grad, rate)
}

// Ascend moves every parameter of net along grad: p += rate·g.
func Ascend(net, grad *nn.Network, rate float32) error {
	return optim.Ascend(net, grad, rate)
}
