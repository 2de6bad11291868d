// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package optim provides optimization algorithms for training networks.
//
// # Overview
//
// This package contains:
//   - SGD: Stochastic Gradient Descent with momentum
//   - Adam: Adaptive Moment Estimation with bias correction
//   - Descend and Ascend: stateless single steps
//
// Optimizers keep a pointer to the network they update and take a gradient
// network of the same architecture on every Step.
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/tinynn/nn"
//	    "github.com/born-ml/tinynn/optim"
//	)
//
//	func main() {
//	    net, _ := nn.New([]int{784, 32, 10}, nil)
//	    optimizer := optim.NewAdam(net, optim.AdamConfig{LR: 0.001})
//
//	    grad := net.NewGradient()
//	    trainer := nn.NewTrainer(nn.DefaultTrainerConfig())
//	    for epoch := 0; epoch < epochs; epoch++ {
//	        _ = trainer.Backprop(net, grad, inputs, targets)
//	        _ = optimizer.Step(grad)
//	    }
//	}
//
// # SGD
//
// Without momentum the update is p -= lr·g. With momentum:
//
//	v = momentum·v + g
//	p -= lr·v
//
// Set Maximize to move along the gradient instead.
//
// # Adam
//
// Per-parameter adaptive learning rates from bias-corrected first and second
// moment estimates. Defaults: lr=0.001, betas=(0.9, 0.999), eps=1e-8.
package optim
