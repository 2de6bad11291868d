// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides a small fully connected neural network with its
// matrix type, trainers and binary persistence.
//
// # Overview
//
// This package contains:
//   - Matrix: row-major float32 matrix with aliasing row and column views
//   - Network: layers, weights, biases and one activation per transition
//   - Activations: Sigmoid, ReLU, LeakyReLU, Softmax
//   - Trainer: mean squared error and policy-gradient costs, numeric and
//     analytic (backpropagation) gradients
//   - Save/Load: the ".netw" binary format
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/tinynn/nn"
//	    "github.com/born-ml/tinynn/optim"
//	)
//
//	func main() {
//	    net, err := nn.New([]int{2, 4, 1}, nil) // Sigmoid everywhere
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    net.Randomize(-1, 1, nil)
//
//	    trainer := nn.NewTrainer(nn.DefaultTrainerConfig())
//	    grad := net.NewGradient()
//	    for epoch := 0; epoch < 5000; epoch++ {
//	        if err := trainer.Backprop(net, grad, inputs, targets); err != nil {
//	            log.Fatal(err)
//	        }
//	        if err := optim.Descend(net, grad, 1); err != nil {
//	            log.Fatal(err)
//	        }
//	    }
//	}
//
// # Activations
//
// Every transition i computes
//
//	layer[i+1] = act[i](layer[i]·weight[i] + bias[i])
//
// Softmax may only tag the last transition. Forward then leaves raw logits in
// the output layer; use Network.Probabilities or SoftmaxRows to normalize them.
//
// # Gradients
//
// NumericGradient perturbs every parameter by the trainer's Epsilon and is
// meant as a correctness oracle. Backprop and PolicyBackprop compute the same
// gradients analytically. All of them write into a gradient network created
// with Network.NewGradient.
//
// # Persistence
//
//	if err := nn.SaveFile("xor"+nn.FileExtension, net); err != nil {
//	    log.Fatal(err)
//	}
//	if err := nn.LoadFile("xor.netw", net); err != nil {
//	    log.Fatal(err)
//	}
//
// Loading requires an identical architecture and never modifies the network
// when it fails.
package nn
