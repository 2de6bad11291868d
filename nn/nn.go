// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"io"

	"github.com/born-ml/tinynn/internal/matrix"
	"github.com/born-ml/tinynn/internal/nn"
	"github.com/born-ml/tinynn/internal/serialization"
	"github.com/born-ml/tinynn/internal/train"
)

// Matrices

// Matrix is a row-major float32 matrix. Row and Col return views that share
// storage with their parent.
type Matrix = matrix.Matrix

// ShapeError describes a dimension mismatch between matrices.
type ShapeError = matrix.ShapeError

// NewMatrix allocates a zeroed rows×cols matrix.
func NewMatrix(rows, cols int) (*Matrix, error) {
	return matrix.New(rows, cols)
}

// MatrixFromSlice wraps data, in row-major order, as a rows×cols matrix.
//
// Example:
//
//	xor, _ := nn.MatrixFromSlice(4, 3, []float32{
//	    0, 0, 0,
//	    0, 1, 1,
//	    1, 0, 1,
//	    1, 1, 0,
//	})
//	inputs, targets := ...
func MatrixFromSlice(rows, cols int, data []float32) (*Matrix, error) {
	return matrix.FromSlice(rows, cols, data)
}

// Dot computes dest = a·b.
func Dot(dest, a, b *Matrix) error {
	return matrix.Dot(dest, a, b)
}

// Add computes dest += src element-wise.
func Add(dest, src *Matrix) error {
	return matrix.Add(dest, src)
}

// Copy copies src into dest.
func Copy(dest, src *Matrix) error {
	return matrix.Copy(dest, src)
}

// Network

// Network is a fully connected feed-forward network.
type Network = nn.Network

// Activation identifies an element-wise activation function.
type Activation = nn.Activation

// Activation functions.
const (
	Sigmoid   = nn.Sigmoid
	ReLU      = nn.ReLU
	LeakyReLU = nn.LeakyReLU
	Softmax   = nn.Softmax
)

// New creates a zeroed network for the given layer widths. A nil activations
// slice means Sigmoid on every transition.
//
// Example:
//
//	net, err := nn.New([]int{4, 16, 3}, []nn.Activation{nn.ReLU, nn.Softmax})
func New(arch []int, activations []Activation) (*Network, error) {
	return nn.New(arch, activations)
}

// ParseActivation parses an activation name such as "relu" or "softmax".
func ParseActivation(s string) (Activation, error) {
	return nn.ParseActivation(s)
}

// Same reports whether two networks have the same architecture.
func Same(a, b *Network) bool {
	return nn.Same(a, b)
}

// SoftmaxRows writes the row-wise softmax of src into dst.
func SoftmaxRows(dst, src *Matrix) error {
	return nn.SoftmaxRows(dst, src)
}

// Training

// Trainer computes costs and gradients.
type Trainer = train.Trainer

// TrainerConfig holds trainer hyperparameters.
type TrainerConfig = train.Config

// Step is one recorded reinforcement-learning decision.
type Step = train.Step

// NewTrainer creates a Trainer.
func NewTrainer(config TrainerConfig) *Trainer {
	return train.New(config)
}

// DefaultTrainerConfig returns the default trainer configuration.
func DefaultTrainerConfig() TrainerConfig {
	return train.DefaultConfig()
}

// DiscountedReturns computes G[i] = r[i] + gamma·G[i+1] backward through rewards.
func DiscountedReturns(rewards []float32, gamma float32) []float32 {
	return train.DiscountedReturns(rewards, gamma)
}

// Persistence

// FileExtension is the conventional extension of saved networks.
const FileExtension = serialization.FileExtension

// ArchMismatchError reports a file whose architecture differs from the network.
type ArchMismatchError = serialization.ArchMismatchError

// Save writes net to w.
func Save(w io.Writer, net *Network) error {
	return serialization.Save(w, net)
}

// Load reads a network saved by Save into net.
func Load(r io.Reader, net *Network) error {
	return serialization.Load(r, net)
}

// SaveFile writes net to a new file. Existing files are never replaced.
func SaveFile(path string, net *Network) error {
	return serialization.SaveFile(path, net)
}

// LoadFile loads the file at path into net.
func LoadFile(path string, net *Network) error {
	return serialization.LoadFile(path, net)
}

// LoadNetworkFile allocates a network with the architecture stored at path
// and loads it.
func LoadNetworkFile(path string, activations []Activation) (*Network, error) {
	return serialization.LoadNetworkFile(path, activations)
}
