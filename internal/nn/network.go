// Package nn implements fully connected feed-forward networks and their activations.
package nn

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"

	"github.com/born-ml/tinynn/internal/matrix"
)

// ErrInvalidArchitecture is returned when a network cannot be built from the
// requested layer widths.
var ErrInvalidArchitecture = errors.New("invalid architecture")

// Network is a fully connected feed-forward network.
//
// A network with N transitions holds N+1 layer rows (layer 0 is the input,
// layer N the output), N weight matrices (width[i]×width[i+1]), N bias rows
// (1×width[i+1]) and N activations. Forward overwrites layers only; training
// mutates weights and biases only.
//
// Example:
//
//	net, err := nn.New([]int{2, 4, 1}, nil) // sigmoid on every transition
//	if err != nil {
//	    return err
//	}
//	net.Randomize(-1, 1, nil)
//
//	out, err := net.Predict(input) // 1×1 view of the output layer
type Network struct {
	layers      []*matrix.Matrix
	weights     []*matrix.Matrix
	biases      []*matrix.Matrix
	activations []Activation
}

// New builds a zero-initialized network from layer widths.
//
// arch needs at least two positive widths. activations must be nil or have
// len(arch)-1 entries; nil applies Sigmoid on every transition. Softmax is
// only accepted on the last transition.
func New(arch []int, activations []Activation) (*Network, error) {
	if len(arch) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 layers, got %d", ErrInvalidArchitecture, len(arch))
	}
	for i, w := range arch {
		if w <= 0 {
			return nil, fmt.Errorf("%w: layer %d has width %d (must be > 0)", ErrInvalidArchitecture, i, w)
		}
	}

	count := len(arch) - 1
	acts := make([]Activation, count)
	if activations != nil {
		if len(activations) != count {
			return nil, fmt.Errorf("%w: %d activations for %d transitions",
				ErrInvalidArchitecture, len(activations), count)
		}
		for i, a := range activations {
			if !a.Valid() {
				return nil, fmt.Errorf("%w: transition %d: %v", ErrInvalidActivation, i, a)
			}
			if a == Softmax && i != count-1 {
				return nil, fmt.Errorf("%w: Softmax on hidden transition %d", ErrInvalidActivation, i)
			}
		}
		copy(acts, activations)
	}

	n := &Network{
		layers:      make([]*matrix.Matrix, count+1),
		weights:     make([]*matrix.Matrix, count),
		biases:      make([]*matrix.Matrix, count),
		activations: acts,
	}
	n.layers[0] = matrix.MustNew(1, arch[0])
	for i := 0; i < count; i++ {
		n.weights[i] = matrix.MustNew(arch[i], arch[i+1])
		n.biases[i] = matrix.MustNew(1, arch[i+1])
		n.layers[i+1] = matrix.MustNew(1, arch[i+1])
	}
	return n, nil
}

// NewGradient returns a zeroed network with the same architecture and
// activations, suitable as a gradient accumulator for n.
func (n *Network) NewGradient() *Network {
	g, err := New(n.Arch(), n.activations)
	if err != nil {
		// n was built by New, so its own architecture is always valid.
		panic(fmt.Sprintf("Network.NewGradient: %v", err))
	}
	return g
}

// Count returns the number of transitions (len(arch)-1).
func (n *Network) Count() int { return len(n.weights) }

// Input returns the 1×width[0] input layer.
func (n *Network) Input() *matrix.Matrix { return n.layers[0] }

// Output returns the 1×width[N] output layer.
func (n *Network) Output() *matrix.Matrix { return n.layers[len(n.layers)-1] }

// Layer returns layer i, 0 ≤ i ≤ Count().
func (n *Network) Layer(i int) *matrix.Matrix { return n.layers[i] }

// Weight returns the weight matrix of transition i.
func (n *Network) Weight(i int) *matrix.Matrix { return n.weights[i] }

// Bias returns the bias row of transition i.
func (n *Network) Bias(i int) *matrix.Matrix { return n.biases[i] }

// Activation returns the activation of transition i.
func (n *Network) Activation(i int) Activation { return n.activations[i] }

// Arch returns the layer widths (the architecture fingerprint).
func (n *Network) Arch() []int {
	arch := make([]int, len(n.layers))
	for i, l := range n.layers {
		arch[i] = l.Cols()
	}
	return arch
}

// MatchArch reports whether arch equals the network's layer widths.
func (n *Network) MatchArch(arch []int) bool {
	return slices.Equal(n.Arch(), arch)
}

// Same reports whether a and b are architecture-compatible: every layer,
// weight and bias pair has the same shape. Parameter values are ignored.
func Same(a, b *Network) bool {
	if a.Count() != b.Count() {
		return false
	}
	for i := 0; i < a.Count(); i++ {
		if !matrix.Same(a.layers[i], b.layers[i]) ||
			!matrix.Same(a.weights[i], b.weights[i]) ||
			!matrix.Same(a.biases[i], b.biases[i]) {
			return false
		}
	}
	return matrix.Same(a.Output(), b.Output())
}

// Params calls fn for every parameter matrix in save order: weight 0, bias 0,
// weight 1, bias 1, ...
func (n *Network) Params(fn func(m *matrix.Matrix)) {
	for i := range n.weights {
		fn(n.weights[i])
		fn(n.biases[i])
	}
}

// Randomize draws every weight and bias uniformly from [low, high].
// Layers are left untouched.
func (n *Network) Randomize(low, high float32, rng *rand.Rand) {
	n.Params(func(m *matrix.Matrix) { m.Randomize(low, high, rng) })
}

// Clear zeroes every layer, weight and bias.
func (n *Network) Clear() {
	for _, l := range n.layers {
		l.Clear()
	}
	n.Params((*matrix.Matrix).Clear)
}

// Forward propagates the input layer through every transition:
//
//	layer[i+1] = act[i](layer[i]·weight[i] + bias[i])
//
// A Softmax-tagged final transition leaves the output layer as logits.
func (n *Network) Forward() {
	for i := range n.weights {
		next := n.layers[i+1]
		if err := matrix.Dot(next, n.layers[i], n.weights[i]); err != nil {
			panic(fmt.Sprintf("Network.Forward: transition %d: %v", i, err))
		}
		if err := matrix.Add(next, n.biases[i]); err != nil {
			panic(fmt.Sprintf("Network.Forward: transition %d: %v", i, err))
		}
		if act := n.activations[i]; act != Softmax {
			next.Apply(act.Func())
		}
	}
}

// Predict copies input into the input layer, runs Forward and returns the
// output layer. The returned matrix aliases the network and is overwritten by
// the next forward pass.
func (n *Network) Predict(input *matrix.Matrix) (*matrix.Matrix, error) {
	if err := matrix.Copy(n.Input(), input); err != nil {
		return nil, fmt.Errorf("predict: %w", err)
	}
	n.Forward()
	return n.Output(), nil
}

// Probabilities writes the softmax of the current output layer into dst.
func (n *Network) Probabilities(dst *matrix.Matrix) error {
	return SoftmaxRows(dst, n.Output())
}

// String implements fmt.Stringer.
func (n *Network) String() string {
	return n.Pretty("nn", false)
}

// Pretty renders the parameters (and the layer rows when showLayers is set)
// of every transition under the given name.
func (n *Network) Pretty(name string, showLayers bool) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s = [\n", name)
	for i := range n.weights {
		if showLayers {
			sb.WriteString(n.layers[i].Pretty(fmt.Sprintf("%s.layers[%d]", name, i), 4, "%f"))
		}
		sb.WriteString(n.weights[i].Pretty(fmt.Sprintf("%s.weights[%d]", name, i), 4, "%f"))
		sb.WriteString(n.biases[i].Pretty(fmt.Sprintf("%s.biases[%d]", name, i), 4, "%f"))
		fmt.Fprintf(&sb, "    %s.activations[%d] = %s\n", name, i, n.activations[i])
	}
	if showLayers {
		sb.WriteString(n.Output().Pretty(fmt.Sprintf("%s.layers[%d]", name, n.Count()), 4, "%f"))
	}
	sb.WriteString("]\n")
	return sb.String()
}
