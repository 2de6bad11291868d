// Package train computes costs and gradients for nn.Network.
//
// Two independent strategies produce a gradient network that is
// architecture-compatible with the trained one:
//   - Numeric differentiation: perturb each parameter by Epsilon and measure
//     the change in cost. Slow, used as a correctness oracle.
//   - Analytic backpropagation: one backward pass per sample or step.
//
// Both exist for supervised learning (mean squared error) and for policy
// gradients (REINFORCE) over recorded Steps.
//
// Example:
//
//	trainer := train.New(train.DefaultConfig())
//	grad := net.NewGradient()
//	if err := trainer.Backprop(net, grad, inputs, targets); err != nil {
//	    return err
//	}
//	sgd.Step(net, grad)
package train

import (
	"fmt"

	"github.com/chewxy/math32"

	"github.com/born-ml/tinynn/internal/matrix"
	"github.com/born-ml/tinynn/internal/nn"
)

// Config holds trainer hyperparameters.
//
// New only fills in Epsilon when it is zero. Discount is used as given: a
// zero Discount is a valid γ that credits each step with its own reward
// only, so start from DefaultConfig to get γ = 0.9.
type Config struct {
	Epsilon     float32 // Finite-difference step (zero: 1e-3)
	Discount    float32 // Reward discount factor γ (DefaultConfig: 0.9, zero is kept)
	DoubleError bool    // Use 2·(pred-target) as the output error, the exact MSE derivative
}

// DefaultConfig returns the default trainer configuration.
func DefaultConfig() Config {
	return Config{
		Epsilon:     1e-3,
		Discount:    0.9,
		DoubleError: true,
	}
}

// Trainer computes costs and gradients. It holds no per-network state and
// may be shared between networks, but not used concurrently on one network.
type Trainer struct {
	epsilon     float32
	discount    float32
	doubleError bool
}

// New creates a Trainer. A zero Epsilon falls back to the default; Discount
// and DoubleError are taken as given.
func New(config Config) *Trainer {
	if config.Epsilon == 0 {
		config.Epsilon = DefaultConfig().Epsilon
	}
	return &Trainer{
		epsilon:     config.Epsilon,
		discount:    config.Discount,
		doubleError: config.DoubleError,
	}
}

// Epsilon returns the finite-difference step.
func (t *Trainer) Epsilon() float32 { return t.epsilon }

// Discount returns the reward discount factor.
func (t *Trainer) Discount() float32 { return t.discount }

// Cost returns the mean over rows of the summed squared difference between
// the network output for in's row and out's row.
func (t *Trainer) Cost(net *nn.Network, in, out *matrix.Matrix) (float32, error) {
	if err := checkSupervised(net, in, out); err != nil {
		return 0, err
	}
	return supervisedCost(net, in, out), nil
}

func supervisedCost(net *nn.Network, in, out *matrix.Matrix) float32 {
	var cost float32
	for i := 0; i < in.Rows(); i++ {
		copy(net.Input().RowSlice(0), in.RowSlice(i))
		net.Forward()
		pred, want := net.Output().RowSlice(0), out.RowSlice(i)
		for j := range pred {
			d := pred[j] - want[j]
			cost += d * d
		}
	}
	return cost / float32(in.Rows())
}

// RecordedPolicyCost returns Σ −reward·ln(probability) over steps with a
// non-zero reward, using the probabilities captured at decision time.
//
// It is a reporting metric and does not depend on the current parameters.
func RecordedPolicyCost(steps []*Step) float32 {
	var cost float32
	for _, s := range steps {
		if s.Reward != 0 {
			cost += s.Reward * -math32.Log(s.Probability)
		}
	}
	return cost
}

// PolicyObjective returns the policy loss differentiated by PolicyBackprop:
//
//	(1/n) Σ G(s)·(−ln softmax(forward(state_s))[action_s])
//
// where G are the discounted returns of the batch.
func (t *Trainer) PolicyObjective(net *nn.Network, steps []*Step) (float32, error) {
	if err := checkPolicy(net, steps); err != nil {
		return 0, err
	}
	returns := DiscountedReturns(Rewards(steps), t.discount)
	return policyObjective(net, steps, returns, make([]float32, net.Output().Cols())), nil
}

func policyObjective(net *nn.Network, steps []*Step, returns []float32, probs []float32) float32 {
	var cost float32
	for i, s := range steps {
		copy(net.Input().RowSlice(0), s.State.RowSlice(0))
		net.Forward()
		nn.SoftmaxRow(probs, net.Output().RowSlice(0))
		cost += returns[i] * -math32.Log(probs[s.Action])
	}
	return cost / float32(len(steps))
}

func checkSupervised(net *nn.Network, in, out *matrix.Matrix) error {
	if in.Rows() != out.Rows() {
		return fmt.Errorf("%w: %d input rows, %d output rows", ErrBatchMismatch, in.Rows(), out.Rows())
	}
	if in.Cols() != net.Input().Cols() {
		return fmt.Errorf("%w: input width %d, network expects %d", ErrBatchMismatch, in.Cols(), net.Input().Cols())
	}
	if out.Cols() != net.Output().Cols() {
		return fmt.Errorf("%w: output width %d, network produces %d", ErrBatchMismatch, out.Cols(), net.Output().Cols())
	}
	return nil
}

func checkPolicy(net *nn.Network, steps []*Step) error {
	if len(steps) == 0 {
		return ErrEmptyBatch
	}
	actions := net.Output().Cols()
	for i, s := range steps {
		if s.State == nil || !matrix.Same(s.State, net.Input()) {
			return fmt.Errorf("step %d: %w: state must be 1x%d", i, ErrBatchMismatch, net.Input().Cols())
		}
		if s.Action < 0 || s.Action >= actions {
			return fmt.Errorf("step %d: %w: %d not in [0, %d)", i, ErrInvalidAction, s.Action, actions)
		}
	}
	return nil
}

func checkGradient(net, grad *nn.Network) error {
	if !nn.Same(net, grad) {
		return fmt.Errorf("%w: network %v, gradient %v", ErrIncompatibleGradient, net.Arch(), grad.Arch())
	}
	return nil
}
