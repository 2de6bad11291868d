package train

import (
	"gonum.org/v1/gonum/diff/fd"

	"github.com/born-ml/tinynn/internal/matrix"
	"github.com/born-ml/tinynn/internal/nn"
)

// NumericGradient estimates the gradient of Cost by forward differences.
//
// For every weight and bias element: add Epsilon, recompute the cost over the
// whole batch, store (cost' − cost)/Epsilon in grad and restore the element.
// The cost is O(params × rows × forward), so this is meant as an oracle for
// Backprop rather than for training.
func (t *Trainer) NumericGradient(net, grad *nn.Network, in, out *matrix.Matrix) error {
	if err := checkSupervised(net, in, out); err != nil {
		return err
	}
	if err := checkGradient(net, grad); err != nil {
		return err
	}
	t.numericDiff(net, grad, func() float32 { return supervisedCost(net, in, out) })
	return nil
}

// NumericPolicyGradient estimates the gradient of PolicyObjective by forward
// differences, the same way NumericGradient does for the supervised cost.
func (t *Trainer) NumericPolicyGradient(net, grad *nn.Network, steps []*Step) error {
	if err := checkPolicy(net, steps); err != nil {
		return err
	}
	if err := checkGradient(net, grad); err != nil {
		return err
	}
	returns := DiscountedReturns(Rewards(steps), t.discount)
	probs := make([]float32, net.Output().Cols())
	t.numericDiff(net, grad, func() float32 { return policyObjective(net, steps, returns, probs) })
	return nil
}

func (t *Trainer) numericDiff(net, grad *nn.Network, cost func() float32) {
	settings := &fd.Settings{
		Formula:     fd.Forward,
		Step:        float64(t.epsilon),
		OriginKnown: true,
		OriginValue: float64(cost()),
	}

	for l := 0; l < net.Count(); l++ {
		perturb(net.Weight(l), grad.Weight(l), cost, settings)
		perturb(net.Bias(l), grad.Bias(l), cost, settings)
	}
}

// perturb fills g with the forward-difference derivative of cost with respect
// to every element of p. p is restored element by element.
func perturb(p, g *matrix.Matrix, cost func() float32, settings *fd.Settings) {
	for i := 0; i < p.Rows(); i++ {
		for j := 0; j < p.Cols(); j++ {
			saved := p.At(i, j)
			d := fd.Derivative(func(x float64) float64 {
				p.Set(i, j, float32(x))
				return float64(cost())
			}, float64(saved), settings)
			p.Set(i, j, saved)
			g.Set(i, j, float32(d))
		}
	}
}
