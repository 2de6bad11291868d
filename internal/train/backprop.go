package train

import (
	"github.com/born-ml/tinynn/internal/matrix"
	"github.com/born-ml/tinynn/internal/nn"
)

// Backprop computes the mean gradient of Cost over the batch into grad.
//
// For each row: forward, set the output error to pred − target (doubled when
// DoubleError is set) and propagate it backward. grad's layer rows are used
// as error scratch space; its weights and biases receive the gradient.
func (t *Trainer) Backprop(net, grad *nn.Network, in, out *matrix.Matrix) error {
	if err := checkSupervised(net, in, out); err != nil {
		return err
	}
	if err := checkGradient(net, grad); err != nil {
		return err
	}

	scale := float32(1)
	if t.doubleError {
		scale = 2
	}

	grad.Clear()
	for i := 0; i < in.Rows(); i++ {
		copy(net.Input().RowSlice(0), in.RowSlice(i))
		net.Forward()

		clearLayers(grad)
		pred, want := net.Output().RowSlice(0), out.RowSlice(i)
		errs := grad.Output().RowSlice(0)
		for j := range errs {
			errs[j] = scale * (pred[j] - want[j])
		}
		backward(net, grad)
	}

	mean(grad, in.Rows())
	return nil
}

// PolicyBackprop computes the REINFORCE gradient of PolicyObjective into grad.
//
// Discounted returns G are computed once for the whole batch. For each step
// the recorded state is forwarded, P = softmax(output), and the output error
// is (P[a] − 1)·G for the chosen action and P[a]·G for every other action.
// The error is propagated like in Backprop and the result averaged over the
// steps.
//
// The result is the gradient of the policy loss; descending it raises the
// probability of actions followed by positive return.
func (t *Trainer) PolicyBackprop(net, grad *nn.Network, steps []*Step) error {
	if err := checkPolicy(net, steps); err != nil {
		return err
	}
	if err := checkGradient(net, grad); err != nil {
		return err
	}

	returns := DiscountedReturns(Rewards(steps), t.discount)
	p := make([]float32, net.Output().Cols())

	grad.Clear()
	for i, s := range steps {
		copy(net.Input().RowSlice(0), s.State.RowSlice(0))
		net.Forward()
		nn.SoftmaxRow(p, net.Output().RowSlice(0))

		clearLayers(grad)
		errs := grad.Output().RowSlice(0)
		for a := range errs {
			if a == s.Action {
				errs[a] = (p[a] - 1) * returns[i]
			} else {
				errs[a] = p[a] * returns[i]
			}
		}
		backward(net, grad)
	}

	mean(grad, len(steps))
	return nil
}

// backward propagates the error held in grad's output layer back to the
// input, accumulating weight and bias gradients.
//
// Layer l was produced by transition l−1, so its local derivative comes from
// activation l−1 evaluated at layer l's cached output.
func backward(net, grad *nn.Network) {
	for l := net.Count(); l > 0; l-- {
		deriv := net.Activation(l - 1).Derivative()
		out := net.Layer(l).RowSlice(0)
		errs := grad.Layer(l).RowSlice(0)
		prev := net.Layer(l - 1).RowSlice(0)
		prevErrs := grad.Layer(l - 1).RowSlice(0)
		w, gw := net.Weight(l-1), grad.Weight(l-1)
		gb := grad.Bias(l - 1).RowSlice(0)

		for j := range out {
			d := errs[j] * deriv(out[j])
			gb[j] += d
			for k := range prev {
				gw.Set(k, j, gw.At(k, j)+d*prev[k])
				prevErrs[k] += d * w.At(k, j)
			}
		}
	}
}

func clearLayers(g *nn.Network) {
	for l := 0; l <= g.Count(); l++ {
		g.Layer(l).Clear()
	}
}

func mean(g *nn.Network, n int) {
	inv := 1 / float32(n)
	g.Params(func(m *matrix.Matrix) { m.Scale(inv) })
}
