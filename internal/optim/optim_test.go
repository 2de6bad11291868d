package optim_test

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/born-ml/tinynn/internal/matrix"
	"github.com/born-ml/tinynn/internal/nn"
	"github.com/born-ml/tinynn/internal/optim"
	"github.com/born-ml/tinynn/internal/train"
)

// Helper to check float equality with tolerance.
func floatEqual(a, b, eps float32) bool {
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return diff < eps
}

// newPair returns a 1→1 network with weight w and bias b, plus a gradient
// network holding gw and gb.
func newPair(t *testing.T, w, b, gw, gb float32) (*nn.Network, *nn.Network) {
	t.Helper()
	net, err := nn.New([]int{1, 1}, nil)
	if err != nil {
		t.Fatalf("Failed to create network: %v", err)
	}
	net.Weight(0).Set(0, 0, w)
	net.Bias(0).Set(0, 0, b)

	grad := net.NewGradient()
	grad.Weight(0).Set(0, 0, gw)
	grad.Bias(0).Set(0, 0, gb)
	return net, grad
}

// TestDescendAscend tests the stateless updates.
func TestDescendAscend(t *testing.T) {
	net, grad := newPair(t, 2.0, 1.0, 1.0, -0.5)

	if err := optim.Descend(net, grad, 0.1); err != nil {
		t.Fatalf("Descend: %v", err)
	}
	if got := net.Weight(0).At(0, 0); !floatEqual(got, 1.9, 1e-6) {
		t.Errorf("Descend weight: got %f, want 1.9", got)
	}
	if got := net.Bias(0).At(0, 0); !floatEqual(got, 1.05, 1e-6) {
		t.Errorf("Descend bias: got %f, want 1.05", got)
	}

	if err := optim.Ascend(net, grad, 0.1); err != nil {
		t.Fatalf("Ascend: %v", err)
	}
	if got := net.Weight(0).At(0, 0); !floatEqual(got, 2.0, 1e-6) {
		t.Errorf("Ascend weight: got %f, want 2.0", got)
	}
	if got := net.Bias(0).At(0, 0); !floatEqual(got, 1.0, 1e-6) {
		t.Errorf("Ascend bias: got %f, want 1.0", got)
	}
}

// TestSGD_SimpleUpdate tests SGD without momentum.
func TestSGD_SimpleUpdate(t *testing.T) {
	net, grad := newPair(t, 2.0, 0, 1.0, 0)
	optimizer := optim.NewSGD(net, optim.SGDConfig{LR: 0.1})

	if err := optimizer.Step(grad); err != nil {
		t.Fatalf("Step: %v", err)
	}

	// Expected: x_new = x_old - lr * grad = 2.0 - 0.1 * 1.0 = 1.9
	if got := net.Weight(0).At(0, 0); !floatEqual(got, 1.9, 1e-6) {
		t.Errorf("SGD update: got %f, want 1.9", got)
	}
}

// TestSGD_Maximize tests gradient ascent.
func TestSGD_Maximize(t *testing.T) {
	net, grad := newPair(t, 2.0, 0, 1.0, 0)
	optimizer := optim.NewSGD(net, optim.SGDConfig{LR: 0.1, Maximize: true})

	if err := optimizer.Step(grad); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if got := net.Weight(0).At(0, 0); !floatEqual(got, 2.1, 1e-6) {
		t.Errorf("SGD ascent: got %f, want 2.1", got)
	}
}

// TestSGD_WithMomentum tests SGD with momentum.
func TestSGD_WithMomentum(t *testing.T) {
	net, grad := newPair(t, 1.0, 0, 1.0, 0)
	optimizer := optim.NewSGD(net, optim.SGDConfig{LR: 0.1, Momentum: 0.9})

	// First step: v = 1.0, x = 1.0 - 0.1 = 0.9
	if err := optimizer.Step(grad); err != nil {
		t.Fatalf("Step 1: %v", err)
	}
	if got := net.Weight(0).At(0, 0); !floatEqual(got, 0.9, 1e-6) {
		t.Errorf("Step 1: got %f, want 0.9", got)
	}

	// Second step: v = 0.9*1.0 + 1.0 = 1.9, x = 0.9 - 0.19 = 0.71
	if err := optimizer.Step(grad); err != nil {
		t.Fatalf("Step 2: %v", err)
	}
	if got := net.Weight(0).At(0, 0); !floatEqual(got, 0.71, 1e-5) {
		t.Errorf("Step 2: got %f, want 0.71", got)
	}
}

// TestSGD_DefaultLR tests the default learning rate.
func TestSGD_DefaultLR(t *testing.T) {
	net, _ := newPair(t, 0, 0, 0, 0)
	optimizer := optim.NewSGD(net, optim.SGDConfig{})
	if optimizer.GetLR() != 0.01 {
		t.Errorf("default LR: got %f, want 0.01", optimizer.GetLR())
	}
	optimizer.SetLR(0.5)
	if optimizer.GetLR() != 0.5 {
		t.Errorf("SetLR: got %f, want 0.5", optimizer.GetLR())
	}
}

// TestAdam_FirstStep tests that the first Adam step moves by about lr.
func TestAdam_FirstStep(t *testing.T) {
	net, grad := newPair(t, 1.0, 1.0, 0.5, -2.0)
	optimizer := optim.NewAdam(net, optim.AdamConfig{LR: 0.01})

	if err := optimizer.Step(grad); err != nil {
		t.Fatalf("Step: %v", err)
	}

	// With bias correction, m̂ = g and v̂ = g², so the step is lr * sign(g).
	if got := net.Weight(0).At(0, 0); !floatEqual(got, 0.99, 1e-5) {
		t.Errorf("Adam weight: got %f, want 0.99", got)
	}
	if got := net.Bias(0).At(0, 0); !floatEqual(got, 1.01, 1e-5) {
		t.Errorf("Adam bias: got %f, want 1.01", got)
	}
	if optimizer.GetTimestep() != 1 {
		t.Errorf("timestep: got %d, want 1", optimizer.GetTimestep())
	}
}

// TestIncompatibleGradient tests that mismatched gradients are rejected.
func TestIncompatibleGradient(t *testing.T) {
	net, _ := newPair(t, 0, 0, 0, 0)
	other, err := nn.New([]int{1, 2}, nil)
	if err != nil {
		t.Fatal(err)
	}

	optimizers := map[string]optim.Optimizer{
		"sgd":  optim.NewSGD(net, optim.SGDConfig{}),
		"adam": optim.NewAdam(net, optim.AdamConfig{}),
	}
	for name, o := range optimizers {
		if err := o.Step(other); !errors.Is(err, optim.ErrIncompatibleGradient) {
			t.Errorf("%s: expected ErrIncompatibleGradient, got %v", name, err)
		}
	}
	if err := optim.Descend(net, other, 1); !errors.Is(err, optim.ErrIncompatibleGradient) {
		t.Errorf("Descend: expected ErrIncompatibleGradient, got %v", err)
	}
}

// TestTrainingReducesCost runs backprop with each optimizer on XOR.
func TestTrainingReducesCost(t *testing.T) {
	in, _ := matrix.FromSlice(4, 2, []float32{0, 0, 0, 1, 1, 0, 1, 1})
	out, _ := matrix.FromSlice(4, 1, []float32{0, 1, 1, 0})
	trainer := train.New(train.DefaultConfig())

	newOptimizers := map[string]func(*nn.Network) optim.Optimizer{
		"sgd":      func(n *nn.Network) optim.Optimizer { return optim.NewSGD(n, optim.SGDConfig{LR: 0.5}) },
		"momentum": func(n *nn.Network) optim.Optimizer { return optim.NewSGD(n, optim.SGDConfig{LR: 0.1, Momentum: 0.9}) },
		"adam":     func(n *nn.Network) optim.Optimizer { return optim.NewAdam(n, optim.AdamConfig{LR: 0.05}) },
	}
	for name, newOptimizer := range newOptimizers {
		t.Run(name, func(t *testing.T) {
			net, err := nn.New([]int{2, 4, 1}, nil)
			if err != nil {
				t.Fatal(err)
			}
			net.Randomize(-1, 1, rand.New(rand.NewPCG(11, 13)))
			optimizer := newOptimizer(net)
			grad := net.NewGradient()

			before, err := trainer.Cost(net, in, out)
			if err != nil {
				t.Fatal(err)
			}
			for i := 0; i < 200; i++ {
				if err := trainer.Backprop(net, grad, in, out); err != nil {
					t.Fatal(err)
				}
				if err := optimizer.Step(grad); err != nil {
					t.Fatal(err)
				}
			}
			after, err := trainer.Cost(net, in, out)
			if err != nil {
				t.Fatal(err)
			}
			if after >= before {
				t.Errorf("cost did not decrease: before %f, after %f", before, after)
			}
		})
	}
}
