package main

import (
	"flag"
	"fmt"
	"math/rand/v2"

	"github.com/born-ml/tinynn/nn"
)

func runGradcheck(args []string) error {
	fs := flag.NewFlagSet("gradcheck", flag.ContinueOnError)
	archFlag := fs.String("arch", "3,5,2", "Layer widths")
	actsFlag := fs.String("act", "", "Activation per transition (default: sigmoid)")
	samples := fs.Int("samples", 8, "Number of random samples or steps")
	policy := fs.Bool("policy", false, "Check the policy gradient instead of the supervised one")
	eps := fs.Float64("eps", 1e-3, "Finite-difference step")
	seed := fs.Uint64("seed", 1, "Random seed")
	if err := fs.Parse(args); err != nil {
		return err
	}

	arch, err := parseArch(*archFlag)
	if err != nil {
		return err
	}
	acts, err := parseActivations(*actsFlag)
	if err != nil {
		return err
	}
	net, err := nn.New(arch, acts)
	if err != nil {
		return err
	}
	rng := rand.New(rand.NewPCG(*seed, *seed+1)) //nolint:gosec // Deterministic seed for reproducibility
	net.Randomize(-1, 1, rng)

	config := nn.DefaultTrainerConfig()
	config.Epsilon = float32(*eps)
	trainer := nn.NewTrainer(config)
	numeric, analytic := net.NewGradient(), net.NewGradient()

	if *policy {
		steps := make([]*nn.Step, *samples)
		for i := range steps {
			state, err := nn.NewMatrix(1, arch[0])
			if err != nil {
				return err
			}
			state.Randomize(-1, 1, rng)
			steps[i] = &nn.Step{State: state, Action: rng.IntN(arch[len(arch)-1]), Reward: float32(rng.IntN(3) - 1)}
		}
		if err := trainer.NumericPolicyGradient(net, numeric, steps); err != nil {
			return err
		}
		if err := trainer.PolicyBackprop(net, analytic, steps); err != nil {
			return err
		}
	} else {
		in, err := nn.NewMatrix(*samples, arch[0])
		if err != nil {
			return err
		}
		out, err := nn.NewMatrix(*samples, arch[len(arch)-1])
		if err != nil {
			return err
		}
		in.Randomize(-1, 1, rng)
		out.Randomize(0, 1, rng)
		if err := trainer.NumericGradient(net, numeric, in, out); err != nil {
			return err
		}
		if err := trainer.Backprop(net, analytic, in, out); err != nil {
			return err
		}
	}

	for l := 0; l < net.Count(); l++ {
		fmt.Printf("transition %d: weights max |diff| = %.6f, biases max |diff| = %.6f\n", l,
			maxAbsDiff(numeric.Weight(l), analytic.Weight(l)),
			maxAbsDiff(numeric.Bias(l), analytic.Bias(l)))
	}
	return nil
}

func maxAbsDiff(a, b *nn.Matrix) float32 {
	var largest float32
	for i := 0; i < a.Rows(); i++ {
		ra, rb := a.RowSlice(i), b.RowSlice(i)
		for j := range ra {
			d := ra[j] - rb[j]
			if d < 0 {
				d = -d
			}
			if d > largest {
				largest = d
			}
		}
	}
	return largest
}
