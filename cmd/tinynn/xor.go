package main

import (
	"flag"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/born-ml/tinynn/nn"
	"github.com/born-ml/tinynn/optim"
)

// xorTable holds the XOR truth table as rows of [a, b, a^b].
var xorTable = []float32{
	0, 0, 0,
	0, 1, 1,
	1, 0, 1,
	1, 1, 0,
}

func xorData() (inputs, targets *nn.Matrix, err error) {
	table, err := nn.MatrixFromSlice(4, 3, xorTable)
	if err != nil {
		return nil, nil, err
	}
	if inputs, err = nn.NewMatrix(4, 2); err != nil {
		return nil, nil, err
	}
	if targets, err = nn.NewMatrix(4, 1); err != nil {
		return nil, nil, err
	}
	for i := 0; i < table.Rows(); i++ {
		copy(inputs.RowSlice(i), table.RowSlice(i)[:2])
		copy(targets.RowSlice(i), table.RowSlice(i)[2:])
	}
	return inputs, targets, nil
}

// parseArch parses a comma separated list of layer widths such as "2,4,1".
func parseArch(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	arch := make([]int, 0, len(parts))
	for _, p := range parts {
		w, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("invalid layer width %q: %w", p, err)
		}
		arch = append(arch, w)
	}
	return arch, nil
}

// parseActivations parses a comma separated list of activation names. An
// empty string yields nil (Sigmoid everywhere).
func parseActivations(s string) ([]nn.Activation, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	acts := make([]nn.Activation, 0, len(parts))
	for _, p := range parts {
		a, err := nn.ParseActivation(strings.TrimSpace(p))
		if err != nil {
			return nil, err
		}
		acts = append(acts, a)
	}
	return acts, nil
}

func runXOR(args []string) error {
	fs := flag.NewFlagSet("xor", flag.ContinueOnError)
	archFlag := fs.String("arch", "2,2,1", "Layer widths")
	actsFlag := fs.String("act", "", "Activation per transition (default: sigmoid)")
	epochs := fs.Int("epochs", 20000, "Number of training epochs")
	lr := fs.Float64("lr", 1, "Learning rate")
	momentum := fs.Float64("momentum", 0, "SGD momentum")
	useAdam := fs.Bool("adam", false, "Use Adam instead of SGD")
	shuffle := fs.Bool("shuffle", false, "Shuffle rows before every epoch")
	seed := fs.Uint64("seed", 69, "Random seed")
	save := fs.String("save", "", "Save the trained network to this file")
	load := fs.String("load", "", "Load the network from this file instead of training")
	if err := fs.Parse(args); err != nil {
		return err
	}

	acts, err := parseActivations(*actsFlag)
	if err != nil {
		return err
	}
	inputs, targets, err := xorData()
	if err != nil {
		return err
	}
	trainer := nn.NewTrainer(nn.DefaultTrainerConfig())

	var net *nn.Network
	if *load != "" {
		if net, err = nn.LoadNetworkFile(*load, acts); err != nil {
			return fmt.Errorf("failed to load %s: %w", *load, err)
		}
		fmt.Printf("Loaded %s %v\n", *load, net.Arch())
	} else {
		arch, err := parseArch(*archFlag)
		if err != nil {
			return err
		}
		if net, err = nn.New(arch, acts); err != nil {
			return err
		}
		rng := rand.New(rand.NewPCG(*seed, *seed+1)) //nolint:gosec // Deterministic seed for reproducibility
		net.Randomize(0, 1, rng)
		if err := trainXOR(net, trainer, inputs, targets, rng, xorOptions{
			epochs:   *epochs,
			lr:       float32(*lr),
			momentum: float32(*momentum),
			adam:     *useAdam,
			shuffle:  *shuffle,
		}); err != nil {
			return err
		}
	}

	cost, err := trainer.Cost(net, inputs, targets)
	if err != nil {
		return err
	}
	fmt.Printf("cost = %f\n", cost)
	for i := 0; i < inputs.Rows(); i++ {
		out, err := net.Predict(inputs.Row(i))
		if err != nil {
			return err
		}
		fmt.Printf("%v ^ %v = %f\n", inputs.At(i, 0), inputs.At(i, 1), out.At(0, 0))
	}

	if *save != "" {
		if err := nn.SaveFile(*save, net); err != nil {
			return err
		}
		fmt.Printf("Saved %s\n", *save)
	}
	return nil
}

type xorOptions struct {
	epochs   int
	lr       float32
	momentum float32
	adam     bool
	shuffle  bool
}

func trainXOR(net *nn.Network, trainer *nn.Trainer, inputs, targets *nn.Matrix, rng *rand.Rand, opts xorOptions) error {
	var optimizer optim.Optimizer
	if opts.adam {
		optimizer = optim.NewAdam(net, optim.AdamConfig{LR: opts.lr})
	} else {
		optimizer = optim.NewSGD(net, optim.SGDConfig{LR: opts.lr, Momentum: opts.momentum})
	}

	// Shuffling permutes whole samples, so inputs and targets travel together.
	table, err := nn.NewMatrix(inputs.Rows(), inputs.Cols()+targets.Cols())
	if err != nil {
		return err
	}
	for i := 0; i < table.Rows(); i++ {
		copy(table.RowSlice(i), inputs.RowSlice(i))
		copy(table.RowSlice(i)[inputs.Cols():], targets.RowSlice(i))
	}

	grad := net.NewGradient()
	for epoch := 0; epoch < opts.epochs; epoch++ {
		if opts.shuffle {
			table.ShuffleRows(rng)
			for i := 0; i < table.Rows(); i++ {
				copy(inputs.RowSlice(i), table.RowSlice(i)[:inputs.Cols()])
				copy(targets.RowSlice(i), table.RowSlice(i)[inputs.Cols():])
			}
		}
		if err := trainer.Backprop(net, grad, inputs, targets); err != nil {
			return err
		}
		if err := optimizer.Step(grad); err != nil {
			return err
		}
		if epoch%(opts.epochs/10+1) == 0 {
			cost, err := trainer.Cost(net, inputs, targets)
			if err != nil {
				return err
			}
			fmt.Printf("epoch %6d: cost = %f\n", epoch, cost)
		}
	}
	return nil
}
