// Package agent drives a policy network through the decide → reward → train
// cycle of policy-gradient reinforcement learning.
//
// An Agent owns the network, the batch of recorded steps and the optimizer.
// The environment calls Decide for every state, Reward once it knows the
// outcome, and Train at the end of an episode. All methods are serialized by
// one lock, so a training pass never overlaps a decision.
package agent

import (
	"errors"
	"fmt"
	"log"
	"math/rand/v2"
	"sync"

	"github.com/born-ml/tinynn/internal/matrix"
	"github.com/born-ml/tinynn/internal/nn"
	"github.com/born-ml/tinynn/internal/optim"
	"github.com/born-ml/tinynn/internal/train"
)

// Common errors.
var (
	ErrNoAllowedAction = errors.New("no allowed action")
	ErrNoSteps         = errors.New("no recorded steps")
	ErrStepOutOfRange  = errors.New("step index out of range")
)

// Config configures an Agent.
type Config struct {
	// Exploration is the probability of replacing the greedy action with a
	// uniformly chosen allowed one. 0 = always greedy.
	Exploration float32

	LearningRate float32     // SGD step size (default: 0.1)
	Discount     float32     // Reward discount factor γ
	Seed         uint64      // Exploration seed. 0 = random.
	Logger       *log.Logger // Receives one line per Train call. nil = silent.
}

// DefaultConfig returns the default agent configuration.
func DefaultConfig() Config {
	return Config{
		Exploration:  0.1,
		LearningRate: 0.1,
		Discount:     0.9,
	}
}

// Agent records decisions taken by a policy network and trains it on them.
type Agent struct {
	mu sync.Mutex

	net       *nn.Network
	grad      *nn.Network
	probs     []float32
	trainer   *train.Trainer
	optimizer *optim.SGD
	rng       *rand.Rand
	logger    *log.Logger

	exploration float32
	steps       []*train.Step
	candidates  []int
	episodes    int
}

// New creates an Agent around net. The output layer width is the number of
// actions.
func New(net *nn.Network, config Config) *Agent {
	if config.LearningRate == 0 {
		config.LearningRate = DefaultConfig().LearningRate
	}

	seed := config.Seed
	if seed == 0 {
		seed = rand.Uint64() //nolint:gosec // Exploration does not need a secure source
	}

	return &Agent{
		net:   net,
		grad:  net.NewGradient(),
		probs: make([]float32, net.Output().Cols()),
		trainer: train.New(train.Config{
			Discount:    config.Discount,
			DoubleError: true,
		}),
		optimizer:   optim.NewSGD(net, optim.SGDConfig{LR: config.LearningRate}),
		rng:         rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)), //nolint:gosec // Deterministic seed for reproducibility
		logger:      config.Logger,
		exploration: config.Exploration,
	}
}

// Network returns the policy network.
func (a *Agent) Network() *nn.Network {
	return a.net
}

// Decide picks an action for state.
//
// The greedy choice is the allowed action with the highest probability
// (ties go to the lowest index). With probability Exploration it is replaced
// by a uniformly chosen allowed action. A nil allowed permits every action.
// The decision is recorded as a step with a copy of state and the
// probability the policy assigned to the chosen action.
func (a *Agent) Decide(state *matrix.Matrix, allowed func(action int) bool) (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, err := a.net.Predict(state); err != nil {
		return -1, fmt.Errorf("decide: %w", err)
	}
	nn.SoftmaxRow(a.probs, a.net.Output().RowSlice(0))
	p := a.probs

	a.candidates = a.candidates[:0]
	best := -1
	for i := range p {
		if allowed != nil && !allowed(i) {
			continue
		}
		a.candidates = append(a.candidates, i)
		if best < 0 || p[i] > p[best] {
			best = i
		}
	}
	if best < 0 {
		return -1, ErrNoAllowedAction
	}

	action := best
	if a.exploration > 0 && a.rng.Float32() < a.exploration {
		action = a.candidates[a.rng.IntN(len(a.candidates))]
	}

	a.steps = append(a.steps, &train.Step{
		State:       state.Clone(),
		Action:      action,
		Probability: p[action],
	})
	return action, nil
}

// Reward assigns r to the most recent step.
func (a *Agent) Reward(r float32) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if len(a.steps) == 0 {
		return ErrNoSteps
	}
	a.steps[len(a.steps)-1].Reward = r
	return nil
}

// RewardAt assigns r to step i, for environments that learn the outcome of a
// decision late.
func (a *Agent) RewardAt(i int, r float32) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if i < 0 || i >= len(a.steps) {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrStepOutOfRange, i, len(a.steps))
	}
	a.steps[i].Reward = r
	return nil
}

// Steps returns the steps recorded since the last Train or Reset.
func (a *Agent) Steps() []train.Step {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([]train.Step, len(a.steps))
	for i, s := range a.steps {
		out[i] = *s
	}
	return out
}

// Reset drops the recorded steps without training.
func (a *Agent) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.steps = nil
}

// Train runs one policy-gradient update on the recorded steps and clears
// them. It returns the recorded policy cost of the batch, measured before
// the update.
func (a *Agent) Train() (float32, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if len(a.steps) == 0 {
		return 0, fmt.Errorf("train: %w", train.ErrEmptyBatch)
	}

	cost := train.RecordedPolicyCost(a.steps)
	if err := a.trainer.PolicyBackprop(a.net, a.grad, a.steps); err != nil {
		return 0, fmt.Errorf("train: %w", err)
	}
	// PolicyBackprop yields the gradient of the loss; descending it raises
	// the probability of well-rewarded actions.
	if err := a.optimizer.Step(a.grad); err != nil {
		return 0, fmt.Errorf("train: %w", err)
	}

	a.episodes++
	if a.logger != nil {
		var total float32
		for _, s := range a.steps {
			total += s.Reward
		}
		a.logger.Printf("episode %d: %d steps, reward %.3f, cost %.4f", a.episodes, len(a.steps), total, cost)
	}
	a.steps = nil
	return cost, nil
}

// Episodes returns the number of completed Train calls.
func (a *Agent) Episodes() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.episodes
}
