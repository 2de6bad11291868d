package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/born-ml/tinynn/agent"
	"github.com/born-ml/tinynn/nn"
)

// Corridor actions.
const (
	moveLeft = iota
	moveRight
	wait
	numActions
)

// corridor is a one-dimensional environment: the agent starts at cell 0 and
// is rewarded for reaching the last cell. Like a snake that cannot turn back
// on itself, it may not reverse its previous move without waiting first.
type corridor struct {
	length   int
	pos      int
	last     int
	steps    int
	maxSteps int
}

func newCorridor(length, maxSteps int) *corridor {
	return &corridor{length: length, last: wait, maxSteps: maxSteps}
}

func (c *corridor) reset() {
	c.pos, c.last, c.steps = 0, wait, 0
}

// stateWidth is one-hot position followed by one-hot previous action.
func (c *corridor) stateWidth() int {
	return c.length + numActions
}

func (c *corridor) observe(state *nn.Matrix) {
	row := state.RowSlice(0)
	for i := range row {
		row[i] = 0
	}
	row[c.pos] = 1
	row[c.length+c.last] = 1
}

func (c *corridor) allowed(action int) bool {
	switch action {
	case moveLeft:
		return c.last != moveRight
	case moveRight:
		return c.last != moveLeft
	default:
		return true
	}
}

// step applies action and returns the reward and whether the episode ended.
func (c *corridor) step(action int) (float32, bool) {
	c.steps++
	switch action {
	case moveLeft:
		if c.pos > 0 {
			c.pos--
		}
	case moveRight:
		c.pos++
	}
	c.last = action

	if c.pos == c.length-1 {
		return 1, true
	}
	if c.steps >= c.maxSteps {
		return -1, true
	}
	return 0, false
}

func runCorridor(args []string) error {
	fs := flag.NewFlagSet("corridor", flag.ContinueOnError)
	length := fs.Int("length", 6, "Corridor length")
	episodes := fs.Int("episodes", 500, "Number of training episodes")
	maxSteps := fs.Int("max-steps", 30, "Step limit per episode")
	hidden := fs.Int("hidden", 16, "Hidden layer width")
	lr := fs.Float64("lr", 0.1, "Learning rate")
	explore := fs.Float64("explore", 0.1, "Exploration probability")
	discount := fs.Float64("discount", 0.9, "Reward discount factor")
	seed := fs.Uint64("seed", 1, "Random seed")
	verbose := fs.Bool("v", false, "Log every episode")
	save := fs.String("save", "", "Save the trained policy to this file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *length < 2 {
		return fmt.Errorf("corridor length must be at least 2, got %d", *length)
	}

	env := newCorridor(*length, *maxSteps)
	net, err := nn.New([]int{env.stateWidth(), *hidden, numActions}, []nn.Activation{nn.LeakyReLU, nn.Softmax})
	if err != nil {
		return err
	}
	net.Randomize(-0.5, 0.5, nil)

	config := agent.Config{
		Exploration:  float32(*explore),
		LearningRate: float32(*lr),
		Discount:     float32(*discount),
		Seed:         *seed,
	}
	if *verbose {
		config.Logger = log.New(os.Stdout, "", 0)
	}
	a := agent.New(net, config)

	reached, steps, err := playEpisodes(a, env, *episodes)
	if err != nil {
		return err
	}
	fmt.Printf("reached the goal in %d of the last %d episodes, %d steps on average\n",
		reached, min(*episodes, 100), steps)

	if *save != "" {
		if err := nn.SaveFile(*save, net); err != nil {
			return err
		}
		fmt.Printf("Saved %s\n", *save)
	}
	return nil
}

// playEpisodes trains a on env. It reports how often the goal was reached in
// the last 100 episodes and their average length.
func playEpisodes(a *agent.Agent, env *corridor, episodes int) (int, int, error) {
	state, err := nn.NewMatrix(1, env.stateWidth())
	if err != nil {
		return 0, 0, err
	}

	var reached, total, counted int
	for ep := 0; ep < episodes; ep++ {
		env.reset()
		for {
			env.observe(state)
			action, err := a.Decide(state, env.allowed)
			if err != nil {
				return 0, 0, err
			}
			reward, done := env.step(action)
			if err := a.Reward(reward); err != nil {
				return 0, 0, err
			}
			if done {
				if ep >= episodes-100 {
					counted++
					total += env.steps
					if reward > 0 {
						reached++
					}
				}
				break
			}
		}
		if _, err := a.Train(); err != nil {
			return 0, 0, err
		}
	}
	if counted == 0 {
		return 0, 0, nil
	}
	return reached, total / counted, nil
}
