package train

import (
	"github.com/born-ml/tinynn/internal/matrix"
)

// Step is one recorded reinforcement-learning decision.
type Step struct {
	State       *matrix.Matrix // 1×input-width snapshot taken at decision time
	Action      int            // Chosen action index
	Probability float32        // Probability assigned to Action at decision time
	Reward      float32        // Reward observed after the environment responded
}

// DiscountedReturns computes G backward through rewards:
//
//	G[last] = r[last]
//	G[i]    = r[i] + gamma·G[i+1]
//
// Earlier steps receive geometrically decayed credit for later rewards.
func DiscountedReturns(rewards []float32, gamma float32) []float32 {
	g := make([]float32, len(rewards))
	var next float32
	for i := len(rewards) - 1; i >= 0; i-- {
		next = rewards[i] + gamma*next
		g[i] = next
	}
	return g
}

// Rewards returns the reward of every step, in order.
func Rewards(steps []*Step) []float32 {
	r := make([]float32, len(steps))
	for i, s := range steps {
		r[i] = s.Reward
	}
	return r
}
