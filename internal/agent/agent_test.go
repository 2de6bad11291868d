package agent

import (
	"bytes"
	"log"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/tinynn/internal/matrix"
	"github.com/born-ml/tinynn/internal/nn"
	"github.com/born-ml/tinynn/internal/train"
)

func newBandit(t *testing.T, config Config) (*Agent, *matrix.Matrix) {
	t.Helper()
	net, err := nn.New([]int{1, 2}, []nn.Activation{nn.Softmax})
	require.NoError(t, err)
	state, err := matrix.FromSlice(1, 1, []float32{1})
	require.NoError(t, err)
	return New(net, config), state
}

func TestDecide_RecordsStep(t *testing.T) {
	a, state := newBandit(t, Config{Seed: 1})

	action, err := a.Decide(state, nil)
	require.NoError(t, err)
	// Zero parameters: equal probabilities, ties go to the lowest index.
	assert.Equal(t, 0, action)

	state.Set(0, 0, 42)
	steps := a.Steps()
	require.Len(t, steps, 1)
	assert.Equal(t, 0, steps[0].Action)
	assert.InDelta(t, 0.5, steps[0].Probability, 1e-6)
	assert.Equal(t, float32(1), steps[0].State.At(0, 0), "state is copied")
	assert.Zero(t, steps[0].Reward)
}

func TestDecide_Mask(t *testing.T) {
	a, state := newBandit(t, Config{Exploration: 1, Seed: 3})

	onlyOne := func(action int) bool { return action == 1 }
	for i := 0; i < 20; i++ {
		action, err := a.Decide(state, onlyOne)
		require.NoError(t, err)
		assert.Equal(t, 1, action)
	}

	_, err := a.Decide(state, func(int) bool { return false })
	assert.ErrorIs(t, err, ErrNoAllowedAction)
	assert.Len(t, a.Steps(), 20, "rejected decisions are not recorded")
}

func TestDecide_ShapeMismatch(t *testing.T) {
	a, _ := newBandit(t, Config{Seed: 1})
	_, err := a.Decide(matrix.MustNew(1, 3), nil)
	assert.ErrorIs(t, err, matrix.ErrShapeMismatch)
	assert.Empty(t, a.Steps())
}

func TestReward(t *testing.T) {
	a, state := newBandit(t, Config{Seed: 1})
	assert.ErrorIs(t, a.Reward(1), ErrNoSteps)

	for i := 0; i < 3; i++ {
		_, err := a.Decide(state, nil)
		require.NoError(t, err)
	}
	require.NoError(t, a.Reward(2))
	require.NoError(t, a.RewardAt(0, -1))
	assert.ErrorIs(t, a.RewardAt(3, 1), ErrStepOutOfRange)
	assert.ErrorIs(t, a.RewardAt(-1, 1), ErrStepOutOfRange)

	steps := a.Steps()
	assert.Equal(t, []float32{-1, 0, 2}, []float32{steps[0].Reward, steps[1].Reward, steps[2].Reward})

	a.Reset()
	assert.Empty(t, a.Steps())
}

func TestTrain_EmptyBatch(t *testing.T) {
	a, _ := newBandit(t, Config{Seed: 1})
	_, err := a.Train()
	assert.ErrorIs(t, err, train.ErrEmptyBatch)
}

func TestTrain_LearnsBandit(t *testing.T) {
	var logs bytes.Buffer
	a, state := newBandit(t, Config{
		Exploration:  0.3,
		LearningRate: 0.5,
		Seed:         7,
		Logger:       log.New(&logs, "", 0),
	})

	for i := 0; i < 100; i++ {
		action, err := a.Decide(state, nil)
		require.NoError(t, err)
		reward := float32(-1)
		if action == 1 {
			reward = 1
		}
		require.NoError(t, a.Reward(reward))
		_, err = a.Train()
		require.NoError(t, err)
	}

	assert.Empty(t, a.Steps(), "Train clears the batch")
	assert.Equal(t, 100, a.Episodes())
	assert.Contains(t, logs.String(), "episode 100: 1 steps")

	probs := matrix.MustNew(1, 2)
	_, err := a.Network().Predict(state)
	require.NoError(t, err)
	require.NoError(t, a.Network().Probabilities(probs))
	assert.Greater(t, probs.At(0, 1), float32(0.9))

	greedy := New(a.Network(), Config{Seed: 1})
	action, err := greedy.Decide(state, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, action)
}

func TestTrain_DiscountCreditsEarlierSteps(t *testing.T) {
	// Only the second step is rewarded; with a discount the first step's
	// action gains probability as well.
	net, err := nn.New([]int{2, 2}, []nn.Activation{nn.Softmax})
	require.NoError(t, err)
	a := New(net, Config{LearningRate: 0.5, Discount: 0.9, Seed: 1})

	first, err := matrix.FromSlice(1, 2, []float32{1, 0})
	require.NoError(t, err)
	second, err := matrix.FromSlice(1, 2, []float32{0, 1})
	require.NoError(t, err)

	onlyOne := func(action int) bool { return action == 1 }
	_, err = a.Decide(first, onlyOne)
	require.NoError(t, err)
	_, err = a.Decide(second, onlyOne)
	require.NoError(t, err)
	require.NoError(t, a.Reward(1))
	_, err = a.Train()
	require.NoError(t, err)

	probs := matrix.MustNew(1, 2)
	_, err = net.Predict(first)
	require.NoError(t, err)
	require.NoError(t, net.Probabilities(probs))
	assert.Greater(t, probs.At(0, 1), float32(0.5))
}

func TestConcurrentUse(t *testing.T) {
	a, _ := newBandit(t, Config{Exploration: 0.5, Seed: 11})

	var wg sync.WaitGroup
	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			state := matrix.MustNew(1, 1)
			state.Set(0, 0, 1)
			for i := 0; i < 50; i++ {
				if _, err := a.Decide(state, nil); err != nil {
					t.Error(err)
					return
				}
				_ = a.Reward(1)
				if i%10 == 9 {
					// Another goroutine may have drained the batch.
					_, _ = a.Train()
				}
			}
		}()
	}
	wg.Wait()
	assert.Positive(t, a.Episodes())
}
