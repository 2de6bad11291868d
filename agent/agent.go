// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package agent trains a policy network from its own decisions.
//
// The environment asks the agent for an action, reports the reward, and calls
// Train at the end of each episode:
//
//	a := agent.New(net, agent.DefaultConfig())
//	for !done {
//	    action, err := a.Decide(state, env.Allowed)
//	    ...
//	    _ = a.Reward(env.Apply(action))
//	}
//	cost, err := a.Train()
package agent

import (
	"github.com/born-ml/tinynn/internal/agent"
	"github.com/born-ml/tinynn/nn"
)

// Agent records decisions of a policy network and trains it on them.
type Agent = agent.Agent

// Config configures an Agent.
type Config = agent.Config

// Errors re-exported for errors.Is checks.
var (
	ErrNoAllowedAction = agent.ErrNoAllowedAction
	ErrNoSteps         = agent.ErrNoSteps
	ErrStepOutOfRange  = agent.ErrStepOutOfRange
)

// New creates an Agent around net.
func New(net *nn.Network, config Config) *Agent {
	return agent.New(net, config)
}

// DefaultConfig returns the default agent configuration.
func DefaultConfig() Config {
	return agent.DefaultConfig()
}
