package optim

import (
	"github.com/chewxy/math32"

	"github.com/born-ml/tinynn/internal/matrix"
	"github.com/born-ml/tinynn/internal/nn"
)

// Adam implements the Adam optimizer (Adaptive Moment Estimation).
//
// Update rule:
//
//	m = beta1 * m + (1 - beta1) * g
//	v = beta2 * v + (1 - beta2) * g²
//	m̂ = m / (1 - beta1^t)
//	v̂ = v / (1 - beta2^t)
//	param = param - lr * m̂ / (sqrt(v̂) + eps)
//
// Example:
//
//	optimizer := optim.NewAdam(net, optim.AdamConfig{LR: 0.01})
type Adam struct {
	net   *nn.Network
	lr    float32
	beta1 float32
	beta2 float32
	eps   float32
	t     int         // Timestep for bias correction
	m     *nn.Network // First moment estimates
	v     *nn.Network // Second moment estimates
}

// AdamConfig holds configuration for Adam optimizer.
type AdamConfig struct {
	LR    float32    // Learning rate (default: 0.001)
	Betas [2]float32 // Coefficients for computing running averages (default: [0.9, 0.999])
	Eps   float32    // Term for numerical stability (default: 1e-8)
}

// NewAdam creates a new Adam optimizer for net.
func NewAdam(net *nn.Network, config AdamConfig) *Adam {
	if config.LR == 0 {
		config.LR = 0.001
	}
	if config.Betas[0] == 0 {
		config.Betas[0] = 0.9
	}
	if config.Betas[1] == 0 {
		config.Betas[1] = 0.999
	}
	if config.Eps == 0 {
		config.Eps = 1e-8
	}

	return &Adam{
		net:   net,
		lr:    config.LR,
		beta1: config.Betas[0],
		beta2: config.Betas[1],
		eps:   config.Eps,
		m:     net.NewGradient(),
		v:     net.NewGradient(),
	}
}

// Step performs a single optimization step.
func (a *Adam) Step(grad *nn.Network) error {
	if err := checkGradient(a.net, grad); err != nil {
		return err
	}
	a.t++

	biasCorrection1 := 1 - math32.Pow(a.beta1, float32(a.t))
	biasCorrection2 := 1 - math32.Pow(a.beta2, float32(a.t))

	for l := 0; l < a.net.Count(); l++ {
		a.update(a.net.Weight(l), grad.Weight(l), a.m.Weight(l), a.v.Weight(l), biasCorrection1, biasCorrection2)
		a.update(a.net.Bias(l), grad.Bias(l), a.m.Bias(l), a.v.Bias(l), biasCorrection1, biasCorrection2)
	}
	return nil
}

func (a *Adam) update(param, grad, m, v *matrix.Matrix, biasCorrection1, biasCorrection2 float32) {
	for r := 0; r < param.Rows(); r++ {
		p, g, mr, vr := param.RowSlice(r), grad.RowSlice(r), m.RowSlice(r), v.RowSlice(r)
		for i := range p {
			mr[i] = a.beta1*mr[i] + (1-a.beta1)*g[i]
			vr[i] = a.beta2*vr[i] + (1-a.beta2)*g[i]*g[i]

			mHat := mr[i] / biasCorrection1
			vHat := vr[i] / biasCorrection2

			p[i] -= a.lr * mHat / (math32.Sqrt(vHat) + a.eps)
		}
	}
}

// GetLR returns the current learning rate.
func (a *Adam) GetLR() float32 {
	return a.lr
}

// SetLR updates the learning rate.
func (a *Adam) SetLR(lr float32) {
	a.lr = lr
}

// GetTimestep returns the number of steps taken.
func (a *Adam) GetTimestep() int {
	return a.t
}
