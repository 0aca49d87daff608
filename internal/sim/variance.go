package sim

import (
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// VarianceProcess is a mean-reverting (Ornstein–Uhlenbeck style)
// stochastic generator for the natural fluctuation of rider power. The
// running value is pulled back toward zero while being perturbed by
// Gaussian noise:
//
//	x(t+dt) = x(t) + θ·(0 − x(t))·dt + σ·√dt·N(0,1)
//
// θ and σ scale with the randomness level; the output is hard-bounded
// relative to target power so it never dominates the signal at low power.
type VarianceProcess struct {
	value  float64
	normal distuv.Normal

	sigmaFraction float64 // σ at full randomness, as a fraction of target power
	boundFraction float64 // hard bound as a fraction of target power
}

// Reversion rate range: sluggish drift at low randomness, quick jitter at
// full randomness.
const (
	varianceThetaMin  = 0.5
	varianceThetaSpan = 1.5
)

// NewVarianceProcess creates a variance process. src may be nil, in which
// case the global rand source is used; tests pass a seeded source for
// determinism.
func NewVarianceProcess(sigmaFraction, boundFraction float64, src rand.Source) *VarianceProcess {
	return &VarianceProcess{
		normal:        distuv.Normal{Mu: 0, Sigma: 1, Src: src},
		sigmaFraction: sigmaFraction,
		boundFraction: boundFraction,
	}
}

// Advance integrates the process over dt seconds and returns the new
// perturbation in watts. A randomness of zero (or a non-positive target)
// resets the state and returns exactly 0. The effective reversion step
// θ·dt is capped at 1 so the integration stays stable across multi-second
// stalls.
func (v *VarianceProcess) Advance(randomness int, targetPower, dt float64) float64 {
	if randomness <= 0 || targetPower <= 0 {
		v.value = 0
		return 0
	}

	level := float64(randomness) / 100.0
	theta := varianceThetaMin + varianceThetaSpan*level
	sigma := v.sigmaFraction * level * targetPower

	step := theta * dt
	if step > 1 {
		step = 1
	}

	v.value += step*(0-v.value) + sigma*math.Sqrt(dt)*v.normal.Rand()

	bound := v.boundFraction * targetPower
	if v.value > bound {
		v.value = bound
	} else if v.value < -bound {
		v.value = -bound
	}
	return v.value
}

// Reset clears the running value.
func (v *VarianceProcess) Reset() {
	v.value = 0
}
