package sim

import "math"

// PowerManager turns a target power plus perturbation into a smoothed,
// mechanically plausible instantaneous wattage. It keeps the previous
// output across calls so step changes in target power appear as an
// exponential approach rather than a jump.
type PowerManager struct {
	output float64

	smoothTau float64 // seconds, approach to target
	restTau   float64 // seconds, decay while resting
	derateRpm float64 // cadence below which achievable power is derated
	derateMin float64 // derate floor fraction
}

// NewPowerManager creates a power manager with the given time constants.
func NewPowerManager(smoothTau, restTau, derateRpm float64) *PowerManager {
	return &PowerManager{
		smoothTau: smoothTau,
		restTau:   restTau,
		derateRpm: derateRpm,
		derateMin: 0.2,
	}
}

// Smooth advances the smoothing state over dt seconds and returns the
// realistic output wattage. While resting the output decays toward zero
// regardless of target. Pedaling slower than the derate cadence caps
// achievable power: torque alone cannot make up for a near-stalled crank.
func (m *PowerManager) Smooth(targetPower, cadenceRpm, perturbation float64, isResting bool, dt float64) float64 {
	desired := targetPower + perturbation
	tau := m.smoothTau

	if isResting {
		desired = 0
		tau = m.restTau
	} else if cadenceRpm < m.derateRpm {
		factor := cadenceRpm / m.derateRpm
		if factor < m.derateMin {
			factor = m.derateMin
		}
		desired *= factor
	}

	alpha := 1 - math.Exp(-dt/tau)
	m.output += alpha * (desired - m.output)
	if m.output < 0 {
		m.output = 0
	}
	return m.output
}

// Reset clears the smoothing history.
func (m *PowerManager) Reset() {
	m.output = 0
}
