// Package sim implements the virtual cyclist simulation pipeline: a
// per-tick engine that turns target inputs (power, grade, randomness)
// into plausible instantaneous telemetry (power, speed, cadence, gear,
// fatigue) using a stochastic variance process, first-order power
// smoothing, a gear/fatigue state machine and a power-balance physics
// model.
package sim

// SimulationInput carries the caller-supplied targets for one tick.
// All fields are read-only for the duration of the call.
type SimulationInput struct {
	// TargetPower is the desired rider output in watts.
	TargetPower int `json:"target_power"`

	// ManualCadence, when non-nil, overrides the computed cadence.
	ManualCadence *int `json:"manual_cadence,omitempty"`

	// GradePercent is the road grade (rise/run × 100), signed.
	GradePercent float64 `json:"grade_percent"`

	// Randomness is the stochasticity intensity in [0, 100].
	// Zero disables the power perturbation entirely.
	Randomness int `json:"randomness"`

	// IsResting indicates the rider is coasting, off the pedals.
	IsResting bool `json:"is_resting"`
}

// Gear is a simplified two-number drivetrain state: chainring and cog
// tooth counts. Both values are always positive.
type Gear struct {
	Front int `json:"front"`
	Rear  int `json:"rear"`
}

// SimulationState is the immutable output snapshot of one engine tick.
type SimulationState struct {
	// PowerWatts is the smoothed, realistic instantaneous output.
	PowerWatts int `json:"power_watts"`

	// SpeedMps is the speed derived from power and grade.
	SpeedMps float64 `json:"speed_mps"`

	// CadenceRpm is the effective cadence, manual or computed.
	CadenceRpm int `json:"cadence_rpm"`

	// Fatigue is the accumulated physical load in [0, 1].
	Fatigue float64 `json:"fatigue"`

	// Noise is the last stochastic power perturbation, exposed for
	// diagnostics and UI.
	Noise float64 `json:"noise"`

	// Gear is the current drivetrain state.
	Gear Gear `json:"gear"`

	// TargetCadence is the cadence the rider is being steered toward.
	TargetCadence float64 `json:"target_cadence"`
}
