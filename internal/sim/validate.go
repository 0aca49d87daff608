package sim

import "fmt"

// ParameterKind identifies which safe range applies to a raw input value.
type ParameterKind int

const (
	KindPower ParameterKind = iota
	KindGrade
	KindRandomness
	KindCadence
)

// Safe numeric ranges per parameter kind. Values outside these ranges are
// clamped before any stateful calculator sees them.
const (
	MaxPowerWatts = 2500.0
	MinGrade      = -30.0
	MaxGrade      = 30.0
	MaxRandomness = 100.0
	MaxCadenceRpm = 220.0

	// coastingPowerWatts is the highest power at which a zero cadence is
	// still plausible (freewheeling with residual power readings).
	coastingPowerWatts = 150.0
)

func (k ParameterKind) String() string {
	switch k {
	case KindPower:
		return "power"
	case KindGrade:
		return "grade"
	case KindRandomness:
		return "randomness"
	case KindCadence:
		return "cadence"
	default:
		return "unknown"
	}
}

// bounds returns the inclusive safe range for a parameter kind.
func (k ParameterKind) bounds() (min, max float64) {
	switch k {
	case KindPower:
		return 0, MaxPowerWatts
	case KindGrade:
		return MinGrade, MaxGrade
	case KindRandomness:
		return 0, MaxRandomness
	case KindCadence:
		return 0, MaxCadenceRpm
	default:
		return 0, 0
	}
}

// Clamp returns a value guaranteed to lie within the safe range for the
// given kind, regardless of the input. Clamping is idempotent.
func Clamp(raw float64, kind ParameterKind) float64 {
	min, max := kind.bounds()
	if raw < min {
		return min
	}
	if raw > max {
		return max
	}
	return raw
}

// Validate reports whether a value is acceptable for the given kind. It
// never mutates and never blocks; the verdict only decides whether the
// engine emits a diagnostic. Cadence validation additionally checks
// plausibility against the concurrently clamped power: a stationary crank
// cannot deliver more than coasting-level power.
func Validate(value float64, kind ParameterKind, safePower float64) (bool, string) {
	min, max := kind.bounds()
	if value < min || value > max {
		return false, fmt.Sprintf("%s %.2f outside safe range [%.1f, %.1f]", kind, value, min, max)
	}
	if kind == KindCadence && value == 0 && safePower > coastingPowerWatts {
		return false, fmt.Sprintf("cadence 0 implausible at %.0f W", safePower)
	}
	return true, ""
}
