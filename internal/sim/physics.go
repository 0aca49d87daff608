package sim

import (
	"math"

	"github.com/veloforge/ridesim/internal/config"
)

// PhysicsParameters is the immutable physical configuration of a rider
// and bike. It is supplied once at engine construction and reused by
// every physics call.
type PhysicsParameters struct {
	RiderMassKg          float64
	BikeMassKg           float64
	CdA                  float64 // aerodynamic drag area (m²)
	Crr                  float64 // rolling resistance coefficient
	AirDensity           float64 // kg/m³
	DrivetrainEfficiency float64 // fraction of pedal power reaching the wheel
	Gravity              float64 // m/s²
}

// Solver limits. Speeds above 40 m/s (144 km/h) are outside the model's
// plausible range even on steep descents.
const (
	maxSolveSpeedMps = 40.0
	solveIterations  = 48
	solveTolerance   = 1e-3
)

// DefaultPhysicsParameters returns the built-in rider/bike configuration.
func DefaultPhysicsParameters() PhysicsParameters {
	return PhysicsParametersFromTuning(config.EmptyTuningConfig())
}

// PhysicsParametersFromTuning builds PhysicsParameters from a loaded
// TuningConfig. Use this in production code where the TuningConfig is
// already loaded.
func PhysicsParametersFromTuning(cfg *config.TuningConfig) PhysicsParameters {
	return PhysicsParameters{
		RiderMassKg:          cfg.GetRiderMassKg(),
		BikeMassKg:           cfg.GetBikeMassKg(),
		CdA:                  cfg.GetCdA(),
		Crr:                  cfg.GetCrr(),
		AirDensity:           cfg.GetAirDensity(),
		DrivetrainEfficiency: cfg.GetDrivetrainEfficiency(),
		Gravity:              9.81,
	}
}

// TotalMassKg returns the combined rider and bike mass.
func (p PhysicsParameters) TotalMassKg() float64 {
	return p.RiderMassKg + p.BikeMassKg
}

// Speed solves for the speed (m/s) at which propulsive power balances
// gravitational, rolling and aerodynamic resistance:
//
//	P_wheel = ½·ρ·CdA·v³ + (m·g·sinθ + Crr·m·g·cosθ)·v
//
// The cubic is solved by bisection over [0, maxSolveSpeedMps], which is
// robust for steep descents where linear resistance is negative. Returns
// 0 when the resolved speed is not positive (insufficient power on a
// steep climb). For fixed grade the result is monotone non-decreasing in
// power.
func Speed(powerWatts, gradePercent float64, p PhysicsParameters) float64 {
	powerWheel := powerWatts * p.DrivetrainEfficiency

	// Grade: percent -> slope components without a trig round trip.
	tan := gradePercent / 100.0
	cos := 1.0 / math.Sqrt(1.0+tan*tan)
	sin := tan * cos

	mg := p.TotalMassKg() * p.Gravity
	forceLinear := mg*sin + mg*cos*p.Crr
	constAero := 0.5 * p.AirDensity * p.CdA

	low, high := 0.0, maxSolveSpeedMps
	for i := 0; i < solveIterations; i++ {
		mid := (low + high) / 2
		powerRequired := constAero*mid*mid*mid + forceLinear*mid
		if powerRequired < powerWheel {
			low = mid
		} else {
			high = mid
		}
		if high-low < solveTolerance {
			break
		}
	}

	v := (low + high) / 2
	if v < solveTolerance {
		return 0
	}
	return v
}
