package sim

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"golang.org/x/exp/rand"

	"github.com/veloforge/ridesim/internal/config"
	"github.com/veloforge/ridesim/internal/monitoring"
	"github.com/veloforge/ridesim/internal/timeutil"
)

// defaultCadenceHint is the neutral cadence assumed by the power smoother
// when no manual cadence is supplied.
const defaultCadenceHint = 90.0

// Engine orchestrates the simulation pipeline. It owns one instance of
// each stateful calculator and the wall-clock cursor, and re-evaluates
// the whole pipeline on every Update call.
//
// An Engine is single-owner: Update must not be invoked concurrently on
// the same instance. The injected Reporter, by contrast, is safe for
// concurrent use by many engines.
type Engine struct {
	id       string
	params   PhysicsParameters
	clock    timeutil.Clock
	reporter monitoring.Reporter
	dtFloor  float64 // seconds

	variance *VarianceProcess
	power    *PowerManager
	cadence  *CadenceManager

	lastTick time.Time
	ticked   bool
}

// EngineOption customises engine construction.
type EngineOption func(*Engine)

// WithClock injects a clock, letting tests drive deterministic dt
// sequences without real-time waits.
func WithClock(c timeutil.Clock) EngineOption {
	return func(e *Engine) { e.clock = c }
}

// WithReporter injects the diagnostic sink. The default discards.
func WithReporter(r monitoring.Reporter) EngineOption {
	return func(e *Engine) { e.reporter = r }
}

// WithRandSource seeds the variance process with a deterministic source.
func WithRandSource(src rand.Source) EngineOption {
	return func(e *Engine) {
		e.variance = NewVarianceProcess(e.variance.sigmaFraction, e.variance.boundFraction, src)
	}
}

// NewEngine creates an engine from physics parameters and tuning. A nil
// tuning config uses the built-in defaults throughout.
func NewEngine(params PhysicsParameters, tuning *config.TuningConfig, opts ...EngineOption) *Engine {
	if tuning == nil {
		tuning = config.EmptyTuningConfig()
	}

	e := &Engine{
		id:       uuid.NewString(),
		params:   params,
		clock:    timeutil.RealClock{},
		reporter: monitoring.Discard{},
		dtFloor:  float64(tuning.GetDtFloorMillis()) / 1000.0,
		variance: NewVarianceProcess(tuning.GetNoiseSigmaFraction(), tuning.GetNoiseBoundFraction(), nil),
		power: NewPowerManager(
			tuning.GetPowerSmoothingSeconds(),
			tuning.GetRestingDecaySeconds(),
			tuning.GetLowCadenceDerateRpm(),
		),
		cadence: NewCadenceManager(CadenceConfigFromTuning(tuning)),
	}

	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ID returns the engine's unique instance identifier.
func (e *Engine) ID() string { return e.id }

// Params returns the immutable physics parameters.
func (e *Engine) Params() PhysicsParameters { return e.params }

// Update runs one simulation tick. Inputs are unconditionally clamped to
// safe ranges before any stateful calculator sees them; out-of-range raw
// values only produce a validation warning, never an error. dt is the
// wall-clock time since the previous tick, floored to keep the stochastic
// integration stable on the first tick or after a stall.
func (e *Engine) Update(input SimulationInput) SimulationState {
	now := e.clock.Now()
	dt := e.dtFloor
	if e.ticked {
		if elapsed := now.Sub(e.lastTick).Seconds(); elapsed > dt {
			dt = elapsed
		}
	}
	e.lastTick = now
	e.ticked = true

	safePower := Clamp(float64(input.TargetPower), KindPower)
	safeGrade := Clamp(input.GradePercent, KindGrade)
	safeRandomness := Clamp(float64(input.Randomness), KindRandomness)

	e.checkInput(float64(input.TargetPower), KindPower, safePower, safePower)
	e.checkInput(input.GradePercent, KindGrade, safeGrade, safePower)
	e.checkInput(float64(input.Randomness), KindRandomness, safeRandomness, safePower)

	hint := defaultCadenceHint
	var safeCadence float64
	if input.ManualCadence != nil {
		rawCadence := float64(*input.ManualCadence)
		safeCadence = Clamp(rawCadence, KindCadence)
		e.checkInput(rawCadence, KindCadence, safeCadence, safePower)
		hint = safeCadence
	}

	perturbation := e.variance.Advance(int(safeRandomness), safePower, dt)
	realisticWatts := e.power.Smooth(safePower, hint, perturbation, input.IsResting, dt)
	speedMps := Speed(realisticWatts, safeGrade, e.params)

	// The cadence manager advances in both modes: fatigue and gear track
	// effort and terrain even when the cadence number is manual.
	autoCadence := e.cadence.Update(realisticWatts, safeGrade, speedMps, dt)

	cadenceRpm := int(math.Round(autoCadence))
	if input.ManualCadence != nil {
		cadenceRpm = int(math.Round(safeCadence))
	}

	cs := e.cadence.State()
	return SimulationState{
		PowerWatts:    int(math.Round(realisticWatts)),
		SpeedMps:      speedMps,
		CadenceRpm:    cadenceRpm,
		Fatigue:       cs.Fatigue,
		Noise:         perturbation,
		Gear:          cs.Gear,
		TargetCadence: cs.TargetCadence,
	}
}

// checkInput emits a non-blocking validation warning when a raw value
// fails its range or plausibility check. The pipeline always continues
// with the clamped value.
func (e *Engine) checkInput(raw float64, kind ParameterKind, clamped, safePower float64) {
	valid, msg := Validate(raw, kind, safePower)
	if valid {
		return
	}
	e.reporter.Report(msg, monitoring.SeverityWarning, monitoring.CategoryValidation, map[string]string{
		"engine_id": e.id,
		"parameter": kind.String(),
		"raw":       fmt.Sprintf("%.2f", raw),
		"clamped":   fmt.Sprintf("%.2f", clamped),
	})
}

// Reset clears the engine's time cursor so the next Update uses the dt
// floor. With full set, the accumulated state of the sub-calculators
// (variance, smoothing history, cadence/gear/fatigue) is cleared as well;
// without it only the cursor resets and the ride continues where it was.
func (e *Engine) Reset(full bool) {
	e.lastTick = time.Time{}
	e.ticked = false
	if full {
		e.variance.Reset()
		e.power.Reset()
		e.cadence.Reset()
	}
}
