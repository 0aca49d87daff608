package sim

import (
	"math"
	"sort"

	"github.com/veloforge/ridesim/internal/config"
)

// CadenceConfig holds the tunable parameters of the cadence/gear/fatigue
// state machine.
type CadenceConfig struct {
	ShiftIntervalSeconds   float64 // minimum time between gear shifts
	BandRpm                float64 // hysteresis half-width around target cadence
	SmoothingSeconds       float64 // cadence smoothing time constant
	CapabilityWatts        float64 // sustained-power baseline for fatigue
	FatigueRiseSeconds     float64 // time to full fatigue at 2× capability
	FatigueRecoverySeconds float64 // time to full recovery at zero power
}

// DefaultCadenceConfig returns the built-in cadence configuration.
func DefaultCadenceConfig() CadenceConfig {
	return CadenceConfigFromTuning(config.EmptyTuningConfig())
}

// CadenceConfigFromTuning builds a CadenceConfig from a loaded TuningConfig.
func CadenceConfigFromTuning(cfg *config.TuningConfig) CadenceConfig {
	return CadenceConfig{
		ShiftIntervalSeconds:   cfg.GetGearShiftIntervalSeconds(),
		BandRpm:                cfg.GetGearBandRpm(),
		SmoothingSeconds:       cfg.GetCadenceSmoothingSeconds(),
		CapabilityWatts:        cfg.GetRiderCapabilityWatts(),
		FatigueRiseSeconds:     cfg.GetFatigueRiseSeconds(),
		FatigueRecoverySeconds: cfg.GetFatigueRecoverySeconds(),
	}
}

// Drivetrain model: compact double chainring, 8-cog cassette, 700×25c
// wheel. The full front×rear matrix is flattened into a single list
// ordered from easiest to hardest ratio so shifting is an index step.
const wheelCircumferenceM = 2.105

var (
	chainrings = []int{34, 50}
	cogs       = []int{28, 24, 21, 19, 17, 15, 13, 11}
)

// gearTable returns all gear combinations sorted by ratio, easiest first.
func gearTable() []Gear {
	table := make([]Gear, 0, len(chainrings)*len(cogs))
	for _, f := range chainrings {
		for _, r := range cogs {
			table = append(table, Gear{Front: f, Rear: r})
		}
	}
	sort.Slice(table, func(i, j int) bool {
		ri := float64(table[i].Front) / float64(table[i].Rear)
		rj := float64(table[j].Front) / float64(table[j].Rear)
		return ri < rj
	})
	return table
}

// CadenceState is a read-only snapshot of the manager's accumulated state.
type CadenceState struct {
	CadenceRpm    float64
	TargetCadence float64
	Fatigue       float64
	Gear          Gear
}

// CadenceManager tracks cadence, fatigue, target cadence and the discrete
// gear state. It is advanced every tick in both manual and automatic
// cadence modes: fatigue and gear depend on effort and terrain, not on
// who supplies the cadence number.
type CadenceManager struct {
	cfg CadenceConfig

	gears          []Gear
	gearIdx        int
	cadence        float64
	targetCadence  float64
	fatigue        float64
	timeSinceShift float64
}

// Power below which the rider is treated as coasting; cadence decays
// toward zero even while the bike still rolls.
const coastingWatts = 5.0

// NewCadenceManager creates a cadence manager starting in a middle gear.
func NewCadenceManager(cfg CadenceConfig) *CadenceManager {
	m := &CadenceManager{
		cfg:   cfg,
		gears: gearTable(),
	}
	m.resetState()
	return m
}

func (m *CadenceManager) resetState() {
	m.gearIdx = len(m.gears) / 2
	m.cadence = 0
	m.targetCadence = 0
	m.fatigue = 0
	// Permit an immediate first shift.
	m.timeSinceShift = m.cfg.ShiftIntervalSeconds
}

// cadenceForGear returns the crank rpm implied by riding at the given
// speed in the given gear.
func cadenceForGear(speedMps float64, g Gear) float64 {
	if speedMps <= 0 {
		return 0
	}
	wheelRpm := speedMps / wheelCircumferenceM * 60.0
	return wheelRpm * float64(g.Rear) / float64(g.Front)
}

// Update advances cadence, gear and fatigue over dt seconds and returns
// the computed cadence. power is the realistic output wattage, speedMps
// the resolved speed for this tick.
func (m *CadenceManager) Update(power, grade, speedMps, dt float64) float64 {
	m.targetCadence = clampFloat(88.0+1.2*grade+0.01*(power-200.0), 60, 110)

	m.shiftGear(speedMps, dt)

	implied := cadenceForGear(speedMps, m.gears[m.gearIdx])
	desired := clampFloat(implied, 0, 130)
	if power < coastingWatts {
		desired = 0
	}

	alpha := 1 - math.Exp(-dt/m.cfg.SmoothingSeconds)
	m.cadence += alpha * (desired - m.cadence)
	if m.cadence < 0 {
		m.cadence = 0
	}

	m.updateFatigue(power, dt)
	return m.cadence
}

// shiftGear applies the hysteresis gear state machine: shift harder when
// the implied cadence would spin out above the comfortable band, easier
// when it would grind below it. A minimum interval between shifts
// prevents flutter at the band edges.
func (m *CadenceManager) shiftGear(speedMps, dt float64) {
	m.timeSinceShift += dt
	if m.timeSinceShift < m.cfg.ShiftIntervalSeconds {
		return
	}
	if speedMps <= 0 {
		return
	}

	implied := cadenceForGear(speedMps, m.gears[m.gearIdx])
	switch {
	case implied > m.targetCadence+m.cfg.BandRpm && m.gearIdx < len(m.gears)-1:
		m.gearIdx++
		m.timeSinceShift = 0
	case implied < m.targetCadence-m.cfg.BandRpm && m.gearIdx > 0:
		m.gearIdx--
		m.timeSinceShift = 0
	}
}

// updateFatigue accumulates load above the capability baseline and slowly
// recovers below it. Fatigue is clamped to [0, 1].
func (m *CadenceManager) updateFatigue(power, dt float64) {
	ratio := power / m.cfg.CapabilityWatts
	if ratio > 1 {
		m.fatigue += dt / m.cfg.FatigueRiseSeconds * (ratio - 1)
	} else {
		m.fatigue -= dt / m.cfg.FatigueRecoverySeconds * (1 - ratio)
	}
	m.fatigue = clampFloat(m.fatigue, 0, 1)
}

// State returns a snapshot of the accumulated cadence state.
func (m *CadenceManager) State() CadenceState {
	return CadenceState{
		CadenceRpm:    m.cadence,
		TargetCadence: m.targetCadence,
		Fatigue:       m.fatigue,
		Gear:          m.gears[m.gearIdx],
	}
}

// Reset clears cadence, fatigue and gear back to their initial values.
func (m *CadenceManager) Reset() {
	m.resetState()
}

func clampFloat(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
