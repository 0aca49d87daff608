package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCadenceManager() *CadenceManager {
	return NewCadenceManager(DefaultCadenceConfig())
}

func TestCadenceSettlesNearTarget(t *testing.T) {
	t.Parallel()

	m := newTestCadenceManager()
	// Steady cruise: 200 W on the flat at 30 km/h.
	var cadence float64
	for i := 0; i < 120; i++ {
		cadence = m.Update(200, 0, 8.33, 1.0)
	}

	st := m.State()
	assert.InDelta(t, st.TargetCadence, cadence, 15.0,
		"settled cadence should sit inside the comfort band around target")
	assert.Greater(t, cadence, 60.0)
	assert.Less(t, cadence, 110.0)
}

func TestGearHysteresisNoFlutter(t *testing.T) {
	t.Parallel()

	m := newTestCadenceManager()
	for i := 0; i < 60; i++ {
		m.Update(220, 2, 7.5, 1.0)
	}
	settled := m.State().Gear

	// Constant conditions after settling must not cause further shifts.
	for i := 0; i < 120; i++ {
		m.Update(220, 2, 7.5, 1.0)
		if g := m.State().Gear; g != settled {
			t.Fatalf("gear fluttered from %+v to %+v at tick %d under constant conditions", settled, g, i)
		}
	}
}

func TestGearAlwaysPositive(t *testing.T) {
	t.Parallel()

	m := newTestCadenceManager()
	speeds := []float64{0, 0.5, 2, 5, 12, 20}
	for i := 0; i < 300; i++ {
		m.Update(float64(100+i%400), float64(i%20-10), speeds[i%len(speeds)], 0.5)
		g := m.State().Gear
		require.Positive(t, g.Front)
		require.Positive(t, g.Rear)
	}
}

func TestFatigueAccumulatesAboveCapability(t *testing.T) {
	t.Parallel()

	m := newTestCadenceManager()
	// 400 W against a 250 W baseline.
	for i := 0; i < 100; i++ {
		m.Update(400, 0, 10, 1.0)
	}
	fatigued := m.State().Fatigue
	assert.Greater(t, fatigued, 0.0)
	assert.LessOrEqual(t, fatigued, 1.0)

	// Easy spinning recovers, slowly.
	for i := 0; i < 100; i++ {
		m.Update(100, 0, 6, 1.0)
	}
	assert.Less(t, m.State().Fatigue, fatigued)
	assert.GreaterOrEqual(t, m.State().Fatigue, 0.0)
}

func TestFatigueClampedToUnitRange(t *testing.T) {
	t.Parallel()

	m := newTestCadenceManager()
	// Hours at far above capability: must saturate at 1, not run away.
	for i := 0; i < 5000; i++ {
		m.Update(1000, 0, 11, 10.0)
	}
	assert.Equal(t, 1.0, m.State().Fatigue)

	// Hours of full rest: must floor at 0.
	for i := 0; i < 5000; i++ {
		m.Update(0, 0, 0, 10.0)
	}
	assert.Equal(t, 0.0, m.State().Fatigue)
}

func TestCadenceCoastingDecaysToZero(t *testing.T) {
	t.Parallel()

	m := newTestCadenceManager()
	for i := 0; i < 60; i++ {
		m.Update(200, 0, 8.33, 1.0)
	}
	require.Greater(t, m.State().CadenceRpm, 0.0)

	// Power off: legs stop turning even while the bike still rolls.
	var cadence float64
	for i := 0; i < 60; i++ {
		cadence = m.Update(0, 0, 8.0, 1.0)
	}
	assert.Less(t, cadence, 1.0)
}

func TestTargetCadenceRisesWithGrade(t *testing.T) {
	t.Parallel()

	flat := newTestCadenceManager()
	flat.Update(200, 0, 8, 1.0)

	climb := newTestCadenceManager()
	climb.Update(200, 10, 4, 1.0)

	assert.Greater(t, climb.State().TargetCadence, flat.State().TargetCadence)
}

func TestCadenceResetRestoresInitialState(t *testing.T) {
	t.Parallel()

	m := newTestCadenceManager()
	for i := 0; i < 200; i++ {
		m.Update(400, 5, 6, 1.0)
	}
	m.Reset()

	st := m.State()
	assert.Zero(t, st.Fatigue)
	assert.Zero(t, st.CadenceRpm)
}
