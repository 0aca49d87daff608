package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClampRanges(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  float64
		kind ParameterKind
		want float64
	}{
		{"power in range", 200, KindPower, 200},
		{"power negative", -50, KindPower, 0},
		{"power above max", 9000, KindPower, MaxPowerWatts},
		{"grade in range", -12.5, KindGrade, -12.5},
		{"grade below min", -45, KindGrade, MinGrade},
		{"grade above max", 60, KindGrade, MaxGrade},
		{"randomness in range", 42, KindRandomness, 42},
		{"randomness negative", -1, KindRandomness, 0},
		{"randomness above max", 101, KindRandomness, MaxRandomness},
		{"cadence in range", 95, KindCadence, 95},
		{"cadence above max", 400, KindCadence, MaxCadenceRpm},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Clamp(tt.raw, tt.kind))
		})
	}
}

func TestClampIdempotent(t *testing.T) {
	t.Parallel()

	kinds := []ParameterKind{KindPower, KindGrade, KindRandomness, KindCadence}
	values := []float64{-1e9, -100, -1, 0, 0.5, 50, 99.9, 250, 3000, 1e9}

	for _, kind := range kinds {
		for _, raw := range values {
			once := Clamp(raw, kind)
			twice := Clamp(once, kind)
			if once != twice {
				t.Fatalf("clamp not idempotent for %s(%g): %g != %g", kind, raw, once, twice)
			}
		}
	}
}

func TestValidateVerdicts(t *testing.T) {
	t.Parallel()

	t.Run("in-range values are valid", func(t *testing.T) {
		valid, msg := Validate(200, KindPower, 200)
		assert.True(t, valid)
		assert.Empty(t, msg)
	})

	t.Run("out-of-range values are invalid with a message", func(t *testing.T) {
		valid, msg := Validate(5000, KindPower, 2500)
		assert.False(t, valid)
		assert.Contains(t, msg, "outside safe range")
	})

	t.Run("zero cadence is valid while coasting", func(t *testing.T) {
		valid, _ := Validate(0, KindCadence, 100)
		assert.True(t, valid)
	})

	t.Run("zero cadence is implausible at high power", func(t *testing.T) {
		valid, msg := Validate(0, KindCadence, 400)
		assert.False(t, valid)
		assert.Contains(t, msg, "implausible")
	})
}
