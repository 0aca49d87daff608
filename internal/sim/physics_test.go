package sim

import (
	"math"
	"testing"
)

func TestSpeedMonotonicInPower(t *testing.T) {
	t.Parallel()

	params := DefaultPhysicsParameters()
	for _, grade := range []float64{-8, 0, 5, 15} {
		prev := -1.0
		for power := 0.0; power <= 600; power += 50 {
			v := Speed(power, grade, params)
			if v < prev {
				t.Fatalf("speed not monotone at grade %.0f%%: speed(%.0f W) = %.3f < %.3f", grade, power, v, prev)
			}
			prev = v
		}
	}
}

func TestSpeedFlatGround200W(t *testing.T) {
	t.Parallel()

	v := Speed(200, 0, DefaultPhysicsParameters())
	// ~33 km/h for a 75 kg rider at 200 W on the flat.
	if v < 8 || v > 10 {
		t.Fatalf("speed(200 W, flat) = %.2f m/s, want between 8 and 10", v)
	}
}

func TestSpeedSteepClimbInsufficientPower(t *testing.T) {
	t.Parallel()

	params := DefaultPhysicsParameters()
	params.RiderMassKg = 120

	v := Speed(40, 25, params)
	if v > 0.3 {
		t.Fatalf("speed(40 W, 25%%) = %.2f m/s, want near zero", v)
	}
}

func TestSpeedSteepClimbLowPowerToWeight(t *testing.T) {
	t.Parallel()

	params := DefaultPhysicsParameters()
	params.RiderMassKg = 110

	v := Speed(500, 15, params)
	if v <= 0 {
		t.Fatal("expected forward motion at 500 W")
	}
	if v > 3.0 {
		t.Fatalf("speed(500 W, 15%%, 110 kg) = %.2f m/s, want walking pace", v)
	}
}

func TestSpeedCoastingDownhill(t *testing.T) {
	t.Parallel()

	v := Speed(0, -10, DefaultPhysicsParameters())
	if v < 10 {
		t.Fatalf("speed(0 W, -10%%) = %.2f m/s, want a fast coast", v)
	}
}

func TestSpeedZeroPowerFlat(t *testing.T) {
	t.Parallel()

	v := Speed(0, 0, DefaultPhysicsParameters())
	if v != 0 {
		t.Fatalf("speed(0 W, flat) = %.3f, want 0", v)
	}
}

func TestSpeedNeverNaN(t *testing.T) {
	t.Parallel()

	params := DefaultPhysicsParameters()
	for _, power := range []float64{0, 1, 2500} {
		for _, grade := range []float64{-30, -0.001, 0, 0.001, 30} {
			v := Speed(power, grade, params)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				t.Fatalf("speed(%.0f, %.3f) is not finite: %v", power, grade, v)
			}
			if v < 0 {
				t.Fatalf("speed(%.0f, %.3f) = %.3f, want non-negative", power, grade, v)
			}
		}
	}
}
