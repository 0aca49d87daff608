package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultConfigPath is the path to the canonical tuning defaults file.
// This is the single source of truth for all default tuning values.
const DefaultConfigPath = "config/tuning.defaults.json"

// TuningConfig represents the root configuration for simulation tuning
// parameters. All fields are optional; the Get* methods provide fallback
// defaults for any field left unset, so partial configs are safe.
type TuningConfig struct {
	// Rider and bike physics
	RiderMassKg          *float64 `json:"rider_mass_kg,omitempty"`
	BikeMassKg           *float64 `json:"bike_mass_kg,omitempty"`
	CdA                  *float64 `json:"cda,omitempty"`
	Crr                  *float64 `json:"crr,omitempty"`
	AirDensity           *float64 `json:"air_density,omitempty"`
	DrivetrainEfficiency *float64 `json:"drivetrain_efficiency,omitempty"`

	// Engine timing
	DtFloorMillis *int `json:"dt_floor_millis,omitempty"`

	// Power smoothing
	PowerSmoothingSeconds *float64 `json:"power_smoothing_seconds,omitempty"`
	RestingDecaySeconds   *float64 `json:"resting_decay_seconds,omitempty"`
	LowCadenceDerateRpm   *float64 `json:"low_cadence_derate_rpm,omitempty"`

	// Stochastic power variance
	NoiseSigmaFraction *float64 `json:"noise_sigma_fraction,omitempty"`
	NoiseBoundFraction *float64 `json:"noise_bound_fraction,omitempty"`

	// Cadence, gearing and fatigue
	GearShiftIntervalSeconds *float64 `json:"gear_shift_interval_seconds,omitempty"`
	GearBandRpm              *float64 `json:"gear_band_rpm,omitempty"`
	CadenceSmoothingSeconds  *float64 `json:"cadence_smoothing_seconds,omitempty"`
	RiderCapabilityWatts     *float64 `json:"rider_capability_watts,omitempty"`
	FatigueRiseSeconds       *float64 `json:"fatigue_rise_seconds,omitempty"`
	FatigueRecoverySeconds   *float64 `json:"fatigue_recovery_seconds,omitempty"`
}

// EmptyTuningConfig returns a TuningConfig with all fields set to nil.
// The Get* methods then yield the built-in defaults for every parameter.
func EmptyTuningConfig() *TuningConfig {
	return &TuningConfig{}
}

// LoadTuningConfig loads a TuningConfig from a JSON file.
// The file is validated to ensure it has a .json extension and is under the
// max file size. Fields omitted from the JSON file retain their default
// values, so partial configs are safe.
func LoadTuningConfig(path string) (*TuningConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	// Check file size for safety (max 1MB)
	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyTuningConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration values are physically sensible.
func (c *TuningConfig) Validate() error {
	if c.RiderMassKg != nil && *c.RiderMassKg <= 0 {
		return fmt.Errorf("rider_mass_kg must be positive, got %f", *c.RiderMassKg)
	}
	if c.BikeMassKg != nil && *c.BikeMassKg <= 0 {
		return fmt.Errorf("bike_mass_kg must be positive, got %f", *c.BikeMassKg)
	}
	if c.CdA != nil && (*c.CdA <= 0 || *c.CdA > 2) {
		return fmt.Errorf("cda must be in (0, 2], got %f", *c.CdA)
	}
	if c.Crr != nil && (*c.Crr <= 0 || *c.Crr > 0.1) {
		return fmt.Errorf("crr must be in (0, 0.1], got %f", *c.Crr)
	}
	if c.DrivetrainEfficiency != nil && (*c.DrivetrainEfficiency <= 0 || *c.DrivetrainEfficiency > 1) {
		return fmt.Errorf("drivetrain_efficiency must be in (0, 1], got %f", *c.DrivetrainEfficiency)
	}
	if c.DtFloorMillis != nil && *c.DtFloorMillis <= 0 {
		return fmt.Errorf("dt_floor_millis must be positive, got %d", *c.DtFloorMillis)
	}
	if c.NoiseSigmaFraction != nil && (*c.NoiseSigmaFraction < 0 || *c.NoiseSigmaFraction > 1) {
		return fmt.Errorf("noise_sigma_fraction must be between 0 and 1, got %f", *c.NoiseSigmaFraction)
	}
	if c.NoiseBoundFraction != nil && (*c.NoiseBoundFraction < 0 || *c.NoiseBoundFraction > 1) {
		return fmt.Errorf("noise_bound_fraction must be between 0 and 1, got %f", *c.NoiseBoundFraction)
	}
	if c.RiderCapabilityWatts != nil && *c.RiderCapabilityWatts <= 0 {
		return fmt.Errorf("rider_capability_watts must be positive, got %f", *c.RiderCapabilityWatts)
	}
	return nil
}

// GetRiderMassKg returns the rider mass or the default.
func (c *TuningConfig) GetRiderMassKg() float64 {
	if c.RiderMassKg == nil {
		return 75.0
	}
	return *c.RiderMassKg
}

// GetBikeMassKg returns the bike mass or the default.
func (c *TuningConfig) GetBikeMassKg() float64 {
	if c.BikeMassKg == nil {
		return 9.0
	}
	return *c.BikeMassKg
}

// GetCdA returns the aerodynamic drag area or the default.
func (c *TuningConfig) GetCdA() float64 {
	if c.CdA == nil {
		return 0.32
	}
	return *c.CdA
}

// GetCrr returns the rolling resistance coefficient or the default.
func (c *TuningConfig) GetCrr() float64 {
	if c.Crr == nil {
		return 0.005
	}
	return *c.Crr
}

// GetAirDensity returns the air density or the sea-level default.
func (c *TuningConfig) GetAirDensity() float64 {
	if c.AirDensity == nil {
		return 1.225
	}
	return *c.AirDensity
}

// GetDrivetrainEfficiency returns the drivetrain efficiency or the default.
func (c *TuningConfig) GetDrivetrainEfficiency() float64 {
	if c.DrivetrainEfficiency == nil {
		return 0.96
	}
	return *c.DrivetrainEfficiency
}

// GetDtFloorMillis returns the minimum tick delta in milliseconds.
func (c *TuningConfig) GetDtFloorMillis() int {
	if c.DtFloorMillis == nil {
		return 10
	}
	return *c.DtFloorMillis
}

// GetPowerSmoothingSeconds returns the power smoothing time constant.
func (c *TuningConfig) GetPowerSmoothingSeconds() float64 {
	if c.PowerSmoothingSeconds == nil {
		return 2.0
	}
	return *c.PowerSmoothingSeconds
}

// GetRestingDecaySeconds returns the resting decay time constant.
func (c *TuningConfig) GetRestingDecaySeconds() float64 {
	if c.RestingDecaySeconds == nil {
		return 1.2
	}
	return *c.RestingDecaySeconds
}

// GetLowCadenceDerateRpm returns the cadence below which power is derated.
func (c *TuningConfig) GetLowCadenceDerateRpm() float64 {
	if c.LowCadenceDerateRpm == nil {
		return 40.0
	}
	return *c.LowCadenceDerateRpm
}

// GetNoiseSigmaFraction returns the OU diffusion scale as a fraction of
// target power at full randomness.
func (c *TuningConfig) GetNoiseSigmaFraction() float64 {
	if c.NoiseSigmaFraction == nil {
		return 0.15
	}
	return *c.NoiseSigmaFraction
}

// GetNoiseBoundFraction returns the hard perturbation bound as a fraction
// of target power.
func (c *TuningConfig) GetNoiseBoundFraction() float64 {
	if c.NoiseBoundFraction == nil {
		return 0.25
	}
	return *c.NoiseBoundFraction
}

// GetGearShiftIntervalSeconds returns the minimum time between gear shifts.
func (c *TuningConfig) GetGearShiftIntervalSeconds() float64 {
	if c.GearShiftIntervalSeconds == nil {
		return 2.0
	}
	return *c.GearShiftIntervalSeconds
}

// GetGearBandRpm returns the half-width of the comfortable cadence band
// around the target cadence before a shift is considered.
func (c *TuningConfig) GetGearBandRpm() float64 {
	if c.GearBandRpm == nil {
		return 15.0
	}
	return *c.GearBandRpm
}

// GetCadenceSmoothingSeconds returns the cadence smoothing time constant.
func (c *TuningConfig) GetCadenceSmoothingSeconds() float64 {
	if c.CadenceSmoothingSeconds == nil {
		return 1.5
	}
	return *c.CadenceSmoothingSeconds
}

// GetRiderCapabilityWatts returns the sustained-power baseline above which
// fatigue accumulates.
func (c *TuningConfig) GetRiderCapabilityWatts() float64 {
	if c.RiderCapabilityWatts == nil {
		return 250.0
	}
	return *c.RiderCapabilityWatts
}

// GetFatigueRiseSeconds returns the time to full fatigue at double the
// capability baseline.
func (c *TuningConfig) GetFatigueRiseSeconds() float64 {
	if c.FatigueRiseSeconds == nil {
		return 600.0
	}
	return *c.FatigueRiseSeconds
}

// GetFatigueRecoverySeconds returns the time to full recovery at zero power.
func (c *TuningConfig) GetFatigueRecoverySeconds() float64 {
	if c.FatigueRecoverySeconds == nil {
		return 1800.0
	}
	return *c.FatigueRecoverySeconds
}
