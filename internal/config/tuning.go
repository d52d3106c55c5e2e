// Package config loads evaluation tuning parameters from JSON files.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultConfigPath is the path to the canonical tuning defaults file. The
// values in that file match the compiled-in fallbacks below; the file exists
// so deployments have a complete template to edit.
const DefaultConfigPath = "config/tuning.defaults.json"

// Compiled-in fallback values, used for any field absent from the JSON.
const (
	defaultSpinJumpRadians         = 1.0
	defaultMinFrameGapSecs         = 0.05
	defaultMaxEvalDistanceMeters   = 5.0
	defaultProcessNoisePos         = 0.1
	defaultProcessNoiseVel         = 1.0
	defaultMeasurementNoiseFloor   = 0.05
	defaultInitialPositionVariance = 10.0
	defaultInitialVelocityVariance = 25.0
)

// TuningConfig represents the root configuration for evaluation tuning
// parameters. All fields are pointers so partial config files are safe:
// fields omitted from the JSON keep their defaults via the Get* accessors.
type TuningConfig struct {
	// Bad-frame detector params
	SpinJumpRadians *float64 `json:"spin_jump_radians,omitempty"`
	MinFrameGapSecs *float64 `json:"min_frame_gap_secs,omitempty"`

	// Error aggregation params
	MaxEvalDistanceMeters *float64 `json:"max_eval_distance_meters,omitempty"`

	// Centroid Kalman baseline params
	ProcessNoisePos         *float64 `json:"process_noise_pos,omitempty"`
	ProcessNoiseVel         *float64 `json:"process_noise_vel,omitempty"`
	MeasurementNoiseFloor   *float64 `json:"measurement_noise_floor,omitempty"`
	InitialPositionVariance *float64 `json:"initial_position_variance,omitempty"`
	InitialVelocityVariance *float64 `json:"initial_velocity_variance,omitempty"`
}

// EmptyTuningConfig returns a TuningConfig with all fields unset, so every
// accessor falls back to its default.
func EmptyTuningConfig() *TuningConfig {
	return &TuningConfig{}
}

// LoadTuningConfig loads a TuningConfig from a JSON file. The file must have
// a .json extension and stay under the max file size. Fields omitted from
// the JSON retain their default values.
func LoadTuningConfig(path string) (*TuningConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
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

// Validate checks that all set fields carry physically meaningful values.
func (c *TuningConfig) Validate() error {
	positive := map[string]*float64{
		"spin_jump_radians":         c.SpinJumpRadians,
		"max_eval_distance_meters":  c.MaxEvalDistanceMeters,
		"process_noise_pos":         c.ProcessNoisePos,
		"process_noise_vel":         c.ProcessNoiseVel,
		"measurement_noise_floor":   c.MeasurementNoiseFloor,
		"initial_position_variance": c.InitialPositionVariance,
		"initial_velocity_variance": c.InitialVelocityVariance,
	}
	for name, v := range positive {
		if v != nil && *v <= 0 {
			return fmt.Errorf("%s must be positive, got %v", name, *v)
		}
	}
	if c.MinFrameGapSecs != nil && *c.MinFrameGapSecs < 0 {
		return fmt.Errorf("min_frame_gap_secs must be non-negative, got %v", *c.MinFrameGapSecs)
	}
	return nil
}

// MarshalParams returns the effective parameter values as JSON, for
// attaching to persisted evaluation runs.
func (c *TuningConfig) MarshalParams() (json.RawMessage, error) {
	effective := map[string]float64{
		"spin_jump_radians":         c.GetSpinJumpRadians(),
		"min_frame_gap_secs":        c.GetMinFrameGapSecs(),
		"max_eval_distance_meters":  c.GetMaxEvalDistanceMeters(),
		"process_noise_pos":         c.GetProcessNoisePos(),
		"process_noise_vel":         c.GetProcessNoiseVel(),
		"measurement_noise_floor":   c.GetMeasurementNoiseFloor(),
		"initial_position_variance": c.GetInitialPositionVariance(),
		"initial_velocity_variance": c.GetInitialVelocityVariance(),
	}
	return json.Marshal(effective)
}

// GetSpinJumpRadians returns the bearing discontinuity above which a frame
// pair is treated as straddling a sensor spin boundary.
func (c *TuningConfig) GetSpinJumpRadians() float64 {
	if c.SpinJumpRadians != nil {
		return *c.SpinJumpRadians
	}
	return defaultSpinJumpRadians
}

// GetMinFrameGapSecs returns the minimum inter-frame time gap below which a
// frame pair is treated as a near-duplicate sample.
func (c *TuningConfig) GetMinFrameGapSecs() float64 {
	if c.MinFrameGapSecs != nil {
		return *c.MinFrameGapSecs
	}
	return defaultMinFrameGapSecs
}

// GetMaxEvalDistanceMeters returns the planar distance threshold for the
// within-distance evaluation pass.
func (c *TuningConfig) GetMaxEvalDistanceMeters() float64 {
	if c.MaxEvalDistanceMeters != nil {
		return *c.MaxEvalDistanceMeters
	}
	return defaultMaxEvalDistanceMeters
}

// GetProcessNoisePos returns the position process noise (σ², dt-normalised)
// for the centroid Kalman baseline.
func (c *TuningConfig) GetProcessNoisePos() float64 {
	if c.ProcessNoisePos != nil {
		return *c.ProcessNoisePos
	}
	return defaultProcessNoisePos
}

// GetProcessNoiseVel returns the velocity process noise (σ², dt-normalised)
// for the centroid Kalman baseline.
func (c *TuningConfig) GetProcessNoiseVel() float64 {
	if c.ProcessNoiseVel != nil {
		return *c.ProcessNoiseVel
	}
	return defaultProcessNoiseVel
}

// GetMeasurementNoiseFloor returns the minimum measurement noise standard
// deviation (meters) for the centroid Kalman baseline. Per-frame sensor
// resolution raises the effective noise above this floor at long ranges.
func (c *TuningConfig) GetMeasurementNoiseFloor() float64 {
	if c.MeasurementNoiseFloor != nil {
		return *c.MeasurementNoiseFloor
	}
	return defaultMeasurementNoiseFloor
}

// GetInitialPositionVariance returns the initial position variance for the
// centroid Kalman baseline.
func (c *TuningConfig) GetInitialPositionVariance() float64 {
	if c.InitialPositionVariance != nil {
		return *c.InitialPositionVariance
	}
	return defaultInitialPositionVariance
}

// GetInitialVelocityVariance returns the initial velocity variance for the
// centroid Kalman baseline.
func (c *TuningConfig) GetInitialVelocityVariance() float64 {
	if c.InitialVelocityVariance != nil {
		return *c.InitialVelocityVariance
	}
	return defaultInitialVelocityVariance
}
