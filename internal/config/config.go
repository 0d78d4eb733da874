// Package config holds the single immutable configuration record every
// other component reads thresholds, limits, and zone radii from. All
// fields are pure data; changing a value here must never require a code
// change anywhere else in the core.
package config

import (
	"fmt"
	"time"
)

// ZoneConfig defines the three concentric protected-zone radii, in metres,
// centred on Origin.
type ZoneConfig struct {
	CriticalRadius  float64
	ProtectedRadius float64
	ExtendedRadius  float64
}

// SensorDefaults holds default radar sensor parameters.
type SensorDefaults struct {
	MaxRangeMeters         float64
	UpdateRateHz           float64
	BasePositionSigma      float64
	BaseVelocitySigma      float64
	SignalSigma            float64
	MinDetectionConfidence float64
}

// TrackerConfig holds multi-target tracker parameters.
type TrackerConfig struct {
	AssociationThresholdMeters float64
	MaxAgeSeconds              float64
	MinUpdatesForActive        int
	MaxHistoryLength           int
	ProcessNoise               float64 // Kalman filter process noise intensity q
}

// PredictorConfig holds trajectory predictor parameters.
type PredictorConfig struct {
	HorizonSeconds    float64
	StepSeconds       float64
	MaxHorizonSeconds float64
}

// PhysicsLimits holds physical validity bounds.
type PhysicsLimits struct {
	MaxAccelerationMPS2  float64
	MaxSpeedMPS          float64
	MaxVelocityChangeMPS float64
}

// AnomalyThresholds holds anomaly-detection thresholds.
type AnomalyThresholds struct {
	DirectionChangeDegrees  float64
	SpeedChangeRatio        float64
	AccelerationMPS2        float64
	TrajectoryVertexDegrees float64
}

// ThreatWeights holds the multi-factor threat-assessment weights. They must
// sum to 1 within 0.01.
type ThreatWeights struct {
	Classification float64
	Proximity      float64
	Behavior       float64
	Speed          float64
	Trajectory     float64
	Confidence     float64
}

// Sum returns the sum of all weights.
func (w ThreatWeights) Sum() float64 {
	return w.Classification + w.Proximity + w.Behavior + w.Speed + w.Trajectory + w.Confidence
}

// ThreatLevelThresholds holds the score cutoffs for each threat-level tag.
type ThreatLevelThresholds struct {
	Critical float64
	High     float64
	Medium   float64
}

// IntentThresholds holds the speed bands used by intent inference.
type IntentThresholds struct {
	CivilianSpeedMPS float64
	HostileSpeedMPS  float64
	LoiterRadiusM    float64
}

// ClassificationConfig holds the probabilistic classifier's decision
// threshold.
type ClassificationConfig struct {
	UnknownThreshold float64
}

// InterceptionConfig holds interception-feasibility bounds.
type InterceptionConfig struct {
	MinRangeMeters        float64
	MaxRangeMeters        float64
	MaxRelativeSpeedMPS   float64
}

// Config is the single immutable configuration record read by every
// component. All thresholds in spec.md reference this record.
type Config struct {
	Origin              [3]float64 // system origin in local Cartesian metres
	Zones               ZoneConfig
	SensorDefaults      SensorDefaults
	Tracker             TrackerConfig
	Predictor           PredictorConfig
	Physics             PhysicsLimits
	Anomaly             AnomalyThresholds
	ThreatWeights       ThreatWeights
	ThreatLevels        ThreatLevelThresholds
	Intent              IntentThresholds
	Classification      ClassificationConfig
	Interception        InterceptionConfig
	PRNGSeed            int64
	DeterministicMode   bool
}

// DefaultConfig returns the default configuration matching the values
// named throughout spec.md (association threshold 5000 m, max age 60 s,
// min updates for ACTIVE 3, unknown-threshold 0.4, and so on).
func DefaultConfig() Config {
	return Config{
		Origin: [3]float64{0, 0, 0},
		Zones: ZoneConfig{
			CriticalRadius:  10_000,
			ProtectedRadius: 25_000,
			ExtendedRadius:  50_000,
		},
		SensorDefaults: SensorDefaults{
			MaxRangeMeters:         200_000,
			UpdateRateHz:           1.0,
			BasePositionSigma:      20.0,
			BaseVelocitySigma:      2.0,
			SignalSigma:            0.05,
			MinDetectionConfidence: 0.3,
		},
		Tracker: TrackerConfig{
			AssociationThresholdMeters: 5000,
			MaxAgeSeconds:              60,
			MinUpdatesForActive:        3,
			MaxHistoryLength:           10,
			ProcessNoise:               0.5,
		},
		Predictor: PredictorConfig{
			HorizonSeconds:    60,
			StepSeconds:       5,
			MaxHorizonSeconds: 300,
		},
		Physics: PhysicsLimits{
			MaxAccelerationMPS2:  100,
			MaxSpeedMPS:          1000,
			MaxVelocityChangeMPS: 200,
		},
		Anomaly: AnomalyThresholds{
			DirectionChangeDegrees:  45,
			SpeedChangeRatio:        0.5,
			AccelerationMPS2:        50,
			TrajectoryVertexDegrees: 60,
		},
		ThreatWeights: ThreatWeights{
			Classification: 0.25,
			Proximity:      0.25,
			Behavior:       0.20,
			Speed:          0.15,
			Trajectory:     0.10,
			Confidence:     0.05,
		},
		ThreatLevels: ThreatLevelThresholds{
			Critical: 0.8,
			High:     0.6,
			Medium:   0.4,
		},
		Intent: IntentThresholds{
			CivilianSpeedMPS: 150,
			HostileSpeedMPS:  250,
			LoiterRadiusM:    5000,
		},
		Classification: ClassificationConfig{
			UnknownThreshold: 0.4,
		},
		Interception: InterceptionConfig{
			MinRangeMeters:      500,
			MaxRangeMeters:      50_000,
			MaxRelativeSpeedMPS: 500,
		},
		PRNGSeed:          1,
		DeterministicMode: true,
	}
}

// Validate checks the configuration for internal consistency, following
// the same "required fields positive, ranges well-formed" shape as the
// platform's database configuration loader.
func (c Config) Validate() error {
	if c.Zones.CriticalRadius <= 0 || c.Zones.ProtectedRadius <= c.Zones.CriticalRadius || c.Zones.ExtendedRadius <= c.Zones.ProtectedRadius {
		return fmt.Errorf("zone radii must be positive and strictly increasing: critical < protected < extended")
	}
	if c.SensorDefaults.MinDetectionConfidence < 0 || c.SensorDefaults.MinDetectionConfidence > 1 {
		return fmt.Errorf("minimum detection confidence must be in [0,1]")
	}
	if c.Tracker.AssociationThresholdMeters <= 0 {
		return fmt.Errorf("association threshold must be positive")
	}
	if c.Tracker.MaxAgeSeconds <= 0 {
		return fmt.Errorf("max age must be positive")
	}
	if c.Tracker.MinUpdatesForActive <= 0 {
		return fmt.Errorf("min updates for active must be positive")
	}
	if c.Tracker.MaxHistoryLength <= 0 {
		return fmt.Errorf("max history length must be positive")
	}
	sum := c.ThreatWeights.Sum()
	if sum < 0.99 || sum > 1.01 {
		return fmt.Errorf("threat weights must sum to 1 +/- 0.01, got %f", sum)
	}
	if c.Classification.UnknownThreshold < 0 || c.Classification.UnknownThreshold > 1 {
		return fmt.Errorf("unknown threshold must be in [0,1]")
	}
	if c.Interception.MaxRangeMeters <= c.Interception.MinRangeMeters {
		return fmt.Errorf("interception max range must exceed min range")
	}
	return nil
}

// MaxAge returns the tracker max-age as a time.Duration, for components
// that compare against wall-clock durations rather than raw seconds.
func (c Config) MaxAge() time.Duration {
	return time.Duration(c.Tracker.MaxAgeSeconds * float64(time.Second))
}
