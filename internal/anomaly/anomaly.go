// Package anomaly implements behavioral anomaly detection over a track's
// recent position and velocity history, composing the physics validator's
// violation catalog with its own kinematic checks in the same
// threshold-catalog shape.
package anomaly

import (
	"fmt"
	"math"
	"time"

	"github.com/asgard/aegis/internal/config"
	"github.com/asgard/aegis/internal/physics"
	"github.com/asgard/aegis/internal/vector"
)

// Kind enumerates the anomaly checks.
type Kind string

const (
	KindSuddenDirectionChange Kind = "SUDDEN_DIRECTION_CHANGE"
	KindSuddenSpeedChange     Kind = "SUDDEN_SPEED_CHANGE"
	KindUnusualAcceleration   Kind = "UNUSUAL_ACCELERATION"
	KindUnusualTrajectory     Kind = "UNUSUAL_TRAJECTORY"
	KindPhysicsViolation      Kind = "PHYSICS_VIOLATION"
)

// Anomaly is one flagged behavioral anomaly.
type Anomaly struct {
	Kind   Kind
	Detail string
}

// advisoryNote is attached to every Result so that no caller mistakes a
// behavioral flag for a finding of hostile intent.
const advisoryNote = "Anomalies do not imply hostile intent."

// Result is the detector's output for one track evaluation.
type Result struct {
	Anomalies   []Anomaly
	Score       float64
	IsAnomalous bool
	Note        string
}

// Detector flags unusual kinematic behavior.
type Detector struct {
	cfg       config.AnomalyThresholds
	validator *physics.Validator
}

// NewDetector creates a Detector.
func NewDetector(cfg config.AnomalyThresholds, physicsLimits config.PhysicsLimits) *Detector {
	return &Detector{cfg: cfg, validator: physics.NewValidator(physicsLimits)}
}

// anomalousScoreThreshold: a track with no explicit anomaly flags is still
// reported anomalous once its accumulated score crosses this value.
const anomalousScoreThreshold = 0.3

// Detect scans every consecutive pair across positionHistory,
// velocityHistory, and timestamps (all the same length, oldest first) and
// returns every anomaly found anywhere in the window. Fewer than two
// samples yields an empty, non-anomalous Result since there is nothing
// yet to compare against.
func (d *Detector) Detect(positionHistory []vector.Coordinates, velocityHistory []vector.Velocity, timestamps []time.Time) Result {
	var anomalies []Anomaly
	score := 0.0

	n := len(velocityHistory)
	if n >= 2 && len(timestamps) >= 2 && len(positionHistory) >= 2 {
		samples := buildSamples(positionHistory, velocityHistory, timestamps)

		if series := d.validator.ValidateSeries(samples); !series.IsValid {
			anomalies = append(anomalies, Anomaly{Kind: KindPhysicsViolation, Detail: fmt.Sprintf("%d physics violation kind(s) in recent history: %s", len(series.Violations), series.Reasoning)})
			score += 0.5
		}

		// Scan every consecutive pair in the window, not just the most
		// recent one, so an anomaly earlier in the window is still flagged.
		var maxDirectionChange, maxSpeedRatio, maxAcceleration float64
		for i := 1; i < len(samples); i++ {
			prevVel, currVel := samples[i-1].Velocity, samples[i].Velocity

			if angle := vector.AngleBetween(prevVel, currVel); angle > maxDirectionChange {
				maxDirectionChange = angle
			}

			prevSpeed, currSpeed := prevVel.Speed(), currVel.Speed()
			denom := math.Max(prevSpeed, 1e-6)
			if ratio := math.Abs(currSpeed-prevSpeed) / denom; ratio > maxSpeedRatio {
				maxSpeedRatio = ratio
			}

			if dt := samples[i].Timestamp.Sub(samples[i-1].Timestamp).Seconds(); dt > 0 {
				if accel := currVel.Sub(prevVel).Speed() / dt; accel > maxAcceleration {
					maxAcceleration = accel
				}
			}
		}

		if maxDirectionChange > d.cfg.DirectionChangeDegrees {
			anomalies = append(anomalies, Anomaly{Kind: KindSuddenDirectionChange, Detail: fmt.Sprintf("heading changed up to %.1f degrees between consecutive samples", maxDirectionChange)})
			score += 0.3
		}

		if maxSpeedRatio > d.cfg.SpeedChangeRatio {
			anomalies = append(anomalies, Anomaly{Kind: KindSuddenSpeedChange, Detail: fmt.Sprintf("speed changed by up to a factor of %.2f between consecutive samples", maxSpeedRatio)})
			score += 0.2
		}

		if maxAcceleration > d.cfg.AccelerationMPS2 {
			anomalies = append(anomalies, Anomaly{Kind: KindUnusualAcceleration, Detail: fmt.Sprintf("implied acceleration up to %.1f m/s^2 between consecutive samples", maxAcceleration)})
			score += 0.2
		}
	}

	if hasUnusualVertex(positionHistory, d.cfg.TrajectoryVertexDegrees) {
		anomalies = append(anomalies, Anomaly{Kind: KindUnusualTrajectory, Detail: "sharp vertex in recent trajectory"})
		score += 0.1
	}

	score = math.Min(score, 1.0)

	return Result{
		Anomalies:   anomalies,
		Score:       score,
		IsAnomalous: len(anomalies) > 0 || score > anomalousScoreThreshold,
		Note:        advisoryNote,
	}
}

// buildSamples zips position, velocity, and timestamp history into
// physics samples, truncating to the shortest of the three slices.
func buildSamples(positionHistory []vector.Coordinates, velocityHistory []vector.Velocity, timestamps []time.Time) []physics.Sample {
	n := len(velocityHistory)
	if len(positionHistory) < n {
		n = len(positionHistory)
	}
	if len(timestamps) < n {
		n = len(timestamps)
	}
	samples := make([]physics.Sample, n)
	for i := 0; i < n; i++ {
		samples[i] = physics.Sample{Position: positionHistory[i], Velocity: velocityHistory[i], Timestamp: timestamps[i]}
	}
	return samples
}

// hasUnusualVertex reports, once, whether any three consecutive positions
// in history form a vertex sharper than thresholdDegrees.
func hasUnusualVertex(history []vector.Coordinates, thresholdDegrees float64) bool {
	if len(history) < 3 {
		return false
	}
	for i := 1; i < len(history)-1; i++ {
		incoming := vector.FromCoordinates(history[i].Sub(history[i-1]))
		outgoing := vector.FromCoordinates(history[i+1].Sub(history[i]))
		if vector.AngleBetween(incoming, outgoing) > thresholdDegrees {
			return true
		}
	}
	return false
}
