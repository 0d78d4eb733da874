// Package physics implements the physical-plausibility validator: a small
// catalog of violation kinds checked against consecutive position/velocity
// samples, in the same threshold-catalog shape as the flight-control
// emergency system's failsafe violation checks.
package physics

import (
	"fmt"
	"strings"
	"time"

	"github.com/asgard/aegis/internal/config"
	"github.com/asgard/aegis/internal/vector"
)

// ViolationKind enumerates the physical-plausibility checks.
type ViolationKind string

const (
	ViolationExcessiveSpeed           ViolationKind = "EXCESSIVE_SPEED"
	ViolationExcessiveAcceleration    ViolationKind = "EXCESSIVE_ACCELERATION"
	ViolationImpossibleVelocityChange ViolationKind = "IMPOSSIBLE_VELOCITY_CHANGE"
	ViolationImpossiblePositionChange ViolationKind = "IMPOSSIBLE_POSITION_CHANGE"
)

// Violation is one failed physical-plausibility check.
type Violation struct {
	Kind   ViolationKind
	Detail string
}

// Sample is a single position/velocity observation at a point in time.
type Sample struct {
	Position vector.Coordinates
	Velocity vector.Velocity
	Timestamp time.Time
}

// Validator checks consecutive samples against configured physical limits.
type Validator struct {
	limits config.PhysicsLimits
}

// NewValidator creates a Validator.
func NewValidator(limits config.PhysicsLimits) *Validator {
	return &Validator{limits: limits}
}

// SeriesResult is the aggregate plausibility verdict over an entire
// position/velocity series: whether it holds up, the distinct violation
// kinds found anywhere in it, the acceleration/speed extremes observed,
// and a human-readable summary.
type SeriesResult struct {
	IsValid             bool
	Violations          []Violation
	MaxAccelerationMPS2 float64
	AvgAccelerationMPS2 float64
	MaxSpeedMPS         float64
	Reasoning           string
}

// ValidateSeries walks samples in order, checking each consecutive pair
// with validatePair and tracking the speed/acceleration extremes across
// the whole series. Violation kinds are deduplicated: a kind that shows
// up at several points in the series is reported once, with the detail
// of its first occurrence, since the series is already flagged invalid
// by its presence at all.
func (v *Validator) ValidateSeries(samples []Sample) SeriesResult {
	var result SeriesResult
	seenKind := make(map[ViolationKind]bool)

	var accelSum float64
	var accelCount int

	for i, s := range samples {
		if speed := s.Velocity.Speed(); speed > result.MaxSpeedMPS {
			result.MaxSpeedMPS = speed
		}
		if i == 0 {
			continue
		}
		prev := samples[i-1]

		for _, violation := range v.validatePair(prev, s) {
			if !seenKind[violation.Kind] {
				seenKind[violation.Kind] = true
				result.Violations = append(result.Violations, violation)
			}
		}

		if dt := s.Timestamp.Sub(prev.Timestamp).Seconds(); dt > 0 {
			accel := s.Velocity.Sub(prev.Velocity).Speed() / dt
			accelSum += accel
			accelCount++
			if accel > result.MaxAccelerationMPS2 {
				result.MaxAccelerationMPS2 = accel
			}
		}
	}

	if accelCount > 0 {
		result.AvgAccelerationMPS2 = accelSum / float64(accelCount)
	}
	result.IsValid = len(result.Violations) == 0
	result.Reasoning = seriesReasoning(result)
	return result
}

func seriesReasoning(r SeriesResult) string {
	if r.IsValid {
		return fmt.Sprintf("no physics violations across the series; max speed %.1f m/s, max acceleration %.1f m/s^2, avg acceleration %.1f m/s^2",
			r.MaxSpeedMPS, r.MaxAccelerationMPS2, r.AvgAccelerationMPS2)
	}
	kinds := make([]string, len(r.Violations))
	for i, violation := range r.Violations {
		kinds[i] = string(violation.Kind)
	}
	return fmt.Sprintf("%d distinct violation kind(s) over the series: %s", len(kinds), strings.Join(kinds, ", "))
}

// validatePair compares curr against prev and returns every violated
// check. When curr is not strictly after prev, rate-based checks
// (acceleration and position-change rate) are skipped since there is no
// well-defined elapsed time to divide by; the absolute speed check still
// runs. ValidateSeries is the public series-level entry point; this
// pairwise step is its building block.
func (v *Validator) validatePair(prev, curr Sample) []Violation {
	var violations []Violation

	speed := curr.Velocity.Speed()
	if speed > v.limits.MaxSpeedMPS {
		violations = append(violations, Violation{
			Kind:   ViolationExcessiveSpeed,
			Detail: fmt.Sprintf("speed %.1f m/s exceeds limit %.1f m/s", speed, v.limits.MaxSpeedMPS),
		})
	}

	deltaV := curr.Velocity.Sub(prev.Velocity)
	deltaVMagnitude := deltaV.Speed()
	if deltaVMagnitude > v.limits.MaxVelocityChangeMPS {
		violations = append(violations, Violation{
			Kind:   ViolationImpossibleVelocityChange,
			Detail: fmt.Sprintf("velocity change %.1f m/s exceeds limit %.1f m/s", deltaVMagnitude, v.limits.MaxVelocityChangeMPS),
		})
	}

	dt := curr.Timestamp.Sub(prev.Timestamp).Seconds()
	if dt <= 0 {
		return violations
	}

	acceleration := deltaVMagnitude / dt
	if acceleration > v.limits.MaxAccelerationMPS2 {
		violations = append(violations, Violation{
			Kind:   ViolationExcessiveAcceleration,
			Detail: fmt.Sprintf("implied acceleration %.1f m/s^2 exceeds limit %.1f m/s^2", acceleration, v.limits.MaxAccelerationMPS2),
		})
	}

	positionRate := curr.Position.DistanceTo(prev.Position) / dt
	if positionRate > v.limits.MaxSpeedMPS {
		violations = append(violations, Violation{
			Kind:   ViolationImpossiblePositionChange,
			Detail: fmt.Sprintf("implied position-change rate %.1f m/s exceeds speed limit %.1f m/s", positionRate, v.limits.MaxSpeedMPS),
		})
	}

	return violations
}
