package physics

import (
	"testing"
	"time"

	"github.com/asgard/aegis/internal/config"
	"github.com/asgard/aegis/internal/vector"
)

func newTestValidator() *Validator {
	return NewValidator(config.DefaultConfig().Physics)
}

func hasKind(violations []Violation, kind ViolationKind) bool {
	for _, v := range violations {
		if v.Kind == kind {
			return true
		}
	}
	return false
}

func TestExcessiveSpeedDetected(t *testing.T) {
	v := newTestValidator()
	prev := Sample{Timestamp: time.Unix(0, 0)}
	curr := Sample{Velocity: vector.Velocity{VX: 2000}, Timestamp: time.Unix(1, 0)}
	violations := v.validatePair(prev, curr)
	if !hasKind(violations, ViolationExcessiveSpeed) {
		t.Error("expected EXCESSIVE_SPEED violation")
	}
}

func TestImpossiblePositionJump(t *testing.T) {
	v := newTestValidator()
	prev := Sample{Position: vector.Coordinates{}, Timestamp: time.Unix(0, 0)}
	curr := Sample{Position: vector.Coordinates{X: 5000}, Timestamp: time.Unix(1, 0)}
	violations := v.validatePair(prev, curr)
	if !hasKind(violations, ViolationImpossiblePositionChange) {
		t.Error("expected IMPOSSIBLE_POSITION_CHANGE for a 5km jump in 1s")
	}
}

func TestExcessiveAccelerationDetected(t *testing.T) {
	v := newTestValidator()
	prev := Sample{Velocity: vector.Velocity{VX: 0}, Timestamp: time.Unix(0, 0)}
	curr := Sample{Velocity: vector.Velocity{VX: 500}, Timestamp: time.Unix(1, 0)}
	violations := v.validatePair(prev, curr)
	if !hasKind(violations, ViolationExcessiveAcceleration) {
		t.Error("expected EXCESSIVE_ACCELERATION violation")
	}
}

func TestImpossibleVelocityChangeDetected(t *testing.T) {
	v := newTestValidator()
	prev := Sample{Velocity: vector.Velocity{VX: 0}, Timestamp: time.Unix(0, 0)}
	curr := Sample{Velocity: vector.Velocity{VX: 300}, Timestamp: time.Unix(1, 0)}
	violations := v.validatePair(prev, curr)
	if !hasKind(violations, ViolationImpossibleVelocityChange) {
		t.Error("expected IMPOSSIBLE_VELOCITY_CHANGE violation")
	}
}

func TestPlausibleMotionHasNoViolations(t *testing.T) {
	v := newTestValidator()
	prev := Sample{Position: vector.Coordinates{}, Velocity: vector.Velocity{VX: 200}, Timestamp: time.Unix(0, 0)}
	curr := Sample{Position: vector.Coordinates{X: 200}, Velocity: vector.Velocity{VX: 200}, Timestamp: time.Unix(1, 0)}
	violations := v.validatePair(prev, curr)
	if len(violations) != 0 {
		t.Errorf("expected no violations for plausible motion, got %+v", violations)
	}
}

func TestNonPositiveDtSkipsRateChecks(t *testing.T) {
	v := newTestValidator()
	prev := Sample{Timestamp: time.Unix(5, 0)}
	curr := Sample{Velocity: vector.Velocity{VX: 10}, Timestamp: time.Unix(5, 0)}
	violations := v.validatePair(prev, curr)
	if hasKind(violations, ViolationExcessiveAcceleration) || hasKind(violations, ViolationImpossiblePositionChange) {
		t.Error("rate-based checks should be skipped when dt <= 0")
	}
}

func TestValidateSeriesPlausibleMotionIsValid(t *testing.T) {
	v := newTestValidator()
	series := []Sample{
		{Position: vector.Coordinates{}, Velocity: vector.Velocity{VX: 200}, Timestamp: time.Unix(0, 0)},
		{Position: vector.Coordinates{X: 200}, Velocity: vector.Velocity{VX: 200}, Timestamp: time.Unix(1, 0)},
		{Position: vector.Coordinates{X: 400}, Velocity: vector.Velocity{VX: 200}, Timestamp: time.Unix(2, 0)},
	}
	result := v.ValidateSeries(series)
	if !result.IsValid {
		t.Errorf("expected a valid series, got violations %+v", result.Violations)
	}
	if result.MaxSpeedMPS != 200 {
		t.Errorf("MaxSpeedMPS = %v, want 200", result.MaxSpeedMPS)
	}
	if result.Reasoning == "" {
		t.Error("expected non-empty Reasoning")
	}
}

func TestValidateSeriesDedupesRepeatedViolationKind(t *testing.T) {
	v := newTestValidator()
	series := []Sample{
		{Velocity: vector.Velocity{VX: 2000}, Timestamp: time.Unix(0, 0)},
		{Velocity: vector.Velocity{VX: 2000}, Timestamp: time.Unix(1, 0)},
		{Velocity: vector.Velocity{VX: 2000}, Timestamp: time.Unix(2, 0)},
	}
	result := v.ValidateSeries(series)
	if result.IsValid {
		t.Fatal("expected an invalid series")
	}
	count := 0
	for _, violation := range result.Violations {
		if violation.Kind == ViolationExcessiveSpeed {
			count++
		}
	}
	if count != 1 {
		t.Errorf("ExcessiveSpeed violation reported %d times, want 1 (deduped)", count)
	}
}

func TestValidateSeriesTracksMaxAndAvgAcceleration(t *testing.T) {
	v := newTestValidator()
	series := []Sample{
		{Velocity: vector.Velocity{VX: 0}, Timestamp: time.Unix(0, 0)},
		{Velocity: vector.Velocity{VX: 10}, Timestamp: time.Unix(1, 0)},
		{Velocity: vector.Velocity{VX: 40}, Timestamp: time.Unix(2, 0)},
	}
	result := v.ValidateSeries(series)
	if result.MaxAccelerationMPS2 != 30 {
		t.Errorf("MaxAccelerationMPS2 = %v, want 30", result.MaxAccelerationMPS2)
	}
	if result.AvgAccelerationMPS2 != 20 {
		t.Errorf("AvgAccelerationMPS2 = %v, want 20", result.AvgAccelerationMPS2)
	}
}
