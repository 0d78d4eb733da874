package interception

import (
	"math"
	"testing"

	"github.com/asgard/aegis/internal/config"
	"github.com/asgard/aegis/internal/vector"
)

func defaultCfg() config.Config {
	return config.DefaultConfig()
}

func TestClosestApproachTimeClippedAtZero(t *testing.T) {
	// Target already past its closest approach: t* would be negative.
	defender := vector.Coordinates{}
	targetPos := vector.Coordinates{X: 1000}
	targetVel := vector.Velocity{VX: 100} // moving further away
	g := AnalyzeGeometry(defender, vector.Velocity{}, targetPos, targetVel)
	ca := ComputeClosestApproach(g, defender)
	if ca.TimeSeconds != 0 {
		t.Errorf("TimeSeconds = %v, want 0 when t* is negative", ca.TimeSeconds)
	}
}

func TestClosestApproachFindsFutureMinimum(t *testing.T) {
	defender := vector.Coordinates{}
	targetPos := vector.Coordinates{X: -1000, Y: 100}
	targetVel := vector.Velocity{VX: 100} // passes near origin going +X
	g := AnalyzeGeometry(defender, vector.Velocity{}, targetPos, targetVel)
	ca := ComputeClosestApproach(g, defender)
	if ca.TimeSeconds <= 0 {
		t.Fatalf("expected a positive closest-approach time, got %v", ca.TimeSeconds)
	}
	if math.Abs(ca.Distance-100) > 1e-6 {
		t.Errorf("Distance = %v, want ~100 (closest pass offset)", ca.Distance)
	}
}

func TestRiskEnvelopeInsideIsZeroTimeFullProbability(t *testing.T) {
	cfg := defaultCfg()
	g := AnalyzeGeometry(vector.Coordinates{}, vector.Velocity{}, vector.Coordinates{X: 5000}, vector.Velocity{})
	env := ComputeRiskEnvelope(g, 10_000, cfg.ThreatLevels)
	if !env.Inside {
		t.Error("expected Inside true within the envelope radius")
	}
	if env.TimeToEnvelope == nil || *env.TimeToEnvelope != 0 {
		t.Errorf("TimeToEnvelope = %v, want 0", env.TimeToEnvelope)
	}
	if env.PenetrationProbability != 1.0 {
		t.Errorf("PenetrationProbability = %v, want 1.0", env.PenetrationProbability)
	}
}

// A target approaching the defender has relative_vel pointing back toward
// the defender, so range_rate (= closing_velocity, per the literal spec
// definition) is negative: this is the "not closing" branch, which scores
// zero penetration probability despite physically approaching.
func TestRiskEnvelopeApproachingTargetIsNotClosingByLiteralDefinition(t *testing.T) {
	cfg := defaultCfg()
	g := AnalyzeGeometry(vector.Coordinates{}, vector.Velocity{}, vector.Coordinates{X: 20_000}, vector.Velocity{VX: -100})
	if g.ClosingVelocityMPS >= 0 {
		t.Fatalf("expected negative ClosingVelocityMPS for a target moving toward the defender, got %v", g.ClosingVelocityMPS)
	}
	env := ComputeRiskEnvelope(g, 10_000, cfg.ThreatLevels)
	if env.PenetrationProbability != 0 {
		t.Errorf("PenetrationProbability = %v, want 0 when closing_velocity <= 0", env.PenetrationProbability)
	}
}

func TestPenetrationProbabilityZeroWhenNotClosingOrNoRoot(t *testing.T) {
	future := 100.0
	if got := penetrationProbability(&future, -1, 200); got != 0 {
		t.Errorf("penetrationProbability with closingVelocity<=0 = %v, want 0", got)
	}
	if got := penetrationProbability(nil, 50, 200); got != 0 {
		t.Errorf("penetrationProbability with nil root = %v, want 0", got)
	}
}

func TestPenetrationProbabilityBucketsByTime(t *testing.T) {
	cases := []struct {
		t    float64
		want float64
	}{
		{30, 0.9},
		{200, 0.7},
		{1000, 0.5},
		{5000, 0.3},
	}
	for _, c := range cases {
		if got := timeFactorBucket(c.t); got != c.want {
			t.Errorf("timeFactorBucket(%v) = %v, want %v", c.t, got, c.want)
		}
	}
}

func TestRiskEnvelopeStationaryTargetOutsideNeverIntersects(t *testing.T) {
	cfg := defaultCfg()
	g := AnalyzeGeometry(vector.Coordinates{}, vector.Velocity{}, vector.Coordinates{X: 20_000}, vector.Velocity{})
	env := ComputeRiskEnvelope(g, 10_000, cfg.ThreatLevels)
	if env.TimeToEnvelope != nil {
		t.Errorf("expected nil TimeToEnvelope for a stationary target outside the envelope, got %v", *env.TimeToEnvelope)
	}
}

func TestFeasibilityLevelThresholds(t *testing.T) {
	cases := []struct {
		probability float64
		want        FeasibilityLevel
	}{
		{0.9, FeasibilityHighlyFeasible},
		{0.8, FeasibilityHighlyFeasible},
		{0.7, FeasibilityFeasible},
		{0.6, FeasibilityFeasible},
		{0.5, FeasibilityMarginallyFeasible},
		{0.4, FeasibilityMarginallyFeasible},
		{0.1, FeasibilityNotFeasible},
	}
	for _, c := range cases {
		if got := feasibilityLevelFor(c.probability); got != c.want {
			t.Errorf("feasibilityLevelFor(%v) = %v, want %v", c.probability, got, c.want)
		}
	}
}

func TestClosingFactorZeroWhenNotClosing(t *testing.T) {
	if got := closingFactorOf(-50); got != 0 {
		t.Errorf("closingFactorOf(-50) = %v, want 0", got)
	}
	if got := closingFactorOf(200); got != 1 {
		t.Errorf("closingFactorOf(200) = %v, want 1 (clamped)", got)
	}
}

func TestRangeFactorZeroOutsideBounds(t *testing.T) {
	cfg := defaultCfg().Interception
	if got := rangeFactorOf(cfg.MinRangeMeters-1, cfg); got != 0 {
		t.Errorf("rangeFactorOf below MinRangeMeters = %v, want 0", got)
	}
	if got := rangeFactorOf(cfg.MaxRangeMeters+1, cfg); got != 0 {
		t.Errorf("rangeFactorOf above MaxRangeMeters = %v, want 0", got)
	}
}

func TestAssessProbabilityBounded(t *testing.T) {
	cfg := defaultCfg()
	result := Assess(vector.Coordinates{}, vector.Velocity{}, vector.Coordinates{X: 100}, vector.Velocity{VX: -10_000}, cfg.Interception, 10_000, cfg.ThreatLevels)
	if result.Probability < 0 || result.Probability > 1 {
		t.Errorf("Probability = %v, want within [0,1]", result.Probability)
	}
	if result.Confidence < 0 || result.Confidence > 1 {
		t.Errorf("Confidence = %v, want within [0,1]", result.Confidence)
	}
	if result.Uncertainty < 0 || result.Uncertainty > 1 {
		t.Errorf("Uncertainty = %v, want within [0,1]", result.Uncertainty)
	}
}

func TestAssessFarSlowTargetIsNotFeasible(t *testing.T) {
	cfg := defaultCfg()
	result := Assess(vector.Coordinates{}, vector.Velocity{}, vector.Coordinates{X: 500_000}, vector.Velocity{VX: 5}, cfg.Interception, 10_000, cfg.ThreatLevels)
	if result.Level != FeasibilityNotFeasible {
		t.Errorf("expected a far target beyond MaxRangeMeters to be NOT_FEASIBLE, got %v (probability %v)", result.Level, result.Probability)
	}
}

func TestBearingAndElevationAreFiniteDegrees(t *testing.T) {
	g := AnalyzeGeometry(vector.Coordinates{}, vector.Velocity{}, vector.Coordinates{X: 100, Y: 100, Z: 50}, vector.Velocity{})
	if g.BearingDegrees < 0 || g.BearingDegrees >= 360 {
		t.Errorf("BearingDegrees = %v, want within [0,360)", g.BearingDegrees)
	}
	if math.IsNaN(g.ElevationDegrees) {
		t.Error("ElevationDegrees is NaN")
	}
}
