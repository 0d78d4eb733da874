package threat

import (
	"testing"

	"github.com/asgard/aegis/internal/classify"
	"github.com/asgard/aegis/internal/config"
	"github.com/asgard/aegis/internal/obs"
	"github.com/asgard/aegis/internal/proximity"
	"github.com/asgard/aegis/internal/vector"
)

func newTestAssessor(t *testing.T) *Assessor {
	t.Helper()
	a, err := NewAssessor(config.DefaultConfig(), vector.Coordinates{}, obs.NewMetrics())
	if err != nil {
		t.Fatalf("NewAssessor: %v", err)
	}
	return a
}

func TestNewAssessorRejectsUnnormalizedWeights(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.ThreatWeights.Classification = 0.9
	if _, err := NewAssessor(cfg, vector.Coordinates{}, obs.NewMetrics()); err == nil {
		t.Fatal("expected an error when weights do not sum to 1")
	}
}

func droneClassification() classify.Result {
	return classify.Result{
		Type:        classify.ObjectAerialDrone,
		Probability: 0.9,
		Uncertainty: 0.1,
	}
}

func TestAssessScoreBoundedZeroOne(t *testing.T) {
	a := newTestAssessor(t)
	in := Input{
		TrackID:         "track_1",
		Position:        vector.Coordinates{X: 1000},
		Velocity:        vector.Velocity{VX: -500},
		Classification:  droneClassification(),
		TrackConfidence: 1.0,
	}
	out := a.Assess(in)
	if out.Score < 0 || out.Score > 1 {
		t.Errorf("Score = %v, want within [0,1]", out.Score)
	}
}

func TestHeadingDirectlyAtOriginScoresHigherThanTangential(t *testing.T) {
	a := newTestAssessor(t)

	direct := a.Assess(Input{
		TrackID:         "direct",
		Position:        vector.Coordinates{X: 10_000},
		Velocity:        vector.Velocity{VX: -300},
		Classification:  droneClassification(),
		TrackConfidence: 0.9,
	})

	tangential := a.Assess(Input{
		TrackID:         "tangential",
		Position:        vector.Coordinates{X: 10_000},
		Velocity:        vector.Velocity{VY: 300},
		Classification:  droneClassification(),
		TrackConfidence: 0.9,
	})

	if direct.Score <= tangential.Score {
		t.Errorf("expected a track heading straight at the origin to score higher (%v) than a tangential track (%v)", direct.Score, tangential.Score)
	}
}

func TestStationaryTrackHasZeroSpeedFactor(t *testing.T) {
	a := newTestAssessor(t)
	out := a.Assess(Input{
		TrackID:        "still",
		Position:       vector.Coordinates{X: 1000},
		Velocity:       vector.Velocity{},
		Classification: droneClassification(),
	})
	if out.Factors.Speed != 0 {
		t.Errorf("Factors.Speed = %v, want 0 for a stationary track", out.Factors.Speed)
	}
}

func TestLevelThresholds(t *testing.T) {
	levels := config.DefaultConfig().ThreatLevels
	cases := []struct {
		score float64
		want  Level
	}{
		{0.9, LevelCritical},
		{0.8, LevelCritical},
		{0.7, LevelHigh},
		{0.5, LevelMedium},
		{0.1, LevelLow},
	}
	for _, c := range cases {
		if got := levelFor(c.score, levels); got != c.want {
			t.Errorf("levelFor(%v) = %v, want %v", c.score, got, c.want)
		}
	}
}

func TestProximityFactorHighestInsideCriticalZone(t *testing.T) {
	critical := proximityFactor([]proximity.Estimate{
		{Zone: proximity.ZoneCritical, TimeToProximity: zeroPtr(), DistanceMeters: 1000},
	})
	outside := proximityFactor([]proximity.Estimate{
		{Zone: proximity.ZoneExtended, DistanceMeters: 100_000},
	})
	if critical <= outside {
		t.Errorf("expected inside-critical-zone factor (%v) > outside-all-zones factor (%v)", critical, outside)
	}
}

func TestAssessmentIDHasThreatPrefix(t *testing.T) {
	a := newTestAssessor(t)
	out := a.Assess(Input{TrackID: "track_1", Classification: droneClassification()})
	if len(out.ID) < len("threat_") || out.ID[:7] != "threat_" {
		t.Errorf("ID = %q, want threat_ prefix", out.ID)
	}
}

func TestBreakdownHasSixFactorsSummingToScore(t *testing.T) {
	a := newTestAssessor(t)
	out := a.Assess(Input{
		TrackID:         "track_1",
		Position:        vector.Coordinates{X: 1000},
		Velocity:        vector.Velocity{VX: -500},
		Classification:  droneClassification(),
		TrackConfidence: 0.8,
	})
	if len(out.Breakdown) != 6 {
		t.Fatalf("len(Breakdown) = %d, want 6", len(out.Breakdown))
	}
	sum := 0.0
	for _, fc := range out.Breakdown {
		if fc.Name == "" {
			t.Error("FactorContribution.Name is empty")
		}
		if fc.Reasoning == "" {
			t.Errorf("FactorContribution.Reasoning is empty for %q", fc.Name)
		}
		sum += fc.Contribution
	}
	if clamp01(sum) != out.Score {
		t.Errorf("sum of Breakdown contributions = %v, want Score %v", sum, out.Score)
	}
}

func TestScoreBoundsContainScore(t *testing.T) {
	a := newTestAssessor(t)
	out := a.Assess(Input{
		TrackID:         "track_1",
		Position:        vector.Coordinates{X: 1000},
		Velocity:        vector.Velocity{VX: -500},
		Classification:  droneClassification(),
		TrackConfidence: 0.5,
	})
	if out.ScoreLower > out.Score || out.Score > out.ScoreUpper {
		t.Errorf("expected ScoreLower (%v) <= Score (%v) <= ScoreUpper (%v)", out.ScoreLower, out.Score, out.ScoreUpper)
	}
}

func zeroPtr() *float64 {
	z := 0.0
	return &z
}
