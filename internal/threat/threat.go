// Package threat implements the multi-factor threat-assessment engine: a
// weighted blend of classification, proximity, behavior, speed,
// trajectory, and tracking-confidence factors into a single bounded
// score, following the same weighted/deduped severity-scoring shape as
// the platform's network-intrusion threat detector, generalized from
// source-IP reputation to kinematic track factors.
package threat

import (
	"fmt"
	"math"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/stat"

	"github.com/asgard/aegis/internal/apperr"
	"github.com/asgard/aegis/internal/classify"
	"github.com/asgard/aegis/internal/config"
	"github.com/asgard/aegis/internal/obs"
	"github.com/asgard/aegis/internal/proximity"
	"github.com/asgard/aegis/internal/vector"
)

// Level tags an assessment's overall score.
type Level string

const (
	LevelLow      Level = "LOW"
	LevelMedium   Level = "MEDIUM"
	LevelHigh     Level = "HIGH"
	LevelCritical Level = "CRITICAL"
)

// Factors holds the six weighted inputs to an assessment, each already
// clamped to [0,1] before weighting.
type Factors struct {
	Classification float64
	Proximity      float64
	Behavior       float64
	Speed          float64
	Trajectory     float64
	Confidence     float64
}

// FactorContribution records one weighted factor's role in the total
// score: its name, raw [0,1] value, configured weight, resulting
// contribution to the sum, and a one-line explanation of the raw value.
type FactorContribution struct {
	Name         string
	RawValue     float64
	Weight       float64
	Contribution float64
	Reasoning    string
}

// Input bundles everything Assess needs about one track at one instant.
type Input struct {
	TrackID            string
	Position           vector.Coordinates
	Velocity           vector.Velocity
	Classification     classify.Result
	ProximityEstimates []proximity.Estimate
	TrackConfidence    float64
}

// Assessment is one scored threat evaluation.
type Assessment struct {
	ID          string
	TrackID     string
	Factors     Factors
	Breakdown   []FactorContribution
	Score       float64
	ScoreLower  float64 // lower confidence bound; ScoreLower <= Score <= ScoreUpper
	ScoreUpper  float64 // upper confidence bound
	Uncertainty float64
	Confidence  float64
	Likelihood  float64
	Level       Level
}

// baseClassificationRisk is the base risk assigned to each object type
// before the uncertainty and probability adjustments. Anything not in
// the map (and AERIAL_DRONE itself) uses the 0.5 default.
var baseClassificationRisk = map[classify.ObjectType]float64{
	classify.ObjectUnknown:  0.6,
	classify.ObjectAircraft: 0.3,
}

const defaultClassificationRisk = 0.5

// zoneBaseRisk is the base risk from zone membership, inner to outer.
var zoneBaseRisk = map[proximity.Zone]float64{
	proximity.ZoneCritical:  0.9,
	proximity.ZoneProtected: 0.7,
	proximity.ZoneExtended:  0.4,
}

const outsideAllZonesRisk = 0.1

// Assessor scores tracks against the configured factor weights and level
// thresholds.
type Assessor struct {
	weights config.ThreatWeights
	levels  config.ThreatLevelThresholds
	speeds  config.IntentThresholds
	origin  vector.Coordinates
	metrics *obs.Metrics
}

// NewAssessor creates an Assessor. It returns apperr.ErrWeightsNotNormalized
// if the configured weights do not sum to 1 within 0.01, the same tolerance
// spec.md applies everywhere weights are configured.
func NewAssessor(cfg config.Config, origin vector.Coordinates, metrics *obs.Metrics) (*Assessor, error) {
	if diff := cfg.ThreatWeights.Sum() - 1.0; diff < -0.01 || diff > 0.01 {
		return nil, apperr.ErrWeightsNotNormalized
	}
	return &Assessor{
		weights: cfg.ThreatWeights,
		levels:  cfg.ThreatLevels,
		speeds:  cfg.Intent,
		origin:  origin,
		metrics: metrics,
	}, nil
}

// Assess scores in and returns the resulting Assessment.
func (a *Assessor) Assess(in Input) Assessment {
	angle := headingToOriginAngle(in.Position, in.Velocity, a.origin)
	speed := in.Velocity.Speed()

	factors := Factors{
		Classification: classificationFactor(in.Classification),
		Proximity:      proximityFactor(in.ProximityEstimates),
		Behavior:       behaviorFactor(speed, angle, a.speeds.HostileSpeedMPS),
		Speed:          speedFactor(speed, a.speeds),
		Trajectory:     trajectoryFactor(speed, angle),
		Confidence:     confidenceFactor(in.TrackConfidence),
	}

	breakdown := []FactorContribution{
		{
			Name: "classification", RawValue: factors.Classification, Weight: a.weights.Classification,
			Contribution: a.weights.Classification * factors.Classification,
			Reasoning: fmt.Sprintf("classified %s (p=%.2f, uncertainty=%.2f)",
				in.Classification.Type, in.Classification.Probability, in.Classification.Uncertainty),
		},
		{
			Name: "proximity", RawValue: factors.Proximity, Weight: a.weights.Proximity,
			Contribution: a.weights.Proximity * factors.Proximity,
			Reasoning:    fmt.Sprintf("nearest zone risk %.2f given current proximity estimates", factors.Proximity),
		},
		{
			Name: "behavior", RawValue: factors.Behavior, Weight: a.weights.Behavior,
			Contribution: a.weights.Behavior * factors.Behavior,
			Reasoning:    fmt.Sprintf("heading %.1f degrees off the origin at %.1f m/s", angle, speed),
		},
		{
			Name: "speed", RawValue: factors.Speed, Weight: a.weights.Speed,
			Contribution: a.weights.Speed * factors.Speed,
			Reasoning:    fmt.Sprintf("speed %.1f m/s against civilian/hostile bands", speed),
		},
		{
			Name: "trajectory", RawValue: factors.Trajectory, Weight: a.weights.Trajectory,
			Contribution: a.weights.Trajectory * factors.Trajectory,
			Reasoning:    fmt.Sprintf("trajectory angle %.1f degrees from the origin", angle),
		},
		{
			Name: "confidence", RawValue: factors.Confidence, Weight: a.weights.Confidence,
			Contribution: a.weights.Confidence * factors.Confidence,
			Reasoning:    fmt.Sprintf("track confidence %.2f", in.TrackConfidence),
		},
	}

	total := 0.0
	for _, c := range breakdown {
		total += c.Contribution
	}
	total = clamp01(total)

	factorValues := []float64{factors.Classification, factors.Proximity, factors.Behavior, factors.Speed, factors.Trajectory, factors.Confidence}
	variance := stat.Variance(factorValues, nil)

	uncertainty := clamp01(
		0.4*in.Classification.Uncertainty +
			0.3*(1-in.TrackConfidence) +
			0.3*math.Min(1, 4*variance),
	)
	confidence := clamp01(
		0.5*in.TrackConfidence +
			0.3*(1-in.Classification.Uncertainty) +
			0.2*shareNonZero(factorValues),
	)
	likelihood := clamp01(total + 0.2*uncertainty)

	// The score bound widens with uncertainty: a fully-certain assessment
	// (uncertainty 0) collapses lower/upper onto the score itself.
	half := uncertainty / 2
	scoreLower := clamp01(total - half)
	scoreUpper := clamp01(total + half)

	level := levelFor(total, a.levels)
	if a.metrics != nil {
		a.metrics.ThreatsByLevel.WithLabelValues(string(level)).Inc()
	}

	return Assessment{
		ID:          fmt.Sprintf("threat_%s", uuid.NewString()[:8]),
		TrackID:     in.TrackID,
		Factors:     factors,
		Breakdown:   breakdown,
		Score:       total,
		ScoreLower:  scoreLower,
		ScoreUpper:  scoreUpper,
		Uncertainty: uncertainty,
		Confidence:  confidence,
		Likelihood:  likelihood,
		Level:       level,
	}
}

// headingToOriginAngle is the angle between the track's velocity and the
// direction from its position to the origin: small means the track is
// heading straight at the protected point. A stationary track has no
// heading to compare, so it reports a full 180 degrees (never aligned)
// rather than the 0 AngleBetween returns for a zero vector, which would
// otherwise read as "heading directly at the origin."
func headingToOriginAngle(position vector.Coordinates, velocity vector.Velocity, origin vector.Coordinates) float64 {
	if velocity.Speed() == 0 {
		return 180
	}
	toOrigin := vector.FromCoordinates(origin.Sub(position))
	return vector.AngleBetween(velocity, toOrigin)
}

func classificationFactor(result classify.Result) float64 {
	risk, ok := baseClassificationRisk[result.Type]
	if !ok {
		risk = defaultClassificationRisk
	}
	return clamp01(risk * (1 - 0.3*result.Uncertainty) * result.Probability)
}

func proximityFactor(estimates []proximity.Estimate) float64 {
	base := outsideAllZonesRisk
	distance := 0.0
	for _, est := range estimates {
		if zoneBase, ok := zoneBaseRisk[est.Zone]; ok {
			distance = est.DistanceMeters
			if est.TimeToProximity != nil && *est.TimeToProximity == 0 {
				base = zoneBase
				break
			}
		}
	}
	if distance == 0 && len(estimates) > 0 {
		distance = estimates[0].DistanceMeters
	}
	multiplier := 0.5 + 0.5*(1-math.Min(1, distance/200_000))
	return clamp01(base * multiplier)
}

// behaviorFactor starts at a baseline and adds independent bonuses for a
// tight heading-to-origin angle and for exceeding the hostile speed
// threshold, per spec's literal "add X if ..." phrasing (cumulative, not
// a single else-if chain).
func behaviorFactor(speedMPS, angleDegrees, hostileSpeedMPS float64) float64 {
	score := 0.3
	if speedMPS > 0 {
		if angleDegrees < 60 {
			score += 0.2
		}
		if angleDegrees < 30 {
			score += 0.4
		}
	}
	if speedMPS > hostileSpeedMPS {
		score += 0.2
	}
	return clamp01(score)
}

func speedFactor(speedMPS float64, speeds config.IntentThresholds) float64 {
	switch {
	case speedMPS == 0:
		return 0
	case speedMPS > speeds.HostileSpeedMPS:
		return 0.8
	case speedMPS > 200:
		return 0.5
	case speedMPS > speeds.CivilianSpeedMPS:
		return 0.3
	default:
		return 0.1
	}
}

func trajectoryFactor(speedMPS, angleDegrees float64) float64 {
	if speedMPS == 0 {
		return 0.3
	}
	switch {
	case angleDegrees < 45:
		return 0.7
	case angleDegrees < 90:
		return 0.5
	default:
		return 0.3
	}
}

func confidenceFactor(trackConfidence float64) float64 {
	return clamp01(0.5 * (1 - trackConfidence))
}

func shareNonZero(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	count := 0
	for _, v := range values {
		if v > 0 {
			count++
		}
	}
	return float64(count) / float64(len(values))
}

func levelFor(score float64, levels config.ThreatLevelThresholds) Level {
	switch {
	case score >= levels.Critical:
		return LevelCritical
	case score >= levels.High:
		return LevelHigh
	case score >= levels.Medium:
		return LevelMedium
	default:
		return LevelLow
	}
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
