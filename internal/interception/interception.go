// Package interception evaluates pure-kinematic interception feasibility
// between a track (target) and a defender point whose position and
// velocity the caller supplies: the relative geometry, closest approach, and envelope-
// penetration risk a track presents, without modeling any actual
// interceptor, guidance law, or control action. The closed-form
// position-at-time style follows the satellite propagator's approach to
// predicting future relative state from current position and velocity
// alone.
package interception

import (
	"math"

	"github.com/asgard/aegis/internal/config"
	"github.com/asgard/aegis/internal/vector"
)

// Geometry is the instantaneous relative-motion state of a target
// relative to a defender point.
type Geometry struct {
	RelativePosition   vector.Coordinates
	RelativeVelocity   vector.Velocity
	Range              float64
	LineOfSight        vector.Coordinates // unit vector, defender to target
	ClosingVelocityMPS float64            // relative_vel . LOS; same value as RangeRateMPS, per spec's literal definition
	RangeRateMPS       float64
	BearingDegrees     float64
	ElevationDegrees   float64
	RelativeSpeedMPS   float64
}

// AnalyzeGeometry computes the relative-motion geometry of target
// relative to defender.
func AnalyzeGeometry(defenderPos vector.Coordinates, defenderVel vector.Velocity, targetPos vector.Coordinates, targetVel vector.Velocity) Geometry {
	r := targetPos.Sub(defenderPos)
	v := targetVel.Sub(defenderVel)
	rangeM := r.Magnitude()

	var los vector.Coordinates
	var rangeRate float64
	if rangeM > 0 {
		los = r.Unit()
		rangeRate = v.AsCoordinates().Dot(los)
	}

	horizontal := math.Hypot(r.X, r.Y)
	bearing := math.Mod(math.Atan2(r.Y, r.X)*180/math.Pi+360, 360)
	elevation := math.Atan2(r.Z, horizontal) * 180 / math.Pi

	return Geometry{
		RelativePosition:   r,
		RelativeVelocity:   v,
		Range:              rangeM,
		LineOfSight:        los,
		ClosingVelocityMPS: rangeRate,
		RangeRateMPS:       rangeRate,
		BearingDegrees:     bearing,
		ElevationDegrees:   elevation,
		RelativeSpeedMPS:   v.Speed(),
	}
}

// ClosestApproach is the predicted closest approach under the current
// constant-velocity relative motion.
type ClosestApproach struct {
	TimeSeconds      float64
	Distance         float64
	WorldPosition    vector.Coordinates // world frame: defender position + relative position at t*
	RelativeVelocity vector.Velocity
}

// ComputeClosestApproach finds the time at which the relative distance
// implied by g is minimized under constant relative velocity, clipped to
// be non-negative: a closest approach that already happened (t* < 0)
// reports t=0, not a negative time in the past.
func ComputeClosestApproach(g Geometry, defenderPos vector.Coordinates) ClosestApproach {
	r := g.RelativePosition
	v := g.RelativeVelocity
	vMagSq := v.AsCoordinates().Dot(v.AsCoordinates())

	var tStar float64
	if vMagSq > 0 {
		tStar = -r.Dot(v.AsCoordinates()) / vMagSq
	}
	t := math.Max(0, tStar)

	caRelative := r.Add(v.AsCoordinates().Scale(t))

	return ClosestApproach{
		TimeSeconds:      t,
		Distance:         caRelative.Magnitude(),
		WorldPosition:    defenderPos.Add(caRelative),
		RelativeVelocity: v,
	}
}

// RiskLevel tags a risk envelope's penetration probability.
type RiskLevel string

const (
	RiskLow      RiskLevel = "LOW"
	RiskMedium   RiskLevel = "MEDIUM"
	RiskHigh     RiskLevel = "HIGH"
	RiskCritical RiskLevel = "CRITICAL"
)

// RiskEnvelope is the risk a track poses of penetrating a sphere of given
// radius around the defender.
type RiskEnvelope struct {
	RadiusMeters           float64
	CurrentDistance        float64
	Inside                 bool
	TimeToEnvelope         *float64
	PenetrationProbability float64
	Level                  RiskLevel
	Confidence             float64
}

// timeFactorBucket implements the {<60, <300, <1800, else} -> {0.9, 0.7,
// 0.5, 0.3} time-to-envelope bucketing.
func timeFactorBucket(t float64) float64 {
	switch {
	case t < 60:
		return 0.9
	case t < 300:
		return 0.7
	case t < 1800:
		return 0.5
	default:
		return 0.3
	}
}

// ComputeRiskEnvelope solves |r + v t| = R for the earliest non-negative
// t, treating the defender-centred sphere of radius radiusMeters as the
// envelope. A negative discriminant means the relative trajectory never
// intersects the envelope under the constant-velocity assumption.
func ComputeRiskEnvelope(g Geometry, radiusMeters float64, levels config.ThreatLevelThresholds) RiskEnvelope {
	r := g.RelativePosition
	v := g.RelativeVelocity

	if g.Range <= radiusMeters {
		zero := 0.0
		return RiskEnvelope{
			RadiusMeters:           radiusMeters,
			CurrentDistance:        g.Range,
			Inside:                 true,
			TimeToEnvelope:         &zero,
			PenetrationProbability: 1.0,
			Level:                  riskLevelFor(1.0, levels),
			Confidence:             1.0,
		}
	}

	a := v.AsCoordinates().Dot(v.AsCoordinates())
	b := 2 * r.Dot(v.AsCoordinates())
	c := r.Dot(r) - radiusMeters*radiusMeters

	var t *float64
	if a > 0 {
		discriminant := b*b - 4*a*c
		if discriminant >= 0 {
			sqrtDisc := math.Sqrt(discriminant)
			t1 := (-b - sqrtDisc) / (2 * a)
			t2 := (-b + sqrtDisc) / (2 * a)
			if earliest, ok := earliestNonNegative(t1, t2); ok {
				t = &earliest
			}
		}
	}

	probability := penetrationProbability(t, g.ClosingVelocityMPS, g.RelativeSpeedMPS)
	confidence := riskConfidence(g.Range, g.RelativeSpeedMPS, radiusMeters)

	return RiskEnvelope{
		RadiusMeters:           radiusMeters,
		CurrentDistance:        g.Range,
		Inside:                 false,
		TimeToEnvelope:         t,
		PenetrationProbability: probability,
		Level:                  riskLevelFor(probability, levels),
		Confidence:             confidence,
	}
}

func earliestNonNegative(t1, t2 float64) (float64, bool) {
	if t1 > t2 {
		t1, t2 = t2, t1
	}
	switch {
	case t1 >= 0:
		return t1, true
	case t2 >= 0:
		return t2, true
	default:
		return 0, false
	}
}

// penetrationProbability is 0 if the geometry is not "closing" (per the
// literal closing_velocity = range_rate definition) or no intersection
// was found; otherwise it blends a time-to-envelope bucket with a speed
// term.
func penetrationProbability(t *float64, closingVelocityMPS, relativeSpeedMPS float64) float64 {
	if closingVelocityMPS <= 0 || t == nil {
		return 0
	}
	timeFactor := timeFactorBucket(*t)
	speedFactor := math.Min(1, relativeSpeedMPS/500)
	return vector.Clamp(0.7*timeFactor+0.3*speedFactor, 0, 1)
}

// riskConfidence combines how far the target is from the envelope, how
// fast it is moving, and how close the current distance already sits to
// the envelope boundary.
func riskConfidence(rangeM, relativeSpeedMPS, radiusMeters float64) float64 {
	distanceTerm := 1 - vector.Clamp(rangeM/(5*radiusMeters), 0, 1)
	speedTerm := 1 - vector.Clamp(relativeSpeedMPS/500, 0, 1)
	boundaryTerm := 1 - vector.Clamp(math.Abs(rangeM-radiusMeters)/radiusMeters, 0, 1)
	return vector.Clamp(0.4*distanceTerm+0.3*speedTerm+0.3*boundaryTerm, 0, 1)
}

func riskLevelFor(probability float64, levels config.ThreatLevelThresholds) RiskLevel {
	switch {
	case probability >= levels.Critical:
		return RiskCritical
	case probability >= levels.High:
		return RiskHigh
	case probability >= levels.Medium:
		return RiskMedium
	default:
		return RiskLow
	}
}

// FeasibilityLevel tags how kinematically feasible an interception at
// the track's projected closest approach would be.
type FeasibilityLevel string

const (
	FeasibilityNotFeasible        FeasibilityLevel = "NOT_FEASIBLE"
	FeasibilityMarginallyFeasible FeasibilityLevel = "MARGINALLY_FEASIBLE"
	FeasibilityFeasible           FeasibilityLevel = "FEASIBLE"
	FeasibilityHighlyFeasible     FeasibilityLevel = "HIGHLY_FEASIBLE"
)

// Result aggregates the full interception-feasibility evaluation for one
// track against one envelope.
type Result struct {
	Geometry        Geometry
	ClosestApproach ClosestApproach
	RiskEnvelope    RiskEnvelope
	Level           FeasibilityLevel
	Probability     float64
	Confidence      float64
	Uncertainty     float64
}

// Assess evaluates feasibility from pure kinematics: a defender at
// defenderPos/defenderVel (the protected point, which may itself be
// moving) and a target at targetPos/targetVel, against a risk envelope
// of envelopeRadiusMeters.
func Assess(defenderPos vector.Coordinates, defenderVel vector.Velocity, targetPos vector.Coordinates, targetVel vector.Velocity, cfg config.InterceptionConfig, envelopeRadiusMeters float64, levels config.ThreatLevelThresholds) Result {
	geometry := AnalyzeGeometry(defenderPos, defenderVel, targetPos, targetVel)
	closestApproach := ComputeClosestApproach(geometry, defenderPos)
	riskEnvelope := ComputeRiskEnvelope(geometry, envelopeRadiusMeters, levels)

	rangeFactor := rangeFactorOf(geometry.Range, cfg)
	caFactor := closestApproachFactor(closestApproach.Distance, cfg)
	speedFactor := speedFactorOf(geometry.RelativeSpeedMPS, cfg.MaxRelativeSpeedMPS)
	closingFactor := closingFactorOf(geometry.ClosingVelocityMPS)

	probability := vector.Clamp(0.3*rangeFactor+0.4*caFactor+0.2*speedFactor+0.1*closingFactor, 0, 1)

	confidence := vector.Clamp(
		0.5*(1-geometry.Range/cfg.MaxRangeMeters)+
			0.3*(1/(1+math.Abs(closestApproach.TimeSeconds)/3600))+
			0.2*(1-geometry.RelativeSpeedMPS/cfg.MaxRelativeSpeedMPS),
		0, 1)

	distanceTerm := vector.Clamp(geometry.Range/cfg.MaxRangeMeters, 0, 1)
	timeTerm := (math.Abs(closestApproach.TimeSeconds) / 3600) / (1 + math.Abs(closestApproach.TimeSeconds)/3600)
	speedTerm := vector.Clamp(geometry.RelativeSpeedMPS/cfg.MaxRelativeSpeedMPS, 0, 1)
	uncertainty := vector.Clamp(0.4*distanceTerm+0.4*timeTerm+0.2*speedTerm, 0, 1)

	return Result{
		Geometry:        geometry,
		ClosestApproach: closestApproach,
		RiskEnvelope:    riskEnvelope,
		Level:           feasibilityLevelFor(probability),
		Probability:     probability,
		Confidence:      confidence,
		Uncertainty:     uncertainty,
	}
}

func rangeFactorOf(rangeM float64, cfg config.InterceptionConfig) float64 {
	if rangeM < cfg.MinRangeMeters || rangeM > cfg.MaxRangeMeters {
		return 0
	}
	mid := (cfg.MinRangeMeters + cfg.MaxRangeMeters) / 2
	return vector.Clamp(1-math.Abs(rangeM-mid)/cfg.MaxRangeMeters, 0, 1)
}

func closestApproachFactor(caDistance float64, cfg config.InterceptionConfig) float64 {
	switch {
	case caDistance < cfg.MinRangeMeters:
		return 0.9
	case caDistance < cfg.MaxRangeMeters:
		return 0.5 + 0.4*(1-caDistance/cfg.MaxRangeMeters)
	default:
		return 0.1
	}
}

func speedFactorOf(relativeSpeedMPS, maxRelativeSpeedMPS float64) float64 {
	if relativeSpeedMPS > maxRelativeSpeedMPS {
		return 0
	}
	return 1 - (relativeSpeedMPS/maxRelativeSpeedMPS)*0.5
}

func closingFactorOf(closingVelocityMPS float64) float64 {
	if closingVelocityMPS <= 0 {
		return 0
	}
	return math.Min(1, closingVelocityMPS/100)
}

func feasibilityLevelFor(probability float64) FeasibilityLevel {
	switch {
	case probability >= 0.8:
		return FeasibilityHighlyFeasible
	case probability >= 0.6:
		return FeasibilityFeasible
	case probability >= 0.4:
		return FeasibilityMarginallyFeasible
	default:
		return FeasibilityNotFeasible
	}
}
