// Package predict implements short-horizon trajectory prediction under
// constant-velocity and constant-acceleration motion models, following the
// same state-transition-integration shape the Kalman filter's F(dt) matrix
// uses, unrolled here into a sequence of discrete future points instead of
// a single one-step prediction.
package predict

import (
	"math"
	"time"

	"github.com/asgard/aegis/internal/config"
	"github.com/asgard/aegis/internal/vector"
)

// Model tags which motion model produced a Prediction.
type Model string

const (
	ModelConstantVelocity     Model = "CONSTANT_VELOCITY"
	ModelConstantAcceleration Model = "CONSTANT_ACCELERATION"
)

// Acceleration is a three-axis acceleration estimate in m/s^2.
type Acceleration struct {
	AX, AY, AZ float64
}

// Point is one predicted future position at a given offset from now.
type Point struct {
	OffsetSeconds float64
	Position      vector.Coordinates
}

// Prediction is a predicted short-horizon trajectory.
type Prediction struct {
	CurrentPosition vector.Coordinates
	CurrentVelocity vector.Velocity
	Points          []Point
	Model           Model
	Confidence      float64
	Uncertainty     float64
	Timestamp       time.Time
}

// Predictor produces trajectory predictions using the configured step and
// horizon bounds.
type Predictor struct {
	cfg config.PredictorConfig
}

// NewPredictor creates a Predictor.
func NewPredictor(cfg config.PredictorConfig) *Predictor {
	return &Predictor{cfg: cfg}
}

// EstimateAcceleration derives an acceleration estimate from two velocity
// samples dt seconds apart, componentwise. A non-positive dt yields zero
// acceleration rather than a divide-by-zero or sign-flipped result.
func EstimateAcceleration(v0, v1 vector.Velocity, dt float64) Acceleration {
	if dt <= 0 {
		return Acceleration{}
	}
	return Acceleration{
		AX: (v1.VX - v0.VX) / dt,
		AY: (v1.VY - v0.VY) / dt,
		AZ: (v1.VZ - v0.VZ) / dt,
	}
}

func (a Acceleration) magnitude() float64 {
	return math.Sqrt(a.AX*a.AX + a.AY*a.AY + a.AZ*a.AZ)
}

// clampHorizon bounds horizonSeconds to the predictor's configured maximum.
func (p *Predictor) clampHorizon(horizonSeconds float64) float64 {
	return vector.Clamp(horizonSeconds, 0, p.cfg.MaxHorizonSeconds)
}

func (p *Predictor) steps(horizon float64) []float64 {
	if p.cfg.StepSeconds <= 0 {
		return []float64{0, horizon}
	}
	var offsets []float64
	for t := 0.0; t < horizon; t += p.cfg.StepSeconds {
		offsets = append(offsets, t)
	}
	offsets = append(offsets, horizon)
	return offsets
}

// PredictCV predicts pos(t) = pos + vel*t over the horizon under a
// constant-velocity assumption.
func (p *Predictor) PredictCV(pos vector.Coordinates, vel vector.Velocity, horizonSeconds float64, ts time.Time) Prediction {
	horizon := p.clampHorizon(horizonSeconds)
	points := make([]Point, 0, len(p.steps(horizon)))
	for _, t := range p.steps(horizon) {
		points = append(points, Point{
			OffsetSeconds: t,
			Position:      pos.Add(vel.AsCoordinates().Scale(t)),
		})
	}

	confidence := 1 - 0.5*horizon/p.cfg.MaxHorizonSeconds
	speed := vel.Speed()
	uncertainty := math.Min(1, (horizon/100)*(speed/500))

	return Prediction{
		CurrentPosition: pos,
		CurrentVelocity: vel,
		Points:          points,
		Model:           ModelConstantVelocity,
		Confidence:      vector.Clamp(confidence, 0, 1),
		Uncertainty:     vector.Clamp(uncertainty, 0, 1),
		Timestamp:       ts,
	}
}

// PredictCA predicts pos(t) = pos + vel*t + 0.5*accel*t^2 over the horizon
// under a constant-acceleration assumption.
func (p *Predictor) PredictCA(pos vector.Coordinates, vel vector.Velocity, accel Acceleration, horizonSeconds float64, ts time.Time) Prediction {
	horizon := p.clampHorizon(horizonSeconds)
	offsets := p.steps(horizon)
	points := make([]Point, 0, len(offsets))
	for _, t := range offsets {
		linear := vel.AsCoordinates().Scale(t)
		quadratic := vector.Coordinates{X: accel.AX, Y: accel.AY, Z: accel.AZ}.Scale(0.5 * t * t)
		points = append(points, Point{
			OffsetSeconds: t,
			Position:      pos.Add(linear).Add(quadratic),
		})
	}

	cv := p.PredictCV(pos, vel, horizonSeconds, ts)
	confidence := cv.Confidence * 0.8
	uncertainty := cv.Uncertainty + accel.magnitude()/50

	return Prediction{
		CurrentPosition: pos,
		CurrentVelocity: vel,
		Points:          points,
		Model:           ModelConstantAcceleration,
		Confidence:      vector.Clamp(confidence, 0, 1),
		Uncertainty:     vector.Clamp(uncertainty, 0, 1),
		Timestamp:       ts,
	}
}
