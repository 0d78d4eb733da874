// Package noise implements the seeded Gaussian noise model that turns a
// true entity pose into a noisy sensor reading. Every draw comes from a
// single PRNG owned by the Model instance, matching the teacher's
// owned-rand.Rand-field idiom rather than the global math/rand source, so
// that two Models seeded identically produce bit-identical output
// regardless of what else in the process has drawn randomness.
package noise

import (
	"math"
	"math/rand"

	"github.com/asgard/aegis/internal/vector"
)

// Model is a seeded noise source for one simulated sensor.
type Model struct {
	rng *rand.Rand

	basePositionSigma float64
	baseVelocitySigma float64
	signalSigma       float64
}

// NewModel creates a Model seeded deterministically from seed.
func NewModel(seed int64, basePositionSigma, baseVelocitySigma, signalSigma float64) *Model {
	return &Model{
		rng:               rand.New(rand.NewSource(seed)),
		basePositionSigma: basePositionSigma,
		baseVelocitySigma: baseVelocitySigma,
		signalSigma:       signalSigma,
	}
}

// PositionNoise returns truePos perturbed by zero-mean Gaussian noise whose
// sigma grows with range (sigma = basePositionSigma * (1 + range/100km));
// the altitude component uses half that sigma.
func (m *Model) PositionNoise(truePos vector.Coordinates, rangeMeters float64) vector.Coordinates {
	sigma := m.basePositionSigma * (1 + rangeMeters/100_000)
	return vector.Coordinates{
		X: truePos.X + m.rng.NormFloat64()*sigma,
		Y: truePos.Y + m.rng.NormFloat64()*sigma,
		Z: truePos.Z + m.rng.NormFloat64()*(sigma/2),
	}
}

// VelocityNoise returns trueVel perturbed by zero-mean Gaussian noise whose
// sigma grows with range (sigma = baseVelocitySigma * (1 + range/200km)).
func (m *Model) VelocityNoise(trueVel vector.Velocity, rangeMeters float64) vector.Velocity {
	sigma := m.baseVelocitySigma * (1 + rangeMeters/200_000)
	return vector.Velocity{
		VX: trueVel.VX + m.rng.NormFloat64()*sigma,
		VY: trueVel.VY + m.rng.NormFloat64()*sigma,
		VZ: trueVel.VZ + m.rng.NormFloat64()*sigma,
	}
}

// SignalStrength models inverse-square signal falloff with range, scaled
// by the target's radar cross section, plus Gaussian noise, clamped to
// [0,1].
func (m *Model) SignalStrength(rangeMeters, rcs, base float64) float64 {
	s := base * rcs / (1 + math.Pow(rangeMeters/10_000, 2))
	s += m.rng.NormFloat64() * m.signalSigma
	return vector.Clamp(s, 0, 1)
}

// DetectionConfidence blends inverse range and signal strength with
// Gaussian noise, clamped to [0,1].
func (m *Model) DetectionConfidence(rangeMeters, signal, maxRange float64) float64 {
	c := 0.6*(1-rangeMeters/maxRange) + 0.4*signal
	c += m.rng.NormFloat64() * 0.05
	return vector.Clamp(c, 0, 1)
}

// MeasurementUncertainty blends normalized range and inverse signal
// strength, clamped to [0,1].
func (m *Model) MeasurementUncertainty(rangeMeters, signal float64) float64 {
	u := 0.7*math.Min(1, rangeMeters/200_000) + 0.3*(1-signal)
	return vector.Clamp(u, 0, 1)
}
