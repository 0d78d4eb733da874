// Package sensor implements the range-gated radar sensor simulator: one
// sensor reading per entity per tick, with noise, confidence, and
// uncertainty applied via a noise.Model, generalized from the
// multi-sensor-fusion input shape (sensor type, timestamp, payload,
// covariance/quality) into a pull-model tick function since ticks are
// atomic and synchronous rather than fed through a channel.
package sensor

import (
	"time"

	"github.com/asgard/aegis/internal/entities"
	"github.com/asgard/aegis/internal/noise"
	"github.com/asgard/aegis/internal/vector"
)

// Kind enumerates sensor modalities. The core ships one: radar.
type Kind string

const (
	KindRadar Kind = "RADAR"
)

// EntityMetadata carries the ground-truth characteristics a detection
// exposes downstream for classification features. In a real deployment
// these would be estimated, not known; the simulator publishes them
// directly since it is also the source of ground truth.
type EntityMetadata struct {
	Kind entities.Kind
	RCS  float64
	Size entities.SizeClass
}

// Detection is one radar return at a moment in time.
type Detection struct {
	SensorID    string
	SensorKind  Kind
	Timestamp   time.Time
	EntityID    string // ground truth, simulation only
	Position    vector.Coordinates
	Velocity    vector.Velocity
	Signal      float64 // [0,1]
	Confidence  float64 // [0,1]
	Uncertainty float64 // [0,1]
	Distance    float64 // metres to sensor
	Metadata    EntityMetadata
}

// Radar is a range-gated radar sensor that emits detections for entities
// within range, above the minimum detection confidence, no faster than its
// configured update rate.
type Radar struct {
	ID                     string
	Position               vector.Coordinates
	MaxRangeMeters         float64
	UpdateRateHz           float64
	MinDetectionConfidence float64

	noiseModel  *noise.Model
	lastTick    time.Time
	hasLastTick bool
}

// NewRadar creates a Radar sensor with its own seeded noise model.
func NewRadar(id string, position vector.Coordinates, maxRangeMeters, updateRateHz, minDetectionConfidence float64, seed int64, basePositionSigma, baseVelocitySigma, signalSigma float64) *Radar {
	return &Radar{
		ID:                     id,
		Position:               position,
		MaxRangeMeters:         maxRangeMeters,
		UpdateRateHz:           updateRateHz,
		MinDetectionConfidence: minDetectionConfidence,
		noiseModel:             noise.NewModel(seed, basePositionSigma, baseVelocitySigma, signalSigma),
	}
}

// DetectEntities returns the detections this sensor produces at ts for the
// given entities. Returns nil without advancing internal state if called
// before the sensor's update interval has elapsed.
func (r *Radar) DetectEntities(ts time.Time, ents []entities.SimulatedEntity) []Detection {
	if r.hasLastTick && ts.Sub(r.lastTick).Seconds() < 1/r.UpdateRateHz {
		return nil
	}

	var detections []Detection
	for _, e := range ents {
		truePos, trueVel := e.PoseAt(ts)
		rangeMeters := truePos.DistanceTo(r.Position)
		if rangeMeters > r.MaxRangeMeters {
			continue
		}

		signal := r.noiseModel.SignalStrength(rangeMeters, e.Characteristics.RCS, 1.0)
		confidence := r.noiseModel.DetectionConfidence(rangeMeters, signal, r.MaxRangeMeters)
		if confidence < r.MinDetectionConfidence {
			continue
		}
		uncertainty := r.noiseModel.MeasurementUncertainty(rangeMeters, signal)

		detections = append(detections, Detection{
			SensorID:    r.ID,
			SensorKind:  KindRadar,
			Timestamp:   ts,
			EntityID:    e.ID,
			Position:    r.noiseModel.PositionNoise(truePos, rangeMeters),
			Velocity:    r.noiseModel.VelocityNoise(trueVel, rangeMeters),
			Signal:      signal,
			Confidence:  confidence,
			Uncertainty: uncertainty,
			Distance:    rangeMeters,
			Metadata: EntityMetadata{
				Kind: e.Characteristics.Kind,
				RCS:  e.Characteristics.RCS,
				Size: e.Characteristics.Size,
			},
		})
	}

	r.lastTick = ts
	r.hasLastTick = true
	return detections
}
