package predict

import (
	"math"
	"testing"
	"time"

	"github.com/asgard/aegis/internal/config"
	"github.com/asgard/aegis/internal/vector"
)

func newTestPredictor() *Predictor {
	return NewPredictor(config.DefaultConfig().Predictor)
}

func TestPredictCVLinearMotion(t *testing.T) {
	p := newTestPredictor()
	pos := vector.Coordinates{X: 0, Y: 0, Z: 1000}
	vel := vector.Velocity{VX: -200, VY: 0, VZ: 0}
	pred := p.PredictCV(pos, vel, 30, time.Unix(0, 0))

	last := pred.Points[len(pred.Points)-1]
	want := pos.Add(vel.AsCoordinates().Scale(last.OffsetSeconds))
	if math.Abs(last.Position.X-want.X) > 1e-9 {
		t.Errorf("last predicted position = %v, want %v", last.Position, want)
	}
	if pred.Model != ModelConstantVelocity {
		t.Errorf("Model = %s, want CONSTANT_VELOCITY", pred.Model)
	}
}

func TestPredictCVHorizonClampedToMax(t *testing.T) {
	p := newTestPredictor()
	pred := p.PredictCV(vector.Coordinates{}, vector.Velocity{VX: 10}, 10_000, time.Unix(0, 0))
	last := pred.Points[len(pred.Points)-1]
	if last.OffsetSeconds > config.DefaultConfig().Predictor.MaxHorizonSeconds {
		t.Errorf("last offset %v exceeds max horizon", last.OffsetSeconds)
	}
}

func TestPredictCVConfidenceDecreasesWithHorizon(t *testing.T) {
	p := newTestPredictor()
	short := p.PredictCV(vector.Coordinates{}, vector.Velocity{VX: 10}, 10, time.Unix(0, 0))
	long := p.PredictCV(vector.Coordinates{}, vector.Velocity{VX: 10}, 200, time.Unix(0, 0))
	if long.Confidence >= short.Confidence {
		t.Errorf("expected longer-horizon prediction to have lower confidence: short=%v long=%v", short.Confidence, long.Confidence)
	}
}

func TestPredictCALowerConfidenceThanCV(t *testing.T) {
	p := newTestPredictor()
	pos := vector.Coordinates{X: 0, Y: 0, Z: 1000}
	vel := vector.Velocity{VX: 50, VY: 0, VZ: 0}
	accel := Acceleration{AX: 5}

	cv := p.PredictCV(pos, vel, 30, time.Unix(0, 0))
	ca := p.PredictCA(pos, vel, accel, 30, time.Unix(0, 0))
	if ca.Confidence >= cv.Confidence {
		t.Errorf("CA confidence (%v) should be lower than CV confidence (%v)", ca.Confidence, cv.Confidence)
	}
	if ca.Uncertainty <= cv.Uncertainty {
		t.Errorf("CA uncertainty (%v) should exceed CV uncertainty (%v) due to added acceleration term", ca.Uncertainty, cv.Uncertainty)
	}
}

func TestEstimateAccelerationComponentwise(t *testing.T) {
	v0 := vector.Velocity{VX: 0, VY: 0, VZ: 0}
	v1 := vector.Velocity{VX: 10, VY: -5, VZ: 2}
	a := EstimateAcceleration(v0, v1, 2)
	want := Acceleration{AX: 5, AY: -2.5, AZ: 1}
	if a != want {
		t.Errorf("EstimateAcceleration = %+v, want %+v", a, want)
	}
}

func TestEstimateAccelerationZeroWhenDtNonPositive(t *testing.T) {
	a := EstimateAcceleration(vector.Velocity{}, vector.Velocity{VX: 10}, 0)
	if a != (Acceleration{}) {
		t.Errorf("expected zero acceleration for dt<=0, got %+v", a)
	}
}
