package entities

import (
	"math"
	"testing"
	"time"

	"github.com/asgard/aegis/internal/vector"
)

func TestHoverIsConstant(t *testing.T) {
	created := time.Unix(0, 0)
	e := SimulatedEntity{
		InitialPosition: vector.Coordinates{X: 10, Y: 20, Z: 30},
		Trajectory:      TrajectoryHover,
		CreatedAt:       created,
	}
	for _, dt := range []time.Duration{0, 5 * time.Second, 60 * time.Second} {
		pos, vel := e.PoseAt(created.Add(dt))
		if pos != e.InitialPosition {
			t.Errorf("HOVER position at dt=%v = %v, want %v", dt, pos, e.InitialPosition)
		}
		if vel != vector.ZeroVelocity {
			t.Errorf("HOVER velocity at dt=%v = %v, want zero", dt, vel)
		}
	}
}

func TestLinearConstantVelocity(t *testing.T) {
	created := time.Unix(0, 0)
	e := SimulatedEntity{
		InitialPosition: vector.Coordinates{X: 0, Y: 0, Z: 1000},
		InitialVelocity: vector.Velocity{VX: -200, VY: 0, VZ: 0},
		Trajectory:      TrajectoryLinear,
		CreatedAt:       created,
	}
	pos, vel := e.PoseAt(created.Add(10 * time.Second))
	want := vector.Coordinates{X: -2000, Y: 0, Z: 1000}
	if math.Abs(pos.X-want.X) > 1e-6 || pos.Y != want.Y || pos.Z != want.Z {
		t.Errorf("LINEAR position = %v, want %v", pos, want)
	}
	if vel != e.InitialVelocity {
		t.Errorf("LINEAR velocity = %v, want unchanged %v", vel, e.InitialVelocity)
	}
}

func TestCircularStaysOnRadius(t *testing.T) {
	created := time.Unix(0, 0)
	center := vector.Coordinates{X: 2000, Y: 2000, Z: 300}
	e := SimulatedEntity{
		InitialPosition: vector.Coordinates{X: 2500, Y: 2000, Z: 300},
		Trajectory:      TrajectoryCircular,
		Params: Params{Circular: CircularParams{
			Center:        center,
			Radius:        500,
			AngularRateHz: 0.1,
		}},
		CreatedAt: created,
	}
	for _, dt := range []time.Duration{0, 10 * time.Second, 60 * time.Second} {
		pos, _ := e.PoseAt(created.Add(dt))
		dist := pos.DistanceTo(center)
		if math.Abs(dist-500) > 1e-6 {
			t.Errorf("CIRCULAR radius at dt=%v = %v, want 500", dt, dist)
		}
		if pos.Z != 300 {
			t.Errorf("CIRCULAR altitude should stay fixed, got %v", pos.Z)
		}
	}
}

func TestApproachingMovesTowardOrigin(t *testing.T) {
	created := time.Unix(0, 0)
	e := SimulatedEntity{
		InitialPosition: vector.Coordinates{X: 80_000, Y: 0, Z: 10_000},
		InitialVelocity: vector.Velocity{VX: -200, VY: 0, VZ: 0},
		Trajectory:      TrajectoryApproaching,
		CreatedAt:       created,
	}
	p0, _ := e.PoseAt(created)
	p1, _ := e.PoseAt(created.Add(10 * time.Second))
	if p1.DistanceTo(vector.Coordinates{}) >= p0.DistanceTo(vector.Coordinates{}) {
		t.Error("APPROACHING should reduce distance to origin over time")
	}
}

func TestDepartingMovesAwayFromOrigin(t *testing.T) {
	created := time.Unix(0, 0)
	e := SimulatedEntity{
		InitialPosition: vector.Coordinates{X: 1000, Y: 0, Z: 500},
		InitialVelocity: vector.Velocity{VX: 50, VY: 0, VZ: 0},
		Trajectory:      TrajectoryDeparting,
		CreatedAt:       created,
	}
	p0, _ := e.PoseAt(created)
	p1, _ := e.PoseAt(created.Add(10 * time.Second))
	if p1.DistanceTo(vector.Coordinates{}) <= p0.DistanceTo(vector.Coordinates{}) {
		t.Error("DEPARTING should increase distance from origin over time")
	}
}
