// Package entities implements the six deterministic trajectory kinds used
// by the simulator: for any timestamp t, an entity's pose is a pure
// function of (entity, t - created), following the same
// pose-as-pure-function-of-elapsed-time shape the flight simulator
// integration layer uses for replaying recorded flight data.
package entities

import (
	"math"
	"time"

	"github.com/asgard/aegis/internal/vector"
)

// TrajectoryKind enumerates the supported motion models.
type TrajectoryKind string

const (
	TrajectoryLinear      TrajectoryKind = "LINEAR"
	TrajectoryCircular    TrajectoryKind = "CIRCULAR"
	TrajectoryApproaching TrajectoryKind = "APPROACHING"
	TrajectoryDeparting   TrajectoryKind = "DEPARTING"
	TrajectoryPatrol      TrajectoryKind = "PATROL"
	TrajectoryHover       TrajectoryKind = "HOVER"
)

// SizeClass enumerates the coarse physical size buckets used by the
// classifier.
type SizeClass string

const (
	SizeSmall  SizeClass = "SMALL"
	SizeMedium SizeClass = "MEDIUM"
	SizeLarge  SizeClass = "LARGE"
)

// Kind enumerates ground-truth entity kinds used only in simulation.
type Kind string

const (
	KindDrone    Kind = "DRONE"
	KindAircraft Kind = "AIRCRAFT"
)

// Characteristics describes a simulated entity's physical profile.
type Characteristics struct {
	Kind             Kind
	TypicalSpeedMPS  float64
	TypicalAltitudeM float64
	RCS              float64 // [0,1]
	Maneuverability  float64 // [0,1]
	Size             SizeClass
}

// CircularParams parameterizes a CIRCULAR trajectory.
type CircularParams struct {
	Center        vector.Coordinates
	Radius        float64
	AngularRateHz float64 // rad/s
}

// PatrolParams parameterizes a PATROL trajectory: a sinusoidal traversal
// along a segment of the given length, at the given speed, along Direction
// (a unit vector in the XY plane).
type PatrolParams struct {
	Direction  vector.Coordinates
	LengthM    float64
	SpeedMPS   float64
}

// Params bundles the trajectory parameters relevant to the entity's kind.
// Only the fields matching Kind are read.
type Params struct {
	Circular CircularParams
	Patrol   PatrolParams
}

// SimulatedEntity is the identity, characteristics, and deterministic
// motion model of one simulated aerial object.
type SimulatedEntity struct {
	ID              string
	Characteristics Characteristics
	InitialPosition vector.Coordinates
	InitialVelocity vector.Velocity
	Trajectory      TrajectoryKind
	Params          Params
	CreatedAt       time.Time
}

// finiteDifferenceStep is the dt used to derive velocity by finite
// difference for trajectory kinds without a closed-form velocity.
const finiteDifferenceStep = 0.1 // seconds

// PoseAt returns the entity's true position and velocity at timestamp ts.
func (e SimulatedEntity) PoseAt(ts time.Time) (vector.Coordinates, vector.Velocity) {
	dt := ts.Sub(e.CreatedAt).Seconds()
	return e.positionAt(dt), e.velocityAt(dt)
}

func (e SimulatedEntity) positionAt(dt float64) vector.Coordinates {
	switch e.Trajectory {
	case TrajectoryLinear:
		return e.InitialPosition.Add(e.InitialVelocity.AsCoordinates().Scale(dt))

	case TrajectoryCircular:
		return e.circularPositionAt(dt)

	case TrajectoryApproaching:
		return e.directedPositionAt(dt, true)

	case TrajectoryDeparting:
		return e.directedPositionAt(dt, false)

	case TrajectoryPatrol:
		return e.patrolPositionAt(dt)

	case TrajectoryHover:
		return e.InitialPosition

	default:
		return e.InitialPosition
	}
}

func (e SimulatedEntity) circularPositionAt(dt float64) vector.Coordinates {
	p := e.Params.Circular
	theta0 := math.Atan2(e.InitialPosition.Y-p.Center.Y, e.InitialPosition.X-p.Center.X)
	theta := theta0 + p.AngularRateHz*dt
	return vector.Coordinates{
		X: p.Center.X + p.Radius*math.Cos(theta),
		Y: p.Center.Y + p.Radius*math.Sin(theta),
		Z: e.InitialPosition.Z,
	}
}

// directedPositionAt computes position for APPROACHING (toward the XY
// origin) and DEPARTING (away from it): direction is a unit vector from
// the initial XY position to the origin (or its mirror), vz is preserved,
// and horizontal speed is the magnitude of the initial XY velocity.
func (e SimulatedEntity) directedPositionAt(dt float64, approaching bool) vector.Coordinates {
	originXY := vector.Coordinates{X: 0, Y: 0, Z: e.InitialPosition.Z}
	dir := originXY.Sub(e.InitialPosition)
	dir.Z = 0
	unit := dir.Unit()
	if !approaching {
		unit = unit.Scale(-1)
	}

	speedXY := math.Hypot(e.InitialVelocity.VX, e.InitialVelocity.VY)
	horizontal := unit.Scale(speedXY * dt)

	return vector.Coordinates{
		X: e.InitialPosition.X + horizontal.X,
		Y: e.InitialPosition.Y + horizontal.Y,
		Z: e.InitialPosition.Z + e.InitialVelocity.VZ*dt,
	}
}

func (e SimulatedEntity) patrolPositionAt(dt float64) vector.Coordinates {
	p := e.Params.Patrol
	dir := p.Direction.Unit()
	// Sinusoidal traversal: distance along the segment oscillates between
	// 0 and LengthM with angular frequency SpeedMPS/(LengthM/2).
	if p.LengthM <= 0 {
		return e.InitialPosition
	}
	omega := p.SpeedMPS / (p.LengthM / 2)
	offset := (p.LengthM / 2) * (1 - math.Cos(omega*dt))
	return e.InitialPosition.Add(dir.Scale(offset))
}

func (e SimulatedEntity) velocityAt(dt float64) vector.Velocity {
	switch e.Trajectory {
	case TrajectoryLinear:
		return e.InitialVelocity
	case TrajectoryHover:
		return vector.ZeroVelocity
	default:
		p0 := e.positionAt(dt)
		p1 := e.positionAt(dt + finiteDifferenceStep)
		delta := p1.Sub(p0).Scale(1 / finiteDifferenceStep)
		return vector.FromCoordinates(delta)
	}
}
