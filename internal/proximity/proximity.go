// Package proximity computes time-to-proximity against the concentric
// protected zones centred on the system origin, following the
// radius-based zone-classification shape used by the perimeter scanner.
package proximity

import (
	"math"

	"github.com/asgard/aegis/internal/config"
	"github.com/asgard/aegis/internal/vector"
)

// Zone names the three concentric protected zones, inner to outer.
type Zone string

const (
	ZoneCritical  Zone = "CRITICAL"
	ZoneProtected Zone = "PROTECTED"
	ZoneExtended  Zone = "EXTENDED"
)

// Estimate is the proximity state of one track against one zone.
type Estimate struct {
	Zone                Zone
	RadiusMeters        float64
	DistanceMeters      float64
	TimeToProximity     *float64 // nil if not approaching, 0 if already inside
	IsApproaching       bool
	ApproachVelocityMPS float64
	Confidence          float64
}

// Calculator evaluates proximity against zones centred on origin.
type Calculator struct {
	zones  config.ZoneConfig
	origin vector.Coordinates
}

// NewCalculator creates a Calculator.
func NewCalculator(zones config.ZoneConfig, origin vector.Coordinates) *Calculator {
	return &Calculator{zones: zones, origin: origin}
}

// CalculateZone evaluates proximity for one named zone of the given
// radius.
func (c *Calculator) CalculateZone(pos vector.Coordinates, vel vector.Velocity, name Zone, radiusMeters float64) Estimate {
	distance := pos.DistanceTo(c.origin)

	if distance <= radiusMeters {
		zero := 0.0
		return Estimate{
			Zone:            name,
			RadiusMeters:    radiusMeters,
			DistanceMeters:  distance,
			TimeToProximity: &zero,
			IsApproaching:   true,
			Confidence:      confidence(distance, 0),
		}
	}

	approachVelocity := closingSpeed(pos, vel, c.origin, distance)
	est := Estimate{
		Zone:                name,
		RadiusMeters:        radiusMeters,
		DistanceMeters:      distance,
		ApproachVelocityMPS: approachVelocity,
		Confidence:          confidence(distance, approachVelocity),
	}
	if approachVelocity > 0 {
		t := math.Max(0, (distance-radiusMeters)/approachVelocity)
		est.TimeToProximity = &t
		est.IsApproaching = true
	}
	return est
}

// CalculateAllZones evaluates proximity for the critical, protected, and
// extended zones in that order.
func (c *Calculator) CalculateAllZones(pos vector.Coordinates, vel vector.Velocity) []Estimate {
	return []Estimate{
		c.CalculateZone(pos, vel, ZoneCritical, c.zones.CriticalRadius),
		c.CalculateZone(pos, vel, ZoneProtected, c.zones.ProtectedRadius),
		c.CalculateZone(pos, vel, ZoneExtended, c.zones.ExtendedRadius),
	}
}

// closingSpeed is the rate at which pos is approaching centre: the
// velocity component along the unit vector from pos to centre. Positive
// values mean the target is closing.
func closingSpeed(pos vector.Coordinates, vel vector.Velocity, centre vector.Coordinates, distance float64) float64 {
	if distance == 0 {
		return 0
	}
	direction := centre.Sub(pos).Scale(1 / distance)
	return vel.AsCoordinates().Dot(direction)
}

// confidence blends normalized distance and closing-speed magnitude: far,
// slow-closing tracks get low confidence proximity estimates.
func confidence(distance, approachVelocity float64) float64 {
	distanceTerm := 0.6 * (1 - math.Min(1, distance/200_000))
	speedTerm := 0.4 * math.Min(1, math.Abs(approachVelocity)/100)
	return vector.Clamp(distanceTerm+speedTerm, 0, 1)
}
