package classify

import (
	"math"
	"testing"

	"github.com/asgard/aegis/internal/config"
	"github.com/asgard/aegis/internal/entities"
	"github.com/asgard/aegis/internal/vector"
)

func TestProbabilitiesSumToOne(t *testing.T) {
	c := NewClassifier(config.DefaultConfig().Classification)
	r := c.Classify(Features{SpeedMPS: 20, AltitudeM: 300, RCS: 0.1, Maneuverability: 0.8, Size: entities.SizeSmall})
	sum := 0.0
	for _, p := range r.Probabilities {
		sum += p
	}
	if math.Abs(sum-1.0) > 1e-6 {
		t.Errorf("probabilities sum = %v, want 1.0", sum)
	}
}

func TestDroneProfileClassifiesAsDrone(t *testing.T) {
	c := NewClassifier(config.DefaultConfig().Classification)
	r := c.Classify(Features{SpeedMPS: 15, AltitudeM: 200, RCS: 0.05, Maneuverability: 0.9, Size: entities.SizeSmall})
	if r.Type != ObjectAerialDrone {
		t.Errorf("classified as %s, want AERIAL_DRONE", r.Type)
	}
}

func TestAircraftProfileClassifiesAsAircraft(t *testing.T) {
	c := NewClassifier(config.DefaultConfig().Classification)
	r := c.Classify(Features{SpeedMPS: 230, AltitudeM: 10000, RCS: 0.9, Maneuverability: 0.1, Size: entities.SizeLarge})
	if r.Type != ObjectAircraft {
		t.Errorf("classified as %s, want AIRCRAFT", r.Type)
	}
}

func TestAmbiguousFeaturesFallBackToUnknown(t *testing.T) {
	c := NewClassifier(config.ClassificationConfig{UnknownThreshold: 0.9})
	r := c.Classify(Features{SpeedMPS: 100, AltitudeM: 3000, RCS: 0.5, Maneuverability: 0.5})
	if r.Type != ObjectUnknown {
		t.Errorf("with an unreachable unknown threshold, classified as %s, want UNKNOWN_OBJECT", r.Type)
	}
}

func TestUncertaintyBoundedZeroOne(t *testing.T) {
	c := NewClassifier(config.DefaultConfig().Classification)
	r := c.Classify(Features{SpeedMPS: 100, AltitudeM: 1000, RCS: 0.5, Maneuverability: 0.5})
	if r.Uncertainty < 0 || r.Uncertainty > 1 {
		t.Errorf("Uncertainty = %v, want within [0,1]", r.Uncertainty)
	}
}

func TestComputeManeuverabilityRequiresTwoSamples(t *testing.T) {
	if m := ComputeManeuverability(nil); m != 0 {
		t.Errorf("ComputeManeuverability(nil) = %v, want 0", m)
	}
	if m := ComputeManeuverability([]vector.Velocity{{VX: 1}}); m != 0 {
		t.Errorf("ComputeManeuverability(1 sample) = %v, want 0", m)
	}
}

func TestComputeManeuverabilityDetectsSharpTurn(t *testing.T) {
	m := ComputeManeuverability([]vector.Velocity{{VX: 10, VY: 0}, {VX: 0, VY: 10}})
	if m <= 0 {
		t.Errorf("expected nonzero maneuverability for a 90-degree turn, got %v", m)
	}
}
