package proximity

import (
	"math"
	"testing"

	"github.com/asgard/aegis/internal/config"
	"github.com/asgard/aegis/internal/vector"
)

func newTestCalculator() *Calculator {
	cfg := config.DefaultConfig()
	return NewCalculator(cfg.Zones, vector.Coordinates{})
}

func TestInsideZoneIsZeroTimeAndApproaching(t *testing.T) {
	c := newTestCalculator()
	pos := vector.Coordinates{X: 5000}
	est := c.CalculateZone(pos, vector.Velocity{}, ZoneCritical, 10_000)
	if est.TimeToProximity == nil || *est.TimeToProximity != 0 {
		t.Fatalf("expected time-to-proximity 0 when inside the zone, got %v", est.TimeToProximity)
	}
	if !est.IsApproaching {
		t.Error("expected IsApproaching true when already inside the zone")
	}
}

func TestApproachingOutsideZoneComputesTime(t *testing.T) {
	c := newTestCalculator()
	pos := vector.Coordinates{X: 80_000}
	vel := vector.Velocity{VX: -200}
	est := c.CalculateZone(pos, vel, ZoneExtended, 50_000)
	if est.TimeToProximity == nil {
		t.Fatal("expected a time-to-proximity when closing on the zone")
	}
	want := (80_000.0 - 50_000) / 200
	if math.Abs(*est.TimeToProximity-want) > 1e-6 {
		t.Errorf("time-to-proximity = %v, want %v", *est.TimeToProximity, want)
	}
}

func TestDepartingHasNoTimeToProximity(t *testing.T) {
	c := newTestCalculator()
	pos := vector.Coordinates{X: 80_000}
	vel := vector.Velocity{VX: 200} // moving away from origin
	est := c.CalculateZone(pos, vel, ZoneExtended, 50_000)
	if est.TimeToProximity != nil {
		t.Errorf("expected nil time-to-proximity when departing, got %v", *est.TimeToProximity)
	}
	if est.IsApproaching {
		t.Error("expected IsApproaching false when departing")
	}
}

func TestCalculateAllZonesReturnsThreeInOrder(t *testing.T) {
	c := newTestCalculator()
	ests := c.CalculateAllZones(vector.Coordinates{X: 1000}, vector.Velocity{})
	if len(ests) != 3 {
		t.Fatalf("expected 3 zone estimates, got %d", len(ests))
	}
	wantOrder := []Zone{ZoneCritical, ZoneProtected, ZoneExtended}
	for i, want := range wantOrder {
		if ests[i].Zone != want {
			t.Errorf("zone[%d] = %s, want %s", i, ests[i].Zone, want)
		}
	}
}

func TestConfidenceBoundedZeroOne(t *testing.T) {
	c := newTestCalculator()
	est := c.CalculateZone(vector.Coordinates{X: 1_000_000}, vector.Velocity{VX: -5000}, ZoneExtended, 50_000)
	if est.Confidence < 0 || est.Confidence > 1 {
		t.Errorf("Confidence = %v, want within [0,1]", est.Confidence)
	}
}
