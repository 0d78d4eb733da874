package config

import "testing"

func TestDefaultConfigValidates(t *testing.T) {
	c := DefaultConfig()
	if err := c.Validate(); err != nil {
		t.Fatalf("DefaultConfig() should validate: %v", err)
	}
}

func TestValidateRejectsBadZones(t *testing.T) {
	c := DefaultConfig()
	c.Zones.ProtectedRadius = c.Zones.CriticalRadius
	if err := c.Validate(); err == nil {
		t.Error("expected error for non-increasing zone radii")
	}
}

func TestValidateRejectsUnnormalizedWeights(t *testing.T) {
	c := DefaultConfig()
	c.ThreatWeights.Classification = 0.9
	if err := c.Validate(); err == nil {
		t.Error("expected error for weights not summing to 1")
	}
}

func TestThreatWeightsSumToOne(t *testing.T) {
	w := DefaultConfig().ThreatWeights
	sum := w.Sum()
	if sum < 0.99 || sum > 1.01 {
		t.Errorf("weights sum = %v, want ~1", sum)
	}
}
