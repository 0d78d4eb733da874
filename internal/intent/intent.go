// Package intent infers a track's probable behavioral intent from a
// weighted blend of kinematic indicators, in the same indicator-then-
// weighted-sum shape as the flight-control decision engine's priority
// weighting, adapted from action selection into an intent-probability
// blend. A nil *Result is the package's fail-safe sentinel: callers that
// get nil (no track or position to reason about) must treat the track as
// MONITORING_ONLY rather than guessing.
package intent

import (
	"fmt"
	"math"

	"github.com/asgard/aegis/internal/anomaly"
	"github.com/asgard/aegis/internal/apperr"
	"github.com/asgard/aegis/internal/classify"
	"github.com/asgard/aegis/internal/config"
	"github.com/asgard/aegis/internal/proximity"
	"github.com/asgard/aegis/internal/vector"
)

// Intent is a probable behavioral category.
type Intent string

const (
	IntentLoitering      Intent = "LOITERING"
	IntentTransit        Intent = "TRANSIT"
	IntentSurveillance   Intent = "SURVEILLANCE"
	IntentHostile        Intent = "HOSTILE"
	IntentMonitoringOnly Intent = "MONITORING_ONLY"
)

// Indicators holds the eight [0,1] signals that feed the category blend.
// Surveillance and Hostile are derived from the other indicators.
type Indicators struct {
	Loitering           float64
	Transit             float64
	Surveillance        float64
	Hostile             float64
	ManeuverStability   float64
	ProximityRisk       float64
	AltitudeStability   float64
	SpeedCharacteristic float64
}

// Result is one intent inference.
type Result struct {
	TrackID       string
	Probabilities map[Intent]float64
	Dominant      Intent
	Confidence    float64
	Indicators    Indicators
	// Reasoning is an ordered, human-readable trail of the rule paths that
	// produced this inference, in the same order they were evaluated.
	Reasoning []string
	// Metadata carries supporting values referenced by Reasoning that
	// callers may want without re-deriving them from Indicators.
	Metadata map[string]interface{}
}

// Input bundles the recent history and derived signals Infer needs.
type Input struct {
	TrackID         string
	PositionHistory []vector.Coordinates
	VelocityHistory []vector.Velocity
	Maneuverability float64 // [0,1], from classify.ComputeManeuverability
	Classification  classify.Result
	Proximity       []proximity.Estimate
	Anomaly         anomaly.Result
	SpeedMPS        float64
	TrackConfidence float64
}

// highClassificationProbability is the threshold above which a
// classification is considered confident enough to bump overall
// inference confidence.
const highClassificationProbability = 0.7

// Infer computes the indicator set and category-probability blend for
// in. It returns nil when position history is missing entirely, rather
// than reporting a guess dressed up as a probability.
func Infer(in Input, thresholds config.IntentThresholds) *Result {
	if len(in.PositionHistory) == 0 {
		return nil
	}

	ind := Indicators{
		Loitering:           loiteringIndicator(in.PositionHistory, thresholds.LoiterRadiusM),
		Transit:             transitIndicator(in.VelocityHistory),
		Surveillance:        0, // filled below, depends on Loitering + ProximityRisk
		Hostile:             0, // filled below, the conservative channel
		ManeuverStability:   1 - vector.Clamp(in.Maneuverability, 0, 1),
		ProximityRisk:       proximityRiskIndicator(in.Proximity),
		AltitudeStability:   altitudeStabilityIndicator(in.PositionHistory),
		SpeedCharacteristic: speedIndicator(in.SpeedMPS, thresholds),
	}
	ind.Surveillance = vector.Clamp(0.6*ind.Loitering+0.4*ind.ProximityRisk, 0, 1)
	ind.Hostile = hostileIndicator(ind, in.Anomaly, in.SpeedMPS, thresholds)

	raw := map[Intent]float64{
		IntentLoitering:    vector.Clamp(0.7*ind.Loitering+0.3*ind.AltitudeStability, 0, 1),
		IntentTransit:      vector.Clamp(0.6*ind.Transit+0.4*ind.ManeuverStability, 0, 1),
		IntentSurveillance: ind.Surveillance,
		IntentHostile:      ind.Hostile,
	}
	biased := applyClassificationBias(raw, in.Classification)

	probs := normalize(raw)
	dominant := dominantOf(probs)
	confidence := overallConfidence(in, ind)

	reasoning := buildReasoning(in, ind, biased, dominant, confidence, thresholds)
	metadata := map[string]interface{}{
		"maneuverability":  in.Maneuverability,
		"anomaly_score":    in.Anomaly.Score,
		"speed_mps":        in.SpeedMPS,
		"track_confidence": in.TrackConfidence,
	}

	result, err := newResult(in.TrackID, probs, dominant, confidence, ind, reasoning, metadata)
	if err != nil {
		// The blend above is constructed to always satisfy the
		// invariant; a violation here means a logic error, and the
		// fail-safe response is still MONITORING_ONLY rather than a
		// panic.
		return nil
	}
	return result
}

// buildReasoning renders an ordered, human-readable trail of the rule
// paths Infer evaluated, in the same order the indicators were computed.
func buildReasoning(in Input, ind Indicators, biasedIntent Intent, dominant Intent, confidence float64, thresholds config.IntentThresholds) []string {
	reasoning := []string{
		fmt.Sprintf("loitering indicator %.2f from position clustering against a %.0fm loiter radius", ind.Loitering, thresholds.LoiterRadiusM),
		fmt.Sprintf("transit indicator %.2f from heading consistency across velocity history", ind.Transit),
		fmt.Sprintf("surveillance indicator %.2f = 0.6*loitering + 0.4*proximity-risk(%.2f)", ind.Surveillance, ind.ProximityRisk),
	}
	if in.SpeedMPS < thresholds.HostileSpeedMPS {
		reasoning = append(reasoning, fmt.Sprintf("hostile indicator 0.00: speed %.1f m/s below the %.1f m/s hostile gate", in.SpeedMPS, thresholds.HostileSpeedMPS))
	} else {
		reasoning = append(reasoning, fmt.Sprintf("hostile indicator %.2f: speed past the hostile gate, corroborated by anomaly score %.2f and proximity risk %.2f",
			ind.Hostile, in.Anomaly.Score, ind.ProximityRisk))
	}
	if biasedIntent != "" {
		reasoning = append(reasoning, fmt.Sprintf("classification bias applied toward %s from a %s classification", biasedIntent, in.Classification.Type))
	}
	reasoning = append(reasoning,
		fmt.Sprintf("dominant intent %s selected from the normalized probability blend", dominant),
		fmt.Sprintf("overall confidence %.2f from track confidence, history availability, and classification probability", confidence),
	)
	return reasoning
}

// applyClassificationBias nudges category scores toward the profile most
// associated with the classified object type: a drone classification
// makes surveillance and hostile slightly more likely, an aircraft
// classification makes transit slightly more likely. Neither direction
// is strong enough to override the kinematic indicators on its own.
func applyClassificationBias(raw map[Intent]float64, classification classify.Result) Intent {
	const bias = 1.1
	switch classification.Type {
	case classify.ObjectAerialDrone:
		raw[IntentSurveillance] = vector.Clamp(raw[IntentSurveillance]*bias, 0, 1)
		raw[IntentHostile] = vector.Clamp(raw[IntentHostile]*bias, 0, 1)
		return IntentSurveillance
	case classify.ObjectAircraft:
		raw[IntentTransit] = vector.Clamp(raw[IntentTransit]*bias, 0, 1)
		return IntentTransit
	}
	return ""
}

// overallConfidence starts from track confidence, bumps for available
// velocity and a high-probability classification, and is heavily
// discounted when the track shows zero maneuver stability.
func overallConfidence(in Input, ind Indicators) float64 {
	confidence := in.TrackConfidence
	if len(in.VelocityHistory) > 0 {
		confidence += 0.1
	}
	if in.Classification.Probability > highClassificationProbability {
		confidence += 0.1
	}
	if ind.ManeuverStability == 0 {
		confidence *= 0.8
	}
	return vector.Clamp(confidence, 0, 1)
}

func newResult(trackID string, probs map[Intent]float64, dominant Intent, confidence float64, ind Indicators, reasoning []string, metadata map[string]interface{}) (*Result, error) {
	sum := 0.0
	for _, p := range probs {
		if p < 0 || p > 1 {
			return nil, apperr.ErrProbabilityOutOfRange
		}
		sum += p
	}
	if sum > 1+1e-6 {
		return nil, apperr.ErrProbabilitySumExceeded
	}
	if confidence < 0 || confidence > 1 {
		return nil, apperr.ErrProbabilityOutOfRange
	}
	return &Result{
		TrackID:       trackID,
		Probabilities: probs,
		Dominant:      dominant,
		Confidence:    confidence,
		Indicators:    ind,
		Reasoning:     reasoning,
		Metadata:      metadata,
	}, nil
}

// normalize scales raw down proportionally if its sum exceeds 1, so the
// blend never needs the construction invariant to reject it. A sum under
// 1 is left alone; the remaining mass implicitly belongs to
// MONITORING_ONLY, which this package never assigns a probability to
// directly.
func normalize(raw map[Intent]float64) map[Intent]float64 {
	sum := 0.0
	for _, v := range raw {
		sum += v
	}
	if sum <= 1 || sum == 0 {
		return raw
	}
	scaled := make(map[Intent]float64, len(raw))
	for k, v := range raw {
		scaled[k] = v / sum
	}
	return scaled
}

func dominantOf(probs map[Intent]float64) Intent {
	order := []Intent{IntentHostile, IntentSurveillance, IntentLoitering, IntentTransit}
	best := IntentMonitoringOnly
	bestVal := 0.0
	for _, k := range order {
		if probs[k] > bestVal {
			best = k
			bestVal = probs[k]
		}
	}
	return best
}

// loiteringIndicator reports how tightly position history clusters
// around its own centroid, as a ratio of the average distance from
// centroid to the configured loiter radius.
func loiteringIndicator(history []vector.Coordinates, loiterRadiusM float64) float64 {
	if loiterRadiusM <= 0 {
		return 0
	}
	centroid := centroidOf(history)
	total := 0.0
	for _, p := range history {
		total += p.DistanceTo(centroid)
	}
	avgDist := total / float64(len(history))
	return vector.Clamp(1-avgDist/loiterRadiusM, 0, 1)
}

func centroidOf(history []vector.Coordinates) vector.Coordinates {
	var sum vector.Coordinates
	for _, p := range history {
		sum = sum.Add(p)
	}
	return sum.Scale(1 / float64(len(history)))
}

// transitIndicator reports how consistently velocity holds one heading:
// low angular variance between consecutive samples means steady transit.
func transitIndicator(history []vector.Velocity) float64 {
	if len(history) < 2 {
		return 0
	}
	total := 0.0
	count := 0
	for i := 1; i < len(history); i++ {
		angle := vector.AngleBetween(history[i-1], history[i])
		total += angle
		count++
	}
	avg := total / float64(count)
	return vector.Clamp(1-avg/90, 0, 1)
}

// proximityRiskIndicator is the strongest zone-weighted approach signal
// across zones: the zone weight when inside the zone, weight times
// estimate confidence when approaching, otherwise 0.
func proximityRiskIndicator(estimates []proximity.Estimate) float64 {
	weights := map[proximity.Zone]float64{
		proximity.ZoneCritical:  1.0,
		proximity.ZoneProtected: 0.6,
		proximity.ZoneExtended:  0.3,
	}
	best := 0.0
	for _, est := range estimates {
		weight := weights[est.Zone]
		var value float64
		switch {
		case est.TimeToProximity != nil && *est.TimeToProximity == 0:
			value = weight
		case est.IsApproaching:
			value = weight * est.Confidence
		}
		if value > best {
			best = value
		}
	}
	return vector.Clamp(best, 0, 1)
}

// altitudeStabilityIndicator reports how stable the Z component of
// position history has been, using population standard deviation against a
// fixed 200m reference band.
func altitudeStabilityIndicator(history []vector.Coordinates) float64 {
	if len(history) < 2 {
		return 0
	}
	mean := 0.0
	for _, p := range history {
		mean += p.Z
	}
	mean /= float64(len(history))

	variance := 0.0
	for _, p := range history {
		d := p.Z - mean
		variance += d * d
	}
	variance /= float64(len(history))
	stddev := math.Sqrt(variance)
	return vector.Clamp(1-stddev/200, 0, 1)
}

// speedIndicator scales linearly from the civilian to hostile speed
// bands.
func speedIndicator(speedMPS float64, thresholds config.IntentThresholds) float64 {
	span := thresholds.HostileSpeedMPS - thresholds.CivilianSpeedMPS
	if span <= 0 {
		return 0
	}
	return vector.Clamp((speedMPS-thresholds.CivilianSpeedMPS)/span, 0, 1)
}

// hostileIndicator is the conservative channel: it only rises when
// speed, anomalous behavior, and proximity risk corroborate each other,
// rather than firing on any single signal.
func hostileIndicator(ind Indicators, anomalyResult anomaly.Result, speedMPS float64, thresholds config.IntentThresholds) float64 {
	if speedMPS < thresholds.HostileSpeedMPS {
		return 0
	}
	corroboration := (anomalyResult.Score + ind.ProximityRisk) / 2
	return vector.Clamp(ind.SpeedCharacteristic*corroboration, 0, 1)
}
