// Package classify implements the probabilistic object classifier: a
// feature-scoring-then-normalize pipeline in the same shape as the
// flight-control decision engine's weighted-indicator scoring, adapted
// from an action-selection scorer into a three-way object-type scorer.
package classify

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/asgard/aegis/internal/config"
	"github.com/asgard/aegis/internal/entities"
	"github.com/asgard/aegis/internal/vector"
)

// ObjectType is the classifier's output category.
type ObjectType string

const (
	ObjectAerialDrone ObjectType = "AERIAL_DRONE"
	ObjectAircraft    ObjectType = "AIRCRAFT"
	ObjectUnknown     ObjectType = "UNKNOWN_OBJECT"
)

// Features are the observable quantities the classifier scores against
// each object-type profile.
type Features struct {
	SpeedMPS        float64
	AltitudeM       float64
	RCS             float64 // [0,1], radar cross-section; the tracker passes the detection's metadata RCS
	Maneuverability float64 // [0,1], from recent velocity history
	Size            entities.SizeClass
}

// Result is a full classification: the selected type, its probability,
// the normalized probability map it was drawn from, an entropy-derived
// uncertainty, and a human-readable reasoning string.
type Result struct {
	Type          ObjectType
	Probability   float64
	Probabilities map[ObjectType]float64
	Uncertainty   float64
	Reasoning     string
}

// ComputeManeuverability derives a [0,1] maneuverability estimate from the
// angular change between consecutive velocity samples. It requires at
// least two samples; with fewer, maneuverability is reported as 0 rather
// than guessed.
func ComputeManeuverability(velocityHistory []vector.Velocity) float64 {
	if len(velocityHistory) < 2 {
		return 0
	}
	var total float64
	count := 0
	for i := 1; i < len(velocityHistory); i++ {
		angle := vector.AngleBetween(velocityHistory[i-1], velocityHistory[i])
		total += angle / 180
		count++
	}
	return vector.Clamp(total/float64(count), 0, 1)
}

// Classifier scores Features against the drone and aircraft profiles.
type Classifier struct {
	cfg config.ClassificationConfig
}

// NewClassifier creates a Classifier.
func NewClassifier(cfg config.ClassificationConfig) *Classifier {
	return &Classifier{cfg: cfg}
}

func gaussianScore(x, mean, std float64) float64 {
	if std <= 0 {
		std = 1
	}
	z := (x - mean) / std
	return math.Exp(-0.5 * z * z)
}

func sizeScore(size entities.SizeClass, preferred entities.SizeClass) float64 {
	switch {
	case size == "":
		return 0.5
	case size == preferred:
		return 1.0
	case size == entities.SizeMedium:
		return 0.5
	default:
		return 0.0
	}
}

func droneScore(f Features) float64 {
	speed := gaussianScore(f.SpeedMPS, 20, 20)
	altitude := gaussianScore(f.AltitudeM, 300, 400)
	rcs := 1 - f.RCS
	maneuver := f.Maneuverability
	size := sizeScore(f.Size, entities.SizeSmall)
	return 0.30*speed + 0.25*altitude + 0.20*rcs + 0.15*maneuver + 0.10*size
}

func aircraftScore(f Features) float64 {
	speed := gaussianScore(f.SpeedMPS, 220, 150)
	altitude := gaussianScore(f.AltitudeM, 9000, 6000)
	rcs := f.RCS
	maneuver := 1 - f.Maneuverability
	size := sizeScore(f.Size, entities.SizeLarge)
	return 0.30*speed + 0.25*altitude + 0.20*rcs + 0.15*maneuver + 0.10*size
}

// ambiguityMargin is how close the drone and aircraft scores must be
// before the unknown score gets the ambiguity boost.
const ambiguityMargin = 0.2

// ambiguityBoost is added to the unknown score when drone and aircraft
// scores are within ambiguityMargin of each other.
const ambiguityBoost = 0.2

// unknownScore is 1 minus the stronger of the drone/aircraft scores, so it
// rises as both profiles fit poorly, boosted further when the two scores
// are too close to call.
func unknownScore(drone, aircraft float64) float64 {
	score := 1 - math.Max(drone, aircraft)
	if math.Abs(drone-aircraft) < ambiguityMargin {
		score += ambiguityBoost
	}
	return score
}

// Classify scores f against each object profile, normalizes to a
// probability distribution, and selects the argmax unless it falls below
// the configured unknown threshold.
func (c *Classifier) Classify(f Features) Result {
	drone := droneScore(f)
	aircraft := aircraftScore(f)
	scores := map[ObjectType]float64{
		ObjectAerialDrone: math.Max(drone, 1e-9),
		ObjectAircraft:    math.Max(aircraft, 1e-9),
		ObjectUnknown:     math.Max(unknownScore(drone, aircraft), 1e-9),
	}

	total := scores[ObjectAerialDrone] + scores[ObjectAircraft] + scores[ObjectUnknown]
	probs := make(map[ObjectType]float64, 3)
	for k, v := range scores {
		probs[k] = v / total
	}

	selected, maxProb := argmax(probs)
	if maxProb < c.cfg.UnknownThreshold {
		selected = ObjectUnknown
		maxProb = probs[ObjectUnknown]
	}

	uncertainty := entropyUncertainty(probs)
	reasoning := fmt.Sprintf(
		"classified as %s (p=%.2f) from speed=%.1fm/s altitude=%.1fm rcs=%.2f maneuverability=%.2f",
		selected, maxProb, f.SpeedMPS, f.AltitudeM, f.RCS, f.Maneuverability,
	)

	return Result{
		Type:          selected,
		Probability:   maxProb,
		Probabilities: probs,
		Uncertainty:   uncertainty,
		Reasoning:     reasoning,
	}
}

func argmax(probs map[ObjectType]float64) (ObjectType, float64) {
	// Iterate in a fixed order so that ties resolve deterministically
	// rather than depending on Go's randomized map iteration.
	order := []ObjectType{ObjectAerialDrone, ObjectAircraft, ObjectUnknown}
	best := order[0]
	bestVal := probs[best]
	for _, t := range order[1:] {
		if probs[t] > bestVal {
			best = t
			bestVal = probs[t]
		}
	}
	return best, bestVal
}

// entropyUncertainty returns the Shannon entropy of probs in bits,
// normalized by log2(3) (the maximum entropy over three categories) so the
// result lies in [0,1].
func entropyUncertainty(probs map[ObjectType]float64) float64 {
	p := []float64{probs[ObjectAerialDrone], probs[ObjectAircraft], probs[ObjectUnknown]}
	entropyNats := stat.Entropy(p)
	entropyBits := entropyNats / math.Ln2
	return entropyBits / math.Log2(3)
}
