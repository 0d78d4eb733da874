// Package preprocess implements the optional detection preprocessing chain
// that runs between the sensor simulator and the tracker: validation,
// outlier rejection, noise reduction, and normalization. Every stage is
// fail-safe in the same direction — a detection that fails a check is
// dropped, never repaired or modified in place, mirroring the
// typed-error/no-silent-mutation philosophy the core's error model
// follows elsewhere.
package preprocess

import (
	"math"
	"sort"
	"time"

	"github.com/asgard/aegis/internal/sensor"
	"github.com/asgard/aegis/internal/vector"
)

// SmoothingMethod selects the noise-reduction strategy applied to a
// detection's position before it reaches the tracker.
type SmoothingMethod string

const (
	SmoothingMovingAverage SmoothingMethod = "MOVING_AVERAGE"
	SmoothingMedian        SmoothingMethod = "MEDIAN"
	SmoothingExponential   SmoothingMethod = "EXPONENTIAL"
)

const (
	smoothingWindow  = 5
	exponentialAlpha = 0.3
)

// trackState is the per-source smoothing and outlier-gating state the
// pipeline keeps between calls. Sources are keyed by sensor and entity so
// that two targets seen by the same sensor don't smear into each other's
// history.
type trackState struct {
	history          []vector.Coordinates
	smoothedPosition vector.Coordinates
	hasSmoothed      bool
	lastPosition     vector.Coordinates
	lastTimestamp    time.Time
	hasLast          bool
}

// Pipeline runs the preprocessing filter chain over a batch of detections.
// It is not safe for concurrent use by multiple goroutines, matching the
// core's single-threaded cooperative tick model.
type Pipeline struct {
	method                 SmoothingMethod
	maxJumpMetersPerSecond float64
	states                 map[string]*trackState
}

// NewPipeline creates a Pipeline. maxJumpMetersPerSecond bounds the implied
// speed between consecutive detections from the same source before a
// detection is rejected as an outlier.
func NewPipeline(method SmoothingMethod, maxJumpMetersPerSecond float64) *Pipeline {
	return &Pipeline{
		method:                 method,
		maxJumpMetersPerSecond: maxJumpMetersPerSecond,
		states:                 make(map[string]*trackState),
	}
}

func sourceKey(d sensor.Detection) string {
	return d.SensorID + "/" + d.EntityID
}

// Process runs validation, outlier rejection, noise reduction, and
// normalization over dets in order and returns the surviving detections.
// Order within a source is preserved; dropped detections leave no trace in
// the output.
func (p *Pipeline) Process(dets []sensor.Detection) []sensor.Detection {
	var out []sensor.Detection
	for _, d := range dets {
		if !validate(d) {
			continue
		}

		st := p.stateFor(d)
		if st.hasLast && isOutlier(d, st, p.maxJumpMetersPerSecond) {
			continue
		}
		st.lastPosition = d.Position
		st.lastTimestamp = d.Timestamp
		st.hasLast = true

		d.Position = p.smooth(st, d.Position)
		d.Confidence = vector.Clamp(d.Confidence, 0, 1)
		d.Uncertainty = vector.Clamp(d.Uncertainty, 0, 1)
		d.Signal = vector.Clamp(d.Signal, 0, 1)

		out = append(out, d)
	}
	return out
}

func (p *Pipeline) stateFor(d sensor.Detection) *trackState {
	key := sourceKey(d)
	st, ok := p.states[key]
	if !ok {
		st = &trackState{}
		p.states[key] = st
	}
	return st
}

// validate rejects detections with non-finite values or out-of-range
// confidence/uncertainty/signal. It never mutates d.
func validate(d sensor.Detection) bool {
	if d.SensorID == "" {
		return false
	}
	vals := []float64{
		d.Position.X, d.Position.Y, d.Position.Z,
		d.Velocity.VX, d.Velocity.VY, d.Velocity.VZ,
		d.Confidence, d.Uncertainty, d.Signal, d.Distance,
	}
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	if d.Confidence < 0 || d.Confidence > 1 {
		return false
	}
	if d.Uncertainty < 0 || d.Uncertainty > 1 {
		return false
	}
	if d.Signal < 0 || d.Signal > 1 {
		return false
	}
	return true
}

// isOutlier rejects a detection whose implied speed from the previous
// detection of the same source exceeds maxJumpMetersPerSecond.
func isOutlier(d sensor.Detection, st *trackState, maxJumpMetersPerSecond float64) bool {
	dt := d.Timestamp.Sub(st.lastTimestamp).Seconds()
	if dt <= 0 {
		return false
	}
	impliedSpeed := d.Position.DistanceTo(st.lastPosition) / dt
	return impliedSpeed > maxJumpMetersPerSecond
}

// smooth applies the pipeline's configured noise-reduction method and
// updates st's rolling history.
func (p *Pipeline) smooth(st *trackState, pos vector.Coordinates) vector.Coordinates {
	switch p.method {
	case SmoothingMovingAverage:
		st.history = pushBounded(st.history, pos, smoothingWindow)
		return movingAverage(st.history)

	case SmoothingMedian:
		st.history = pushBounded(st.history, pos, smoothingWindow)
		return componentMedian(st.history)

	case SmoothingExponential:
		fallthrough
	default:
		if !st.hasSmoothed {
			st.smoothedPosition = pos
			st.hasSmoothed = true
			return pos
		}
		st.smoothedPosition = vector.Coordinates{
			X: exponentialAlpha*pos.X + (1-exponentialAlpha)*st.smoothedPosition.X,
			Y: exponentialAlpha*pos.Y + (1-exponentialAlpha)*st.smoothedPosition.Y,
			Z: exponentialAlpha*pos.Z + (1-exponentialAlpha)*st.smoothedPosition.Z,
		}
		return st.smoothedPosition
	}
}

func pushBounded(history []vector.Coordinates, pos vector.Coordinates, window int) []vector.Coordinates {
	history = append(history, pos)
	if len(history) > window {
		history = history[len(history)-window:]
	}
	return history
}

func movingAverage(history []vector.Coordinates) vector.Coordinates {
	var sum vector.Coordinates
	for _, p := range history {
		sum.X += p.X
		sum.Y += p.Y
		sum.Z += p.Z
	}
	n := float64(len(history))
	return vector.Coordinates{X: sum.X / n, Y: sum.Y / n, Z: sum.Z / n}
}

func componentMedian(history []vector.Coordinates) vector.Coordinates {
	xs := make([]float64, len(history))
	ys := make([]float64, len(history))
	zs := make([]float64, len(history))
	for i, p := range history {
		xs[i], ys[i], zs[i] = p.X, p.Y, p.Z
	}
	sort.Float64s(xs)
	sort.Float64s(ys)
	sort.Float64s(zs)
	return vector.Coordinates{X: median(xs), Y: median(ys), Z: median(zs)}
}

func median(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
