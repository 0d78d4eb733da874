// Package tracking implements the multi-target tracker: greedy
// nearest-neighbour association, Kalman-filter-backed state estimation,
// and the track lifecycle state machine. The owned-map-plus-dedup-state
// shape follows the orbital object tracker and the recency-gated threat
// detector, generalized from "don't re-alert within N minutes" into
// "don't forget a track's state transitions between ticks."
package tracking

import (
	"time"

	"github.com/google/uuid"

	"github.com/asgard/aegis/internal/classify"
	"github.com/asgard/aegis/internal/config"
	"github.com/asgard/aegis/internal/fusion"
	"github.com/asgard/aegis/internal/obs"
	"github.com/asgard/aegis/internal/sensor"
	"github.com/asgard/aegis/internal/vector"
)

// State is a track's lifecycle stage.
type State string

const (
	StateInitializing State = "INITIALIZING"
	StateActive       State = "ACTIVE"
	StateCoasting     State = "COASTING"
	StateTerminated   State = "TERMINATED"
)

// Track is one persistent target estimate.
type Track struct {
	ID              string
	CreatedAt       time.Time
	LastUpdated     time.Time
	UpdateCount     int
	State           State
	Position        vector.Coordinates
	Velocity        vector.Velocity
	Classification  classify.Result
	Confidence      float64
	Kalman          *fusion.KalmanState
	History         []vector.Coordinates
	VelocityHistory []vector.Velocity
}

// EventKind enumerates the lifecycle transitions a TrackEvent can record.
type EventKind string

const (
	EventCreated        EventKind = "CREATED"
	EventPromotedActive EventKind = "PROMOTED_ACTIVE"
	EventCoasting       EventKind = "COASTING"
	EventTerminated     EventKind = "TERMINATED"
	EventPurged         EventKind = "PURGED"
)

// TrackEvent records one lifecycle transition for external consumers that
// want a dashboard-facing change feed rather than re-diffing track
// snapshots every tick.
type TrackEvent struct {
	TrackID   string
	Kind      EventKind
	Timestamp time.Time
}

// maxEventLog bounds the in-memory event history so a long-running tracker
// never grows this unboundedly; older events are dropped first.
const maxEventLog = 200

// Tracker owns a set of tracks and evolves them tick by tick.
type Tracker struct {
	cfg        config.TrackerConfig
	classifier *classify.Classifier
	metrics    *obs.Metrics
	logger     *obs.Logger

	tracks map[string]*Track
	order  []string // insertion order, the tracker's deterministic iteration order
	events []TrackEvent
}

// NewTracker creates a Tracker.
func NewTracker(cfg config.TrackerConfig, classifier *classify.Classifier, metrics *obs.Metrics, logger *obs.Logger) *Tracker {
	return &Tracker{
		cfg:        cfg,
		classifier: classifier,
		metrics:    metrics,
		logger:     logger,
		tracks:     make(map[string]*Track),
	}
}

// Update associates detections with existing tracks, updates matched
// tracks, creates tracks for unassociated detections, ages and purges
// tracks, and returns the current ACTIVE tracks in insertion order. One
// call to Update is one atomic tick: association, update, creation, aging,
// and purging all complete before Update returns.
func (t *Tracker) Update(detections []sensor.Detection, now time.Time) []Track {
	claimed := t.associate(detections)
	t.updateMatched(detections, claimed, now)
	t.createUnmatched(detections, claimed, now)
	t.age(now)
	t.purge(now)

	if t.metrics != nil {
		t.metrics.ActiveTrackCount.Set(float64(t.countState(StateActive)))
	}

	return t.snapshotState(StateActive)
}

// associate runs greedy nearest-neighbour gating: tracks are visited in
// insertion order and each claims the nearest unclaimed detection strictly
// within the association threshold. A detection claimed by one track is
// unavailable to every later track, so no detection is ever assigned to
// more than one track in a tick.
func (t *Tracker) associate(detections []sensor.Detection) map[string]int {
	claimed := make([]bool, len(detections))
	assignment := make(map[string]int, len(t.order))

	for _, id := range t.order {
		track := t.tracks[id]
		if track.State == StateTerminated {
			continue
		}
		best := -1
		bestDist := t.cfg.AssociationThresholdMeters
		for i, d := range detections {
			if claimed[i] || !finitePosition(d) {
				continue
			}
			dist := d.Position.DistanceTo(track.Position)
			if dist < bestDist {
				bestDist = dist
				best = i
			}
		}
		if best >= 0 {
			claimed[best] = true
			assignment[id] = best
		}
	}
	return assignment
}

// finitePosition reports whether d carries a usable position. A detection
// with a NaN position component has no usable position and is ignored
// rather than associated or used to seed a new track. Only NaN is checked;
// infinite components pass.
func finitePosition(d sensor.Detection) bool {
	p := d.Position
	return p == p
}

func (t *Tracker) updateMatched(detections []sensor.Detection, assignment map[string]int, now time.Time) {
	for id, idx := range assignment {
		track := t.tracks[id]
		d := detections[idx]

		updated, ok := fusion.PredictAndUpdate(track.Kalman, d.Position, now, t.cfg.ProcessNoise, d.Uncertainty*100)
		track.Kalman = updated
		if !ok && t.metrics != nil {
			t.metrics.KalmanSkippedTotal.Inc()
		}

		track.Position = updated.Position()
		track.Velocity = updated.Velocity()
		track.History = pushBoundedCoordinates(track.History, track.Position, t.cfg.MaxHistoryLength)
		track.VelocityHistory = pushBoundedVelocities(track.VelocityHistory, track.Velocity, t.cfg.MaxHistoryLength)

		maneuverability := classify.ComputeManeuverability(track.VelocityHistory)
		track.Classification = t.classifier.Classify(classify.Features{
			SpeedMPS:        track.Velocity.Speed(),
			AltitudeM:       track.Position.Z,
			RCS:             d.Metadata.RCS,
			Maneuverability: maneuverability,
			Size:            d.Metadata.Size,
		})
		track.Confidence = track.Classification.Probability

		track.UpdateCount++
		track.LastUpdated = now

		switch track.State {
		case StateInitializing:
			if track.UpdateCount >= t.cfg.MinUpdatesForActive {
				track.State = StateActive
				t.recordEvent(track.ID, EventPromotedActive, now)
			}
		case StateCoasting:
			track.State = StateActive
		}
	}
}

func (t *Tracker) createUnmatched(detections []sensor.Detection, assignment map[string]int, now time.Time) {
	claimed := make([]bool, len(detections))
	for _, idx := range assignment {
		claimed[idx] = true
	}

	for i, d := range detections {
		if claimed[i] || !finitePosition(d) {
			continue
		}

		id := "track_" + uuid.NewString()[:8]
		variance := d.Uncertainty * 100
		kalman := fusion.NewKalmanState(d.Position, d.Velocity, now, variance, variance)
		classification := t.classifier.Classify(classify.Features{
			SpeedMPS:  d.Velocity.Speed(),
			AltitudeM: d.Position.Z,
			RCS:       d.Metadata.RCS,
			Size:      d.Metadata.Size,
		})

		track := &Track{
			ID:              id,
			CreatedAt:       now,
			LastUpdated:     now,
			UpdateCount:     1,
			State:           StateInitializing,
			Position:        d.Position,
			Velocity:        d.Velocity,
			Classification:  classification,
			Confidence:      classification.Probability,
			Kalman:          kalman,
			History:         []vector.Coordinates{d.Position},
			VelocityHistory: []vector.Velocity{d.Velocity},
		}
		t.tracks[id] = track
		t.order = append(t.order, id)

		if t.metrics != nil {
			t.metrics.TracksCreatedTotal.Inc()
		}
		t.recordEvent(id, EventCreated, now)
	}
}

// age advances lifecycle state based on time since last update. At exactly
// max age, a track is TERMINATED; at exactly half of max age, it is
// COASTING. Both boundaries are inclusive.
func (t *Tracker) age(now time.Time) {
	half := t.cfg.MaxAgeSeconds / 2
	for _, id := range t.order {
		track := t.tracks[id]
		if track.State == StateTerminated {
			continue
		}
		sinceUpdate := now.Sub(track.LastUpdated).Seconds()
		switch {
		case sinceUpdate >= t.cfg.MaxAgeSeconds:
			track.State = StateTerminated
			t.recordEvent(id, EventTerminated, now)
		case sinceUpdate >= half:
			if track.State != StateCoasting {
				track.State = StateCoasting
				t.recordEvent(id, EventCoasting, now)
			}
		}
	}
}

// purge removes TERMINATED tracks whose last update is older than twice
// the configured max age.
func (t *Tracker) purge(now time.Time) {
	var kept []string
	for _, id := range t.order {
		track := t.tracks[id]
		if track.State == StateTerminated && now.Sub(track.LastUpdated).Seconds() > 2*t.cfg.MaxAgeSeconds {
			delete(t.tracks, id)
			if t.metrics != nil {
				t.metrics.TracksPurgedTotal.Inc()
			}
			t.recordEvent(id, EventPurged, now)
			continue
		}
		kept = append(kept, id)
	}
	t.order = kept
}

func (t *Tracker) recordEvent(trackID string, kind EventKind, ts time.Time) {
	t.events = append(t.events, TrackEvent{TrackID: trackID, Kind: kind, Timestamp: ts})
	if len(t.events) > maxEventLog {
		t.events = t.events[len(t.events)-maxEventLog:]
	}
	if t.logger != nil {
		t.logger.WithFields(map[string]interface{}{
			"track_id": trackID,
			"event":    kind,
		}).Debug("track lifecycle event")
	}
}

func (t *Tracker) countState(state State) int {
	n := 0
	for _, id := range t.order {
		if t.tracks[id].State == state {
			n++
		}
	}
	return n
}

func (t *Tracker) snapshotState(state State) []Track {
	var out []Track
	for _, id := range t.order {
		track := t.tracks[id]
		if track.State == state {
			out = append(out, *track)
		}
	}
	return out
}

// GetTracks returns all tracks in insertion order, optionally filtered to
// one lifecycle state.
func (t *Tracker) GetTracks(state *State) []Track {
	var out []Track
	for _, id := range t.order {
		track := t.tracks[id]
		if state != nil && track.State != *state {
			continue
		}
		out = append(out, *track)
	}
	return out
}

// GetTrack returns the track with the given ID, if it exists.
func (t *Tracker) GetTrack(id string) (Track, bool) {
	track, ok := t.tracks[id]
	if !ok {
		return Track{}, false
	}
	return *track, true
}

// Events returns the tracker's recent lifecycle events, oldest first.
func (t *Tracker) Events() []TrackEvent {
	return t.events
}

// ClearTracks removes every track and event from the tracker.
func (t *Tracker) ClearTracks() {
	t.tracks = make(map[string]*Track)
	t.order = nil
	t.events = nil
}

func pushBoundedCoordinates(history []vector.Coordinates, pos vector.Coordinates, max int) []vector.Coordinates {
	history = append(history, pos)
	if len(history) > max {
		history = history[len(history)-max:]
	}
	return history
}

func pushBoundedVelocities(history []vector.Velocity, vel vector.Velocity, max int) []vector.Velocity {
	history = append(history, vel)
	if len(history) > max {
		history = history[len(history)-max:]
	}
	return history
}
