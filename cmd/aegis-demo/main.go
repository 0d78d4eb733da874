// aegis-demo wires the full detection-to-decision-support pipeline end to
// end over a short simulated run: sensor detections feed the tracker,
// tracks feed classification, proximity, threat, interception, and intent
// inference, and the result is logged tick by tick. It is not a CLI
// shell or a dashboard, just a worked example proving the exported
// package interfaces compose the way spec.md's external interfaces
// require.
package main

import (
	"flag"
	"time"

	"github.com/asgard/aegis/internal/anomaly"
	"github.com/asgard/aegis/internal/classify"
	"github.com/asgard/aegis/internal/config"
	"github.com/asgard/aegis/internal/entities"
	"github.com/asgard/aegis/internal/intent"
	"github.com/asgard/aegis/internal/interception"
	"github.com/asgard/aegis/internal/obs"
	"github.com/asgard/aegis/internal/predict"
	"github.com/asgard/aegis/internal/proximity"
	"github.com/asgard/aegis/internal/simulation"
	"github.com/asgard/aegis/internal/threat"
	"github.com/asgard/aegis/internal/tracking"
	"github.com/asgard/aegis/internal/vector"
)

func main() {
	ticks := flag.Int("ticks", 60, "number of one-second simulation ticks to run")
	seed := flag.Int64("seed", 42, "deterministic PRNG seed")
	flag.Parse()

	logger := obs.NewLogger()
	metrics := obs.NewMetrics()

	cfg := config.DefaultConfig()
	cfg.PRNGSeed = *seed
	cfg.DeterministicMode = true

	start := time.Unix(0, 0).UTC()
	engine := simulation.NewEngine(cfg, cfg.PRNGSeed, cfg.DeterministicMode, start, metrics, logger)
	engine.AddSensor(simulation.AddSensorParams{
		ID:       "radar_1",
		Position: vector.Coordinates{},
	})
	engine.AddEntity(simulation.AddEntityParams{
		ID: "inbound_drone",
		Characteristics: entities.Characteristics{
			Kind:             entities.KindDrone,
			TypicalSpeedMPS:  220,
			TypicalAltitudeM: 800,
			RCS:              0.2,
			Maneuverability:  0.6,
			Size:             entities.SizeSmall,
		},
		InitialPosition: vector.Coordinates{X: -60_000, Y: 4_000, Z: 800},
		InitialVelocity: vector.Velocity{VX: 220},
		Trajectory:      entities.TrajectoryApproaching,
	})
	engine.AddEntity(simulation.AddEntityParams{
		ID: "transit_aircraft",
		Characteristics: entities.Characteristics{
			Kind:             entities.KindAircraft,
			TypicalSpeedMPS:  180,
			TypicalAltitudeM: 9_000,
			RCS:              0.8,
			Maneuverability:  0.1,
			Size:             entities.SizeLarge,
		},
		InitialPosition: vector.Coordinates{X: -40_000, Y: -40_000, Z: 9_000},
		InitialVelocity: vector.Velocity{VX: 130, VY: 130},
		Trajectory:      entities.TrajectoryLinear,
	})

	classifier := classify.NewClassifier(cfg.Classification)
	tracker := tracking.NewTracker(cfg.Tracker, classifier, metrics, logger)
	proximityCalc := proximity.NewCalculator(cfg.Zones, vector.Coordinates{})
	anomalyDetector := anomaly.NewDetector(cfg.Anomaly, cfg.Physics)
	predictor := predict.NewPredictor(cfg.Predictor)

	threatAssessor, err := threat.NewAssessor(cfg, vector.Coordinates{}, metrics)
	if err != nil {
		logger.Errorf("threat assessor rejected configured weights: %v", err)
		return
	}

	interceptorPos := vector.Coordinates{Z: 100}
	interceptorVel := vector.Velocity{}

	timestamps := make(map[string][]time.Time)

	for i := 0; i < *ticks; i++ {
		now := start.Add(time.Duration(i) * time.Second)
		step := engine.SimulateStep(now)
		tracks := tracker.Update(step.Detections, now)

		logger.WithFields(map[string]interface{}{
			"tick":   i,
			"active": len(tracks),
		}).Info("tick processed")

		for _, trk := range tracks {
			timestamps[trk.ID] = append(timestamps[trk.ID], now)
			if len(timestamps[trk.ID]) > cfg.Tracker.MaxHistoryLength {
				timestamps[trk.ID] = timestamps[trk.ID][len(timestamps[trk.ID])-cfg.Tracker.MaxHistoryLength:]
			}

			estimates := proximityCalc.CalculateAllZones(trk.Position, trk.Velocity)
			anomalyResult := anomalyDetector.Detect(trk.History, trk.VelocityHistory, timestamps[trk.ID])

			threatAssessment := threatAssessor.Assess(threat.Input{
				TrackID:            trk.ID,
				Position:           trk.Position,
				Velocity:           trk.Velocity,
				Classification:     trk.Classification,
				ProximityEstimates: estimates,
				TrackConfidence:    trk.Confidence,
			})

			maneuverability := classify.ComputeManeuverability(trk.VelocityHistory)
			intentResult := intent.Infer(intent.Input{
				TrackID:         trk.ID,
				PositionHistory: trk.History,
				VelocityHistory: trk.VelocityHistory,
				Maneuverability: maneuverability,
				Classification:  trk.Classification,
				Proximity:       estimates,
				Anomaly:         anomalyResult,
				SpeedMPS:        trk.Velocity.Speed(),
				TrackConfidence: trk.Confidence,
			}, cfg.Intent)
			intentLabel := intent.IntentMonitoringOnly
			if intentResult != nil {
				intentLabel = intentResult.Dominant
			}

			prediction := predictor.PredictCV(trk.Position, trk.Velocity, cfg.Predictor.HorizonSeconds, now)

			fields := map[string]interface{}{
				"track_id":    trk.ID,
				"state":       trk.State,
				"class":       trk.Classification.Type,
				"threat":      threatAssessment.Level,
				"score":       threatAssessment.Score,
				"intent":      intentLabel,
				"anomalous":   anomalyResult.IsAnomalous,
				"predict_pts": len(prediction.Points),
			}

			if threatAssessment.Level == threat.LevelHigh || threatAssessment.Level == threat.LevelCritical {
				result := interception.Assess(interceptorPos, interceptorVel, trk.Position, trk.Velocity, cfg.Interception, cfg.Zones.CriticalRadius, cfg.ThreatLevels)
				fields["intercept_level"] = result.Level
				fields["intercept_probability"] = result.Probability
			}

			logger.WithFields(fields).Info("track assessed")
		}
	}

	logger.Info("simulation complete")
}
