// Package fusion implements the six-state constant-velocity Kalman filter
// used to turn noisy position detections into a smoothed position/velocity
// estimate with covariance, following the same
// predict-then-update-then-symmetrize shape as the flight-control fusion
// stack's extended Kalman filter, reduced from a 15-state model down to
// the six states this domain actually estimates: [x, y, z, vx, vy, vz].
package fusion

import (
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/asgard/aegis/internal/vector"
)

const stateDim = 6
const measurementDim = 3

// KalmanState is the filter's belief about a track's position and velocity
// at a point in time.
type KalmanState struct {
	Mean       *mat.VecDense // [x, y, z, vx, vy, vz]
	Covariance *mat.Dense    // 6x6
	Timestamp  time.Time
}

// NewKalmanState initializes a filter state from a position/velocity
// measurement with diagonal covariance set from the given variances.
func NewKalmanState(pos vector.Coordinates, vel vector.Velocity, ts time.Time, positionVariance, velocityVariance float64) *KalmanState {
	mean := mat.NewVecDense(stateDim, []float64{pos.X, pos.Y, pos.Z, vel.VX, vel.VY, vel.VZ})
	cov := mat.NewDense(stateDim, stateDim, nil)
	for i := 0; i < 3; i++ {
		cov.Set(i, i, positionVariance)
		cov.Set(i+3, i+3, velocityVariance)
	}
	return &KalmanState{Mean: mean, Covariance: cov, Timestamp: ts}
}

// Position extracts the position components of the state mean.
func (s *KalmanState) Position() vector.Coordinates {
	return vector.Coordinates{X: s.Mean.AtVec(0), Y: s.Mean.AtVec(1), Z: s.Mean.AtVec(2)}
}

// Velocity extracts the velocity components of the state mean.
func (s *KalmanState) Velocity() vector.Velocity {
	return vector.Velocity{VX: s.Mean.AtVec(3), VY: s.Mean.AtVec(4), VZ: s.Mean.AtVec(5)}
}

// Clone returns a deep copy so callers can mutate the result without
// aliasing the receiver's matrices.
func (s *KalmanState) Clone() *KalmanState {
	var mean mat.VecDense
	mean.CloneFromVec(s.Mean)
	var cov mat.Dense
	cov.CloneFrom(s.Covariance)
	return &KalmanState{Mean: &mean, Covariance: &cov, Timestamp: s.Timestamp}
}

// stateTransition builds F(dt): identity with dt coupling position to
// velocity at (0,3), (1,4), (2,5).
func stateTransition(dt float64) *mat.Dense {
	f := identity(stateDim)
	f.Set(0, 3, dt)
	f.Set(1, 4, dt)
	f.Set(2, 5, dt)
	return f
}

// measurementMatrix builds H: picks the position rows out of the state.
func measurementMatrix() *mat.Dense {
	h := mat.NewDense(measurementDim, stateDim, nil)
	h.Set(0, 0, 1)
	h.Set(1, 1, 1)
	h.Set(2, 2, 1)
	return h
}

func identity(n int) *mat.Dense {
	m := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		m.Set(i, i, 1)
	}
	return m
}

func diagonal(n int, value float64) *mat.Dense {
	m := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		m.Set(i, i, value)
	}
	return m
}

// Predict advances s by dt seconds under the constant-velocity motion
// model with process noise q*I6, returning a new state; s is unmodified.
func Predict(s *KalmanState, dt, processNoise float64) *KalmanState {
	f := stateTransition(dt)

	newMean := mat.NewVecDense(stateDim, nil)
	newMean.MulVec(f, s.Mean)

	var fp mat.Dense
	fp.Mul(f, s.Covariance)
	var fpft mat.Dense
	fpft.Mul(&fp, f.T())

	q := diagonal(stateDim, processNoise)
	var newCov mat.Dense
	newCov.Add(&fpft, q)

	return &KalmanState{
		Mean:       newMean,
		Covariance: &newCov,
		Timestamp:  s.Timestamp.Add(time.Duration(dt * float64(time.Second))),
	}
}

// Update folds a position measurement into s. measurementVariance sets
// R = measurementVariance * I3. When the innovation covariance S is
// singular, the Kalman gain is treated as zero (the state is returned
// unchanged) and ok is false so the caller can count the skip.
func Update(s *KalmanState, measurement vector.Coordinates, measurementVariance float64) (result *KalmanState, ok bool) {
	h := measurementMatrix()
	z := mat.NewVecDense(measurementDim, []float64{measurement.X, measurement.Y, measurement.Z})

	var hx mat.VecDense
	hx.MulVec(h, s.Mean)
	y := mat.NewVecDense(measurementDim, nil)
	y.SubVec(z, &hx)

	var hp mat.Dense
	hp.Mul(h, s.Covariance)
	var hpht mat.Dense
	hpht.Mul(&hp, h.T())

	r := diagonal(measurementDim, measurementVariance)
	var innovationCov mat.Dense
	innovationCov.Add(&hpht, r)

	var sInv mat.Dense
	k := mat.NewDense(stateDim, measurementDim, nil) // zero Kalman gain by default
	if err := sInv.Inverse(&innovationCov); err == nil {
		var pht mat.Dense
		pht.Mul(s.Covariance, h.T())
		k.Mul(&pht, &sInv)
		ok = true
	}

	var ky mat.VecDense
	ky.MulVec(k, y)
	newMean := mat.NewVecDense(stateDim, nil)
	newMean.AddVec(s.Mean, &ky)

	var kh mat.Dense
	kh.Mul(k, h)
	var iMinusKh mat.Dense
	iMinusKh.Sub(identity(stateDim), &kh)
	var newCov mat.Dense
	newCov.Mul(&iMinusKh, s.Covariance)

	return &KalmanState{
		Mean:       newMean,
		Covariance: symmetrize(&newCov),
		Timestamp:  s.Timestamp,
	}, ok
}

// symmetrize enforces P = (P + Pᵀ)/2 so that floating-point drift from the
// update step never leaves the covariance numerically asymmetric.
func symmetrize(p *mat.Dense) *mat.Dense {
	var t mat.Dense
	t.CloneFrom(p.T())
	var sum mat.Dense
	sum.Add(p, &t)
	sum.Scale(0.5, &sum)
	return &sum
}

// MaxAsymmetry returns max(|P - Pᵀ|) over all elements, used to assert the
// symmetry invariant in tests.
func MaxAsymmetry(p *mat.Dense) float64 {
	rows, cols := p.Dims()
	max := 0.0
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			d := p.At(i, j) - p.At(j, i)
			if d < 0 {
				d = -d
			}
			if d > max {
				max = d
			}
		}
	}
	return max
}

// PredictAndUpdate is the tracker's single entry point: it predicts s
// forward to ts (defaulting dt to 1 second if ts is not after s's
// timestamp) and folds in measurement with the given process and
// measurement noise. ok is false when the update step skipped due to a
// singular innovation covariance; the returned state's mean still reflects
// the prediction step in that case.
func PredictAndUpdate(s *KalmanState, measurement vector.Coordinates, ts time.Time, processNoise, measurementVariance float64) (result *KalmanState, ok bool) {
	dt := ts.Sub(s.Timestamp).Seconds()
	if dt <= 0 {
		dt = 1
	}
	predicted := Predict(s, dt, processNoise)
	predicted.Timestamp = ts

	updated, ok := Update(predicted, measurement, measurementVariance)
	updated.Timestamp = ts
	return updated, ok
}
