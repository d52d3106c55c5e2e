package estimate

import (
	"math"

	"github.com/banshee-data/tracking.report/internal/config"
	"github.com/banshee-data/tracking.report/internal/trackdata"
)

// CentroidKalmanConfig holds the filter parameters for the centroid Kalman
// baseline.
type CentroidKalmanConfig struct {
	ProcessNoisePos         float64 // Process noise for position (σ², dt-normalised)
	ProcessNoiseVel         float64 // Process noise for velocity (σ², dt-normalised)
	MeasurementNoiseFloor   float64 // Minimum measurement noise std dev (meters)
	InitialPositionVariance float64 // Initial position variance
	InitialVelocityVariance float64 // Initial velocity variance
}

// DefaultCentroidKalmanConfig returns the baseline configuration built from
// tuning defaults.
func DefaultCentroidKalmanConfig() CentroidKalmanConfig {
	return CentroidKalmanConfigFromTuning(config.EmptyTuningConfig())
}

// CentroidKalmanConfigFromTuning builds a CentroidKalmanConfig from a loaded
// TuningConfig.
func CentroidKalmanConfigFromTuning(cfg *config.TuningConfig) CentroidKalmanConfig {
	return CentroidKalmanConfig{
		ProcessNoisePos:         cfg.GetProcessNoisePos(),
		ProcessNoiseVel:         cfg.GetProcessNoiseVel(),
		MeasurementNoiseFloor:   cfg.GetMeasurementNoiseFloor(),
		InitialPositionVariance: cfg.GetInitialPositionVariance(),
		InitialVelocityVariance: cfg.GetInitialVelocityVariance(),
	}
}

// axisState is the per-axis constant-velocity Kalman state: position,
// velocity, and the 2x2 covariance (PP, PV, VV).
type axisState struct {
	Pos, Vel   float64
	PP, PV, VV float64
}

// CentroidKalman is the centroid-based Kalman filter baseline: it reduces
// each frame's cloud to its centroid and runs an independent
// position/velocity filter per axis. Fast, but blind to object shape, so
// accuracy degrades when the visible portion of the object changes between
// spins.
type CentroidKalman struct {
	Config CentroidKalmanConfig

	initialized bool
	lastTime    float64
	axes        [3]axisState
}

// NewCentroidKalman creates a centroid Kalman baseline estimator.
func NewCentroidKalman(cfg CentroidKalmanConfig) *CentroidKalman {
	return &CentroidKalman{Config: cfg}
}

// Reset clears the filter state ahead of a new track.
func (ck *CentroidKalman) Reset() {
	ck.initialized = false
	ck.lastTime = 0
	ck.axes = [3]axisState{}
}

// Process ingests one frame and returns the filter's velocity estimate and a
// confidence score derived from the innovation magnitude. It never fails.
func (ck *CentroidKalman) Process(cloud trackdata.PointCloud, timestamp, horizontalRes, verticalRes float64) (trackdata.Vec3, float64, error) {
	centroid := cloud.Centroid()
	measurement := [3]float64{centroid.X, centroid.Y, centroid.Z}

	if !ck.initialized {
		for i := range ck.axes {
			ck.axes[i] = axisState{
				Pos: measurement[i],
				PP:  ck.Config.InitialPositionVariance,
				VV:  ck.Config.InitialVelocityVariance,
			}
		}
		ck.initialized = true
		ck.lastTime = timestamp
		return trackdata.Vec3{}, 0, nil
	}

	dt := timestamp - ck.lastTime
	ck.lastTime = timestamp

	// Near-duplicate samples (dt ≈ 0) get no motion update; the measurement
	// update below still runs. The bad-frame detector excludes such pairs
	// from evaluation anyway.
	if dt > 0 {
		for i := range ck.axes {
			ck.predictAxis(&ck.axes[i], dt)
		}
	}

	// Measurement noise tracks the sensor's metric resolution at the
	// object's range: X and Y see the horizontal beam spacing, Z the
	// vertical.
	noiseStd := [3]float64{
		math.Max(horizontalRes, ck.Config.MeasurementNoiseFloor),
		math.Max(horizontalRes, ck.Config.MeasurementNoiseFloor),
		math.Max(verticalRes, ck.Config.MeasurementNoiseFloor),
	}

	var innovationSq float64
	for i := range ck.axes {
		innovation := ck.updateAxis(&ck.axes[i], measurement[i], noiseStd[i]*noiseStd[i])
		innovationSq += innovation * innovation
	}

	velocity := trackdata.Vec3{X: ck.axes[0].Vel, Y: ck.axes[1].Vel, Z: ck.axes[2].Vel}
	confidence := 1.0 / (1.0 + math.Sqrt(innovationSq))
	return velocity, confidence, nil
}

// predictAxis applies the constant-velocity prediction step to one axis.
func (ck *CentroidKalman) predictAxis(a *axisState, dt float64) {
	a.Pos += a.Vel * dt

	// P' = F P F^T + Q, expanded for the 2x2 case.
	a.PP += 2*dt*a.PV + dt*dt*a.VV + ck.Config.ProcessNoisePos*dt
	a.PV += dt * a.VV
	a.VV += ck.Config.ProcessNoiseVel * dt
}

// updateAxis applies the measurement update to one axis and returns the
// innovation.
func (ck *CentroidKalman) updateAxis(a *axisState, z, noiseVar float64) float64 {
	innovation := z - a.Pos
	s := a.PP + noiseVar
	gainPos := a.PP / s
	gainVel := a.PV / s

	a.Pos += gainPos * innovation
	a.Vel += gainVel * innovation

	pv := a.PV
	a.PP *= 1 - gainPos
	a.PV *= 1 - gainPos
	a.VV -= gainVel * pv

	return innovation
}
