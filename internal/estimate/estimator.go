// Package estimate defines the velocity estimator contract consumed by the
// evaluation pipeline, plus the centroid Kalman baseline implementation.
package estimate

import "github.com/banshee-data/tracking.report/internal/trackdata"

// VelocityEstimator consumes the frames of one track in temporal order and
// produces a 3D velocity estimate per frame. Implementations carry mutable
// temporal state: Process must be called with strictly the frames of one
// track, in order, after a Reset.
type VelocityEstimator interface {
	// Reset clears internal temporal state before a new track.
	Reset()

	// Process ingests one frame's point cloud with its timestamp (seconds)
	// and the sensor's metric resolution at the object's range. It returns
	// the estimated velocity and an alignment confidence score in [0, 1].
	// The estimate returned for the first frame after a Reset is
	// meaningless; callers discard it.
	Process(cloud trackdata.PointCloud, timestamp, horizontalRes, verticalRes float64) (trackdata.Vec3, float64, error)
}
