// Package trackdata holds the recorded track model consumed by the
// evaluation pipeline: temporally ordered point-cloud observations of a
// single physical object, with centroid positions in sensor-local
// coordinates.
package trackdata

import "math"

// Vec3 is a point or velocity vector in sensor-frame Cartesian coordinates.
// Coordinate convention: X=right, Y=forward, Z=up.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Norm returns the Euclidean magnitude of the vector.
func (v Vec3) Norm() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// PlanarDistance returns the horizontal distance from the sensor origin,
// ignoring elevation.
func (v Vec3) PlanarDistance() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y)
}

// Bearing returns the horizontal angle from the sensor origin to the point,
// in radians. It wraps at ±π, so an object crossing the zero-bearing line
// produces a large apparent jump between consecutive frames.
func (v Vec3) Bearing() float64 {
	return math.Atan2(v.Y, v.X)
}

// PointCloud is the set of returns observed on an object in one frame. The
// evaluation core treats it as opaque and passes it through to the velocity
// estimator.
type PointCloud []Vec3

// Centroid returns the mean position of the cloud, or the zero vector for an
// empty cloud.
func (c PointCloud) Centroid() Vec3 {
	if len(c) == 0 {
		return Vec3{}
	}
	var sum Vec3
	for _, p := range c {
		sum.X += p.X
		sum.Y += p.Y
		sum.Z += p.Z
	}
	n := float64(len(c))
	return Vec3{X: sum.X / n, Y: sum.Y / n, Z: sum.Z / n}
}

// Frame is one observation within a track.
type Frame struct {
	// Centroid is the object centroid in sensor-local coordinates.
	Centroid Vec3 `json:"centroid"`
	// Timestamp is seconds since the start of the recording. Timestamps are
	// monotonically non-decreasing within a track but not guaranteed
	// strictly increasing; spin boundaries can produce near-duplicate
	// samples.
	Timestamp float64 `json:"timestamp"`
	// Cloud holds the object's lidar returns for this frame.
	Cloud PointCloud `json:"points"`
}

// Track is a temporally ordered sequence of observations of one object.
type Track struct {
	Num    int     `json:"track_num"`
	Frames []Frame `json:"frames"`
}
