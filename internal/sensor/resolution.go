// Package sensor models the measurement precision of the recording lidar.
package sensor

import (
	"math"

	"github.com/banshee-data/tracking.report/internal/trackdata"
)

// Angular resolution of the 64-beam spinning lidar the tracks were recorded
// with. The horizontal figure is for a 10 Hz spin rate; vertically, 64 beams
// span a 26.8° field of view, so the average beam spacing is 26.8/63 degrees.
const (
	horizontalAngularResDeg = 0.18
	verticalFOVDeg          = 26.8
	beamCount               = 64
)

// Resolution returns the horizontal and vertical sensor resolution, in
// meters, at the planar range of the given sensor-frame position. The
// angular spacing is converted to metric spacing at range d via
// 2·d·tan(res/2). An object at the origin yields zero resolution.
func Resolution(centroid trackdata.Vec3) (horizontal, vertical float64) {
	d := centroid.PlanarDistance()

	horizontal = 2 * d * math.Tan(horizontalAngularResDeg/2*math.Pi/180)
	vertical = 2 * d * math.Tan(verticalFOVDeg/(beamCount-1)/2*math.Pi/180)
	return horizontal, vertical
}
