package eval

import "github.com/banshee-data/tracking.report/internal/trackdata"

// BuildDistanceMask returns an inclusion mask restricting evaluation to
// objects within maxDistance meters (planar, inclusive) of the sensor. The
// mask holds one entry per frame pair across all tracks, in track-then-frame
// order starting from each track's second frame, the same flattening the
// aggregator's global pair counter walks. The mask is independent of ignore
// flags and of the per-track ground-truth skip counts.
func BuildDistanceMask(tracks []trackdata.Track, maxDistance float64) []bool {
	var mask []bool
	for _, track := range tracks {
		for j := 1; j < len(track.Frames); j++ {
			d := track.Frames[j].Centroid.PlanarDistance()
			mask = append(mask, d <= maxDistance)
		}
	}
	return mask
}
