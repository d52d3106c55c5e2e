package eval

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/tracking.report/internal/config"
	"github.com/banshee-data/tracking.report/internal/estimate"
	"github.com/banshee-data/tracking.report/internal/trackdata"
)

// cloudTrack builds a track whose centroid moves along +X at the given speed
// with well-behaved bearings and time gaps, so the bad-frame scan marks
// nothing.
func cloudTrack(num, frames int, speed float64) trackdata.Track {
	track := trackdata.Track{Num: num}
	for j := 0; j < frames; j++ {
		ts := float64(j) * 0.1
		x := 8 + speed*ts
		cloud := trackdata.PointCloud{
			{X: x - 0.3, Y: 2, Z: 0.5},
			{X: x + 0.3, Y: 2, Z: 0.5},
			{X: x, Y: 2.4, Z: 0.7},
		}
		track.Frames = append(track.Frames, trackdata.Frame{
			Centroid:  cloud.Centroid(),
			Timestamp: ts,
			Cloud:     cloud,
		})
	}
	return track
}

func writeGroundTruth(t *testing.T, dir string, trackNum int, contents string) {
	t.Helper()
	path := filepath.Join(dir, fmt.Sprintf("track%dgt.txt", trackNum))
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))
}

// TestPipelineEndToEnd runs the full pipeline over two clean tracks: one
// with 3 frames (2 pairs) and one with 2 frames (1 pair), expecting 3
// evaluated errors unrestricted and the per-track invariants to hold.
func TestPipelineEndToEnd(t *testing.T) {
	t.Parallel()

	tracks := []trackdata.Track{
		cloudTrack(1, 3, 2.0),
		cloudTrack(2, 2, 1.0),
	}

	gtDir := t.TempDir()
	writeGroundTruth(t, gtDir, 1, "2.0\n2.0\n")
	writeGroundTruth(t, gtDir, 2, "1.0\n")

	cfg := config.EmptyTuningConfig()
	estimator := estimate.NewCentroidKalman(estimate.CentroidKalmanConfigFromTuning(cfg))

	driver := NewDriver(estimator)
	results, err := driver.Run(tracks)
	require.NoError(t, err)

	require.Len(t, results, 2)
	assert.Len(t, results[0].Pairs, 2)
	assert.Len(t, results[1].Pairs, 1)
	assert.Equal(t, 3, driver.FramePairs)

	NewBadFrameDetector(cfg).Mark(tracks, results)
	for _, res := range results {
		for _, pair := range res.Pairs {
			assert.False(t, pair.Ignored)
		}
	}

	agg := &Aggregator{GroundTruth: &GroundTruthFolder{Path: gtDir}}
	summary, err := agg.Evaluate(results)
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Samples)
	assert.False(t, summary.RMS != summary.RMS, "RMS must not be NaN")
}

// TestPipelineNearDuplicateFrameExcluded runs the pipeline where the second
// track's only pair has a near-zero time gap, so the detector drops it and
// only the first track's two pairs reach the error collection.
func TestPipelineNearDuplicateFrameExcluded(t *testing.T) {
	t.Parallel()

	trackB := cloudTrack(2, 2, 1.0)
	trackB.Frames[1].Timestamp = trackB.Frames[0].Timestamp + 0.01
	tracks := []trackdata.Track{cloudTrack(1, 3, 2.0), trackB}

	gtDir := t.TempDir()
	writeGroundTruth(t, gtDir, 1, "2.0\n2.0\n")
	writeGroundTruth(t, gtDir, 2, "1.0\n")

	cfg := config.EmptyTuningConfig()
	driver := NewDriver(estimate.NewCentroidKalman(estimate.CentroidKalmanConfigFromTuning(cfg)))
	results, err := driver.Run(tracks)
	require.NoError(t, err)
	NewBadFrameDetector(cfg).Mark(tracks, results)

	require.Len(t, results[1].Pairs, 1)
	assert.True(t, results[1].Pairs[0].Ignored)

	agg := &Aggregator{GroundTruth: &GroundTruthFolder{Path: gtDir}}
	summary, err := agg.Evaluate(results)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Samples)
}

// TestPipelineWithinDistanceMask restricts the same run to nearby objects;
// the tracks sit at ~8m so a 5m threshold masks everything out.
func TestPipelineWithinDistanceMask(t *testing.T) {
	t.Parallel()

	tracks := []trackdata.Track{cloudTrack(1, 3, 2.0)}

	gtDir := t.TempDir()
	writeGroundTruth(t, gtDir, 1, "2.0\n2.0\n")

	cfg := config.EmptyTuningConfig()
	driver := NewDriver(estimate.NewCentroidKalman(estimate.CentroidKalmanConfigFromTuning(cfg)))
	results, err := driver.Run(tracks)
	require.NoError(t, err)
	NewBadFrameDetector(cfg).Mark(tracks, results)

	agg := &Aggregator{
		GroundTruth: &GroundTruthFolder{Path: gtDir},
		Mask:        BuildDistanceMask(tracks, 5.0),
	}
	_, err = agg.Evaluate(results)
	assert.ErrorIs(t, err, ErrNoSamples)
}
