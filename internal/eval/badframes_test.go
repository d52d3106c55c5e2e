package eval

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/tracking.report/internal/config"
	"github.com/banshee-data/tracking.report/internal/trackdata"
)

// frameAt builds a frame whose centroid sits at the given bearing (radians)
// and planar distance.
func frameAt(bearing, distance, timestamp float64) trackdata.Frame {
	return trackdata.Frame{
		Centroid:  trackdata.Vec3{X: distance * math.Cos(bearing), Y: distance * math.Sin(bearing)},
		Timestamp: timestamp,
	}
}

// buildTrack assembles a track plus an index-aligned result with all pairs
// provisionally not ignored, as the driver would produce.
func buildTrack(num int, frames ...trackdata.Frame) (trackdata.Track, TrackResult) {
	track := trackdata.Track{Num: num, Frames: frames}
	res := TrackResult{TrackNum: num}
	if len(frames) > 1 {
		res.Pairs = make([]FramePair, len(frames)-1)
	}
	return track, res
}

func ignoredFlags(res TrackResult) []bool {
	flags := make([]bool, len(res.Pairs))
	for i, p := range res.Pairs {
		flags[i] = p.Ignored
	}
	return flags
}

func TestBadFrameDetector(t *testing.T) {
	t.Parallel()

	det := NewBadFrameDetector(config.EmptyTuningConfig())

	t.Run("clean track stays unmarked", func(t *testing.T) {
		t.Parallel()
		track, res := buildTrack(1,
			frameAt(0.3, 10, 0.0),
			frameAt(0.3, 10, 0.1),
			frameAt(0.31, 10, 0.2),
			frameAt(0.32, 10, 0.3),
		)

		det.Mark([]trackdata.Track{track}, []TrackResult{res})
		assert.Equal(t, []bool{false, false, false}, ignoredFlags(res))
	})

	t.Run("near-duplicate sampling marks the pair", func(t *testing.T) {
		t.Parallel()
		track, res := buildTrack(1,
			frameAt(0.3, 10, 0.0),
			frameAt(0.3, 10, 0.1),
			frameAt(0.3, 10, 0.11), // 10ms after the previous spin
			frameAt(0.3, 10, 0.21),
		)

		det.Mark([]trackdata.Track{track}, []TrackResult{res})
		assert.Equal(t, []bool{false, true, false}, ignoredFlags(res))
	})

	t.Run("bearing jump contaminates both straddling pairs and the next", func(t *testing.T) {
		t.Parallel()
		// Jump of 1.5 rad at frame index 2; the pair after the jump has a
		// healthy time gap but is still marked via the latch.
		track, res := buildTrack(1,
			frameAt(0.1, 10, 0.0),
			frameAt(0.1, 10, 0.1),
			frameAt(1.6, 10, 0.2),
			frameAt(1.6, 10, 0.3),
			frameAt(1.6, 10, 0.4),
		)

		det.Mark([]trackdata.Track{track}, []TrackResult{res})
		assert.Equal(t, []bool{true, true, true, false}, ignoredFlags(res))
	})

	t.Run("jump at second frame has no earlier pair to contaminate", func(t *testing.T) {
		t.Parallel()
		track, res := buildTrack(1,
			frameAt(0.1, 10, 0.0),
			frameAt(1.6, 10, 0.1),
			frameAt(1.6, 10, 0.2),
			frameAt(1.6, 10, 0.3),
		)

		det.Mark([]trackdata.Track{track}, []TrackResult{res})
		// Slot 0 from the jump, slot 1 from the latch; nothing before slot 0.
		assert.Equal(t, []bool{true, true, false}, ignoredFlags(res))
	})

	t.Run("single frame track produces no decision", func(t *testing.T) {
		t.Parallel()
		track, res := buildTrack(1, frameAt(0.1, 10, 0.0))
		require.Empty(t, res.Pairs)

		det.Mark([]trackdata.Track{track}, []TrackResult{res})
		assert.Empty(t, res.Pairs)
	})

	t.Run("zero bearing wrap marks pairs even without spin discontinuity", func(t *testing.T) {
		t.Parallel()
		// Crossing the ±π line: bearings 3.0 and -3.0 differ by 6.0 in raw
		// atan2 terms despite being ~0.28 rad apart on the circle. The
		// heuristic intentionally does not unwrap.
		track, res := buildTrack(1,
			frameAt(3.0, 10, 0.0),
			frameAt(3.0, 10, 0.1),
			frameAt(-3.0, 10, 0.2),
			frameAt(-3.0, 10, 0.3),
		)

		det.Mark([]trackdata.Track{track}, []TrackResult{res})
		assert.Equal(t, []bool{true, true, true}, ignoredFlags(res))
	})
}
