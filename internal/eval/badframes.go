package eval

import (
	"math"

	"github.com/banshee-data/tracking.report/internal/config"
	"github.com/banshee-data/tracking.report/internal/trackdata"
)

// scanState models the detector's position relative to a bearing
// discontinuity. The pair immediately following a discontinuity is still
// contaminated by it, so the scan carries a one-pair latch.
type scanState int

const (
	scanNormal scanState = iota
	scanPostDiscontinuity
)

// BadFrameDetector retroactively marks frame pairs whose velocity estimate is
// unreliable. Two causes: a large jump in the bearing to the object between
// consecutive frames, which indicates that half the object was recorded at
// the start of a sensor spin and half at the end; and a near-zero time gap
// between consecutive frames, which indicates duplicate sampling across a
// spin boundary. Both produce velocity estimates that the estimator cannot
// be blamed for, so they are excluded from evaluation.
type BadFrameDetector struct {
	// SpinJumpRadians is the bearing discontinuity threshold. Bearings wrap
	// at ±π and are compared without unwrapping, so an object crossing the
	// zero-bearing line behind the sensor can trip this.
	SpinJumpRadians float64

	// MinFrameGapSecs is the minimum inter-frame time gap; pairs closer
	// together than this are treated as near-duplicates.
	MinFrameGapSecs float64
}

// NewBadFrameDetector builds a detector from tuning config.
func NewBadFrameDetector(cfg *config.TuningConfig) *BadFrameDetector {
	return &BadFrameDetector{
		SpinJumpRadians: cfg.GetSpinJumpRadians(),
		MinFrameGapSecs: cfg.GetMinFrameGapSecs(),
	}
}

// Mark scans each track and sets the Ignored flag on unreliable frame pairs
// in the corresponding result. Tracks and results must be index-aligned, as
// produced by Driver.Run over the same track slice.
func (det *BadFrameDetector) Mark(tracks []trackdata.Track, results []TrackResult) {
	for i := range results {
		if i < len(tracks) {
			det.markTrack(tracks[i].Frames, results[i].Pairs)
		}
	}
}

// markTrack runs the sequential heuristic over one track. Pair slot j-1
// corresponds to the velocity estimated between frames j-1 and j; the first
// frame never produces a decision and no slot outside [0, len(frames)-2] is
// written.
func (det *BadFrameDetector) markTrack(frames []trackdata.Frame, pairs []FramePair) {
	state := scanNormal
	prevAngle := 0.0
	prevTime := 0.0

	for j, frame := range frames {
		angle := frame.Centroid.Bearing()
		angleDiff := math.Abs(angle - prevAngle)
		timeDiff := frame.Timestamp - prevTime

		prevAngle = angle
		prevTime = frame.Timestamp

		if j == 0 {
			continue
		}

		if angleDiff > det.SpinJumpRadians {
			// The pair straddling the discontinuity is contaminated, and so
			// is the pair leading into it.
			pairs[j-1].Ignored = true
			if j > 1 {
				pairs[j-2].Ignored = true
			}
			state = scanPostDiscontinuity
			continue
		}

		if state == scanPostDiscontinuity {
			pairs[j-1].Ignored = true
			state = scanNormal
			continue
		}

		if timeDiff < det.MinFrameGapSecs {
			pairs[j-1].Ignored = true
		}
	}
}
