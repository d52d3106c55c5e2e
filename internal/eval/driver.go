package eval

import (
	"fmt"
	"time"

	"github.com/banshee-data/tracking.report/internal/estimate"
	"github.com/banshee-data/tracking.report/internal/monitoring"
	"github.com/banshee-data/tracking.report/internal/sensor"
	"github.com/banshee-data/tracking.report/internal/trackdata"
)

// Driver feeds recorded tracks to a velocity estimator and collects per-track
// results plus estimator timing. Tracks are processed strictly sequentially:
// the estimator carries mutable temporal state, so frames must arrive in
// order within each track.
type Driver struct {
	Estimator estimate.VelocityEstimator

	// Timing accumulated across all estimator invocations, for the mean
	// runtime report. Presentation only.
	TotalElapsed time.Duration
	FramePairs   int
}

// NewDriver creates a driver around the given estimator.
func NewDriver(est estimate.VelocityEstimator) *Driver {
	return &Driver{Estimator: est}
}

// Run resets the estimator for each track, feeds its frames in order, and
// records the estimate for every frame after the first alongside a
// provisional not-ignored flag. The sensor resolution at each frame's
// centroid is handed to the estimator with the frame.
//
// An estimator failure aborts the run: no retries, no partial results.
func (d *Driver) Run(tracks []trackdata.Track) ([]TrackResult, error) {
	results := make([]TrackResult, 0, len(tracks))

	start := time.Now()
	for _, track := range tracks {
		res, err := d.runTrack(track)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}

	monitoring.Logf("tracked %d objects (%d frame pairs) in %s",
		len(tracks), d.FramePairs, time.Since(start).Round(time.Millisecond))

	return results, nil
}

func (d *Driver) runTrack(track trackdata.Track) (TrackResult, error) {
	d.Estimator.Reset()

	res := TrackResult{TrackNum: track.Num}
	if len(track.Frames) > 1 {
		res.Pairs = make([]FramePair, 0, len(track.Frames)-1)
	}

	for j, frame := range track.Frames {
		hres, vres := sensor.Resolution(frame.Centroid)

		begin := time.Now()
		velocity, confidence, err := d.Estimator.Process(frame.Cloud, frame.Timestamp, hres, vres)
		d.TotalElapsed += time.Since(begin)

		if err != nil {
			return TrackResult{}, fmt.Errorf("estimator failed on track %d frame %d: %w", track.Num, j, err)
		}

		// The first frame of a track yields no velocity; estimates are
		// recorded from the second frame onward.
		if j > 0 {
			d.FramePairs++
			res.Pairs = append(res.Pairs, FramePair{Velocity: velocity, Confidence: confidence})
		}
	}

	return res, nil
}

// MeanRuntimePerPair returns the mean estimator wall-clock time per frame
// pair, or zero when no pairs were processed.
func (d *Driver) MeanRuntimePerPair() time.Duration {
	if d.FramePairs == 0 {
		return 0
	}
	return d.TotalElapsed / time.Duration(d.FramePairs)
}
