// Package eval implements the tracking-accuracy evaluation pipeline: it
// drives a velocity estimator over recorded tracks, flags unreliable frame
// pairs, and aggregates estimate-versus-ground-truth error statistics.
package eval

import "github.com/banshee-data/tracking.report/internal/trackdata"

// FramePair is the evaluation record for one consecutive pair of frames: the
// velocity estimated between them, the estimator's alignment confidence, and
// whether the bad-frame scan excluded the pair from evaluation. A track with
// N frames produces N-1 records.
type FramePair struct {
	Velocity   trackdata.Vec3
	Confidence float64
	Ignored    bool
}

// TrackResult holds the per-track output of the tracking driver. The
// bad-frame detector mutates Pairs in place; the aggregator reads them.
type TrackResult struct {
	TrackNum int
	Pairs    []FramePair
}
