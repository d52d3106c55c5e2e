package eval

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// ErrNoSamples is returned when an evaluation pass collects no errors to
// aggregate because every frame pair was ignored or masked out. Callers get
// an error rather than a silent NaN.
var ErrNoSamples = errors.New("no error samples to aggregate")

// Aggregator pairs velocity estimates with ground truth and computes
// root-mean-square error over estimate-versus-truth magnitude differences.
type Aggregator struct {
	GroundTruth GroundTruthSource

	// Mask optionally restricts evaluation: one entry per frame pair across
	// all tracks in flattening order (see BuildDistanceMask). Nil evaluates
	// every non-ignored pair.
	Mask []bool
}

// Summary holds the outcome of one evaluation pass.
type Summary struct {
	RMS      float64
	Samples  int
	PerTrack []TrackSummary
}

// TrackSummary holds one track's evaluated errors.
type TrackSummary struct {
	TrackNum int
	// Errors are the signed per-pair errors (estimate magnitude minus
	// ground-truth magnitude) for pairs this pass evaluated.
	Errors []float64
	RMS    float64
}

// accumulator is the fold state threaded through per-track aggregation. The
// global pair counter starts at -1 and advances once per frame pair across
// all tracks, regardless of ignore status, which keeps it index-aligned with
// the distance mask.
type accumulator struct {
	globalPair int
	errors     []float64
	perTrack   []TrackSummary
}

// Evaluate aggregates all track results into a single RMS figure. It returns
// ErrNoSamples when nothing survived ignore flags and the mask.
func (a *Aggregator) Evaluate(results []TrackResult) (*Summary, error) {
	acc := &accumulator{globalPair: -1}

	for _, res := range results {
		gt, err := a.GroundTruth.Velocities(res.TrackNum)
		if err != nil {
			return nil, err
		}
		if err := a.accumulateTrack(acc, res, gt); err != nil {
			return nil, err
		}
	}

	rms, err := rootMeanSquare(acc.errors)
	if err != nil {
		return nil, err
	}

	return &Summary{RMS: rms, Samples: len(acc.errors), PerTrack: acc.perTrack}, nil
}

// accumulateTrack folds one track's pairs into the accumulator.
//
// Ground-truth alignment: ignored pairs consume no ground-truth slot, so the
// slot for pair idx is gt[idx - skipped] where skipped counts ignored pairs
// seen so far in this track. Masked-but-not-ignored pairs contribute no
// error yet still consume their slot, exactly as evaluated pairs do. Ignored
// and masked pairs therefore shift the ground-truth index differently; keep
// the two cases separate.
func (a *Aggregator) accumulateTrack(acc *accumulator, res TrackResult, gt []float64) error {
	skipped := 0
	track := TrackSummary{TrackNum: res.TrackNum}

	for idx, pair := range res.Pairs {
		acc.globalPair++

		if pair.Ignored {
			skipped++
			continue
		}

		if a.Mask != nil {
			if acc.globalPair >= len(a.Mask) {
				return fmt.Errorf("track %d: mask has %d entries, need index %d", res.TrackNum, len(a.Mask), acc.globalPair)
			}
			if !a.Mask[acc.globalPair] {
				continue
			}
		}

		gtIdx := idx - skipped
		if gtIdx >= len(gt) {
			return fmt.Errorf("track %d: ground truth has %d entries, need index %d", res.TrackNum, len(gt), gtIdx)
		}

		diff := pair.Velocity.Norm() - gt[gtIdx]
		acc.errors = append(acc.errors, diff)
		track.Errors = append(track.Errors, diff)
	}

	if len(track.Errors) > 0 {
		track.RMS, _ = rootMeanSquare(track.Errors)
	}
	acc.perTrack = append(acc.perTrack, track)
	return nil
}

// rootMeanSquare computes sqrt(mean(err²)) over the collected errors.
func rootMeanSquare(errs []float64) (float64, error) {
	if len(errs) == 0 {
		return 0, ErrNoSamples
	}
	sumSq := floats.Dot(errs, errs)
	return math.Sqrt(sumSq / float64(len(errs))), nil
}
