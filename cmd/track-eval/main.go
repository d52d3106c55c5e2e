// Command track-eval evaluates a velocity estimator over recorded
// point-cloud tracks against per-track ground-truth velocity files.
//
// Usage:
//
//	track-eval [flags] <track_file> <gt_folder>
//
// The track file is a JSON recording of tracks; the ground-truth folder
// holds one track<N>gt.txt per track with one velocity magnitude per line.
// The tool reports the RMS error between estimated and ground-truth velocity
// magnitudes, both unrestricted and restricted to nearby objects, plus the
// mean estimator runtime per frame pair.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/banshee-data/tracking.report/internal/config"
	"github.com/banshee-data/tracking.report/internal/estimate"
	"github.com/banshee-data/tracking.report/internal/eval"
	"github.com/banshee-data/tracking.report/internal/monitoring"
	"github.com/banshee-data/tracking.report/internal/report"
	"github.com/banshee-data/tracking.report/internal/storage/sqlite"
	"github.com/banshee-data/tracking.report/internal/trackdata"
)

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [flags] <track_file> <gt_folder>\n", filepath.Base(os.Args[0]))
	flag.PrintDefaults()
}

func main() {
	configPath := flag.String("config", "", "path to tuning config JSON (compiled-in defaults when empty)")
	maxDistance := flag.Float64("max-distance", 0, "planar distance threshold in meters for the nearby pass (0 = config default)")
	dbPath := flag.String("db", "", "optional sqlite database to record the run in")
	reportDir := flag.String("report-dir", "", "optional directory for HTML and PNG reports")
	quiet := flag.Bool("quiet", false, "suppress diagnostic logging")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() < 2 {
		usage()
		os.Exit(1)
	}

	if *quiet {
		monitoring.SetLogger(nil)
	}

	if err := run(flag.Arg(0), flag.Arg(1), *configPath, *maxDistance, *dbPath, *reportDir); err != nil {
		log.Fatal(err)
	}
}

func run(trackFile, gtFolder, configPath string, maxDistance float64, dbPath, reportDir string) error {
	cfg := config.EmptyTuningConfig()
	if configPath != "" {
		loaded, err := config.LoadTuningConfig(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if maxDistance <= 0 {
		maxDistance = cfg.GetMaxEvalDistanceMeters()
	}

	fmt.Printf("Loading file: %s\n", trackFile)
	tracks, err := trackdata.LoadTracks(trackFile)
	if err != nil {
		return err
	}
	fmt.Printf("Found %d tracks\n", len(tracks))

	estimator := estimate.NewCentroidKalman(estimate.CentroidKalmanConfigFromTuning(cfg))
	fmt.Println("Tracking objects with the centroid-based Kalman filter baseline - please wait...")

	driver := eval.NewDriver(estimator)
	results, err := driver.Run(tracks)
	if err != nil {
		return err
	}

	detector := eval.NewBadFrameDetector(cfg)
	detector.Mark(tracks, results)

	gt := &eval.GroundTruthFolder{Path: gtFolder}

	unrestricted := &eval.Aggregator{GroundTruth: gt}
	overall, err := unrestricted.Evaluate(results)
	if err != nil {
		return err
	}
	fmt.Printf("RMS error: %f m/s\n", overall.RMS)

	fmt.Printf("Evaluating only for objects within %g m:\n", maxDistance)
	nearby := &eval.Aggregator{
		GroundTruth: gt,
		Mask:        eval.BuildDistanceMask(tracks, maxDistance),
	}
	within, err := nearby.Evaluate(results)
	switch {
	case errors.Is(err, eval.ErrNoSamples):
		fmt.Println("RMS error: no frame pairs within distance")
	case err != nil:
		return err
	default:
		fmt.Printf("RMS error: %f m/s\n", within.RMS)
	}

	fmt.Printf("Mean runtime per frame: %s\n", driver.MeanRuntimePerPair())

	if reportDir != "" {
		if err := writeReports(reportDir, overall); err != nil {
			return err
		}
	}

	if dbPath != "" {
		withinRMS := 0.0
		if within != nil {
			withinRMS = within.RMS
		}
		if err := recordRun(dbPath, trackFile, gtFolder, cfg, maxDistance, overall.RMS, withinRMS, driver); err != nil {
			return err
		}
	}

	return nil
}

func writeReports(dir string, summary *eval.Summary) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}
	htmlPath := filepath.Join(dir, "evaluation.html")
	if err := report.WriteHTML(htmlPath, summary); err != nil {
		return err
	}
	pngPath := filepath.Join(dir, "error-histogram.png")
	if err := report.WriteHistogram(pngPath, summary); err != nil {
		return err
	}
	monitoring.Logf("wrote reports to %s", dir)
	return nil
}

func recordRun(dbPath, trackFile, gtFolder string, cfg *config.TuningConfig, maxDistance, rms, withinRMS float64, driver *eval.Driver) error {
	store, err := sqlite.Open(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	params, err := cfg.MarshalParams()
	if err != nil {
		return fmt.Errorf("failed to marshal run params: %w", err)
	}

	run := &sqlite.Run{
		TrackFile:          trackFile,
		GroundTruthDir:     gtFolder,
		Estimator:          "centroid-kalman",
		RMS:                rms,
		RMSWithinDistance:  withinRMS,
		MaxDistanceMeters:  maxDistance,
		FramePairs:         driver.FramePairs,
		MeanRuntimePerPair: driver.MeanRuntimePerPair(),
		ParamsJSON:         params,
	}
	if err := store.Insert(run); err != nil {
		return err
	}
	monitoring.Logf("recorded run %s in %s", run.RunID, dbPath)
	return nil
}
