package eval

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// GroundTruthSource yields the ordered ground-truth velocity magnitudes for a
// track. The sequence carries one entry per frame pair, including pairs the
// bad-frame scan later marks ignored: ground truth is complete, the estimate
// stream is what gets logically shortened.
type GroundTruthSource interface {
	Velocities(trackNum int) ([]float64, error)
}

// GroundTruthFolder reads ground truth from <Path>/track<N>gt.txt, one
// velocity magnitude per line. A missing or unreadable file is a fatal
// configuration error; callers abort the run.
type GroundTruthFolder struct {
	Path string
}

// Velocities reads the ground-truth file for the given track number.
func (g *GroundTruthFolder) Velocities(trackNum int) ([]float64, error) {
	path := filepath.Join(g.Path, fmt.Sprintf("track%dgt.txt", trackNum))

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open ground truth file %s: %w", path, err)
	}
	defer f.Close()

	var velocities []float64
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		v, err := strconv.ParseFloat(line, 64)
		if err != nil {
			return nil, fmt.Errorf("bad ground truth value %q in %s: %w", line, path, err)
		}
		velocities = append(velocities, v)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read ground truth file %s: %w", path, err)
	}

	return velocities, nil
}
