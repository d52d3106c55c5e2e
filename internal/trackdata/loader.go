package trackdata

import (
	"encoding/json"
	"fmt"
	"os"
)

// trackFile is the on-disk JSON envelope for a set of recorded tracks.
type trackFile struct {
	Tracks []Track `json:"tracks"`
}

// LoadTracks reads a JSON track file and returns its tracks in file order.
// An unreadable or malformed file is a configuration error: the caller is
// expected to abort the run.
func LoadTracks(path string) ([]Track, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read track file: %w", err)
	}

	var tf trackFile
	if err := json.Unmarshal(data, &tf); err != nil {
		return nil, fmt.Errorf("failed to parse track file %s: %w", path, err)
	}

	for _, tr := range tf.Tracks {
		for j := 1; j < len(tr.Frames); j++ {
			if tr.Frames[j].Timestamp < tr.Frames[j-1].Timestamp {
				return nil, fmt.Errorf("track %d: timestamps regress at frame %d", tr.Num, j)
			}
		}
	}

	return tf.Tracks, nil
}
