package eval

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroundTruthFolder(t *testing.T) {
	t.Parallel()

	t.Run("reads one magnitude per line", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(
			filepath.Join(dir, "track12gt.txt"),
			[]byte("1.25\n0.0\n3.5\n"), 0644))

		gt := &GroundTruthFolder{Path: dir}
		velocities, err := gt.Velocities(12)
		require.NoError(t, err)
		assert.Equal(t, []float64{1.25, 0.0, 3.5}, velocities)
	})

	t.Run("skips blank lines", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(
			filepath.Join(dir, "track1gt.txt"),
			[]byte("1.0\n\n2.0\n"), 0644))

		gt := &GroundTruthFolder{Path: dir}
		velocities, err := gt.Velocities(1)
		require.NoError(t, err)
		assert.Equal(t, []float64{1.0, 2.0}, velocities)
	})

	t.Run("missing file is an error", func(t *testing.T) {
		t.Parallel()
		gt := &GroundTruthFolder{Path: t.TempDir()}
		_, err := gt.Velocities(99)
		assert.ErrorContains(t, err, "track99gt.txt")
	})

	t.Run("non-numeric line is an error", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(
			filepath.Join(dir, "track2gt.txt"),
			[]byte("1.0\nnot-a-number\n"), 0644))

		gt := &GroundTruthFolder{Path: dir}
		_, err := gt.Velocities(2)
		assert.ErrorContains(t, err, "bad ground truth value")
	})
}
