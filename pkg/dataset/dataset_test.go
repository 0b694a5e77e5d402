package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tfederico/SO101-Showcase/pkg/robot"
)

func samplePositions(v float64) map[robot.MotorName]float64 {
	return map[robot.MotorName]float64{
		robot.ShoulderPan: v,
		robot.Gripper:     -v,
	}
}

// recordEpisode writes a small single-episode dataset and returns its root.
func recordEpisode(t *testing.T, base, name string, frames int) string {
	t.Helper()
	root := filepath.Join(base, name)

	w, err := NewWriter(root, Info{RobotType: "so101", Task: "pick", FPS: 30})
	require.NoError(t, err)
	for i := 0; i < frames; i++ {
		require.NoError(t, w.Append(samplePositions(float64(i))))
	}
	require.NoError(t, w.Close())

	return root
}

func TestWriter(t *testing.T) {
	root := recordEpisode(t, t.TempDir(), "episode_20260823_120000", 5)

	info, err := LoadInfo(root)
	require.NoError(t, err)
	assert.Equal(t, 1, info.TotalEpisodes)
	assert.Equal(t, 5, info.TotalFrames)
	assert.Equal(t, "so101", info.RobotType)
	assert.Equal(t, 30, info.FPS)

	frames, err := readFrames(episodeFile(root, 0))
	require.NoError(t, err)
	require.Len(t, frames, 5)
	assert.Equal(t, 0, frames[0].FrameIndex)
	assert.Equal(t, 4, frames[4].FrameIndex)
	assert.Equal(t, 4.0, frames[4].Positions[robot.ShoulderPan])
}

// TestWriter_CloseAfterAppendError verifies that an episode cut short by a
// write failure still gets its metadata, so the frames captured up to that
// point remain loadable and mergeable.
func TestWriter_CloseAfterAppendError(t *testing.T) {
	base := t.TempDir()
	root := filepath.Join(base, "episode_20260823_140000")

	w, err := NewWriter(root, Info{RobotType: "so101", FPS: 30})
	require.NoError(t, err)
	require.NoError(t, w.Append(samplePositions(1)))
	require.NoError(t, w.Append(samplePositions(2)))

	// Pull the file out from under the writer so the next append fails.
	require.NoError(t, w.file.Close())
	require.Error(t, w.Append(samplePositions(3)))

	// Close reports the file error but still writes the metadata.
	assert.Error(t, w.Close())

	info, err := LoadInfo(root)
	require.NoError(t, err)
	assert.Equal(t, 2, info.TotalFrames)

	out := filepath.Join(base, "merged")
	result, err := Merge([]string{root}, out)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Frames)
}

func TestWriter_RefusesExisting(t *testing.T) {
	base := t.TempDir()
	root := recordEpisode(t, base, "episode_a", 1)

	_, err := NewWriter(root, Info{})
	assert.Error(t, err)
}

func TestFindEpisodeDirs(t *testing.T) {
	base := t.TempDir()
	recordEpisode(t, base, "episode_20260823_130000", 1)
	recordEpisode(t, base, "episode_20260823_120000", 1)

	// A directory without metadata must be reported as skipped.
	require.NoError(t, os.MkdirAll(filepath.Join(base, "episode_broken"), 0o755))
	// Non-episode entries are ignored entirely.
	require.NoError(t, os.MkdirAll(filepath.Join(base, "notes"), 0o755))

	dirs, skipped, err := FindEpisodeDirs(base)
	require.NoError(t, err)

	require.Len(t, dirs, 2)
	assert.Equal(t, "episode_20260823_120000", filepath.Base(dirs[0]), "episodes sort by timestamp")
	assert.Equal(t, "episode_20260823_130000", filepath.Base(dirs[1]))
	assert.Equal(t, []string{"episode_broken"}, skipped)
}

func TestMerge(t *testing.T) {
	base := t.TempDir()
	a := recordEpisode(t, base, "episode_20260823_120000", 3)
	b := recordEpisode(t, base, "episode_20260823_130000", 2)

	out := filepath.Join(base, "merged")
	result, err := Merge([]string{a, b}, out)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Episodes)
	assert.Equal(t, 5, result.Frames)
	assert.Empty(t, result.Skipped)

	info, err := LoadInfo(out)
	require.NoError(t, err)
	assert.Equal(t, 2, info.TotalEpisodes)
	assert.Equal(t, 5, info.TotalFrames)
	assert.Equal(t, "so101", info.RobotType)

	// Second episode is renumbered.
	frames, err := readFrames(episodeFile(out, 1))
	require.NoError(t, err)
	require.Len(t, frames, 2)
	assert.Equal(t, 1, frames[0].EpisodeIndex)
}

func TestMerge_SkipsMultiEpisode(t *testing.T) {
	base := t.TempDir()
	a := recordEpisode(t, base, "episode_a", 2)
	b := recordEpisode(t, base, "episode_b", 2)

	// Corrupt b's metadata to claim two episodes.
	info, err := LoadInfo(b)
	require.NoError(t, err)
	info.TotalEpisodes = 2
	require.NoError(t, writeInfo(b, info))

	out := filepath.Join(base, "merged")
	result, err := Merge([]string{a, b}, out)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Episodes)
	require.Len(t, result.Skipped, 1)
	assert.Contains(t, result.Skipped[0], "expected 1")
}

func TestMerge_NoValidInputs(t *testing.T) {
	base := t.TempDir()
	empty := filepath.Join(base, "episode_empty")
	require.NoError(t, os.MkdirAll(empty, 0o755))

	_, err := Merge([]string{empty}, filepath.Join(base, "merged"))
	assert.Error(t, err)

	_, err = Merge(nil, filepath.Join(base, "merged2"))
	assert.Error(t, err)
}
