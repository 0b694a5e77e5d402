package camera

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `{
  "cameras": {
    "wrist": {
      "left": 0,
      "right": 2
    },
    "top": {
      "front": "243322073128"
    }
  }
}`

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "configs.json")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	left := cfg.Cameras["wrist"]["left"]
	assert.True(t, left.IsIndex)
	assert.Equal(t, 0, left.Index)

	front := cfg.Cameras["top"]["front"]
	assert.False(t, front.IsIndex)
	assert.Equal(t, "243322073128", front.Serial)
}

// TestFlatten verifies the recording keys: wrist cameras keep their group
// prefix, everything else is addressed as a RealSense.
func TestFlatten(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	entries := cfg.Flatten()
	require.Len(t, entries, 3)

	keys := make([]string, len(entries))
	for i, e := range entries {
		keys[i] = e.Key
	}
	assert.Equal(t, []string{"realsense_front", "wrist_left", "wrist_right"}, keys)

	assert.Equal(t, "243322073128", entries[0].ID.String())
	assert.Equal(t, "0", entries[1].ID.String())
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "configs.json"))
	assert.Error(t, err)
}

func TestLoad_BadID(t *testing.T) {
	_, err := Load(writeConfig(t, `{"cameras": {"wrist": {"left": true}}}`))
	assert.Error(t, err)
}

func TestLoad_EmptySerial(t *testing.T) {
	_, err := Load(writeConfig(t, `{"cameras": {"top": {"front": ""}}}`))
	assert.Error(t, err)
}
