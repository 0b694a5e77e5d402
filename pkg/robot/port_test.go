package robot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestResolveDevicePath verifies that every accepted spelling of a device
// suffix resolves to the same /dev node.
func TestResolveDevicePath(t *testing.T) {
	for _, in := range []string{"ACM0", "ttyACM0", "/dev/ttyACM0"} {
		got, err := ResolveDevicePath(in)
		require.NoError(t, err, "input %q", in)
		assert.Equal(t, "/dev/ttyACM0", got, "input %q", in)
	}

	got, err := ResolveDevicePath("USB1")
	require.NoError(t, err)
	assert.Equal(t, "/dev/ttyUSB1", got)

	// macOS-style names already carry the tty prefix.
	got, err = ResolveDevicePath("tty.usbmodem5A4B0464471")
	require.NoError(t, err)
	assert.Equal(t, "/dev/tty.usbmodem5A4B0464471", got)
}

func TestResolveDevicePath_Empty(t *testing.T) {
	_, err := ResolveDevicePath("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty device suffix")

	_, err = ResolveDevicePath("   ")
	assert.Error(t, err)

	// A bare directory or prefix names no device at all.
	for _, in := range []string{"/dev/", "tty", "/dev/tty"} {
		_, err = ResolveDevicePath(in)
		assert.Error(t, err, "input %q", in)
	}
}

func TestEnableDevice_Missing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ttyACM9")
	err := EnableDevice(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")
}

// TestEnableDevice_SetsWorldReadWrite uses a regular file as a stand-in for
// the device node; chmod semantics are identical.
func TestEnableDevice_SetsWorldReadWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ttyACM0")
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	require.NoError(t, EnableDevice(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o666), info.Mode().Perm())
}

func TestParseArmType(t *testing.T) {
	for _, s := range []string{"leader", "follower"} {
		at, err := ParseArmType(s)
		require.NoError(t, err)
		assert.Equal(t, ArmType(s), at)
	}

	_, err := ParseArmType("observer")
	assert.Error(t, err)
}

func TestServoID(t *testing.T) {
	assert.Equal(t, 1, ServoID(ShoulderPan))
	assert.Equal(t, 6, ServoID(Gripper))
	assert.Equal(t, 0, ServoID(MotorName("elbow")))
}

func TestSetupOrder(t *testing.T) {
	order := SetupOrder()
	require.Len(t, order, 6)
	assert.Equal(t, Gripper, order[0], "setup starts at the end of the chain")
	assert.Equal(t, ShoulderPan, order[5])
}
