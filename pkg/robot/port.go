package robot

import (
	"fmt"
	"os"
	"strings"
)

// ResolveDevicePath expands a serial device suffix to its /dev path.
// "ACM0", "ttyACM0" and "/dev/ttyACM0" all resolve to "/dev/ttyACM0".
func ResolveDevicePath(suffix string) (string, error) {
	s := strings.TrimSpace(suffix)
	if s == "" {
		return "", fmt.Errorf("empty device suffix")
	}

	s = strings.TrimPrefix(s, "/dev/")
	if s == "" || s == "tty" {
		return "", fmt.Errorf("empty device suffix")
	}
	if !strings.HasPrefix(s, "tty") {
		s = "tty" + s
	}

	return "/dev/" + s, nil
}

// EnableDevice makes a device node world read/write (mode 0666) so the
// serial port can be opened without root. The device must already exist;
// nothing is changed when it does not.
func EnableDevice(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("device %s does not exist", path)
		}
		return fmt.Errorf("stat %s: %w", path, err)
	}

	if err := os.Chmod(path, 0o666); err != nil {
		return fmt.Errorf("chmod %s: %w", path, err)
	}

	return nil
}
