package robot

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hipsterbrown/feetech-servo/feetech"
	"go.bug.st/serial"
)

// Bus parameters shared by every SO101 connection.
const (
	BaudRate    = 1_000_000
	busTimeout  = 100 * time.Millisecond
	scanTimeout = 2 * time.Second
)

// OpenBus opens a feetech bus on port with the SO101 settings.
func OpenBus(port string) (*feetech.Bus, error) {
	return feetech.NewBus(feetech.BusConfig{
		Port:     port,
		BaudRate: BaudRate,
		Protocol: feetech.ProtocolSTS,
		Timeout:  busTimeout,
	})
}

// Connect opens the bus on port and verifies a full SO101 servo chain
// (six servos with IDs 1-6) is present.
func Connect(port string) (*feetech.Bus, []feetech.FoundServo, error) {
	ctx, cancel := context.WithTimeout(context.Background(), scanTimeout)
	defer cancel()

	bus, err := OpenBus(port)
	if err != nil {
		return nil, nil, fmt.Errorf("open bus %s: %w", port, err)
	}

	servos, err := bus.Scan(ctx, 1, 6)
	if err != nil {
		bus.Close()
		return nil, nil, fmt.Errorf("scan %s: %w", port, err)
	}

	if !IsSOArm(servos) {
		bus.Close()
		return nil, nil, fmt.Errorf("no SO101 arm on %s (expected 6 servos with IDs 1-6, found %d)", port, len(servos))
	}

	return bus, servos, nil
}

// IsSOArm reports whether a scan result looks like an SO101 chain:
// exactly six servos with IDs 1 through 6.
func IsSOArm(servos []feetech.FoundServo) bool {
	if len(servos) != 6 {
		return false
	}

	ids := make(map[int]bool)
	for _, s := range servos {
		ids[s.ID] = true
	}

	for i := 1; i <= 6; i++ {
		if !ids[i] {
			return false
		}
	}

	return true
}

// ListArmPorts returns the serial ports that respond as SO101 arms.
func ListArmPorts() ([]string, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("list serial ports: %w", err)
	}

	var found []string
	for _, port := range ports {
		// Skip Bluetooth ports on macOS
		if strings.Contains(port, "Bluetooth") {
			continue
		}

		bus, _, err := Connect(port)
		if err != nil {
			continue
		}
		bus.Close()
		found = append(found, port)
	}

	return found, nil
}
