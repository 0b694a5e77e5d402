package robot

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultCalibrationDir is where per-arm calibration files are stored,
// one <id>.json per robot.
const DefaultCalibrationDir = "calibration"

// Raw position at the mechanical center of an STS3215 servo (12-bit range).
const rawCenter = 2048

// MotorCalibration holds calibration data for a single motor.
type MotorCalibration struct {
	ID           int `json:"id"`
	DriveMode    int `json:"drive_mode"`
	HomingOffset int `json:"homing_offset"`
	RangeMin     int `json:"range_min"`
	RangeMax     int `json:"range_max"`
}

// Calibration holds calibration data for all motors, keyed by motor name.
type Calibration map[MotorName]MotorCalibration

// CalibrationPath returns the calibration file path for a robot id.
func CalibrationPath(dir, id string) string {
	return filepath.Join(dir, id+".json")
}

// LoadCalibration loads calibration data for a robot id from dir.
func LoadCalibration(dir, id string) (Calibration, error) {
	data, err := os.ReadFile(CalibrationPath(dir, id))
	if err != nil {
		return nil, fmt.Errorf("read calibration file: %w", err)
	}

	// Parse into a map with string keys first
	var raw map[string]MotorCalibration
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse calibration JSON: %w", err)
	}

	cal := make(Calibration, len(raw))
	for name, mc := range raw {
		cal[MotorName(name)] = mc
	}

	if err := cal.Validate(); err != nil {
		return nil, fmt.Errorf("calibration for %q: %w", id, err)
	}

	return cal, nil
}

// Save writes the calibration for a robot id to dir, creating dir if needed.
func (c Calibration) Save(dir, id string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create calibration dir: %w", err)
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(CalibrationPath(dir, id), data, 0o644)
}

// Validate checks ranges and IDs for all motors.
func (c Calibration) Validate() error {
	for name, mc := range c {
		if mc.ID < 1 || mc.ID > 253 {
			return fmt.Errorf("motor %s: invalid servo ID %d", name, mc.ID)
		}
		if mc.RangeMin >= mc.RangeMax {
			return fmt.Errorf("motor %s: range min (%d) must be less than max (%d)", name, mc.RangeMin, mc.RangeMax)
		}
	}
	return nil
}

// Normalize converts a raw servo position to a normalized value in [-100, 100].
// A non-zero drive mode inverts the result.
func (c MotorCalibration) Normalize(raw int) float64 {
	rangeSize := float64(c.RangeMax - c.RangeMin)
	if rangeSize == 0 {
		return 0
	}
	norm := (float64(raw-c.RangeMin)/rangeSize)*200 - 100
	if c.DriveMode != 0 {
		norm = -norm
	}
	return norm
}

// Denormalize converts a normalized value [-100, 100] to a raw servo position.
func (c MotorCalibration) Denormalize(norm float64) int {
	if c.DriveMode != 0 {
		norm = -norm
	}
	rangeSize := float64(c.RangeMax - c.RangeMin)
	return int((norm+100)/200*rangeSize) + c.RangeMin
}

// HomingOffsetFor returns the offset of a range's center from the servo's
// mechanical center, recorded during calibration.
func HomingOffsetFor(rangeMin, rangeMax int) int {
	return (rangeMin+rangeMax)/2 - rawCenter
}

// MotorIDs returns the servo IDs for all motors in the calibration.
func (c Calibration) MotorIDs() []int {
	ids := make([]int, 0, len(c))
	// Use AllMotors() to ensure consistent ordering
	for _, name := range AllMotors() {
		if mc, ok := c[name]; ok {
			ids = append(ids, mc.ID)
		}
	}
	return ids
}

// ByID returns motor name and calibration for a given servo ID.
func (c Calibration) ByID(id int) (MotorName, MotorCalibration, bool) {
	for name, mc := range c {
		if mc.ID == id {
			return name, mc, true
		}
	}
	return "", MotorCalibration{}, false
}
