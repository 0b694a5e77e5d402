package robot

import (
	"math"
	"path/filepath"
	"testing"
)

func TestMotorCalibration_Normalize(t *testing.T) {
	cal := MotorCalibration{
		RangeMin: 1000,
		RangeMax: 3000,
	}

	tests := []struct {
		raw      int
		expected float64
	}{
		{1000, -100.0}, // min -> -100
		{3000, 100.0},  // max -> 100
		{2000, 0.0},    // mid -> 0
		{1500, -50.0},  // quarter -> -50
		{2500, 50.0},   // three-quarter -> 50
	}

	for _, tt := range tests {
		got := cal.Normalize(tt.raw)
		if math.Abs(got-tt.expected) > 0.001 {
			t.Errorf("Normalize(%d) = %f, want %f", tt.raw, got, tt.expected)
		}
	}
}

func TestMotorCalibration_Denormalize(t *testing.T) {
	cal := MotorCalibration{
		RangeMin: 1000,
		RangeMax: 3000,
	}

	tests := []struct {
		norm     float64
		expected int
	}{
		{-100.0, 1000}, // -100 -> min
		{100.0, 3000},  // 100 -> max
		{0.0, 2000},    // 0 -> mid
		{-50.0, 1500},  // -50 -> quarter
		{50.0, 2500},   // 50 -> three-quarter
	}

	for _, tt := range tests {
		got := cal.Denormalize(tt.norm)
		if got != tt.expected {
			t.Errorf("Denormalize(%f) = %d, want %d", tt.norm, got, tt.expected)
		}
	}
}

func TestMotorCalibration_DriveMode(t *testing.T) {
	cal := MotorCalibration{
		DriveMode: 1,
		RangeMin:  1000,
		RangeMax:  3000,
	}

	// With drive mode set, min maps to +100 and max to -100.
	if got := cal.Normalize(1000); math.Abs(got-100.0) > 0.001 {
		t.Errorf("Normalize(1000) with drive mode = %f, want 100", got)
	}
	if got := cal.Normalize(3000); math.Abs(got+100.0) > 0.001 {
		t.Errorf("Normalize(3000) with drive mode = %f, want -100", got)
	}

	// Denormalize must invert the same way.
	if got := cal.Denormalize(100.0); got != 1000 {
		t.Errorf("Denormalize(100) with drive mode = %d, want 1000", got)
	}

	// Round-trip through the inversion.
	for raw := cal.RangeMin; raw <= cal.RangeMax; raw += 250 {
		back := cal.Denormalize(cal.Normalize(raw))
		if math.Abs(float64(back-raw)) > 1 {
			t.Errorf("drive-mode round-trip failed: %d -> %d", raw, back)
		}
	}
}

func TestMotorCalibration_RoundTrip(t *testing.T) {
	cal := MotorCalibration{
		RangeMin: 823,
		RangeMax: 3540,
	}

	// Test round-trip: raw -> normalized -> raw
	for raw := cal.RangeMin; raw <= cal.RangeMax; raw += 100 {
		norm := cal.Normalize(raw)
		back := cal.Denormalize(norm)
		if math.Abs(float64(back-raw)) > 1 {
			t.Errorf("Round-trip failed: %d -> %f -> %d", raw, norm, back)
		}
	}
}

func TestHomingOffsetFor(t *testing.T) {
	tests := []struct {
		min, max, expected int
	}{
		{1048, 3048, 0},    // centered range
		{1148, 3148, 100},  // shifted up
		{948, 2948, -100},  // shifted down
	}

	for _, tt := range tests {
		if got := HomingOffsetFor(tt.min, tt.max); got != tt.expected {
			t.Errorf("HomingOffsetFor(%d, %d) = %d, want %d", tt.min, tt.max, got, tt.expected)
		}
	}
}

func TestCalibration_MotorIDs(t *testing.T) {
	cal := Calibration{
		ShoulderPan:  MotorCalibration{ID: 1},
		ShoulderLift: MotorCalibration{ID: 2},
		ElbowFlex:    MotorCalibration{ID: 3},
		WristFlex:    MotorCalibration{ID: 4},
		WristRoll:    MotorCalibration{ID: 5},
		Gripper:      MotorCalibration{ID: 6},
	}

	ids := cal.MotorIDs()
	expected := []int{1, 2, 3, 4, 5, 6}

	if len(ids) != len(expected) {
		t.Fatalf("MotorIDs returned %d IDs, want %d", len(ids), len(expected))
	}

	for i, id := range ids {
		if id != expected[i] {
			t.Errorf("MotorIDs()[%d] = %d, want %d", i, id, expected[i])
		}
	}
}

func TestCalibration_ByID(t *testing.T) {
	cal := Calibration{
		ShoulderPan: MotorCalibration{ID: 1, RangeMin: 100, RangeMax: 200},
		Gripper:     MotorCalibration{ID: 6, RangeMin: 300, RangeMax: 400},
	}

	// Test finding existing ID
	name, mc, ok := cal.ByID(1)
	if !ok {
		t.Fatal("ByID(1) returned false")
	}
	if name != ShoulderPan {
		t.Errorf("ByID(1) returned name %s, want shoulder_pan", name)
	}
	if mc.RangeMin != 100 {
		t.Errorf("ByID(1) returned wrong calibration: %+v", mc)
	}

	// Test non-existing ID
	_, _, ok = cal.ByID(99)
	if ok {
		t.Error("ByID(99) should return false")
	}
}

func TestCalibration_SaveLoad(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "calibration")
	cal := Calibration{
		ShoulderPan: MotorCalibration{ID: 1, RangeMin: 823, RangeMax: 3540, HomingOffset: 133},
		Gripper:     MotorCalibration{ID: 6, DriveMode: 1, RangeMin: 2000, RangeMax: 3400},
	}

	if err := cal.Save(dir, "my_leader"); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := LoadCalibration(dir, "my_leader")
	if err != nil {
		t.Fatalf("LoadCalibration: %v", err)
	}

	if len(loaded) != len(cal) {
		t.Fatalf("loaded %d motors, want %d", len(loaded), len(cal))
	}
	if loaded[ShoulderPan] != cal[ShoulderPan] {
		t.Errorf("shoulder_pan = %+v, want %+v", loaded[ShoulderPan], cal[ShoulderPan])
	}
	if loaded[Gripper].DriveMode != 1 {
		t.Errorf("gripper drive mode = %d, want 1", loaded[Gripper].DriveMode)
	}
}

func TestCalibration_Validate(t *testing.T) {
	bad := Calibration{
		ShoulderPan: MotorCalibration{ID: 1, RangeMin: 3000, RangeMax: 1000},
	}
	if err := bad.Validate(); err == nil {
		t.Error("Validate should reject inverted range")
	}

	badID := Calibration{
		ShoulderPan: MotorCalibration{ID: 0, RangeMin: 1000, RangeMax: 3000},
	}
	if err := badID.Validate(); err == nil {
		t.Error("Validate should reject servo ID 0")
	}
}
