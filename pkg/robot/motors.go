// Package robot provides abstractions for controlling SO101 robot arms.
package robot

import "fmt"

// MotorName identifies a motor in the arm.
type MotorName string

// Motor names for the SO101 arm.
const (
	ShoulderPan  MotorName = "shoulder_pan"
	ShoulderLift MotorName = "shoulder_lift"
	ElbowFlex    MotorName = "elbow_flex"
	WristFlex    MotorName = "wrist_flex"
	WristRoll    MotorName = "wrist_roll"
	Gripper      MotorName = "gripper"
)

// AllMotors returns all motor names in order (matching servo IDs 1-6).
func AllMotors() []MotorName {
	return []MotorName{
		ShoulderPan,
		ShoulderLift,
		ElbowFlex,
		WristFlex,
		WristRoll,
		Gripper,
	}
}

// ServoID returns the bus ID for a motor name, or 0 if unknown.
func ServoID(name MotorName) int {
	for i, n := range AllMotors() {
		if n == name {
			return i + 1
		}
	}
	return 0
}

// ArmType distinguishes the arm an operator moves by hand (leader) from the
// arm commanded to track it (follower).
type ArmType string

const (
	Leader   ArmType = "leader"
	Follower ArmType = "follower"
)

// ParseArmType validates an arm type string.
func ParseArmType(s string) (ArmType, error) {
	switch ArmType(s) {
	case Leader, Follower:
		return ArmType(s), nil
	}
	return "", fmt.Errorf("invalid arm type %q: must be 'leader' or 'follower'", s)
}
