package robot

import (
	"context"
	"fmt"

	"github.com/hipsterbrown/feetech-servo/feetech"
)

// Servos ship with a factory ID of 1, so IDs must be written with a single
// motor on the bus at a time. SetupOrder returns the motors from the end of
// the daisy chain (gripper) back to the base, which is the order an operator
// plugs them in.
func SetupOrder() []MotorName {
	motors := AllMotors()
	order := make([]MotorName, 0, len(motors))
	for i := len(motors) - 1; i >= 0; i-- {
		order = append(order, motors[i])
	}
	return order
}

// AssignMotorID finds the single servo currently on the bus, whatever its
// current ID, and rewrites it to target. It fails if zero or multiple servos
// respond, since writing an ID on a populated bus would clobber the chain.
func AssignMotorID(ctx context.Context, bus *feetech.Bus, target int) error {
	found, err := bus.Scan(ctx, 1, 253)
	if err != nil {
		return fmt.Errorf("scan bus: %w", err)
	}

	switch len(found) {
	case 0:
		return fmt.Errorf("no servo found: connect exactly one motor and check power")
	case 1:
		// ok
	default:
		return fmt.Errorf("found %d servos: connect only the motor being configured", len(found))
	}

	current := found[0]
	if current.ID == target {
		return nil
	}

	servo := feetech.NewServo(bus, current.ID, current.Model)
	if err := servo.SetID(ctx, target); err != nil {
		return fmt.Errorf("set servo ID %d -> %d: %w", current.ID, target, err)
	}

	// Confirm the servo answers on its new ID.
	verify, err := bus.Scan(ctx, target, target)
	if err != nil {
		return fmt.Errorf("verify servo ID %d: %w", target, err)
	}
	if len(verify) != 1 {
		return fmt.Errorf("servo did not respond on new ID %d", target)
	}

	return nil
}

// VerifyChain checks that the fully cabled arm answers as an SO101 chain.
func VerifyChain(ctx context.Context, bus *feetech.Bus) error {
	servos, err := bus.Scan(ctx, 1, 6)
	if err != nil {
		return fmt.Errorf("scan chain: %w", err)
	}
	if !IsSOArm(servos) {
		return fmt.Errorf("incomplete chain: found %d of 6 servos", len(servos))
	}
	return nil
}
