// Package teleop provides teleoperation control for SO101 arm pairs.
package teleop

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/tfederico/SO101-Showcase/pkg/robot"
)

// State represents the current state of teleoperation.
type State struct {
	Positions map[robot.MotorName]float64
	Timestamp time.Time
	Error     error
}

// Arm is the surface of robot.Arm the controller drives.
type Arm interface {
	ReadPositions(ctx context.Context) (map[robot.MotorName]float64, error)
	WritePositions(ctx context.Context, positions map[robot.MotorName]float64) error
	Enable(ctx context.Context) error
	Disable(ctx context.Context) error
	Close() error
}

// Controller runs the control loop for one leader/follower pair: leader
// torque off so the operator can move it, follower torque on, leader
// positions streamed to the follower at a fixed rate.
type Controller struct {
	name     string
	leader   Arm
	follower Arm
	hz       int
	mirror   bool

	// restoreWait is how long the follower gets to travel back to its
	// starting pose before torque is released.
	restoreWait time.Duration

	mu       sync.RWMutex
	running  bool
	restPose map[robot.MotorName]float64
	stateCh  chan State
	logCh    chan string
}

// Config holds configuration for one controller.
type Config struct {
	Name                string // pair label used in log lines, e.g. "pair 1"
	LeaderPort          string
	LeaderCalibration   robot.Calibration
	FollowerPort        string
	FollowerCalibration robot.Calibration
	Hz                  int
	Mirror              bool // invert shoulder_pan and wrist_roll
}

// NewController opens both arms of a pair.
func NewController(cfg Config) (*Controller, error) {
	leader, err := robot.NewArm(cfg.LeaderPort, cfg.LeaderCalibration)
	if err != nil {
		return nil, fmt.Errorf("create leader arm: %w", err)
	}

	follower, err := robot.NewArm(cfg.FollowerPort, cfg.FollowerCalibration)
	if err != nil {
		leader.Close()
		return nil, fmt.Errorf("create follower arm: %w", err)
	}

	return newController(cfg, leader, follower), nil
}

func newController(cfg Config, leader, follower Arm) *Controller {
	if cfg.Hz <= 0 {
		cfg.Hz = 60
	}
	if cfg.Name == "" {
		cfg.Name = "pair 1"
	}

	return &Controller{
		name:        cfg.Name,
		leader:      leader,
		follower:    follower,
		hz:          cfg.Hz,
		mirror:      cfg.Mirror,
		restoreWait: restoreDuration,
		stateCh:     make(chan State, 1),
		logCh:       make(chan string, 10),
	}
}

// Close closes both arms.
func (c *Controller) Close() error {
	c.mu.Lock()
	c.running = false
	c.mu.Unlock()

	var errs []error
	if err := c.leader.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := c.follower.Close(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}

// States returns a channel that receives state updates.
func (c *Controller) States() <-chan State {
	return c.stateCh
}

// Logs returns a channel that receives log messages.
func (c *Controller) Logs() <-chan string {
	return c.logCh
}

// Hz returns the control frequency.
func (c *Controller) Hz() int {
	return c.hz
}

// Name returns the pair label.
func (c *Controller) Name() string {
	return c.name
}

func (c *Controller) log(format string, args ...any) {
	msg := fmt.Sprintf("[%s] %s: %s", time.Now().Format("15:04:05"), c.name, fmt.Sprintf(format, args...))
	select {
	case c.logCh <- msg:
	default:
		// Drop if channel full
	}
}

// Start begins the control loop and blocks until ctx is cancelled.
// On shutdown the follower is moved back to the pose it held when the loop
// started, then its torque is released.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return fmt.Errorf("already running")
	}
	c.running = true
	c.mu.Unlock()

	// Capture the follower's starting pose before anything moves.
	if pose, err := c.follower.ReadPositions(ctx); err != nil {
		c.log("Warning: failed to read initial pose: %v", err)
	} else {
		c.mu.Lock()
		c.restPose = pose
		c.mu.Unlock()
	}

	if err := c.leader.Disable(ctx); err != nil {
		c.log("Warning: failed to disable leader: %v", err)
	} else {
		c.log("Leader arm: torque disabled (passive mode)")
	}

	if err := c.follower.Enable(ctx); err != nil {
		c.log("Warning: failed to enable follower: %v", err)
	} else {
		c.log("Follower arm: torque enabled")
	}

	c.log("Teleoperation started at %d Hz", c.hz)

	ticker := time.NewTicker(time.Second / time.Duration(c.hz))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.shutdown()
			return ctx.Err()
		case <-ticker.C:
			c.step(ctx)
		}
	}
}

func (c *Controller) step(ctx context.Context) {
	positions, err := c.leader.ReadPositions(ctx)
	if err != nil {
		c.log("Read error: %v", err)
		c.sendState(State{Error: err, Timestamp: time.Now()})
		return
	}

	followerPositions := positions
	if c.mirror {
		followerPositions = mirrorPositions(positions)
	}

	if err := c.follower.WritePositions(ctx, followerPositions); err != nil {
		c.log("Write error: %v", err)
	}

	c.sendState(State{
		Positions: positions,
		Timestamp: time.Now(),
	})
}

// mirrorPositions inverts shoulder_pan and wrist_roll so two arms facing
// each other move symmetrically.
func mirrorPositions(positions map[robot.MotorName]float64) map[robot.MotorName]float64 {
	mirrored := make(map[robot.MotorName]float64, len(positions))
	for name, pos := range positions {
		if name == robot.ShoulderPan || name == robot.WristRoll {
			mirrored[name] = -pos
		} else {
			mirrored[name] = pos
		}
	}
	return mirrored
}

func (c *Controller) sendState(s State) {
	select {
	case c.stateCh <- s:
	default:
		// Drop old state if channel full, replace with new
		select {
		case <-c.stateCh:
		default:
		}
		c.stateCh <- s
	}
}

const restoreDuration = 2 * time.Second

func (c *Controller) shutdown() {
	c.mu.Lock()
	c.running = false
	pose := c.restPose
	c.mu.Unlock()

	// ctx is already cancelled at this point, use a fresh one for cleanup.
	ctx := context.Background()

	if pose != nil {
		c.log("Moving follower back to initial position...")
		if err := c.follower.WritePositions(ctx, pose); err != nil {
			c.log("Warning: failed to restore initial position: %v", err)
		} else {
			time.Sleep(c.restoreWait)
		}
	}

	if err := c.follower.Disable(ctx); err != nil {
		c.log("Warning: failed to disable follower: %v", err)
	} else {
		c.log("Follower arm: torque disabled")
	}
	c.log("Teleoperation stopped")
}
