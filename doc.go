// Package so101 provides operator tooling for SO101 robot arms.
//
// The so101 CLI configures, calibrates and teleoperates leader/follower pairs
// of SO101 arms. Motor communication is handled by the feetech-servo library;
// this module supplies the command-line surface around it.
//
// # Installation
//
//	go install github.com/tfederico/SO101-Showcase/cmd/so101@latest
//
// # Usage
//
// Assign servo IDs (one motor connected at a time), then calibrate each arm,
// then teleoperate:
//
//	so101 enable-port ACM0
//	so101 setup-motors -p ACM0 -i my_leader -a leader
//	so101 calibrate -p ACM0 -i my_leader -a leader
//	so101 teleoperate --leader-port ACM0 --leader-id my_leader \
//	    --follower-port ACM1 --follower-id my_follower
//
// # Packages
//
//   - cmd/so101: CLI entry point and terminal UIs
//   - pkg/robot: arm control, calibration and device helpers
//   - pkg/teleop: teleoperation controller
//   - pkg/camera: operator camera configuration (configs.json)
//   - pkg/dataset: episode recording and merging
package so101
