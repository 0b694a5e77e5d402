package main

import (
	"os"

	"github.com/jessevdk/go-flags"
)

type Options struct {
	Scan          ScanCommand          `command:"scan" description:"List serial ports with SO101 arms attached"`
	SetupMotors   SetupMotorsCommand   `command:"setup-motors" description:"Assign servo IDs, one motor at a time"`
	Calibrate     CalibrateCommand     `command:"calibrate" description:"Record an arm's range of motion"`
	Teleoperate   TeleoperateCommand   `command:"teleoperate" alias:"teleop" description:"Stream leader movements to follower arms"`
	EnablePort    EnablePortCommand    `command:"enable-port" description:"Make a serial device world read/write"`
	Record        RecordCommand        `command:"record" description:"Record a single joint-position episode"`
	MergeEpisodes MergeEpisodesCommand `command:"merge-episodes" description:"Merge single-episode datasets into one"`
}

var opts Options
var parser = flags.NewParser(&opts, flags.Default)

func main() {
	parser.LongDescription = "Operator tooling for SO101 robot arms: setup, calibration and teleoperation"

	_, err := parser.Parse()
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				os.Exit(0)
			}
		}
		os.Exit(1)
	}
}
