package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/tfederico/SO101-Showcase/pkg/camera"
	"github.com/tfederico/SO101-Showcase/pkg/dataset"
	"github.com/tfederico/SO101-Showcase/pkg/robot"
)

type RecordCommand struct {
	Port           string `long:"port" short:"p" required:"true" description:"Serial port of the arm to record (e.g. ACM1)"`
	ID             string `long:"id" short:"i" required:"true" description:"Unique robot identifier"`
	FPS            int    `long:"fps" default:"30" description:"Sampling rate"`
	Seconds        int    `long:"seconds" default:"120" description:"Episode duration"`
	Root           string `long:"root" default:"datasets/single_episodes" description:"Directory for episode datasets"`
	Task           string `long:"task" default:"" description:"Task description stored with the episode"`
	CalibrationDir string `long:"calibration-dir" default:"calibration" description:"Path to calibration directory"`
}

func (c *RecordCommand) Execute(args []string) error {
	path, err := robot.ResolveDevicePath(c.Port)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	cal, err := robot.LoadCalibration(c.CalibrationDir, c.ID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Robot %q is not calibrated, run 'so101 calibrate' first: %v\n", c.ID, err)
		os.Exit(1)
	}

	// Joint positions only; cameras listed here are captured by external
	// tooling reading the same configs.json.
	if cfg, err := camera.Load(camera.DefaultConfigFile); err == nil {
		for _, entry := range cfg.Flatten() {
			fmt.Println(dimStyle.Render(fmt.Sprintf("  camera %s (%s): captured externally", entry.Key, entry.ID)))
		}
	}

	arm, err := robot.NewArm(path, cal)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error connecting to arm: %v\n", err)
		os.Exit(1)
	}
	defer arm.Close()

	root := filepath.Join(c.Root, dataset.EpisodeDirName(time.Now()))
	writer, err := dataset.NewWriter(root, dataset.Info{
		RobotType: "so101",
		Task:      c.Task,
		FPS:       c.FPS,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating dataset: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(headerStyle.Render(fmt.Sprintf("Recording %q on %s", c.ID, path)))
	fmt.Printf("Episode: %s (%d s at %d fps, ctrl+c to stop early)\n", root, c.Seconds, c.FPS)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, time.Duration(c.Seconds)*time.Second)
	defer cancel()

	ticker := time.NewTicker(time.Second / time.Duration(c.FPS))
	defer ticker.Stop()

loop:
	for {
		select {
		case <-ctx.Done():
			break loop
		case <-ticker.C:
			positions, err := arm.ReadPositions(ctx)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Read error: %v\n", err)
				continue
			}
			if err := writer.Append(positions); err != nil {
				fmt.Fprintf(os.Stderr, "Error writing frame: %v\n", err)
				// Finalize what was captured so far so the episode stays
				// mergeable.
				if closeErr := writer.Close(); closeErr != nil {
					fmt.Fprintf(os.Stderr, "Error finalizing dataset: %v\n", closeErr)
				}
				os.Exit(1)
			}
		}
	}

	if err := writer.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Error finalizing dataset: %v\n", err)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Println(successStyle.Render(fmt.Sprintf("Recorded %d frames to %s", writer.Frames(), root)))
	fmt.Println("Merge episodes with: " + headerStyle.Render("so101 merge-episodes"))

	return nil
}
