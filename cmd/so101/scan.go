package main

import (
	"fmt"
	"os"

	"github.com/tfederico/SO101-Showcase/pkg/robot"
)

type ScanCommand struct{}

func (c *ScanCommand) Execute(args []string) error {
	fmt.Println("Scanning serial ports for SO101 arms...")

	ports, err := robot.ListArmPorts()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if len(ports) == 0 {
		fmt.Println("No SO101 arms found.")
		fmt.Println("Make sure your arms are connected and powered on.")
		os.Exit(1)
	}

	for _, port := range ports {
		fmt.Println(successStyle.Render("  Found SO101 arm on " + port))
	}

	return nil
}
