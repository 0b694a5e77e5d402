package main

import (
	"fmt"
	"os"

	"github.com/tfederico/SO101-Showcase/pkg/robot"
)

type EnablePortCommand struct {
	Args struct {
		Suffix string `positional-arg-name:"device-suffix" description:"Serial device suffix (ACM0, ttyACM0 or /dev/ttyACM0)"`
	} `positional-args:"yes" required:"1"`
}

func (c *EnablePortCommand) Execute(args []string) error {
	path, err := robot.ResolveDevicePath(c.Args.Suffix)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := robot.EnableDevice(path); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	fmt.Println(successStyle.Render(fmt.Sprintf("%s is now world read/write", path)))
	return nil
}
