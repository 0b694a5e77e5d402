package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"

	"github.com/tfederico/SO101-Showcase/pkg/robot"
)

type SetupMotorsCommand struct {
	Port    string `long:"port" short:"p" required:"true" description:"Serial port (e.g. if /dev/ttyUSB0 pass USB0)"`
	ID      string `long:"id" short:"i" required:"true" description:"Unique robot identifier"`
	ArmType string `long:"arm-type" short:"a" required:"true" choice:"leader" choice:"follower" description:"Arm type"`
}

func (c *SetupMotorsCommand) Execute(args []string) error {
	armType, err := robot.ParseArmType(c.ArmType)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	path, err := robot.ResolveDevicePath(c.Port)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	fmt.Println(headerStyle.Render("SO101 Motor Setup"))
	fmt.Println(dimStyle.Render("━━━━━━━━━━━━━━━━━━━"))
	fmt.Printf("Configuring %s arm %q\n", armType, c.ID)
	fmt.Println()
	fmt.Println("Servo IDs are written one motor at a time. Power the bus and")
	fmt.Println("connect only the motor named in each step.")

	bus, err := robot.OpenBus(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening %s: %v\n", path, err)
		os.Exit(1)
	}
	defer bus.Close()

	ctx := context.Background()

	for _, motor := range robot.SetupOrder() {
		id := robot.ServoID(motor)
		fmt.Println()
		fmt.Println(subHeaderStyle.Render(fmt.Sprintf("━━━ %s (ID %d) ━━━", motor, id)))
		waitForUser(fmt.Sprintf("Connect ONLY the %s motor to the bus.", motor))

		if err := robot.AssignMotorID(ctx, bus, id); err != nil {
			fmt.Fprintf(os.Stderr, "Error configuring %s: %v\n", motor, err)
			os.Exit(1)
		}
		fmt.Println(successStyle.Render(fmt.Sprintf("  %s assigned ID %d", motor, id)))
	}

	fmt.Println()
	waitForUser("All IDs written. Reconnect the complete servo chain.")

	if err := robot.VerifyChain(ctx, bus); err != nil {
		fmt.Fprintf(os.Stderr, "Chain verification failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Println(dimStyle.Render("━━━━━━━━━━━━━━━━━━━"))
	fmt.Println(successStyle.Render("Motor setup complete!"))
	fmt.Printf("Calibrate this arm with: %s\n",
		headerStyle.Render(fmt.Sprintf("so101 calibrate -p %s -i %s -a %s", c.Port, c.ID, armType)))

	return nil
}

func waitForUser(prompt string) {
	fmt.Println(prompt)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("").
				Affirmative("Continue").
				Negative("").
				Value(new(bool)),
		),
	)
	if err := form.Run(); err != nil {
		fmt.Println()
		os.Exit(0)
	}
}
