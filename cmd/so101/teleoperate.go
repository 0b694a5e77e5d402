package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/NimbleMarkets/ntcharts/canvas/runes"
	"github.com/NimbleMarkets/ntcharts/linechart/streamlinechart"

	"github.com/tfederico/SO101-Showcase/pkg/robot"
	"github.com/tfederico/SO101-Showcase/pkg/teleop"
)

type TeleoperateCommand struct {
	FollowerPort string `long:"follower-port" required:"true" description:"Serial port for the follower robot (e.g. USB0)"`
	FollowerID   string `long:"follower-id" required:"true" description:"Unique identifier for the follower robot"`
	LeaderPort   string `long:"leader-port" required:"true" description:"Serial port for the leader arm (e.g. USB1)"`
	LeaderID     string `long:"leader-id" required:"true" description:"Unique identifier for the leader arm"`

	// Optional second pair for dual-arm operation.
	FollowerPort2 string `long:"follower-port2" description:"Serial port for follower robot 2"`
	FollowerID2   string `long:"follower-id2" description:"Unique identifier for follower robot 2"`
	LeaderPort2   string `long:"leader-port2" description:"Serial port for leader arm 2"`
	LeaderID2     string `long:"leader-id2" description:"Unique identifier for leader arm 2"`

	CalibrationDir string `long:"calibration-dir" default:"calibration" description:"Path to calibration directory"`
	Hz             int    `long:"hz" default:"60" description:"Control loop frequency"`
	Mirror         bool   `long:"mirror" description:"Mirror mode: invert shoulder_pan and wrist_roll positions"`
}

const (
	headerHeight = 2 // title + blank line
	legendHeight = 2 // legend row + blank
	footerHeight = 7 // log box height
	maxLogs      = 5 // number of log messages to show
	borderSize   = 2 // chart border
)

// Motor colors - distinct colors for each motor
var motorColors = map[robot.MotorName]string{
	robot.ShoulderPan:  "196", // red
	robot.ShoulderLift: "208", // orange
	robot.ElbowFlex:    "226", // yellow
	robot.WristFlex:    "46",  // green
	robot.WristRoll:    "51",  // cyan
	robot.Gripper:      "201", // magenta
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	chartStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type teleopModel struct {
	ctrl          *teleop.Controller // first pair, drives the chart
	pairs         int
	logCh         <-chan string // fan-in of all controllers' logs
	chart         *streamlinechart.Model
	width         int      // terminal width
	height        int      // terminal height
	logs          []string // last N log messages
	quitting      bool
	lastPositions map[robot.MotorName]float64 // track previous positions to detect movement
}

func (m *teleopModel) addLog(msg string) {
	m.logs = append(m.logs, msg)
	if len(m.logs) > maxLogs {
		m.logs = m.logs[len(m.logs)-maxLogs:]
	}
}

// hasMovement checks if any motor position has changed from the last state
func (m *teleopModel) hasMovement(positions map[robot.MotorName]float64) bool {
	if m.lastPositions == nil {
		return true // first reading, consider it movement
	}
	for name, pos := range positions {
		if lastPos, ok := m.lastPositions[name]; !ok || pos != lastPos {
			return true
		}
	}
	return false
}

// Messages from the controllers
type stateMsg teleop.State
type logMsg string

func waitForState(ctrl *teleop.Controller) tea.Cmd {
	return func() tea.Msg {
		return stateMsg(<-ctrl.States())
	}
}

func waitForLog(logCh <-chan string) tea.Cmd {
	return func() tea.Msg {
		return logMsg(<-logCh)
	}
}

// chartSize calculates the size of the chart based on terminal dimensions
func (m *teleopModel) chartSize() (width, height int) {
	if m.width == 0 || m.height == 0 {
		return 80, 20 // default size before we know terminal size
	}
	width = m.width - borderSize - 2
	if width < 40 {
		width = 40
	}
	height = m.height - headerHeight - legendHeight - footerHeight - borderSize
	if height < 10 {
		height = 10
	}
	return width, height
}

func (m *teleopModel) resizeChart() {
	w, h := m.chartSize()
	m.chart.Resize(w, h)
}

func initialTeleopModel(ctrl *teleop.Controller, pairs int, logCh <-chan string) teleopModel {
	chart := streamlinechart.New(80, 20,
		streamlinechart.WithYRange(-100, 100),
	)

	// Set up data set styles for each motor
	for _, name := range robot.AllMotors() {
		color := motorColors[name]
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(color))
		chart.SetDataSetStyles(string(name), runes.ThinLineStyle, style)
	}

	return teleopModel{
		ctrl:  ctrl,
		pairs: pairs,
		logCh: logCh,
		chart: &chart,
	}
}

func (m teleopModel) Init() tea.Cmd {
	// Start listening for state and log updates
	return tea.Batch(
		waitForState(m.ctrl),
		waitForLog(m.logCh),
	)
}

func (m teleopModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeChart()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}

	case stateMsg:
		state := teleop.State(msg)
		if state.Positions != nil {
			// Only update chart if there's movement (freeze when idle)
			if m.hasMovement(state.Positions) {
				for name, pos := range state.Positions {
					m.chart.PushDataSet(string(name), pos)
				}
				m.chart.DrawAll()
				m.lastPositions = state.Positions
			}
		}
		return m, waitForState(m.ctrl)

	case logMsg:
		m.addLog(string(msg))
		return m, waitForLog(m.logCh)
	}

	return m, nil
}

func (m teleopModel) View() string {
	if m.quitting {
		return "Teleoperation stopped.\n"
	}

	var sb strings.Builder

	// Header
	sb.WriteString(titleStyle.Render("SO101 Teleoperate"))
	sb.WriteString(fmt.Sprintf(" - %d Hz", m.ctrl.Hz()))
	if m.pairs > 1 {
		sb.WriteString(fmt.Sprintf(" - %d pairs (chart: %s)", m.pairs, m.ctrl.Name()))
	}
	if m.width > 0 {
		sb.WriteString(statusStyle.Render(fmt.Sprintf("  [%dx%d]", m.width, m.height)))
	}
	sb.WriteString("\n\n")

	// Chart
	sb.WriteString(chartStyle.Render(m.chart.View()))
	sb.WriteString("\n")

	// Legend
	sb.WriteString(renderLegend())
	sb.WriteString("\n")

	// Log box
	logStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Width(m.width - 4).
		Foreground(lipgloss.Color("9")) // bright red

	var logLines string
	if len(m.logs) == 0 {
		logLines = statusStyle.Render("Press 'q' to quit")
	} else {
		logLines = strings.Join(m.logs, "\n")
	}
	sb.WriteString(logStyle.Render(logLines))
	sb.WriteString("\n")

	return sb.String()
}

func renderLegend() string {
	var items []string
	for _, name := range robot.AllMotors() {
		color := motorColors[name]
		colorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Bold(true)
		item := colorStyle.Render("━━") + " " + string(name)
		items = append(items, item)
	}
	return strings.Join(items, "  ")
}

// pairSpec is one leader/follower pairing resolved from flags.
type pairSpec struct {
	name                     string
	leaderPort, leaderID     string
	followerPort, followerID string
}

func (c *TeleoperateCommand) pairSpecs() ([]pairSpec, error) {
	specs := []pairSpec{{
		name:         "pair 1",
		leaderPort:   c.LeaderPort,
		leaderID:     c.LeaderID,
		followerPort: c.FollowerPort,
		followerID:   c.FollowerID,
	}}

	second := []string{c.FollowerPort2, c.FollowerID2, c.LeaderPort2, c.LeaderID2}
	given := 0
	for _, s := range second {
		if s != "" {
			given++
		}
	}
	switch given {
	case 0:
		// single pair
	case len(second):
		specs = append(specs, pairSpec{
			name:         "pair 2",
			leaderPort:   c.LeaderPort2,
			leaderID:     c.LeaderID2,
			followerPort: c.FollowerPort2,
			followerID:   c.FollowerID2,
		})
	default:
		return nil, fmt.Errorf("pair 2 requires all of --follower-port2, --follower-id2, --leader-port2 and --leader-id2")
	}

	return specs, nil
}

func (c *TeleoperateCommand) buildController(spec pairSpec) (*teleop.Controller, error) {
	leaderPort, err := robot.ResolveDevicePath(spec.leaderPort)
	if err != nil {
		return nil, fmt.Errorf("%s leader port: %w", spec.name, err)
	}
	followerPort, err := robot.ResolveDevicePath(spec.followerPort)
	if err != nil {
		return nil, fmt.Errorf("%s follower port: %w", spec.name, err)
	}

	leaderCal, err := robot.LoadCalibration(c.CalibrationDir, spec.leaderID)
	if err != nil {
		return nil, fmt.Errorf("%s: leader %q is not calibrated, run 'so101 calibrate' first: %w", spec.name, spec.leaderID, err)
	}
	followerCal, err := robot.LoadCalibration(c.CalibrationDir, spec.followerID)
	if err != nil {
		return nil, fmt.Errorf("%s: follower %q is not calibrated, run 'so101 calibrate' first: %w", spec.name, spec.followerID, err)
	}

	return teleop.NewController(teleop.Config{
		Name:                spec.name,
		LeaderPort:          leaderPort,
		LeaderCalibration:   leaderCal,
		FollowerPort:        followerPort,
		FollowerCalibration: followerCal,
		Hz:                  c.Hz,
		Mirror:              c.Mirror,
	})
}

func (c *TeleoperateCommand) Execute(args []string) error {
	specs, err := c.pairSpecs()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	var controllers []*teleop.Controller
	for _, spec := range specs {
		ctrl, err := c.buildController(spec)
		if err != nil {
			for _, open := range controllers {
				open.Close()
			}
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		controllers = append(controllers, ctrl)
	}
	defer func() {
		for _, ctrl := range controllers {
			ctrl.Close()
		}
	}()

	// Fan all controllers' logs into one channel for the TUI log box.
	logCh := make(chan string, 16)
	for _, ctrl := range controllers {
		go func(in <-chan string) {
			for msg := range in {
				logCh <- msg
			}
		}(ctrl.Logs())
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup
	for _, ctrl := range controllers {
		wg.Add(1)
		go func(ctrl *teleop.Controller) {
			defer wg.Done()
			if err := ctrl.Start(ctx); err != nil && err != context.Canceled {
				log.Printf("Controller error (%s): %v", ctrl.Name(), err)
			}
		}(ctrl)
	}

	// Run TUI
	p := tea.NewProgram(initialTeleopModel(controllers[0], len(controllers), logCh), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Fatalf("Error running program: %v", err)
	}

	// Let every controller finish its rest-position shutdown before the
	// buses are closed.
	cancel()
	wg.Wait()

	return nil
}
