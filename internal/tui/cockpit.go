// Package tui is the interactive cockpit: a bubbletea program that flies the
// real-time simulation driver from the keyboard and renders an instrument
// panel with an altitude trace.
package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"

	"github.com/falconsim/falconsim/internal/dynamics"
	"github.com/falconsim/falconsim/internal/sim"
)

const (
	throttleStep = 0.05
	surfaceStep  = 0.1
	maxHistory   = 120
)

type tickMsg time.Time

// Cockpit is the bubbletea model. It owns no simulation state; every frame
// reads a fresh snapshot from the driver.
type Cockpit struct {
	driver    *sim.Driver
	frameRate int

	controls dynamics.Controls
	paused   bool

	altHist []float64
	width   int
}

func NewCockpit(driver *sim.Driver, frameRate int) Cockpit {
	if frameRate <= 0 {
		frameRate = 30
	}
	return Cockpit{
		driver:    driver,
		frameRate: frameRate,
		altHist:   make([]float64, 0, maxHistory),
		width:     80,
	}
}

// Run starts the driver, hands the terminal to bubbletea and stops the
// driver when the program exits.
func Run(driver *sim.Driver, frameRate int) error {
	if err := driver.Start(); err != nil {
		return err
	}
	defer driver.Stop()

	_, err := tea.NewProgram(NewCockpit(driver, frameRate), tea.WithAltScreen()).Run()
	return err
}

func (c Cockpit) Init() tea.Cmd {
	return c.tick()
}

func (c Cockpit) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(c.frameRate), func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (c Cockpit) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		c.width = msg.Width
		return c, nil

	case tickMsg:
		alt := c.driver.GetState().Altitude()
		c.altHist = append(c.altHist, alt)
		if len(c.altHist) > maxHistory {
			c.altHist = c.altHist[1:]
		}
		return c, c.tick()

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return c, tea.Quit

		case " ":
			if c.paused {
				c.driver.Resume()
			} else {
				c.driver.Pause()
			}
			c.paused = !c.paused

		case "up":
			c.setThrottle(c.controls.Throttle + throttleStep)
		case "down":
			c.setThrottle(c.controls.Throttle - throttleStep)

		case "a":
			c.setSurfaces(c.controls.Aileron-surfaceStep, c.controls.Elevator, c.controls.Rudder)
		case "d":
			c.setSurfaces(c.controls.Aileron+surfaceStep, c.controls.Elevator, c.controls.Rudder)
		case "w":
			c.setSurfaces(c.controls.Aileron, c.controls.Elevator+surfaceStep, c.controls.Rudder)
		case "s":
			c.setSurfaces(c.controls.Aileron, c.controls.Elevator-surfaceStep, c.controls.Rudder)
		case "z":
			c.setSurfaces(c.controls.Aileron, c.controls.Elevator, c.controls.Rudder-surfaceStep)
		case "c":
			c.setSurfaces(c.controls.Aileron, c.controls.Elevator, c.controls.Rudder+surfaceStep)

		case "r":
			c.setSurfaces(0, 0, 0)
		}
		return c, nil
	}
	return c, nil
}

// setThrottle forwards to the driver and reads back the clamped tuple, so
// the panel always shows what the model actually applies.
func (c *Cockpit) setThrottle(throttle float64) {
	c.driver.SetThrust(throttle)
	c.controls = c.driver.GetControls()
}

func (c *Cockpit) setSurfaces(aileron, elevator, rudder float64) {
	c.driver.SetControlSurfaces(aileron, elevator, rudder)
	c.controls = c.driver.GetControls()
}

func (c Cockpit) View() string {
	s := c.driver.GetState()

	var b strings.Builder

	status := statusRunning.Render("● FLYING")
	if c.paused {
		status = statusPaused.Render("● PAUSED")
	}
	b.WriteString(white.Render("falconsim") + "  " + status + "\n\n")

	deg := func(rad float64) float64 { return rad * 180 / math.Pi }
	instruments := fmt.Sprintf(
		"%s %8.1f m   %s %6.1f m/s   %s %6.1f m/s\n%s %6.1f°   %s %6.1f°   %s %6.1f°",
		dim.Render("alt"), s.Altitude(),
		dim.Render("ias"), s.Velocity.Norm(),
		dim.Render("vs"), -s.Velocity.Z,
		dim.Render("roll"), deg(s.Orientation.X),
		dim.Render("pitch"), deg(s.Orientation.Y),
		dim.Render("yaw"), deg(s.Orientation.Z),
	)
	b.WriteString(panel.Render(instruments) + "\n")

	controls := fmt.Sprintf(
		"%s %s  %s %+5.2f  %s %+5.2f  %s %+5.2f",
		dim.Render("thr"), gauge(c.controls.Throttle),
		dim.Render("ail"), c.controls.Aileron,
		dim.Render("ele"), c.controls.Elevator,
		dim.Render("rud"), c.controls.Rudder,
	)
	b.WriteString(panel.Render(controls) + "\n")

	if len(c.altHist) >= 2 {
		graph := asciigraph.Plot(c.altHist,
			asciigraph.Height(8),
			asciigraph.Width(min(c.width-10, 70)),
			asciigraph.Caption("altitude (m)"),
		)
		b.WriteString(cyan.Render(graph) + "\n")
	}

	b.WriteString(dim.Render("\n↑/↓ throttle · a/d roll · w/s pitch · z/c yaw · r center · space pause · q quit"))
	return b.String()
}

// gauge renders a 10-cell throttle bar.
func gauge(v float64) string {
	filled := int(v*10 + 0.5)
	bar := strings.Repeat("█", filled) + strings.Repeat("░", 10-filled)
	switch {
	case v > 0.8:
		return magenta.Render(bar)
	case v > 0.4:
		return green.Render(bar)
	default:
		return yellow.Render(bar)
	}
}
