package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/falconsim/falconsim/internal/config"
	"github.com/falconsim/falconsim/internal/dynamics"
	"github.com/falconsim/falconsim/internal/recorder"
	"github.com/falconsim/falconsim/internal/sim"
	"github.com/falconsim/falconsim/internal/telemetry"
	"github.com/falconsim/falconsim/internal/tui"
)

var (
	dataDir    string
	configFile string
	preset     string

	dt       float64
	duration float64
	altitude float64
	airspeed float64
	heading  float64

	throttle float64
	aileron  float64
	elevator float64
	rudder   float64

	port      int
	rate      float64
	clients   []string
	pattern   bool
	frameRate int

	column string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "falconsim",
		Short: "real-time UAV flight dynamics simulator",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".falconsim", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "aircraft preset")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a fixed-step flight headless and record it",
		RunE:  runFlight,
	}
	runCmd.Flags().Float64Var(&dt, "dt", config.DefaultTimestep, "timestep (s)")
	runCmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration (s)")
	runCmd.Flags().Float64Var(&altitude, "altitude", config.DefaultAltitude, "initial altitude (m)")
	runCmd.Flags().Float64Var(&airspeed, "airspeed", 0, "initial airspeed (m/s)")
	runCmd.Flags().Float64Var(&heading, "heading", 0, "initial heading (rad)")
	runCmd.Flags().Float64Var(&throttle, "throttle", 0, "throttle [0,1]")
	runCmd.Flags().Float64Var(&aileron, "aileron", 0, "aileron [-1,1]")
	runCmd.Flags().Float64Var(&elevator, "elevator", 0, "elevator [-1,1]")
	runCmd.Flags().Float64Var(&rudder, "rudder", 0, "rudder [-1,1]")

	flyCmd := &cobra.Command{
		Use:   "fly",
		Short: "fly interactively in the terminal cockpit",
		RunE:  flyInteractive,
	}
	flyCmd.Flags().Float64Var(&dt, "dt", config.DefaultTimestep, "loop timestep (s)")
	flyCmd.Flags().Float64Var(&altitude, "altitude", config.DefaultAltitude, "initial altitude (m)")
	flyCmd.Flags().Float64Var(&airspeed, "airspeed", 0, "initial airspeed (m/s)")
	flyCmd.Flags().IntVar(&frameRate, "fps", 30, "cockpit frame rate")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "run the simulation with a UDP telemetry server",
		RunE:  serveTelemetry,
	}
	serveCmd.Flags().Float64Var(&dt, "dt", config.DefaultTimestep, "loop timestep (s)")
	serveCmd.Flags().Float64Var(&altitude, "altitude", config.DefaultAltitude, "initial altitude (m)")
	serveCmd.Flags().Float64Var(&airspeed, "airspeed", 0, "initial airspeed (m/s)")
	serveCmd.Flags().Float64Var(&throttle, "throttle", 0.8, "throttle [0,1]")
	serveCmd.Flags().IntVar(&port, "port", config.DefaultPort, "UDP listen port")
	serveCmd.Flags().Float64Var(&rate, "rate", config.DefaultRate, "telemetry rate (Hz)")
	serveCmd.Flags().StringSliceVar(&clients, "client", nil, "telemetry client address (repeatable)")
	serveCmd.Flags().BoolVar(&pattern, "pattern", false, "cycle a demo flight pattern")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list recorded flights",
		RunE:  listFlights,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a column of a recorded flight",
		Args:  cobra.ExactArgs(1),
		RunE:  plotFlight,
	}
	plotCmd.Flags().StringVar(&column, "col", "down", "column to plot")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list aircraft presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tMASS\tWING AREA\tMAX THRUST\tSTART ALT")
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%.1f kg\t%.2f m²\t%.0f N\t%.0f m\n",
					name, p.Aircraft.Mass, p.Aircraft.WingArea, p.Aircraft.MaxThrust, p.InitState.Altitude)
			}
			return w.Flush()
		},
	}

	rootCmd.AddCommand(runCmd, flyCmd, serveCmd, listCmd, plotCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig resolves preset, config file and CLI flags, in ascending
// precedence.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		*cfg = *p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("dt") {
		cfg.Timestep = dt
	}
	if cmd.Flags().Changed("time") {
		cfg.Duration = duration
	}
	if cmd.Flags().Changed("altitude") {
		cfg.InitState.Altitude = altitude
	}
	if cmd.Flags().Changed("airspeed") {
		cfg.InitState.Airspeed = airspeed
	}
	if cmd.Flags().Changed("heading") {
		cfg.InitState.Heading = heading
	}
	if cmd.Flags().Changed("port") {
		cfg.Telemetry.Port = port
	}
	if cmd.Flags().Changed("rate") {
		cfg.Telemetry.Rate = rate
	}
	if len(clients) > 0 {
		cfg.Telemetry.Clients = clients
	}

	return cfg, nil
}

func runFlight(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	st := recorder.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	model := dynamics.New()
	cfg.Apply(model)
	model.SetState(cfg.GetInitState())
	model.SetControls(dynamics.Controls{
		Throttle: throttle,
		Aileron:  aileron,
		Elevator: elevator,
		Rudder:   rudder,
	})

	fmt.Printf("simulating %.1fs at dt=%.4fs...\n", cfg.Duration, cfg.Timestep)
	start := time.Now()

	run := &recorder.Run{}
	steps := int(cfg.Duration / cfg.Timestep)
	for i := 0; i <= steps; i++ {
		t := float64(i) * cfg.Timestep
		run.Append(t, model.State(), model.Controls())
		model.Update(cfg.Timestep)
	}

	elapsed := time.Since(start)

	runID, err := st.Save(preset, cfg.Timestep, run)
	if err != nil {
		return err
	}

	final := model.State()
	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", run.Len())
	fmt.Printf("final altitude: %.1f m\n", final.Altitude())
	fmt.Printf("final speed: %.1f m/s\n", final.Velocity.Norm())
	return nil
}

func flyInteractive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	driver := sim.New(time.Duration(cfg.Timestep * float64(time.Second)))
	cfg.Apply(driver.Physics())
	driver.SetState(cfg.GetInitState())

	return tui.Run(driver, frameRate)
}

func serveTelemetry(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	driver := sim.New(time.Duration(cfg.Timestep * float64(time.Second)))
	cfg.Apply(driver.Physics())
	driver.SetState(cfg.GetInitState())

	server := telemetry.NewServer(driver, cfg.Telemetry.Port, cfg.Telemetry.Rate)
	for _, addr := range cfg.Telemetry.Clients {
		if err := server.AddClient(addr); err != nil {
			return err
		}
	}

	if err := driver.Start(); err != nil {
		return err
	}
	defer driver.Stop()

	if err := server.Start(); err != nil {
		return err
	}
	defer server.Stop()

	driver.SetThrust(throttle)

	fmt.Printf("telemetry on udp port %d at %.0f Hz (send REGISTER to subscribe)\n",
		cfg.Telemetry.Port, server.Rate())
	fmt.Println("press ctrl+c to stop")

	stopPattern := make(chan struct{})
	if pattern {
		go flyPattern(driver, stopPattern)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh
	close(stopPattern)

	fmt.Println("\nshutting down")
	return nil
}

// flyPattern cycles straight flight, right roll, climb and left roll every
// ten seconds, the same demo schedule the telemetry example flies.
func flyPattern(driver *sim.Driver, stop <-chan struct{}) {
	start := time.Now()
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			switch int(time.Since(start).Seconds()) / 10 % 4 {
			case 0:
				driver.SetControlSurfaces(0, 0, 0)
			case 1:
				driver.SetControlSurfaces(0.2, 0, 0)
			case 2:
				driver.SetControlSurfaces(0, 0.2, 0)
			case 3:
				driver.SetControlSurfaces(-0.2, 0, 0)
			}
		}
	}
}

func listFlights(cmd *cobra.Command, args []string) error {
	st := recorder.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no recorded flights")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPRESET\tDURATION\tSTEPS\tFINAL ALT\tFINAL SPEED")
	for _, r := range runs {
		presetName := r.Preset
		if presetName == "" {
			presetName = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%.1fs\t%d\t%.1f m\t%.1f m/s\n",
			r.ID, presetName, r.Duration, r.Steps, r.FinalAltitude, r.FinalSpeed)
	}
	return w.Flush()
}

func plotFlight(cmd *cobra.Command, args []string) error {
	st := recorder.New(dataDir)
	cols, err := st.LoadColumns(args[0])
	if err != nil {
		return err
	}

	data, ok := cols[column]
	if !ok {
		return fmt.Errorf("unknown column: %s (available: %v)", column, recorder.Header)
	}

	graph := asciigraph.Plot(data,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("%s (%s)", column, args[0])),
	)
	fmt.Println(graph)
	return nil
}
