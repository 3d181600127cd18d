package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/falconsim/falconsim/internal/dynamics"
	"github.com/falconsim/falconsim/internal/geom"
)

const (
	DefaultTimestep = 0.01
	DefaultDuration = 30.0
	DefaultAltitude = 100.0
	DefaultPort     = 12345
	DefaultRate     = 20.0
)

type Config struct {
	Timestep  float64         `yaml:"timestep"`
	Duration  float64         `yaml:"duration"`
	Aircraft  AircraftConfig  `yaml:"aircraft"`
	InitState InitStateConfig `yaml:"init_state"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

type AircraftConfig struct {
	Mass       float64 `yaml:"mass"`
	WingArea   float64 `yaml:"wing_area"`
	Wingspan   float64 `yaml:"wingspan"`
	LiftCoeff  float64 `yaml:"lift_coeff"`
	DragCoeff  float64 `yaml:"drag_coeff"`
	MaxThrust  float64 `yaml:"max_thrust"`
	AirDensity float64 `yaml:"air_density"`
}

type InitStateConfig struct {
	North    float64 `yaml:"north"`
	East     float64 `yaml:"east"`
	Altitude float64 `yaml:"altitude"`
	Airspeed float64 `yaml:"airspeed"`
	Heading  float64 `yaml:"heading"`
}

type TelemetryConfig struct {
	Port    int      `yaml:"port"`
	Rate    float64  `yaml:"rate"`
	Clients []string `yaml:"clients"`
}

func DefaultConfig() *Config {
	return &Config{
		Timestep: DefaultTimestep,
		Duration: DefaultDuration,
		Aircraft: AircraftConfig{
			Mass:       dynamics.DefaultMass,
			WingArea:   dynamics.DefaultWingArea,
			Wingspan:   dynamics.DefaultWingspan,
			LiftCoeff:  dynamics.DefaultLiftCoeff,
			DragCoeff:  dynamics.DefaultDragCoeff,
			MaxThrust:  dynamics.DefaultMaxThrust,
			AirDensity: dynamics.DefaultAirDensity,
		},
		InitState: InitStateConfig{
			Altitude: DefaultAltitude,
		},
		Telemetry: TelemetryConfig{
			Port: DefaultPort,
			Rate: DefaultRate,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// GetInitState builds the initial rigid-body state: level attitude at the
// configured position and heading, airspeed along the body x axis. Altitude
// maps to negative down in the NED frame.
func (c *Config) GetInitState() dynamics.State {
	return dynamics.State{
		Position:    geom.Vec3{X: c.InitState.North, Y: c.InitState.East, Z: -c.InitState.Altitude},
		Velocity:    geom.Vec3{X: c.InitState.Airspeed},
		Orientation: geom.Vec3{Z: c.InitState.Heading},
		Mass:        c.Aircraft.Mass,
	}
}

// Apply pushes the aircraft section onto a dynamics model through its
// clamping setters.
func (c *Config) Apply(f *dynamics.FlightDynamics) {
	f.SetProperties(dynamics.Properties{
		WingArea:  c.Aircraft.WingArea,
		Wingspan:  c.Aircraft.Wingspan,
		LiftCoeff: c.Aircraft.LiftCoeff,
		DragCoeff: c.Aircraft.DragCoeff,
		MaxThrust: c.Aircraft.MaxThrust,
	})
	f.SetMass(c.Aircraft.Mass)
	f.SetAirDensity(c.Aircraft.AirDensity)
}
