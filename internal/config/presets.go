package config

// Presets are named airframe setups selectable from the CLI. Each builds on
// the defaults and overrides only the aircraft and starting condition.
var Presets = map[string]*Config{
	"trainer": {
		Timestep: 0.01, Duration: 30.0,
		Aircraft: AircraftConfig{
			Mass: 1.0, WingArea: 0.5, Wingspan: 1.5,
			LiftCoeff: 1.2, DragCoeff: 0.1, MaxThrust: 20.0, AirDensity: 1.225,
		},
		InitState: InitStateConfig{Altitude: 100.0, Airspeed: 12.0},
		Telemetry: TelemetryConfig{Port: DefaultPort, Rate: DefaultRate},
	},
	"racer": {
		Timestep: 0.005, Duration: 20.0,
		Aircraft: AircraftConfig{
			Mass: 0.8, WingArea: 0.3, Wingspan: 1.0,
			LiftCoeff: 0.9, DragCoeff: 0.05, MaxThrust: 35.0, AirDensity: 1.225,
		},
		InitState: InitStateConfig{Altitude: 50.0, Airspeed: 25.0},
		Telemetry: TelemetryConfig{Port: DefaultPort, Rate: DefaultRate},
	},
	"glider": {
		Timestep: 0.01, Duration: 60.0,
		Aircraft: AircraftConfig{
			Mass: 1.5, WingArea: 0.9, Wingspan: 2.5,
			LiftCoeff: 1.5, DragCoeff: 0.04, MaxThrust: 0.0, AirDensity: 1.225,
		},
		InitState: InitStateConfig{Altitude: 300.0, Airspeed: 10.0},
		Telemetry: TelemetryConfig{Port: DefaultPort, Rate: DefaultRate},
	},
}

func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	return names
}
