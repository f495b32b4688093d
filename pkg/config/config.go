package config

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config represents the host tool configuration. The device itself is
// configured at build time; Device must match the flashed firmware.
type Config struct {
	Serial     SerialConfig     `yaml:"serial"`
	Device     DeviceConfig     `yaml:"device"`
	Display    DisplayConfig    `yaml:"display"`
	Simulation SimulationConfig `yaml:"simulation"`
}

// SerialConfig contains serial port configuration.
type SerialConfig struct {
	Port     string `yaml:"port"`
	BaudRate int    `yaml:"baud_rate"`
}

// DeviceConfig describes the firmware build.
type DeviceConfig struct {
	Resolution int     `yaml:"resolution"`  // ADC resolution in bits (12 or 16)
	OutputVRef float64 `yaml:"output_vref"` // Analog output full scale (V)
	LegacyPi   bool    `yaml:"legacy_pi"`   // Filter built with pi = 3.14
}

// DisplayConfig contains trace display parameters.
type DisplayConfig struct {
	WindowSeconds   float64       `yaml:"window_seconds"`
	MaxPoints       int           `yaml:"max_points"`
	RefreshInterval time.Duration `yaml:"refresh_interval"`
	ShowVolts       bool          `yaml:"show_volts"` // light the decimal point after the thousands digit
}

// SimulationConfig describes the simulated input and telemetry rate of the mock device.
type SimulationConfig struct {
	OffsetMV          float64       `yaml:"offset_mv"`
	AmplitudeMV       float64       `yaml:"amplitude_mv"`
	FrequencyHz       float64       `yaml:"frequency_hz"`
	NoiseMV           float64       `yaml:"noise_mv"`
	TelemetryInterval time.Duration `yaml:"telemetry_interval"`
}

// Default returns a default configuration with sensible values.
func Default() *Config {
	return &Config{
		Serial: SerialConfig{
			Port:     "COM3", // Default for Windows, should be "/dev/ttyACM0" on Linux/Mac
			BaudRate: 115200,
		},
		Device: DeviceConfig{
			Resolution: 12,
			OutputVRef: 3.3,
		},
		Display: DisplayConfig{
			WindowSeconds:   10,
			MaxPoints:       1000,
			RefreshInterval: 16 * time.Millisecond,
		},
		Simulation: SimulationConfig{
			OffsetMV:          1650,
			AmplitudeMV:       800,
			FrequencyHz:       2,
			NoiseMV:           150,
			TelemetryInterval: 20 * time.Millisecond,
		},
	}
}

// Load loads configuration from a YAML file. If the file doesn't exist or
// fields are missing, it uses default values.
func Load(filename string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, errors.Wrap(err, "failed to read config file")
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse config file")
	}

	cfg.ensureDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save saves the configuration to a YAML file.
func (c *Config) Save(filename string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return errors.Wrap(err, "failed to write config file")
	}

	return nil
}

// Validate checks values that have no sensible default.
func (c *Config) Validate() error {
	if c.Device.Resolution != 12 && c.Device.Resolution != 16 {
		return errors.Errorf("device resolution must be 12 or 16 bits, got %d", c.Device.Resolution)
	}
	if c.Display.WindowSeconds <= 0 {
		return errors.Errorf("display window must be positive, got %v s", c.Display.WindowSeconds)
	}
	if c.Display.MaxPoints <= 0 {
		return errors.Errorf("display max points must be positive, got %d", c.Display.MaxPoints)
	}
	if c.Simulation.NoiseMV < 0 || c.Simulation.AmplitudeMV < 0 {
		return errors.New("simulation amplitude and noise must not be negative")
	}
	return nil
}

// ensureDefaults ensures that all required fields have default values if missing.
func (c *Config) ensureDefaults() {
	def := Default()

	if c.Serial.Port == "" {
		c.Serial.Port = def.Serial.Port
	}
	if c.Serial.BaudRate == 0 {
		c.Serial.BaudRate = def.Serial.BaudRate
	}

	if c.Device.Resolution == 0 {
		c.Device.Resolution = def.Device.Resolution
	}
	if c.Device.OutputVRef == 0 {
		c.Device.OutputVRef = def.Device.OutputVRef
	}

	if c.Display.WindowSeconds == 0 {
		c.Display.WindowSeconds = def.Display.WindowSeconds
	}
	if c.Display.MaxPoints == 0 {
		c.Display.MaxPoints = def.Display.MaxPoints
	}
	if c.Display.RefreshInterval == 0 {
		c.Display.RefreshInterval = def.Display.RefreshInterval
	}

	if c.Simulation.TelemetryInterval == 0 {
		c.Simulation.TelemetryInterval = def.Simulation.TelemetryInterval
	}
}
