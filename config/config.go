// Package config holds the appliance configuration file.
package config

import (
	"bytes"
	"io"
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/noriah/bowlgate/signature"
)

// Config is the whole configuration file.
type Config struct {
	Input      InputConfig     `yaml:"input"`
	SampleSize int             `yaml:"sample_size"`
	Signature  SignatureConfig `yaml:"signature"`
	Proximity  ProximityConfig `yaml:"proximity"`
	Actuator   ActuatorConfig  `yaml:"actuator"`
	Control    ControlConfig   `yaml:"control"`
}

// ---- INPUT ----

type InputConfig struct {
	// Backend is the backend name from list-backends
	Backend string `yaml:"backend"`
	// Device is the device name from list-devices
	Device string `yaml:"device"`
	// SampleRate is the rate at which samples are read
	SampleRate float64 `yaml:"sample_rate"`
	// TriggerLevel is the absolute level that starts a capture
	TriggerLevel float64 `yaml:"trigger_level"`
}

// ---- SIGNATURE ----

type SignatureConfig struct {
	Key       []uint8 `yaml:"key,flow"` // empty uses the compiled-in key
	Threshold uint32  `yaml:"threshold"`
}

// ---- GATE ----

type ProximityConfig struct {
	Driver    string `yaml:"driver"` // static | modbus
	Endpoint  string `yaml:"endpoint"`
	SlaveID   uint8  `yaml:"slave_id"`
	Address   uint16 `yaml:"address"`
	Quantity  uint16 `yaml:"quantity"`
	Mask      uint16 `yaml:"mask"`
	TimeoutMs int    `yaml:"timeout_ms"`
	BaudRate  int    `yaml:"baud_rate"`

	// Nearby is the fixed answer of the static driver
	Nearby bool `yaml:"nearby"`
}

type ActuatorConfig struct {
	Driver     string `yaml:"driver"` // log | modbus
	Endpoint   string `yaml:"endpoint"`
	SlaveID    uint8  `yaml:"slave_id"`
	Register   uint16 `yaml:"register"`
	OpenDuty   uint16 `yaml:"open_duty"`
	ClosedDuty uint16 `yaml:"closed_duty"`
	TimeoutMs  int    `yaml:"timeout_ms"`
	BaudRate   int    `yaml:"baud_rate"`
}

// ---- CONTROL ----

type ControlConfig struct {
	// PollIntervalMs is the control loop period. 0 spins.
	PollIntervalMs int `yaml:"poll_interval_ms"`
}

// Drivers.
const (
	DriverStatic = "static"
	DriverLog    = "log"
	DriverModbus = "modbus"
)

// NewZeroConfig returns the defaults. A loaded file is decoded on top of it.
func NewZeroConfig() Config {
	return Config{
		Input: InputConfig{
			SampleRate:   8000,
			TriggerLevel: 0.25,
		},
		SampleSize: len(signature.DefaultKey),
		Signature: SignatureConfig{
			Threshold: signature.DefaultThreshold,
		},
		Proximity: ProximityConfig{
			Driver:    DriverStatic,
			Quantity:  8,
			Mask:      0x55,
			TimeoutMs: 500,
			Nearby:    true,
		},
		Actuator: ActuatorConfig{
			Driver:     DriverLog,
			OpenDuty:   0x00,
			ClosedDuty: 0xFF,
			TimeoutMs:  500,
		},
		Control: ControlConfig{
			PollIntervalMs: 1,
		},
	}
}

// Load reads, decodes and validates the file at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(err, "failed to read config")
	}

	return Parse(data)
}

// Parse decodes a configuration document over the defaults, fills what is
// left empty and validates the result. Unknown fields are rejected.
func Parse(data []byte) (Config, error) {
	cfg := NewZeroConfig()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, errors.Wrap(err, "failed to decode config")
	}

	Sanitize(&cfg)

	if err := Validate(&cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// PollInterval returns the control loop period.
func (c ControlConfig) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalMs) * time.Millisecond
}

// Timeout returns the modbus request timeout.
func (c ProximityConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutMs) * time.Millisecond
}

// Timeout returns the modbus request timeout.
func (c ActuatorConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutMs) * time.Millisecond
}
