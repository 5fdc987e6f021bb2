package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noriah/bowlgate/signature"
)

func TestParse_EmptyIsDefaults(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)

	assert.Equal(t, 64, cfg.SampleSize)
	assert.Equal(t, []uint8(signature.DefaultKey), cfg.Signature.Key)
	assert.Equal(t, uint32(signature.DefaultThreshold), cfg.Signature.Threshold)
	assert.Equal(t, DriverStatic, cfg.Proximity.Driver)
	assert.Equal(t, DriverLog, cfg.Actuator.Driver)
}

func TestParse_Modbus(t *testing.T) {
	doc := `
input:
  backend: stdin
  sample_rate: 16000
  trigger_level: 0.5
sample_size: 4
signature:
  key: [1, 2, 3, 4]
  threshold: 3
proximity:
  driver: modbus
  endpoint: tcp://10.0.0.7:502
  slave_id: 2
  quantity: 8
actuator:
  driver: modbus
  endpoint: tcp://10.0.0.7:502
  slave_id: 2
  register: 10
control:
  poll_interval_ms: 5
`
	cfg, err := Parse([]byte(doc))
	require.NoError(t, err)

	assert.Equal(t, "stdin", cfg.Input.Backend)
	assert.Equal(t, 4, cfg.SampleSize)
	assert.Equal(t, []uint8{1, 2, 3, 4}, cfg.Signature.Key)
	assert.Equal(t, uint32(3), cfg.Signature.Threshold)
	assert.Equal(t, uint16(0x55), cfg.Proximity.Mask)
	assert.Equal(t, uint16(0xFF), cfg.Actuator.ClosedDuty)
	assert.Equal(t, uint16(10), cfg.Actuator.Register)
	assert.Equal(t, int64(5e6), cfg.Control.PollInterval().Nanoseconds())
}

func TestParse_UnknownField(t *testing.T) {
	_, err := Parse([]byte("sampel_size: 64\n"))
	assert.Error(t, err)
}

func TestValidate_Errors(t *testing.T) {
	cases := []struct {
		name  string
		apply func(*Config)
	}{
		{"size not power of two", func(c *Config) { c.SampleSize = 48; c.Signature.Key = make([]uint8, 48) }},
		{"key length", func(c *Config) { c.Signature.Key = c.Signature.Key[:32] }},
		{"rate below size", func(c *Config) { c.Input.SampleRate = 10 }},
		{"trigger zero", func(c *Config) { c.Input.TriggerLevel = 0 }},
		{"trigger above one", func(c *Config) { c.Input.TriggerLevel = 1.5 }},
		{"proximity driver", func(c *Config) { c.Proximity.Driver = "gpio" }},
		{"proximity endpoint", func(c *Config) { c.Proximity.Driver = DriverModbus }},
		{"proximity quantity", func(c *Config) {
			c.Proximity.Driver = DriverModbus
			c.Proximity.Endpoint = "10.0.0.1:502"
			c.Proximity.Quantity = 17
		}},
		{"actuator driver", func(c *Config) { c.Actuator.Driver = "pwm" }},
		{"actuator duty", func(c *Config) {
			c.Actuator.Driver = DriverModbus
			c.Actuator.Endpoint = "10.0.0.1:502"
			c.Actuator.OpenDuty = c.Actuator.ClosedDuty
		}},
		{"poll interval", func(c *Config) { c.Control.PollIntervalMs = -1 }},
	}

	for _, c := range cases {
		cfg := NewZeroConfig()
		Sanitize(&cfg)
		require.NoError(t, Validate(&cfg), c.name)

		c.apply(&cfg)
		assert.Error(t, Validate(&cfg), c.name)
	}
}

func TestSanitize_LargeSizeNeedsKey(t *testing.T) {
	cfg := NewZeroConfig()
	cfg.SampleSize = 1024
	cfg.Input.SampleRate = 44100

	Sanitize(&cfg)
	assert.Empty(t, cfg.Signature.Key)
	assert.Error(t, Validate(&cfg))
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bowlgate.yaml")
	require.NoError(t, os.WriteFile(path, []byte("control:\n  poll_interval_ms: 2\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Control.PollIntervalMs)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
