package config

import (
	"github.com/pkg/errors"

	"github.com/noriah/bowlgate/fft"
	"github.com/noriah/bowlgate/signature"
)

// Sanitize fills in what the file left empty. It is called before Validate.
func Sanitize(cfg *Config) {
	if len(cfg.Signature.Key) == 0 {
		if cfg.SampleSize == 0 {
			cfg.SampleSize = len(signature.DefaultKey)
		}

		if cfg.SampleSize == len(signature.DefaultKey) {
			cfg.Signature.Key = append([]uint8(nil), signature.DefaultKey...)
		}
	}

	if cfg.SampleSize == 0 {
		cfg.SampleSize = len(cfg.Signature.Key)
	}

	if cfg.Signature.Threshold == 0 {
		cfg.Signature.Threshold = signature.DefaultThreshold
	}
}

// Validate checks configuration correctness. It does not mutate cfg.
func Validate(cfg *Config) error {
	if !fft.ValidSize(cfg.SampleSize) {
		return errors.Errorf("sample size %d must be a power of two in [%d, %d]",
			cfg.SampleSize, fft.MinSize, fft.MaxSize)
	}

	if len(cfg.Signature.Key) != cfg.SampleSize {
		return errors.Errorf("signature key has %d bins, sample size is %d",
			len(cfg.Signature.Key), cfg.SampleSize)
	}

	if cfg.Input.SampleRate < float64(cfg.SampleSize) {
		return errors.New("sample rate lower than sample size")
	}

	if cfg.Input.TriggerLevel <= 0 || cfg.Input.TriggerLevel > 1 {
		return errors.Errorf("trigger level %v out of range (0, 1]", cfg.Input.TriggerLevel)
	}

	if err := validateProximity(&cfg.Proximity); err != nil {
		return errors.Wrap(err, "proximity")
	}

	if err := validateActuator(&cfg.Actuator); err != nil {
		return errors.Wrap(err, "actuator")
	}

	if cfg.Control.PollIntervalMs < 0 {
		return errors.New("negative poll interval")
	}

	return nil
}

func validateProximity(p *ProximityConfig) error {
	switch p.Driver {
	case DriverStatic:
		return nil

	case DriverModbus:
		if p.Endpoint == "" {
			return errors.New("modbus driver requires an endpoint")
		}

		if p.Quantity == 0 || p.Quantity > 16 {
			return errors.Errorf("input quantity %d out of range [1, 16]", p.Quantity)
		}

		if p.TimeoutMs < 0 {
			return errors.New("negative timeout")
		}

		return nil
	}

	return errors.Errorf("unknown driver %q", p.Driver)
}

func validateActuator(a *ActuatorConfig) error {
	switch a.Driver {
	case DriverLog:
		return nil

	case DriverModbus:
		if a.Endpoint == "" {
			return errors.New("modbus driver requires an endpoint")
		}

		if a.OpenDuty == a.ClosedDuty {
			return errors.New("open and closed duty are the same")
		}

		if a.TimeoutMs < 0 {
			return errors.New("negative timeout")
		}

		return nil
	}

	return errors.Errorf("unknown driver %q", a.Driver)
}
