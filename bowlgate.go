// Package bowlgate wires the acquisition, analysis and gate packages into
// the running appliance.
package bowlgate

import (
	"context"
	"log/slog"

	"github.com/pkg/errors"

	"github.com/noriah/bowlgate/acquire"
	"github.com/noriah/bowlgate/config"
	"github.com/noriah/bowlgate/control"
	"github.com/noriah/bowlgate/input"
)

// AppName is the app name
const AppName = "bowlgate"

// AppDesc is the app description
const AppDesc = "Bark-activated dog bowl gate"

// BlocksPerSecond is the rate at which the input session hands over blocks.
const BlocksPerSecond = 100

// Config is what Run needs besides the file.
type Config struct {
	File     config.Config
	Observer control.Observer // optional
	Logger   *slog.Logger     // optional
}

// BlockSize returns the frames per session read for a sample rate.
func BlockSize(sampleRate float64) int {
	if n := int(sampleRate / BlocksPerSecond); n > 0 {
		return n
	}
	return 1
}

// Run starts the appliance and blocks until ctx is done or the input ends.
// The gate is closed on the way out.
func Run(ctx context.Context, cfg Config) error {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	file := cfg.File

	pipe, err := NewPipeline(file.Signature.Key, file.Signature.Threshold)
	if err != nil {
		return errors.Wrap(err, "invalid signature")
	}

	// INPUT SETUP

	blockSize := BlockSize(file.Input.SampleRate)

	backend, session, err := input.Open(input.Capture{
		Backend:    file.Input.Backend,
		Device:     file.Input.Device,
		SampleRate: file.Input.SampleRate,
		BlockSize:  blockSize,
	})
	if err != nil {
		return err
	}
	defer backend.Close()

	// ACQUISITION SETUP

	drv, err := acquire.NewDriver(acquire.DriverConfig{
		Session:      session,
		BlockSize:    blockSize,
		TriggerLevel: file.Input.TriggerLevel,
		Logger:       log,
	})
	if err != nil {
		return err
	}

	acq, err := acquire.New(acquire.Config{
		SampleSize: pipe.Size(),
		Sampler:    drv,
	})
	if err != nil {
		return err
	}

	// GATE SETUP

	hw, err := openHardware(file, log)
	if err != nil {
		return err
	}
	defer hw.Close()

	machine := control.New(control.Config{
		Acquisition:  acq,
		Transformer:  pipe.Plan(acq.Buffer()),
		Matcher:      pipe,
		Proximity:    hw.prox,
		Actuator:     hw.act,
		Observer:     cfg.Observer,
		Logger:       log,
		PollInterval: file.Control.PollInterval(),
	})

	hw.act.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		defer cancel()
		errCh <- drv.Run(ctx, acq)
	}()

	log.Info("bowlgate running",
		"backend", file.Input.Backend,
		"device", file.Input.Device,
		"sample_rate", file.Input.SampleRate,
		"block_size", blockSize,
		"sample_size", pipe.Size())

	machine.Run(ctx)
	hw.act.Close()

	return <-errCh
}
