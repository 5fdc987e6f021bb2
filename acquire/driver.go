package acquire

import (
	"context"
	"log/slog"
	"math"
	"sync/atomic"

	"github.com/noriah/bowlgate/input"
	"github.com/pkg/errors"
)

// Handler receives the interrupts raised by a Driver.
type Handler interface {
	OnSampleReady(v int8)
	OnExternalTrigger()
}

// DriverConfig configures a Driver.
type DriverConfig struct {
	Session      input.Session // source of raw audio
	BlockSize    int           // frames per session read
	TriggerLevel float64       // |v| at which the trigger line fires, (0, 1]
	Logger       *slog.Logger
}

// Driver emulates the sampling hardware and the external trigger line on top
// of an input session.
//
// Both handlers are called from the goroutine running Run, one at a time, so
// they never preempt each other. The trigger is a comparator on the incoming
// signal: it fires once each time |v| rises to TriggerLevel. Samples reach
// OnSampleReady only while the driver is armed.
type Driver struct {
	session   input.Session
	blockSize int
	level     float64
	log       *slog.Logger

	armed atomic.Bool
	above bool
}

// NewDriver returns a disarmed driver.
func NewDriver(cfg DriverConfig) (*Driver, error) {
	if cfg.Session == nil {
		return nil, errors.New("input session required")
	}

	if cfg.BlockSize < 1 {
		return nil, errors.Errorf("invalid block size %d", cfg.BlockSize)
	}

	if cfg.TriggerLevel <= 0 || cfg.TriggerLevel > 1 {
		return nil, errors.Errorf("trigger level %.3f out of range (0, 1]", cfg.TriggerLevel)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Driver{
		session:   cfg.Session,
		blockSize: cfg.BlockSize,
		level:     cfg.TriggerLevel,
		log:       logger,
	}, nil
}

// Arm enables sample delivery.
func (d *Driver) Arm() {
	d.armed.Store(true)
}

// Disarm stops sample delivery.
func (d *Driver) Disarm() {
	d.armed.Store(false)
}

// Armed reports whether samples are being delivered.
func (d *Driver) Armed() bool {
	return d.armed.Load()
}

// Run starts the session and delivers its samples to h until ctx is done or
// the session ends. Blocks the session queued before it ended are still
// delivered.
func (d *Driver) Run(ctx context.Context, h Handler) error {
	var (
		blocks = make(chan [][]input.Sample, blockQueue)
		errCh  = make(chan error, 1)
	)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		errCh <- d.session.Start(ctx, blocks)
	}()

	d.log.Debug("sampling driver started", "block_size", d.blockSize, "trigger_level", d.level)

	for {
		select {
		case <-ctx.Done():
			return nil

		case err := <-errCh:
			d.drain(blocks, h)

			if err != nil && !errors.Is(err, context.Canceled) {
				return errors.Wrap(err, "input session failed")
			}
			d.log.Info("input session ended")
			return nil

		case blk := <-blocks:
			d.Feed(blk[0], h)
		}
	}
}

// blockQueue is how many session blocks may wait for the driver.
const blockQueue = 4

func (d *Driver) drain(blocks <-chan [][]input.Sample, h Handler) {
	for {
		select {
		case blk := <-blocks:
			d.Feed(blk[0], h)
		default:
			return
		}
	}
}

// Feed delivers one block of raw samples to h.
func (d *Driver) Feed(block []input.Sample, h Handler) {
	for _, v := range block {
		above := math.Abs(v) >= d.level
		if above && !d.above {
			h.OnExternalTrigger()
		}
		d.above = above

		if d.armed.Load() {
			h.OnSampleReady(Quantize(v))
		}
	}
}

// Quantize converts a normalized sample to a signed 8-bit reading.
func Quantize(v float64) int8 {
	q := math.Round(v * math.MaxInt8)

	switch {
	case q > math.MaxInt8:
		return math.MaxInt8
	case q < math.MinInt8:
		return math.MinInt8
	}

	return int8(q)
}
