// Package acquire fills a fixed-size sample buffer one sample per sampling
// interrupt and hands it off to the analysis loop once full.
//
// The controller is driven from two contexts. The interrupt side (the
// sampling and trigger handlers, called serially from one goroutine) fills
// the buffer. The loop side polls IsFull and, once it has seen the buffer
// full, reads it and eventually calls ResetBuffer. The full and collecting
// flags are the only synchronization between the two sides:
//
//   - the handler disarms the sampler and sets full as its last action, so
//     the loop never observes full before the final sample is stored;
//   - ResetBuffer clears collecting last, which hands the buffer back to the
//     interrupt side.
package acquire

import (
	"sync/atomic"

	"github.com/noriah/bowlgate/fft"
	"github.com/pkg/errors"
)

// Sampler is the sampling hardware. Arm enables continuous auto-triggered
// conversions; Disarm stops them after the current one.
type Sampler interface {
	Arm()
	Disarm()
}

// Status is the state of the acquisition.
type Status int

// Acquisition states.
const (
	StatusIdle Status = iota
	StatusCollecting
	StatusFull
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusCollecting:
		return "collecting"
	case StatusFull:
		return "full"
	default:
		return "unknown"
	}
}

// Config configures a Controller.
type Config struct {
	SampleSize int     // number of samples per buffer, a power of two
	Sampler    Sampler // sampling hardware
}

// Controller owns the sample buffer and its bookkeeping.
type Controller struct {
	buf     []fft.Sample
	cursor  int
	sampler Sampler

	full       atomic.Bool
	collecting atomic.Bool
}

// New returns an idle controller with its buffer allocated.
func New(cfg Config) (*Controller, error) {
	if !fft.ValidSize(cfg.SampleSize) {
		return nil, errors.Errorf("invalid sample size %d", cfg.SampleSize)
	}

	if cfg.Sampler == nil {
		return nil, errors.New("sampler required")
	}

	return &Controller{
		buf:     make([]fft.Sample, cfg.SampleSize),
		sampler: cfg.Sampler,
	}, nil
}

// StartCollection starts filling a new buffer and arms the sampler.
//
// It must not be called while a collection is running. Call it only after
// the buffer was seen full, or at startup.
func (c *Controller) StartCollection() {
	c.cursor = 0
	c.full.Store(false)
	c.collecting.Store(true)

	c.sampler.Arm()
}

// ResetBuffer clears the buffer state without touching the sampler.
//
// The caller must make sure no collection is running. After ResetBuffer the
// next trigger starts a new collection.
func (c *Controller) ResetBuffer() {
	c.cursor = 0
	c.full.Store(false)
	c.collecting.Store(false)
}

// OnSampleReady is the sampling interrupt handler.
//
// Samples that arrive when the buffer is full, or when no collection is
// running, are late conversions and are dropped.
func (c *Controller) OnSampleReady(v int8) {
	if c.full.Load() || !c.collecting.Load() {
		return
	}

	c.buf[c.cursor] = fft.FromInt8(v)
	c.cursor++

	if c.cursor == len(c.buf) {
		c.sampler.Disarm()

		// Must stay last.
		c.full.Store(true)
	}
}

// OnExternalTrigger is the trigger interrupt handler. Triggers that arrive
// while a collection is running, or while a full buffer is still held, are
// ignored.
func (c *Controller) OnExternalTrigger() {
	if c.collecting.Load() {
		return
	}

	c.StartCollection()
}

// IsFull reports whether the buffer is full of new data.
func (c *Controller) IsFull() bool {
	return c.full.Load()
}

// Collecting reports whether a collection was started and not yet reset.
func (c *Controller) Collecting() bool {
	return c.collecting.Load()
}

// Status returns the acquisition status.
func (c *Controller) Status() Status {
	switch {
	case c.full.Load():
		return StatusFull
	case c.collecting.Load():
		return StatusCollecting
	default:
		return StatusIdle
	}
}

// Buffer returns the sample buffer. It may only be used once IsFull is true
// and until the next ResetBuffer or StartCollection.
func (c *Controller) Buffer() []fft.Sample {
	return c.buf
}

// Size returns the buffer size.
func (c *Controller) Size() int {
	return len(c.buf)
}
