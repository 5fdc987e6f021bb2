package modbus

import (
	"log/slog"

	"github.com/pkg/errors"
)

// DefaultMask selects the active sensor lines out of the eight inputs.
const DefaultMask = 0x55

// InputReader reads packed discrete inputs. *Conn implements it.
type InputReader interface {
	ReadDiscreteInputs(addr, qty uint16) ([]byte, error)
}

// ProximityConfig selects the inputs the sensors are wired to.
type ProximityConfig struct {
	Address  uint16
	Quantity uint16 // 1..16
	Mask     uint16 // zero means DefaultMask
	Logger   *slog.Logger
}

// Proximity reports an object nearby when any active input is pulled low.
// The sensor lines idle high on pull-ups.
type Proximity struct {
	r    InputReader
	addr uint16
	qty  uint16
	mask uint16
	log  *slog.Logger
}

// NewProximity returns a Proximity reading through r.
func NewProximity(r InputReader, cfg ProximityConfig) (*Proximity, error) {
	if cfg.Quantity == 0 || cfg.Quantity > 16 {
		return nil, errors.Errorf("modbus: input quantity %d out of range", cfg.Quantity)
	}

	if cfg.Mask == 0 {
		cfg.Mask = DefaultMask
	}

	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return &Proximity{
		r:    r,
		addr: cfg.Address,
		qty:  cfg.Quantity,
		mask: cfg.Mask & (1<<cfg.Quantity - 1),
		log:  cfg.Logger,
	}, nil
}

// IsObjectNearby polls the inputs. A failed read counts as nothing nearby.
func (p *Proximity) IsObjectNearby() bool {
	res, err := p.r.ReadDiscreteInputs(p.addr, p.qty)
	if err != nil {
		p.log.Warn("proximity read failed", "error", err)
		return false
	}

	var lines uint16
	for i := 0; i < len(res) && i < 2; i++ {
		lines |= uint16(res[i]) << (8 * i)
	}

	return ^lines&p.mask != 0
}
