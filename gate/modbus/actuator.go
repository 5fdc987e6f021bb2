package modbus

import (
	"log/slog"
)

// Duty values for the gate servo.
const (
	OpenDuty   = 0x00
	ClosedDuty = 0xFF
)

// RegisterWriter writes one holding register. *Conn implements it.
type RegisterWriter interface {
	WriteSingleRegister(addr, value uint16) error
}

// ActuatorConfig selects the duty cycle register and its two positions.
type ActuatorConfig struct {
	Register   uint16
	OpenDuty   uint16
	ClosedDuty uint16
	Logger     *slog.Logger
}

// Actuator drives the gate servo by writing its duty cycle register.
type Actuator struct {
	w      RegisterWriter
	reg    uint16
	open   uint16
	closed uint16
	log    *slog.Logger

	last  uint16
	known bool
}

// NewActuator returns an Actuator writing through w. The position is
// unknown until the first command, which is always written.
func NewActuator(w RegisterWriter, cfg ActuatorConfig) *Actuator {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return &Actuator{
		w:      w,
		reg:    cfg.Register,
		open:   cfg.OpenDuty,
		closed: cfg.ClosedDuty,
		log:    cfg.Logger,
	}
}

func (a *Actuator) Open() {
	a.set(a.open)
}

func (a *Actuator) Close() {
	a.set(a.closed)
}

func (a *Actuator) set(duty uint16) {
	if a.known && a.last == duty {
		return
	}

	if err := a.w.WriteSingleRegister(a.reg, duty); err != nil {
		a.known = false
		a.log.Warn("actuator write failed", "register", a.reg, "duty", duty, "error", err)
		return
	}

	a.last, a.known = duty, true
	a.log.Debug("actuator moved", "register", a.reg, "duty", duty)
}
