// Package gate holds the collaborators the control loop drives: the
// proximity sensors that tell whether something stands at the bowl and the
// actuator that opens and closes it.
package gate

import "log/slog"

// Proximity polls the proximity sensors. It has no side effects.
type Proximity interface {
	IsObjectNearby() bool
}

// Actuator moves the gate. Both commands are idempotent and never fail from
// the caller's point of view.
type Actuator interface {
	Open()
	Close()
}

// Static is a Proximity with a fixed answer, for bench runs without sensors.
type Static bool

// IsObjectNearby returns the fixed answer.
func (s Static) IsObjectNearby() bool {
	return bool(s)
}

// LogActuator is an Actuator that only logs position changes.
type LogActuator struct {
	log   *slog.Logger
	state string
}

// NewLogActuator returns a LogActuator writing to logger.
func NewLogActuator(logger *slog.Logger) *LogActuator {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogActuator{log: logger}
}

func (a *LogActuator) Open() {
	a.move("open")
}

func (a *LogActuator) Close() {
	a.move("closed")
}

// Position returns the last commanded position, or "" before any command.
func (a *LogActuator) Position() string {
	return a.state
}

func (a *LogActuator) move(state string) {
	if a.state == state {
		return
	}
	a.state = state
	a.log.Info("gate moved", "position", state)
}
