// Package control sequences acquisition, analysis and the gate.
package control

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"github.com/noriah/bowlgate/fft"
	"github.com/noriah/bowlgate/gate"
)

// State of the control loop.
type State int

const (
	StateInit State = iota
	StateAnalyze
	StateOpen
	StateReset
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "init"
	case StateAnalyze:
		return "analyze"
	case StateOpen:
		return "open"
	case StateReset:
		return "reset"
	}

	return "unknown"
}

// Acquisition is the loop's view of the acquisition controller. Buffer is
// only read after IsFull reports true.
type Acquisition interface {
	IsFull() bool
	Buffer() []fft.Sample
	ResetBuffer()
}

// Transformer transforms the acquisition buffer in place. It is bound to
// that buffer up front, as fft.Plan is.
type Transformer interface {
	Execute()
}

type Matcher interface {
	IsMatch(buf []fft.Sample) bool
}

// Observer is told about every analyzed buffer.
type Observer interface {
	Observe(buf []fft.Sample, matched bool)
}

// Config holds the collaborators of a Machine. Observer and Logger are
// optional.
type Config struct {
	Acquisition  Acquisition
	Transformer  Transformer
	Matcher      Matcher
	Proximity    gate.Proximity
	Actuator     gate.Actuator
	Observer     Observer
	Logger       *slog.Logger
	PollInterval time.Duration // zero spins with a scheduler yield
}

// Machine is the control state machine.
type Machine struct {
	acq   Acquisition
	xform Transformer
	match Matcher
	prox  gate.Proximity
	act   gate.Actuator
	obs   Observer
	log   *slog.Logger
	poll  time.Duration

	state State
}

// New returns a Machine in StateInit.
func New(cfg Config) *Machine {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return &Machine{
		acq:   cfg.Acquisition,
		xform: cfg.Transformer,
		match: cfg.Matcher,
		prox:  cfg.Proximity,
		act:   cfg.Actuator,
		obs:   cfg.Observer,
		log:   cfg.Logger,
		poll:  cfg.PollInterval,
		state: StateInit,
	}
}

// State returns the current state.
func (m *Machine) State() State {
	return m.state
}

// Step runs one iteration of the loop and returns the new state.
func (m *Machine) Step() State {
	next := m.next()
	if next != m.state {
		m.log.Debug("state change", "from", m.state, "to", next)
	}

	m.state = next
	return next
}

func (m *Machine) next() State {
	switch m.state {
	case StateInit:
		if !m.acq.IsFull() {
			return StateInit
		}

		if m.prox.IsObjectNearby() {
			return StateAnalyze
		}

		return StateReset

	case StateAnalyze:
		m.xform.Execute()
		buf := m.acq.Buffer()

		matched := m.match.IsMatch(buf)
		if m.obs != nil {
			m.obs.Observe(buf, matched)
		}

		if matched {
			m.log.Info("signature matched, opening")
			return StateOpen
		}

		return StateReset

	case StateOpen:
		m.act.Open()
		if m.prox.IsObjectNearby() {
			return StateOpen
		}

		m.log.Info("nothing nearby, closing")
		return StateReset

	case StateReset:
		m.act.Close()
		m.acq.ResetBuffer()
		return StateInit
	}

	return StateInit
}

// Run steps the machine until ctx is done.
func (m *Machine) Run(ctx context.Context) error {
	if m.poll <= 0 {
		for {
			select {
			case <-ctx.Done():
				return nil
			default:
			}

			m.Step()
			runtime.Gosched()
		}
	}

	ticker := time.NewTicker(m.poll)
	defer ticker.Stop()

	for {
		m.Step()

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
