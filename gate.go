package bowlgate

import (
	"fmt"
	"log/slog"

	"github.com/pkg/errors"

	"github.com/noriah/bowlgate/config"
	"github.com/noriah/bowlgate/gate"
	"github.com/noriah/bowlgate/gate/modbus"
)

// hardware holds the gate collaborators and the connections behind them.
type hardware struct {
	prox  gate.Proximity
	act   gate.Actuator
	conns map[string]*modbus.Conn
}

func openHardware(cfg config.Config, log *slog.Logger) (*hardware, error) {
	hw := &hardware{conns: map[string]*modbus.Conn{}}

	switch cfg.Proximity.Driver {
	case config.DriverModbus:
		p := cfg.Proximity
		conn, err := hw.dial(modbus.Config{
			Endpoint: p.Endpoint,
			SlaveID:  p.SlaveID,
			Timeout:  p.Timeout(),
			BaudRate: p.BaudRate,
		})
		if err != nil {
			hw.Close()
			return nil, errors.Wrap(err, "proximity")
		}

		prox, err := modbus.NewProximity(conn, modbus.ProximityConfig{
			Address:  p.Address,
			Quantity: p.Quantity,
			Mask:     p.Mask,
			Logger:   log,
		})
		if err != nil {
			hw.Close()
			return nil, err
		}

		hw.prox = prox

	default:
		hw.prox = gate.Static(cfg.Proximity.Nearby)
	}

	switch cfg.Actuator.Driver {
	case config.DriverModbus:
		a := cfg.Actuator
		conn, err := hw.dial(modbus.Config{
			Endpoint: a.Endpoint,
			SlaveID:  a.SlaveID,
			Timeout:  a.Timeout(),
			BaudRate: a.BaudRate,
		})
		if err != nil {
			hw.Close()
			return nil, errors.Wrap(err, "actuator")
		}

		hw.act = modbus.NewActuator(conn, modbus.ActuatorConfig{
			Register:   a.Register,
			OpenDuty:   a.OpenDuty,
			ClosedDuty: a.ClosedDuty,
			Logger:     log,
		})

	default:
		hw.act = gate.NewLogActuator(log)
	}

	return hw, nil
}

// dial shares one connection per endpoint and slave.
func (hw *hardware) dial(cfg modbus.Config) (*modbus.Conn, error) {
	key := fmt.Sprintf("%s|%d", cfg.Endpoint, cfg.SlaveID)
	if conn, ok := hw.conns[key]; ok {
		return conn, nil
	}

	conn, err := modbus.Dial(cfg)
	if err != nil {
		return nil, err
	}

	hw.conns[key] = conn
	return conn, nil
}

func (hw *hardware) Close() error {
	var first error
	for key, conn := range hw.conns {
		if err := conn.Close(); err != nil && first == nil {
			first = err
		}
		delete(hw.conns, key)
	}
	return first
}
