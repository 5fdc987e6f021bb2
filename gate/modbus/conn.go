// Package modbus drives the proximity inputs and the gate servo through a
// Modbus I/O module.
package modbus

import (
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/goburrow/modbus"
	"github.com/pkg/errors"
)

// Config is minimal transport config.
//
// Endpoint is either "tcp://host:port" (or a bare "host:port") for Modbus
// TCP, or "rtu:///dev/ttyUSB0" for Modbus RTU over a serial line.
type Config struct {
	Endpoint string
	SlaveID  uint8
	Timeout  time.Duration
	BaudRate int // RTU only
}

type handler interface {
	modbus.ClientHandler
	Connect() error
	Close() error
}

// Conn is a single connection to one I/O module. It serializes requests so
// the proximity reader and the actuator can share it.
type Conn struct {
	mu      sync.Mutex
	handler handler
	client  modbus.Client
}

// Dial connects to the module at cfg.Endpoint.
func Dial(cfg Config) (*Conn, error) {
	h, err := newHandler(cfg)
	if err != nil {
		return nil, err
	}

	if err := h.Connect(); err != nil {
		return nil, errors.Wrapf(err, "failed to connect to %s", cfg.Endpoint)
	}

	return &Conn{
		handler: h,
		client:  modbus.NewClient(h),
	}, nil
}

func newHandler(cfg Config) (handler, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("modbus: endpoint required")
	}

	scheme, address := "tcp", cfg.Endpoint
	if strings.Contains(cfg.Endpoint, "://") {
		u, err := url.Parse(cfg.Endpoint)
		if err != nil {
			return nil, errors.Wrap(err, "modbus: invalid endpoint")
		}

		scheme = u.Scheme
		address = u.Host
		if scheme == "rtu" {
			address = u.Path
		}
	}

	switch scheme {
	case "tcp":
		h := modbus.NewTCPClientHandler(address)
		h.Timeout = cfg.Timeout
		h.SlaveId = cfg.SlaveID
		return h, nil

	case "rtu":
		h := modbus.NewRTUClientHandler(address)
		h.Timeout = cfg.Timeout
		h.SlaveId = cfg.SlaveID
		if cfg.BaudRate > 0 {
			h.BaudRate = cfg.BaudRate
		}
		return h, nil
	}

	return nil, errors.Errorf("modbus: unsupported scheme %q", scheme)
}

// Close closes the connection.
func (c *Conn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.handler.Close()
}

// ReadDiscreteInputs reads qty discrete inputs starting at addr. Bits are
// packed LSB first.
func (c *Conn) ReadDiscreteInputs(addr, qty uint16) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.client.ReadDiscreteInputs(addr, qty)
}

// WriteSingleRegister writes one holding register.
func (c *Conn) WriteSingleRegister(addr, value uint16) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := c.client.WriteSingleRegister(addr, value)
	return err
}
