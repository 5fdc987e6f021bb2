// Package stdinput reads raw little-endian float32 mono samples from stdin.
package stdinput

import (
	"context"
	"os"

	"github.com/noriah/bowlgate/input"
	"github.com/noriah/bowlgate/input/common/execread"
)

func init() {
	input.RegisterBackend("stdin", Backend{})
}

type Backend struct{}

func (b Backend) Init() error {
	return nil
}

func (b Backend) Close() error {
	return nil
}

func (b Backend) Devices() ([]input.Device, error) {
	return []input.Device{Device{}}, nil
}

func (b Backend) DefaultDevice() (input.Device, error) {
	return Device{}, nil
}

func (b Backend) Start(cfg input.SessionConfig) (input.Session, error) {
	return NewSession(cfg), nil
}

type Device struct{}

func (d Device) String() string {
	return "stdin"
}

// Session reads from os.Stdin.
type Session struct {
	cfg input.SessionConfig
}

func NewSession(cfg input.SessionConfig) *Session {
	return &Session{cfg: cfg}
}

func (s *Session) Start(ctx context.Context, out chan<- [][]input.Sample) error {
	return execread.Pump(ctx, os.Stdin, true, s.cfg, out)
}
