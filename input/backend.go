package input

import (
	"os/exec"
	"runtime"
	"sort"

	"github.com/pkg/errors"
)

// Backend is a source of capture sessions.
type Backend interface {
	// Init should do nothing if called more than once.
	Init() error
	Close() error

	Devices() ([]Device, error)
	DefaultDevice() (Device, error)
	Start(SessionConfig) (Session, error)
}

var registry = map[string]Backend{}

// RegisterBackend registers a backend under name, replacing any earlier one.
// It is not thread-safe; packages call it from init().
func RegisterBackend(name string, b Backend) {
	registry[name] = b
}

// Names returns the registered backend names in order.
func Names() []string {
	out := make([]string, 0, len(registry))
	for name := range registry {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Lookup returns the backend registered under name.
func Lookup(name string) (Backend, bool) {
	b, ok := registry[name]
	return b, ok
}

// DefaultBackend returns the preferred backend for this host, or "" when
// none is registered.
func DefaultBackend() string {
	if runtime.GOOS == "linux" {
		if _, ok := Lookup("parec"); ok {
			if path, _ := exec.LookPath("parec"); path != "" {
				return "parec"
			}
		}
	}

	if _, ok := Lookup("stdin"); ok {
		return "stdin"
	}

	return ""
}

// InitBackend initializes the named backend, or the host default when name
// is empty.
func InitBackend(name string) (Backend, error) {
	if name == "" {
		name = DefaultBackend()
	}

	backend, ok := Lookup(name)
	if !ok {
		return nil, errors.Errorf("backend not found: %q; check list-backends", name)
	}

	if err := backend.Init(); err != nil {
		return nil, errors.Wrap(err, "failed to initialize input backend")
	}

	return backend, nil
}

// GetDevice returns the named device of backend, or its default device when
// device is empty.
func GetDevice(backend Backend, device string) (Device, error) {
	if device == "" {
		def, err := backend.DefaultDevice()
		if err != nil {
			return nil, errors.Wrap(err, "failed to get default device")
		}
		return def, nil
	}

	devices, err := backend.Devices()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get devices")
	}

	for idx := range devices {
		if devices[idx].String() == device {
			return devices[idx], nil
		}
	}

	return nil, errors.Errorf("device %q not found; check list-devices", device)
}

// Capture describes the mono stream feeding the sampling driver.
type Capture struct {
	Backend    string // empty selects DefaultBackend
	Device     string // empty selects the backend default
	SampleRate float64
	BlockSize  int // frames per session read
}

// Open initializes the capture backend and starts a mono session on it. The
// caller closes the returned backend once the session is done.
func Open(c Capture) (Backend, Session, error) {
	if c.BlockSize < 1 {
		return nil, nil, errors.Errorf("invalid block size %d", c.BlockSize)
	}

	if c.SampleRate <= 0 {
		return nil, nil, errors.Errorf("invalid sample rate %.1f", c.SampleRate)
	}

	backend, err := InitBackend(c.Backend)
	if err != nil {
		return nil, nil, err
	}

	cfg := SessionConfig{
		FrameSize:  1,
		SampleSize: c.BlockSize,
		SampleRate: c.SampleRate,
	}

	if cfg.Device, err = GetDevice(backend, c.Device); err != nil {
		backend.Close()
		return nil, nil, err
	}

	session, err := backend.Start(cfg)
	if err != nil {
		backend.Close()
		return nil, nil, errors.Wrap(err, "failed to start the input backend")
	}

	return backend, session, nil
}
