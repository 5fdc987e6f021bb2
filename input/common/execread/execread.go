// Package execread reads little-endian float audio from a child process or
// any other stream into session buffers.
package execread

import (
	"context"
	"encoding/binary"
	"io"
	"math"
	"os"
	"os/exec"
	"time"

	"github.com/noriah/bowlgate/input"
	"github.com/pkg/errors"
)

// Session is a session that reads floating-point audio values from a Cmd.
type Session struct {
	// OnStart is called when the session starts. Nil by default.
	OnStart func(ctx context.Context, cmd *exec.Cmd) error

	argv []string
	cfg  input.SessionConfig

	f32mode bool
}

// NewSession creates a new execread session. It never returns an error.
func NewSession(argv []string, f32mode bool, cfg input.SessionConfig) *Session {
	if len(argv) < 1 {
		panic("argv has no arg0")
	}

	return &Session{
		argv:    argv,
		cfg:     cfg,
		f32mode: f32mode,
	}
}

// Start runs the command and pumps its stdout into out.
func (s *Session) Start(ctx context.Context, out chan<- [][]input.Sample) error {
	cmd := exec.CommandContext(ctx, s.argv[0], s.argv[1:]...)
	cmd.Stderr = os.Stderr

	o, err := cmd.StdoutPipe()
	if err != nil {
		return errors.Wrap(err, "failed to get stdout pipe")
	}
	defer o.Close()

	if err := cmd.Start(); err != nil {
		return errors.Wrap(err, "failed to start "+s.argv[0])
	}

	if s.OnStart != nil {
		if err := s.OnStart(ctx, cmd); err != nil {
			return err
		}
	}

	return Pump(ctx, o, s.f32mode, s.cfg, out)
}

// Pump reads SampleSize frames at a time from r and sends each read on out
// as a new block until r ends or ctx is done. If r is an *os.File, a read
// that stalls for several block durations sends a block of silence instead;
// the bytes read before the stall are kept and completed by the next read.
func Pump(ctx context.Context, r io.Reader, f32mode bool, cfg input.SessionConfig, out chan<- [][]input.Sample) error {
	if cfg.FrameSize < 1 || cfg.SampleSize < 1 {
		return errors.Errorf("invalid session shape %dx%d", cfg.FrameSize, cfg.SampleSize)
	}

	var (
		framesz = cfg.FrameSize
		samples = cfg.SampleSize * cfg.FrameSize
		reader  = floatReader{order: binary.LittleEndian, f64: !f32mode}
	)

	width := 4
	if !f32mode {
		width = 8
	}

	raw := make([]byte, samples*width)
	have := 0

	blockDuration := time.Duration(
		float64(cfg.SampleSize) / cfg.SampleRate * float64(time.Second))

	file, _ := r.(*os.File)

	for {
		if file != nil {
			// Deadlines are not supported on every file kind; ignore failure.
			_ = file.SetReadDeadline(time.Now().Add(blockDuration * 6))
		}

		block := input.MakeBuffers(framesz, cfg.SampleSize)

		n, err := io.ReadFull(r, raw[have:])
		have += n

		switch {
		case err == nil:
			reader.reset(raw)
			for i := 0; i < samples; i++ {
				block[i%framesz][i/framesz] = reader.next()
			}
			have = 0

		case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
			return nil

		case errors.Is(err, os.ErrDeadlineExceeded):
			// block stays silent

		default:
			return errors.Wrap(err, "failed to read samples")
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case out <- block:
		}
	}
}

type floatReader struct {
	order binary.ByteOrder
	buf   []byte
	f64   bool
}

func (f *floatReader) reset(b []byte) {
	f.buf = b
}

func (f *floatReader) next() float64 {
	if f.f64 {
		b := f.buf[:8]
		f.buf = f.buf[8:]
		return math.Float64frombits(f.order.Uint64(b))
	}

	b := f.buf[:4]
	f.buf = f.buf[4:]
	return float64(math.Float32frombits(f.order.Uint32(b)))
}
