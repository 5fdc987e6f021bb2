package bowlgate

import (
	"context"
	"io"
	"log/slog"
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noriah/bowlgate/config"
	"github.com/noriah/bowlgate/fft"
	"github.com/noriah/bowlgate/input"
	"github.com/noriah/bowlgate/signature"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

func init() {
	input.RegisterBackend("replay", replayBackend{})
}

// replayBackend plays replaySignal once, then idles until cancelled.
type replayBackend struct{}

type replayDevice struct{}

func (replayDevice) String() string { return "replay" }

func (replayBackend) Init() error                          { return nil }
func (replayBackend) Close() error                         { return nil }
func (replayBackend) Devices() ([]input.Device, error)     { return []input.Device{replayDevice{}}, nil }
func (replayBackend) DefaultDevice() (input.Device, error) { return replayDevice{}, nil }

func (replayBackend) Start(cfg input.SessionConfig) (input.Session, error) {
	return &replaySession{cfg: cfg}, nil
}

type replaySession struct {
	cfg input.SessionConfig
}

func (s *replaySession) Start(ctx context.Context, out chan<- [][]input.Sample) error {
	sig := replaySignal(s.cfg.SampleSize * 4)

	for off := 0; off+s.cfg.SampleSize <= len(sig); off += s.cfg.SampleSize {
		blk := input.MakeBuffers(1, s.cfg.SampleSize)
		copy(blk[0], sig[off:off+s.cfg.SampleSize])

		select {
		case <-ctx.Done():
			return ctx.Err()
		case out <- blk:
		}
	}

	<-ctx.Done()
	return ctx.Err()
}

// replaySignal is a quarter of silence followed by a tone.
func replaySignal(n int) []input.Sample {
	out := make([]input.Sample, n)
	for i := n / 4; i < n; i++ {
		out[i] = 0.8 * math.Sin(2*math.Pi*float64(i)/32)
	}
	return out
}

type firstResult struct {
	cancel  context.CancelFunc
	calls   int
	matched bool
}

func (f *firstResult) Observe(_ []fft.Sample, matched bool) {
	if f.calls == 0 {
		f.matched = matched
		f.cancel()
	}
	f.calls++
}

func replayConfig(t *testing.T) config.Config {
	file := config.NewZeroConfig()
	file.Input.Backend = "replay"
	config.Sanitize(&file)
	require.NoError(t, config.Validate(&file))
	return file
}

func runReplay(t *testing.T, file config.Config) *firstResult {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	obs := &firstResult{cancel: cancel}

	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, Config{File: file, Observer: obs, Logger: quiet})
	}()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return")
	}

	return obs
}

func TestRun_AnalyzesTriggeredCapture(t *testing.T) {
	file := replayConfig(t)
	file.Signature.Threshold = math.MaxUint32

	obs := runReplay(t, file)
	assert.GreaterOrEqual(t, obs.calls, 1)
	assert.True(t, obs.matched)
}

func TestRun_MismatchKeepsGateClosed(t *testing.T) {
	file := replayConfig(t)
	for i := range file.Signature.Key {
		file.Signature.Key[i] = 200
	}

	obs := runReplay(t, file)
	assert.GreaterOrEqual(t, obs.calls, 1)
	assert.False(t, obs.matched)
}

func TestRun_UnknownBackend(t *testing.T) {
	file := replayConfig(t)
	file.Input.Backend = "nope"

	assert.Error(t, Run(context.Background(), Config{File: file, Logger: quiet}))
}

func TestPipeline_ToneAgainstNoise(t *testing.T) {
	const n = 64

	tone := make([]fft.Sample, n)
	for i := range tone {
		tone[i] = fft.FromInt8(int8(math.Round(100 * math.Sin(2*math.Pi*2*float64(i)/n))))
	}

	ref := append([]fft.Sample(nil), tone...)
	mustRoots(t, n).Transform(ref)

	p, err := NewPipeline(signature.Calibrate(ref), 0)
	require.NoError(t, err)
	assert.Equal(t, n, p.Size())

	p.Plan(tone).Execute()
	assert.True(t, p.IsMatch(tone))
	assert.Zero(t, p.Error(tone))

	rng := rand.New(rand.NewSource(7))
	noise := make([]fft.Sample, n)
	for i := range noise {
		noise[i] = fft.FromInt8(int8(rng.Intn(201) - 100))
	}

	plan := p.Plan(noise)
	plan.Execute()
	assert.Equal(t, noise, plan.Buffer())
	assert.False(t, p.IsMatch(noise))

	profile := make([]uint8, n)
	p.Profile(noise, profile)
	assert.NotEqual(t, []uint8(p.Key()), profile)
}

func TestNewPipeline_InvalidKey(t *testing.T) {
	_, err := NewPipeline(make(signature.Key, 48), 0)
	assert.Error(t, err)
}

func TestBlockSize(t *testing.T) {
	assert.Equal(t, 80, BlockSize(8000))
	assert.Equal(t, 441, BlockSize(44100))
	assert.Equal(t, 1, BlockSize(50))
}

func mustRoots(t *testing.T, n int) fft.Roots {
	r, err := fft.NewRoots(n)
	require.NoError(t, err)
	return r
}
