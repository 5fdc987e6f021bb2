package input

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDevice string

func (d fakeDevice) String() string { return string(d) }

type fakeBackend struct {
	devices []Device
}

func (b fakeBackend) Init() error                    { return nil }
func (b fakeBackend) Close() error                   { return nil }
func (b fakeBackend) Devices() ([]Device, error)     { return b.devices, nil }
func (b fakeBackend) DefaultDevice() (Device, error) { return b.devices[0], nil }

func (b fakeBackend) Start(cfg SessionConfig) (Session, error) {
	return fakeSession{cfg: cfg}, nil
}

type fakeSession struct {
	cfg SessionConfig
}

func (fakeSession) Start(context.Context, chan<- [][]Sample) error { return nil }

func TestMakeBuffers(t *testing.T) {
	bufs := MakeBuffers(2, 3)
	require.Len(t, bufs, 2)

	for _, b := range bufs {
		assert.Len(t, b, 3)
	}

	bufs[0][2] = 1
	assert.Zero(t, bufs[1][0])
}

func TestBackendRegistry(t *testing.T) {
	b := fakeBackend{devices: []Device{fakeDevice("mic"), fakeDevice("line")}}
	RegisterBackend("fake", b)

	_, ok := Lookup("fake")
	assert.True(t, ok)
	assert.Contains(t, Names(), "fake")
	assert.IsIncreasing(t, Names())

	got, err := InitBackend("fake")
	require.NoError(t, err)

	dev, err := GetDevice(got, "")
	require.NoError(t, err)
	assert.Equal(t, "mic", dev.String())

	dev, err = GetDevice(got, "line")
	require.NoError(t, err)
	assert.Equal(t, "line", dev.String())

	_, err = GetDevice(got, "usb")
	assert.Error(t, err)

	_, err = InitBackend("missing")
	assert.Error(t, err)
}

func TestOpen(t *testing.T) {
	RegisterBackend("fake-open", fakeBackend{devices: []Device{fakeDevice("mic"), fakeDevice("line")}})

	backend, session, err := Open(Capture{
		Backend:    "fake-open",
		Device:     "line",
		SampleRate: 8000,
		BlockSize:  128,
	})
	require.NoError(t, err)
	require.NotNil(t, backend)

	s, ok := session.(fakeSession)
	require.True(t, ok)
	assert.Equal(t, SessionConfig{
		Device:     fakeDevice("line"),
		FrameSize:  1,
		SampleSize: 128,
		SampleRate: 8000,
	}, s.cfg)

	_, _, err = Open(Capture{Backend: "fake-open", Device: "usb", SampleRate: 8000, BlockSize: 128})
	assert.Error(t, err)

	_, _, err = Open(Capture{Backend: "fake-open", SampleRate: 8000})
	assert.Error(t, err)

	_, _, err = Open(Capture{Backend: "fake-open", BlockSize: 128})
	assert.Error(t, err)
}
