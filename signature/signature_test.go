package signature

import (
	"math"
	"math/rand"
	"testing"

	"github.com/noriah/bowlgate/fft"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSize = 64

func TestLog10(t *testing.T) {
	var tests = []struct {
		p    uint32
		want uint8
	}{
		{0, 0},
		{1, 0},
		{9, 0},
		{10, 1},
		{99, 1},
		{100, 2},
		{16129, 4},
		{999999999, 8},
		{1000000000, 9},
		{math.MaxUint32, 9},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, Log10(tc.p), "Log10(%d)", tc.p)
	}
}

func TestLogPower(t *testing.T) {
	assert.Equal(t, uint8(0), LogPower(fft.Sample{}))
	assert.Equal(t, uint8(2), LogPower(fft.Sample{Real: 6, Imag: 8}))
	assert.Equal(t, uint8(9), LogPower(fft.Sample{Real: math.MinInt16, Imag: math.MinInt16}))
}

func TestNew_InvalidKey(t *testing.T) {
	_, err := New(make(Key, 63), 0)
	assert.Error(t, err)

	m, err := New(DefaultKey, 0)
	require.NoError(t, err)
	assert.Equal(t, uint32(DefaultThreshold), m.Threshold())
}

func TestMatcher_SelfErrorIsZero(t *testing.T) {
	buf := make([]fft.Sample, testSize)
	for i := range buf {
		buf[i] = fft.Sample{Real: int16(i * 37), Imag: int16(-i * 11)}
	}

	m, err := New(Calibrate(buf), 0)
	require.NoError(t, err)

	assert.Zero(t, m.Error(buf))
	assert.True(t, m.IsMatch(buf))
}

func TestMatcher_ThresholdBoundary(t *testing.T) {
	const threshold = DefaultThreshold

	// An all-zero spectrum has a zero profile, so the error is the key sum.
	buf := make([]fft.Sample, testSize)

	var tests = []struct {
		errSum uint32
		match  bool
	}{
		{threshold - 1, true},
		{threshold, false},
		{threshold + 1, false},
	}

	for _, tc := range tests {
		key := make(Key, testSize)
		for i := uint32(0); i < tc.errSum; i++ {
			key[i%testSize]++
		}

		m, err := New(key, threshold)
		require.NoError(t, err)

		assert.Equal(t, tc.errSum, m.Error(buf))
		assert.Equal(t, tc.match, m.IsMatch(buf), "error %d", tc.errSum)
	}
}

func TestMatcher_ErrorIsAbsolute(t *testing.T) {
	buf := make([]fft.Sample, testSize)
	buf[0] = fft.Sample{Real: 100} // log power 4
	buf[1] = fft.Sample{Real: 1}   // log power 0

	key := make(Key, testSize)
	key[0] = 2
	key[1] = 3

	m, err := New(key, 0)
	require.NoError(t, err)

	assert.Equal(t, uint32(5), m.Error(buf))
}

func TestMatcher_ShortBufferCountsMissingBinsAsSilent(t *testing.T) {
	key := make(Key, testSize)
	for i := range key {
		key[i] = 2
	}
	key[testSize-1] = 7

	m, err := New(key, 0)
	require.NoError(t, err)

	// the first half matches, the rest is missing
	short := make([]fft.Sample, testSize/2)
	for i := range short {
		short[i] = fft.Sample{Real: 10} // log power 2
	}

	assert.NotPanics(t, func() {
		assert.Equal(t, uint32(2*(testSize/2-1)+7), m.Error(short))
		assert.Equal(t, uint32(2*(testSize-1)+7), m.Error(nil))
	})
	assert.False(t, m.IsMatch(short))

	profile := make([]uint8, testSize)
	Profile(short, profile)
	assert.Equal(t, uint8(2), profile[0])
	assert.Zero(t, profile[testSize-1])
}

func TestMatcher_ToneAgainstNoise(t *testing.T) {
	roots, err := fft.NewRoots(testSize)
	require.NoError(t, err)

	tone := make([]fft.Sample, testSize)
	for i := range tone {
		v := 100 * math.Sin(2*math.Pi*2*float64(i)/testSize)
		tone[i] = fft.FromInt8(int8(math.Round(v)))
	}

	calibration := append([]fft.Sample(nil), tone...)
	roots.Transform(calibration)

	m, err := New(Calibrate(calibration), 0)
	require.NoError(t, err)

	observed := append([]fft.Sample(nil), tone...)
	roots.Transform(observed)
	assert.True(t, m.IsMatch(observed))

	rng := rand.New(rand.NewSource(7))
	noise := make([]fft.Sample, testSize)
	for i := range noise {
		noise[i] = fft.FromInt8(int8(rng.Intn(201) - 100))
	}
	roots.Transform(noise)

	assert.False(t, m.IsMatch(noise))
	assert.Greater(t, m.Error(noise), m.Threshold())
}

func TestDefaultKeyLength(t *testing.T) {
	assert.Len(t, DefaultKey, testSize)
}
