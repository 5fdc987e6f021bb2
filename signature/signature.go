// Package signature compares transformed audio against a reference spectrum.
//
// Both the observed spectrum and the key are reduced to an integer log10 of
// the power in each bin. Bins are compared position by position, in the
// order the transform leaves them.
package signature

import (
	"github.com/noriah/bowlgate/fft"
	"github.com/pkg/errors"
)

// DefaultThreshold is the accumulated error below which a spectrum matches.
const DefaultThreshold = 10

// Key is a reference log-power profile, one entry per bin.
type Key []uint8

// DefaultKey is the spectrum of the bark that opens the bowl, obtained
// empirically.
var DefaultKey = Key{
	2, 3, 3, 4, 4, 3, 4, 3, 4, 2, 4, 3, 4, 4, 4, 3, 4, 3, 4, 4, 4, 4, 3, 4, 4,
	3, 3, 3, 4, 4, 3, 4, 4, 2, 4, 4, 4, 4, 4, 3, 3, 3, 3, 4, 3, 4, 4, 4, 3, 4,
	3, 3, 4, 2, 3, 3, 4, 4, 3, 3, 3, 4, 4, 4,
}

// powers of ten that fit in a uint32
var decades = [...]uint32{
	10, 100, 1000, 10000, 100000, 1000000, 10000000, 100000000, 1000000000,
}

// Log10 returns floor(log10(p)). Zero has no logarithm; it maps to 0, the
// same as any power below 10.
func Log10(p uint32) uint8 {
	var n uint8
	for _, d := range decades {
		if p < d {
			break
		}
		n++
	}
	return n
}

// LogPower returns the integer log10 of the power of s.
func LogPower(s fft.Sample) uint8 {
	return Log10(s.Power())
}

// Matcher decides whether a transformed buffer matches a key.
type Matcher struct {
	key       Key
	threshold uint32
}

// New returns a matcher for key. A zero threshold selects DefaultThreshold.
func New(key Key, threshold uint32) (*Matcher, error) {
	if !fft.ValidSize(len(key)) {
		return nil, errors.Errorf("invalid key length %d", len(key))
	}

	if threshold == 0 {
		threshold = DefaultThreshold
	}

	return &Matcher{
		key:       key,
		threshold: threshold,
	}, nil
}

// Key returns the reference key.
func (m *Matcher) Key() Key {
	return m.key
}

// Threshold returns the match threshold.
func (m *Matcher) Threshold() uint32 {
	return m.threshold
}

// Error returns the sum of absolute differences between the log power of
// each bin of buf and the key. Bins past the end of buf count as silent
// (log power 0); bins past the end of the key are ignored.
func (m *Matcher) Error(buf []fft.Sample) uint32 {
	var err uint32

	for i, k := range m.key {
		var v uint8
		if i < len(buf) {
			v = LogPower(buf[i])
		}

		if v > k {
			err += uint32(v - k)
		} else {
			err += uint32(k - v)
		}
	}

	return err
}

// IsMatch reports whether the error of buf is strictly below the threshold.
func (m *Matcher) IsMatch(buf []fft.Sample) bool {
	return m.Error(buf) < m.threshold
}

// Profile writes the log power of each bin of buf to dst. Entries of dst
// past the end of buf are set to 0.
func Profile(buf []fft.Sample, dst []uint8) {
	for i := range dst {
		var v uint8
		if i < len(buf) {
			v = LogPower(buf[i])
		}
		dst[i] = v
	}
}

// Calibrate returns a key that matches buf exactly.
func Calibrate(buf []fft.Sample) Key {
	key := make(Key, len(buf))
	Profile(buf, key)
	return key
}
