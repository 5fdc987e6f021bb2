// Package input provides the sample sources that stand in for the sampling
// hardware when the appliance runs hosted.
package input

import (
	"context"
	"fmt"
)

// Sample is the datatype sessions write to their buffers. Values are
// normalized to [-1, 1].
type Sample = float64

// Device is a capture device of a backend.
type Device interface {
	fmt.Stringer
}

// SessionConfig configures a capture session.
type SessionConfig struct {
	Device     Device
	FrameSize  int     // number of channels per frame
	SampleSize int     // number of frames per buffer write
	SampleRate float64 // sample rate
}

// Session is a running capture.
type Session interface {
	// Start reads SampleSize frames at a time and sends each read on out as
	// a freshly allocated block (one buffer per channel). The receiver owns
	// every block it gets; the session never touches a block after sending
	// it. Start blocks until ctx is done, the source ends or an error
	// occurs. The end of the source is not an error.
	Start(ctx context.Context, out chan<- [][]Sample) error
}

// MakeBuffers allocates channels buffers of samples length each.
func MakeBuffers(channels, samples int) [][]Sample {
	buf := make([]Sample, channels*samples)
	out := make([][]Sample, channels)
	for i := range out {
		out[i] = buf[i*samples : (i+1)*samples]
	}
	return out
}
