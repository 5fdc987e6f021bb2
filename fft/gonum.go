package fft

import (
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
)

// Reference holds a gonum FFT plan used to check the fixed-point transform.
type Reference struct {
	Input  []float64
	Output []complex128
	fft    *fourier.FFT
}

// NewReference returns a reference plan for n real samples.
func NewReference(n int) *Reference {
	return &Reference{
		Input:  make([]float64, n),
		Output: make([]complex128, n/2+1),
	}
}

// Load copies the real parts of buf into the reference input.
func (p *Reference) Load(buf []Sample) {
	for i := range p.Input {
		p.Input[i] = float64(buf[i].Real)
	}
}

// Execute executes the gonum plan.
func (p *Reference) Execute() {
	if p.fft == nil {
		p.fft = fourier.NewFFT(len(p.Input))
	}
	p.fft.Coefficients(p.Output, p.Input)
}

// Magnitude returns |X[bin]| for any bin in [0, n). Bins above n/2 mirror
// the lower half since the input is real.
func (p *Reference) Magnitude(bin int) float64 {
	n := len(p.Input)
	if bin > n/2 {
		bin = n - bin
	}
	return cmplx.Abs(p.Output[bin])
}
