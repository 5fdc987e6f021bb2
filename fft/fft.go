// Package fft provides the fixed-point spectral transform used to fingerprint
// acquired audio.
//
// Samples are complex values with 16-bit lanes. Freshly acquired samples only
// ever carry an 8-bit signed value in the real lane; the extra width exists
// so the unnormalized transform output fits in place.
package fft

import "math"

// Sample is one fixed-point complex value.
type Sample struct {
	Real int16
	Imag int16
}

// Rotation factors are stored in Q1.14.
const (
	fracBits = 14
	one      = 1 << fracBits
	half     = one >> 1
)

// FromInt8 returns the sample for a raw 8-bit reading. The imaginary part is
// always zero.
func FromInt8(v int8) Sample {
	return Sample{Real: int16(v)}
}

// Power returns real² + imag². The result always fits in a uint32.
func (s Sample) Power() uint32 {
	r, i := int32(s.Real), int32(s.Imag)
	return uint32(r*r) + uint32(i*i)
}

// Add returns the component-wise sum of a and b, saturated to 16 bits.
func Add(a, b Sample) Sample {
	return Sample{
		Real: sat(int32(a.Real) + int32(b.Real)),
		Imag: sat(int32(a.Imag) + int32(b.Imag)),
	}
}

// Mul returns the product of the sample b and the rotation factor w.
//
// (a + jb)(c + jd) = (ac - bd) + j(ad + bc)
//
// Only the partial products are promoted to 32 bits. Each component is
// rounded half up when it is shifted back out of Q1.14, then saturated.
func Mul(b, w Sample) Sample {
	br, bi := int32(b.Real), int32(b.Imag)
	wr, wi := int32(w.Real), int32(w.Imag)

	return Sample{
		Real: sat((br*wr - bi*wi + half) >> fracBits),
		Imag: sat((br*wi + bi*wr + half) >> fracBits),
	}
}

func sat(v int32) int16 {
	switch {
	case v > math.MaxInt16:
		return math.MaxInt16
	case v < math.MinInt16:
		return math.MinInt16
	}
	return int16(v)
}
