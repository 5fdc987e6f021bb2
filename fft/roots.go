package fft

import (
	"math"
	"math/bits"

	"github.com/pkg/errors"
)

// Size limits for a transform.
const (
	MinSize = 4
	MaxSize = 1024
)

// Roots is a table of the nth roots of unity in Q1.14.
//
// The first half is stored in bit-reversed order, so the rotation factor for
// butterfly cluster g of any pass is at roots[g]. The second half holds the
// negation of the first, so the negative of roots[g] is at roots[g+n/2].
type Roots []Sample

// NewRoots builds the rotation table for a transform of size n.
func NewRoots(n int) (Roots, error) {
	if !ValidSize(n) {
		return nil, errors.Errorf("invalid transform size %d (power of two in [%d, %d] required)",
			n, MinSize, MaxSize)
	}

	var (
		roots = make(Roots, n)
		halfN = n / 2
		width = Log2(n) - 1
	)

	for g := 0; g < halfN; g++ {
		theta := -2.0 * math.Pi * float64(reverse(g, width)) / float64(n)

		w := Sample{
			Real: int16(math.Round(one * math.Cos(theta))),
			Imag: int16(math.Round(one * math.Sin(theta))),
		}

		roots[g] = w
		roots[g+halfN] = Sample{Real: -w.Real, Imag: -w.Imag}
	}

	return roots, nil
}

// Size returns the transform size this table was built for.
func (r Roots) Size() int {
	return len(r)
}

// ValidSize reports whether n is a supported transform size.
func ValidSize(n int) bool {
	return n >= MinSize && n <= MaxSize && n&(n-1) == 0
}

// Log2 returns the base two logarithm of a power of two.
func Log2(n int) int {
	return bits.TrailingZeros(uint(n))
}

// BinIndex returns the natural frequency bin held at position i of a
// transformed buffer of size n.
func BinIndex(i, n int) int {
	return reverse(i, Log2(n))
}

// reverse reverses the low width bits of v.
func reverse(v, width int) int {
	if width == 0 {
		return 0
	}
	return int(bits.Reverse(uint(v)) >> (bits.UintSize - width))
}
