package fft

import "fmt"

// Plan binds a sample buffer to the rotation table for its size.
type Plan struct {
	buf   []Sample
	roots Roots
}

// InitPlan sets pointer to a new plan over buf.
func InitPlan(pointer **Plan, buf []Sample, roots Roots) {
	(*pointer) = &Plan{
		buf:   buf,
		roots: roots,
	}
}

// NewPlan builds a rotation table for len(buf) and returns a plan over buf.
func NewPlan(buf []Sample) (*Plan, error) {
	roots, err := NewRoots(len(buf))
	if err != nil {
		return nil, err
	}

	var p *Plan
	InitPlan(&p, buf, roots)
	return p, nil
}

// Execute transforms the plan buffer in place.
func (p *Plan) Execute() {
	p.roots.Transform(p.buf)
}

// Buffer returns the buffer the plan works on.
func (p *Plan) Buffer() []Sample {
	return p.buf
}

// Transform computes the unnormalized discrete Fourier transform of buf in
// place. len(buf) must equal the table size.
//
// We do log2(N) passes over the data. Each pass walks clusters of
// butterflies; the two points of a butterfly are stride apart and clusters
// are 2*stride apart. Stride starts at N/2 and halves every pass.
//
// No reordering is done. Input is in natural order, and position i of the
// output holds frequency bin BinIndex(i, N).
func (r Roots) Transform(buf []Sample) {
	var n = len(r)

	if len(buf) != n {
		panic(fmt.Sprintf("fft: buffer size %d does not match table size %d", len(buf), n))
	}

	var halfN = n / 2

	for stride := halfN; stride > 0; stride /= 2 {
		for j, g := 0, 0; j < n; j, g = j+2*stride, g+1 {
			// One rotation factor per cluster; its negation is 180 degrees
			// around the unit circle.
			w := r[g]
			negW := r[g+halfN]

			for k := j; k < j+stride; k++ {
				a := buf[k]
				b := buf[k+stride]

				buf[k] = Add(a, Mul(b, w))
				buf[k+stride] = Add(a, Mul(b, negW))
			}
		}
	}
}
