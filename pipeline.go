package bowlgate

import (
	"github.com/noriah/bowlgate/fft"
	"github.com/noriah/bowlgate/signature"
)

// Pipeline is the analysis half of the appliance: the rotation table and
// the matcher for one key.
type Pipeline struct {
	roots   fft.Roots
	matcher *signature.Matcher
}

// NewPipeline builds the rotation table for the key's size.
func NewPipeline(key signature.Key, threshold uint32) (*Pipeline, error) {
	m, err := signature.New(key, threshold)
	if err != nil {
		return nil, err
	}

	roots, err := fft.NewRoots(len(key))
	if err != nil {
		return nil, err
	}

	return &Pipeline{roots: roots, matcher: m}, nil
}

// Size returns the transform size.
func (p *Pipeline) Size() int {
	return p.roots.Size()
}

// Key returns the reference signature.
func (p *Pipeline) Key() signature.Key {
	return p.matcher.Key()
}

// Plan binds a transform plan to buf, which must hold Size samples. The
// plan shares the pipeline's rotation table.
func (p *Pipeline) Plan(buf []fft.Sample) *fft.Plan {
	var plan *fft.Plan
	fft.InitPlan(&plan, buf, p.roots)
	return plan
}

// IsMatch compares a transformed buffer against the key.
func (p *Pipeline) IsMatch(buf []fft.Sample) bool {
	return p.matcher.IsMatch(buf)
}

// Error returns the distance of a transformed buffer from the key.
func (p *Pipeline) Error(buf []fft.Sample) uint32 {
	return p.matcher.Error(buf)
}

// Profile writes the log power profile of a transformed buffer to dst.
func (p *Pipeline) Profile(buf []fft.Sample, dst []uint8) {
	signature.Profile(buf, dst)
}
