package graphic

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noriah/bowlgate/fft"
	"github.com/noriah/bowlgate/signature"
)

func TestNatural(t *testing.T) {
	// position i of a transformed buffer holds bin reverse(i)
	src := []uint8{0, 4, 2, 6, 1, 5, 3, 7}
	dst := make([]uint8, len(src))

	Natural(src, dst)
	assert.Equal(t, []uint8{0, 1, 2, 3, 4, 5, 6, 7}, dst)
}

func TestStopAndTop(t *testing.T) {
	stop, top := stopAndTop(0, 20)
	assert.Equal(t, 20, stop)
	assert.Equal(t, BarRuneR, top)

	stop, top = stopAndTop(Decades, 20)
	assert.Equal(t, 0, stop)
	assert.Equal(t, BarRuneR, top)

	stop, _ = stopAndTop(5, 20)
	assert.Equal(t, 10, stop)

	stop, top = stopAndTop(300, 20)
	assert.Equal(t, 0, stop)
	assert.Equal(t, BarRuneR, top)

	stop, _ = stopAndTop(3, 0)
	assert.Equal(t, 0, stop)
}

func TestStopAndTop_SubSteps(t *testing.T) {
	// one log step is 8 sub steps on a 10 row screen
	stop, top := stopAndTop(1, 10)
	assert.Equal(t, 9, stop)
	assert.Equal(t, BarRuneR, top)

	// 1.5 decades on 10 rows is 12 steps: one full row and half a cell
	stop, top = stopAndTop(1.5, 10)
	assert.Equal(t, 9, stop)
	assert.Equal(t, '▄', top)
}

func TestMonitor_SetWidths(t *testing.T) {
	m := NewMonitor(signature.DefaultKey)

	m.SetWidths(0, -3)
	assert.Equal(t, Config{BarWidth: 1, SpaceWidth: 0, BinWidth: 1, BaseThick: 1}, m.cfg)

	m.SetWidths(3, 2)
	assert.Equal(t, 5, m.cfg.BinWidth)
}

func TestNewMonitor_KeyInBinOrder(t *testing.T) {
	key := signature.Key{10, 20, 30, 40}
	m := NewMonitor(key)

	for bin := range key {
		assert.Equal(t, key[fft.BinIndex(bin, 4)], m.key[bin])
	}

	analyses, matches := m.Stats()
	assert.Zero(t, analyses)
	assert.Zero(t, matches)
}
