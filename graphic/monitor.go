// Package graphic draws the analyzed spectrum next to the reference
// signature on a termbox screen.
package graphic

import (
	"context"
	"sync"

	"github.com/nsf/termbox-go"
	"github.com/pkg/errors"

	"github.com/noriah/bowlgate/fft"
	"github.com/noriah/bowlgate/signature"
)

const (
	// BarRune is the block we use for bars
	BarRune rune = '█'

	// BarRuneR is the empty sub step
	BarRuneR rune = ' '

	// KeyRune marks the key level of a bin
	KeyRune rune = '▔'

	// NumRunes number of runes for sub step bars
	NumRunes = 8

	// Decades is the height of the scale in log10 steps
	Decades = 10
)

// Styles
const (
	StyleDefault     = termbox.ColorDefault
	StyleDefaultBack = termbox.ColorDefault
	StyleCenter      = termbox.ColorMagenta
	StyleMatch       = termbox.ColorGreen | termbox.AttrBold
	StyleMiss        = termbox.ColorRed
)

var barRunes = [NumRunes]rune{
	BarRuneR,
	'▁',
	'▂',
	'▃',
	'▄',
	'▅',
	'▆',
	'▇',
}

// Config is the bar layout.
type Config struct {
	BarWidth   int // bar width in columns
	SpaceWidth int // space between bars in columns
	BinWidth   int // BarWidth + SpaceWidth
	BaseThick  int // rows kept for the status line
}

// Monitor is a control.Observer that draws every analyzed buffer.
type Monitor struct {
	mu sync.Mutex

	cfg     Config
	key     []uint8
	profile []uint8
	scratch []uint8

	analyses int
	matches  int
	matched  bool

	restore func()
}

// NewMonitor returns a monitor for key. Init must be called before the
// first draw.
func NewMonitor(key signature.Key) *Monitor {
	n := len(key)

	m := &Monitor{
		key:     make([]uint8, n),
		profile: make([]uint8, n),
		scratch: make([]uint8, n),
		cfg:     Config{BaseThick: 1},
	}

	Natural(key, m.key)
	m.SetWidths(2, 1)

	return m
}

// Init sets up the terminal.
func (m *Monitor) Init() error {
	restore, err := normalizeTerminal()
	if err != nil {
		return err
	}

	if err := termbox.Init(); err != nil {
		restore()
		return errors.Wrap(err, "failed to init termbox")
	}

	termbox.HideCursor()
	m.restore = restore

	return nil
}

// Close cleans up the terminal.
func (m *Monitor) Close() error {
	termbox.Close()

	if m.restore != nil {
		m.restore()
	}

	return nil
}

// Start runs the event poller. The returned context is cancelled when the
// user quits.
func (m *Monitor) Start(ctx context.Context) context.Context {
	ctx, cancel := context.WithCancel(ctx)
	go m.eventPoller(ctx, cancel)
	return ctx
}

func (m *Monitor) eventPoller(ctx context.Context, fn context.CancelFunc) {
	defer fn()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		ev := termbox.PollEvent()

		switch ev.Type {
		case termbox.EventKey:
			switch ev.Key {
			case termbox.KeyCtrlC, termbox.KeyEsc:
				return

			case termbox.KeyArrowUp:
				m.SetWidths(m.cfg.BarWidth+1, m.cfg.SpaceWidth)

			case termbox.KeyArrowDown:
				m.SetWidths(m.cfg.BarWidth-1, m.cfg.SpaceWidth)

			case termbox.KeyArrowRight:
				m.SetWidths(m.cfg.BarWidth, m.cfg.SpaceWidth+1)

			case termbox.KeyArrowLeft:
				m.SetWidths(m.cfg.BarWidth, m.cfg.SpaceWidth-1)

			default:
				if ev.Ch == 'q' || ev.Ch == 'Q' {
					return
				}
			}

			m.Draw()

		case termbox.EventResize:
			m.Draw()

		case termbox.EventError, termbox.EventInterrupt:
			return
		}
	}
}

// SetWidths takes a bar width and spacing width.
func (m *Monitor) SetWidths(bar, space int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if bar < 1 {
		bar = 1
	}

	if space < 0 {
		space = 0
	}

	m.cfg.BarWidth = bar
	m.cfg.SpaceWidth = space
	m.cfg.BinWidth = bar + space
}

// Observe records the profile of an analyzed buffer and redraws.
func (m *Monitor) Observe(buf []fft.Sample, matched bool) {
	m.mu.Lock()

	signature.Profile(buf, m.scratch)
	Natural(m.scratch, m.profile)

	m.analyses++
	if matched {
		m.matches++
	}
	m.matched = matched

	m.mu.Unlock()

	m.Draw()
}

// Stats returns the number of analyzed buffers and matches.
func (m *Monitor) Stats() (analyses, matches int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.analyses, m.matches
}

// Draw redraws the screen.
func (m *Monitor) Draw() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	termbox.Clear(StyleDefault, StyleDefaultBack)

	// Real input mirrors above n/2.
	count := len(m.profile)/2 + 1
	drawUp(m.profile[:count], m.key[:count], m.cfg)
	m.drawStatus()

	return termbox.Flush()
}

func (m *Monitor) drawStatus() {
	_, height := termbox.Size()

	style, text := StyleMiss, "miss"
	if m.matched {
		style, text = StyleMatch, "match"
	}

	if m.analyses == 0 {
		style, text = StyleDefault, "waiting"
	}

	line := []rune(text)
	line = append(line, []rune(statusSuffix(m.analyses, m.matches))...)

	for x, r := range line {
		termbox.SetCell(x, height-1, r, style, StyleDefaultBack)
	}
}

// Natural reorders a per-position profile of a transformed buffer into
// ascending bin order.
func Natural(src, dst []uint8) {
	n := len(src)
	for bin := range dst[:n] {
		dst[bin] = src[fft.BinIndex(bin, n)]
	}
}
