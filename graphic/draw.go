package graphic

import (
	"fmt"

	"github.com/nsf/termbox-go"
)

func drawUp(bins, key []uint8, cfg Config) {
	var cWidth, cHeight = termbox.Size()

	var vHeight = cHeight - cfg.BaseThick
	if vHeight < 0 {
		vHeight = 0
	}

	var count = len(bins)

	var cPaddedWidth = (cfg.BinWidth * count) - cfg.SpaceWidth
	if cPaddedWidth > cWidth || cPaddedWidth < 0 {
		cPaddedWidth = cWidth
	}

	var xCol = (cWidth - cPaddedWidth) / 2

	for xBin := 0; xBin < count && xCol < cWidth; xBin++ {
		var stop, top = stopAndTop(float64(bins[xBin]), vHeight)
		var keyRow, _ = stopAndTop(float64(key[xBin]), vHeight)

		for lCol := xCol + cfg.BarWidth; xCol < lCol && xCol < cWidth; xCol++ {
			var xRow = vHeight - 1

			for xRow >= stop {
				termbox.SetCell(xCol, xRow, BarRune, StyleDefault, StyleDefaultBack)
				xRow--
			}

			if top > BarRuneR && xRow >= 0 {
				termbox.SetCell(xCol, xRow, top, StyleDefault, StyleDefaultBack)
			}

			if keyRow > 0 && keyRow <= vHeight {
				termbox.SetCell(xCol, keyRow-1, KeyRune, StyleCenter, StyleDefaultBack)
			}
		}

		xCol += cfg.SpaceWidth
	}
}

// stopAndTop maps a log10 value to the first full row of its bar and the
// sub step rune drawn above it.
func stopAndTop(value float64, height int) (int, rune) {
	if height <= 0 {
		return 0, BarRuneR
	}

	var steps = int(value * float64(height*NumRunes) / Decades)
	if limit := height * NumRunes; steps > limit {
		steps = limit
	}

	var stop = height - steps/NumRunes
	return stop, barRunes[steps%NumRunes]
}

func statusSuffix(analyses, matches int) string {
	return fmt.Sprintf("  %d analyzed, %d matched  (q quits, arrows resize)", analyses, matches)
}
