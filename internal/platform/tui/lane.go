package tui

import (
	"unicode"

	"github.com/vovakirdan/wavekit/internal/core"
	"github.com/vovakirdan/wavekit/internal/sim"
)

const (
	laneRune     = '·'
	defenderRune = '▐'
)

// DrawLane draws the lane on row y of c: units walk from the left edge
// towards the defender in the last column. Cells holding more than one
// unit show the count instead of a glyph.
func DrawLane(c *core.Canvas, y int, units []sim.Unit, laneLength float64) {
	width := c.Width()
	if width < 2 || laneLength <= 0 {
		return
	}

	track := width - 1
	c.DrawHLine(0, y, track, laneRune, core.ColorLane)
	c.Set(track, y, defenderRune, core.ColorDefender)

	counts := make([]int, track)
	for _, u := range units {
		col := laneColumn(u.Position, laneLength, track)
		counts[col]++

		switch n := counts[col]; {
		case n == 1:
			c.Set(col, y, unitRune(u.Kind), core.HealthColor(u.Health.Percent()))
		case n <= 9:
			c.Set(col, y, rune('0'+n), core.ColorAccent)
		default:
			c.Set(col, y, '*', core.ColorAccent)
		}
	}
}

// laneColumn maps a lane position to a column in [0, track).
func laneColumn(pos, laneLength float64, track int) int {
	col := int(pos / laneLength * float64(track))
	return max(0, min(col, track-1))
}

// unitRune returns the glyph for a unit kind: its first letter.
func unitRune(kind string) rune {
	for _, r := range kind {
		return unicode.ToLower(r)
	}
	return '?'
}
