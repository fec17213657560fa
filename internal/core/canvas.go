package core

import "strings"

// Cell is one character on a Canvas.
type Cell struct {
	Rune  rune
	Color Color
}

var blank = Cell{Rune: ' '}

// Canvas is a fixed-size grid of colored cells.
// Hosts draw into it and the platform turns it into terminal output.
type Canvas struct {
	width  int
	height int
	cells  []Cell // Row-major
}

// NewCanvas creates a blank canvas. Negative sizes are treated as zero.
func NewCanvas(width, height int) *Canvas {
	c := &Canvas{}
	c.Resize(width, height)
	return c
}

// Width returns the canvas width in characters.
func (c *Canvas) Width() int {
	return c.width
}

// Height returns the canvas height in characters.
func (c *Canvas) Height() int {
	return c.height
}

// Resize changes the dimensions and clears the canvas.
func (c *Canvas) Resize(width, height int) {
	c.width = max(width, 0)
	c.height = max(height, 0)
	c.cells = make([]Cell, c.width*c.height)
	c.Clear()
}

// Clear fills the canvas with blank cells.
func (c *Canvas) Clear() {
	for i := range c.cells {
		c.cells[i] = blank
	}
}

// Set places a rune at (x, y). Out-of-bounds writes are ignored.
func (c *Canvas) Set(x, y int, r rune, color Color) {
	if !c.inside(x, y) {
		return
	}
	c.cells[y*c.width+x] = Cell{Rune: r, Color: color}
}

// GetCell returns the cell at (x, y), blank when out of bounds.
func (c *Canvas) GetCell(x, y int) Cell {
	if !c.inside(x, y) {
		return blank
	}
	return c.cells[y*c.width+x]
}

func (c *Canvas) inside(x, y int) bool {
	return x >= 0 && x < c.width && y >= 0 && y < c.height
}

// DrawText writes text starting at (x, y), clipped to the canvas.
func (c *Canvas) DrawText(x, y int, text string, color Color) {
	i := 0
	for _, r := range text {
		c.Set(x+i, y, r, color)
		i++
	}
}

// DrawHLine draws length copies of r starting at (x, y).
func (c *Canvas) DrawHLine(x, y, length int, r rune, color Color) {
	for i := range max(length, 0) {
		c.Set(x+i, y, r, color)
	}
}

// Row returns row y without colors.
func (c *Canvas) Row(y int) string {
	if y < 0 || y >= c.height {
		return strings.Repeat(" ", c.width)
	}
	var sb strings.Builder
	for _, cell := range c.cells[y*c.width : (y+1)*c.width] {
		sb.WriteRune(cell.Rune)
	}
	return sb.String()
}

// String returns the canvas without colors, rows joined by newlines.
func (c *Canvas) String() string {
	rows := make([]string, c.height)
	for y := range c.height {
		rows[y] = c.Row(y)
	}
	return strings.Join(rows, "\n")
}
