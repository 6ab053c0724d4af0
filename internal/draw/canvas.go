package draw

import (
	"io"
	"math"
	"slices"
	"strconv"
	"strings"
)

// maxChunkSize is the maximum bytes to write at once. Frames are split so
// each write fits in one typical network packet.
const maxChunkSize = 1400

// Each terminal cell holds two vertical pixels.
const (
	halfTop    uint8 = 1 << iota // Upper half of the cell is set
	halfBottom                   // Lower half of the cell is set
)

var halfGlyphs = [4]rune{
	0:                    BlockEmpty,
	halfTop:              BlockUpperHalf,
	halfBottom:           BlockLowerHalf,
	halfTop | halfBottom: BlockFull,
}

// Canvas is a drawing buffer with 2x vertical resolution using half-block
// characters. Shapes are given in logical coordinates and scaled to the
// terminal. Render only emits cells whose glyph changed since the previous
// frame.
type Canvas struct {
	cols, rows int
	cells      []uint8 // Half-block mask per cell, row-major
	shown      []rune  // Glyph on screen per cell, 0 when unknown

	logicalW, logicalH float64
	scaleX, scaleY     float64 // Pixels per logical unit

	// 0-based terminal offset of the canvas when the terminal is larger
	// than the render area.
	offsetCol int
	offsetRow int

	// Cells covered by text this frame, and cells to repaint next frame
	// because text covered them.
	textCells  map[int]struct{}
	staleCells []int

	out   []byte    // Render output, reused between frames
	edges []Point   // Scaled polygon, reused by fillPolygon
	xs    []float64 // Scanline crossings, reused by fillPolygon
}

// NewScaledCanvas creates a termWidth x termHeight canvas whose logical
// coordinate space is logicalWidth x logicalHeight.
func NewScaledCanvas(termWidth, termHeight int, logicalWidth, logicalHeight float64) *Canvas {
	c := &Canvas{
		logicalW:  logicalWidth,
		logicalH:  logicalHeight,
		textCells: make(map[int]struct{}),
	}
	c.allocate(termWidth, termHeight)
	return c
}

func (c *Canvas) allocate(cols, rows int) {
	c.cols, c.rows = max(cols, 0), max(rows, 0)
	c.cells = make([]uint8, c.cols*c.rows)
	c.shown = make([]rune, c.cols*c.rows)
	c.scaleX = float64(c.cols) / c.logicalW
	c.scaleY = float64(2*c.rows) / c.logicalH
}

// Resize changes the terminal size, keeping the logical size. Everything
// is repainted after a size change.
func (c *Canvas) Resize(termWidth, termHeight int) {
	if termWidth == c.cols && termHeight == c.rows {
		return
	}
	c.allocate(termWidth, termHeight)
	c.staleCells = c.staleCells[:0]
	clear(c.textCells)
}

// SetOffset places the canvas at terminal cell (col+1, row+1).
func (c *Canvas) SetOffset(col, row int) {
	c.offsetCol, c.offsetRow = col, row
}

func (c *Canvas) OffsetCol() int { return c.offsetCol }
func (c *Canvas) OffsetRow() int { return c.offsetRow }

// TerminalWidth returns the canvas width in terminal columns.
func (c *Canvas) TerminalWidth() int { return c.cols }

// TerminalHeight returns the canvas height in terminal rows.
func (c *Canvas) TerminalHeight() int { return c.rows }

// Clear unsets every pixel. What is on screen is untouched until Render.
func (c *Canvas) Clear() {
	clear(c.cells)
}

// ForceRedraw forgets what is on screen so the next Render repaints every cell.
func (c *Canvas) ForceRedraw() {
	clear(c.shown)
}

// MarkTextDirty records that text was written over width cells starting at
// the 1-based canvas position (col, row). Render leaves those cells alone
// this frame and repaints them on the next one.
func (c *Canvas) MarkTextDirty(col, row, width int) {
	r := row - 1
	if r < 0 || r >= c.rows {
		return
	}
	first := max(col-1, 0)
	last := min(col-1+width, c.cols)
	for x := first; x < last; x++ {
		c.textCells[r*c.cols+x] = struct{}{}
	}
}

// toPixel scales a logical point to pixel coordinates.
func (c *Canvas) toPixel(x, y float64) (int, int) {
	return int(math.Round(x * c.scaleX)), int(math.Round(y * c.scaleY))
}

// set turns on the pixel at pixel coordinates; out of range is ignored.
func (c *Canvas) set(px, py int) {
	if px < 0 || px >= c.cols || py < 0 || py >= 2*c.rows {
		return
	}
	bit := halfTop
	if py%2 == 1 {
		bit = halfBottom
	}
	c.cells[(py/2)*c.cols+px] |= bit
}

// isSet reports whether the pixel at pixel coordinates is on.
func (c *Canvas) isSet(px, py int) bool {
	if px < 0 || px >= c.cols || py < 0 || py >= 2*c.rows {
		return false
	}
	bit := halfTop
	if py%2 == 1 {
		bit = halfBottom
	}
	return c.cells[(py/2)*c.cols+px]&bit != 0
}

// SetFloat sets the pixel under a logical point.
func (c *Canvas) SetFloat(x, y float64) {
	c.set(c.toPixel(x, y))
}

// DrawLine draws a line between two logical points (Bresenham).
func (c *Canvas) DrawLine(p1, p2 Point) {
	x, y := c.toPixel(p1.X, p1.Y)
	x2, y2 := c.toPixel(p2.X, p2.Y)

	dx, dy := abs(x2-x), -abs(y2-y)
	sx, sy := 1, 1
	if x > x2 {
		sx = -1
	}
	if y > y2 {
		sy = -1
	}

	err := dx + dy
	for {
		c.set(x, y)
		if x == x2 && y == y2 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
	}
}

// DrawPolygon draws the outline of a polygon, and its interior if filled.
func (c *Canvas) DrawPolygon(points []Point, filled bool) {
	if len(points) < 3 {
		return
	}
	if filled {
		c.fillPolygon(points)
	}
	prev := points[len(points)-1]
	for _, p := range points {
		c.DrawLine(prev, p)
		prev = p
	}
}

// fillPolygon fills the interior with an even-odd scanline pass in pixel
// space.
func (c *Canvas) fillPolygon(points []Point) {
	c.edges = c.edges[:0]
	top, bottom := math.Inf(1), math.Inf(-1)
	for _, p := range points {
		sp := Point{X: p.X * c.scaleX, Y: p.Y * c.scaleY}
		c.edges = append(c.edges, sp)
		top, bottom = min(top, sp.Y), max(bottom, sp.Y)
	}

	for y := int(math.Floor(top)); y <= int(math.Ceil(bottom)); y++ {
		scanY := float64(y) + 0.5

		c.xs = c.xs[:0]
		prev := c.edges[len(c.edges)-1]
		for _, p := range c.edges {
			if (prev.Y <= scanY) != (p.Y <= scanY) {
				t := (scanY - prev.Y) / (p.Y - prev.Y)
				c.xs = append(c.xs, prev.X+t*(p.X-prev.X))
			}
			prev = p
		}
		slices.Sort(c.xs)

		for i := 0; i+1 < len(c.xs); i += 2 {
			for x := int(math.Ceil(c.xs[i])); x <= int(math.Floor(c.xs[i+1])); x++ {
				c.set(x, y)
			}
		}
	}
}

// Render writes the cells that changed since the last Render, skipping
// cells covered by text this frame.
func (c *Canvas) Render(w io.Writer) {
	// Text from the previous frame is gone; repaint what it covered
	for _, idx := range c.staleCells {
		if idx < len(c.shown) {
			c.shown[idx] = 0
		}
	}
	c.staleCells = c.staleCells[:0]

	c.out = c.out[:0]
	for idx, mask := range c.cells {
		if _, covered := c.textCells[idx]; covered {
			c.staleCells = append(c.staleCells, idx)
			continue
		}
		glyph := halfGlyphs[mask]
		if c.shown[idx] == glyph {
			continue
		}
		c.shown[idx] = glyph
		c.out = appendCursor(c.out, idx/c.cols+1+c.offsetRow, idx%c.cols+1+c.offsetCol)
		c.out = append(c.out, string(glyph)...)
	}
	clear(c.textCells)

	writeChunked(w, c.out)
}

// RenderBorder frames the canvas when the terminal is larger than the
// render area. Sides without room for a bar are skipped.
func (c *Canvas) RenderBorder(w io.Writer) {
	sides := c.offsetCol >= 1
	ends := c.offsetRow >= 1
	if !sides && !ends {
		return
	}

	left, right := c.offsetCol, c.offsetCol+c.cols+1
	top, bottom := c.offsetRow, c.offsetRow+c.rows+1
	bar := strings.Repeat("─", c.cols)

	var buf []byte
	switch {
	case ends && sides:
		buf = append(appendCursor(buf, top, left), "┌"+bar+"┐"...)
		buf = append(appendCursor(buf, bottom, left), "└"+bar+"┘"...)
	case ends:
		buf = append(appendCursor(buf, top, left+1), bar...)
		buf = append(appendCursor(buf, bottom, left+1), bar...)
	}
	if sides {
		for row := top + 1; row < bottom; row++ {
			buf = append(appendCursor(buf, row, left), "│"...)
			buf = append(appendCursor(buf, row, right), "│"...)
		}
	}

	writeChunked(w, buf)
}

// LogicalToTerminal returns the 1-based canvas cell (col, row) under a
// logical point, for placing text next to drawn shapes.
func (c *Canvas) LogicalToTerminal(x, y float64) (col, row int) {
	px, py := c.toPixel(x, y)
	return px + 1, py/2 + 1
}

// appendCursor appends an ANSI cursor move to the 1-based terminal cell.
func appendCursor(b []byte, row, col int) []byte {
	b = append(b, "\033["...)
	b = strconv.AppendInt(b, int64(row), 10)
	b = append(b, ';')
	b = strconv.AppendInt(b, int64(col), 10)
	return append(b, 'H')
}

// writeChunked writes data in pieces of at most maxChunkSize bytes.
func writeChunked(w io.Writer, data []byte) error {
	for len(data) > 0 {
		n := min(len(data), maxChunkSize)
		if _, err := w.Write(data[:n]); err != nil {
			return err
		}
		data = data[n:]
	}
	return nil
}
