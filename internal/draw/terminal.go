package draw

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"golang.org/x/term"
)

// ErrNoTerminal is returned by TermSize when the reported size is empty,
// e.g. for an SSH session that never sent a window size.
var ErrNoTerminal = errors.New("terminal has no size")

// ChunkWriter collects the text overlay of one frame (HUD, menus, glyphs)
// and writes it out in chunks on Flush, so a frame crosses an SSH channel
// in a few large writes. Positions are 1-based canvas cells; the canvas
// offset is added on output.
type ChunkWriter struct {
	buf    []byte
	out    *bufio.Writer
	offCol int
	offRow int
}

// Ensure ChunkWriter satisfies io.Writer and TextWriter.
var (
	_ io.Writer  = (*ChunkWriter)(nil)
	_ TextWriter = (*ChunkWriter)(nil)
)

// NewChunkWriter creates a ChunkWriter that writes to w.
func NewChunkWriter(w io.Writer, offsetCol, offsetRow int) *ChunkWriter {
	return &ChunkWriter{
		out:    bufio.NewWriterSize(w, 8192),
		offCol: offsetCol,
		offRow: offsetRow,
	}
}

// SetOffset updates the canvas offset after a resize.
func (cw *ChunkWriter) SetOffset(offsetCol, offsetRow int) {
	cw.offCol, cw.offRow = offsetCol, offsetRow
}

func (cw *ChunkWriter) moveTo(col, row int) {
	cw.buf = append(cw.buf, "\033["...)
	cw.buf = strconv.AppendInt(cw.buf, int64(row+cw.offRow), 10)
	cw.buf = append(cw.buf, ';')
	cw.buf = strconv.AppendInt(cw.buf, int64(col+cw.offCol), 10)
	cw.buf = append(cw.buf, 'H')
}

// Write appends raw bytes, such as a full-screen clear.
func (cw *ChunkWriter) Write(p []byte) (int, error) {
	cw.buf = append(cw.buf, p...)
	return len(p), nil
}

// WriteString appends raw text at the current cursor position.
func (cw *ChunkWriter) WriteString(s string) {
	cw.buf = append(cw.buf, s...)
}

// WriteAt writes s starting at the given cell.
func (cw *ChunkWriter) WriteAt(col, row int, s string) {
	cw.moveTo(col, row)
	cw.buf = append(cw.buf, s...)
}

// WriteColored writes s at the given cell in an ANSI colour and resets the
// colour afterwards.
func (cw *ChunkWriter) WriteColored(col, row int, color, s string) {
	cw.moveTo(col, row)
	cw.buf = append(cw.buf, color...)
	cw.buf = append(cw.buf, s...)
	cw.buf = append(cw.buf, ColorReset...)
}

// Flush sends everything collected since the last flush, in chunks of at
// most maxChunkSize bytes.
func (cw *ChunkWriter) Flush() error {
	err := writeChunked(cw.out, cw.buf)
	cw.buf = cw.buf[:0]
	if err != nil {
		return err
	}
	return cw.out.Flush()
}

// TermSizeFunc is a function that returns the terminal dimensions.
type TermSizeFunc func() (width, height int, err error)

// DefaultTermSizeFunc reads the size of the local terminal on stdout.
var DefaultTermSizeFunc TermSizeFunc = func() (int, int, error) {
	return term.GetSize(int(os.Stdout.Fd()))
}

// TermSize calls sizeFunc and rejects empty sizes.
func TermSize(sizeFunc TermSizeFunc) (width, height int, err error) {
	width, height, err = sizeFunc()
	if err != nil {
		return 0, 0, fmt.Errorf("reading terminal size: %w", err)
	}
	if width <= 0 || height <= 0 {
		return 0, 0, ErrNoTerminal
	}
	return width, height, nil
}
