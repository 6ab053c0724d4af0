// Package input turns raw terminal bytes into game input: held movement
// keys, discrete shoot/restart presses and xterm SGR mouse reports.
package input

import (
	"bufio"
	"time"
)

// keyHoldDuration is how long a key is considered "held" after its last press.
const keyHoldDuration = 30 * time.Millisecond

// Input represents the current frame's input state.
type Input struct {
	Quit    bool
	Left    bool
	Right   bool
	Enter   bool
	Restart bool
	Shots   int // Shoot presses (space or left click) since the last read
	// MouseCol is the 1-based terminal column of the latest pointer report,
	// or -1 if the pointer did not move this frame.
	MouseCol int
	Pressed  []byte
}

// keyState tracks the last time each held key was pressed.
type keyState struct {
	left  time.Time
	right time.Time
}

// Stream delivers input bytes via a channel and tracks key state for combinations.
type Stream struct {
	ch    chan byte
	state keyState
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
func StartStream(r *bufio.Reader) *Stream {
	s := &Stream{
		ch: make(chan byte, 128),
	}
	go func() {
		for {
			b, err := r.ReadByte()
			if err != nil {
				close(s.ch)
				return
			}
			s.ch <- b
		}
	}()
	return s
}

// ReadInput drains all available bytes from the stream (non-blocking).
// Handles escape sequences for arrow keys and mouse reports.
func ReadInput(s *Stream) Input {
	var buf []byte

drain:
	for {
		select {
		case b, ok := <-s.ch:
			if !ok {
				break drain
			}
			buf = append(buf, b)
		default:
			break drain
		}
	}

	return s.parse(buf, time.Now())
}

// ResetKeyInput forgets held keys, so a key used to leave a screen does not
// leak into the next one.
func ResetKeyInput(s *Stream) {
	s.state = keyState{}
}

// parse applies the bytes read this frame and builds the frame's Input.
func (s *Stream) parse(buf []byte, now time.Time) Input {
	in := Input{MouseCol: -1, Pressed: buf}

	for i := 0; i < len(buf); i++ {
		b := buf[i]

		if b == '\x1b' && i+2 < len(buf) && buf[i+1] == '[' {
			switch buf[i+2] {
			case 'C': // Right arrow
				s.state.right = now
				i += 2
				continue
			case 'D': // Left arrow
				s.state.left = now
				i += 2
				continue
			case 'A', 'B': // Up/down arrows are unused
				i += 2
				continue
			case '<':
				if n, ok := parseSGRMouse(buf[i+3:], &in); ok {
					i += 2 + n
					continue
				}
			}
		}

		switch b {
		case 'q', 'Q':
			in.Quit = true
		case 'a', 'A', 'h', 'H':
			s.state.left = now
		case 'd', 'D', 'l', 'L':
			s.state.right = now
		case ' ':
			in.Shots++
		case '\n', '\r':
			in.Enter = true
		case 'r', 'R':
			in.Restart = true
		}
	}

	in.Left = now.Sub(s.state.left) < keyHoldDuration
	in.Right = now.Sub(s.state.right) < keyHoldDuration
	return in
}

// parseSGRMouse parses the body of an SGR mouse report ("b;x;yM" or
// "b;x;ym", the part after ESC [ <). It returns the number of bytes consumed.
func parseSGRMouse(buf []byte, in *Input) (int, bool) {
	var fields [3]int
	field := 0
	digits := false
	for i, b := range buf {
		switch {
		case b >= '0' && b <= '9':
			fields[field] = fields[field]*10 + int(b-'0')
			digits = true
		case b == ';':
			if !digits || field == 2 {
				return 0, false
			}
			field++
			digits = false
		case b == 'M' || b == 'm':
			if !digits || field != 2 {
				return 0, false
			}
			applyMouse(fields[0], fields[1], b == 'M', in)
			return i + 1, true
		default:
			return 0, false
		}
	}
	return 0, false
}

// Button code bits in SGR reports.
const (
	mouseButtonMask = 0b11
	mouseMotion     = 32
	mouseWheel      = 64
)

func applyMouse(code, col int, press bool, in *Input) {
	if code&mouseWheel != 0 {
		return
	}
	in.MouseCol = col
	if press && code&mouseMotion == 0 && code&mouseButtonMask == 0 {
		in.Shots++
	}
}
