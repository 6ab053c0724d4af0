package input

import (
	"bufio"
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKeys(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name  string
		bytes string
		check func(t *testing.T, in Input)
	}{
		{"space shoots once per press", "  ", func(t *testing.T, in Input) {
			assert.Equal(t, 2, in.Shots)
		}},
		{"left arrow holds left", "\x1b[D", func(t *testing.T, in Input) {
			assert.True(t, in.Left)
			assert.False(t, in.Right)
		}},
		{"d holds right", "d", func(t *testing.T, in Input) {
			assert.True(t, in.Right)
		}},
		{"enter and restart", "\rr", func(t *testing.T, in Input) {
			assert.True(t, in.Enter)
			assert.True(t, in.Restart)
		}},
		{"quit", "q", func(t *testing.T, in Input) {
			assert.True(t, in.Quit)
		}},
		{"no pointer report", "x", func(t *testing.T, in Input) {
			assert.Equal(t, -1, in.MouseCol)
			assert.Zero(t, in.Shots)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Stream{}
			tt.check(t, s.parse([]byte(tt.bytes), now))
		})
	}
}

func TestParseSGRMouse(t *testing.T) {
	now := time.Now()

	t.Run("motion moves pointer without shooting", func(t *testing.T) {
		s := &Stream{}
		in := s.parse([]byte("\x1b[<35;42;10M"), now)
		assert.Equal(t, 42, in.MouseCol)
		assert.Zero(t, in.Shots)
	})

	t.Run("left press shoots at its column", func(t *testing.T) {
		s := &Stream{}
		in := s.parse([]byte("\x1b[<0;17;3M\x1b[<0;17;3m"), now)
		assert.Equal(t, 17, in.MouseCol)
		assert.Equal(t, 1, in.Shots, "release does not shoot")
	})

	t.Run("right button and wheel ignored for shooting", func(t *testing.T) {
		s := &Stream{}
		in := s.parse([]byte("\x1b[<2;5;5M\x1b[<64;9;9M"), now)
		assert.Zero(t, in.Shots)
		assert.Equal(t, 5, in.MouseCol)
	})

	t.Run("latest report wins", func(t *testing.T) {
		s := &Stream{}
		in := s.parse([]byte("\x1b[<35;10;1M\x1b[<35;11;1M\x1b[<35;12;1M"), now)
		assert.Equal(t, 12, in.MouseCol)
	})

	t.Run("truncated report falls back to plain bytes", func(t *testing.T) {
		s := &Stream{}
		in := s.parse([]byte("\x1b[<35;1"), now)
		assert.Equal(t, -1, in.MouseCol)
	})
}

func TestHeldKeyExpires(t *testing.T) {
	s := &Stream{}
	start := time.Now()
	s.parse([]byte("a"), start)

	in := s.parse(nil, start.Add(keyHoldDuration/2))
	assert.True(t, in.Left)

	in = s.parse(nil, start.Add(2*keyHoldDuration))
	assert.False(t, in.Left)
}

func TestResetKeyInput(t *testing.T) {
	s := &Stream{}
	now := time.Now()
	s.parse([]byte("l"), now)
	ResetKeyInput(s)
	assert.False(t, s.parse(nil, now).Right)
}

func TestReadInputDrainsStream(t *testing.T) {
	s := StartStream(bufio.NewReader(bytes.NewReader([]byte("  q"))))

	var total Input
	require.Eventually(t, func() bool {
		in := ReadInput(s)
		total.Shots += in.Shots
		total.Quit = total.Quit || in.Quit
		return total.Quit
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, 2, total.Shots)
}
