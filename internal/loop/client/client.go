// Package client runs one terminal connection: it reads keyboard and mouse
// input, forwards it to a game server and renders the server's snapshots.
package client

import (
	"bufio"
	"cmp"
	"io"
	"time"

	"github.com/tomz197/arcade/internal/draw"
	"github.com/tomz197/arcade/internal/input"
	"github.com/tomz197/arcade/internal/loop/config"
	"github.com/tomz197/arcade/internal/loop/server"
	"github.com/tomz197/arcade/internal/physics"
)

// Client renders one terminal connection and forwards its input to a game
// server. All methods run on the goroutine that called Run.
type Client struct {
	server   server.GameServer
	state    *ClientState
	canvas   *draw.Canvas
	overlay  *draw.ChunkWriter // Text drawn over the canvas each frame
	out      io.Writer
	keys     *input.Stream
	sizeFunc draw.TermSizeFunc

	lastInput time.Time
	idleWarn  time.Duration
	idleKick  time.Duration
}

// ClientOptions configures the client.
type ClientOptions struct {
	TermSizeFunc draw.TermSizeFunc // nil reads the local terminal

	// Idle time before the warning screen and before disconnecting.
	// Zero values use the defaults from the game config.
	InactivityWarn       time.Duration
	InactivityDisconnect time.Duration
}

// NewClient creates a client for server gs that reads raw terminal input
// from r and draws to w.
func NewClient(gs server.GameServer, r *bufio.Reader, w io.Writer, opts ClientOptions) *Client {
	c := &Client{
		server:    gs,
		state:     NewClientState(),
		out:       w,
		keys:      input.StartStream(r),
		sizeFunc:  opts.TermSizeFunc,
		lastInput: time.Now(),
		idleWarn:  cmp.Or(opts.InactivityWarn, config.InactivityWarnUser*time.Second),
		idleKick:  cmp.Or(opts.InactivityDisconnect, config.InactivityDisconnectUser*time.Second),
	}
	if c.sizeFunc == nil {
		c.sizeFunc = draw.DefaultTermSizeFunc
	}

	l := c.layout()
	c.canvas = draw.NewScaledCanvas(l.width, l.height, config.AreaWidth, config.AreaHeight)
	c.canvas.SetOffset(l.offsetCol, l.offsetRow)
	c.overlay = draw.NewChunkWriter(w, l.offsetCol, l.offsetRow)
	return c
}

// Run draws frames until the player quits, goes idle for too long, or the
// server goes away. The terminal is restored before Run returns.
func (c *Client) Run() error {
	draw.HideCursor(c.out)
	draw.EnableMouse(c.out)
	draw.ClearScreen(c.out)
	defer func() {
		draw.ClearScreen(c.out)
		draw.DisableMouse(c.out)
		draw.ShowCursor(c.out)
	}()

	ticker := time.NewTicker(config.ClientTargetFrameTime)
	defer ticker.Stop()

	last := time.Now()
	for c.state.Running {
		now := <-ticker.C
		c.state.delta = now.Sub(last)
		last = now

		if err := c.step(now); err != nil {
			return err
		}
	}
	return nil
}

// step runs one frame: input, server events, state update, draw.
func (c *Client) step(now time.Time) error {
	c.state.Input = input.ReadInput(c.keys)
	c.checkIdle(now)
	if c.state.Input.Quit {
		c.state.Running = false
	}
	c.drainEvents()
	c.fitTerminal()

	switch c.state.GameState {
	case GameStateStart:
		c.updateStartState()
	case GameStatePlaying:
		c.updatePlayingState()
	case GameStateOver:
		c.updateOverState()
	case GameStateShutdown:
		c.updateShutdownState()
	}

	return c.drawFrame()
}

// checkIdle shows the inactivity warning after idleWarn without input and
// ends the client after idleKick.
func (c *Client) checkIdle(now time.Time) {
	if len(c.state.Input.Pressed) > 0 {
		c.lastInput = now
		c.state.isInactive = false
		return
	}
	switch idle := now.Sub(c.lastInput); {
	case idle > c.idleKick:
		c.state.Running = false
	case idle > c.idleWarn:
		c.state.isInactive = true
	}
}

// drainEvents applies every event the server has queued.
func (c *Client) drainEvents() {
	for {
		select {
		case ev, ok := <-c.server.Events():
			if !ok {
				c.state.Running = false
				return
			}
			c.handleEvent(ev)
		default:
			return
		}
	}
}

func (c *Client) handleEvent(ev server.ClientEvent) {
	switch ev.Type {
	case server.EventGameOver:
		c.state.FinalScore = ev.Score
		if c.state.GameState == GameStatePlaying {
			c.state.GameState = GameStateOver
		}
	case server.EventServerShutdown:
		c.state.GameState = GameStateShutdown
		c.state.shutdownLeft = time.Duration(config.ShutdownDisplaySeconds * float64(time.Second))
	}
}

// termLayout is where the render area sits in the terminal.
type termLayout struct {
	width, height        int // Render area, clamped to the max resolution
	offsetCol, offsetRow int // Centering offset, 0-based
}

// layout reads the terminal size. An unreadable size keeps the current
// layout, or an empty one before the first frame.
func (c *Client) layout() termLayout {
	w, h, err := draw.TermSize(c.sizeFunc)
	if err != nil && c.canvas != nil {
		return termLayout{c.canvas.TerminalWidth(), c.canvas.TerminalHeight(), c.canvas.OffsetCol(), c.canvas.OffsetRow()}
	}
	var l termLayout
	l.width, l.height, l.offsetCol, l.offsetRow = clampTermSize(w, h)
	return l
}

// fitTerminal follows terminal resizes. A changed layout clears the whole
// terminal so old borders and offset content do not linger.
func (c *Client) fitTerminal() {
	l := c.layout()
	current := termLayout{c.canvas.TerminalWidth(), c.canvas.TerminalHeight(), c.canvas.OffsetCol(), c.canvas.OffsetRow()}
	if l == current {
		return
	}
	draw.ClearScreen(c.out)
	c.canvas.Resize(l.width, l.height)
	c.canvas.SetOffset(l.offsetCol, l.offsetRow)
	c.canvas.ForceRedraw()
	c.overlay.SetOffset(l.offsetCol, l.offsetRow)
}

// clampTermSize fits the terminal size into the max render resolution and
// returns the offset that centers the render area.
func clampTermSize(termWidth, termHeight int) (renderWidth, renderHeight, offsetCol, offsetRow int) {
	renderWidth = min(termWidth, config.MaxTermWidth)
	renderHeight = min(termHeight, config.MaxTermHeight)
	return renderWidth, renderHeight, (termWidth - renderWidth) / 2, (termHeight - renderHeight) / 2
}

// updateStartState handles the title screen.
func (c *Client) updateStartState() {
	if c.state.Input.Shots > 0 || c.state.Input.Enter {
		input.ResetKeyInput(c.keys)
		c.server.Start()
		c.state.GameState = GameStatePlaying
	}
}

// updatePlayingState forwards pointer and shoot input to the server.
func (c *Client) updatePlayingState() {
	if c.server.GetSnapshot().Phase == server.GameOver {
		c.state.GameState = GameStateOver
		return
	}

	in := c.state.Input
	moved := false
	if in.MouseCol > 0 && c.canvas.TerminalWidth() > 0 {
		// Mouse reports are absolute terminal columns; aim at the cell center
		col := float64(in.MouseCol-1-c.canvas.OffsetCol()) + 0.5
		c.state.AimX = col / float64(c.canvas.TerminalWidth()) * config.AreaWidth
		moved = true
	}
	step := config.KeyboardAimSpeed * c.state.delta.Seconds()
	if in.Left {
		c.state.AimX -= step
		moved = true
	}
	if in.Right {
		c.state.AimX += step
		moved = true
	}
	if moved {
		c.state.AimX = physics.Clamp(c.state.AimX, config.PlayerMinX, config.PlayerMaxX)
		c.server.SetPointer(c.state.AimX, config.AreaWidth)
	}

	for i := 0; i < in.Shots; i++ {
		c.server.Shoot()
	}
}

// updateOverState waits for a restart request.
func (c *Client) updateOverState() {
	snap := c.server.GetSnapshot()
	if snap.Phase == server.Running {
		c.state.AimX = snap.PlayerX
		c.state.GameState = GameStatePlaying
		return
	}
	if c.state.Input.Enter || c.state.Input.Restart {
		input.ResetKeyInput(c.keys)
		c.server.Restart()
	}
}

// updateShutdownState handles the shutdown screen countdown.
func (c *Client) updateShutdownState() {
	c.state.shutdownLeft -= c.state.delta
	if c.state.shutdownLeft <= 0 {
		c.state.Running = false
	}
}
