package client

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/tomz197/arcade/internal/draw"
	"github.com/tomz197/arcade/internal/loop/config"
	"github.com/tomz197/arcade/internal/loop/server"
	"github.com/tomz197/arcade/internal/object"
)

// gameOverPalette is indexed by the session's colour index, which moves one
// step on every restart.
var gameOverPalette = [config.GameOverPaletteSize]string{
	draw.ColorRed,
	draw.ColorYellow,
	draw.ColorMagenta,
	draw.ColorCyan,
	draw.ColorGreen,
}

// drawFrame draws the current frame. Text is queued before the canvas is
// rendered so the canvas knows which cells to leave alone.
func (c *Client) drawFrame() error {
	// On game state or inactivity transitions, do a full terminal clear
	// so UI elements from the previous state don't persist on screen.
	stateChanged := c.state.GameState != c.state.prevGameState
	inactiveChanged := c.state.isInactive != c.state.wasInactive
	if stateChanged || inactiveChanged {
		c.overlay.WriteString("\033[H\033[2J")
		c.canvas.ForceRedraw()
		c.state.prevGameState = c.state.GameState
		c.state.wasInactive = c.state.isInactive
	}

	c.canvas.Clear()

	snapshot := c.server.GetSnapshot()
	if c.state.GameState == GameStatePlaying || c.state.GameState == GameStateOver {
		c.drawWorld(snapshot)
	}

	c.drawUI(snapshot)

	// Render canvas to terminal
	c.canvas.Render(c.overlay)

	// Draw border when terminal exceeds max render resolution
	c.canvas.RenderBorder(c.overlay)

	return c.overlay.Flush()
}

// drawWorld draws every entity of the snapshot and the player ship.
func (c *Client) drawWorld(snapshot *server.Snapshot) {
	ctx := object.DrawContext{
		Canvas: c.canvas,
		Text:   c,
	}
	for i := range snapshot.Enemies {
		snapshot.Enemies[i].Draw(ctx)
	}
	for i := range snapshot.PowerUps {
		snapshot.PowerUps[i].Draw(ctx)
	}
	for i := range snapshot.Bullets {
		snapshot.Bullets[i].Draw(ctx)
	}
	c.drawPlayer(snapshot)
}

// drawPlayer draws the ship, with a ring around it while shielded.
func (c *Client) drawPlayer(snapshot *server.Snapshot) {
	x, y := snapshot.PlayerX, config.PlayerY
	c.canvas.DrawPolygon([]draw.Point{
		{X: x, Y: y - 3},
		{X: x + 3, Y: y + 3},
		{X: x - 3, Y: y + 3},
	}, true)

	if snapshot.HasEffect(object.PowerUpShield) {
		const r = 6.0
		c.canvas.DrawPolygon([]draw.Point{
			{X: x - r/2, Y: y - r},
			{X: x + r/2, Y: y - r},
			{X: x + r, Y: y},
			{X: x + r/2, Y: y + r},
			{X: x - r/2, Y: y + r},
			{X: x - r, Y: y},
		}, false)
	}
}

// WriteAt writes text at a 1-based canvas position and keeps the canvas
// from painting over it this frame.
func (c *Client) WriteAt(col, row int, s string) {
	c.overlay.WriteAt(col, row, s)
	c.canvas.MarkTextDirty(col, row, utf8.RuneCountInString(s))
}

// writeColored is WriteAt for text wrapped in an ANSI colour.
func (c *Client) writeColored(col, row int, color, s string) {
	c.overlay.WriteColored(col, row, color, s)
	c.canvas.MarkTextDirty(col, row, utf8.RuneCountInString(s))
}

// writeCentered writes s centered on centerX.
func (c *Client) writeCentered(centerX, row int, s string) {
	c.WriteAt(centerX-utf8.RuneCountInString(s)/2, row, s)
}

// drawUI draws the game UI overlay.
func (c *Client) drawUI(snapshot *server.Snapshot) {
	termWidth := c.canvas.TerminalWidth()
	termHeight := c.canvas.TerminalHeight()
	centerX := termWidth / 2
	centerY := termHeight / 2

	if c.state.GameState == GameStateShutdown {
		c.drawShutdownScreen(centerX, centerY)
		return
	}

	if c.state.isInactive {
		c.drawInactivityScreen(centerX, centerY)
		return
	}

	switch c.state.GameState {
	case GameStatePlaying:
		c.drawPlayingHUD(termWidth, termHeight, snapshot)
	case GameStateStart:
		c.drawStartScreen(centerX, centerY)
	case GameStateOver:
		c.drawOverScreen(centerX, centerY, snapshot)
	}
}

// drawInactivityScreen draws the inactivity warning screen.
func (c *Client) drawInactivityScreen(centerX, centerY int) {
	c.writeCentered(centerX, centerY-2, "INACTIVITY WARNING")

	msg := fmt.Sprintf(
		"You have been inactive for too long. You will be disconnected in %d seconds.",
		int((c.idleKick - time.Since(c.lastInput)).Seconds()),
	)
	c.writeCentered(centerX, centerY, msg)
	c.writeCentered(centerX, centerY+2, "Press any key to continue")
}

// drawStartScreen draws the title screen.
func (c *Client) drawStartScreen(centerX, centerY int) {
	// ASCII art title (figlet "small" font)
	titleArt := []string{
		`    _   ___  ___   _   ___  ___  `,
		`   /_\ | _ \/ __| /_\ |   \| __| `,
		`  / _ \|   / (__ / _ \| |) | _|  `,
		` /_/ \_\_|_\\___/_/ \_\___/|___| `,
		`                                 `,
	}

	titleWidth := 0
	for _, line := range titleArt {
		titleWidth = max(titleWidth, len(line))
	}

	titleStartY := centerY - 8
	for i, line := range titleArt {
		c.WriteAt(centerX-titleWidth/2, titleStartY+i, line)
	}

	c.writeCentered(centerX, titleStartY+len(titleArt)+1, "~ Shoot them down before they reach you ~")

	controlsY := titleStartY + len(titleArt) + 3
	c.writeCentered(centerX, controlsY, "Controls")
	controlLines := []string{
		"Mouse / A D / < >  . . .  Aim",
		"Click / SPACE  . . . .  Shoot",
		"ENTER / R  . . . . .  Restart",
		"Q  . . . . . . . . . . . Quit",
	}
	for i, line := range controlLines {
		c.writeCentered(centerX, controlsY+1+i, line)
	}

	powerUpsY := controlsY + len(controlLines) + 2
	for i, t := range object.PowerUpTypes {
		line := fmt.Sprintf("%s %-9s %2.0fs", t.Glyph(), t.String(), t.Duration().Seconds())
		c.writeCentered(centerX, powerUpsY+i, line)
	}

	// Blinking start prompt
	if time.Now().UnixMilli()/600%2 == 0 {
		c.writeCentered(centerX, powerUpsY+len(object.PowerUpTypes)+1, ">>  Press SPACE to Start  <<")
	}
}

// drawPlayingHUD draws the in-game HUD.
// Text fields use fixed-width formatting so shrinking values don't leave
// residual characters on screen.
func (c *Client) drawPlayingHUD(termWidth, termHeight int, snapshot *server.Snapshot) {
	c.WriteAt(2, 1, fmt.Sprintf("Score: %-8d", snapshot.Score))

	// Active effects (top right), one per line
	for i, t := range object.PowerUpTypes {
		text := strings.Repeat(" ", 14)
		for _, e := range snapshot.Effects {
			if e.Type == t {
				text = fmt.Sprintf("%s %-9s%3.0fs", t.Glyph(), t.String(), e.Remaining.Seconds())
			}
		}
		c.WriteAt(termWidth-utf8.RuneCountInString(text)-1, 1+i, text)
	}

	// Danger line the enemies must not cross
	_, dangerRow := c.canvas.LogicalToTerminal(0, config.GameOverThresholdY)
	if dangerRow > 1 && dangerRow < termHeight {
		c.writeColored(1, dangerRow, draw.ColorRed, "-")
		c.writeColored(termWidth, dangerRow, draw.ColorRed, "-")
	}
}

// drawOverScreen draws the game over screen in the colour for this round.
func (c *Client) drawOverScreen(centerX, centerY int, snapshot *server.Snapshot) {
	titleArt := []string{
		`   ___   _   __  __ ___    _____   _____ ___  `,
		`  / __| /_\ |  \/  | __|  / _ \ \ / / __| _ \ `,
		` | (_ |/ _ \| |\/| | _|  | (_) \ V /| _||   / `,
		`  \___/_/ \_\_|  |_|___|  \___/ \_/ |___|_|_\ `,
		`                                              `,
	}
	color := gameOverPalette[snapshot.ColorIndex%len(gameOverPalette)]

	titleWidth := 0
	for _, line := range titleArt {
		titleWidth = max(titleWidth, len(line))
	}

	titleStartY := centerY - 6
	for i, line := range titleArt {
		c.writeColored(centerX-titleWidth/2, titleStartY+i, color, line)
	}

	c.writeCentered(centerX, titleStartY+len(titleArt)+1, fmt.Sprintf("Score: %d", snapshot.Score))
	if snapshot.Restarts > 0 {
		c.writeCentered(centerX, titleStartY+len(titleArt)+2, fmt.Sprintf("Attempt %d", snapshot.Restarts+1))
	}

	if time.Now().UnixMilli()/600%2 == 0 {
		c.writeCentered(centerX, titleStartY+len(titleArt)+4, ">>  Press ENTER to Restart  <<")
	}
}

// drawShutdownScreen draws the server shutdown notification screen.
func (c *Client) drawShutdownScreen(centerX, centerY int) {
	c.writeCentered(centerX, centerY-3, "SERVER SHUTTING DOWN")
	c.writeCentered(centerX, centerY-1, "The server is restarting for maintenance.")
	c.writeCentered(centerX, centerY, "Please reconnect in a moment.")

	remaining := int(c.state.shutdownLeft.Seconds()) + 1
	c.writeCentered(centerX, centerY+2, fmt.Sprintf("Disconnecting in %d seconds...", remaining))
	c.writeCentered(centerX, centerY+4, "Press Q to disconnect now")
}
