// Package desktop plays the game in a window or on a touch screen. The
// session is advanced from ebiten's update loop, so no server goroutine is
// needed.
package desktop

import (
	"fmt"
	"image/color"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/tomz197/arcade/internal/loop/config"
	"github.com/tomz197/arcade/internal/loop/server"
	"github.com/tomz197/arcade/internal/object"
)

// maxFrameDelta caps how much game time one update may cover, so a stalled
// window does not fast-forward the game.
const maxFrameDelta = 100 * time.Millisecond

var (
	backgroundColor = color.RGBA{0x0b, 0x0b, 0x12, 0xff}
	playerColor     = color.RGBA{0xe0, 0xe0, 0xe0, 0xff}
	bulletColor     = color.RGBA{0xff, 0xff, 0x87, 0xff}
	dangerColor     = color.RGBA{0xff, 0x5f, 0x5f, 0x80}
	shieldColor     = color.RGBA{0x5f, 0xd7, 0xff, 0xff}
)

var enemyColors = [...]color.RGBA{
	object.EnemyBasic:  {0xff, 0x5f, 0x5f, 0xff},
	object.EnemyFast:   {0xff, 0xaf, 0x00, 0xff},
	object.EnemyZigzag: {0xaf, 0x87, 0xff, 0xff},
	object.EnemyTank:   {0x87, 0x87, 0x87, 0xff},
}

var powerUpColors = [...]color.RGBA{
	object.PowerUpSpeed:     {0x87, 0xff, 0x87, 0xff},
	object.PowerUpMultishot: {0xff, 0x87, 0xff, 0xff},
	object.PowerUpShield:    shieldColor,
}

// gameOverPalette matches the terminal client's order: red, yellow,
// magenta, cyan, green.
var gameOverPalette = [config.GameOverPaletteSize]color.RGBA{
	{0xcd, 0x31, 0x31, 0xff},
	{0xe5, 0xe5, 0x10, 0xff},
	{0xbc, 0x3f, 0xbc, 0xff},
	{0x11, 0xa8, 0xcd, 0xff},
	{0x0d, 0xbc, 0x79, 0xff},
}

// Options configures a Game.
type Options struct {
	Width, Height int         // Logical screen size in pixels
	Rand          server.Rand // nil picks a clock-seeded source
	Logger        *log.Logger // nil discards logs
}

// Game implements ebiten.Game.
type Game struct {
	session *server.Session
	started bool
	width   int
	height  int
	logger  *log.Logger

	lastUpdate time.Time
	touchIDs   []ebiten.TouchID
}

// Compile-time check that Game implements ebiten.Game.
var _ ebiten.Game = (*Game)(nil)

// frameInput is the input gathered during one update.
type frameInput struct {
	pointerX   float64 // Pixels from the left edge of the screen
	hasPointer bool
	tap        bool // Click or new touch
	shoot      bool // Space
	restart    bool // Enter or R
}

// NewGame creates a game whose session waits for the first input.
func NewGame(opts Options) *Game {
	g := &Game{
		width:  opts.Width,
		height: opts.Height,
		logger: opts.Logger,
	}
	if g.logger == nil {
		g.logger = log.New(io.Discard)
	}
	rng := opts.Rand
	if rng == nil {
		rng = server.NewRand(0)
	}
	g.session = server.NewSession(rng, g.onEvent)
	g.session.SetAreaWidth(float64(g.width))
	return g
}

func (g *Game) onEvent(ev server.SessionEvent) {
	switch ev.Kind {
	case server.SessionOver:
		g.logger.Info("game over", "score", ev.Score, "at", ev.At)
	case server.SessionRestarted:
		g.logger.Info("restart")
	default:
		g.logger.Debug(ev.Kind.String(), "score", ev.Score)
	}
}

// Update reads input and advances the session by the wall-clock time since
// the previous update.
func (g *Game) Update() error {
	now := time.Now()
	var dt time.Duration
	if !g.lastUpdate.IsZero() {
		dt = min(now.Sub(g.lastUpdate), maxFrameDelta)
	}
	g.lastUpdate = now

	g.step(g.readInput(), dt)
	return nil
}

func (g *Game) readInput() frameInput {
	var in frameInput

	x, _ := ebiten.CursorPosition()
	in.pointerX, in.hasPointer = float64(x), true

	// The most recent touch steers
	g.touchIDs = ebiten.AppendTouchIDs(g.touchIDs[:0])
	if len(g.touchIDs) > 0 {
		tx, _ := ebiten.TouchPosition(g.touchIDs[len(g.touchIDs)-1])
		in.pointerX = float64(tx)
	}

	in.tap = inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) ||
		len(inpututil.AppendJustPressedTouchIDs(nil)) > 0
	in.shoot = inpututil.IsKeyJustPressed(ebiten.KeySpace)
	in.restart = inpututil.IsKeyJustPressed(ebiten.KeyEnter) || inpututil.IsKeyJustPressed(ebiten.KeyR)
	return in
}

// step applies one frame of input, then advances the session by dt.
func (g *Game) step(in frameInput, dt time.Duration) {
	switch {
	case !g.started:
		if in.tap || in.shoot || in.restart {
			g.started = true
			g.logger.Info("game started")
		}
	case g.session.Phase() == server.GameOver:
		if in.tap || in.restart {
			g.session.Restart()
		}
	default:
		if in.hasPointer {
			g.session.SetPointerPosition(in.pointerX)
		}
		if in.tap || in.shoot {
			g.session.RequestShoot()
		}
	}

	if g.started {
		g.session.Advance(dt)
	}
}

// Layout keeps a fixed logical screen; ebiten scales it to the window.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.width, g.height
}

// toScreen converts play area percentages to screen pixels.
func (g *Game) toScreen(x, y float64) (float32, float32) {
	return float32(x / config.AreaWidth * float64(g.width)), float32(y / config.AreaHeight * float64(g.height))
}

// scale converts a length in percent of the area width to pixels.
func (g *Game) scale(d float64) float32 {
	return float32(d / config.AreaWidth * float64(g.width))
}

// Draw renders the latest session state.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)
	snap := g.session.Snapshot()

	if !g.started {
		g.drawTitle(screen)
		return
	}

	_, dangerY := g.toScreen(0, config.GameOverThresholdY)
	vector.StrokeLine(screen, 0, dangerY, float32(g.width), dangerY, 1, dangerColor, false)

	for _, e := range snap.Enemies {
		x, y := g.toScreen(e.X, e.Y)
		size := g.scale(e.Type.Spec().Size)
		vector.DrawFilledRect(screen, x-size/2, y-size/2, size, size, enemyColors[e.Type], false)
	}
	for _, p := range snap.PowerUps {
		x, y := g.toScreen(p.X, p.Y)
		vector.DrawFilledCircle(screen, x, y, g.scale(1.5), powerUpColors[p.Type], true)
	}
	for _, b := range snap.Bullets {
		x, y := g.toScreen(b.X, b.Y)
		vector.DrawFilledRect(screen, x-1, y-3, 2, 6, bulletColor, false)
	}
	g.drawPlayer(screen, snap)

	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("Score: %d", snap.Score), 4, 4)
	for i, e := range snap.Effects {
		line := fmt.Sprintf("%s %.0fs", e.Type, e.Remaining.Seconds())
		ebitenutil.DebugPrintAt(screen, line, g.width-len(line)*6-4, 4+i*16)
	}

	if snap.Phase == server.GameOver {
		g.drawGameOver(screen, snap)
	}
}

func (g *Game) drawPlayer(screen *ebiten.Image, snap *server.Snapshot) {
	x, y := g.toScreen(snap.PlayerX, config.PlayerY)
	half := g.scale(3)

	vector.StrokeLine(screen, x, y-half, x+half, y+half, 2, playerColor, true)
	vector.StrokeLine(screen, x+half, y+half, x-half, y+half, 2, playerColor, true)
	vector.StrokeLine(screen, x-half, y+half, x, y-half, 2, playerColor, true)

	if snap.HasEffect(object.PowerUpShield) {
		vector.StrokeCircle(screen, x, y, half*2, 2, shieldColor, true)
	}
}

func (g *Game) drawTitle(screen *ebiten.Image) {
	lines := []string{
		"ARCADE",
		"",
		"Shoot them down before they reach you",
		"",
		"Move: mouse or touch",
		"Shoot: click, tap or SPACE",
		"",
		"Click to start",
	}
	for i, line := range lines {
		ebitenutil.DebugPrintAt(screen, line, (g.width-len(line)*6)/2, g.height/3+i*16)
	}
}

func (g *Game) drawGameOver(screen *ebiten.Image, snap *server.Snapshot) {
	c := gameOverPalette[snap.ColorIndex%len(gameOverPalette)]
	bandY := float32(g.height)/2 - 40
	vector.DrawFilledRect(screen, 0, bandY, float32(g.width), 80, c, false)

	lines := []string{
		"GAME OVER",
		fmt.Sprintf("Score: %d", snap.Score),
		"Click or press ENTER to restart",
	}
	for i, line := range lines {
		ebitenutil.DebugPrintAt(screen, line, (g.width-len(line)*6)/2, int(bandY)+12+i*20)
	}
}
