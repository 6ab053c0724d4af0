package desktop

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomz197/arcade/internal/loop/server"
)

// edgeRand spawns every enemy at the right edge and never spawns
// power-ups, so an idle player always loses.
type edgeRand struct{}

func (edgeRand) Float64() float64 { return 0.99 }
func (edgeRand) Intn(int) int     { return 0 }

const frame = time.Second / 60

func newTestGame() *Game {
	return NewGame(Options{Width: 480, Height: 640, Rand: edgeRand{}})
}

// run steps the game with no input for the given duration.
func run(g *Game, d time.Duration) {
	for elapsed := time.Duration(0); elapsed < d; elapsed += frame {
		g.step(frameInput{}, frame)
	}
}

func TestGame_WaitsForFirstInput(t *testing.T) {
	g := newTestGame()

	run(g, 3*time.Second)
	assert.Zero(t, g.session.Now())
	assert.Empty(t, g.session.Snapshot().Enemies)

	g.step(frameInput{tap: true}, frame)
	assert.True(t, g.started)
	assert.Equal(t, frame, g.session.Now())
	assert.Empty(t, g.session.Snapshot().Bullets, "the starting tap does not shoot")
}

func TestGame_PointerInPixels(t *testing.T) {
	g := newTestGame()
	g.step(frameInput{tap: true}, frame)

	g.step(frameInput{pointerX: 120, hasPointer: true}, frame)
	assert.InDelta(t, 25.0, g.session.PlayerX(), 1e-9)

	g.step(frameInput{pointerX: -50, hasPointer: true}, frame)
	assert.InDelta(t, 5.0, g.session.PlayerX(), 1e-9)
}

func TestGame_TapAndSpaceShoot(t *testing.T) {
	g := newTestGame()
	g.step(frameInput{tap: true}, frame)

	g.step(frameInput{pointerX: 240, hasPointer: true, tap: true}, 0)
	g.step(frameInput{shoot: true}, 0)

	bullets := g.session.Snapshot().Bullets
	require.Len(t, bullets, 2)
	for _, b := range bullets {
		assert.InDelta(t, 50.0, b.X, 1e-9)
	}
}

func TestGame_GameOverAndRestart(t *testing.T) {
	g := newTestGame()
	g.step(frameInput{tap: true}, frame)

	run(g, 6*time.Second)
	require.Equal(t, server.GameOver, g.session.Phase())

	// Shots are not accepted while the game is over; a tap restarts
	g.step(frameInput{shoot: true}, frame)
	assert.Equal(t, server.GameOver, g.session.Phase())

	g.step(frameInput{tap: true}, frame)
	snap := g.session.Snapshot()
	assert.Equal(t, server.Running, snap.Phase)
	assert.Equal(t, 1, snap.Restarts)
	assert.Zero(t, snap.Score)
	assert.Empty(t, snap.Bullets)
}

func TestGame_Layout(t *testing.T) {
	g := newTestGame()
	w, h := g.Layout(1920, 1080)
	assert.Equal(t, 480, w)
	assert.Equal(t, 640, h)
}
