package client

import (
	"time"

	"github.com/tomz197/arcade/internal/input"
	"github.com/tomz197/arcade/internal/loop/config"
)

// GameState represents the current screen for a client.
type GameState int

const (
	GameStateStart    GameState = iota // Title screen
	GameStatePlaying                   // Active gameplay
	GameStateOver                      // Game over, show restart prompt
	GameStateShutdown                  // Server is shutting down
)

// ClientState holds per-connection UI state. The game itself lives in the
// server's session; the client only keeps what it needs to draw screens.
type ClientState struct {
	Input         input.Input
	GameState     GameState         // This client's screen
	AimX          float64           // Pointer position sent to the server, in percent
	FinalScore    int               // Score reported with the last game over
	Running       bool              // Client loop running
	delta         time.Duration     // Frame delta time (client-side)
	shutdownLeft  time.Duration     // Countdown before auto-disconnect on shutdown
	isInactive    bool              // Whether the client is in inactive warning state
	prevGameState GameState         // Screen drawn last frame
	wasInactive   bool              // Inactivity state drawn last frame
}

// NewClientState creates a new initialized client state.
func NewClientState() *ClientState {
	return &ClientState{
		GameState: GameStateStart,
		AimX:      config.PlayerStartX,
		Running:   true,
	}
}
