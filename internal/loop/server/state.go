package server

import (
	"time"

	"github.com/tomz197/arcade/internal/object"
)

// Phase is the session lifecycle state.
type Phase int

const (
	Running Phase = iota
	GameOver
)

func (p Phase) String() string {
	switch p {
	case Running:
		return "running"
	case GameOver:
		return "game over"
	default:
		return "unknown"
	}
}

// ActiveEffect is a power-up effect that is currently in force.
type ActiveEffect struct {
	Type      object.PowerUpType
	Remaining time.Duration // Time left until the effect expires
}

// Snapshot is an immutable copy of the session state for rendering.
// Entities are copied by value, so a snapshot stays valid while the
// session keeps ticking.
type Snapshot struct {
	Score      int
	Phase      Phase
	PlayerX    float64
	Enemies    []object.Enemy
	Bullets    []object.Bullet
	PowerUps   []object.PowerUp
	Effects    []ActiveEffect // Ordered by power-up type
	ColorIndex int            // Cosmetic, advances on every restart
	Restarts   int
	Now        time.Duration // Session time when the snapshot was taken
}

// HasEffect reports whether the effect is active in the snapshot.
func (s *Snapshot) HasEffect(t object.PowerUpType) bool {
	for _, e := range s.Effects {
		if e.Type == t {
			return true
		}
	}
	return false
}
