// Package config centralizes all tunable game parameters.
package config

import "time"

// Play area. All positions are percentages of the game area:
// x ∈ [0,100] left to right, y grows downward from the top edge.
const (
	AreaWidth  = 100.0
	AreaHeight = 100.0
)

// Tick rates. Each rate runs on its own timer; they are never merged
// into one master tick.
const (
	EnemySpawnInterval   = 1200 * time.Millisecond
	PowerUpSpawnInterval = 4000 * time.Millisecond
	MotionInterval       = 100 * time.Millisecond // Enemies and power-ups
	BulletInterval       = 50 * time.Millisecond
)

// Spawning
const (
	SpawnMinX           = 10.0
	SpawnMaxX           = 90.0
	PowerUpSpawnChance  = 0.3
	ZigzagAmplitude     = 15.0
	ZigzagFrequency     = 0.1
	PowerUpFallPerTick  = 1.5
	BulletRisePerTick   = 4.0
	BulletBoostPerTick  = 6.0 // With the speed effect active
	MultishotSpread     = 3.0 // Horizontal gap between multishot bullets
	EnemyEscapeY        = 100.0
	PowerUpMissY        = 100.0
	BulletMissY         = 0.0
	EnemyHitRadius      = 5.0
	TankHitRadius       = 7.0
	PickupRadius        = 8.0
	GameOverThresholdY  = 85.0
	DefaultPointerWidth = AreaWidth // Pointer pixels equal percentages until a surface reports its width
)

// Player
const (
	PlayerY      = 85.0
	PlayerStartX = 50.0
	PlayerMinX   = 5.0
	PlayerMaxX   = 95.0
)

// Power-up durations
const (
	SpeedDuration     = 5000 * time.Millisecond
	MultishotDuration = 8000 * time.Millisecond
	ShieldDuration    = 4000 * time.Millisecond
)

// GameOverPaletteSize is the number of cosmetic colours the game-over
// screen cycles through, one step per restart.
const GameOverPaletteSize = 5

// Inactivity
const (
	InactivityWarnUser       = 90  // Seconds
	InactivityDisconnectUser = 120 // Seconds
)

// Shutdown
const (
	ShutdownDisplaySeconds = 10.0 // Seconds to show shutdown message before auto-disconnect
)

// Client rendering
const (
	ClientTargetFPS       = 60
	ClientTargetFrameTime = time.Second / ClientTargetFPS
)

// KeyboardAimSpeed is how fast held arrow keys move the player, in percent
// of the area width per second.
const KeyboardAimSpeed = 60.0

// Max render resolution. Larger terminals get a centered, bordered area.
const (
	MaxTermWidth  = 120
	MaxTermHeight = 40
)

// ServerTickTime is how often the session loop advances its timeline
// against the wall clock. It only bounds latency; game rates are above.
const ServerTickTime = 10 * time.Millisecond
