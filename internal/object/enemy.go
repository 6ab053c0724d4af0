package object

import (
	"math"

	"github.com/tomz197/arcade/internal/draw"
	"github.com/tomz197/arcade/internal/loop/config"
)

// EnemyType is the closed set of enemy kinds.
type EnemyType int

const (
	EnemyBasic EnemyType = iota
	EnemyFast
	EnemyZigzag
	EnemyTank
)

// EnemySpec holds the fixed properties of an enemy type.
type EnemySpec struct {
	Speed     float64 // Vertical travel per motion tick
	HP        int     // Hit points on spawn
	Points    int     // Score awarded on kill
	HitRadius float64 // Half-size of the hit box
	Size      float64 // Drawn width/height
}

var enemySpecs = [...]EnemySpec{
	EnemyBasic:  {Speed: 2, HP: 1, Points: 10, HitRadius: config.EnemyHitRadius, Size: 4},
	EnemyFast:   {Speed: 4, HP: 1, Points: 15, HitRadius: config.EnemyHitRadius, Size: 3},
	EnemyZigzag: {Speed: 2.5, HP: 1, Points: 20, HitRadius: config.EnemyHitRadius, Size: 4},
	EnemyTank:   {Speed: 1.5, HP: 3, Points: 50, HitRadius: config.TankHitRadius, Size: 6},
}

var enemyNames = [...]string{
	EnemyBasic:  "basic",
	EnemyFast:   "fast",
	EnemyZigzag: "zigzag",
	EnemyTank:   "tank",
}

// EnemyTypes lists every enemy type in declaration order.
var EnemyTypes = []EnemyType{EnemyBasic, EnemyFast, EnemyZigzag, EnemyTank}

// Spec returns the configuration for the enemy type.
func (t EnemyType) Spec() EnemySpec {
	return enemySpecs[t]
}

func (t EnemyType) String() string {
	if t < 0 || int(t) >= len(enemyNames) {
		return "unknown"
	}
	return enemyNames[t]
}

// Enemy is a falling target.
type Enemy struct {
	ID      uint64
	X, Y    float64   // Position (center)
	Type    EnemyType // Kind, selects the EnemySpec
	HP      int       // Remaining hit points
	OriginX float64   // Spawn column, zigzag oscillates around it
}

// NewEnemy creates an enemy of the given type at the top of the play area.
func NewEnemy(id uint64, t EnemyType, x float64) *Enemy {
	return &Enemy{
		ID:      id,
		X:       x,
		Type:    t,
		HP:      t.Spec().HP,
		OriginX: x,
	}
}

// ZigzagX returns the horizontal position of a zigzag enemy that spawned
// at originX and has fallen to y. The result is not clamped, so an enemy
// spawned near an edge swings up to ZigzagAmplitude outside [0, AreaWidth].
func ZigzagX(originX, y float64) float64 {
	return originX + config.ZigzagAmplitude*math.Sin(config.ZigzagFrequency*y)
}

// Update moves the enemy down by its type's speed.
func (e *Enemy) Update(_ UpdateContext) bool {
	e.Y += e.Type.Spec().Speed
	if e.Type == EnemyZigzag {
		e.X = ZigzagX(e.OriginX, e.Y)
	}
	return e.Y > config.EnemyEscapeY
}

// Hit removes one hit point. Returns true if the enemy is destroyed.
func (e *Enemy) Hit() bool {
	e.HP--
	return e.HP <= 0
}

// HitRadius returns the half-size of the enemy's hit box.
func (e *Enemy) HitRadius() float64 {
	return e.Type.Spec().HitRadius
}

// Points returns the score for destroying the enemy.
func (e *Enemy) Points() int {
	return e.Type.Spec().Points
}

// Draw renders the enemy. Each type gets its own silhouette so they can be
// told apart on a monochrome canvas.
func (e *Enemy) Draw(ctx DrawContext) {
	half := e.Type.Spec().Size / 2
	var shape []draw.Point
	switch e.Type {
	case EnemyFast:
		// Narrow downward arrow
		shape = []draw.Point{
			{X: e.X - half, Y: e.Y - half},
			{X: e.X + half, Y: e.Y - half},
			{X: e.X, Y: e.Y + half},
		}
	case EnemyZigzag:
		// Diamond
		shape = []draw.Point{
			{X: e.X, Y: e.Y - half},
			{X: e.X + half, Y: e.Y},
			{X: e.X, Y: e.Y + half},
			{X: e.X - half, Y: e.Y},
		}
	default:
		shape = []draw.Point{
			{X: e.X - half, Y: e.Y - half},
			{X: e.X + half, Y: e.Y - half},
			{X: e.X + half, Y: e.Y + half},
			{X: e.X - half, Y: e.Y + half},
		}
	}
	// Damaged tanks are drawn hollow
	filled := e.HP >= e.Type.Spec().HP
	ctx.Canvas.DrawPolygon(shape, filled)
}
