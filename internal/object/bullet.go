package object

import "github.com/tomz197/arcade/internal/loop/config"

// Bullet is a shot fired straight up from the player.
type Bullet struct {
	ID   uint64
	X, Y float64 // Position; X is fixed at fire time
}

// NewBullet creates a bullet at (x, y).
func NewBullet(id uint64, x, y float64) *Bullet {
	return &Bullet{ID: id, X: x, Y: y}
}

// Update moves the bullet up. The speed effect makes it travel faster.
func (b *Bullet) Update(ctx UpdateContext) bool {
	if ctx.SpeedBoost {
		b.Y -= config.BulletBoostPerTick
	} else {
		b.Y -= config.BulletRisePerTick
	}
	return b.Y <= config.BulletMissY
}

// Draw renders the bullet as a short vertical streak.
func (b *Bullet) Draw(ctx DrawContext) {
	ctx.Canvas.SetFloat(b.X, b.Y)
	ctx.Canvas.SetFloat(b.X, b.Y+1)
}
