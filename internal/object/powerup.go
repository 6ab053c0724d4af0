package object

import (
	"time"

	"github.com/tomz197/arcade/internal/draw"
	"github.com/tomz197/arcade/internal/loop/config"
)

// PowerUpType is the closed set of power-up kinds. Each one is also the
// name of the effect it grants while active.
type PowerUpType int

const (
	PowerUpSpeed PowerUpType = iota
	PowerUpMultishot
	PowerUpShield
)

// PowerUpTypes lists every power-up type in declaration order.
var PowerUpTypes = []PowerUpType{PowerUpSpeed, PowerUpMultishot, PowerUpShield}

var powerUpDurations = [...]time.Duration{
	PowerUpSpeed:     config.SpeedDuration,
	PowerUpMultishot: config.MultishotDuration,
	PowerUpShield:    config.ShieldDuration,
}

var powerUpNames = [...]string{
	PowerUpSpeed:     "speed",
	PowerUpMultishot: "multishot",
	PowerUpShield:    "shield",
}

// Glyph shown on terminals for each power-up.
var powerUpGlyphs = [...]string{
	PowerUpSpeed:     "»",
	PowerUpMultishot: "≡",
	PowerUpShield:    "◊",
}

// Duration returns how long the effect lasts after a pickup.
func (t PowerUpType) Duration() time.Duration {
	return powerUpDurations[t]
}

func (t PowerUpType) String() string {
	if t < 0 || int(t) >= len(powerUpNames) {
		return "unknown"
	}
	return powerUpNames[t]
}

// Glyph returns the single-cell symbol used to draw the power-up.
func (t PowerUpType) Glyph() string {
	if t < 0 || int(t) >= len(powerUpGlyphs) {
		return "?"
	}
	return powerUpGlyphs[t]
}

// PowerUp is a falling pickup.
type PowerUp struct {
	ID   uint64
	X, Y float64 // Position; X is fixed at spawn
	Type PowerUpType
}

// NewPowerUp creates a power-up at the top of the play area.
func NewPowerUp(id uint64, t PowerUpType, x float64) *PowerUp {
	return &PowerUp{ID: id, X: x, Type: t}
}

// Update moves the power-up down at the fixed drift rate.
func (p *PowerUp) Update(_ UpdateContext) bool {
	p.Y += config.PowerUpFallPerTick
	return p.Y >= config.PowerUpMissY
}

// Draw renders the power-up as a small outlined box with its glyph on top.
func (p *PowerUp) Draw(ctx DrawContext) {
	const half = 2.0
	ctx.Canvas.DrawPolygon([]draw.Point{
		{X: p.X - half, Y: p.Y - half},
		{X: p.X + half, Y: p.Y - half},
		{X: p.X + half, Y: p.Y + half},
		{X: p.X - half, Y: p.Y + half},
	}, false)
	if ctx.Text == nil {
		return
	}
	col, row := ctx.Canvas.LogicalToTerminal(p.X, p.Y)
	ctx.Text.WriteAt(col, row, p.Type.Glyph())
	ctx.Canvas.MarkTextDirty(col, row, 1)
}
