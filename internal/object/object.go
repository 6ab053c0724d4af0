// Package object defines the game entities and their per-tick motion rules.
package object

import "github.com/tomz197/arcade/internal/draw"

// UpdateContext provides all the information an object needs during update.
type UpdateContext struct {
	SpeedBoost bool // Speed effect active
}

// DrawContext provides drawing resources for objects.
type DrawContext struct {
	Canvas *draw.Canvas    // High-resolution canvas (2x vertical)
	Text   draw.TextWriter // Glyph overlays, drawn after the canvas
}

// Object is a drawable entity that moves once per tick of its rate.
type Object interface {
	// Update advances the object by one tick. Returns true if the object
	// left the play area and should be removed.
	Update(ctx UpdateContext) (remove bool)

	// Draw draws the object. Use ctx.Canvas for shapes, ctx.Text for glyphs.
	Draw(ctx DrawContext)
}

// Compile-time checks that every entity is an Object.
var (
	_ Object = (*Enemy)(nil)
	_ Object = (*Bullet)(nil)
	_ Object = (*PowerUp)(nil)
)
