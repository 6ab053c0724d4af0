package server

import (
	"github.com/tomz197/arcade/internal/loop/config"
	"github.com/tomz197/arcade/internal/object"
	"github.com/tomz197/arcade/internal/physics"
)

// SetAreaWidth sets the width of the game area in the same units the
// pointer reports (pixels, terminal columns). Non-positive widths are ignored.
func (s *Session) SetAreaWidth(width float64) {
	if width > 0 {
		s.areaWidth = width
	}
}

// SetPointerPosition moves the player under the pointer. x is measured
// from the left edge of the game area. Ignored after a game over.
func (s *Session) SetPointerPosition(x float64) {
	if s.phase != Running {
		return
	}
	pct := x / s.areaWidth * config.AreaWidth
	s.playerX = physics.Clamp(pct, config.PlayerMinX, config.PlayerMaxX)
}

// PlayerX returns the player's horizontal position in percent.
func (s *Session) PlayerX() float64 {
	return s.playerX
}

// RequestShoot fires from the player's position: one bullet, or a spread
// of three while multishot is active. Ignored after a game over.
func (s *Session) RequestShoot() {
	if s.phase != Running {
		return
	}
	if s.effectActive(object.PowerUpMultishot) {
		for _, dx := range [...]float64{-config.MultishotSpread, 0, config.MultishotSpread} {
			s.fire(s.playerX + dx)
		}
		return
	}
	s.fire(s.playerX)
}

func (s *Session) fire(x float64) {
	s.bullets = append(s.bullets, object.NewBullet(s.newID(), x, config.PlayerY))
}
