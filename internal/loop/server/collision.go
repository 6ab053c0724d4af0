package server

import (
	"github.com/tomz197/arcade/internal/loop/config"
	"github.com/tomz197/arcade/internal/physics"
)

// resolveBulletHits lets every bullet damage at most one enemy. Enemies are
// tried in spawn order and the first one in range takes the hit. A killed
// enemy scores once and cannot absorb later bullets in the same pass.
func (s *Session) resolveBulletHits() {
	if len(s.bullets) == 0 || len(s.enemies) == 0 {
		return
	}

	killed := false
	kept := s.bullets[:0]
	for _, b := range s.bullets {
		consumed := false
		for _, e := range s.enemies {
			if e.HP <= 0 {
				continue
			}
			if !physics.WithinBox(b.X, b.Y, e.X, e.Y, e.HitRadius()) {
				continue
			}
			consumed = true
			if e.Hit() {
				killed = true
				s.score += e.Points()
				s.emit(SessionEvent{Kind: EnemyKilled, Enemy: e.Type})
			}
			break
		}
		if !consumed {
			kept = append(kept, b)
		}
	}
	clear(s.bullets[len(kept):])
	s.bullets = kept

	if !killed {
		return
	}
	alive := s.enemies[:0]
	for _, e := range s.enemies {
		if e.HP > 0 {
			alive = append(alive, e)
		}
	}
	clear(s.enemies[len(alive):])
	s.enemies = alive
}

// resolvePickups collects every power-up that reached the player.
func (s *Session) resolvePickups() {
	kept := s.powerUps[:0]
	for _, p := range s.powerUps {
		if physics.WithinBox(p.X, p.Y, s.playerX, config.PlayerY, config.PickupRadius) {
			s.activate(p.Type)
			continue
		}
		kept = append(kept, p)
	}
	clear(s.powerUps[len(kept):])
	s.powerUps = kept
}
