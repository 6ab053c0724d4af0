package server

import "github.com/tomz197/arcade/internal/object"

// activate turns on an effect for its duration. Picking up a type that is
// already active moves its deadline out to the later of the two; the
// effect is never shortened.
func (s *Session) activate(t object.PowerUpType) {
	until := s.Now() + t.Duration()
	if cur, ok := s.effects[t]; ok && cur > until {
		until = cur
	}
	s.effects[t] = until

	epoch := s.epoch
	s.timeline.After(t.Duration(), func() { s.expire(t, epoch) })
	s.emit(SessionEvent{Kind: PowerUpCollected, PowerUp: t})
}

// expire removes the effect once its deadline has passed. Expiries left
// over from an earlier game, or from a pickup that has since been
// extended, do nothing.
func (s *Session) expire(t object.PowerUpType, epoch uint64) {
	if epoch != s.epoch {
		return
	}
	until, ok := s.effects[t]
	if !ok || s.Now() < until {
		return
	}
	delete(s.effects, t)
	s.emit(SessionEvent{Kind: EffectExpired, PowerUp: t})
}

func (s *Session) effectActive(t object.PowerUpType) bool {
	_, ok := s.effects[t]
	return ok
}
