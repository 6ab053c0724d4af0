package server

import (
	"time"

	"github.com/tomz197/arcade/internal/loop/config"
	"github.com/tomz197/arcade/internal/object"
)

// SessionEventKind identifies something that happened inside a session.
type SessionEventKind int

const (
	EnemyKilled SessionEventKind = iota
	PowerUpCollected
	EffectExpired
	SessionOver
	SessionRestarted
)

func (k SessionEventKind) String() string {
	switch k {
	case EnemyKilled:
		return "enemy killed"
	case PowerUpCollected:
		return "power-up collected"
	case EffectExpired:
		return "effect expired"
	case SessionOver:
		return "game over"
	case SessionRestarted:
		return "restart"
	default:
		return "unknown"
	}
}

// SessionEvent is reported to the session's event handler.
type SessionEvent struct {
	Kind    SessionEventKind
	At      time.Duration      // Session time of the event
	Score   int                // Score after the event
	Enemy   object.EnemyType   // Set for EnemyKilled
	PowerUp object.PowerUpType // Set for PowerUpCollected and EffectExpired
}

// Session is one game: the live entities, the score, the active effects
// and the timers that drive them. All state changes happen either inside
// a timer callback run by Advance or through the input methods, and the
// caller must serialize those calls (Server does this with its inbox).
type Session struct {
	timeline *Timeline
	rng      Rand
	onEvent  func(SessionEvent)

	enemies  []*object.Enemy
	bullets  []*object.Bullet
	powerUps []*object.PowerUp
	effects  map[object.PowerUpType]time.Duration // Type -> active-until

	phase      Phase
	score      int
	epoch      uint64 // Incremented on every restart
	restarts   int
	colorIndex int
	nextID     uint64

	playerX   float64
	areaWidth float64 // Game-area width in the pointer's units
}

// NewSession creates a running session. onEvent may be nil.
func NewSession(rng Rand, onEvent func(SessionEvent)) *Session {
	s := &Session{
		timeline:  NewTimeline(),
		rng:       rng,
		onEvent:   onEvent,
		effects:   make(map[object.PowerUpType]time.Duration),
		playerX:   config.PlayerStartX,
		areaWidth: config.DefaultPointerWidth,
	}
	s.startTimers()
	return s
}

// startTimers establishes the periodic rates. Registration order decides
// which handler runs first when two rates fall due together: spawns come
// before motion.
func (s *Session) startTimers() {
	s.timeline.Every(config.EnemySpawnInterval, s.spawnEnemy)
	s.timeline.Every(config.PowerUpSpawnInterval, s.spawnPowerUp)
	s.timeline.Every(config.MotionInterval, s.motionTick)
	s.timeline.Every(config.BulletInterval, s.bulletTick)
}

// Advance moves session time forward by d and runs every tick due in that
// window. While the session is over no timers are pending, so only the
// clock moves.
func (s *Session) Advance(d time.Duration) {
	s.timeline.Advance(d)
}

// Now returns the session time.
func (s *Session) Now() time.Duration {
	return s.timeline.Now()
}

// Phase returns the lifecycle state.
func (s *Session) Phase() Phase {
	return s.phase
}

// Score returns the current score.
func (s *Session) Score() int {
	return s.score
}

// Restart starts a new game after a game over. It is a no-op while the
// session is running.
func (s *Session) Restart() {
	if s.phase != GameOver {
		return
	}
	s.timeline.CancelAll()
	s.epoch++

	clear(s.enemies)
	clear(s.bullets)
	clear(s.powerUps)
	s.enemies = s.enemies[:0]
	s.bullets = s.bullets[:0]
	s.powerUps = s.powerUps[:0]
	clear(s.effects)

	s.score = 0
	s.playerX = config.PlayerStartX
	s.colorIndex = (s.colorIndex + 1) % config.GameOverPaletteSize
	s.restarts++
	s.phase = Running

	s.startTimers()
	s.emit(SessionEvent{Kind: SessionRestarted})
}

// endGame freezes the session. Called from inside the motion tick, which
// is why CancelAll also covers the running task.
func (s *Session) endGame() {
	s.phase = GameOver
	s.timeline.CancelAll()
	s.emit(SessionEvent{Kind: SessionOver})
}

// Snapshot copies the session state for the presentation layer.
func (s *Session) Snapshot() *Snapshot {
	snap := &Snapshot{
		Score:      s.score,
		Phase:      s.phase,
		PlayerX:    s.playerX,
		Enemies:    make([]object.Enemy, len(s.enemies)),
		Bullets:    make([]object.Bullet, len(s.bullets)),
		PowerUps:   make([]object.PowerUp, len(s.powerUps)),
		ColorIndex: s.colorIndex,
		Restarts:   s.restarts,
		Now:        s.Now(),
	}
	for i, e := range s.enemies {
		snap.Enemies[i] = *e
	}
	for i, b := range s.bullets {
		snap.Bullets[i] = *b
	}
	for i, p := range s.powerUps {
		snap.PowerUps[i] = *p
	}
	for _, t := range object.PowerUpTypes {
		if until, ok := s.effects[t]; ok {
			snap.Effects = append(snap.Effects, ActiveEffect{Type: t, Remaining: max(until-s.Now(), 0)})
		}
	}
	return snap
}

func (s *Session) emit(ev SessionEvent) {
	if s.onEvent == nil {
		return
	}
	ev.At = s.Now()
	ev.Score = s.score
	s.onEvent(ev)
}

func (s *Session) newID() uint64 {
	s.nextID++
	return s.nextID
}

// motionTick moves enemies and power-ups, ends the game if an enemy got
// past the player without a shield, then resolves collisions.
func (s *Session) motionTick() {
	ctx := object.UpdateContext{}

	breached := false
	for _, e := range s.enemies {
		e.Update(ctx)
		if e.Y > config.GameOverThresholdY {
			breached = true
		}
	}
	if breached && !s.effectActive(object.PowerUpShield) {
		s.endGame()
		return
	}

	kept := s.enemies[:0]
	for _, e := range s.enemies {
		if e.Y <= config.EnemyEscapeY {
			kept = append(kept, e)
		}
	}
	clear(s.enemies[len(kept):])
	s.enemies = kept

	keptPowerUps := s.powerUps[:0]
	for _, p := range s.powerUps {
		if !p.Update(ctx) {
			keptPowerUps = append(keptPowerUps, p)
		}
	}
	clear(s.powerUps[len(keptPowerUps):])
	s.powerUps = keptPowerUps

	s.resolveBulletHits()
	s.resolvePickups()
}

// bulletTick moves bullets and resolves the hits they score.
func (s *Session) bulletTick() {
	ctx := object.UpdateContext{SpeedBoost: s.effectActive(object.PowerUpSpeed)}

	kept := s.bullets[:0]
	for _, b := range s.bullets {
		if !b.Update(ctx) {
			kept = append(kept, b)
		}
	}
	clear(s.bullets[len(kept):])
	s.bullets = kept

	s.resolveBulletHits()
}
