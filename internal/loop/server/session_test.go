package server

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomz197/arcade/internal/loop/config"
	"github.com/tomz197/arcade/internal/object"
)

// fixedRand always returns the same values: every enemy spawns at the
// same place and power-ups never spawn with f >= 0.3.
type fixedRand struct {
	f float64
	n int
}

func (r fixedRand) Float64() float64 { return r.f }
func (r fixedRand) Intn(n int) int   { return r.n % n }

// farRight spawns basic enemies at x=89.2 and no power-ups, away from
// anything a test does near the middle of the area.
var farRight = fixedRand{f: 0.99, n: 0}

type eventLog []SessionEvent

func (l *eventLog) record(ev SessionEvent) { *l = append(*l, ev) }

func (l eventLog) count(kind SessionEventKind) int {
	n := 0
	for _, ev := range l {
		if ev.Kind == kind {
			n++
		}
	}
	return n
}

// newQuietSession returns a running session with no timers, so tests can
// drive single ticks by hand.
func newQuietSession(events *eventLog) *Session {
	s := &Session{
		timeline:  NewTimeline(),
		rng:       farRight,
		effects:   make(map[object.PowerUpType]time.Duration),
		playerX:   config.PlayerStartX,
		areaWidth: config.DefaultPointerWidth,
	}
	if events != nil {
		s.onEvent = events.record
	}
	return s
}

func TestNewSessionInitialState(t *testing.T) {
	s := NewSession(farRight, nil)
	snap := s.Snapshot()

	assert.Equal(t, Running, snap.Phase)
	assert.Zero(t, snap.Score)
	assert.Equal(t, 50.0, snap.PlayerX)
	assert.Empty(t, snap.Enemies)
	assert.Empty(t, snap.Bullets)
	assert.Empty(t, snap.PowerUps)
	assert.Empty(t, snap.Effects)
	assert.Equal(t, 4, s.timeline.Pending())
}

func TestBulletKillsBasicEnemy(t *testing.T) {
	var events eventLog
	s := NewSession(farRight, events.record)
	s.enemies = append(s.enemies, object.NewEnemy(s.newID(), object.EnemyBasic, 50))

	s.SetPointerPosition(50)
	s.RequestShoot()
	require.Len(t, s.bullets, 1)
	assert.Equal(t, 85.0, s.bullets[0].Y)

	s.Advance(time.Second)

	assert.Empty(t, s.enemies)
	assert.Empty(t, s.bullets)
	assert.Equal(t, 10, s.Score())
	require.Equal(t, 1, events.count(EnemyKilled))
	assert.Equal(t, object.EnemyBasic, events[0].Enemy)
	assert.Equal(t, 10, events[0].Score)
}

func TestTankTakesThreeHitsAndScoresOnce(t *testing.T) {
	s := newQuietSession(nil)
	tank := object.NewEnemy(s.newID(), object.EnemyTank, 40)
	tank.Y = 30
	s.enemies = append(s.enemies, tank)

	for hit := 1; hit <= 3; hit++ {
		s.bullets = append(s.bullets, object.NewBullet(s.newID(), 46, 36))
		s.resolveBulletHits()

		assert.Empty(t, s.bullets, "bullet consumed on hit %d", hit)
		if hit < 3 {
			require.Len(t, s.enemies, 1)
			assert.Equal(t, 3-hit, s.enemies[0].HP)
			assert.Zero(t, s.Score())
		}
	}
	assert.Empty(t, s.enemies)
	assert.Equal(t, 50, s.Score())
}

func TestBulletHitsFirstEnemyOnly(t *testing.T) {
	s := newQuietSession(nil)
	first := object.NewEnemy(s.newID(), object.EnemyBasic, 50)
	second := object.NewEnemy(s.newID(), object.EnemyFast, 52)
	first.Y, second.Y = 20, 20
	s.enemies = append(s.enemies, first, second)
	s.bullets = append(s.bullets, object.NewBullet(s.newID(), 51, 21))

	s.resolveBulletHits()

	require.Len(t, s.enemies, 1)
	assert.Equal(t, second.ID, s.enemies[0].ID)
	assert.Equal(t, 10, s.Score())
}

func TestKilledEnemyDoesNotAbsorbLaterBullets(t *testing.T) {
	s := newQuietSession(nil)
	e := object.NewEnemy(s.newID(), object.EnemyBasic, 50)
	e.Y = 20
	s.enemies = append(s.enemies, e)
	s.bullets = append(s.bullets,
		object.NewBullet(s.newID(), 50, 20),
		object.NewBullet(s.newID(), 50, 21),
	)

	s.resolveBulletHits()

	assert.Empty(t, s.enemies)
	require.Len(t, s.bullets, 1)
	assert.Equal(t, 21.0, s.bullets[0].Y)
	assert.Equal(t, 10, s.Score())
}

func TestZigzagFollowsSine(t *testing.T) {
	e := object.NewEnemy(1, object.EnemyZigzag, 30)
	for i := 0; i < 60; i++ {
		e.Update(object.UpdateContext{})
		want := 30 + 15*math.Sin(0.1*e.Y)
		assert.InDelta(t, want, e.X, 1e-9, "y=%v", e.Y)
	}
	assert.InDelta(t, 150.0, e.Y, 1e-9)
}

func TestEnemyCrossingThresholdEndsGame(t *testing.T) {
	var events eventLog
	s := NewSession(farRight, events.record)
	e := object.NewEnemy(s.newID(), object.EnemyBasic, 50)
	e.Y = 84
	s.enemies = append(s.enemies, e)

	s.Advance(config.MotionInterval)
	assert.Equal(t, GameOver, s.Phase())
	assert.Zero(t, s.timeline.Pending())

	s.Advance(10 * time.Second)
	assert.Equal(t, 1, events.count(SessionOver))
}

func TestShieldPreventsGameOver(t *testing.T) {
	s := newQuietSession(nil)
	s.activate(object.PowerUpShield)
	e := object.NewEnemy(s.newID(), object.EnemyBasic, 50)
	e.Y = 84
	s.enemies = append(s.enemies, e)

	s.motionTick()
	assert.Equal(t, Running, s.Phase())
	require.Len(t, s.enemies, 1)
	assert.Equal(t, 86.0, s.enemies[0].Y)

	s.enemies[0].Y = 99
	s.motionTick()
	assert.Empty(t, s.enemies, "escaped enemy discarded")
	assert.Equal(t, Running, s.Phase())
}

func TestTimersStopAfterGameOver(t *testing.T) {
	s := NewSession(farRight, nil)
	s.Advance(5 * time.Second)
	for s.Phase() == Running {
		s.Advance(config.MotionInterval)
	}
	before := s.Snapshot()

	s.Advance(30 * time.Second)
	after := s.Snapshot()

	assert.Equal(t, before.Enemies, after.Enemies)
	assert.Equal(t, before.Bullets, after.Bullets)
	assert.Equal(t, before.Score, after.Score)
	assert.Equal(t, before.Now+30*time.Second, after.Now)
}

func TestInputIgnoredAfterGameOver(t *testing.T) {
	s := newQuietSession(nil)
	s.phase = GameOver

	s.SetPointerPosition(10)
	s.RequestShoot()

	assert.Equal(t, 50.0, s.PlayerX())
	assert.Empty(t, s.bullets)
}

func TestRestartWhileRunningIsNoop(t *testing.T) {
	s := NewSession(farRight, nil)
	s.Advance(2 * time.Second)
	s.RequestShoot()
	before := s.Snapshot()

	s.Restart()

	assert.Equal(t, before, s.Snapshot())
}

func TestRestartResetsSession(t *testing.T) {
	var events eventLog
	s := NewSession(farRight, events.record)
	s.SetPointerPosition(20)
	s.activate(object.PowerUpMultishot)
	s.RequestShoot()
	s.score = 120
	s.powerUps = append(s.powerUps, object.NewPowerUp(s.newID(), object.PowerUpSpeed, 30))
	s.enemies = append(s.enemies, &object.Enemy{ID: s.newID(), X: 70, Y: 84, HP: 1})
	s.Advance(config.MotionInterval)
	require.Equal(t, GameOver, s.Phase())

	s.Restart()

	snap := s.Snapshot()
	assert.Equal(t, Running, snap.Phase)
	assert.Zero(t, snap.Score)
	assert.Equal(t, 50.0, snap.PlayerX)
	assert.Empty(t, snap.Enemies)
	assert.Empty(t, snap.Bullets)
	assert.Empty(t, snap.PowerUps)
	assert.Empty(t, snap.Effects)
	assert.Equal(t, 1, snap.ColorIndex)
	assert.Equal(t, 1, snap.Restarts)
	assert.Equal(t, 1, events.count(SessionRestarted))

	s.Advance(config.EnemySpawnInterval)
	assert.Len(t, s.enemies, 1, "spawning resumed")
}

func TestColorIndexWrapsAroundPalette(t *testing.T) {
	s := newQuietSession(nil)
	for i := 0; i < config.GameOverPaletteSize; i++ {
		s.phase = GameOver
		s.Restart()
	}
	assert.Zero(t, s.colorIndex)
	assert.Equal(t, config.GameOverPaletteSize, s.restarts)
}

func TestShootSingleAndMultishot(t *testing.T) {
	s := newQuietSession(nil)
	s.SetPointerPosition(40)

	s.RequestShoot()
	require.Len(t, s.bullets, 1)
	assert.Equal(t, 40.0, s.bullets[0].X)

	s.bullets = nil
	s.activate(object.PowerUpMultishot)
	s.RequestShoot()
	require.Len(t, s.bullets, 3)
	for i, want := range []float64{37, 40, 43} {
		assert.Equal(t, want, s.bullets[i].X)
		assert.Equal(t, 85.0, s.bullets[i].Y)
	}
}

func TestSpeedEffectBoostsBullets(t *testing.T) {
	s := newQuietSession(nil)
	s.RequestShoot()
	s.bulletTick()
	assert.Equal(t, 81.0, s.bullets[0].Y)

	s.activate(object.PowerUpSpeed)
	s.bulletTick()
	assert.Equal(t, 75.0, s.bullets[0].Y)
}

func TestMissedEntitiesDiscarded(t *testing.T) {
	s := newQuietSession(nil)
	s.bullets = append(s.bullets, object.NewBullet(s.newID(), 50, 3))
	p := object.NewPowerUp(s.newID(), object.PowerUpSpeed, 20)
	p.Y = 98.5
	s.powerUps = append(s.powerUps, p)

	s.bulletTick()
	s.motionTick()

	assert.Empty(t, s.bullets)
	assert.Empty(t, s.powerUps)
}

func TestPointerConvertsPixels(t *testing.T) {
	s := newQuietSession(nil)
	s.SetAreaWidth(200)

	s.SetPointerPosition(100)
	assert.Equal(t, 50.0, s.PlayerX())

	s.SetPointerPosition(0)
	assert.Equal(t, 5.0, s.PlayerX())

	s.SetPointerPosition(1000)
	assert.Equal(t, 95.0, s.PlayerX())

	s.SetAreaWidth(0)
	s.SetPointerPosition(50)
	assert.Equal(t, 25.0, s.PlayerX())
}

func TestShieldPickupAndExpiry(t *testing.T) {
	var events eventLog
	s := NewSession(farRight, events.record)
	s.SetPointerPosition(50)
	s.powerUps = append(s.powerUps, object.NewPowerUp(s.newID(), object.PowerUpShield, 50))

	s.Advance(5100 * time.Millisecond)
	require.Len(t, s.powerUps, 1)
	assert.False(t, s.Snapshot().HasEffect(object.PowerUpShield))

	s.Advance(config.MotionInterval)
	assert.Empty(t, s.powerUps)
	snap := s.Snapshot()
	require.True(t, snap.HasEffect(object.PowerUpShield))
	assert.Equal(t, config.ShieldDuration, snap.Effects[0].Remaining)
	assert.Equal(t, 1, events.count(PowerUpCollected))

	s.Advance(config.ShieldDuration)
	assert.False(t, s.Snapshot().HasEffect(object.PowerUpShield))
	assert.Equal(t, 1, events.count(EffectExpired))
}

func TestRepeatPickupExtendsEffect(t *testing.T) {
	var events eventLog
	s := newQuietSession(&events)

	s.activate(object.PowerUpShield)
	s.Advance(3 * time.Second)
	s.activate(object.PowerUpShield)

	s.Advance(2 * time.Second)
	assert.True(t, s.effectActive(object.PowerUpShield), "first expiry must not end the refreshed effect")

	s.Advance(2 * time.Second)
	assert.False(t, s.effectActive(object.PowerUpShield))
	assert.Equal(t, 1, events.count(EffectExpired))
}

func TestStaleExpiryIgnored(t *testing.T) {
	s := newQuietSession(nil)
	s.phase = GameOver
	s.Restart()
	require.Equal(t, uint64(1), s.epoch)

	s.effects[object.PowerUpShield] = 0
	s.expire(object.PowerUpShield, 0)
	assert.True(t, s.effectActive(object.PowerUpShield))

	s.expire(object.PowerUpShield, 1)
	assert.False(t, s.effectActive(object.PowerUpShield))
}

func TestSpawnEnemyUsesTableAndRange(t *testing.T) {
	s := newQuietSession(nil)
	s.rng = fixedRand{f: 0.5, n: 4}
	s.spawnEnemy()

	require.Len(t, s.enemies, 1)
	e := s.enemies[0]
	assert.Equal(t, object.EnemyTank, e.Type)
	assert.Equal(t, 3, e.HP)
	assert.Equal(t, 50.0, e.X)
	assert.Equal(t, 50.0, e.OriginX)
	assert.Zero(t, e.Y)
}

func TestSpawnDistribution(t *testing.T) {
	s := newQuietSession(nil)
	s.rng = NewRand(42)

	const draws = 5000
	for i := 0; i < draws; i++ {
		s.spawnEnemy()
		s.spawnPowerUp()
	}

	counts := map[object.EnemyType]int{}
	for _, e := range s.enemies {
		counts[e.Type]++
		assert.GreaterOrEqual(t, e.X, 10.0)
		assert.LessOrEqual(t, e.X, 90.0)
	}
	assert.InDelta(t, draws*2/5, counts[object.EnemyBasic], 200)
	for _, typ := range []object.EnemyType{object.EnemyFast, object.EnemyZigzag, object.EnemyTank} {
		assert.InDelta(t, draws/5, counts[typ], 150, typ.String())
	}

	assert.InDelta(t, draws*3/10, len(s.powerUps), 200)
}

func TestInvariantsHoldUnderRandomPlay(t *testing.T) {
	rng := NewRand(7)
	s := NewSession(NewRand(99), nil)

	lastScore := 0
	for step := 0; step < 4000; step++ {
		s.SetPointerPosition(rng.Float64() * 100)
		if rng.Intn(3) == 0 {
			s.RequestShoot()
		}
		s.Advance(config.BulletInterval)

		for _, e := range s.enemies {
			require.GreaterOrEqual(t, e.HP, 1)
		}
		if s.Phase() == GameOver {
			s.Restart()
			require.Zero(t, s.Score())
			lastScore = 0
			continue
		}
		require.GreaterOrEqual(t, s.Score(), lastScore)
		lastScore = s.Score()
	}
}
