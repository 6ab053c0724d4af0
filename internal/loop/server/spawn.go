package server

import (
	"math/rand"
	"time"

	"github.com/tomz197/arcade/internal/loop/config"
	"github.com/tomz197/arcade/internal/object"
)

// Rand is the random source used for spawning. *math/rand.Rand satisfies it.
type Rand interface {
	Float64() float64
	Intn(n int) int
}

// NewRand returns a seeded source. A zero seed picks one from the clock.
func NewRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// enemySpawnTable is drawn from uniformly; basic appears twice so it is
// twice as likely as each other type.
var enemySpawnTable = [...]object.EnemyType{
	object.EnemyBasic,
	object.EnemyBasic,
	object.EnemyFast,
	object.EnemyZigzag,
	object.EnemyTank,
}

func (s *Session) spawnX() float64 {
	return config.SpawnMinX + s.rng.Float64()*(config.SpawnMaxX-config.SpawnMinX)
}

func (s *Session) spawnEnemy() {
	t := enemySpawnTable[s.rng.Intn(len(enemySpawnTable))]
	s.enemies = append(s.enemies, object.NewEnemy(s.newID(), t, s.spawnX()))
}

func (s *Session) spawnPowerUp() {
	if s.rng.Float64() >= config.PowerUpSpawnChance {
		return
	}
	t := object.PowerUpTypes[s.rng.Intn(len(object.PowerUpTypes))]
	s.powerUps = append(s.powerUps, object.NewPowerUp(s.newID(), t, s.spawnX()))
}
