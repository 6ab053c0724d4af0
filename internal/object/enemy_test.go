package object

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tomz197/arcade/internal/loop/config"
)

func TestZigzagXSwingsAroundOrigin(t *testing.T) {
	assert.InDelta(t, 50.0, ZigzagX(50, 0), 1e-9)

	for y := 0.0; y <= config.EnemyEscapeY; y += 0.5 {
		assert.InDelta(t, 50.0, ZigzagX(50, y), config.ZigzagAmplitude+1e-9)
	}
}

func TestZigzagXLeavesAreaNearEdge(t *testing.T) {
	minX := config.AreaWidth
	for y := 0.0; y <= config.EnemyEscapeY; y += 0.5 {
		minX = min(minX, ZigzagX(10, y))
	}
	assert.Less(t, minX, 0.0)
}
