package physics

import (
	"testing"

	"riverworld/internal/registry"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

type blockSet map[[3]int]registry.BlockType

func (b blockSet) GetBlockAt(x, y, z int) registry.BlockType { return b[[3]int{x, y, z}] }

func TestRaycast(t *testing.T) {
	blocks := blockSet{
		{0, 2, 0}:   registry.BlockStone,
		{1, 0, 0}:   registry.BlockGrass,
		{-1, 0, -4}: registry.BlockWater,
	}

	tests := []struct {
		name         string
		start        mgl32.Vec3
		direction    mgl32.Vec3
		maxDist      float32
		wantHit      bool
		wantHitPos   [3]int
		wantAdjacent [3]int
		wantDistance float32
	}{
		{
			name:         "straight down onto a block",
			start:        mgl32.Vec3{0.5, 5.5, 0.5},
			direction:    mgl32.Vec3{0, -1, 0},
			maxDist:      MaxReachDistance,
			wantHit:      true,
			wantHitPos:   [3]int{0, 2, 0},
			wantAdjacent: [3]int{0, 3, 0},
			wantDistance: 2.5,
		},
		{
			name:         "side of a block",
			start:        mgl32.Vec3{-2.5, 0.5, 0.5},
			direction:    mgl32.Vec3{2, 0, 0},
			maxDist:      MaxReachDistance,
			wantHit:      true,
			wantHitPos:   [3]int{1, 0, 0},
			wantAdjacent: [3]int{0, 0, 0},
			wantDistance: 3.5,
		},
		{
			name:      "block beyond reach",
			start:     mgl32.Vec3{-2.5, 0.5, 0.5},
			direction: mgl32.Vec3{1, 0, 0},
			maxDist:   2,
		},
		{
			name:         "step crossing the reach is tested",
			start:        mgl32.Vec3{-2.5, 0.5, 0.5},
			direction:    mgl32.Vec3{1, 0, 0},
			maxDist:      3,
			wantHit:      true,
			wantHitPos:   [3]int{1, 0, 0},
			wantAdjacent: [3]int{0, 0, 0},
			wantDistance: 3.5,
		},
		{
			name:         "negative coordinates",
			start:        mgl32.Vec3{-0.5, 0.5, -0.5},
			direction:    mgl32.Vec3{0, 0, -1},
			maxDist:      MaxReachDistance,
			wantHit:      true,
			wantHitPos:   [3]int{-1, 0, -4},
			wantAdjacent: [3]int{-1, 0, -3},
			wantDistance: 2.5,
		},
		{
			name:      "empty space",
			start:     mgl32.Vec3{5, 5, 5},
			direction: mgl32.Vec3{1, 0, 0},
			maxDist:   MaxReachDistance,
		},
		{
			name:      "zero direction",
			start:     mgl32.Vec3{0.5, 5.5, 0.5},
			direction: mgl32.Vec3{},
			maxDist:   MaxReachDistance,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Raycast(tt.start, tt.direction, tt.maxDist, blocks)
			assert.Equal(t, tt.wantHit, res.Hit)
			if !tt.wantHit {
				return
			}
			assert.Equal(t, tt.wantHitPos, res.HitPosition)
			assert.Equal(t, tt.wantAdjacent, res.AdjacentPosition)
			assert.InDelta(t, tt.wantDistance, res.Distance, 1e-4)
		})
	}
}

func TestRaycastSkipsStartCell(t *testing.T) {
	blocks := blockSet{{0, 0, 0}: registry.BlockStone}
	res := Raycast(mgl32.Vec3{0.5, 0.5, 0.5}, mgl32.Vec3{1, 0, 0}, MaxReachDistance, blocks)
	assert.False(t, res.Hit)
}
