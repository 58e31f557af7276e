package physics

import (
	"math"

	"riverworld/internal/profiling"
	"riverworld/internal/registry"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	// MaxReachDistance is how far a click ray travels.
	MaxReachDistance = 10.0
	// MinPlaceDistance keeps placed blocks out of the viewer's own cell.
	MinPlaceDistance = 2.0
)

// BlockSource answers world block queries.
type BlockSource interface {
	GetBlockAt(x, y, z int) registry.BlockType
}

// RaycastResult stores the result of a raycast operation
type RaycastResult struct {
	HitPosition      [3]int
	AdjacentPosition [3]int // last empty cell before the hit
	Distance         float32
	Hit              bool
}

// Raycast walks the voxel grid from start along direction, one cell
// boundary at a time, and stops at the first non-empty cell. A step is
// taken while less than maxDist has been travelled, so the cell entered
// by the step that crosses maxDist is still tested and Distance may
// exceed maxDist by up to one cell. A zero direction never hits.
func Raycast(start, direction mgl32.Vec3, maxDist float32, src BlockSource) RaycastResult {
	defer profiling.Track("physics.Raycast")()
	result := RaycastResult{}
	if direction.Len() == 0 || maxDist <= 0 {
		return result
	}
	dir := direction.Normalize()

	var cell, step [3]int
	var tMax, tDelta [3]float32
	for i := 0; i < 3; i++ {
		cell[i] = int(math.Floor(float64(start[i])))
		frac := start[i] - float32(cell[i])
		switch {
		case dir[i] > 0:
			step[i] = 1
			tMax[i] = (1 - frac) / dir[i]
			tDelta[i] = 1 / dir[i]
		case dir[i] < 0:
			step[i] = -1
			tMax[i] = frac / -dir[i]
			tDelta[i] = -1 / dir[i]
		default:
			tMax[i] = float32(math.Inf(1))
			tDelta[i] = float32(math.Inf(1))
		}
	}

	var travelled float32
	for travelled < maxDist {
		axis := 0
		if tMax[1] < tMax[axis] {
			axis = 1
		}
		if tMax[2] < tMax[axis] {
			axis = 2
		}
		t := tMax[axis]
		prev := cell
		cell[axis] += step[axis]
		tMax[axis] += tDelta[axis]

		if src.GetBlockAt(cell[0], cell[1], cell[2]) != registry.BlockEmpty {
			result.HitPosition = cell
			result.AdjacentPosition = prev
			result.Distance = t
			result.Hit = true
			return result
		}
		travelled = t
	}
	return result
}
