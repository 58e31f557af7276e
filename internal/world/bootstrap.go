package world

import (
	"riverworld/internal/lsystem"
	"riverworld/internal/meshing"
	"riverworld/internal/profiling"
	"riverworld/internal/spatial"
)

// Rivers grows rivers into a scope of the world.
type Rivers interface {
	Update(scope spatial.Rect, t lsystem.Terrain) bool
}

// Bootstrap generates the starting region: a 4x4 block of chunks at the
// origin, the rivers running through it, decoration, weather and meshes.
// Chunks that already exist are kept. It returns the number of chunks
// created.
func (s *Store) Bootstrap(rivers Rivers) int {
	defer profiling.Track("world.Bootstrap")()
	region := spatial.Rect64(0, 0)
	created := 0
	for x := region.XMin; x <= region.XMax; x += ChunkSizeX {
		for z := region.ZMin; z <= region.ZMax; z += ChunkSizeZ {
			if s.lookup(x, z) != nil {
				continue
			}
			s.BuildChunk(x, z)
			created++
		}
	}
	if rivers != nil {
		rivers.Update(region, s)
	}
	for x := region.XMin; x <= region.XMax; x += ChunkSizeX {
		for z := region.ZMin; z <= region.ZMax; z += ChunkSizeZ {
			s.PlaceAssets(spatial.Rect16(x, z))
			s.BuildWeather(x, z)
		}
	}
	pool := meshing.NewWorkerPool(0)
	defer pool.Shutdown()
	meshed := s.RebuildStaleWith(pool)
	s.log.Info("bootstrap complete", "region", region.String(), "chunks", created, "meshed", meshed)
	return created
}
