package meshing

import (
	"fmt"
	"runtime"

	"github.com/alitto/pond/v2"
)

// MeshJob represents a meshing job request
type MeshJob struct {
	Key              int64
	OriginX, OriginZ int
	Source           Source
	Neighbors        Neighbors
}

// MeshResult contains the result of a meshing operation
type MeshResult struct {
	Key  int64
	Mesh *ChunkMesh
}

// WorkerPool builds batches of chunk meshes in parallel. Sources must be
// safe for concurrent reads.
type WorkerPool struct {
	pool pond.Pool
}

// NewWorkerPool creates a new mesh worker pool. workers <= 0 uses one
// worker per CPU.
func NewWorkerPool(workers int) *WorkerPool {
	if workers <= 0 {
		workers = max(runtime.NumCPU(), 1)
	}
	return &WorkerPool{pool: pond.NewPool(workers)}
}

// BuildAll meshes every job and returns results in job order. If a job
// fails the first error is returned and the results of failed or skipped
// jobs carry a nil Mesh.
func (p *WorkerPool) BuildAll(jobs []MeshJob) ([]MeshResult, error) {
	results := make([]MeshResult, len(jobs))
	group := p.pool.NewGroup()
	for i := range jobs {
		job := jobs[i]
		group.Submit(func() {
			results[i] = MeshResult{
				Key:  job.Key,
				Mesh: Build(job.OriginX, job.OriginZ, job.Source, job.Neighbors),
			}
		})
	}
	if err := group.Wait(); err != nil {
		return results, fmt.Errorf("build meshes: %w", err)
	}
	return results, nil
}

// Shutdown gracefully shuts down the worker pool
func (p *WorkerPool) Shutdown() {
	p.pool.StopAndWait()
}
