package meshing

import (
	"testing"

	"riverworld/internal/registry"
)

func TestWorkerPoolKeepsJobOrder(t *testing.T) {
	pool := NewWorkerPool(2)
	defer pool.Shutdown()

	var jobs []MeshJob
	for i := 0; i < 6; i++ {
		g := &grid{}
		for y := 0; y <= i; y++ {
			g.set(0, y, 0, registry.BlockStone)
		}
		jobs = append(jobs, MeshJob{Key: int64(i), OriginX: i * SizeX, Source: g})
	}

	results, err := pool.BuildAll(jobs)
	if err != nil {
		t.Fatalf("BuildAll: %v", err)
	}
	if len(results) != len(jobs) {
		t.Fatalf("got %d results, want %d", len(results), len(jobs))
	}
	for i, res := range results {
		if res.Key != int64(i) {
			t.Fatalf("result %d has key %d", i, res.Key)
		}
		// a column of n stones shows 4n sides plus top and bottom
		if got, want := res.Mesh.Opaque.FaceCount(), 4*(i+1)+2; got != want {
			t.Errorf("job %d: got %d faces, want %d", i, got, want)
		}
	}
}

func TestWorkerPoolEmptyBatch(t *testing.T) {
	pool := NewWorkerPool(0)
	defer pool.Shutdown()
	if got, err := pool.BuildAll(nil); err != nil || len(got) != 0 {
		t.Fatalf("got %d results, err %v for no jobs", len(got), err)
	}
}

// brokenSource fails every read.
type brokenSource struct{}

func (brokenSource) BlockAt(int, int, int) registry.BlockType { panic("source released") }

func TestWorkerPoolReportsFailure(t *testing.T) {
	pool := NewWorkerPool(1)
	defer pool.Shutdown()

	jobs := []MeshJob{{Key: 1, Source: brokenSource{}}}
	results, err := pool.BuildAll(jobs)
	if err == nil {
		t.Fatal("expected an error from a failing job")
	}
	if len(results) != 1 || results[0].Mesh != nil {
		t.Fatalf("failed job should leave a nil mesh, got %+v", results)
	}
}
