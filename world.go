// Package climber provides the geometry backend the locomotion solver queries: a set of
// static colliders answering sphere casts, sphere overlaps and penetration queries.
package climber

import (
	"sync"

	"github.com/akmonengine/climber/actor"
)

const DEFAULT_WORKERS = 1

// World is a collection of static colliders. Queries may run concurrently with each other
// and with AddCollider, RemoveCollider and Rebuild. Moving a collider's transform is not
// synchronized: do it between queries, then call MarkDirty.
type World struct {
	Colliders   []*actor.Collider
	SpatialGrid *SpatialGrid
	Workers     int

	// planes and other infinite shapes skip the grid
	unbounded []int
	dirty     bool
	mu        sync.RWMutex
}

// NewWorld creates an empty world whose broad phase uses the given grid resolution
func NewWorld(cellSize float64, numCells int) *World {
	return &World{
		SpatialGrid: NewSpatialGrid(cellSize, numCells),
		Workers:     DEFAULT_WORKERS,
	}
}

// AddCollider adds a collider to the world
func (w *World) AddCollider(collider *actor.Collider) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.Colliders = append(w.Colliders, collider)
	w.dirty = true
}

// RemoveCollider removes a collider from the world
func (w *World) RemoveCollider(collider *actor.Collider) {
	w.mu.Lock()
	defer w.mu.Unlock()

	k := -1
	for i, c := range w.Colliders {
		if c == collider {
			k = i
			break
		}
	}

	if k != -1 {
		w.Colliders = append(w.Colliders[:k], w.Colliders[k+1:]...)
		w.dirty = true
	}
}

// MarkDirty schedules a broad phase rebuild, needed after moving a collider
func (w *World) MarkDirty() {
	w.mu.Lock()
	w.dirty = true
	w.mu.Unlock()
}

// Rebuild recomputes every collider's bounds and refills the broad phase
func (w *World) Rebuild() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.Workers = max(DEFAULT_WORKERS, w.Workers)

	task(w.Workers, w.Colliders, func(c *actor.Collider) {
		c.Shape.ComputeAABB(c.Transform)
	})

	w.SpatialGrid.Clear()
	w.unbounded = w.unbounded[:0]
	for i, c := range w.Colliders {
		if !c.Shape.Bounded() {
			w.unbounded = append(w.unbounded, i)
			continue
		}
		w.SpatialGrid.Insert(i, c.Shape.GetAABB())
	}
	w.SpatialGrid.SortCells()

	w.dirty = false
}

// candidates returns the colliders whose bounds may touch the AABB, in insertion order
func (w *World) candidates(aabb actor.AABB, filter actor.Filter) []*actor.Collider {
	w.mu.RLock()
	if w.dirty {
		w.mu.RUnlock()
		w.Rebuild()
		w.mu.RLock()
	}
	defer w.mu.RUnlock()

	indices := w.SpatialGrid.Query(aabb)
	result := make([]*actor.Collider, 0, len(indices)+len(w.unbounded))

	i, j := 0, 0
	for i < len(indices) || j < len(w.unbounded) {
		var idx int
		if j >= len(w.unbounded) || (i < len(indices) && indices[i] < w.unbounded[j]) {
			idx = indices[i]
			i++
		} else {
			idx = w.unbounded[j]
			j++
		}

		c := w.Colliders[idx]
		if !filter.Accepts(c) || (c.Shape.Bounded() && !c.Shape.GetAABB().Overlaps(aabb)) {
			continue
		}
		result = append(result, c)
	}

	return result
}
