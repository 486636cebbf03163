package climber

import (
	"math"
	"slices"
	"sort"

	"github.com/akmonengine/climber/actor"
	"github.com/go-gl/mathgl/mgl64"
)

// CellKey is the integer coordinate of a grid cell
type CellKey struct {
	X, Y, Z int
}

// Cell holds the indices of the colliders overlapping it
type Cell struct {
	indices []int
}

// SpatialGrid is a uniform hashed grid used as the broad phase of geometry queries.
// Several cells may hash to the same slot; narrow phases filter the extra candidates.
type SpatialGrid struct {
	cellSize float64
	cells    []Cell
	cellMask int
}

// NewSpatialGrid creates a grid; numCells is rounded up to a power of two
func NewSpatialGrid(cellSize float64, numCells int) *SpatialGrid {
	numCells = nextPowerOfTwo(numCells)

	cells := make([]Cell, numCells)
	for i := range cells {
		cells[i].indices = make([]int, 0, 8)
	}

	return &SpatialGrid{
		cellSize: cellSize,
		cells:    cells,
		cellMask: numCells - 1,
	}
}

func nextPowerOfTwo(n int) int {
	if n <= 0 {
		return 1
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n++
	return n
}

// Insert adds index to every cell the AABB covers
func (sg *SpatialGrid) Insert(index int, aabb actor.AABB) {
	sg.visitCells(aabb, func(cellIdx int) {
		cell := &sg.cells[cellIdx]
		if n := len(cell.indices); n > 0 && cell.indices[n-1] == index {
			return
		}
		cell.indices = append(cell.indices, index)
	})
}

func (sg *SpatialGrid) Clear() {
	for i := range sg.cells {
		sg.cells[i].indices = sg.cells[i].indices[:0]
	}
}

func (sg *SpatialGrid) SortCells() {
	for i := range sg.cells {
		if len(sg.cells[i].indices) > 1 {
			sort.Ints(sg.cells[i].indices)
		}
	}
}

// Query returns the sorted, de-duplicated indices whose cells intersect the AABB.
// It only reads the grid, so queries may run concurrently between rebuilds.
func (sg *SpatialGrid) Query(aabb actor.AABB) []int {
	var result []int

	sg.visitCells(aabb, func(cellIdx int) {
		result = append(result, sg.cells[cellIdx].indices...)
	})

	sort.Ints(result)
	return slices.Compact(result)
}

// visitCells calls fn for each cell slot covered by the AABB. Boxes spanning more cells
// than the grid holds visit every slot once.
func (sg *SpatialGrid) visitCells(aabb actor.AABB, fn func(cellIdx int)) {
	minCell := sg.worldToCell(aabb.Min)
	maxCell := sg.worldToCell(aabb.Max)

	span := float64(maxCell.X-minCell.X+1) * float64(maxCell.Y-minCell.Y+1) * float64(maxCell.Z-minCell.Z+1)
	if span >= float64(len(sg.cells)) {
		for i := range sg.cells {
			fn(i)
		}
		return
	}

	for x := minCell.X; x <= maxCell.X; x++ {
		for y := minCell.Y; y <= maxCell.Y; y++ {
			for z := minCell.Z; z <= maxCell.Z; z++ {
				fn(sg.hashCell(CellKey{x, y, z}))
			}
		}
	}
}

// worldToCell converts a world position to cell coordinates
func (sg *SpatialGrid) worldToCell(pos mgl64.Vec3) CellKey {
	return CellKey{
		X: clampCell(math.Floor(pos.X() / sg.cellSize)),
		Y: clampCell(math.Floor(pos.Y() / sg.cellSize)),
		Z: clampCell(math.Floor(pos.Z() / sg.cellSize)),
	}
}

func clampCell(v float64) int {
	const limit = 1 << 30
	return int(mgl64.Clamp(v, -limit, limit))
}

// hashCell maps a cell to a slot of the cell array
func (sg *SpatialGrid) hashCell(key CellKey) int {
	h := (key.X * 73856093) ^ (key.Y * 19349663) ^ (key.Z * 83492791)
	return h & sg.cellMask
}
