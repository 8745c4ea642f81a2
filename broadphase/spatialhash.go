// Package broadphase provides a uniform-grid spatial hash used to find
// candidate pairs of overlapping bodies before narrow-phase testing.
package broadphase

import (
	"math"
	"sort"

	"github.com/pthm-cable/impulse/geometry"
)

type cellKey struct {
	x int
	y int
}

// QueryFunc is invoked once per unique value found by a query. The
// return value is interpreted by the caller, not by the hash.
type QueryFunc func(value int) bool

// SpatialHash maps integer grid cells to the values inserted over them.
// Cell lists and the query scratch buffer are retained across Clear so
// steady-state operation does not allocate.
type SpatialHash struct {
	cellSize        float32
	inverseCellSize float32

	cells       map[cellKey][]int
	queryResult []int
}

// NewSpatialHash creates a spatial hash with the given cell size.
// Returns nil if cellSize is not positive.
func NewSpatialHash(cellSize float32) *SpatialHash {
	if cellSize <= 0 {
		return nil
	}

	return &SpatialHash{
		cellSize:        cellSize,
		inverseCellSize: 1.0 / cellSize,
		cells:           make(map[cellKey][]int),
	}
}

// CellSize returns the fixed cell size of sh.
func (sh *SpatialHash) CellSize() float32 {
	if sh == nil {
		return 0
	}
	return sh.cellSize
}

// Clear truncates all cell lists and the scratch buffer, keeping their
// capacity for the next step.
func (sh *SpatialHash) Clear() {
	if sh == nil {
		return
	}

	sh.queryResult = sh.queryResult[:0]

	for key, values := range sh.cells {
		sh.cells[key] = values[:0]
	}
}

// Insert writes value into every cell the given AABB overlaps.
func (sh *SpatialHash) Insert(aabb geometry.AABB, value int) {
	if sh == nil {
		return
	}

	minX, minY, maxX, maxY := sh.cellRange(aabb)

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			key := cellKey{x, y}
			sh.cells[key] = append(sh.cells[key], value)
		}
	}
}

// Query collects every value inserted over a cell the given AABB
// overlaps, deduplicates, and invokes fn once per unique value in
// ascending order. False positives are expected; exact overlap testing
// is the caller's concern.
func (sh *SpatialHash) Query(aabb geometry.AABB, fn QueryFunc) {
	if sh == nil || fn == nil {
		return
	}

	minX, minY, maxX, maxY := sh.cellRange(aabb)

	sh.queryResult = sh.queryResult[:0]

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			sh.queryResult = append(sh.queryResult, sh.cells[cellKey{x, y}]...)
		}
	}

	if len(sh.queryResult) > 1 {
		sort.Ints(sh.queryResult)

		unique := sh.queryResult[:1]
		for _, v := range sh.queryResult[1:] {
			if v != unique[len(unique)-1] {
				unique = append(unique, v)
			}
		}

		sh.queryResult = unique
	}

	for _, v := range sh.queryResult {
		fn(v)
	}
}

func (sh *SpatialHash) cellRange(aabb geometry.AABB) (minX, minY, maxX, maxY int) {
	minX = int(math.Floor(float64(aabb.X * sh.inverseCellSize)))
	minY = int(math.Floor(float64(aabb.Y * sh.inverseCellSize)))
	maxX = int(math.Floor(float64((aabb.X + aabb.Width) * sh.inverseCellSize)))
	maxY = int(math.Floor(float64((aabb.Y + aabb.Height) * sh.inverseCellSize)))

	return minX, minY, maxX, maxY
}
