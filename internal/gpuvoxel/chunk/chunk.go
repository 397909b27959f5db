// Package chunk holds the fixed-size voxel grid and the pluggable
// generator that fills one.
package chunk

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/gpuvoxel/internal/gpuvoxel/voxel"
)

// Size is the chunk edge length in voxels (32^3 cells per chunk).
const Size = 32

// Volume is the total number of cells in a chunk.
const Volume = Size * Size * Size

// Coord is a signed chunk-space coordinate; world coordinate = Coord*Size + local.
type Coord struct {
	X, Y, Z int32
}

// Add returns the componentwise sum of c and o.
func (c Coord) Add(o Coord) Coord {
	return Coord{c.X + o.X, c.Y + o.Y, c.Z + o.Z}
}

// Min returns the componentwise minimum of c and o.
func (c Coord) Min(o Coord) Coord {
	return Coord{min32(c.X, o.X), min32(c.Y, o.Y), min32(c.Z, o.Z)}
}

// Max returns the componentwise maximum of c and o.
func (c Coord) Max(o Coord) Coord {
	return Coord{max32(c.X, o.X), max32(c.Y, o.Y), max32(c.Z, o.Z)}
}

func min32(a, b int32) int32 {
	if a < b {
		return a
	}
	return b
}

func max32(a, b int32) int32 {
	if a > b {
		return a
	}
	return b
}

// Index returns the flat voxel index for local coordinates in [0, Size).
// x-major within a row, rows within a layer, layers along z.
func Index(x, y, z int) int {
	return z*Size*Size + y*Size + x
}

// Chunk is an immutable (after construction) 32^3 grid of packed voxel cells.
type Chunk struct {
	Voxels [Volume]voxel.Cell
}

// At returns the cell at local coordinates (x, y, z). Callers must keep
// coordinates within [0, Size); this is not bounds-checked, matching the
// rest of the package's "generator produces a complete, valid chunk"
// contract.
func (c *Chunk) At(x, y, z int) voxel.Cell {
	return c.Voxels[Index(x, y, z)]
}

// Set writes the cell at local coordinates (x, y, z).
func (c *Chunk) Set(x, y, z int, v voxel.Cell) {
	c.Voxels[Index(x, y, z)] = v
}

// IsEmpty reports whether every cell in the chunk is air.
func (c *Chunk) IsEmpty() bool {
	for _, v := range c.Voxels {
		if !v.IsAir() {
			return false
		}
	}
	return true
}

// WorldToChunk returns the chunk coordinate containing world position pos,
// using Euclidean (floor) division so negative coordinates resolve to the
// chunk they actually fall within rather than truncating toward zero.
func WorldToChunk(pos mgl32.Vec3) Coord {
	return Coord{
		X: divEuclid(floorInt(pos.X()), Size),
		Y: divEuclid(floorInt(pos.Y()), Size),
		Z: divEuclid(floorInt(pos.Z()), Size),
	}
}

func floorInt(v float32) int32 {
	return int32(math.Floor(float64(v)))
}

func divEuclid(a, b int32) int32 {
	q := a / b
	if a%b < 0 {
		if b > 0 {
			q--
		} else {
			q++
		}
	}
	return q
}

// Generator produces a chunk for a given world chunk coordinate. It must be
// deterministic in its argument (referentially transparent) and cheap
// enough to run inline under the streaming manager's per-tick budget; it is
// invoked synchronously from the render loop.
type Generator func(coord Coord) *Chunk
