// Package collision derives a 1-bit-per-voxel solidity mask from a chunk.
package collision

import "github.com/gekko3d/gpuvoxel/internal/gpuvoxel/chunk"

// Bytes is the size of a collision mask: 32^3 bits / 8.
const Bytes = chunk.Volume / 8

// Map is a 4096-byte bitfield, one bit per voxel in a chunk; bit
// z*1024+y*32+x is set iff the voxel's material_id != 0.
type Map struct {
	bits [Bytes]byte
}

// Build derives a collision map from a chunk in one pass over its voxels.
func Build(c *chunk.Chunk) *Map {
	m := &Map{}
	for i, v := range c.Voxels {
		if !v.IsAir() {
			m.bits[i/8] |= 1 << uint(i%8)
		}
	}
	return m
}

// IsSolid reports whether the voxel at local (x, y, z) is solid. Queries
// outside [0, chunk.Size) on any axis return false.
func (m *Map) IsSolid(x, y, z int) bool {
	if x < 0 || x >= chunk.Size || y < 0 || y >= chunk.Size || z < 0 || z >= chunk.Size {
		return false
	}
	idx := chunk.Index(x, y, z)
	return (m.bits[idx/8]>>uint(idx%8))&1 == 1
}

// CrossesVoxelBoundary reports whether old and new world positions floor to
// different integer voxel coordinates.
func CrossesVoxelBoundary(oldX, oldY, oldZ, newX, newY, newZ float32) bool {
	return floorInt(oldX) != floorInt(newX) ||
		floorInt(oldY) != floorInt(newY) ||
		floorInt(oldZ) != floorInt(newZ)
}

func floorInt(v float32) int32 {
	i := int32(v)
	if v < 0 && float32(i) != v {
		i--
	}
	return i
}
