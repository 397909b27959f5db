// Package layout packs the GPU-visible data structures the external shader
// reads: the per-frame camera uniform, the atlas slot-record array, and the
// voxel texel format, at the exact byte layouts the shader contract locks.
package layout

import (
	"encoding/binary"
	"math"

	"github.com/gekko3d/gpuvoxel/internal/gpuvoxel/voxel"
)

// CameraUniformSize is the fixed byte size of a packed camera uniform.
const CameraUniformSize = 128

// CameraUniform is the per-frame data the ray-marching shader reads. Field
// offsets are locked by the external shader; padding bytes exist solely to
// align 3-vector fields to 16-byte boundaries per the target graphics API's
// uniform packing rules.
type CameraUniform struct {
	Position       [3]float32
	Forward        [3]float32
	Right          [3]float32
	Up             [3]float32
	Fov            float32
	Width          uint32
	Height         uint32
	GridOrigin     [3]int32
	MaxRayDistance float32
	GridSize       [3]uint32
	AtlasSlots     [3]uint32
}

func putVec3f(buf []byte, offset int, v [3]float32) {
	binary.LittleEndian.PutUint32(buf[offset:], math.Float32bits(v[0]))
	binary.LittleEndian.PutUint32(buf[offset+4:], math.Float32bits(v[1]))
	binary.LittleEndian.PutUint32(buf[offset+8:], math.Float32bits(v[2]))
}

func putVec3i(buf []byte, offset int, v [3]int32) {
	binary.LittleEndian.PutUint32(buf[offset:], uint32(v[0]))
	binary.LittleEndian.PutUint32(buf[offset+4:], uint32(v[1]))
	binary.LittleEndian.PutUint32(buf[offset+8:], uint32(v[2]))
}

func putVec3u(buf []byte, offset int, v [3]uint32) {
	binary.LittleEndian.PutUint32(buf[offset:], v[0])
	binary.LittleEndian.PutUint32(buf[offset+4:], v[1])
	binary.LittleEndian.PutUint32(buf[offset+8:], v[2])
}

// Bytes assembles the 128-byte wire form of the uniform.
func (u CameraUniform) Bytes() [CameraUniformSize]byte {
	var buf [CameraUniformSize]byte
	putVec3f(buf[:], 0, u.Position)
	putVec3f(buf[:], 16, u.Forward)
	putVec3f(buf[:], 32, u.Right)
	putVec3f(buf[:], 48, u.Up)
	binary.LittleEndian.PutUint32(buf[60:], math.Float32bits(u.Fov))
	binary.LittleEndian.PutUint32(buf[64:], u.Width)
	binary.LittleEndian.PutUint32(buf[68:], u.Height)
	putVec3i(buf[:], 80, u.GridOrigin)
	binary.LittleEndian.PutUint32(buf[92:], math.Float32bits(u.MaxRayDistance))
	putVec3u(buf[:], 96, u.GridSize)
	putVec3u(buf[:], 112, u.AtlasSlots)
	return buf
}

// SlotRecordSize is the fixed byte size of a packed atlas slot record.
const SlotRecordSize = 16

// SlotOccupiedFlag is set in SlotRecord.Flags when the slot holds a chunk.
const SlotOccupiedFlag uint32 = 1

// SlotRecord is the GPU-visible occupancy record for one atlas slot.
type SlotRecord struct {
	WorldPos [3]int32
	Flags    uint32
}

// Bytes assembles the 16-byte wire form of the slot record.
func (s SlotRecord) Bytes() [SlotRecordSize]byte {
	var buf [SlotRecordSize]byte
	putVec3i(buf[:], 0, s.WorldPos)
	binary.LittleEndian.PutUint32(buf[12:], s.Flags)
	return buf
}

// VoxelTexel is the 4-byte atlas texel format: a packed voxel cell.
type VoxelTexel uint32

// PackVoxelTexel converts a voxel cell to its atlas texel representation.
func PackVoxelTexel(c voxel.Cell) VoxelTexel { return VoxelTexel(c) }

// Bytes assembles the little-endian wire form of the texel.
func (t VoxelTexel) Bytes() [4]byte {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], uint32(t))
	return buf
}
