// Package stats assembles the fixed-length statistics vector collect_stats
// returns to the embedder: 19 f32 values at indices locked by position so a
// host consumer can depend on the layout without a schema.
package stats

import (
	"github.com/gekko3d/gpuvoxel/internal/gpuvoxel/camera"
	"github.com/gekko3d/gpuvoxel/internal/gpuvoxel/chunk"
	"github.com/gekko3d/gpuvoxel/internal/gpuvoxel/streaming"
)

// Length is the fixed size of the statistics vector.
const Length = 19

// Index positions within the vector, named for readability; the host
// consumer depends on these positions, not the names.
const (
	idxFrameTimeMs = iota
	idxCameraPosX
	idxCameraPosY
	idxCameraPosZ
	idxCameraYaw
	idxCameraPitch
	idxLoadedChunkCount
	idxAtlasTotalSlots
	idxAtlasUsedSlots
	idxHostMemoryBytes
	idxPending
	idxStreamingState
	idxLoadedThisTick
	idxUnloadedThisTick
	idxBudget
	idxCached
	idxCameraChunkX
	idxCameraChunkY
	idxCameraChunkZ
)

// Vector is the fixed 19-float statistics vector. Missing data is zero.
type Vector [Length]float32

// Assemble builds the statistics vector for one frame. hostMemoryBytes is
// filled by the embedder (the core has no visibility into host allocation);
// pass 0 when unknown.
func Assemble(
	frameTimeMs float32,
	pose camera.Pose,
	atlasTotalSlots, atlasUsedSlots uint32,
	hostMemoryBytes float32,
	tick streaming.TickStats,
	budget int,
	cameraChunk chunk.Coord,
) Vector {
	var v Vector
	v[idxFrameTimeMs] = frameTimeMs
	v[idxCameraPosX] = pose.Position.X()
	v[idxCameraPosY] = pose.Position.Y()
	v[idxCameraPosZ] = pose.Position.Z()
	v[idxCameraYaw] = pose.Yaw
	v[idxCameraPitch] = pose.Pitch
	v[idxLoadedChunkCount] = float32(tick.TotalLoaded)
	v[idxAtlasTotalSlots] = float32(atlasTotalSlots)
	v[idxAtlasUsedSlots] = float32(atlasUsedSlots)
	v[idxHostMemoryBytes] = hostMemoryBytes
	v[idxPending] = float32(tick.PendingCount)
	v[idxStreamingState] = float32(tick.StreamingState)
	v[idxLoadedThisTick] = float32(tick.LoadedThisTick)
	v[idxUnloadedThisTick] = float32(tick.UnloadedThisTick)
	v[idxBudget] = float32(budget)
	v[idxCached] = float32(tick.CachedCount)
	v[idxCameraChunkX] = float32(cameraChunk.X)
	v[idxCameraChunkY] = float32(cameraChunk.Y)
	v[idxCameraChunkZ] = float32(cameraChunk.Z)
	return v
}
