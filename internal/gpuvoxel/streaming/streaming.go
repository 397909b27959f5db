// Package streaming decides which chunks should be resident around a
// moving observer, drives generation and GPU upload under a per-tick
// budget, and reports residency statistics.
package streaming

import (
	"fmt"
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"

	"github.com/gekko3d/gpuvoxel/internal/gpuvoxel"
	"github.com/gekko3d/gpuvoxel/internal/gpuvoxel/atlas"
	"github.com/gekko3d/gpuvoxel/internal/gpuvoxel/camera"
	"github.com/gekko3d/gpuvoxel/internal/gpuvoxel/chunk"
	"github.com/gekko3d/gpuvoxel/internal/gpuvoxel/collision"
	"github.com/gekko3d/gpuvoxel/internal/gpuvoxel/terrain"

	"github.com/cogentcore/webgpu/wgpu"
)

// StreamingState classifies a tick's progress toward a fully-loaded view.
type StreamingState int

const (
	Idle StreamingState = iota
	Loading
	Stalled
)

func (s StreamingState) String() string {
	switch s {
	case Idle:
		return "Idle"
	case Loading:
		return "Loading"
	default:
		return "Stalled"
	}
}

// predictionSteps are the trajectory samples used to preload chunks along
// an active animation's future path.
var predictionSteps = [4]float32{0.25, 0.5, 0.75, 1.0}

const predictionRadius = 1

// loadedChunk is per-chunk data retained after GPU upload: atlas slot plus
// derived collision/terrain, both absent for an empty (air-only) chunk.
type loadedChunk struct {
	slot      uint32
	collision *collision.Map
	terrain   *terrain.Grid
}

// GridInfo describes the bounding box of the currently visible chunk set,
// consumed by the camera uniform.
type GridInfo struct {
	Origin         chunk.Coord
	Size           [3]uint32
	AtlasSlots     atlas.Dims
	MaxRayDistance float32
}

// TickStats is the per-tick residency report.
type TickStats struct {
	LoadedThisTick   int
	UnloadedThisTick int
	PendingCount     int
	TotalLoaded      int
	// TotalVisible is the count of currently-loaded chunks that fall within
	// the current visible set (|loaded ∩ visible|), not the full (2d+1)^3
	// cube size: that keeps CachedCount, its complement against TotalLoaded,
	// from going negative during a budgeted partial load.
	TotalVisible int
	// CachedCount is the stale set: chunks still resident but outside the
	// current visible set (TotalLoaded - TotalVisible). Always >= 0.
	CachedCount    int
	StreamingState StreamingState
}

// atlasHandle is the slice of *atlas.Atlas the streaming scheduler depends
// on. Accepting it as an interface lets the scheduling logic be exercised
// against a fake in tests, without a real GPU device.
type atlasHandle interface {
	Dims() atlas.Dims
	UploadChunk(slot uint32, c *chunk.Chunk, worldCoord chunk.Coord)
	ClearSlot(slot uint32)
	BorrowView() atlas.View
}

// ChunkManager owns the atlas and the chunk residency map, tracks the
// current visible set, and runs the budgeted streaming tick.
type ChunkManager struct {
	atlas        atlasHandle
	generator    chunk.Generator
	viewDistance int

	loaded  map[chunk.Coord]*loadedChunk
	visible map[chunk.Coord]struct{}

	preloadQueue []chunk.Coord

	lastStats TickStats
	lastGrid  GridInfo

	sessionID string
	log       gpuvoxel.Logger
}

// New constructs a ChunkManager. It fails the construction precondition
// (fatal) when dims cannot hold a 2*viewDistance+1 visible cube on every
// axis, since the visible cube would then exceed atlas capacity and two
// visible chunks would collide on one slot.
func New(device *wgpu.Device, generator chunk.Generator, dims atlas.Dims, viewDistance int, log gpuvoxel.Logger) (*ChunkManager, error) {
	a, err := atlas.New(device, dims, viewDistance)
	if err != nil {
		return nil, fmt.Errorf("gpuvoxel/streaming: %w", err)
	}
	return newWithAtlas(a, generator, viewDistance, log)
}

func newWithAtlas(a atlasHandle, generator chunk.Generator, viewDistance int, log gpuvoxel.Logger) (*ChunkManager, error) {
	if log == nil {
		log = gpuvoxel.NewNopLogger()
	}
	sessionID := uuid.NewString()
	log.Debugf("streaming session %s: atlas %+v, view_distance=%d", sessionID, a.Dims(), viewDistance)
	return &ChunkManager{
		atlas:        a,
		generator:    generator,
		viewDistance: viewDistance,
		loaded:       make(map[chunk.Coord]*loadedChunk),
		visible:      make(map[chunk.Coord]struct{}),
		sessionID:    sessionID,
		log:          log,
	}, nil
}

// AtlasView borrows the underlying atlas's GPU resources for bind-group
// construction.
func (m *ChunkManager) AtlasView() atlas.View { return m.atlas.BorrowView() }

// IsChunkLoaded reports whether coord currently occupies a residency
// record (cached or visible; empty chunks still count as loaded).
func (m *ChunkManager) IsChunkLoaded(coord chunk.Coord) bool {
	_, ok := m.loaded[coord]
	return ok
}

// IsSolid floors world_pos to integer voxel coordinates, splits them into a
// chunk coordinate and a local coordinate (both via Euclidean division),
// and consults that chunk's collision map. Returns false for unloaded or
// empty chunks, and for out-of-bounds local coordinates.
func (m *ChunkManager) IsSolid(worldPos mgl32.Vec3) bool {
	vx := floorInt(worldPos.X())
	vy := floorInt(worldPos.Y())
	vz := floorInt(worldPos.Z())

	cc := chunk.Coord{X: divEuclid(vx, chunk.Size), Y: divEuclid(vy, chunk.Size), Z: divEuclid(vz, chunk.Size)}
	lx := int(modEuclid(vx, chunk.Size))
	ly := int(modEuclid(vy, chunk.Size))
	lz := int(modEuclid(vz, chunk.Size))

	rec, ok := m.loaded[cc]
	if !ok || rec.collision == nil {
		return false
	}
	return rec.collision.IsSolid(lx, ly, lz)
}

// Preload hints that the next tick should also load the
// (2*view_distance+1)^3 cube around p, unconditionally and without regard
// to the tick's budget.
func (m *ChunkManager) Preload(p chunk.Coord) {
	m.preloadQueue = append(m.preloadQueue, cubeAround(p, m.viewDistance)...)
}

func floorInt(v float32) int32 {
	f := math.Floor(float64(v))
	return int32(f)
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

func modEuclid(a, b int32) int32 {
	r := a % b
	if r < 0 {
		if b > 0 {
			r += b
		} else {
			r -= b
		}
	}
	return r
}

func chunkCoordOf(pos mgl32.Vec3) chunk.Coord {
	return chunk.Coord{
		X: divEuclid(floorInt(pos.X()), chunk.Size),
		Y: divEuclid(floorInt(pos.Y()), chunk.Size),
		Z: divEuclid(floorInt(pos.Z()), chunk.Size),
	}
}

// computeVisibleSet enumerates the (2d+1)^3 chunk coordinates centred on
// the observer's chunk, in Z-major, then Y, then X order.
func computeVisibleSet(observer mgl32.Vec3, viewDistance int) []chunk.Coord {
	center := chunkCoordOf(observer)
	return cubeAround(center, viewDistance)
}

func cubeAround(center chunk.Coord, radius int) []chunk.Coord {
	r := int32(radius)
	out := make([]chunk.Coord, 0, (2*radius+1)*(2*radius+1)*(2*radius+1))
	for z := center.Z - r; z <= center.Z+r; z++ {
		for y := center.Y - r; y <= center.Y+r; y++ {
			for x := center.X - r; x <= center.X+r; x++ {
				out = append(out, chunk.Coord{X: x, Y: y, Z: z})
			}
		}
	}
	return out
}

func chunkDistSq(a, b chunk.Coord) int64 {
	dx := int64(a.X - b.X)
	dy := int64(a.Y - b.Y)
	dz := int64(a.Z - b.Z)
	return dx*dx + dy*dy + dz*dz
}

// Tick advances chunk streaming for one frame: it recomputes the visible
// set, queues unresident chunks (nearest first), optionally appends
// animation-predicted chunks, processes up to budget entries, and reports
// statistics plus the resulting grid info.
func (m *ChunkManager) Tick(observer mgl32.Vec3, budget int, anim *camera.Animation) TickStats {
	observerChunk := chunkCoordOf(observer)
	visibleList := computeVisibleSet(observer, m.viewDistance)

	newVisible := make(map[chunk.Coord]struct{}, len(visibleList))
	for _, c := range visibleList {
		newVisible[c] = struct{}{}
	}
	m.visible = newVisible

	inQueue := make(map[chunk.Coord]struct{})
	var toLoad []chunk.Coord
	for _, c := range visibleList {
		if _, ok := m.loaded[c]; !ok {
			toLoad = append(toLoad, c)
			inQueue[c] = struct{}{}
		}
	}
	sort.SliceStable(toLoad, func(i, j int) bool {
		return chunkDistSq(toLoad[i], observerChunk) < chunkDistSq(toLoad[j], observerChunk)
	})
	visiblePending := len(toLoad)

	if anim != nil {
		seen := make(map[chunk.Coord]struct{})
		for _, u := range predictionSteps {
			pos := anim.PositionAt(u)
			center := chunkCoordOf(pos)
			for _, c := range cubeAround(center, predictionRadius) {
				if _, dup := seen[c]; dup {
					continue
				}
				seen[c] = struct{}{}
				if _, loaded := m.loaded[c]; loaded {
					continue
				}
				if _, queued := inQueue[c]; queued {
					continue
				}
				toLoad = append(toLoad, c)
				inQueue[c] = struct{}{}
			}
		}
	}

	loadedThisTick, unloadedThisTick := m.processPreload()
	budgetLoaded, budgetUnloaded := m.processQueue(toLoad, budget)
	loadedThisTick += budgetLoaded
	unloadedThisTick += budgetUnloaded

	pending := visiblePending - budgetLoaded
	if pending < 0 {
		pending = 0
	}

	state := Idle
	if pending != 0 {
		if loadedThisTick > 0 {
			state = Loading
		} else {
			state = Stalled
		}
	}

	loadedVisible := 0
	for _, c := range visibleList {
		if _, ok := m.loaded[c]; ok {
			loadedVisible++
		}
	}

	stats := TickStats{
		LoadedThisTick:   loadedThisTick,
		UnloadedThisTick: unloadedThisTick,
		PendingCount:     pending,
		TotalLoaded:      len(m.loaded),
		TotalVisible:     loadedVisible,
		CachedCount:      len(m.loaded) - loadedVisible,
		StreamingState:   state,
	}
	m.lastStats = stats
	m.lastGrid = m.computeGridInfo(visibleList)
	m.log.Debugf("streaming session %s tick: %+v", m.sessionID, stats)
	return stats
}

func (m *ChunkManager) processPreload() (loaded, unloaded int) {
	if len(m.preloadQueue) == 0 {
		return 0, 0
	}
	queue := m.preloadQueue
	m.preloadQueue = nil
	return m.processQueue(queue, len(queue))
}

func (m *ChunkManager) processQueue(queue []chunk.Coord, budget int) (loaded, unloaded int) {
	n := len(queue)
	if budget < n {
		n = budget
	}
	dims := m.atlas.Dims()
	for i := 0; i < n; i++ {
		coord := queue[i]
		if _, already := m.loaded[coord]; already {
			continue
		}
		slot := atlas.WorldToSlot(coord, dims)
		if evicted := m.evictSlot(slot); evicted {
			unloaded++
		}
		m.loadChunk(coord, slot)
		loaded++
	}
	return loaded, unloaded
}

// evictSlot removes whatever residency record currently occupies slot, if
// any, and clears it in the atlas. Returns whether an eviction occurred.
func (m *ChunkManager) evictSlot(slot uint32) bool {
	for coord, rec := range m.loaded {
		if rec.slot == slot {
			delete(m.loaded, coord)
			m.atlas.ClearSlot(slot)
			return true
		}
	}
	return false
}

func (m *ChunkManager) loadChunk(coord chunk.Coord, slot uint32) {
	c := m.generator(coord)
	if c.IsEmpty() {
		m.loaded[coord] = &loadedChunk{slot: slot}
		return
	}
	col := collision.Build(c)
	terr := terrain.Build(c)
	m.atlas.UploadChunk(slot, c, coord)
	m.loaded[coord] = &loadedChunk{slot: slot, collision: col, terrain: terr}
}

func (m *ChunkManager) computeGridInfo(visible []chunk.Coord) GridInfo {
	dims := m.atlas.Dims()
	if len(visible) == 0 {
		return GridInfo{AtlasSlots: dims}
	}
	min := visible[0]
	max := visible[0]
	for _, c := range visible[1:] {
		if c.X < min.X {
			min.X = c.X
		}
		if c.Y < min.Y {
			min.Y = c.Y
		}
		if c.Z < min.Z {
			min.Z = c.Z
		}
		if c.X > max.X {
			max.X = c.X
		}
		if c.Y > max.Y {
			max.Y = c.Y
		}
		if c.Z > max.Z {
			max.Z = c.Z
		}
	}
	size := [3]uint32{
		uint32(max.X - min.X + 1),
		uint32(max.Y - min.Y + 1),
		uint32(max.Z - min.Z + 1),
	}
	extent := mgl32.Vec3{
		float32(size[0]) * chunk.Size,
		float32(size[1]) * chunk.Size,
		float32(size[2]) * chunk.Size,
	}
	return GridInfo{
		Origin:         min,
		Size:           size,
		AtlasSlots:     dims,
		MaxRayDistance: float32(math.Ceil(float64(extent.Len()))),
	}
}

// UsedSlotCount returns the number of atlas slots currently holding an
// uploaded (non-empty) chunk.
func (m *ChunkManager) UsedSlotCount() int {
	n := 0
	for _, rec := range m.loaded {
		if rec.collision != nil {
			n++
		}
	}
	return n
}

// LastStats returns the statistics produced by the most recent Tick.
func (m *ChunkManager) LastStats() TickStats { return m.lastStats }

// LastGridInfo returns the grid info produced by the most recent Tick.
func (m *ChunkManager) LastGridInfo() GridInfo { return m.lastGrid }

// CrossesVoxelBoundary reports whether oldPos and newPos fall in different
// voxel cells, componentwise on the floored coordinates.
func CrossesVoxelBoundary(oldPos, newPos mgl32.Vec3) bool {
	return collision.CrossesVoxelBoundary(oldPos.X(), oldPos.Y(), oldPos.Z(), newPos.X(), newPos.Y(), newPos.Z())
}

// ResolveMotion applies the motion-safety rule the camera layer must obey
// for every translation: if the move crosses from oldPos into a different
// voxel cell and that voxel is solid, the translation is rejected and
// oldPos is returned; otherwise newPos passes through unchanged.
func (m *ChunkManager) ResolveMotion(oldPos, newPos mgl32.Vec3) mgl32.Vec3 {
	if CrossesVoxelBoundary(oldPos, newPos) && m.IsSolid(newPos) {
		return oldPos
	}
	return newPos
}
