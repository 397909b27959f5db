package gpuvoxel

import (
	"math"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/gpuvoxel/internal/gpuvoxel/atlas"
	"github.com/gekko3d/gpuvoxel/internal/gpuvoxel/camera"
	"github.com/gekko3d/gpuvoxel/internal/gpuvoxel/chunk"
	"github.com/gekko3d/gpuvoxel/internal/gpuvoxel/stats"
	"github.com/gekko3d/gpuvoxel/internal/gpuvoxel/streaming"
)

// Engine is the embedder-facing façade: it owns the camera, the chunk
// streaming manager, and the per-frame tick/animation loop, but not the
// swapchain, the compute shader, or the bind groups a host builds around
// AtlasView(). A host wires those separately and calls Render each frame.
type Engine struct {
	cam      *camera.Camera
	anim     *camera.Animation
	animDone bool

	chunks *streaming.ChunkManager
	budget int

	width, height uint32
	log           Logger
}

// Config bundles the construction-time parameters init(canvas-or-surface
// handle, width, height) needs beyond the handle itself.
type Config struct {
	Generator    chunk.Generator
	AtlasDims    atlas.Dims
	ViewDistance int
	Budget       int
	StartPose    camera.Pose
	Width        uint32
	Height       uint32
	Log          Logger
}

// defaultViewDistance, defaultBudget, and defaultAtlasDims follow the demo
// command's own choices: a view distance of 2 needs atlas_slots >= 5 per
// axis on the construction precondition, 8 leaves headroom for eviction
// locality, and a budget of 8 chunks/tick keeps frame time bounded on the
// built-in Perlin generator.
const (
	defaultViewDistance = 2
	defaultBudget       = 8
	defaultAtlasSlots   = 8
)

// NewDefaultConfig returns a Config with non-zero defaults for every field
// except Generator, which callers must still supply: there is no sensible
// default terrain-producing function to fall back to.
func NewDefaultConfig(generator chunk.Generator, width, height uint32) Config {
	return Config{
		Generator:    generator,
		AtlasDims:    atlas.Dims{X: defaultAtlasSlots, Y: defaultAtlasSlots, Z: defaultAtlasSlots},
		ViewDistance: defaultViewDistance,
		Budget:       defaultBudget,
		StartPose:    camera.Pose{Fov: float32(60 * math.Pi / 180)},
		Width:        width,
		Height:       height,
		Log:          NewNopLogger(),
	}
}

// NewEngine implements init: it builds the atlas-backed chunk manager and
// runs an initial tick at the default camera so the first frame has a
// populated view, then returns the ready engine.
func NewEngine(device *wgpu.Device, cfg Config) (*Engine, error) {
	if cfg.Log == nil {
		cfg.Log = NewNopLogger()
	}
	mgr, err := streaming.New(device, cfg.Generator, cfg.AtlasDims, cfg.ViewDistance, cfg.Log)
	if err != nil {
		return nil, err
	}
	e := &Engine{
		cam:    camera.New(cfg.StartPose),
		chunks: mgr,
		budget: cfg.Budget,
		width:  cfg.Width,
		height: cfg.Height,
		log:    cfg.Log,
	}
	mgr.Tick(e.cam.Pose.Position, cfg.Budget, nil)
	return e, nil
}

// Resize records the new framebuffer dimensions; the surface and
// size-dependent textures/bind groups themselves are the host's
// responsibility.
func (e *Engine) Resize(width, height uint32) {
	e.width, e.height = width, height
	e.log.Debugf("resize: %dx%d", width, height)
}

// Pose returns the camera's current pose.
func (e *Engine) Pose() camera.Pose { return e.cam.Pose }

// SetCamera hard-snaps the pose and cancels any active animation.
func (e *Engine) SetCamera(pose camera.Pose) {
	if e.anim != nil {
		e.log.Debugf("set_camera: hard snap cancels in-flight animation")
	}
	e.anim = nil
	e.cam.Pose = pose
}

// AnimateCamera begins an eased animation from the current pose.
func (e *Engine) AnimateCamera(to camera.Pose, duration float32, easing camera.Easing) {
	e.anim = camera.NewAnimation(e.cam.Pose, to, duration, easing)
	e.animDone = false
	e.log.Debugf("animate_camera: duration=%.2fs easing=%d", duration, easing)
}

// IsAnimating reports whether an animation is in flight.
func (e *Engine) IsAnimating() bool { return e.anim != nil }

// TakeAnimationCompleted reads and clears the animation-completed latch.
func (e *Engine) TakeAnimationCompleted() bool {
	v := e.animDone
	e.animDone = false
	return v
}

// BeginIntent/EndIntent forward to the camera's intent set. Intents keep
// accumulating while an animation is in flight; Render ignores them until
// the animation completes.
func (e *Engine) BeginIntent(i camera.Intent) { e.cam.BeginIntent(i) }
func (e *Engine) EndIntent(i camera.Intent)   { e.cam.EndIntent(i) }

// HandleKey maps a lowercase key label to an intent and applies it.
// Unrecognised keys are silently ignored.
func (e *Engine) HandleKey(label string, pressed bool) {
	intent, ok := camera.KeyToIntent(label)
	if !ok {
		return
	}
	if pressed {
		e.BeginIntent(intent)
	} else {
		e.EndIntent(intent)
	}
}

// ApplyLookDelta applies a pre-scaled pointer delta in radians.
func (e *Engine) ApplyLookDelta(dyaw, dpitch float32) { e.cam.ApplyLookDelta(dyaw, dpitch) }

// ApplyScroll dollies the camera by amount world units along its forward
// vector, then rejects the move if it crosses into solid space (spec §4.6's
// motion safety: crosses_voxel_boundary(old,new) ∧ is_solid(new) ⇒ restore
// old).
func (e *Engine) ApplyScroll(amount float32) {
	before := e.cam.Pose.Position
	e.cam.ApplyDolly(amount)
	e.enforceMotionSafety(before)
}

// ApplyPan translates the camera along right*dx + up*dy, then applies the
// same motion-safety rejection as ApplyScroll.
func (e *Engine) ApplyPan(dx, dy float32) {
	before := e.cam.Pose.Position
	e.cam.ApplyPan(dx, dy)
	e.enforceMotionSafety(before)
}

// enforceMotionSafety restores the camera's position to before when the
// move it just made crossed a voxel boundary into solid space, per spec
// §4.6 and testable property 10.
func (e *Engine) enforceMotionSafety(before mgl32.Vec3) {
	e.cam.Pose.Position = e.chunks.ResolveMotion(before, e.cam.Pose.Position)
}

// Preload hints that the next tick should also load the view cube around
// p, unbudgeted.
func (e *Engine) Preload(p chunk.Coord) { e.chunks.Preload(p) }

// IsChunkLoaded reports whether coord currently occupies a residency slot.
func (e *Engine) IsChunkLoaded(coord chunk.Coord) bool { return e.chunks.IsChunkLoaded(coord) }

// AtlasView borrows the atlas's GPU resources for the host's bind-group
// construction.
func (e *Engine) AtlasView() atlas.View { return e.chunks.AtlasView() }

// Render implements render(time_seconds): advances the animation if one is
// active (overriding manual intents for this frame) or otherwise applies
// the accumulated manual intents, ticks chunk streaming at the new pose,
// and assembles the statistics vector. It does not touch the swapchain;
// the host submits the frame itself using AtlasView() and the returned
// pose/stats.
func (e *Engine) Render(dt float32) stats.Vector {
	before := e.cam.Pose.Position
	if e.anim != nil {
		e.anim.Advance(dt)
		e.cam.Pose = e.anim.Interpolate()
		if e.anim.IsComplete() {
			e.anim = nil
			e.animDone = true
		}
	} else {
		e.cam.Update(dt)
	}
	e.enforceMotionSafety(before)

	tick := e.chunks.Tick(e.cam.Pose.Position, e.budget, e.anim)

	cameraChunk := chunk.WorldToChunk(e.cam.Pose.Position)
	atlasDims := e.chunks.AtlasView().Dims
	used := uint32(e.chunks.UsedSlotCount())

	return stats.Assemble(dt*1000, e.cam.Pose, atlasDims.Product(), used, 0, tick, e.budget, cameraChunk)
}
