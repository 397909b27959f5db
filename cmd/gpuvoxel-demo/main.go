// Command gpuvoxel-demo is a thin glfw+wgpu host exercising the embedder
// API end to end: window and device setup, pointer/scroll forwarding,
// key-label intent mapping, and the per-frame render/tick loop. The
// compute shader body, swapchain present, and bind-group wiring beyond
// what's needed to exercise the atlas are intentionally left as stubs;
// this binary demonstrates the embedder surface, not a renderer.
package main

import (
	"flag"
	"log"
	"math"
	"runtime"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/gpuvoxel/internal/gpuvoxel"
	"github.com/gekko3d/gpuvoxel/internal/gpuvoxel/atlas"
	"github.com/gekko3d/gpuvoxel/internal/gpuvoxel/camera"
	"github.com/gekko3d/gpuvoxel/internal/gpuvoxel/chunk"
)

func init() {
	runtime.LockOSThread()
}

const (
	windowWidth  = 1280
	windowHeight = 720
	viewDistance = 2
	tickBudget   = 8
	seed         = 1337
)

func main() {
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	logger := gpuvoxel.NewDefaultLogger("gpuvoxel-demo", *debug)

	if err := glfw.Init(); err != nil {
		log.Fatalf("glfw init: %v", err)
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	window, err := glfw.CreateWindow(windowWidth, windowHeight, "gpuvoxel demo", nil, nil)
	if err != nil {
		log.Fatalf("create window: %v", err)
	}
	defer window.Destroy()

	instance := wgpu.CreateInstance(nil)
	surface := instance.CreateSurface(wgpuglfw.GetSurfaceDescriptor(window))

	adapter, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: surface,
		PowerPreference:   wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		log.Fatal(gpuvoxel.NewFatalInitError("request_adapter", err))
	}

	device, err := adapter.RequestDevice(nil)
	if err != nil {
		log.Fatal(gpuvoxel.NewFatalInitError("request_device", err))
	}

	fbWidth, fbHeight := window.GetFramebufferSize()
	caps := surface.GetCapabilities(adapter)
	config := &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      caps.Formats[0],
		Width:       uint32(fbWidth),
		Height:      uint32(fbHeight),
		PresentMode: wgpu.PresentModeFifo,
		AlphaMode:   caps.AlphaModes[0],
	}
	surface.Configure(adapter, device, config)

	engine, err := gpuvoxel.NewEngine(device, gpuvoxel.Config{
		Generator:    chunk.NewPerlinGenerator(seed),
		AtlasDims:    atlas.Dims{X: 8, Y: 8, Z: 8},
		ViewDistance: viewDistance,
		Budget:       tickBudget,
		StartPose:    camera.Pose{Position: mgl32.Vec3{0, 48, 0}, Yaw: 0, Pitch: 0, Fov: float32(60 * math.Pi / 180)},
		Width:        uint32(fbWidth),
		Height:       uint32(fbHeight),
		Log:          logger,
	})
	if err != nil {
		log.Fatalf("engine init: %v", err)
	}

	mouseCaptured := false
	const lookSensitivity = 0.0025

	window.SetFramebufferSizeCallback(func(w *glfw.Window, width, height int) {
		if width <= 0 || height <= 0 {
			return
		}
		config.Width, config.Height = uint32(width), uint32(height)
		surface.Configure(adapter, device, config)
		engine.Resize(uint32(width), uint32(height))
	})

	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		if key == glfw.KeyEscape && action == glfw.Press {
			w.SetShouldClose(true)
			return
		}
		if key == glfw.KeyTab && action == glfw.Press {
			mouseCaptured = !mouseCaptured
			if mouseCaptured {
				w.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)
			} else {
				w.SetInputMode(glfw.CursorMode, glfw.CursorNormal)
			}
			return
		}
		label, ok := keyLabel(key)
		if !ok || action == glfw.Repeat {
			return
		}
		engine.HandleKey(label, action == glfw.Press)
	})

	lastX, lastY := float64(windowWidth)/2, float64(windowHeight)/2
	window.SetCursorPosCallback(func(w *glfw.Window, xpos, ypos float64) {
		dx, dy := xpos-lastX, ypos-lastY
		lastX, lastY = xpos, ypos
		if mouseCaptured {
			engine.ApplyLookDelta(float32(dx)*lookSensitivity, -float32(dy)*lookSensitivity)
		}
	})

	window.SetScrollCallback(func(w *glfw.Window, xoff, yoff float64) {
		engine.ApplyScroll(float32(yoff))
	})

	lastTime := glfw.GetTime()
	for !window.ShouldClose() {
		glfw.PollEvents()

		now := glfw.GetTime()
		dt := float32(now - lastTime)
		lastTime = now

		frameStats := engine.Render(dt)
		if logger.DebugEnabled() {
			logger.Debugf("frame_time_ms=%.2f loaded=%.0f pending=%.0f", frameStats[0], frameStats[6], frameStats[10])
		}

		// TODO(shader): the compute pass reading engine.AtlasView() and the
		// swapchain present are out of scope for this demo; a real
		// embedder wires its own shader and bind groups here.
	}
}

func keyLabel(key glfw.Key) (string, bool) {
	switch key {
	case glfw.KeyW:
		return "w", true
	case glfw.KeyS:
		return "s", true
	case glfw.KeyA:
		return "a", true
	case glfw.KeyD:
		return "d", true
	case glfw.KeyQ:
		return "q", true
	case glfw.KeyE:
		return "e", true
	case glfw.KeyR:
		return "r", true
	case glfw.KeyF:
		return "f", true
	case glfw.KeyLeftShift, glfw.KeyRightShift:
		return "shift", true
	default:
		return "", false
	}
}
