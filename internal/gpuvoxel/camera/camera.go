// Package camera implements the observer pose, its incremental update from
// discrete input intents, and a time-parameterised eased animation whose
// predicted trajectory feeds chunk-streaming prediction.
package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	moveSpeed     = 10.0 // units/s
	rotateSpeed   = 2.0  // rad/s
	sprintFactor  = 4.0
	pitchLimitDeg = 89.0
)

var pitchLimit = float32(pitchLimitDeg * math.Pi / 180)

// Pose is the camera's position and orientation.
type Pose struct {
	Position mgl32.Vec3
	Yaw      float32
	Pitch    float32
	Fov      float32
}

// Forward returns the unit forward vector derived from yaw/pitch. At
// yaw=0, pitch=0 this is (0, 0, -1).
func (p Pose) Forward() mgl32.Vec3 {
	sy, cy := sincos(p.Yaw)
	sp, cp := sincos(p.Pitch)
	return mgl32.Vec3{-sy * cp, sp, -cy * cp}
}

// Right returns the unit right vector derived from yaw.
func (p Pose) Right() mgl32.Vec3 {
	sy, cy := sincos(p.Yaw)
	return mgl32.Vec3{cy, 0, -sy}
}

// Up returns the unit up vector derived from yaw/pitch.
func (p Pose) Up() mgl32.Vec3 {
	sy, cy := sincos(p.Yaw)
	sp, cp := sincos(p.Pitch)
	return mgl32.Vec3{sy * sp, cp, cy * sp}
}

func sincos(v float32) (float32, float32) {
	s, c := math.Sincos(float64(v))
	return float32(s), float32(c)
}

func clampPitch(pitch float32) float32 {
	if pitch > pitchLimit {
		return pitchLimit
	}
	if pitch < -pitchLimit {
		return -pitchLimit
	}
	return pitch
}

// Camera is the mutable pose plus the currently accumulated input intents.
type Camera struct {
	Pose  Pose
	Input Input
}

// New returns a Camera with the given starting pose.
func New(pose Pose) *Camera {
	pose.Pitch = clampPitch(pose.Pitch)
	return &Camera{Pose: pose}
}

// BeginIntent marks an intent as active.
func (c *Camera) BeginIntent(i Intent) { c.Input.set(i, true) }

// EndIntent marks an intent as inactive.
func (c *Camera) EndIntent(i Intent) { c.Input.set(i, false) }

// Update applies translation along forward/right and rotation about
// yaw/pitch per the currently active intents, scaled by dt, with a 4x
// sprint multiplier when Sprint is active. Pitch is clamped last.
func (c *Camera) Update(dt float32) {
	speedMul := float32(1.0)
	if c.Input.Sprint {
		speedMul = sprintFactor
	}
	moveAmount := moveSpeed * speedMul * dt
	rotAmount := rotateSpeed * dt

	forward := c.Pose.Forward()
	right := c.Pose.Right()

	if c.Input.TrackForward {
		c.Pose.Position = c.Pose.Position.Add(forward.Mul(moveAmount))
	}
	if c.Input.TrackBackward {
		c.Pose.Position = c.Pose.Position.Sub(forward.Mul(moveAmount))
	}
	if c.Input.TruckLeft {
		c.Pose.Position = c.Pose.Position.Sub(right.Mul(moveAmount))
	}
	if c.Input.TruckRight {
		c.Pose.Position = c.Pose.Position.Add(right.Mul(moveAmount))
	}
	if c.Input.PanLeft {
		c.Pose.Yaw -= rotAmount
	}
	if c.Input.PanRight {
		c.Pose.Yaw += rotAmount
	}
	if c.Input.TiltUp {
		c.Pose.Pitch += rotAmount
	}
	if c.Input.TiltDown {
		c.Pose.Pitch -= rotAmount
	}

	c.Pose.Pitch = clampPitch(c.Pose.Pitch)
}

// ApplyLookDelta adds dyaw/dpitch (radians) to the pose, then clamps pitch.
func (c *Camera) ApplyLookDelta(dyaw, dpitch float32) {
	c.Pose.Yaw += dyaw
	c.Pose.Pitch += dpitch
	c.Pose.Pitch = clampPitch(c.Pose.Pitch)
}

// ApplyDolly translates the camera along its forward vector by amount
// world units.
func (c *Camera) ApplyDolly(amount float32) {
	c.Pose.Position = c.Pose.Position.Add(c.Pose.Forward().Mul(amount))
}

// ApplyPan translates the camera along right*dx + up*dy, in world units.
func (c *Camera) ApplyPan(dx, dy float32) {
	c.Pose.Position = c.Pose.Position.Add(c.Pose.Right().Mul(dx)).Add(c.Pose.Up().Mul(dy))
}

// LookAt orients the camera toward target, then clamps pitch.
func (c *Camera) LookAt(target mgl32.Vec3) {
	d := target.Sub(c.Pose.Position)
	horizontal := float32(math.Sqrt(float64(d.X()*d.X() + d.Z()*d.Z())))
	c.Pose.Yaw = float32(math.Atan2(float64(-d.X()), float64(-d.Z())))
	c.Pose.Pitch = float32(math.Atan2(float64(d.Y()), float64(horizontal)))
	c.Pose.Pitch = clampPitch(c.Pose.Pitch)
}
