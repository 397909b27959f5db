package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Easing is the closed set of easing curves an Animation can use.
type Easing int

const (
	Linear Easing = iota
	QuadInOut
	CubicInOut
	SineInOut
	ExpoInOut
)

// apply evaluates the easing curve at u, which must already be in [0, 1].
func (e Easing) apply(u float32) float32 {
	switch e {
	case QuadInOut:
		if u < 0.5 {
			return 2 * u * u
		}
		v := -2*u + 2
		return 1 - v*v/2
	case CubicInOut:
		if u < 0.5 {
			return 4 * u * u * u
		}
		v := -2*u + 2
		return 1 - v*v*v/2
	case SineInOut:
		return float32(-(math.Cos(math.Pi*float64(u)) - 1) / 2)
	case ExpoInOut:
		switch {
		case u <= 0:
			return 0
		case u >= 1:
			return 1
		case u < 0.5:
			return float32(math.Pow(2, 20*float64(u)-10) / 2)
		default:
			return float32((2 - math.Pow(2, -20*float64(u)+10)) / 2)
		}
	default: // Linear
		return u
	}
}

func clamp01f(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Animation eases the camera from one pose to another over Duration
// seconds.
type Animation struct {
	From, To Pose
	Duration float32
	Elapsed  float32
	Easing   Easing
}

// NewAnimation starts an animation from from to to over duration seconds.
func NewAnimation(from, to Pose, duration float32, easing Easing) *Animation {
	return &Animation{From: from, To: to, Duration: duration, Easing: easing}
}

// Advance increases Elapsed by dt, clamped to Duration. Non-positive
// durations complete on the first advance (spec's "input noise" handling
// of duration <= 0).
func (a *Animation) Advance(dt float32) {
	a.Elapsed += dt
	if a.Elapsed > a.Duration {
		a.Elapsed = a.Duration
	}
	if a.Duration <= 0 {
		a.Elapsed = a.Duration
	}
}

// IsComplete reports whether Elapsed has reached Duration.
func (a *Animation) IsComplete() bool {
	return a.Elapsed >= a.Duration
}

func (a *Animation) progress() float32 {
	if a.Duration <= 0 {
		return 1.0
	}
	return a.Elapsed / a.Duration
}

// Interpolate returns the pose at the animation's current Elapsed time:
// linear interpolation of position and of each Euler angle, parameterised
// by the eased progress.
func (a *Animation) Interpolate() Pose {
	t := a.Easing.apply(clamp01f(a.progress()))
	return lerpPose(a.From, a.To, t)
}

// PositionAt samples the eased trajectory's position at u in [0, 1]
// (clamped), without regard to Elapsed. Used by chunk-streaming prediction
// to pre-load chunks along the animation's future path.
func (a *Animation) PositionAt(u float32) mgl32.Vec3 {
	t := a.Easing.apply(clamp01f(u))
	return a.From.Position.Add(a.To.Position.Sub(a.From.Position).Mul(t))
}

func lerpPose(from, to Pose, t float32) Pose {
	return Pose{
		Position: from.Position.Add(to.Position.Sub(from.Position).Mul(t)),
		Yaw:      from.Yaw + (to.Yaw-from.Yaw)*t,
		Pitch:    from.Pitch + (to.Pitch-from.Pitch)*t,
		Fov:      from.Fov + (to.Fov-from.Fov)*t,
	}
}
