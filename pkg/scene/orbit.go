package scene

import (
	"math"

	"github.com/charmbracelet/harmonica"
)

// OrbitAnimator eases a camera's yaw and pitch toward a target orbit angle
// using critically-damped springs, instead of snapping directly to the
// target — the same spring-easing idiom harmonica's own examples use for
// cursor and viewport motion.
type OrbitAnimator struct {
	yawSpring, pitchSpring harmonica.Spring

	yaw, yawVel     float64
	pitch, pitchVel float64

	TargetYaw   float64
	TargetPitch float64
	Radius      float64
}

// NewOrbitAnimator creates an animator advancing at fps frames per second
// with the given angular frequency and damping ratio (1.0 is critically
// damped: no overshoot).
func NewOrbitAnimator(fps, angularFrequency, damping float64) *OrbitAnimator {
	spring := harmonica.NewSpring(harmonica.FPS(fps), angularFrequency, damping)
	return &OrbitAnimator{
		yawSpring:   spring,
		pitchSpring: spring,
		Radius:      10,
	}
}

// Step advances the orbit by one frame and positions cam on a sphere of
// radius Radius around center, looking at center.
func (o *OrbitAnimator) Step(cam *Camera, center Vec3) {
	o.yaw, o.yawVel = o.yawSpring.Update(o.yaw, o.yawVel, o.TargetYaw)
	o.pitch, o.pitchVel = o.pitchSpring.Update(o.pitch, o.pitchVel, o.TargetPitch)

	offset := Vec3{
		X: o.Radius * math.Cos(o.pitch) * math.Sin(o.yaw),
		Y: o.Radius * math.Sin(o.pitch),
		Z: o.Radius * math.Cos(o.pitch) * math.Cos(o.yaw),
	}
	cam.SetPosition(center.Add(offset))
	cam.LookAt(center)
}
