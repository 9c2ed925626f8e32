package scene

import "math"

// Camera holds world-space position and orientation plus projection
// parameters, and produces the view-projection matrix the transform stage
// needs. Matrices are recomputed lazily and cached, exactly as the
// teacher's camera does.
type Camera struct {
	Position Vec3

	Pitch, Yaw, Roll float64

	FOV         float64
	AspectRatio float64
	Near, Far   float64

	viewMatrix     Mat4
	projMatrix     Mat4
	viewProjMatrix Mat4
	viewDirty      bool
	projDirty      bool
	viewProjDirty  bool
}

// NewCamera creates a camera at the origin with a 60-degree FOV.
func NewCamera() *Camera {
	return &Camera{
		FOV:         math.Pi / 3,
		AspectRatio: 16.0 / 9.0,
		Near:        0.1,
		Far:         1000,
		viewDirty:   true,
		projDirty:   true,
	}
}

func (c *Camera) SetPosition(pos Vec3) {
	c.Position = pos
	c.viewDirty = true
}

func (c *Camera) SetRotation(pitch, yaw, roll float64) {
	c.Pitch, c.Yaw, c.Roll = pitch, yaw, roll
	c.viewDirty = true
}

func (c *Camera) SetAspectRatio(aspect float64) {
	c.AspectRatio = aspect
	c.projDirty = true
}

func (c *Camera) SetClipPlanes(near, far float64) {
	c.Near, c.Far = near, far
	c.projDirty = true
}

// Forward returns the camera's look direction in world space.
func (c *Camera) Forward() Vec3 {
	return V3(
		-math.Sin(c.Yaw)*math.Cos(c.Pitch),
		math.Sin(c.Pitch),
		-math.Cos(c.Yaw)*math.Cos(c.Pitch),
	)
}

// ViewMatrix returns the cached (or freshly computed) view matrix.
func (c *Camera) ViewMatrix() Mat4 {
	if c.viewDirty {
		rot := RotateZ(-c.Roll).Mul(RotateX(-c.Pitch)).Mul(RotateY(-c.Yaw))
		trans := Translate(c.Position.Negate())
		c.viewMatrix = rot.Mul(trans)
		c.viewDirty = false
		c.viewProjDirty = true
	}
	return c.viewMatrix
}

// ProjectionMatrix returns the cached (or freshly computed) projection matrix.
func (c *Camera) ProjectionMatrix() Mat4 {
	if c.projDirty {
		c.projMatrix = Perspective(c.FOV, c.AspectRatio, c.Near, c.Far)
		c.projDirty = false
		c.viewProjDirty = true
	}
	return c.projMatrix
}

// ViewProjectionMatrix returns Projection * View.
func (c *Camera) ViewProjectionMatrix() Mat4 {
	if c.viewDirty || c.projDirty || c.viewProjDirty {
		c.viewProjMatrix = c.ProjectionMatrix().Mul(c.ViewMatrix())
		c.viewProjDirty = false
	}
	return c.viewProjMatrix
}

// LookAt orients the camera toward target, leaving roll at zero.
func (c *Camera) LookAt(target Vec3) {
	dir := target.Sub(c.Position).Normalize()
	c.Pitch = math.Asin(dir.Y)
	c.Yaw = math.Atan2(-dir.X, -dir.Z)
	c.Roll = 0
	c.viewDirty = true
}
