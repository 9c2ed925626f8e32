package scene

// Plane is Ax + By + Cz + D = 0, with (A,B,C) the (possibly unnormalized)
// normal.
type Plane struct {
	Normal Vec3
	D      float64
}

func (p *Plane) normalize() {
	l := p.Normal.Len()
	if l == 0 {
		return
	}
	p.Normal = p.Normal.Scale(1 / l)
	p.D /= l
}

// DistanceToPoint returns the signed distance from the plane to point;
// positive is the side the normal points toward.
func (p Plane) DistanceToPoint(point Vec3) float64 {
	return p.Normal.Dot(point) + p.D
}

// Frustum is the six planes of a camera's view volume, normals pointing
// inward.
type Frustum struct {
	Planes [6]Plane
}

const (
	frustumLeft = iota
	frustumRight
	frustumBottom
	frustumTop
	frustumNear
	frustumFar
)

// NewFrustumFromMatrix extracts the six frustum planes from a
// view-projection matrix via the Gribb/Hartmann method.
func NewFrustumFromMatrix(m Mat4) Frustum {
	var f Frustum
	f.Planes[frustumLeft] = Plane{V3(m[3]+m[0], m[7]+m[4], m[11]+m[8]), m[15] + m[12]}
	f.Planes[frustumRight] = Plane{V3(m[3]-m[0], m[7]-m[4], m[11]-m[8]), m[15] - m[12]}
	f.Planes[frustumBottom] = Plane{V3(m[3]+m[1], m[7]+m[5], m[11]+m[9]), m[15] + m[13]}
	f.Planes[frustumTop] = Plane{V3(m[3]-m[1], m[7]-m[5], m[11]-m[9]), m[15] - m[13]}
	f.Planes[frustumNear] = Plane{V3(m[3]+m[2], m[7]+m[6], m[11]+m[10]), m[15] + m[14]}
	f.Planes[frustumFar] = Plane{V3(m[3]-m[2], m[7]-m[6], m[11]-m[10]), m[15] - m[14]}
	for i := range f.Planes {
		f.Planes[i].normalize()
	}
	return f
}

// AABB is an axis-aligned bounding box in world space.
type AABB struct {
	Min, Max Vec3
}

func (b AABB) Center() Vec3 { return b.Min.Add(b.Max).Scale(0.5) }

// IntersectsAABB reports whether any part of box is inside the frustum,
// using the positive-vertex rejection test: if the AABB corner furthest
// along a plane's normal is still outside that plane, the whole box is
// outside.
func (f Frustum) IntersectsAABB(box AABB) bool {
	for _, plane := range f.Planes {
		p := Vec3{
			selectComponent(plane.Normal.X >= 0, box.Max.X, box.Min.X),
			selectComponent(plane.Normal.Y >= 0, box.Max.Y, box.Min.Y),
			selectComponent(plane.Normal.Z >= 0, box.Max.Z, box.Min.Z),
		}
		if plane.DistanceToPoint(p) < 0 {
			return false
		}
	}
	return true
}

func selectComponent(cond bool, a, b float64) float64 {
	if cond {
		return a
	}
	return b
}
