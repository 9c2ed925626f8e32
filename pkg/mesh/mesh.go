// Package mesh loads triangle meshes from glTF/GLB files into the
// interleaved vertex layout pkg/scene's transform stage and pkg/raster's
// core both expect.
package mesh

import "github.com/cascade3d/cascade/pkg/scene"

// numAttributes is the per-vertex attribute count after the mandatory
// position: normal.xyz (3), uv.xy (2), color.rgba (4).
const numAttributes = 9

// Vertex holds one mesh vertex's position and the attributes carried
// through to the rasterizer unchanged.
type Vertex struct {
	Position scene.Vec3
	Normal   scene.Vec3
	UV       [2]float32
	Color    [4]float32
}

// Mesh is a triangle mesh: an interleaved vertex slice and a flat index
// list, with a cached world-space AABB for frustum culling.
type Mesh struct {
	Name     string
	Vertices []Vertex
	Indices  []uint32

	BoundsMin, BoundsMax scene.Vec3
}

// New creates an empty, named mesh.
func New(name string) *Mesh {
	return &Mesh{Name: name}
}

// VertexCount implements scene.VertexSource.
func (m *Mesh) VertexCount() int { return len(m.Vertices) }

// Position implements scene.VertexSource.
func (m *Mesh) Position(i int) scene.Vec3 { return m.Vertices[i].Position }

// AttributeCount implements scene.VertexSource.
func (m *Mesh) AttributeCount() int { return numAttributes }

// Attributes implements scene.VertexSource, packing normal, uv, and color
// into the fixed 9-float layout TransformToClipSpace copies through.
func (m *Mesh) Attributes(i int) []float32 {
	v := m.Vertices[i]
	return []float32{
		float32(v.Normal.X), float32(v.Normal.Y), float32(v.Normal.Z),
		v.UV[0], v.UV[1],
		v.Color[0], v.Color[1], v.Color[2], v.Color[3],
	}
}

// CalculateBounds recomputes BoundsMin/BoundsMax from Vertices.
func (m *Mesh) CalculateBounds() {
	if len(m.Vertices) == 0 {
		return
	}
	m.BoundsMin = m.Vertices[0].Position
	m.BoundsMax = m.Vertices[0].Position
	for _, v := range m.Vertices[1:] {
		m.BoundsMin = m.BoundsMin.Min(v.Position)
		m.BoundsMax = m.BoundsMax.Max(v.Position)
	}
}

// Center returns the midpoint of the mesh's bounding box.
func (m *Mesh) Center() scene.Vec3 {
	return m.BoundsMin.Add(m.BoundsMax).Scale(0.5)
}

// CalculateSmoothNormals replaces every vertex normal with the
// area-weighted average of its adjacent face normals, used when a glTF
// primitive carries no NORMAL accessor.
func (m *Mesh) CalculateSmoothNormals() {
	for i := range m.Vertices {
		m.Vertices[i].Normal = scene.Vec3{}
	}
	for i := 0; i+3 <= len(m.Indices); i += 3 {
		i0, i1, i2 := m.Indices[i], m.Indices[i+1], m.Indices[i+2]
		v0, v1, v2 := m.Vertices[i0].Position, m.Vertices[i1].Position, m.Vertices[i2].Position
		n := v1.Sub(v0).Cross(v2.Sub(v0))
		m.Vertices[i0].Normal = m.Vertices[i0].Normal.Add(n)
		m.Vertices[i1].Normal = m.Vertices[i1].Normal.Add(n)
		m.Vertices[i2].Normal = m.Vertices[i2].Normal.Add(n)
	}
	for i := range m.Vertices {
		m.Vertices[i].Normal = m.Vertices[i].Normal.Normalize()
	}
}
