package mesh

import (
	"encoding/binary"
	"fmt"
	"math"
	"path/filepath"

	"github.com/qmuntal/gltf"

	"github.com/cascade3d/cascade/internal/logging"
	"github.com/cascade3d/cascade/pkg/scene"
)

// Load opens a glTF or GLB document and flattens every triangle primitive
// in it into one Mesh. Normals are smooth-averaged when a primitive has no
// NORMAL accessor; UVs default to (0,0) and vertex colors default to
// opaque white when their accessors are absent.
func Load(path string) (*Mesh, error) {
	log := logging.Logger()

	doc, err := gltf.Open(path)
	if err != nil {
		log.Error("mesh: failed to open glTF document", "path", path, "error", err)
		return nil, fmt.Errorf("mesh: open %s: %w", path, err)
	}

	m := New(filepath.Base(path))
	needsNormals := false

	for _, gm := range doc.Meshes {
		for _, prim := range gm.Primitives {
			if prim.Mode != gltf.PrimitiveTriangles && prim.Mode != 0 {
				continue
			}
			posIdx, ok := prim.Attributes[gltf.POSITION]
			if !ok {
				continue
			}
			positions, err := readVec3(doc, posIdx)
			if err != nil {
				log.Error("mesh: failed to decode POSITION accessor", "path", path, "error", err)
				return nil, fmt.Errorf("mesh: reading POSITION: %w", err)
			}

			var normals []scene.Vec3
			hasNormals := false
			if idx, ok := prim.Attributes[gltf.NORMAL]; ok {
				normals, err = readVec3(doc, idx)
				if err != nil {
					log.Error("mesh: failed to decode NORMAL accessor", "path", path, "error", err)
					return nil, fmt.Errorf("mesh: reading NORMAL: %w", err)
				}
				hasNormals = true
			}

			var uvs [][2]float32
			if idx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
				uvs, err = readVec2(doc, idx)
				if err != nil {
					log.Error("mesh: failed to decode TEXCOORD_0 accessor", "path", path, "error", err)
					return nil, fmt.Errorf("mesh: reading TEXCOORD_0: %w", err)
				}
			}

			var colors [][4]float32
			if idx, ok := prim.Attributes["COLOR_0"]; ok {
				colors, err = readVec4(doc, idx)
				if err != nil {
					log.Error("mesh: failed to decode COLOR_0 accessor", "path", path, "error", err)
					return nil, fmt.Errorf("mesh: reading COLOR_0: %w", err)
				}
			}

			base := uint32(len(m.Vertices))
			for i, p := range positions {
				v := Vertex{Position: p, Color: [4]float32{1, 1, 1, 1}}
				if hasNormals && i < len(normals) {
					v.Normal = normals[i]
				}
				if i < len(uvs) {
					// glTF has V=0 at the top; flip to bottom-left origin.
					v.UV = [2]float32{uvs[i][0], 1 - uvs[i][1]}
				}
				if i < len(colors) {
					v.Color = colors[i]
				}
				m.Vertices = append(m.Vertices, v)
			}
			if !hasNormals {
				needsNormals = true
			}

			if prim.Indices != nil {
				idx, err := readIndices(doc, *prim.Indices)
				if err != nil {
					log.Error("mesh: failed to decode index accessor", "path", path, "error", err)
					return nil, fmt.Errorf("mesh: reading indices: %w", err)
				}
				// glTF's front face is CCW; this engine's screen space has
				// a flipped Y axis, so CCW becomes CW here — swap the
				// trailing two indices of each triangle to compensate.
				for i := 0; i+3 <= len(idx); i += 3 {
					m.Indices = append(m.Indices, base+idx[i], base+idx[i+2], base+idx[i+1])
				}
			} else {
				for i := uint32(0); int(i)+3 <= len(positions); i += 3 {
					m.Indices = append(m.Indices, base+i, base+i+2, base+i+1)
				}
			}
		}
	}

	if needsNormals {
		m.CalculateSmoothNormals()
	}
	m.CalculateBounds()
	log.Info("mesh: loaded", "path", path, "vertices", len(m.Vertices), "triangles", len(m.Indices)/3)
	return m, nil
}

func accessorData(doc *gltf.Document, accessor *gltf.Accessor) ([]byte, int, error) {
	if accessor.BufferView == nil {
		return nil, 0, fmt.Errorf("accessor has no buffer view")
	}
	bv := doc.BufferViews[*accessor.BufferView]
	buf := doc.Buffers[bv.Buffer]
	if buf.Data == nil {
		return nil, 0, fmt.Errorf("external glTF buffers are not supported")
	}
	start := bv.ByteOffset + accessor.ByteOffset
	return buf.Data[start:], bv.ByteStride, nil
}

func readFloat32(b []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b))
}

func readVec3(doc *gltf.Document, accessorIdx int) ([]scene.Vec3, error) {
	accessor := doc.Accessors[accessorIdx]
	data, stride, err := accessorData(doc, accessor)
	if err != nil {
		return nil, err
	}
	if stride == 0 {
		stride = 12
	}
	out := make([]scene.Vec3, accessor.Count)
	for i := range out {
		off := i * stride
		out[i] = scene.V3(float64(readFloat32(data[off:])), float64(readFloat32(data[off+4:])), float64(readFloat32(data[off+8:])))
	}
	return out, nil
}

func readVec2(doc *gltf.Document, accessorIdx int) ([][2]float32, error) {
	accessor := doc.Accessors[accessorIdx]
	data, stride, err := accessorData(doc, accessor)
	if err != nil {
		return nil, err
	}
	if stride == 0 {
		stride = 8
	}
	out := make([][2]float32, accessor.Count)
	for i := range out {
		off := i * stride
		out[i] = [2]float32{readFloat32(data[off:]), readFloat32(data[off+4:])}
	}
	return out, nil
}

func readVec4(doc *gltf.Document, accessorIdx int) ([][4]float32, error) {
	accessor := doc.Accessors[accessorIdx]
	data, stride, err := accessorData(doc, accessor)
	if err != nil {
		return nil, err
	}
	if stride == 0 {
		stride = 16
	}
	out := make([][4]float32, accessor.Count)
	for i := range out {
		off := i * stride
		out[i] = [4]float32{readFloat32(data[off:]), readFloat32(data[off+4:]), readFloat32(data[off+8:]), readFloat32(data[off+12:])}
	}
	return out, nil
}

func readIndices(doc *gltf.Document, accessorIdx int) ([]uint32, error) {
	accessor := doc.Accessors[accessorIdx]
	data, stride, err := accessorData(doc, accessor)
	if err != nil {
		return nil, err
	}
	out := make([]uint32, accessor.Count)
	switch accessor.ComponentType {
	case gltf.ComponentUbyte:
		if stride == 0 {
			stride = 1
		}
		for i := range out {
			out[i] = uint32(data[i*stride])
		}
	case gltf.ComponentUshort:
		if stride == 0 {
			stride = 2
		}
		for i := range out {
			out[i] = uint32(binary.LittleEndian.Uint16(data[i*stride:]))
		}
	case gltf.ComponentUint:
		if stride == 0 {
			stride = 4
		}
		for i := range out {
			out[i] = binary.LittleEndian.Uint32(data[i*stride:])
		}
	default:
		return nil, fmt.Errorf("unsupported index component type %v", accessor.ComponentType)
	}
	return out, nil
}
