package scene

import (
	"encoding/binary"
	"math"

	"github.com/cascade3d/cascade/pkg/raster"
)

// VertexSource is the minimal shape TransformToClipSpace needs from a
// loaded mesh: per-vertex access to the position and to the mesh's own
// float32 attributes, plus the number of those attributes per vertex
// (position not included).
type VertexSource interface {
	VertexCount() int
	Position(i int) Vec3
	AttributeCount() int
	Attributes(i int) []float32
}

// TransformToClipSpace runs every vertex of src through viewProj and the
// screen viewport, writing the result into a fresh raster.VertexBuffer
// whose (x, y, z, w) header holds screen-space x/y, clip-space z, and
// clip-space w (for the core's perspective-correct interpolation), with
// src's attributes copied through unchanged after it.
func TransformToClipSpace(src VertexSource, viewProj Mat4, screenWidth, screenHeight int) raster.VertexBuffer {
	n := src.VertexCount()
	numAttrs := src.AttributeCount()
	stride := 16 + uint32(numAttrs)*4
	data := make([]byte, uint32(n)*stride)

	var word [4]byte
	putFloat := func(off uint32, f float32) {
		binary.LittleEndian.PutUint32(word[:], math.Float32bits(f))
		copy(data[off:], word[:])
	}

	for i := 0; i < n; i++ {
		clip := viewProj.MulVec4(V4FromV3(src.Position(i), 1))

		var screenX, screenY float64
		if clip.W != 0 {
			screenX = (clip.X/clip.W + 1) * 0.5 * float64(screenWidth)
			screenY = (1 - clip.Y/clip.W) * 0.5 * float64(screenHeight)
		}

		off := uint32(i) * stride
		putFloat(off+0, float32(screenX))
		putFloat(off+4, float32(screenY))
		putFloat(off+8, float32(clip.Z))
		putFloat(off+12, float32(clip.W))

		attrs := src.Attributes(i)
		for a, v := range attrs {
			putFloat(off+16+uint32(a)*4, v)
		}
	}

	return raster.VertexBuffer{Data: data, StrideBytes: stride}
}
