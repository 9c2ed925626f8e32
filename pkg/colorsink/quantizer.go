package colorsink

import (
	"encoding/binary"
	"math"

	"github.com/cascade3d/cascade/pkg/raster"
)

// fragmentCoordSize mirrors raster's unexported constant of the same name:
// 2 uint32 pixel coordinates + 1 float32 depth precede the attributes in
// every fragment record.
const fragmentCoordSize = 2*4 + 4

// Quantizer is the reference Sink from the original source's
// processFragmentsWithoutDepth: it reads four consecutive attributes as
// (r, g, b, a) in [0,1], clamps and scales each to a byte, and writes the
// packed-BGRA result into an owned Framebuffer at the fragment's pixel
// coordinate. By default those four attributes are the first four
// (attribute index 0..3), matching the original source; callers whose
// vertex attributes carry color somewhere other than the front — e.g.
// pkg/mesh's normal.xyz, uv.xy, color.rgba layout — must call
// SetColorAttributeOffset to point at the right slot.
type Quantizer struct {
	FB *Framebuffer

	fragmentStride int
	colorOffset    int // byte offset of r within the attribute block
}

// NewQuantizer returns a Quantizer writing into a freshly allocated
// width x height Framebuffer.
func NewQuantizer(width, height int) *Quantizer {
	return &Quantizer{FB: New(width, height)}
}

// Flush implements raster.Sink.
func (q *Quantizer) Flush(frag []byte, usedBytes int) {
	for off := 0; off+fragmentCoordSize+16 <= usedBytes; {
		x := binary.LittleEndian.Uint32(frag[off:])
		y := binary.LittleEndian.Uint32(frag[off+4:])

		colorOff := off + fragmentCoordSize + q.colorOffset
		r := quantizeChannel(readFloat(frag, colorOff+0))
		g := quantizeChannel(readFloat(frag, colorOff+4))
		b := quantizeChannel(readFloat(frag, colorOff+8))
		a := quantizeChannel(readFloat(frag, colorOff+12))

		q.FB.Set(int(x), int(y), PackBGRA(r, g, b, a))
		off += q.stride()
	}
}

// stride returns the fixed fragment record size this Quantizer was
// configured for. Set via SetStride before the first Flush; defaults to
// exactly 4 attributes (16 bytes) if never called, matching the original
// source's processFragmentsWithoutDepth which only ever reads 4 floats.
func (q *Quantizer) stride() int {
	if q.fragmentStride == 0 {
		return fragmentCoordSize + 16
	}
	return q.fragmentStride
}

// SetStride records the true fragment record size (raster.FragmentStride(n)
// for whatever attribute count the caller's VertexBuffer carries), so Flush
// advances correctly when more than 4 attributes are present per vertex.
func (q *Quantizer) SetStride(n uint32) {
	q.fragmentStride = int(raster.FragmentStride(n))
}

// SetColorAttributeOffset points Flush at the attribute index where the
// four (r, g, b, a) floats begin, for vertex layouts that carry other
// attributes before color. Index 0 (the default) is the original source's
// attributes-are-just-color layout.
func (q *Quantizer) SetColorAttributeOffset(attrIndex uint32) {
	q.colorOffset = int(attrIndex) * 4
}

func readFloat(buf []byte, off int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(buf[off:]))
}

func quantizeChannel(c float32) uint8 {
	if c < 0 {
		return 0
	}
	if c > 1 {
		return 255
	}
	return uint8(c * 255)
}
