// Package texsink provides an additional, non-reference fragment sink
// demonstrating that a fragment record's attributes need not be a color:
// here the first three are read as (u, v, intensity) and used to sample a
// texture image.
package texsink

import (
	"encoding/binary"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"math"

	"github.com/cascade3d/cascade/pkg/colorsink"
)

const fragmentCoordSize = 2*4 + 4

// Sink samples Image at each fragment's (u, v) attribute with nearest-
// neighbor filtering and repeat wrapping, scales the sampled color by the
// third attribute (treated as a light intensity in [0,1]), and writes the
// packed-BGRA result into FB.
type Sink struct {
	Image image.Image
	FB    *colorsink.Framebuffer

	fragmentStride int
}

// New returns a Sink sampling tex, writing into a fresh width x height
// Framebuffer.
func New(tex image.Image, width, height int) *Sink {
	return &Sink{Image: tex, FB: colorsink.New(width, height)}
}

// SetStride records the true fragment record size for the vertex
// attribute count in use (at least 3 attributes: u, v, intensity).
func (s *Sink) SetStride(numAttributes uint32) {
	s.fragmentStride = int(fragmentCoordSize + numAttributes*4)
}

func (s *Sink) stride() int {
	if s.fragmentStride == 0 {
		return fragmentCoordSize + 3*4
	}
	return s.fragmentStride
}

// Flush implements raster.Sink.
func (s *Sink) Flush(frag []byte, usedBytes int) {
	bounds := s.Image.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	for off := 0; off+s.stride() <= usedBytes; off += s.stride() {
		x := binary.LittleEndian.Uint32(frag[off:])
		y := binary.LittleEndian.Uint32(frag[off+4:])

		u := readFloat(frag, off+fragmentCoordSize+0)
		v := readFloat(frag, off+fragmentCoordSize+4)
		intensity := readFloat(frag, off+fragmentCoordSize+8)

		u = wrapRepeat(u)
		v = wrapRepeat(1 - v) // image Y=0 at top, UV V=0 at bottom

		sx := int(u * float32(w))
		sy := int(v * float32(h))
		if sx >= w {
			sx = w - 1
		}
		if sy >= h {
			sy = h - 1
		}

		r, g, b, a := s.Image.At(bounds.Min.X+sx, bounds.Min.Y+sy).RGBA()
		scale := clamp01(intensity)
		s.FB.Set(int(x), int(y), colorsink.PackBGRA(
			scale8(r, scale),
			scale8(g, scale),
			scale8(b, scale),
			uint8(a>>8),
		))
	}
}

func readFloat(buf []byte, off int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(buf[off:]))
}

func wrapRepeat(c float32) float32 {
	c -= float32(math.Floor(float64(c)))
	if c < 0 {
		c++
	}
	return c
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// scale8 converts a 16-bit color.RGBA channel to 8-bit and scales by
// intensity.
func scale8(channel16 uint32, intensity float32) uint8 {
	v := float32(channel16>>8) * intensity
	if v > 255 {
		v = 255
	}
	return uint8(v)
}
