package raster

import (
	"encoding/binary"
	"math"
)

// FragmentStride returns the byte size of one emitted fragment record for
// a vertex attribute count of numAttributes: two uint32 pixel coordinates,
// one float32 depth, and numAttributes float32 attributes.
func FragmentStride(numAttributes uint32) uint32 {
	return fragmentCoordSize + numAttributes*4
}

func writeFragment(buf []byte, offset uint32, x, y uint32, depth float32, attrs []float32) {
	binary.LittleEndian.PutUint32(buf[offset:], x)
	binary.LittleEndian.PutUint32(buf[offset+4:], y)
	binary.LittleEndian.PutUint32(buf[offset+8:], math.Float32bits(depth))
	for i, a := range attrs {
		binary.LittleEndian.PutUint32(buf[offset+fragmentCoordSize+uint32(i)*4:], math.Float32bits(a))
	}
}
