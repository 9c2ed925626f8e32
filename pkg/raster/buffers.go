package raster

import (
	"encoding/binary"
	"fmt"
	"math"
)

// vertexCoordSize is the fixed-size (x, y, z, w) header of every vertex
// record: x, y are screen-space pixel coordinates, z, w are clip-space
// scalars used only for perspective-correct interpolation.
const vertexCoordSize = 4 * 4 // 4 float32

// fragmentCoordSize is the fixed-size (pixel x, pixel y, depth) header of
// every emitted fragment record.
const fragmentCoordSize = 2*4 + 4 // 2 uint32 + 1 float32

// DegenerateEpsilon bounds the magnitude of twice the signed triangle area
// (in pixel^2) below which a triangle is treated as degenerate and skipped.
// It is a heuristic tuned for screen-space coordinates in the low
// thousands; callers rasterizing at very different scales should not
// assume it is appropriate without checking.
const DegenerateEpsilon = 1e-5

// VertexBuffer is a caller-owned, contiguous, fixed-stride array of
// vertices. Each record's first four float32s are (x, y, z, w) in
// screen/clip space; the remainder is an ordered vector of user attributes.
// The core borrows the buffer for the duration of one Rasterize call and
// does not retain it.
type VertexBuffer struct {
	Data        []byte
	StrideBytes uint32
}

// AttributeCount returns the number of trailing float32 user attributes
// per vertex.
func (vb VertexBuffer) AttributeCount() uint32 {
	return (vb.StrideBytes - vertexCoordSize) / 4
}

func (vb VertexBuffer) validate() error {
	if vb.StrideBytes < vertexCoordSize {
		return fmt.Errorf("raster: stride_bytes %d is smaller than the 16-byte (x,y,z,w) header", vb.StrideBytes)
	}
	if vb.StrideBytes%4 != 0 {
		return fmt.Errorf("raster: stride_bytes %d is not a multiple of 4", vb.StrideBytes)
	}
	return nil
}

// vertexOffset returns the byte offset of vertex index in vb.Data, checking
// that the full record fits within the buffer.
func (vb VertexBuffer) vertexOffset(index uint32) (uint32, error) {
	off := uint64(vb.StrideBytes) * uint64(index)
	if off+uint64(vb.StrideBytes) > uint64(len(vb.Data)) {
		return 0, fmt.Errorf("raster: vertex index %d out of range for a %d-byte vertex buffer", index, len(vb.Data))
	}
	return uint32(off), nil
}

func readFloat32(data []byte, byteOffset uint32) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(data[byteOffset:]))
}

// vertex holds one decoded vertex's coordinates and attributes, borrowed
// into caller-owned scratch for the duration of one triangle.
type vertex struct {
	X, Y, Z, W float32
	attrs      []float32 // length == VertexBuffer.AttributeCount()
}

func (vb VertexBuffer) decodeVertex(index uint32, attrsOut []float32) (vertex, error) {
	off, err := vb.vertexOffset(index)
	if err != nil {
		return vertex{}, err
	}
	v := vertex{
		X: readFloat32(vb.Data, off),
		Y: readFloat32(vb.Data, off+4),
		Z: readFloat32(vb.Data, off+8),
		W: readFloat32(vb.Data, off+12),
	}
	for a := range attrsOut {
		attrsOut[a] = readFloat32(vb.Data, off+vertexCoordSize+uint32(a)*4)
	}
	v.attrs = attrsOut
	return v, nil
}

// IndexBuffer selects vertices from a VertexBuffer, consumed in contiguous
// triples; one triple defines one triangle.
type IndexBuffer []uint32

func (ib IndexBuffer) validate() error {
	if len(ib)%3 != 0 {
		return fmt.Errorf("raster: index count %d is not a multiple of 3", len(ib))
	}
	return nil
}
