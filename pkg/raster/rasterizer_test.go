package raster

import (
	"encoding/binary"
	"math"
	"testing"
)

// recordingSink collects every flushed fragment as a decoded record, in
// flush order.
type recordingSink struct {
	stride  uint32
	records [][]float32 // [x, y, depth, attrs...] per fragment, x/y as floats for convenience
	flushes int
}

func (s *recordingSink) Flush(frag []byte, usedBytes int) {
	s.flushes++
	for off := 0; off+int(s.stride) <= usedBytes; off += int(s.stride) {
		x := binary.LittleEndian.Uint32(frag[off:])
		y := binary.LittleEndian.Uint32(frag[off+4:])
		depth := math.Float32frombits(binary.LittleEndian.Uint32(frag[off+8:]))
		rec := []float32{float32(x), float32(y), depth}
		for b := uint32(12); b < s.stride; b += 4 {
			rec = append(rec, math.Float32frombits(binary.LittleEndian.Uint32(frag[off+int(b):])))
		}
		s.records = append(s.records, rec)
	}
}

// putVertex appends one (x,y,z,w,attrs...) record to buf.
func putVertex(buf []byte, x, y, z, w float32, attrs ...float32) []byte {
	var rec [4]byte
	put := func(f float32) {
		binary.LittleEndian.PutUint32(rec[:], math.Float32bits(f))
		buf = append(buf, rec[:]...)
	}
	put(x)
	put(y)
	put(z)
	put(w)
	for _, a := range attrs {
		put(a)
	}
	return buf
}

func fullViewport(w, h int32) Viewport {
	return Viewport{Min: Point{0, 0}, Max: Point{w - 1, h - 1}}
}

func TestRasterizeSingleTriangleCoversExpectedPixels(t *testing.T) {
	// A right triangle with legs on the pixel grid: (1,1), (5,1), (1,5),
	// one attribute (a constant 1.0 so interpolation is a no-op to check).
	var vdata []byte
	vdata = putVertex(vdata, 1, 1, 0, 1, 1)
	vdata = putVertex(vdata, 5, 1, 0, 1, 1)
	vdata = putVertex(vdata, 1, 5, 0, 1, 1)

	vb := VertexBuffer{Data: vdata, StrideBytes: 20}
	ib := IndexBuffer{0, 1, 2}

	stride := FragmentStride(1)
	sink := &recordingSink{stride: stride}
	fb := FragmentBuffer{Buffer: make([]byte, stride*64), Sink: sink}

	input := Input{VertexData: vb, Indices: ib, Viewport: fullViewport(16, 16), CullMode: CullNone}
	if err := Rasterize(input, fb); err != nil {
		t.Fatalf("Rasterize: %v", err)
	}

	if len(sink.records) == 0 {
		t.Fatal("expected at least one covered pixel, got none")
	}
	for _, rec := range sink.records {
		x, y := rec[0], rec[1]
		if x < 1 || y < 1 {
			t.Errorf("pixel (%v,%v) outside triangle bounding box", x, y)
		}
		if attr := rec[3]; math.Abs(float64(attr)-1) > 1e-4 {
			t.Errorf("pixel (%v,%v) attribute = %v, want 1", x, y, attr)
		}
	}
}

func TestRasterizeDegenerateTriangleSkipped(t *testing.T) {
	var vdata []byte
	vdata = putVertex(vdata, 2, 2, 0, 1)
	vdata = putVertex(vdata, 2, 2, 0, 1)
	vdata = putVertex(vdata, 2, 2, 0, 1)

	vb := VertexBuffer{Data: vdata, StrideBytes: 16}
	ib := IndexBuffer{0, 1, 2}

	stride := FragmentStride(0)
	sink := &recordingSink{stride: stride}
	fb := FragmentBuffer{Buffer: make([]byte, stride*8), Sink: sink}

	err := Rasterize(Input{VertexData: vb, Indices: ib, Viewport: fullViewport(8, 8), CullMode: CullNone}, fb)
	if err != nil {
		t.Fatalf("Rasterize: %v", err)
	}
	if len(sink.records) != 0 {
		t.Errorf("degenerate triangle emitted %d fragments, want 0", len(sink.records))
	}
	if sink.flushes != 1 {
		t.Errorf("expected exactly one final (empty) flush, got %d", sink.flushes)
	}
}

func TestRasterizeViewportClipping(t *testing.T) {
	var vdata []byte
	vdata = putVertex(vdata, -10, -10, 0, 1)
	vdata = putVertex(vdata, 20, -10, 0, 1)
	vdata = putVertex(vdata, -10, 20, 0, 1)

	vb := VertexBuffer{Data: vdata, StrideBytes: 16}
	ib := IndexBuffer{0, 1, 2}

	stride := FragmentStride(0)
	sink := &recordingSink{stride: stride}
	fb := FragmentBuffer{Buffer: make([]byte, stride*1024), Sink: sink}

	vp := fullViewport(8, 8)
	err := Rasterize(Input{VertexData: vb, Indices: ib, Viewport: vp, CullMode: CullNone}, fb)
	if err != nil {
		t.Fatalf("Rasterize: %v", err)
	}
	for _, rec := range sink.records {
		p := Point{int32(rec[0]), int32(rec[1])}
		if !vp.Contains(p) {
			t.Errorf("fragment %v outside viewport %v", p, vp)
		}
	}
}

func TestRasterizeCullMode(t *testing.T) {
	// (0,0),(4,0),(0,4) is clockwise in a y-down screen space: area2 < 0.
	var cwData []byte
	cwData = putVertex(cwData, 0, 0, 0, 1)
	cwData = putVertex(cwData, 4, 0, 0, 1)
	cwData = putVertex(cwData, 0, 4, 0, 1)
	cw := VertexBuffer{Data: cwData, StrideBytes: 16}

	// Reverse winding: (0,0),(0,4),(4,0) is counter-clockwise, area2 > 0.
	var ccwData []byte
	ccwData = putVertex(ccwData, 0, 0, 0, 1)
	ccwData = putVertex(ccwData, 0, 4, 0, 1)
	ccwData = putVertex(ccwData, 4, 0, 0, 1)
	ccw := VertexBuffer{Data: ccwData, StrideBytes: 16}

	ib := IndexBuffer{0, 1, 2}
	stride := FragmentStride(0)
	vp := fullViewport(8, 8)

	run := func(vb VertexBuffer, mode CullMode) int {
		sink := &recordingSink{stride: stride}
		fb := FragmentBuffer{Buffer: make([]byte, stride*64), Sink: sink}
		if err := Rasterize(Input{VertexData: vb, Indices: ib, Viewport: vp, CullMode: mode}, fb); err != nil {
			t.Fatalf("Rasterize: %v", err)
		}
		return len(sink.records)
	}

	if n := run(cw, CullBack); n == 0 {
		t.Error("CullBack discarded a clockwise triangle, expected it to survive")
	}
	if n := run(ccw, CullBack); n != 0 {
		t.Errorf("CullBack kept a counter-clockwise triangle (%d fragments), expected 0", n)
	}
	if n := run(ccw, CullFront); n == 0 {
		t.Error("CullFront discarded a counter-clockwise triangle, expected it to survive")
	}
	if n := run(cw, CullFront); n != 0 {
		t.Errorf("CullFront kept a clockwise triangle (%d fragments), expected 0", n)
	}
}

// TestRasterizeSharedEdgeTopLeftExclusive checks that under FillTopLeft, two
// triangles sharing an edge never both claim the same pixel.
func TestRasterizeSharedEdgeTopLeftExclusive(t *testing.T) {
	// Two CW triangles splitting a quad along the diagonal (0,0)-(6,6):
	// A = (0,0),(6,0),(6,6) ; B = (0,0),(6,6),(0,6)
	var vdata []byte
	vdata = putVertex(vdata, 0, 0, 0, 1)
	vdata = putVertex(vdata, 6, 0, 0, 1)
	vdata = putVertex(vdata, 6, 6, 0, 1)
	vdata = putVertex(vdata, 0, 6, 0, 1)

	vb := VertexBuffer{Data: vdata, StrideBytes: 16}
	ib := IndexBuffer{0, 1, 2, 0, 2, 3}

	stride := FragmentStride(0)
	sink := &recordingSink{stride: stride}
	fb := FragmentBuffer{Buffer: make([]byte, stride*256), Sink: sink}

	err := Rasterize(Input{VertexData: vb, Indices: ib, Viewport: fullViewport(8, 8), CullMode: CullBack, FillRule: FillTopLeft}, fb)
	if err != nil {
		t.Fatalf("Rasterize: %v", err)
	}

	seen := map[[2]int32]bool{}
	for _, rec := range sink.records {
		p := [2]int32{int32(rec[0]), int32(rec[1])}
		if seen[p] {
			t.Errorf("pixel %v emitted by both triangles under FillTopLeft", p)
		}
		seen[p] = true
	}
}

func TestRasterizeFlushesWhenBufferFills(t *testing.T) {
	var vdata []byte
	vdata = putVertex(vdata, 0, 0, 0, 1)
	vdata = putVertex(vdata, 10, 0, 0, 1)
	vdata = putVertex(vdata, 0, 10, 0, 1)

	vb := VertexBuffer{Data: vdata, StrideBytes: 16}
	ib := IndexBuffer{0, 1, 2}

	stride := FragmentStride(0)
	sink := &recordingSink{stride: stride}
	// Room for exactly 2 fragments before a flush is forced.
	fb := FragmentBuffer{Buffer: make([]byte, stride*2), Sink: sink}

	err := Rasterize(Input{VertexData: vb, Indices: ib, Viewport: fullViewport(16, 16), CullMode: CullNone}, fb)
	if err != nil {
		t.Fatalf("Rasterize: %v", err)
	}
	if sink.flushes < 2 {
		t.Errorf("expected multiple flushes with a tiny buffer, got %d", sink.flushes)
	}
	if len(sink.records) == 0 {
		t.Fatal("expected fragments across flushes, got none")
	}
}

func TestRasterizePerspectiveCorrectInterpolation(t *testing.T) {
	// Differing w per vertex means a naive screen-space lerp of the
	// attribute diverges from the perspective-correct value away from the
	// vertices. Check a pixel beside the edge along which w varies strongly.
	var vdata []byte
	vdata = putVertex(vdata, 0, 0, 0, 1, 0)
	vdata = putVertex(vdata, 10, 0, 0, 4, 10)
	vdata = putVertex(vdata, 0, 10, 0, 1, 0)

	vb := VertexBuffer{Data: vdata, StrideBytes: 20}
	ib := IndexBuffer{0, 1, 2}

	stride := FragmentStride(1)
	sink := &recordingSink{stride: stride}
	fb := FragmentBuffer{Buffer: make([]byte, stride*512), Sink: sink}

	err := Rasterize(Input{VertexData: vb, Indices: ib, Viewport: fullViewport(16, 16), CullMode: CullNone}, fb)
	if err != nil {
		t.Fatalf("Rasterize: %v", err)
	}

	// Find the fragment at pixel (5,0), whose center (5.5,0.5) lies just
	// inside the x-axis edge between vertex 0 (attr 0, w 1) and vertex 1
	// (attr 10, w 4). Its screen-space weights are (0.4, 0.55, 0.05), so a
	// naive screen-space lerp would give 5.5; perspective-correct weights
	// by 1/w and pulls the value away from the high-w vertex.
	var found bool
	for _, rec := range sink.records {
		if int32(rec[0]) == 5 && int32(rec[1]) == 0 {
			found = true
			if math.Abs(float64(rec[3])-5.5) < 1e-3 {
				t.Errorf("attribute at pixel (5,0) = %v, naive screen-space lerp (5.5) should not match perspective-correct result", rec[3])
			}
		}
	}
	if !found {
		t.Skip("pixel center (5,0) not covered by this triangle's sample pattern")
	}
}

func TestRasterizeInvalidIndexCount(t *testing.T) {
	vb := VertexBuffer{Data: make([]byte, 64), StrideBytes: 16}
	ib := IndexBuffer{0, 1}
	stride := FragmentStride(0)
	fb := FragmentBuffer{Buffer: make([]byte, stride*4), Sink: &recordingSink{stride: stride}}

	if err := Rasterize(Input{VertexData: vb, Indices: ib, Viewport: fullViewport(4, 4)}, fb); err == nil {
		t.Error("expected an error for an index count not a multiple of 3")
	}
}

func TestRasterizeBadStride(t *testing.T) {
	vb := VertexBuffer{Data: make([]byte, 64), StrideBytes: 3}
	ib := IndexBuffer{0, 1, 2}
	stride := FragmentStride(0)
	fb := FragmentBuffer{Buffer: make([]byte, stride*4), Sink: &recordingSink{stride: stride}}

	if err := Rasterize(Input{VertexData: vb, Indices: ib, Viewport: fullViewport(4, 4)}, fb); err == nil {
		t.Error("expected an error for a stride that is too small")
	}
}

func TestRasterizeIndexOutOfRange(t *testing.T) {
	vb := VertexBuffer{Data: make([]byte, 16), StrideBytes: 16} // room for 1 vertex
	ib := IndexBuffer{0, 1, 2}
	stride := FragmentStride(0)
	fb := FragmentBuffer{Buffer: make([]byte, stride*4), Sink: &recordingSink{stride: stride}}

	if err := Rasterize(Input{VertexData: vb, Indices: ib, Viewport: fullViewport(4, 4)}, fb); err == nil {
		t.Error("expected an error for an out-of-range vertex index")
	}
}

func TestRasterizeFragmentBufferTooSmall(t *testing.T) {
	vb := VertexBuffer{Data: make([]byte, 64), StrideBytes: 16}
	ib := IndexBuffer{0, 1, 2}
	fb := FragmentBuffer{Buffer: make([]byte, 2), Sink: &recordingSink{stride: FragmentStride(0)}}

	if err := Rasterize(Input{VertexData: vb, Indices: ib, Viewport: fullViewport(4, 4)}, fb); err == nil {
		t.Error("expected an error for a fragment buffer smaller than one record")
	}
}

func TestRasterizeNilSink(t *testing.T) {
	vb := VertexBuffer{Data: make([]byte, 64), StrideBytes: 16}
	ib := IndexBuffer{0, 1, 2}
	fb := FragmentBuffer{Buffer: make([]byte, 64)}

	if err := Rasterize(Input{VertexData: vb, Indices: ib, Viewport: fullViewport(4, 4)}, fb); err == nil {
		t.Error("expected an error for a nil Sink")
	}
}
