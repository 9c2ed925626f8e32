package raster

import "fmt"

// CullMode selects which winding direction of triangle is discarded before
// rasterization. The coverage test's natural convention (all three edge
// functions <= 0) culls counter-clockwise triangles; CullMode makes that a
// runtime choice instead of a silent fixed behavior.
type CullMode int

const (
	// CullBack discards counter-clockwise (in screen space, y down)
	// triangles. This is the coverage test's native convention and the
	// default.
	CullBack CullMode = iota
	// CullFront discards clockwise triangles — the mirror image of CullBack.
	CullFront
	// CullNone rasterizes both winding orders.
	CullNone
)

// FillRule selects how pixels exactly on a shared triangle edge are
// resolved.
type FillRule int

const (
	// FillInclusive is spec's literal "all edges <= 0" test: a pixel
	// exactly on an edge shared by two triangles is emitted by both.
	FillInclusive FillRule = iota
	// FillTopLeft additionally requires, for a pixel exactly on an edge
	// (E_k == 0), that the edge be a top edge (horizontal, dY==0, dX<0) or
	// a left edge (dY>0) — the standard rasterization tie-break that
	// guarantees a shared edge is claimed by exactly one of its two
	// triangles.
	FillTopLeft
)

// Input describes one rasterize call: the indexed, strided vertex mesh,
// the viewport it is clipped to, and the winding/fill policy.
type Input struct {
	VertexData  VertexBuffer
	Indices     IndexBuffer
	StrideBytes uint32 // mirrors VertexData.StrideBytes; validated equal if both set
	Viewport    Viewport
	CullMode    CullMode
	FillRule    FillRule
}

// Rasterize walks every triangle named by three consecutive indices in
// input.Indices, Pineda-traverses its screen-space bounding box clipped to
// input.Viewport, and for every covered pixel center writes a
// perspective-correct fragment record (pixel x, pixel y, depth, N
// attributes) into fb.Buffer, flushing to fb.Sink whenever the next record
// would not fit and unconditionally once more at the end.
//
// Precondition violations (index count not a multiple of 3, a stride too
// small or misaligned, a fragment buffer too small for one record, an index
// out of range for the vertex buffer) are reported as an error rather than
// left as undefined behavior, and no fragments are emitted for that call.
// Degenerate triangles (|2*signed area| < DegenerateEpsilon) and triangles
// whose bounding box does not intersect the viewport are not errors: they
// silently contribute zero fragments.
func Rasterize(input Input, fb FragmentBuffer) error {
	if err := input.Indices.validate(); err != nil {
		return err
	}
	if err := input.VertexData.validate(); err != nil {
		return err
	}
	if input.StrideBytes != 0 && input.StrideBytes != input.VertexData.StrideBytes {
		return fmt.Errorf("raster: Input.StrideBytes %d does not match VertexData.StrideBytes %d", input.StrideBytes, input.VertexData.StrideBytes)
	}
	for _, idx := range input.Indices {
		if _, err := input.VertexData.vertexOffset(idx); err != nil {
			return err
		}
	}
	numAttribs := input.VertexData.AttributeCount()
	fragStride := FragmentStride(numAttribs)
	if uint32(len(fb.Buffer)) < fragStride {
		return fmt.Errorf("raster: fragment buffer of %d bytes is smaller than one %d-byte fragment record", len(fb.Buffer), fragStride)
	}
	if fb.Sink == nil {
		return fmt.Errorf("raster: FragmentBuffer.Sink must not be nil")
	}

	attrScratch := acquireScratch(3 * int(numAttribs)) // v0,v1,v2 attrs
	defer releaseScratch(attrScratch)
	v0Attrs := (*attrScratch)[0*numAttribs : 1*numAttribs]
	v1Attrs := (*attrScratch)[1*numAttribs : 2*numAttribs]
	v2Attrs := (*attrScratch)[2*numAttribs : 3*numAttribs]

	aOverWScratch := acquireScratch(3 * int(numAttribs))
	defer releaseScratch(aOverWScratch)
	aOverW := *aOverWScratch // laid out [attrib*3 + vertex]

	attrOutScratch := acquireScratch(int(numAttribs))
	defer releaseScratch(attrOutScratch)
	attrOut := *attrOutScratch

	usedBytes := 0

	for i := 0; i+3 <= len(input.Indices); i += 3 {
		v0i, v1i, v2i := input.Indices[i], input.Indices[i+1], input.Indices[i+2]

		v0, err := input.VertexData.decodeVertex(v0i, v0Attrs)
		if err != nil {
			return err
		}
		v1, err := input.VertexData.decodeVertex(v1i, v1Attrs)
		if err != nil {
			return err
		}
		v2, err := input.VertexData.decodeVertex(v2i, v2Attrs)
		if err != nil {
			return err
		}

		bb := triangleBounds(v0.X, v0.Y, v1.X, v1.Y, v2.X, v2.Y).clipToViewport(input.Viewport)
		if bb.Min.X > bb.Max.X || bb.Min.Y > bb.Max.Y {
			continue
		}

		iInit := pixelFloor(bb.Min.X)
		jInit := pixelFloor(bb.Min.Y)
		iMax := pixelCeil(bb.Max.X)
		jMax := pixelCeil(bb.Max.Y)
		if iInit > iMax || jInit > jMax {
			continue
		}

		edges := computeEdges(v0.X, v0.Y, v1.X, v1.Y, v2.X, v2.Y)

		px := float32(iInit) + 0.5
		py := float32(jInit) + 0.5
		var eRow [3]float32
		eRow[0] = edgeFunction(v0.X, v0.Y, edges.dX[0], edges.dY[0], px, py)
		eRow[1] = edgeFunction(v1.X, v1.Y, edges.dX[1], edges.dY[1], px, py)
		eRow[2] = edgeFunction(v2.X, v2.Y, edges.dX[2], edges.dY[2], px, py)

		area2 := eRow[0] + eRow[1] + eRow[2]
		if abs32(area2) < DegenerateEpsilon {
			continue
		}

		switch input.CullMode {
		case CullBack:
			if area2 > 0 {
				continue
			}
		case CullFront:
			if area2 < 0 {
				continue
			}
		}

		negateCoverage := area2 > 0
		invArea2 := 1 / area2

		invW := [3]float32{1 / v0.W, 1 / v1.W, 1 / v2.W}
		zOverW := [3]float32{v0.Z * invW[0], v1.Z * invW[1], v2.Z * invW[2]}
		for a := uint32(0); a < numAttribs; a++ {
			aOverW[a*3+0] = v0Attrs[a] * invW[0]
			aOverW[a*3+1] = v1Attrs[a] * invW[1]
			aOverW[a*3+2] = v2Attrs[a] * invW[2]
		}

		for j := jInit; j <= jMax; j++ {
			eCol := eRow
			for i := iInit; i <= iMax; i++ {
				if covered(eCol, edges, input.FillRule, negateCoverage) {
					if usedBytes+int(fragStride) > len(fb.Buffer) {
						fb.Sink.Flush(fb.Buffer, usedBytes)
						usedBytes = 0
					}

					lambda0 := eCol[1] * invArea2
					lambda1 := eCol[2] * invArea2
					lambda2 := eCol[0] * invArea2

					oneOverW := lambda0*invW[0] + lambda1*invW[1] + lambda2*invW[2]
					invOneOverW := 1 / oneOverW

					depth := (lambda0*zOverW[0] + lambda1*zOverW[1] + lambda2*zOverW[2]) * invOneOverW
					for a := uint32(0); a < numAttribs; a++ {
						interp := lambda0*aOverW[a*3+0] + lambda1*aOverW[a*3+1] + lambda2*aOverW[a*3+2]
						attrOut[a] = interp * invOneOverW
					}

					writeFragment(fb.Buffer, uint32(usedBytes), uint32(i), uint32(j), depth, attrOut)
					usedBytes += int(fragStride)
				}

				eCol[0] += edges.dY[0]
				eCol[1] += edges.dY[1]
				eCol[2] += edges.dY[2]
			}

			eRow[0] -= edges.dX[0]
			eRow[1] -= edges.dX[1]
			eRow[2] -= edges.dX[2]
		}
	}

	fb.Sink.Flush(fb.Buffer, usedBytes)
	return nil
}

// covered applies the coverage test: all edge functions <= 0 for a
// clockwise (negative-area2) triangle, or their mirror (all >= 0, tested via
// negate) for a counter-clockwise one — CullNone rasterizes both windings, so
// the predicate must work for either sign of area2. Optionally tightened by
// the top-left tie-break rule, whose edge classification is mirrored the
// same way.
func covered(e [3]float32, edges triangleEdges, rule FillRule, negate bool) bool {
	for k := 0; k < 3; k++ {
		v := e[k]
		dX, dY := edges.dX[k], edges.dY[k]
		if negate {
			v, dX, dY = -v, -dX, -dY
		}
		if v > 0 {
			return false
		}
		if v == 0 && rule == FillTopLeft && !isTopLeft(dX, dY) {
			return false
		}
	}
	return true
}

func abs32(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
