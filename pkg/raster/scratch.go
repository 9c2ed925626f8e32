package raster

import "sync"

// scratchPool hands out reusable []float32 buffers for Rasterize's
// per-call scratch: the three vertices' decoded attributes (3*numAttributes),
// the per-triangle A_over_w precomputation (value/w for each of the N
// attributes, at each of the 3 vertices; 3*numAttributes), and one
// fragment's interpolated attributes (numAttributes). Reuse across Rasterize calls
// keeps steady-state rendering allocation-free, mirroring the original
// source's single malloc-at-entry, free-at-exit per call — but amortized
// across calls instead of per call, since Go has no cheap equivalent of a
// stack-scoped VLA and repeated make() would defeat the point of pooling.
var scratchPool = sync.Pool{
	New: func() any {
		s := make([]float32, 0, 64)
		return &s
	},
}

// acquireScratch returns a []float32 of length n, reusing a pooled backing
// array when large enough. Release it with releaseScratch when the call
// that acquired it returns, on every exit path including early returns.
func acquireScratch(n int) *[]float32 {
	p := scratchPool.Get().(*[]float32)
	if cap(*p) < n {
		*p = make([]float32, n)
	} else {
		*p = (*p)[:n]
	}
	return p
}

func releaseScratch(p *[]float32) {
	scratchPool.Put(p)
}
