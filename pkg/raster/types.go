// Package raster implements a software triangle rasterizer: Pineda
// edge-function traversal over an indexed, arbitrary-attribute vertex
// buffer, perspective-correct attribute interpolation, and a batched
// fragment sink protocol. It has no dependencies beyond the standard
// library — it is the hot-path core the rest of this module feeds.
package raster

// Vec2 is a two-component float32 vector used for screen-space positions
// and bounding boxes.
type Vec2 struct {
	X, Y float32
}

// Point is an integer pixel coordinate.
type Point struct {
	X, Y int32
}

// Viewport is an inclusive-axis-aligned integer rectangle in screen space.
// Rasterize never emits a fragment with coordinates outside [Min, Max].
type Viewport struct {
	Min, Max Point
}

// Contains reports whether p lies within the inclusive viewport rectangle.
func (v Viewport) Contains(p Point) bool {
	return p.X >= v.Min.X && p.X <= v.Max.X && p.Y >= v.Min.Y && p.Y <= v.Max.Y
}

// boundingBox is a float32 axis-aligned rectangle used to bound a single
// triangle before it is clipped to the viewport.
type boundingBox struct {
	Min, Max Vec2
}

func triangleBounds(x0, y0, x1, y1, x2, y2 float32) boundingBox {
	return boundingBox{
		Min: Vec2{min3(x0, x1, x2), min3(y0, y1, y2)},
		Max: Vec2{max3(x0, x1, x2), max3(y0, y1, y2)},
	}
}

// clipToViewport returns bb clamped to the viewport rectangle, in float
// space (the caller still needs to floor/ceil to pixel bounds).
func (bb boundingBox) clipToViewport(vp Viewport) boundingBox {
	return boundingBox{
		Min: Vec2{
			max2(bb.Min.X, float32(vp.Min.X)),
			max2(bb.Min.Y, float32(vp.Min.Y)),
		},
		Max: Vec2{
			min2(bb.Max.X, float32(vp.Max.X)),
			min2(bb.Max.Y, float32(vp.Max.Y)),
		},
	}
}

func min2(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func max2(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

func min3(a, b, c float32) float32 {
	return min2(a, min2(b, c))
}

func max3(a, b, c float32) float32 {
	return max2(a, max2(b, c))
}

// pixelFloor and pixelCeil implement ordinary mathematical floor/ceil for
// the bounding-box-to-pixel-range conversion: the integer k such that
// k <= x < k+1 (floor) or k-1 < x <= k (ceil), tolerant of negative inputs.
func pixelFloor(x float32) int32 {
	i := int32(x)
	if x < float32(i) {
		i--
	}
	return i
}

func pixelCeil(x float32) int32 {
	i := int32(x)
	if x > float32(i) {
		i++
	}
	return i
}
