package raster

// edgeFunction computes the signed area of the parallelogram formed by the
// edge vector (dX, dY) and the vector from origin to point. It is the third
// component of (point-origin) x (dX, dY), and its sign encodes which side
// of the edge point lies on.
//
//	E(p) = (p.x - origin.x) * dY - (p.y - origin.y) * dX
func edgeFunction(originX, originY, dX, dY, px, py float32) float32 {
	return (px-originX)*dY - (py-originY)*dX
}

// triangleEdges holds the three edge-vector deltas for a triangle's edges
// E0 = V0->V1, E1 = V1->V2, E2 = V2->V0.
type triangleEdges struct {
	dX, dY [3]float32
}

func computeEdges(x0, y0, x1, y1, x2, y2 float32) triangleEdges {
	return triangleEdges{
		dX: [3]float32{x1 - x0, x2 - x1, x0 - x2},
		dY: [3]float32{y1 - y0, y2 - y1, y0 - y2},
	}
}

// isTopLeft reports whether edge k (given its delta) is a "top" edge
// (horizontal, pointing left) or a "left" edge (pointing down) under the
// FillTopLeft rule.
func isTopLeft(dX, dY float32) bool {
	isTop := dY == 0 && dX < 0
	isLeft := dY > 0
	return isTop || isLeft
}
