package raster

import "github.com/taigrr/swrast/pkg/simd"

// lane pixel offsets within a quad, in (dx, dy) order matching simd's lane
// convention: top-left, top-right, bottom-left, bottom-right.
var laneOffsetX = [4]float64{0, 1, 0, 1}
var laneOffsetY = [4]float64{0, 0, 1, 1}

// gradientPlane is a linear plane q(x,y) = c + dqdx*x + dqdy*y fitted to
// an attribute's three vertex values. It is deliberately re-evaluated from
// scratch every quad rather than stepped incrementally, trading a few
// extra multiplies for freedom from long-span drift and banding.
type gradientPlane struct {
	dqdx, dqdy, c float64
}

// setupGradient fits a plane to attribute values q0,q1,q2 at screen
// positions v0,v1,v2 using the precomputed edge deltas and reciprocal
// signed area (rcpArea carries the sign of the original, unreordered
// triangle so that slopes remain correct independent of any edge-equation
// vertex reorder).
func setupGradient(v0, v1, v2 Vertex, q0, q1, q2, rcpArea float64) gradientPlane {
	dx1 := v1.X - v0.X
	dy1 := v1.Y - v0.Y
	dx2 := v2.X - v0.X
	dy2 := v2.Y - v0.Y

	dq1 := q1 - q0
	dq2 := q2 - q0

	dqdx := (dq1*dy2 - dq2*dy1) * rcpArea
	dqdy := (dq2*dx1 - dq1*dx2) * rcpArea
	c := q0 - dqdx*v0.X - dqdy*v0.Y

	return gradientPlane{dqdx: dqdx, dqdy: dqdy, c: c}
}

// Eval returns the plane's value at the quad whose top-left pixel is
// (x, y), one value per lane.
func (g gradientPlane) Eval(x, y float64) simd.QFloat {
	var out simd.QFloat
	for i := range out {
		px := x + laneOffsetX[i]
		py := y + laneOffsetY[i]
		out[i] = float32(g.c + g.dqdx*px + g.dqdy*py)
	}
	return out
}

// triangleGradients holds every plane the fragment pipeline needs:
// depth, reciprocal-w, primary color, and per-unit texture coordinates.
type triangleGradients struct {
	Z, RcpW    gradientPlane
	R, G, B, A gradientPlane
	Tex        [MaxTextureUnits][4]gradientPlane // s,t,r,q per unit
}

// setupGradients builds every attribute plane for a triangle, given the
// triangle's original (unreordered) vertices and the signed reciprocal
// area of that same vertex order; the edge-setup reorder is not applied
// here, so the slopes' signs match rcpArea.
func setupGradients(v0, v1, v2 Vertex, rcpArea float64, activeUnits int) triangleGradients {
	var g triangleGradients
	g.Z = setupGradient(v0, v1, v2, v0.Z, v1.Z, v2.Z, rcpArea)
	g.RcpW = setupGradient(v0, v1, v2, v0.RcpW, v1.RcpW, v2.RcpW, rcpArea)
	g.R = setupGradient(v0, v1, v2, v0.R, v1.R, v2.R, rcpArea)
	g.G = setupGradient(v0, v1, v2, v0.G, v1.G, v2.G, rcpArea)
	g.B = setupGradient(v0, v1, v2, v0.B, v1.B, v2.B, rcpArea)
	g.A = setupGradient(v0, v1, v2, v0.A, v1.A, v2.A, rcpArea)

	for u := 0; u < activeUnits; u++ {
		g.Tex[u][0] = setupGradient(v0, v1, v2, v0.Tex[u].S, v1.Tex[u].S, v2.Tex[u].S, rcpArea)
		g.Tex[u][1] = setupGradient(v0, v1, v2, v0.Tex[u].T, v1.Tex[u].T, v2.Tex[u].T, rcpArea)
		g.Tex[u][2] = setupGradient(v0, v1, v2, v0.Tex[u].R, v1.Tex[u].R, v2.Tex[u].R, rcpArea)
		g.Tex[u][3] = setupGradient(v0, v1, v2, v0.Tex[u].Q, v1.Tex[u].Q, v2.Tex[u].Q, rcpArea)
	}
	return g
}
