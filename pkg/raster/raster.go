package raster

import (
	"math"

	"github.com/taigrr/swrast/internal/assert"
	"github.com/taigrr/swrast/pkg/simd"
)

// Rasterize fills the covered pixels of one render-target tile for one
// raster-ready triangle, applying depth test/write, perspective-correct
// texturing, alpha test, blending, and color masking. It returns false
// without touching the target when the triangle is degenerate or entirely
// clipped away.
func Rasterize(tri Triangle, state *DrawState, sampler Sampler, target RenderTarget) bool {
	assert.Always(target.Width()%2 == 0, "render target width must be quad-aligned")

	v0, v1, v2 := tri.V[0], tri.V[1], tri.V[2]

	// Step 1: signed reciprocal area and vertex order for edge setup.
	area := (v1.X-v0.X)*(v2.Y-v0.Y) - (v1.Y-v0.Y)*(v2.X-v0.X)
	if area == 0 {
		return false
	}
	rcpArea := 1 / area

	e0, e1, e2 := v0, v1, v2
	if rcpArea < 0 {
		e1, e2 = e2, e1 // reorder so the edge half-space test is E > 0 on the interior
	}

	// Step 3/4: bounding box, clamped to tile and scissor, snapped to quad alignment.
	minXf := math.Floor(math.Min(e0.X, math.Min(e1.X, e2.X)))
	maxXf := math.Ceil(math.Max(e0.X, math.Max(e1.X, e2.X)))
	minYf := math.Floor(math.Min(e0.Y, math.Min(e1.Y, e2.Y)))
	maxYf := math.Ceil(math.Max(e0.Y, math.Max(e1.Y, e2.Y)))

	minX, maxX := int(minXf), int(maxXf)
	minY, maxY := int(minYf), int(maxYf)

	if minX < target.MinX() {
		minX = target.MinX()
	}
	if minY < target.MinY() {
		minY = target.MinY()
	}
	if maxX > target.MaxX() {
		maxX = target.MaxX()
	}
	if maxY > target.MaxY() {
		maxY = target.MaxY()
	}
	if state.ScissorEnabled {
		if minX < state.Scissor.MinX {
			minX = state.Scissor.MinX
		}
		if minY < state.Scissor.MinY {
			minY = state.Scissor.MinY
		}
		if maxX > state.Scissor.MaxX {
			maxX = state.Scissor.MaxX
		}
		if maxY > state.Scissor.MaxY {
			maxY = state.Scissor.MaxY
		}
	}

	minX &^= 1 // snap down to even
	minY &^= 1
	if minX > maxX || minY > maxY {
		return false
	}

	boxWidth := maxX - minX + 1
	width := (boxWidth + 1) &^ 1 // round bbox width up to even

	// Step 5: edge equations.
	edges := [3]edgeEquation{
		setupEdge(e1.X, e1.Y, e2.X, e2.Y, minX, minY, width),
		setupEdge(e2.X, e2.Y, e0.X, e0.Y, minX, minY, width),
		setupEdge(e0.X, e0.Y, e1.X, e1.Y, minX, minY, width),
	}

	activeUnits := 0
	for i := range state.Units {
		if state.Units[i].Tex != nil {
			activeUnits = i + 1
		}
	}

	// Step 6: gradients, using the *original* (unreordered) vertices and
	// the signed area so interpolation slopes stay independent of the
	// edge-equation vertex reorder.
	grads := setupGradients(v0, v1, v2, rcpArea, activeUnits)

	// Step 7: polygon offset.
	zOffset := polygonOffset(grads.Z, state)

	tileWidth := target.Width()
	rowStride := (tileWidth - width) * 2
	quadsPerTileRow := tileWidth / 2

	colorBuf := target.Color()
	depthBuf := target.Depth()

	startQuadIdx := ((minY-target.MinY())/2*quadsPerTileRow + (minX-target.MinX())/2) * 4

	wy := [3]simd.QInt{edges[0].initial, edges[1].initial, edges[2].initial}
	rowIdx := startQuadIdx

	any := false

	for y := minY; y <= maxY; y += 2 {
		wx := wy
		idx := rowIdx

		for x := minX; x <= maxX; x += 2 {
			mask := coverageMask(wx[0]).And(coverageMask(wx[1])).And(coverageMask(wx[2]))
			if mask.Any() {
				if runQuad(float64(x), float64(y), mask, &grads, zOffset, state, sampler, colorBuf, depthBuf, idx) {
					any = true
				}
			}

			wx[0] = stepEdgeX(wx[0], edges[0])
			wx[1] = stepEdgeX(wx[1], edges[1])
			wx[2] = stepEdgeX(wx[2], edges[2])
			idx += 4
		}

		wy[0] = stepEdgeY(wx[0], edges[0])
		wy[1] = stepEdgeY(wx[1], edges[1])
		wy[2] = stepEdgeY(wx[2], edges[2])
		rowIdx = idx + rowStride
	}

	return any
}

// runQuad executes the fixed-function fragment pipeline (spec §4.3) for
// one 2x2 quad whose four packed color/depth slots begin at bufIdx.
func runQuad(qx, qy float64, mask simd.QBool, grads *triangleGradients, zOffset float64, state *DrawState, sampler Sampler, colorBuf []uint32, depthBuf []float32, bufIdx int) bool {
	// Step 1: depth test.
	if state.DepthTestEnabled {
		z := grads.Z.Eval(qx, qy)
		zb := simd.QFloat{depthBuf[bufIdx], depthBuf[bufIdx+1], depthBuf[bufIdx+2], depthBuf[bufIdx+3]}
		currentZ := z.Add(simd.Splat(float32(zOffset)))

		var depthPass simd.QBool
		for i := range depthPass {
			depthPass[i] = state.DepthFunc.Compare(currentZ[i], zb[i])
		}
		mask = mask.And(depthPass)
		if !mask.Any() {
			return false
		}

		if state.DepthWriteEnabled && !state.DeferredDepthWrite {
			writeDepth(depthBuf, bufIdx, currentZ, mask)
		}

		return finishFragment(qx, qy, mask, grads, currentZ, state, sampler, colorBuf, depthBuf, bufIdx)
	}

	z := grads.Z.Eval(qx, qy).Add(simd.Splat(float32(zOffset)))
	return finishFragment(qx, qy, mask, grads, z, state, sampler, colorBuf, depthBuf, bufIdx)
}

func finishFragment(qx, qy float64, mask simd.QBool, grads *triangleGradients, currentZ simd.QFloat, state *DrawState, sampler Sampler, colorBuf []uint32, depthBuf []float32, bufIdx int) bool {
	// Step 2: perspective w.
	rcpW := grads.RcpW.Eval(qx, qy)
	w := rcpW.Recip()

	// Step 3: primary color, perspective-correct.
	src := ColorQuad{
		R: grads.R.Eval(qx, qy).Mul(w),
		G: grads.G.Eval(qx, qy).Mul(w),
		B: grads.B.Eval(qx, qy).Mul(w),
		A: grads.A.Eval(qx, qy).Mul(w),
	}

	// Step 4: texture stages, in unit order.
	for i := range state.Units {
		unit := &state.Units[i]
		if unit.Tex == nil {
			continue
		}
		coords := TexQuad{
			S: grads.Tex[i][0].Eval(qx, qy).Mul(w),
			T: grads.Tex[i][1].Eval(qx, qy).Mul(w),
			R: grads.Tex[i][2].Eval(qx, qy).Mul(w),
			Q: grads.Tex[i][3].Eval(qx, qy).Mul(w),
		}
		texColor := sampler.Sample(unit.Tex, unit.Params, coords)
		src = applyTexEnv(src, texColor, unit)
	}

	// Step 5: alpha test.
	if state.AlphaTestEnabled {
		ref := simd.Splat(float32(state.AlphaRef))
		var pass simd.QBool
		for i := range pass {
			pass[i] = state.AlphaFunc.Compare(src.A[i], ref[i])
		}
		mask = mask.And(pass)
		if !mask.Any() {
			return false
		}
		if state.DeferredDepthWrite && state.DepthWriteEnabled && state.DepthTestEnabled {
			writeDepth(depthBuf, bufIdx, currentZ, mask)
		}
	}

	// Step 6: blending.
	packedBefore := [4]uint32{colorBuf[bufIdx], colorBuf[bufIdx+1], colorBuf[bufIdx+2], colorBuf[bufIdx+3]}
	if state.BlendEnabled {
		dst := unpackColor(packedBefore)
		src = blend(src, dst, state)
	}

	// Step 7/8/9: pack, color mask, write.
	packed := packColor(src)
	masked := applyColorMask(packed, packedBefore, state.ColorMask)

	for i := 0; i < 4; i++ {
		if mask[i] {
			colorBuf[bufIdx+i] = masked[i]
		}
	}

	return true
}

func writeDepth(depthBuf []float32, bufIdx int, z simd.QFloat, mask simd.QBool) {
	for i := 0; i < 4; i++ {
		if mask[i] {
			depthBuf[bufIdx+i] = z[i]
		}
	}
}
