package raster

import (
	"github.com/taigrr/swrast/pkg/simd"
)

// subpixelBits is the fixed-point fractional precision used for edge
// coordinates: 4 bits, i.e. 1/16th of a pixel.
const subpixelBits = 4
const subpixelScale = 1 << subpixelBits // 16

// toFixed truncates a screen coordinate toward zero at 4 fractional bits.
func toFixed(v float64) int32 {
	return int32(v * subpixelScale) // Go's float->int truncates toward zero
}

// edgeEquation is one half-space edge: E(x,y) = dedxF*x + dedyF*y + C,
// stepped incrementally in fixed-point pixel units as the quad walker
// advances across a tile.
type edgeEquation struct {
	dedx, dedy int32 // per-pixel step in x and y (fixed-point scaled)
	initial    simd.QInt
	xStep      int32 // step applied when advancing one quad in x (2 pixels)
	yStep      int32 // step applied when advancing one quad in y, row-stride-corrected
}

// setupEdge builds the edge equation for the directed edge x0,y0 -> x1,y1,
// with bias applied so the top-left fill rule includes pixels exactly on
// a top or left edge and excludes those on a bottom or right edge.
//
// Per spec.md step 2, the endpoints are truncated to fixed-point (1/16th
// pixel) *before* the deltas and tie-break are derived from them, not from
// the raw float coordinates: two edges that share a vertex pair in
// continuous space can still round to different fixed-point endpoints, and
// the fill rule has to agree with whichever edge the quantized coordinates
// actually describe, or adjacent triangles crack along a shared edge.
func setupEdge(x0, y0, x1, y1 float64, minX, minY, width int) edgeEquation {
	x0f := toFixed(x0)
	y0f := toFixed(y0)
	x1f := toFixed(x1)
	y1f := toFixed(y1)

	dx := x1f - x0f
	dy := y1f - y0f

	dedx := -dy << subpixelBits
	dedy := dx << subpixelBits

	value := dy*x0f - dx*y0f + dedx*int32(minX) + dedy*int32(minY)

	if dy < 0 || (dy == 0 && dx > 0) {
		value++
	}

	return edgeEquation{
		dedx: dedx,
		dedy: dedy,
		initial: simd.QInt{
			value,
			value + dedx,
			value + dedy,
			value + dedx + dedy,
		},
		xStep: dedx * 2,
		yStep: dedy*2 - dedx*int32(width),
	}
}

// stepEdgeX advances all four lanes by one quad (2 pixels) in x.
func stepEdgeX(v simd.QInt, e edgeEquation) simd.QInt {
	s := e.xStep
	return simd.QInt{v[0] + s, v[1] + s, v[2] + s, v[3] + s}
}

// stepEdgeY advances all four lanes by one quad row, starting from the
// values left at the end of the row's x walk: the y-step already subtracts
// that walk, returning to the left edge of the bounding box.
func stepEdgeY(v simd.QInt, e edgeEquation) simd.QInt {
	s := e.yStep
	return simd.QInt{v[0] + s, v[1] + s, v[2] + s, v[3] + s}
}

// coverageMask returns the per-lane "strictly positive" test that the top-
// left-biased edge values encode as interior membership.
func coverageMask(v simd.QInt) simd.QBool {
	var out simd.QBool
	for i, lane := range v {
		out[i] = lane > 0
	}
	return out
}
