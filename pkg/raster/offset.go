package raster

import "math"

// polygonOffset computes the depth bias added to a triangle's interpolated
// z to disambiguate coplanar geometry: the steeper the depth plane, the
// larger the bias, plus a constant term scaled by the smallest resolvable
// depth-buffer step (state.OffsetUnits already carries that factor).
func polygonOffset(z gradientPlane, state *DrawState) float64 {
	if !state.PolygonOffsetEnabled {
		return 0
	}
	slope := math.Max(math.Abs(z.dqdx), math.Abs(z.dqdy))
	return slope*state.OffsetFactor + state.OffsetUnits
}
