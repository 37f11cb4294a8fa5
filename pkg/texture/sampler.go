package texture

import "github.com/taigrr/swrast/pkg/raster"

// Sampler implements raster.Sampler over *Texture objects. It samples all
// four lanes unconditionally — the core decides which lanes matter via its
// coverage mask — using (s, t) only; r and q are carried in the contract
// for API symmetry with higher-dimensional texturing the base formats here
// never exercise.
type Sampler struct{}

// Sample implements raster.Sampler.
func (Sampler) Sample(texObj any, _ any, coords raster.TexQuad) raster.ColorQuad {
	tex, ok := texObj.(*Texture)
	if !ok || tex == nil {
		return raster.ColorQuad{}
	}

	var out raster.ColorQuad
	for i := 0; i < 4; i++ {
		c := tex.SampleScalar(coords.S[i], coords.T[i])
		out.R[i] = c.R
		out.G[i] = c.G
		out.B[i] = c.B
		out.A[i] = c.A
	}
	return out
}
