package raster

import "github.com/taigrr/swrast/pkg/simd"

// unpackColor decodes four packed 0xAARRGGBB pixels into floating RGBA
// quads scaled to [0,1].
func unpackColor(packed [4]uint32) ColorQuad {
	var c ColorQuad
	for i, p := range packed {
		c.A[i] = float32(byte(p>>24)) / 255
		c.R[i] = float32(byte(p>>16)) / 255
		c.G[i] = float32(byte(p>>8)) / 255
		c.B[i] = float32(byte(p)) / 255
	}
	return c
}

// packColor clamps each channel to [0,1] and packs to 0xAARRGGBB.
func packColor(c ColorQuad) [4]uint32 {
	zero, one := simd.Splat(0), simd.Splat(1)
	a := c.A.Max(zero).Min(one)
	r := c.R.Max(zero).Min(one)
	g := c.G.Max(zero).Min(one)
	b := c.B.Max(zero).Min(one)

	var out [4]uint32
	for i := range out {
		out[i] = uint32(byte(a[i]*255+0.5))<<24 | uint32(byte(r[i]*255+0.5))<<16 | uint32(byte(g[i]*255+0.5))<<8 | uint32(byte(b[i]*255+0.5))
	}
	return out
}

// applyColorMask produces (packed & mask) | (backbuffer &^ mask) per lane.
func applyColorMask(packed, backbuffer [4]uint32, mask uint32) [4]uint32 {
	var out [4]uint32
	for i := range out {
		out[i] = (packed[i] & mask) | (backbuffer[i] &^ mask)
	}
	return out
}

// blendFactorValue returns a factor's (alpha, rgb) contribution for one
// lane, given that lane's source and destination colors.
func blendFactorValue(f BlendFactor, srcA, dstA, srcR, srcG, srcB, dstR, dstG, dstB float32) (a, r, g, b float32) {
	switch f {
	case BlendZero:
		return 0, 0, 0, 0
	case BlendOne:
		return 1, 1, 1, 1
	case BlendSrcColor:
		return srcA, srcR, srcG, srcB
	case BlendOneMinusSrcColor:
		return 1 - srcA, 1 - srcR, 1 - srcG, 1 - srcB
	case BlendDstColor:
		return dstA, dstR, dstG, dstB
	case BlendOneMinusDstColor:
		return 1 - dstA, 1 - dstR, 1 - dstG, 1 - dstB
	case BlendSrcAlpha:
		return srcA, srcA, srcA, srcA
	case BlendOneMinusSrcAlpha:
		return 1 - srcA, 1 - srcA, 1 - srcA, 1 - srcA
	case BlendDstAlpha:
		return dstA, dstA, dstA, dstA
	case BlendOneMinusDstAlpha:
		return 1 - dstA, 1 - dstA, 1 - dstA, 1 - dstA
	case BlendSrcAlphaSaturate:
		m := srcA
		if 1-dstA < m {
			m = 1 - dstA
		}
		return 1, m, m, m
	}
	return 0, 0, 0, 0
}

// blend combines src and dst per-lane using the draw state's fixed
// FUNC_ADD equation: result = src*srcFactor + dst*dstFactor.
func blend(src, dst ColorQuad, state *DrawState) ColorQuad {
	var out ColorQuad
	for i := range out.R {
		sa, sr, sg, sb := blendFactorValue(state.BlendSrc, src.A[i], dst.A[i], src.R[i], src.G[i], src.B[i], dst.R[i], dst.G[i], dst.B[i])
		da, dr, dg, db := blendFactorValue(state.BlendDst, src.A[i], dst.A[i], src.R[i], src.G[i], src.B[i], dst.R[i], dst.G[i], dst.B[i])

		out.A[i] = src.A[i]*sa + dst.A[i]*da
		out.R[i] = src.R[i]*sr + dst.R[i]*dr
		out.G[i] = src.G[i]*sg + dst.G[i]*dg
		out.B[i] = src.B[i]*sb + dst.B[i]*db
	}
	return out
}

// applyTexEnv mixes the running fragment color with a sampled texel
// according to the unit's environment mode and the texture's base format,
// per the fixed-function behavior table. Combinations the table leaves
// blank pass srcColor through untouched.
func applyTexEnv(src ColorQuad, tex ColorQuad, unit *TextureUnit) ColorQuad {
	if unit.Env == EnvCombine {
		return ColorQuad{
			R: simd.Splat(1),
			G: simd.Splat(0),
			B: simd.Splat(1),
			A: simd.Splat(1),
		}
	}

	format := unit.BaseFormat
	out := src

	switch unit.Env {
	case EnvReplace:
		switch format {
		case FormatAlpha:
			out.A = tex.A
		case FormatLuminance, FormatRGB:
			out.R, out.G, out.B = tex.R, tex.G, tex.B
		case FormatLuminanceAlpha, FormatIntensity, FormatRGBA:
			out.R, out.G, out.B, out.A = tex.R, tex.G, tex.B, tex.A
		}
	case EnvModulate:
		switch format {
		case FormatAlpha:
			out.A = src.A.Mul(tex.A)
		case FormatLuminance, FormatRGB:
			out.R, out.G, out.B = src.R.Mul(tex.R), src.G.Mul(tex.G), src.B.Mul(tex.B)
		case FormatLuminanceAlpha:
			out.A = src.A.Mul(tex.A)
			out.R, out.G, out.B = src.R.Mul(tex.R), src.G.Mul(tex.G), src.B.Mul(tex.B)
		case FormatIntensity, FormatRGBA:
			out.R, out.G, out.B, out.A = src.R.Mul(tex.R), src.G.Mul(tex.G), src.B.Mul(tex.B), src.A.Mul(tex.A)
		}
	case EnvDecal:
		switch format {
		case FormatRGB:
			out.R, out.G, out.B = tex.R, tex.G, tex.B
		case FormatRGBA:
			out.R = lerpLane(src.R, tex.R, tex.A)
			out.G = lerpLane(src.G, tex.G, tex.A)
			out.B = lerpLane(src.B, tex.B, tex.A)
			// alpha unchanged
		default:
			// DECAL is undefined for Alpha/Luminance/LumAlpha/Intensity; leave untouched.
		}
	case EnvAdd:
		switch format {
		case FormatAlpha:
			out.A = src.A.Mul(tex.A)
		case FormatLuminance:
			out.R, out.G, out.B = addClamped(src.R, tex.R), addClamped(src.G, tex.G), addClamped(src.B, tex.B)
		case FormatLuminanceAlpha:
			out.A = src.A.Mul(tex.A)
			out.R, out.G, out.B = addClamped(src.R, tex.R), addClamped(src.G, tex.G), addClamped(src.B, tex.B)
		case FormatIntensity:
			out.R, out.G, out.B, out.A = addClamped(src.R, tex.R), addClamped(src.G, tex.G), addClamped(src.B, tex.B), addClamped(src.A, tex.A)
		case FormatRGB:
			out.R, out.G, out.B = addClamped(src.R, tex.R), addClamped(src.G, tex.G), addClamped(src.B, tex.B)
		case FormatRGBA:
			out.A = src.A.Mul(tex.A)
			out.R, out.G, out.B = addClamped(src.R, tex.R), addClamped(src.G, tex.G), addClamped(src.B, tex.B)
		}
	case EnvBlend:
		cr, cg, cb, ca := simd.Splat(float32(unit.EnvColor.R)), simd.Splat(float32(unit.EnvColor.G)), simd.Splat(float32(unit.EnvColor.B)), simd.Splat(float32(unit.EnvColor.A))
		switch format {
		case FormatAlpha:
			out.A = src.A.Mul(tex.A)
		case FormatLuminance, FormatRGB:
			out.R, out.G, out.B = lerpLane(tex.R, src.R, cr), lerpLane(tex.G, src.G, cg), lerpLane(tex.B, src.B, cb)
		case FormatLuminanceAlpha:
			out.A = src.A.Mul(tex.A)
			out.R, out.G, out.B = lerpLane(tex.R, src.R, cr), lerpLane(tex.G, src.G, cg), lerpLane(tex.B, src.B, cb)
		case FormatIntensity:
			out.A = lerpLane(tex.A, src.A, ca)
			out.R, out.G, out.B = lerpLane(tex.R, src.R, cr), lerpLane(tex.G, src.G, cg), lerpLane(tex.B, src.B, cb)
		case FormatRGBA:
			out.A = src.A.Mul(tex.A)
			out.R, out.G, out.B = lerpLane(tex.R, src.R, cr), lerpLane(tex.G, src.G, cg), lerpLane(tex.B, src.B, cb)
		}
	}
	return out
}

// lerpLane returns a + (b-a)*t, lane-wise.
func lerpLane(a, b, t simd.QFloat) simd.QFloat {
	return t.MulAdd(b.Sub(a), a)
}

func addClamped(a, b simd.QFloat) simd.QFloat {
	return a.Add(b).Min(simd.Splat(1))
}
