// Package simd provides four-lane vector primitives used by the rasterizer
// to process a 2x2 pixel quad in lockstep. Go has no portable SIMD intrinsic
// package, so lanes are expressed as plain fixed-size arrays; the compiler
// is left to auto-vectorize where it can.
package simd

// QFloat holds four float32 lanes, one per pixel of a 2x2 quad, ordered
// top-left, top-right, bottom-left, bottom-right.
type QFloat [4]float32

// QInt holds four int32 lanes in the same quad order as QFloat.
type QInt [4]int32

// QBool holds four lane masks, true where the corresponding pixel is live.
type QBool [4]bool

// Splat broadcasts a scalar to all four lanes.
func Splat(v float32) QFloat {
	return QFloat{v, v, v, v}
}

// SplatInt broadcasts a scalar to all four int lanes.
func SplatInt(v int32) QInt {
	return QInt{v, v, v, v}
}

// Add returns the lane-wise sum.
func (a QFloat) Add(b QFloat) QFloat {
	return QFloat{a[0] + b[0], a[1] + b[1], a[2] + b[2], a[3] + b[3]}
}

// Sub returns the lane-wise difference.
func (a QFloat) Sub(b QFloat) QFloat {
	return QFloat{a[0] - b[0], a[1] - b[1], a[2] - b[2], a[3] - b[3]}
}

// Mul returns the lane-wise product.
func (a QFloat) Mul(b QFloat) QFloat {
	return QFloat{a[0] * b[0], a[1] * b[1], a[2] * b[2], a[3] * b[3]}
}

// MulAdd returns a*b + c, lane-wise.
func (a QFloat) MulAdd(b, c QFloat) QFloat {
	return QFloat{
		a[0]*b[0] + c[0],
		a[1]*b[1] + c[1],
		a[2]*b[2] + c[2],
		a[3]*b[3] + c[3],
	}
}

// Recip returns the lane-wise reciprocal. A zero lane yields zero rather
// than +Inf, since the fragment pipeline always gates on coverage before
// consuming a reciprocal.
func (a QFloat) Recip() QFloat {
	var out QFloat
	for i, v := range a {
		if v != 0 {
			out[i] = 1 / v
		}
	}
	return out
}

// Min returns the lane-wise minimum.
func (a QFloat) Min(b QFloat) QFloat {
	var out QFloat
	for i := range a {
		if a[i] < b[i] {
			out[i] = a[i]
		} else {
			out[i] = b[i]
		}
	}
	return out
}

// Max returns the lane-wise maximum.
func (a QFloat) Max(b QFloat) QFloat {
	var out QFloat
	for i := range a {
		if a[i] > b[i] {
			out[i] = a[i]
		} else {
			out[i] = b[i]
		}
	}
	return out
}

// Clamp restricts every lane to [lo, hi].
func (a QFloat) Clamp(lo, hi float32) QFloat {
	var out QFloat
	for i, v := range a {
		if v < lo {
			v = lo
		} else if v > hi {
			v = hi
		}
		out[i] = v
	}
	return out
}

// And returns the lane-wise logical AND of two masks.
func (a QBool) And(b QBool) QBool {
	var out QBool
	for i := range a {
		out[i] = a[i] && b[i]
	}
	return out
}

// Any reports whether at least one lane is true.
func (a QBool) Any() bool {
	return a[0] || a[1] || a[2] || a[3]
}
