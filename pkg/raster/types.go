// Package raster implements the per-triangle rasterization and
// fragment-shading core of a software fixed-function OpenGL 1.x pipeline.
// Given one already-projected triangle and a draw-state block, Rasterize
// fills the covered pixels of a render-target tile with the depth-tested,
// textured, alpha-tested, blended, and color-masked result.
//
// Geometry setup (transform, clipping, backface culling), tile/thread
// dispatch, and texture storage/filtering policy are deliberately kept out
// — they are external collaborators the core is invoked from or calls into.
package raster

import "github.com/taigrr/swrast/pkg/simd"

// MaxTextureUnits bounds the per-unit texture state array at build time,
// matching a typical fixed-function implementation's unit count.
const MaxTextureUnits = 4

// TexCoord holds one texture unit's (s, t, r, q) coordinate at a vertex.
type TexCoord struct {
	S, T, R, Q float64
}

// Vertex is a raster-ready vertex: screen-space position, reciprocal view-w,
// primary color, and per-unit texture coordinates. Immutable inside the core.
type Vertex struct {
	X, Y float64 // screen-space pixel coordinates, fractional
	Z    float64 // depth-buffer space, [0,1]
	RcpW float64 // 1 / view-space w, always positive
	R, G, B, A float64 // primary color, [0,1]
	Tex  [MaxTextureUnits]TexCoord
}

// Triangle is an ordered triple of raster-ready vertices.
type Triangle struct {
	V [3]Vertex
}

// CompareFunc is a depth/alpha comparator.
type CompareFunc int

const (
	CompareNever CompareFunc = iota
	CompareLess
	CompareEqual
	CompareLEqual
	CompareGreater
	CompareNotEqual
	CompareGEqual
	CompareAlways
)

// Compare evaluates a against the reference b under this function.
func (f CompareFunc) Compare(a, b float32) bool {
	switch f {
	case CompareNever:
		return false
	case CompareLess:
		return a < b
	case CompareEqual:
		return a == b
	case CompareLEqual:
		return a <= b
	case CompareGreater:
		return a > b
	case CompareNotEqual:
		return a != b
	case CompareGEqual:
		return a >= b
	case CompareAlways:
		return true
	}
	return false
}

// BlendFactor selects a blend contribution, per spec's factor table.
type BlendFactor int

const (
	BlendZero BlendFactor = iota
	BlendOne
	BlendSrcColor
	BlendOneMinusSrcColor
	BlendDstColor
	BlendOneMinusDstColor
	BlendSrcAlpha
	BlendOneMinusSrcAlpha
	BlendDstAlpha
	BlendOneMinusDstAlpha
	BlendSrcAlphaSaturate
)

// TexEnvMode selects the fixed-function texture environment combiner.
type TexEnvMode int

const (
	EnvReplace TexEnvMode = iota
	EnvModulate
	EnvDecal
	EnvAdd
	EnvBlend
	EnvCombine // stub: always yields opaque magenta
)

// RGBA is a floating-point color in [0,1], used for per-unit env constants
// and anywhere the draw state needs a scalar color rather than a quad.
type RGBA struct {
	R, G, B, A float64
}

// TextureUnit is the per-unit texture state consulted by the texture
// environment stage. Tex is nil when no texture object is bound, in which
// case the unit is skipped entirely.
type TextureUnit struct {
	Tex        any // opaque texture object, passed through to Sampler
	Params     any // opaque sampler parameters, passed through to Sampler
	Env        TexEnvMode
	EnvColor   RGBA
	BaseFormat BaseFormat
}

// BaseFormat classifies a texture's texel layout, driving the texture
// environment behavior table.
type BaseFormat int

const (
	FormatAlpha BaseFormat = iota
	FormatLuminance
	FormatLuminanceAlpha
	FormatIntensity
	FormatRGB
	FormatRGBA
)

// ScissorRect is a tile-local inclusive pixel rectangle.
type ScissorRect struct {
	MinX, MinY, MaxX, MaxY int
}

// DrawState is the read-only-during-raster per-draw configuration block.
type DrawState struct {
	ScissorEnabled bool
	Scissor        ScissorRect

	DepthTestEnabled  bool
	DepthWriteEnabled bool
	DepthFunc         CompareFunc
	DeferredDepthWrite bool // depth write deferred until after alpha test

	AlphaTestEnabled bool
	AlphaFunc        CompareFunc
	AlphaRef         float64

	BlendEnabled bool
	BlendSrc     BlendFactor
	BlendDst     BlendFactor

	ColorMask uint32 // 32-bit write-enable, one bit per color-buffer bit

	PolygonOffsetEnabled bool
	OffsetFactor         float64
	OffsetUnits          float64 // already multiplied by r (smallest resolvable z step)

	Units [MaxTextureUnits]TextureUnit
}

// TexQuad holds four-lane (s, t, r, q) coordinates for one quad, the
// argument shape the external sampler contract consumes.
type TexQuad struct {
	S, T, R, Q simd.QFloat
}

// ColorQuad holds four-lane RGBA in [0,1], the shape the sampler returns
// and the shape the texture environment stage operates on.
type ColorQuad struct {
	R, G, B, A simd.QFloat
}

// Sampler is the external texture sampling contract (spec §4.5). The core
// is agnostic to filtering and wrap modes; any implementation honoring this
// signature may be plugged in.
type Sampler interface {
	Sample(texObj any, params any, coords TexQuad) ColorQuad
}

// RenderTarget is the render-target adapter contract (spec §4.4): a
// non-owning, tile-local view onto packed-ARGB color and float32 depth
// buffers.
type RenderTarget interface {
	MinX() int
	MinY() int
	MaxX() int
	MaxY() int
	Width() int // row width in pixels, including padding to quad alignment
	Color() []uint32
	Depth() []float32
}
