package raster_test

import (
	"testing"

	"github.com/taigrr/swrast/pkg/framebuffer"
	. "github.com/taigrr/swrast/pkg/raster"
)

// fakeSampler returns a fixed color regardless of coordinates, for tests
// that don't exercise texturing.
type fakeSampler struct{}

func (fakeSampler) Sample(any, any, TexQuad) ColorQuad { return ColorQuad{} }

// checkerSampler implements a 2x2 nearest checker, grounded on the texture
// package's own NewChecker pattern but inlined here to keep pkg/raster's
// tests free of a pkg/texture import.
type checkerSampler struct{}

func (checkerSampler) Sample(_ any, _ any, coords TexQuad) ColorQuad {
	var out ColorQuad
	for i := 0; i < 4; i++ {
		cx := int(coords.S[i] * 2)
		cy := int(coords.T[i] * 2)
		if cx > 1 {
			cx = 1
		}
		if cy > 1 {
			cy = 1
		}
		if (cx+cy)%2 == 0 {
			out.R[i], out.G[i], out.B[i], out.A[i] = 1, 1, 1, 1
		} else {
			out.R[i], out.G[i], out.B[i], out.A[i] = 0, 0, 0, 1
		}
	}
	return out
}

func alwaysWriteState() *DrawState {
	return &DrawState{
		DepthTestEnabled:  true,
		DepthWriteEnabled: true,
		DepthFunc:         CompareAlways,
		ColorMask:         0xFFFFFFFF,
	}
}

func redTriangle(z float64) Triangle {
	return Triangle{V: [3]Vertex{
		{X: 0, Y: 0, Z: z, RcpW: 1, R: 1, G: 0, B: 0, A: 1},
		{X: 10, Y: 0, Z: z, RcpW: 1, R: 1, G: 0, B: 0, A: 1},
		{X: 0, Y: 10, Z: z, RcpW: 1, R: 1, G: 0, B: 0, A: 1},
	}}
}

// TestScenario1_OpaqueRedTriangleCoverage checks the triangular-number
// coverage count and exact color/depth of a simple opaque triangle.
func TestScenario1_OpaqueRedTriangleCoverage(t *testing.T) {
	target := framebuffer.New(0, 0, 31, 31, 0x00000000, 1.0)
	state := alwaysWriteState()

	ok := Rasterize(redTriangle(0.5), state, fakeSampler{}, target)
	if !ok {
		t.Fatal("Rasterize reported no coverage for a non-degenerate triangle")
	}

	count := 0
	for y := target.MinY(); y <= target.MaxY(); y++ {
		for x := target.MinX(); x <= target.MaxX(); x++ {
			c := target.At(x, y)
			d := target.DepthAt(x, y)
			if c == 0xFFFF0000 {
				if d != 0.5 {
					t.Errorf("pixel (%d,%d) has color but depth %v, want 0.5", x, y, d)
				}
				count++
			}
		}
	}

	const want = 55 // triangular number T(10)
	if count != want {
		t.Errorf("filled pixel count = %d, want %d", count, want)
	}
}

// TestScenario2_DepthLessLeavesUnchangedOnRedraw exercises depth-test
// monotonicity: redrawing the same coplanar triangle with LESS leaves
// color and depth untouched after the first draw.
func TestScenario2_DepthLessLeavesUnchangedOnRedraw(t *testing.T) {
	target := framebuffer.New(0, 0, 31, 31, 0x00000000, 1.0)
	first := alwaysWriteState()
	Rasterize(redTriangle(0.5), first, fakeSampler{}, target)

	before := append([]uint32(nil), target.Color()...)
	beforeDepth := append([]float32(nil), target.Depth()...)

	second := alwaysWriteState()
	second.DepthFunc = CompareLess
	Rasterize(redTriangle(0.5), second, fakeSampler{}, target)

	for i := range before {
		if target.Color()[i] != before[i] {
			t.Fatalf("color changed at slot %d: %x -> %x", i, before[i], target.Color()[i])
		}
		if target.Depth()[i] != beforeDepth[i] {
			t.Fatalf("depth changed at slot %d: %v -> %v", i, beforeDepth[i], target.Depth()[i])
		}
	}
}

// TestScenario4_AlphaBlendHalfWhiteOverBlack checks the classic
// src-alpha/one-minus-src-alpha blend of 50% white over a black backbuffer.
func TestScenario4_AlphaBlendHalfWhiteOverBlack(t *testing.T) {
	target := framebuffer.New(0, 0, 1, 1, 0xFF000000, 1.0)
	state := &DrawState{
		BlendEnabled: true,
		BlendSrc:     BlendSrcAlpha,
		BlendDst:     BlendOneMinusSrcAlpha,
		ColorMask:    0xFFFFFFFF,
	}

	tri := Triangle{V: [3]Vertex{
		{X: -10, Y: -10, Z: 0.5, RcpW: 1, R: 1, G: 1, B: 1, A: 0.5},
		{X: 30, Y: -10, Z: 0.5, RcpW: 1, R: 1, G: 1, B: 1, A: 0.5},
		{X: -10, Y: 30, Z: 0.5, RcpW: 1, R: 1, G: 1, B: 1, A: 0.5},
	}}

	Rasterize(tri, state, fakeSampler{}, target)

	got := target.At(0, 0)
	wantA, wantRGB := byte(0x80), byte(0x7F)
	gotA := byte(got >> 24)
	gotR := byte(got >> 16)
	gotG := byte(got >> 8)
	gotB := byte(got)

	if absByte(gotA, wantA) > 1 || absByte(gotR, wantRGB) > 1 || absByte(gotG, wantRGB) > 1 || absByte(gotB, wantRGB) > 1 {
		t.Errorf("blended pixel = %#08x, want approximately 0x807F7F7F", got)
	}
}

// TestScenario6_ColorMaskExactness confirms bits outside the color mask
// are preserved bit-for-bit from the prior backbuffer.
func TestScenario6_ColorMaskExactness(t *testing.T) {
	target := framebuffer.New(0, 0, 1, 1, 0x00000000, 1.0)
	state := alwaysWriteState()
	state.ColorMask = 0x00FF0000

	tri := Triangle{V: [3]Vertex{
		{X: -10, Y: -10, Z: 0.5, RcpW: 1, R: 1, G: 1, B: 1, A: 1},
		{X: 30, Y: -10, Z: 0.5, RcpW: 1, R: 1, G: 1, B: 1, A: 1},
		{X: -10, Y: 30, Z: 0.5, RcpW: 1, R: 1, G: 1, B: 1, A: 1},
	}}

	Rasterize(tri, state, fakeSampler{}, target)

	if got := target.At(0, 0); got != 0x00FF0000 {
		t.Errorf("masked write = %#08x, want 0x00ff0000", got)
	}
}

// TestScenario5_PolygonOffsetMakesSecondCoplanarTriangleVisible checks
// that applying a polygon offset on the second of two coplanar triangles
// lets it win the depth test under LESS.
func TestScenario5_PolygonOffsetMakesSecondCoplanarTriangleVisible(t *testing.T) {
	target := framebuffer.New(0, 0, 31, 31, 0x00000000, 1.0)
	first := alwaysWriteState()
	Rasterize(redTriangle(0.5), first, fakeSampler{}, target)

	second := &DrawState{
		DepthTestEnabled:     true,
		DepthWriteEnabled:    true,
		DepthFunc:            CompareLess,
		ColorMask:            0xFFFFFFFF,
		PolygonOffsetEnabled: true,
		OffsetFactor:         1,
		OffsetUnits:          1,
	}
	// The offset uses OffsetUnits directly as r*units per the draw-state
	// contract, so even a flat (zero-gradient) triangle gets pushed toward
	// the camera by OffsetUnits, winning LESS against the first draw.
	second.OffsetUnits = -1

	blueTri := redTriangle(0.5)
	for i := range blueTri.V {
		blueTri.V[i].R, blueTri.V[i].G, blueTri.V[i].B = 0, 0, 1
	}

	ok := Rasterize(blueTri, second, fakeSampler{}, target)
	if !ok {
		t.Fatal("second triangle reported no coverage")
	}

	if got := target.At(5, 2); got != 0xFF0000FF {
		t.Errorf("second triangle pixel = %#08x, want opaque blue (offset should have won depth test)", got)
	}
}

// TestScenario3_TexturedCheckerReplaceNearest checks that a REPLACE/nearest
// textured quad reproduces a 2x2 checker exactly at interior sample points.
func TestScenario3_TexturedCheckerReplaceNearest(t *testing.T) {
	target := framebuffer.New(0, 0, 9, 9, 0x00000000, 1.0)
	state := &DrawState{
		DepthTestEnabled:  true,
		DepthWriteEnabled: true,
		DepthFunc:         CompareAlways,
		ColorMask:         0xFFFFFFFF,
	}
	state.Units[0] = TextureUnit{Tex: struct{}{}, Env: EnvReplace, BaseFormat: FormatRGBA}

	tri1 := Triangle{V: [3]Vertex{
		vtx(0, 0, 0, 0),
		vtx(10, 0, 1, 0),
		vtx(0, 10, 0, 1),
	}}
	tri2 := Triangle{V: [3]Vertex{
		vtx(10, 0, 1, 0),
		vtx(10, 10, 1, 1),
		vtx(0, 10, 0, 1),
	}}

	Rasterize(tri1, state, checkerSampler{}, target)
	Rasterize(tri2, state, checkerSampler{}, target)

	// Top-left quadrant (s,t near 0,0) should be white; the adjacent
	// quadrant along s should be black.
	topLeft := target.At(2, 2)
	topRight := target.At(7, 2)
	if topLeft != 0xFFFFFFFF {
		t.Errorf("top-left checker cell = %#08x, want white", topLeft)
	}
	if topRight != 0xFF000000 {
		t.Errorf("top-right checker cell = %#08x, want black", topRight)
	}
}

func vtx(x, y, s, tt float64) Vertex {
	v := Vertex{X: x, Y: y, Z: 0.5, RcpW: 1, R: 1, G: 1, B: 1, A: 1}
	v.Tex[0] = TexCoord{S: s, T: tt, R: 0, Q: 1}
	return v
}

func absByte(a, b byte) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}

func TestDegenerateTriangleSkipped(t *testing.T) {
	target := framebuffer.New(0, 0, 9, 9, 0x00000000, 1.0)
	state := alwaysWriteState()

	tri := Triangle{V: [3]Vertex{
		{X: 0, Y: 0, Z: 0.5, RcpW: 1},
		{X: 5, Y: 5, Z: 0.5, RcpW: 1},
		{X: 10, Y: 10, Z: 0.5, RcpW: 1}, // collinear
	}}

	if Rasterize(tri, state, fakeSampler{}, target) {
		t.Error("degenerate (zero-area) triangle should report no coverage")
	}
	for _, c := range target.Color() {
		if c != 0x00000000 {
			t.Error("degenerate triangle must not modify the backbuffer")
			break
		}
	}
}

func TestScissorContainment(t *testing.T) {
	target := framebuffer.New(0, 0, 31, 31, 0x00000000, 1.0)
	state := alwaysWriteState()
	state.ScissorEnabled = true
	state.Scissor = ScissorRect{MinX: 0, MinY: 0, MaxX: 3, MaxY: 3}

	Rasterize(redTriangle(0.5), state, fakeSampler{}, target)

	for y := target.MinY(); y <= target.MaxY(); y++ {
		for x := target.MinX(); x <= target.MaxX(); x++ {
			if x > 3 || y > 3 {
				if target.At(x, y) != 0x00000000 {
					t.Fatalf("pixel (%d,%d) outside scissor rect was modified", x, y)
				}
			}
		}
	}
}
