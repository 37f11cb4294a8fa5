package camera

import (
	"math"
	"testing"

	"github.com/taigrr/swrast/pkg/math3d"
)

func TestPlaneDistanceToPoint(t *testing.T) {
	plane := Plane{Normal: math3d.V3(0, 0, 1), D: 0}

	tests := []struct {
		name     string
		point    math3d.Vec3
		expected float64
	}{
		{"origin", math3d.V3(0, 0, 0), 0},
		{"in front", math3d.V3(0, 0, 5), 5},
		{"behind", math3d.V3(0, 0, -3), -3},
		{"offset XY", math3d.V3(10, -5, 2), 2},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			dist := plane.DistanceToPoint(tc.point)
			if math.Abs(dist-tc.expected) > 1e-9 {
				t.Errorf("got %v, want %v", dist, tc.expected)
			}
		})
	}
}

func TestPlaneNormalize(t *testing.T) {
	plane := Plane{Normal: math3d.V3(0, 3, 4), D: 10}
	plane.Normalize()

	if length := plane.Normal.Len(); math.Abs(length-1.0) > 1e-9 {
		t.Errorf("normalized normal length = %v, want 1.0", length)
	}
	if math.Abs(plane.Normal.Y-0.6) > 1e-9 {
		t.Errorf("normal.Y = %v, want 0.6", plane.Normal.Y)
	}
	if math.Abs(plane.Normal.Z-0.8) > 1e-9 {
		t.Errorf("normal.Z = %v, want 0.8", plane.Normal.Z)
	}
	if math.Abs(plane.D-2.0) > 1e-9 {
		t.Errorf("D = %v, want 2.0", plane.D)
	}
}

func TestAABBBasics(t *testing.T) {
	box := NewAABB(math3d.V3(-1, -2, -3), math3d.V3(1, 2, 3))

	if center := box.Center(); center.X != 0 || center.Y != 0 || center.Z != 0 {
		t.Errorf("center = %v, want (0, 0, 0)", center)
	}
	if size := box.Size(); size.X != 2 || size.Y != 4 || size.Z != 6 {
		t.Errorf("size = %v, want (2, 4, 6)", size)
	}
	if half := box.HalfSize(); half.X != 1 || half.Y != 2 || half.Z != 3 {
		t.Errorf("halfSize = %v, want (1, 2, 3)", half)
	}
}

func TestAABBContainsPoint(t *testing.T) {
	box := NewAABB(math3d.V3(0, 0, 0), math3d.V3(10, 10, 10))

	tests := []struct {
		name     string
		point    math3d.Vec3
		expected bool
	}{
		{"center", math3d.V3(5, 5, 5), true},
		{"corner min", math3d.V3(0, 0, 0), true},
		{"corner max", math3d.V3(10, 10, 10), true},
		{"outside X", math3d.V3(11, 5, 5), false},
		{"outside Y", math3d.V3(5, -1, 5), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := box.ContainsPoint(tc.point); got != tc.expected {
				t.Errorf("ContainsPoint(%v) = %v, want %v", tc.point, got, tc.expected)
			}
		})
	}
}

func TestAABBTransform(t *testing.T) {
	box := NewAABB(math3d.V3(-1, -1, -1), math3d.V3(1, 1, 1))

	t.Run("translation", func(t *testing.T) {
		trans := math3d.Translate(math3d.V3(10, 20, 30))
		tb := box.Transform(trans)
		if tb.Min.X != 9 || tb.Min.Y != 19 || tb.Min.Z != 29 {
			t.Errorf("translated min = %v, want (9, 19, 29)", tb.Min)
		}
		if tb.Max.X != 11 || tb.Max.Y != 21 || tb.Max.Z != 31 {
			t.Errorf("translated max = %v, want (11, 21, 31)", tb.Max)
		}
	})

	t.Run("scale", func(t *testing.T) {
		tb := box.Transform(math3d.ScaleUniform(2.0))
		if tb.Min.X != -2 || tb.Max.X != 2 {
			t.Errorf("scaled bounds = [%v, %v], want [-2, 2]", tb.Min.X, tb.Max.X)
		}
	})
}

func TestFrustumFromPerspectiveIsNormalized(t *testing.T) {
	proj := math3d.Perspective(math.Pi/3, 16.0/9.0, 0.1, 100)
	view := math3d.Identity()
	frustum := FrustumFromMatrix(proj.Mul(view))

	for i, plane := range frustum.Planes {
		if length := plane.Normal.Len(); math.Abs(length-1.0) > 1e-6 {
			t.Errorf("plane %d normal length = %v, want 1.0", i, length)
		}
	}
}

func TestFrustumContainsPoint(t *testing.T) {
	proj := math3d.Perspective(math.Pi/3, 16.0/9.0, 0.1, 100.0)
	frustum := FrustumFromMatrix(proj.Mul(math3d.Identity()))

	tests := []struct {
		name     string
		point    math3d.Vec3
		expected bool
	}{
		{"center near", math3d.V3(0, 0, -1), true},
		{"center far", math3d.V3(0, 0, -99), true},
		{"behind camera", math3d.V3(0, 0, 1), false},
		{"too far", math3d.V3(0, 0, -200), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := frustum.ContainsPoint(tc.point); got != tc.expected {
				t.Errorf("ContainsPoint(%v) = %v, want %v", tc.point, got, tc.expected)
			}
		})
	}
}

func TestFrustumIntersectAABB(t *testing.T) {
	proj := math3d.Perspective(math.Pi/3, 16.0/9.0, 1.0, 100.0)
	frustum := FrustumFromMatrix(proj.Mul(math3d.Identity()))

	tests := []struct {
		name     string
		box      AABB
		expected bool
	}{
		{"fully inside", NewAABB(math3d.V3(-1, -1, -10), math3d.V3(1, 1, -5)), true},
		{"behind camera", NewAABB(math3d.V3(-1, -1, 5), math3d.V3(1, 1, 10)), false},
		{"beyond far plane", NewAABB(math3d.V3(-1, -1, -150), math3d.V3(1, 1, -120)), false},
		{"far to the right", NewAABB(math3d.V3(100, -1, -10), math3d.V3(110, 1, -5)), false},
		{"large box containing frustum", NewAABB(math3d.V3(-200, -200, -200), math3d.V3(200, 200, 200)), true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := frustum.IntersectAABB(tc.box); got != tc.expected {
				t.Errorf("IntersectAABB(%v) = %v, want %v", tc.box, got, tc.expected)
			}
		})
	}
}

func TestFrustumIntersectsSphere(t *testing.T) {
	proj := math3d.Perspective(math.Pi/3, 16.0/9.0, 1.0, 100.0)
	frustum := FrustumFromMatrix(proj.Mul(math3d.Identity()))

	tests := []struct {
		name     string
		center   math3d.Vec3
		radius   float64
		expected bool
	}{
		{"inside", math3d.V3(0, 0, -10), 1.0, true},
		{"behind", math3d.V3(0, 0, 5), 1.0, false},
		{"far behind", math3d.V3(0, 0, 20), 1.0, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := frustum.IntersectsSphere(tc.center, tc.radius); got != tc.expected {
				t.Errorf("IntersectsSphere(%v, %v) = %v, want %v", tc.center, tc.radius, got, tc.expected)
			}
		})
	}
}

func TestFrustumWithRotatedCamera(t *testing.T) {
	proj := math3d.Perspective(math.Pi/3, 1.0, 1.0, 100.0)
	view := math3d.LookAt(math3d.V3(0, 0, 0), math3d.V3(10, 0, 0), math3d.V3(0, 1, 0))
	frustum := FrustumFromMatrix(proj.Mul(view))

	if !frustum.ContainsPoint(math3d.V3(10, 0, 0)) {
		t.Error("point in front of rotated camera should be visible")
	}
	if frustum.ContainsPoint(math3d.V3(-10, 0, 0)) {
		t.Error("point behind rotated camera should not be visible")
	}
}

func BenchmarkFrustumIntersectAABB(b *testing.B) {
	proj := math3d.Perspective(math.Pi/3, 16.0/9.0, 0.1, 1000.0)
	frustum := FrustumFromMatrix(proj.Mul(math3d.Identity()))
	box := NewAABB(math3d.V3(-1, -1, -10), math3d.V3(1, 1, -5))

	for b.Loop() {
		_ = frustum.IntersectAABB(box)
	}
}
