package camera

import "github.com/taigrr/swrast/pkg/math3d"

// Plane is Ax + By + Cz + D = 0, normal (A,B,C), offset D.
type Plane struct {
	Normal math3d.Vec3
	D      float64
}

// Normalize scales the plane so Normal has unit length.
func (p *Plane) Normalize() {
	l := p.Normal.Len()
	if l == 0 {
		return
	}
	p.Normal = p.Normal.Scale(1.0 / l)
	p.D /= l
}

// DistanceToPoint returns the signed distance from the plane to a point;
// positive is on the normal's side.
func (p Plane) DistanceToPoint(point math3d.Vec3) float64 {
	return p.Normal.Dot(point) + p.D
}

// Frustum is the six planes of a view frustum, normals pointing inward.
type Frustum struct {
	Planes [6]Plane
}

const (
	FrustumLeft = iota
	FrustumRight
	FrustumBottom
	FrustumTop
	FrustumNear
	FrustumFar
)

// FrustumFromMatrix extracts frustum planes from a view-projection matrix
// via the Gribb/Hartmann method.
func FrustumFromMatrix(m math3d.Mat4) Frustum {
	var f Frustum

	f.Planes[FrustumLeft] = Plane{Normal: math3d.V3(m[3]+m[0], m[7]+m[4], m[11]+m[8]), D: m[15] + m[12]}
	f.Planes[FrustumRight] = Plane{Normal: math3d.V3(m[3]-m[0], m[7]-m[4], m[11]-m[8]), D: m[15] - m[12]}
	f.Planes[FrustumBottom] = Plane{Normal: math3d.V3(m[3]+m[1], m[7]+m[5], m[11]+m[9]), D: m[15] + m[13]}
	f.Planes[FrustumTop] = Plane{Normal: math3d.V3(m[3]-m[1], m[7]-m[5], m[11]-m[9]), D: m[15] - m[13]}
	f.Planes[FrustumNear] = Plane{Normal: math3d.V3(m[3]+m[2], m[7]+m[6], m[11]+m[10]), D: m[15] + m[14]}
	f.Planes[FrustumFar] = Plane{Normal: math3d.V3(m[3]-m[2], m[7]-m[6], m[11]-m[10]), D: m[15] - m[14]}

	for i := range f.Planes {
		f.Planes[i].Normalize()
	}
	return f
}

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min, Max math3d.Vec3
}

// NewAABB builds an AABB from min and max corners.
func NewAABB(min, max math3d.Vec3) AABB { return AABB{Min: min, Max: max} }

// Center returns the AABB's center.
func (b AABB) Center() math3d.Vec3 { return b.Min.Add(b.Max).Scale(0.5) }

// Size returns the AABB's dimensions.
func (b AABB) Size() math3d.Vec3 { return b.Max.Sub(b.Min) }

// HalfSize returns the extents from center to each face.
func (b AABB) HalfSize() math3d.Vec3 { return b.Size().Scale(0.5) }

// Transform returns the AABB bounding all 8 corners after applying m.
func (b AABB) Transform(m math3d.Mat4) AABB {
	corners := [8]math3d.Vec3{
		{X: b.Min.X, Y: b.Min.Y, Z: b.Min.Z},
		{X: b.Max.X, Y: b.Min.Y, Z: b.Min.Z},
		{X: b.Min.X, Y: b.Max.Y, Z: b.Min.Z},
		{X: b.Max.X, Y: b.Max.Y, Z: b.Min.Z},
		{X: b.Min.X, Y: b.Min.Y, Z: b.Max.Z},
		{X: b.Max.X, Y: b.Min.Y, Z: b.Max.Z},
		{X: b.Min.X, Y: b.Max.Y, Z: b.Max.Z},
		{X: b.Max.X, Y: b.Max.Y, Z: b.Max.Z},
	}

	newMin := m.MulVec3(corners[0])
	newMax := newMin
	for i := 1; i < 8; i++ {
		p := m.MulVec3(corners[i])
		newMin = newMin.Min(p)
		newMax = newMax.Max(p)
	}
	return AABB{Min: newMin, Max: newMax}
}

// ContainsPoint reports whether p lies within the box, inclusive of bounds.
func (b AABB) ContainsPoint(p math3d.Vec3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// IntersectAABB reports whether any part of box is inside the frustum,
// using the positive-vertex rejection test.
func (f Frustum) IntersectAABB(box AABB) bool {
	for _, plane := range f.Planes {
		pVertex := math3d.V3(
			selectComponent(plane.Normal.X >= 0, box.Max.X, box.Min.X),
			selectComponent(plane.Normal.Y >= 0, box.Max.Y, box.Min.Y),
			selectComponent(plane.Normal.Z >= 0, box.Max.Z, box.Min.Z),
		)
		if plane.DistanceToPoint(pVertex) < 0 {
			return false
		}
	}
	return true
}

// ContainsPoint reports whether p is on the inner side of every plane.
func (f Frustum) ContainsPoint(p math3d.Vec3) bool {
	for _, plane := range f.Planes {
		if plane.DistanceToPoint(p) < 0 {
			return false
		}
	}
	return true
}

// IntersectsSphere reports whether a sphere intersects the frustum.
func (f Frustum) IntersectsSphere(center math3d.Vec3, radius float64) bool {
	for _, plane := range f.Planes {
		if plane.DistanceToPoint(center) < -radius {
			return false
		}
	}
	return true
}

func selectComponent(cond bool, a, b float64) float64 {
	if cond {
		return a
	}
	return b
}
