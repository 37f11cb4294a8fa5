// Package geom performs the geometry setup the rasterization core expects
// to receive fully done: world transform, projection to screen space,
// backface culling, and frustum culling against a mesh's bounds. It is the
// producer side of pkg/raster's Triangle/Vertex contract.
package geom

import (
	"github.com/taigrr/swrast/pkg/camera"
	"github.com/taigrr/swrast/pkg/math3d"
	"github.com/taigrr/swrast/pkg/raster"
)

// MeshSource is the minimal surface geometry setup needs from a mesh,
// mirroring the teacher's MeshRenderer contract so models.Mesh satisfies it
// without an import cycle.
type MeshSource interface {
	VertexCount() int
	TriangleCount() int
	GetVertex(i int) (pos, normal math3d.Vec3, uv math3d.Vec2)
	GetFace(i int) [3]int
}

// BoundedMeshSource extends MeshSource with a local-space bounding box,
// enabling frustum culling before any per-triangle work.
type BoundedMeshSource interface {
	MeshSource
	GetBounds() (min, max math3d.Vec3)
}

// Options controls per-draw geometry setup behavior.
type Options struct {
	BackfaceCullDisabled bool
	ScreenWidth          int
	ScreenHeight         int
	Color                raster.RGBA // flat vertex color when the mesh carries no per-vertex color

	// LightingEnabled bakes a directional Lambertian term into each
	// vertex's primary color, the Gouraud-shading substitute for a
	// fixed-function pipeline whose raster core has no lighting stage.
	LightingEnabled bool
	LightDir        math3d.Vec3 // world-space direction toward the light, normalized
	AmbientMin      float64     // floor on the N.L term, keeps unlit faces visible
}

// CullMesh reports whether a bounded mesh's world-space AABB is entirely
// outside the camera's frustum, letting callers skip transform work for
// the whole mesh.
func CullMesh(mesh MeshSource, transform math3d.Mat4, cam *camera.Camera) bool {
	bounded, ok := mesh.(BoundedMeshSource)
	if !ok {
		return false
	}
	minB, maxB := bounded.GetBounds()
	box := camera.AABB{Min: minB, Max: maxB}.Transform(transform)
	return !cam.Frustum().IntersectAABB(box)
}

// BuildTriangles projects every face of mesh through transform and the
// camera's view-projection matrix into raster-ready triangles, discarding
// faces that are entirely behind the camera or backface-culled. The
// returned slice is raster-ready: screen-space X/Y, NDC-mapped Z in [0,1],
// reciprocal w, and texture coordinates from the mesh's single UV channel
// copied into texture unit 0.
func BuildTriangles(mesh MeshSource, transform math3d.Mat4, cam *camera.Camera, opt Options) []raster.Triangle {
	if CullMesh(mesh, transform, cam) {
		return nil
	}

	viewProj := cam.ViewProjectionMatrix()
	out := make([]raster.Triangle, 0, mesh.TriangleCount())

	for i := 0; i < mesh.TriangleCount(); i++ {
		face := mesh.GetFace(i)

		p0, n0, uv0 := mesh.GetVertex(face[0])
		p1, n1, uv1 := mesh.GetVertex(face[1])
		p2, n2, uv2 := mesh.GetVertex(face[2])

		w0 := transform.MulVec3(p0)
		w1 := transform.MulVec3(p1)
		w2 := transform.MulVec3(p2)

		sv0, ok0 := projectVertex(w0, uv0, viewProj, opt)
		sv1, ok1 := projectVertex(w1, uv1, viewProj, opt)
		sv2, ok2 := projectVertex(w2, uv2, viewProj, opt)
		if !ok0 && !ok1 && !ok2 {
			continue // entirely behind the camera
		}

		if opt.LightingEnabled {
			applyLighting(&sv0, transform.MulVec3Dir(n0), opt)
			applyLighting(&sv1, transform.MulVec3Dir(n1), opt)
			applyLighting(&sv2, transform.MulVec3Dir(n2), opt)
		}

		area := (sv1.X-sv0.X)*(sv2.Y-sv0.Y) - (sv1.Y-sv0.Y)*(sv2.X-sv0.X)
		if area < 0 && !opt.BackfaceCullDisabled {
			continue
		}
		if area == 0 {
			continue
		}

		out = append(out, raster.Triangle{V: [3]raster.Vertex{sv0, sv1, sv2}})
	}

	return out
}

// projectVertex carries one world-space point through the view-projection
// transform into a raster-ready vertex. ok is false when the point is
// behind the camera (w <= 0); the returned vertex is still populated with
// whatever the division produced, matching the teacher's "allBehind" test
// which only rejects when every vertex of a face fails this check.
func projectVertex(world math3d.Vec3, uv math3d.Vec2, viewProj math3d.Mat4, opt Options) (raster.Vertex, bool) {
	clip := viewProj.MulVec4(math3d.V4FromV3(world, 1))
	ok := clip.W > 0

	var ndcX, ndcY, ndcZ float64
	if clip.W != 0 {
		invW := 1.0 / clip.W
		ndcX = clip.X * invW
		ndcY = clip.Y * invW
		ndcZ = clip.Z * invW
	}

	v := raster.Vertex{
		X:    (ndcX + 1) * 0.5 * float64(opt.ScreenWidth),
		Y:    (1 - ndcY) * 0.5 * float64(opt.ScreenHeight),
		Z:    clampDepth((ndcZ + 1) * 0.5),
		R:    opt.Color.R,
		G:    opt.Color.G,
		B:    opt.Color.B,
		A:    opt.Color.A,
	}
	if clip.W != 0 {
		v.RcpW = 1.0 / clip.W
	}
	v.Tex[0] = raster.TexCoord{S: uv.X, T: uv.Y, R: 0, Q: 1}

	return v, ok
}

// applyLighting scales v's primary color by a clamped N.L Lambertian term,
// floored at opt.AmbientMin so faces turned away from the light stay
// visible rather than going fully black.
func applyLighting(v *raster.Vertex, worldNormal math3d.Vec3, opt Options) {
	n := worldNormal.Normalize()
	intensity := n.Dot(opt.LightDir)
	if intensity < opt.AmbientMin {
		intensity = opt.AmbientMin
	}
	v.R *= intensity
	v.G *= intensity
	v.B *= intensity
}

func clampDepth(z float64) float64 {
	if z < 0 {
		return 0
	}
	if z > 1 {
		return 1
	}
	return z
}
