package display

import (
	"github.com/taigrr/swrast/pkg/camera"
	"github.com/taigrr/swrast/pkg/dispatch"
	"github.com/taigrr/swrast/pkg/math3d"
)

// Wireframe draws debug line overlays (axes, grids, bounding boxes)
// directly into a frame's tiles, bypassing the triangle pipeline.
type Wireframe struct {
	cam   *camera.Camera
	frame *dispatch.Frame
}

// NewWireframe creates a wireframe overlay drawn through cam into frame.
func NewWireframe(cam *camera.Camera, frame *dispatch.Frame) *Wireframe {
	return &Wireframe{cam: cam, frame: frame}
}

// DrawLine3D projects both endpoints and draws the segment if at least one
// endpoint is visible.
func (w *Wireframe) DrawLine3D(p1, p2 math3d.Vec3, packed uint32) {
	s1 := w.cam.Project(p1, w.frame.Width, w.frame.Height)
	s2 := w.cam.Project(p2, w.frame.Width, w.frame.Height)
	if !s1.Visible && !s2.Visible {
		return
	}
	drawLineBresenham(w.frame, int(s1.X), int(s1.Y), int(s2.X), int(s2.Y), packed)
}

// DrawTransformedCube draws a wireframe cube's 12 edges after applying
// transform to its local-space vertices.
func (w *Wireframe) DrawTransformedCube(transform math3d.Mat4, size float64, packed uint32) {
	half := size / 2
	local := [8]math3d.Vec3{
		{X: -half, Y: -half, Z: -half}, {X: half, Y: -half, Z: -half},
		{X: half, Y: half, Z: -half}, {X: -half, Y: half, Z: -half},
		{X: -half, Y: -half, Z: half}, {X: half, Y: -half, Z: half},
		{X: half, Y: half, Z: half}, {X: -half, Y: half, Z: half},
	}

	var world [8]math3d.Vec3
	for i, v := range local {
		world[i] = transform.MulVec3(v)
	}

	edges := [12][2]int{
		{0, 1}, {1, 2}, {2, 3}, {3, 0},
		{4, 5}, {5, 6}, {6, 7}, {7, 4},
		{0, 4}, {1, 5}, {2, 6}, {3, 7},
	}
	for _, e := range edges {
		w.DrawLine3D(world[e[0]], world[e[1]], packed)
	}
}

// DrawAxes draws the X/Y/Z axes at the origin in red/green/blue.
func (w *Wireframe) DrawAxes(length float64) {
	origin := math3d.Zero3()
	w.DrawLine3D(origin, math3d.V3(length, 0, 0), 0xFFFF0000)
	w.DrawLine3D(origin, math3d.V3(0, length, 0), 0xFF00FF00)
	w.DrawLine3D(origin, math3d.V3(0, 0, length), 0xFF0000FF)
}

// DrawGrid draws a grid of the given size and step on the XZ plane at y=0.
func (w *Wireframe) DrawGrid(size, step float64, packed uint32) {
	half := size / 2
	for x := -half; x <= half; x += step {
		w.DrawLine3D(math3d.V3(x, 0, -half), math3d.V3(x, 0, half), packed)
	}
	for z := -half; z <= half; z += step {
		w.DrawLine3D(math3d.V3(-half, 0, z), math3d.V3(half, 0, z), packed)
	}
}

func drawLineBresenham(frame *dispatch.Frame, x0, y0, x1, y1 int, packed uint32) {
	dx := absInt(x1 - x0)
	dy := -absInt(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	for {
		frame.SetPixel(x0, y0, packed)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
