// Package camera provides the view/projection transform and frustum
// culling that sit upstream of the rasterization core: it turns a camera
// pose into the matrices pkg/geom uses to carry world-space geometry into
// screen space.
package camera

import (
	"math"

	"github.com/taigrr/swrast/pkg/math3d"
)

// Camera holds a position, Euler orientation, and projection parameters,
// and lazily rebuilds its view/projection matrices when either changes.
type Camera struct {
	Position math3d.Vec3

	Pitch float64 // rotation around X (look up/down)
	Yaw   float64 // rotation around Y (look left/right)
	Roll  float64 // rotation around Z (tilt)

	FOV         float64 // vertical field of view, radians
	AspectRatio float64
	Near        float64
	Far         float64

	viewMatrix     math3d.Mat4
	projMatrix     math3d.Mat4
	viewProjMatrix math3d.Mat4
	viewDirty      bool
	projDirty      bool
}

// New creates a camera with a sensible default pose and 60-degree FOV.
func New() *Camera {
	return &Camera{
		Position:    math3d.V3(0, 0, 10),
		FOV:         math.Pi / 3,
		AspectRatio: 16.0 / 9.0,
		Near:        0.1,
		Far:         1000,
		viewDirty:   true,
		projDirty:   true,
	}
}

// SetPosition sets the camera position.
func (c *Camera) SetPosition(pos math3d.Vec3) {
	c.Position = pos
	c.viewDirty = true
}

// SetRotation sets pitch, yaw, roll in radians.
func (c *Camera) SetRotation(pitch, yaw, roll float64) {
	c.Pitch, c.Yaw, c.Roll = pitch, yaw, roll
	c.viewDirty = true
}

// SetFOV sets the vertical field of view in radians.
func (c *Camera) SetFOV(fov float64) {
	c.FOV = fov
	c.projDirty = true
}

// SetAspectRatio sets width/height.
func (c *Camera) SetAspectRatio(aspect float64) {
	c.AspectRatio = aspect
	c.projDirty = true
}

// SetClipPlanes sets the near and far planes.
func (c *Camera) SetClipPlanes(near, far float64) {
	c.Near, c.Far = near, far
	c.projDirty = true
}

// Forward returns the camera's forward direction in world space.
func (c *Camera) Forward() math3d.Vec3 {
	return math3d.V3(
		-math.Sin(c.Yaw)*math.Cos(c.Pitch),
		math.Sin(c.Pitch),
		-math.Cos(c.Yaw)*math.Cos(c.Pitch),
	)
}

// Right returns the camera's right direction in world space.
func (c *Camera) Right() math3d.Vec3 {
	return math3d.V3(math.Cos(c.Yaw), 0, -math.Sin(c.Yaw))
}

// Up returns the camera's up direction in world space.
func (c *Camera) Up() math3d.Vec3 {
	return c.Right().Cross(c.Forward())
}

// ViewMatrix returns the (cached) view matrix.
func (c *Camera) ViewMatrix() math3d.Mat4 {
	if c.viewDirty {
		c.computeViewMatrix()
		c.viewDirty = false
	}
	return c.viewMatrix
}

// ProjectionMatrix returns the (cached) projection matrix.
func (c *Camera) ProjectionMatrix() math3d.Mat4 {
	if c.projDirty {
		c.projMatrix = math3d.Perspective(c.FOV, c.AspectRatio, c.Near, c.Far)
		c.projDirty = false
	}
	return c.projMatrix
}

// ViewProjectionMatrix returns projection * view, rebuilding only the
// stale half.
func (c *Camera) ViewProjectionMatrix() math3d.Mat4 {
	if c.viewDirty || c.projDirty {
		_ = c.ViewMatrix()
		_ = c.ProjectionMatrix()
		c.viewProjMatrix = c.projMatrix.Mul(c.viewMatrix)
	}
	return c.viewProjMatrix
}

func (c *Camera) computeViewMatrix() {
	rot := math3d.RotateZ(-c.Roll).Mul(math3d.RotateX(-c.Pitch)).Mul(math3d.RotateY(-c.Yaw))
	trans := math3d.Translate(c.Position.Negate())
	c.viewMatrix = rot.Mul(trans)
}

// MoveForward moves the camera along its forward axis.
func (c *Camera) MoveForward(distance float64) {
	c.Position = c.Position.Add(c.Forward().Scale(distance))
	c.viewDirty = true
}

// MoveRight moves the camera along its right axis.
func (c *Camera) MoveRight(distance float64) {
	c.Position = c.Position.Add(c.Right().Scale(distance))
	c.viewDirty = true
}

// MoveUp moves the camera along world up.
func (c *Camera) MoveUp(distance float64) {
	c.Position = c.Position.Add(math3d.Up().Scale(distance))
	c.viewDirty = true
}

// Rotate applies a relative pitch/yaw/roll delta, clamping pitch away from
// the poles to avoid gimbal lock.
func (c *Camera) Rotate(deltaPitch, deltaYaw, deltaRoll float64) {
	c.Pitch += deltaPitch
	c.Yaw += deltaYaw
	c.Roll += deltaRoll

	const maxPitch = math.Pi/2 - 0.01
	if c.Pitch > maxPitch {
		c.Pitch = maxPitch
	}
	if c.Pitch < -maxPitch {
		c.Pitch = -maxPitch
	}

	c.viewDirty = true
}

// LookAt points the camera at a world-space target, zeroing roll.
func (c *Camera) LookAt(target math3d.Vec3) {
	dir := target.Sub(c.Position).Normalize()
	c.Pitch = math.Asin(dir.Y)
	c.Yaw = math.Atan2(-dir.X, -dir.Z)
	c.Roll = 0
	c.viewDirty = true
}

// ScreenPoint is the result of projecting a world point to screen space.
type ScreenPoint struct {
	X, Y    float64
	Depth   float64 // NDC z, [-1,1]
	Visible bool
}

// Project transforms a world point through the view-projection matrix into
// pixel coordinates, returning Visible=false for points behind the camera
// or outside the NDC cube.
func (c *Camera) Project(worldPos math3d.Vec3, screenWidth, screenHeight int) ScreenPoint {
	clipPos := c.ViewProjectionMatrix().MulVec4(math3d.V4FromV3(worldPos, 1))
	if clipPos.W <= 0 {
		return ScreenPoint{}
	}

	ndc := clipPos.PerspectiveDivide()
	if ndc.X < -1 || ndc.X > 1 || ndc.Y < -1 || ndc.Y > 1 || ndc.Z < -1 || ndc.Z > 1 {
		return ScreenPoint{}
	}

	return ScreenPoint{
		X:       (ndc.X + 1) * 0.5 * float64(screenWidth),
		Y:       (1 - ndc.Y) * 0.5 * float64(screenHeight),
		Depth:   ndc.Z,
		Visible: true,
	}
}

// Frustum returns the camera's current view frustum.
func (c *Camera) Frustum() Frustum {
	return FrustumFromMatrix(c.ViewProjectionMatrix())
}
