// swrview - Terminal 3D Model Viewer
// View glTF/GLB files in your terminal through the tile-dispatched
// fixed-function rasterization core.
//
// Controls:
//
//	Mouse drag  - Rotate model (yaw/pitch)
//	Scroll      - Zoom in/out
//	W/S         - Pitch up/down
//	A/D         - Yaw left/right
//	Q/E         - Roll left/right
//	Space       - Apply random impulse
//	R           - Reset rotation
//	T           - Toggle texture on/off
//	X           - Toggle wireframe mode
//	L           - Light positioning mode (move mouse, click to set, Esc to cancel)
//	?           - Toggle HUD overlay
//	+/-         - Adjust zoom
//	Esc         - Quit (or cancel light mode)
package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"math"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/harmonica"
	uv "github.com/charmbracelet/ultraviolet"

	"github.com/taigrr/swrast/pkg/camera"
	"github.com/taigrr/swrast/pkg/dispatch"
	"github.com/taigrr/swrast/pkg/display"
	"github.com/taigrr/swrast/pkg/geom"
	"github.com/taigrr/swrast/pkg/math3d"
	"github.com/taigrr/swrast/pkg/models"
	"github.com/taigrr/swrast/pkg/raster"
	"github.com/taigrr/swrast/pkg/texture"
)

const tileSize = 32

var (
	texturePath = flag.String("texture", "", "Path to texture image (PNG/JPG)")
	targetFPS   = flag.Int("fps", 60, "Target FPS")
	bgColor     = flag.String("bg", "30,30,40", "Background color (R,G,B)")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "swrview - Terminal 3D Model Viewer\n\n")
		fmt.Fprintf(os.Stderr, "Usage: swrview [options] <model.glb|model.gltf>\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nControls:\n")
		fmt.Fprintf(os.Stderr, "  Mouse drag  - Rotate model\n")
		fmt.Fprintf(os.Stderr, "  Scroll      - Zoom in/out\n")
		fmt.Fprintf(os.Stderr, "  W/S/A/D     - Pitch and yaw\n")
		fmt.Fprintf(os.Stderr, "  Q/E         - Roll left/right\n")
		fmt.Fprintf(os.Stderr, "  Space       - Random spin\n")
		fmt.Fprintf(os.Stderr, "  R           - Reset view\n")
		fmt.Fprintf(os.Stderr, "  T           - Toggle texture\n")
		fmt.Fprintf(os.Stderr, "  X           - Toggle wireframe\n")
		fmt.Fprintf(os.Stderr, "  L           - Position light (mouse to aim, click to set)\n")
		fmt.Fprintf(os.Stderr, "  ?           - Toggle HUD overlay\n")
		fmt.Fprintf(os.Stderr, "  Esc         - Quit\n")
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	if err := run(flag.Arg(0)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// RotationAxis tracks position and velocity for one rotation axis with
// spring decay.
type RotationAxis struct {
	Position  float64
	Velocity  float64
	velSpring harmonica.Spring
	velAccel  float64
}

// NewRotationAxis creates an axis with a critically damped spring driving
// velocity back toward zero.
func NewRotationAxis(fps int) RotationAxis {
	return RotationAxis{
		velSpring: harmonica.NewSpring(harmonica.FPS(fps), 4.0, 1.0),
	}
}

func (a *RotationAxis) Update() {
	a.Position += a.Velocity
	a.Velocity, a.velAccel = a.velSpring.Update(a.Velocity, a.velAccel, 0)
}

// RotationState holds pitch/yaw/roll rotation with spring physics.
type RotationState struct {
	Pitch, Yaw, Roll RotationAxis
	fps              int
}

func NewRotationState(fps int) *RotationState {
	return &RotationState{
		Pitch: NewRotationAxis(fps),
		Yaw:   NewRotationAxis(fps),
		Roll:  NewRotationAxis(fps),
		fps:   fps,
	}
}

func (r *RotationState) Update() {
	r.Pitch.Update()
	r.Yaw.Update()
	r.Roll.Update()
}

func (r *RotationState) ApplyImpulse(pitch, yaw, roll float64) {
	r.Pitch.Velocity += pitch
	r.Yaw.Velocity += yaw
	r.Roll.Velocity += roll
}

func (r *RotationState) Reset() {
	r.Pitch = NewRotationAxis(r.fps)
	r.Yaw = NewRotationAxis(r.fps)
	r.Roll = NewRotationAxis(r.fps)
}

// RenderMode controls how the mesh is drawn.
type RenderMode int

const (
	RenderModeTextured RenderMode = iota
	RenderModeFlat
	RenderModeWireframe
)

// ViewState holds view-related UI state.
type ViewState struct {
	TextureEnabled bool
	RenderMode     RenderMode
	LightMode      bool
	LightDir       math3d.Vec3
	PendingLight   math3d.Vec3
	ShowHUD        bool
}

func NewViewState() *ViewState {
	return &ViewState{
		TextureEnabled: true,
		RenderMode:     RenderModeTextured,
		LightDir:       math3d.V3(0.5, 1, 0.3).Normalize(),
	}
}

// ScreenToLightDir maps a screen position to a light direction on a
// hemisphere above the object.
func (v *ViewState) ScreenToLightDir(screenX, screenY, width, height int) math3d.Vec3 {
	nx := (float64(screenX)/float64(width))*2 - 1
	ny := (float64(screenY)/float64(height))*2 - 1

	lenSq := nx*nx + ny*ny
	if lenSq > 1 {
		l := math.Sqrt(lenSq)
		nx /= l
		ny /= l
		lenSq = 1
	}
	nz := math.Sqrt(1 - lenSq)
	return math3d.V3(nx, -ny, nz).Normalize()
}

// HUD renders an FPS/filename/poly-count overlay directly to the terminal.
type HUD struct {
	filename  string
	polyCount int
	fps       float64
	fpsFrames int
	fpsTime   time.Time
}

func NewHUD(filename string, polyCount int) *HUD {
	return &HUD{filename: filename, polyCount: polyCount, fpsTime: time.Now()}
}

func (h *HUD) UpdateFPS() {
	h.fpsFrames++
	elapsed := time.Since(h.fpsTime)
	if elapsed >= time.Second {
		h.fps = float64(h.fpsFrames) / elapsed.Seconds()
		h.fpsFrames = 0
		h.fpsTime = time.Now()
	}
}

func (h *HUD) Render(width, height int, viewState *ViewState) {
	const (
		reset     = "\x1b[0m"
		bold      = "\x1b[1m"
		dim       = "\x1b[2m"
		bgBlack   = "\x1b[40m"
		fgWhite   = "\x1b[97m"
		fgGreen   = "\x1b[92m"
		fgYellow  = "\x1b[93m"
		fgCyan    = "\x1b[96m"
		clearLine = "\x1b[2K"
	)

	moveTo := func(row, col int) string {
		return fmt.Sprintf("\x1b[%d;%dH", row, col)
	}

	fmt.Print(moveTo(1, 1) + clearLine)
	fmt.Print(moveTo(height, 1) + clearLine)

	if viewState.LightMode {
		lightMsg := fmt.Sprintf("%s%s%s ◉ LIGHT MODE - Move mouse to position, click to set, Esc to cancel %s",
			bgBlack, bold, fgYellow, reset)
		lightCol := max((width-60)/2, 1)
		fmt.Print(moveTo(height, lightCol) + lightMsg)
		return
	}

	if !viewState.ShowHUD {
		return
	}

	fmt.Print(fmt.Sprintf("%s%s%s %.0f FPS %s", moveTo(1, 1), bgBlack, fgGreen, h.fps, reset))

	titleStr := fmt.Sprintf("%s%s%s %s %s", bold, bgBlack, fgWhite, h.filename, reset)
	titleCol := max((width-len(h.filename)-2)/2, 1)
	fmt.Print(moveTo(1, titleCol) + titleStr)

	polyStr := fmt.Sprintf("%s%s%s %d polys %s", bgBlack, fgCyan, bold, h.polyCount, reset)
	polyCol := max(width-12, 1)
	fmt.Print(moveTo(1, polyCol) + polyStr)

	checkTex := "[ ]"
	if viewState.TextureEnabled && viewState.RenderMode != RenderModeWireframe {
		checkTex = "[✓]"
	}
	checkWire := "[ ]"
	if viewState.RenderMode == RenderModeWireframe {
		checkWire = "[✓]"
	}

	modeStr := fmt.Sprintf("%s%s %s Texture  %s X-Ray (wireframe) %s",
		bgBlack, fgWhite, checkTex, checkWire, reset)
	fmt.Print(moveTo(height, 1) + modeStr)

	hint := fmt.Sprintf("%s%s%s L: position light %s", bgBlack, dim, fgYellow, reset)
	hintCol := max(width-18, 1)
	fmt.Print(moveTo(height, hintCol) + hint)
}

// termDriver bridges a uv.Terminal to the packed-pixel frame, converting
// one terminal row's worth of cells from two rows of the frame (see
// pkg/display's half-block convention).
type termDriver struct {
	term              *uv.Terminal
	cols, rows        int
	fbWidth, fbHeight int
}

func newTermDriver(term *uv.Terminal, cols, rows int) *termDriver {
	return &termDriver{term: term, cols: cols, rows: rows, fbWidth: cols, fbHeight: rows * 2}
}

func (d *termDriver) FramebufferSize() (int, int) { return d.fbWidth, d.fbHeight }

func (d *termDriver) Render(frame *dispatch.Frame) {
	display.Draw(frame, d.term, uv.Rect(0, 0, d.cols, d.rows))
}

func (d *termDriver) Flush() error {
	return d.term.Render()
}

func packColor(r, g, b, a uint8) uint32 {
	return uint32(a)<<24 | uint32(r)<<16 | uint32(g)<<8 | uint32(b)
}

func run(modelPath string) error {
	var bgR, bgG, bgB uint8 = 30, 30, 40
	fmt.Sscanf(*bgColor, "%d,%d,%d", &bgR, &bgG, &bgB)
	clearColor := packColor(bgR, bgG, bgB, 255)

	term := uv.DefaultTerminal()

	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}

	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}

	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(width, height)

	fmt.Fprint(os.Stdout, "\x1b[?1003h")
	fmt.Fprint(os.Stdout, "\x1b[?1006h")

	driver := newTermDriver(term, width, height)
	fbWidth, fbHeight := driver.FramebufferSize()
	frame := dispatch.NewFrame(fbWidth, fbHeight, tileSize, clearColor, 1.0)

	cam := camera.New()
	cam.SetAspectRatio(float64(fbWidth) / float64(fbHeight))
	cam.SetFOV(math.Pi / 3)
	cam.SetClipPlanes(0.1, 100)
	cam.SetPosition(math3d.V3(0, 0, 5))
	cam.LookAt(math3d.Zero3())

	sampler := texture.Sampler{}

	var tex *texture.Texture
	if *texturePath != "" {
		tex, err = texture.Load(*texturePath)
		if err != nil {
			fmt.Printf("Warning: could not load texture: %v\n", err)
		}
	}

	ext := strings.ToLower(filepath.Ext(modelPath))
	var mesh *models.Mesh

	switch ext {
	case ".glb", ".gltf":
		var embeddedImg image.Image
		mesh, embeddedImg, err = models.LoadGLBWithTexture(modelPath)
		if err != nil {
			return fmt.Errorf("load model: %w", err)
		}
		if tex == nil && embeddedImg != nil {
			tex = texture.FromImage(embeddedImg)
			fmt.Printf("Using embedded texture: %dx%d\n", embeddedImg.Bounds().Dx(), embeddedImg.Bounds().Dy())
		}
	default:
		return fmt.Errorf("unsupported format: %s (use .glb or .gltf)", ext)
	}

	if tex == nil {
		base := texture.NewChecker(8, 8, 1, texture.Texel{R: 0.78, G: 0.78, B: 0.78, A: 1}, texture.Texel{R: 0.39, G: 0.39, B: 0.39, A: 1})
		tex = base.Resize(64, 64)
	}

	fmt.Printf("Loaded: %s (%d vertices, %d triangles)\n", filepath.Base(modelPath), mesh.VertexCount(), mesh.TriangleCount())

	hud := NewHUD(filepath.Base(modelPath), mesh.TriangleCount())

	mesh.CalculateBounds()
	center := mesh.Center()
	size := mesh.Size()
	maxDim := math.Max(size.X, math.Max(size.Y, size.Z))
	if maxDim > 0 {
		scale := 2.0 / maxDim
		transform := math3d.Scale(math3d.V3(scale, scale, scale)).Mul(math3d.Translate(center.Scale(-1)))
		mesh.Transform(transform)
	}

	rotation := NewRotationState(*targetFPS)
	viewState := NewViewState()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	inputTorque := struct{ pitch, yaw, roll float64 }{}
	const torqueStrength = 3.0

	var mouseDown bool
	var lastMouseX, lastMouseY int
	cameraZ := 5.0

	go func() {
		for ev := range term.Events() {
			switch ev := ev.(type) {
			case uv.WindowSizeEvent:
				width, height = ev.Width, ev.Height
				term.Erase()
				term.Resize(width, height)
				driver = newTermDriver(term, width, height)
				fbWidth, fbHeight = driver.FramebufferSize()
				frame = dispatch.NewFrame(fbWidth, fbHeight, tileSize, clearColor, 1.0)
				cam.SetAspectRatio(float64(fbWidth) / float64(fbHeight))

			case uv.KeyPressEvent:
				switch {
				case ev.MatchString("escape"):
					if viewState.LightMode {
						viewState.LightMode = false
					} else {
						cancel()
						return
					}
				case ev.MatchString("ctrl+c"):
					cancel()
					return
				case ev.MatchString("q"):
					inputTorque.roll = -torqueStrength
				case ev.MatchString("r"):
					rotation.Reset()
					cameraZ = 5.0
					cam.SetPosition(math3d.V3(0, 0, cameraZ))
				case ev.MatchString("w", "up"):
					inputTorque.pitch = -torqueStrength
				case ev.MatchString("s", "down"):
					inputTorque.pitch = torqueStrength
				case ev.MatchString("a", "left"):
					inputTorque.yaw = -torqueStrength
				case ev.MatchString("d", "right"):
					inputTorque.yaw = torqueStrength
				case ev.MatchString("e"):
					inputTorque.roll = torqueStrength
				case ev.MatchString("space"):
					rotation.ApplyImpulse(
						(rand.Float64()-0.5)*1.5,
						(rand.Float64()-0.5)*1.5,
						(rand.Float64()-0.5)*1.5,
					)
				case ev.MatchString("+", "="):
					cameraZ = math.Max(1, cameraZ-0.5)
					cam.SetPosition(math3d.V3(0, 0, cameraZ))
				case ev.MatchString("-", "_"):
					cameraZ = math.Min(20, cameraZ+0.5)
					cam.SetPosition(math3d.V3(0, 0, cameraZ))
				case ev.MatchString("t"):
					viewState.TextureEnabled = !viewState.TextureEnabled
				case ev.MatchString("x"):
					if viewState.RenderMode == RenderModeWireframe {
						viewState.RenderMode = RenderModeTextured
					} else {
						viewState.RenderMode = RenderModeWireframe
					}
				case ev.MatchString("l"):
					viewState.LightMode = true
					viewState.PendingLight = viewState.LightDir
				case ev.MatchString("?"), ev.MatchString("shift+/"):
					viewState.ShowHUD = !viewState.ShowHUD
				}

			case uv.KeyReleaseEvent:
				switch {
				case ev.MatchString("w"), ev.MatchString("up"), ev.MatchString("s"), ev.MatchString("down"):
					inputTorque.pitch = 0
				case ev.MatchString("a"), ev.MatchString("left"), ev.MatchString("d"), ev.MatchString("right"):
					inputTorque.yaw = 0
				case ev.MatchString("q"), ev.MatchString("e"):
					inputTorque.roll = 0
				}

			case uv.MouseClickEvent:
				if viewState.LightMode {
					viewState.LightDir = viewState.PendingLight
					viewState.LightMode = false
				} else {
					mouseDown = true
					lastMouseX, lastMouseY = ev.X, ev.Y
				}

			case uv.MouseReleaseEvent:
				if !viewState.LightMode {
					mouseDown = false
				}

			case uv.MouseMotionEvent:
				if viewState.LightMode {
					viewState.PendingLight = viewState.ScreenToLightDir(ev.X, ev.Y, width, height)
				} else if mouseDown {
					dx := ev.X - lastMouseX
					dy := ev.Y - lastMouseY
					rotation.ApplyImpulse(float64(dy)*0.03, float64(dx)*0.03, 0)
					lastMouseX, lastMouseY = ev.X, ev.Y
				}

			case uv.MouseWheelEvent:
				switch ev.Button {
				case uv.MouseWheelUp:
					cameraZ -= 0.5
					if cameraZ < 1 {
						cameraZ = 1
					}
				case uv.MouseWheelDown:
					cameraZ += 0.5
					if cameraZ > 20 {
						cameraZ = 20
					}
				}
				cam.SetPosition(math3d.V3(0, 0, cameraZ))
			}
		}
	}()

	targetDuration := time.Second / time.Duration(*targetFPS)
	lastFrame := time.Now()

	cleanup := func() {
		fmt.Fprint(os.Stdout, "\x1b[?1003l")
		fmt.Fprint(os.Stdout, "\x1b[?1006l")
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}

	for {
		select {
		case <-ctx.Done():
			cleanup()
			return nil
		default:
		}

		now := time.Now()
		dt := now.Sub(lastFrame).Seconds()
		lastFrame = now
		if dt > 0.1 {
			dt = 0.1
		}

		rotation.ApplyImpulse(
			inputTorque.pitch*dt,
			inputTorque.yaw*dt,
			inputTorque.roll*dt,
		)
		inputTorque.pitch *= 0.9
		inputTorque.yaw *= 0.9
		inputTorque.roll *= 0.9

		rotation.Update()

		transform := math3d.RotateX(rotation.Pitch.Position).
			Mul(math3d.RotateY(rotation.Yaw.Position)).
			Mul(math3d.RotateZ(rotation.Roll.Position))

		lightDir := viewState.LightDir
		if viewState.LightMode {
			lightDir = viewState.PendingLight
		}

		frame.Clear(clearColor, 1.0)

		switch viewState.RenderMode {
		case RenderModeWireframe:
			wf := display.NewWireframe(cam, frame)
			drawMeshWireframe(wf, mesh, transform, packColor(0, 255, 128, 255))

		case RenderModeFlat:
			opt := geom.Options{
				ScreenWidth: frame.Width, ScreenHeight: frame.Height,
				Color:           raster.RGBA{R: 0.78, G: 0.78, B: 0.78, A: 1},
				LightingEnabled: true,
				LightDir:        lightDir,
				AmbientMin:      0.15,
			}
			tris := geom.BuildTriangles(mesh, transform, cam, opt)
			state := &raster.DrawState{
				DepthTestEnabled: true, DepthWriteEnabled: true,
				DepthFunc: raster.CompareLess, ColorMask: 0xFFFFFFFF,
			}
			dispatch.Draw(ctx, frame, tris, state, sampler)

		default:
			opt := geom.Options{
				ScreenWidth: frame.Width, ScreenHeight: frame.Height,
				Color:           raster.RGBA{R: 1, G: 1, B: 1, A: 1},
				LightingEnabled: true,
				LightDir:        lightDir,
				AmbientMin:      0.25,
			}
			tris := geom.BuildTriangles(mesh, transform, cam, opt)
			state := &raster.DrawState{
				DepthTestEnabled: true, DepthWriteEnabled: true,
				DepthFunc: raster.CompareLess, ColorMask: 0xFFFFFFFF,
			}
			if viewState.TextureEnabled {
				state.Units[0] = raster.TextureUnit{
					Tex: tex, Env: raster.EnvModulate, BaseFormat: tex.BaseFormat,
				}
			}
			dispatch.Draw(ctx, frame, tris, state, sampler)
		}

		driver.Render(frame)
		if err := driver.Flush(); err != nil {
			cleanup()
			return fmt.Errorf("flush: %w", err)
		}

		hud.UpdateFPS()
		hud.Render(width, height, viewState)

		elapsed := time.Since(now)
		if elapsed < targetDuration {
			time.Sleep(targetDuration - elapsed)
		}
	}
}

// drawMeshWireframe draws every triangle edge of mesh after transform,
// through wf. Shared edges are drawn twice; acceptable for a debug overlay.
func drawMeshWireframe(wf *display.Wireframe, mesh *models.Mesh, transform math3d.Mat4, packed uint32) {
	for i := 0; i < mesh.TriangleCount(); i++ {
		face := mesh.GetFace(i)
		p0, _, _ := mesh.GetVertex(face[0])
		p1, _, _ := mesh.GetVertex(face[1])
		p2, _, _ := mesh.GetVertex(face[2])

		w0 := transform.MulVec3(p0)
		w1 := transform.MulVec3(p1)
		w2 := transform.MulVec3(p2)

		wf.DrawLine3D(w0, w1, packed)
		wf.DrawLine3D(w1, w2, packed)
		wf.DrawLine3D(w2, w0, packed)
	}
}
