// Package framebuffer implements the render-target adapter the
// rasterization core reads and writes through: an interleaved 2x2
// quad-block color buffer (packed 0xAARRGGBB) and a parallel float32
// depth buffer, addressed tile-locally.
package framebuffer

import (
	"image"

	"github.com/taigrr/swrast/pkg/raster"
)

var _ raster.RenderTarget = (*Tile)(nil)

// Tile is a render-target adapter over one rectangular region of a frame.
// Width is always rounded up to an even number of pixels so every quad row
// starts on a 2x2 boundary; color and depth slices are laid out in the
// same interleaved 2x2 block order the rasterizer walks in.
type Tile struct {
	width          int // quad-aligned row width in pixels
	minX, minY     int
	maxX, maxY     int
	color          []uint32
	depth          []float32
}

// New allocates a tile covering [minX,maxX] x [minY,maxY] inclusive,
// tile-local bounds, with color cleared to clearColor and depth to
// clearDepth.
func New(minX, minY, maxX, maxY int, clearColor uint32, clearDepth float32) *Tile {
	w := maxX - minX + 1
	h := maxY - minY + 1
	w = (w + 1) &^ 1
	h = (h + 1) &^ 1
	n := w * h

	t := &Tile{
		width: w,
		minX:  minX, minY: minY,
		maxX: maxX, maxY: maxY,
		color: make([]uint32, n),
		depth: make([]float32, n),
	}
	t.Clear(clearColor, clearDepth)
	return t
}

// Clear resets every pixel to the given color and depth.
func (t *Tile) Clear(color uint32, depth float32) {
	for i := range t.color {
		t.color[i] = color
	}
	for i := range t.depth {
		t.depth[i] = depth
	}
}

func (t *Tile) MinX() int        { return t.minX }
func (t *Tile) MinY() int        { return t.minY }
func (t *Tile) MaxX() int        { return t.maxX }
func (t *Tile) MaxY() int        { return t.maxY }
func (t *Tile) Width() int       { return t.width }
func (t *Tile) Color() []uint32  { return t.color }
func (t *Tile) Depth() []float32 { return t.depth }

// quadIndex maps a pixel coordinate to its slot within the interleaved
// 2x2 block layout, matching the addressing the rasterizer's quad walker
// uses: blocks are stored row-major by block, four contiguous entries per
// block in (TL, TR, BL, BR) lane order.
func (t *Tile) quadIndex(x, y int) int {
	lx, ly := x-t.minX, y-t.minY
	blockCol := lx / 2
	blockRow := ly / 2
	blocksPerRow := t.width / 2
	lane := (ly%2)*2 + lx%2
	return (blockRow*blocksPerRow+blockCol)*4 + lane
}

// At returns the packed color at pixel (x, y).
func (t *Tile) At(x, y int) uint32 {
	return t.color[t.quadIndex(x, y)]
}

// DepthAt returns the depth at pixel (x, y).
func (t *Tile) DepthAt(x, y int) float32 {
	return t.depth[t.quadIndex(x, y)]
}

// SetPixel writes a packed color at pixel (x, y), bounds-checked against
// the tile's local rectangle. Intended for debug overlays (wireframes,
// grid lines) that bypass the triangle pipeline; the hot rasterization
// path writes through Color() directly.
func (t *Tile) SetPixel(x, y int, packed uint32) {
	if x < t.minX || x > t.maxX || y < t.minY || y > t.maxY {
		return
	}
	t.color[t.quadIndex(x, y)] = packed
}

// ToImage renders the tile into a standard image.RGBA, unpacking every
// pixel from its quad-block slot. Intended for snapshotting/testing, not
// for the hot rasterization path.
func (t *Tile) ToImage() *image.RGBA {
	w := t.maxX - t.minX + 1
	h := t.maxY - t.minY + 1
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := t.minY; y <= t.maxY; y++ {
		for x := t.minX; x <= t.maxX; x++ {
			p := t.At(x, y)
			i := img.PixOffset(x-t.minX, y-t.minY)
			img.Pix[i+0] = byte(p >> 16) // R
			img.Pix[i+1] = byte(p >> 8)  // G
			img.Pix[i+2] = byte(p)       // B
			img.Pix[i+3] = byte(p >> 24) // A
		}
	}
	return img
}
