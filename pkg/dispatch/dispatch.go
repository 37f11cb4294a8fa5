// Package dispatch provides the work-dispatch layer the rasterization core
// is invoked from: it partitions a frame into render-target tiles and
// assigns each tile to a worker goroutine, submitting triangles to each
// tile in the caller's original order so per-tile fragment ordering stays
// deterministic.
package dispatch

import (
	"context"

	"github.com/taigrr/swrast/pkg/framebuffer"
	"github.com/taigrr/swrast/pkg/raster"
	"golang.org/x/sync/errgroup"
)

// Frame owns the full set of tiles covering a (width, height) target and
// the tile size they were partitioned at.
type Frame struct {
	Width, Height int
	TileSize      int
	Tiles         []*framebuffer.Tile
	cols, rows    int
}

// NewFrame partitions a (width x height) target into tileSize x tileSize
// tiles (the last column/row may be smaller), each cleared to clearColor
// and clearDepth.
func NewFrame(width, height, tileSize int, clearColor uint32, clearDepth float32) *Frame {
	cols := (width + tileSize - 1) / tileSize
	rows := (height + tileSize - 1) / tileSize

	f := &Frame{Width: width, Height: height, TileSize: tileSize, cols: cols, rows: rows}
	f.Tiles = make([]*framebuffer.Tile, 0, cols*rows)

	for ty := 0; ty < rows; ty++ {
		for tx := 0; tx < cols; tx++ {
			minX := tx * tileSize
			minY := ty * tileSize
			maxX := minX + tileSize - 1
			if maxX >= width {
				maxX = width - 1
			}
			maxY := minY + tileSize - 1
			if maxY >= height {
				maxY = height - 1
			}
			f.Tiles = append(f.Tiles, framebuffer.New(minX, minY, maxX, maxY, clearColor, clearDepth))
		}
	}
	return f
}

// TileAt returns the tile covering pixel (x, y), or nil if out of bounds.
func (f *Frame) TileAt(x, y int) *framebuffer.Tile {
	if x < 0 || y < 0 || x >= f.Width || y >= f.Height {
		return nil
	}
	tx, ty := x/f.TileSize, y/f.TileSize
	return f.Tiles[ty*f.cols+tx]
}

// Clear resets every tile's color and depth buffers, run once per frame
// before submitting the next batch of triangles.
func (f *Frame) Clear(color uint32, depth float32) {
	for _, tile := range f.Tiles {
		tile.Clear(color, depth)
	}
}

// SetPixel writes a packed color at frame-space (x, y), routing to the
// owning tile. Out-of-bounds coordinates are silently ignored.
func (f *Frame) SetPixel(x, y int, packed uint32) {
	if tile := f.TileAt(x, y); tile != nil {
		tile.SetPixel(x, y, packed)
	}
}

// Draw submits every triangle in tris against state/sampler to its
// covering tile(s), then runs one worker goroutine per tile in parallel
// via errgroup, each worker processing its tile's assigned triangles in
// submission order. A triangle spanning multiple tiles is submitted to
// every tile it overlaps; per-tile fragment ordering still matches
// submission order since each tile's own queue is built in input order.
func Draw(ctx context.Context, f *Frame, tris []raster.Triangle, state *raster.DrawState, sampler raster.Sampler) error {
	queues := make([][]raster.Triangle, len(f.Tiles))

	for _, tri := range tris {
		minX, minY, maxX, maxY := triangleBounds(tri)
		for i, tile := range f.Tiles {
			if maxX < tile.MinX() || minX > tile.MaxX() || maxY < tile.MinY() || minY > tile.MaxY() {
				continue
			}
			queues[i] = append(queues[i], tri)
		}
	}

	g, _ := errgroup.WithContext(ctx)
	for i := range f.Tiles {
		i := i
		g.Go(func() error {
			tile := f.Tiles[i]
			for _, tri := range queues[i] {
				raster.Rasterize(tri, state, sampler, tile)
			}
			return nil
		})
	}
	return g.Wait()
}

func triangleBounds(tri raster.Triangle) (minX, minY, maxX, maxY int) {
	minXf, maxXf := tri.V[0].X, tri.V[0].X
	minYf, maxYf := tri.V[0].Y, tri.V[0].Y
	for _, v := range tri.V[1:] {
		if v.X < minXf {
			minXf = v.X
		}
		if v.X > maxXf {
			maxXf = v.X
		}
		if v.Y < minYf {
			minYf = v.Y
		}
		if v.Y > maxYf {
			maxYf = v.Y
		}
	}
	return int(minXf), int(minYf), int(maxXf) + 1, int(maxYf) + 1
}
