// Package display renders a finished frame to a terminal using half-block
// characters, each terminal cell packing two vertically stacked pixels via
// foreground/background color.
package display

import (
	"image/color"

	uv "github.com/charmbracelet/ultraviolet"

	"github.com/taigrr/swrast/pkg/dispatch"
)

// Draw writes frame's pixels into scr over area. Each terminal row covers
// two framebuffer rows: the upper-half-block glyph's foreground is the top
// pixel, its background the bottom pixel. frame's height should be
// 2*(area height).
func Draw(frame *dispatch.Frame, scr uv.Screen, area uv.Rectangle) {
	for row := area.Min.Y; row < area.Max.Y; row++ {
		topY := row * 2
		botY := topY + 1
		if botY >= frame.Height {
			break
		}

		for col := area.Min.X; col < area.Max.X && col < frame.Width; col++ {
			top := pixelAt(frame, col, topY)
			bot := pixelAt(frame, col, botY)

			cell := &uv.Cell{
				Content: "▀",
				Width:   1,
				Style: uv.Style{
					Fg: toColor(top),
					Bg: toColor(bot),
				},
			}
			scr.SetCell(col, row, cell)
		}
	}
}

// pixelAt reads one packed 0xAARRGGBB pixel from the tile covering (x, y).
func pixelAt(frame *dispatch.Frame, x, y int) uint32 {
	tile := frame.TileAt(x, y)
	if tile == nil {
		return 0
	}
	return tile.At(x, y)
}

func toColor(packed uint32) color.Color {
	a := byte(packed >> 24)
	if a == 0 {
		return nil // transparent: let the terminal's own background show
	}
	return color.RGBA{
		R: byte(packed >> 16),
		G: byte(packed >> 8),
		B: byte(packed),
		A: a,
	}
}
