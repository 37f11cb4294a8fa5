// Package texture implements the texture object and sampler that the
// rasterization core consumes through its external sampler contract.
package texture

import (
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"math"
	"os"

	"github.com/taigrr/swrast/pkg/raster"
	"golang.org/x/image/draw"
)

// WrapMode determines how texture coordinates outside [0,1] are handled.
type WrapMode int

const (
	WrapRepeat WrapMode = iota
	WrapClamp
)

// FilterMode determines how texture sampling is performed.
type FilterMode int

const (
	FilterNearest FilterMode = iota
	FilterBilinear
)

// Texel is a floating-point RGBA sample in [0,1], row-major storage unit.
type Texel struct {
	R, G, B, A float32
}

// Texture holds a 2D image for texture mapping plus the sampling state
// a GL texture object carries (wrap modes, filter, base format).
type Texture struct {
	Width      int
	Height     int
	Texels     []Texel
	WrapU      WrapMode
	WrapV      WrapMode
	Filter     FilterMode
	BaseFormat raster.BaseFormat
}

// New creates an empty RGBA texture with the given dimensions.
func New(width, height int) *Texture {
	return &Texture{
		Width:      width,
		Height:     height,
		Texels:     make([]Texel, width*height),
		WrapU:      WrapRepeat,
		WrapV:      WrapRepeat,
		Filter:     FilterNearest,
		BaseFormat: raster.FormatRGBA,
	}
}

// Load decodes an image file into a texture.
func Load(path string) (*Texture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open texture: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode texture: %w", err)
	}
	return FromImage(img), nil
}

// FromImage builds a texture from a decoded image.Image.
func FromImage(img image.Image) *Texture {
	bounds := img.Bounds()
	tex := New(bounds.Dx(), bounds.Dy())
	for y := 0; y < tex.Height; y++ {
		for x := 0; x < tex.Width; x++ {
			r, g, b, a := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			tex.Texels[y*tex.Width+x] = Texel{
				R: float32(r) / 0xffff,
				G: float32(g) / 0xffff,
				B: float32(b) / 0xffff,
				A: float32(a) / 0xffff,
			}
		}
	}
	return tex
}

// Resize produces a copy of the texture scaled to the given dimensions
// using golang.org/x/image/draw's bilinear scaler, for building procedural
// textures at arbitrary resolution from a small base image.
func (t *Texture) Resize(width, height int) *Texture {
	src := image.NewRGBA(image.Rect(0, 0, t.Width, t.Height))
	for y := 0; y < t.Height; y++ {
		for x := 0; x < t.Width; x++ {
			c := t.GetTexel(x, y)
			src.Set(x, y, color.RGBA64{
				R: uint16(c.R * 0xffff),
				G: uint16(c.G * 0xffff),
				B: uint16(c.B * 0xffff),
				A: uint16(c.A * 0xffff),
			})
		}
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.BiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)

	out := FromImage(dst)
	out.WrapU, out.WrapV, out.Filter, out.BaseFormat = t.WrapU, t.WrapV, t.Filter, t.BaseFormat
	return out
}

// NewChecker creates a procedural checkerboard texture.
func NewChecker(width, height, checkSize int, c1, c2 Texel) *Texture {
	tex := New(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			cx, cy := x/checkSize, y/checkSize
			if (cx+cy)%2 == 0 {
				tex.SetTexel(x, y, c1)
			} else {
				tex.SetTexel(x, y, c2)
			}
		}
	}
	return tex
}

// NewGradient creates a horizontal gradient texture.
func NewGradient(width, height int, left, right Texel) *Texture {
	tex := New(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			t := float32(x) / float32(width-1)
			tex.SetTexel(x, y, lerpTexel(left, right, t))
		}
	}
	return tex
}

// SetTexel sets a texel, bounds-checked.
func (t *Texture) SetTexel(x, y int, c Texel) {
	if x < 0 || x >= t.Width || y < 0 || y >= t.Height {
		return
	}
	t.Texels[y*t.Width+x] = c
}

// GetTexel returns the texel at (x, y), bounds-checked.
func (t *Texture) GetTexel(x, y int) Texel {
	if x < 0 || x >= t.Width || y < 0 || y >= t.Height {
		return Texel{}
	}
	return t.Texels[y*t.Width+x]
}

// SampleScalar samples the texture at UV coordinates in [0,1], applying
// wrap mode and the configured filter. This is the scalar primitive that
// Sampler.Sample calls once per lane, for all four lanes of a quad.
func (t *Texture) SampleScalar(u, v float32) Texel {
	u = t.wrap(u, t.WrapU)
	v = t.wrap(v, t.WrapV)
	v = 1 - v // image Y=0 at top, UV V=0 at bottom

	if t.Filter == FilterBilinear {
		return t.sampleBilinear(u, v)
	}
	return t.sampleNearest(u, v)
}

func (t *Texture) wrap(c float32, mode WrapMode) float32 {
	switch mode {
	case WrapRepeat:
		return c - float32(math.Floor(float64(c)))
	case WrapClamp:
		if c < 0 {
			return 0
		}
		if c > 1 {
			return 1
		}
	}
	return c
}

func (t *Texture) sampleNearest(u, v float32) Texel {
	x := int(u * float32(t.Width))
	y := int(v * float32(t.Height))
	if x >= t.Width {
		x = t.Width - 1
	}
	if y >= t.Height {
		y = t.Height - 1
	}
	return t.GetTexel(x, y)
}

func (t *Texture) sampleBilinear(u, v float32) Texel {
	fx := u*float32(t.Width) - 0.5
	fy := v*float32(t.Height) - 0.5

	x0 := int(math.Floor(float64(fx)))
	y0 := int(math.Floor(float64(fy)))
	x1, y1 := x0+1, y0+1

	tx, ty := fx-float32(x0), fy-float32(y0)

	x0 = t.wrapPixel(x0, t.Width, t.WrapU)
	x1 = t.wrapPixel(x1, t.Width, t.WrapU)
	y0 = t.wrapPixel(y0, t.Height, t.WrapV)
	y1 = t.wrapPixel(y1, t.Height, t.WrapV)

	c00 := t.GetTexel(x0, y0)
	c10 := t.GetTexel(x1, y0)
	c01 := t.GetTexel(x0, y1)
	c11 := t.GetTexel(x1, y1)

	top := lerpTexel(c00, c10, tx)
	bot := lerpTexel(c01, c11, tx)
	return lerpTexel(top, bot, ty)
}

func (t *Texture) wrapPixel(x, size int, mode WrapMode) int {
	switch mode {
	case WrapRepeat:
		x %= size
		if x < 0 {
			x += size
		}
	case WrapClamp:
		if x < 0 {
			x = 0
		} else if x >= size {
			x = size - 1
		}
	}
	return x
}

func lerpTexel(a, b Texel, t float32) Texel {
	return Texel{
		R: a.R + (b.R-a.R)*t,
		G: a.G + (b.G-a.G)*t,
		B: a.B + (b.B-a.B)*t,
		A: a.A + (b.A-a.A)*t,
	}
}
