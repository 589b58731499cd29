package main

import (
	"image"
	"image/color"
)

// Grid is a row-major RGB pixel buffer with its origin at the top left.
type Grid struct {
	Width  int
	Height int
	Pix    []Color
}

func NewGrid(width, height int) *Grid {
	return &Grid{
		Width:  width,
		Height: height,
		Pix:    make([]Color, width*height),
	}
}

func (g *Grid) At(x, y int) Color {
	return g.Pix[y*g.Width+x]
}

func (g *Grid) Set(x, y int, c Color) {
	g.Pix[y*g.Width+x] = c
}

// gridFromImage converts an image to a Grid, dropping alpha. The grid origin
// is the image's Bounds().Min.
func gridFromImage(img image.Image) *Grid {
	b := img.Bounds()
	g := NewGrid(b.Dx(), b.Dy())

	// Fast path, imaging always produces *image.NRGBA after any operation
	if n, ok := img.(*image.NRGBA); ok {
		for y := 0; y < g.Height; y++ {
			row := n.Pix[(y+b.Min.Y-n.Rect.Min.Y)*n.Stride+(b.Min.X-n.Rect.Min.X)*4:]
			for x := 0; x < g.Width; x++ {
				g.Pix[y*g.Width+x] = Color{row[x*4], row[x*4+1], row[x*4+2]}
			}
		}
		return g
	}

	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			g.Pix[y*g.Width+x] = RGBModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(Color)
		}
	}
	return g
}

// image returns an opaque copy of the grid, which the PNG encoder writes as
// 8-bit RGB.
func (g *Grid) image() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, g.Width, g.Height))
	for i, c := range g.Pix {
		img.Pix[i*4] = c.R
		img.Pix[i*4+1] = c.G
		img.Pix[i*4+2] = c.B
		img.Pix[i*4+3] = 0xff
	}
	return img
}

// paletted returns the grid as a paletted image. Every grid color must be in
// the palette; the first matching palette entry is used.
func (g *Grid) paletted(p color.Palette) *image.Paletted {
	img := image.NewPaletted(image.Rect(0, 0, g.Width, g.Height), p)
	lookup := make(map[Color]uint8, len(p))
	for i := len(p) - 1; i >= 0; i-- {
		lookup[RGBModel.Convert(p[i]).(Color)] = uint8(i)
	}
	for i, c := range g.Pix {
		img.Pix[i] = lookup[c]
	}
	return img
}
