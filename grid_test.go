package main

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGridFromImage(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	img.SetNRGBA(0, 0, color.NRGBA{1, 2, 3, 255})
	img.SetNRGBA(2, 1, color.NRGBA{200, 100, 50, 0})

	g := gridFromImage(img)
	require.Equal(t, 3, g.Width)
	require.Equal(t, 2, g.Height)
	require.Equal(t, Color{1, 2, 3}, g.At(0, 0))
	// Transparent pixels keep their color
	require.Equal(t, Color{200, 100, 50}, g.At(2, 1))
	require.Equal(t, Color{}, g.At(1, 0))
}

func TestGridFromSubImage(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	img.SetNRGBA(2, 3, color.NRGBA{9, 8, 7, 255})
	sub := img.SubImage(image.Rect(1, 2, 4, 4))

	g := gridFromImage(sub)
	require.Equal(t, 3, g.Width)
	require.Equal(t, 2, g.Height)
	require.Equal(t, Color{9, 8, 7}, g.At(1, 1))

	// Same result through the generic path
	gray := image.NewGray(image.Rect(-2, -2, 1, 1))
	gray.SetGray(0, 0, color.Gray{77})
	g = gridFromImage(gray)
	require.Equal(t, Color{77, 77, 77}, g.At(2, 2))
}

func TestGridImageRoundTrip(t *testing.T) {
	g := NewGrid(3, 2)
	g.Set(0, 0, Color{143, 188, 187})
	g.Set(1, 1, Color{191, 97, 106})
	g.Set(2, 1, Color{255, 255, 255})

	img := g.image()
	require.True(t, img.Opaque())
	require.Equal(t, image.Rect(0, 0, 3, 2), img.Bounds())

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	decoded, err := png.Decode(&buf)
	require.NoError(t, err)
	require.Equal(t, g, gridFromImage(decoded))
}

func TestGridPaletted(t *testing.T) {
	g := NewGrid(2, 2)
	g.Pix = []Color{{1, 1, 1}, {2, 2, 2}, {2, 2, 2}, {1, 1, 1}}

	p := g.paletted(color.Palette{Color{2, 2, 2}, Color{1, 1, 1}, Color{2, 2, 2}})
	require.Equal(t, []uint8{1, 0, 0, 1}, p.Pix)
	require.Equal(t, g, gridFromImage(p))
}
