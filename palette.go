package main

import (
	"errors"
	"fmt"
	"image/color"
)

// Color is an opaque 8-bit RGB color. It implements color.Color so it can be
// used anywhere the image packages expect one.
type Color struct {
	R, G, B uint8
}

func (c Color) RGBA() (r, g, b, a uint32) {
	r = uint32(c.R)
	r |= r << 8
	g = uint32(c.G)
	g |= g << 8
	b = uint32(c.B)
	b |= b << 8
	return r, g, b, 0xffff
}

// Hex returns the color as #rrggbb.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// RGBModel converts any color to Color. The channels are taken
// non-premultiplied and alpha is dropped, so a fully transparent pixel keeps
// whatever RGB values the source stored for it.
var RGBModel = color.ModelFunc(rgbModel)

func rgbModel(c color.Color) color.Color {
	if _, ok := c.(Color); ok {
		return c
	}
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return Color{n.R, n.G, n.B}
}

// Palette is a named, ordered set of colors.
type Palette struct {
	Name   string
	Colors []Color
}

// ErrEmptyCandidateSet is returned when there are no colors to match against.
var ErrEmptyCandidateSet = errors.New("no candidate colors: at least one scheme is required")

// UnknownSchemeError is returned when a scheme name isn't recognized.
type UnknownSchemeError struct {
	Name string
}

func (e *UnknownSchemeError) Error() string {
	return fmt.Sprintf("unknown scheme '%s'", e.Name)
}

// Nord color schemes, https://www.nordtheme.com
// Order matters: it decides which color wins a tie.
var schemes = []Palette{
	{
		Name: "frost",
		Colors: []Color{
			{143, 188, 187},
			{136, 192, 208},
			{129, 161, 193},
			{94, 129, 172},
		},
	},
	{
		Name: "polar_night",
		Colors: []Color{
			{46, 52, 64},
			{59, 66, 82},
			{67, 76, 94},
			{76, 86, 106},
		},
	},
	{
		Name: "snow_storm",
		Colors: []Color{
			{216, 222, 233},
			{229, 233, 240},
			{236, 239, 244},
		},
	},
	{
		Name: "aurora",
		Colors: []Color{
			{191, 97, 106},
			{208, 135, 112},
			{235, 203, 139},
			{163, 190, 140},
			{180, 142, 173},
		},
	},
}

// Lookup returns the scheme with the given name. The returned palette is a
// copy and can be modified freely.
func Lookup(name string) (Palette, error) {
	for _, p := range schemes {
		if p.Name == name {
			return Palette{
				Name:   p.Name,
				Colors: append([]Color(nil), p.Colors...),
			}, nil
		}
	}
	return Palette{}, &UnknownSchemeError{Name: name}
}

// Schemes returns copies of all known schemes, in declaration order.
func Schemes() []Palette {
	pals := make([]Palette, len(schemes))
	for i, p := range schemes {
		pals[i], _ = Lookup(p.Name)
	}
	return pals
}

func schemeNames() []string {
	names := make([]string, len(schemes))
	for i, p := range schemes {
		names[i] = p.Name
	}
	return names
}

// Resolve looks up every name and concatenates their colors in the order the
// names were given. Colors shared between schemes are not deduplicated.
func Resolve(names []string) ([]Color, error) {
	if len(names) == 0 {
		return nil, ErrEmptyCandidateSet
	}

	colors := make([]Color, 0)
	for _, name := range names {
		p, err := Lookup(name)
		if err != nil {
			return nil, err
		}
		colors = append(colors, p.Colors...)
	}
	return colors, nil
}
