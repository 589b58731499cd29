package main

import (
	"bytes"
	"errors"
	"image/color"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		name   string
		colors []Color
	}{
		{"frost", []Color{{143, 188, 187}, {136, 192, 208}, {129, 161, 193}, {94, 129, 172}}},
		{"polar_night", []Color{{46, 52, 64}, {59, 66, 82}, {67, 76, 94}, {76, 86, 106}}},
		{"snow_storm", []Color{{216, 222, 233}, {229, 233, 240}, {236, 239, 244}}},
		{"aurora", []Color{{191, 97, 106}, {208, 135, 112}, {235, 203, 139}, {163, 190, 140}, {180, 142, 173}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Lookup(tt.name)
			require.NoError(t, err)
			require.Equal(t, tt.name, p.Name)
			require.Equal(t, tt.colors, p.Colors)
		})
	}
}

func TestLookupUnknown(t *testing.T) {
	for _, name := range []string{"glacier", "Frost", "", "frost "} {
		p, err := Lookup(name)
		require.Error(t, err)
		require.Empty(t, p.Colors)

		var unknown *UnknownSchemeError
		require.True(t, errors.As(err, &unknown))
		require.Equal(t, name, unknown.Name)
	}
}

func TestLookupReturnsCopy(t *testing.T) {
	p, err := Lookup("frost")
	require.NoError(t, err)
	p.Colors[0] = Color{1, 2, 3}

	again, err := Lookup("frost")
	require.NoError(t, err)
	require.Equal(t, Color{143, 188, 187}, again.Colors[0])
}

func TestResolve(t *testing.T) {
	colors, err := Resolve([]string{"frost", "aurora"})
	require.NoError(t, err)
	require.Len(t, colors, 9)

	frost, _ := Lookup("frost")
	aurora, _ := Lookup("aurora")
	require.Equal(t, frost.Colors, colors[:4])
	require.Equal(t, aurora.Colors, colors[4:])
}

func TestResolveKeepsDuplicates(t *testing.T) {
	colors, err := Resolve([]string{"snow_storm", "snow_storm"})
	require.NoError(t, err)
	require.Len(t, colors, 6)
	require.Equal(t, colors[:3], colors[3:])
}

func TestResolveErrors(t *testing.T) {
	colors, err := Resolve(nil)
	require.ErrorIs(t, err, ErrEmptyCandidateSet)
	require.Nil(t, colors)

	colors, err = Resolve([]string{"frost", "glacier", "aurora"})
	var unknown *UnknownSchemeError
	require.ErrorAs(t, err, &unknown)
	require.Equal(t, "glacier", unknown.Name)
	require.Nil(t, colors)
}

func TestSchemesOrder(t *testing.T) {
	var names []string
	for _, p := range Schemes() {
		require.NotEmpty(t, p.Colors)
		names = append(names, p.Name)
	}
	require.Equal(t, []string{"frost", "polar_night", "snow_storm", "aurora"}, names)
	require.Equal(t, names, schemeNames())
}

func TestColorModel(t *testing.T) {
	c := Color{94, 129, 172}
	require.Equal(t, c, RGBModel.Convert(c))
	require.Equal(t, c, RGBModel.Convert(color.RGBA{94, 129, 172, 255}))
	// Alpha is dropped, not applied
	require.Equal(t, c, RGBModel.Convert(color.NRGBA{94, 129, 172, 10}))

	r, g, b, a := Color{255, 0, 128}.RGBA()
	require.Equal(t, [4]uint32{0xffff, 0, 0x8080, 0xffff}, [4]uint32{r, g, b, a})
	require.Equal(t, "#5e81ac", c.Hex())
}

func TestPrintSchemes(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printSchemes(&buf))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	require.True(t, strings.HasPrefix(lines[0], "frost"))
	require.Contains(t, lines[0], "#8fbcbb")
	require.Contains(t, lines[3], "#b48ead")
}
