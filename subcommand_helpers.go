package main

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/disintegration/imaging"
	"github.com/sirupsen/logrus"
	"golang.org/x/image/colornames"
)

// parsePercentArg takes a string like "0.5" or "50%" and will return a float
// like 50 or 0.5, depending on the second argument. An empty string returns 0.
//
// If `maxOne` is true, then "50%" will return 0.5. Otherwise it will return 50.
func parsePercentArg(arg string, maxOne bool) (float64, error) {
	if arg == "" {
		return 0, nil
	}
	if strings.HasSuffix(arg, "%") {
		arg = arg[:len(arg)-1]
		f64, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return 0, err
		}
		if maxOne {
			f64 /= 100.0
		}
		return f64, nil
	}
	f64, err := strconv.ParseFloat(arg, 64)
	if !maxOne {
		f64 *= 100.0
	}
	return f64, err
}

// parseArgs takes arguments and splits them using the provided split characters.
func parseArgs(args []string, splitRunes string) []string {
	finalArgs := make([]string, 0)
	for _, arg := range args {
		finalArgs = append(finalArgs, strings.FieldsFunc(arg, func(c rune) bool {
			return strings.ContainsRune(splitRunes, c)
		})...)
	}
	return finalArgs
}

func hexToColor(hex string) (Color, error) {
	// Modified from https://github.com/lucasb-eyer/go-colorful/blob/v1.2.0/colors.go#L333

	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 {
		return Color{}, fmt.Errorf("%s is not a hex color", hex)
	}

	format := "%02x%02x%02x"
	var r, g, b uint8
	n, err := fmt.Sscanf(strings.ToLower(hex), format, &r, &g, &b)
	if err != nil {
		return Color{}, err
	}
	if n != 3 {
		return Color{}, fmt.Errorf("%s is not a hex color", hex)
	}
	return Color{r, g, b}, nil
}

func rgbToColor(s string) (Color, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return Color{}, fmt.Errorf("%s is not an RGB tuple", s)
	}
	var rgb [3]uint8
	for i, p := range parts {
		v, err := strconv.ParseUint(strings.TrimSpace(p), 10, 8)
		if err != nil {
			return Color{}, fmt.Errorf("%s is not an RGB tuple: %w", s, err)
		}
		rgb[i] = uint8(v)
	}
	return Color{rgb[0], rgb[1], rgb[2]}, nil
}

// parseColors turns args into colors. Each arg can be an RGB tuple, a hex
// code, a number 0-255 for gray, or an SVG color name.
func parseColors(flag string, args []string) ([]Color, error) {
	colors := make([]Color, len(args))

	for i, arg := range args {
		// Try to parse as RGB numbers, then hex, then grayscale, then SVG colors, then fail

		if strings.Count(arg, ",") == 2 {
			rgbColor, err := rgbToColor(arg)
			if err != nil {
				return nil, fmt.Errorf("%s: %s is not a valid RGB tuple. Example: 25,200,150", flag, arg)
			}
			colors[i] = rgbColor
			continue
		}

		hexColor, err := hexToColor(arg)
		if err == nil {
			colors[i] = hexColor
			continue
		}

		n, err := strconv.Atoi(arg)
		if err == nil {
			if n > 255 || n < 0 {
				return nil, fmt.Errorf("%s: single numbers like %d must be in the range 0-255", flag, n)
			}
			colors[i] = Color{uint8(n), uint8(n), uint8(n)}
			continue
		}

		htmlColor, ok := colornames.Map[strings.ToLower(arg)]
		if ok {
			colors[i] = RGBModel.Convert(htmlColor).(Color)
			continue
		}

		return nil, fmt.Errorf("%s: %s not recognized as an RGB tuple, hex code, number 0-255, or SVG color name", flag, arg)
	}

	return colors, nil
}

// uniqueColors returns the colors in order, without repeats.
func uniqueColors(colors []Color) color.Palette {
	seen := make(map[Color]bool, len(colors))
	p := make(color.Palette, 0, len(colors))
	for _, c := range colors {
		if !seen[c] {
			seen[c] = true
			p = append(p, c)
		}
	}
	return p
}

// printSchemes writes every known scheme and its colors.
func printSchemes(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, p := range Schemes() {
		hexes := make([]string, len(p.Colors))
		for i, c := range p.Colors {
			hexes[i] = c.Hex()
		}
		fmt.Fprintf(tw, "%s\t%s\n", p.Name, strings.Join(hexes, " "))
	}
	return tw.Flush()
}

// getInputImage takes an input image arg and returns an image that has
// modifications applied.
func getInputImage(arg string) (image.Image, error) {
	var img image.Image
	var err error

	if arg == "-" {
		img, err = imaging.Decode(os.Stdin, autoOrientation)
	} else {
		img, err = imaging.Open(arg, autoOrientation)
	}
	if err != nil {
		return nil, err
	}

	if width != 0 || height != 0 {
		// Box sampling is quick and fast, and better then others at downscaling
		// https://pkg.go.dev/github.com/disintegration/imaging#ResampleFilter
		img = imaging.Resize(img, width, height, imaging.Box)
	}

	if grayscale {
		img = imaging.Grayscale(img)
	}
	if saturation != 0 {
		img = imaging.AdjustSaturation(img, saturation)
	}
	if contrast != 0 {
		img = imaging.AdjustContrast(img, contrast)
	}
	if brightness != 0 {
		img = imaging.AdjustBrightness(img, brightness)
	}

	return img, nil
}

// recolorImage matches every pixel of img against the candidates and
// post-processes the result.
func recolorImage(img image.Image, logger *logrus.Entry) *Grid {
	start := time.Now()
	src := gridFromImage(img)
	out := postProcImage(engine.apply(src, outPalette))
	logger.WithFields(logrus.Fields{
		"width":   src.Width,
		"height":  src.Height,
		"elapsed": time.Since(start).Round(time.Millisecond),
	}).Debug("recolored")
	return out
}

// postProcImage upscales the image if needed. Nearest neighbour scaling
// keeps every pixel inside the palette.
func postProcImage(g *Grid) *Grid {
	if upscale == 1 || g.Width == 0 || g.Height == 0 {
		return g
	}
	img := imaging.Resize(g.image(), g.Width*upscale, g.Height*upscale, imaging.NearestNeighbor)
	return gridFromImage(img)
}

// processImages recolors all the input images and writes them.
// It handles all image I/O.
func processImages(outPath string) error {
	// Setup for if it's an animated GIF output

	isAnimGIF := len(inputImages) > 1 && outFormat == "gif" && !outIsDir

	var animGIF gif.GIF
	if isAnimGIF {
		if !fpsIsSet {
			return errors.New("output will be animated GIF, but --fps flag is not set")
		}

		// Round to the nearest possible frame rate supported by the GIF format
		// See for details: https://superuser.com/a/1449370
		//
		// Lowest allowed delay is 1, or 100 FPS.
		delay := int(math.Max(math.Round(100.0/fps), 1))

		loopCount := loop
		if loopCount == 1 {
			// Looping once is set using -1 in the image/gif library
			loopCount = -1
		} else if loopCount != 0 {
			// The CLI flag is equal to the number of times looped
			// But for gif.GIF.LoopCount, "the animation is looped LoopCount+1 times."
			loopCount -= 1
		}
		animGIF = gif.GIF{
			Image:     make([]*image.Paletted, len(inputImages)),
			Delay:     make([]int, len(inputImages)),
			LoopCount: loopCount,
		}
		for i := range animGIF.Delay {
			animGIF.Delay[i] = delay
		}
	}

	for i, inputPath := range inputImages {
		logger := log.WithField("in", inputPath)

		img, err := getInputImage(inputPath)
		if err != nil {
			return fmt.Errorf("error loading '%s': %w", inputPath, err)
		}

		out := recolorImage(img, logger)

		if isAnimGIF {
			frame := out.paletted(gifPalette)
			if i == 0 {
				animGIF.Config = image.Config{
					ColorModel: gifPalette,
					Width:      out.Width,
					Height:     out.Height,
				}
			} else if !frame.Bounds().Eq(animGIF.Image[0].Bounds()) {
				return fmt.Errorf(
					"image '%s' isn't the same size as '%s', all sizes must match to create an animated GIF",
					inputPath, inputImages[0],
				)
			}
			animGIF.Image[i] = frame
			continue
		}

		path := outputPath(outPath, inputPath)
		if err := writeImage(path, out); err != nil {
			return err
		}
		logger.WithField("out", path).Info("wrote image")
	}

	if !isAnimGIF {
		return nil
	}

	err := writeOutput(outPath, func(w io.Writer) error {
		return gif.EncodeAll(w, &animGIF)
	})
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{"out": outPath, "frames": len(animGIF.Image)}).Info("wrote animated GIF")
	return nil
}
