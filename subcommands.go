package main

import (
	"errors"
	"fmt"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

const (
	unsupportedFormat string = "'%s' is an unsupported format, only 'png', 'gif', 'bmp' or 'tiff' are accepted"
)

var (
	// selectedSchemes stores the schemes in the order given on the command line.
	selectedSchemes []string

	// candidates stores the resolved colors of all selected schemes.
	// It's set after pre-processing and never empty.
	candidates []Color

	// recolorPalette stores the recolor colors, one per candidate.
	// It's set after pre-processing.
	recolorPalette []Color

	// outPalette is what matched pixels are written with, recolorPalette if
	// set, candidates otherwise.
	outPalette []Color

	// gifPalette is outPalette without duplicates.
	gifPalette color.Palette

	grayscale bool

	// Range -100,100

	saturation float64
	brightness float64
	contrast   float64

	autoOrientation imaging.DecodeOption

	inputImages []string
	outFormat   string // "png", "gif", "bmp" or "tiff"
	outIsDir    bool

	compLevel png.CompressionLevel

	noOverwrite bool

	// Animated GIF settings
	fps      float64
	fpsIsSet bool
	loop     int

	width  int
	height int
	// upscale will always be 1 or above
	upscale int

	engine *Engine
)

// preProcess is automatically called by the app before anything else.
// It's run in the global context.
func preProcess(c *cli.Context) error {
	level, err := logrus.ParseLevel(c.String("log-level"))
	if err != nil {
		return fmt.Errorf("log-level: %w", err)
	}
	log.SetLevel(level)

	saturation, err = parsePercentArg(c.String("saturation"), false)
	if err != nil {
		return fmt.Errorf("saturation: %w", err)
	}
	grayscale = c.Bool("grayscale")
	if saturation <= -100 {
		grayscale = true
		saturation = 0
	}
	brightness, err = parsePercentArg(c.String("brightness"), false)
	if err != nil {
		return fmt.Errorf("brightness: %w", err)
	}
	contrast, err = parsePercentArg(c.String("contrast"), false)
	if err != nil {
		return fmt.Errorf("contrast: %w", err)
	}

	autoOrientation = imaging.AutoOrientation(!c.Bool("no-exif-rotation"))

	inputImages = make([]string, 0)
	for _, path := range c.StringSlice("in") {
		if strings.Contains(path, "*") {
			// Parse as glob
			paths, err := filepath.Glob(path)
			if err != nil {
				return fmt.Errorf("bad glob pattern '%s': %w", path, err)
			}
			inputImages = append(inputImages, paths...)
		} else {
			inputImages = append(inputImages, path)
		}
	}
	if len(inputImages) == 0 {
		return errors.New("no input images found")
	}

	// Allows -s frost -s aurora, -s frost,aurora and -s "frost aurora"
	selectedSchemes = parseArgs(c.StringSlice("scheme"), " ,")
	candidates, err = Resolve(selectedSchemes)
	if err != nil {
		return err
	}

	recolorPalette = nil
	outPalette = candidates
	if c.String("recolor") != "" {
		recolorPalette, err = parseColors("recolor", parseArgs([]string{c.String("recolor")}, " "))
		if err != nil {
			return err
		}
		if len(recolorPalette) != len(candidates) {
			return fmt.Errorf(
				"recolor palette must have the same number of colors as the selected schemes (%d)",
				len(candidates),
			)
		}
		outPalette = recolorPalette
	}
	gifPalette = uniqueColors(outPalette)

	// Figure out output format

	outVal := c.String("out")
	outFormat, outIsDir, err = detectOutputFormat(outVal, c.String("format"), c.IsSet("format"))
	if err != nil {
		return err
	}

	// Multiple input images are only valid if the output is GIF,
	// or if the output points to a directory.
	if len(inputImages) > 1 && (outFormat != "gif" && !outIsDir) {
		return fmt.Errorf("multiple input images are only allowed if the output format is GIF, or an existing directory")
	}

	if outFormat == "gif" && len(gifPalette) > 256 {
		return errors.New("the GIF format only supports 256 colors or less in the palette")
	}

	// Set PNG compression type

	switch c.String("compression") {
	case "default":
		compLevel = png.DefaultCompression
	case "no":
		compLevel = png.NoCompression
	case "speed":
		compLevel = png.BestSpeed
	case "size":
		compLevel = png.BestCompression
	default:
		return fmt.Errorf("invalid compression type '%s'", c.String("compression"))
	}

	noOverwrite = c.Bool("no-overwrite")

	fps = c.Float64("fps")
	fpsIsSet = c.IsSet("fps")
	if fpsIsSet && fps <= 0 {
		return fmt.Errorf("fps: must be above zero, got %v", fps)
	}
	loop = int(c.Uint("loop"))

	// Set here for convenience
	width = int(c.Uint("width"))
	height = int(c.Uint("height"))
	upscale = int(c.Uint("upscale"))
	if upscale == 0 {
		// Invalid
		upscale = 1
	}

	engine, err = NewEngine(candidates, int(c.Uint("threads")))
	if err != nil {
		return err
	}

	log.WithFields(logrus.Fields{
		"schemes": selectedSchemes,
		"colors":  len(candidates),
		"format":  outFormat,
		"inputs":  len(inputImages),
	}).Debug("configured")

	return nil
}

// detectOutputFormat works out the output format from the --out and --format
// flags. The extension of an output file is used when the format flag wasn't
// set explicitly.
func detectOutputFormat(outVal, formatVal string, formatIsSet bool) (format string, isDir bool, err error) {
	if !isSupportedFormat(formatVal) {
		return "", false, fmt.Errorf(unsupportedFormat, formatVal)
	}

	if outVal == "-" {
		// Outputting to stdout, so just use whatever the flag is
		return formatVal, false, nil
	}

	outFI, err := os.Stat(outVal)
	if err == nil && outFI.IsDir() {
		// Exists and is a directory
		// Just use what the flag is
		return formatVal, true, nil
	}

	// Outputting to file, that already exists
	// Or something that doesn't exist - assumed to be a file

	if formatIsSet {
		// Format flag was set, so ignore what the file looks like
		return formatVal, false, nil
	}

	// Format wasn't set, so ignore default value of "png"
	// Try to figure out format from output filename
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(outVal), "."))
	switch {
	case ext == "":
		// No extension, use default format
		return "png", false, nil
	case ext == "tif":
		return "tiff", false, nil
	case isSupportedFormat(ext):
		return ext, false, nil
	}
	// Unsupported extension and no format flag override
	return "", false, fmt.Errorf(unsupportedFormat, ext)
}

func isSupportedFormat(f string) bool {
	switch f {
	case "png", "gif", "bmp", "tiff":
		return true
	}
	return false
}

// recolorImages is the app action. Everything it needs is set up
// by preProcess.
func recolorImages(c *cli.Context) error {
	if c.Args().Present() {
		return fmt.Errorf("unexpected arguments: %v, use --in for input images", c.Args().Slice())
	}

	start := time.Now()
	if err := processImages(c.String("out")); err != nil {
		return err
	}
	log.WithFields(logrus.Fields{
		"images":  len(inputImages),
		"elapsed": time.Since(start).Round(time.Millisecond),
	}).Info("done")
	return nil
}
