package main

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"image/png"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// fixedQuantizer implements draw.Quantizer by ignoring the image and always
// returning itself. image/gif only takes a palette through a Quantizer.
//
// Same idea as the dither library, see
// https://github.com/makeworld-the-better-one/dither/blob/3714c39500bc23a87a4fa14053344f201cc5beff/draw.go#L128-L156
type fixedQuantizer color.Palette

func (fq fixedQuantizer) Quantize(p color.Palette, _ image.Image) color.Palette {
	return append(p[:0], fq...)
}

// encodeImage writes the grid in the output format.
func encodeImage(w io.Writer, g *Grid) error {
	switch outFormat {
	case "png":
		return (&png.Encoder{CompressionLevel: compLevel}).Encode(w, g.image())
	case "gif":
		// Every pixel is already a palette color, so plain Src drawing
		// finds exact matches and nothing is dithered
		return gif.Encode(w, g.image(), &gif.Options{
			NumColors: len(gifPalette),
			Quantizer: fixedQuantizer(gifPalette),
			Drawer:    draw.Src,
		})
	case "bmp":
		return bmp.Encode(w, g.image())
	case "tiff":
		return tiff.Encode(w, g.image(), &tiff.Options{Compression: tiff.Deflate})
	}
	return fmt.Errorf(unsupportedFormat, outFormat)
}

// writeImage encodes the grid to path.
func writeImage(path string, g *Grid) error {
	return writeOutput(path, func(w io.Writer) error {
		return encodeImage(w, g)
	})
}

// writeOutput calls encode with a writer for path, or stdout if path is "-".
// Files are written to a temporary file first and renamed on success, so a
// failed run never leaves a partial output behind.
func writeOutput(path string, encode func(io.Writer) error) (err error) {
	if path == "-" {
		if err := encode(os.Stdout); err != nil {
			return fmt.Errorf("error writing %s to stdout: %w", strings.ToUpper(outFormat), err)
		}
		return nil
	}

	// A replaced file keeps its permissions
	mode := fs.FileMode(0644)
	if fi, err := os.Stat(path); err == nil {
		if noOverwrite {
			return fmt.Errorf("'%s': %w", path, fs.ErrExist)
		}
		mode = fi.Mode().Perm()
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("'%s': %w", path, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("'%s': %w", path, err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err = encode(tmp); err != nil {
		return fmt.Errorf("error writing %s to '%s': %w", strings.ToUpper(outFormat), path, err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("could not flush '%s': %w", path, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("could not close '%s': %w", path, err)
	}
	if err = os.Chmod(tmp.Name(), mode); err != nil {
		return fmt.Errorf("'%s': %w", path, err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("could not rename to '%s': %w", path, err)
	}
	return nil
}

// outputPath returns where the recolored inputPath is written.
func outputPath(outPath, inputPath string) string {
	if !outIsDir {
		return outPath
	}
	// Inside output directory
	// Same name as input file but potentially different extension
	return filepath.Join(
		outPath,
		strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))+"."+outFormat,
	)
}
