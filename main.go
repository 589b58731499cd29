package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

// Set by compiler with -ldflags
var (
	version = "v0.3.0"
	commit  = "unknown"
	builtBy = "unknown"
)

var log = logrus.New()

func init() {
	// stdout may carry image data
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "glacier",
		Usage: "recolor images with Nord color schemes.",
		Description: "glacier replaces every pixel of an image with the closest color of the chosen schemes.\n\n" +
			"Schemes: frost, polar_night, snow_storm, aurora. Run `glacier schemes` to see their colors.",
		UseShortOptionHandling: true,
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:     "scheme",
				Aliases:  []string{"s"},
				EnvVars:  []string{"GLACIER_SCHEMES"},
				Required: true,
			},
			&cli.UintFlag{
				Name:    "threads",
				Aliases: []string{"j"},
				EnvVars: []string{"GLACIER_THREADS"},
			},
			&cli.BoolFlag{
				Name:    "grayscale",
				Aliases: []string{"g"},
			},
			&cli.StringFlag{
				Name: "saturation",
			},
			&cli.StringFlag{
				Name: "brightness",
			},
			&cli.StringFlag{
				Name: "contrast",
			},
			&cli.StringFlag{
				Name:    "recolor",
				Aliases: []string{"r"},
			},
			&cli.BoolFlag{
				Name: "no-exif-rotation",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				EnvVars: []string{"GLACIER_FORMAT"},
				Value:   "png",
			},
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"o"},
				Value:   "out.png",
			},
			&cli.StringSliceFlag{
				Name:     "in",
				Aliases:  []string{"i"},
				Required: true,
			},
			&cli.BoolFlag{
				Name: "no-overwrite",
			},
			&cli.StringFlag{
				Name:    "compression",
				Aliases: []string{"c"},
				EnvVars: []string{"GLACIER_COMPRESSION"},
				Value:   "default",
			},
			&cli.Float64Flag{
				Name: "fps",
			},
			&cli.UintFlag{
				Name:    "loop",
				Aliases: []string{"l"},
			},
			&cli.UintFlag{
				Name:    "width",
				Aliases: []string{"x"},
			},
			&cli.UintFlag{
				Name:    "height",
				Aliases: []string{"y"},
			},
			&cli.UintFlag{
				Name:    "upscale",
				Aliases: []string{"u"},
				Value:   1,
			},
			&cli.StringFlag{
				Name:    "log-level",
				EnvVars: []string{"GLACIER_LOG_LEVEL"},
				Value:   "info",
			},
			&cli.BoolFlag{
				Name:    "version",
				Aliases: []string{"v"},
			},
		},
		Before: preProcess,
		Action: recolorImages,
	}
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.WithError(err).Debug("no .env file loaded")
	}

	app := newApp()

	// Handle version flag
	if len(os.Args) == 2 && (os.Args[1] == "-v" || os.Args[1] == "--version") {
		fmt.Println("glacier", version)
		fmt.Println("Commit:", commit)
		fmt.Println("Built by:", builtBy)
		return
	}

	// Listing schemes needs none of the required flags, so it can't be
	// a regular command.
	if len(os.Args) == 2 && os.Args[1] == "schemes" {
		if err := printSchemes(os.Stdout); err != nil {
			log.Error(err)
			os.Exit(1)
		}
		return
	}

	err := app.Run(os.Args)
	if err != nil {
		if len(os.Args) == 1 {
			// Just ran the command with no flags
			return
		}
		var unknown *UnknownSchemeError
		if errors.As(err, &unknown) {
			log.WithField("scheme", unknown.Name).Error("valid schemes are: " + strings.Join(schemeNames(), ", "))
		}
		log.Error(err)
		os.Exit(1)
	}
}
