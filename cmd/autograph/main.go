package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"time"

	"gioui.org/app"
	"github.com/esimov/autograph"
	"github.com/esimov/autograph/utils"
)

const HelpBanner = `
┌─┐┬ ┬┌┬┐┌─┐┌─┐┬─┐┌─┐┌─┐┬ ┬
├─┤│ │ │ │ ││ ┬├┬┘├─┤├─┘├─┤
┴ ┴└─┘ ┴ └─┘└─┘┴└─┴ ┴┴  ┴ ┴

Freehand signature pad and exporter.
    Version: %s

Without -in a drawing pad window is opened. With -in the stroke
recording (or a directory of recordings) is exported to -out.

`

// pipeName is the file name that indicates stdin/stdout is being used.
const pipeName = "-"

// Version indicates the current build version.
var Version string

var (
	// Flags
	configPath  = flag.String("config", "", "Configuration file (default ~/.autograph.yaml)")
	source      = flag.String("in", "", "Source recording, directory of recordings or - for stdin")
	destination = flag.String("out", ".", "Destination file, directory or - for stdout")
	format      = flag.String("format", ".png", "Export format in directory or pipe mode (.png, .jpg, .bmp, .svg, .pdf)")
	animated    = flag.Bool("animated", false, "Export animated SVG")
	record      = flag.String("record", "", "Save the strokes drawn on the pad to this recording file")
	recent      = flag.Bool("recent", false, "List the recently exported signatures")
	width       = flag.Int("width", 0, "Pad width")
	height      = flag.Int("height", 0, "Pad height")
	strokeColor = flag.String("color", "", "Ink color")
	strokeWidth = flag.Float64("stroke", 0, "Base stroke width (1-10)")
	background  = flag.String("bg", "", "Export background: transparent, #ffffff, #000000")
	noTrim      = flag.Bool("notrim", false, "Keep the whole surface on raster exports")
	noGuide     = flag.Bool("noguide", false, "Hide the signing guide")
	workers     = flag.Int("conc", runtime.NumCPU(), "Number of recordings to export concurrently")
)

func main() {
	log.SetFlags(0)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, HelpBanner, Version)
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf(
			utils.DecorateText("Failed to load the configuration: %v", utils.ErrorMessage),
			utils.DecorateText(err.Error(), utils.DefaultMessage),
		)
	}

	recentPath := cfg.RecentPath
	if recentPath == "" {
		if recentPath, err = autograph.DefaultRecentPath(); err != nil {
			log.Printf(utils.DecorateText("Recent items are kept in memory: %v", utils.StatusMessage), err)
		}
	}
	tray := autograph.NewRecentStore(recentPath, cfg.RecentLimit)
	if err := tray.Load(); err != nil {
		log.Printf(utils.DecorateText("Could not load the recent items: %v", utils.ErrorMessage), err)
	}

	switch {
	case *recent:
		listRecent(tray)
	case *source != "":
		export(cfg)
	default:
		pad(cfg, tray)
	}
}

// loadConfig reads the configuration file and applies the flags explicitly set on the command line.
func loadConfig() (autograph.Config, error) {
	path := *configPath
	if path == "" {
		var err error
		if path, err = autograph.DefaultConfigPath(); err != nil {
			return autograph.DefaultConfig(), nil
		}
	}
	cfg, err := autograph.LoadConfig(path)
	if err != nil {
		return cfg, err
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "width":
			cfg.Width = *width
		case "height":
			cfg.Height = *height
		case "color":
			cfg.Color = *strokeColor
		case "stroke":
			cfg.BaseWidth = *strokeWidth
		case "bg":
			cfg.Background = *background
		case "notrim":
			cfg.Trim = !*noTrim
		case "noguide":
			cfg.Guide = !*noGuide
		case "conc":
			cfg.Workers = *workers
		}
	})
	return cfg, cfg.Validate()
}

// export runs the batch exporter over the source recording(s).
func export(cfg autograph.Config) {
	spinnerText := fmt.Sprintf("%s %s",
		utils.DecorateText("⚡ AUTOGRAPH", utils.StatusMessage),
		utils.DecorateText("is exporting the signature...", utils.DefaultMessage))

	exp := &autograph.Exporter{
		Style:    cfg.Style(),
		Animated: *animated,
		Spinner:  utils.NewSpinner(spinnerText, time.Millisecond*200, true),
		Logger:   log.New(os.Stderr, "", 0),
	}
	op := &autograph.Ops{
		Src:      *source,
		Dst:      *destination,
		PipeName: pipeName,
		Workers:  cfg.Workers,
		Format:   *format,
	}
	if err := exp.Execute(op); err != nil {
		log.Fatalf(
			utils.DecorateText("\nError exporting the signature: %s", utils.ErrorMessage),
			utils.DecorateText(err.Error(), utils.DefaultMessage),
		)
	}
}

// pad opens the drawing pad. The Gio event loop has to run on the main goroutine.
func pad(cfg autograph.Config, tray *autograph.RecentStore) {
	logger := log.New(os.Stderr, "", 0)

	p, err := autograph.NewPad(cfg, *destination, tray, logger)
	if err != nil {
		log.Fatalf(
			utils.DecorateText("Unable to open the drawing pad: %v", utils.ErrorMessage),
			utils.DecorateText(err.Error(), utils.DefaultMessage),
		)
	}

	go func() {
		if err := p.Run(); err != nil {
			log.Fatalf(
				utils.DecorateText("Drawing pad error: %v", utils.ErrorMessage),
				utils.DecorateText(err.Error(), utils.DefaultMessage),
			)
		}
		if *record != "" {
			if err := autograph.SaveRecording(*record, p.Session().Recording()); err != nil {
				log.Fatalf(
					utils.DecorateText("Unable to save the recording: %v", utils.ErrorMessage),
					utils.DecorateText(err.Error(), utils.DefaultMessage),
				)
			}
			fmt.Fprintf(os.Stderr, "The strokes have been recorded as: %s\n",
				utils.DecorateText(*record, utils.SuccessMessage),
			)
		}
		os.Exit(0)
	}()
	app.Main()
}

// listRecent prints the recently exported signatures, newest first.
func listRecent(tray *autograph.RecentStore) {
	items := tray.Items()
	if len(items) == 0 {
		fmt.Fprintln(os.Stderr, utils.DecorateText("No recent signatures.", utils.StatusMessage))
		return
	}
	for i, it := range items {
		size := "?"
		if thumb, err := it.Thumbnail(64, 64); err == nil {
			size = fmt.Sprintf("%dx%d", thumb.Bounds().Dx(), thumb.Bounds().Dy())
		}
		fmt.Printf("%2d. %s  %s  thumbnail %s  %d bytes\n",
			i+1, it.Created.Local().Format(time.RFC822), it.ID, size, len(it.DataURI),
		)
	}
}
