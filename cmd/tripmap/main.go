// Command tripmap renders a travel itinerary on an interactive terminal
// world map: a timeline of segments and stays beside a braille canvas
// that zooms between world, region and per-item views.
package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"tripmap/internal/config"
	"tripmap/internal/logging"
	"tripmap/internal/overlay"
	"tripmap/internal/travel/client"
	"tripmap/internal/tui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "tripmap:", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configPath  = flag.String("config", "", "config file (default: tripmap.yaml, then /etc/tripmap/config.yaml)")
		routePath   = flag.String("route", "", "load the trip from a local route file instead of the backend")
		overlayPath = flag.String("overlay", "", "base-layer geometry file (geojson, wkt, kml or csv)")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	// The TUI owns the terminal once it starts; logs must go to a file.
	if cfg.Logging.File == "" {
		cfg.Logging.File = "tripmap.log"
	}
	log, closeLog, err := logging.New(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		File:   cfg.Logging.File,
	})
	if err != nil {
		return err
	}
	defer closeLog()

	api, err := client.New(cfg.API.BaseURL, cfg.API.Timeout, log)
	if err != nil {
		return err
	}

	opts := tui.Options{API: api, Log: log, ArcPoints: cfg.Map.ArcPoints}
	if *overlayPath != "" {
		base, err := overlay.Load(*overlayPath)
		if err != nil {
			return err
		}
		opts.Overlay = base
	}

	var m tui.Model
	if *routePath != "" {
		m, err = tui.NewWithRoute(opts, *routePath)
		if err != nil {
			return err
		}
	} else {
		m = tui.New(opts)
	}

	log.Info().Str("api", cfg.API.BaseURL).Str("route", *routePath).Msg("starting tripmap")
	if _, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion()).Run(); err != nil {
		return err
	}
	return nil
}
