// cmd/slipdeck/main.go
//
// This is the entry point for slipdeck.
//
// Flow:
// 1. Parse flags
// 2. With -slips and -labels, run one batch headlessly and exit
// 3. Otherwise launch the interactive TUI

package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/yourusername/slipdeck/internal/config"
	"github.com/yourusername/slipdeck/internal/logbook"
	"github.com/yourusername/slipdeck/internal/manifest"
	"github.com/yourusername/slipdeck/internal/pdfdoc"
	"github.com/yourusername/slipdeck/internal/pipeline"
	"github.com/yourusername/slipdeck/internal/printer"
	"github.com/yourusername/slipdeck/internal/tui"
	"github.com/yourusername/slipdeck/internal/warehouse"
)

func main() {
	slipsPath := flag.String("slips", "", "packing slips PDF (headless mode)")
	labelsPath := flag.String("labels", "", "shipping labels PDF; discovered next to -slips when omitted")
	outDir := flag.String("out", "", "output folder; defaults to the slips folder")
	doPrint := flag.Bool("print", false, "send the sorted documents to the configured printers")
	flag.Parse()

	home, err := os.UserHomeDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
		os.Exit(1)
	}
	if err := config.InitDir(home); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing %s directory: %v\n", config.SlipdeckDir, err)
		os.Exit(1)
	}

	if *slipsPath != "" {
		if err := runHeadless(home, *slipsPath, *labelsPath, *outDir, *doPrint); err != nil {
			fmt.Fprintf(os.Stderr, "slipdeck: %v\n", err)
			os.Exit(1)
		}
		return
	}

	app, err := tui.NewApp(home)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error starting slipdeck: %v\n", err)
		os.Exit(1)
	}
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
}

// runHeadless executes a single batch without the TUI.
func runHeadless(home, slips, labels, outDir string, doPrint bool) error {
	cfg, err := config.Load(home)
	if err != nil {
		return err
	}
	lb, err := logbook.New(cfg.LogPath(), cfg.Settings.VerboseLog)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: log unavailable: %v\n", err)
	}

	if labels == "" {
		labels = pdfdoc.DiscoverCompanion(slips)
		if labels == "" {
			return fmt.Errorf("no -labels given and no companion deck found next to %s", slips)
		}
		fmt.Printf("Using companion labels: %s\n", labels)
	}
	if outDir == "" {
		outDir = filepath.Dir(slips)
	}

	catalog, err := warehouse.LoadCatalog(cfg.MapPath())
	if err != nil {
		return fmt.Errorf("read warehouse map: %w", err)
	}

	result, err := pipeline.Run(pipeline.RunOptions{
		SlipsPath:     slips,
		LabelsPath:    labels,
		OutDir:        outDir,
		SlipsOutName:  cfg.Settings.Output.Slips,
		LabelsOutName: cfg.Settings.Output.Labels,
		AreaSortOrder: cfg.Settings.AreaSortOrder,
		ParserConfig:  cfg.ParserConfig(),
		Areas:         catalog.Map(),
		Extractor:     pdfdoc.Extractor{},
		Decks:         pdfdoc.Decks{},
		Manifest:      manifest.Renderer{},
		Log:           lb,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Kept %d of %d pages\n", result.KeptPages, result.TotalPages)
	fmt.Printf("Slips:  %s\n", result.SlipsOut)
	fmt.Printf("Labels: %s\n", result.LabelsOut)

	if doPrint {
		submit(result.SlipsOut, cfg.Settings.Printers.Slips, "slips", lb)
		submit(result.LabelsOut, cfg.Settings.Printers.Labels, "labels", lb)
	}
	return nil
}

func submit(path string, profile printer.Profile, what string, lb *logbook.Logbook) {
	if profile.Name == "" {
		fmt.Fprintf(os.Stderr, "warning: no printer configured for %s\n", what)
		return
	}
	if err := printer.Submit(path, profile); err != nil {
		fmt.Fprintf(os.Stderr, "warning: print %s: %v\n", what, err)
		lb.Warn("Print %s: %v", what, err)
		return
	}
	fmt.Printf("Sent %s to printer %s\n", what, profile.Name)
	lb.Info("%s sent to printer %s", what, profile.Name)
}
