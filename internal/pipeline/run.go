// internal/pipeline/run.go
//
// One complete batch run: classify, validate, aggregate, then hand the
// plan to the PDF collaborators. Runs are synchronous and all-or-nothing;
// a fatal validation error aborts before any output file exists.

package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/yourusername/slipdeck/internal/logbook"
	"github.com/yourusername/slipdeck/internal/manifest"
	"github.com/yourusername/slipdeck/internal/slip"
	"github.com/yourusername/slipdeck/internal/warehouse"
)

// DeckWriter assembles the two output PDFs from a validated plan. Page
// indices are zero-based originals; labels line up one per page.
type DeckWriter interface {
	WriteSlipDeck(slipsPath string, pages []int, labels []string, manifestPDF, outPath string) error
	WriteLabelDeck(labelsPath string, pages []int, outPath string) error
}

// ManifestRenderer writes the summary sections as a PDF.
type ManifestRenderer interface {
	Render(sections []manifest.Section, outPath string) error
}

// RunOptions carries everything one batch run needs. Configuration values
// are passed in explicitly; the pipeline holds no process-wide state.
type RunOptions struct {
	SlipsPath  string
	LabelsPath string
	OutDir     string

	SlipsOutName  string // e.g. "sorted_packing_slips.pdf"
	LabelsOutName string // e.g. "sorted_shipping_labels.pdf"

	AreaSortOrder []string
	ParserConfig  slip.Config
	Areas         *warehouse.Map

	Extractor TextExtractor
	Decks     DeckWriter
	Manifest  ManifestRenderer
	Log       *logbook.Logbook
}

// RunResult summarizes a completed run for the shell.
type RunResult struct {
	SlipsOut    string
	LabelsOut   string
	TotalPages  int
	KeptPages   int
	SectionsOut int
}

// Run executes one batch to completion. Every fatal condition is raised
// before the first output write; collaborator write failures abort the
// run at that step and nothing earlier is salvaged across retries.
func Run(opts RunOptions) (*RunResult, error) {
	log := opts.Log
	log.BeginRun(opts.SlipsPath, opts.LabelsPath)

	parser := slip.New(opts.ParserConfig, opts.Areas)
	classifier := NewClassifier(parser, opts.Areas, opts.Extractor, log)
	records, total, err := classifier.ClassifyDeck(opts.SlipsPath)
	if err != nil {
		return nil, err
	}
	log.Info("slip deck: %d pages, %d kept after filtering", total, len(records))

	labelPages, err := opts.Extractor.PageCount(opts.LabelsPath)
	if err != nil {
		return nil, fmt.Errorf("pipeline: count label pages: %w", err)
	}

	plan, err := BuildPlan(records, total, labelPages, opts.AreaSortOrder)
	if err != nil {
		log.Error("run aborted: %v", err)
		return nil, err
	}
	for pos, r := range plan.Records {
		log.Debug("output position %d: page %d, label %q, product %q", pos+1, r.OriginalIndex+1, r.AreaLabel, r.PrimaryProduct)
	}

	// Membership, not order, drives the manifest.
	pages := make([][]slip.LineItem, len(plan.Records))
	for i, r := range plan.Records {
		pages[i] = r.Items
	}
	sections := manifest.Aggregate(pages, opts.Areas, opts.AreaSortOrder, log)

	if err := os.MkdirAll(opts.OutDir, 0o755); err != nil {
		return nil, fmt.Errorf("pipeline: create save directory: %w", err)
	}

	manifestPDF := ""
	if len(sections) > 0 {
		tmpDir, err := os.MkdirTemp("", "slipdeck-manifest-")
		if err != nil {
			return nil, fmt.Errorf("pipeline: temp dir: %w", err)
		}
		defer os.RemoveAll(tmpDir)
		manifestPDF = filepath.Join(tmpDir, "manifest.pdf")
		if err := opts.Manifest.Render(sections, manifestPDF); err != nil {
			return nil, err
		}
	} else {
		log.Warn("no manifest sections to render; output will have no summary pages")
	}

	slipsOut := filepath.Join(opts.OutDir, opts.SlipsOutName)
	labelsOut := filepath.Join(opts.OutDir, opts.LabelsOutName)

	if err := opts.Decks.WriteSlipDeck(opts.SlipsPath, plan.Indices(), plan.Labels(), manifestPDF, slipsOut); err != nil {
		return nil, err
	}
	if err := opts.Decks.WriteLabelDeck(opts.LabelsPath, plan.Indices(), labelsOut); err != nil {
		return nil, err
	}

	log.Info("run complete: %d sorted pages per deck, %d manifest sections", len(plan.Records), len(sections))
	return &RunResult{
		SlipsOut:    slipsOut,
		LabelsOut:   labelsOut,
		TotalPages:  total,
		KeptPages:   len(plan.Records),
		SectionsOut: len(sections),
	}, nil
}
