// internal/pdfdoc/decks.go
//
// Output deck assembly on top of pdfcpu: collect kept pages in sorted
// order, stamp each slip page with its area label, and prepend the
// manifest. The shipping-label deck is reordered by index only; its
// content is never inspected.

package pdfdoc

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Top-right corner, clear of the slip header.
const stampDesc = "fontname:Helvetica, points:11, scalefactor:1 abs, position:tr, offset:-36 -24, rotation:0, opacity:1"

// Decks builds the two output PDFs. It satisfies the pipeline's
// DeckWriter.
type Decks struct{}

func configuration() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	// Merchant-generated PDFs are frequently sloppy; don't reject them
	// over format violations a viewer would shrug off.
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}

// PageCount returns the number of pages in a PDF.
func (Decks) PageCount(path string) (int, error) {
	n, err := api.PageCountFile(path)
	if err != nil {
		return 0, fmt.Errorf("pdfdoc: page count of %s: %w", path, err)
	}
	return n, nil
}

// WriteSlipDeck writes the sorted, annotated packing-slip document:
// manifest pages first (when manifestPDF is non-empty), then the kept
// pages in the given order, each stamped with its area label.
func (Decks) WriteSlipDeck(slipsPath string, pages []int, labels []string, manifestPDF, outPath string) error {
	if len(labels) != len(pages) {
		return fmt.Errorf("pdfdoc: %d labels for %d pages", len(labels), len(pages))
	}
	conf := configuration()

	tmpDir, err := os.MkdirTemp("", "slipdeck-slips-")
	if err != nil {
		return fmt.Errorf("pdfdoc: temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	collected := filepath.Join(tmpDir, "collected.pdf")
	if err := api.CollectFile(slipsPath, collected, pageSelectors(pages), conf); err != nil {
		return fmt.Errorf("pdfdoc: collect slip pages: %w", err)
	}

	for i, label := range labels {
		if label == "" {
			continue
		}
		sel := []string{strconv.Itoa(i + 1)}
		if err := api.AddTextWatermarksFile(collected, collected, sel, true, label, stampDesc, conf); err != nil {
			return fmt.Errorf("pdfdoc: stamp page %d with %q: %w", i+1, label, err)
		}
	}

	inputs := []string{collected}
	if manifestPDF != "" {
		inputs = []string{manifestPDF, collected}
	}
	if err := api.MergeCreateFile(inputs, outPath, false, conf); err != nil {
		return fmt.Errorf("pdfdoc: write %s: %w", outPath, err)
	}
	return nil
}

// WriteLabelDeck writes the shipping labels reordered to match the sorted
// slip deck position for position.
func (Decks) WriteLabelDeck(labelsPath string, pages []int, outPath string) error {
	if err := api.CollectFile(labelsPath, outPath, pageSelectors(pages), configuration()); err != nil {
		return fmt.Errorf("pdfdoc: write %s: %w", outPath, err)
	}
	return nil
}

// pageSelectors converts zero-based indices to pdfcpu's 1-based page
// selection strings, preserving order.
func pageSelectors(pages []int) []string {
	sel := make([]string, len(pages))
	for i, p := range pages {
		sel[i] = strconv.Itoa(p + 1)
	}
	return sel
}
