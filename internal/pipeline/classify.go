// internal/pipeline/classify.go
//
// Page classification: run every page of the packing-slip deck through
// the parser and the area resolver, and decide which pages survive into
// the sorted output. The original page index is carried on every record -
// it is the only join key back to the shipping-label deck.

package pipeline

import (
	"fmt"

	"github.com/yourusername/slipdeck/internal/logbook"
	"github.com/yourusername/slipdeck/internal/slip"
	"github.com/yourusername/slipdeck/internal/warehouse"
)

// TextExtractor provides per-page plain text and page counts for a PDF.
// Page numbers are zero-based.
type TextExtractor interface {
	PageCount(path string) (int, error)
	PageText(path string, page int) (string, error)
}

// PageRecord is one kept packing-slip page. Records are created here and
// only read afterwards; sort and aggregation never mutate them.
type PageRecord struct {
	OriginalIndex  int
	Areas          map[string]struct{}
	AreaLabel      string
	PrimaryProduct string // normalized first item title, or ""
	Items          []slip.LineItem
}

// Classifier decides which slip pages survive filtering.
type Classifier struct {
	parser  *slip.Parser
	areas   *warehouse.Map
	extract TextExtractor
	log     *logbook.Logbook
}

// NewClassifier wires a classifier over the given collaborators.
func NewClassifier(parser *slip.Parser, areas *warehouse.Map, extract TextExtractor, log *logbook.Logbook) *Classifier {
	return &Classifier{parser: parser, areas: areas, extract: extract, log: log}
}

// ClassifyDeck reads every page of the slip deck and returns the kept
// records in original page order, plus the deck's total page count.
//
// A page is kept when it resolved at least one area, or when any of its
// items is a sample (a sample-only page still has to reach the garage).
// Per-page text extraction failures are downgraded to an empty page: the
// run never aborts because one page would not read.
func (c *Classifier) ClassifyDeck(path string) ([]PageRecord, int, error) {
	total, err := c.extract.PageCount(path)
	if err != nil {
		return nil, 0, fmt.Errorf("pipeline: count slip pages: %w", err)
	}

	var records []PageRecord
	for idx := 0; idx < total; idx++ {
		text, err := c.extract.PageText(path, idx)
		if err != nil {
			c.log.Warn("page %d: text extraction failed, treating as empty: %v", idx+1, err)
			text = ""
		}
		items := c.parser.Parse(text)
		if len(items) == 0 {
			c.log.Debug("page %d: no line items, dropped", idx+1)
			continue
		}

		areas := make(map[string]struct{})
		hasSample := false
		for _, item := range items {
			area := c.areas.Resolve(item.Title)
			areas[area] = struct{}{}
			if warehouse.IsSample(item.Title) {
				hasSample = true
				c.log.Info("page %d: sample %q routed to %s", idx+1, item.Title, warehouse.AreaGarage)
			} else if area == warehouse.AreaUnknown {
				c.log.Debug("page %d: no catalog entry for %q, resolved to %q", idx+1, item.Title, warehouse.AreaUnknown)
			}
		}
		if len(areas) == 0 && !hasSample {
			c.log.Debug("page %d: no areas and no samples, dropped", idx+1)
			continue
		}

		records = append(records, PageRecord{
			OriginalIndex:  idx,
			Areas:          areas,
			AreaLabel:      warehouse.ComposeLabel(areas),
			PrimaryProduct: warehouse.Normalize(items[0].Title),
			Items:          items,
		})
	}
	return records, total, nil
}
