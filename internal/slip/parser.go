// internal/slip/parser.go
//
// This package turns the raw extracted text of one packing-slip page into
// line items. The slips follow a fixed layout: an "ITEMS" marker line,
// then repeating 2-3 line blocks of product title, size/quantity line and
// an optional SKU line, ended by a blank line or a boilerplate footer
// sentence. Only the first items section on a page is read.

package slip

import (
	"regexp"
	"strings"

	"github.com/yourusername/slipdeck/internal/warehouse"
)

// LineItem is one parsed product row. Quantity stays a string until the
// summary aggregator merges rows, so a value that fails integer parsing
// can be discarded with a warning at that point instead of being zeroed
// here.
type LineItem struct {
	Title    string
	Size     string
	Quantity string
}

// Catalog is the lookup the parser needs for title acceptance. A title
// must either exist in the warehouse map or contain "sample" to be
// treated as a product line.
type Catalog interface {
	Contains(product string) bool
}

// Config carries the fixed vocabulary the parser matches against. These
// are configuration values handed in by the caller, not package globals,
// so tests can vary them freely.
type Config struct {
	ItemsMarker string   // marker that opens the items section, e.g. "ITEMS"
	StopPhrases []string // footer sentences that end the section
	Sizes       []string // acceptable size vocabulary
	SKUMarker   string   // substring marking an SKU line, e.g. "SKU"
	SKUPrefix   string   // line prefix marking an SKU line, e.g. "LB"
}

// Parser scans page text for line items.
type Parser struct {
	cfg     Config
	sizes   map[string]struct{}
	catalog Catalog
}

// "M 2 of 3" / "Size 1 2 of 2": size token (optionally "Size N"), a
// quantity, literal "of", and a total we do not keep.
var sizeQuantityRe = regexp.MustCompile(`^(\S+(?:\s+\d+)?)\s+(\d+)\s+of\s+\d+`)

// "size 39" embedded in a sample title.
var titleSizeRe = regexp.MustCompile(`size\s+(\d+)`)

// New builds a parser over the given vocabulary and catalog.
func New(cfg Config, catalog Catalog) *Parser {
	sizes := make(map[string]struct{}, len(cfg.Sizes))
	for _, s := range cfg.Sizes {
		sizes[s] = struct{}{}
	}
	return &Parser{cfg: cfg, sizes: sizes, catalog: catalog}
}

// Parse returns the ordered line items found on one page. A page without
// an items marker, or whose section yields nothing usable, returns nil.
func (p *Parser) Parse(text string) []LineItem {
	var items []LineItem
	lines := strings.Split(text, "\n")

	i := 0
	for i < len(lines) {
		if !strings.Contains(lines[i], p.cfg.ItemsMarker) {
			i++
			continue
		}
		// Items section found; consume it, then stop looking. A slip
		// never has a second one.
		i++
		for i < len(lines) {
			title := strings.TrimSpace(lines[i])
			if title == "" || p.isStopPhrase(title) {
				break
			}
			normalized := warehouse.Normalize(title)
			if !p.catalog.Contains(normalized) && !strings.Contains(normalized, "sample") {
				// Unrecognized title that isn't a sample: not a
				// product line, advance and retry.
				i++
				continue
			}
			i++
			if i >= len(lines) {
				break
			}
			sizeLine := strings.TrimSpace(lines[i])
			size, quantity, ok := p.matchSize(sizeLine, normalized)
			if !ok {
				i++
				continue
			}
			i++
			if i < len(lines) && p.isSKULine(lines[i]) {
				i++
			}
			items = append(items, LineItem{Title: title, Size: size, Quantity: quantity})
		}
		break
	}
	return items
}

// matchSize extracts (size, quantity) from a size/quantity line. When the
// line matches nothing and the title is a sample, the size is recovered
// from the title's own "size N" text, or defaults to the literal "Sample"
// with quantity 1. Non-sample titles with no usable size line are
// discarded.
func (p *Parser) matchSize(line, normalizedTitle string) (size, quantity string, ok bool) {
	if m := sizeQuantityRe.FindStringSubmatch(line); m != nil {
		if _, known := p.sizes[m[1]]; known {
			return m[1], m[2], true
		}
	} else if _, known := p.sizes[line]; known {
		// Bare size line, implied quantity of one.
		return line, "1", true
	}
	if strings.Contains(normalizedTitle, "sample") {
		if m := titleSizeRe.FindStringSubmatch(normalizedTitle); m != nil {
			return m[1], "1", true
		}
		return "Sample", "1", true
	}
	return "", "", false
}

func (p *Parser) isStopPhrase(line string) bool {
	for _, phrase := range p.cfg.StopPhrases {
		if strings.Contains(line, phrase) {
			return true
		}
	}
	return false
}

func (p *Parser) isSKULine(line string) bool {
	if p.cfg.SKUMarker != "" && strings.Contains(line, p.cfg.SKUMarker) {
		return true
	}
	return p.cfg.SKUPrefix != "" && strings.HasPrefix(strings.TrimSpace(line), p.cfg.SKUPrefix)
}
