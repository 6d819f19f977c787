// internal/manifest/aggregate.go
//
// The summary aggregator: consolidate every kept page's line items into
// per-area totals for the manifest pages prepended to the sorted slips.
// Each item is attributed to its own resolved area, so one physical page
// can feed several manifest sections even though the page itself sorts
// under a single area - the manifest answers "where does each item go",
// the deck order answers "where does this page go".

package manifest

import (
	"sort"
	"strconv"
	"strings"

	"github.com/yourusername/slipdeck/internal/logbook"
	"github.com/yourusername/slipdeck/internal/slip"
	"github.com/yourusername/slipdeck/internal/warehouse"
)

// Row is one merged manifest line: identical (title, size) pairs within
// an area are summed.
type Row struct {
	Title    string
	Size     string
	Quantity int
}

// Section holds one area's merged, sorted rows.
type Section struct {
	Area string
	Rows []Row
}

// SizeRank orders sizes small to large for manifest rows: "Size N" and
// bare numerals rank as N, letter sizes XS through XXL as 1 to 6, and
// anything unrecognized is pushed to the end.
func SizeRank(size string) int {
	clean := strings.ToLower(strings.TrimSpace(size))
	if rest, ok := strings.CutPrefix(clean, "size "); ok {
		if n, err := strconv.Atoi(strings.TrimSpace(rest)); err == nil {
			return n
		}
	}
	if n, err := strconv.Atoi(clean); err == nil {
		return n
	}
	switch strings.ToUpper(strings.TrimSpace(size)) {
	case "XS":
		return 1
	case "S":
		return 2
	case "M":
		return 3
	case "L":
		return 4
	case "XL":
		return 5
	case "XXL":
		return 6
	}
	return 100
}

// Aggregate builds manifest sections from the kept pages' items. Sections
// come out in the configured area order; areas outside that order are
// silently excluded - the manifest is a fixed-order printed document, not
// an exhaustive report. Entries whose quantity fails integer parsing are
// dropped with a warning, never summed as zero.
func Aggregate(pages [][]slip.LineItem, areas *warehouse.Map, order []string, log *logbook.Logbook) []Section {
	buckets := make(map[string][]slip.LineItem)
	for _, items := range pages {
		for _, item := range items {
			area := areas.Resolve(item.Title)
			buckets[area] = append(buckets[area], item)
		}
	}

	var sections []Section
	for _, area := range order {
		entries, ok := buckets[area]
		if !ok {
			continue
		}
		rows := mergeRows(entries, log)
		if len(rows) == 0 {
			continue
		}
		sections = append(sections, Section{Area: area, Rows: rows})
	}
	return sections
}

// mergeRows sorts one area's entries by (lowercased title, size rank) and
// sums quantities of identical (title, size) pairs, preserving the sorted
// order of first occurrence.
func mergeRows(entries []slip.LineItem, log *logbook.Logbook) []Row {
	sorted := make([]slip.LineItem, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		ti, tj := strings.ToLower(sorted[i].Title), strings.ToLower(sorted[j].Title)
		if ti != tj {
			return ti < tj
		}
		return SizeRank(sorted[i].Size) < SizeRank(sorted[j].Size)
	})

	type key struct{ title, size string }
	index := make(map[key]int)
	var rows []Row
	for _, e := range sorted {
		qty, err := strconv.Atoi(strings.TrimSpace(e.Quantity))
		if err != nil {
			log.Warn("manifest: invalid quantity %q for %q size %q, entry skipped", e.Quantity, e.Title, e.Size)
			continue
		}
		k := key{e.Title, e.Size}
		if at, ok := index[k]; ok {
			rows[at].Quantity += qty
			continue
		}
		index[k] = len(rows)
		rows = append(rows, Row{Title: e.Title, Size: e.Size, Quantity: qty})
	}
	return rows
}
