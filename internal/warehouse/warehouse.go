// internal/warehouse/warehouse.go
//
// This package owns the warehouse map: the catalog that tells us which
// storage area each product lives in. The pipeline only ever sees a
// read-only snapshot (Map); the interactive editor works on the ordered
// Catalog and saves it back to CSV.

package warehouse

import (
	"sort"
	"strings"
)

// Sentinel areas. Everything else is a short locker code like "A13".
const (
	AreaGarage  = "garage"
	AreaUnknown = "Unknown Area"
)

// Normalize lowercases and trims a product name. Every lookup key in the
// warehouse map goes through this, so "  Wool Runner " and "wool runner"
// are the same product.
func Normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// IsSample reports whether a product title names a sample item. Samples
// are routed to the garage no matter what the catalog says.
func IsSample(title string) bool {
	return strings.Contains(Normalize(title), "sample")
}

// Map is the read-only area lookup used by one pipeline run. Keys are
// normalized product names.
type Map struct {
	areas map[string]string
}

// NewMap returns an empty map, mostly useful in tests.
func NewMap() *Map {
	return &Map{areas: make(map[string]string)}
}

// Set records the area for a product. The product name is normalized,
// the area only trimmed (area codes keep their casing).
func (m *Map) Set(product, area string) {
	m.areas[Normalize(product)] = strings.TrimSpace(area)
}

// Contains reports whether the normalized product name has a catalog entry.
func (m *Map) Contains(product string) bool {
	_, ok := m.areas[Normalize(product)]
	return ok
}

// Len returns the number of catalog entries.
func (m *Map) Len() int {
	return len(m.areas)
}

// Resolve maps a product title to its warehouse area.
//
// The sample rule comes first and overrides any catalog entry: a title
// containing "sample" always resolves to the garage. After that only an
// exact normalized match counts; anything else is the Unknown Area
// sentinel. No fuzzy matching on purpose - an ambiguous product should
// surface as unknown rather than be guessed.
func (m *Map) Resolve(product string) string {
	if IsSample(product) {
		return AreaGarage
	}
	if area, ok := m.areas[Normalize(product)]; ok {
		return area
	}
	return AreaUnknown
}

// ComposeLabel renders a set of areas as the display label stamped onto a
// packing slip: comma-joined, alphabetical.
//
// One business override: when a page touches B16 plus at least one other
// area, B16 is dropped from the label. The B16 stock is picked along the
// way to the other lockers, so the label only needs the other stops. A
// page touching only B16 keeps it.
func ComposeLabel(areas map[string]struct{}) string {
	names := make([]string, 0, len(areas))
	for a := range areas {
		names = append(names, a)
	}
	if _, hasB16 := areas["B16"]; hasB16 && len(areas) > 1 {
		kept := names[:0]
		for _, a := range names {
			if a != "B16" {
				kept = append(kept, a)
			}
		}
		names = kept
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}
