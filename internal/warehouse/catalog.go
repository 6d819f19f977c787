// internal/warehouse/catalog.go
//
// The Catalog is the editable, ordered view of the warehouse map that the
// TUI editor works with. It round-trips through a two-column CSV
// ("Product Name","Area") and keeps the operator's original casing; the
// pipeline never touches it directly, it takes a Map snapshot instead.

package warehouse

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strings"
)

// Entry is one catalog row as the operator typed it.
type Entry struct {
	Product string
	Area    string
}

// Catalog is an ordered list of entries backed by a CSV file.
type Catalog struct {
	entries []Entry
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{}
}

// LoadCatalog reads the warehouse map CSV. The first row is assumed to be
// a header and skipped. Rows with fewer than two columns or with blank
// product/area cells are dropped, matching how the map is curated.
func LoadCatalog(path string) (*Catalog, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("warehouse: open map: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("warehouse: read map csv: %w", err)
	}

	cat := &Catalog{}
	for i, row := range rows {
		if i == 0 {
			continue // header
		}
		if len(row) < 2 {
			continue
		}
		product := strings.TrimSpace(row[0])
		area := strings.TrimSpace(row[1])
		if product == "" || area == "" {
			continue
		}
		cat.entries = append(cat.entries, Entry{Product: product, Area: area})
	}
	return cat, nil
}

// Save writes the catalog back to CSV with the standard header.
func (c *Catalog) Save(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("warehouse: create map: %w", err)
	}
	writer := csv.NewWriter(file)
	if err := writer.Write([]string{"Product Name", "Area"}); err != nil {
		file.Close()
		return fmt.Errorf("warehouse: write header: %w", err)
	}
	for _, e := range c.entries {
		if err := writer.Write([]string{e.Product, e.Area}); err != nil {
			file.Close()
			return fmt.Errorf("warehouse: write row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		file.Close()
		return fmt.Errorf("warehouse: flush map: %w", err)
	}
	return file.Close()
}

// Map builds the read-only normalized snapshot a pipeline run consumes.
// Later entries win when two rows normalize to the same product, the same
// way RemoveDuplicates keeps the last occurrence.
func (c *Catalog) Map() *Map {
	m := NewMap()
	for _, e := range c.entries {
		m.Set(e.Product, e.Area)
	}
	return m
}

// Entries returns a copy of the rows in catalog order.
func (c *Catalog) Entries() []Entry {
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Len returns the number of rows.
func (c *Catalog) Len() int {
	return len(c.entries)
}

// Add inserts a new entry, or updates the area of an existing product
// when the normalized name already exists. It reports whether an existing
// entry was updated rather than added.
func (c *Catalog) Add(product, area string) (updated bool) {
	product = strings.TrimSpace(product)
	area = strings.TrimSpace(area)
	key := Normalize(product)
	for i := range c.entries {
		if Normalize(c.entries[i].Product) == key {
			c.entries[i].Area = area
			return true
		}
	}
	c.entries = append(c.entries, Entry{Product: product, Area: area})
	return false
}

// Update rewrites the entry whose product name currently equals the given
// original name. It reports whether a row was found.
func (c *Catalog) Update(originalProduct, product, area string) bool {
	for i := range c.entries {
		if c.entries[i].Product == originalProduct {
			c.entries[i].Product = strings.TrimSpace(product)
			c.entries[i].Area = strings.TrimSpace(area)
			return true
		}
	}
	return false
}

// RemoveDuplicates drops rows that share a normalized product name,
// keeping the last occurrence (the most recent edit). It returns how many
// rows were removed.
func (c *Catalog) RemoveDuplicates() int {
	seen := make(map[string]int) // normalized name -> index of last occurrence
	for i, e := range c.entries {
		seen[Normalize(e.Product)] = i
	}
	kept := c.entries[:0]
	removed := 0
	for i, e := range c.entries {
		if seen[Normalize(e.Product)] == i {
			kept = append(kept, e)
		} else {
			removed++
		}
	}
	c.entries = kept
	return removed
}

// SortByProduct orders the catalog alphabetically, case-insensitively.
func (c *Catalog) SortByProduct() {
	sort.SliceStable(c.entries, func(i, j int) bool {
		return strings.ToLower(c.entries[i].Product) < strings.ToLower(c.entries[j].Product)
	})
}

// Filter returns rows whose product contains productQuery and whose area
// contains areaQuery, both case-insensitive. Empty queries match all rows.
func (c *Catalog) Filter(productQuery, areaQuery string) []Entry {
	productQuery = Normalize(productQuery)
	areaQuery = Normalize(areaQuery)
	var out []Entry
	for _, e := range c.entries {
		if productQuery != "" && !strings.Contains(strings.ToLower(e.Product), productQuery) {
			continue
		}
		if areaQuery != "" && !strings.Contains(strings.ToLower(e.Area), areaQuery) {
			continue
		}
		out = append(out, e)
	}
	return out
}
