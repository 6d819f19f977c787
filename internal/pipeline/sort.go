// internal/pipeline/sort.go
//
// The multi-key sort engine. Pages order by (area rank, primary product
// title); the same permutation later drives the shipping-label deck, so
// stability here is a correctness property, not a nicety.

package pipeline

import (
	"sort"
	"strings"
)

// PrimaryArea returns the first comma-separated token of an area label.
// A page spanning several areas sorts by its first listed area only.
func PrimaryArea(label string) string {
	return strings.TrimSpace(strings.Split(label, ",")[0])
}

// AreaRank maps an area label to its position in the configured sort
// order. Areas absent from the order sort after every listed area and
// keep their relative input order among themselves.
func AreaRank(label string, order []string) int {
	primary := PrimaryArea(label)
	for i, area := range order {
		if area == primary {
			return i
		}
	}
	return len(order)
}

// SortRecords returns the records in output order: stable sort by area
// rank, then primary product title. The input slice is left untouched.
func SortRecords(records []PageRecord, order []string) []PageRecord {
	sorted := make([]PageRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		ri, rj := AreaRank(sorted[i].AreaLabel, order), AreaRank(sorted[j].AreaLabel, order)
		if ri != rj {
			return ri < rj
		}
		return sorted[i].PrimaryProduct < sorted[j].PrimaryProduct
	})
	return sorted
}
