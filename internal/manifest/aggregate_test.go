package manifest

import (
	"testing"

	"github.com/yourusername/slipdeck/internal/slip"
	"github.com/yourusername/slipdeck/internal/warehouse"
)

var testOrder = []string{"A13", "D16", "B11", "garage"}

func testAreas() *warehouse.Map {
	m := warehouse.NewMap()
	m.Set("tee", "B11")
	m.Set("wool runner", "A13")
	m.Set("tree dasher", "D16")
	return m
}

func TestAggregateMergesIdenticalRows(t *testing.T) {
	pages := [][]slip.LineItem{
		{{Title: "Tee", Size: "M", Quantity: "2"}},
		{{Title: "Tee", Size: "M", Quantity: "3"}},
	}
	sections := Aggregate(pages, testAreas(), testOrder, nil)
	if len(sections) != 1 {
		t.Fatalf("expected 1 section, got %+v", sections)
	}
	if sections[0].Area != "B11" {
		t.Fatalf("expected B11 section, got %q", sections[0].Area)
	}
	rows := sections[0].Rows
	if len(rows) != 1 || rows[0].Quantity != 5 {
		t.Fatalf("expected merged quantity 5, got %+v", rows)
	}
}

func TestAggregateSectionsFollowAreaOrder(t *testing.T) {
	pages := [][]slip.LineItem{{
		{Title: "Tee", Size: "M", Quantity: "1"},
		{Title: "Wool Runner", Size: "42", Quantity: "1"},
		{Title: "Tree Dasher", Size: "41", Quantity: "1"},
	}}
	sections := Aggregate(pages, testAreas(), testOrder, nil)
	want := []string{"A13", "D16", "B11"}
	if len(sections) != len(want) {
		t.Fatalf("expected %d sections, got %+v", len(want), sections)
	}
	for i, area := range want {
		if sections[i].Area != area {
			t.Fatalf("section %d: got %q want %q", i, sections[i].Area, area)
		}
	}
}

func TestAggregateExcludesAreasOutsideOrder(t *testing.T) {
	areas := testAreas()
	areas.Set("oddball", "Z99")
	pages := [][]slip.LineItem{{
		{Title: "Oddball", Size: "M", Quantity: "1"},
		{Title: "Unlisted Product", Size: "M", Quantity: "1"}, // Unknown Area
	}}
	if sections := Aggregate(pages, areas, testOrder, nil); len(sections) != 0 {
		t.Fatalf("areas outside the sort order must not appear, got %+v", sections)
	}
}

func TestAggregateSampleRoutesToGarage(t *testing.T) {
	pages := [][]slip.LineItem{{
		{Title: "Tee Sample", Size: "Sample", Quantity: "1"},
	}}
	sections := Aggregate(pages, testAreas(), testOrder, nil)
	if len(sections) != 1 || sections[0].Area != "garage" {
		t.Fatalf("expected garage section, got %+v", sections)
	}
}

func TestAggregateDropsUnparsableQuantities(t *testing.T) {
	pages := [][]slip.LineItem{{
		{Title: "Tee", Size: "M", Quantity: "two"},
		{Title: "Tee", Size: "M", Quantity: "3"},
	}}
	sections := Aggregate(pages, testAreas(), testOrder, nil)
	if len(sections) != 1 {
		t.Fatalf("expected 1 section, got %+v", sections)
	}
	rows := sections[0].Rows
	if len(rows) != 1 || rows[0].Quantity != 3 {
		t.Fatalf("bad quantity must be dropped, not zeroed: %+v", rows)
	}
}

func TestAggregateRowOrderByTitleThenSize(t *testing.T) {
	pages := [][]slip.LineItem{{
		{Title: "tee", Size: "XL", Quantity: "1"},
		{Title: "Tee", Size: "S", Quantity: "1"},
		{Title: "Anorak", Size: "M", Quantity: "1"},
	}}
	areas := testAreas()
	areas.Set("anorak", "B11")
	sections := Aggregate(pages, areas, testOrder, nil)
	rows := sections[0].Rows
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %+v", rows)
	}
	if rows[0].Title != "Anorak" || rows[1].Size != "S" || rows[2].Size != "XL" {
		t.Fatalf("unexpected row order: %+v", rows)
	}
}

func TestSizeRank(t *testing.T) {
	cases := []struct {
		size string
		want int
	}{
		{"XS", 1},
		{"s", 2},
		{"M", 3},
		{"L", 4},
		{"XL", 5},
		{"XXL", 6},
		{"Size 2", 2},
		{"size 14", 14},
		{"42", 42},
		{" 39 ", 39},
		{"Sample", 100},
		{"mystery", 100},
	}
	for _, tc := range cases {
		if got := SizeRank(tc.size); got != tc.want {
			t.Fatalf("SizeRank(%q) = %d, want %d", tc.size, got, tc.want)
		}
	}
}
