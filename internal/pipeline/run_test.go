package pipeline

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/yourusername/slipdeck/internal/manifest"
)

// fakeDecks records what the run asked it to write.
type fakeDecks struct {
	slipCalls  int
	labelCalls int
	slipPages  []int
	labelPages []int
	labels     []string
	manifest   string
}

func (f *fakeDecks) WriteSlipDeck(slipsPath string, pages []int, labels []string, manifestPDF, outPath string) error {
	f.slipCalls++
	f.slipPages = append([]int(nil), pages...)
	f.labels = append([]string(nil), labels...)
	f.manifest = manifestPDF
	return os.WriteFile(outPath, []byte("slips"), 0o644)
}

func (f *fakeDecks) WriteLabelDeck(labelsPath string, pages []int, outPath string) error {
	f.labelCalls++
	f.labelPages = append([]int(nil), pages...)
	return os.WriteFile(outPath, []byte("labels"), 0o644)
}

type fakeRenderer struct {
	called   bool
	sections []manifest.Section
}

func (f *fakeRenderer) Render(sections []manifest.Section, outPath string) error {
	f.called = true
	f.sections = sections
	return os.WriteFile(outPath, []byte("manifest"), 0o644)
}

func labelDeck(n int) []string {
	pages := make([]string, n)
	for i := range pages {
		pages[i] = "label"
	}
	return pages
}

func testRunOptions(t *testing.T, extract TextExtractor, decks DeckWriter, renderer ManifestRenderer) RunOptions {
	t.Helper()
	return RunOptions{
		SlipsPath:     "slips.pdf",
		LabelsPath:    "labels.pdf",
		OutDir:        t.TempDir(),
		SlipsOutName:  "sorted_packing_slips.pdf",
		LabelsOutName: "sorted_shipping_labels.pdf",
		AreaSortOrder: testOrder,
		ParserConfig:  testParserConfig(),
		Areas:         testAreas(),
		Extractor:     extract,
		Decks:         decks,
		Manifest:      renderer,
	}
}

func TestRunAppliesOnePermutationToBothDecks(t *testing.T) {
	extract := &fakeExtractor{decks: map[string][]string{
		"slips.pdf": {
			slipPage("Wool Runner", "M 1 of 1"),  // B11
			slipPage("Tree Dasher", "41 1 of 1"), // A13
			"blank page",                         // dropped
		},
		"labels.pdf": labelDeck(3),
	}}
	decks := &fakeDecks{}
	renderer := &fakeRenderer{}
	result, err := Run(testRunOptions(t, extract, decks, renderer))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.TotalPages != 3 || result.KeptPages != 2 {
		t.Fatalf("unexpected result: %+v", result)
	}
	want := []int{1, 0} // A13 sorts before B11
	if len(decks.slipPages) != 2 || decks.slipPages[0] != want[0] || decks.slipPages[1] != want[1] {
		t.Fatalf("slip order = %v, want %v", decks.slipPages, want)
	}
	for i := range want {
		if decks.labelPages[i] != decks.slipPages[i] {
			t.Fatalf("decks diverged at position %d: slips=%v labels=%v", i, decks.slipPages, decks.labelPages)
		}
	}
	if decks.labels[0] != "A13" || decks.labels[1] != "B11" {
		t.Fatalf("stamp labels out of order: %v", decks.labels)
	}
	if decks.manifest == "" {
		t.Fatal("expected a manifest PDF path")
	}
	if len(renderer.sections) == 0 {
		t.Fatal("expected rendered manifest sections")
	}
	if _, err := os.Stat(result.SlipsOut); err != nil {
		t.Fatalf("slips output missing: %v", err)
	}
	if _, err := os.Stat(result.LabelsOut); err != nil {
		t.Fatalf("labels output missing: %v", err)
	}
}

func TestRunAbortsBeforeAnyOutputOnMismatch(t *testing.T) {
	extract := &fakeExtractor{decks: map[string][]string{
		"slips.pdf":  {slipPage("Wool Runner", "M 1 of 1")},
		"labels.pdf": labelDeck(2), // wrong count
	}}
	decks := &fakeDecks{}
	opts := testRunOptions(t, extract, decks, &fakeRenderer{})
	_, err := Run(opts)
	var mismatch *MismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("expected MismatchError, got %v", err)
	}
	if decks.slipCalls != 0 || decks.labelCalls != 0 {
		t.Fatal("no deck may be written after a fatal mismatch")
	}
	if _, err := os.Stat(filepath.Join(opts.OutDir, opts.SlipsOutName)); !os.IsNotExist(err) {
		t.Fatal("output file must not exist after an aborted run")
	}
}

func TestRunAbortsWhenNothingSurvives(t *testing.T) {
	extract := &fakeExtractor{decks: map[string][]string{
		"slips.pdf":  {"nothing useful"},
		"labels.pdf": labelDeck(1),
	}}
	decks := &fakeDecks{}
	_, err := Run(testRunOptions(t, extract, decks, &fakeRenderer{}))
	if !errors.Is(err, ErrNoPagesKept) {
		t.Fatalf("expected ErrNoPagesKept, got %v", err)
	}
	if decks.slipCalls != 0 {
		t.Fatal("no writes after an aborted run")
	}
}

func TestRunSkipsManifestWhenNoSectionQualifies(t *testing.T) {
	// A product stored in an area outside the sort order keeps its page
	// but contributes to no manifest section.
	extract := &fakeExtractor{decks: map[string][]string{
		"slips.pdf":  {slipPage("Oddball", "M 1 of 1")},
		"labels.pdf": labelDeck(1),
	}}
	decks := &fakeDecks{}
	renderer := &fakeRenderer{}
	opts := testRunOptions(t, extract, decks, renderer)
	opts.Areas.Set("oddball", "Z99")
	result, err := Run(opts)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.SectionsOut != 0 {
		t.Fatalf("expected no manifest sections, got %d", result.SectionsOut)
	}
	if renderer.called {
		t.Fatal("renderer must not run for an empty manifest")
	}
	if decks.manifest != "" {
		t.Fatalf("expected empty manifest path, got %q", decks.manifest)
	}
	if decks.slipCalls != 1 || decks.labelCalls != 1 {
		t.Fatal("decks must still be written without a manifest")
	}
}
