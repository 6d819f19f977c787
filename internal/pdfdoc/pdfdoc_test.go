package pdfdoc

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-pdf/fpdf"
	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// writeTestPDF builds a small PDF with one text line per page.
func writeTestPDF(t *testing.T, path string, pages ...[]string) {
	t.Helper()
	doc := fpdf.New("P", "pt", "Letter", "")
	for _, lines := range pages {
		doc.AddPage()
		doc.SetFont("Helvetica", "", 12)
		for _, line := range lines {
			doc.CellFormat(0, 16, line, "", 1, "L", false, 0, "")
		}
	}
	if err := doc.OutputFileAndClose(path); err != nil {
		t.Fatalf("write test pdf: %v", err)
	}
}

func TestPageCount(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deck.pdf")
	writeTestPDF(t, path, []string{"one"}, []string{"two"}, []string{"three"})
	n, err := (Decks{}).PageCount(path)
	if err != nil {
		t.Fatalf("PageCount: %v", err)
	}
	if n != 3 {
		t.Fatalf("expected 3 pages, got %d", n)
	}
	// Both PDF backends must agree on page counts.
	n, err = (Extractor{}).PageCount(path)
	if err != nil {
		t.Fatalf("Extractor PageCount: %v", err)
	}
	if n != 3 {
		t.Fatalf("extractor expected 3 pages, got %d", n)
	}
}

func TestPageTextReadsLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "slips.pdf")
	writeTestPDF(t, path, []string{"ITEMS", "Wool Runner", "M 2 of 3"})
	text, err := (Extractor{}).PageText(path, 0)
	if err != nil {
		t.Fatalf("PageText: %v", err)
	}
	for _, want := range []string{"ITEMS", "Wool Runner", "M 2 of 3"} {
		if !strings.Contains(text, want) {
			t.Fatalf("text missing %q:\n%s", want, text)
		}
	}
	// Lines must come out in top-to-bottom order so the parser can walk
	// the items section.
	if strings.Index(text, "ITEMS") > strings.Index(text, "Wool Runner") {
		t.Fatalf("lines out of order:\n%s", text)
	}
}

func TestPageTextOutOfRange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "slips.pdf")
	writeTestPDF(t, path, []string{"only page"})
	if _, err := (Extractor{}).PageText(path, 5); err == nil {
		t.Fatal("expected out-of-range error")
	}
}

func TestWriteLabelDeckReorders(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "labels.pdf")
	out := filepath.Join(dir, "sorted.pdf")
	writeTestPDF(t, in, []string{"label zero"}, []string{"label one"}, []string{"label two"})

	if err := (Decks{}).WriteLabelDeck(in, []int{1, 0}, out); err != nil {
		t.Fatalf("WriteLabelDeck: %v", err)
	}
	n, err := (Decks{}).PageCount(out)
	if err != nil {
		t.Fatalf("PageCount: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 pages, got %d", n)
	}
	text, err := (Extractor{}).PageText(out, 0)
	if err != nil {
		t.Fatalf("PageText: %v", err)
	}
	if !strings.Contains(flatten(text), "labelone") {
		t.Fatalf("expected original page 1 first, got %q", text)
	}
}

func TestWriteSlipDeckStampsAndPrepends(t *testing.T) {
	dir := t.TempDir()
	slips := filepath.Join(dir, "slips.pdf")
	manifestPDF := filepath.Join(dir, "manifest.pdf")
	out := filepath.Join(dir, "sorted.pdf")
	writeTestPDF(t, slips, []string{"page zero"}, []string{"page one"})
	writeTestPDF(t, manifestPDF, []string{"summary"})

	err := (Decks{}).WriteSlipDeck(slips, []int{1, 0}, []string{"A13", "B11"}, manifestPDF, out)
	if err != nil {
		t.Fatalf("WriteSlipDeck: %v", err)
	}
	n, err := (Decks{}).PageCount(out)
	if err != nil {
		t.Fatalf("PageCount: %v", err)
	}
	if n != 3 {
		t.Fatalf("expected manifest + 2 pages, got %d", n)
	}
	// The stamps land in content streams the plain-text extractor does
	// not traverse, so look for them in the decoded output streams.
	for _, stamp := range []string{"A13", "B11"} {
		if !decodedStreamsMention(t, out, stamp) {
			t.Fatalf("stamp %q missing from output streams", stamp)
		}
	}
	text, err := (Extractor{}).PageText(out, 1)
	if err != nil {
		t.Fatalf("PageText: %v", err)
	}
	if !strings.Contains(flatten(text), "pageone") {
		t.Fatalf("first sorted page must be original page 1, got %q", text)
	}
}

// flatten removes spaces so content assertions hold even when a rewriter
// has split the text into per-glyph runs.
func flatten(text string) string {
	return strings.ReplaceAll(text, " ", "")
}

// decodedStreamsMention reports whether any decodable stream object of
// the PDF contains needle.
func decodedStreamsMention(t *testing.T, path, needle string) bool {
	t.Helper()
	ctx, err := api.ReadContextFile(path)
	if err != nil {
		t.Fatalf("read context of %s: %v", path, err)
	}
	for _, entry := range ctx.Table {
		if entry == nil || entry.Free || entry.Object == nil {
			continue
		}
		sd, ok := entry.Object.(types.StreamDict)
		if !ok {
			continue
		}
		if err := sd.Decode(); err != nil {
			continue // image or font stream with an unsupported filter
		}
		if bytes.Contains(sd.Content, []byte(needle)) {
			return true
		}
	}
	return false
}

func TestWriteSlipDeckLabelCountMismatch(t *testing.T) {
	dir := t.TempDir()
	slips := filepath.Join(dir, "slips.pdf")
	writeTestPDF(t, slips, []string{"page zero"})
	err := (Decks{}).WriteSlipDeck(slips, []int{0}, nil, "", filepath.Join(dir, "out.pdf"))
	if err == nil {
		t.Fatal("expected label/page count mismatch error")
	}
}

func TestDiscoverCompanion(t *testing.T) {
	dir := t.TempDir()
	slips := filepath.Join(dir, "slips.pdf")
	labels := filepath.Join(dir, "labels.pdf")
	odd := filepath.Join(dir, "odd.pdf")
	writeTestPDF(t, slips, []string{"s1"}, []string{"s2"})
	writeTestPDF(t, labels, []string{"l1"}, []string{"l2"})
	writeTestPDF(t, odd, []string{"only one page"})

	if got := DiscoverCompanion(slips); got != labels {
		t.Fatalf("expected %q, got %q", labels, got)
	}
	if got := DiscoverCompanion(filepath.Join(dir, "missing.pdf")); got != "" {
		t.Fatalf("expected no companion for missing file, got %q", got)
	}
}

func TestLinesFromRunsGroupsByBaseline(t *testing.T) {
	runs := []pdf.Text{
		{S: "of 3", X: 120, Y: 700},
		{S: "M 2", X: 80, Y: 700.5},
		{S: "Wool Runner", X: 80, Y: 716},
	}
	got := linesFromRuns(runs)
	want := "Wool Runner\nM 2 of 3"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestLinesFromRunsJoinsPerGlyphStreams(t *testing.T) {
	// Rewritten content streams can carry one run per glyph; only the
	// wider word gap may become a space.
	var runs []pdf.Text
	x := 80.0
	emit := func(word string) {
		for _, ch := range word {
			runs = append(runs, pdf.Text{S: string(ch), X: x, Y: 700, W: 6, FontSize: 11})
			x += 6
		}
	}
	emit("page")
	x += 3.5 // space advance
	emit("one")

	got := linesFromRuns(runs)
	if got != "page one" {
		t.Fatalf("got %q want %q", got, "page one")
	}
}
