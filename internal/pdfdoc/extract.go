// internal/pdfdoc/extract.go
//
// Per-page plain-text extraction. The parser upstream is line-oriented,
// so text runs are grouped into visual lines by their Y coordinate (top
// to bottom) and joined left to right. Malformed pages surface as errors
// that the classifier downgrades to an empty page.

package pdfdoc

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Runs on the same visual line rarely disagree by more than a point or
// two of baseline wobble.
const lineTolerance = 2.0

// Extractor reads page text and page counts from PDF files. It satisfies
// the pipeline's TextExtractor.
type Extractor struct{}

// PageCount returns the number of pages in a PDF.
func (Extractor) PageCount(path string) (int, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return 0, fmt.Errorf("pdfdoc: open %s: %w", path, err)
	}
	defer f.Close()
	return reader.NumPage(), nil
}

// PageText returns the plain text of one zero-based page, one visual line
// per output line.
func (Extractor) PageText(path string, page int) (text string, err error) {
	// The underlying reader panics on some malformed content streams;
	// a bad page must stay a per-page failure.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdfdoc: page %d of %s: %v", page+1, path, r)
		}
	}()

	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("pdfdoc: open %s: %w", path, err)
	}
	defer f.Close()

	if page < 0 || page >= reader.NumPage() {
		return "", fmt.Errorf("pdfdoc: page %d out of range for %s", page+1, path)
	}
	p := reader.Page(page + 1) // reader pages are 1-based
	if p.V.IsNull() {
		return "", nil
	}
	return linesFromRuns(p.Content().Text), nil
}

// linesFromRuns groups positioned text runs into lines: same-Y runs join
// left to right, lines order top to bottom. Some writers emit one run per
// glyph; adjacent spans closer than a word gap are joined without a space
// so those streams do not shred words.
func linesFromRuns(runs []pdf.Text) string {
	type line struct {
		y     float64
		spans []span
	}
	var lines []line
	for _, run := range runs {
		s := strings.TrimSpace(run.S)
		if s == "" {
			continue
		}
		sp := span{x: run.X, w: run.W, size: run.FontSize, s: s}
		placed := false
		for i := range lines {
			if diff := lines[i].y - run.Y; diff < lineTolerance && diff > -lineTolerance {
				lines[i].spans = append(lines[i].spans, sp)
				placed = true
				break
			}
		}
		if !placed {
			lines = append(lines, line{y: run.Y, spans: []span{sp}})
		}
	}

	// PDF Y grows upward; the reading order is highest Y first.
	sort.SliceStable(lines, func(i, j int) bool { return lines[i].y > lines[j].y })

	var b strings.Builder
	for i := range lines {
		spans := lines[i].spans
		sort.SliceStable(spans, func(a, c int) bool { return spans[a].x < spans[c].x })
		if i > 0 {
			b.WriteByte('\n')
		}
		for j, sp := range spans {
			if j > 0 && spans[j-1].gapTo(sp) > spans[j-1].wordGap(sp) {
				b.WriteByte(' ')
			}
			b.WriteString(sp.s)
		}
	}
	return b.String()
}

// span is one positioned text run within a line.
type span struct {
	x, w, size float64
	s          string
}

// gapTo measures the horizontal whitespace between this span's right
// edge and the next span's left edge.
func (sp span) gapTo(next span) float64 {
	return next.x - (sp.x + sp.w)
}

// wordGap is the smallest gap treated as a word boundary. Letter spacing
// within a word stays well under a fifth of the glyph size, while a space
// advances a quarter em or more. Spans without width information always
// separate with a space.
func (sp span) wordGap(next span) float64 {
	if sp.w == 0 {
		return 0
	}
	size := next.size
	if size == 0 {
		size = sp.size
	}
	if size == 0 {
		return 1.0
	}
	return 0.2 * size
}
