// internal/manifest/render.go
//
// Renders the aggregated sections as the printed manifest: one heading
// and one Product/Size/Quantity table per area, letter pages, prepended
// later to the sorted slip deck.

package manifest

import (
	"fmt"
	"strconv"

	"github.com/go-pdf/fpdf"

	"github.com/yourusername/slipdeck/internal/warehouse"
)

const (
	marginPt   = 36 // half inch
	titleColPt = 252
	sizeColPt  = 54
	qtyColPt   = 54
	rowPt      = 12
)

// Renderer writes manifest PDFs.
type Renderer struct{}

// Render writes the sections to a PDF at outPath. Rendering an empty
// section list is an error; callers skip the manifest entirely when there
// is nothing to report.
func (Renderer) Render(sections []Section, outPath string) error {
	if len(sections) == 0 {
		return fmt.Errorf("manifest: nothing to render")
	}

	doc := fpdf.New("P", "pt", "Letter", "")
	doc.SetMargins(marginPt, marginPt, marginPt)
	doc.SetAutoPageBreak(true, marginPt)
	doc.AddPage()

	for _, section := range sections {
		doc.SetFont("Helvetica", "B", 9)
		doc.CellFormat(0, 14, sectionTitle(section.Area), "", 1, "L", false, 0, "")
		doc.Ln(2)

		doc.SetFont("Helvetica", "B", 8)
		doc.SetFillColor(211, 211, 211)
		doc.CellFormat(titleColPt, rowPt, "Product Title", "1", 0, "L", true, 0, "")
		doc.CellFormat(sizeColPt, rowPt, "Size", "1", 0, "C", true, 0, "")
		doc.CellFormat(qtyColPt, rowPt, "Quantity", "1", 1, "C", true, 0, "")

		doc.SetFont("Helvetica", "", 8)
		for i, row := range section.Rows {
			if i%2 == 0 {
				doc.SetFillColor(255, 255, 255)
			} else {
				doc.SetFillColor(240, 240, 240)
			}
			doc.CellFormat(titleColPt, rowPt, row.Title, "1", 0, "L", true, 0, "")
			doc.CellFormat(sizeColPt, rowPt, row.Size, "1", 0, "C", true, 0, "")
			doc.CellFormat(qtyColPt, rowPt, strconv.Itoa(row.Quantity), "1", 1, "C", true, 0, "")
		}
		doc.Ln(8)
	}

	if err := doc.OutputFileAndClose(outPath); err != nil {
		return fmt.Errorf("manifest: write pdf: %w", err)
	}
	return nil
}

func sectionTitle(area string) string {
	if area == warehouse.AreaGarage {
		return "Garage"
	}
	return "Locker: " + area
}
