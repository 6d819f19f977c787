// internal/pipeline/plan.go
//
// The validated page plan. Output files are written only after a Plan
// exists, so a run that fails validation leaves nothing half-written.

package pipeline

import (
	"errors"
	"fmt"
)

// ErrNoPagesKept means every page of the slip deck was filtered out.
// There is nothing to sort or print, so the run aborts.
var ErrNoPagesKept = errors.New("pipeline: no pages survived filtering")

// MismatchError is a run-fatal disagreement between the two decks. It is
// never recovered per page: the decks are position-correlated, so a size
// mismatch means the operator paired the wrong files.
type MismatchError struct {
	SlipPages  int
	LabelPages int
	BadIndex   int // original index outside the label deck, or -1
}

func (e *MismatchError) Error() string {
	if e.BadIndex >= 0 {
		return fmt.Sprintf("pipeline: slip page index %d is outside the %d-page label deck", e.BadIndex, e.LabelPages)
	}
	return fmt.Sprintf("pipeline: label deck has %d pages but the slip deck has %d; the decks must match page for page", e.LabelPages, e.SlipPages)
}

// Plan is the fully validated output order for both decks.
type Plan struct {
	TotalPages int          // original, unfiltered slip page count
	Records    []PageRecord // kept pages in final output order
}

// Indices returns the original slip/label indices in output order.
func (p *Plan) Indices() []int {
	out := make([]int, len(p.Records))
	for i, r := range p.Records {
		out[i] = r.OriginalIndex
	}
	return out
}

// Labels returns the composed area labels in output order, one per page,
// ready for stamping.
func (p *Plan) Labels() []string {
	out := make([]string, len(p.Records))
	for i, r := range p.Records {
		out[i] = r.AreaLabel
	}
	return out
}

// BuildPlan validates the classified records against the label deck and
// fixes the output order. All run-fatal conditions surface here, before
// any file is touched.
func BuildPlan(records []PageRecord, totalSlipPages, labelPages int, order []string) (*Plan, error) {
	if labelPages != totalSlipPages {
		return nil, &MismatchError{SlipPages: totalSlipPages, LabelPages: labelPages, BadIndex: -1}
	}
	if len(records) == 0 {
		return nil, ErrNoPagesKept
	}
	sorted := SortRecords(records, order)
	for _, r := range sorted {
		if r.OriginalIndex < 0 || r.OriginalIndex >= labelPages {
			return nil, &MismatchError{SlipPages: totalSlipPages, LabelPages: labelPages, BadIndex: r.OriginalIndex}
		}
	}
	return &Plan{TotalPages: totalSlipPages, Records: sorted}, nil
}
