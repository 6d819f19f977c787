// internal/printer/printer.go
//
// Print submission through the system lp command. Each output document
// has its own profile: the slips go to a letter printer, the labels to a
// 4x6 thermal printer, and some printers want reverse page order because
// they stack face up.

package printer

import (
	"fmt"
	"os/exec"
	"strings"
)

// Profile describes one printer destination and its lp options.
type Profile struct {
	Name         string `yaml:"name"`
	Media        string `yaml:"media"`
	Sides        string `yaml:"sides,omitempty"`
	ScaleToFit   bool   `yaml:"scale_to_fit"`
	ReverseOrder bool   `yaml:"reverse_order"`
	Collate      bool   `yaml:"collate"`
}

// runner invokes lp; swapped out in tests.
var runner = func(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%v: %s", err, strings.TrimSpace(string(out)))
	}
	return nil
}

// Args returns the lp argument list for printing path with this profile.
func (p Profile) Args(path string) []string {
	args := []string{"-d", p.Name}
	if p.Media != "" {
		args = append(args, "-o", "media="+p.Media)
	}
	if p.ScaleToFit {
		args = append(args, "-o", "fit-to-page")
	}
	if p.Sides != "" {
		args = append(args, "-o", "sides="+p.Sides)
	}
	if p.ReverseOrder {
		args = append(args, "-o", "outputorder=reverse")
	}
	if p.Collate {
		args = append(args, "-o", "Collate=True")
	}
	args = append(args, "-o", "page-set=all", path)
	return args
}

// Submit sends the file to the profile's printer.
func Submit(path string, p Profile) error {
	if p.Name == "" {
		return fmt.Errorf("printer: no printer configured")
	}
	if err := runner("lp", p.Args(path)...); err != nil {
		return fmt.Errorf("printer: submit %s to %s: %w", path, p.Name, err)
	}
	return nil
}
