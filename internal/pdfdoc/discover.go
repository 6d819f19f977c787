// internal/pdfdoc/discover.go
//
// Companion-label discovery: the label printer drops its PDF next to the
// packing slips within moments, so a sibling PDF with the same page count
// and a nearby modification time is almost certainly the matching deck.

package pdfdoc

import (
	"os"
	"path/filepath"
	"strings"
	"time"
)

// companionWindow bounds how far apart the two exports may be.
const companionWindow = 5 * time.Minute

// DiscoverCompanion looks for the shipping-label PDF matching a slips
// PDF: a different .pdf in the same directory, modified within five
// minutes, with the same page count. Returns "" when nothing qualifies.
func DiscoverCompanion(slipsPath string) string {
	info, err := os.Stat(slipsPath)
	if err != nil {
		return ""
	}
	slipPages, err := (Decks{}).PageCount(slipsPath)
	if err != nil {
		return ""
	}

	dir := filepath.Dir(slipsPath)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".pdf") {
			continue
		}
		candidate := filepath.Join(dir, entry.Name())
		if candidate == slipsPath {
			continue
		}
		candInfo, err := entry.Info()
		if err != nil {
			continue
		}
		gap := candInfo.ModTime().Sub(info.ModTime())
		if gap < 0 {
			gap = -gap
		}
		if gap > companionWindow {
			continue
		}
		pages, err := (Decks{}).PageCount(candidate)
		if err != nil || pages != slipPages {
			continue
		}
		return candidate
	}
	return ""
}
