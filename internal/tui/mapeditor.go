// internal/tui/mapeditor.go
//
// Warehouse map editor screen. Presents the product → area catalog as a
// table with incremental search, row editing, duplicate cleanup and an
// explicit save. Edits stay in memory until the operator presses "s".

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/yourusername/slipdeck/internal/warehouse"
)

type editorMode int

const (
	modeBrowse editorMode = iota // table navigation
	modeSearch                   // typing into the filter inputs
	modeEntry                    // typing a new or edited row
)

type mapEditor struct {
	path    string
	catalog *warehouse.Catalog

	table        table.Model
	productInput textinput.Model
	areaInput    textinput.Model

	mode    editorMode
	editing bool   // modeEntry only: editing the selected row, not adding
	editKey string // original product name of the row being edited

	searchProduct string
	searchArea    string

	visible []warehouse.Entry
	dirty   bool
	status  string
}

func newMapEditor(path string) (*mapEditor, error) {
	catalog, err := warehouse.LoadCatalog(path)
	if err != nil {
		return nil, err
	}
	catalog.SortByProduct()

	columns := []table.Column{
		{Title: "Product", Width: 48},
		{Title: "Area", Width: 16},
	}
	tbl := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(12),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Bold(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(lipgloss.Color("#444444"))
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(lipgloss.Color("#5B8DEF"))
	tbl.SetStyles(styles)

	product := textinput.New()
	product.Prompt = "> "
	product.Placeholder = "product"
	product.CharLimit = 256
	product.Width = 48
	area := textinput.New()
	area.Prompt = "> "
	area.Placeholder = "area"
	area.CharLimit = 32
	area.Width = 16

	ed := &mapEditor{
		path:         path,
		catalog:      catalog,
		table:        tbl,
		productInput: product,
		areaInput:    area,
	}
	ed.refreshRows()
	return ed, nil
}

func (e *mapEditor) setSize(width, height int) {
	if height > 18 {
		e.table.SetHeight(height - 14)
	}
	if width > 80 {
		e.table.SetWidth(width - 8)
	}
}

// refreshRows rebuilds the table from the catalog and the active filter.
func (e *mapEditor) refreshRows() {
	e.visible = e.catalog.Filter(e.searchProduct, e.searchArea)
	rows := make([]table.Row, len(e.visible))
	for i, entry := range e.visible {
		rows[i] = table.Row{entry.Product, entry.Area}
	}
	e.table.SetRows(rows)
	if cursor := e.table.Cursor(); cursor >= len(rows) && len(rows) > 0 {
		e.table.SetCursor(len(rows) - 1)
	}
}

func (e *mapEditor) selectedEntry() (warehouse.Entry, bool) {
	idx := e.table.Cursor()
	if idx < 0 || idx >= len(e.visible) {
		return warehouse.Entry{}, false
	}
	return e.visible[idx], true
}

// Update handles one message; key routing depends on the current mode.
func (e *mapEditor) Update(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		e.table, cmd = e.table.Update(msg)
		return cmd
	}

	switch e.mode {
	case modeBrowse:
		return e.updateBrowse(keyMsg)
	case modeSearch:
		return e.updateSearch(keyMsg)
	case modeEntry:
		return e.updateEntry(keyMsg)
	}
	return nil
}

func (e *mapEditor) updateBrowse(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "/":
		e.mode = modeSearch
		e.productInput.SetValue(e.searchProduct)
		e.areaInput.SetValue(e.searchArea)
		e.areaInput.Blur()
		e.productInput.Focus()
		e.status = "Filter: type queries, Enter to apply, Esc to clear"
		return textinput.Blink

	case "a":
		e.mode = modeEntry
		e.editing = false
		e.productInput.SetValue("")
		e.areaInput.SetValue("")
		e.areaInput.Blur()
		e.productInput.Focus()
		e.status = "New entry: product, Tab, area, then Enter"
		return textinput.Blink

	case "e":
		entry, ok := e.selectedEntry()
		if !ok {
			e.status = "Nothing selected"
			return nil
		}
		e.mode = modeEntry
		e.editing = true
		e.editKey = entry.Product
		e.productInput.SetValue(entry.Product)
		e.areaInput.SetValue(entry.Area)
		e.areaInput.Blur()
		e.productInput.Focus()
		e.status = fmt.Sprintf("Editing %q", entry.Product)
		return textinput.Blink

	case "x":
		removed := e.catalog.RemoveDuplicates()
		if removed > 0 {
			e.dirty = true
			e.refreshRows()
		}
		e.status = fmt.Sprintf("Removed %d duplicate(s)", removed)
		return nil

	case "s":
		if err := e.catalog.Save(e.path); err != nil {
			e.status = fmt.Sprintf("Save failed: %v", err)
			return nil
		}
		e.dirty = false
		e.status = fmt.Sprintf("Saved %d entries", e.catalog.Len())
		return nil
	}

	var cmd tea.Cmd
	e.table, cmd = e.table.Update(msg)
	return cmd
}

func (e *mapEditor) updateSearch(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		e.searchProduct = ""
		e.searchArea = ""
		e.mode = modeBrowse
		e.blurInputs()
		e.refreshRows()
		e.status = "Filter cleared"
		return nil
	case "enter":
		e.searchProduct = strings.TrimSpace(e.productInput.Value())
		e.searchArea = strings.TrimSpace(e.areaInput.Value())
		e.mode = modeBrowse
		e.blurInputs()
		e.refreshRows()
		e.status = fmt.Sprintf("%d match(es)", len(e.visible))
		return nil
	case "tab", "shift+tab":
		e.toggleInputFocus()
		return nil
	}
	return e.updateFocusedInput(msg)
}

func (e *mapEditor) updateEntry(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		e.mode = modeBrowse
		e.blurInputs()
		e.status = "Edit cancelled"
		return nil
	case "tab", "shift+tab":
		e.toggleInputFocus()
		return nil
	case "enter":
		product := strings.TrimSpace(e.productInput.Value())
		area := strings.TrimSpace(e.areaInput.Value())
		if product == "" || area == "" {
			e.status = "Both product and area are required"
			return nil
		}
		if e.editing {
			if !e.catalog.Update(e.editKey, product, area) {
				e.status = fmt.Sprintf("Row %q no longer exists", e.editKey)
				e.mode = modeBrowse
				e.blurInputs()
				return nil
			}
			e.status = fmt.Sprintf("Updated %q → %s", product, area)
		} else {
			if updated := e.catalog.Add(product, area); updated {
				e.status = fmt.Sprintf("Replaced area for %q → %s", product, area)
			} else {
				e.status = fmt.Sprintf("Added %q → %s", product, area)
			}
		}
		e.dirty = true
		e.mode = modeBrowse
		e.blurInputs()
		e.refreshRows()
		return nil
	}
	return e.updateFocusedInput(msg)
}

func (e *mapEditor) toggleInputFocus() {
	if e.productInput.Focused() {
		e.productInput.Blur()
		e.areaInput.Focus()
	} else {
		e.areaInput.Blur()
		e.productInput.Focus()
	}
}

func (e *mapEditor) blurInputs() {
	e.productInput.Blur()
	e.areaInput.Blur()
}

func (e *mapEditor) updateFocusedInput(msg tea.KeyMsg) tea.Cmd {
	var cmd tea.Cmd
	if e.productInput.Focused() {
		e.productInput, cmd = e.productInput.Update(msg)
	} else {
		e.areaInput, cmd = e.areaInput.Update(msg)
	}
	return cmd
}

func (e *mapEditor) View() string {
	title := fmt.Sprintf("Warehouse Map · %d entries", e.catalog.Len())
	if e.dirty {
		title += " · unsaved changes"
	}
	head := lipgloss.NewStyle().Bold(true).Render(title)

	sections := []string{head, e.table.View()}
	if e.mode == modeSearch || e.mode == modeEntry {
		form := lipgloss.JoinHorizontal(lipgloss.Top,
			e.productInput.View(), "  ", e.areaInput.View())
		sections = append(sections, form)
	}
	hint := "↑↓ move    / filter    a add    e edit    x dedupe    s save    Esc back"
	sections = append(sections,
		lipgloss.NewStyle().Foreground(lipgloss.Color("#AAAAAA")).Render(hint))
	if e.status != "" {
		sections = append(sections, e.status)
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
