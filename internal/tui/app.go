// internal/tui/app.go
//
// This is the main TUI (Terminal User Interface) for slipdeck.
// It uses bubbletea, which follows The Elm Architecture:
//
// 1. Model: Your application state
// 2. Update: A function that updates state based on messages
// 3. View: A function that renders state to a string
//
// The flow is: User Input -> Message -> Update -> New Model -> View -> Screen

package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/yourusername/slipdeck/internal/config"
	"github.com/yourusername/slipdeck/internal/logbook"
	"github.com/yourusername/slipdeck/internal/manifest"
	"github.com/yourusername/slipdeck/internal/pdfdoc"
	"github.com/yourusername/slipdeck/internal/pipeline"
	"github.com/yourusername/slipdeck/internal/printer"
	"github.com/yourusername/slipdeck/internal/warehouse"
)

// appState represents which "screen" we're on
type appState int

const (
	stateMainMenu    appState = iota // Main menu with "Process Decks", etc.
	stateProcessForm                 // Path entry before a run
	stateRunning                     // A batch run is in flight or just finished
	stateMapEditor                   // Warehouse map table editor
)

// PipelineRunner executes one batch run. Tests swap it for a stub so the
// TUI can be driven without real PDFs.
type PipelineRunner func(pipeline.RunOptions) (*pipeline.RunResult, error)

// CompanionFinder locates the shipping-label deck that pairs with a
// packing-slip deck. The default scans the slip deck's directory.
type CompanionFinder func(slipsPath string) string

// AppOption customizes App construction for tests and alternate runtimes.
type AppOption func(*App)

// WithPipelineRunner overrides the batch runner used by the TUI.
func WithPipelineRunner(runner PipelineRunner) AppOption {
	return func(a *App) {
		if runner != nil {
			a.runner = runner
		}
	}
}

// WithCompanionFinder overrides companion-deck discovery.
func WithCompanionFinder(finder CompanionFinder) AppOption {
	return func(a *App) {
		if finder != nil {
			a.findCompanion = finder
		}
	}
}

// WithPrintSubmitter overrides lp submission for tests.
func WithPrintSubmitter(submit func(path string, p printer.Profile) error) AppOption {
	return func(a *App) {
		if submit != nil {
			a.submit = submit
		}
	}
}

// runFinishedMsg is delivered when a batch run's command completes.
type runFinishedMsg struct {
	result *pipeline.RunResult
	err    error
}

// printFinishedMsg is delivered after the finished documents were offered
// to their printers.
type printFinishedMsg struct {
	sent   int
	failed int
}

// Field order on the process form.
const (
	fieldSlips = iota
	fieldLabels
	fieldOutDir
	fieldCount
)

// processForm collects the three paths a run needs.
type processForm struct {
	inputs [fieldCount]textinput.Model
	focus  int
}

// App is the main application model. In bubbletea, this holds ALL your state.
type App struct {
	state   appState
	config  *config.Config
	logbook *logbook.Logbook

	runner        PipelineRunner
	findCompanion CompanionFinder
	submit        func(path string, p printer.Profile) error

	// UI components
	mainMenu  list.Model
	form      processForm
	editor    *mapEditor
	statusMsg string

	// Run screen data
	runInFlight bool
	runResult   *pipeline.RunResult
	runErr      error

	// Window size (we get this from bubbletea)
	width  int
	height int
}

// menuItem implements list.Item interface for our menu items
type menuItem struct {
	title string
	desc  string
}

func (i menuItem) Title() string       { return i.title }
func (i menuItem) Description() string { return i.desc }
func (i menuItem) FilterValue() string { return i.title }

// NewApp creates a new App instance rooted at baseDir (normally the
// operator's home directory).
func NewApp(baseDir string, opts ...AppOption) (*App, error) {
	if err := config.InitDir(baseDir); err != nil {
		return nil, err
	}
	cfg, err := config.Load(baseDir)
	if err != nil {
		return nil, err
	}
	lb, err := logbook.New(cfg.LogPath(), cfg.Settings.VerboseLog)
	if err == nil {
		lb.Info("Session opened · map: %s", cfg.MapPath())
	}

	mainMenu := list.New(buildMainMenu(), list.NewDefaultDelegate(), 0, 0)
	mainMenu.Title = "▤ SLIPDECK"
	mainMenu.SetShowStatusBar(false)
	mainMenu.SetFilteringEnabled(false)

	app := &App{
		state:         stateMainMenu,
		config:        cfg,
		logbook:       lb,
		runner:        pipeline.Run,
		findCompanion: pdfdoc.DiscoverCompanion,
		submit:        printer.Submit,
		mainMenu:      mainMenu,
		form:          newProcessForm(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(app)
		}
	}
	return app, nil
}

// buildMainMenu creates the main menu items
func buildMainMenu() []list.Item {
	return []list.Item{
		menuItem{title: "Process Decks", desc: "Sort a packing-slip run and its shipping labels"},
		menuItem{title: "Edit Warehouse Map", desc: "Browse and update product → area assignments"},
		menuItem{title: "Exit", desc: "Quit slipdeck"},
	}
}

func newProcessForm() processForm {
	var f processForm
	labels := [fieldCount]string{"Packing slips PDF", "Shipping labels PDF", "Output folder"}
	for i := range f.inputs {
		ti := textinput.New()
		ti.Prompt = "> "
		ti.Placeholder = labels[i]
		ti.CharLimit = 512
		ti.Width = 60
		f.inputs[i] = ti
	}
	f.inputs[fieldSlips].Focus()
	return f
}

func (a *App) logInfo(format string, args ...any) {
	if a.logbook == nil {
		return
	}
	a.logbook.Info(format, args...)
}

func (a *App) logWarn(format string, args ...any) {
	if a.logbook == nil {
		return
	}
	a.logbook.Warn(format, args...)
}

func (a *App) logError(format string, args ...any) {
	if a.logbook == nil {
		return
	}
	a.logbook.Error(format, args...)
}

// Init is called once when the program starts.
func (a *App) Init() tea.Cmd {
	return textinput.Blink
}

// Update is called when a message is received.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.mainMenu.SetSize(max(0, msg.Width-6), max(0, msg.Height-10))
		if a.editor != nil {
			a.editor.setSize(msg.Width, msg.Height)
		}
		return a, nil

	case runFinishedMsg:
		a.runInFlight = false
		a.runResult = msg.result
		a.runErr = msg.err
		if msg.err != nil {
			a.statusMsg = fmt.Sprintf("Run failed: %v", msg.err)
			a.logError("Run failed: %v", msg.err)
			return a, nil
		}
		a.statusMsg = "Run complete"
		if msg.result != nil {
			return a, a.printCmd(msg.result)
		}
		return a, nil

	case printFinishedMsg:
		switch {
		case msg.failed > 0:
			a.statusMsg = fmt.Sprintf("Run complete · %d print job(s) failed, see log", msg.failed)
		case msg.sent > 0:
			a.statusMsg = fmt.Sprintf("Run complete · %d document(s) queued to print", msg.sent)
		}
		return a, nil

	case tea.KeyMsg:
		key := msg.String()
		switch key {
		case "ctrl+c":
			return a, tea.Quit
		case "q":
			if a.state == stateMainMenu {
				return a, tea.Quit
			}
		case "esc":
			if a.state == stateRunning && a.runInFlight {
				// The run is synchronous once started; do not abandon it.
				return a, nil
			}
			if a.state == stateMapEditor && a.editor != nil && a.editor.mode != modeBrowse {
				// Esc inside a search or entry cancels that mode only.
				return a, a.editor.Update(msg)
			}
			if a.state != stateMainMenu {
				return a.returnToMainMenu()
			}
		}
		switch a.state {
		case stateMainMenu:
			if key == "enter" {
				return a.handleMainMenuSelection()
			}
		case stateProcessForm:
			return a.updateProcessForm(msg)
		case stateRunning:
			if !a.runInFlight && (key == "enter" || key == " ") {
				return a.returnToMainMenu()
			}
			return a, nil
		case stateMapEditor:
			if a.editor != nil {
				return a, a.editor.Update(msg)
			}
		}
	}

	var cmds []tea.Cmd
	switch a.state {
	case stateMainMenu:
		var menuCmd tea.Cmd
		a.mainMenu, menuCmd = a.mainMenu.Update(msg)
		if menuCmd != nil {
			cmds = append(cmds, menuCmd)
		}
	case stateProcessForm:
		var inputCmd tea.Cmd
		a.form.inputs[a.form.focus], inputCmd = a.form.inputs[a.form.focus].Update(msg)
		if inputCmd != nil {
			cmds = append(cmds, inputCmd)
		}
	case stateMapEditor:
		if a.editor != nil {
			if cmd := a.editor.Update(msg); cmd != nil {
				cmds = append(cmds, cmd)
			}
		}
	}
	return a, tea.Batch(cmds...)
}

// handleMainMenuSelection processes menu item selection
func (a *App) handleMainMenuSelection() (tea.Model, tea.Cmd) {
	item, ok := a.mainMenu.SelectedItem().(menuItem)
	if !ok {
		return a, nil
	}

	switch item.title {
	case "Process Decks":
		a.logInfo("Menu · Process Decks selected")
		a.state = stateProcessForm
		a.form = newProcessForm()
		a.statusMsg = "Enter the deck paths, then press Enter on the last field"
		return a, textinput.Blink

	case "Edit Warehouse Map":
		a.logInfo("Menu · Edit Warehouse Map selected")
		editor, err := newMapEditor(a.config.MapPath())
		if err != nil {
			a.statusMsg = fmt.Sprintf("Cannot open warehouse map: %v", err)
			a.logError("Open warehouse map: %v", err)
			return a, nil
		}
		a.editor = editor
		if a.width > 0 {
			a.editor.setSize(a.width, a.height)
		}
		a.state = stateMapEditor
		a.statusMsg = ""
		return a, nil

	case "Exit":
		a.logInfo("Menu · Exit selected")
		return a, tea.Quit
	}
	return a, nil
}

// updateProcessForm drives the three-field path form. Tab/enter advance;
// enter on the last field launches the run.
func (a *App) updateProcessForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "down":
		a.advanceFormFocus(1)
		return a, nil
	case "shift+tab", "up":
		a.advanceFormFocus(-1)
		return a, nil
	case "enter":
		if a.form.focus < fieldCount-1 {
			a.advanceFormFocus(1)
			return a, nil
		}
		return a.startRun()
	}
	var cmd tea.Cmd
	a.form.inputs[a.form.focus], cmd = a.form.inputs[a.form.focus].Update(msg)
	return a, cmd
}

func (a *App) advanceFormFocus(delta int) {
	a.form.inputs[a.form.focus].Blur()
	a.form.focus = (a.form.focus + delta + fieldCount) % fieldCount

	// Leaving the slips field: offer the companion labels deck and a
	// default output folder if the operator has not typed them yet.
	slips := strings.TrimSpace(a.form.inputs[fieldSlips].Value())
	if slips != "" {
		if a.form.inputs[fieldLabels].Value() == "" && a.findCompanion != nil {
			if companion := a.findCompanion(slips); companion != "" {
				a.form.inputs[fieldLabels].SetValue(companion)
				a.statusMsg = fmt.Sprintf("Found companion labels: %s", filepath.Base(companion))
				a.logInfo("Companion labels discovered: %s", companion)
			}
		}
		if a.form.inputs[fieldOutDir].Value() == "" {
			a.form.inputs[fieldOutDir].SetValue(filepath.Dir(slips))
		}
	}
	a.form.inputs[a.form.focus].Focus()
}

// startRun validates the form and fires the batch command.
func (a *App) startRun() (tea.Model, tea.Cmd) {
	slips := strings.TrimSpace(a.form.inputs[fieldSlips].Value())
	labels := strings.TrimSpace(a.form.inputs[fieldLabels].Value())
	outDir := strings.TrimSpace(a.form.inputs[fieldOutDir].Value())
	if slips == "" || labels == "" {
		a.statusMsg = "Both PDF paths are required"
		return a, nil
	}
	if outDir == "" {
		outDir = filepath.Dir(slips)
	}

	catalog, err := warehouse.LoadCatalog(a.config.MapPath())
	if err != nil {
		a.statusMsg = fmt.Sprintf("Cannot read warehouse map: %v", err)
		a.logError("Load warehouse map: %v", err)
		return a, nil
	}

	opts := pipeline.RunOptions{
		SlipsPath:     slips,
		LabelsPath:    labels,
		OutDir:        outDir,
		SlipsOutName:  a.config.Settings.Output.Slips,
		LabelsOutName: a.config.Settings.Output.Labels,
		AreaSortOrder: a.config.Settings.AreaSortOrder,
		ParserConfig:  a.config.ParserConfig(),
		Areas:         catalog.Map(),
		Extractor:     pdfdoc.Extractor{},
		Decks:         pdfdoc.Decks{},
		Manifest:      manifest.Renderer{},
		Log:           a.logbook,
	}

	a.state = stateRunning
	a.runInFlight = true
	a.runResult = nil
	a.runErr = nil
	a.statusMsg = "Processing..."
	runner := a.runner
	return a, func() tea.Msg {
		result, err := runner(opts)
		return runFinishedMsg{result: result, err: err}
	}
}

// printCmd builds the command sending the finished documents to their lp
// destinations, or nil when no printer is configured. Everything the
// command needs is captured by value so the command goroutine never
// touches the model; printing failures are logged but never fail the run,
// the sorted PDFs already exist on disk.
func (a *App) printCmd(result *pipeline.RunResult) tea.Cmd {
	profiles := a.config.Settings.Printers
	if profiles.Slips.Name == "" && profiles.Labels.Name == "" {
		return nil
	}
	submit := a.submit
	log := a.logbook
	return func() tea.Msg {
		var msg printFinishedMsg
		jobs := []struct {
			path, what string
			profile    printer.Profile
		}{
			{result.SlipsOut, "slips", profiles.Slips},
			{result.LabelsOut, "labels", profiles.Labels},
		}
		for _, job := range jobs {
			if job.profile.Name == "" {
				continue
			}
			if err := submit(job.path, job.profile); err != nil {
				log.Warn("Print %s: %v", job.what, err)
				msg.failed++
				continue
			}
			log.Info("%s sent to printer %s", job.what, job.profile.Name)
			msg.sent++
		}
		return msg
	}
}

// returnToMainMenu transitions back to the main menu
func (a *App) returnToMainMenu() (tea.Model, tea.Cmd) {
	if a.state == stateMapEditor && a.editor != nil && a.editor.dirty {
		a.statusMsg = "Unsaved map changes discarded"
		a.logWarn("Map editor closed with unsaved changes")
	}
	a.state = stateMainMenu
	a.editor = nil
	return a, nil
}

// View renders the current state to a string.
func (a *App) View() string {
	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#5B8DEF")).
		MarginBottom(1).
		Render("▤ SLIPDECK")

	var content string
	switch a.state {
	case stateMainMenu:
		content = a.mainMenu.View()
	case stateProcessForm:
		content = a.renderProcessForm()
	case stateRunning:
		content = a.renderRunStatus()
	case stateMapEditor:
		if a.editor != nil {
			content = a.editor.View()
		}
	}

	sections := []string{header, content}
	if logPanel := a.renderLogPanel(); logPanel != "" {
		sections = append(sections, logPanel)
	}
	footer := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#888888")).
		MarginTop(1).
		Render(a.statusMsg)
	sections = append(sections, footer)
	return strings.Join(sections, "\n")
}

func (a *App) renderProcessForm() string {
	titles := [fieldCount]string{"Packing slips", "Shipping labels", "Output folder"}
	labelStyle := lipgloss.NewStyle().Bold(true)
	var rows []string
	for i := range a.form.inputs {
		rows = append(rows, labelStyle.Render(titles[i]), a.form.inputs[i].View(), "")
	}
	hint := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#AAAAAA")).
		Render("Tab → next field    Enter on last field → run    Esc → cancel")
	rows = append(rows, hint)
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (a *App) renderRunStatus() string {
	if a.runInFlight {
		return "Processing decks..."
	}
	if a.runErr != nil {
		body := lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Render(fmt.Sprintf("✗ %v", a.runErr))
		return lipgloss.JoinVertical(lipgloss.Left, body, "", "Press Enter to return")
	}
	if a.runResult == nil {
		return "No run yet"
	}
	lines := []string{
		fmt.Sprintf("✓ %d of %d pages kept", a.runResult.KeptPages, a.runResult.TotalPages),
		fmt.Sprintf("Slips:  %s", a.runResult.SlipsOut),
		fmt.Sprintf("Labels: %s", a.runResult.LabelsOut),
	}
	if a.runResult.SectionsOut > 0 {
		lines = append(lines, fmt.Sprintf("Manifest: %d area section(s)", a.runResult.SectionsOut))
	} else {
		lines = append(lines, "Manifest: skipped (no mapped areas)")
	}
	lines = append(lines, "", "Press Enter to return")
	return strings.Join(lines, "\n")
}

func (a *App) renderLogPanel() string {
	if a.logbook == nil {
		return ""
	}
	lines := a.logbook.Tail(8)
	if len(lines) == 0 {
		return ""
	}
	fileName := filepath.Base(a.logbook.Path())
	if fileName == "." || fileName == "" {
		fileName = "log"
	}
	head := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#5B8DEF")).
		Render(fmt.Sprintf("LOG · %s", fileName))
	body := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#AAAAAA")).
		Render(strings.Join(lines, "\n"))
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#444444")).
		Padding(0, 1).
		Render(fmt.Sprintf("%s\n%s", head, body))
}
