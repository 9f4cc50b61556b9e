package models

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fenilsonani/kuri-uninstaller/internal/program"
	"github.com/fenilsonani/kuri-uninstaller/internal/scanner"
	"github.com/fenilsonani/kuri-uninstaller/internal/ui/styles"
)

// ViewState represents the current view in the app
type ViewState int

const (
	ViewProgramList ViewState = iota
	ViewScanning
	ViewScanResults
	ViewConfirmingDelete
	ViewDeleting
)

// String returns the state name
func (s ViewState) String() string {
	switch s {
	case ViewProgramList:
		return "program list"
	case ViewScanning:
		return "scanning"
	case ViewScanResults:
		return "scan results"
	case ViewConfirmingDelete:
		return "confirming delete"
	case ViewDeleting:
		return "deleting"
	default:
		return "unknown"
	}
}

// AppModel is the root model for the interactive TUI. It owns the state
// machine: a scan or deletion can only start from the state that offers it,
// so at most one runs at a time.
type AppModel struct {
	// Current state
	state ViewState

	backend  Backend
	programs []program.Identity
	selected *program.Identity
	result   *scanner.ScanResult
	backup   bool

	// View models
	programView  *ProgramListModel
	resultsView  *ResultsViewModel
	confirmView  *ConfirmViewModel
	progressView *ProgressViewModel

	// UI state
	width    int
	height   int
	errMsg   string
	notice   string
	showHelp bool
}

// NewAppModel creates a new app model. backup is the initial state of the
// registry backup option.
func NewAppModel(backend Backend, backup bool) *AppModel {
	return &AppModel{
		state:       ViewProgramList,
		backend:     backend,
		backup:      backup,
		programView: NewProgramListModel(),
	}
}

// Init loads the installed programs
func (m *AppModel) Init() tea.Cmd {
	return loadProgramsCmd(m.backend)
}

// State returns the current view state
func (m *AppModel) State() ViewState {
	return m.state
}

// Err returns the error message on display, if any
func (m *AppModel) Err() string {
	return m.errMsg
}

// Selected returns the program chosen for scanning
func (m *AppModel) Selected() *program.Identity {
	return m.selected
}

// Result returns the scan result being reviewed
func (m *AppModel) Result() *scanner.ScanResult {
	return m.result
}

// Backup reports whether registry keys are logged before deletion
func (m *AppModel) Backup() bool {
	return m.backup
}

// Update handles messages
func (m *AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.programView.SetSize(msg.Width, msg.Height)
		if m.resultsView != nil {
			m.resultsView.SetSize(msg.Width, msg.Height)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case ScanProgressMsg, DeleteProgressMsg:
		if m.progressView != nil {
			m.progressView.Update(msg)
		}
		return m, nil
	}

	if cmd, handled := m.transition(msg); handled {
		return m, cmd
	}

	// Delegate to current view
	return m, m.delegateUpdate(msg)
}

// transition applies a state machine message. Messages that do not fit the
// current state are ignored.
func (m *AppModel) transition(msg tea.Msg) (tea.Cmd, bool) {
	switch msg.(type) {
	case DismissErrorMsg:
		m.errMsg = ""
		return nil, true
	case ProgramsLoadedMsg, ProgramSelectedMsg, ScanMsg, ScanCompletedMsg,
		ResultToggledMsg, SelectAllMsg, DeselectAllMsg, DeleteSelectedMsg,
		BackupToggledMsg, ConfirmDeleteMsg, CancelDeleteMsg, DeleteCompletedMsg, BackMsg:
		m.errMsg = ""
	default:
		return nil, false
	}

	switch msg := msg.(type) {
	case ProgramsLoadedMsg:
		if msg.Err != nil {
			m.errMsg = fmt.Sprintf("Failed to load programs: %v", msg.Err)
			return nil, true
		}
		m.programs = msg.Programs
		m.programView.SetPrograms(msg.Programs)

	case ProgramSelectedMsg:
		if m.state == ViewProgramList {
			p := msg.Program
			m.selected = &p
			m.programView.SetSelected(p.Name)
		}

	case ScanMsg:
		if m.state != ViewProgramList || m.selected == nil {
			return nil, true
		}
		m.notice = ""
		m.state = ViewScanning
		m.progressView = NewScanProgressModel(*m.selected)
		return tea.Batch(m.progressView.Init(), scanCmd(m.backend, *m.selected)), true

	case ScanCompletedMsg:
		if m.state != ViewScanning {
			return nil, true
		}
		m.progressView = nil
		if msg.Err != nil {
			m.errMsg = fmt.Sprintf("Error during scan: %v", msg.Err)
			m.state = ViewProgramList
			return nil, true
		}
		m.result = msg.Result
		m.resultsView = NewResultsViewModel(msg.Result, m.width, m.height)
		m.state = ViewScanResults

	case ResultToggledMsg:
		if m.state == ViewScanResults {
			m.result.SetSelected(msg.Index, msg.Selected)
		}

	case SelectAllMsg:
		if m.state == ViewScanResults {
			m.result.SelectAll()
		}

	case DeselectAllMsg:
		if m.state == ViewScanResults {
			m.result.DeselectAll()
		}

	case DeleteSelectedMsg:
		if m.state == ViewScanResults && m.result.SelectedCount() > 0 {
			m.confirmView = NewConfirmViewModel(m.result.Selected(), m.width, m.height)
			m.state = ViewConfirmingDelete
		}

	case BackupToggledMsg:
		if m.state != ViewDeleting {
			m.backup = msg.Enabled
		}

	case ConfirmDeleteMsg:
		if m.state != ViewConfirmingDelete {
			return nil, true
		}
		m.state = ViewDeleting
		m.progressView = NewDeleteProgressModel(m.result.SelectedCount())
		return tea.Batch(m.progressView.Init(), deleteCmd(m.backend, m.result, m.backup)), true

	case CancelDeleteMsg:
		if m.state == ViewConfirmingDelete {
			m.state = ViewScanResults
		}

	case DeleteCompletedMsg:
		if m.state != ViewDeleting {
			return nil, true
		}
		m.progressView = nil
		if msg.Err != nil {
			// Keep the candidate list and its selection
			m.errMsg = fmt.Sprintf("An error occurred: %v", msg.Err)
			m.state = ViewScanResults
			return nil, true
		}
		m.notice = deletionNotice(msg)
		m.reset()
		return loadProgramsCmd(m.backend), true

	case BackMsg:
		if m.state == ViewScanResults {
			m.reset()
		}
	}

	return nil, true
}

// reset returns to the program list with nothing selected
func (m *AppModel) reset() {
	m.state = ViewProgramList
	m.selected = nil
	m.result = nil
	m.resultsView = nil
	m.confirmView = nil
	m.programView.SetSelected("")
}

func deletionNotice(msg DeleteCompletedMsg) string {
	if msg.Result == nil {
		return "Deletion complete"
	}
	notice := fmt.Sprintf("Deleted %d items", len(msg.Result.Deleted))
	if msg.Result.BackupPath != "" {
		notice += " • registry log: " + msg.Result.BackupPath
	}
	return notice
}

// handleKey handles global keys and hands the rest to the current view
func (m *AppModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		// A running deletion cannot be interrupted
		if m.state != ViewDeleting {
			return m, tea.Quit
		}
		return m, nil
	}

	if m.errMsg != "" {
		switch key {
		case "enter", "esc", " ":
			return m, send(DismissErrorMsg{})
		case "q":
			return m, tea.Quit
		}
		return m, nil
	}

	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	if key == "?" && !(m.state == ViewProgramList && m.programView.Filtering()) {
		m.showHelp = true
		return m, nil
	}

	if key == "b" && (m.state == ViewScanResults || m.state == ViewConfirmingDelete) {
		return m, send(BackupToggledMsg{Enabled: !m.backup})
	}

	return m, m.delegateUpdate(msg)
}

// delegateUpdate delegates the update to the current view
func (m *AppModel) delegateUpdate(msg tea.Msg) tea.Cmd {
	switch m.state {
	case ViewProgramList:
		return m.programView.Update(msg)
	case ViewScanResults:
		if m.resultsView != nil {
			return m.resultsView.Update(msg)
		}
	case ViewConfirmingDelete:
		if m.confirmView != nil {
			return m.confirmView.Update(msg)
		}
	case ViewScanning, ViewDeleting:
		if m.progressView != nil {
			return m.progressView.Update(msg)
		}
	}
	return nil
}

// View renders the current view
func (m *AppModel) View() string {
	if m.errMsg != "" {
		return m.renderError()
	}
	if m.showHelp {
		return m.renderHelp()
	}

	switch m.state {
	case ViewProgramList:
		return m.programView.View(m.notice)
	case ViewScanResults:
		if m.resultsView != nil {
			return m.resultsView.View(m.backup)
		}
	case ViewConfirmingDelete:
		if m.confirmView != nil {
			return m.confirmView.View(m.backup)
		}
	case ViewScanning, ViewDeleting:
		if m.progressView != nil {
			return m.progressView.View()
		}
	}

	return "Loading..."
}

func (m *AppModel) renderError() string {
	var b strings.Builder
	b.WriteString(styles.ErrorStyle.Render("Error"))
	b.WriteString("\n\n")
	b.WriteString(m.errMsg)
	b.WriteString("\n\n")
	b.WriteString(styles.HelpStyle.Render("enter: dismiss • q: quit"))

	panel := styles.ErrorPanelStyle.Render(b.String())
	if m.width > 0 && m.height > 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, panel)
	}
	return panel
}

// renderHelp renders the help view for the current state
func (m *AppModel) renderHelp() string {
	var b strings.Builder

	var viewName, helpContent string
	switch m.state {
	case ViewProgramList:
		viewName = "Installed Programs"
		helpContent = helpForProgramList
	case ViewScanResults:
		viewName = "Leftovers"
		helpContent = helpForResults
	case ViewConfirmingDelete:
		viewName = "Confirmation"
		helpContent = helpForConfirm
	default:
		viewName = "Working"
		helpContent = helpForProgress
	}

	b.WriteString(styles.TitleStyle.Render("Help - " + viewName))
	b.WriteString("\n\n")
	b.WriteString(helpContent)
	b.WriteString("\n\n")
	b.WriteString(styles.HelpStyle.Render("Press any key to close"))

	return b.String()
}

const helpForProgramList = `Pick the program whose leftovers you want to find.

Navigation:
  ↑/k     - Move up
  ↓/j     - Move down
  g/G     - Go to top/bottom
  /       - Filter by name

Actions:
  enter   - Select program (again to scan)
  s       - Scan selected program
  i       - Program information
  q       - Quit`

const helpForResults = `Choose which leftovers to delete. Everything starts selected.

Navigation:
  ↑/k     - Move up
  ↓/j     - Move down
  g/G     - Go to top/bottom

Selection:
  space   - Toggle item
  a       - Select all
  n       - Deselect all
  b       - Toggle registry backup

Actions:
  d/enter - Delete selected
  esc     - Back to programs`

const helpForConfirm = `Review and confirm the deletion.

Files and folders go to the trash and can be restored.
Registry keys are deleted permanently; the backup only lists their names.

Actions:
  ←/→     - Switch between buttons
  enter   - Activate button
  y       - Yes, delete
  n/esc   - No, go back
  b       - Toggle registry backup`

const helpForProgress = `Work in progress. Scans and deletions run to completion.

Actions:
  ctrl+c  - Quit (not available while deleting)`
