package models

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/fenilsonani/kuri-uninstaller/internal/scanner"
	"github.com/fenilsonani/kuri-uninstaller/internal/ui/components"
	"github.com/fenilsonani/kuri-uninstaller/internal/ui/styles"
	uiutils "github.com/fenilsonani/kuri-uninstaller/internal/ui/utils"
)

// ResultsViewModel shows the leftovers of a scan and lets the user choose
// which ones to delete. Selection state lives in the shared ScanResult and
// changes only through the app's messages.
type ResultsViewModel struct {
	result    *scanner.ScanResult
	cursor    int
	offset    int
	pageSize  int
	width     int
	height    int
	statusBar *components.StatusBar
}

// NewResultsViewModel creates a new results view model
func NewResultsViewModel(result *scanner.ScanResult, width, height int) *ResultsViewModel {
	return &ResultsViewModel{
		result:    result,
		pageSize:  uiutils.CalculatePageSize(height),
		width:     width,
		height:    height,
		statusBar: components.NewStatusBar(),
	}
}

// SetSize updates the terminal dimensions
func (m *ResultsViewModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.pageSize = uiutils.CalculatePageSize(height)
}

// Cursor returns the index of the highlighted item
func (m *ResultsViewModel) Cursor() int {
	return m.cursor
}

// Update handles messages
func (m *ResultsViewModel) Update(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}

	n := m.result.Len()
	switch keyMsg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < n-1 {
			m.cursor++
		}
	case "g", "home":
		m.cursor = 0
	case "G", "end":
		m.cursor = max(n-1, 0)
	case " ", "x":
		if m.cursor < n {
			return send(ResultToggledMsg{Index: m.cursor, Selected: !m.result.Items[m.cursor].Selected})
		}
	case "a":
		return send(SelectAllMsg{})
	case "n":
		return send(DeselectAllMsg{})
	case "d", "enter":
		return send(DeleteSelectedMsg{})
	case "esc", "backspace":
		return send(BackMsg{})
	}

	return nil
}

// View renders the candidate list
func (m *ResultsViewModel) View(backup bool) string {
	var b strings.Builder

	if warning := uiutils.GetSizeWarningBanner(m.width, m.height); warning != "" {
		b.WriteString(warning)
	}

	b.WriteString(styles.TitleStyle.Render("🔍 Leftovers of " + m.result.Program.Label()))
	b.WriteString("\n")
	b.WriteString(styles.SubtitleStyle.Render("Search terms: " + strings.Join(m.result.Terms, ", ")))
	b.WriteString("\n")

	n := m.result.Len()
	if n == 0 {
		b.WriteString(styles.SuccessStyle.Render("✓ No leftovers found."))
		b.WriteString("\n\n")
		b.WriteString(styles.HelpStyle.Render("esc: back to programs"))
		return b.String()
	}

	start, end := uiutils.VisibleWindow(m.cursor, m.offset, m.pageSize, n)
	m.offset = start

	pathWidth := max(m.width-20, 40)
	for i := start; i < end; i++ {
		item := m.result.Items[i]

		cursor := "  "
		if i == m.cursor {
			cursor = styles.SelectedStyle.Render("→ ")
		}

		path := uiutils.TruncatePath(item.Artifact.Path, pathWidth)
		if item.Artifact.Kind == scanner.KindRegistry {
			path = styles.RegistryPathStyle.Render(path)
		} else {
			path = styles.FilePathStyle.Render(path)
		}

		fmt.Fprintf(&b, "%s%s %s %s\n", cursor, styles.Checkbox(item.Selected), styles.KindTag(item.Artifact.Kind), path)
	}

	if n > m.pageSize {
		b.WriteString(styles.DimStyle.Render(fmt.Sprintf("\n%d-%d of %d", start+1, end, n)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	m.statusBar.SetView("Leftovers")
	m.statusBar.SetSelection(m.result.SelectedCount(), n)
	m.statusBar.SetBackup(backup)
	m.statusBar.SetShortcuts(
		components.Shortcut{Key: "space", Desc: "toggle"},
		components.Shortcut{Key: "a/n", Desc: "all/none"},
		components.Shortcut{Key: "d", Desc: "delete"},
		components.Shortcut{Key: "b", Desc: "backup"},
		components.Shortcut{Key: "esc", Desc: "back"},
		components.Shortcut{Key: "?", Desc: "help"},
	)
	b.WriteString(m.statusBar.Render(m.width))

	return b.String()
}
