package models

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/fenilsonani/kuri-uninstaller/internal/program"
	"github.com/fenilsonani/kuri-uninstaller/internal/ui/components"
	"github.com/fenilsonani/kuri-uninstaller/internal/ui/styles"
	uiutils "github.com/fenilsonani/kuri-uninstaller/internal/ui/utils"
)

// ProgramListModel lists installed programs and lets the user pick one
type ProgramListModel struct {
	programs []program.Identity
	visible  []int // indexes into programs matching the filter
	selected string
	cursor   int
	offset   int
	pageSize int
	width    int
	height   int

	filter    textinput.Model
	filtering bool
	info      *components.InfoPanel
	statusBar *components.StatusBar
}

// NewProgramListModel creates an empty program list
func NewProgramListModel() *ProgramListModel {
	ti := textinput.New()
	ti.Placeholder = "filter programs"
	ti.Prompt = "/ "
	ti.CharLimit = 64

	return &ProgramListModel{
		pageSize:  uiutils.CalculatePageSize(0),
		filter:    ti,
		statusBar: components.NewStatusBar(),
	}
}

// SetPrograms replaces the list, keeping the current filter
func (m *ProgramListModel) SetPrograms(programs []program.Identity) {
	m.programs = programs
	m.applyFilter()
}

// SetSelected marks a program as chosen by name
func (m *ProgramListModel) SetSelected(name string) {
	m.selected = name
}

// SetSize updates the terminal dimensions
func (m *ProgramListModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.pageSize = uiutils.CalculatePageSize(height)
	if m.info != nil {
		m.info.SetWidth(width)
	}
}

// Filtering reports whether the filter input has focus
func (m *ProgramListModel) Filtering() bool {
	return m.filtering
}

// Current returns the program under the cursor
func (m *ProgramListModel) Current() (program.Identity, bool) {
	if m.cursor < 0 || m.cursor >= len(m.visible) {
		return program.Identity{}, false
	}
	return m.programs[m.visible[m.cursor]], true
}

func (m *ProgramListModel) applyFilter() {
	query := strings.ToLower(strings.TrimSpace(m.filter.Value()))
	m.visible = m.visible[:0]
	for i, p := range m.programs {
		if query == "" || strings.Contains(strings.ToLower(p.Name), query) {
			m.visible = append(m.visible, i)
		}
	}
	if m.cursor >= len(m.visible) {
		m.cursor = max(len(m.visible)-1, 0)
	}
}

// Update handles messages
func (m *ProgramListModel) Update(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		if m.filtering {
			var cmd tea.Cmd
			m.filter, cmd = m.filter.Update(msg)
			return cmd
		}
		return nil
	}

	if m.filtering {
		return m.updateFilter(keyMsg)
	}

	if m.info != nil && m.info.IsVisible() {
		switch keyMsg.String() {
		case "i":
			m.info.Toggle()
		case "esc":
			m.info.SetVisible(false)
		}
		return nil
	}

	switch keyMsg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.visible)-1 {
			m.cursor++
		}
	case "g", "home":
		m.cursor = 0
	case "G", "end":
		m.cursor = max(len(m.visible)-1, 0)
	case "/":
		m.filtering = true
		return m.filter.Focus()
	case "esc":
		if m.filter.Value() != "" {
			m.filter.SetValue("")
			m.applyFilter()
		}
	case "i":
		if p, ok := m.Current(); ok {
			m.info = components.ProgramInfoPanel(p, m.width)
			m.info.SetVisible(true)
		}
	case "enter", " ":
		p, ok := m.Current()
		if !ok {
			return nil
		}
		if keyMsg.String() == "enter" && p.Name == m.selected {
			return send(ScanMsg{})
		}
		return send(ProgramSelectedMsg{Program: p})
	case "s":
		return send(ScanMsg{})
	case "q":
		return tea.Quit
	}

	return nil
}

func (m *ProgramListModel) updateFilter(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		m.filter.SetValue("")
		m.filter.Blur()
		m.filtering = false
		m.applyFilter()
		return nil
	case "enter":
		m.filter.Blur()
		m.filtering = false
		return nil
	}

	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.cursor = 0
	m.applyFilter()
	return cmd
}

// View renders the program list. notice is shown above the list.
func (m *ProgramListModel) View(notice string) string {
	var b strings.Builder

	if warning := uiutils.GetSizeWarningBanner(m.width, m.height); warning != "" {
		b.WriteString(warning)
	}

	b.WriteString(styles.TitleStyle.Render("Installed Programs"))
	b.WriteString("\n")

	if m.selected != "" {
		b.WriteString(styles.SubtitleStyle.Render("Selected: " + m.selected))
	} else {
		b.WriteString(styles.SubtitleStyle.Render("Select a program to scan"))
	}
	b.WriteString("\n")

	if notice != "" {
		b.WriteString(styles.SuccessStyle.Render("✓ " + notice))
		b.WriteString("\n")
	}

	if m.filtering || m.filter.Value() != "" {
		b.WriteString(m.filter.View())
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if info := m.infoView(); info != "" {
		b.WriteString(info)
		return b.String()
	}

	if len(m.visible) == 0 {
		b.WriteString(styles.DimStyle.Render("No programs found."))
		b.WriteString("\n")
	}

	start, end := uiutils.VisibleWindow(m.cursor, m.offset, m.pageSize, len(m.visible))
	m.offset = start

	nameWidth := max(m.width-20, 30)
	for i := start; i < end; i++ {
		p := m.programs[m.visible[i]]

		cursor := "  "
		if i == m.cursor {
			cursor = styles.SelectedStyle.Render("→ ")
		}

		name := uiutils.TruncateString(p.Name, nameWidth)
		if p.Name == m.selected {
			name = styles.HighlightStyle.Render(name)
		}

		line := cursor + name
		if p.Version != "" {
			line += " " + styles.VersionStyle.Render("("+p.Version+")")
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	if len(m.visible) > m.pageSize {
		b.WriteString(styles.DimStyle.Render(fmt.Sprintf("\n%d-%d of %d", start+1, end, len(m.visible))))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	m.statusBar.SetView(fmt.Sprintf("%d programs", len(m.programs)))
	m.statusBar.SetShortcuts(
		components.Shortcut{Key: "↑/↓", Desc: "move"},
		components.Shortcut{Key: "enter", Desc: "select/scan"},
		components.Shortcut{Key: "/", Desc: "filter"},
		components.Shortcut{Key: "i", Desc: "info"},
		components.Shortcut{Key: "?", Desc: "help"},
		components.Shortcut{Key: "q", Desc: "quit"},
	)
	b.WriteString(m.statusBar.Render(m.width))

	return b.String()
}

func (m *ProgramListModel) infoView() string {
	if m.info == nil || !m.info.IsVisible() {
		return ""
	}
	return m.info.Render()
}
