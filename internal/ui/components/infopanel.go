package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/fenilsonani/kuri-uninstaller/internal/program"
	"github.com/fenilsonani/kuri-uninstaller/internal/scanner"
	"github.com/fenilsonani/kuri-uninstaller/internal/ui/styles"
)

// InfoPanel represents a contextual information panel
type InfoPanel struct {
	title   string
	content []InfoItem
	visible bool
	width   int
}

// InfoItem represents a single piece of information
type InfoItem struct {
	Label string
	Value string
	Icon  string
}

// NewInfoPanel creates a new info panel
func NewInfoPanel(title string, width int) *InfoPanel {
	return &InfoPanel{
		title: title,
		width: width,
	}
}

// AddItem adds an information item to the panel
func (p *InfoPanel) AddItem(label, value, icon string) {
	p.content = append(p.content, InfoItem{
		Label: label,
		Value: value,
		Icon:  icon,
	})
}

// Items returns the panel content
func (p *InfoPanel) Items() []InfoItem {
	return p.content
}

// SetVisible sets the visibility of the panel
func (p *InfoPanel) SetVisible(visible bool) {
	p.visible = visible
}

// IsVisible returns whether the panel is visible
func (p *InfoPanel) IsVisible() bool {
	return p.visible
}

// Toggle toggles the visibility of the panel
func (p *InfoPanel) Toggle() {
	p.visible = !p.visible
}

// SetWidth sets the width of the panel
func (p *InfoPanel) SetWidth(width int) {
	p.width = width
}

// Render renders the info panel
func (p *InfoPanel) Render() string {
	if !p.visible || len(p.content) == 0 {
		return ""
	}

	// Use half of the terminal width, clamped to 40..80
	panelWidth := min(max(p.width/2, 40), 80)

	panelStyle := lipgloss.NewStyle().
		Border(lipgloss.ThickBorder()).
		BorderForeground(styles.FocusBorder).
		Padding(1, 2).
		Width(panelWidth)

	titleStyle := lipgloss.NewStyle().
		Foreground(styles.Primary).
		Bold(true).
		Underline(true)

	labelStyle := lipgloss.NewStyle().
		Foreground(styles.Secondary).
		Bold(true)

	var content strings.Builder
	content.WriteString(titleStyle.Render(p.title))
	content.WriteString("\n\n")

	for i, item := range p.content {
		if item.Icon != "" {
			content.WriteString(item.Icon + " ")
		}
		content.WriteString(labelStyle.Render(item.Label) + ": ")
		content.WriteString(lipgloss.NewStyle().Foreground(styles.Text).Render(item.Value))

		if i < len(p.content)-1 {
			content.WriteString("\n")
		}
	}

	content.WriteString("\n\n")
	content.WriteString(styles.HelpStyle.Render("Press 'i' or 'esc' to close"))

	return panelStyle.Render(content.String())
}

// ProgramInfoPanel describes a program and what a scan will search for
func ProgramInfoPanel(id program.Identity, width int) *InfoPanel {
	panel := NewInfoPanel("Program Information", width)

	panel.AddItem("Name", id.Name, "📦")
	version := id.Version
	if version == "" {
		version = "unknown"
	}
	panel.AddItem("Version", version, "🏷")
	location := id.InstallLocation
	if location == "" {
		location = "not reported"
	}
	panel.AddItem("Install location", location, "📁")
	panel.AddItem("Search terms", strings.Join(scanner.GenerateTerms(id), ", "), "🔍")

	return panel
}
