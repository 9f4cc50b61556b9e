package models

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/fenilsonani/kuri-uninstaller/internal/scanner"
	"github.com/fenilsonani/kuri-uninstaller/internal/ui/styles"
	uiutils "github.com/fenilsonani/kuri-uninstaller/internal/ui/utils"
)

const (
	buttonDelete = iota
	buttonCancel
)

// ConfirmViewModel handles the confirmation screen
type ConfirmViewModel struct {
	counts      map[scanner.Kind]int
	total       int
	hasRegistry bool
	cursor      int
	width       int
	height      int
}

// NewConfirmViewModel creates a new confirm view model
func NewConfirmViewModel(selected []scanner.Artifact, width, height int) *ConfirmViewModel {
	counts := make(map[scanner.Kind]int)
	for _, a := range selected {
		counts[a.Kind]++
	}

	// Registry keys do not go to the trash, so make deleting them a deliberate choice
	cursor := buttonDelete
	if counts[scanner.KindRegistry] > 0 {
		cursor = buttonCancel
	}

	if width == 0 {
		width = 80
	}
	if height == 0 {
		height = 24
	}

	return &ConfirmViewModel{
		counts:      counts,
		total:       len(selected),
		hasRegistry: counts[scanner.KindRegistry] > 0,
		cursor:      cursor,
		width:       width,
		height:      height,
	}
}

// Update handles messages
func (m *ConfirmViewModel) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "left", "h":
			m.cursor = buttonDelete
		case "right", "l":
			m.cursor = buttonCancel
		case "tab":
			m.cursor = (m.cursor + 1) % 2
		case "enter":
			if m.cursor == buttonDelete {
				return send(ConfirmDeleteMsg{})
			}
			return send(CancelDeleteMsg{})
		case "y":
			return send(ConfirmDeleteMsg{})
		case "n", "esc":
			return send(CancelDeleteMsg{})
		}
	}

	return nil
}

// View renders the confirmation view
func (m *ConfirmViewModel) View(backup bool) string {
	var b strings.Builder

	if warning := uiutils.GetSizeWarningBanner(m.width, m.height); warning != "" {
		b.WriteString(warning)
	}

	b.WriteString(styles.TitleStyle.Render("⚠️  Confirm Deletion"))
	b.WriteString("\n\n")

	b.WriteString(styles.BoldStyle.Render(fmt.Sprintf("You are about to delete %d items", m.total)))
	b.WriteString("\n\n")

	b.WriteString(styles.SubtitleStyle.Render("Breakdown:"))
	b.WriteString("\n")
	for _, k := range scanner.Kinds {
		if n := m.counts[k]; n > 0 {
			fmt.Fprintf(&b, "  %s %s %d\n", styles.GetKindIcon(k), styles.KindTag(k), n)
		}
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "%s Log registry keys before deletion (b)\n", styles.Checkbox(backup))
	b.WriteString("\n")

	if m.counts[scanner.KindFile]+m.counts[scanner.KindDirectory] > 0 {
		b.WriteString(styles.DimStyle.Render("Files and folders are moved to the trash."))
		b.WriteString("\n")
	}
	if m.hasRegistry {
		b.WriteString(styles.WarningStyle.Render("⚠️  Registry keys are deleted permanently!"))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	deleteBtn := "[ Delete ]"
	cancelBtn := "[ Cancel ]"
	if m.cursor == buttonDelete {
		deleteBtn = styles.HighlightStyle.Render(deleteBtn)
	} else {
		cancelBtn = styles.HighlightStyle.Render(cancelBtn)
	}
	fmt.Fprintf(&b, "%s  %s", deleteBtn, cancelBtn)
	b.WriteString("\n\n")

	helpText := "y:confirm  n:cancel  b:backup  ←/→:navigate"
	if m.width < 60 {
		helpText = "y:yes  n:no  b  ←/→"
	}
	b.WriteString(styles.HelpStyle.Render(helpText))

	return b.String()
}
