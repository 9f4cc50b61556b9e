package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/fenilsonani/kuri-uninstaller/internal/ui/styles"
)

// Shortcut is a key and what it does
type Shortcut struct {
	Key  string
	Desc string
}

// StatusBar represents a status bar component that displays at the bottom of views
type StatusBar struct {
	viewName  string
	selected  int
	total     int
	backup    *bool
	shortcuts []Shortcut
}

// NewStatusBar creates a new status bar
func NewStatusBar() *StatusBar {
	return &StatusBar{}
}

// SetView sets the current view name
func (s *StatusBar) SetView(viewName string) {
	s.viewName = viewName
}

// SetSelection sets the selection count and total
func (s *StatusBar) SetSelection(selected, total int) {
	s.selected = selected
	s.total = total
}

// SetBackup shows the registry backup setting
func (s *StatusBar) SetBackup(enabled bool) {
	s.backup = &enabled
}

// SetShortcuts sets the shortcuts to display, in order
func (s *StatusBar) SetShortcuts(shortcuts ...Shortcut) {
	s.shortcuts = shortcuts
}

// Render renders the status bar with the given width
func (s *StatusBar) Render(width int) string {
	if width <= 0 {
		width = 80
	}

	var parts []string

	// View name
	if s.viewName != "" {
		parts = append(parts, styles.BoldStyle.Render(s.viewName))
	}

	// Selection info
	if s.total > 0 {
		parts = append(parts, fmt.Sprintf("%d/%d selected", s.selected, s.total))
	}

	if s.backup != nil {
		state := "off"
		if *s.backup {
			state = "on"
		}
		parts = append(parts, "backup "+state)
	}

	// Left side of status bar
	leftSide := strings.Join(parts, " • ")

	// Shortcuts (right side)
	var shortcutParts []string
	for _, sc := range s.shortcuts {
		shortcutParts = append(shortcutParts, fmt.Sprintf("%s:%s",
			styles.DimStyle.Render(sc.Key), sc.Desc))
	}
	rightSide := strings.Join(shortcutParts, " ")

	// Calculate spacing
	leftLen := lipgloss.Width(leftSide)
	rightLen := lipgloss.Width(rightSide)
	spacing := width - leftLen - rightLen - 2 // -2 for padding

	if spacing < 1 {
		// Not enough space, drop shortcuts from the end
		for len(shortcutParts) > 0 && spacing < 1 {
			shortcutParts = shortcutParts[:len(shortcutParts)-1]
			rightSide = strings.Join(shortcutParts, " ")
			spacing = width - leftLen - lipgloss.Width(rightSide) - 2
		}
		if spacing < 1 {
			spacing = 1
		}
	}

	// Build the status bar
	statusLine := leftSide + strings.Repeat(" ", spacing) + rightSide

	return styles.StatusBarStyle.Width(width).Render(statusLine)
}
