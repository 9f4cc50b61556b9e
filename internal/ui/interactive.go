package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/fenilsonani/kuri-uninstaller/internal/scanner"
	"github.com/fenilsonani/kuri-uninstaller/internal/ui/models"
	"github.com/fenilsonani/kuri-uninstaller/internal/uninstaller"
)

// RunInteractive starts the interactive TUI mode
func RunInteractive(service *uninstaller.Service) error {
	// Create the app model
	m := models.NewAppModel(service, service.BackupDefault())

	// Create the Bubble Tea program
	p := tea.NewProgram(m, tea.WithAltScreen())

	// Forward progress from the worker goroutines into the event loop
	service.SetScanProgress(func(source, location string, found int) {
		p.Send(models.ScanProgressMsg{Source: source, Location: location, Found: found})
	})
	service.SetDeleteProgress(func(done, total int, current scanner.Artifact) {
		p.Send(models.DeleteProgressMsg{Done: done, Total: total, Current: current})
	})
	defer func() {
		service.SetScanProgress(nil)
		service.SetDeleteProgress(nil)
	}()

	// Run the program
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running interactive mode: %w", err)
	}

	return nil
}
