package models

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/fenilsonani/kuri-uninstaller/internal/cleaner"
	"github.com/fenilsonani/kuri-uninstaller/internal/program"
	"github.com/fenilsonani/kuri-uninstaller/internal/scanner"
)

// Backend performs the work behind the interactive screens
type Backend interface {
	LoadPrograms() ([]program.Identity, error)
	Scan(ctx context.Context, id program.Identity) (*scanner.ScanResult, error)
	Delete(result *scanner.ScanResult, withBackup bool) (*cleaner.CleanResult, error)
}

// ProgramsLoadedMsg carries the installed program list
type ProgramsLoadedMsg struct {
	Programs []program.Identity
	Err      error
}

// ProgramSelectedMsg chooses the program to scan
type ProgramSelectedMsg struct {
	Program program.Identity
}

// ScanMsg starts a scan of the selected program
type ScanMsg struct{}

// ScanProgressMsg reports the location being scanned
type ScanProgressMsg struct {
	Source   string
	Location string
	Found    int
}

// ScanCompletedMsg carries the outcome of a scan
type ScanCompletedMsg struct {
	Result *scanner.ScanResult
	Err    error
}

// ResultToggledMsg changes the selection of one candidate
type ResultToggledMsg struct {
	Index    int
	Selected bool
}

// SelectAllMsg selects every candidate
type SelectAllMsg struct{}

// DeselectAllMsg clears every selection
type DeselectAllMsg struct{}

// DeleteSelectedMsg asks for confirmation of a deletion
type DeleteSelectedMsg struct{}

// BackupToggledMsg turns the registry backup on or off
type BackupToggledMsg struct {
	Enabled bool
}

// ConfirmDeleteMsg starts the deletion
type ConfirmDeleteMsg struct{}

// CancelDeleteMsg returns to the candidate list
type CancelDeleteMsg struct{}

// DeleteProgressMsg reports an item of the batch as processed
type DeleteProgressMsg struct {
	Done    int
	Total   int
	Current scanner.Artifact
}

// DeleteCompletedMsg carries the outcome of a deletion
type DeleteCompletedMsg struct {
	Result *cleaner.CleanResult
	Err    error
}

// BackMsg abandons the candidate list
type BackMsg struct{}

// DismissErrorMsg hides the error message
type DismissErrorMsg struct{}

// send wraps a message in a command
func send(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}

func loadProgramsCmd(b Backend) tea.Cmd {
	return func() tea.Msg {
		programs, err := b.LoadPrograms()
		return ProgramsLoadedMsg{Programs: programs, Err: err}
	}
}

func scanCmd(b Backend, id program.Identity) tea.Cmd {
	return func() tea.Msg {
		result, err := b.Scan(context.Background(), id)
		return ScanCompletedMsg{Result: result, Err: err}
	}
}

func deleteCmd(b Backend, result *scanner.ScanResult, withBackup bool) tea.Cmd {
	return func() tea.Msg {
		cleanResult, err := b.Delete(result, withBackup)
		return DeleteCompletedMsg{Result: cleanResult, Err: err}
	}
}
