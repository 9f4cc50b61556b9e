package models

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fenilsonani/kuri-uninstaller/internal/cleaner"
	"github.com/fenilsonani/kuri-uninstaller/internal/program"
	"github.com/fenilsonani/kuri-uninstaller/internal/scanner"
)

// fakeBackend records calls and returns canned results
type fakeBackend struct {
	programs   []program.Identity
	loadErr    error
	scanResult *scanner.ScanResult
	scanErr    error
	cleanRes   *cleaner.CleanResult
	cleanErr   error

	scanned    []program.Identity
	deletedSel []scanner.Artifact
	withBackup bool
}

func (f *fakeBackend) LoadPrograms() ([]program.Identity, error) {
	return f.programs, f.loadErr
}

func (f *fakeBackend) Scan(_ context.Context, id program.Identity) (*scanner.ScanResult, error) {
	f.scanned = append(f.scanned, id)
	return f.scanResult, f.scanErr
}

func (f *fakeBackend) Delete(result *scanner.ScanResult, withBackup bool) (*cleaner.CleanResult, error) {
	f.deletedSel = result.Selected()
	f.withBackup = withBackup
	return f.cleanRes, f.cleanErr
}

var (
	fooBar  = program.Identity{Name: "Foo Bar", Version: "1.0", InstallLocation: `C:\Program Files\Foo Bar`}
	notepad = program.Identity{Name: "Notepad++"}
)

func newBackend() *fakeBackend {
	return &fakeBackend{
		programs: []program.Identity{fooBar, notepad},
		scanResult: scanner.NewScanResult(fooBar, []string{"foo bar", "foobar"}, []scanner.Artifact{
			scanner.File(`C:\Users\me\AppData\Roaming\foobar.log`),
			scanner.Directory(`C:\Users\me\AppData\Local\Foo Bar`),
			scanner.RegistryKey(`HKEY_CURRENT_USER\Software\FooBar`),
		}),
		cleanRes: &cleaner.CleanResult{},
	}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

// update feeds msg to the model and returns the command it produced
func update(t *testing.T, m *AppModel, msg tea.Msg) tea.Cmd {
	t.Helper()
	model, cmd := m.Update(msg)
	require.Same(t, m, model)
	return cmd
}

// press feeds a key and then the message its command produces, if any
func press(t *testing.T, m *AppModel, k string) {
	t.Helper()
	cmd := update(t, m, key(k))
	if cmd == nil {
		return
	}
	if msg := cmd(); msg != nil {
		update(t, m, msg)
	}
}

// batchCmd returns the i-th command of a batch
func batchCmd(t *testing.T, cmd tea.Cmd, i int) tea.Cmd {
	t.Helper()
	require.NotNil(t, cmd)
	batch, ok := cmd().(tea.BatchMsg)
	require.True(t, ok, "expected a batch")
	require.Greater(t, len(batch), i)
	return batch[i]
}

func loaded(t *testing.T, b *fakeBackend) *AppModel {
	t.Helper()
	m := NewAppModel(b, true)
	update(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})
	update(t, m, m.Init()())
	return m
}

// scanned drives the model to the results view for fooBar
func scanned(t *testing.T, b *fakeBackend) *AppModel {
	t.Helper()
	m := loaded(t, b)
	update(t, m, ProgramSelectedMsg{Program: fooBar})
	cmd := update(t, m, ScanMsg{})
	require.Equal(t, ViewScanning, m.State())
	update(t, m, batchCmd(t, cmd, 1)())
	require.Equal(t, ViewScanResults, m.State())
	return m
}

// ============================================================================
// State Machine Tests
// ============================================================================

func TestAppModel_InitLoadsPrograms(t *testing.T) {
	m := loaded(t, newBackend())

	assert.Equal(t, ViewProgramList, m.State())
	assert.Empty(t, m.Err())
	assert.True(t, m.Backup())
	assert.Contains(t, m.View(), "Foo Bar")
	assert.Contains(t, m.View(), "Notepad++")
}

func TestAppModel_LoadFailureShowsError(t *testing.T) {
	b := newBackend()
	b.loadErr = errors.New("access denied")
	m := loaded(t, b)

	assert.Equal(t, "Failed to load programs: access denied", m.Err())
	assert.Contains(t, m.View(), "access denied")

	press(t, m, "enter")
	assert.Empty(t, m.Err())
}

func TestAppModel_ScanRequiresSelection(t *testing.T) {
	b := newBackend()
	m := loaded(t, b)

	cmd := update(t, m, ScanMsg{})
	assert.Nil(t, cmd)
	assert.Equal(t, ViewProgramList, m.State())
	assert.Empty(t, b.scanned)
}

func TestAppModel_ScanFlow(t *testing.T) {
	b := newBackend()
	m := scanned(t, b)

	require.Len(t, b.scanned, 1)
	assert.Equal(t, fooBar, b.scanned[0])
	assert.Equal(t, 3, m.Result().SelectedCount())

	view := m.View()
	assert.Contains(t, view, "Leftovers of Foo Bar (1.0)")
	assert.Contains(t, view, "[Registry]")
}

func TestAppModel_ScanFailureReturnsToList(t *testing.T) {
	b := newBackend()
	b.scanErr = errors.New("no search terms")
	m := loaded(t, b)

	update(t, m, ProgramSelectedMsg{Program: fooBar})
	cmd := update(t, m, ScanMsg{})
	update(t, m, batchCmd(t, cmd, 1)())

	assert.Equal(t, ViewProgramList, m.State())
	assert.Equal(t, "Error during scan: no search terms", m.Err())
	assert.Nil(t, m.Result())
}

func TestAppModel_ScanCompletedIgnoredOutsideScanning(t *testing.T) {
	b := newBackend()
	m := loaded(t, b)

	update(t, m, ScanCompletedMsg{Result: b.scanResult})
	assert.Equal(t, ViewProgramList, m.State())
	assert.Nil(t, m.Result())
}

func TestAppModel_SelectionMessages(t *testing.T) {
	m := scanned(t, newBackend())

	update(t, m, ResultToggledMsg{Index: 0, Selected: false})
	assert.Equal(t, 2, m.Result().SelectedCount())

	update(t, m, DeselectAllMsg{})
	assert.Equal(t, 0, m.Result().SelectedCount())

	update(t, m, SelectAllMsg{})
	assert.Equal(t, 3, m.Result().SelectedCount())
}

func TestAppModel_DeleteNeedsSelection(t *testing.T) {
	m := scanned(t, newBackend())

	update(t, m, DeselectAllMsg{})
	update(t, m, DeleteSelectedMsg{})
	assert.Equal(t, ViewScanResults, m.State())
}

func TestAppModel_ConfirmAndCancel(t *testing.T) {
	m := scanned(t, newBackend())

	update(t, m, DeleteSelectedMsg{})
	require.Equal(t, ViewConfirmingDelete, m.State())
	assert.Contains(t, m.View(), "You are about to delete 3 items")

	update(t, m, CancelDeleteMsg{})
	assert.Equal(t, ViewScanResults, m.State())
	assert.Equal(t, 3, m.Result().SelectedCount())
}

func TestAppModel_DeleteSuccess(t *testing.T) {
	b := newBackend()
	b.cleanRes = &cleaner.CleanResult{
		Deleted:    b.scanResult.Selected()[1:],
		BackupPath: `C:\Users\me\Documents\kuri-backups\x.txt`,
	}
	m := scanned(t, b)

	update(t, m, ResultToggledMsg{Index: 0, Selected: false})
	update(t, m, DeleteSelectedMsg{})
	update(t, m, BackupToggledMsg{Enabled: false})
	cmd := update(t, m, ConfirmDeleteMsg{})
	require.Equal(t, ViewDeleting, m.State())

	update(t, m, batchCmd(t, cmd, 1)())

	assert.Len(t, b.deletedSel, 2)
	assert.False(t, b.withBackup)
	assert.Equal(t, ViewProgramList, m.State())
	assert.Nil(t, m.Selected())
	assert.Nil(t, m.Result())
	assert.Contains(t, m.View(), "Deleted 2 items")
}

func TestAppModel_DeleteSuccessReloadsPrograms(t *testing.T) {
	b := newBackend()
	m := scanned(t, b)

	update(t, m, DeleteSelectedMsg{})
	update(t, m, ConfirmDeleteMsg{})

	b.programs = []program.Identity{notepad}
	cmd := update(t, m, DeleteCompletedMsg{Result: b.cleanRes})
	require.NotNil(t, cmd)

	msg, ok := cmd().(ProgramsLoadedMsg)
	require.True(t, ok)
	assert.Equal(t, []program.Identity{notepad}, msg.Programs)
}

func TestAppModel_DeleteFailureKeepsSelection(t *testing.T) {
	m := scanned(t, newBackend())

	update(t, m, ResultToggledMsg{Index: 2, Selected: false})
	update(t, m, DeleteSelectedMsg{})
	update(t, m, ConfirmDeleteMsg{})
	update(t, m, DeleteCompletedMsg{Err: errors.New("Failed to delete x: busy")})

	assert.Equal(t, ViewScanResults, m.State())
	assert.Equal(t, "An error occurred: Failed to delete x: busy", m.Err())
	require.NotNil(t, m.Result())
	assert.Equal(t, 2, m.Result().SelectedCount())
	assert.NotNil(t, m.Selected())
}

func TestAppModel_GuardsWhileDeleting(t *testing.T) {
	m := scanned(t, newBackend())

	update(t, m, DeleteSelectedMsg{})
	update(t, m, ConfirmDeleteMsg{})
	require.Equal(t, ViewDeleting, m.State())

	assert.Nil(t, update(t, m, key("ctrl+c")))
	assert.Nil(t, update(t, m, ConfirmDeleteMsg{}))

	update(t, m, BackupToggledMsg{Enabled: false})
	assert.True(t, m.Backup())

	update(t, m, DeselectAllMsg{})
	assert.Equal(t, 3, m.Result().SelectedCount())

	update(t, m, BackMsg{})
	assert.Equal(t, ViewDeleting, m.State())
}

func TestAppModel_BackReturnsToList(t *testing.T) {
	m := scanned(t, newBackend())

	press(t, m, "esc")
	assert.Equal(t, ViewProgramList, m.State())
	assert.Nil(t, m.Selected())
}

func TestAppModel_MessagesClearError(t *testing.T) {
	m := scanned(t, newBackend())

	update(t, m, DeleteSelectedMsg{})
	update(t, m, ConfirmDeleteMsg{})
	update(t, m, DeleteCompletedMsg{Err: errors.New("boom")})
	require.NotEmpty(t, m.Err())

	update(t, m, SelectAllMsg{})
	assert.Empty(t, m.Err())
}

func TestAppModel_ProgressUpdatesView(t *testing.T) {
	b := newBackend()
	m := loaded(t, b)
	update(t, m, ProgramSelectedMsg{Program: fooBar})
	update(t, m, ScanMsg{})

	update(t, m, ScanProgressMsg{Source: "registry", Location: `HKEY_CURRENT_USER\Software`, Found: 4})
	view := m.View()
	assert.Contains(t, view, "registry")
	assert.Contains(t, view, "Found so far:")
}

// ============================================================================
// Key Handling Tests
// ============================================================================

func TestAppModel_EnterSelectsThenScans(t *testing.T) {
	b := newBackend()
	m := loaded(t, b)

	press(t, m, "enter")
	require.NotNil(t, m.Selected())
	assert.Equal(t, "Foo Bar", m.Selected().Name)
	assert.Equal(t, ViewProgramList, m.State())

	press(t, m, "enter")
	assert.Equal(t, ViewScanning, m.State())
}

func TestAppModel_CursorSelectsOtherProgram(t *testing.T) {
	m := loaded(t, newBackend())

	press(t, m, "down")
	press(t, m, " ")
	require.NotNil(t, m.Selected())
	assert.Equal(t, "Notepad++", m.Selected().Name)
}

func TestAppModel_FilterNarrowsList(t *testing.T) {
	m := loaded(t, newBackend())

	update(t, m, key("/"))
	update(t, m, key("note"))
	update(t, m, key("enter"))

	p, ok := m.programView.Current()
	require.True(t, ok)
	assert.Equal(t, "Notepad++", p.Name)
	assert.NotContains(t, m.View(), "Foo Bar")
}

func TestAppModel_ResultKeys(t *testing.T) {
	m := scanned(t, newBackend())

	press(t, m, " ")
	assert.False(t, m.Result().Items[0].Selected)

	press(t, m, "n")
	assert.Equal(t, 0, m.Result().SelectedCount())

	press(t, m, "a")
	assert.Equal(t, 3, m.Result().SelectedCount())

	press(t, m, "b")
	assert.False(t, m.Backup())

	press(t, m, "d")
	assert.Equal(t, ViewConfirmingDelete, m.State())
}

func TestAppModel_ConfirmDefaultsToCancelForRegistry(t *testing.T) {
	m := scanned(t, newBackend())

	press(t, m, "d")
	require.Equal(t, ViewConfirmingDelete, m.State())
	assert.Contains(t, m.View(), "Registry keys are deleted permanently")

	press(t, m, "enter")
	assert.Equal(t, ViewScanResults, m.State())
}

func TestAppModel_ConfirmDefaultsToDeleteForFiles(t *testing.T) {
	m := scanned(t, newBackend())

	update(t, m, ResultToggledMsg{Index: 2, Selected: false})
	press(t, m, "d")

	cmd := update(t, m, key("enter"))
	require.NotNil(t, cmd)
	assert.Equal(t, ConfirmDeleteMsg{}, cmd())
}

func TestAppModel_HelpOverlay(t *testing.T) {
	m := loaded(t, newBackend())

	press(t, m, "?")
	assert.True(t, strings.HasPrefix(stripANSI(m.View()), "Help - Installed Programs"))

	press(t, m, "x")
	assert.NotContains(t, m.View(), "Help -")
}

func TestAppModel_QuitKeys(t *testing.T) {
	m := loaded(t, newBackend())

	cmd := update(t, m, key("ctrl+c"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

// ============================================================================
// View Model Tests
// ============================================================================

func TestProgressViewModel_Percent(t *testing.T) {
	m := NewDeleteProgressModel(4)
	assert.Zero(t, m.Percent())

	m.Update(DeleteProgressMsg{Done: 1, Total: 4, Current: scanner.File(`C:\a.txt`)})
	assert.InDelta(t, 0.25, m.Percent(), 0.001)
	assert.Contains(t, m.View(), "a.txt")
}

func TestViewState_String(t *testing.T) {
	tests := []struct {
		state ViewState
		want  string
	}{
		{ViewProgramList, "program list"},
		{ViewScanning, "scanning"},
		{ViewScanResults, "scan results"},
		{ViewConfirmingDelete, "confirming delete"},
		{ViewDeleting, "deleting"},
		{ViewState(99), "unknown"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.state.String())
	}
}

// stripANSI removes terminal escape sequences
func stripANSI(s string) string {
	var b strings.Builder
	inEscape := false
	for _, r := range s {
		switch {
		case r == '\x1b':
			inEscape = true
		case inEscape && (r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z'):
			inEscape = false
		case !inEscape:
			b.WriteRune(r)
		}
	}
	return b.String()
}
