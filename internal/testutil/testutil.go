// Package testutil provides test helpers and fixtures for kuri tests.
// Filesystems are in-memory afero trees and registries are in-memory stores,
// so tests never touch the real machine.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"

	"github.com/fenilsonani/kuri-uninstaller/internal/program"
	"github.com/fenilsonani/kuri-uninstaller/internal/registry"
)

// TestFixture holds an in-memory machine: a filesystem with the standard
// search roots and a registry with the standard software roots
type TestFixture struct {
	T        *testing.T
	Fs       afero.Fs
	Registry *registry.MemoryStore
	RootDir  string

	LocalDataDir   string
	RoamingDataDir string
	ConfigDir      string
	ProgramDataDir string
	DocumentsDir   string
	TrashDir       string
}

// NewFixture creates a fixture with every search root present and empty
func NewFixture(t *testing.T) *TestFixture {
	t.Helper()

	root := filepath.Join(string(filepath.Separator), "machine")

	f := &TestFixture{
		T:              t,
		Fs:             afero.NewMemMapFs(),
		Registry:       registry.NewMemoryStore(),
		RootDir:        root,
		LocalDataDir:   filepath.Join(root, "AppData", "Local"),
		RoamingDataDir: filepath.Join(root, "AppData", "Roaming"),
		ConfigDir:      filepath.Join(root, "Config"),
		ProgramDataDir: filepath.Join(root, "ProgramData"),
		DocumentsDir:   filepath.Join(root, "Documents"),
		TrashDir:       filepath.Join(root, "Trash"),
	}

	dirs := []string{
		f.LocalDataDir,
		f.RoamingDataDir,
		f.ConfigDir,
		f.ProgramDataDir,
		f.DocumentsDir,
	}

	for _, dir := range dirs {
		if err := f.Fs.MkdirAll(dir, 0755); err != nil {
			t.Fatalf("failed to create directory %s: %v", dir, err)
		}
	}

	f.Registry.CreateKey(registry.LocalMachine, "SOFTWARE")
	f.Registry.CreateKey(registry.LocalMachine, `SOFTWARE\Wow6432Node`)
	f.Registry.CreateKey(registry.CurrentUser, "Software")

	return f
}

// SearchRoots returns the fixture's filesystem roots in scan order
func (f *TestFixture) SearchRoots() []string {
	return []string{f.LocalDataDir, f.RoamingDataDir, f.ConfigDir, f.ProgramDataDir}
}

// =============================================================================
// File Creation Helpers
// =============================================================================

// CreateFile creates a file below the fixture root and returns its path
func (f *TestFixture) CreateFile(relPath string, content []byte) string {
	f.T.Helper()

	fullPath := f.Path(relPath)
	if err := f.Fs.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		f.T.Fatalf("failed to create directory for %s: %v", fullPath, err)
	}

	if err := afero.WriteFile(f.Fs, fullPath, content, 0644); err != nil {
		f.T.Fatalf("failed to create file %s: %v", fullPath, err)
	}

	return fullPath
}

// CreateDir creates a directory below the fixture root and returns its path
func (f *TestFixture) CreateDir(relPath string) string {
	f.T.Helper()

	fullPath := f.Path(relPath)
	if err := f.Fs.MkdirAll(fullPath, 0755); err != nil {
		f.T.Fatalf("failed to create directory %s: %v", fullPath, err)
	}

	return fullPath
}

// =============================================================================
// Registry Helpers
// =============================================================================

// CreateKey creates a registry key and its parents
func (f *TestFixture) CreateKey(h registry.Hive, path string) {
	f.T.Helper()
	f.Registry.CreateKey(h, path)
}

// InstallProgram registers an uninstall entry for a program
func (f *TestFixture) InstallProgram(id program.Identity) {
	f.T.Helper()

	path := registry.Join(program.UninstallPaths[0], id.Name)
	f.Registry.SetStringValue(registry.LocalMachine, path, "DisplayName", id.Name)
	if id.Version != "" {
		f.Registry.SetStringValue(registry.LocalMachine, path, "DisplayVersion", id.Version)
	}
	if id.InstallLocation != "" {
		f.Registry.SetStringValue(registry.LocalMachine, path, "InstallLocation", id.InstallLocation)
	}
}

// =============================================================================
// Path Helpers
// =============================================================================

// Path returns the full path for a relative path within the fixture
func (f *TestFixture) Path(relPath string) string {
	return filepath.Join(f.RootDir, relPath)
}

// =============================================================================
// Assertion Helpers
// =============================================================================

// FileExists checks if a path exists in the fixture filesystem
func (f *TestFixture) FileExists(path string) bool {
	_, err := f.Fs.Stat(path)
	return err == nil
}

// AssertFileExists fails the test if the path doesn't exist
func (f *TestFixture) AssertFileExists(path string) {
	f.T.Helper()
	if !f.FileExists(path) {
		f.T.Errorf("expected file to exist: %s", path)
	}
}

// AssertFileNotExists fails the test if the path exists
func (f *TestFixture) AssertFileNotExists(path string) {
	f.T.Helper()
	if f.FileExists(path) {
		f.T.Errorf("expected file to not exist: %s", path)
	}
}

// AssertKeyExists fails the test if the registry key doesn't exist
func (f *TestFixture) AssertKeyExists(h registry.Hive, path string) {
	f.T.Helper()
	if !f.Registry.KeyExists(h, path) {
		f.T.Errorf("expected registry key to exist: %s\\%s", h, path)
	}
}

// AssertKeyNotExists fails the test if the registry key exists
func (f *TestFixture) AssertKeyNotExists(h registry.Hive, path string) {
	f.T.Helper()
	if f.Registry.KeyExists(h, path) {
		f.T.Errorf("expected registry key to not exist: %s\\%s", h, path)
	}
}

// ReadFile returns the content of a fixture file
func (f *TestFixture) ReadFile(path string) string {
	f.T.Helper()
	data, err := afero.ReadFile(f.Fs, path)
	if err != nil {
		f.T.Fatalf("failed to read %s: %v", path, err)
	}
	return string(data)
}

// Entries returns the entries of a fixture directory
func (f *TestFixture) Entries(dir string) []os.FileInfo {
	f.T.Helper()
	infos, err := afero.ReadDir(f.Fs, dir)
	if err != nil {
		f.T.Fatalf("failed to read directory %s: %v", dir, err)
	}
	return infos
}
