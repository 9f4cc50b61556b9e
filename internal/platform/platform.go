package platform

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/adrg/xdg"
)

// Platform represents the operating system platform
type Platform string

const (
	Windows Platform = "windows"
	MacOS   Platform = "darwin"
	Linux   Platform = "linux"
	Unknown Platform = "unknown"
)

// Info contains the per-user locations leftovers are searched in
type Info struct {
	OS             Platform
	HomeDir        string
	LocalDataDir   string // per-user local application data
	RoamingDataDir string // per-user roaming application data
	ConfigDir      string // per-user configuration
	ProgramDataDir string // machine-wide application data, see ProgramDataIsStandIn
	DocumentsDir   string
	TrashDir       string // home trash on non-Windows platforms

	// ProgramDataIsStandIn is true while ProgramDataDir is approximated by
	// LocalDataDir rather than the real machine-wide location.
	ProgramDataIsStandIn bool
}

// Detect returns the current platform
func Detect() Platform {
	switch runtime.GOOS {
	case "windows":
		return Windows
	case "darwin":
		return MacOS
	case "linux":
		return Linux
	default:
		return Unknown
	}
}

// GetInfo resolves the platform directories
func GetInfo() (*Info, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	info := &Info{
		OS:           Detect(),
		HomeDir:      homeDir,
		LocalDataDir: xdg.DataHome,
		DocumentsDir: xdg.UserDirs.Documents,
	}

	switch info.OS {
	case Windows:
		roaming, err := os.UserConfigDir()
		if err != nil {
			return nil, err
		}
		info.RoamingDataDir = roaming
		info.ConfigDir = roaming
	case MacOS:
		info.RoamingDataDir = xdg.DataHome
		info.ConfigDir = xdg.ConfigHome
		info.TrashDir = filepath.Join(homeDir, ".Trash")
	case Linux:
		info.RoamingDataDir = xdg.DataHome
		info.ConfigDir = xdg.ConfigHome
		info.TrashDir = filepath.Join(xdg.DataHome, "Trash")
	default:
		return nil, ErrUnsupportedPlatform
	}

	info.ProgramDataDir = info.LocalDataDir
	info.ProgramDataIsStandIn = true

	return info, nil
}

// SetProgramDataDir replaces the machine-wide data stand-in with a real
// location. An empty dir keeps the stand-in.
func (i *Info) SetProgramDataDir(dir string) {
	if dir == "" {
		return
	}
	i.ProgramDataDir = dir
	i.ProgramDataIsStandIn = false
}

// SearchRoots returns the fixed roots walked for leftover files, in order:
// local data, roaming data, configuration, machine-wide data. Empty entries
// are omitted; duplicates are kept.
func (i *Info) SearchRoots() []string {
	var roots []string
	for _, dir := range []string{i.LocalDataDir, i.RoamingDataDir, i.ConfigDir, i.ProgramDataDir} {
		if dir != "" {
			roots = append(roots, dir)
		}
	}
	return roots
}

// ExcludedDirs returns directories under the search roots that never hold
// leftovers: the trash that deleted items are moved to
func (i *Info) ExcludedDirs() []string {
	if i.TrashDir == "" {
		return nil
	}
	return []string{i.TrashDir}
}

// Errors
var (
	ErrUnsupportedPlatform = &PlatformError{"unsupported platform"}
	ErrNotElevated         = &PlatformError{"administrator privileges required"}
)

// PlatformError represents a platform-related error
type PlatformError struct {
	Message string
}

func (e *PlatformError) Error() string {
	return e.Message
}

// RequireElevated returns ErrNotElevated unless the process runs with
// administrator rights
func RequireElevated() error {
	if !IsElevated() {
		return ErrNotElevated
	}
	return nil
}
