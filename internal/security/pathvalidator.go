package security

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// PathValidator refuses deletion of locations that must never be sent to
// the trash, whatever matched during a scan
type PathValidator struct {
	// Paths refused themselves along with their direct children
	protectedPaths []string
	// Paths refused only themselves; their contents may be deleted
	exactPaths []string
	// Windows paths compare without case
	foldCase bool
}

// NewPathValidator creates a PathValidator with the protected paths of the
// running platform
func NewPathValidator() *PathValidator {
	if runtime.GOOS == "windows" {
		return newWindowsValidator(os.Getenv)
	}
	return newUnixValidator()
}

func newUnixValidator() *PathValidator {
	return &PathValidator{
		protectedPaths: []string{
			// Unix system directories
			"/bin",
			"/boot",
			"/dev",
			"/etc",
			"/lib",
			"/lib64",
			"/proc",
			"/root",
			"/sbin",
			"/sys",
			"/usr",
			"/var",
			// macOS system directories
			"/System",
			"/Library/System",
		},
		exactPaths: []string{
			"/",
			"/Applications",
			"/home",
			"/Users",
		},
	}
}

func newWindowsValidator(getenv func(string) string) *PathValidator {
	drive := getenv("SystemDrive")
	if drive == "" {
		drive = "C:"
	}
	orDefault := func(name, def string) string {
		if v := getenv(name); v != "" {
			return v
		}
		return drive + `\` + def
	}

	return &PathValidator{
		protectedPaths: []string{
			orDefault("SystemRoot", "Windows"),
		},
		exactPaths: []string{
			drive + `\`,
			orDefault("ProgramFiles", "Program Files"),
			orDefault("ProgramFiles(x86)", "Program Files (x86)"),
			orDefault("ProgramData", "ProgramData"),
			drive + `\Users`,
		},
		foldCase: true,
	}
}

// ValidatePathForDeletion checks a filesystem candidate before it is sent to
// the trash. The check is lexical: the trash moves links, never their targets.
func (pv *PathValidator) ValidatePathForDeletion(path string) error {
	// Step 1: Path must be absolute
	if !filepath.IsAbs(path) {
		return fmt.Errorf("path must be absolute: %s", path)
	}

	// Step 2: Reject NUL bytes and parent references
	if strings.ContainsRune(path, 0) {
		return fmt.Errorf("path contains a NUL byte: %q", path)
	}
	for _, part := range strings.FieldsFunc(path, isSeparator) {
		if part == ".." {
			return fmt.Errorf("path contains suspicious elements: %s", path)
		}
	}

	// Step 3: Check against protected paths
	return pv.checkProtectedPaths(filepath.Clean(path))
}

// checkProtectedPaths validates that a path is not a protected location
func (pv *PathValidator) checkProtectedPaths(cleanPath string) error {
	for _, exact := range pv.exactPaths {
		if pv.equal(cleanPath, exact) {
			return fmt.Errorf("refusing to delete protected path: %s", cleanPath)
		}
	}

	for _, protected := range pv.protectedPaths {
		if pv.equal(cleanPath, protected) {
			return fmt.Errorf("refusing to delete protected path: %s", cleanPath)
		}

		// Direct children of a system directory are critical,
		// deeper entries (caches, temp files) are not
		if pv.equal(filepath.Dir(cleanPath), protected) {
			return fmt.Errorf("refusing to delete critical system path: %s", cleanPath)
		}
	}

	return nil
}

// IsProtectedPath reports whether a path is inside a protected system
// directory or is itself a protected location
func (pv *PathValidator) IsProtectedPath(path string) bool {
	cleanPath := filepath.Clean(path)
	for _, exact := range pv.exactPaths {
		if pv.equal(cleanPath, exact) {
			return true
		}
	}
	for _, protected := range pv.protectedPaths {
		if pv.equal(cleanPath, protected) || pv.hasPrefix(cleanPath, protected) {
			return true
		}
	}
	return false
}

// AddProtectedPath protects a path and its direct children
func (pv *PathValidator) AddProtectedPath(path string) {
	pv.protectedPaths = append(pv.protectedPaths, filepath.Clean(path))
}

// AddExactPath protects a path itself while leaving its contents deletable.
// Scan roots are registered this way.
func (pv *PathValidator) AddExactPath(path string) {
	if path == "" {
		return
	}
	pv.exactPaths = append(pv.exactPaths, filepath.Clean(path))
}

func (pv *PathValidator) equal(a, b string) bool {
	if pv.foldCase {
		return strings.EqualFold(a, b)
	}
	return a == b
}

func (pv *PathValidator) hasPrefix(path, dir string) bool {
	prefix := strings.TrimRight(dir, `/\`) + string(filepath.Separator)
	if pv.foldCase {
		return len(path) >= len(prefix) && strings.EqualFold(path[:len(prefix)], prefix)
	}
	return strings.HasPrefix(path, prefix)
}

func isSeparator(r rune) bool {
	return r == '/' || r == '\\'
}
