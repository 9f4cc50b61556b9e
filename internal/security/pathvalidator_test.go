package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePathForDeletion(t *testing.T) {
	pv := newUnixValidator()
	pv.AddExactPath("/home/user/.local/share")

	tests := []struct {
		name        string
		path        string
		shouldError bool
		errorMsg    string
	}{
		{
			name: "leftover under scan root",
			path: "/home/user/.local/share/FooApp",
		},
		{
			name: "deep file under scan root",
			path: "/home/user/.local/share/FooApp/cache/foo.db",
		},
		{
			name:        "relative path",
			path:        "relative/path.txt",
			shouldError: true,
			errorMsg:    "path must be absolute",
		},
		{
			name:        "parent reference",
			path:        "/home/user/.local/share/../../../etc",
			shouldError: true,
			errorMsg:    "suspicious elements",
		},
		{
			name:        "NUL byte",
			path:        "/tmp/foo\x00bar",
			shouldError: true,
			errorMsg:    "NUL byte",
		},
		{
			name:        "filesystem root",
			path:        "/",
			shouldError: true,
			errorMsg:    "protected path",
		},
		{
			name:        "scan root itself",
			path:        "/home/user/.local/share",
			shouldError: true,
			errorMsg:    "protected path",
		},
		{
			name:        "scan root with trailing slash",
			path:        "/home/user/.local/share/",
			shouldError: true,
			errorMsg:    "protected path",
		},
		{
			name:        "system directory",
			path:        "/etc",
			shouldError: true,
			errorMsg:    "protected path",
		},
		{
			name:        "direct child of system directory",
			path:        "/usr/bin",
			shouldError: true,
			errorMsg:    "critical system path",
		},
		{
			name: "deep entry under system directory",
			path: "/var/cache/fooapp",
		},
		{
			name: "path with parentheses",
			path: "/opt/Foo (x86)/foo.dll",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := pv.ValidatePathForDeletion(tt.path)
			if !tt.shouldError {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorMsg)
		})
	}
}

func TestIsProtectedPath(t *testing.T) {
	pv := newUnixValidator()

	assert.True(t, pv.IsProtectedPath("/"))
	assert.True(t, pv.IsProtectedPath("/usr/local/lib"))
	assert.True(t, pv.IsProtectedPath("/Users"))
	assert.False(t, pv.IsProtectedPath("/Users/me/Library/FooApp"))
	assert.False(t, pv.IsProtectedPath("/opt/fooapp"))
}

func TestAddProtectedPath(t *testing.T) {
	pv := newUnixValidator()
	pv.AddProtectedPath("/srv/data/")

	assert.Error(t, pv.ValidatePathForDeletion("/srv/data"))
	assert.Error(t, pv.ValidatePathForDeletion("/srv/data/foo"))
	assert.NoError(t, pv.ValidatePathForDeletion("/srv/data/foo/bar"))
}

func TestAddExactPathIgnoresEmpty(t *testing.T) {
	pv := newUnixValidator()
	before := len(pv.exactPaths)

	pv.AddExactPath("")

	assert.Len(t, pv.exactPaths, before)
}

func TestWindowsDefaults(t *testing.T) {
	env := map[string]string{
		"SystemDrive":  "D:",
		"ProgramFiles": `D:\Program Files`,
	}
	pv := newWindowsValidator(func(k string) string { return env[k] })

	assert.True(t, pv.foldCase)
	assert.Equal(t, []string{`D:\Windows`}, pv.protectedPaths)
	assert.Equal(t, []string{
		`D:\`,
		`D:\Program Files`,
		`D:\Program Files (x86)`,
		`D:\ProgramData`,
		`D:\Users`,
	}, pv.exactPaths)
	assert.True(t, pv.equal(`d:\program files`, `D:\Program Files`))
}
