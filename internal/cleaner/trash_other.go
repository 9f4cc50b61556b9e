//go:build !windows

package cleaner

import (
	"github.com/spf13/afero"

	"github.com/fenilsonani/kuri-uninstaller/internal/platform"
)

// NewSystemTrash returns the user's home trash. Linux records .trashinfo
// files; the macOS ~/.Trash takes entries as they are.
func NewSystemTrash(info *platform.Info) Trasher {
	return NewHomeTrash(afero.NewOsFs(), info.TrashDir, info.OS == platform.Linux)
}
