package scanner

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// FilesystemScanner walks a fixed set of roots looking for entries whose
// names contain a search term
type FilesystemScanner struct {
	fs       afero.Fs
	roots    []string
	excluded []string
	logger   *zap.Logger
}

// NewFilesystemScanner creates a scanner over the given roots
func NewFilesystemScanner(fs afero.Fs, roots []string, logger *zap.Logger) *FilesystemScanner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FilesystemScanner{
		fs:     fs,
		roots:  roots,
		logger: logger,
	}
}

// Exclude keeps the given directories and everything below them out of the
// walk, such as a trash living inside a search root
func (s *FilesystemScanner) Exclude(dirs ...string) {
	for _, dir := range dirs {
		if dir != "" {
			s.excluded = append(s.excluded, filepath.Clean(dir))
		}
	}
}

func (s *FilesystemScanner) isExcluded(path string) bool {
	path = filepath.Clean(path)
	for _, dir := range s.excluded {
		if path == dir || (runtime.GOOS == "windows" && strings.EqualFold(path, dir)) {
			return true
		}
	}
	return false
}

// Roots returns the roots walked for a given install location: the fixed
// roots followed by the install location when it exists
func (s *FilesystemScanner) Roots(installLocation string) []string {
	roots := make([]string, 0, len(s.roots)+1)
	roots = append(roots, s.roots...)

	if installLocation != "" {
		if exists, _ := afero.Exists(s.fs, installLocation); exists {
			roots = append(roots, installLocation)
		}
	}

	return roots
}

// Scan walks every root and returns the matching entries in walk order
func (s *FilesystemScanner) Scan(terms []string, installLocation string, progress ProgressCallback) []Artifact {
	var found []Artifact

	for _, root := range s.Roots(installLocation) {
		if progress != nil {
			progress("filesystem", root, len(found))
		}
		found = append(found, s.walkRoot(root, terms)...)
	}

	return found
}

// walkRoot walks one root. Matched directories are still descended into.
// Unreadable entries are skipped and only logged.
func (s *FilesystemScanner) walkRoot(root string, terms []string) []Artifact {
	var found []Artifact
	skipped := 0

	_ = afero.Walk(s.fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			skipped++
			s.logger.Debug("skipping unreadable entry", zap.String("path", path), zap.Error(err))
			return nil
		}

		if info.IsDir() && s.isExcluded(path) {
			s.logger.Debug("skipping excluded directory", zap.String("path", path))
			return filepath.SkipDir
		}

		if !Matches(info.Name(), terms) {
			return nil
		}

		if info.IsDir() {
			found = append(found, Directory(path))
		} else {
			found = append(found, File(path))
		}
		return nil
	})

	s.logger.Debug("walked root",
		zap.String("root", root),
		zap.Int("matches", len(found)),
		zap.Int("skipped", skipped))

	return found
}
