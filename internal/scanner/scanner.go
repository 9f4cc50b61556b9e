package scanner

import (
	"context"
	"errors"
	"time"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/fenilsonani/kuri-uninstaller/internal/program"
	"github.com/fenilsonani/kuri-uninstaller/internal/registry"
)

// ErrNoSearchTerms is returned when a program yields no usable search term.
// Scanning with no terms would otherwise match nothing useful.
var ErrNoSearchTerms = errors.New("program has no usable search terms")

// Scanner coordinates the filesystem and registry scans for one program
type Scanner struct {
	files    *FilesystemScanner
	registry *RegistryScanner
	logger   *zap.Logger
	progress ProgressCallback
}

// New creates a scanner over the given filesystem roots and the default
// registry roots
func New(fs afero.Fs, store registry.Store, roots []string, logger *zap.Logger) *Scanner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scanner{
		files:    NewFilesystemScanner(fs, roots, logger.Named("filesystem")),
		registry: NewRegistryScanner(store, DefaultRegistryRoots, logger.Named("registry")),
		logger:   logger,
	}
}

// ExcludeDirs keeps directories out of the filesystem walk
func (s *Scanner) ExcludeDirs(dirs ...string) {
	s.files.Exclude(dirs...)
}

// SetProgressCallback sets the callback invoked as each location is visited
func (s *Scanner) SetProgressCallback(cb ProgressCallback) {
	s.progress = cb
}

// Scan searches for leftovers of a program. The filesystem roots are walked
// first, then the registry roots, and the results are merged into canonical
// order with every item selected. Locations that cannot be read are skipped.
// The context is only consulted before the scan starts; once running, a scan
// completes.
func (s *Scanner) Scan(ctx context.Context, id program.Identity) (*ScanResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	terms := GenerateTerms(id)
	if len(terms) == 0 {
		return nil, ErrNoSearchTerms
	}

	start := time.Now()
	s.logger.Info("scan started",
		zap.String("program", id.Name),
		zap.Strings("terms", terms))

	files := s.files.Scan(terms, id.InstallLocation, s.progress)
	keys := s.registry.Scan(terms, s.progress)

	result := NewScanResult(id, terms, Aggregate(files, keys))

	s.logger.Info("scan finished",
		zap.String("program", id.Name),
		zap.Int("files", len(files)),
		zap.Int("registry_keys", len(keys)),
		zap.Int("candidates", result.Len()),
		zap.Duration("elapsed", time.Since(start)))

	return result, nil
}
