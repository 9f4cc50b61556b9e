// Package uninstaller ties program enumeration, scanning and deletion
// together. A Service runs at most one scan or deletion at a time, both
// inside the process and across kuri processes sharing a state directory.
package uninstaller

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/fenilsonani/kuri-uninstaller/internal/cleaner"
	"github.com/fenilsonani/kuri-uninstaller/internal/config"
	"github.com/fenilsonani/kuri-uninstaller/internal/instance"
	"github.com/fenilsonani/kuri-uninstaller/internal/logging"
	"github.com/fenilsonani/kuri-uninstaller/internal/platform"
	"github.com/fenilsonani/kuri-uninstaller/internal/program"
	"github.com/fenilsonani/kuri-uninstaller/internal/registry"
	"github.com/fenilsonani/kuri-uninstaller/internal/scanner"
	"github.com/fenilsonani/kuri-uninstaller/internal/security"
)

var (
	// ErrBusy is returned when a scan or deletion is already running
	ErrBusy = errors.New("another scan or deletion is in progress")
	// ErrNothingSelected is returned when a deletion has no selected items
	ErrNothingSelected = errors.New("no items selected")
)

// Options describe the machine a Service works on
type Options struct {
	Config   *config.Config
	Platform *platform.Info
	Fs       afero.Fs
	Registry registry.Store
	Trash    cleaner.Trasher

	// Sessions records deletions; nil disables history
	Sessions *config.SessionManager
	// LockDir holds the cross-process lock; empty disables it
	LockDir string
	Logs    logging.LoggerProvider
}

// Service runs scans and deletions for installed programs
type Service struct {
	cfg      *config.Config
	info     *platform.Info
	store    registry.Store
	scanner  *scanner.Scanner
	cleaner  *cleaner.Cleaner
	sessions *config.SessionManager
	lockDir  string
	logger   *zap.Logger

	busy sync.Mutex
}

// New creates a Service. Every search root is guarded so that it can be
// emptied but never deleted itself.
func New(opts Options) *Service {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.GetDefault()
	}
	logs := opts.Logs
	if logs == nil {
		logs = logging.Nop()
	}

	roots := opts.Platform.SearchRoots()

	validator := security.NewPathValidator()
	for _, path := range cfg.ProtectedPaths {
		validator.AddProtectedPath(path)
	}
	for _, path := range roots {
		validator.AddExactPath(path)
	}
	validator.AddExactPath(opts.Platform.HomeDir)
	validator.AddExactPath(opts.Platform.DocumentsDir)
	for _, path := range opts.Platform.ExcludedDirs() {
		validator.AddProtectedPath(path)
	}

	sc := scanner.New(opts.Fs, opts.Registry, roots, logs.For("scanner"))
	sc.ExcludeDirs(opts.Platform.ExcludedDirs()...)

	backup := cleaner.NewBackupLogger(opts.Fs, opts.Platform.DocumentsDir, cfg.Backup.DirName)

	s := &Service{
		cfg:      cfg,
		info:     opts.Platform,
		store:    opts.Registry,
		scanner:  sc,
		cleaner:  cleaner.New(opts.Registry, opts.Trash, backup, validator, logs.For("cleaner")),
		sessions: opts.Sessions,
		lockDir:  opts.LockDir,
		logger:   logs.For("uninstaller"),
	}

	if opts.Platform.ProgramDataIsStandIn {
		s.logger.Debug("machine-wide data root approximated by local data",
			zap.String("dir", opts.Platform.ProgramDataDir))
	}

	return s
}

// Open builds a Service for the running machine
func Open(cfg *config.Config, logs logging.LoggerProvider) (*Service, error) {
	info, err := platform.GetInfo()
	if err != nil {
		return nil, fmt.Errorf("failed to get platform info: %w", err)
	}
	info.SetProgramDataDir(cfg.Scan.ProgramDataDir)

	fs := afero.NewOsFs()

	var sessions *config.SessionManager
	if cfg.History.Enabled {
		sessions, err = config.NewSessionManager(fs, config.DefaultSessionsDir())
		if err != nil {
			return nil, err
		}
	}

	return New(Options{
		Config:   cfg,
		Platform: info,
		Fs:       fs,
		Registry: registry.NewSystemStore(),
		Trash:    cleaner.NewSystemTrash(info),
		Sessions: sessions,
		LockDir:  config.StatePath(""),
		Logs:     logs,
	}), nil
}

// Platform returns the machine locations the Service searches
func (s *Service) Platform() *platform.Info {
	return s.info
}

// BackupDefault reports whether registry backups are on unless overridden
func (s *Service) BackupDefault() bool {
	return s.cfg.Backup.Enabled
}

// Sessions returns the deletion history, or nil when it is disabled
func (s *Service) Sessions() *config.SessionManager {
	return s.sessions
}

// SetScanProgress sets the callback invoked as scan locations are visited
func (s *Service) SetScanProgress(cb scanner.ProgressCallback) {
	s.scanner.SetProgressCallback(cb)
}

// SetDeleteProgress sets the callback invoked as items are deleted
func (s *Service) SetDeleteProgress(cb cleaner.ProgressCallback) {
	s.cleaner.SetProgressCallback(cb)
}

// LoadPrograms lists installed programs from the uninstall registry
func (s *Service) LoadPrograms() ([]program.Identity, error) {
	programs, err := program.LoadInstalled(s.store)
	if err != nil {
		return nil, fmt.Errorf("failed to load installed programs: %w", err)
	}
	s.logger.Debug("programs loaded", zap.Int("count", len(programs)))
	return programs, nil
}

// Scan searches for leftovers of a program
func (s *Service) Scan(ctx context.Context, id program.Identity) (*scanner.ScanResult, error) {
	release, err := s.begin()
	if err != nil {
		return nil, err
	}
	defer release()

	logger := s.logger.With(zap.String("op", uuid.NewString()))
	logger.Info("scan requested", zap.String("program", id.Label()))

	result, err := s.scanner.Scan(ctx, id)
	if err != nil {
		logger.Warn("scan failed", zap.Error(err))
		return nil, err
	}
	return result, nil
}

// Delete removes the selected items of a scan result. The returned error is
// nil, ErrBusy, ErrNothingSelected or a *cleaner.BatchError.
func (s *Service) Delete(result *scanner.ScanResult, withBackup bool) (*cleaner.CleanResult, error) {
	artifacts := result.Selected()
	if len(artifacts) == 0 {
		return nil, ErrNothingSelected
	}

	release, err := s.begin()
	if err != nil {
		return nil, err
	}
	defer release()

	logger := s.logger.With(zap.String("op", uuid.NewString()))
	logger.Info("deletion requested",
		zap.String("program", result.Program.Label()),
		zap.Int("selected", len(artifacts)))

	cleanResult, deleteErr := s.cleaner.Delete(artifacts, withBackup)
	s.record(logger, result.Program, cleanResult)

	return cleanResult, deleteErr
}

// begin claims the single unit-of-work slot
func (s *Service) begin() (func(), error) {
	if !s.busy.TryLock() {
		return nil, ErrBusy
	}

	if s.lockDir == "" {
		return s.busy.Unlock, nil
	}

	fl, err := instance.Lock(s.lockDir)
	if err != nil {
		s.busy.Unlock()
		return nil, err
	}

	return func() {
		instance.Cleanup(s.lockDir, fl)
		s.busy.Unlock()
	}, nil
}

// record saves the deletion to history. Failures are logged only.
func (s *Service) record(logger *zap.Logger, id program.Identity, result *cleaner.CleanResult) {
	if s.sessions == nil || result == nil {
		return
	}

	session := &config.Session{
		Timestamp:      time.Now(),
		ProgramName:    id.Name,
		ProgramVersion: id.Version,
		BackupPath:     result.BackupPath,
	}
	for _, a := range result.Deleted {
		session.Deleted = append(session.Deleted, a.String())
	}
	for _, e := range result.Errors {
		session.Failed = append(session.Failed, e.Error())
	}

	if err := s.sessions.Save(session); err != nil {
		logger.Warn("failed to save session", zap.Error(err))
		return
	}

	removed, err := s.sessions.CleanOldSessions(s.cfg.History.KeepDays)
	if err != nil {
		logger.Warn("failed to prune sessions", zap.Error(err))
	} else if removed > 0 {
		logger.Debug("pruned sessions", zap.Int("removed", removed))
	}
}
