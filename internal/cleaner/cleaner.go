package cleaner

import (
	"errors"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/fenilsonani/kuri-uninstaller/internal/registry"
	"github.com/fenilsonani/kuri-uninstaller/internal/scanner"
	"github.com/fenilsonani/kuri-uninstaller/internal/security"
)

// errMissingKeyName is recorded for registry paths without a leaf key
var errMissingKeyName = errors.New("missing key name")

// CleanResult represents the result of a deletion batch
type CleanResult struct {
	Deleted    []scanner.Artifact
	Errors     []*DeletionError
	BackupPath string
}

// ProgressCallback is called after each item of a batch is processed
type ProgressCallback func(done, total int, current scanner.Artifact)

// Cleaner deletes selected artifacts: files and folders go to the trash,
// registry keys are removed permanently
type Cleaner struct {
	store         registry.Store
	trash         Trasher
	backup        *BackupLogger
	pathValidator *security.PathValidator
	logger        *zap.Logger
	progress      ProgressCallback
}

// New creates a new Cleaner. A nil validator disables the path safety check.
func New(store registry.Store, trash Trasher, backup *BackupLogger, validator *security.PathValidator, logger *zap.Logger) *Cleaner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cleaner{
		store:         store,
		trash:         trash,
		backup:        backup,
		pathValidator: validator,
		logger:        logger,
	}
}

// SetProgressCallback sets a callback invoked as items are processed
func (c *Cleaner) SetProgressCallback(cb ProgressCallback) {
	c.progress = cb
}

// Delete processes every artifact independently. When withBackup is set and
// the batch holds registry keys, the keys are logged first; a failed log is
// recorded but does not stop the batch. Items deleted before a failure stay
// deleted. The returned error is nil or a *BatchError listing every failure
// in processing order.
func (c *Cleaner) Delete(artifacts []scanner.Artifact, withBackup bool) (*CleanResult, error) {
	result := &CleanResult{}
	failures := &BatchError{}
	startTime := time.Now()

	c.logger.Info("deletion started",
		zap.Int("items", len(artifacts)),
		zap.Bool("backup", withBackup))

	if withBackup {
		if keys := registryKeys(artifacts); len(keys) > 0 {
			path, err := c.writeBackup(keys)
			if err != nil {
				failures.add(newDeletionError("", ErrorBackupFailed, err))
				c.logger.Warn("registry backup failed", zap.Error(err))
			} else {
				result.BackupPath = path
				c.logger.Info("registry backup written",
					zap.String("path", path),
					zap.Int("keys", len(keys)))
			}
		}
	}

	// Directories already in the trash; selected entries below them went along
	var trashedDirs []string

	for i, artifact := range artifacts {
		var delErr *DeletionError
		switch artifact.Kind {
		case scanner.KindFile, scanner.KindDirectory:
			if parent, ok := containingDir(trashedDirs, artifact.Path); ok {
				c.logger.Debug("removed with parent folder",
					zap.String("item", artifact.String()),
					zap.String("parent", parent))
				break
			}
			delErr = c.trashPath(artifact.Path)
			if delErr == nil && artifact.Kind == scanner.KindDirectory {
				trashedDirs = append(trashedDirs, filepath.Clean(artifact.Path))
			}
		case scanner.KindRegistry:
			delErr = c.deleteRegistryKey(artifact.Path)
		default:
			delErr = newDeletionError(artifact.Path, ErrorUnsafePath, errors.New("unknown artifact kind"))
		}

		if delErr != nil {
			failures.add(delErr)
			c.logger.Warn("delete failed",
				zap.String("item", artifact.String()),
				zap.Stringer("reason", delErr.Reason),
				zap.Stringer("cause", delErr.Cause),
				zap.Error(delErr.Original))
		} else {
			result.Deleted = append(result.Deleted, artifact)
			c.logger.Debug("deleted", zap.String("item", artifact.String()))
		}

		if c.progress != nil {
			c.progress(i+1, len(artifacts), artifact)
		}
	}

	result.Errors = failures.Errors

	c.logger.Info("deletion finished",
		zap.Int("deleted", len(result.Deleted)),
		zap.Int("failed", len(result.Errors)),
		zap.Duration("elapsed", time.Since(startTime)))

	return result, failures.errOrNil()
}

func (c *Cleaner) writeBackup(keys []string) (string, error) {
	if c.backup == nil {
		return "", ErrNoDocumentsDir
	}
	return c.backup.Write(keys)
}

// trashPath sends a file or folder to the trash after the safety check
func (c *Cleaner) trashPath(path string) *DeletionError {
	if c.pathValidator != nil {
		if err := c.pathValidator.ValidatePathForDeletion(path); err != nil {
			return newDeletionError(path, ErrorUnsafePath, err)
		}
	}

	if err := c.trash.Trash(path); err != nil {
		return newDeletionError(path, ErrorTrashFailed, err)
	}
	return nil
}

// deleteRegistryKey removes a key and its whole subtree. The parent is opened
// for writing and the leaf deleted from it; a key directly below the hive is
// deleted from the hive root.
func (c *Cleaner) deleteRegistryKey(key string) *DeletionError {
	hiveName, subPath, ok := registry.SplitHive(key)
	if !ok {
		return newDeletionError(key, ErrorInvalidRegistryPath, nil)
	}

	hive, err := registry.ParseHive(hiveName)
	if err != nil {
		return newDeletionError(key, ErrorUnknownHive, err)
	}

	parentPath, leaf, ok := registry.SplitParent(subPath)
	if !ok {
		if subPath == "" {
			return newDeletionError(key, ErrorInvalidRegistryPath, errMissingKeyName)
		}
		if err := c.store.Root(hive).DeleteTree(subPath); err != nil {
			return newDeletionError(key, ErrorRegistryDeleteFailed, err)
		}
		return nil
	}

	if leaf == "" || parentPath == "" {
		return newDeletionError(key, ErrorInvalidRegistryPath, errMissingKeyName)
	}

	parent, err := c.store.OpenKey(hive, parentPath, registry.AccessWrite)
	if err != nil {
		return newDeletionError(key, ErrorOpenParentFailed, err)
	}
	defer parent.Close()

	if err := parent.DeleteTree(leaf); err != nil {
		return newDeletionError(key, ErrorRegistryDeleteFailed, err)
	}
	return nil
}

// containingDir returns the directory of dirs that path lies below
func containingDir(dirs []string, path string) (string, bool) {
	path = filepath.Clean(path)
	for _, dir := range dirs {
		prefix := strings.TrimRight(dir, `/\`) + string(filepath.Separator)
		if len(path) <= len(prefix) {
			continue
		}
		if path[:len(prefix)] == prefix || (runtime.GOOS == "windows" && strings.EqualFold(path[:len(prefix)], prefix)) {
			return dir, true
		}
	}
	return "", false
}

// registryKeys returns the registry key paths in queue order
func registryKeys(artifacts []scanner.Artifact) []string {
	var keys []string
	for _, a := range artifacts {
		if a.Kind == scanner.KindRegistry {
			keys = append(keys, a.Path)
		}
	}
	return keys
}
