package cleaner

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/fenilsonani/kuri-uninstaller/internal/registry"
)

// ErrorReason categorizes why a deletion step failed
type ErrorReason int

const (
	ErrorTrashFailed ErrorReason = iota
	ErrorUnsafePath
	ErrorInvalidRegistryPath
	ErrorUnknownHive
	ErrorOpenParentFailed
	ErrorRegistryDeleteFailed
	ErrorBackupFailed
)

// String returns a human-readable error reason
func (e ErrorReason) String() string {
	switch e {
	case ErrorTrashFailed:
		return "Trash failed"
	case ErrorUnsafePath:
		return "Unsafe path"
	case ErrorInvalidRegistryPath:
		return "Invalid registry path"
	case ErrorUnknownHive:
		return "Unknown registry hive"
	case ErrorOpenParentFailed:
		return "Parent key not opened"
	case ErrorRegistryDeleteFailed:
		return "Registry delete failed"
	case ErrorBackupFailed:
		return "Backup failed"
	default:
		return "Unspecified error"
	}
}

// Cause is the underlying OS condition behind a failure, when known
type Cause int

const (
	CauseUnknown Cause = iota
	CausePermissionDenied
	CauseInUse
	CauseNotFound
)

// String returns a human-readable cause
func (c Cause) String() string {
	switch c {
	case CausePermissionDenied:
		return "Permission denied"
	case CauseInUse:
		return "In use"
	case CauseNotFound:
		return "Not found"
	default:
		return "Unknown"
	}
}

// DeletionError is one recorded failure of a deletion batch
type DeletionError struct {
	Target   string
	Reason   ErrorReason
	Cause    Cause
	Original error
}

// Error returns the message reported to the user for this failure
func (e *DeletionError) Error() string {
	switch e.Reason {
	case ErrorTrashFailed:
		return fmt.Sprintf("Failed to delete %s: %v", e.Target, e.Original)
	case ErrorUnsafePath:
		return fmt.Sprintf("Refusing to delete %s: %v", e.Target, e.Original)
	case ErrorInvalidRegistryPath:
		return fmt.Sprintf("Invalid registry path format: %s", e.Target)
	case ErrorUnknownHive:
		return fmt.Sprintf("Unknown registry hive in path: %s", e.Target)
	case ErrorOpenParentFailed:
		return fmt.Sprintf("Could not open parent key for: %s", e.Target)
	case ErrorRegistryDeleteFailed:
		return fmt.Sprintf("Failed to delete registry key %s: %v", e.Target, e.Original)
	case ErrorBackupFailed:
		return fmt.Sprintf("Failed to create registry log: %v", e.Original)
	default:
		return fmt.Sprintf("%s: %s (%v)", e.Target, e.Reason, e.Original)
	}
}

// Unwrap returns the underlying error
func (e *DeletionError) Unwrap() error {
	return e.Original
}

// Hint returns advice for causes the user can act on
func (e *DeletionError) Hint() string {
	switch e.Cause {
	case CausePermissionDenied:
		return "Run as administrator or check the item's permissions"
	case CauseInUse:
		return "Close the application using it and try again"
	case CauseNotFound:
		return "Already removed"
	default:
		return ""
	}
}

// newDeletionError builds a DeletionError and classifies its cause
func newDeletionError(target string, reason ErrorReason, err error) *DeletionError {
	return &DeletionError{
		Target:   target,
		Reason:   reason,
		Cause:    CategorizeError(err),
		Original: err,
	}
}

// CategorizeError classifies an OS or registry error
func CategorizeError(err error) Cause {
	if err == nil {
		return CauseUnknown
	}

	if os.IsNotExist(err) || errors.Is(err, registry.ErrNotFound) {
		return CauseNotFound
	}

	if os.IsPermission(err) || errors.Is(err, registry.ErrAccessDenied) {
		return CausePermissionDenied
	}

	var errno syscall.Errno
	if errors.As(err, &errno) {
		switch errno {
		case syscall.EACCES, syscall.EPERM:
			return CausePermissionDenied
		case syscall.EBUSY, syscall.ETXTBSY:
			return CauseInUse
		case syscall.ENOENT:
			return CauseNotFound
		}
	}

	return CauseUnknown
}

// BatchError aggregates the failures of one deletion batch in the order
// they were recorded
type BatchError struct {
	Errors []*DeletionError
}

// Error joins every failure message with newlines
func (b *BatchError) Error() string {
	lines := make([]string, len(b.Errors))
	for i, e := range b.Errors {
		lines[i] = e.Error()
	}
	return strings.Join(lines, "\n")
}

// Unwrap exposes the individual failures to errors.Is and errors.As
func (b *BatchError) Unwrap() []error {
	errs := make([]error, len(b.Errors))
	for i, e := range b.Errors {
		errs[i] = e
	}
	return errs
}

// add records a failure
func (b *BatchError) add(e *DeletionError) {
	b.Errors = append(b.Errors, e)
}

// errOrNil returns nil when nothing was recorded
func (b *BatchError) errOrNil() error {
	if len(b.Errors) == 0 {
		return nil
	}
	return b
}

// GroupErrors groups deletion errors by reason
func GroupErrors(errs []*DeletionError) map[ErrorReason][]*DeletionError {
	grouped := make(map[ErrorReason][]*DeletionError)
	for _, err := range errs {
		grouped[err.Reason] = append(grouped[err.Reason], err)
	}
	return grouped
}

// FormatErrorSummary creates a short per-reason summary of failures
func FormatErrorSummary(errs []*DeletionError) string {
	if len(errs) == 0 {
		return ""
	}

	grouped := GroupErrors(errs)
	var b strings.Builder
	b.WriteString("Issues encountered:\n")

	reasons := []ErrorReason{
		ErrorBackupFailed,
		ErrorTrashFailed,
		ErrorUnsafePath,
		ErrorInvalidRegistryPath,
		ErrorUnknownHive,
		ErrorOpenParentFailed,
		ErrorRegistryDeleteFailed,
	}

	for _, reason := range reasons {
		items, ok := grouped[reason]
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "  - %s: %d\n", reason, len(items))

		denied := 0
		for _, item := range items {
			if item.Cause == CausePermissionDenied {
				denied++
			}
		}
		if denied > 0 {
			fmt.Fprintf(&b, "    Tip: %d need elevated permissions\n", denied)
		}
	}

	return b.String()
}
