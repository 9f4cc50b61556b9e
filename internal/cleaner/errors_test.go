package cleaner

import (
	"errors"
	"fmt"
	"os"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fenilsonani/kuri-uninstaller/internal/registry"
)

func TestCategorizeError(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		cause Cause
	}{
		{"nil", nil, CauseUnknown},
		{"EACCES", syscall.EACCES, CausePermissionDenied},
		{"EPERM", syscall.EPERM, CausePermissionDenied},
		{"ENOENT", syscall.ENOENT, CauseNotFound},
		{"EBUSY", syscall.EBUSY, CauseInUse},
		{"wrapped EACCES", fmt.Errorf("failed to remove: %w", syscall.EACCES), CausePermissionDenied},
		{"PathError with EBUSY", &os.PathError{Op: "rename", Path: "/x", Err: syscall.EBUSY}, CauseInUse},
		{"os.ErrNotExist", os.ErrNotExist, CauseNotFound},
		{"os.ErrPermission", os.ErrPermission, CausePermissionDenied},
		{"registry not found", registry.ErrNotFound, CauseNotFound},
		{"registry access denied", fmt.Errorf("open: %w", registry.ErrAccessDenied), CausePermissionDenied},
		{"generic", errors.New("boom"), CauseUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.cause, CategorizeError(tt.err))
		})
	}
}

func TestDeletionErrorMessages(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		err      *DeletionError
		expected string
	}{
		{newDeletionError("/x/foo", ErrorTrashFailed, boom), "Failed to delete /x/foo: boom"},
		{newDeletionError("/", ErrorUnsafePath, boom), "Refusing to delete /: boom"},
		{newDeletionError("Foo", ErrorInvalidRegistryPath, nil), "Invalid registry path format: Foo"},
		{newDeletionError(`HKU\Foo`, ErrorUnknownHive, registry.ErrUnknownHive), `Unknown registry hive in path: HKU\Foo`},
		{newDeletionError(`HKEY_CURRENT_USER\A\B`, ErrorOpenParentFailed, boom), `Could not open parent key for: HKEY_CURRENT_USER\A\B`},
		{newDeletionError(`HKEY_CURRENT_USER\A\B`, ErrorRegistryDeleteFailed, boom), `Failed to delete registry key HKEY_CURRENT_USER\A\B: boom`},
		{newDeletionError("", ErrorBackupFailed, boom), "Failed to create registry log: boom"},
	}

	for _, tt := range tests {
		t.Run(tt.err.Reason.String(), func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestDeletionErrorHint(t *testing.T) {
	denied := newDeletionError("/x", ErrorTrashFailed, os.ErrPermission)
	assert.Equal(t, CausePermissionDenied, denied.Cause)
	assert.NotEmpty(t, denied.Hint())

	unknown := newDeletionError("/x", ErrorTrashFailed, errors.New("boom"))
	assert.Empty(t, unknown.Hint())
}

func TestBatchError(t *testing.T) {
	batch := &BatchError{}
	assert.NoError(t, batch.errOrNil())

	batch.add(newDeletionError("/a", ErrorTrashFailed, os.ErrNotExist))
	batch.add(newDeletionError("Bad", ErrorInvalidRegistryPath, nil))

	err := batch.errOrNil()
	assert.Equal(t, "Failed to delete /a: file does not exist\nInvalid registry path format: Bad", err.Error())
	assert.ErrorIs(t, err, os.ErrNotExist)

	var delErr *DeletionError
	assert.ErrorAs(t, err, &delErr)
	assert.Equal(t, "/a", delErr.Target)
}

func TestFormatErrorSummary(t *testing.T) {
	assert.Empty(t, FormatErrorSummary(nil))

	summary := FormatErrorSummary([]*DeletionError{
		newDeletionError("/a", ErrorTrashFailed, os.ErrPermission),
		newDeletionError("/b", ErrorTrashFailed, errors.New("boom")),
		newDeletionError("K", ErrorInvalidRegistryPath, nil),
	})

	assert.Contains(t, summary, "Trash failed: 2")
	assert.Contains(t, summary, "Tip: 1 need elevated permissions")
	assert.Contains(t, summary, "Invalid registry path: 1")
	assert.NotContains(t, summary, "Backup failed")
}
