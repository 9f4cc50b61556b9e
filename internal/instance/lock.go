// Package instance keeps two kuri processes from scanning and deleting at
// the same time.
package instance

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gofrs/flock"
)

const (
	lockFileName = "kuri.lock"
	pidFileName  = "kuri.pid"
)

// ErrAlreadyRunning is returned when another process holds the lock.
var ErrAlreadyRunning = errors.New("another kuri instance is already running")

// Lock acquires an exclusive file lock under stateDir and records the
// current PID beside it. The caller must call Cleanup with the returned handle.
func Lock(stateDir string) (*flock.Flock, error) {
	if err := os.MkdirAll(stateDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}

	fl := flock.New(filepath.Join(stateDir, lockFileName))
	locked, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire lock: %w", err)
	}
	if !locked {
		if pid, ok := ReadPID(stateDir); ok {
			return nil, fmt.Errorf("%w (pid %d)", ErrAlreadyRunning, pid)
		}
		return nil, ErrAlreadyRunning
	}

	pidPath := filepath.Join(stateDir, pidFileName)
	_ = os.WriteFile(pidPath, []byte(strconv.Itoa(os.Getpid())), 0600)
	return fl, nil
}

// ReadPID returns the PID recorded by the current lock holder, if any.
func ReadPID(stateDir string) (int, bool) {
	data, err := os.ReadFile(filepath.Join(stateDir, pidFileName))
	if err != nil {
		return 0, false
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, false
	}
	return pid, true
}

// Cleanup removes the PID file and releases the file lock.
func Cleanup(stateDir string, fl *flock.Flock) {
	_ = os.Remove(filepath.Join(stateDir, pidFileName))
	if fl != nil {
		_ = fl.Unlock()
	}
}
