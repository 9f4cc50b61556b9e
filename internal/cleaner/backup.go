package cleaner

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"
)

// DefaultBackupDirName is the folder created under the user's documents
const DefaultBackupDirName = "KuriUninstaller_Backups"

// backupTimeFormat renders timestamps as YYYY-MM-DD_HH-MM-SS
const backupTimeFormat = "2006-01-02_15-04-05"

// ErrNoDocumentsDir is returned when no documents directory is known
var ErrNoDocumentsDir = errors.New("could not find Documents directory")

// BackupLogger records registry keys before they are deleted. The log is a
// plain-text audit trail, not something that can be re-imported.
type BackupLogger struct {
	fs           afero.Fs
	documentsDir string
	dirName      string
	now          func() time.Time
}

// NewBackupLogger creates a logger writing below documentsDir/dirName
func NewBackupLogger(fs afero.Fs, documentsDir, dirName string) *BackupLogger {
	if dirName == "" {
		dirName = DefaultBackupDirName
	}
	return &BackupLogger{
		fs:           fs,
		documentsDir: documentsDir,
		dirName:      dirName,
		now:          time.Now,
	}
}

// Dir returns the backup directory
func (b *BackupLogger) Dir() (string, error) {
	if b.documentsDir == "" {
		return "", ErrNoDocumentsDir
	}
	return filepath.Join(b.documentsDir, b.dirName), nil
}

// maxBackupSuffix bounds the numbered names tried when logs share a second
const maxBackupSuffix = 100

// Write creates the backup directory if needed and writes a new log listing
// keys in the given order. It returns the path of the log file. An existing
// log is never overwritten; a later one in the same second gets a numbered
// suffix.
func (b *BackupLogger) Write(keys []string) (string, error) {
	dir, err := b.Dir()
	if err != nil {
		return "", err
	}

	if err := b.fs.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	timestamp := b.now().Format(backupTimeFormat)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "Log of registry keys deleted by Kuri Uninstaller at %s\n", timestamp)
	buf.WriteString(strings.Repeat("-", 50) + "\n")
	for _, key := range keys {
		buf.WriteString(key + "\n")
	}

	file, path, err := b.create(dir, timestamp)
	if err != nil {
		return "", err
	}
	if _, err := file.Write(buf.Bytes()); err != nil {
		file.Close()
		return "", err
	}
	if err := file.Close(); err != nil {
		return "", err
	}

	return path, nil
}

// create opens a log file that did not exist before
func (b *BackupLogger) create(dir, timestamp string) (afero.File, string, error) {
	for n := 1; n <= maxBackupSuffix; n++ {
		name := fmt.Sprintf("deleted_keys_log-%s.txt", timestamp)
		if n > 1 {
			name = fmt.Sprintf("deleted_keys_log-%s-%d.txt", timestamp, n)
		}
		path := filepath.Join(dir, name)

		file, err := b.fs.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
		if err == nil {
			return file, path, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return nil, "", err
		}
	}
	return nil, "", fmt.Errorf("too many backup logs for %s", timestamp)
}
