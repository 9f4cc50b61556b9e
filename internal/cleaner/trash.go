package cleaner

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/afero"
)

// Trasher moves a file or directory somewhere it can be recovered from
type Trasher interface {
	Trash(path string) error
}

// HomeTrash is a per-user trash directory. With info files enabled it
// follows the freedesktop.org layout: files/ holds the entries and info/
// holds a .trashinfo record of each entry's original path.
type HomeTrash struct {
	fs        afero.Fs
	dir       string
	writeInfo bool
	now       func() time.Time
}

// NewHomeTrash creates a trash rooted at dir
func NewHomeTrash(fs afero.Fs, dir string, writeInfo bool) *HomeTrash {
	return &HomeTrash{
		fs:        fs,
		dir:       dir,
		writeInfo: writeInfo,
		now:       time.Now,
	}
}

// FilesDir returns the directory trashed entries are moved to
func (t *HomeTrash) FilesDir() string {
	if t.writeInfo {
		return filepath.Join(t.dir, "files")
	}
	return t.dir
}

// InfoDir returns the directory holding .trashinfo records
func (t *HomeTrash) InfoDir() string {
	return filepath.Join(t.dir, "info")
}

// Trash moves path into the trash under a name that is not yet taken
func (t *HomeTrash) Trash(path string) error {
	if t.dir == "" {
		return errors.New("no trash directory available")
	}

	if _, err := t.fs.Stat(path); err != nil {
		return err
	}

	if err := t.fs.MkdirAll(t.FilesDir(), 0700); err != nil {
		return err
	}
	if t.writeInfo {
		if err := t.fs.MkdirAll(t.InfoDir(), 0700); err != nil {
			return err
		}
	}

	name, infoPath, err := t.reserveName(filepath.Base(path))
	if err != nil {
		return err
	}

	if err := t.fs.Rename(path, filepath.Join(t.FilesDir(), name)); err != nil {
		if infoPath != "" {
			_ = t.fs.Remove(infoPath)
		}
		return err
	}

	if infoPath != "" {
		return t.writeInfoFile(infoPath, path)
	}
	return nil
}

// reserveName picks a free name. With info files the name is claimed by
// creating its .trashinfo exclusively, so two trashers never pick the same one.
func (t *HomeTrash) reserveName(base string) (name, infoPath string, err error) {
	ext := filepath.Ext(base)
	stem := base[:len(base)-len(ext)]

	for i := 1; i < 10000; i++ {
		name = base
		if i > 1 {
			name = fmt.Sprintf("%s.%d%s", stem, i, ext)
		}

		if exists, _ := afero.Exists(t.fs, filepath.Join(t.FilesDir(), name)); exists {
			continue
		}
		if !t.writeInfo {
			return name, "", nil
		}

		infoPath = filepath.Join(t.InfoDir(), name+".trashinfo")
		f, err := t.fs.OpenFile(infoPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0600)
		if err != nil {
			if os.IsExist(err) {
				continue
			}
			return "", "", err
		}
		f.Close()
		return name, infoPath, nil
	}

	return "", "", fmt.Errorf("no free trash name for %s", base)
}

func (t *HomeTrash) writeInfoFile(infoPath, original string) error {
	content := fmt.Sprintf("[Trash Info]\nPath=%s\nDeletionDate=%s\n",
		(&url.URL{Path: original}).EscapedPath(),
		t.now().Format("2006-01-02T15:04:05"))
	return afero.WriteFile(t.fs, infoPath, []byte(content), 0600)
}
