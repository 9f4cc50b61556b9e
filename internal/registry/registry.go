// Package registry abstracts the hierarchical key store that leftover
// detection and deletion operate on. On Windows it is backed by the system
// registry; elsewhere the system store reports ErrUnsupported and callers
// fall back to skipping registry work. MemoryStore backs tests.
package registry

import (
	"errors"
	"strings"
)

// Separator separates the components of a key path.
const Separator = `\`

// Hive is one of the root namespaces of the registry
type Hive int

const (
	LocalMachine Hive = iota
	CurrentUser
)

// Hives lists every recognized hive in display order
var Hives = []Hive{LocalMachine, CurrentUser}

// String returns the hive's fully spelled-out name as used in key paths
func (h Hive) String() string {
	switch h {
	case LocalMachine:
		return "HKEY_LOCAL_MACHINE"
	case CurrentUser:
		return "HKEY_CURRENT_USER"
	default:
		return "UNKNOWN_HIVE"
	}
}

// ParseHive resolves a hive token. Only the exact spelled-out names are
// recognized; abbreviations such as HKLM are rejected.
func ParseHive(name string) (Hive, error) {
	for _, h := range Hives {
		if h.String() == name {
			return h, nil
		}
	}
	return 0, ErrUnknownHive
}

// Access is the access level requested when opening a key
type Access int

const (
	AccessRead Access = iota
	AccessWrite
)

// Errors
var (
	ErrNotFound     = errors.New("registry key not found")
	ErrAccessDenied = errors.New("registry access denied")
	ErrUnknownHive  = errors.New("unknown registry hive")
	ErrUnsupported  = errors.New("registry is not available on this platform")
)

// Key is an open registry key
type Key interface {
	// SubKeyNames returns the names of the direct children of the key
	SubKeyNames() ([]string, error)
	// StringValue reads a named string value
	StringValue(name string) (string, error)
	// DeleteTree removes the named child key and everything below it
	DeleteTree(name string) error
	Close() error
}

// Store opens keys below the predefined hives
type Store interface {
	// Root returns the predefined key of a hive. Closing it is a no-op.
	Root(h Hive) Key
	OpenKey(h Hive, path string, access Access) (Key, error)
}

// Join builds a key path from its components
func Join(elems ...string) string {
	parts := make([]string, 0, len(elems))
	for _, e := range elems {
		e = strings.Trim(e, Separator)
		if e != "" {
			parts = append(parts, e)
		}
	}
	return strings.Join(parts, Separator)
}

// SplitHive splits a fully qualified key path into its hive token and the
// remaining sub path. ok is false when the path has no separator.
func SplitHive(fullPath string) (hive, subPath string, ok bool) {
	return strings.Cut(fullPath, Separator)
}

// SplitParent splits a sub path at its last separator. ok is false when the
// path has a single component, i.e. the key lives directly under its hive.
func SplitParent(subPath string) (parent, leaf string, ok bool) {
	i := strings.LastIndex(subPath, Separator)
	if i < 0 {
		return "", subPath, false
	}
	return subPath[:i], subPath[i+len(Separator):], true
}
