// Package program describes installed programs and enumerates them from the
// uninstall registry.
package program

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fenilsonani/kuri-uninstaller/internal/registry"
)

// Identity identifies a program whose leftovers are searched for. An empty
// InstallLocation means the program did not report one.
type Identity struct {
	Name            string `json:"name" yaml:"name"`
	Version         string `json:"version,omitempty" yaml:"version,omitempty"`
	InstallLocation string `json:"install_location,omitempty" yaml:"install_location,omitempty"`
}

// HasInstallLocation reports whether an install location was provided
func (id Identity) HasInstallLocation() bool {
	return id.InstallLocation != ""
}

// Label is the name with the version, if any
func (id Identity) Label() string {
	if id.Version == "" {
		return id.Name
	}
	return fmt.Sprintf("%s (%s)", id.Name, id.Version)
}

// UninstallPaths are the HKLM keys whose children describe installed programs
var UninstallPaths = []string{
	`SOFTWARE\Microsoft\Windows\CurrentVersion\Uninstall`,
	`SOFTWARE\WOW6432Node\Microsoft\Windows\CurrentVersion\Uninstall`,
}

// LoadInstalled enumerates installed programs from the uninstall registry.
// Entries without a DisplayName are ignored, the first entry seen for a name
// wins, and the result is sorted case-insensitively by name. Unopenable
// uninstall roots and entries are skipped.
func LoadInstalled(store registry.Store) ([]Identity, error) {
	var programs []Identity
	seen := make(map[string]bool)

	for _, path := range UninstallPaths {
		uninstall, err := store.OpenKey(registry.LocalMachine, path, registry.AccessRead)
		if err != nil {
			continue
		}

		names, err := uninstall.SubKeyNames()
		uninstall.Close()
		if err != nil {
			continue
		}

		for _, keyName := range names {
			id, ok := readEntry(store, registry.Join(path, keyName))
			if !ok || seen[id.Name] {
				continue
			}
			seen[id.Name] = true
			programs = append(programs, id)
		}
	}

	sort.SliceStable(programs, func(i, j int) bool {
		return strings.ToLower(programs[i].Name) < strings.ToLower(programs[j].Name)
	})

	return programs, nil
}

func readEntry(store registry.Store, path string) (Identity, bool) {
	key, err := store.OpenKey(registry.LocalMachine, path, registry.AccessRead)
	if err != nil {
		return Identity{}, false
	}
	defer key.Close()

	name, err := key.StringValue("DisplayName")
	if err != nil || name == "" {
		return Identity{}, false
	}

	version, _ := key.StringValue("DisplayVersion")
	location, _ := key.StringValue("InstallLocation")

	return Identity{
		Name:            name,
		Version:         version,
		InstallLocation: location,
	}, true
}

// Find looks a program up by name, ignoring case. When nothing matches
// exactly, the returned error lists programs whose names contain the query.
func Find(programs []Identity, name string) (Identity, error) {
	query := strings.ToLower(name)

	var suggestions []string
	for _, p := range programs {
		lower := strings.ToLower(p.Name)
		if lower == query {
			return p, nil
		}
		if strings.Contains(lower, query) {
			suggestions = append(suggestions, p.Name)
		}
	}

	if len(suggestions) == 0 {
		return Identity{}, fmt.Errorf("program %q is not installed", name)
	}
	return Identity{}, fmt.Errorf("program %q is not installed; did you mean: %s",
		name, strings.Join(suggestions, ", "))
}
