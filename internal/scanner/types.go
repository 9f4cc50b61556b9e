package scanner

import (
	"fmt"
	"strings"

	"github.com/fenilsonani/kuri-uninstaller/internal/program"
)

// Kind distinguishes the three kinds of leftover artifacts. The set is
// closed: every consumer switches over exactly these values.
type Kind int

const (
	KindFile Kind = iota
	KindDirectory
	KindRegistry
)

// Kinds lists every artifact kind
var Kinds = []Kind{KindFile, KindDirectory, KindRegistry}

// String returns the short name used on the command line and in reports
func (k Kind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindDirectory:
		return "folder"
	case KindRegistry:
		return "registry"
	default:
		return "unknown"
	}
}

// Label returns the tag used in the canonical rendering
func (k Kind) Label() string {
	switch k {
	case KindFile:
		return "File"
	case KindDirectory:
		return "Folder"
	case KindRegistry:
		return "Registry"
	default:
		return "Unknown"
	}
}

// MarshalText renders the kind by its short name
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// ParseKind parses a short kind name
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if strings.EqualFold(s, k.String()) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown artifact kind %q (want file, folder or registry)", s)
}

// Artifact is a leftover candidate: a file, a directory (one artifact for the
// whole tree) or a fully qualified registry key.
type Artifact struct {
	Kind Kind   `json:"kind" yaml:"kind"`
	Path string `json:"path" yaml:"path"`
}

// File creates a file artifact
func File(path string) Artifact {
	return Artifact{Kind: KindFile, Path: path}
}

// Directory creates a directory artifact
func Directory(path string) Artifact {
	return Artifact{Kind: KindDirectory, Path: path}
}

// RegistryKey creates a registry artifact from a fully qualified key path
func RegistryKey(key string) Artifact {
	return Artifact{Kind: KindRegistry, Path: key}
}

// String returns the canonical rendering. It is used for display and as the
// sort and deduplication key.
func (a Artifact) String() string {
	return fmt.Sprintf("[%s] %s", a.Kind.Label(), a.Path)
}

// IsFilesystem reports whether the artifact lives on disk
func (a Artifact) IsFilesystem() bool {
	return a.Kind == KindFile || a.Kind == KindDirectory
}

// Item is a candidate together with its selection state
type Item struct {
	Artifact Artifact `json:"artifact" yaml:"artifact"`
	Selected bool     `json:"selected" yaml:"selected"`
}

// ScanResult is the canonical, deduplicated candidate list of one scan
type ScanResult struct {
	Program program.Identity `json:"program" yaml:"program"`
	Terms   []string         `json:"terms" yaml:"terms"`
	Items   []Item           `json:"items" yaml:"items"`
}

// NewScanResult wraps artifacts with every item selected
func NewScanResult(id program.Identity, terms []string, artifacts []Artifact) *ScanResult {
	items := make([]Item, len(artifacts))
	for i, a := range artifacts {
		items[i] = Item{Artifact: a, Selected: true}
	}
	return &ScanResult{Program: id, Terms: terms, Items: items}
}

// Len returns the number of candidates
func (r *ScanResult) Len() int {
	return len(r.Items)
}

// SetSelected changes the selection of one item. Out of range indexes are
// ignored and reported as false.
func (r *ScanResult) SetSelected(index int, selected bool) bool {
	if index < 0 || index >= len(r.Items) {
		return false
	}
	r.Items[index].Selected = selected
	return true
}

// SelectAll marks every item selected
func (r *ScanResult) SelectAll() {
	r.setAll(true)
}

// DeselectAll clears every selection
func (r *ScanResult) DeselectAll() {
	r.setAll(false)
}

func (r *ScanResult) setAll(selected bool) {
	for i := range r.Items {
		r.Items[i].Selected = selected
	}
}

// SelectKinds keeps only items of the given kinds selected
func (r *ScanResult) SelectKinds(kinds ...Kind) {
	for i := range r.Items {
		r.Items[i].Selected = false
		for _, k := range kinds {
			if r.Items[i].Artifact.Kind == k {
				r.Items[i].Selected = true
				break
			}
		}
	}
}

// Selected returns the selected artifacts in list order
func (r *ScanResult) Selected() []Artifact {
	var selected []Artifact
	for _, item := range r.Items {
		if item.Selected {
			selected = append(selected, item.Artifact)
		}
	}
	return selected
}

// SelectedCount returns the number of selected items
func (r *ScanResult) SelectedCount() int {
	n := 0
	for _, item := range r.Items {
		if item.Selected {
			n++
		}
	}
	return n
}

// CountByKind counts candidates per kind
func (r *ScanResult) CountByKind() map[Kind]int {
	counts := make(map[Kind]int)
	for _, item := range r.Items {
		counts[item.Artifact.Kind]++
	}
	return counts
}

// ProgressCallback is called when the scan moves on to a new location
type ProgressCallback func(source, location string, found int)
