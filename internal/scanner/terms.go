package scanner

import (
	"slices"
	"strings"

	"github.com/fenilsonani/kuri-uninstaller/internal/program"
)

// GenerateTerms derives the lowercase substring keys for a program: its
// name, its name without spaces and, when an install location is known, the
// location's folder name. Empty tokens are dropped and only adjacent
// duplicates are removed.
func GenerateTerms(id program.Identity) []string {
	terms := []string{
		strings.ToLower(id.Name),
		strings.ToLower(strings.ReplaceAll(id.Name, " ", "")),
	}

	if id.HasInstallLocation() {
		terms = append(terms, strings.ToLower(folderName(id.InstallLocation)))
	}

	terms = slices.DeleteFunc(terms, func(t string) bool { return t == "" })
	return slices.Compact(terms)
}

// folderName returns the final component of an install location. Both slash
// styles are separators since locations come from the Windows registry.
func folderName(location string) string {
	name := strings.TrimRight(location, `/\`)
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	if name == "." || name == ".." || strings.HasSuffix(name, ":") {
		return ""
	}
	return name
}

// Matches reports whether the lowercased name contains any term
func Matches(name string, terms []string) bool {
	lower := strings.ToLower(name)
	for _, term := range terms {
		if strings.Contains(lower, term) {
			return true
		}
	}
	return false
}
