package ui

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/term"

	"github.com/fenilsonani/kuri-uninstaller/internal/cleaner"
	"github.com/fenilsonani/kuri-uninstaller/internal/registry"
	"github.com/fenilsonani/kuri-uninstaller/internal/scanner"
	"github.com/fenilsonani/kuri-uninstaller/internal/ui/styles"
)

// LiveProgress draws a one-line status for command line scans and
// deletions. It stays silent when the output is not a terminal.
type LiveProgress struct {
	mu         sync.Mutex
	out        io.Writer
	label      string
	startTime  time.Time
	lastUpdate time.Time
	termWidth  int
	enabled    bool
	drawn      bool
}

// NewLiveProgress creates a live progress display on stderr
func NewLiveProgress(label string) *LiveProgress {
	fd := int(os.Stderr.Fd())
	width := 80
	if w, _, err := term.GetSize(fd); err == nil && w > 0 {
		width = w
	}

	return &LiveProgress{
		out:       os.Stderr,
		label:     label,
		startTime: time.Now(),
		termWidth: width,
		enabled:   term.IsTerminal(fd),
	}
}

// ScanCallback returns a scanner progress callback feeding this display
func (lp *LiveProgress) ScanCallback() scanner.ProgressCallback {
	return func(source, location string, found int) {
		lp.update(fmt.Sprintf("%s: %-10s | Found: %d", lp.label, source, found), location, false)
	}
}

// DeleteCallback returns a cleaner progress callback feeding this display
func (lp *LiveProgress) DeleteCallback() cleaner.ProgressCallback {
	return func(done, total int, current scanner.Artifact) {
		status := fmt.Sprintf("%s: %s %d/%d", lp.label, styles.ProgressBar(done, total, 20), done, total)
		lp.update(status, current.Path, done == total)
	}
}

func (lp *LiveProgress) update(status, path string, force bool) {
	lp.mu.Lock()
	defer lp.mu.Unlock()

	if !lp.enabled {
		return
	}

	// Throttle updates to avoid flickering (max 10 updates per second)
	now := time.Now()
	if !force && now.Sub(lp.lastUpdate) < 100*time.Millisecond {
		return
	}
	lp.lastUpdate = now

	spinner := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	spinIdx := int(now.UnixMilli()/100) % len(spinner)
	elapsed := now.Sub(lp.startTime).Round(time.Second)

	line := fmt.Sprintf("%s %s | %s | %s", spinner[spinIdx], status, elapsed, path)
	fmt.Fprintf(lp.out, "\r\033[K%s", truncate(line, lp.termWidth-2))
	lp.drawn = true
}

// Finish clears the status line
func (lp *LiveProgress) Finish() {
	lp.mu.Lock()
	defer lp.mu.Unlock()

	if lp.enabled && lp.drawn {
		fmt.Fprint(lp.out, "\r\033[K")
	}
	lp.drawn = false
}

// truncate truncates a string to fit width
func truncate(s string, width int) string {
	r := []rune(s)
	if width < 4 || len(r) <= width {
		return s
	}
	return string(r[:width-3]) + "..."
}

// PrintLeftoverTree prints the leftovers of a scan grouped by parent folder
// or parent registry key
func PrintLeftoverTree(w io.Writer, result *scanner.ScanResult) {
	groups := make(map[string][]scanner.Item)
	for _, item := range result.Items {
		parent := parentOf(item.Artifact)
		groups[parent] = append(groups[parent], item)
	}

	parents := make([]string, 0, len(groups))
	for p := range groups {
		parents = append(parents, p)
	}
	sort.Strings(parents)

	fmt.Fprintf(w, "\n╭─ %s\n", result.Program.Label())
	for i, parent := range parents {
		isLast := i == len(parents)-1

		connector := "├"
		if isLast {
			connector = "╰"
		}
		fmt.Fprintf(w, "%s── %s\n", connector, parent)

		items := groups[parent]
		for j, item := range items {
			branch := "│   "
			if isLast {
				branch = "    "
			}
			leaf := "├"
			if j == len(items)-1 {
				leaf = "╰"
			}
			mark := " "
			if item.Selected {
				mark = "x"
			}
			fmt.Fprintf(w, "%s%s── [%s] %s %s\n", branch, leaf, mark, styles.GetKindIcon(item.Artifact.Kind), baseOf(item.Artifact))
		}
	}

	fmt.Fprintf(w, "\n════════════════════════════════════════════════════════\n")
	fmt.Fprintf(w, "Total: %d items | %d selected\n", result.Len(), result.SelectedCount())
}

func parentOf(a scanner.Artifact) string {
	if a.Kind == scanner.KindRegistry {
		parent, _, _ := registry.SplitParent(a.Path)
		return parent
	}
	if i := strings.LastIndexAny(a.Path, `/\`); i > 0 {
		return a.Path[:i]
	}
	return a.Path
}

func baseOf(a scanner.Artifact) string {
	if a.Kind == scanner.KindRegistry {
		_, leaf, _ := registry.SplitParent(a.Path)
		return leaf
	}
	if i := strings.LastIndexAny(a.Path, `/\`); i >= 0 {
		return a.Path[i+1:]
	}
	return a.Path
}
