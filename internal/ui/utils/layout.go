package utils

import (
	"fmt"
	"strings"

	"github.com/fenilsonani/kuri-uninstaller/internal/ui/styles"
)

const (
	// MinTerminalWidth is the minimum recommended terminal width
	MinTerminalWidth = 80
	// MinTerminalHeight is the minimum recommended terminal height
	MinTerminalHeight = 24
)

// TruncatePath shortens a file path or registry key to fit within maxWidth.
// The first component and the final name are kept; the middle is elided.
// Both '/' and '\' are treated as separators.
func TruncatePath(path string, maxWidth int) string {
	if len(path) <= maxWidth {
		return path
	}

	if maxWidth < 10 {
		// Too small to show anything meaningful
		return "..."
	}

	cut := strings.LastIndexAny(path, `/\`)
	if cut < 0 {
		return TruncateMiddle(path, maxWidth)
	}
	sep := path[cut : cut+1]
	dir, name := path[:cut], path[cut+1:]

	// If the name alone is too long, keep its tail
	if len(name) > maxWidth-4 {
		return "..." + name[len(name)-(maxWidth-4):]
	}

	first := dir
	if i := strings.IndexAny(dir[1:], `/\`); i >= 0 {
		first = dir[:i+1]
	}

	candidate := first + sep + "..." + sep + name
	if len(candidate) <= maxWidth {
		return candidate
	}
	return "..." + sep + name
}

// CalculatePageSize calculates the number of items that can fit on a page
// given the terminal height and reserved space for headers/footers
func CalculatePageSize(terminalHeight int) int {
	// Title, header, footer and status take about 10 lines
	const reservedLines = 10

	pageSize := terminalHeight - reservedLines
	if pageSize < 5 {
		pageSize = 5 // Minimum page size
	}

	return pageSize
}

// IsTerminalTooSmall checks if the terminal is below minimum recommended size
func IsTerminalTooSmall(width, height int) bool {
	return width < MinTerminalWidth || height < MinTerminalHeight
}

// GetSizeWarningBanner returns a warning banner if terminal is too small
func GetSizeWarningBanner(width, height int) string {
	if width == 0 && height == 0 {
		// Size not reported yet
		return ""
	}
	if !IsTerminalTooSmall(width, height) {
		return ""
	}

	warning := "⚠️  Terminal too small! Recommended: 80x24 or larger"
	warning += styles.DimStyle.Render(" (current: ") +
		styles.WarningStyle.Render(fmt.Sprintf("%dx%d", width, height)) +
		styles.DimStyle.Render(")")

	return styles.WarningStyle.Render(warning) + "\n\n"
}

// TruncateString truncates a string to maxLen, adding ellipsis if needed
func TruncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen < 3 {
		return "..."
	}
	return s[:maxLen-3] + "..."
}

// TruncateMiddle truncates a string from the middle, preserving start and end
func TruncateMiddle(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}

	if maxLen < 10 {
		return TruncateString(s, maxLen)
	}

	// Show equal parts from start and end
	sideLen := (maxLen - 3) / 2
	return s[:sideLen] + "..." + s[len(s)-sideLen:]
}

// VisibleWindow returns the [start, end) range of a list of n items that
// keeps cursor visible in a page of pageSize rows, starting from offset
func VisibleWindow(cursor, offset, pageSize, n int) (start, end int) {
	if pageSize <= 0 {
		pageSize = 1
	}
	start = offset
	if cursor < start {
		start = cursor
	}
	if cursor >= start+pageSize {
		start = cursor - pageSize + 1
	}
	start = max(start, 0)
	end = min(start+pageSize, n)
	return start, end
}
