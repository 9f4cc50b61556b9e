package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/fenilsonani/kuri-uninstaller/internal/scanner"
)

// Theme colors
var (
	Primary     = lipgloss.Color("#7C3AED")
	Secondary   = lipgloss.Color("#A78BFA")
	Success     = lipgloss.Color("#10B981")
	Warning     = lipgloss.Color("#F59E0B")
	Danger      = lipgloss.Color("#EF4444")
	Info        = lipgloss.Color("#3B82F6")
	Muted       = lipgloss.Color("#6B7280")
	Text        = lipgloss.Color("#F3F4F6")
	TextDim     = lipgloss.Color("#9CA3AF")
	Border      = lipgloss.Color("#4B5563")
	FocusBorder = lipgloss.Color("#A78BFA")
	BgDark      = lipgloss.Color("#1F2937")
	BgLight     = lipgloss.Color("#374151")
)

// Common styles
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Primary).
			MarginBottom(1)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(Secondary).
			MarginBottom(1)

	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Border).
			Padding(1, 2)

	ErrorPanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Danger).
			Padding(1, 2)

	SelectedStyle = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	CheckboxStyle = lipgloss.NewStyle().
			Foreground(Success)

	CheckboxUncheckedStyle = lipgloss.NewStyle().
				Foreground(Muted)

	FilePathStyle = lipgloss.NewStyle().
			Foreground(Info)

	RegistryPathStyle = lipgloss.NewStyle().
				Foreground(Warning)

	VersionStyle = lipgloss.NewStyle().
			Foreground(Secondary).
			Italic(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(Danger).
			Bold(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(Success).
			Bold(true)

	HelpStyle = lipgloss.NewStyle().
			Foreground(TextDim).
			Italic(true)

	StatusBarStyle = lipgloss.NewStyle().
			Foreground(Text).
			Background(BgDark).
			Padding(0, 1)

	HighlightStyle = lipgloss.NewStyle().
			Foreground(Text).
			Background(Primary).
			Bold(true)

	DimStyle = lipgloss.NewStyle().
			Foreground(TextDim)

	BoldStyle = lipgloss.NewStyle().
			Bold(true)

	InfoStyle = lipgloss.NewStyle().
			Foreground(Info).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(Warning).
			Bold(true)
)

// Helper functions
func CheckedBox() string {
	return CheckboxStyle.Render("☑")
}

func UncheckedBox() string {
	return CheckboxUncheckedStyle.Render("☐")
}

// Checkbox renders a checked or unchecked box
func Checkbox(checked bool) string {
	if checked {
		return CheckedBox()
	}
	return UncheckedBox()
}

// KindTag renders the canonical kind label of an artifact
func KindTag(k scanner.Kind) string {
	tag := "[" + k.Label() + "]"
	switch k {
	case scanner.KindRegistry:
		return RegistryPathStyle.Render(tag)
	case scanner.KindDirectory:
		return InfoStyle.Render(tag)
	default:
		return FilePathStyle.Render(tag)
	}
}

// GetKindIcon returns the icon shown next to an artifact kind
func GetKindIcon(k scanner.Kind) string {
	switch k {
	case scanner.KindFile:
		return "📄"
	case scanner.KindDirectory:
		return "📁"
	case scanner.KindRegistry:
		return "🔑"
	default:
		return "•"
	}
}

func ProgressBar(current, total int, width int) string {
	if total == 0 || width <= 0 {
		return ""
	}

	filled := current * width / total
	if filled > width {
		filled = width
	}

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)

	style := lipgloss.NewStyle().Foreground(Primary)
	return style.Render(bar)
}
