package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/fenilsonani/kuri-uninstaller/internal/program"
	"github.com/fenilsonani/kuri-uninstaller/internal/scanner"
	"github.com/fenilsonani/kuri-uninstaller/internal/ui/styles"
	uiutils "github.com/fenilsonani/kuri-uninstaller/internal/ui/utils"
)

// ProgressViewModel shows a running scan or deletion
type ProgressViewModel struct {
	title     string
	spinner   spinner.Model
	bar       progress.Model
	startTime time.Time

	// Scan
	source   string
	location string
	found    int

	// Deletion
	deleting bool
	done     int
	total    int
	current  scanner.Artifact
}

func newProgressViewModel(title string) *ProgressViewModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.SelectedStyle

	return &ProgressViewModel{
		title:     title,
		spinner:   s,
		startTime: time.Now(),
	}
}

// NewScanProgressModel creates the view shown while a program is scanned
func NewScanProgressModel(id program.Identity) *ProgressViewModel {
	return newProgressViewModel("🔍 Scanning for leftovers of " + id.Label())
}

// NewDeleteProgressModel creates the view shown while total items are deleted
func NewDeleteProgressModel(total int) *ProgressViewModel {
	m := newProgressViewModel("🗑️  Deleting leftovers")
	m.deleting = true
	m.total = total
	m.bar = progress.New(progress.WithDefaultGradient())
	return m
}

// Init starts the spinner
func (m *ProgressViewModel) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update handles messages
func (m *ProgressViewModel) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return cmd

	case ScanProgressMsg:
		m.source = msg.Source
		m.location = msg.Location
		m.found = msg.Found

	case DeleteProgressMsg:
		m.done = msg.Done
		if msg.Total > 0 {
			m.total = msg.Total
		}
		m.current = msg.Current
	}

	return nil
}

// Percent returns the share of the deletion batch already processed
func (m *ProgressViewModel) Percent() float64 {
	if m.total == 0 {
		return 0
	}
	return float64(m.done) / float64(m.total)
}

// View renders the progress view
func (m *ProgressViewModel) View() string {
	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render(m.title))
	b.WriteString("\n\n")

	b.WriteString(m.spinner.View())
	if m.deleting {
		b.WriteString(" Deleting... ")
	} else {
		b.WriteString(" Scanning... ")
	}
	b.WriteString(styles.DimStyle.Render(fmt.Sprintf("(%s)", time.Since(m.startTime).Round(time.Second))))
	b.WriteString("\n\n")

	if m.deleting {
		b.WriteString(m.bar.ViewAs(m.Percent()))
		b.WriteString("\n\n")
		fmt.Fprintf(&b, "%s / %d\n", styles.BoldStyle.Render(fmt.Sprintf("%d", m.done)), m.total)
		if m.current.Path != "" {
			b.WriteString(styles.DimStyle.Render("Last: "))
			b.WriteString(styles.FilePathStyle.Render(uiutils.TruncatePath(m.current.String(), 60)))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(styles.HelpStyle.Render("Deletion cannot be interrupted"))
		return b.String()
	}

	if m.source != "" {
		fmt.Fprintf(&b, "%s %s\n", styles.DimStyle.Render("Source:"), styles.InfoStyle.Render(m.source))
	}
	if m.location != "" {
		b.WriteString(styles.DimStyle.Render("Current: "))
		b.WriteString(styles.FilePathStyle.Render(uiutils.TruncatePath(m.location, 60)))
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "\nFound so far: %s\n", styles.BoldStyle.Render(fmt.Sprintf("%d", m.found)))

	b.WriteString("\n")
	b.WriteString(styles.HelpStyle.Render("Press ctrl+c to quit"))

	return b.String()
}
