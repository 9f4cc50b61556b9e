package reporter

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/fenilsonani/kuri-uninstaller/internal/cleaner"
	"github.com/fenilsonani/kuri-uninstaller/internal/scanner"
)

// OutputFormat represents the output format type
type OutputFormat string

const (
	FormatTable   OutputFormat = "table"
	FormatJSON    OutputFormat = "json"
	FormatYAML    OutputFormat = "yaml"
	FormatSummary OutputFormat = "summary"
)

// ParseFormat parses an output format name
func ParseFormat(name string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(name)); f {
	case FormatTable, FormatJSON, FormatYAML, FormatSummary:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported format: %s", name)
	}
}

// Reporter handles report generation
type Reporter struct {
	writer io.Writer
	format OutputFormat
	now    func() time.Time
}

// New creates a new Reporter
func New(writer io.Writer, format OutputFormat) *Reporter {
	return &Reporter{
		writer: writer,
		format: format,
		now:    time.Now,
	}
}

// scanReport is the serialized form of a scan result
type scanReport struct {
	Timestamp string           `json:"timestamp" yaml:"timestamp"`
	Program   string           `json:"program" yaml:"program"`
	Version   string           `json:"version,omitempty" yaml:"version,omitempty"`
	Location  string           `json:"install_location,omitempty" yaml:"install_location,omitempty"`
	Terms     []string         `json:"terms" yaml:"terms"`
	Total     int              `json:"total" yaml:"total"`
	ByKind    map[string]int   `json:"by_kind" yaml:"by_kind"`
	Items     []scanReportItem `json:"items" yaml:"items"`
}

type scanReportItem struct {
	Kind     scanner.Kind `json:"kind" yaml:"kind"`
	Path     string       `json:"path" yaml:"path"`
	Selected bool         `json:"selected" yaml:"selected"`
}

// Report generates a report from scan results
func (r *Reporter) Report(result *scanner.ScanResult) error {
	switch r.format {
	case FormatTable:
		return r.reportTable(result)
	case FormatJSON:
		return r.encodeJSON(r.buildScanReport(result))
	case FormatYAML:
		return r.encodeYAML(r.buildScanReport(result))
	case FormatSummary:
		return r.reportSummary(result)
	default:
		return fmt.Errorf("unsupported format: %s", r.format)
	}
}

// reportSummary generates a summary report
func (r *Reporter) reportSummary(result *scanner.ScanResult) error {
	fmt.Fprintf(r.writer, "=== Leftovers of %s ===\n", result.Program.Label())
	if result.Program.HasInstallLocation() {
		fmt.Fprintf(r.writer, "Install location: %s\n", result.Program.InstallLocation)
	}
	fmt.Fprintf(r.writer, "Search terms: %s\n", strings.Join(result.Terms, ", "))
	fmt.Fprintf(r.writer, "Total items: %d\n", result.Len())

	if result.Len() == 0 {
		fmt.Fprintf(r.writer, "\nNo leftovers found.\n")
		return nil
	}

	counts := result.CountByKind()
	fmt.Fprintf(r.writer, "\nBreakdown by kind:\n")
	for _, k := range scanner.Kinds {
		if counts[k] > 0 {
			fmt.Fprintf(r.writer, "  %-8s %d\n", k.Label()+":", counts[k])
		}
	}

	fmt.Fprintf(r.writer, "\nItems:\n")
	for _, item := range result.Items {
		fmt.Fprintf(r.writer, "  %s\n", item.Artifact)
	}

	return nil
}

// reportTable generates a table report
func (r *Reporter) reportTable(result *scanner.ScanResult) error {
	// Print header
	fmt.Fprintf(r.writer, "%-4s | %-8s | %-3s | %s\n", "#", "Kind", "Sel", "Path")
	fmt.Fprintf(r.writer, "%s\n", strings.Repeat("-", 80))

	// Print rows
	for i, item := range result.Items {
		sel := " "
		if item.Selected {
			sel = "x"
		}
		fmt.Fprintf(r.writer, "%-4d | %-8s | [%s] | %s\n",
			i+1, item.Artifact.Kind.Label(), sel, item.Artifact.Path)
	}

	// Print summary
	fmt.Fprintf(r.writer, "%s\n", strings.Repeat("-", 80))
	fmt.Fprintf(r.writer, "Total: %d items, %d selected\n", result.Len(), result.SelectedCount())

	return nil
}

func (r *Reporter) buildScanReport(result *scanner.ScanResult) scanReport {
	report := scanReport{
		Timestamp: r.now().Format(time.RFC3339),
		Program:   result.Program.Name,
		Version:   result.Program.Version,
		Location:  result.Program.InstallLocation,
		Terms:     result.Terms,
		Total:     result.Len(),
		ByKind:    make(map[string]int),
		Items:     make([]scanReportItem, 0, result.Len()),
	}
	for k, n := range result.CountByKind() {
		report.ByKind[k.String()] = n
	}
	for _, item := range result.Items {
		report.Items = append(report.Items, scanReportItem{
			Kind:     item.Artifact.Kind,
			Path:     item.Artifact.Path,
			Selected: item.Selected,
		})
	}
	return report
}

// cleanReport is the serialized form of a deletion outcome
type cleanReport struct {
	Timestamp  string   `json:"timestamp" yaml:"timestamp"`
	Deleted    []string `json:"deleted" yaml:"deleted"`
	Failed     []string `json:"failed" yaml:"failed"`
	BackupPath string   `json:"backup_path,omitempty" yaml:"backup_path,omitempty"`
}

// ReportClean reports the outcome of a deletion batch
func (r *Reporter) ReportClean(result *cleaner.CleanResult) error {
	report := cleanReport{
		Timestamp:  r.now().Format(time.RFC3339),
		Deleted:    make([]string, 0, len(result.Deleted)),
		Failed:     make([]string, 0, len(result.Errors)),
		BackupPath: result.BackupPath,
	}
	for _, a := range result.Deleted {
		report.Deleted = append(report.Deleted, a.String())
	}
	for _, e := range result.Errors {
		report.Failed = append(report.Failed, e.Error())
	}

	switch r.format {
	case FormatJSON:
		return r.encodeJSON(report)
	case FormatYAML:
		return r.encodeYAML(report)
	case FormatSummary, FormatTable:
		fmt.Fprintf(r.writer, "Deleted: %d items\n", len(report.Deleted))
		if report.BackupPath != "" {
			fmt.Fprintf(r.writer, "Registry backup: %s\n", report.BackupPath)
		}
		if len(result.Errors) > 0 {
			fmt.Fprintf(r.writer, "\nFailed: %d items\n", len(report.Failed))
			for _, e := range result.Errors {
				fmt.Fprintf(r.writer, "  %s\n", e.Error())
				if hint := e.Hint(); hint != "" {
					fmt.Fprintf(r.writer, "    → %s\n", hint)
				}
			}
			fmt.Fprintf(r.writer, "\n%s", cleaner.FormatErrorSummary(result.Errors))
		}
		return nil
	default:
		return fmt.Errorf("unsupported format: %s", r.format)
	}
}

func (r *Reporter) encodeJSON(v any) error {
	encoder := json.NewEncoder(r.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func (r *Reporter) encodeYAML(v any) error {
	encoder := yaml.NewEncoder(r.writer)
	defer encoder.Close()
	return encoder.Encode(v)
}

// SaveToFile saves the report to a file
func SaveToFile(result *scanner.ScanResult, path string, format OutputFormat) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	reporter := New(file, format)
	return reporter.Report(result)
}
