package reporter

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/fenilsonani/kuri-uninstaller/internal/cleaner"
	"github.com/fenilsonani/kuri-uninstaller/internal/program"
	"github.com/fenilsonani/kuri-uninstaller/internal/scanner"
)

func sampleResult() *scanner.ScanResult {
	id := program.Identity{Name: "Foo Bar", Version: "2.0", InstallLocation: `C:\Apps\FooBarApp`}
	result := scanner.NewScanResult(id, []string{"foo bar", "foobar", "foobarapp"}, []scanner.Artifact{
		scanner.File(`C:\Users\me\AppData\Local\foobar.log`),
		scanner.Directory(`C:\Apps\FooBarApp`),
		scanner.RegistryKey(`HKEY_CURRENT_USER\Software\FooBar`),
	})
	result.SetSelected(1, false)
	return result
}

func newTestReporter(buf *bytes.Buffer, format OutputFormat) *Reporter {
	r := New(buf, format)
	r.now = func() time.Time { return time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC) }
	return r
}

func TestParseFormat(t *testing.T) {
	for _, name := range []string{"summary", "table", "json", "YAML"} {
		_, err := ParseFormat(name)
		assert.NoError(t, err, name)
	}
	_, err := ParseFormat("xml")
	assert.Error(t, err)
}

func TestReportSummary(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, newTestReporter(&buf, FormatSummary).Report(sampleResult()))

	out := buf.String()
	assert.Contains(t, out, "=== Leftovers of Foo Bar (2.0) ===")
	assert.Contains(t, out, "Search terms: foo bar, foobar, foobarapp")
	assert.Contains(t, out, "Total items: 3")
	assert.Contains(t, out, "Folder:  1")
	assert.Contains(t, out, `[Registry] HKEY_CURRENT_USER\Software\FooBar`)
}

func TestReportSummaryEmpty(t *testing.T) {
	var buf bytes.Buffer
	result := scanner.NewScanResult(program.Identity{Name: "Foo"}, []string{"foo"}, nil)
	require.NoError(t, newTestReporter(&buf, FormatSummary).Report(result))
	assert.Contains(t, buf.String(), "No leftovers found.")
}

func TestReportTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, newTestReporter(&buf, FormatTable).Report(sampleResult()))

	out := buf.String()
	assert.Contains(t, out, "Folder   | [ ] | C:\\Apps\\FooBarApp")
	assert.Contains(t, out, "File     | [x] |")
	assert.Contains(t, out, "Total: 3 items, 2 selected")
}

func TestReportJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, newTestReporter(&buf, FormatJSON).Report(sampleResult()))

	var report scanReport
	require.NoError(t, json.Unmarshal(buf.Bytes(), &report))
	assert.Equal(t, "2024-03-09T14:05:07Z", report.Timestamp)
	assert.Equal(t, "Foo Bar", report.Program)
	assert.Equal(t, 3, report.Total)
	assert.Equal(t, map[string]int{"file": 1, "folder": 1, "registry": 1}, report.ByKind)
	assert.Contains(t, buf.String(), `"kind": "registry"`)
	assert.False(t, report.Items[1].Selected)
}

func TestReportYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, newTestReporter(&buf, FormatYAML).Report(sampleResult()))

	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "Foo Bar", decoded["program"])
	assert.Contains(t, buf.String(), "kind: folder")
}

func TestReportUnsupportedFormat(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, New(&buf, "xml").Report(sampleResult()))
}

func TestReportClean(t *testing.T) {
	result := &cleaner.CleanResult{
		Deleted: []scanner.Artifact{scanner.File(`C:\x\foo.log`)},
		Errors: []*cleaner.DeletionError{{
			Target:   `C:\x\bar.log`,
			Reason:   cleaner.ErrorTrashFailed,
			Cause:    cleaner.CauseInUse,
			Original: errors.New("in use"),
		}},
		BackupPath: `C:\Users\me\Documents\KuriUninstaller_Backups\log.txt`,
	}

	var summary bytes.Buffer
	require.NoError(t, newTestReporter(&summary, FormatSummary).ReportClean(result))
	assert.Contains(t, summary.String(), "Deleted: 1 items")
	assert.Contains(t, summary.String(), "Registry backup:")
	assert.Contains(t, summary.String(), `Failed to delete C:\x\bar.log: in use`)
	assert.Contains(t, summary.String(), "→ Close the application using it and try again")

	var js bytes.Buffer
	require.NoError(t, newTestReporter(&js, FormatJSON).ReportClean(result))
	var report cleanReport
	require.NoError(t, json.Unmarshal(js.Bytes(), &report))
	assert.Equal(t, []string{`[File] C:\x\foo.log`}, report.Deleted)
	assert.Equal(t, []string{`Failed to delete C:\x\bar.log: in use`}, report.Failed)
}

func TestSaveToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	require.NoError(t, SaveToFile(sampleResult(), path, FormatJSON))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"program": "Foo Bar"`)
}
