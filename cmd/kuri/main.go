package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/fenilsonani/kuri-uninstaller/internal/cleaner"
	"github.com/fenilsonani/kuri-uninstaller/internal/config"
	"github.com/fenilsonani/kuri-uninstaller/internal/logging"
	"github.com/fenilsonani/kuri-uninstaller/internal/platform"
	"github.com/fenilsonani/kuri-uninstaller/internal/program"
	"github.com/fenilsonani/kuri-uninstaller/internal/reporter"
	"github.com/fenilsonani/kuri-uninstaller/internal/scanner"
	"github.com/fenilsonani/kuri-uninstaller/internal/ui"
	"github.com/fenilsonani/kuri-uninstaller/internal/uninstaller"
)

var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

var (
	configPath string
	verbose    bool
	outputFmt  string
	outputFile string
	location   string
	detailed   bool
	showLive   bool
	assumeYes  bool
	noBackup   bool
	kindNames  []string
	initConfig bool
	showLast   bool
)

// Set up by the root command before any subcommand runs
var (
	cfg  *config.Config
	logs *logging.Manager
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "kuri",
	Short: "Find and remove what uninstalled programs leave behind",
	Long: `Kuri finds the files, folders and registry keys a Windows program leaves
behind after it is uninstalled, lets you review them and deletes the ones you
choose. Files and folders go to the Recycle Bin; registry keys can be logged
to your Documents folder before they are removed.

Run without a command to start the interactive interface.`,
	Version:      fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildTime),
	SilenceUsage: true,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logs != nil {
			_ = logs.Close()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := openService()
		if err != nil {
			return err
		}
		return ui.RunInteractive(svc)
	},
}

var programsCmd = &cobra.Command{
	Use:   "programs",
	Short: "List installed programs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := openService()
		if err != nil {
			return err
		}

		programs, err := svc.LoadPrograms()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, p := range programs {
			fmt.Fprintf(out, "%-50s %-15s %s\n", p.Name, p.Version, p.InstallLocation)
		}
		fmt.Fprintf(out, "\n%d programs\n", len(programs))
		return nil
	},
}

var scanCmd = &cobra.Command{
	Use:   "scan NAME",
	Short: "Scan for leftovers of a program",
	Long: `Scans the usual data folders and the registry for leftovers of a program
and reports them without making any changes.

Use --detailed (-d) to see the leftovers grouped by parent folder or key.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := outputFormat()
		if err != nil {
			return err
		}

		svc, err := openService()
		if err != nil {
			return err
		}

		result, err := scan(cmd, svc, args[0])
		if err != nil {
			return err
		}

		if outputFile != "" {
			if err := reporter.SaveToFile(result, outputFile, format); err != nil {
				return fmt.Errorf("failed to save report: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Report saved to: %s\n", outputFile)
			return nil
		}

		if detailed && result.Len() > 0 {
			ui.PrintLeftoverTree(cmd.OutOrStdout(), result)
			return nil
		}

		if err := reporter.New(cmd.OutOrStdout(), format).Report(result); err != nil {
			return fmt.Errorf("failed to generate report: %w", err)
		}
		return nil
	},
}

var cleanCmd = &cobra.Command{
	Use:   "clean NAME",
	Short: "Scan for leftovers of a program and delete them",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := outputFormat()
		if err != nil {
			return err
		}

		kinds, err := parseKinds(kindNames)
		if err != nil {
			return err
		}

		svc, err := openService()
		if err != nil {
			return err
		}

		result, err := scan(cmd, svc, args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if err := reporter.New(out, reporter.FormatSummary).Report(result); err != nil {
			return fmt.Errorf("failed to generate report: %w", err)
		}
		if result.Len() == 0 {
			return nil
		}

		if len(kinds) > 0 {
			result.SelectKinds(kinds...)
		}
		if result.SelectedCount() == 0 {
			fmt.Fprintln(out, "\nNothing selected for deletion")
			return nil
		}

		if !assumeYes {
			prompt := fmt.Sprintf("\nDelete %d items? (y/N): ", result.SelectedCount())
			if !confirm(cmd.InOrStdin(), out, prompt) {
				fmt.Fprintln(out, "Deletion cancelled")
				return nil
			}
		}

		withBackup := svc.BackupDefault() && !noBackup

		var live *ui.LiveProgress
		if showLive {
			live = ui.NewLiveProgress("Deleting")
			svc.SetDeleteProgress(live.DeleteCallback())
		}

		fmt.Fprintln(out, "\nDeleting...")
		cleanResult, deleteErr := svc.Delete(result, withBackup)
		if live != nil {
			live.Finish()
		}

		var batchErr *cleaner.BatchError
		if deleteErr != nil && !errors.As(deleteErr, &batchErr) {
			return deleteErr
		}

		if cleanResult != nil {
			if err := reporter.New(out, format).ReportClean(cleanResult); err != nil {
				return fmt.Errorf("failed to generate report: %w", err)
			}
		}

		if batchErr != nil {
			return fmt.Errorf("deletion finished with %d errors", len(batchErr.Errors))
		}
		return nil
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Display current configuration",
	Long:  `Shows the config file location and the configuration being used.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		cfgPath := configPath
		if cfgPath == "" {
			var err error
			if initConfig {
				cfgPath, err = config.EnsureConfigExists()
			} else {
				cfgPath, err = config.GetConfigPath()
			}
			if err != nil {
				return err
			}
		}

		fmt.Fprintf(out, "Config file: %s\n", cfgPath)
		if _, err := os.Stat(cfgPath); os.IsNotExist(err) {
			fmt.Fprintln(out, "Config file does not exist. Using default configuration.")
			fmt.Fprintln(out, "Run 'kuri config --init' to create it.")
		}
		fmt.Fprintf(out, "Log file: %s\n\n", logs.FilePath())

		data, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("failed to marshal config: %w", err)
		}
		_, err = out.Write(data)
		return err
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show past deletions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		sessions, err := config.NewSessionManager(afero.NewOsFs(), config.DefaultSessionsDir())
		if err != nil {
			return err
		}

		if showLast {
			s, err := sessions.GetLatest()
			if err != nil {
				return err
			}
			return printSession(out, s)
		}

		list, err := sessions.List()
		if err != nil {
			return err
		}
		if len(list) == 0 {
			fmt.Fprintln(out, "No deletions recorded")
			return nil
		}
		for _, s := range list {
			fmt.Fprintf(out, "%s  %-40s %4d deleted  %4d failed\n",
				s.Timestamp.Format("2006-01-02 15:04:05"),
				program.Identity{Name: s.ProgramName, Version: s.ProgramVersion}.Label(),
				len(s.Deleted), len(s.Failed))
		}
		return nil
	},
}

func init() {
	// Assigned here because setup refers to rootCmd
	rootCmd.PersistentPreRunE = setup

	// Global flags
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "verbose output")

	// Scan command flags
	scanCmd.Flags().StringVar(&outputFmt, "output", "", "output format (summary, table, json, yaml)")
	scanCmd.Flags().StringVar(&outputFile, "file", "", "save report to file")
	scanCmd.Flags().StringVar(&location, "location", "", "install location to search (overrides the registered one)")
	scanCmd.Flags().BoolVarP(&detailed, "detailed", "d", false, "show leftovers as a tree")
	scanCmd.Flags().BoolVarP(&showLive, "live", "l", false, "show live scanning progress")

	// Clean command flags
	cleanCmd.Flags().StringVar(&outputFmt, "output", "", "output format of the deletion report (summary, table, json, yaml)")
	cleanCmd.Flags().StringVar(&location, "location", "", "install location to search (overrides the registered one)")
	cleanCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "skip confirmation prompt")
	cleanCmd.Flags().BoolVar(&noBackup, "no-backup", false, "do not log registry keys before deleting them")
	cleanCmd.Flags().StringSliceVar(&kindNames, "kind", nil, "delete only leftovers of this kind (file, folder, registry); repeatable")
	cleanCmd.Flags().BoolVarP(&showLive, "live", "l", false, "show live progress")

	// Config command flags
	configCmd.Flags().BoolVar(&initConfig, "init", false, "create a default config file if none exists")

	// History command flags
	historyCmd.Flags().BoolVar(&showLast, "last", false, "show details of the most recent deletion")

	// Add commands
	rootCmd.AddCommand(programsCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(historyCmd)
}

// setup loads the configuration and starts logging
func setup(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logFile := cfg.Logging.File
	if logFile == "" {
		logFile = config.StatePath("kuri.log")
	}

	logCfg := logging.Config{
		FilePath:   logFile,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
		Level:      cfg.Logging.Level,
	}
	// The interactive interface owns the terminal
	if verbose && cmd != rootCmd {
		logCfg.Level = "debug"
		logCfg.Console = zapcore.Lock(os.Stderr)
	}

	logs, err = logging.NewManager(logCfg)
	if err != nil {
		return fmt.Errorf("failed to start logging: %w", err)
	}

	logs.For("cli").Debug("starting", zap.String("command", cmd.CommandPath()), zap.String("version", Version))
	return nil
}

func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.Load(configPath)
	}

	cfgPath, err := config.GetConfigPath()
	if err != nil {
		return nil, err
	}

	return config.Load(cfgPath)
}

// openService checks for administrator rights and opens the machine
func openService() (*uninstaller.Service, error) {
	if err := platform.RequireElevated(); err != nil {
		return nil, fmt.Errorf("%w: run kuri from an elevated prompt", err)
	}
	return uninstaller.Open(cfg, logs)
}

// scan resolves name to a program and scans for its leftovers
func scan(cmd *cobra.Command, svc *uninstaller.Service, name string) (*scanner.ScanResult, error) {
	id, err := resolveProgram(svc, name, location)
	if err != nil {
		return nil, err
	}

	var live *ui.LiveProgress
	if showLive {
		live = ui.NewLiveProgress("Scanning")
		svc.SetScanProgress(live.ScanCallback())
	}

	result, err := svc.Scan(cmd.Context(), id)
	if live != nil {
		live.Finish()
	}
	if err != nil {
		return nil, fmt.Errorf("scan failed: %w", err)
	}
	return result, nil
}

// resolveProgram finds an installed program by name. With an explicit
// location, a program missing from the uninstall registry is scanned as is.
func resolveProgram(svc *uninstaller.Service, name, loc string) (program.Identity, error) {
	programs, err := svc.LoadPrograms()
	if err != nil && loc == "" {
		return program.Identity{}, err
	}

	id, findErr := program.Find(programs, name)
	if findErr != nil {
		if loc == "" {
			return program.Identity{}, findErr
		}
		id = program.Identity{Name: name}
	}
	if loc != "" {
		id.InstallLocation = loc
	}
	return id, nil
}

func outputFormat() (reporter.OutputFormat, error) {
	name := outputFmt
	if name == "" {
		name = cfg.Output.Format
	}
	return reporter.ParseFormat(name)
}

func parseKinds(names []string) ([]scanner.Kind, error) {
	kinds := make([]scanner.Kind, 0, len(names))
	for _, name := range names {
		k, err := scanner.ParseKind(strings.TrimSpace(name))
		if err != nil {
			return nil, err
		}
		kinds = append(kinds, k)
	}
	return kinds, nil
}

// confirm asks a yes/no question; anything but y or yes is a no
func confirm(in io.Reader, out io.Writer, prompt string) bool {
	fmt.Fprint(out, prompt)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

func printSession(out io.Writer, s *config.Session) error {
	fmt.Fprintf(out, "Session:  %s\n", s.ID)
	fmt.Fprintf(out, "Time:     %s\n", s.Timestamp.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(out, "Program:  %s\n", program.Identity{Name: s.ProgramName, Version: s.ProgramVersion}.Label())
	if s.BackupPath != "" {
		fmt.Fprintf(out, "Backup:   %s\n", s.BackupPath)
	}

	fmt.Fprintf(out, "\nDeleted: %d items\n", len(s.Deleted))
	for _, d := range s.Deleted {
		fmt.Fprintf(out, "  %s\n", d)
	}
	if len(s.Failed) > 0 {
		fmt.Fprintf(out, "\nFailed: %d items\n", len(s.Failed))
		for _, f := range s.Failed {
			fmt.Fprintf(out, "  %s\n", f)
		}
	}
	return nil
}
