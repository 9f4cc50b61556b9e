package config

// GetDefault returns the default configuration
func GetDefault() *Config {
	return &Config{
		Backup: BackupConfig{
			Enabled: true, // Registry deletion is permanent, keep a log by default
			DirName: "KuriUninstaller_Backups",
		},
		Scan: ScanConfig{
			ProgramDataDir: "",
		},
		ProtectedPaths: []string{
			// User can add paths that must never be sent to the trash
		},
		History: HistoryConfig{
			Enabled:  true,
			KeepDays: 90,
		},
		Logging: LoggingConfig{
			Level:      "info",
			File:       "",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
		Output: OutputConfig{
			Format: "summary",
		},
	}
}
