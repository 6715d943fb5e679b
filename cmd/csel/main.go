package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Dicklesworthstone/chipselect/pkg/loader"
	"github.com/Dicklesworthstone/chipselect/pkg/logging"
	"github.com/Dicklesworthstone/chipselect/pkg/updater"
)

var version = "0.1.0"

var (
	configPath string
	logFile    string
	logLevel   string
	logJSON    bool
)

var rootCmd = &cobra.Command{
	Use:   "csel [sources...]",
	Short: "Pick values from large option lists in the terminal",
	Long: `csel shows a searchable single- or multi-select dropdown over option records
read from JSONL, JSON, YAML or SQLite ("file.db#table") sources.`,
	SilenceUsage: true,
	RunE:         runInteractive,
}

var versionCheck bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "csel %s\n", version)
		if !versionCheck {
			return nil
		}
		rel, newer, err := updater.NewChecker().Check(cmd.Context(), version)
		if err != nil {
			return fmt.Errorf("update check failed: %w", err)
		}
		if newer {
			fmt.Fprintf(out, "A newer release is available: %s (%s)\n", rel.TagName, rel.HTMLURL)
		} else {
			fmt.Fprintln(out, "You are on the latest release.")
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML config file")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "write logs to this file (rotated)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "write logs as JSON")

	versionCmd.Flags().BoolVar(&versionCheck, "check", false, "check GitHub for a newer release")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(genCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(configureCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setup loads the config file and installs the logger. The returned closer
// flushes the log file.
func setup() (loader.FileConfig, io.Closer, error) {
	cfg, err := loader.LoadConfig(configPath)
	if err != nil {
		return cfg, nil, err
	}

	path := logFile
	if path == "" {
		path = cfg.LogFile
	}
	_, closer, err := logging.Setup(logging.Options{Path: path, Level: logLevel, JSON: logJSON})
	if err != nil {
		return cfg, nil, err
	}
	slog.Debug("configuration loaded", "config", configPath, "sources", len(cfg.Sources))
	return cfg, closer, nil
}

// sourcesFor returns the sources named on the command line, falling back to the config
func sourcesFor(cfg loader.FileConfig, args []string) ([]loader.Source, error) {
	var sources []loader.Source
	if len(args) > 0 {
		for _, a := range args {
			sources = append(sources, loader.ParseSource(a))
		}
	} else {
		sources = cfg.SourceList()
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("no option sources: pass files as arguments or set sources in the config")
	}
	return sources, nil
}

func defaultHistoryPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "csel", "history.db")
}

func historyPath(cfg loader.FileConfig, flagValue string) string {
	switch {
	case flagValue != "":
		return flagValue
	case cfg.HistoryDB != "":
		return cfg.HistoryDB
	}
	return defaultHistoryPath()
}
