// =============================================================================
// CSV Sales Watcher - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. All other commands
// are attached to it.
//
// COBRA CLI STRUCTURE:
//   rootCmd (saleswatch)
//   ├── watchCmd   (saleswatch watch)
//   ├── reportCmd  (saleswatch report)
//   └── versionCmd (saleswatch version)
//
// CONFIGURATION:
//   Settings are resolved in this order, later entries winning:
//   1. Built-in defaults
//   2. The YAML file given by --config
//   3. Environment variables (and a .env file)
//   4. The --dir, --logfile and --key-name flags
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/csv-sales-watcher/internal/config"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the main configuration file.
var cfgFile string

// verbose mirrors the log to stderr and enables debug logging.
var verbose bool

// Overrides for the watched directory, the log file and the row key field.
var (
	watchDir string
	logFile  string
	keyName  string
)

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "saleswatch",
	Short: "CSV Sales Watcher - keep daily sales files in memory and report on them",
	Long: `CSV Sales Watcher loads one CSV file per day from a watched directory,
keeps an in-memory store in sync with the files as they are created, modified
and deleted, and reports daily totals, averages, trends and outliers.

Files are named <YYYY-MM-DD>.csv and hold one row per time of day:

  hour;sales_amount;product;region
  09:00;150;Widget A;East

Example Usage:
  saleswatch watch --dir ./data            # Watch a directory
  saleswatch report --kind sales-trend     # Print one report and exit
  saleswatch report --export out.xlsx      # Export every report`,

	SilenceUsage: true,

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the root command. It is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	flags := rootCmd.PersistentFlags()

	flags.StringVar(&cfgFile, "config", "config.yaml", "Path to the configuration file")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output for debugging")

	flags.StringVar(&watchDir, "dir", "", "Directory holding the daily sales files (overrides watch_dir)")
	flags.StringVar(&logFile, "logfile", "", "Log file name or path (overrides log_file)")
	flags.StringVar(&keyName, "key-name", "", "CSV column holding the time of day (overrides csv.key_name)")
}

// loadConfig loads the configuration and applies the flags the user set.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("dir") {
		cfg.WatchDir = watchDir
	}
	if flags.Changed("logfile") {
		cfg.LogFile = logFile
	}
	if flags.Changed("key-name") {
		cfg.CSV.KeyName = keyName
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
