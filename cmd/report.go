// =============================================================================
// CSV Sales Watcher - Report Command
// =============================================================================
//
// COMMAND USAGE:
//   saleswatch report [flags]
//
// FLAGS:
//   --kind    : daily-totals, average-sales, sales-trend, outliers or all
//   --export  : Write the reports to this file instead of printing them
//   --format  : xlsx, pdf, xml or json (default: from the --export extension)
//   --dump    : Print the store contents instead of the reports
//
// =============================================================================

package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/csv-sales-watcher/internal/export"
	"github.com/ginjaninja78/csv-sales-watcher/internal/report"
)

var (
	reportKind   string
	exportPath   string
	exportFormat string
	dumpStore    bool
)

// reportCmd represents the 'report' command.
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Load the watched directory once and print or export the reports",
	Long: `The report command loads every daily sales file of the watched directory
and prints the selected report tables. With --export the tables are written
to a file instead, one sheet or section per table.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runReport(cmd)
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().StringVar(&reportKind, "kind", "all", "Report to generate: daily-totals, average-sales, sales-trend, outliers or all")
	reportCmd.Flags().StringVar(&exportPath, "export", "", "Write the reports to this file")
	reportCmd.Flags().StringVar(&exportFormat, "format", "", "Export format: xlsx, pdf, xml or json (default: from the file extension)")
	reportCmd.Flags().BoolVar(&dumpStore, "dump", false, "Print every stored record")
}

func runReport(cmd *cobra.Command) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	out := cmd.OutOrStdout()

	if dumpStore {
		return report.Dump(out, a.store.Snapshot())
	}

	tables, err := a.tables(reportKind)
	if err != nil {
		return err
	}

	if exportPath == "" {
		return report.WriteText(out, tables...)
	}

	name := exportFormat
	if name == "" {
		name = filepath.Ext(exportPath)
	}
	format, err := export.ParseFormat(name)
	if err != nil {
		return err
	}

	if err := export.WriteFile(exportPath, format, tables...); err != nil {
		return err
	}
	fmt.Fprintf(out, "Wrote %d report(s) to %s\n", len(tables), exportPath)
	return nil
}
