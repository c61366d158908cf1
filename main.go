// =============================================================================
// CSV Sales Watcher - Main Entry Point
// =============================================================================
//
// This is the main entry point for the saleswatch CLI application.
// It initializes the Cobra CLI framework and delegates command execution to
// the cmd package.
//
// USAGE:
//   saleswatch watch        - Load the watched directory and keep it in sync
//   saleswatch report       - Scan the directory once and print the reports
//   saleswatch version      - Display the application version
//
// ARCHITECTURE:
//   - cmd/           : Contains all CLI command definitions (Cobra)
//   - internal/      : Contains core business logic (not for external import)
//   - pkg/           : Contains shared utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/csv-sales-watcher/cmd"
)

func main() {
	cmd.Execute()
}
