package cli

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/grantcheck/internal/adapters/driving/tui"
)

var viewOut string

var viewCmd = &cobra.Command{
	Use:   "view [documents...]",
	Short: "Reconcile and browse the report interactively",
	Long: `Runs a reconciliation and opens the report in an interactive viewer.

Controls:
  ↑/k, ↓/j - Navigate rows
  Enter    - Show notes for the selected row
  Tab      - Switch between processed rows and skipped documents
  e        - Export the highlighted spreadsheet
  ?        - Toggle help
  q        - Quit`,
	Args: cobra.MinimumNArgs(1),
	RunE: runView,
}

func init() {
	addBatchFlags(viewCmd)
	viewCmd.Flags().StringVarP(&viewOut, "out", "o", "", "export path (default: export directory)")
	rootCmd.AddCommand(viewCmd)
}

func runView(cmd *cobra.Command, args []string) error {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	report, err := reconcileOnce(cmd.Context(), args)
	if err != nil {
		return err
	}

	exportPath := viewOut
	if exportPath == "" {
		if exportPath, err = defaultExportPath(cmd.Context(), reconcilePipeline); err != nil {
			return err
		}
	}

	app, err := tui.NewApp(tui.NewPorts(reconcileService), report, exportPath)
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	app.WithContext(cmd.Context())

	if err := app.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
