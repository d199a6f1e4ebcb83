package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/grantcheck/internal/core/domain"
	"github.com/custodia-labs/grantcheck/internal/core/ports/driving"
	"github.com/custodia-labs/grantcheck/internal/core/services"
	"github.com/custodia-labs/grantcheck/internal/logger"
)

// Output formats for reconcile.
const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

// watchDebounce collapses bursts of file events into one run.
const watchDebounce = 300 * time.Millisecond

var (
	reconcilePipeline   string
	reconcileReference  string
	reconcileOut        string
	reconcileExport     bool
	reconcileFormat     string
	reconcileDuplicates string
	reconcileWatch      bool
)

var reconcileCmd = &cobra.Command{
	Use:   "reconcile [documents...]",
	Short: "Reconcile documents against a reference table",
	Long: `Extracts the pipeline's fields from each document, matches the document
to its reference row by employee name and compares every field.

Documents may be files or directories; directories are expanded in
lexical order. Documents are processed in argument order and a later
document for the same employee replaces an earlier one unless
--duplicates=reject is given.

Examples:
  grantcheck reconcile --pipeline shares-es --reference plan.csv letters/
  grantcheck reconcile -p bonus-en -r bonus.csv --out checked.xlsx a.pdf b.pdf
  grantcheck reconcile -p bonus-en -r bonus.csv --format json letters/`,
	Args: cobra.MinimumNArgs(1),
	RunE: runReconcile,
}

func init() {
	addBatchFlags(reconcileCmd)
	reconcileCmd.Flags().StringVarP(&reconcileOut, "out", "o", "", "write the highlighted spreadsheet to this path")
	reconcileCmd.Flags().BoolVar(&reconcileExport, "export", false,
		"write the highlighted spreadsheet to the export directory")
	reconcileCmd.Flags().StringVarP(&reconcileFormat, "format", "f", formatTable, "output format: table, json or yaml")
	reconcileCmd.Flags().BoolVarP(&reconcileWatch, "watch", "w", false, "re-run when documents change")
	rootCmd.AddCommand(reconcileCmd)
}

// addBatchFlags registers the flags shared by commands that run a reconciliation.
func addBatchFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&reconcilePipeline, "pipeline", "p", "", "pipeline ID (see 'grantcheck pipelines')")
	cmd.Flags().StringVarP(&reconcileReference, "reference", "r", "", "reference table (CSV)")
	cmd.Flags().StringVar(&reconcileDuplicates, "duplicates", string(domain.DuplicateLastWins),
		"duplicate-identity policy: last-wins or reject")
	_ = cmd.MarkFlagRequired("pipeline")
	_ = cmd.MarkFlagRequired("reference")
}

func runReconcile(cmd *cobra.Command, args []string) error {
	switch reconcileFormat {
	case formatTable, formatJSON, formatYAML:
	default:
		return fmt.Errorf("%w: unknown format %q", domain.ErrInvalidInput, reconcileFormat)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	report, err := reconcileOnce(ctx, args)
	if err != nil {
		return err
	}
	if err := emitReport(cmd, report); err != nil {
		return err
	}

	if !reconcileWatch {
		return nil
	}
	return watchAndReconcile(ctx, cmd, args)
}

// reconcileOnce loads the batch and runs one reconciliation.
func reconcileOnce(ctx context.Context, paths []string) (*domain.Report, error) {
	if err := requireService("reconcile service", reconcileService != nil && batchLoader != nil); err != nil {
		return nil, err
	}

	policy, err := domain.ParseDuplicatePolicy(reconcileDuplicates)
	if err != nil {
		return nil, err
	}

	ref, err := batchLoader.LoadReference(ctx, reconcileReference)
	if err != nil {
		return nil, err
	}
	docs, err := batchLoader.LoadDocuments(ctx, paths)
	if err != nil {
		return nil, err
	}

	report, err := reconcileService.Reconcile(ctx, driving.ReconcileRequest{
		Pipeline:   reconcilePipeline,
		Reference:  ref,
		Documents:  docs,
		Duplicates: policy,
	})
	if err != nil {
		return nil, fmt.Errorf("reconcile failed: %w", err)
	}
	return report, nil
}

func emitReport(cmd *cobra.Command, report *domain.Report) error {
	if err := writeReport(cmd, report); err != nil {
		return err
	}

	path, err := exportTarget(cmd.Context())
	if err != nil || path == "" {
		return err
	}
	err = exportReport(cmd.Context(), report, path)
	switch {
	case errors.Is(err, domain.ErrNothingToExport):
		cmd.PrintErrln("Nothing to export: no reference row was processed.")
		return nil
	case err != nil:
		return err
	}
	cmd.PrintErrf("Exported %s\n", path)
	return nil
}

func writeReport(cmd *cobra.Command, report *domain.Report) error {
	out := cmd.OutOrStdout()
	switch reconcileFormat {
	case formatJSON:
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal report: %w", err)
		}
		fmt.Fprintln(out, string(data))
	case formatYAML:
		data, err := yaml.Marshal(report)
		if err != nil {
			return fmt.Errorf("failed to marshal report: %w", err)
		}
		fmt.Fprint(out, string(data))
	default:
		fmt.Fprint(out, renderReport(report))
	}
	return nil
}

// exportTarget resolves where the spreadsheet goes. Empty means no export.
func exportTarget(ctx context.Context) (string, error) {
	if reconcileOut != "" {
		return reconcileOut, nil
	}
	if !reconcileExport {
		return "", nil
	}
	return defaultExportPath(ctx, reconcilePipeline)
}

// defaultExportPath joins the configured export directory and the pipeline's
// export name.
func defaultExportPath(ctx context.Context, pipelineID string) (string, error) {
	if err := requireService("pipeline service", pipelineService != nil); err != nil {
		return "", err
	}
	p, err := pipelineService.Get(ctx, pipelineID)
	if err != nil {
		return "", err
	}
	name := p.Labels.ExportName
	if name == "" {
		name = p.ID + ".xlsx"
	}
	dir := ""
	if settingsService != nil {
		dir = settingsService.Get().ExportDir
	}
	return filepath.Join(dir, name), nil
}

func exportReport(ctx context.Context, report *domain.Report, path string) error {
	if err := services.ExportFile(ctx, reconcileService, report, path); err != nil {
		return fmt.Errorf("export failed: %w", err)
	}
	return nil
}

// watchAndReconcile re-runs the whole batch after document changes settle.
func watchAndReconcile(ctx context.Context, cmd *cobra.Command, paths []string) error {
	changes, err := batchLoader.Watch(ctx, paths)
	if err != nil {
		return fmt.Errorf("watching documents: %w", err)
	}
	cmd.PrintErrln("Watching for changes (ctrl+c to stop)...")

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case change, ok := <-changes:
			if !ok {
				return nil
			}
			logger.Debug("document %s: %s", change.Type, change.URI)
			pending = time.After(watchDebounce)
		case <-pending:
			pending = nil
			report, err := reconcileOnce(ctx, paths)
			if err != nil {
				cmd.PrintErrf("Error: %v\n", err)
				continue
			}
			fmt.Fprintln(cmd.OutOrStdout())
			if err := emitReport(cmd, report); err != nil {
				cmd.PrintErrf("Error: %v\n", err)
			}
		}
	}
}
