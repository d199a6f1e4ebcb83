// Command grantcheck reconciles grant letters against a reference table.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/custodia-labs/grantcheck/internal/adapters/driven/config/file"
	"github.com/custodia-labs/grantcheck/internal/adapters/driven/reference/csvtable"
	"github.com/custodia-labs/grantcheck/internal/adapters/driven/spreadsheet/xlsx"
	"github.com/custodia-labs/grantcheck/internal/adapters/driving/cli"
	"github.com/custodia-labs/grantcheck/internal/connectors/filesystem"
	"github.com/custodia-labs/grantcheck/internal/core/services"
	"github.com/custodia-labs/grantcheck/internal/logger"
	"github.com/custodia-labs/grantcheck/internal/normalisers"
	"github.com/custodia-labs/grantcheck/internal/normalisers/pdf"
	"github.com/custodia-labs/grantcheck/internal/normalisers/plaintext"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	configStore, err := file.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("opening config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore)
	settings := settingsService.Get()
	logger.SetVerbose(settings.Verbose)

	grammarStore, err := file.NewGrammarStore(settings.GrammarDir)
	if err != nil {
		return fmt.Errorf("opening grammar store: %w", err)
	}
	pipelineService := services.NewPipelineService(grammarStore)

	pdfNormaliser := pdf.New().WithTool(settings.PDFTool)
	if err := pdf.CheckAvailable(); err != nil && settings.PDFTool == pdf.DefaultTool {
		logger.Warn("%v\n%s", err, pdf.InstallInstructions())
	}
	registry := normalisers.NewRegistry(pdfNormaliser, plaintext.New())

	source := filesystem.New()
	defer source.Close() //nolint:errcheck

	reconcileService := services.NewReconcileService(
		pipelineService, registry, xlsx.New(), settings.FillColor,
	)
	batchService := services.NewBatchService(csvtable.New(), source)

	cli.SetServices(&cli.Services{
		Reconcile: reconcileService,
		Pipelines: pipelineService,
		Settings:  settingsService,
		Loader:    batchService,
	})
	return cli.Execute(ctx)
}
