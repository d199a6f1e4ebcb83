package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/grantcheck/internal/core/domain"
	"github.com/custodia-labs/grantcheck/internal/core/ports/driving"
	"github.com/custodia-labs/grantcheck/internal/core/services"
)

// ReconcileInput is the input schema for the reconcile tool.
type ReconcileInput struct {
	Pipeline   string   `json:"pipeline" jsonschema:"pipeline ID, e.g. shares-es or bonus-en"`
	Reference  string   `json:"reference" jsonschema:"path to the reference table (CSV)"`
	Documents  []string `json:"documents" jsonschema:"document files or directories, processed in order"`
	Duplicates string   `json:"duplicates,omitempty" jsonschema:"duplicate-identity policy: last-wins (default) or reject"`
	ExportPath string   `json:"export_path,omitempty" jsonschema:"write the highlighted spreadsheet to this path"`
}

// ReconcileOutput is the output schema for the reconcile tool.
type ReconcileOutput struct {
	RunID      string          `json:"run_id"`
	Pipeline   string          `json:"pipeline"`
	Summary    domain.Summary  `json:"summary"`
	Rows       []RowOutput     `json:"rows"`
	Skipped    []SkippedOutput `json:"skipped,omitempty"`
	ExportPath string          `json:"export_path,omitempty"`
}

// RowOutput is one processed reference row.
type RowOutput struct {
	Row        int      `json:"row"`
	Identity   string   `json:"identity"`
	Source     string   `json:"source"`
	Mismatches []string `json:"mismatches,omitempty"`
	Notes      string   `json:"notes,omitempty"`
}

// SkippedOutput is a document that matched no row.
type SkippedOutput struct {
	Document string `json:"document"`
	Reason   string `json:"reason"`
	Identity string `json:"identity,omitempty"`
	Detail   string `json:"detail,omitempty"`
}

// PipelinesInput is the (empty) input schema for the list_pipelines tool.
type PipelinesInput struct{}

// PipelinesOutput is the output schema for the list_pipelines tool.
type PipelinesOutput struct {
	Pipelines []PipelineOutput `json:"pipelines"`
}

// PipelineOutput describes one pipeline.
type PipelineOutput struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Category string   `json:"category"`
	Language string   `json:"language"`
	Columns  []string `json:"columns"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "reconcile",
		Description: "Check grant letters against a reference table and report mismatching fields",
	}, s.handleReconcile)

	if s.ports.Pipelines != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "list_pipelines",
			Description: "List the available reconciliation pipelines and their reference columns",
		}, s.handleListPipelines)
	}
}

// handleReconcile handles the reconcile tool invocation.
func (s *Server) handleReconcile(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ReconcileInput,
) (*mcp.CallToolResult, ReconcileOutput, error) {
	if len(input.Documents) == 0 {
		return nil, ReconcileOutput{}, fmt.Errorf("%w: no documents given", domain.ErrInvalidInput)
	}
	policy, err := domain.ParseDuplicatePolicy(input.Duplicates)
	if err != nil {
		return nil, ReconcileOutput{}, err
	}

	ref, err := s.ports.Loader.LoadReference(ctx, input.Reference)
	if err != nil {
		return nil, ReconcileOutput{}, err
	}
	docs, err := s.ports.Loader.LoadDocuments(ctx, input.Documents)
	if err != nil {
		return nil, ReconcileOutput{}, err
	}

	report, err := s.ports.Reconcile.Reconcile(ctx, driving.ReconcileRequest{
		Pipeline:   input.Pipeline,
		Reference:  ref,
		Documents:  docs,
		Duplicates: policy,
	})
	if err != nil {
		return nil, ReconcileOutput{}, err
	}

	output := reportOutput(report)
	if input.ExportPath != "" {
		if err := s.export(ctx, report, input.ExportPath); err != nil {
			return nil, ReconcileOutput{}, err
		}
		output.ExportPath = input.ExportPath
	}
	return nil, output, nil
}

func (s *Server) export(ctx context.Context, report *domain.Report, path string) error {
	if err := services.ExportFile(ctx, s.ports.Reconcile, report, path); err != nil {
		return fmt.Errorf("exporting report: %w", err)
	}
	return nil
}

// reportOutput flattens a report for tool callers.
func reportOutput(report *domain.Report) ReconcileOutput {
	output := ReconcileOutput{
		RunID:    report.RunID,
		Pipeline: report.Pipeline,
		Summary:  report.Summary,
		Rows:     make([]RowOutput, len(report.Display.Rows)),
	}

	columns := report.Display.Columns
	for i, r := range report.Display.Rows {
		row := RowOutput{Row: r.Row, Identity: r.Identity}
		n := len(r.Cells)
		// the last two cells are the source and the notes
		if n >= 2 {
			row.Source = r.Cells[n-2].Text
			row.Notes = r.Cells[n-1].Text
		}
		for j, cell := range r.Cells {
			if cell.Status == domain.CellFail && j < len(columns) {
				row.Mismatches = append(row.Mismatches, columns[j])
			}
		}
		output.Rows[i] = row
	}

	for _, o := range report.Skipped {
		output.Skipped = append(output.Skipped, SkippedOutput{
			Document: o.Document,
			Reason:   string(o.Skip),
			Identity: o.Identity,
			Detail:   o.Detail,
		})
	}
	return output
}

// handleListPipelines handles the list_pipelines tool invocation.
func (s *Server) handleListPipelines(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ PipelinesInput,
) (*mcp.CallToolResult, PipelinesOutput, error) {
	if s.ports.Pipelines == nil {
		return nil, PipelinesOutput{}, errors.New("pipeline service not configured")
	}
	pipelines, err := s.ports.Pipelines.List(ctx)
	if err != nil {
		return nil, PipelinesOutput{}, err
	}

	output := PipelinesOutput{Pipelines: make([]PipelineOutput, len(pipelines))}
	for i, p := range pipelines {
		output.Pipelines[i] = PipelineOutput{
			ID:       p.ID,
			Title:    p.Title,
			Category: string(p.Category),
			Language: string(p.Language),
			Columns:  p.Schema.Columns(),
		}
	}
	return nil, output, nil
}
