package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/grantcheck/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for grantcheck resources.
	uriScheme = "grantcheck://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "pipelines",
		Name:        "pipelines",
		Description: "List of reconciliation pipelines",
		MIMEType:    "application/json",
	}, s.handlePipelinesResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "pipelines/{pipelineId}",
		Name:        "pipeline-grammar",
		Description: "Grammar definition of a specific pipeline",
		MIMEType:    "application/json",
	}, s.handlePipelineResource)
}

// handlePipelinesResource returns the pipeline catalogue.
func (s *Server) handlePipelinesResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Pipelines == nil {
		return jsonResult(req.Params.URI, "[]"), nil
	}

	_, output, err := s.handleListPipelines(ctx, nil, PipelinesInput{})
	if err != nil {
		return nil, fmt.Errorf("listing pipelines: %w", err)
	}

	data, err := json.MarshalIndent(output.Pipelines, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling pipelines: %w", err)
	}
	return jsonResult(req.Params.URI, string(data)), nil
}

// handlePipelineResource returns the grammar behind one pipeline.
func (s *Server) handlePipelineResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Pipelines == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	// grantcheck://pipelines/{pipelineId}
	id := extractPipelineID(req.Params.URI)
	if id == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	def, err := s.ports.Pipelines.Definition(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("loading pipeline: %w", err)
	}

	data, err := json.MarshalIndent(def, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling pipeline: %w", err)
	}
	return jsonResult(req.Params.URI, string(data)), nil
}

func jsonResult(uri, text string) *mcp.ReadResourceResult {
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     text,
		}},
	}
}

// extractPipelineID extracts the pipeline ID from a URI like grantcheck://pipelines/{pipelineId}.
func extractPipelineID(uri string) string {
	const prefix = uriScheme + "pipelines/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}
	id := strings.TrimPrefix(uri, prefix)
	if strings.Contains(id, "/") {
		return ""
	}
	return id
}
