package mcp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/grantcheck/internal/logger"
)

// Version is the MCP server version.
const Version = "0.1.0"

const (
	serverName  = "grantcheck"
	serverTitle = "Grant compensation reconciliation"

	shutdownTimeout = 5 * time.Second
)

// Server exposes reconciliation runs and the pipeline catalogue over MCP.
type Server struct {
	ports  *Ports
	server *mcp.Server
}

// NewServer builds the server and registers the tools and resources the
// given ports support. The list_pipelines tool and the pipeline resources
// need Ports.Pipelines.
func NewServer(ports *Ports) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("validating ports: %w", err)
	}

	impl := &mcp.Implementation{
		Name:    serverName,
		Title:   serverTitle,
		Version: Version,
	}
	opts := &mcp.ServerOptions{
		Instructions: instructions(ports.Pipelines != nil),
	}

	s := &Server{
		ports:  ports,
		server: mcp.NewServer(impl, opts),
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// instructions tells clients how a reconciliation is driven.
func instructions(withPipelines bool) string {
	var b strings.Builder
	b.WriteString("Compares compensation letters (PDF or text) against a reference table (CSV). ")
	if withPipelines {
		b.WriteString("Call list_pipelines or read grantcheck://pipelines to pick a pipeline ID and see its reference columns. ")
	}
	b.WriteString("Call reconcile with the pipeline ID, the reference path and the document paths. ")
	b.WriteString("Each processed row lists the mismatched columns and a note per mismatch; ")
	b.WriteString("documents that could not be matched are returned as skipped with a reason. ")
	b.WriteString("Set export_path to also write the highlighted spreadsheet.")
	return b.String()
}

// Run serves over stdio until ctx is cancelled or the client disconnects.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// RunHTTP serves the streamable HTTP transport on addr until ctx is
// cancelled.
func (s *Server) RunHTTP(ctx context.Context, addr string) error {
	handler := mcp.NewStreamableHTTPHandler(func(_ *http.Request) *mcp.Server {
		return s.server
	}, nil)

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("mcp: shutting down %s: %v", addr, err)
		}
	}()

	logger.Debug("mcp: serving reconciliation tools on http://%s", addr)
	err := httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
