package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/grantcheck/internal/adapters/driving/mcp"
	"github.com/custodia-labs/grantcheck/internal/core/services"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server for AI assistant integration.

By default, the server communicates over stdio using JSON-RPC. It exposes
the reconcile and list_pipelines tools and the grantcheck://pipelines
resources.

Use --port to start an HTTP server instead, or --http to pick the first
free port in the default range.

Examples:
  # Stdio mode (default)
  grantcheck mcp serve

  # HTTP mode
  grantcheck mcp serve --port 8760
  grantcheck mcp serve --http`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpServeCmd.Flags().Bool("http", false, "serve over HTTP on the first free port in the default range")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}
	useHTTP, err := cmd.Flags().GetBool("http")
	if err != nil {
		return fmt.Errorf("getting http flag: %w", err)
	}

	ports := &mcp.Ports{
		Reconcile: reconcileService,
		Loader:    batchLoader,
		Pipelines: pipelineService,
	}

	server, err := mcp.NewServer(ports)
	if err != nil {
		return err
	}

	if port == 0 && useHTTP {
		r := services.DefaultMCPPortRange
		if port, err = services.FindAvailablePort(r[0], r[1]); err != nil {
			return err
		}
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}
