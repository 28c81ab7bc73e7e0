package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/changegear/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server so AI assistants can run gear
train searches and read saved calculations.

By default, the server communicates over stdio using JSON-RPC and can be
used with any MCP-compatible client.

Use --port to start an HTTP server instead, which also exposes Prometheus
metrics on /metrics.

Examples:
  # Stdio mode (default)
  changegear mcp serve

  # HTTP mode with metrics
  changegear mcp serve --port 8080

Client configuration:
  {
    "mcpServers": {
      "changegear": {
        "command": "/path/to/changegear",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}

	ports := &mcp.Ports{
		Calculator: calculatorService,
		History:    historyService,
		Settings:   settingsService,
	}

	server, err := mcp.NewServer(ports)
	if err != nil {
		return err
	}
	server.WithMetrics(metricsHandler)

	watchConfig(cmd.Context(), nil)

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}
