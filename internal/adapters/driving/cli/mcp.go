package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abdelmaseeh/SmartEgyBible/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server for AI assistant integration.

The server exposes tools to list works, read and render chapters, and ask
questions grounded on St-Takla.org. Chapters are also available as
resources at smartegy://chapters/{work}/{chapter}.

By default, the server communicates over stdio using JSON-RPC. Use --http
to start an HTTP server instead.

Examples:
  # Stdio mode (default)
  smartegy mcp

  # HTTP mode (for MCP Inspector, remote access)
  smartegy mcp --http :8081`,
	Args: cobra.NoArgs,
	RunE: runMCPServe,
}

func init() {
	mcpCmd.Flags().String("http", "", "serve over HTTP on this address instead of stdio")
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	addr, err := cmd.Flags().GetString("http")
	if err != nil {
		return fmt.Errorf("getting http flag: %w", err)
	}

	ports := &mcp.Ports{
		Works:    workService,
		Chapters: chapterService,
	}
	if answerService != nil {
		ports.Answers = answerService
	}
	if settingsService != nil {
		if settings, err := settingsService.Get(); err == nil {
			ports.Domain = settings.Chat.Domain
		}
	}

	server, err := mcp.NewServer(ports)
	if err != nil {
		return err
	}

	if addr != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on %s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}
