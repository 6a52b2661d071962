package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/slidefit/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server so AI assistants can validate,
edit and preview slides.

By default, the server communicates over stdio using JSON-RPC and can be
used with Claude Desktop and other MCP-compatible AI assistants.

Use --port to start an HTTP server instead, which enables:
  - Testing with MCP Inspector web UI
  - Remote access via HTTP

Use --slide to load a slide before the first request.

Examples:
  # Stdio mode (default, for Claude Desktop)
  slidefit mcp serve

  # HTTP mode with a slide preloaded
  slidefit mcp serve --port 8080 --slide 9f2c1e#0

Claude Desktop configuration (claude_desktop_config.json):
  {
    "mcpServers": {
      "slidefit": {
        "command": "/path/to/slidefit",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpServeCmd.Flags().String("slide", "", "slide to load on start (<file-hash>#<index>)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}
	slide, err := cmd.Flags().GetString("slide")
	if err != nil {
		return fmt.Errorf("getting slide flag: %w", err)
	}

	ports := &mcp.Ports{
		Editor:    editorService,
		Analysis:  analysisService,
		Validator: fitValidator,
		Renderer:  frameRenderer,
	}

	server, err := mcp.NewServer(ports)
	if err != nil {
		return err
	}

	if slide != "" {
		if _, err := loadSlide(cmd.Context(), slide); err != nil {
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
