package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/neilberkman/runclub/cmd/runclub/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "serve-mcp",
	Short: "Start MCP server for assistant integration",
	Long: `Start an MCP (Model Context Protocol) server over stdio that lets an
assistant find sessions, read a session's details and share card, and list
the sessions you joined.

Tools: find_sessions, get_session, list_joined.

Example client configuration:
  {
    "mcpServers": {
      "runclub": {
        "command": "runclub",
        "args": ["serve-mcp"]
      }
    }
  }
`,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	if err := mcp.StartServer(dbPath); err != nil {
		return fmt.Errorf("MCP server failed: %w", err)
	}
	return nil
}
