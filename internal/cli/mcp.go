package cli

import (
	"github.com/spf13/cobra"

	"github.com/dgallion1/docoutline/internal/mcpserver"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server on stdio",
	Long: `Start a Model Context Protocol server over stdio exposing the
extract_outline tool. Logs go to stderr.

Claude Desktop configuration (claude_desktop_config.json):
  {
    "mcpServers": {
      "docoutline": {
        "command": "/path/to/docoutline",
        "args": ["mcp"]
      }
    }
  }`,
	Args: cobra.NoArgs,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, _ []string) error {
	log := newLogger(cmd.ErrOrStderr())
	ex, closeFn, err := newExtractor(log)
	if err != nil {
		return err
	}
	defer closeFn()

	server, err := mcpserver.NewServer(ex)
	if err != nil {
		return err
	}
	return server.Run(contextOf(cmd))
}
