package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/inkwell-labs/journalint/internal/cli/config"
	"github.com/inkwell-labs/journalint/internal/lsp"
)

// NewLSPCommand creates the lsp command.
func NewLSPCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server",
		Long: `Start the LSP server for editor integration.

The server communicates over stdin/stdout using JSON-RPC. The vault
root and its journalint.yaml are determined by the client's
initialization request (rootUri parameter).`,
		Example: `  # Start LSP server (usually called by an editor)
  journalint lsp`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runLSP(cmd)
		},
	}

	return cmd
}

// runLSP hands stdin and stdout to the server. Logs go to stderr so
// the protocol stream stays clean.
func runLSP(cmd *cobra.Command) error {
	logger := config.GetLogger(cmd.Context())
	server := lsp.NewServerWithLogger(os.Stdin, os.Stdout, logger)
	return server.Run()
}
