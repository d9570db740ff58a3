package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// NewVersionCommand creates the version command.
func NewVersionCommand(version, commit, date string) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display journalint version and build information.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(map[string]string{
					"version": version,
					"commit":  commit,
					"date":    date,
				})
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "journalint v%s (commit %s, built %s)\n", version, commit, date)
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Journal structure validation for markdown vaults")
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print version information as JSON")
	return cmd
}
