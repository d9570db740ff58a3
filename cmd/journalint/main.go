// Package main provides the journalint command-line tool.
package main

import (
	"errors"
	"os"

	"github.com/inkwell-labs/journalint/internal/cli"
	"github.com/inkwell-labs/journalint/internal/cli/commands"
)

// Exit codes: 0 clean, 1 validation issues found, 2 any other failure.
func main() {
	err := cli.Execute()
	switch {
	case err == nil:
	case errors.Is(err, commands.ErrIssuesFound):
		os.Exit(1)
	default:
		os.Exit(2)
	}
}
