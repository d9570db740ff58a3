package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/inkwell-labs/journalint/internal/cli/output"
)

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	var force bool
	var example bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a vault for journal validation",
		Long: `Initialize a vault for journal validation.

This creates a journalint.yaml configuration file wired to the
built-in dream-journal structure, plus a .gitignore for vault
noise.

Use --example to also create a daily/ directory with sample entries
that pass every check, and a configuration with the structure
definition spelled out for editing.`,
		Example: `  # Initialize in the current directory
  journalint init

  # Initialize with sample entries
  journalint init --example

  # Initialize a new directory
  journalint init my-journal --example

  # Force overwrite an existing config
  journalint init --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			cfg := getConfig()
			mode := output.Mode(cfg.OutputFormat)
			r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

			if example {
				return runInitExample(r, dir, force)
			}
			return runInit(r, dir, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing configuration")
	cmd.Flags().BoolVar(&example, "example", false, "Create sample entries alongside the configuration")

	return cmd
}

func runInit(r *output.Renderer, dir string, force bool) error {
	if dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	configPath := filepath.Join(dir, "journalint.yaml")
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("journalint.yaml already exists. Use --force to overwrite")
	}

	if err := copyTemplate("minimal", dir, force); err != nil {
		return fmt.Errorf("failed to initialize vault: %w", err)
	}

	files, _ := listTemplateFiles("minimal")
	for _, f := range files {
		r.StatusLine(f, "success", "")
	}

	r.Println("")
	r.Success("Vault initialized!")
	r.Println("")
	r.Println("Next steps:")
	r.Println("  1. Edit journalint.yaml to describe your journal structure")
	r.Println("  2. Run 'journalint check' to validate your entries")
	r.Println("  3. Run 'journalint fix' to repair what the checks flag")
	r.Println("  4. Run 'journalint rules' to see every rule")

	return nil
}

func runInitExample(r *output.Renderer, dir string, force bool) error {
	if dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	configPath := filepath.Join(dir, "journalint.yaml")
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("journalint.yaml already exists. Use --force to overwrite")
	}

	if err := copyTemplate("example", dir, force); err != nil {
		return fmt.Errorf("failed to initialize vault: %w", err)
	}

	files, _ := listTemplateFiles("example")
	groups := groupTemplateFiles(files)

	r.Header(2, "Configuration")
	for _, f := range groups["config"] {
		r.StatusLine(f, "success", "")
	}

	r.Println("")
	r.Header(2, "Entries")
	for _, f := range groups["entries"] {
		r.StatusLine(f, "success", "")
	}

	r.Println("")
	r.Success("Vault initialized with sample entries!")
	r.Println("")
	r.Println("Next steps:")
	r.Println("  journalint check     Validate the sample entries")
	r.Println("  journalint watch     Re-check as files change")
	r.Println("  journalint doctor    Summarize vault health")

	return nil
}
