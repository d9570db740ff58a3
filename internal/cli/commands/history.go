package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/inkwell-labs/journalint/internal/cli/output"
	"github.com/inkwell-labs/journalint/internal/state"
)

// HistoryListOptions holds options for the history list command.
type HistoryListOptions struct {
	Limit  int
	Format string // Output format: text, markdown, json
}

// HistoryPruneOptions holds options for the history prune command.
type HistoryPruneOptions struct {
	Keep   int
	Format string // Output format: text, json
}

// HistoryOutput is the JSON output for the history list command.
type HistoryOutput struct {
	Runs  []state.RunRecord `json:"runs"`
	Count int               `json:"count"`
}

// NewHistoryCommand creates the history command group.
func NewHistoryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect recorded check and fix runs",
		Long: `Inspect the local run history.

Every check run, and every fix run that writes changes, stores one
row: when it ran, which paths it covered, and the issue counts it
ended with. History lives in a local SQLite database and can be
disabled in the configuration or per run with --no-history.`,
	}

	cmd.AddCommand(newHistoryListCommand())
	cmd.AddCommand(newHistoryPruneCommand())

	return cmd
}

func newHistoryListCommand() *cobra.Command {
	opts := &HistoryListOptions{}
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent runs",
		Example: `  # Show the last 20 runs
  journalint history list

  # Show the last 5 runs as JSON
  journalint history list --limit 5 --format json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runHistoryList(cmd, opts)
		},
	}

	cmd.Flags().IntVar(&opts.Limit, "limit", state.DefaultListLimit, "Maximum runs to show")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, markdown, json")

	return cmd
}

func newHistoryPruneCommand() *cobra.Command {
	opts := &HistoryPruneOptions{}
	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete old runs, keeping the most recent ones",
		Example: `  # Keep only the 50 newest runs
  journalint history prune --keep 50`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runHistoryPrune(cmd, opts)
		},
	}

	cmd.Flags().IntVar(&opts.Keep, "keep", 100, "Number of runs to keep")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, json")

	return cmd
}

func runHistoryList(cmd *cobra.Command, opts *HistoryListOptions) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer
	if opts.Format != "" {
		r = output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(opts.Format))
	}

	store := openHistory(cmdCtx)
	if store == nil {
		r.Warning("Run history is disabled or unavailable")
		return nil
	}
	defer func() { _ = store.Close() }()

	runs, err := store.ListRuns(opts.Limit)
	if err != nil {
		return err
	}

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(HistoryOutput{Runs: runs, Count: len(runs)})
	case output.ModeMarkdown:
		renderHistoryMarkdown(r, runs)
		return nil
	default:
		renderHistoryTable(r, runs)
		return nil
	}
}

func runHistoryPrune(cmd *cobra.Command, opts *HistoryPruneOptions) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer
	if opts.Format != "" {
		r = output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(opts.Format))
	}

	store := openHistory(cmdCtx)
	if store == nil {
		r.Warning("Run history is disabled or unavailable")
		return nil
	}
	defer func() { _ = store.Close() }()

	deleted, err := store.PruneRuns(opts.Keep)
	if err != nil {
		return err
	}

	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(map[string]any{"deleted": deleted, "kept": opts.Keep})
	}
	r.Success(fmt.Sprintf("Removed %d runs, keeping the %d most recent", deleted, opts.Keep))
	return nil
}

func renderHistoryTable(r *output.Renderer, runs []state.RunRecord) {
	if len(runs) == 0 {
		r.Muted("No recorded runs")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(r.Writer())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"When", "Command", "Path", "Errors", "Warnings", "Infos", "Fixes", "Duration"})

	for _, rec := range runs {
		t.AppendRow(table.Row{
			rec.StartedAt.Local().Format("2006-01-02 15:04:05"),
			rec.Command,
			rec.Path,
			rec.Errors,
			rec.Warnings,
			rec.Infos,
			rec.FixesApplied,
			rec.Duration().Round(time.Millisecond),
		})
	}
	t.Render()
	r.Printf("(%d runs)\n", len(runs))
}

func renderHistoryMarkdown(r *output.Renderer, runs []state.RunRecord) {
	if len(runs) == 0 {
		r.Println("No recorded runs")
		return
	}

	r.Println("| When | Command | Path | Errors | Warnings | Infos | Fixes | Duration |")
	r.Println("| --- | --- | --- | --- | --- | --- | --- | --- |")
	for _, rec := range runs {
		r.Printf("| %s | %s | %s | %d | %d | %d | %d | %s |\n",
			rec.StartedAt.Local().Format("2006-01-02 15:04:05"),
			rec.Command,
			strings.ReplaceAll(rec.Path, "|", `\|`),
			rec.Errors,
			rec.Warnings,
			rec.Infos,
			rec.FixesApplied,
			rec.Duration().Round(time.Millisecond))
	}
	r.Printf("\n(%d runs)\n", len(runs))
}
