package commands

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/cobra"

	"github.com/inkwell-labs/journalint/internal/cli/output"
	"github.com/inkwell-labs/journalint/internal/state"
	"github.com/inkwell-labs/journalint/internal/tui"
	"github.com/inkwell-labs/journalint/pkg/fix"
	"github.com/inkwell-labs/journalint/pkg/lint"
	"github.com/inkwell-labs/journalint/pkg/session"
)

// FixOptions holds options for the fix command.
type FixOptions struct {
	Paths       []string
	Format      string
	Write       bool
	DryRun      bool
	Rules       []string
	MaxPasses   int
	Interactive bool
	NoHistory   bool
}

// NewFixCommand creates the fix command.
func NewFixCommand() *cobra.Command {
	opts := &FixOptions{}
	cmd := &cobra.Command{
		Use:   "fix [paths...]",
		Short: "Apply available fixes to journal files",
		Long: `Apply the fixes attached to reported issues, then re-validate.

Fixing runs in passes: apply everything applicable, validate again,
and repeat until no fixes remain or the pass limit is reached. A fix
whose target text changed since the issue was reported is skipped,
never applied blind.

Without --write the command previews changes as unified diffs and the
files stay untouched.`,
		Example: `  # Preview fixes for the whole vault
  journalint fix

  # Apply fixes in place
  journalint fix --write

  # Only apply fixes from one rule
  journalint fix --rule CT01 --write

  # Pick fixes one by one
  journalint fix --interactive`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Paths = args
			return runFix(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, markdown, json")
	cmd.Flags().BoolVarP(&opts.Write, "write", "w", false, "Write fixed files in place")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Preview changes without writing (default)")
	cmd.Flags().StringSliceVar(&opts.Rules, "rule", nil, "Only apply fixes from these rules")
	cmd.Flags().IntVar(&opts.MaxPasses, "max-passes", 3, "Maximum fix-and-revalidate rounds per file")
	cmd.Flags().BoolVarP(&opts.Interactive, "interactive", "i", false, "Pick fixes one by one in a terminal UI")
	cmd.Flags().BoolVar(&opts.NoHistory, "no-history", false, "Do not record this run in history")

	cmd.MarkFlagsMutuallyExclusive("write", "dry-run")
	cmd.MarkFlagsMutuallyExclusive("dry-run", "interactive")

	return cmd
}

func runFix(cmd *cobra.Command, opts *FixOptions) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer
	if opts.Format != "" {
		r = output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(opts.Format))
	}

	if opts.MaxPasses < 1 {
		return fmt.Errorf("max-passes must be at least 1, got %d", opts.MaxPasses)
	}

	files, err := collectFiles(opts.Paths, []string{".md"})
	if err != nil {
		return err
	}
	if len(files) == 0 {
		r.Muted("No journal files found")
		return nil
	}

	sessCfg := sessionConfig(cmdCtx.Cfg, cmdCtx.Logger)
	ruleSet := ruleFilter(opts.Rules)

	if opts.Interactive {
		if r.IsTTY() {
			return runFixInteractive(cmdCtx, r, files, sessCfg, ruleSet, opts)
		}
		r.Warning("interactive mode needs a terminal, applying fixes in batch instead")
		opts.Write = true
	}

	started := time.Now()
	outcomes := make([]fixFileOutcome, 0, len(files))
	for _, path := range files {
		outcomes = append(outcomes, fixOne(path, sessCfg, ruleSet, opts.MaxPasses, opts.Write))
	}

	if opts.Write {
		recordFixRun(cmdCtx, opts, outcomes, started)
	}
	renderFixResults(r, outcomes, opts.Write)
	return nil
}

// ruleFilter turns --rule values into a membership set, nil when the
// flag is absent.
func ruleFilter(rules []string) map[string]bool {
	if len(rules) == 0 {
		return nil
	}
	set := make(map[string]bool, len(rules))
	for _, id := range rules {
		set[strings.TrimSpace(id)] = true
	}
	return set
}

// fixFileOutcome holds the fix results for a single file.
type fixFileOutcome struct {
	Path      string
	Applied   []fix.Applied
	Skipped   []fix.Skipped
	Remaining []lint.Diagnostic
	Passes    int
	Written   bool
	Diff      string
	Err       error
}

// fixOne repeatedly applies available fixes to a file and
// re-validates until clean, stuck, or out of passes.
func fixOne(path string, sessCfg session.Config, ruleSet map[string]bool, maxPasses int, write bool) fixFileOutcome {
	o := fixFileOutcome{Path: path}

	raw, err := os.ReadFile(path)
	if err != nil {
		o.Err = err
		return o
	}
	info, err := os.Stat(path)
	if err != nil {
		o.Err = err
		return o
	}

	s := session.New(sessCfg)
	defer s.Close()

	before := string(raw)
	cur := before
	diags := s.Run(cur)

	for pass := 0; pass < maxPasses; pass++ {
		fixes := selectFixes(diags, ruleSet)
		if len(fixes) == 0 {
			break
		}
		outcome := fix.Apply(cur, fixes...)
		o.Applied = append(o.Applied, outcome.Applied...)
		o.Skipped = append(o.Skipped, outcome.Skipped...)
		if !outcome.Changed() {
			break
		}
		cur = outcome.Text
		o.Passes++
		diags = s.Run(cur)
	}
	o.Remaining = diags

	if cur == before {
		return o
	}
	if !write {
		o.Diff = unifiedDiff(path, before, cur)
		return o
	}
	if err := os.WriteFile(path, []byte(cur), info.Mode().Perm()); err != nil {
		o.Err = fmt.Errorf("writing %s: %w", path, err)
		return o
	}
	o.Written = true
	return o
}

// selectFixes gathers the fixes carried by diagnostics, optionally
// restricted to a rule set. Identical fixes reported by several
// diagnostics collapse inside the applier.
func selectFixes(diags []lint.Diagnostic, ruleSet map[string]bool) []lint.Fix {
	var fixes []lint.Fix
	for _, d := range diags {
		if len(d.Fixes) == 0 {
			continue
		}
		if ruleSet != nil && !ruleSet[d.RuleID] {
			continue
		}
		fixes = append(fixes, d.Fixes...)
	}
	return fixes
}

func unifiedDiff(path, before, after string) string {
	ud := difflib.UnifiedDiff{
		A:        difflib.SplitLines(before),
		B:        difflib.SplitLines(after),
		FromFile: path,
		ToFile:   path + " (fixed)",
		Context:  2,
	}
	text, err := difflib.GetUnifiedDiffString(ud)
	if err != nil {
		return ""
	}
	return text
}

func buildFixOutput(outcomes []fixFileOutcome) output.FixOutput {
	doc := output.FixOutput{}
	for _, o := range outcomes {
		fileResult := output.FixFileResult{
			Path:      o.Path,
			Applied:   len(o.Applied),
			Skipped:   len(o.Skipped),
			Remaining: len(o.Remaining),
			Passes:    o.Passes,
			Written:   o.Written,
		}
		for _, a := range o.Applied {
			fileResult.Details = append(fileResult.Details, a.Description)
		}
		doc.Applied += len(o.Applied)
		doc.Skipped += len(o.Skipped)
		doc.Files = append(doc.Files, fileResult)
	}
	return doc
}

func renderFixResults(r *output.Renderer, outcomes []fixFileOutcome, write bool) {
	if r.EffectiveMode() == output.ModeJSON {
		_ = r.JSON(buildFixOutput(outcomes))
		return
	}

	totalApplied, totalSkipped, totalRemaining, changedFiles := 0, 0, 0, 0
	for _, o := range outcomes {
		totalApplied += len(o.Applied)
		totalSkipped += len(o.Skipped)
		totalRemaining += len(o.Remaining)
		if len(o.Applied) == 0 && len(o.Skipped) == 0 && o.Err == nil {
			continue
		}
		changedFiles++

		r.Println(r.Styles().Path.Render(o.Path))
		if o.Err != nil {
			r.Printf("  %s  %s\n", r.Styles().Error.Render("error"), o.Err.Error())
			continue
		}
		for _, a := range o.Applied {
			r.Printf("  %s %s\n", r.Styles().Success.Render("+"), a.Description)
		}
		for _, sk := range o.Skipped {
			r.Printf("  %s %s (%s)\n", r.Styles().Muted.Render("-"), sk.Description, sk.Reason)
		}
		if len(o.Remaining) > 0 {
			r.Printf("  %s\n", r.Styles().Muted.Render(fmt.Sprintf("%d issues remain", len(o.Remaining))))
		}
		if o.Diff != "" {
			if r.EffectiveMode() == output.ModeMarkdown {
				r.Println(output.FormatCodeBlock("diff", o.Diff))
			} else {
				r.Println(strings.TrimRight(o.Diff, "\n"))
			}
		}
		r.Println("")
	}

	if totalApplied == 0 && totalSkipped == 0 {
		r.Success("Nothing to fix")
		return
	}
	verb := "Applied"
	if !write {
		verb = "Would apply"
	}
	summary := fmt.Sprintf("%s %d fixes in %d files", verb, totalApplied, changedFiles)
	if totalSkipped > 0 {
		summary += fmt.Sprintf(", %d skipped", totalSkipped)
	}
	if totalRemaining > 0 {
		summary += fmt.Sprintf(", %d issues remain", totalRemaining)
	}
	if !write {
		summary += " (pass --write to apply)"
	}
	r.Println(summary)
}

// runFixInteractive collects fixable issues, lets the user pick in a
// terminal UI, and applies the selection.
func runFixInteractive(cmdCtx *CommandContext, r *output.Renderer, files []string, sessCfg session.Config, ruleSet map[string]bool, opts *FixOptions) error {
	var items []tui.FixItem
	for _, path := range files {
		raw, err := os.ReadFile(path)
		if err != nil {
			r.Warning(fmt.Sprintf("skipping %s: %v", path, err))
			continue
		}
		s := session.New(sessCfg)
		diags := s.Run(string(raw))
		s.Close()
		for _, d := range diags {
			if len(d.Fixes) == 0 {
				continue
			}
			if ruleSet != nil && !ruleSet[d.RuleID] {
				continue
			}
			items = append(items, tui.FixItem{Path: path, Diagnostic: d})
		}
	}
	if len(items) == 0 {
		r.Success("No fixable issues found")
		return nil
	}

	selected, err := tui.PickFixes(items)
	if err != nil {
		return fmt.Errorf("interactive fix: %w", err)
	}
	if len(selected) == 0 {
		r.Muted("No fixes selected")
		return nil
	}

	byPath := make(map[string][]lint.Fix)
	order := make([]string, 0, len(selected))
	for _, item := range selected {
		if _, seen := byPath[item.Path]; !seen {
			order = append(order, item.Path)
		}
		byPath[item.Path] = append(byPath[item.Path], item.Diagnostic.Fixes...)
	}

	started := time.Now()
	outcomes := make([]fixFileOutcome, 0, len(order))
	for _, path := range order {
		outcomes = append(outcomes, applySelected(path, sessCfg, byPath[path]))
	}
	recordFixRun(cmdCtx, opts, outcomes, started)
	renderFixResults(r, outcomes, true)
	return nil
}

// applySelected applies an explicit fix list to one file and writes
// the result.
func applySelected(path string, sessCfg session.Config, fixes []lint.Fix) fixFileOutcome {
	o := fixFileOutcome{Path: path}

	raw, err := os.ReadFile(path)
	if err != nil {
		o.Err = err
		return o
	}
	info, err := os.Stat(path)
	if err != nil {
		o.Err = err
		return o
	}

	outcome := fix.Apply(string(raw), fixes...)
	o.Applied = outcome.Applied
	o.Skipped = outcome.Skipped

	s := session.New(sessCfg)
	o.Remaining = s.Run(outcome.Text)
	s.Close()

	if !outcome.Changed() {
		return o
	}
	if err := os.WriteFile(path, []byte(outcome.Text), info.Mode().Perm()); err != nil {
		o.Err = fmt.Errorf("writing %s: %w", path, err)
		return o
	}
	o.Written = true
	return o
}

// recordFixRun stores one history row for an applying fix run.
func recordFixRun(cmdCtx *CommandContext, opts *FixOptions, outcomes []fixFileOutcome, started time.Time) {
	if opts.NoHistory {
		return
	}
	store := openHistory(cmdCtx)
	if store == nil {
		return
	}
	defer func() { _ = store.Close() }()

	rec := state.RunRecord{
		Command:     "fix",
		Path:        strings.Join(opts.Paths, " "),
		StartedAt:   started,
		CompletedAt: time.Now(),
	}
	if rec.Path == "" {
		rec.Path = "."
	}
	for _, o := range outcomes {
		rec.FixesApplied += len(o.Applied)
		for _, d := range o.Remaining {
			switch d.Severity {
			case lint.SeverityError:
				rec.Errors++
			case lint.SeverityWarning:
				rec.Warnings++
			case lint.SeverityInfo:
				rec.Infos++
			}
		}
	}
	if err := store.RecordRun(rec); err != nil {
		cmdCtx.Logger.Warn("failed to record run", "error", err)
	}
}
