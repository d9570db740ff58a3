package commands

import (
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/inkwell-labs/journalint/internal/cli/config"
	"github.com/inkwell-labs/journalint/internal/cli/output"
	"github.com/inkwell-labs/journalint/internal/state"
	"github.com/inkwell-labs/journalint/pkg/lint"
	_ "github.com/inkwell-labs/journalint/pkg/lint/rules" // register structure/format/content rules
	"github.com/inkwell-labs/journalint/pkg/session"
)

// CheckOptions holds options for the check command.
type CheckOptions struct {
	Paths     []string // Files or directories to check
	Format    string   // Output format: text, markdown, json
	Severity  string   // Minimum severity to report: error, warning, info
	Disable   []string // Rule IDs to disable
	Rules     []string // Run only specific rules
	Structure string   // Structure name overriding the configured default
	NoHistory bool     // Skip run-history recording
}

// NewCheckCommand creates the check command.
func NewCheckCommand() *cobra.Command {
	opts := &CheckOptions{}
	cmd := &cobra.Command{
		Use:   "check [paths...]",
		Short: "Validate journal files against their structure",
		Long: `Classify, parse, and validate journal files.

Each file is checked against its structure definition: required
nested blocks, block ordering, entry header dates and titles, and
metric entries. Frontmatter in a file can pick a different structure
or disable rules for that file alone.

Output adapts to environment:
  - Terminal: styled output with colors
  - Piped/Scripted: markdown format
  - JSON: machine-readable format`,
		Example: `  # Check the whole vault
  journalint check

  # Check one directory
  journalint check daily/

  # Output as JSON
  journalint check --format json

  # Only report errors
  journalint check --severity error

  # Run a single rule
  journalint check --rule CT01

  # Validate against a specific structure
  journalint check --structure dream-journal daily/2024-03-15.md`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Paths = args
			return runCheck(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, markdown, json")
	cmd.Flags().StringVar(&opts.Severity, "severity", "info", "Minimum severity: error, warning, info, hint")
	cmd.Flags().StringSliceVar(&opts.Disable, "disable", nil, "Rule IDs to disable")
	cmd.Flags().StringSliceVar(&opts.Rules, "rule", nil, "Run only specific rules")
	cmd.Flags().StringVar(&opts.Structure, "structure", "", "Validate against this structure instead of the default")
	cmd.Flags().BoolVar(&opts.NoHistory, "no-history", false, "Do not record this run in history")

	return cmd
}

func runCheck(cmd *cobra.Command, opts *CheckOptions) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	if opts.Format != "" {
		r = output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(opts.Format))
	}

	files, err := collectFiles(opts.Paths, []string{".md"})
	if err != nil {
		return err
	}
	if len(files) == 0 {
		r.Muted("No journal files found")
		return nil
	}

	sessCfg, err := buildSessionConfig(cmdCtx, opts)
	if err != nil {
		return err
	}

	started := time.Now()
	results := checkFiles(files, sessCfg)
	recordCheckRun(cmdCtx, opts, results, started)

	errorCount := countSeverity(results, lint.SeverityError)
	filtered := filterBySeverity(results, opts.Severity)
	renderCheckResults(r, filtered, len(files))

	if errorCount > 0 {
		return ErrIssuesFound
	}
	return nil
}

// buildSessionConfig resolves flags into the engine configuration
// shared by every file in the run.
func buildSessionConfig(cmdCtx *CommandContext, opts *CheckOptions) (session.Config, error) {
	cfg := cmdCtx.Cfg
	sessCfg := sessionConfig(cfg, cmdCtx.Logger)
	sessCfg.Lint = buildLintConfig(cfg, opts)

	if opts.Structure != "" {
		if _, ok := sessCfg.Structure.Lookup(opts.Structure); !ok {
			return session.Config{}, fmt.Errorf("unknown structure %q (defined: %s)",
				opts.Structure, strings.Join(structureNames(sessCfg), ", "))
		}
		sessCfg.Structure.Default = opts.Structure
	}
	return sessCfg, nil
}

func structureNames(sessCfg session.Config) []string {
	names := make([]string, 0, len(sessCfg.Structure.Structures))
	for _, def := range sessCfg.Structure.Structures {
		names = append(names, def.Name)
	}
	return names
}

// buildLintConfig layers CLI flags over the project's rule
// configuration.
func buildLintConfig(cfg *config.Config, opts *CheckOptions) *lint.Config {
	lintCfg := lint.NewConfig()
	if cfg != nil {
		lintCfg = cfg.LintConfig()
	}

	for _, id := range opts.Disable {
		lintCfg.Disable(strings.TrimSpace(id))
	}

	// --rule keeps only the named rules enabled.
	if len(opts.Rules) > 0 {
		enabled := make(map[string]bool, len(opts.Rules))
		for _, id := range opts.Rules {
			enabled[strings.TrimSpace(id)] = true
		}
		for _, rule := range lint.GetAll() {
			if !enabled[rule.ID] {
				lintCfg.Disable(rule.ID)
			}
		}
	}

	return lintCfg
}

// checkFileResult holds check results for a single file.
type checkFileResult struct {
	Path        string
	Structure   string
	Diagnostics []lint.Diagnostic
	Err         error
}

// checkFiles validates files concurrently, bounded by the CPU count.
// Results keep the input order.
func checkFiles(files []string, sessCfg session.Config) []checkFileResult {
	results := make([]checkFileResult, len(files))
	g := new(errgroup.Group)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, path := range files {
		g.Go(func() error {
			results[i] = checkOne(path, sessCfg)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func checkOne(path string, sessCfg session.Config) checkFileResult {
	content, err := os.ReadFile(path)
	if err != nil {
		return checkFileResult{Path: path, Err: err}
	}
	s := session.New(sessCfg)
	defer s.Close()

	diags := s.Run(string(content))
	res, _ := s.Last()
	return checkFileResult{Path: path, Structure: res.Structure, Diagnostics: diags}
}

func countSeverity(results []checkFileResult, sev lint.Severity) int {
	n := 0
	for _, res := range results {
		for _, d := range res.Diagnostics {
			if d.Severity == sev {
				n++
			}
		}
	}
	return n
}

func filterBySeverity(results []checkFileResult, severityThreshold string) []checkFileResult {
	threshold, ok := lint.ParseSeverity(severityThreshold)
	if !ok {
		threshold = lint.SeverityInfo
	}

	var filtered []checkFileResult
	for _, res := range results {
		var diags []lint.Diagnostic
		for _, d := range res.Diagnostics {
			if d.Severity <= threshold {
				diags = append(diags, d)
			}
		}
		if len(diags) > 0 || res.Err != nil {
			filtered = append(filtered, checkFileResult{
				Path:        res.Path,
				Structure:   res.Structure,
				Diagnostics: diags,
				Err:         res.Err,
			})
		}
	}
	return filtered
}

func toCheckDiagnostic(d lint.Diagnostic) output.CheckDiagnostic {
	return output.CheckDiagnostic{
		RuleID:    d.RuleID,
		Severity:  d.Severity.String(),
		Message:   d.Message,
		Line:      d.Pos.Line,
		Column:    d.Pos.Column,
		EndLine:   d.EndPos.Line,
		EndColumn: d.EndPos.Column,
		Fixable:   len(d.Fixes) > 0,
	}
}

func buildCheckOutput(results []checkFileResult, totalFiles int) output.CheckOutput {
	doc := output.CheckOutput{Summary: output.CheckSummary{Files: totalFiles}}
	for _, res := range results {
		fileResult := output.CheckFileResult{
			Path:      res.Path,
			Structure: res.Structure,
		}
		if res.Err != nil {
			fileResult.Error = res.Err.Error()
		}
		for _, d := range res.Diagnostics {
			fileResult.Diagnostics = append(fileResult.Diagnostics, toCheckDiagnostic(d))
			switch d.Severity {
			case lint.SeverityError:
				doc.Summary.Errors++
			case lint.SeverityWarning:
				doc.Summary.Warnings++
			case lint.SeverityInfo:
				doc.Summary.Infos++
			case lint.SeverityHint:
				doc.Summary.Hints++
			}
			if len(d.Fixes) > 0 {
				doc.Summary.Fixable++
			}
		}
		doc.Files = append(doc.Files, fileResult)
	}
	return doc
}

func renderCheckResults(r *output.Renderer, results []checkFileResult, totalFiles int) {
	doc := buildCheckOutput(results, totalFiles)

	if r.EffectiveMode() == output.ModeJSON {
		_ = r.JSON(doc)
		return
	}

	if len(results) == 0 {
		r.Success(fmt.Sprintf("No issues found (%d files checked)", totalFiles))
		return
	}

	for _, res := range results {
		r.Println(r.Styles().Path.Render(res.Path))
		if res.Err != nil {
			r.Printf("  %s  %s\n", r.Styles().Error.Render("error  "), res.Err.Error())
		}
		for _, d := range res.Diagnostics {
			loc := fmt.Sprintf("%d:%d", d.Pos.Line, d.Pos.Column)
			r.Printf("  %s  %s  %s  %s\n",
				r.Styles().Muted.Render(fmt.Sprintf("%-7s", loc)),
				severityStyle(r, d.Severity),
				r.Styles().RuleID.Render(d.RuleID),
				d.Message,
			)
		}
		r.Println("")
	}

	summary := doc.Summary
	total := summary.Errors + summary.Warnings + summary.Infos + summary.Hints
	parts := []string{fmt.Sprintf("%d issues", total)}
	if summary.Errors > 0 {
		parts = append(parts, fmt.Sprintf("%d errors", summary.Errors))
	}
	if summary.Warnings > 0 {
		parts = append(parts, fmt.Sprintf("%d warnings", summary.Warnings))
	}
	if summary.Infos > 0 {
		parts = append(parts, fmt.Sprintf("%d info", summary.Infos))
	}
	if summary.Hints > 0 {
		parts = append(parts, fmt.Sprintf("%d hints", summary.Hints))
	}
	if summary.Fixable > 0 {
		parts = append(parts, fmt.Sprintf("%d fixable", summary.Fixable))
	}
	r.Printf("Summary: %s in %d files\n", strings.Join(parts, ", "), totalFiles)
}

func severityStyle(r *output.Renderer, sev lint.Severity) string {
	switch sev {
	case lint.SeverityError:
		return r.Styles().Error.Render("error  ")
	case lint.SeverityWarning:
		return r.Styles().Warning.Render("warning")
	case lint.SeverityInfo:
		return r.Styles().Info.Render("info   ")
	case lint.SeverityHint:
		return r.Styles().Muted.Render("hint   ")
	default:
		return r.Styles().Muted.Render("unknown")
	}
}

// recordCheckRun stores one history row for the invocation. Failures
// are logged and swallowed; history never fails a check.
func recordCheckRun(cmdCtx *CommandContext, opts *CheckOptions, results []checkFileResult, started time.Time) {
	if opts.NoHistory {
		return
	}
	store := openHistory(cmdCtx)
	if store == nil {
		return
	}
	defer func() { _ = store.Close() }()

	rec := state.RunRecord{
		Command:     "check",
		Path:        strings.Join(opts.Paths, " "),
		StartedAt:   started,
		CompletedAt: time.Now(),
	}
	if rec.Path == "" {
		rec.Path = "."
	}
	for _, res := range results {
		for _, d := range res.Diagnostics {
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
