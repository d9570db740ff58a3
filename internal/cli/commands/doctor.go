package commands

import (
	"fmt"
	"os"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/spf13/cobra"

	"github.com/inkwell-labs/journalint/internal/cli/output"
	"github.com/inkwell-labs/journalint/pkg/classify"
	"github.com/inkwell-labs/journalint/pkg/lint"
	"github.com/inkwell-labs/journalint/pkg/parser"
	"github.com/inkwell-labs/journalint/pkg/session"
	"github.com/inkwell-labs/journalint/pkg/text"
)

// DoctorOptions holds options for the doctor command.
type DoctorOptions struct {
	Paths  []string
	Format string // Output format: text, markdown, json
}

// NewDoctorCommand creates the doctor command.
func NewDoctorCommand() *cobra.Command {
	opts := &DoctorOptions{}
	cmd := &cobra.Command{
		Use:   "doctor [paths...]",
		Short: "Run a comprehensive journal health check",
		Long: `Analyze your journal vault for structural problems and drift.

The doctor command validates every journal file and provides a
comprehensive report including:
- Vault summary (files, entries, metrics blocks)
- Health checks grouped by rule category (Structure, Format, Content)
- Health score (0-100)
- Actionable recommendations

Output adapts to environment:
  - Terminal: styled output with colors
  - Piped/Scripted: markdown format
  - JSON: machine-readable format`,
		Example: `  # Run health check over the current vault
  journalint doctor

  # Check a single directory
  journalint doctor daily/

  # Output as JSON
  journalint doctor --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Paths = args
			return runDoctor(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, markdown, json")

	return cmd
}

// DoctorOutput is the JSON output for the doctor command.
type DoctorOutput struct {
	Summary         VaultSummary  `json:"summary"`
	HealthChecks    []HealthCheck `json:"health_checks"`
	Score           int           `json:"score"`
	Recommendations []string      `json:"recommendations"`
	IssueCount      int           `json:"issue_count"`
}

// VaultSummary contains vault-level statistics.
type VaultSummary struct {
	Files         int `json:"files"`
	Entries       int `json:"entries"`
	MetricsBlocks int `json:"metrics_blocks"`
	ChildBlocks   int `json:"child_blocks"`
	Lines         int `json:"lines"`
}

// HealthCheck represents a single health check result.
type HealthCheck struct {
	RuleID     string   `json:"rule_id"`
	Name       string   `json:"name"`
	Group      string   `json:"group"`
	Status     string   `json:"status"` // "pass", "warn", "error"
	IssueCount int      `json:"issue_count"`
	Details    []string `json:"details,omitempty"`
}

func runDoctor(cmd *cobra.Command, opts *DoctorOptions) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	// Override renderer if format flag is set
	if opts.Format != "" {
		r = output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(opts.Format))
	}

	files, err := collectFiles(opts.Paths, []string{".md"})
	if err != nil {
		return err
	}
	if len(files) == 0 {
		r.Warning("No journal files found")
		return nil
	}

	sessCfg := sessionConfig(cmdCtx.Cfg, cmdCtx.Logger)
	scans := scanVault(files, sessCfg)
	doctorOutput := buildDoctorOutput(scans)

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(doctorOutput)
	case output.ModeMarkdown:
		return renderDoctorMarkdown(r, doctorOutput)
	default:
		return renderDoctorText(r, doctorOutput)
	}
}

// vaultScan holds per-file validation results and block statistics.
type vaultScan struct {
	Path     string
	Diags    []lint.Diagnostic
	Entries  int
	Metrics  int
	Children int
	Lines    int
	Err      error
}

// scanVault validates and measures files concurrently, bounded by
// the CPU count. Results keep the input order.
func scanVault(files []string, sessCfg session.Config) []vaultScan {
	scans := make([]vaultScan, len(files))
	g := new(errgroup.Group)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, path := range files {
		g.Go(func() error {
			scans[i] = scanOne(path, sessCfg)
			return nil
		})
	}
	_ = g.Wait()

	return scans
}

func scanOne(path string, sessCfg session.Config) vaultScan {
	scan := vaultScan{Path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		scan.Err = err
		return scan
	}
	content := string(data)

	s := session.New(sessCfg)
	defer s.Close()
	scan.Diags = s.Run(content)

	// Block statistics come from a raw parse of the full file, so
	// the summary counts callouts even in files that fail validation.
	idx := text.NewIndex(content)
	spans := classify.New(sessCfg.Isolation).Classify(content)
	tree := parser.Parse(idx, spans, sessCfg.Structure)
	scan.Entries = len(tree.Blocks(parser.KindEntry))
	scan.Metrics = len(tree.Blocks(parser.KindMetrics))
	scan.Children = len(tree.Blocks(parser.KindChild))
	scan.Lines = idx.LineCount()

	return scan
}

func buildDoctorOutput(scans []vaultScan) *DoctorOutput {
	summary := buildVaultSummary(scans)

	// Group diagnostics by rule, keeping the file context for details.
	diagsByRule := make(map[string][]lint.Diagnostic)
	detailsByRule := make(map[string][]string)
	for _, scan := range scans {
		for _, d := range scan.Diags {
			diagsByRule[d.RuleID] = append(diagsByRule[d.RuleID], d)
			detailsByRule[d.RuleID] = append(detailsByRule[d.RuleID],
				fmt.Sprintf("%s:%d %s", scan.Path, d.Pos.Line, d.Message))
		}
	}

	// Build health checks from all registered rules
	rules := lint.GetAll()
	healthChecks := make([]HealthCheck, 0, len(rules)+1)

	for _, rule := range rules {
		ruleDiags := diagsByRule[rule.ID]
		status := "pass"
		if len(ruleDiags) > 0 {
			status = "warn"
			for _, d := range ruleDiags {
				if d.Severity == lint.SeverityError {
					status = "error"
					break
				}
			}
		}

		healthChecks = append(healthChecks, HealthCheck{
			RuleID:     rule.ID,
			Name:       rule.Name,
			Group:      rule.Group,
			Status:     status,
			IssueCount: len(ruleDiags),
			Details:    detailsByRule[rule.ID],
		})
	}

	// Unreadable files and classifier pattern failures surface as a
	// synthetic engine check so they are never silently dropped.
	if check, ok := buildEngineCheck(scans, diagsByRule, detailsByRule); ok {
		healthChecks = append(healthChecks, check)
	}

	// Sort health checks by group then by rule ID
	sort.Slice(healthChecks, func(i, j int) bool {
		if healthChecks[i].Group != healthChecks[j].Group {
			return healthChecks[i].Group < healthChecks[j].Group
		}
		return healthChecks[i].RuleID < healthChecks[j].RuleID
	})

	issueCount := 0
	for _, check := range healthChecks {
		issueCount += check.IssueCount
	}

	return &DoctorOutput{
		Summary:         summary,
		HealthChecks:    healthChecks,
		Score:           calculateHealthScore(healthChecks, summary.Files),
		Recommendations: generateRecommendations(healthChecks),
		IssueCount:      issueCount,
	}
}

func buildVaultSummary(scans []vaultScan) VaultSummary {
	summary := VaultSummary{Files: len(scans)}
	for _, scan := range scans {
		summary.Entries += scan.Entries
		summary.MetricsBlocks += scan.Metrics
		summary.ChildBlocks += scan.Children
		summary.Lines += scan.Lines
	}
	return summary
}

func buildEngineCheck(scans []vaultScan, diagsByRule map[string][]lint.Diagnostic, detailsByRule map[string][]string) (HealthCheck, bool) {
	check := HealthCheck{
		RuleID:  lint.EngineRuleID,
		Name:    "Engine diagnostics",
		Group:   "engine",
		Status:  "warn",
		Details: detailsByRule[lint.EngineRuleID],
	}
	check.IssueCount = len(diagsByRule[lint.EngineRuleID])
	for _, d := range diagsByRule[lint.EngineRuleID] {
		if d.Severity == lint.SeverityError {
			check.Status = "error"
			break
		}
	}

	for _, scan := range scans {
		if scan.Err != nil {
			check.IssueCount++
			check.Status = "error"
			check.Details = append(check.Details, fmt.Sprintf("%s: %v", scan.Path, scan.Err))
		}
	}

	if check.IssueCount == 0 {
		return HealthCheck{}, false
	}
	return check, true
}

// calculateHealthScore computes a health score from 0-100.
// The scoring weights:
// - Each passing rule adds points
// - Each issue reduces points
// - More files means issues have less individual impact
func calculateHealthScore(checks []HealthCheck, fileCount int) int {
	if len(checks) == 0 {
		return 100
	}

	// Base score starts at 100
	score := 100.0

	// Calculate penalty per issue
	// With more files, each individual issue has less impact
	basePenalty := 5.0
	if fileCount > 10 {
		basePenalty = 3.0
	}
	if fileCount > 50 {
		basePenalty = 2.0
	}
	if fileCount > 100 {
		basePenalty = 1.0
	}

	for _, check := range checks {
		switch check.Status {
		case "error":
			score -= float64(check.IssueCount) * basePenalty * 2 // Errors count double
		case "warn":
			score -= float64(check.IssueCount) * basePenalty
		}
	}

	// Clamp to 0-100
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	return int(score)
}

// generateRecommendations creates actionable recommendations based on findings.
func generateRecommendations(checks []HealthCheck) []string {
	var recommendations []string
	seen := make(map[string]bool)

	for _, check := range checks {
		if check.IssueCount == 0 {
			continue
		}

		rec := getRecommendation(check.RuleID)
		if rec != "" && !seen[rec] {
			recommendations = append(recommendations, rec)
			seen[rec] = true
		}
	}

	// Limit to top 5 recommendations
	if len(recommendations) > 5 {
		recommendations = recommendations[:5]
	}

	return recommendations
}

// getRecommendation returns a recommendation for a specific rule.
func getRecommendation(ruleID string) string {
	switch ruleID {
	case "ST01":
		return "Add the missing required blocks inside each entry callout"
	case "ST02":
		return "Reorder nested blocks to match the structure definition"
	case "ST03":
		return "Remove or rename callouts the structure does not define"
	case "ST04":
		return "Flatten callouts nested deeper than the structure allows"
	case "ST05":
		return "Merge duplicate blocks; each block type belongs once per entry"
	case "FM01":
		return "Write entry dates in one of the configured formats"
	case "FM02":
		return "Match entry titles to the structure's title pattern"
	case "FM03":
		return "Use the canonical casing for callout types"
	case "CT01":
		return "Run 'journalint fix' to insert missing metric lines"
	case "CT02":
		return "Run 'journalint fix' to reorder metrics into the configured order"
	case "CT03":
		return "Remove metrics the structure does not define, or allow additional metrics"
	case "CT04":
		return "Remove duplicate metric lines, keeping the first value"
	case lint.EngineRuleID:
		return "Fix unreadable files and invalid configuration patterns"
	default:
		return ""
	}
}

func renderDoctorText(r *output.Renderer, out *DoctorOutput) error {
	styles := r.Styles()

	// Header
	r.Println("")
	r.Println(styles.Header1.Render("Journal Health Report"))
	r.Println(styles.Muted.Render(strings.Repeat("=", 55)))
	r.Println("")

	// Vault Summary
	r.Println(styles.Header2.Render("Vault Summary"))
	r.Printf("   Files: %d | Entries: %d | Metrics blocks: %d\n", out.Summary.Files, out.Summary.Entries, out.Summary.MetricsBlocks)
	r.Printf("   Lines: %d | Child blocks: %d\n", out.Summary.Lines, out.Summary.ChildBlocks)
	r.Println("")

	// Health Checks grouped by category
	r.Println(styles.Header2.Render("Health Checks"))
	r.Println("")

	currentGroup := ""
	titleCaser := cases.Title(language.English)
	for _, check := range out.HealthChecks {
		if check.Group != currentGroup {
			currentGroup = check.Group
			r.Println(styles.Bold.Render("   " + titleCaser.String(currentGroup)))
			r.Println(styles.Muted.Render("   " + strings.Repeat("-", 40)))
		}

		icon := styles.StatusSuccess.String()
		switch check.Status {
		case "warn":
			icon = styles.Warning.Render("!")
		case "error":
			icon = styles.StatusFailed.String()
		}

		status := fmt.Sprintf("%s %s: %s", icon, check.RuleID, check.Name)
		if check.IssueCount > 0 {
			status += fmt.Sprintf(" (%d issues)", check.IssueCount)
		}
		r.Println("   " + status)

		// Show first 3 details for issues
		for i, detail := range check.Details {
			if i >= 3 {
				r.Println(styles.Muted.Render(fmt.Sprintf("       ... and %d more", len(check.Details)-3)))
				break
			}
			r.Println(styles.Muted.Render("       - " + detail))
		}
	}
	r.Println("")

	// Health Score
	r.Println(styles.Muted.Render(strings.Repeat("=", 55)))
	scoreStyle := styles.Success
	if out.Score < 70 {
		scoreStyle = styles.Warning
	}
	if out.Score < 50 {
		scoreStyle = styles.Error
	}
	r.Printf("   Health Score: %s\n", scoreStyle.Render(fmt.Sprintf("%d/100", out.Score)))
	r.Println("")

	// Recommendations
	if len(out.Recommendations) > 0 {
		r.Println(styles.Header2.Render("Recommendations"))
		for i, rec := range out.Recommendations {
			r.Printf("   %d. %s\n", i+1, rec)
		}
		r.Println("")
	}

	return nil
}

func renderDoctorMarkdown(r *output.Renderer, out *DoctorOutput) error {
	r.Println("# Journal Health Report")
	r.Println("")

	// Vault Summary
	r.Println("## Vault Summary")
	r.Println("")
	r.Printf("- **Files**: %d\n", out.Summary.Files)
	r.Printf("- **Entries**: %d\n", out.Summary.Entries)
	r.Printf("- **Metrics Blocks**: %d\n", out.Summary.MetricsBlocks)
	r.Printf("- **Child Blocks**: %d\n", out.Summary.ChildBlocks)
	r.Printf("- **Lines**: %d\n", out.Summary.Lines)
	r.Println("")

	// Health Checks
	r.Println("## Health Checks")
	r.Println("")

	currentGroup := ""
	titleCaser := cases.Title(language.English)
	for _, check := range out.HealthChecks {
		if check.Group != currentGroup {
			currentGroup = check.Group
			r.Println("### " + titleCaser.String(currentGroup))
			r.Println("")
		}

		status := "PASS"
		switch check.Status {
		case "warn":
			status = "WARN"
		case "error":
			status = "ERROR"
		}

		r.Printf("- **[%s]** %s: %s", status, check.RuleID, check.Name)
		if check.IssueCount > 0 {
			r.Printf(" (%d issues)", check.IssueCount)
		}
		r.Println("")

		for _, detail := range check.Details {
			r.Printf("  - %s\n", detail)
		}
	}
	r.Println("")

	// Health Score
	r.Println("## Health Score")
	r.Println("")
	r.Printf("**%d/100**\n", out.Score)
	r.Println("")

	// Recommendations
	if len(out.Recommendations) > 0 {
		r.Println("## Recommendations")
		r.Println("")
		for i, rec := range out.Recommendations {
			r.Printf("%d. %s\n", i+1, rec)
		}
		r.Println("")
	}

	return nil
}
