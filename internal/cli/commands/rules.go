package commands

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/inkwell-labs/journalint/internal/cli/output"
	"github.com/inkwell-labs/journalint/pkg/lint"
	_ "github.com/inkwell-labs/journalint/pkg/lint/rules" // register structure/format/content rules
)

// RulesOptions holds options for the rules command.
type RulesOptions struct {
	Group   string // Filter by group
	Verbose bool   // Show full documentation
	Format  string // Output format
}

// NewRulesCommand creates the rules command.
func NewRulesCommand() *cobra.Command {
	opts := &RulesOptions{}
	cmd := &cobra.Command{
		Use:   "rules [rule-id]",
		Short: "List available validation rules",
		Long: `List all available validation rules with their documentation.

Rules are organized by group (structure, format, content). Use
--verbose to see full documentation including examples and fix
guidance.

Output adapts to environment:
  - Terminal: Styled output with colors
  - Piped/Scripted: Markdown format
  - JSON: Machine-readable format`,
		Example: `  # List all rules
  journalint rules

  # Show details for a specific rule
  journalint rules CT01

  # List content rules only
  journalint rules --group content

  # Show full documentation
  journalint rules -V

  # Output as JSON
  journalint rules --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return showRule(cmd, args[0], opts)
			}
			return listRules(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Group, "group", "g", "", "Filter by group")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "V", false, "Show full documentation")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, json, markdown")

	return cmd
}

func listRules(cmd *cobra.Command, opts *RulesOptions) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	// Override renderer if format flag is set
	if opts.Format != "" {
		r = output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(opts.Format))
	}

	rules := ruleInfos()
	if opts.Group != "" {
		var filtered []lint.RuleInfo
		for _, ri := range rules {
			if ri.Group == opts.Group {
				filtered = append(filtered, ri)
			}
		}
		rules = filtered
	}

	// Sort by group, then ID
	sort.Slice(rules, func(i, j int) bool {
		if rules[i].Group != rules[j].Group {
			return rules[i].Group < rules[j].Group
		}
		return rules[i].ID < rules[j].ID
	})

	mode := r.EffectiveMode()
	switch mode {
	case output.ModeJSON:
		return listRulesJSON(r, rules)
	case output.ModeMarkdown:
		return listRulesMarkdown(r, rules, opts.Verbose)
	default:
		return listRulesText(r, rules, opts.Verbose)
	}
}

func ruleInfos() []lint.RuleInfo {
	defs := lint.GetAll()
	infos := make([]lint.RuleInfo, 0, len(defs))
	for _, def := range defs {
		infos = append(infos, def.Info())
	}
	return infos
}

func showRule(cmd *cobra.Command, ruleID string, opts *RulesOptions) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	// Override renderer if format flag is set
	if opts.Format != "" {
		r = output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(opts.Format))
	}

	def, ok := lint.GetByID(ruleID)
	if !ok {
		return fmt.Errorf("rule %q not found", ruleID)
	}
	info := def.Info()

	mode := r.EffectiveMode()
	switch mode {
	case output.ModeJSON:
		return showRuleJSON(r, &info)
	case output.ModeMarkdown:
		return showRuleMarkdown(r, &info)
	default:
		return showRuleText(r, &info)
	}
}

// listRulesText outputs rules in styled text format.
func listRulesText(r *output.Renderer, rules []lint.RuleInfo, verbose bool) error {
	styles := r.Styles()

	r.Println("")
	r.Println(styles.Header1.Render(fmt.Sprintf("Validation Rules (%d)", len(rules))))
	r.Println("")

	currentGroup := ""
	for _, rule := range rules {
		if rule.Group != currentGroup {
			currentGroup = rule.Group
			r.Println(styles.Header2.Render(capitalizeFirst(currentGroup) + " Rules"))
			r.Println("")
		}

		severityStyled := getSeverityStyle(styles, rule.DefaultSeverity)
		r.Printf("  %s  %s - %s\n",
			styles.Muted.Render(rule.ID),
			rule.Name,
			severityStyled.Render(rule.DefaultSeverity.String()),
		)

		if verbose {
			r.Println(styles.Muted.Render("      " + rule.Description))
			if rule.Rationale != "" {
				r.Println(styles.Muted.Render("      Why: " + truncateOneLine(rule.Rationale, 80)))
			}
			r.Println("")
		}
	}

	r.Println("")
	r.Println(styles.Muted.Render("Use 'journalint rules <rule-id>' for detailed documentation"))
	r.Println("")

	return nil
}

// listRulesMarkdown outputs rules in markdown format.
func listRulesMarkdown(r *output.Renderer, rules []lint.RuleInfo, verbose bool) error {
	r.Println("# Validation Rules")
	r.Println("")

	currentGroup := ""
	for _, rule := range rules {
		if rule.Group != currentGroup {
			currentGroup = rule.Group
			r.Println("## " + capitalizeFirst(currentGroup) + " Rules")
			r.Println("")
		}

		r.Printf("- **%s** - %s (`%s`)\n", rule.ID, rule.Name, rule.DefaultSeverity.String())
		if verbose {
			r.Println("  " + rule.Description)
			if rule.Rationale != "" {
				r.Println("  > " + rule.Rationale)
			}
		}
	}

	r.Println("")
	return nil
}

// RulesJSONOutput is the JSON output structure for rules listing.
type RulesJSONOutput struct {
	Rules []lint.RuleInfo `json:"rules"`
	Count struct {
		ByGroup map[string]int `json:"by_group"`
		Total   int            `json:"total"`
	} `json:"count"`
}

// listRulesJSON outputs rules in JSON format.
func listRulesJSON(r *output.Renderer, rules []lint.RuleInfo) error {
	jsonOutput := RulesJSONOutput{
		Rules: rules,
	}
	jsonOutput.Count.ByGroup = make(map[string]int)
	for _, rule := range rules {
		jsonOutput.Count.ByGroup[rule.Group]++
	}
	jsonOutput.Count.Total = len(rules)

	enc := json.NewEncoder(r.Writer())
	enc.SetIndent("", "  ")
	return enc.Encode(jsonOutput)
}

// showRuleText displays detailed rule info in text format.
func showRuleText(r *output.Renderer, rule *lint.RuleInfo) error {
	styles := r.Styles()

	r.Println("")
	r.Println(styles.Header1.Render(fmt.Sprintf("%s - %s", rule.ID, rule.Name)))
	r.Println("")

	r.Printf("  %s: %s\n", styles.Bold.Render("Group"), rule.Group)
	r.Printf("  %s: %s\n", styles.Bold.Render("Kind"), rule.Kind)
	r.Printf("  %s: %s\n", styles.Bold.Render("Severity"), rule.DefaultSeverity.String())
	if rule.StructureDependent {
		r.Printf("  %s: needs a resolved structure\n", styles.Bold.Render("Applies"))
	}
	r.Println("")

	r.Println(styles.Bold.Render("Description"))
	r.Println("  " + rule.Description)
	r.Println("")

	if rule.Rationale != "" {
		r.Println(styles.Bold.Render("Why This Matters"))
		r.Println("  " + rule.Rationale)
		r.Println("")
	}

	if rule.BadExample != "" {
		r.Println(styles.Bold.Render("Bad Example"))
		for _, line := range strings.Split(rule.BadExample, "\n") {
			r.Println(styles.Muted.Render("  " + line))
		}
		r.Println("")
	}

	if rule.GoodExample != "" {
		r.Println(styles.Bold.Render("Good Example"))
		for _, line := range strings.Split(rule.GoodExample, "\n") {
			r.Println(styles.Success.Render("  " + line))
		}
		r.Println("")
	}

	if rule.FixHint != "" {
		r.Println(styles.Bold.Render("How to Fix"))
		r.Println("  " + rule.FixHint)
		r.Println("")
	}

	if len(rule.ConfigKeys) > 0 {
		r.Println(styles.Bold.Render("Configuration"))
		r.Printf("  Options: %s\n", strings.Join(rule.ConfigKeys, ", "))
		r.Println("")
	}

	return nil
}

// showRuleMarkdown displays detailed rule info in markdown format.
func showRuleMarkdown(r *output.Renderer, rule *lint.RuleInfo) error {
	r.Printf("# %s - %s\n\n", rule.ID, rule.Name)
	r.Printf("**Group:** %s | **Kind:** %s | **Severity:** `%s`\n\n", rule.Group, rule.Kind, rule.DefaultSeverity.String())
	r.Println(rule.Description)
	r.Println("")

	if rule.Rationale != "" {
		r.Println("## Why This Matters")
		r.Println("")
		r.Println(rule.Rationale)
		r.Println("")
	}

	if rule.BadExample != "" {
		r.Println("## Bad Example")
		r.Println("")
		r.Println("```markdown")
		r.Println(rule.BadExample)
		r.Println("```")
		r.Println("")
	}

	if rule.GoodExample != "" {
		r.Println("## Good Example")
		r.Println("")
		r.Println("```markdown")
		r.Println(rule.GoodExample)
		r.Println("```")
		r.Println("")
	}

	if rule.FixHint != "" {
		r.Println("## How to Fix")
		r.Println("")
		r.Println(rule.FixHint)
		r.Println("")
	}

	if len(rule.ConfigKeys) > 0 {
		r.Println("## Configuration")
		r.Println("")
		r.Printf("Options: `%s`\n", strings.Join(rule.ConfigKeys, "`, `"))
		r.Println("")
	}

	return nil
}

// showRuleJSON displays detailed rule info in JSON format.
func showRuleJSON(r *output.Renderer, rule *lint.RuleInfo) error {
	enc := json.NewEncoder(r.Writer())
	enc.SetIndent("", "  ")
	return enc.Encode(rule)
}

// Helper functions

func getSeverityStyle(styles output.Styles, sev lint.Severity) lipgloss.Style {
	switch sev {
	case lint.SeverityError:
		return styles.Error
	case lint.SeverityWarning:
		return styles.Warning
	case lint.SeverityInfo:
		return styles.Info
	default:
		return styles.Muted
	}
}

func truncateOneLine(s string, maxLen int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func capitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
