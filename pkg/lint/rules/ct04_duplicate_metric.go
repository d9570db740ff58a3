package rules

import (
	"fmt"
	"strings"

	"github.com/inkwell-labs/journalint/pkg/lint"
	"github.com/inkwell-labs/journalint/pkg/parser"
)

func init() {
	lint.Register(DuplicateMetric)
}

// DuplicateMetric warns when a metric name repeats within one block.
// Opt-in: duplicate entries parse fine and some journals use repeats
// deliberately, so the check only runs when the structure or the
// rule options ask for it.
var DuplicateMetric = lint.RuleDef{
	ID:                 "CT04",
	Name:               "content.duplicate_metric",
	Kind:               lint.KindContent,
	Group:              "content",
	Description:        "Metric names appear at most once per block.",
	Severity:           lint.SeverityWarning,
	StructureDependent: true,
	Priority:           2,
	ConfigKeys:         []string{"check_duplicates"},
	Check:              checkDuplicateMetric,
	FixHint:            "Remove the repeated metric line, keeping the first.",
}

func checkDuplicateMetric(doc *lint.Document, opts map[string]any) []lint.Diagnostic {
	if !lint.GetBoolOption(opts, "check_duplicates", doc.Structure.Metrics.CheckDuplicates) {
		return nil
	}

	var diags []lint.Diagnostic
	for _, block := range doc.Tree.Blocks(parser.KindMetrics) {
		seen := make(map[string]int, len(block.Metrics)) // folded name -> first line
		for _, m := range block.Metrics {
			key := strings.ToLower(m.Name)
			if firstLine, dup := seen[key]; dup {
				diags = append(diags, lint.Diagnostic{
					RuleID:   "CT04",
					Severity: lint.SeverityWarning,
					Message:  fmt.Sprintf("metric %q already appears on line %d", m.Name, firstLine),
					Pos:      m.Pos,
					EndPos:   m.Span.End,
					Fixes: []lint.Fix{
						deleteLineFix(doc, m.Pos.Line, fmt.Sprintf("Remove duplicate %s metric", m.Name)),
					},
				})
				continue
			}
			seen[key] = m.Pos.Line
		}
	}
	return diags
}
