package rules

import (
	"fmt"

	"github.com/inkwell-labs/journalint/pkg/lint"
	"github.com/inkwell-labs/journalint/pkg/parser"
)

func init() {
	lint.Register(UnexpectedMetric)
}

// UnexpectedMetric warns about metric names outside the structure's
// configured set. Only active when the structure closes its metric
// set (AllowAdditional false).
var UnexpectedMetric = lint.RuleDef{
	ID:                 "CT03",
	Name:               "content.unexpected_metric",
	Kind:               lint.KindContent,
	Group:              "content",
	Description:        "Metric names stay within the structure's configured set.",
	Severity:           lint.SeverityWarning,
	StructureDependent: true,
	Priority:           2,
	ConfigKeys:         []string{"allow_additional"},
	Check:              checkUnexpectedMetric,
	Rationale: "In a closed metric set a stray name is usually a typo of a " +
		"configured one, and its values are lost to every aggregate.",
	FixHint: "Remove the metric line.",
}

func checkUnexpectedMetric(doc *lint.Document, opts map[string]any) []lint.Diagnostic {
	spec := doc.Structure.Metrics
	if lint.GetBoolOption(opts, "allow_additional", spec.AllowAdditional) {
		return nil
	}

	var diags []lint.Diagnostic
	for _, block := range doc.Tree.Blocks(parser.KindMetrics) {
		for _, m := range block.Metrics {
			if spec.Allows(m.Name) {
				continue
			}
			diags = append(diags, lint.Diagnostic{
				RuleID:   "CT03",
				Severity: lint.SeverityWarning,
				Message:  fmt.Sprintf("metric %q is not part of the structure's metric set", m.Name),
				Pos:      m.Pos,
				EndPos:   m.Span.End,
				Fixes: []lint.Fix{
					deleteLineFix(doc, m.Pos.Line, fmt.Sprintf("Remove %s metric", m.Name)),
				},
			})
		}
	}
	return diags
}
