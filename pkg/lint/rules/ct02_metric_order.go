package rules

import (
	"fmt"
	"sort"
	"strings"

	"github.com/inkwell-labs/journalint/pkg/lint"
	"github.com/inkwell-labs/journalint/pkg/parser"
)

func init() {
	lint.Register(MetricOrder)
}

// MetricOrder warns about metrics listed out of the configured order.
// Every warning for a block carries the same whole-block reorder fix,
// so applying any one of them resolves all of them. Metric names
// outside the configured order keep their lines untouched.
var MetricOrder = lint.RuleDef{
	ID:                 "CT02",
	Name:               "content.metric_order",
	Kind:               lint.KindContent,
	Group:              "content",
	Description:        "Metrics appear in the configured order.",
	Severity:           lint.SeverityWarning,
	StructureDependent: true,
	Priority:           1,
	ConfigKeys:         []string{"enforce_order", "order"},
	Check:              checkMetricOrder,
	FixHint:            "Reorder the block's metric lines in one rewrite.",
}

func checkMetricOrder(doc *lint.Document, opts map[string]any) []lint.Diagnostic {
	spec := doc.Structure.Metrics
	if !lint.GetBoolOption(opts, "enforce_order", spec.EnforceOrder) {
		return nil
	}
	expected := lint.GetStringSliceOption(opts, "order", spec.ExpectedOrder())
	if len(expected) == 0 {
		return nil
	}

	rank := make(map[string]int, len(expected))
	for i, name := range expected {
		rank[strings.ToLower(name)] = i
	}

	var diags []lint.Diagnostic
	for _, block := range doc.Tree.Blocks(parser.KindMetrics) {
		type slot struct {
			entry parser.MetricEntry
			rank  int
		}
		var slots []slot
		for _, m := range block.Metrics {
			if r, known := rank[strings.ToLower(m.Name)]; known {
				slots = append(slots, slot{entry: m, rank: r})
			}
		}

		var blockDiags []lint.Diagnostic
		maxRank := -1
		maxName := ""
		for _, s := range slots {
			if s.rank < maxRank {
				blockDiags = append(blockDiags, lint.Diagnostic{
					RuleID:   "CT02",
					Severity: lint.SeverityWarning,
					Message: fmt.Sprintf("metric %q appears after %q; expected order: %s",
						s.entry.Name, maxName, strings.Join(expected, ", ")),
					Pos:    s.entry.Pos,
					EndPos: s.entry.Span.End,
				})
				continue
			}
			maxRank = s.rank
			maxName = s.entry.Name
		}
		if len(blockDiags) == 0 {
			continue
		}

		// One rewrite puts every tracked line in its slot; lines of
		// untracked metrics stay where they are.
		ordered := make([]slot, len(slots))
		copy(ordered, slots)
		sort.SliceStable(ordered, func(i, j int) bool {
			return ordered[i].rank < ordered[j].rank
		})

		var edits []lint.TextEdit
		for i := range slots {
			if slots[i].entry.Pos.Line == ordered[i].entry.Pos.Line {
				continue
			}
			curStart, curEnd := doc.Index.Line(slots[i].entry.Pos.Line)
			wantStart, wantEnd := doc.Index.Line(ordered[i].entry.Pos.Line)
			edits = append(edits, lint.TextEdit{
				Pos:     doc.Index.PositionFor(curStart),
				EndPos:  doc.Index.PositionFor(curEnd),
				NewText: doc.Text[wantStart:wantEnd],
				OldText: doc.Text[curStart:curEnd],
			})
		}
		fix := lint.Fix{Description: "Reorder metrics to the expected order", TextEdits: edits}
		for i := range blockDiags {
			blockDiags[i].Fixes = []lint.Fix{fix}
		}
		diags = append(diags, blockDiags...)
	}
	return diags
}
