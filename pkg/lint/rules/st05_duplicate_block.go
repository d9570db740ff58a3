package rules

import (
	"fmt"
	"strings"

	"github.com/inkwell-labs/journalint/pkg/lint"
	"github.com/inkwell-labs/journalint/pkg/parser"
)

func init() {
	lint.Register(DuplicateBlock)
}

// DuplicateBlock warns when a singleton block type appears more than
// once inside an entry. By default only the metrics block is a
// singleton; the "singletons" option overrides the set.
var DuplicateBlock = lint.RuleDef{
	ID:                 "ST05",
	Name:               "structure.duplicate_block",
	Kind:               lint.KindStructure,
	Group:              "structure",
	Description:        "Singleton blocks appear at most once per entry.",
	Severity:           lint.SeverityWarning,
	StructureDependent: true,
	ConfigKeys:         []string{"singletons"},
	Check:              checkDuplicateBlock,
	Rationale: "Two metrics blocks in one entry usually mean a quote-depth " +
		"mistake split one block in half; aggregators would double-count it.",
}

func checkDuplicateBlock(doc *lint.Document, opts map[string]any) []lint.Diagnostic {
	singletons := lint.GetStringSliceOption(opts, "singletons", nil)
	if singletons == nil && doc.Structure.MetricsCallout != "" {
		singletons = []string{doc.Structure.MetricsCallout}
	}
	if len(singletons) == 0 {
		return nil
	}

	var diags []lint.Diagnostic
	for _, entry := range doc.Tree.Blocks(parser.KindEntry) {
		blocks := subtreeBlocks(entry)
		for _, singleton := range singletons {
			first := true
			for _, n := range blocks {
				if !strings.EqualFold(n.Callout, singleton) {
					continue
				}
				if first {
					first = false
					continue
				}
				diags = append(diags, lint.Diagnostic{
					RuleID:   "ST05",
					Severity: lint.SeverityWarning,
					Message:  fmt.Sprintf("%s has more than one [!%s] block", entryLabel(entry), singleton),
					Pos:      n.HeaderSpan.Start,
					EndPos:   n.HeaderSpan.End,
				})
			}
		}
	}
	return diags
}
