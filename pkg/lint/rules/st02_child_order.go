package rules

import (
	"fmt"
	"strings"

	"github.com/inkwell-labs/journalint/pkg/lint"
	"github.com/inkwell-labs/journalint/pkg/parser"
)

func init() {
	lint.Register(ChildOrder)
}

// ChildOrder warns when blocks inside an entry deviate from the
// configured order.
var ChildOrder = lint.RuleDef{
	ID:                 "ST02",
	Name:               "structure.child_order",
	Kind:               lint.KindStructure,
	Group:              "structure",
	Description:        "Blocks inside an entry follow the structure's configured order.",
	Severity:           lint.SeverityWarning,
	StructureDependent: true,
	Check:              checkChildOrder,
	Rationale: "A consistent block order keeps long journals scannable and lets " +
		"readers find the metrics block without hunting for it.",
}

func checkChildOrder(doc *lint.Document, _ map[string]any) []lint.Diagnostic {
	order := doc.Structure.ChildOrder
	if len(order) == 0 {
		return nil
	}

	rank := make(map[string]int, len(order))
	for i, name := range order {
		rank[strings.ToLower(name)] = i
	}

	var diags []lint.Diagnostic
	for _, entry := range doc.Tree.Blocks(parser.KindEntry) {
		maxRank := -1
		maxName := ""
		for _, child := range entry.Children {
			r, known := rank[strings.ToLower(child.Callout)]
			if !known {
				continue
			}
			if r < maxRank {
				diags = append(diags, lint.Diagnostic{
					RuleID:   "ST02",
					Severity: lint.SeverityWarning,
					Message: fmt.Sprintf("[!%s] appears after [!%s]; expected order: %s",
						child.Callout, maxName, strings.Join(order, ", ")),
					Pos:    child.HeaderSpan.Start,
					EndPos: child.HeaderSpan.End,
				})
				continue
			}
			maxRank = r
			maxName = child.Callout
		}
	}
	return diags
}
