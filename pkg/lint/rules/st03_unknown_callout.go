package rules

import (
	"fmt"

	"github.com/inkwell-labs/journalint/pkg/lint"
	"github.com/inkwell-labs/journalint/pkg/parser"
)

func init() {
	lint.Register(UnknownCallout)
}

// UnknownCallout warns about callout types no configured structure
// defines. Runs without an active structure: unknown-ness is decided
// against the union of all configured structures at parse time.
var UnknownCallout = lint.RuleDef{
	ID:          "ST03",
	Name:        "structure.unknown_callout",
	Kind:        lint.KindStructure,
	Group:       "structure",
	Description: "Callout types must be defined by a configured structure.",
	Severity:    lint.SeverityWarning,
	Check:       checkUnknownCallout,
	Rationale: "An unrecognized callout is usually a typo in the type name; the " +
		"block still renders but no structure or metric checks apply to it.",
	BadExample:  "> [!jornal-entry] 2024-01-15",
	GoodExample: "> [!journal-entry] 2024-01-15",
}

func checkUnknownCallout(doc *lint.Document, _ map[string]any) []lint.Diagnostic {
	var diags []lint.Diagnostic
	doc.Tree.Root.Walk(func(n *parser.BlockNode) bool {
		if n.Kind == parser.KindUnknown {
			diags = append(diags, lint.Diagnostic{
				RuleID:   "ST03",
				Severity: lint.SeverityWarning,
				Message:  fmt.Sprintf("callout type [!%s] is not defined by any configured structure", n.Callout),
				Pos:      n.HeaderSpan.Start,
				EndPos:   n.HeaderSpan.End,
			})
		}
		return true
	})
	return diags
}
