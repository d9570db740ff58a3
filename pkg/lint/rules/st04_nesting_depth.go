package rules

import (
	"fmt"

	"github.com/inkwell-labs/journalint/pkg/lint"
	"github.com/inkwell-labs/journalint/pkg/parser"
)

func init() {
	lint.Register(NestingDepth)
}

// NestingDepth warns about block markers quoted deeper than the
// parser tracks. The parser records these positions and treats the
// content as flat text.
var NestingDepth = lint.RuleDef{
	ID:          "ST04",
	Name:        "structure.nesting_depth",
	Kind:        lint.KindStructure,
	Group:       "structure",
	Description: "Blocks must not nest deeper than the supported quote depth.",
	Severity:    lint.SeverityWarning,
	Check:       checkNestingDepth,
	Rationale: "Quote depths past the limit are almost always accidental " +
		"(a stray paste or editor reflow) and their content is excluded from " +
		"structure analysis.",
}

func checkNestingDepth(doc *lint.Document, _ map[string]any) []lint.Diagnostic {
	var diags []lint.Diagnostic
	for _, pos := range doc.Tree.Truncated {
		diags = append(diags, lint.Diagnostic{
			RuleID:   "ST04",
			Severity: lint.SeverityWarning,
			Message: fmt.Sprintf("quote depth exceeds %d; this block is treated as plain text",
				parser.MaxNestingDepth),
			Pos:    pos,
			EndPos: pos,
		})
	}
	return diags
}
