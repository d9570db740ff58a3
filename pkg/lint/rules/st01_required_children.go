package rules

import (
	"fmt"
	"strings"

	"github.com/inkwell-labs/journalint/pkg/lint"
	"github.com/inkwell-labs/journalint/pkg/parser"
)

func init() {
	lint.Register(RequiredChildren)
}

// RequiredChildren reports entries missing a block the structure requires.
var RequiredChildren = lint.RuleDef{
	ID:                 "ST01",
	Name:               "structure.required_children",
	Kind:               lint.KindStructure,
	Group:              "structure",
	Description:        "Entries must contain every block the structure requires.",
	Severity:           lint.SeverityError,
	StructureDependent: true,
	Check:              checkRequiredChildren,
	Rationale: "A journal entry without its required blocks cannot be picked up " +
		"by downstream tooling; metrics scrapers in particular silently skip it.",
	BadExample:  "> [!journal-entry] 2024-01-15\n> Just the narrative.",
	GoodExample: "> [!journal-entry] 2024-01-15\n> Just the narrative.\n>\n> > [!dream-metrics]\n> > Sensory Detail: 3",
	FixHint:     "Add the missing block anywhere inside the entry.",
}

func checkRequiredChildren(doc *lint.Document, _ map[string]any) []lint.Diagnostic {
	var diags []lint.Diagnostic
	for _, entry := range doc.Tree.Blocks(parser.KindEntry) {
		for _, required := range doc.Structure.RequiredChildren {
			if hasDescendant(entry, required) {
				continue
			}
			diags = append(diags, lint.Diagnostic{
				RuleID:   "ST01",
				Severity: lint.SeverityError,
				Message:  fmt.Sprintf("%s is missing its [!%s] block", entryLabel(entry), required),
				Pos:      entry.HeaderSpan.Start,
				EndPos:   entry.HeaderSpan.End,
			})
		}
	}
	return diags
}

// hasDescendant reports whether any block below the entry carries the
// callout type. Required blocks may nest inside intermediate children,
// e.g. a metrics block inside the diary narrative.
func hasDescendant(entry *parser.BlockNode, callout string) bool {
	for _, n := range subtreeBlocks(entry) {
		if strings.EqualFold(n.Callout, callout) {
			return true
		}
	}
	return false
}
