package rules

import (
	"fmt"
	"strings"

	"github.com/inkwell-labs/journalint/pkg/lint"
	"github.com/inkwell-labs/journalint/pkg/parser"
)

func init() {
	lint.Register(CalloutCasing)
}

// CalloutCasing warns when a callout type is spelled with different
// casing than the structure configures, and offers a rewrite.
var CalloutCasing = lint.RuleDef{
	ID:                 "FM03",
	Name:               "format.callout_casing",
	Kind:               lint.KindFormat,
	Group:              "format",
	Description:        "Callout types use the structure's configured spelling.",
	Severity:           lint.SeverityWarning,
	StructureDependent: true,
	Priority:           1,
	Check:              checkCalloutCasing,
	BadExample:         "> [!Journal-Entry] 2024-01-15",
	GoodExample:        "> [!journal-entry] 2024-01-15",
	FixHint:            "Rewrite the callout type with its configured casing.",
}

func checkCalloutCasing(doc *lint.Document, _ map[string]any) []lint.Diagnostic {
	var diags []lint.Diagnostic
	doc.Tree.Root.Walk(func(n *parser.BlockNode) bool {
		if n.Kind == parser.KindRoot || n.Kind == parser.KindUnknown {
			return true
		}
		canonical, ok := canonicalCallout(doc.Structure, n.Callout)
		if !ok || canonical == n.Callout {
			return true
		}

		header := doc.Index.Slice(n.HeaderSpan.Start.Offset, n.HeaderSpan.End.Offset)
		idx := strings.Index(header, "[!"+n.Callout)
		if idx < 0 {
			return true
		}
		start := n.HeaderSpan.Start.Offset + idx + len("[!")
		end := start + len(n.Callout)

		diags = append(diags, lint.Diagnostic{
			RuleID:   "FM03",
			Severity: lint.SeverityWarning,
			Message:  fmt.Sprintf("callout [!%s] should be written [!%s]", n.Callout, canonical),
			Pos:      doc.Index.PositionFor(start),
			EndPos:   doc.Index.PositionFor(end),
			Fixes: []lint.Fix{{
				Description: fmt.Sprintf("Rewrite as [!%s]", canonical),
				TextEdits: []lint.TextEdit{{
					Pos:     doc.Index.PositionFor(start),
					EndPos:  doc.Index.PositionFor(end),
					NewText: canonical,
					OldText: n.Callout,
				}},
			}},
		})
		return true
	})
	return diags
}
