package rules

import (
	"fmt"
	"regexp"

	"github.com/inkwell-labs/journalint/pkg/lint"
	"github.com/inkwell-labs/journalint/pkg/parser"
)

func init() {
	lint.Register(TitlePattern)
}

// TitlePattern checks entry titles against the structure's title
// pattern. An invalid pattern is a configuration problem and is
// reported once as an engine issue rather than per entry.
var TitlePattern = lint.RuleDef{
	ID:                 "FM02",
	Name:               "format.title_pattern",
	Kind:               lint.KindFormat,
	Group:              "format",
	Description:        "Entry titles match the structure's title pattern.",
	Severity:           lint.SeverityInfo,
	StructureDependent: true,
	ConfigKeys:         []string{"pattern"},
	Check:              checkTitlePattern,
}

func checkTitlePattern(doc *lint.Document, opts map[string]any) []lint.Diagnostic {
	pattern := lint.GetStringOption(opts, "pattern", doc.Structure.TitlePattern)
	if pattern == "" {
		return nil
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		return []lint.Diagnostic{{
			RuleID:   lint.EngineRuleID,
			Severity: lint.SeverityWarning,
			Message: fmt.Sprintf("structure %q: invalid title pattern %q: %v",
				doc.Structure.Name, pattern, err),
			Pos:    doc.Index.PositionFor(0),
			EndPos: doc.Index.PositionFor(0),
		}}
	}

	var diags []lint.Diagnostic
	for _, entry := range doc.Tree.Blocks(parser.KindEntry) {
		if re.MatchString(entry.Title) {
			continue
		}
		diags = append(diags, lint.Diagnostic{
			RuleID:   "FM02",
			Severity: lint.SeverityInfo,
			Message:  fmt.Sprintf("entry title %q does not match pattern %q", entry.Title, pattern),
			Pos:      entry.HeaderSpan.Start,
			EndPos:   entry.HeaderSpan.End,
		})
	}
	return diags
}
