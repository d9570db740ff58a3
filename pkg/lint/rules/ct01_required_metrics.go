package rules

import (
	"fmt"
	"strings"

	"github.com/inkwell-labs/journalint/pkg/lint"
	"github.com/inkwell-labs/journalint/pkg/parser"
)

func init() {
	lint.Register(RequiredMetrics)
}

// RequiredMetrics reports metrics blocks missing a required metric
// and offers to insert an empty entry line for it. Entries without a
// metrics block at all are ST01's concern.
var RequiredMetrics = lint.RuleDef{
	ID:                 "CT01",
	Name:               "content.required_metrics",
	Kind:               lint.KindContent,
	Group:              "content",
	Description:        "Metrics blocks contain every required metric.",
	Severity:           lint.SeverityError,
	StructureDependent: true,
	Priority:           3,
	ConfigKeys:         []string{"required"},
	Check:              checkRequiredMetrics,
	Rationale: "A missing required metric leaves a hole in every aggregate " +
		"computed over the journal; inserting the line while the dream is fresh " +
		"is the cheapest moment to fill it.",
	BadExample:  "> > [!dream-metrics]\n> > Sensory Detail: 3",
	GoodExample: "> > [!dream-metrics]\n> > Sensory Detail: 3\n> > Mood: 4",
	FixHint:     "Insert an empty metric line at the end of the block.",
}

func checkRequiredMetrics(doc *lint.Document, opts map[string]any) []lint.Diagnostic {
	required := lint.GetStringSliceOption(opts, "required", doc.Structure.Metrics.Required)
	if len(required) == 0 {
		return nil
	}

	var diags []lint.Diagnostic
	for _, block := range doc.Tree.Blocks(parser.KindMetrics) {
		present := make(map[string]bool, len(block.Metrics))
		for _, m := range block.Metrics {
			present[strings.ToLower(m.Name)] = true
		}
		for _, name := range required {
			if present[strings.ToLower(name)] {
				continue
			}
			diags = append(diags, lint.Diagnostic{
				RuleID:   "CT01",
				Severity: lint.SeverityError,
				Message:  fmt.Sprintf("metrics block is missing required metric %q", name),
				Pos:      block.HeaderSpan.Start,
				EndPos:   block.HeaderSpan.End,
				Fixes:    []lint.Fix{insertMetricFix(doc, block, name)},
			})
		}
	}
	return diags
}

// insertMetricFix appends "Name: " on its own quoted line at the end
// of the block body, leaving the value for the author.
func insertMetricFix(doc *lint.Document, block *parser.BlockNode, name string) lint.Fix {
	at := block.BodySpan.End.Offset
	line := strings.Repeat("> ", block.Depth) + name + ": \n"
	if at > 0 && doc.Text[at-1] != '\n' {
		line = "\n" + line
	}
	pos := doc.Index.PositionFor(at)
	return lint.Fix{
		Description: fmt.Sprintf("Add %s metric", name),
		TextEdits: []lint.TextEdit{{
			Pos:     pos,
			EndPos:  pos,
			NewText: line,
			OldText: "",
		}},
	}
}
