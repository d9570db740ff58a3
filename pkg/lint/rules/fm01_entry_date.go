package rules

import (
	"fmt"
	"strings"
	"time"

	"github.com/inkwell-labs/journalint/pkg/lint"
	"github.com/inkwell-labs/journalint/pkg/parser"
)

func init() {
	lint.Register(EntryDate)
}

// EntryDate warns when an entry header does not carry a date in one
// of the accepted layouts. The date is the title itself or the title
// up to a separator, so "2024-01-15 lucid flight" passes with the
// ISO layout configured.
var EntryDate = lint.RuleDef{
	ID:                 "FM01",
	Name:               "format.entry_date",
	Kind:               lint.KindFormat,
	Group:              "format",
	Description:        "Entry headers begin with a date in an accepted format.",
	Severity:           lint.SeverityWarning,
	StructureDependent: true,
	ConfigKeys:         []string{"formats"},
	Check:              checkEntryDate,
	Rationale: "Date-sorted tooling keys on the header date; an entry without " +
		"one drops out of every chronological view.",
	BadExample:  "> [!journal-entry] 15/01/2024",
	GoodExample: "> [!journal-entry] 2024-01-15",
}

// titleSeparators split a header title into its date part and free
// text. Checked in order; the first occurrence wins.
var titleSeparators = []string{" - ", " — ", " – ", ": ", " | ", "\t"}

func checkEntryDate(doc *lint.Document, opts map[string]any) []lint.Diagnostic {
	formats := lint.GetStringSliceOption(opts, "formats", doc.Structure.DateFormats)
	if len(formats) == 0 {
		return nil
	}

	var diags []lint.Diagnostic
	for _, entry := range doc.Tree.Blocks(parser.KindEntry) {
		if entry.Title == "" {
			diags = append(diags, lint.Diagnostic{
				RuleID:   "FM01",
				Severity: lint.SeverityWarning,
				Message:  "entry header has no date",
				Pos:      entry.HeaderSpan.Start,
				EndPos:   entry.HeaderSpan.End,
			})
			continue
		}
		if !titleHasDate(entry.Title, formats) {
			diags = append(diags, lint.Diagnostic{
				RuleID:   "FM01",
				Severity: lint.SeverityWarning,
				Message: fmt.Sprintf("entry title %q does not begin with a date (accepted formats: %s)",
					entry.Title, strings.Join(formats, ", ")),
				Pos:    entry.HeaderSpan.Start,
				EndPos: entry.HeaderSpan.End,
			})
		}
	}
	return diags
}

func titleHasDate(title string, layouts []string) bool {
	for _, candidate := range dateCandidates(title) {
		for _, layout := range layouts {
			if _, err := time.Parse(layout, candidate); err == nil {
				return true
			}
		}
	}
	return false
}

func dateCandidates(title string) []string {
	title = strings.TrimSpace(title)
	candidates := []string{title}
	for _, sep := range titleSeparators {
		if i := strings.Index(title, sep); i > 0 {
			candidates = append(candidates, strings.TrimSpace(title[:i]))
		}
	}
	// Progressive word prefixes allow free text after the date, as in
	// "January 15, 2024 Flying".
	fields := strings.Fields(title)
	for n := 1; n < len(fields) && n <= 5; n++ {
		candidates = append(candidates, strings.Join(fields[:n], " "))
	}
	return candidates
}
