package session

import (
	"fmt"
	"time"

	"github.com/inkwell-labs/journalint/pkg/lint"
)

// Result is the outcome of one validation run.
type Result struct {
	// Diagnostics is the complete issue list, sorted by severity and
	// position.
	Diagnostics []lint.Diagnostic

	// Structure is the name of the structure definition the run
	// resolved, empty when no structure applied.
	Structure string

	// Duration is the wall time the pipeline took.
	Duration time.Duration
}

// HasErrors reports whether the run produced any error-severity
// issue.
func (r Result) HasErrors() bool {
	for _, d := range r.Diagnostics {
		if d.Severity == lint.SeverityError {
			return true
		}
	}
	return false
}

// Count returns the number of issues at the given severity.
func (r Result) Count(sev lint.Severity) int {
	n := 0
	for _, d := range r.Diagnostics {
		if d.Severity == sev {
			n++
		}
	}
	return n
}

// Delta is the difference between two issue lists, used by hosts to
// update decorations incrementally instead of redrawing everything.
type Delta struct {
	// Added are issues present now that were not present before.
	Added []lint.Diagnostic
	// Removed are issues that were present before and are gone now.
	Removed []lint.Diagnostic
}

// Empty reports whether nothing changed between the two runs.
func (d Delta) Empty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0
}

// Diff compares two issue lists. An issue's identity is its rule ID,
// start offset, and message; an issue whose position shifted shows up
// as one removal plus one addition. Duplicate identities match
// pairwise.
func Diff(before, after []lint.Diagnostic) Delta {
	var delta Delta

	unmatched := make(map[string]int, len(before))
	for _, d := range before {
		unmatched[diffKey(d)]++
	}
	for _, d := range after {
		k := diffKey(d)
		if unmatched[k] > 0 {
			unmatched[k]--
			continue
		}
		delta.Added = append(delta.Added, d)
	}
	for _, d := range before {
		k := diffKey(d)
		if unmatched[k] > 0 {
			unmatched[k]--
			delta.Removed = append(delta.Removed, d)
		}
	}
	return delta
}

func diffKey(d lint.Diagnostic) string {
	return fmt.Sprintf("%s:%d:%s", d.RuleID, d.Pos.Offset, d.Message)
}
