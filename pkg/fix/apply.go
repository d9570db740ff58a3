// Package fix applies suggested fixes to document text.
//
// Application is pure: callers pass the current text and the fixes to
// apply, and receive the rewritten text plus a report of what was
// applied and what was skipped. Fixes carry the text they expect at
// each edit range, so a fix computed against an older revision is
// rejected as stale instead of corrupting the document.
package fix

import (
	"fmt"
	"sort"

	"github.com/inkwell-labs/journalint/pkg/lint"
)

// Applied records a successfully applied fix.
type Applied struct {
	Description string
	EditCount   int
}

// Skipped captures a skipped fix with a reason.
type Skipped struct {
	Description string
	Reason      string
}

// Result aggregates the outcome of one batch application.
type Result struct {
	// Text is the document after all accepted fixes.
	Text    string
	Applied []Applied
	Skipped []Skipped
}

// Changed reports whether any fix was applied.
func (r *Result) Changed() bool {
	return len(r.Applied) > 0
}

// StaleError reports a fix whose expected text no longer matches the
// document. The caller should re-validate and pick a fresh fix.
type StaleError struct {
	Edit  lint.TextEdit
	Found string
}

func (e *StaleError) Error() string {
	return fmt.Sprintf("stale fix at offset %d: existing text does not match expected content",
		e.Edit.Pos.Offset)
}

// Apply applies a batch of fixes to content. Fixes are validated
// against the given content in order: a fix whose edits are out of
// range, fail their old-text precondition, or overlap an already
// accepted fix is skipped with a reason, never applied partially.
// Fixes with identical edit sets are applied once. Accepted edits are
// applied in descending offset order so earlier edits never shift the
// offsets of later ones; the same content and fixes always produce
// the same output.
func Apply(content string, fixes ...lint.Fix) *Result {
	result := &Result{Text: content}

	var accepted [][]lint.TextEdit
	var all []lint.TextEdit

	for _, f := range fixes {
		if len(f.TextEdits) == 0 {
			result.Skipped = append(result.Skipped, Skipped{
				Description: f.Description,
				Reason:      "fix has no edits",
			})
			continue
		}
		if containsEditSet(accepted, f.TextEdits) {
			result.Skipped = append(result.Skipped, Skipped{
				Description: f.Description,
				Reason:      "identical to an already applied fix",
			})
			continue
		}
		if reason := validate(content, f.TextEdits, all); reason != "" {
			result.Skipped = append(result.Skipped, Skipped{
				Description: f.Description,
				Reason:      reason,
			})
			continue
		}

		accepted = append(accepted, f.TextEdits)
		all = append(all, f.TextEdits...)
		result.Applied = append(result.Applied, Applied{
			Description: f.Description,
			EditCount:   len(f.TextEdits),
		})
	}

	result.Text = applyEdits(content, all)
	return result
}

// ApplyStrict applies a single fix and fails instead of skipping: a
// stale precondition returns *StaleError, anything else an ordinary
// error. Used where the caller offered exactly this fix to the user.
func ApplyStrict(content string, f lint.Fix) (string, error) {
	if len(f.TextEdits) == 0 {
		return content, fmt.Errorf("fix %q has no edits", f.Description)
	}
	for _, e := range f.TextEdits {
		start, end := e.Pos.Offset, e.EndPos.Offset
		if start < 0 || end < start || end > len(content) {
			return content, fmt.Errorf("fix %q: edit range [%d, %d) out of bounds", f.Description, start, end)
		}
		if found := content[start:end]; found != e.OldText {
			return content, &StaleError{Edit: e, Found: found}
		}
	}
	if reason := validate(content, f.TextEdits, nil); reason != "" {
		return content, fmt.Errorf("fix %q: %s", f.Description, reason)
	}
	return applyEdits(content, f.TextEdits), nil
}

// validate checks a fix's edits against the original content and the
// edits accepted so far. Returns an empty string when the fix is
// applicable.
func validate(content string, edits []lint.TextEdit, already []lint.TextEdit) string {
	for i, e := range edits {
		start, end := e.Pos.Offset, e.EndPos.Offset
		if start < 0 || end < start || end > len(content) {
			return fmt.Sprintf("edit range [%d, %d) out of bounds", start, end)
		}
		if content[start:end] != e.OldText {
			return "existing text does not match expected content"
		}
		for _, other := range edits[:i] {
			if overlaps(e, other) {
				return "fix edits overlap each other"
			}
		}
		for _, prev := range already {
			if overlaps(e, prev) {
				return "overlaps an already applied fix"
			}
		}
	}
	return ""
}

func overlaps(a, b lint.TextEdit) bool {
	return a.Pos.Offset < b.EndPos.Offset && b.Pos.Offset < a.EndPos.Offset
}

func containsEditSet(accepted [][]lint.TextEdit, edits []lint.TextEdit) bool {
	for _, set := range accepted {
		if sameEditSet(set, edits) {
			return true
		}
	}
	return false
}

func sameEditSet(a, b []lint.TextEdit) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// applyEdits rewrites content with all edits at once. Descending
// offset order keeps every edit's original offsets valid while the
// text ahead of it changes.
func applyEdits(content string, edits []lint.TextEdit) string {
	if len(edits) == 0 {
		return content
	}

	sorted := make([]lint.TextEdit, len(edits))
	copy(sorted, edits)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Pos.Offset != sorted[j].Pos.Offset {
			return sorted[i].Pos.Offset > sorted[j].Pos.Offset
		}
		return sorted[i].EndPos.Offset > sorted[j].EndPos.Offset
	})

	out := content
	for _, e := range sorted {
		out = out[:e.Pos.Offset] + e.NewText + out[e.EndPos.Offset:]
	}
	return out
}
