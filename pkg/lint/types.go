package lint

import (
	"github.com/inkwell-labs/journalint/pkg/classify"
	"github.com/inkwell-labs/journalint/pkg/parser"
	"github.com/inkwell-labs/journalint/pkg/text"
)

// EngineRuleID is the reserved rule ID for configuration-error
// issues: an invalid custom rule pattern, an unknown structure
// reference, malformed frontmatter. One misconfiguration degrades to
// one issue with this ID and never blocks the rest of the run.
const EngineRuleID = "<engine>"

// =============================================================================
// Check Context
// =============================================================================

// Document is the per-run check context handed to every rule: the
// immutable text snapshot with its classification and parsed tree.
// Rules read it, never mutate it.
type Document struct {
	Text  string
	Index *text.Index
	Spans *classify.Result
	Tree  *parser.Tree

	// Structure is the active structure definition. Nil when the
	// document references an unknown structure; structure-dependent
	// rules return no diagnostics in that case.
	Structure *parser.StructureDef

	// StructureName is the structure the document asked for. A
	// non-empty name with a nil Structure marks an unresolved
	// reference, which the analyzer reports as an engine issue.
	StructureName string
}

// =============================================================================
// Diagnostics
// =============================================================================

// Diagnostic represents a single validation issue.
type Diagnostic struct {
	RuleID   string
	Severity Severity
	Message  string
	Pos      text.Position
	EndPos   text.Position // end of the problematic range
	Fixes    []Fix         // suggested fixes (for CLI --fix and LSP code actions)

	// FixDeferred marks an issue whose fix conflicted with a
	// higher-priority rule's fix in the same run. The issue is still
	// reported; its fix becomes available again after re-validation.
	FixDeferred bool
}

// Fix represents a suggested text rewrite. Fixes are pure data:
// applying one is deterministic and side-effect-free.
type Fix struct {
	Description string
	TextEdits   []TextEdit
}

// TextEdit replaces the text in [Pos, EndPos) with NewText. OldText
// holds the text expected at the range when the fix was generated;
// the applier rejects the edit as stale when the document no longer
// matches.
type TextEdit struct {
	Pos     text.Position
	EndPos  text.Position
	NewText string
	OldText string
}

// Span returns the edit's target range.
func (e TextEdit) Span() text.Span {
	return text.Span{Start: e.Pos, End: e.EndPos}
}

// =============================================================================
// Rule Metadata
// =============================================================================

// RuleInfo provides metadata about a rule for documentation/tooling.
// This is a DTO - it carries data without behavior.
type RuleInfo struct {
	ID                 string   `json:"id"`
	Name               string   `json:"name"`
	Kind               string   `json:"kind"`
	Group              string   `json:"group"`
	Description        string   `json:"description"`
	DefaultSeverity    Severity `json:"default_severity"`
	Priority           int      `json:"priority"`
	ConfigKeys         []string `json:"config_keys,omitempty"`
	StructureDependent bool     `json:"structure_dependent,omitempty"`

	Rationale   string `json:"rationale,omitempty"`
	BadExample  string `json:"bad_example,omitempty"`
	GoodExample string `json:"good_example,omitempty"`
	FixHint     string `json:"fix_hint,omitempty"`
}

// Info extracts the metadata DTO from a rule definition.
func (r RuleDef) Info() RuleInfo {
	return RuleInfo{
		ID:                 r.ID,
		Name:               r.Name,
		Kind:               r.Kind.String(),
		Group:              r.Group,
		Description:        r.Description,
		DefaultSeverity:    r.Severity,
		Priority:           r.Priority,
		ConfigKeys:         r.ConfigKeys,
		StructureDependent: r.StructureDependent,
		Rationale:          r.Rationale,
		BadExample:         r.BadExample,
		GoodExample:        r.GoodExample,
		FixHint:            r.FixHint,
	}
}
