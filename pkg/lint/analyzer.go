package lint

import (
	"fmt"
	"sort"

	"github.com/inkwell-labs/journalint/pkg/text"
)

var startOfDocument = text.Position{Line: 1, Column: 1, Offset: 0}

// =============================================================================
// Analyzer
// =============================================================================

// Analyzer runs lint rules against parsed documents.
type Analyzer struct {
	config *Config
	custom []compiledCustomRule

	// configDiags are issues raised once while compiling the
	// configuration, prepended to every run's results.
	configDiags []Diagnostic
}

// NewAnalyzer creates an analyzer with the given configuration.
// Pass nil for default behavior (all rules, default severities).
// Invalid custom rules do not fail construction; each yields one
// engine-attributed diagnostic on every run.
func NewAnalyzer(cfg *Config) *Analyzer {
	if cfg == nil {
		cfg = NewConfig()
	}
	custom, diags := compileCustomRules(cfg.CustomRules)
	return &Analyzer{
		config:      cfg,
		custom:      custom,
		configDiags: diags,
	}
}

// ConfigDiagnostics returns the issues raised while compiling the
// configuration, independent of any document.
func (a *Analyzer) ConfigDiagnostics() []Diagnostic {
	out := make([]Diagnostic, len(a.configDiags))
	copy(out, a.configDiags)
	return out
}

// Analyze runs all enabled rules against the document and returns
// the combined diagnostics sorted by severity, then position. Rules
// run independently: one rule's findings never change another's.
func (a *Analyzer) Analyze(doc *Document) []Diagnostic {
	diags := make([]Diagnostic, 0, len(a.configDiags))
	diags = append(diags, a.configDiags...)

	if doc.Structure == nil && doc.StructureName != "" {
		diags = append(diags, engineDiagnostic(fmt.Sprintf(
			"unknown structure %q: structure-dependent checks skipped", doc.StructureName)))
	}

	for _, rule := range GetAll() {
		if a.config.IsDisabled(rule.ID) {
			continue
		}
		if rule.StructureDependent && doc.Structure == nil {
			continue
		}
		opts := a.config.OptionsFor(rule.ID)
		for _, d := range rule.Check(doc, opts) {
			if d.RuleID == "" {
				d.RuleID = rule.ID
			}
			d.Severity = a.config.EffectiveSeverity(d.RuleID, d.Severity)
			diags = append(diags, d)
		}
	}

	for _, cr := range a.custom {
		if a.config.IsDisabled(cr.def.ID) {
			continue
		}
		for _, d := range cr.check(doc) {
			d.Severity = a.config.EffectiveSeverity(d.RuleID, d.Severity)
			diags = append(diags, d)
		}
	}

	Sort(diags)
	a.resolveFixConflicts(diags)
	return diags
}

// Sort orders diagnostics by severity (most severe first), then by
// document position, then by rule ID. The sort is stable so repeated
// runs over the same document produce identical output.
func Sort(diags []Diagnostic) {
	sort.SliceStable(diags, func(i, j int) bool {
		if diags[i].Severity != diags[j].Severity {
			return diags[i].Severity < diags[j].Severity
		}
		if diags[i].Pos.Offset != diags[j].Pos.Offset {
			return diags[i].Pos.Offset < diags[j].Pos.Offset
		}
		return diags[i].RuleID < diags[j].RuleID
	})
}

// =============================================================================
// Fix Conflict Resolution
// =============================================================================

// resolveFixConflicts handles fixes from different rules targeting
// overlapping ranges. The fix from the higher-priority rule is kept;
// the other diagnostic is still reported but its fix is deferred
// until the next run. Identical edit sets are not conflicts: several
// diagnostics may legitimately carry the same rewrite.
func (a *Analyzer) resolveFixConflicts(diags []Diagnostic) {
	type claim struct {
		idx      int
		priority int
		edits    []TextEdit
	}

	var claims []claim
	for i := range diags {
		if len(diags[i].Fixes) == 0 {
			continue
		}
		var edits []TextEdit
		for _, f := range diags[i].Fixes {
			edits = append(edits, f.TextEdits...)
		}
		claims = append(claims, claim{
			idx:      i,
			priority: a.priorityOf(diags[i].RuleID),
			edits:    edits,
		})
	}

	sort.SliceStable(claims, func(i, j int) bool {
		if claims[i].priority != claims[j].priority {
			return claims[i].priority > claims[j].priority
		}
		return claims[i].idx < claims[j].idx
	})

	var accepted []claim
	for _, c := range claims {
		identical := false
		for _, acc := range accepted {
			if sameEdits(acc.edits, c.edits) {
				identical = true
				break
			}
		}
		if identical {
			continue
		}

		conflicts := false
		for _, acc := range accepted {
			if editsOverlap(acc.edits, c.edits) {
				conflicts = true
				break
			}
		}
		if conflicts {
			diags[c.idx].Fixes = nil
			diags[c.idx].FixDeferred = true
			continue
		}
		accepted = append(accepted, c)
	}
}

func (a *Analyzer) priorityOf(ruleID string) int {
	if def, ok := GetByID(ruleID); ok {
		return def.Priority
	}
	for _, cr := range a.custom {
		if cr.def.ID == ruleID {
			return cr.def.Priority
		}
	}
	return 0
}

func sameEdits(a, b []TextEdit) bool {
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

// editsOverlap reports whether any edit ranges intersect. Ranges are
// half-open, so an insertion at another edit's boundary is not a
// conflict.
func editsOverlap(a, b []TextEdit) bool {
	for _, ea := range a {
		for _, eb := range b {
			if ea.Pos.Offset < eb.EndPos.Offset && eb.Pos.Offset < ea.EndPos.Offset {
				return true
			}
		}
	}
	return false
}
