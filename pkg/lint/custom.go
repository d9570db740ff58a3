package lint

import (
	"fmt"
	"regexp"
)

// =============================================================================
// Custom Rules
// =============================================================================

// compiledCustomRule is a user-defined rule after validation.
type compiledCustomRule struct {
	def      CustomRule
	re       *regexp.Regexp
	severity Severity
	message  string
}

// compileCustomRules validates and compiles user-defined rules.
// Each invalid definition yields one engine-attributed diagnostic;
// valid rules in the same configuration still run.
func compileCustomRules(defs []CustomRule) ([]compiledCustomRule, []Diagnostic) {
	var (
		compiled []compiledCustomRule
		diags    []Diagnostic
		seen     = make(map[string]struct{})
	)

	for _, def := range defs {
		if problem := validateCustomRule(def, seen); problem != "" {
			diags = append(diags, engineDiagnostic(problem))
			continue
		}
		re, err := regexp.Compile(def.Pattern)
		if err != nil {
			diags = append(diags, engineDiagnostic(
				fmt.Sprintf("custom rule %s: invalid pattern %q: %v", def.ID, def.Pattern, err)))
			continue
		}
		seen[def.ID] = struct{}{}

		severity := SeverityWarning
		if def.Severity != "" {
			s, ok := ParseSeverity(def.Severity)
			if !ok {
				diags = append(diags, engineDiagnostic(
					fmt.Sprintf("custom rule %s: unknown severity %q, using warning", def.ID, def.Severity)))
			} else {
				severity = s
			}
		}

		message := def.Message
		if message == "" {
			message = fmt.Sprintf("text matches pattern %q", def.Pattern)
		}

		compiled = append(compiled, compiledCustomRule{
			def:      def,
			re:       re,
			severity: severity,
			message:  message,
		})
	}
	return compiled, diags
}

func validateCustomRule(def CustomRule, seen map[string]struct{}) string {
	switch {
	case def.ID == "":
		return fmt.Sprintf("custom rule with pattern %q has no ID", def.Pattern)
	case def.ID == EngineRuleID:
		return fmt.Sprintf("custom rule ID %q is reserved", EngineRuleID)
	case def.Pattern == "":
		return fmt.Sprintf("custom rule %s has no pattern", def.ID)
	}
	if _, dup := seen[def.ID]; dup {
		return fmt.Sprintf("custom rule %s defined more than once", def.ID)
	}
	if _, builtin := GetByID(def.ID); builtin {
		return fmt.Sprintf("custom rule %s shadows a built-in rule", def.ID)
	}
	return ""
}

// check runs the compiled rule over the document. Matches that start
// inside an ignored region are skipped, so a pattern never fires
// inside a code fence or other opaque construct.
func (r compiledCustomRule) check(doc *Document) []Diagnostic {
	var diags []Diagnostic
	for _, m := range r.re.FindAllStringSubmatchIndex(doc.Text, -1) {
		start, end := m[0], m[1]
		if start == end {
			continue
		}
		if doc.Spans != nil && !doc.Spans.PlainAt(start) {
			continue
		}

		d := Diagnostic{
			RuleID:   r.def.ID,
			Severity: r.severity,
			Message:  r.message,
			Pos:      doc.Index.PositionFor(start),
			EndPos:   doc.Index.PositionFor(end),
		}
		if r.def.HasFix || r.def.Replacement != "" {
			old := doc.Text[start:end]
			replacement := string(r.re.ExpandString(nil, r.def.Replacement, doc.Text, m))
			if replacement != old {
				d.Fixes = []Fix{{
					Description: fmt.Sprintf("Replace with %q", replacement),
					TextEdits: []TextEdit{{
						Pos:     d.Pos,
						EndPos:  d.EndPos,
						NewText: replacement,
						OldText: old,
					}},
				}}
			}
		}
		diags = append(diags, d)
	}
	return diags
}

// engineDiagnostic builds a configuration-error issue attributed to
// the engine itself, anchored at the start of the document.
func engineDiagnostic(message string) Diagnostic {
	return Diagnostic{
		RuleID:   EngineRuleID,
		Severity: SeverityWarning,
		Message:  message,
		Pos:      startOfDocument,
		EndPos:   startOfDocument,
	}
}
