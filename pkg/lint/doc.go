// Package lint provides the journal validation rule engine.
//
// # Architecture
//
// The engine runs data-driven rules against a Document, the immutable
// per-run context holding the text snapshot, its span classification
// and its parsed block tree. Rules never mutate the document; they
// return Diagnostics, optionally carrying Fixes as pure edit data.
//
// # Rule Registration
//
// Built-in rules are automatically registered via init() functions
// when their packages are imported:
//
//	import _ "github.com/inkwell-labs/journalint/pkg/lint/rules"
//
// # Rule Categories
//
//   - ST (Structure): block nesting, required children, ordering
//   - FM (Format): dates, titles, callout casing
//   - CT (Content): metric entries inside metrics blocks
//
// User-defined regex rules are configured at analyzer construction
// and run alongside the built-ins under their own IDs.
//
// # Configuration
//
// Use Config to control which rules are enabled and their severity:
//
//	config := lint.NewConfig()
//	config.Disable("FM02")
//	config.SetSeverity("ST02", lint.SeverityError)
//	config.SetOption("FM01", "formats", []string{"2006-01-02"})
//
// Configuration errors never fail a run. Each degrades to a single
// diagnostic attributed to EngineRuleID so callers can tell tool
// misconfiguration apart from journal problems.
//
// # Result Ordering
//
// Analyze returns diagnostics sorted by severity (errors first), then
// by document position. The sort is stable, so the same document and
// configuration always produce the same output. Conflicting fixes
// from different rules are resolved by rule priority; the losing
// diagnostic is still reported with its fix deferred.
//
// # Creating Rules
//
// Express a rule with RuleDef and register it from an init function:
//
//	var titleCase = lint.RuleDef{
//		ID:          "XX01",
//		Name:        "format.title_case",
//		Kind:        lint.KindFormat,
//		Group:       "format",
//		Description: "Entry titles use title case",
//		Severity:    lint.SeverityInfo,
//		Check:       checkTitleCase,
//	}
//
//	func init() {
//		lint.Register(titleCase)
//	}
package lint
