// Package rules contains all built-in journal lint rules.
//
// Rules are organized by prefix to indicate their category:
//
//   - st_*.go: Structure rules (block nesting, required children, ordering)
//   - fm_*.go: Format rules (dates, titles, callout casing)
//   - ct_*.go: Content rules (metric entries inside metrics blocks)
//
// Import this package to register all built-in rules:
//
//	import _ "github.com/inkwell-labs/journalint/pkg/lint/rules"
package rules
