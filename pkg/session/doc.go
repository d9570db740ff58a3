// Package session orchestrates validation runs over a single
// document.
//
// A Session owns the whole pipeline: classify the text into content
// spans, parse the block structure, run the analyzer, and cache the
// resulting issue list so consecutive runs can be diffed. The session
// performs no I/O and never blocks; hosts read files, watch for
// changes, and feed text in.
//
// # Lifecycle
//
// A session moves through a small state machine:
//
//	Idle → Validating → Ready        (a run completes)
//	Ready → Idle                     (a new edit arrives)
//	Ready → Applying → Validating    (fixes are committed)
//
// Run and RunAndFix execute synchronously on the calling goroutine.
// Schedule arms a trailing-edge debounce timer instead: rapid edits
// collapse into one pending run carrying the latest text, and
// CancelPending discards it up until it starts executing. A run that
// has started always completes.
//
// # Snapshots
//
// Each run operates on the text value passed in. Strings are
// immutable, so the argument itself is the snapshot; edits made by
// the host after the call never reach a run in flight. Results and
// Last likewise return copies.
//
// # Per-document overrides
//
// A YAML frontmatter block may carry validation overrides alongside
// the user's own fields:
//
//	---
//	title: Recurring corridor
//	structure: dream-journal
//	lint:
//	  disabled: [CT02]
//	---
//
// structure selects a named structure definition for this document
// only, and lint.disabled switches rules off for this document only.
// Malformed frontmatter YAML degrades to a single engine-attributed
// warning and the overrides are ignored.
//
// Sessions are independent of each other: validating many documents
// concurrently needs one session per document and nothing more. A
// Config may be shared across sessions; each session clones what it
// needs at construction.
package session
