package lsp

import (
	"strings"

	"github.com/inkwell-labs/journalint/pkg/lint"
	"github.com/inkwell-labs/journalint/pkg/session"
)

// isJournalFile reports whether the URI names a markdown journal file.
// Everything else gets empty diagnostics and no session.
func isJournalFile(uri string) bool {
	lower := strings.ToLower(uri)
	return strings.HasSuffix(lower, ".md") || strings.HasSuffix(lower, ".markdown")
}

// validate runs the document's session synchronously. Publishing
// happens through the session's result callback, the same path
// debounced runs take.
func (s *Server) validate(uri string) {
	doc := s.documents.Get(uri)
	if doc == nil {
		return
	}

	if !isJournalFile(uri) {
		s.sendNotification("textDocument/publishDiagnostics", &PublishDiagnosticsParams{
			URI:         uri,
			Diagnostics: []Diagnostic{},
		})
		return
	}

	sess := s.sessionFor(uri)
	sess.CancelPending()
	sess.Run(doc.Content)
}

// scheduleValidate requests a debounced validation run, so bursts of
// keystrokes cost one pipeline execution.
func (s *Server) scheduleValidate(uri string) {
	doc := s.documents.Get(uri)
	if doc == nil || !isJournalFile(uri) {
		return
	}
	s.sessionFor(uri).Schedule(doc.Content)
}

// publishResult converts a completed run into protocol diagnostics and
// sends them. Runs completing after the document closed are dropped.
func (s *Server) publishResult(uri string, res session.Result) {
	if s.documents.Get(uri) == nil {
		return
	}

	s.cacheDiagnosticFixes(uri, res.Diagnostics)

	s.sendNotification("textDocument/publishDiagnostics", &PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: toLSPDiagnostics(res.Diagnostics),
	})

	s.logger.Debug("Published diagnostics",
		"uri", uri,
		"structure", res.Structure,
		"issues", len(res.Diagnostics),
		"duration", res.Duration)
}

// toLSPDiagnostics converts engine issues to protocol diagnostics,
// moving the engine's 1-based positions to the protocol's 0-based
// ones.
func toLSPDiagnostics(diags []lint.Diagnostic) []Diagnostic {
	result := make([]Diagnostic, 0, len(diags))
	for _, d := range diags {
		// Determine end position - use EndPos if available, otherwise estimate
		endLine := d.EndPos.Line
		endCol := d.EndPos.Column
		if endLine == 0 && endCol == 0 {
			endLine = d.Pos.Line
			endCol = d.Pos.Column + 1
		}

		result = append(result, Diagnostic{
			Range: Range{
				Start: Position{
					Line:      uint32(max(0, d.Pos.Line-1)),   //nolint:gosec // G115: line is always non-negative
					Character: uint32(max(0, d.Pos.Column-1)), //nolint:gosec // G115: column is always non-negative
				},
				End: Position{
					Line:      uint32(max(0, endLine-1)), //nolint:gosec // G115: line is always non-negative
					Character: uint32(max(0, endCol-1)),  //nolint:gosec // G115: column is always non-negative
				},
			},
			Severity: toLSPSeverity(d.Severity),
			Code:     d.RuleID,
			Source:   "journalint",
			Message:  d.Message,
		})
	}
	return result
}

// toLSPSeverity converts lint.Severity to LSP DiagnosticSeverity.
func toLSPSeverity(s lint.Severity) DiagnosticSeverity {
	switch s {
	case lint.SeverityError:
		return DiagnosticSeverityError
	case lint.SeverityWarning:
		return DiagnosticSeverityWarning
	case lint.SeverityInfo:
		return DiagnosticSeverityInformation
	case lint.SeverityHint:
		return DiagnosticSeverityHint
	default:
		return DiagnosticSeverityWarning
	}
}

// suggestSimilar finds similar strings using Levenshtein distance.
func suggestSimilar(input string, candidates []string, maxDistance int) []string {
	inputLower := strings.ToLower(input)
	var suggestions []string

	for _, candidate := range candidates {
		dist := levenshtein(inputLower, strings.ToLower(candidate))
		if dist <= maxDistance && dist > 0 {
			suggestions = append(suggestions, candidate)
		}
	}

	return suggestions
}

// levenshtein calculates the Levenshtein distance between two strings.
func levenshtein(s1, s2 string) int {
	if len(s1) == 0 {
		return len(s2)
	}
	if len(s2) == 0 {
		return len(s1)
	}

	matrix := make([][]int, len(s1)+1)
	for i := range matrix {
		matrix[i] = make([]int, len(s2)+1)
		matrix[i][0] = i
	}
	for j := 0; j <= len(s2); j++ {
		matrix[0][j] = j
	}

	for i := 1; i <= len(s1); i++ {
		for j := 1; j <= len(s2); j++ {
			cost := 1
			if s1[i-1] == s2[j-1] {
				cost = 0
			}
			matrix[i][j] = min(
				matrix[i-1][j]+1,      // deletion
				matrix[i][j-1]+1,      // insertion
				matrix[i-1][j-1]+cost, // substitution
			)
		}
	}

	return matrix[len(s1)][len(s2)]
}
