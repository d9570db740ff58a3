package lsp

import (
	"encoding/json"
	"sync"

	"github.com/inkwell-labs/journalint/pkg/lint"
)

// fixCache stores fixes from the last validation run, keyed by URI and
// rule ID, so codeAction requests can answer without re-running the
// pipeline.
type fixCache struct {
	mu    sync.RWMutex
	fixes map[string]map[string][]lint.Fix // URI -> RuleID -> []Fix
}

var globalFixCache = &fixCache{
	fixes: make(map[string]map[string][]lint.Fix),
}

// cacheFixes stores fixes for a URI and rule ID.
func (c *fixCache) cacheFixes(uri string, ruleID string, fixes []lint.Fix) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.fixes[uri] == nil {
		c.fixes[uri] = make(map[string][]lint.Fix)
	}
	c.fixes[uri][ruleID] = append(c.fixes[uri][ruleID], fixes...)
}

// getFixes retrieves fixes for a URI and rule ID.
func (c *fixCache) getFixes(uri string, ruleID string) []lint.Fix {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.fixes[uri] == nil {
		return nil
	}
	return c.fixes[uri][ruleID]
}

// clearURI removes all cached fixes for a URI.
func (c *fixCache) clearURI(uri string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.fixes, uri)
}

// handleCodeAction handles the textDocument/codeAction request.
func (s *Server) handleCodeAction(msg *JSONRPCMessage) error {
	var params CodeActionParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		s.sendResponse(msg.ID, nil, &JSONRPCError{Code: -32602, Message: err.Error()})
		return err
	}

	actions := s.getCodeActions(params)
	s.sendResponse(msg.ID, actions, nil)
	return nil
}

// getCodeActions returns quick fixes for the diagnostics the client
// asked about.
func (s *Server) getCodeActions(params CodeActionParams) []CodeAction {
	// Every action we produce is a quickfix; an Only filter that
	// excludes quickfix excludes everything.
	if len(params.Context.Only) > 0 {
		wanted := false
		for _, kind := range params.Context.Only {
			if kind == CodeActionKindQuickFix {
				wanted = true
				break
			}
		}
		if !wanted {
			return nil
		}
	}

	var actions []CodeAction
	for _, diag := range params.Context.Diagnostics {
		fixes := globalFixCache.getFixes(params.TextDocument.URI, diag.Code)
		if len(fixes) == 0 {
			continue
		}

		for _, fix := range fixes {
			action := CodeAction{
				Title:       fix.Description,
				Kind:        CodeActionKindQuickFix,
				Diagnostics: []Diagnostic{diag},
				IsPreferred: len(fixes) == 1, // Single fix is preferred
				Edit: &WorkspaceEdit{
					Changes: map[string][]TextEdit{
						params.TextDocument.URI: convertTextEdits(fix.TextEdits),
					},
				},
			}

			actions = append(actions, action)
		}
	}

	return actions
}

// convertTextEdits converts the engine's 1-based edits to LSP edits.
func convertTextEdits(edits []lint.TextEdit) []TextEdit {
	result := make([]TextEdit, len(edits))
	for i, edit := range edits {
		result[i] = TextEdit{
			Range: Range{
				Start: Position{
					Line:      uint32(max(0, edit.Pos.Line-1)),   //nolint:gosec // G115: line is always non-negative
					Character: uint32(max(0, edit.Pos.Column-1)), //nolint:gosec // G115: column is always non-negative
				},
				End: Position{
					Line:      uint32(max(0, edit.EndPos.Line-1)),   //nolint:gosec // G115: line is always non-negative
					Character: uint32(max(0, edit.EndPos.Column-1)), //nolint:gosec // G115: column is always non-negative
				},
			},
			NewText: edit.NewText,
		}
	}
	return result
}

// cacheDiagnosticFixes replaces the URI's cached fixes with those from
// a fresh validation run.
func (s *Server) cacheDiagnosticFixes(uri string, diagnostics []lint.Diagnostic) {
	globalFixCache.clearURI(uri)

	for _, diag := range diagnostics {
		if len(diag.Fixes) > 0 {
			globalFixCache.cacheFixes(uri, diag.RuleID, diag.Fixes)
		}
	}
}
